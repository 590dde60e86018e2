package noop_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"staybook/internal/domain"
	"staybook/internal/notify/noop"
	"staybook/internal/port"
)

func TestNoopNotifier_Logs(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	n := noop.NewNoopNotifier(zap.New(core))

	err := n.NotifyBatchReview(context.Background(), port.BatchReviewNotice{
		BatchID: "b1", FileCount: 2, Summary: domain.BatchSummary{Duplicates: 1},
	})

	require.NoError(t, err)
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "b1", entry.ContextMap()["batch_id"])
	assert.Equal(t, int64(1), entry.ContextMap()["duplicates"])
}
