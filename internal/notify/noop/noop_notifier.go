package noop

import (
	"context"

	"go.uber.org/zap"

	"staybook/internal/port"
)

type noopNotifier struct {
	logger *zap.Logger
}

// NewNoopNotifier creates a BatchNotifier that only logs the notice.
func NewNoopNotifier(logger *zap.Logger) port.BatchNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &noopNotifier{logger: logger}
}

func (n *noopNotifier) NotifyBatchReview(_ context.Context, notice port.BatchReviewNotice) error {
	n.logger.Info("noop.NotifyBatchReview: batch needs review",
		zap.String("batch_id", notice.BatchID),
		zap.Int("files", notice.FileCount),
		zap.Int("duplicates", notice.Summary.Duplicates),
		zap.Int("invalid", notice.Summary.Invalid),
		zap.Int("unresolved", notice.Summary.Unresolved),
		zap.Int("needs_review", notice.Summary.NeedsReview),
		zap.String("review_url", notice.ReviewURL))
	return nil
}
