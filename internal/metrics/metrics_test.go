package metrics_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"staybook/internal/domain"
	"staybook/internal/metrics"
	"staybook/internal/port"
	"staybook/mocks"
)

func TestNilMetricsIsNoop(t *testing.T) {
	var m *metrics.Metrics

	assert.NotPanics(t, func() {
		m.StartRequest()
		m.FinishRequest("GET", "/x", 200, time.Millisecond)
		m.ObserveFile(domain.DocumentTypeCheckIn, true, time.Second)
		m.ObserveCandidate(domain.OutcomeSaved)
		m.ObserveBatch(true)
		m.ObserveModelCall("generate", nil)
		m.ObserveMatchScore(80)
	})
}

func TestHandler_ExposesPipelineMetrics(t *testing.T) {
	m := metrics.New()
	m.ObserveFile(domain.DocumentTypeCheckIn, true, 2*time.Second)
	m.ObserveFile("", false, time.Second)
	m.ObserveCandidate(domain.OutcomeDuplicate)
	m.ObserveBatch(false)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `staybook_ingest_files_total{status="success",type="check-in"} 1`)
	assert.Contains(t, body, `staybook_ingest_files_total{status="error",type="unknown"} 1`)
	assert.Contains(t, body, `staybook_ingest_candidates_total{outcome="duplicate"} 1`)
	assert.Contains(t, body, `staybook_ingest_batches_total{success="false"} 1`)
	assert.Contains(t, body, "go_goroutines")
}

func TestFinishRequest_StatusClasses(t *testing.T) {
	m := metrics.New()
	m.StartRequest()
	m.FinishRequest("POST", "/api/v1/ingest/upload", 415, 10*time.Millisecond)
	m.StartRequest()
	m.FinishRequest("POST", "/api/v1/ingest/upload", 200, 10*time.Millisecond)

	count, err := testutil.GatherAndCount(m.Registry(), "staybook_http_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestInstrumentModel(t *testing.T) {
	m := metrics.New()
	inner := new(mocks.MockGenerativeModel)
	inner.On("Generate", mock.Anything, mock.Anything).Return(&port.ModelOutput{Text: "[]"}, nil).Once()
	inner.On("Transcribe", mock.Anything, mock.Anything).Return(nil, errors.New("boom")).Once()
	inner.On("Name").Return("gemini:flash")

	model := metrics.InstrumentModel(inner, m)
	_, err := model.Generate(context.Background(), port.GenerateInput{Prompt: "p"})
	require.NoError(t, err)
	_, err = model.Transcribe(context.Background(), port.TranscribeInput{})
	require.Error(t, err)
	assert.Equal(t, "gemini:flash", model.Name())

	count, err := testutil.GatherAndCount(m.Registry(), "staybook_model_calls_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	inner.AssertExpectations(t)
}

func TestInstrumentModel_NilMetricsReturnsInner(t *testing.T) {
	inner := new(mocks.MockGenerativeModel)
	assert.Same(t, inner, metrics.InstrumentModel(inner, nil))
}
