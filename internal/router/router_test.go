package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"staybook/internal/config"
	"staybook/internal/handler"
	"staybook/internal/metrics"
	"staybook/internal/router"
	"staybook/mocks"
)

func TestSetup_Routes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		Ingest:  config.IngestConfig{MaxFileSizeMB: 10, MaxFiles: 10},
		Metrics: config.MetricsConfig{Enabled: true, Path: "/metrics"},
	}
	ingestH := handler.NewIngestHandler(new(mocks.MockIngestService), cfg.Ingest, cfg.Parser, nil)
	r := router.Setup(cfg, zap.NewNop(), metrics.New(), ingestH, handler.NewHealthHandler(nil))

	tests := []struct {
		path   string
		status int
	}{
		{"/healthz", http.StatusOK},
		{"/api/v1/ingest/status", http.StatusOK},
		{"/metrics", http.StatusOK},
		{"/swagger/doc.json", http.StatusOK},
		{"/api/v1/unknown", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.status, w.Code)
			assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
		})
	}
}

func TestSetup_WithoutMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{Metrics: config.MetricsConfig{Path: "/metrics"}}
	ingestH := handler.NewIngestHandler(new(mocks.MockIngestService), cfg.Ingest, cfg.Parser, nil)
	r := router.Setup(cfg, zap.NewNop(), nil, ingestH, handler.NewHealthHandler(nil))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
