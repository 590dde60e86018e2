package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "staybook/docs"
	"staybook/internal/config"
	"staybook/internal/handler"
	"staybook/internal/metrics"
	"staybook/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware. m may be nil
// when metrics are disabled.
func Setup(
	cfg *config.Config,
	logger *zap.Logger,
	m *metrics.Metrics,
	ingestH *handler.IngestHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()
	r.MaxMultipartMemory = cfg.Ingest.MaxFileSizeBytes()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
	if m != nil {
		r.Use(middleware.Metrics(m))
		r.GET(cfg.Metrics.Path, gin.WrapH(m.Handler()))
	}

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	// API docs
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")

	ingest := v1.Group("/ingest")
	ingest.POST("/upload", ingestH.Upload)
	ingest.POST("/upload-multiple", ingestH.UploadMultiple)
	ingest.POST("/confirm", ingestH.Confirm)
	ingest.GET("/status", ingestH.Status)

	return r
}
