// @title Staybook Reservation Ingestion API
// @version 1.0
// @description Extracts reservations from booking documents, resolves properties, validates, de-duplicates and saves them.
// @BasePath /api/v1
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"staybook/internal/config"
	"staybook/internal/handler"
	"staybook/internal/logger"
	"staybook/internal/metrics"
	noopnotify "staybook/internal/notify/noop"
	sesnotify "staybook/internal/notify/ses"
	"staybook/internal/parser"
	"staybook/internal/parser/providers"
	"staybook/internal/port"
	"staybook/internal/property"
	"staybook/internal/repository/postgres"
	"staybook/internal/router"
	"staybook/internal/service"
	s3storage "staybook/internal/storage/s3"
	"staybook/internal/textextract"
	"staybook/internal/validator"
	"staybook/internal/validator/reservation"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	zl, err := logger.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = zl.Sync() }()

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	propertyRepo := postgres.NewPropertyRepo(db)
	reservationRepo := postgres.NewReservationRepo(db)

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}

	// Generative model chain; nil when no API key is configured.
	model, err := providers.Build(&cfg.Parser, cfg.Resilience, m, zl.Named("model"))
	if err != nil {
		return fmt.Errorf("failed to initialize model providers: %w", err)
	}
	var extractor service.ReservationExtractor
	if model != nil {
		extractor = parser.NewReservationExtractor(model, cfg.Ingest.ReviewConfidence, zl.Named("extractor"))
	}

	opts := []service.IngestOption{service.WithMetrics(m)}
	if cfg.S3.Bucket != "" {
		storage, err := s3storage.NewS3Client(&cfg.S3)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 client: %w", err)
		}
		opts = append(opts, service.WithArchive(storage, cfg.Ingest.ArchiveUploads))
	}
	notifier, err := newNotifier(&cfg.Notify, zl)
	if err != nil {
		return fmt.Errorf("failed to initialize notifier: %w", err)
	}
	opts = append(opts, service.WithNotifier(notifier))

	// Initialize services
	engine := validator.NewEngine(validator.NewDefaultRegistry(reservation.Options{
		MaxStayNights:    cfg.Ingest.MaxStayNights,
		ReviewConfidence: cfg.Ingest.ReviewConfidence,
	}), zl.Named("validator"))
	ingestSvc := service.NewIngestService(
		textextract.NewExtractor(model, zl.Named("textextract")),
		extractor,
		property.NewResolver(zl.Named("resolver")),
		engine,
		propertyRepo,
		reservationRepo,
		cfg.Ingest,
		zl.Named("ingest"),
		opts...,
	)

	// Initialize handlers
	ingestH := handler.NewIngestHandler(ingestSvc, cfg.Ingest, cfg.Parser, zl.Named("http"))
	healthH := handler.NewHealthHandler(db)

	// Setup router
	r := router.Setup(cfg, zl.Named("http"), m, ingestH, healthH)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		zl.Info("server.run: listening", zap.String("addr", cfg.Server.Port),
			zap.Bool("model_configured", model != nil))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	zl.Info("server.run: shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

func newNotifier(cfg *config.NotifyConfig, zl *zap.Logger) (port.BatchNotifier, error) {
	switch cfg.Provider {
	case "ses":
		return sesnotify.NewSESNotifier(cfg)
	case "", "noop":
		return noopnotify.NewNoopNotifier(zl.Named("notify")), nil
	default:
		return nil, fmt.Errorf("unknown notify provider: %s", cfg.Provider)
	}
}
