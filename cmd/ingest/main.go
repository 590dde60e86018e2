// Command ingest runs a batch of local booking documents through the
// ingestion pipeline and optionally writes a review sheet.
// Usage: go run ./cmd/ingest [-save] [-csv dir] file...
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"staybook/internal/config"
	"staybook/internal/csvexport"
	"staybook/internal/domain"
	"staybook/internal/logger"
	"staybook/internal/parser"
	"staybook/internal/parser/providers"
	"staybook/internal/property"
	"staybook/internal/repository/postgres"
	"staybook/internal/service"
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
	save := flag.Bool("save", false, "save clean reservations instead of only reporting them")
	csvDir := flag.String("csv", "", "directory to write the review sheet to")
	timeout := flag.Duration("timeout", 10*time.Minute, "overall batch timeout")
	flag.Parse()

	files := flag.Args()
	if len(files) == 0 {
		return fmt.Errorf("usage: ingest [-save] [-csv dir] file")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	zl, err := logger.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer func() { _ = zl.Sync() }()

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer func() { _ = db.Close() }()

	model, err := providers.Build(&cfg.Parser, cfg.Resilience, nil, zl.Named("model"))
	if err != nil {
		return fmt.Errorf("initializing model providers: %w", err)
	}
	if model == nil {
		return domain.ErrModelNotConfigured
	}

	svc := service.NewIngestService(
		textextract.NewExtractor(model, zl.Named("textextract")),
		parser.NewReservationExtractor(model, cfg.Ingest.ReviewConfidence, zl.Named("extractor")),
		property.NewResolver(zl.Named("resolver")),
		validator.NewEngine(validator.NewDefaultRegistry(reservation.Options{
			MaxStayNights:    cfg.Ingest.MaxStayNights,
			ReviewConfidence: cfg.Ingest.ReviewConfidence,
		}), zl.Named("validator")),
		postgres.NewPropertyRepo(db),
		postgres.NewReservationRepo(db),
		cfg.Ingest,
		zl.Named("ingest"),
	)

	docs := make([]domain.RawDocument, 0, len(files))
	for _, path := range files {
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		name := filepath.Base(path)
		mt, err := svc.CheckUpload(name, "", info.Size())
		if err != nil {
			return err
		}
		docs = append(docs, domain.RawDocument{Filename: name, MediaType: string(mt), Path: path})
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	result := svc.ProcessBatch(ctx, docs, service.BatchOptions{AutoSave: *save})
	zl.Info("ingest: batch finished",
		zap.String("batch_id", result.BatchID),
		zap.Bool("success", result.Success),
		zap.String("message", result.Message),
		zap.Int("reservations", result.TotalReservations),
		zap.Int("saved", result.SavedCount),
		zap.Int("needs_review", result.Summary.NeedsReview),
		zap.Int("duplicates", result.Summary.Duplicates),
		zap.Int("invalid", result.Summary.Invalid),
		zap.Int("unresolved", result.Summary.Unresolved),
	)
	for _, fr := range result.FileResults {
		if !fr.Success {
			zl.Warn("ingest: file failed", zap.String("file", fr.Filename), zap.String("error", fr.Error))
		}
	}

	if *csvDir == "" {
		return nil
	}
	out := filepath.Join(*csvDir, csvexport.BuildFilename(result.BatchID, time.Now()))
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("creating review sheet: %w", err)
	}
	defer func() { _ = f.Close() }()
	if err := csvexport.WriteBatch(f, result); err != nil {
		return fmt.Errorf("writing review sheet: %w", err)
	}
	zl.Info("ingest: review sheet written", zap.String("path", out))
	return nil
}
