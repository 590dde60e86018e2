package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"staybook/internal/config"
	"staybook/internal/csvexport"
	"staybook/internal/domain"
	"staybook/internal/metrics"
	"staybook/internal/parser"
	"staybook/internal/port"
)

const reviewLinkExpiry = 7 * 24 * time.Hour

// TextExtractor turns an upload into plain text.
type TextExtractor interface {
	Extract(ctx context.Context, doc domain.RawDocument) (*domain.ExtractedText, error)
}

// ReservationExtractor turns document text into candidate reservations.
type ReservationExtractor interface {
	ExtractReservations(ctx context.Context, text string, docType domain.DocumentType) ([]domain.CandidateReservation, error)
}

// PropertyResolver maps a free-text property name onto the catalog.
type PropertyResolver interface {
	Resolve(name string, catalog []domain.Property) *domain.PropertyMatch
}

// CandidateValidator checks a candidate reservation.
type CandidateValidator interface {
	Validate(ctx context.Context, c *domain.CandidateReservation) domain.ValidationResult
}

// BatchOptions controls one ProcessBatch call.
type BatchOptions struct {
	AutoSave bool
}

// FileOutcome is the result of processing a single upload without persisting it.
type FileOutcome struct {
	Result        domain.FileResult
	Reservations  []domain.CandidateReservation
	ExtractedText string
}

// IngestService drives uploaded booking documents through extraction,
// resolution, validation, duplicate detection and persistence.
type IngestService interface {
	CheckUpload(filename, contentType string, size int64) (domain.MediaType, error)
	ProcessFile(ctx context.Context, doc domain.RawDocument) *FileOutcome
	ProcessBatch(ctx context.Context, docs []domain.RawDocument, opts BatchOptions) *domain.BatchResult
	ConfirmCandidates(ctx context.Context, candidates []domain.CandidateReservation) (*domain.BatchResult, error)
}

// IngestOption configures optional collaborators of the ingest service.
type IngestOption func(*ingestService)

// WithArchive stores raw uploads and review sheets in storage.
func WithArchive(storage port.ObjectStorage, archiveUploads bool) IngestOption {
	return func(s *ingestService) {
		s.storage = storage
		s.archiveUploads = archiveUploads
	}
}

// WithNotifier sends a review notice for batches that need operator attention.
func WithNotifier(n port.BatchNotifier) IngestOption {
	return func(s *ingestService) { s.notifier = n }
}

// WithMetrics records pipeline metrics.
func WithMetrics(m *metrics.Metrics) IngestOption {
	return func(s *ingestService) { s.metrics = m }
}

type ingestService struct {
	text      TextExtractor
	extractor ReservationExtractor
	resolver  PropertyResolver
	validator CandidateValidator
	catalog   port.PropertyCatalog
	persister *persister
	cfg       config.IngestConfig
	logger    *zap.Logger

	storage        port.ObjectStorage
	archiveUploads bool
	notifier       port.BatchNotifier
	metrics        *metrics.Metrics
	now            func() time.Time
}

// NewIngestService creates a new IngestService implementation. extractor may
// be nil when no generative model is configured; every file then fails with
// domain.ErrModelNotConfigured.
func NewIngestService(
	text TextExtractor,
	extractor ReservationExtractor,
	resolver PropertyResolver,
	validator CandidateValidator,
	catalog port.PropertyCatalog,
	store port.ReservationStore,
	cfg config.IngestConfig,
	logger *zap.Logger,
	opts ...IngestOption,
) IngestService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &ingestService{
		text:      text,
		extractor: extractor,
		resolver:  resolver,
		validator: validator,
		catalog:   catalog,
		persister: &persister{store: store, concurrency: cfg.PersistConcurrency, logger: logger},
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CheckUpload rejects uploads that are too large or of an unsupported type.
func (s *ingestService) CheckUpload(filename, contentType string, size int64) (domain.MediaType, error) {
	if limit := s.cfg.MaxFileSizeBytes(); limit > 0 && size > limit {
		return "", fmt.Errorf("%w: %s is %d bytes, limit is %d MB", domain.ErrFileTooLarge, filename, size, s.cfg.MaxFileSizeMB)
	}
	mt, ok := domain.ResolveMediaType(contentType, filename)
	if !ok {
		return "", fmt.Errorf("%w: %s (%s); supported formats: %s", domain.ErrUnsupportedFileType,
			filename, contentType, strings.Join(domain.SupportedFormats, ", "))
	}
	return mt, nil
}

func (s *ingestService) ProcessFile(ctx context.Context, doc domain.RawDocument) *FileOutcome {
	result, candidates, text := s.extractFile(ctx, doc)
	out := &FileOutcome{Result: result, Reservations: candidates}
	if s.cfg.IncludeExtractedText {
		out.ExtractedText = text
	}
	if len(candidates) == 0 {
		return out
	}

	catalog, err := s.loadCatalog(ctx)
	if err != nil {
		s.logger.Error("service.IngestService.ProcessFile: property catalog unavailable", zap.Error(err))
	}
	s.enrich(ctx, candidates, catalog)
	items := s.persister.run(ctx, candidates, false)
	for i := range candidates {
		applyItem(&candidates[i], items[i])
	}
	return out
}

func (s *ingestService) ProcessBatch(ctx context.Context, docs []domain.RawDocument, opts BatchOptions) *domain.BatchResult {
	batchID := uuid.NewString()
	logger := s.logger.With(zap.String("batch_id", batchID))
	result := &domain.BatchResult{
		BatchID:      batchID,
		Reservations: []domain.CandidateReservation{},
		FileResults:  make([]domain.FileResult, 0, len(docs)),
		SaveErrors:   []domain.SaveError{},
		AutoSaved:    opts.AutoSave,
	}

	if len(docs) == 0 {
		result.Message = domain.ErrNoFiles.Error()
		s.metrics.ObserveBatch(false)
		return result
	}

	var all []domain.CandidateReservation
	for i := range docs {
		if s.archiveUploads {
			s.archive(ctx, batchID, i, &docs[i])
		}
		fr, candidates, _ := s.extractFile(ctx, docs[i])
		result.FileResults = append(result.FileResults, fr)
		all = append(all, candidates...)
	}
	result.TotalReservations = len(all)

	if len(all) == 0 {
		result.Message = fmt.Sprintf("No reservations could be extracted from %d file(s)", len(docs))
		logger.Warn("service.IngestService.ProcessBatch: no reservations extracted", zap.Int("files", len(docs)))
		s.metrics.ObserveBatch(false)
		return result
	}

	catalog, err := s.loadCatalog(ctx)
	if err != nil {
		logger.Error("service.IngestService.ProcessBatch: property catalog unavailable", zap.Error(err))
	}
	s.enrich(ctx, all, catalog)

	items := s.persister.run(ctx, all, opts.AutoSave)
	s.collect(result, all, items, opts.AutoSave)

	result.Success = true
	result.Message = batchMessage(result, len(docs))
	s.metrics.ObserveBatch(true)

	logger.Info("service.IngestService.ProcessBatch: batch complete",
		zap.Int("files", len(docs)),
		zap.Int("reservations", result.TotalReservations),
		zap.Int("saved", result.SavedCount),
		zap.Int("duplicates", result.Summary.Duplicates),
		zap.Int("invalid", result.Summary.Invalid),
		zap.Int("unresolved", result.Summary.Unresolved))

	s.requestReview(ctx, result, len(docs))
	return result
}

func (s *ingestService) ConfirmCandidates(ctx context.Context, candidates []domain.CandidateReservation) (*domain.BatchResult, error) {
	if len(candidates) == 0 {
		return nil, domain.ErrNoReservations
	}
	catalog, err := s.loadCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading property catalog: %w", err)
	}

	all := make([]domain.CandidateReservation, len(candidates))
	for i := range candidates {
		c := candidates[i]
		c.Outcome, c.Duplicate, c.Validation, c.SavedReservationID = "", nil, nil, 0
		if c.ReservationID == "" {
			c.ReservationID = parser.ReservationID(c.GuestName, c.CheckInDate, c.Platform)
		}
		all[i] = c
	}
	s.enrich(ctx, all, catalog)

	result := &domain.BatchResult{
		BatchID:           uuid.NewString(),
		Reservations:      []domain.CandidateReservation{},
		FileResults:       []domain.FileResult{},
		SaveErrors:        []domain.SaveError{},
		TotalReservations: len(all),
		AutoSaved:         true,
	}
	items := s.persister.run(ctx, all, true)
	s.collect(result, all, items, true)
	result.Success = result.SavedCount > 0
	result.Message = fmt.Sprintf("Saved %d of %d reservation(s)", result.SavedCount, len(all))

	s.logger.Info("service.IngestService.ConfirmCandidates: confirmed",
		zap.String("batch_id", result.BatchID), zap.Int("submitted", len(all)), zap.Int("saved", result.SavedCount))
	return result, nil
}

// extractFile runs text extraction, classification and structured extraction
// for one file. Failures are reported in the FileResult and never returned.
func (s *ingestService) extractFile(ctx context.Context, doc domain.RawDocument) (domain.FileResult, []domain.CandidateReservation, string) {
	start := s.now()
	result := domain.FileResult{Filename: doc.Filename, Type: domain.DocumentTypeUnknown}
	fail := func(err error) (domain.FileResult, []domain.CandidateReservation, string) {
		result.Error = err.Error()
		s.logger.Warn("service.IngestService.extractFile: file failed",
			zap.String("file", doc.Filename), zap.Error(err))
		s.metrics.ObserveFile(result.Type, false, s.now().Sub(start))
		return result, []domain.CandidateReservation{}, ""
	}

	if s.extractor == nil {
		return fail(domain.ErrModelNotConfigured)
	}
	text, err := s.text.Extract(ctx, doc)
	if err != nil {
		return fail(err)
	}

	result.Type = parser.Classify(text.Text)
	candidates, err := s.extractor.ExtractReservations(ctx, text.Text, result.Type)
	switch {
	case errors.Is(err, domain.ErrModelOutputUnusable):
		result.Warning = err.Error()
		s.logger.Warn("service.IngestService.extractFile: no usable model output",
			zap.String("file", doc.Filename), zap.Error(err))
	case err != nil:
		return fail(fmt.Errorf("extracting reservations: %w", err))
	}
	for i := range candidates {
		candidates[i].SourceFile = doc.Filename
		candidates[i].DocumentType = result.Type
	}

	result.Success = true
	result.ReservationCount = len(candidates)
	s.metrics.ObserveFile(result.Type, true, s.now().Sub(start))
	s.logger.Info("service.IngestService.extractFile: file processed",
		zap.String("file", doc.Filename),
		zap.String("type", string(result.Type)),
		zap.String("method", text.Method),
		zap.Int("reservations", len(candidates)))
	return result, candidates, text.Text
}

func (s *ingestService) loadCatalog(ctx context.Context) ([]domain.Property, error) {
	if s.catalog == nil {
		return nil, nil
	}
	return s.catalog.ListProperties(ctx)
}

// enrich resolves the property, derives fees and validates every candidate.
// An operator-chosen property id that exists in the catalog is kept.
func (s *ingestService) enrich(ctx context.Context, candidates []domain.CandidateReservation, catalog []domain.Property) {
	byID := make(map[int64]*domain.Property, len(catalog))
	for i := range catalog {
		byID[catalog[i].ID] = &catalog[i]
	}

	for i := range candidates {
		c := &candidates[i]
		var prop *domain.Property
		if p, ok := byID[c.PropertyID]; ok && c.PropertyID != 0 {
			prop = p
			c.PropertyMatchScore = 100
		} else {
			c.PropertyID, c.ResolvedProperty, c.PropertyMatchScore = 0, "", 0
			if m := s.resolver.Resolve(c.PropertyName, catalog); m != nil {
				prop = byID[m.Property.ID]
				c.PropertyMatchScore = m.Score
				s.metrics.ObserveMatchScore(m.Score)
			}
		}
		if prop != nil {
			c.PropertyID = prop.ID
			c.ResolvedProperty = prop.Name
			ApplyFees(c, prop)
		}

		v := s.validator.Validate(ctx, c)
		c.Validation = &v
		if v.Outcome != domain.ValidationValid {
			c.NeedsReview = true
		}
	}
}

// collect copies item outcomes onto the candidates and fills the batch bookkeeping.
func (s *ingestService) collect(result *domain.BatchResult, all []domain.CandidateReservation, items []domain.ItemResult, saving bool) {
	for i := range all {
		c := &all[i]
		item := items[i]
		applyItem(c, item)
		s.metrics.ObserveCandidate(item.Outcome)

		if c.Validation != nil {
			switch c.Validation.Outcome {
			case domain.ValidationValid:
				result.Summary.Valid++
			case domain.ValidationNeedsReview:
				result.Summary.NeedsReview++
			case domain.ValidationInvalid:
				result.Summary.Invalid++
			}
		}
		switch item.Outcome {
		case domain.OutcomeDuplicate:
			result.Summary.Duplicates++
		case domain.OutcomeUnresolved:
			result.Summary.Unresolved++
		case domain.OutcomeSaved:
			result.Summary.Saved++
			result.SavedCount++
		case domain.OutcomeSaveFailed:
			result.Summary.FailedToSave++
		}

		if saving && item.Err != nil {
			result.SaveErrors = append(result.SaveErrors, domain.SaveError{
				Index:     i,
				Filename:  c.SourceFile,
				GuestName: c.GuestName,
				Error:     saveErrorMessage(c, item),
			})
		}
	}
	result.Reservations = all
}

func applyItem(c *domain.CandidateReservation, item domain.ItemResult) {
	c.Outcome = item.Outcome
	c.Duplicate = item.Duplicate
	if item.Saved != nil {
		c.SavedReservationID = item.Saved.ID
	}
}

func saveErrorMessage(c *domain.CandidateReservation, item domain.ItemResult) string {
	switch item.Outcome {
	case domain.OutcomeUnresolved:
		return fmt.Sprintf("Property not found: %q", c.PropertyName)
	case domain.OutcomeDuplicate:
		if d := item.Duplicate; d != nil {
			return fmt.Sprintf("Duplicate of reservation #%d (%s to %s, total %.2f)", d.ReservationID, d.CheckInDate, d.CheckOutDate, d.TotalAmount)
		}
	}
	return item.Err.Error()
}

func batchMessage(r *domain.BatchResult, files int) string {
	msg := fmt.Sprintf("Processed %d file(s): %d reservation(s) extracted", files, r.TotalReservations)
	if r.AutoSaved {
		msg += fmt.Sprintf(", %d saved", r.SavedCount)
	}
	if n := len(r.SaveErrors); n > 0 {
		msg += fmt.Sprintf(", %d not saved", n)
	}
	return msg
}

// archive stores the raw upload. Failures are logged and ignored.
func (s *ingestService) archive(ctx context.Context, batchID string, index int, doc *domain.RawDocument) {
	if s.storage == nil {
		return
	}
	var body io.Reader
	size := int64(len(doc.Content))
	switch {
	case len(doc.Content) > 0:
		body = bytes.NewReader(doc.Content)
	case doc.Path != "":
		f, err := os.Open(doc.Path)
		if err != nil {
			s.logger.Warn("service.IngestService.archive: cannot open upload", zap.String("file", doc.Filename), zap.Error(err))
			return
		}
		defer func() { _ = f.Close() }()
		if st, err := f.Stat(); err == nil {
			size = st.Size()
		}
		body = f
	default:
		return
	}

	key := fmt.Sprintf("uploads/%s/%02d-%s", batchID, index+1, path.Base(doc.Filename))
	if _, err := s.storage.Put(ctx, port.PutObjectInput{Key: key, Body: body, ContentType: doc.MediaType, Size: size}); err != nil {
		s.logger.Warn("service.IngestService.archive: upload archive failed", zap.String("key", key), zap.Error(err))
	}
}

// requestReview exports a review sheet and notifies the operator when a batch
// left anything that was not saved cleanly. Failures are logged and ignored.
func (s *ingestService) requestReview(ctx context.Context, result *domain.BatchResult, files int) {
	sum := result.Summary
	if sum.Duplicates+sum.Invalid+sum.Unresolved+sum.FailedToSave+sum.NeedsReview == 0 {
		return
	}

	var reviewURL string
	if s.storage != nil {
		var buf bytes.Buffer
		if err := csvexport.WriteBatch(&buf, result); err != nil {
			s.logger.Warn("service.IngestService.requestReview: review export failed", zap.Error(err))
		} else {
			key := "reviews/" + csvexport.BuildFilename(result.BatchID, s.now())
			if _, err := s.storage.Put(ctx, port.PutObjectInput{Key: key, Body: &buf, ContentType: "text/csv", Size: int64(buf.Len())}); err != nil {
				s.logger.Warn("service.IngestService.requestReview: review upload failed", zap.String("key", key), zap.Error(err))
			} else if url, err := s.storage.PresignGet(ctx, key, reviewLinkExpiry); err == nil {
				reviewURL = url
			}
		}
	}

	if s.notifier == nil {
		return
	}
	err := s.notifier.NotifyBatchReview(ctx, port.BatchReviewNotice{
		BatchID:   result.BatchID,
		FileCount: files,
		Summary:   sum,
		ReviewURL: reviewURL,
	})
	if err != nil {
		s.logger.Warn("service.IngestService.requestReview: notification failed",
			zap.String("batch_id", result.BatchID), zap.Error(err))
	}
}
