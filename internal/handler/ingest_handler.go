package handler

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"staybook/internal/config"
	"staybook/internal/domain"
	"staybook/internal/parser"
	"staybook/internal/service"
)

// IngestHandler handles reservation document upload endpoints.
type IngestHandler struct {
	ingestService service.IngestService
	cfg           config.IngestConfig
	parserCfg     config.ParserConfig
	logger        *zap.Logger
}

// NewIngestHandler creates a new IngestHandler.
func NewIngestHandler(ingestService service.IngestService, cfg config.IngestConfig, parserCfg config.ParserConfig, logger *zap.Logger) *IngestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IngestHandler{ingestService: ingestService, cfg: cfg, parserCfg: parserCfg, logger: logger}
}

// Upload handles POST /api/v1/ingest/upload
// @Summary Extract reservations from one document
// @Description Upload one PDF or image (max 10MB). Candidates are resolved, validated and checked for duplicates but not saved.
// @Tags ingest
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Booking document (PDF, JPEG, PNG or WebP)"
// @Success 200 {object} UploadResponse "Extraction result; success is false when the file could not be processed"
// @Failure 400 {object} ErrorResponseBody "Missing file or unsupported type"
// @Failure 413 {object} ErrorResponseBody "File too large"
// @Router /ingest/upload [post]
func (h *IngestHandler) Upload(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return
	}

	doc, err := h.readUpload(header)
	if err != nil {
		HandleError(c, h.logger, err)
		return
	}

	out := h.ingestService.ProcessFile(c.Request.Context(), doc)
	c.JSON(http.StatusOK, UploadResponse{
		Success:       out.Result.Success,
		Type:          string(out.Result.Type),
		Reservations:  out.Reservations,
		ExtractedText: out.ExtractedText,
		Error:         out.Result.Error,
		Warning:       out.Result.Warning,
	})
}

// UploadMultiple handles POST /api/v1/ingest/upload-multiple
// @Summary Ingest a batch of documents
// @Description Upload up to 10 documents. Every file is processed; candidates that pass resolution, validation and duplicate checks are saved unless autoSave is false.
// @Tags ingest
// @Accept multipart/form-data
// @Produce json
// @Param files formData file true "Booking documents" collectionFormat(multi)
// @Param autoSave query bool false "Persist accepted candidates (default from configuration)"
// @Success 200 {object} BatchResponse "Batch report"
// @Failure 400 {object} ErrorResponseBody "No files, too many files, or unsupported type"
// @Failure 413 {object} ErrorResponseBody "File too large"
// @Router /ingest/upload-multiple [post]
func (h *IngestHandler) UploadMultiple(c *gin.Context) {
	autoSave := h.cfg.AutoSave
	if raw := c.Query("autoSave"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "INVALID_QUERY", "autoSave must be true or false")
			return
		}
		autoSave = v
	}

	form, err := c.MultipartForm()
	if err != nil {
		HandleError(c, h.logger, domain.ErrNoFiles)
		return
	}
	headers := form.File["files"]
	if len(headers) == 0 {
		HandleError(c, h.logger, domain.ErrNoFiles)
		return
	}
	if h.cfg.MaxFiles > 0 && len(headers) > h.cfg.MaxFiles {
		HandleError(c, h.logger, fmt.Errorf("%w: got %d, limit is %d", domain.ErrTooManyFiles, len(headers), h.cfg.MaxFiles))
		return
	}

	docs := make([]domain.RawDocument, 0, len(headers))
	for _, fh := range headers {
		doc, err := h.readUpload(fh)
		if err != nil {
			HandleError(c, h.logger, err)
			return
		}
		docs = append(docs, doc)
	}

	result := h.ingestService.ProcessBatch(c.Request.Context(), docs, service.BatchOptions{AutoSave: autoSave})
	c.JSON(http.StatusOK, BatchResponse{Type: "multiple-files", BatchResult: result})
}

// Confirm handles POST /api/v1/ingest/confirm
// @Summary Save operator-reviewed reservations
// @Description Re-runs property resolution, validation and duplicate checks on the submitted candidates and saves the ones that pass.
// @Tags ingest
// @Accept json
// @Produce json
// @Param body body ConfirmRequest true "Reviewed candidates"
// @Success 200 {object} BatchResponse "Save report"
// @Failure 400 {object} ErrorResponseBody "Malformed body or empty list"
// @Failure 500 {object} ErrorResponseBody "Property catalog unavailable"
// @Router /ingest/confirm [post]
func (h *IngestHandler) Confirm(c *gin.Context) {
	var req ConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_BODY", "body must be {\"reservations\": [...]}")
		return
	}

	result, err := h.ingestService.ConfirmCandidates(c.Request.Context(), req.Reservations)
	if err != nil {
		HandleError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, BatchResponse{Type: "confirm", BatchResult: result})
}

// Status handles GET /api/v1/ingest/status
// @Summary Ingestion capabilities
// @Tags ingest
// @Produce json
// @Success 200 {object} StatusResponse
// @Router /ingest/status [get]
func (h *IngestHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, StatusResponse{
		APIKeyConfigured: h.parserCfg.APIKeyConfigured(),
		Provider:         h.parserCfg.PrimaryConfig().Provider,
		SupportedFormats: domain.SupportedFormats,
		MaxFileSizeMB:    h.cfg.MaxFileSizeMB,
		MaxFiles:         h.cfg.MaxFiles,
		PromptVersion:    parser.PromptVersion,
	})
}

// readUpload checks and reads one multipart file.
func (h *IngestHandler) readUpload(fh *multipart.FileHeader) (domain.RawDocument, error) {
	mt, err := h.ingestService.CheckUpload(fh.Filename, fh.Header.Get("Content-Type"), fh.Size)
	if err != nil {
		return domain.RawDocument{}, err
	}

	f, err := fh.Open()
	if err != nil {
		return domain.RawDocument{}, fmt.Errorf("opening upload %s: %w", fh.Filename, err)
	}
	defer func() { _ = f.Close() }()

	content, err := io.ReadAll(f)
	if err != nil {
		return domain.RawDocument{}, fmt.Errorf("reading upload %s: %w", fh.Filename, err)
	}
	return domain.RawDocument{Filename: fh.Filename, MediaType: string(mt), Content: content}, nil
}
