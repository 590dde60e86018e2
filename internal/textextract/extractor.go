package textextract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"

	"staybook/internal/domain"
	"staybook/internal/parser"
	"staybook/internal/port"
)

// Extractor turns raw uploads into plain text. PDFs are read from their text
// layer; images are transcribed by a vision-capable model.
type Extractor struct {
	vision port.GenerativeModel
	logger *zap.Logger
}

// NewExtractor creates an Extractor. vision may be nil, in which case image
// uploads fail with domain.ErrModelNotConfigured.
func NewExtractor(vision port.GenerativeModel, logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{vision: vision, logger: logger}
}

// Extract returns the text of doc. Every failure is a *domain.ExtractionError.
func (e *Extractor) Extract(ctx context.Context, doc domain.RawDocument) (*domain.ExtractedText, error) {
	content := doc.Content
	if len(content) == 0 {
		if doc.Path == "" {
			return nil, domain.NewExtractionError(doc.Filename, domain.StageRead, errors.New("no content or path provided"))
		}
		b, err := os.ReadFile(doc.Path)
		if err != nil {
			return nil, domain.NewExtractionError(doc.Filename, domain.StageRead, err)
		}
		if len(b) == 0 {
			return nil, domain.NewExtractionError(doc.Filename, domain.StageRead, fmt.Errorf("%s is empty", doc.Path))
		}
		content = b
	}

	mediaType, ok := domain.ResolveMediaType(doc.MediaType, doc.Filename)
	if !ok {
		mediaType, ok = domain.ResolveMediaType(http.DetectContentType(content), "")
	}
	if !ok {
		return nil, domain.NewExtractionError(doc.Filename, domain.StageType,
			fmt.Errorf("%w: %q", domain.ErrUnsupportedFileType, doc.MediaType))
	}

	if mediaType == domain.MediaTypePDF {
		return e.extractPDF(doc.Filename, content)
	}
	return e.transcribe(ctx, doc.Filename, mediaType, content)
}

func (e *Extractor) extractPDF(filename string, content []byte) (result *domain.ExtractedText, err error) {
	// The PDF library panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = domain.NewExtractionError(filename, domain.StagePDF, fmt.Errorf("pdf reader panic: %v", r))
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, domain.NewExtractionError(filename, domain.StagePDF, err)
	}

	var b strings.Builder
	pages := reader.NumPage()
	for i := 1; i <= pages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			e.logger.Warn("textextract.Extractor.extractPDF: skipping unreadable page",
				zap.String("file", filename), zap.Int("page", i), zap.Error(err))
			continue
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		fmt.Fprintf(&b, "--- Page %d ---\n%s\n", i, strings.TrimSpace(text))
	}

	if b.Len() == 0 {
		return nil, domain.NewExtractionError(filename, domain.StagePDF, domain.ErrEmptyText)
	}
	return &domain.ExtractedText{Text: b.String(), Pages: pages, Method: "pdf"}, nil
}

func (e *Extractor) transcribe(ctx context.Context, filename string, mediaType domain.MediaType, content []byte) (*domain.ExtractedText, error) {
	if e.vision == nil {
		return nil, domain.NewExtractionError(filename, domain.StageVision, domain.ErrModelNotConfigured)
	}
	out, err := e.vision.Transcribe(ctx, port.TranscribeInput{
		FileBytes:   content,
		ContentType: string(mediaType),
		Prompt:      parser.TranscriptionPrompt,
	})
	if err != nil {
		return nil, domain.NewExtractionError(filename, domain.StageVision, err)
	}
	if strings.TrimSpace(out.Text) == "" {
		return nil, domain.NewExtractionError(filename, domain.StageVision, domain.ErrEmptyText)
	}
	return &domain.ExtractedText{Text: out.Text, Pages: 1, Method: "vision"}, nil
}
