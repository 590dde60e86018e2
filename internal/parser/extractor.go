package parser

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"staybook/internal/domain"
	"staybook/internal/port"
)

const defaultMaxTokens = 16384

// ReservationExtractor turns document text into candidate reservations via a generative model.
type ReservationExtractor struct {
	model            port.GenerativeModel
	reviewConfidence float64
	logger           *zap.Logger
}

// NewReservationExtractor creates a ReservationExtractor.
func NewReservationExtractor(model port.GenerativeModel, reviewConfidence float64, logger *zap.Logger) *ReservationExtractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReservationExtractor{
		model:            model,
		reviewConfidence: reviewConfidence,
		logger:           logger,
	}
}

// ExtractReservations returns the candidates found in text. Model and parse
// failures yield an empty list with an error wrapping
// domain.ErrModelOutputUnusable; any other error is context cancellation.
func (e *ReservationExtractor) ExtractReservations(ctx context.Context, text string, docType domain.DocumentType) ([]domain.CandidateReservation, error) {
	candidates := []domain.CandidateReservation{}
	if strings.TrimSpace(text) == "" {
		return candidates, nil
	}

	out, err := e.model.Generate(ctx, port.GenerateInput{
		Prompt:    BuildReservationPrompt(text, docType),
		MaxTokens: defaultMaxTokens,
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		e.logger.Warn("parser.ReservationExtractor.ExtractReservations: model call failed",
			zap.String("model", e.model.Name()), zap.Error(err))
		return candidates, fmt.Errorf("%w: %s: %v", domain.ErrModelOutputUnusable, e.model.Name(), err)
	}

	objects, err := DecodeCandidateObjects(out.Text)
	if err != nil {
		e.logger.Warn("parser.ReservationExtractor.ExtractReservations: unparseable model output",
			zap.String("model", out.ModelUsed), zap.Error(err), zap.String("raw", Truncate(out.Text, 500)))
		return candidates, fmt.Errorf("%w: unparseable output: %v", domain.ErrModelOutputUnusable, err)
	}

	for i, obj := range objects {
		c := CoerceCandidate(obj, e.reviewConfidence)
		if c.GuestName == "" || c.CheckInDate == "" || c.CheckOutDate == "" {
			e.logger.Debug("parser.ReservationExtractor.ExtractReservations: dropping incomplete record",
				zap.Int("index", i))
			continue
		}
		c.SchemaWarnings = SchemaWarnings(obj)
		c.ExtractedBy = out.ModelUsed
		candidates = append(candidates, c)
	}

	e.logger.Info("parser.ReservationExtractor.ExtractReservations: extracted candidates",
		zap.String("document_type", string(docType)),
		zap.Int("records", len(objects)),
		zap.Int("candidates", len(candidates)))
	return candidates, nil
}

// DecodeCandidateObjects cleans a raw model response and decodes the object
// elements of its JSON array. Non-object elements are skipped.
func DecodeCandidateObjects(raw string) ([]map[string]any, error) {
	cleaned, err := CleanModelResponse(raw)
	if err != nil {
		return nil, err
	}
	var elements []json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &elements); err != nil {
		return nil, err
	}
	objects := make([]map[string]any, 0, len(elements))
	for _, el := range elements {
		var obj map[string]any
		if err := json.Unmarshal(el, &obj); err != nil || obj == nil {
			continue
		}
		objects = append(objects, obj)
	}
	return objects, nil
}
