package validator

import (
	"context"

	"go.uber.org/zap"

	"staybook/internal/domain"
)

// Engine runs every registered rule against a candidate reservation.
type Engine struct {
	registry *Registry
	logger   *zap.Logger
}

// NewEngine creates a new validation engine.
func NewEngine(registry *Registry, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{registry: registry, logger: logger}
}

// Validate checks c against all rules. Failed error-severity rules make the
// candidate invalid; failed warnings, or a candidate already flagged for
// review, make it needs_review. The candidate is not modified.
func (e *Engine) Validate(ctx context.Context, c *domain.CandidateReservation) domain.ValidationResult {
	result := domain.ValidationResult{Errors: []string{}, Warnings: []string{}}

	for _, v := range e.registry.All() {
		for _, vr := range v.Validate(ctx, c) {
			if vr.Passed {
				continue
			}
			if v.Severity() == domain.ValidationSeverityError {
				result.Errors = append(result.Errors, vr.Message)
			} else {
				result.Warnings = append(result.Warnings, vr.Message)
			}
		}
	}

	result.IsValid = len(result.Errors) == 0
	switch {
	case !result.IsValid:
		result.Outcome = domain.ValidationInvalid
	case len(result.Warnings) > 0 || c.NeedsReview:
		result.Outcome = domain.ValidationNeedsReview
	default:
		result.Outcome = domain.ValidationValid
	}

	e.logger.Debug("validator.Engine.Validate: candidate validated",
		zap.String("guest", c.GuestName),
		zap.String("outcome", string(result.Outcome)),
		zap.Int("errors", len(result.Errors)),
		zap.Int("warnings", len(result.Warnings)))
	return result
}
