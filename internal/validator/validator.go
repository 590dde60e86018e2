package validator

import (
	"context"

	"staybook/internal/domain"
	"staybook/internal/validator/reservation"
)

// Validator is the interface for a single built-in validation rule.
type Validator interface {
	Validate(ctx context.Context, c *domain.CandidateReservation) []reservation.ValidationResult
	RuleKey() string
	RuleName() string
	Severity() domain.ValidationSeverity
}
