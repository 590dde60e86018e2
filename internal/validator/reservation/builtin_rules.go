package reservation

import (
	"context"

	"staybook/internal/domain"
)

// ValidationResult is the outcome of one rule against one candidate.
type ValidationResult struct {
	Passed        bool
	FieldPath     string
	ExpectedValue string
	ActualValue   string
	Message       string
}

// Options tunes the thresholds used by the builtin rules.
type Options struct {
	MaxStayNights    int
	MinGuests        int
	MaxGuests        int
	ReviewConfidence float64
}

// DefaultOptions returns the thresholds used when nothing is configured.
func DefaultOptions() Options {
	return Options{MaxStayNights: 30, MinGuests: 1, MaxGuests: 20, ReviewConfidence: 0.6}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.MaxStayNights <= 0 {
		o.MaxStayNights = d.MaxStayNights
	}
	if o.MinGuests <= 0 {
		o.MinGuests = d.MinGuests
	}
	if o.MaxGuests <= 0 {
		o.MaxGuests = d.MaxGuests
	}
	if o.ReviewConfidence <= 0 {
		o.ReviewConfidence = d.ReviewConfidence
	}
	return o
}

// BuiltinValidator wraps a validator function and its metadata for the registry.
type BuiltinValidator struct {
	key  string
	name string
	sev  domain.ValidationSeverity
	fn   func(context.Context, *domain.CandidateReservation) []ValidationResult
}

func (b *BuiltinValidator) Validate(ctx context.Context, c *domain.CandidateReservation) []ValidationResult {
	return b.fn(ctx, c)
}
func (b *BuiltinValidator) RuleKey() string                     { return b.key }
func (b *BuiltinValidator) RuleName() string                    { return b.name }
func (b *BuiltinValidator) Severity() domain.ValidationSeverity { return b.sev }

// AllBuiltinValidators returns every builtin reservation rule in evaluation order.
func AllBuiltinValidators(opts Options) []*BuiltinValidator {
	opts = opts.withDefaults()
	var all []*BuiltinValidator
	all = append(all, RequiredFieldValidators()...)
	all = append(all, LogicalValidators(opts)...)
	all = append(all, ReviewValidators(opts)...)
	return all
}
