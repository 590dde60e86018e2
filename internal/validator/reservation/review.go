package reservation

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"staybook/internal/domain"
)

var internationalPhone = regexp.MustCompile(`^\+\d{1,3} \d{4,}$`)

// ReviewValidators returns warning-level rules that route a candidate to manual review.
func ReviewValidators(opts Options) []*BuiltinValidator {
	return []*BuiltinValidator{
		{
			key: "review.phone", name: "Review: Guest Phone",
			sev: domain.ValidationSeverityWarning,
			fn: func(_ context.Context, c *domain.CandidateReservation) []ValidationResult {
				phone := strings.TrimSpace(c.Phone)
				passed, msg := true, "guest phone is present"
				switch {
				case phone == "":
					passed, msg = false, "guest phone is missing"
				case !internationalPhone.MatchString(phone):
					passed, msg = false, fmt.Sprintf("guest phone %q is not in +<country code> <number> form", phone)
				}
				return []ValidationResult{{Passed: passed, FieldPath: "phone", ExpectedValue: "+<cc> <national>", ActualValue: c.Phone, Message: msg}}
			},
		},
		{
			key: "review.confidence", name: "Review: Extraction Confidence",
			sev: domain.ValidationSeverityWarning,
			fn: func(_ context.Context, c *domain.CandidateReservation) []ValidationResult {
				passed := c.Confidence >= opts.ReviewConfidence
				msg := "extraction confidence is sufficient"
				if !passed {
					msg = fmt.Sprintf("extraction confidence %.2f is below %.2f", c.Confidence, opts.ReviewConfidence)
				}
				return []ValidationResult{{
					Passed: passed, FieldPath: "confidence",
					ExpectedValue: fmt.Sprintf(">= %.2f", opts.ReviewConfidence),
					ActualValue:   strconv.FormatFloat(c.Confidence, 'f', 2, 64), Message: msg,
				}}
			},
		},
		{
			key: "review.property", name: "Review: Property Resolved",
			sev: domain.ValidationSeverityWarning,
			fn: func(_ context.Context, c *domain.CandidateReservation) []ValidationResult {
				passed := c.PropertyID != 0
				msg := fmt.Sprintf("property resolved to %q", c.ResolvedProperty)
				if !passed {
					msg = fmt.Sprintf("property %q not found in catalog", c.PropertyName)
				}
				return []ValidationResult{{Passed: passed, FieldPath: "property_name", ExpectedValue: "catalog property", ActualValue: c.PropertyName, Message: msg}}
			},
		},
	}
}
