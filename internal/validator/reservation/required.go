package reservation

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"staybook/internal/domain"
)

const minGuestNameLength = 3

// RequiredFieldValidators returns the presence and format rules.
func RequiredFieldValidators() []*BuiltinValidator {
	return []*BuiltinValidator{
		{
			key: "req.guest_name", name: "Required: Guest Name",
			sev: domain.ValidationSeverityError,
			fn: func(_ context.Context, c *domain.CandidateReservation) []ValidationResult {
				name := strings.TrimSpace(c.GuestName)
				passed := utf8.RuneCountInString(name) >= minGuestNameLength
				msg := "guest name is present"
				if !passed {
					msg = fmt.Sprintf("guest name must have at least %d characters", minGuestNameLength)
				}
				return []ValidationResult{{
					Passed: passed, FieldPath: "guest_name",
					ExpectedValue: fmt.Sprintf(">= %d characters", minGuestNameLength),
					ActualValue:   name, Message: msg,
				}}
			},
		},
		{
			key: "fmt.stay_dates", name: "Format: Stay Dates",
			sev: domain.ValidationSeverityError,
			fn: func(_ context.Context, c *domain.CandidateReservation) []ValidationResult {
				return []ValidationResult{
					dateResult("check_in_date", c.CheckInDate),
					dateResult("check_out_date", c.CheckOutDate),
				}
			},
		},
	}
}

func dateResult(field, value string) ValidationResult {
	r := ValidationResult{FieldPath: field, ExpectedValue: "YYYY-MM-DD calendar date", ActualValue: value}
	switch {
	case strings.TrimSpace(value) == "":
		r.Message = field + " is missing"
	default:
		if _, err := time.Parse(domain.DateLayout, value); err != nil {
			r.Message = fmt.Sprintf("%s %q is not a valid calendar date", field, value)
		} else {
			r.Passed = true
			r.Message = field + " is a valid date"
		}
	}
	return r
}
