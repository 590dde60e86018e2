package reservation

import (
	"context"
	"fmt"
	"strconv"

	"staybook/internal/domain"
)

// LogicalValidators returns the cross-field and bounds rules.
func LogicalValidators(opts Options) []*BuiltinValidator {
	return []*BuiltinValidator{
		{
			key: "logic.date_order", name: "Logical: Check-in Before Check-out",
			sev: domain.ValidationSeverityError,
			fn: func(_ context.Context, c *domain.CandidateReservation) []ValidationResult {
				stay, ok := c.StayRange()
				if !ok {
					// Unparseable dates are reported by fmt.stay_dates.
					return nil
				}
				passed := !stay.Start.After(stay.End)
				msg := "check-in is on or before check-out"
				if !passed {
					msg = fmt.Sprintf("check-in %s is after check-out %s", c.CheckInDate, c.CheckOutDate)
				}
				return []ValidationResult{{
					Passed: passed, FieldPath: "check_in_date",
					ExpectedValue: "<= " + c.CheckOutDate, ActualValue: c.CheckInDate, Message: msg,
				}}
			},
		},
		{
			key: "logic.stay_length", name: "Logical: Stay Length",
			sev: domain.ValidationSeverityWarning,
			fn: func(_ context.Context, c *domain.CandidateReservation) []ValidationResult {
				stay, ok := c.StayRange()
				if !ok || stay.Start.After(stay.End) {
					return nil
				}
				nights := int(stay.End.Sub(stay.Start).Hours() / 24)
				passed := nights <= opts.MaxStayNights
				msg := fmt.Sprintf("stay of %d nights is within %d", nights, opts.MaxStayNights)
				if !passed {
					msg = fmt.Sprintf("stay of %d nights exceeds %d nights", nights, opts.MaxStayNights)
				}
				return []ValidationResult{{
					Passed: passed, FieldPath: "nights",
					ExpectedValue: fmt.Sprintf("<= %d", opts.MaxStayNights),
					ActualValue:   strconv.Itoa(nights), Message: msg,
				}}
			},
		},
		{
			key: "logic.guest_count", name: "Logical: Guest Count Bounds",
			sev: domain.ValidationSeverityError,
			fn: func(_ context.Context, c *domain.CandidateReservation) []ValidationResult {
				passed := c.GuestCount >= opts.MinGuests && c.GuestCount <= opts.MaxGuests
				msg := "guest count is within bounds"
				if !passed {
					msg = fmt.Sprintf("guest count must be between %d and %d, got %d", opts.MinGuests, opts.MaxGuests, c.GuestCount)
				}
				return []ValidationResult{{
					Passed: passed, FieldPath: "guest_count",
					ExpectedValue: fmt.Sprintf("[%d, %d]", opts.MinGuests, opts.MaxGuests),
					ActualValue:   strconv.Itoa(c.GuestCount), Message: msg,
				}}
			},
		},
		{
			key: "logic.total_amount", name: "Logical: Positive Total",
			sev: domain.ValidationSeverityError,
			fn: func(_ context.Context, c *domain.CandidateReservation) []ValidationResult {
				passed := c.TotalAmount > 0
				msg := "total amount is positive"
				if !passed {
					msg = fmt.Sprintf("total amount must be a positive number, got %.2f", c.TotalAmount)
				}
				return []ValidationResult{{
					Passed: passed, FieldPath: "total_amount",
					ExpectedValue: "> 0", ActualValue: strconv.FormatFloat(c.TotalAmount, 'f', 2, 64), Message: msg,
				}}
			},
		},
	}
}
