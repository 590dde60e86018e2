package validator_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staybook/internal/domain"
	"staybook/internal/validator"
	"staybook/internal/validator/reservation"
)

func setupEngine() *validator.Engine {
	return validator.NewEngine(validator.NewDefaultRegistry(reservation.DefaultOptions()), nil)
}

func candidate() *domain.CandidateReservation {
	return &domain.CandidateReservation{
		GuestName:        "Maria Santos",
		CheckInDate:      "2025-06-10",
		CheckOutDate:     "2025-06-15",
		GuestCount:       2,
		Phone:            "+351 912345678",
		TotalAmount:      450,
		Confidence:       0.92,
		PropertyID:       1,
		ResolvedProperty: "Aroeira I",
	}
}

func TestEngine_Valid(t *testing.T) {
	res := setupEngine().Validate(context.Background(), candidate())

	assert.True(t, res.IsValid)
	assert.Equal(t, domain.ValidationValid, res.Outcome)
	assert.Empty(t, res.Errors)
	assert.Empty(t, res.Warnings)
}

func TestEngine_GuestCountOutOfBounds(t *testing.T) {
	c := candidate()
	c.GuestCount = 25

	res := setupEngine().Validate(context.Background(), c)

	assert.False(t, res.IsValid)
	assert.Equal(t, domain.ValidationInvalid, res.Outcome)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "guest count")
}

func TestEngine_WarningsMeanNeedsReview(t *testing.T) {
	c := candidate()
	c.Phone = ""
	c.CheckOutDate = "2025-08-01"

	res := setupEngine().Validate(context.Background(), c)

	assert.True(t, res.IsValid)
	assert.Equal(t, domain.ValidationNeedsReview, res.Outcome)
	assert.Len(t, res.Warnings, 2)
}

func TestEngine_FlaggedCandidateNeedsReview(t *testing.T) {
	c := candidate()
	c.NeedsReview = true

	res := setupEngine().Validate(context.Background(), c)

	assert.True(t, res.IsValid)
	assert.Equal(t, domain.ValidationNeedsReview, res.Outcome)
	assert.Empty(t, res.Warnings)
	assert.True(t, c.NeedsReview)
}

func TestEngine_ErrorsAccumulateIndependently(t *testing.T) {
	c := candidate()
	c.GuestName = "Al"
	c.CheckInDate, c.CheckOutDate = "2025-06-20", "2025-06-10"
	c.TotalAmount = -5

	res := setupEngine().Validate(context.Background(), c)

	assert.Equal(t, domain.ValidationInvalid, res.Outcome)
	assert.Len(t, res.Errors, 3)
}

func TestRegistry_OrderAndReplace(t *testing.T) {
	r := validator.NewDefaultRegistry(reservation.Options{})
	all := r.All()
	require.NotEmpty(t, all)
	assert.Equal(t, "req.guest_name", all[0].RuleKey())
	assert.NotNil(t, r.Get("logic.guest_count"))
	assert.Nil(t, r.Get("nope"))

	before := len(all)
	r.Register(reservation.AllBuiltinValidators(reservation.Options{MaxGuests: 4})[0])
	assert.Len(t, r.All(), before)
}
