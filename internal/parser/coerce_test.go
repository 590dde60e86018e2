package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"staybook/internal/domain"
	"staybook/internal/parser"
)

func TestCoerceCandidate_FullRecord(t *testing.T) {
	raw := map[string]any{
		"check_in_date":  "10/06/2025",
		"check_out_date": "15.06.2025",
		"guest_name":     "  Maria   Santos ",
		"guest_count":    "2",
		"platform":       "airbnb.com",
		"phone":          "+351 912 345 678",
		"property_name":  "Aroeira I",
		"total_amount":   "€1.234,50",
		"confidence":     0.92,
		"source_page":    float64(2),
	}

	c := parser.CoerceCandidate(raw, 0.6)

	assert.Equal(t, "2025-06-10", c.CheckInDate)
	assert.Equal(t, "2025-06-15", c.CheckOutDate)
	assert.Equal(t, 5, c.Nights)
	assert.Equal(t, "Maria Santos", c.GuestName)
	assert.Equal(t, 2, c.GuestCount)
	assert.Equal(t, domain.PlatformAirbnb, c.Platform)
	assert.Equal(t, "+351 912345678", c.Phone)
	assert.Equal(t, "Portugal", c.Country)
	assert.True(t, c.CountryInferred)
	assert.Equal(t, "Aroeira I", c.PropertyName)
	assert.InDelta(t, 1234.5, c.TotalAmount, 0.001)
	assert.InDelta(t, 0.92, c.Confidence, 0.0001)
	assert.Equal(t, 2, c.SourcePage)
	assert.Len(t, c.ReservationID, 16)
	assert.False(t, c.NeedsReview)
}

func TestCoerceCandidate_MissingFieldsDefaultToZero(t *testing.T) {
	c := parser.CoerceCandidate(map[string]any{
		"guest_name":     "Ana",
		"check_in_date":  "2025-07-01",
		"check_out_date": "2025-07-03",
	}, 0.6)

	assert.Equal(t, 0, c.GuestCount)
	assert.Equal(t, "", c.Phone)
	assert.Equal(t, "", c.Notes)
	assert.False(t, c.CountryInferred)
	assert.Equal(t, domain.PlatformOther, c.Platform)
	assert.Zero(t, c.TotalAmount)
	assert.True(t, c.NeedsReview, "missing phone and confidence require review")
}

func TestCoerceCandidate_ReversedDatesNeedReview(t *testing.T) {
	c := parser.CoerceCandidate(map[string]any{
		"guest_name":     "John Smith",
		"check_in_date":  "2025-06-15",
		"check_out_date": "2025-06-10",
		"phone":          "+44 7700 900123",
		"confidence":     0.99,
		"nights":         5,
	}, 0.6)

	assert.True(t, c.NeedsReview)
	assert.Equal(t, 5, c.Nights)
}

func TestCoerceCandidate_Aliases(t *testing.T) {
	c := parser.CoerceCandidate(map[string]any{
		"name":      "Pierre Dupont",
		"checkin":   "2025/08/01",
		"departure": "04-08-2025",
		"adults":    float64(2),
		"children":  "1",
		"property":  "Casa Azul",
		"amount":    "450,00",
		"cleaning":  40,
	}, 0.6)

	assert.Equal(t, "Pierre Dupont", c.GuestName)
	assert.Equal(t, "2025-08-01", c.CheckInDate)
	assert.Equal(t, "2025-08-04", c.CheckOutDate)
	assert.Equal(t, 3, c.Nights)
	assert.Equal(t, 3, c.GuestCount)
	assert.Equal(t, "Casa Azul", c.PropertyName)
	assert.InDelta(t, 450.0, c.TotalAmount, 0.001)
	assert.InDelta(t, 40.0, c.CleaningFee, 0.001)
}

func TestCoerceCandidate_Booleans(t *testing.T) {
	for _, v := range []any{true, "yes", "TRUE", "1", float64(1)} {
		c := parser.CoerceCandidate(map[string]any{"country_inferred": v}, 0)
		assert.True(t, c.CountryInferred, "value %v", v)
	}
	for _, v := range []any{false, "no", "", nil, float64(0)} {
		c := parser.CoerceCandidate(map[string]any{"country_inferred": v}, 0)
		assert.False(t, c.CountryInferred, "value %v", v)
	}
}

func TestCoerceCandidate_ConfidenceClamped(t *testing.T) {
	assert.InDelta(t, 0.85, parser.CoerceCandidate(map[string]any{"confidence": float64(85)}, 0).Confidence, 0.0001)
	assert.Equal(t, 0.0, parser.CoerceCandidate(map[string]any{"confidence": -0.3}, 0).Confidence)
	assert.Equal(t, 1.0, parser.CoerceCandidate(map[string]any{"confidence": float64(250)}, 0).Confidence)
}

func TestNormalizeDate(t *testing.T) {
	tests := map[string]string{
		"2025-06-10":          "2025-06-10",
		"10/06/2025":          "2025-06-10",
		"10-06-2025":          "2025-06-10",
		"10.06.2025":          "2025-06-10",
		"2025/06/10":          "2025-06-10",
		"1/6/2025":            "2025-06-01",
		"2025-06-10T15:00:00": "2025-06-10",
		"10/06/2025 16:00":    "2025-06-10",
		"31/02/2025":          "31/02/2025",
		"":                    "",
	}
	for in, want := range tests {
		assert.Equal(t, want, parser.NormalizeDate(in), "input %q", in)
	}
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		in, want, cc string
	}{
		{"+351 912 345 678", "+351 912345678", "351"},
		{"912345678", "+351 912345678", "351"},
		{"0044 7700 900123", "+44 7700900123", "44"},
		{"+1 (555) 010-9999", "+1 5550109999", "1"},
		{"12345", "12345", ""},
		{"4915112345678", "+49 15112345678", "49"},
		{"+212 612 345 678", "+212 612345678", "212"},
		{"+355 69 123 4567", "+355 691234567", "355"},
		{"0033 6 12 34 56 78", "+33 612345678", "33"},
		{"07700900123", "07700900123", ""},
		{"2125550100", "2125550100", ""},
		{"+999 123456", "+999123456", ""},
		{"n/a", "", ""},
		{"", "", ""},
	}
	for _, tt := range tests {
		phone, cc := parser.NormalizePhone(tt.in)
		assert.Equal(t, tt.want, phone, "input %q", tt.in)
		assert.Equal(t, tt.cc, cc, "input %q", tt.in)
	}
}

func TestCanonicalPlatform(t *testing.T) {
	assert.Equal(t, domain.PlatformAirbnb, parser.CanonicalPlatform("AirBnB"))
	assert.Equal(t, domain.PlatformBooking, parser.CanonicalPlatform("booking"))
	assert.Equal(t, domain.PlatformVrbo, parser.CanonicalPlatform("HomeAway"))
	assert.Equal(t, domain.PlatformDirect, parser.CanonicalPlatform("Reserva direta"))
	assert.Equal(t, domain.PlatformOwner, parser.CanonicalPlatform("Proprietário"))
	assert.Equal(t, domain.PlatformOther, parser.CanonicalPlatform("Expedia"))
	assert.Equal(t, domain.PlatformOther, parser.CanonicalPlatform(""))
}

func TestReservationID_StableAndCaseInsensitive(t *testing.T) {
	a := parser.ReservationID("Maria Santos", "2025-06-10", domain.PlatformAirbnb)
	b := parser.ReservationID("  maria santos", "2025-06-10", domain.PlatformAirbnb)
	c := parser.ReservationID("Maria Santos", "2025-06-11", domain.PlatformAirbnb)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 16)
}

func TestCoerceCandidate_UnformattablePhoneNeedsReview(t *testing.T) {
	raw := map[string]any{
		"guest_name":     "Tom Baker",
		"check_in_date":  "2025-07-01",
		"check_out_date": "2025-07-04",
		"phone":          "07700 900123",
		"confidence":     0.95,
	}

	c := parser.CoerceCandidate(raw, 0.6)

	assert.Equal(t, "07700900123", c.Phone)
	assert.Empty(t, c.Country)
	assert.True(t, c.NeedsReview)

	raw["phone"] = "+212 612 345 678"
	c = parser.CoerceCandidate(raw, 0.6)

	assert.Equal(t, "+212 612345678", c.Phone)
	assert.Equal(t, "Morocco", c.Country)
	assert.True(t, c.CountryInferred)
	assert.False(t, c.NeedsReview)
}
