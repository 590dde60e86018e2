package csvexport

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staybook/internal/domain"
)

func TestWriteHeader(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteHeader())
	w.Flush()
	require.NoError(t, w.Error())

	row, err := csv.NewReader(&buf).Read()
	require.NoError(t, err)

	assert.Len(t, row, len(columns))
	assert.Equal(t, "Source File", row[0])
	assert.Equal(t, "Reservation Ref", row[len(row)-1])
}

func TestWriteCandidates_Duplicate(t *testing.T) {
	c := domain.CandidateReservation{
		SourceFile:         "june.pdf",
		DocumentType:       domain.DocumentTypeCheckIn,
		Outcome:            domain.OutcomeDuplicate,
		GuestName:          "Maria Santos",
		GuestCount:         2,
		Platform:           domain.PlatformAirbnb,
		CheckInDate:        "2025-06-03",
		CheckOutDate:       "2025-06-05",
		Nights:             2,
		PropertyName:       "aroeira",
		PropertyID:         1,
		ResolvedProperty:   "Aroeira I",
		PropertyMatchScore: 80,
		TotalAmount:        300,
		NetAmount:          214.5,
		Confidence:         0.85,
		Validation: &domain.ValidationResult{
			IsValid: true, Outcome: domain.ValidationNeedsReview,
			Warnings: []string{"guest phone is missing"},
		},
		Duplicate:      &domain.DuplicateMatch{ReservationID: 41, GuestName: "M. Santos", CheckInDate: "2025-06-01", CheckOutDate: "2025-06-07"},
		SchemaWarnings: []string{"/nights: expected integer"},
		ReservationID:  "abc123",
	}

	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteCandidates([]domain.CandidateReservation{c}))
	w.Flush()

	row, err := csv.NewReader(&buf).Read()
	require.NoError(t, err)
	assert.Equal(t, "june.pdf", row[0])
	assert.Equal(t, "duplicate", row[2])
	assert.Equal(t, "needs_review", row[3])
	assert.Equal(t, "No", row[4])
	assert.Equal(t, "Aroeira I", row[14])
	assert.Equal(t, "80", row[15])
	assert.Equal(t, "300.00", row[16])
	assert.Equal(t, "214.50", row[20])
	assert.Equal(t, "#41 M. Santos (2025-06-01 to 2025-06-07)", row[22])
	assert.Equal(t, "guest phone is missing; /nights: expected integer", row[23])
}

func TestWriteCandidates_UnresolvedLeavesScoreEmpty(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteCandidates([]domain.CandidateReservation{{GuestName: "Ana", PropertyName: "Nowhere"}}))
	w.Flush()

	row, err := csv.NewReader(&buf).Read()
	require.NoError(t, err)
	assert.Equal(t, "", row[15])
	assert.Equal(t, "", row[3])
	assert.Equal(t, "", row[22])
}

func TestWriteBatch(t *testing.T) {
	result := &domain.BatchResult{Reservations: []domain.CandidateReservation{{GuestName: "A"}, {GuestName: "B"}}}

	var buf bytes.Buffer
	require.NoError(t, WriteBatch(&buf, result))

	require.True(t, bytes.HasPrefix(buf.Bytes(), BOM))
	rows, err := csv.NewReader(bytes.NewReader(buf.Bytes()[len(BOM):])).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple", "batch-1", "batch-1"},
		{"spaces", "June batch", "June_batch"},
		{"special chars", "a/b\\c:d", "a_b_c_d"},
		{"leading trailing", "  x  ", "x"},
		{"collapse", "a   b", "a_b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeFilename(tt.input))
		})
	}

	long := SanitizeFilename(string(bytes.Repeat([]byte("a"), 150)))
	assert.Len(t, long, 100)
}

func TestBuildFilename(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "review_0b7e_x_2025-06-10.csv", BuildFilename("0b7e x", now))
}
