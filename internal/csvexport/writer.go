package csvexport

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"staybook/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the review sheet header row.
var columns = []string{
	"Source File",
	"Document Type",
	"Outcome",
	"Validation",
	"Needs Review",
	"Guest Name",
	"Guest Count",
	"Phone",
	"Country",
	"Platform",
	"Check-in",
	"Check-out",
	"Nights",
	"Property (document)",
	"Property (catalog)",
	"Match Score",
	"Total",
	"Cleaning Fee",
	"Check-in Fee",
	"Commission",
	"Net",
	"Confidence",
	"Duplicate Of",
	"Issues",
	"Reservation Ref",
}

// Writer wraps csv.Writer for exporting candidate reservations.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteCandidates converts candidates to CSV rows and writes them.
func (w *Writer) WriteCandidates(candidates []domain.CandidateReservation) error {
	for i := range candidates {
		if err := w.csv.Write(candidateToRow(&candidates[i])); err != nil {
			return err
		}
	}
	return nil
}

// WriteBatch writes a BOM, the header and every candidate of result, then flushes.
func WriteBatch(out io.Writer, result *domain.BatchResult) error {
	if _, err := out.Write(BOM); err != nil {
		return err
	}
	w := NewWriter(out)
	if err := w.WriteHeader(); err != nil {
		return err
	}
	if err := w.WriteCandidates(result.Reservations); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

func candidateToRow(c *domain.CandidateReservation) []string {
	row := make([]string, len(columns))

	row[0] = c.SourceFile
	row[1] = string(c.DocumentType)
	row[2] = string(c.Outcome)
	if c.Validation != nil {
		row[3] = string(c.Validation.Outcome)
	}
	row[4] = formatBool(c.NeedsReview)
	row[5] = c.GuestName
	row[6] = strconv.Itoa(c.GuestCount)
	row[7] = c.Phone
	row[8] = c.Country
	row[9] = string(c.Platform)
	row[10] = c.CheckInDate
	row[11] = c.CheckOutDate
	row[12] = strconv.Itoa(c.Nights)
	row[13] = c.PropertyName
	row[14] = c.ResolvedProperty
	if c.PropertyID != 0 {
		row[15] = strconv.Itoa(c.PropertyMatchScore)
	}
	row[16] = formatMoney(c.TotalAmount)
	row[17] = formatMoney(c.CleaningFee)
	row[18] = formatMoney(c.CheckInFee)
	row[19] = formatMoney(c.CommissionAmount)
	row[20] = formatMoney(c.NetAmount)
	row[21] = strconv.FormatFloat(c.Confidence, 'f', 2, 64)
	if c.Duplicate != nil {
		row[22] = fmt.Sprintf("#%d %s (%s to %s)", c.Duplicate.ReservationID, c.Duplicate.GuestName,
			c.Duplicate.CheckInDate, c.Duplicate.CheckOutDate)
	}
	row[23] = issues(c)
	row[24] = c.ReservationID

	return row
}

func issues(c *domain.CandidateReservation) string {
	var parts []string
	if c.Validation != nil {
		parts = append(parts, c.Validation.Errors...)
		parts = append(parts, c.Validation.Warnings...)
	}
	parts = append(parts, c.SchemaWarnings...)
	return strings.Join(parts, "; ")
}

func formatMoney(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatBool(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename replaces non-alphanumeric chars (except - _) with _,
// collapses consecutive underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns a review sheet filename of the form
// review_{sanitized_batch_id}_{YYYY-MM-DD}.csv.
func BuildFilename(batchID string, now time.Time) string {
	return fmt.Sprintf("review_%s_%s.csv", SanitizeFilename(batchID), now.Format("2006-01-02"))
}
