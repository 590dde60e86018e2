package parser

import (
	"strings"

	"staybook/internal/domain"
)

const (
	// PromptVersion identifies the extraction prompt and candidate schema revision.
	PromptVersion = "v1.4"
	// Sentinel terminates the JSON payload in a model response.
	Sentinel = "END_OF_JSON"
)

// TranscriptionPrompt instructs a vision model to read an image verbatim.
const TranscriptionPrompt = `Transcribe ALL visible text in this image exactly as written.
Preserve the reading order and layout: keep table rows on one line, separate columns with " | ", and keep each label next to its value.
Do not translate, summarize, correct spelling, or add commentary. Output only the transcribed text.`

// candidateSchemaKeys is the fixed key order of a candidate object.
var candidateSchemaKeys = []string{
	"check_in_date", "check_out_date", "nights", "guest_name", "guest_count",
	"country", "country_inferred", "platform", "phone", "notes",
	"timezone_source", "reservation_id", "confidence", "source_page", "needs_review",
	"property_name", "total_amount", "cleaning_fee", "checkin_fee",
}

// BuildReservationPrompt returns the extraction prompt for booking documents.
func BuildReservationPrompt(text string, docType domain.DocumentType) string {
	var b strings.Builder

	b.WriteString(`You are a reservations clerk for a holiday-rental management company. You read booking documents exported from Airbnb, Booking.com, Vrbo, owner spreadsheets and direct-booking e-mails, and you turn them into structured reservation records.

Document type detected: `)
	b.WriteString(string(docType))
	b.WriteString(` (prompt ` + PromptVersion + `)

Work through the text in these stages:

STAGE 1 - OCR NORMALIZATION
- The text may come from a PDF text layer or an image transcription. Treat "0"/"O" and "1"/"l"/"I" confusions in dates, amounts and phone numbers as OCR noise.
- Ignore page headers, footers, page numbers and repeated column titles.
- Lines starting with "--- Page N ---" mark page boundaries; use N as source_page for anything found after the marker.

STAGE 2 - SEGMENTATION
- A control file lists many reservations for one property, usually one per row. A check-in or check-out confirmation usually holds exactly one.
- Start a new reservation whenever a new guest name appears together with a new date range.

STAGE 3 - CONSOLIDATION
- A reservation may span several lines or be split across a page break. Merge the fragments into one record.
- Never emit the same guest with the same check-in date twice.

STAGE 4 - FIELD MAPPING
- Dates: output YYYY-MM-DD. Input dates are day-first (DD/MM/YYYY) unless the year comes first.
- nights: whole nights between check-in and check-out.
- guest_count: adults plus children; 1 when not stated.
- platform: one of Airbnb, Booking.com, Vrbo, Direct, Owner; otherwise Other.
- phone: "+<country code> <national number>". When only the phone reveals the country, fill country and set country_inferred to true.
- Amounts: plain numbers with "." as decimal separator, no currency symbols. total_amount is the amount paid by the guest.
- property_name: the accommodation name exactly as written, including any numbering such as "II" or "2".
- timezone_source: where the dates' timezone came from ("document", "platform" or "unknown").
- reservation_id: leave empty.

STAGE 5 - VALIDATION
- confidence: your certainty in the record between 0.0 and 1.0.
- needs_review: true when check-in is after check-out, the phone is missing, or any field is a guess.
- Do NOT invent guests, dates or amounts. If guest name, check-in or check-out cannot be found, omit the record.

Each record MUST use exactly these keys in this order:
{`)
	for i, k := range candidateSchemaKeys {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(`"` + k + `"`)
	}
	b.WriteString(`}

SOURCE TEXT:
<<<
`)
	b.WriteString(text)
	b.WriteString(`
>>>

Output ONLY a JSON array of records, then a line containing exactly ` + Sentinel + `. Write nothing after ` + Sentinel + `. If there are no reservations, output [] followed by ` + Sentinel + `.`)

	return b.String()
}
