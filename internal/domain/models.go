package domain

import "time"

// DateLayout is the ISO calendar date format used across the pipeline.
const DateLayout = "2006-01-02"

// RawDocument is an uploaded file awaiting text extraction.
type RawDocument struct {
	Filename  string
	MediaType string
	Content   []byte
	// Path is read when Content is empty.
	Path string
}

// ExtractedText is the plain text produced from a RawDocument.
type ExtractedText struct {
	Text   string
	Pages  int
	Method string // "pdf" or "vision"
}

// CandidateReservation is an extracted, not yet persisted booking record.
type CandidateReservation struct {
	CheckInDate     string   `json:"check_in_date"`
	CheckOutDate    string   `json:"check_out_date"`
	Nights          int      `json:"nights"`
	GuestName       string   `json:"guest_name"`
	GuestCount      int      `json:"guest_count"`
	Country         string   `json:"country"`
	CountryInferred bool     `json:"country_inferred"`
	Platform        Platform `json:"platform"`
	Phone           string   `json:"phone"`
	Notes           string   `json:"notes"`
	TimezoneSource  string   `json:"timezone_source"`
	ReservationID   string   `json:"reservation_id"`
	Confidence      float64  `json:"confidence"`
	SourcePage      int      `json:"source_page"`
	NeedsReview     bool     `json:"needs_review"`

	PropertyName string  `json:"property_name"`
	TotalAmount  float64 `json:"total_amount"`
	CleaningFee  float64 `json:"cleaning_fee"`
	CheckInFee   float64 `json:"checkin_fee"`

	// Set by the pipeline.
	SourceFile         string            `json:"source_file,omitempty"`
	DocumentType       DocumentType      `json:"document_type,omitempty"`
	ExtractedBy        string            `json:"extracted_by,omitempty"`
	SchemaWarnings     []string          `json:"schema_warnings,omitempty"`
	PropertyID         int64             `json:"property_id,omitempty"`
	ResolvedProperty   string            `json:"resolved_property,omitempty"`
	PropertyMatchScore int               `json:"property_match_score,omitempty"`
	CommissionAmount   float64           `json:"commission_amount"`
	TeamPayment        float64           `json:"team_payment"`
	NetAmount          float64           `json:"net_amount"`
	Validation         *ValidationResult `json:"validation,omitempty"`
	Duplicate          *DuplicateMatch   `json:"duplicate,omitempty"`
	Outcome            ItemOutcome       `json:"outcome,omitempty"`
	SavedReservationID int64             `json:"saved_reservation_id,omitempty"`
}

// StayRange returns the parsed check-in/check-out range. ok is false when either date is unparseable.
func (c *CandidateReservation) StayRange() (DateRange, bool) {
	in, err := time.Parse(DateLayout, c.CheckInDate)
	if err != nil {
		return DateRange{}, false
	}
	out, err := time.Parse(DateLayout, c.CheckOutDate)
	if err != nil {
		return DateRange{}, false
	}
	return DateRange{Start: in, End: out}, true
}

// DateRange is an inclusive stay interval.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Property is a catalog entry owned by the property store.
type Property struct {
	ID            int64     `db:"id" json:"id"`
	Name          string    `db:"name" json:"name"`
	CleaningCost  float64   `db:"cleaning_cost" json:"cleaning_cost"`
	CheckInFee    float64   `db:"checkin_fee" json:"checkin_fee"`
	CommissionPct float64   `db:"commission_pct" json:"commission_pct"`
	TeamPayment   float64   `db:"team_payment" json:"team_payment"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// PropertyMatch is the outcome of resolving a free-text property name.
type PropertyMatch struct {
	Property Property `json:"property"`
	Score    int      `json:"score"`
}

// Reservation is a stored reservation owned by the reservation store.
type Reservation struct {
	ID               int64             `db:"id" json:"id"`
	PropertyID       int64             `db:"property_id" json:"property_id"`
	ExternalRef      string            `db:"external_ref" json:"external_ref"`
	GuestName        string            `db:"guest_name" json:"guest_name"`
	GuestCount       int               `db:"guest_count" json:"guest_count"`
	Phone            string            `db:"phone" json:"phone"`
	Country          string            `db:"country" json:"country"`
	Platform         Platform          `db:"platform" json:"platform"`
	CheckIn          time.Time         `db:"check_in" json:"check_in"`
	CheckOut         time.Time         `db:"check_out" json:"check_out"`
	Nights           int               `db:"nights" json:"nights"`
	TotalAmount      float64           `db:"total_amount" json:"total_amount"`
	CleaningFee      float64           `db:"cleaning_fee" json:"cleaning_fee"`
	CheckInFee       float64           `db:"checkin_fee" json:"checkin_fee"`
	CommissionAmount float64           `db:"commission_amount" json:"commission_amount"`
	TeamPayment      float64           `db:"team_payment" json:"team_payment"`
	NetAmount        float64           `db:"net_amount" json:"net_amount"`
	Notes            string            `db:"notes" json:"notes"`
	SourceFile       string            `db:"source_file" json:"source_file"`
	NeedsReview      bool              `db:"needs_review" json:"needs_review"`
	Status           ReservationStatus `db:"status" json:"status"`
	CreatedAt        time.Time         `db:"created_at" json:"created_at"`
}

// StayRange returns the reservation's stay interval.
func (r *Reservation) StayRange() DateRange {
	return DateRange{Start: r.CheckIn, End: r.CheckOut}
}

// DuplicateMatch describes the existing reservation a candidate collides with.
type DuplicateMatch struct {
	ReservationID  int64   `json:"reservation_id"`
	PropertyID     int64   `json:"property_id"`
	GuestName      string  `json:"guest_name"`
	CheckInDate    string  `json:"check_in_date"`
	CheckOutDate   string  `json:"check_out_date"`
	TotalAmount    float64 `json:"total_amount"`
	NameSimilarity float64 `json:"name_similarity"`
}

// ValidationResult is the verdict of the reservation validator.
type ValidationResult struct {
	IsValid  bool              `json:"is_valid"`
	Outcome  ValidationOutcome `json:"outcome"`
	Errors   []string          `json:"errors"`
	Warnings []string          `json:"warnings"`
}

// FileResult is the per-file entry of a batch.
type FileResult struct {
	Filename         string       `json:"filename"`
	Type             DocumentType `json:"type"`
	ReservationCount int          `json:"reservationCount"`
	Success          bool         `json:"success"`
	Error            string       `json:"error,omitempty"`
	// Warning explains a zero count caused by a model or parse failure.
	Warning          string       `json:"warning,omitempty"`
}

// SaveError records why one candidate was not persisted.
type SaveError struct {
	Index     int    `json:"index"`
	Filename  string `json:"filename"`
	GuestName string `json:"guestName"`
	Error     string `json:"error"`
}

// BatchSummary counts candidates by terminal outcome.
type BatchSummary struct {
	Valid        int `json:"valid"`
	NeedsReview  int `json:"needsReview"`
	Invalid      int `json:"invalid"`
	Duplicates   int `json:"duplicates"`
	Unresolved   int `json:"unresolved"`
	Saved        int `json:"saved"`
	FailedToSave int `json:"failedToSave"`
}

// BatchResult aggregates one multi-file ingestion.
type BatchResult struct {
	BatchID           string                 `json:"batchId"`
	Success           bool                   `json:"success"`
	Message           string                 `json:"message"`
	Reservations      []CandidateReservation `json:"reservations"`
	TotalReservations int                    `json:"totalReservations"`
	FileResults       []FileResult           `json:"fileResults"`
	AutoSaved         bool                   `json:"autoSaved"`
	SavedCount        int                    `json:"savedCount"`
	SaveErrors        []SaveError            `json:"saveErrors"`
	Summary           BatchSummary           `json:"summary"`
}

// ItemResult is the per-candidate outcome of the persistence step.
type ItemResult struct {
	Index     int
	Outcome   ItemOutcome
	Err       error
	Duplicate *DuplicateMatch
	Saved     *Reservation
}
