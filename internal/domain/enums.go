package domain

import (
	"mime"
	"path/filepath"
	"strings"
)

// MediaType is a supported upload content type.
type MediaType string

const (
	MediaTypePDF  MediaType = "application/pdf"
	MediaTypeJPEG MediaType = "image/jpeg"
	MediaTypePNG  MediaType = "image/png"
	MediaTypeWebP MediaType = "image/webp"
)

// IsImage reports whether the media type must go through vision transcription.
func (m MediaType) IsImage() bool {
	return m == MediaTypeJPEG || m == MediaTypePNG || m == MediaTypeWebP
}

// AllowedContentTypes maps MIME content types to MediaType.
var AllowedContentTypes = map[string]MediaType{
	"application/pdf": MediaTypePDF,
	"image/jpeg":      MediaTypeJPEG,
	"image/jpg":       MediaTypeJPEG,
	"image/pjpeg":     MediaTypeJPEG,
	"image/png":       MediaTypePNG,
	"image/webp":      MediaTypeWebP,
}

// AllowedExtensions maps file extensions (without dot) to MediaType.
var AllowedExtensions = map[string]MediaType{
	"pdf":  MediaTypePDF,
	"jpg":  MediaTypeJPEG,
	"jpeg": MediaTypeJPEG,
	"png":  MediaTypePNG,
	"webp": MediaTypeWebP,
}

// SupportedFormats lists the extensions accepted for upload, in display order.
var SupportedFormats = []string{"pdf", "jpg", "jpeg", "png", "webp"}

// ResolveMediaType maps a declared content type, falling back to the filename
// extension, onto a supported MediaType.
func ResolveMediaType(contentType, filename string) (MediaType, bool) {
	if contentType != "" {
		if parsed, _, err := mime.ParseMediaType(contentType); err == nil {
			contentType = parsed
		}
		if mt, ok := AllowedContentTypes[strings.ToLower(contentType)]; ok {
			return mt, true
		}
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	mt, ok := AllowedExtensions[ext]
	return mt, ok
}

// DocumentType labels a booking document by the keyword signals found in its text.
type DocumentType string

const (
	DocumentTypeCheckIn     DocumentType = "check-in"
	DocumentTypeCheckOut    DocumentType = "check-out"
	DocumentTypeControlFile DocumentType = "control-file"
	DocumentTypeUnknown     DocumentType = "unknown"
)

// Platform is the booking channel a reservation came from.
type Platform string

const (
	PlatformAirbnb  Platform = "Airbnb"
	PlatformBooking Platform = "Booking.com"
	PlatformVrbo    Platform = "Vrbo"
	PlatformDirect  Platform = "Direct"
	PlatformOwner   Platform = "Owner"
	PlatformOther   Platform = "Other"
)

// KnownPlatforms lists the platforms the extractor recognizes; anything else is PlatformOther.
var KnownPlatforms = []Platform{PlatformAirbnb, PlatformBooking, PlatformVrbo, PlatformDirect, PlatformOwner}

// ValidationOutcome is the three-way verdict of the reservation validator.
type ValidationOutcome string

const (
	ValidationValid       ValidationOutcome = "valid"
	ValidationNeedsReview ValidationOutcome = "needs_review"
	ValidationInvalid     ValidationOutcome = "invalid"
)

// ItemOutcome is the terminal state of one candidate within a batch.
type ItemOutcome string

const (
	OutcomeSaved      ItemOutcome = "saved"
	OutcomeDuplicate  ItemOutcome = "duplicate"
	OutcomeInvalid    ItemOutcome = "invalid"
	OutcomeUnresolved ItemOutcome = "unresolved"
	OutcomeSaveFailed ItemOutcome = "save_failed"
	// OutcomeReview means the candidate passed every check but was not auto-saved.
	OutcomeReview ItemOutcome = "review"
)

// ReservationStatus represents the lifecycle of a stored reservation.
type ReservationStatus string

const (
	ReservationStatusConfirmed ReservationStatus = "confirmed"
	ReservationStatusPending   ReservationStatus = "pending"
	ReservationStatusCancelled ReservationStatus = "cancelled"
)

// ValidationSeverity determines whether a failed rule invalidates a candidate or only flags it.
type ValidationSeverity string

const (
	ValidationSeverityError   ValidationSeverity = "error"
	ValidationSeverityWarning ValidationSeverity = "warning"
)
