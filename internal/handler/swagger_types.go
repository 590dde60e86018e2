package handler

import (
	"staybook/internal/domain"
)

// Swagger type definitions for API documentation.
// These types are used by swag to generate OpenAPI documentation.

// --- Request Types ---

// ConfirmRequest carries operator-reviewed candidates back for saving.
type ConfirmRequest struct {
	Reservations []domain.CandidateReservation `json:"reservations" binding:"required"`
}

// --- Response Types ---

// UploadResponse is the result of a single-document upload.
type UploadResponse struct {
	Success       bool                          `json:"success" example:"true"`
	Type          string                        `json:"type" example:"check-in"`
	Reservations  []domain.CandidateReservation `json:"reservations"`
	ExtractedText string                        `json:"extractedText,omitempty"`
	Error         string                        `json:"error,omitempty"`
	Warning       string                        `json:"warning,omitempty"`
}

// BatchResponse is a batch report tagged with the request kind.
type BatchResponse struct {
	Type string `json:"type" example:"multiple-files"`
	*domain.BatchResult
}

// StatusResponse describes the ingestion capabilities of this deployment.
type StatusResponse struct {
	APIKeyConfigured bool     `json:"apiKeyConfigured" example:"true"`
	Provider         string   `json:"provider" example:"gemini"`
	SupportedFormats []string `json:"supportedFormats" example:"pdf,jpg,jpeg,png,webp"`
	MaxFileSizeMB    int64    `json:"maxFileSizeMB" example:"10"`
	MaxFiles         int      `json:"maxFiles" example:"10"`
	PromptVersion    string   `json:"promptVersion" example:"v1.4"`
}

// ErrorResponseBody wraps an error response.
type ErrorResponseBody struct {
	Success bool      `json:"success" example:"false"`
	Error   *APIError `json:"error"`
}
