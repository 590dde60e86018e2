package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"staybook/internal/parser"
)

func TestSchemaWarnings_WellFormed(t *testing.T) {
	raw := map[string]any{
		"check_in_date":  "2025-06-10",
		"check_out_date": "2025-06-15",
		"nights":         float64(5),
		"guest_name":     "Maria Santos",
		"guest_count":    float64(2),
		"confidence":     0.9,
		"needs_review":   false,
	}

	assert.Empty(t, parser.SchemaWarnings(raw))
}

func TestSchemaWarnings_TypeMismatches(t *testing.T) {
	raw := map[string]any{
		"check_in_date": "10/06/2025",
		"nights":        "five",
		"confidence":    float64(2),
	}

	warnings := parser.SchemaWarnings(raw)

	assert.Len(t, warnings, 3)
	assert.Contains(t, warnings[0], "check_in_date")
	assert.Contains(t, warnings[1], "confidence")
	assert.Contains(t, warnings[2], "nights")
}
