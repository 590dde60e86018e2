package parser

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const candidateSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "check_in_date":    {"type": "string", "pattern": "^\\d{4}-\\d{2}-\\d{2}$"},
    "check_out_date":   {"type": "string", "pattern": "^\\d{4}-\\d{2}-\\d{2}$"},
    "nights":           {"type": "integer", "minimum": 0},
    "guest_name":       {"type": "string", "minLength": 1},
    "guest_count":      {"type": "integer", "minimum": 1},
    "country":          {"type": "string"},
    "country_inferred": {"type": "boolean"},
    "platform":         {"type": "string"},
    "phone":            {"type": "string"},
    "notes":            {"type": "string"},
    "timezone_source":  {"type": "string"},
    "reservation_id":   {"type": "string"},
    "confidence":       {"type": "number", "minimum": 0, "maximum": 1},
    "source_page":      {"type": "integer", "minimum": 0},
    "needs_review":     {"type": "boolean"},
    "property_name":    {"type": "string"},
    "total_amount":     {"type": "number"},
    "cleaning_fee":     {"type": "number"},
    "checkin_fee":      {"type": "number"}
  }
}`

var (
	candidateSchemaOnce sync.Once
	candidateSchema     *jsonschema.Schema
	candidateSchemaErr  error
)

func compiledCandidateSchema() (*jsonschema.Schema, error) {
	candidateSchemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("candidate.json", strings.NewReader(candidateSchemaJSON)); err != nil {
			candidateSchemaErr = fmt.Errorf("add schema: %w", err)
			return
		}
		candidateSchema, candidateSchemaErr = compiler.Compile("candidate.json")
	})
	return candidateSchema, candidateSchemaErr
}

// SchemaWarnings checks the shape of one raw model object and returns a
// sorted list of human-readable mismatches. Mismatches never drop a candidate;
// coercion repairs what it can and the notes travel with the candidate.
func SchemaWarnings(raw map[string]any) []string {
	schema, err := compiledCandidateSchema()
	if err != nil {
		return []string{"schema unavailable: " + err.Error()}
	}
	err = schema.Validate(raw)
	if err == nil {
		return nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return []string{err.Error()}
	}
	var out []string
	collectLeafErrors(ve, &out)
	sort.Strings(out)
	return out
}

func collectLeafErrors(ve *jsonschema.ValidationError, out *[]string) {
	if len(ve.Causes) == 0 {
		loc := strings.TrimPrefix(ve.InstanceLocation, "/")
		if loc == "" {
			loc = "record"
		}
		*out = append(*out, loc+": "+ve.Message)
		return
	}
	for _, c := range ve.Causes {
		collectLeafErrors(c, out)
	}
}
