package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

func verdictSchema() *Schema {
	return &Schema{
		Name:        "hint-usage-verdict",
		Description: "Confidence that the response acknowledges the hint",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"confidence": map[string]any{
					"type":    "number",
					"minimum": 0,
					"maximum": 1,
				},
			},
			"required":             []any{"confidence"},
			"additionalProperties": false,
		},
	}
}

func TestValidateResponse_Valid(t *testing.T) {
	err := validateResponse(verdictSchema(), json.RawMessage(`{"confidence": 0.85}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateResponse_NilSchema(t *testing.T) {
	if err := validateResponse(nil, json.RawMessage(`not even json`)); err != nil {
		t.Fatalf("nil schema should skip validation: %v", err)
	}
}

func TestValidateResponse_InvalidJSON(t *testing.T) {
	err := validateResponse(verdictSchema(), json.RawMessage(`{"confidence":`))
	var invalid *ErrInvalidResponse
	if !errors.As(err, &invalid) {
		t.Fatalf("expected ErrInvalidResponse, got %T", err)
	}
}

func TestValidateResponse_SchemaViolations(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"missing field", `{}`},
		{"wrong type", `{"confidence": "high"}`},
		{"out of range", `{"confidence": 1.5}`},
		{"extra field", `{"confidence": 0.5, "verdict": "yes"}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := validateResponse(verdictSchema(), json.RawMessage(tc.raw))
			var invalid *ErrInvalidResponse
			if !errors.As(err, &invalid) {
				t.Fatalf("expected ErrInvalidResponse, got %v", err)
			}
			if string(invalid.Content) != tc.raw {
				t.Errorf("error should carry the offending content, got %s", invalid.Content)
			}
		})
	}
}

func TestValidateResponse_CachesCompiledSchema(t *testing.T) {
	schema := verdictSchema()
	if err := validateResponse(schema, json.RawMessage(`{"confidence": 0.1}`)); err != nil {
		t.Fatalf("first validation failed: %v", err)
	}
	if _, ok := schemaCache.Load(schema.Name); !ok {
		t.Fatal("compiled schema not cached")
	}
	if err := validateResponse(schema, json.RawMessage(`{"confidence": 0.2}`)); err != nil {
		t.Fatalf("second validation failed: %v", err)
	}
}
