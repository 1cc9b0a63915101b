package review

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/contasapp/contas-ingest/constants"
)

// BuildDraftJSONSchema returns a JSON-Schema (draft 2020-12 subset) for the
// commit request body. Shape-level checks live here; the value-level
// completeness gate stays in Service.Commit.
func BuildDraftJSONSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"user_id":         map[string]any{"type": "string", "minLength": 1},
			"amount":          map[string]any{"type": "string"},
			"due_date":        map[string]any{"type": "string", "pattern": `^\d{2}/\d{2}/\d{4}$`},
			"category":        map[string]any{"type": "string", "enum": constants.ExpenseCategories()},
			"issuer_name":     map[string]any{"type": "string"},
			"account":         map[string]any{"type": "string", "enum": constants.Accounts},
			"linha_digitavel": map[string]any{"type": "string"},
		},
		"required": []string{"user_id", "amount", "due_date", "category"},
	}
}

var (
	draftSchemaOnce sync.Once
	draftSchema     *jsonschema.Schema
	draftSchemaErr  error
)

// ValidateDraftJSON validates a raw commit request body against the schema.
func ValidateDraftJSON(data []byte) error {
	draftSchemaOnce.Do(func() {
		b, err := json.Marshal(BuildDraftJSONSchema())
		if err != nil {
			draftSchemaErr = fmt.Errorf("marshal schema: %w", err)
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("draft.json", bytes.NewReader(b)); err != nil {
			draftSchemaErr = fmt.Errorf("add schema: %w", err)
			return
		}
		draftSchema, draftSchemaErr = compiler.Compile("draft.json")
	})
	if draftSchemaErr != nil {
		return draftSchemaErr
	}

	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal body: %w", err)
	}
	if err := draftSchema.Validate(v); err != nil {
		return fmt.Errorf("body does not match schema: %w", err)
	}
	return nil
}
