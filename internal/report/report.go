// Package report turns answer text into structured audit rows and writes the
// audit report workbook.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Row is one audited document's outcome.
type Row struct {
	Filename     string `json:"filename"`
	AuditFinding string `json:"audit_finding"`
	Evidence     string `json:"evidence"`
}

// rowSchema is what a structured answer must look like before we trust it.
var rowSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"audit_finding": map[string]any{"type": "string", "minLength": 1},
		"evidence":      map[string]any{"type": "string"},
	},
	"required": []string{"audit_finding", "evidence"},
}

// models sometimes wrap JSON in prose or markdown; take the first {...} block
var reJSONObject = regexp.MustCompile(`\{[\s\S]*\}`)

// ParseRow recovers a structured audit row from the model's answer text. When
// the answer embeds a JSON object with audit_finding and evidence that passes
// the schema, those fields are used; a finding that trims to empty is replaced
// by the whole answer while the parsed evidence is kept. Without a usable
// object the whole answer becomes the finding and evidence stays empty.
func ParseRow(filename, answer string) Row {
	if obj := reJSONObject.FindString(answer); obj != "" {
		if err := validateRow([]byte(obj)); err == nil {
			var r Row
			if uerr := json.Unmarshal([]byte(obj), &r); uerr == nil {
				r.Filename = filename
				r.AuditFinding = strings.TrimSpace(r.AuditFinding)
				r.Evidence = strings.TrimSpace(r.Evidence)
				if r.AuditFinding == "" {
					r.AuditFinding = strings.TrimSpace(answer)
				}
				return r
			}
		}
	}
	return Row{Filename: filename, AuditFinding: strings.TrimSpace(answer)}
}

// validateRow validates data against rowSchema.
func validateRow(data []byte) error {
	b, err := json.Marshal(rowSchema)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
