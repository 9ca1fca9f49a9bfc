package models

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

// Edit payloads are user-supplied JSON; they are validated against
// templates/resume_edits.schema.json before any row is written.

var (
	editSchemaOnce sync.Once
	editSchema     *gojsonschema.Schema
	editSchemaErr  error
)

func loadEditSchema() (*gojsonschema.Schema, error) {
	editSchemaOnce.Do(func() {
		// Resolve the templates directory whether running from the repo root
		// or a package directory (tests).
		candidates := []string{"templates", "../templates", "../../templates", "../../../templates"}
		var path string
		for _, c := range candidates {
			p := filepath.Join(c, "resume_edits.schema.json")
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
		if path == "" {
			editSchemaErr = fmt.Errorf("resume_edits.schema.json not found")
			return
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			editSchemaErr = err
			return
		}
		loader := gojsonschema.NewReferenceLoader("file://" + filepath.ToSlash(abs))
		editSchema, editSchemaErr = gojsonschema.NewSchema(loader)
	})
	return editSchema, editSchemaErr
}

// ValidateEdits checks a decoded saveEdits payload against the edit schema.
// The returned error message lists every violation.
func ValidateEdits(payload map[string]any) error {
	schema, err := loadEditSchema()
	if err != nil {
		return err
	}
	res, err := schema.Validate(gojsonschema.NewGoLoader(payload))
	if err != nil {
		return err
	}
	if res.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("invalid edit payload: %s", strings.Join(msgs, "; "))
}
