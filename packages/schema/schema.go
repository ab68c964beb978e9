// Package schema validates JSON response bodies against JSON Schema
// documents.
package schema

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/fubar/jrac/packages/rest"
)

// Validator holds a compiled JSON Schema for repeated use.
type Validator struct {
	schema *gojsonschema.Schema
}

// New compiles a schema from raw JSON Schema bytes.
func New(schemaJSON []byte) (*Validator, error) {
	s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}
	return &Validator{schema: s}, nil
}

// FromFile compiles a schema from a file on disk.
func FromFile(path string) (*Validator, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}
	return New(data)
}

// Validate checks the response body against the schema. An empty body
// is validated as an empty object, matching the client's decode
// default.
func (v *Validator) Validate(resp *rest.Response) error {
	body := bytes.TrimSpace(resp.Body)
	if len(body) == 0 {
		body = []byte("{}")
	}
	return v.ValidateJSON(body)
}

// ValidateJSON checks a raw JSON document against the schema.
func (v *Validator) ValidateJSON(doc []byte) error {
	result, err := v.schema.Validate(gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}
	if result.Valid() {
		return nil
	}

	var descs []string
	for _, desc := range result.Errors() {
		descs = append(descs, desc.String())
	}
	return errors.New("schema validation failed: " + strings.Join(descs, "; "))
}
