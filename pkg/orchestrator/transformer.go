package orchestrator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// Transformer mutates a schema after it is resolved and before decorators
// run. Implementations can relabel fields, mark them required, or perform
// arbitrary rewrites.
type Transformer interface {
	Transform(ctx context.Context, schema *model.FormSchema) error
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(ctx context.Context, schema *model.FormSchema) error

// Transform executes the wrapped function when non-nil.
func (fn TransformerFunc) Transform(ctx context.Context, schema *model.FormSchema) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, schema)
}

// JSONPresetTransformer applies declarative overrides loaded from a JSON file.
// Fields are addressed by id:
//
//	{
//	  "formName": "Support request",
//	  "fields": {
//	    "email": {"label": "Work email", "required": true, "allowedDomains": ["acme.com"]}
//	  }
//	}
type JSONPresetTransformer struct {
	document jsonTransformDocument
}

type jsonTransformDocument struct {
	Name   string                    `json:"formName"`
	Fields map[string]jsonFieldPatch `json:"fields"`
}

type jsonFieldPatch struct {
	Label          string   `json:"label"`
	Placeholder    string   `json:"placeholder"`
	Comment        string   `json:"comment"`
	Required       *bool    `json:"required"`
	AllowedDomains []string `json:"allowedDomains"`
}

// NewJSONPresetTransformer constructs a transformer from raw JSON bytes.
func NewJSONPresetTransformer(data []byte) (*JSONPresetTransformer, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("json preset transformer: document is empty")
	}
	var document jsonTransformDocument
	if err := json.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("json preset transformer: parse document: %w", err)
	}
	return &JSONPresetTransformer{document: document}, nil
}

// NewJSONPresetTransformerFromFS loads a JSON transformer document from the
// provided filesystem path.
func NewJSONPresetTransformerFromFS(fsys fs.FS, path string) (*JSONPresetTransformer, error) {
	if fsys == nil {
		return nil, errors.New("json preset transformer: filesystem is nil")
	}
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("json preset transformer: path is required")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("json preset transformer: read %s: %w", path, err)
	}
	return NewJSONPresetTransformer(data)
}

// Transform applies the declarative patches onto the supplied schema. A
// patch naming an unknown field id is an error.
func (t *JSONPresetTransformer) Transform(ctx context.Context, schema *model.FormSchema) error {
	if schema == nil {
		return errors.New("json preset transformer: schema is nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if name := strings.TrimSpace(t.document.Name); name != "" {
		schema.Name = name
	}
	for id, patch := range t.document.Fields {
		idx := schema.IndexOf(id)
		if idx < 0 {
			return fmt.Errorf("json preset transformer: field %q not found", id)
		}
		applyFieldPatch(&schema.Fields[idx], patch)
	}
	return nil
}

func applyFieldPatch(field *model.Field, patch jsonFieldPatch) {
	if patch.Label != "" {
		field.Label = patch.Label
	}
	if patch.Placeholder != "" {
		field.Placeholder = patch.Placeholder
	}
	if patch.Comment != "" {
		field.Comment = patch.Comment
	}
	if patch.Required != nil {
		field.Required = *patch.Required
	}
	if patch.AllowedDomains != nil && field.Type == model.FieldTypeEmail {
		field.AllowedDomains = append([]string(nil), patch.AllowedDomains...)
	}
}
