package schemafile

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// Format is a document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from a file extension, defaulting to JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Marshal encodes schema in the builder's wire shape
// ({"formName": ..., "formComponents": [...]}).
func Marshal(schema model.FormSchema, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		data, err := yaml.Marshal(schema)
		if err != nil {
			return nil, fmt.Errorf("schemafile: encode yaml: %w", err)
		}
		return data, nil
	case FormatJSON, "":
		data, err := json.MarshalIndent(schema, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("schemafile: encode json: %w", err)
		}
		return append(data, '\n'), nil
	default:
		return nil, fmt.Errorf("schemafile: unsupported format %q", format)
	}
}

// ToDocument converts schema into the decoded-document form Coerce accepts,
// so in-memory schemas can be normalised like imported ones.
func ToDocument(schema model.FormSchema) (any, error) {
	data, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("schemafile: encode schema: %w", err)
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("schemafile: decode schema: %w", err)
	}
	return doc, nil
}
