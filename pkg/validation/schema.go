package validation

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-formbuilder/pkg/components"
	"github.com/goliatone/go-formbuilder/pkg/model"
)

// SchemaIssue represents a structural problem with a schema, located by a
// JSON pointer into the wire document and the offending field id.
type SchemaIssue struct {
	Path    string `json:"path,omitempty"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// SchemaValidationResult captures the outcome of CheckSchema for builder
// previews and the CLI.
type SchemaValidationResult struct {
	Valid  bool          `json:"valid"`
	Issues []SchemaIssue `json:"issues,omitempty"`
}

// CheckSchema reports structural problems that would make a schema fail to
// render or behave inconsistently: missing or duplicate ids, unregistered
// types, choice fields outside the option policy and inverted slider bounds.
func CheckSchema(registry *components.Registry, schema model.FormSchema) SchemaValidationResult {
	if registry == nil {
		registry = components.NewDefaultRegistry()
	}
	policy := registry.Policy()
	result := SchemaValidationResult{Valid: true}
	add := func(index int, attr, id, format string, args ...any) {
		path := fmt.Sprintf("/formComponents/%d", index)
		if attr != "" {
			path += "/" + attr
		}
		result.Issues = append(result.Issues, SchemaIssue{
			Path:    path,
			Field:   id,
			Message: fmt.Sprintf(format, args...),
		})
	}

	seen := make(map[string]int, len(schema.Fields))
	for i, field := range schema.Fields {
		switch first, dup := seen[field.ID]; {
		case field.ID == "":
			add(i, "id", "", "field id is required")
		case dup:
			add(i, "id", field.ID, "duplicate field id (first used at index %d)", first)
		default:
			seen[field.ID] = i
		}

		descriptor, err := registry.Describe(field.Type)
		if err != nil {
			if errors.Is(err, components.ErrUnknownType) {
				add(i, "type", field.ID, "unknown field type %q", field.Type)
				continue
			}
			add(i, "type", field.ID, "%v", err)
			continue
		}

		if descriptor.Recognizes(model.AttrOptions) {
			switch n := len(field.Options); {
			case n == 0:
				add(i, "options", field.ID, "choice field has no options")
			case n > policy.OptionCap:
				add(i, "options", field.ID, "choice field has %d options, limit is %d", n, policy.OptionCap)
			}
		}

		if field.Type == model.FieldTypeSlider {
			low := model.FloatOr(field.Min, 0)
			high := model.FloatOr(field.Max, 100)
			if low > high {
				add(i, "min", field.ID, "slider min %v exceeds max %v", low, high)
			}
		}
		if field.Type == model.FieldTypeRating && field.Max != nil && *field.Max <= 0 {
			add(i, "max", field.ID, "rating max must be positive")
		}
	}

	result.Valid = len(result.Issues) == 0
	return result
}
