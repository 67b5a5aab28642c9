package contract

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/widgets"
)

// CodeContract marks validation errors raised by the payload schema.
const CodeContract = "contract"

// Check validates a submission against the payload schema. Numeric text is
// read as a number and blank values count as unset, matching how the
// published form submits. Errors that cannot be tied to a field carry an
// empty FieldID.
func (c *Contract) Check(values model.Values) render.ValidationErrors {
	document := c.normalize(values)
	err := c.payload.VisitJSON(document, openapi3.MultiErrors())
	if err == nil {
		return nil
	}
	var out render.ValidationErrors
	for _, item := range flatten(err) {
		out = append(out, toValidationError(item))
	}
	return out
}

func (c *Contract) normalize(values model.Values) map[string]any {
	document := make(map[string]any, len(values))
	for key, value := range values {
		field, known := c.fields[key]
		if !known {
			if c.strict {
				document[key] = jsonValue(value)
			}
			continue
		}
		if normalized, ok := normalizeValue(field, value); ok {
			document[key] = normalized
		}
	}
	return document
}

func normalizeValue(field model.Field, value any) (any, bool) {
	if value == nil {
		return nil, false
	}
	if text, ok := value.(string); ok && strings.TrimSpace(text) == "" {
		return nil, false
	}
	switch field.Type {
	case model.FieldTypeNumber, model.FieldTypeSlider, model.FieldTypeRating:
		if number, ok := widgets.AsFloat(value); ok {
			return number, true
		}
	case model.FieldTypeEmail:
		if text, ok := value.(string); ok {
			return strings.ToLower(strings.TrimSpace(text)), true
		}
	case model.FieldTypeLocation:
		switch typed := value.(type) {
		case widgets.LocationInput:
			loc, ok := typed.Commit()
			if !ok {
				return nil, false
			}
			value = loc
		case *widgets.LocationInput:
			if typed == nil {
				return nil, false
			}
			loc, ok := typed.Commit()
			if !ok {
				return nil, false
			}
			value = loc
		}
	}
	return jsonValue(value), true
}

// jsonValue converts Go values into the shapes encoding/json produces so the
// schema visitor sees plain maps, slices, strings and float64s.
func jsonValue(value any) any {
	switch typed := value.(type) {
	case string, bool, float64, nil:
		return typed
	case []string:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = item
		}
		return out
	}
	if number, ok := widgets.AsFloat(value); ok {
		return number
	}
	data, err := json.Marshal(value)
	if err != nil {
		return value
	}
	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return value
	}
	return generic
}

func flatten(err error) []error {
	var multi openapi3.MultiError
	if errors.As(err, &multi) {
		var out []error
		for _, item := range multi {
			out = append(out, flatten(item)...)
		}
		return out
	}
	return []error{err}
}

func toValidationError(err error) *widgets.ValidationError {
	var schemaErr *openapi3.SchemaError
	if errors.As(err, &schemaErr) {
		fieldID := ""
		if pointer := schemaErr.JSONPointer(); len(pointer) > 0 {
			fieldID = pointer[0]
		}
		return &widgets.ValidationError{FieldID: fieldID, Code: CodeContract, Message: schemaErr.Reason}
	}
	return &widgets.ValidationError{Code: CodeContract, Message: err.Error()}
}
