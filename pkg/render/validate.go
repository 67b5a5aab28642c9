package render

import (
	"fmt"

	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/widgets"
)

// FieldRule is an extra check run after a field's own strategy validation.
// The validation package provides the opt-in constraint rules.
type FieldRule func(field model.Field, value any) *widgets.ValidationError

// Validate checks values against schema in a single pass over the fields.
// Each field's strategy is consulted first, then rules in order. The error
// return is reserved for schema problems such as unknown types; rule
// violations are reported in the ValidationErrors result.
func Validate(src StrategySource, schema model.FormSchema, values model.Values, rules ...FieldRule) (ValidationErrors, error) {
	if src == nil {
		return nil, fmt.Errorf("render: strategy source is nil")
	}
	var errs ValidationErrors
	for _, field := range schema.Fields {
		strategy, err := src.Strategy(field.Type)
		if err != nil {
			return nil, fmt.Errorf("render: field %q: %w", field.ID, err)
		}
		if !field.Type.Submittable() {
			continue
		}
		value := values[field.ID]
		if verr := strategy.Validate(field, value); verr != nil {
			errs = append(errs, verr)
		}
		for _, rule := range rules {
			if rule == nil {
				continue
			}
			if verr := rule(field, value); verr != nil {
				errs = append(errs, verr)
			}
		}
	}
	return errs, nil
}

// Payload builds the submission body: only keys naming submittable schema
// fields survive, and partially entered locations are dropped.
func Payload(schema model.FormSchema, values model.Values) model.Values {
	out := make(model.Values, len(values))
	for _, field := range schema.Fields {
		if !field.Type.Submittable() {
			continue
		}
		value, ok := values[field.ID]
		if !ok || value == nil {
			continue
		}
		if field.Type == model.FieldTypeLocation {
			loc, complete := committedLocation(value)
			if !complete {
				continue
			}
			value = loc
		}
		out[field.ID] = value
	}
	return out.Clone()
}

func committedLocation(value any) (model.Location, bool) {
	switch typed := value.(type) {
	case widgets.LocationInput:
		return typed.Commit()
	case *widgets.LocationInput:
		if typed == nil {
			return model.Location{}, false
		}
		return typed.Commit()
	default:
		return widgets.AsLocation(value)
	}
}
