package render

import (
	"fmt"

	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/widgets"
)

// FormView is a rendered schema: one widget per field in schema order.
type FormView struct {
	Name       string           `json:"name"`
	Fields     []widgets.Widget `json:"fields"`
	FormErrors []string         `json:"formErrors,omitempty"`
}

// HasErrors reports whether any widget or the form itself carries errors.
func (v FormView) HasErrors() bool {
	if len(v.FormErrors) > 0 {
		return true
	}
	for _, w := range v.Fields {
		if len(w.Errors) > 0 {
			return true
		}
	}
	return false
}

// RenderField describes field for the given current value. It is a pure
// function of its inputs. An unregistered type fails with the registry's
// unknown type error.
func RenderField(src StrategySource, field model.Field, value any) (widgets.Widget, error) {
	if src == nil {
		return widgets.Widget{}, fmt.Errorf("render: strategy source is nil")
	}
	strategy, err := src.Strategy(field.Type)
	if err != nil {
		return widgets.Widget{}, fmt.Errorf("render: field %q: %w", field.ID, err)
	}
	return strategy.Render(field, value), nil
}

// RenderForm renders every field with its value from values and attaches
// the messages in errs (keyed by field id).
func RenderForm(src StrategySource, schema model.FormSchema, values model.Values, errs map[string][]string) (FormView, error) {
	view := FormView{
		Name:   schema.DisplayName(),
		Fields: make([]widgets.Widget, 0, len(schema.Fields)),
	}
	for _, field := range schema.Fields {
		w, err := RenderField(src, field, values[field.ID])
		if err != nil {
			return FormView{}, err
		}
		if messages := errs[field.ID]; len(messages) > 0 {
			w.Errors = append([]string(nil), messages...)
		}
		view.Fields = append(view.Fields, w)
	}
	return view, nil
}
