package render

import (
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/widgets"
)

// Session holds the values a user is entering into one form. Values are
// keyed by field id and fed back through RenderForm, so the strategies stay
// stateless. A Session is not safe for concurrent use.
type Session struct {
	src    StrategySource
	schema model.FormSchema
	rules  []FieldRule
	values model.Values
	errs   ValidationErrors
}

// NewSession starts an empty fill session for schema.
func NewSession(src StrategySource, schema model.FormSchema, rules ...FieldRule) *Session {
	return &Session{
		src:    src,
		schema: schema.Clone(),
		rules:  rules,
		values: make(model.Values),
	}
}

// Schema returns a copy of the schema being filled.
func (s *Session) Schema() model.FormSchema {
	return s.schema.Clone()
}

// Set records the value of a submittable field. Unknown ids are ignored.
func (s *Session) Set(id string, value any) bool {
	field, ok := s.schema.Field(id)
	if !ok || !field.Type.Submittable() {
		return false
	}
	if value == nil {
		delete(s.values, id)
		return true
	}
	s.values[id] = value
	return true
}

// Toggle checks or unchecks one checkbox option, keeping toggle order.
func (s *Session) Toggle(id, option string, checked bool) bool {
	field, ok := s.schema.Field(id)
	if !ok || field.Type != model.FieldTypeCheckbox {
		return false
	}
	s.values[id] = widgets.ToggleChoice(widgets.AsStrings(s.values[id]), option, checked)
	return true
}

// Rate records a star click; half selects the star's left half.
func (s *Session) Rate(id string, star int, half bool) bool {
	field, ok := s.schema.Field(id)
	if !ok || field.Type != model.FieldTypeRating {
		return false
	}
	if half && !field.AllowHalf {
		half = false
	}
	s.values[id] = widgets.RatingValue(star, half)
	return true
}

// Value returns the current value of a field.
func (s *Session) Value(id string) any {
	return s.values[id]
}

// Values returns a copy of every recorded value.
func (s *Session) Values() model.Values {
	return s.values.Clone()
}

// Errors returns the errors found by the last Submit.
func (s *Session) Errors() ValidationErrors {
	return append(ValidationErrors(nil), s.errs...)
}

// View renders the form with current values and the last errors.
func (s *Session) View() (FormView, error) {
	return RenderForm(s.src, s.schema, s.values, s.errs.ByField())
}

// Submit validates the current values. On success it returns the payload and
// keeps the values until Reset; on failure it returns the errors and keeps
// them for the next View.
func (s *Session) Submit() (model.Values, error) {
	errs, err := Validate(s.src, s.schema, s.values, s.rules...)
	if err != nil {
		return nil, err
	}
	s.errs = errs
	if errs.HasErrors() {
		return nil, errs
	}
	return Payload(s.schema, s.values), nil
}

// Reset clears values and errors, as after a successful submission.
func (s *Session) Reset() {
	s.values = make(model.Values)
	s.errs = nil
}
