package widgets

import (
	"math"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// Strategy renders and validates one field type. Implementations are pure:
// the same field and value always yield the same widget, and no state is
// kept between calls.
type Strategy interface {
	Type() model.FieldType
	Render(field model.Field, value any) Widget
	Validate(field model.Field, value any) *ValidationError
}

const (
	messageWholeNumbers = "Only whole numbers allowed"
	urlFocusPrefill     = "https://www."
)

func baseWidget(field model.Field, input string) Widget {
	return Widget{
		FieldID:     field.ID,
		Type:        field.Type,
		Input:       input,
		Label:       field.Label,
		ShowLabel:   true,
		Required:    field.Required,
		Help:        strings.TrimSpace(field.Comment),
		Submittable: true,
	}
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// inputStrategy covers the single-value text-like inputs.
type inputStrategy struct {
	fieldType   model.FieldType
	input       string
	placeholder string
	prefill     string
}

func (s inputStrategy) Type() model.FieldType { return s.fieldType }

func (s inputStrategy) Render(field model.Field, value any) Widget {
	w := baseWidget(field, s.input)
	w.Placeholder = firstNonEmpty(field.Placeholder, s.placeholder)
	w.Text, _ = AsString(value)
	w.FocusPrefill = s.prefill
	return w
}

func (s inputStrategy) Validate(model.Field, any) *ValidationError { return nil }

// emailStrategy displays the allowed-domain list; enforcing it is left to the
// validation policy.
type emailStrategy struct {
	inputStrategy
}

func (s emailStrategy) Render(field model.Field, value any) Widget {
	w := s.inputStrategy.Render(field, value)
	domains := make([]string, 0, len(field.AllowedDomains))
	for _, domain := range field.AllowedDomains {
		if trimmed := strings.TrimSpace(domain); trimmed != "" {
			domains = append(domains, trimmed)
		}
	}
	if len(domains) > 0 {
		w.Notes = append(w.Notes, "Allowed domains: "+strings.Join(domains, ", "))
	}
	return w
}

type numberStrategy struct{}

func (numberStrategy) Type() model.FieldType { return model.FieldTypeNumber }

func (numberStrategy) Render(field model.Field, value any) Widget {
	w := baseWidget(field, InputNumber)
	w.Placeholder = firstNonEmpty(field.Placeholder, "Enter number...")
	w.Text, _ = AsString(value)
	w.Step = "any"
	if field.DisallowDecimals {
		w.Step = "1"
		w.Notes = append(w.Notes, messageWholeNumbers)
	}
	return w
}

// Validate flags non-integer input when decimals are disallowed. Empty input
// passes; typing is never blocked, the error is only reported.
func (numberStrategy) Validate(field model.Field, value any) *ValidationError {
	if !field.DisallowDecimals || value == nil {
		return nil
	}
	if text, ok := value.(string); ok && strings.TrimSpace(text) == "" {
		return nil
	}
	number, ok := AsFloat(value)
	if ok && !math.IsInf(number, 0) && number == math.Trunc(number) {
		return nil
	}
	return &ValidationError{
		FieldID: field.ID,
		Code:    CodeInteger,
		Message: messageWholeNumbers,
	}
}
