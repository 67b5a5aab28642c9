package validation

import (
	"slices"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/widgets"
)

// Policy switches on constraints the schema declares but the submission path
// does not enforce by default. The zero value enforces nothing.
type Policy struct {
	EnforceRequired       bool `json:"enforceRequired" yaml:"enforce_required"`
	EnforceAllowedDomains bool `json:"enforceAllowedDomains" yaml:"enforce_allowed_domains"`
	EnforceOptions        bool `json:"enforceOptions" yaml:"enforce_options"`
}

// Enabled reports whether any constraint is switched on.
func (p Policy) Enabled() bool {
	return p.EnforceRequired || p.EnforceAllowedDomains || p.EnforceOptions
}

// Rules returns the render rules for the enabled constraints.
func (p Policy) Rules() []render.FieldRule {
	var rules []render.FieldRule
	if p.EnforceRequired {
		rules = append(rules, RequiredRule)
	}
	if p.EnforceAllowedDomains {
		rules = append(rules, AllowedDomainRule)
	}
	if p.EnforceOptions {
		rules = append(rules, OptionRule)
	}
	return rules
}

// Check validates values with the strategies plus the enabled constraints.
func Check(src render.StrategySource, schema model.FormSchema, values model.Values, policy Policy) (render.ValidationErrors, error) {
	return render.Validate(src, schema, values, policy.Rules()...)
}

// RequiredRule flags required fields left empty.
func RequiredRule(field model.Field, value any) *widgets.ValidationError {
	if !field.Required || !isEmpty(value) {
		return nil
	}
	return &widgets.ValidationError{
		FieldID: field.ID,
		Code:    widgets.CodeRequired,
		Message: "This field is required",
	}
}

// AllowedDomainRule flags email addresses outside the field's allow-list.
// Empty values and empty lists pass.
func AllowedDomainRule(field model.Field, value any) *widgets.ValidationError {
	if field.Type != model.FieldTypeEmail {
		return nil
	}
	var allowed []string
	for _, domain := range field.AllowedDomains {
		if trimmed := strings.ToLower(strings.TrimSpace(domain)); trimmed != "" {
			allowed = append(allowed, strings.TrimPrefix(trimmed, "@"))
		}
	}
	text, _ := widgets.AsString(value)
	text = strings.TrimSpace(text)
	if len(allowed) == 0 || text == "" {
		return nil
	}
	at := strings.LastIndex(text, "@")
	if at >= 0 && slices.Contains(allowed, strings.ToLower(text[at+1:])) {
		return nil
	}
	return &widgets.ValidationError{
		FieldID: field.ID,
		Code:    widgets.CodeDomain,
		Message: "Email domain must be one of: " + strings.Join(allowed, ", "),
	}
}

// OptionRule flags choice values that are not among the field's options.
func OptionRule(field model.Field, value any) *widgets.ValidationError {
	if !field.Type.IsChoice() || isEmpty(value) {
		return nil
	}
	var chosen []string
	if field.Type == model.FieldTypeCheckbox {
		chosen = widgets.AsStrings(value)
	} else if text, ok := widgets.AsString(value); ok {
		chosen = []string{text}
	}
	for _, item := range chosen {
		if !slices.Contains(field.Options, item) {
			return &widgets.ValidationError{
				FieldID: field.ID,
				Code:    widgets.CodeOption,
				Message: "Unknown option: " + item,
			}
		}
	}
	return nil
}

func isEmpty(value any) bool {
	switch typed := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(typed) == ""
	case []string:
		return len(typed) == 0
	case []any:
		return len(typed) == 0
	case widgets.LocationInput:
		_, ok := typed.Commit()
		return !ok
	default:
		return false
	}
}
