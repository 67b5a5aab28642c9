package widgets

import "fmt"

// Validation codes attached to ValidationError.
const (
	CodeInteger  = "integer"
	CodeRequired = "required"
	CodeDomain   = "domain"
	CodeOption   = "option"
)

// ValidationError reports one rule violation for one field. It is shown next
// to the offending field and does not prevent other fields from validating.
type ValidationError struct {
	FieldID string `json:"fieldId"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("widgets: field %q: %s", e.FieldID, e.Message)
}
