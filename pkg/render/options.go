package render

// Mode selects which surface a renderer is producing.
type Mode string

const (
	// ModePublished renders an interactive form that submits values.
	ModePublished Mode = "published"
	// ModePreview renders the same widgets without a submit target.
	ModePreview Mode = "preview"
)

// RenderOptions describe per-request data that renderers can use to customise
// their output without mutating the schema.
type RenderOptions struct {
	Mode Mode
	// Action is the submit target of a published form.
	Action string
	// Values pre-populates controls, keyed by field id.
	Values map[string]any
	// Errors surfaces validation feedback keyed by field id. Use MapErrors or
	// ValidationErrors.ByField to build it.
	Errors map[string][]string
	// FormErrors are shown above the fields.
	FormErrors []string
	// Notice is a one-off status line, e.g. a submission confirmation.
	Notice string
	// Hidden inputs emitted alongside the visible fields.
	Hidden map[string]string
	// SubmitLabel overrides the submit button text.
	SubmitLabel string
}
