package widgets

import "github.com/goliatone/go-formbuilder/pkg/model"

// Input kinds emitted on Widget.Input. Renderers switch on these rather than
// on the field type so two types can share one presentation.
const (
	InputText     = "text"
	InputEmail    = "email"
	InputNumber   = "number"
	InputTextarea = "textarea"
	InputSelect   = "select"
	InputCheckbox = "checkbox-group"
	InputRadio    = "radio-group"
	InputRange    = "range"
	InputDate     = "date"
	InputTime     = "time"
	InputURL      = "url"
	InputRating   = "rating"
	InputIframe   = "iframe"
	InputColor    = "color"
	InputLocation = "location"
	InputDivider  = "divider"
)

// Widget is the renderer-neutral description of one field as it should be
// displayed for a given current value. Renderers (HTML, terminal) translate
// it into concrete output; the builder preview, the draft preview and the
// published form all consume the same description.
type Widget struct {
	FieldID     string          `json:"fieldId"`
	Type        model.FieldType `json:"type"`
	Input       string          `json:"input"`
	Label       string          `json:"label,omitempty"`
	ShowLabel   bool            `json:"showLabel"`
	Required    bool            `json:"required,omitempty"`
	Placeholder string          `json:"placeholder,omitempty"`
	Help        string          `json:"help,omitempty"`
	Notes       []string        `json:"notes,omitempty"`
	Text        string          `json:"text,omitempty"`
	Step        string          `json:"step,omitempty"`
	// FocusPrefill is written into an empty input when it gains focus.
	FocusPrefill string         `json:"focusPrefill,omitempty"`
	Unset        bool           `json:"unset,omitempty"`
	UnsetLabel   string         `json:"unsetLabel,omitempty"`
	Options      []Option       `json:"options,omitempty"`
	Selected     []string       `json:"selected,omitempty"`
	Range        *Range         `json:"range,omitempty"`
	Rating       *Rating        `json:"rating,omitempty"`
	Embed        *Embed         `json:"embed,omitempty"`
	Color        *Color         `json:"color,omitempty"`
	Location     *LocationInput `json:"location,omitempty"`
	Errors       []string       `json:"errors,omitempty"`
	// Submittable is false for presentation-only fields (dividers, embeds).
	Submittable bool `json:"submittable"`
}

// Option is one entry of a choice widget.
type Option struct {
	Value    string `json:"value"`
	Selected bool   `json:"selected"`
}

// Range describes a slider.
type Range struct {
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Value float64 `json:"value"`
}

// Rating describes a star rating control.
type Rating struct {
	Max       int     `json:"max"`
	Value     float64 `json:"value"`
	AllowHalf bool    `json:"allowHalf"`
	Stars     []Star  `json:"stars"`
}

// Star is one star of a rating. When the rating allows halves each star has
// two interaction regions: the left half yields HalfValue, the star itself
// FullValue.
type Star struct {
	Index      int     `json:"index"`
	Filled     bool    `json:"filled"`
	HalfFilled bool    `json:"halfFilled"`
	HalfValue  float64 `json:"halfValue,omitempty"`
	FullValue  float64 `json:"fullValue"`
}

// Embed describes a read-only iframe. The failure overlay is rendered
// visible and only hidden once the frame signals a successful load, so
// origins that refuse embedding leave it in place.
type Embed struct {
	Src           string `json:"src,omitempty"`
	Width         string `json:"width"`
	Height        string `json:"height"`
	Title         string `json:"title,omitempty"`
	Sandbox       string `json:"sandbox"`
	Empty         bool   `json:"empty"`
	EmptyTitle    string `json:"emptyTitle,omitempty"`
	EmptyDetail   string `json:"emptyDetail,omitempty"`
	FailureTitle  string `json:"failureTitle"`
	FailureDetail string `json:"failureDetail"`
}

// Color describes a colour picker with a preset palette and free entry.
type Color struct {
	Value   string   `json:"value"`
	Palette []string `json:"palette"`
}

// LocationInput holds the raw text of both coordinate inputs.
type LocationInput struct {
	Lat      string          `json:"lat"`
	Lng      string          `json:"lng"`
	Complete bool            `json:"complete"`
	Value    *model.Location `json:"value,omitempty"`
}
