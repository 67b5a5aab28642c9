package model

import (
	"strings"
	"time"
)

// FieldType enumerates the supported field kinds.
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeEmail    FieldType = "email"
	FieldTypeNumber   FieldType = "number"
	FieldTypeTextarea FieldType = "textarea"
	FieldTypeSelect   FieldType = "select"
	FieldTypeCheckbox FieldType = "checkbox"
	FieldTypeRadio    FieldType = "radio"
	FieldTypeSlider   FieldType = "slider"
	FieldTypeDate     FieldType = "date"
	FieldTypeTime     FieldType = "time"
	FieldTypeURL      FieldType = "url"
	FieldTypeRating   FieldType = "rating"
	FieldTypeIframe   FieldType = "iframe"
	FieldTypeColor    FieldType = "color"
	FieldTypeLocation FieldType = "location"
	FieldTypeDivider  FieldType = "divider"
)

// DefaultFormName is used whenever a schema has a blank name.
const DefaultFormName = "Untitled Form"

// Attribute names recognised by at least one field type. Component
// descriptors list the subset each type understands.
const (
	AttrLabel            = "label"
	AttrPlaceholder      = "placeholder"
	AttrRequired         = "required"
	AttrOptions          = "options"
	AttrMin              = "min"
	AttrMax              = "max"
	AttrValue            = "value"
	AttrAllowedDomains   = "allowedDomains"
	AttrComment          = "comment"
	AttrDisallowDecimals = "disallowDecimals"
	AttrAllowHalf        = "allowHalf"
	AttrSrc              = "src"
	AttrWidth            = "width"
	AttrHeight           = "height"
	AttrColorValue       = "colorValue"
	AttrLocationValue    = "locationValue"
)

// IsChoice reports whether the type picks values from an option list.
func (t FieldType) IsChoice() bool {
	switch t {
	case FieldTypeSelect, FieldTypeRadio, FieldTypeCheckbox:
		return true
	default:
		return false
	}
}

// Submittable reports whether fields of this type contribute a value to a
// submission. Dividers and embeds are presentation only.
func (t FieldType) Submittable() bool {
	switch t {
	case FieldTypeDivider, FieldTypeIframe:
		return false
	default:
		return true
	}
}

// Location is a coordinate pair with an optional human readable address.
type Location struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address,omitempty"`
}

// Field is one configured element of a form. ID is assigned at creation and
// never changes; it survives reorders and is the key used in Values.
type Field struct {
	ID               string    `json:"id" yaml:"id"`
	Type             FieldType `json:"type" yaml:"type"`
	Label            string    `json:"label" yaml:"label"`
	Placeholder      string    `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Required         bool      `json:"required,omitempty" yaml:"required,omitempty"`
	Options          []string  `json:"options,omitempty" yaml:"options,omitempty"`
	Min              *float64  `json:"min,omitempty" yaml:"min,omitempty"`
	Max              *float64  `json:"max,omitempty" yaml:"max,omitempty"`
	Value            *float64  `json:"value,omitempty" yaml:"value,omitempty"`
	AllowedDomains   []string  `json:"allowedDomains,omitempty" yaml:"allowedDomains,omitempty"`
	Comment          string    `json:"comment,omitempty" yaml:"comment,omitempty"`
	DisallowDecimals bool      `json:"disallowDecimals,omitempty" yaml:"disallowDecimals,omitempty"`
	AllowHalf        bool      `json:"allowHalf,omitempty" yaml:"allowHalf,omitempty"`
	Src              string    `json:"src,omitempty" yaml:"src,omitempty"`
	Width            string    `json:"width,omitempty" yaml:"width,omitempty"`
	Height           string    `json:"height,omitempty" yaml:"height,omitempty"`
	ColorValue       string    `json:"colorValue,omitempty" yaml:"colorValue,omitempty"`
	LocationValue    *Location `json:"locationValue,omitempty" yaml:"locationValue,omitempty"`
}

// Clone returns a copy that shares no slices or pointers with f.
func (f Field) Clone() Field {
	out := f
	out.Options = cloneStrings(f.Options)
	out.AllowedDomains = cloneStrings(f.AllowedDomains)
	out.Min = cloneFloat(f.Min)
	out.Max = cloneFloat(f.Max)
	out.Value = cloneFloat(f.Value)
	if f.LocationValue != nil {
		loc := *f.LocationValue
		out.LocationValue = &loc
	}
	return out
}

// FormSchema is the ordered collection of fields plus the form name. Field
// order is render order.
type FormSchema struct {
	Name   string  `json:"formName" yaml:"formName"`
	Fields []Field `json:"formComponents" yaml:"formComponents"`
}

// DisplayName returns the name, falling back to DefaultFormName.
func (s FormSchema) DisplayName() string {
	if name := strings.TrimSpace(s.Name); name != "" {
		return name
	}
	return DefaultFormName
}

// Clone returns a deep copy of the schema.
func (s FormSchema) Clone() FormSchema {
	out := FormSchema{Name: s.Name}
	if s.Fields != nil {
		out.Fields = make([]Field, len(s.Fields))
		for i, field := range s.Fields {
			out.Fields[i] = field.Clone()
		}
	}
	return out
}

// IndexOf returns the position of the field with the given id, or -1.
func (s FormSchema) IndexOf(id string) int {
	if id == "" {
		return -1
	}
	for i, field := range s.Fields {
		if field.ID == id {
			return i
		}
	}
	return -1
}

// Field returns the field with the given id.
func (s FormSchema) Field(id string) (Field, bool) {
	idx := s.IndexOf(id)
	if idx < 0 {
		return Field{}, false
	}
	return s.Fields[idx], true
}

// IDs lists field ids in render order.
func (s FormSchema) IDs() []string {
	ids := make([]string, len(s.Fields))
	for i, field := range s.Fields {
		ids[i] = field.ID
	}
	return ids
}

// Values maps field ids to their current input. Entries hold a string, a
// float64, a []string (checkbox) or a Location depending on the field type.
type Values map[string]any

// Clone copies the map and any slice values it holds.
func (v Values) Clone() Values {
	if v == nil {
		return nil
	}
	out := make(Values, len(v))
	for key, value := range v {
		switch typed := value.(type) {
		case []string:
			out[key] = cloneStrings(typed)
		case []any:
			out[key] = append([]any(nil), typed...)
		case *Location:
			if typed != nil {
				loc := *typed
				out[key] = &loc
			} else {
				out[key] = typed
			}
		default:
			out[key] = typed
		}
	}
	return out
}

// Submission is one persisted values snapshot for a published form.
type Submission struct {
	ID        string    `json:"id"`
	FormID    string    `json:"formId"`
	Values    Values    `json:"data"`
	CreatedAt time.Time `json:"createdAt"`
}

// PublishedForm is a schema persisted by the publish gateway.
type PublishedForm struct {
	ID          string       `json:"uuid"`
	Name        string       `json:"name"`
	Schema      FormSchema   `json:"content"`
	URL         string       `json:"url,omitempty"`
	SessionID   string       `json:"sessionId,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
	Submissions []Submission `json:"submissions,omitempty"`
}

// Float returns a pointer to v; handy for the optional numeric attributes.
func Float(v float64) *float64 {
	return &v
}

// FloatOr dereferences p, returning fallback when p is nil.
func FloatOr(p *float64, fallback float64) float64 {
	if p == nil {
		return fallback
	}
	return *p
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string(nil), in...)
}

func cloneFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
