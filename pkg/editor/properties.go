package editor

import (
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/components"
	"github.com/goliatone/go-formbuilder/pkg/model"
)

// Property edits replace one attribute of one field in place. Each reports
// whether it was applied: edits on unknown ids, on attributes the field type
// does not recognise, or that break an edit policy are no-ops.

func (e *Editor) edit(id, attr string, apply func(*model.Field) bool) bool {
	idx := e.schema.IndexOf(id)
	if idx < 0 {
		return false
	}
	field := &e.schema.Fields[idx]
	if !e.registry.Recognizes(field.Type, attr) {
		return false
	}
	if !apply(field) {
		return false
	}
	e.emit(Event{Kind: EventEdit, FieldID: id, Attribute: attr})
	return true
}

func (e *Editor) SetLabel(id, label string) bool {
	return e.edit(id, model.AttrLabel, func(f *model.Field) bool {
		f.Label = label
		return true
	})
}

func (e *Editor) SetPlaceholder(id, placeholder string) bool {
	return e.edit(id, model.AttrPlaceholder, func(f *model.Field) bool {
		f.Placeholder = placeholder
		return true
	})
}

func (e *Editor) SetRequired(id string, required bool) bool {
	return e.edit(id, model.AttrRequired, func(f *model.Field) bool {
		f.Required = required
		return true
	})
}

// SetComment sets the help text shown below the input.
func (e *Editor) SetComment(id, comment string) bool {
	return e.edit(id, model.AttrComment, func(f *model.Field) bool {
		f.Comment = comment
		return true
	})
}

func (e *Editor) SetDisallowDecimals(id string, disallow bool) bool {
	return e.edit(id, model.AttrDisallowDecimals, func(f *model.Field) bool {
		f.DisallowDecimals = disallow
		return true
	})
}

func (e *Editor) ToggleDisallowDecimals(id string) bool {
	return e.edit(id, model.AttrDisallowDecimals, func(f *model.Field) bool {
		f.DisallowDecimals = !f.DisallowDecimals
		return true
	})
}

func (e *Editor) SetAllowHalf(id string, allow bool) bool {
	return e.edit(id, model.AttrAllowHalf, func(f *model.Field) bool {
		f.AllowHalf = allow
		return true
	})
}

// SetRatingMax sets the number of stars. Non-positive counts and counts above
// the policy's rating cap are rejected.
func (e *Editor) SetRatingMax(id string, stars int) bool {
	limit := e.registry.Policy().RatingCap
	return e.edit(id, model.AttrMax, func(f *model.Field) bool {
		if f.Type != model.FieldTypeRating || stars <= 0 || stars > limit {
			return false
		}
		f.Max = model.Float(float64(stars))
		return true
	})
}

// SetOption replaces the text of option i.
func (e *Editor) SetOption(id string, i int, text string) bool {
	return e.edit(id, model.AttrOptions, func(f *model.Field) bool {
		if i < 0 || i >= len(f.Options) {
			return false
		}
		f.Options[i] = text
		return true
	})
}

// AddOption appends "Option n+1". It is a no-op once the option cap is
// reached.
func (e *Editor) AddOption(id string) bool {
	limit := e.registry.Policy().OptionCap
	return e.edit(id, model.AttrOptions, func(f *model.Field) bool {
		if len(f.Options) >= limit {
			return false
		}
		f.Options = append(f.Options, components.OptionLabel(len(f.Options)+1))
		return true
	})
}

// RemoveOption drops option i and renumbers the remaining generated labels to
// their new positions. Custom labels keep their text.
func (e *Editor) RemoveOption(id string, i int) bool {
	return e.edit(id, model.AttrOptions, func(f *model.Field) bool {
		if i < 0 || i >= len(f.Options) {
			return false
		}
		options := make([]string, 0, len(f.Options)-1)
		options = append(options, f.Options[:i]...)
		options = append(options, f.Options[i+1:]...)
		for pos, option := range options {
			if components.IsGeneratedOption(option) {
				options[pos] = components.OptionLabel(pos + 1)
			}
		}
		f.Options = options
		return true
	})
}

// SetSliderMin accepts a new minimum only if it does not exceed the maximum.
func (e *Editor) SetSliderMin(id string, value float64) bool {
	return e.edit(id, model.AttrMin, func(f *model.Field) bool {
		if f.Type != model.FieldTypeSlider {
			return false
		}
		if f.Max != nil && value > *f.Max {
			return false
		}
		f.Min = model.Float(value)
		return true
	})
}

// SetSliderMax accepts a new maximum only if it is not below the minimum.
func (e *Editor) SetSliderMax(id string, value float64) bool {
	return e.edit(id, model.AttrMax, func(f *model.Field) bool {
		if f.Type != model.FieldTypeSlider {
			return false
		}
		if f.Min != nil && value < *f.Min {
			return false
		}
		f.Max = model.Float(value)
		return true
	})
}

// SetSliderValue sets the default position; values outside the bounds are
// rejected.
func (e *Editor) SetSliderValue(id string, value float64) bool {
	return e.edit(id, model.AttrValue, func(f *model.Field) bool {
		if (f.Min != nil && value < *f.Min) || (f.Max != nil && value > *f.Max) {
			return false
		}
		f.Value = model.Float(value)
		return true
	})
}

// AddDomain appends an allowed email domain. Blank entries are accepted so a
// host can add a row before the user types into it.
func (e *Editor) AddDomain(id, domain string) bool {
	return e.edit(id, model.AttrAllowedDomains, func(f *model.Field) bool {
		f.AllowedDomains = append(f.AllowedDomains, strings.TrimSpace(domain))
		return true
	})
}

func (e *Editor) SetDomain(id string, i int, domain string) bool {
	return e.edit(id, model.AttrAllowedDomains, func(f *model.Field) bool {
		if i < 0 || i >= len(f.AllowedDomains) {
			return false
		}
		f.AllowedDomains[i] = strings.TrimSpace(domain)
		return true
	})
}

func (e *Editor) RemoveDomain(id string, i int) bool {
	return e.edit(id, model.AttrAllowedDomains, func(f *model.Field) bool {
		if i < 0 || i >= len(f.AllowedDomains) {
			return false
		}
		domains := make([]string, 0, len(f.AllowedDomains)-1)
		domains = append(domains, f.AllowedDomains[:i]...)
		f.AllowedDomains = append(domains, f.AllowedDomains[i+1:]...)
		return true
	})
}

// SetIframe updates the embed source and size. Blank sizes keep the current
// value.
func (e *Editor) SetIframe(id, src, width, height string) bool {
	return e.edit(id, model.AttrSrc, func(f *model.Field) bool {
		f.Src = strings.TrimSpace(src)
		if w := strings.TrimSpace(width); w != "" {
			f.Width = w
		}
		if h := strings.TrimSpace(height); h != "" {
			f.Height = h
		}
		return true
	})
}

func (e *Editor) SetColor(id, color string) bool {
	return e.edit(id, model.AttrColorValue, func(f *model.Field) bool {
		f.ColorValue = strings.TrimSpace(color)
		return true
	})
}

func (e *Editor) SetLocation(id string, loc model.Location) bool {
	return e.edit(id, model.AttrLocationValue, func(f *model.Field) bool {
		f.LocationValue = &loc
		return true
	})
}
