package widgets

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// Iframe presentation defaults.
const (
	DefaultIframeWidth  = "100%"
	DefaultIframeHeight = "400px"
	IframeSandbox       = "allow-scripts allow-same-origin allow-forms allow-popups"
)

// DefaultColor is used when neither a value nor a configured colour exists.
const DefaultColor = "#000000"

// ColorPalette lists the preset swatches offered by the colour picker.
var ColorPalette = []string{
	"#000000", "#FFFFFF", "#FF0000", "#00FF00", "#0000FF", "#FFFF00",
	"#FF00FF", "#00FFFF", "#FFA500", "#800080", "#FFC0CB", "#A52A2A",
	"#808080", "#000080", "#008000", "#800000", "#FFD700", "#C0C0C0",
}

type iframeStrategy struct{}

func (iframeStrategy) Type() model.FieldType { return model.FieldTypeIframe }

// Render always carries the failure overlay text. Iframes are not submitted.
func (iframeStrategy) Render(field model.Field, _ any) Widget {
	w := baseWidget(field, InputIframe)
	w.Submittable = false
	src := strings.TrimSpace(field.Src)
	w.Embed = &Embed{
		Src:           src,
		Width:         firstNonEmpty(field.Width, DefaultIframeWidth),
		Height:        firstNonEmpty(field.Height, DefaultIframeHeight),
		Title:         firstNonEmpty(field.Label, "Embedded content"),
		Sandbox:       IframeSandbox,
		Empty:         src == "",
		EmptyTitle:    "Iframe Preview",
		EmptyDetail:   "No URL specified",
		FailureTitle:  "Refused to connect",
		FailureDetail: "The website blocked this iframe",
	}
	return w
}

func (iframeStrategy) Validate(model.Field, any) *ValidationError { return nil }

type colorStrategy struct{}

func (colorStrategy) Type() model.FieldType { return model.FieldTypeColor }

func (colorStrategy) Render(field model.Field, value any) Widget {
	w := baseWidget(field, InputColor)
	current, _ := AsString(value)
	current = firstNonEmpty(current, field.ColorValue, DefaultColor)
	w.Color = &Color{
		Value:   current,
		Palette: append([]string(nil), ColorPalette...),
	}
	w.Text = current
	return w
}

func (colorStrategy) Validate(model.Field, any) *ValidationError { return nil }

type locationStrategy struct{}

func (locationStrategy) Type() model.FieldType { return model.FieldTypeLocation }

// Render accepts a committed location, a partially typed LocationInput, or a
// decoded map. Only a complete pair is reported as a value.
func (locationStrategy) Render(field model.Field, value any) Widget {
	w := baseWidget(field, InputLocation)
	input := LocationInput{}

	switch typed := value.(type) {
	case LocationInput:
		input = typed
	case *LocationInput:
		if typed != nil {
			input = *typed
		}
	case map[string]any:
		input.Lat, _ = AsString(typed["lat"])
		input.Lng, _ = AsString(typed["lng"])
	default:
		if loc, ok := AsLocation(value); ok {
			input = locationInput(loc)
		} else if field.LocationValue != nil {
			input = locationInput(*field.LocationValue)
		}
	}

	input.Value = nil
	input.Complete = false
	if loc, ok := input.Commit(); ok {
		input.Complete = true
		input.Value = &loc
	}
	w.Location = &input
	return w
}

func (locationStrategy) Validate(model.Field, any) *ValidationError { return nil }

func locationInput(loc model.Location) LocationInput {
	return LocationInput{
		Lat: strconv.FormatFloat(loc.Lat, 'f', -1, 64),
		Lng: strconv.FormatFloat(loc.Lng, 'f', -1, 64),
	}
}

type dividerStrategy struct{}

func (dividerStrategy) Type() model.FieldType { return model.FieldTypeDivider }

func (dividerStrategy) Render(field model.Field, _ any) Widget {
	w := baseWidget(field, InputDivider)
	w.ShowLabel = false
	w.Required = false
	w.Help = ""
	w.Submittable = false
	return w
}

func (dividerStrategy) Validate(model.Field, any) *ValidationError { return nil }
