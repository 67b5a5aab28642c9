package components

import (
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/widgets"
)

var (
	inputAttributes  = []string{model.AttrLabel, model.AttrPlaceholder, model.AttrRequired, model.AttrComment}
	choiceAttributes = []string{model.AttrLabel, model.AttrRequired, model.AttrOptions, model.AttrComment}
	plainAttributes  = []string{model.AttrLabel, model.AttrRequired, model.AttrComment}
)

func withAttrs(base []string, extra ...string) []string {
	out := make([]string, 0, len(base)+len(extra))
	out = append(out, base...)
	return append(out, extra...)
}

// NewDefaultRegistry constructs a registry holding every built-in field type
// in palette order.
func NewDefaultRegistry(opts ...Option) *Registry {
	registry := New(opts...)
	strategies := widgets.NewRegistry()

	add := func(fieldType model.FieldType, label string, attrs []string, defaults model.Field) {
		strategy, ok := strategies.Resolve(fieldType)
		if !ok {
			panic("components: no strategy for built-in type " + string(fieldType))
		}
		registry.MustRegister(Descriptor{
			Type:       fieldType,
			Label:      label,
			Attributes: attrs,
			Defaults:   defaults,
			Strategy:   strategy,
		})
	}

	add(model.FieldTypeText, "Text Input", inputAttributes, model.Field{})
	add(model.FieldTypeEmail, "Email", withAttrs(inputAttributes, model.AttrAllowedDomains), model.Field{})
	add(model.FieldTypeNumber, "Number", withAttrs(inputAttributes, model.AttrDisallowDecimals), model.Field{})
	add(model.FieldTypeTextarea, "Textarea", inputAttributes, model.Field{})
	add(model.FieldTypeSelect, "Select", choiceAttributes, model.Field{})
	add(model.FieldTypeCheckbox, "Checkbox", choiceAttributes, model.Field{})
	add(model.FieldTypeRadio, "Radio", choiceAttributes, model.Field{})
	add(model.FieldTypeSlider, "Slider", withAttrs(plainAttributes, model.AttrMin, model.AttrMax, model.AttrValue), model.Field{
		Min:   model.Float(widgets.DefaultSliderMin),
		Max:   model.Float(widgets.DefaultSliderMax),
		Value: model.Float(widgets.DefaultSliderValue),
	})
	add(model.FieldTypeDate, "Date", plainAttributes, model.Field{})
	add(model.FieldTypeTime, "Time", plainAttributes, model.Field{})
	add(model.FieldTypeURL, "URL", inputAttributes, model.Field{Placeholder: "https://example.com"})
	add(model.FieldTypeRating, "Rating", withAttrs(plainAttributes, model.AttrMax, model.AttrAllowHalf), model.Field{
		Max: model.Float(widgets.DefaultRatingMax),
	})
	add(model.FieldTypeIframe, "Iframe", []string{model.AttrLabel, model.AttrSrc, model.AttrWidth, model.AttrHeight}, model.Field{
		Width:  widgets.DefaultIframeWidth,
		Height: widgets.DefaultIframeHeight,
	})
	add(model.FieldTypeColor, "Color", withAttrs(plainAttributes, model.AttrColorValue), model.Field{
		ColorValue: widgets.DefaultColor,
	})
	add(model.FieldTypeLocation, "Location", withAttrs(plainAttributes, model.AttrLocationValue), model.Field{})
	add(model.FieldTypeDivider, "Divider", []string{model.AttrLabel}, model.Field{})

	return registry
}
