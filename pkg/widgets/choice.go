package widgets

import "github.com/goliatone/go-formbuilder/pkg/model"

// UnsetSelectLabel is shown by a select with no option chosen.
const UnsetSelectLabel = "Select an option..."

type selectStrategy struct{}

func (selectStrategy) Type() model.FieldType { return model.FieldTypeSelect }

// Render distinguishes "nothing chosen" (nil, or an empty string that is not
// itself one of the options) from choosing an option equal to "".
func (selectStrategy) Render(field model.Field, value any) Widget {
	w := baseWidget(field, InputSelect)
	w.UnsetLabel = UnsetSelectLabel
	w.Options = make([]Option, len(field.Options))

	chosen, hasValue := AsString(value)
	matched := false
	for i, option := range field.Options {
		selected := hasValue && !matched && option == chosen
		if selected {
			matched = true
		}
		w.Options[i] = Option{Value: option, Selected: selected}
	}
	w.Unset = !matched
	if matched {
		w.Text = chosen
	}
	return w
}

func (selectStrategy) Validate(model.Field, any) *ValidationError { return nil }

type radioStrategy struct{}

func (radioStrategy) Type() model.FieldType { return model.FieldTypeRadio }

func (radioStrategy) Render(field model.Field, value any) Widget {
	w := baseWidget(field, InputRadio)
	chosen, hasValue := AsString(value)
	w.Options = make([]Option, len(field.Options))
	for i, option := range field.Options {
		w.Options[i] = Option{Value: option, Selected: hasValue && option == chosen}
	}
	if hasValue {
		w.Text = chosen
	}
	return w
}

func (radioStrategy) Validate(model.Field, any) *ValidationError { return nil }

type checkboxStrategy struct{}

func (checkboxStrategy) Type() model.FieldType { return model.FieldTypeCheckbox }

// Render keeps Selected in toggle order; Options keep option order.
func (checkboxStrategy) Render(field model.Field, value any) Widget {
	w := baseWidget(field, InputCheckbox)
	w.Selected = AsStrings(value)
	chosen := make(map[string]struct{}, len(w.Selected))
	for _, item := range w.Selected {
		chosen[item] = struct{}{}
	}
	w.Options = make([]Option, len(field.Options))
	for i, option := range field.Options {
		_, ok := chosen[option]
		w.Options[i] = Option{Value: option, Selected: ok}
	}
	return w
}

func (checkboxStrategy) Validate(model.Field, any) *ValidationError { return nil }
