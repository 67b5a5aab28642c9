package html

import (
	"net/url"

	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/widgets"
)

// DecodeValues reads a posted form back into values keyed by field id.
// Checkbox groups keep every checked option in document order, location
// fields read the "<id>.lat" and "<id>.lng" inputs and presentation fields
// are ignored. Fields absent from the post are left unset.
func DecodeValues(schema model.FormSchema, form url.Values) model.Values {
	values := make(model.Values, len(schema.Fields))
	for _, field := range schema.Fields {
		if !field.Type.Submittable() {
			continue
		}
		switch field.Type {
		case model.FieldTypeCheckbox:
			if checked, ok := form[field.ID]; ok {
				values[field.ID] = append([]string(nil), checked...)
			}
		case model.FieldTypeLocation:
			lat, latOK := form[field.ID+".lat"]
			lng, lngOK := form[field.ID+".lng"]
			if !latOK && !lngOK {
				continue
			}
			input := widgets.LocationInput{Lat: first(lat), Lng: first(lng)}
			if loc, ok := input.Commit(); ok {
				values[field.ID] = loc
			} else {
				values[field.ID] = input
			}
		default:
			if raw, ok := form[field.ID]; ok {
				values[field.ID] = first(raw)
			}
		}
	}
	return values
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
