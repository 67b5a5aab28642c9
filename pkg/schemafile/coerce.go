package schemafile

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formbuilder/pkg/components"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/widgets"
)

// ItemError describes one schema item that could not be imported. The item
// is excluded; the rest of the document is still imported.
type ItemError struct {
	Index  int    `json:"index"`
	ID     string `json:"id,omitempty"`
	Reason string `json:"reason"`
}

func (e ItemError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("schemafile: item %d (%s): %s", e.Index, e.ID, e.Reason)
	}
	return fmt.Sprintf("schemafile: item %d: %s", e.Index, e.Reason)
}

// Result is a coerced schema plus the items that were excluded.
type Result struct {
	Schema model.FormSchema `json:"schema"`
	Issues []ItemError      `json:"issues,omitempty"`
}

// Err joins the item errors, or returns nil when every item was imported.
func (r Result) Err() error {
	if len(r.Issues) == 0 {
		return nil
	}
	errs := make([]error, len(r.Issues))
	for i, issue := range r.Issues {
		errs[i] = issue
	}
	return errors.Join(errs...)
}

// CoerceOptions configures Coerce.
type CoerceOptions struct {
	Registry *components.Registry
	// NewID generates ids for items with a missing or duplicate id. Defaults
	// to the registry's generator.
	NewID func() string
}

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Coerce converts a decoded document (objects decoded into map[string]any)
// into a schema. Unknown keys and attributes the item's type does not use are
// dropped, missing or duplicate ids are regenerated, and items without a
// usable type are reported and excluded. Only a document that is not an
// object or a list fails as a whole.
func Coerce(raw any, opts CoerceOptions) (Result, error) {
	registry := opts.Registry
	if registry == nil {
		registry = components.NewDefaultRegistry()
	}

	var (
		name  string
		items []any
	)
	switch doc := raw.(type) {
	case map[string]any:
		if content, ok := doc["content"].(map[string]any); ok {
			return Coerce(content, opts)
		}
		name = firstString(doc, "formName", "name", "title")
		items = firstList(doc, "formComponents", "fields", "components")
	case []any:
		items = doc
	default:
		return Result{}, fmt.Errorf("schemafile: document must be an object or a list, got %T", raw)
	}

	result := Result{Schema: model.FormSchema{Name: sanitizeText(name), Fields: []model.Field{}}}
	seen := make(map[string]struct{}, len(items))
	for i, item := range items {
		field, err := coerceField(registry, item, opts.NewID)
		if err != nil {
			issue := ItemError{Index: i, Reason: err.Error()}
			if obj, ok := item.(map[string]any); ok {
				issue.ID, _ = obj["id"].(string)
			}
			result.Issues = append(result.Issues, issue)
			continue
		}
		if _, dup := seen[field.ID]; dup {
			field.ID = regenerate(registry, field.Type, opts.NewID)
		}
		seen[field.ID] = struct{}{}
		result.Schema.Fields = append(result.Schema.Fields, field)
	}
	return result, nil
}

func regenerate(registry *components.Registry, fieldType model.FieldType, newID func() string) string {
	if newID != nil {
		return newID()
	}
	fresh, _ := registry.Instantiate(fieldType)
	return fresh.ID
}

func coerceField(registry *components.Registry, item any, newID func() string) (model.Field, error) {
	obj, ok := item.(map[string]any)
	if !ok {
		return model.Field{}, fmt.Errorf("item is %T, not an object", item)
	}
	rawType, _ := widgets.AsString(obj["type"])
	fieldType := model.FieldType(strings.ToLower(strings.TrimSpace(rawType)))
	if fieldType == "" {
		return model.Field{}, errors.New("missing type")
	}
	descriptor, err := registry.Describe(fieldType)
	if err != nil {
		return model.Field{}, fmt.Errorf("unknown type %q", rawType)
	}

	// Only the attributes present in the item are applied. Palette defaults
	// such as generated options or placeholders are not filled back in, so an
	// attribute the author cleared stays cleared.
	field := model.Field{Type: descriptor.Type, Label: descriptor.Label}
	if id, _ := obj["id"].(string); strings.TrimSpace(id) != "" {
		field.ID = strings.TrimSpace(id)
	} else {
		field.ID = regenerate(registry, fieldType, newID)
	}

	policy := registry.Policy()
	for key, value := range obj {
		if !descriptor.Recognizes(key) {
			continue
		}
		applyAttribute(&field, key, value, policy)
	}
	normalizeBounds(&field, policy)
	return field, nil
}

func applyAttribute(field *model.Field, key string, value any, policy components.Policy) {
	switch key {
	case model.AttrLabel:
		if text, ok := widgets.AsString(value); ok {
			if cleaned := sanitizeText(text); cleaned != "" {
				field.Label = cleaned
			}
		}
	case model.AttrPlaceholder:
		if text, ok := widgets.AsString(value); ok {
			field.Placeholder = sanitizeText(text)
		}
	case model.AttrComment:
		if text, ok := widgets.AsString(value); ok {
			field.Comment = sanitizeText(text)
		}
	case model.AttrRequired:
		field.Required = asBool(value)
	case model.AttrDisallowDecimals:
		field.DisallowDecimals = asBool(value)
	case model.AttrAllowHalf:
		field.AllowHalf = asBool(value)
	case model.AttrOptions:
		if options := sanitizeList(value); len(options) > 0 {
			if len(options) > policy.OptionCap {
				options = options[:policy.OptionCap]
			}
			field.Options = options
		}
	case model.AttrAllowedDomains:
		field.AllowedDomains = sanitizeList(value)
	case model.AttrMin:
		if number, ok := widgets.AsFloat(value); ok {
			field.Min = model.Float(number)
		}
	case model.AttrMax:
		if number, ok := widgets.AsFloat(value); ok {
			field.Max = model.Float(number)
		}
	case model.AttrValue:
		if number, ok := widgets.AsFloat(value); ok {
			field.Value = model.Float(number)
		}
	case model.AttrSrc:
		if text, ok := widgets.AsString(value); ok {
			field.Src = sanitizeURL(text)
		}
	case model.AttrWidth:
		if text, ok := widgets.AsString(value); ok && strings.TrimSpace(text) != "" {
			field.Width = sanitizeText(text)
		}
	case model.AttrHeight:
		if text, ok := widgets.AsString(value); ok && strings.TrimSpace(text) != "" {
			field.Height = sanitizeText(text)
		}
	case model.AttrColorValue:
		if text, ok := widgets.AsString(value); ok && hexColor.MatchString(strings.TrimSpace(text)) {
			field.ColorValue = strings.ToUpper(strings.TrimSpace(text))
		}
	case model.AttrLocationValue:
		if loc, ok := widgets.AsLocation(value); ok {
			loc.Address = sanitizeText(loc.Address)
			field.LocationValue = &loc
		}
	}
}

// normalizeBounds restores default slider bounds when the imported ones are
// inverted, pulls the default value inside them and keeps a rating's star
// count within the policy's rating cap.
func normalizeBounds(field *model.Field, policy components.Policy) {
	if field.Type == model.FieldTypeSlider {
		low := model.FloatOr(field.Min, widgets.DefaultSliderMin)
		high := model.FloatOr(field.Max, widgets.DefaultSliderMax)
		if low > high {
			low, high = widgets.DefaultSliderMin, widgets.DefaultSliderMax
		}
		field.Min, field.Max = model.Float(low), model.Float(high)
		if field.Value != nil {
			field.Value = model.Float(max(low, min(high, *field.Value)))
		}
	}
	if field.Type == model.FieldTypeRating && field.Max != nil {
		switch stars := math.Trunc(*field.Max); {
		case stars <= 0 || math.IsNaN(stars):
			field.Max = model.Float(widgets.DefaultRatingMax)
		case stars > float64(policy.RatingCap):
			field.Max = model.Float(float64(policy.RatingCap))
		default:
			field.Max = model.Float(stars)
		}
	}
}

func decodeDocument(data []byte, source string) (any, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("schemafile: %s is empty", source)
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}
	if err := yaml.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}
	return nil, fmt.Errorf("schemafile: parse %s: invalid JSON or YAML", source)
}

func firstString(obj map[string]any, keys ...string) string {
	for _, key := range keys {
		if text, ok := obj[key].(string); ok && strings.TrimSpace(text) != "" {
			return text
		}
	}
	return ""
}

func firstList(obj map[string]any, keys ...string) []any {
	for _, key := range keys {
		if list, ok := obj[key].([]any); ok {
			return list
		}
	}
	return nil
}

func asBool(value any) bool {
	switch typed := value.(type) {
	case bool:
		return typed
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(typed))
		return err == nil && parsed
	default:
		number, ok := widgets.AsFloat(value)
		return ok && number != 0
	}
}
