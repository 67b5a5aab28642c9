package widgets

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// AsString renders a scalar value as the text an input would hold.
func AsString(value any) (string, bool) {
	switch typed := value.(type) {
	case nil:
		return "", false
	case string:
		return typed, true
	case json.Number:
		return typed.String(), true
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(typed), 'f', -1, 32), true
	case int:
		return strconv.Itoa(typed), true
	case int64:
		return strconv.FormatInt(typed, 10), true
	case bool:
		return strconv.FormatBool(typed), true
	default:
		return "", false
	}
}

// AsFloat parses a numeric value given as a number or as text.
func AsFloat(value any) (float64, bool) {
	switch typed := value.(type) {
	case float64:
		return typed, !math.IsNaN(typed)
	case float32:
		return float64(typed), true
	case int:
		return float64(typed), true
	case int64:
		return float64(typed), true
	case json.Number:
		f, err := typed.Float64()
		return f, err == nil
	case string:
		trimmed := strings.TrimSpace(typed)
		if trimmed == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil || math.IsNaN(f) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// AsStrings normalises a multi-value input ([]string or a decoded JSON
// array) preserving order.
func AsStrings(value any) []string {
	switch typed := value.(type) {
	case []string:
		return append([]string(nil), typed...)
	case []any:
		out := make([]string, 0, len(typed))
		for _, item := range typed {
			if s, ok := AsString(item); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		if typed == "" {
			return nil
		}
		return []string{typed}
	default:
		return nil
	}
}

// AsLocation accepts a Location, a pointer to one, or a decoded JSON object
// with lat/lng keys. Both coordinates must be present.
func AsLocation(value any) (model.Location, bool) {
	switch typed := value.(type) {
	case model.Location:
		return typed, true
	case *model.Location:
		if typed == nil {
			return model.Location{}, false
		}
		return *typed, true
	case map[string]any:
		lat, latOK := AsFloat(typed["lat"])
		lng, lngOK := AsFloat(typed["lng"])
		if !latOK || !lngOK {
			return model.Location{}, false
		}
		loc := model.Location{Lat: lat, Lng: lng}
		if address, ok := typed["address"].(string); ok {
			loc.Address = address
		}
		return loc, true
	default:
		return model.Location{}, false
	}
}

// ToggleChoice applies a checkbox toggle. Checked options are appended so the
// resulting list preserves toggle order rather than option order.
func ToggleChoice(current []string, option string, checked bool) []string {
	out := make([]string, 0, len(current)+1)
	found := false
	for _, existing := range current {
		if existing == option {
			found = true
			if !checked {
				continue
			}
		}
		out = append(out, existing)
	}
	if checked && !found {
		out = append(out, option)
	}
	return out
}

// RatingValue returns the value produced by clicking a star, or its left
// half when half is set.
func RatingValue(star int, half bool) float64 {
	if half {
		return float64(star) - 0.5
	}
	return float64(star)
}

// Commit returns the location once both coordinates parse. Partial entry
// yields no value.
func (l LocationInput) Commit() (model.Location, bool) {
	lat, latOK := AsFloat(l.Lat)
	lng, lngOK := AsFloat(l.Lng)
	if !latOK || !lngOK {
		return model.Location{}, false
	}
	return model.Location{Lat: lat, Lng: lng}, true
}
