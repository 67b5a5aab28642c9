package render

import (
	"sort"
	"strings"
)

// HiddenField is one hidden input emitted next to the visible fields.
type HiddenField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// SortedHiddenFields orders RenderOptions.Hidden by name so the markup is
// stable between renders. Blank names are dropped.
func SortedHiddenFields(hidden map[string]string) []HiddenField {
	out := make([]HiddenField, 0, len(hidden))
	for name, value := range hidden {
		if name = strings.TrimSpace(name); name != "" {
			out = append(out, HiddenField{Name: name, Value: value})
		}
	}
	if len(out) == 0 {
		return nil
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
