package model_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

func TestFormSchema_DisplayNameFallsBack(t *testing.T) {
	cases := map[string]string{
		"":          model.DefaultFormName,
		"   ":       model.DefaultFormName,
		"Contact":   "Contact",
		" Survey  ": "Survey",
	}
	for name, want := range cases {
		if got := (model.FormSchema{Name: name}).DisplayName(); got != want {
			t.Fatalf("DisplayName(%q): want %q, got %q", name, want, got)
		}
	}
}

func TestFormSchema_CloneIsIndependent(t *testing.T) {
	original := model.FormSchema{
		Name: "Poll",
		Fields: []model.Field{
			{ID: "a", Type: model.FieldTypeRadio, Label: "Pick", Options: []string{"Option 1", "Option 2"}},
			{ID: "b", Type: model.FieldTypeSlider, Label: "Level", Min: model.Float(0), Max: model.Float(10)},
			{ID: "c", Type: model.FieldTypeLocation, Label: "Where", LocationValue: &model.Location{Lat: 1, Lng: 2}},
		},
	}

	clone := original.Clone()
	clone.Fields[0].Options[0] = "changed"
	*clone.Fields[1].Max = 99
	clone.Fields[2].LocationValue.Lat = 50

	if original.Fields[0].Options[0] != "Option 1" {
		t.Fatalf("options shared with clone")
	}
	if *original.Fields[1].Max != 10 {
		t.Fatalf("max pointer shared with clone")
	}
	if original.Fields[2].LocationValue.Lat != 1 {
		t.Fatalf("location shared with clone")
	}
}

func TestFormSchema_WireFormat(t *testing.T) {
	schema := model.FormSchema{
		Name: "Contact",
		Fields: []model.Field{
			{ID: "n", Type: model.FieldTypeNumber, Label: "Age", DisallowDecimals: true},
			{ID: "e", Type: model.FieldTypeEmail, Label: "Email", AllowedDomains: []string{"example.com"}},
		},
	}
	payload, err := json.Marshal(schema)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, key := range []string{`"formName"`, `"formComponents"`, `"disallowDecimals":true`, `"allowedDomains"`} {
		if !strings.Contains(string(payload), key) {
			t.Fatalf("expected %s in %s", key, payload)
		}
	}

	var decoded model.FormSchema
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if diff := cmp.Diff(schema, decoded); diff != "" {
		t.Fatalf("schema mismatch (-want +got):\n%s", diff)
	}
}

func TestFormSchema_IndexOfAndIDs(t *testing.T) {
	schema := model.FormSchema{Fields: []model.Field{{ID: "x"}, {ID: "y"}}}
	if idx := schema.IndexOf("y"); idx != 1 {
		t.Fatalf("IndexOf(y): want 1, got %d", idx)
	}
	if idx := schema.IndexOf(""); idx != -1 {
		t.Fatalf("IndexOf(empty): want -1, got %d", idx)
	}
	if diff := cmp.Diff([]string{"x", "y"}, schema.IDs()); diff != "" {
		t.Fatalf("ids mismatch (-want +got):\n%s", diff)
	}
}

func TestValues_CloneCopiesSlices(t *testing.T) {
	values := model.Values{"tags": []string{"a"}, "n": 3.0}
	clone := values.Clone()
	clone["tags"].([]string)[0] = "z"
	if values["tags"].([]string)[0] != "a" {
		t.Fatalf("checkbox values shared with clone")
	}
}
