package orchestrator_test

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/orchestrator"
	"github.com/goliatone/go-formbuilder/pkg/testsupport"
)

func TestJSONPresetTransformer_PatchesFields(t *testing.T) {
	files := fstest.MapFS{"preset.json": {Data: []byte(`{
		"formName": "Support request",
		"fields": {
			"email": {"label": "Work email", "allowedDomains": ["acme.com"]},
			"message": {"required": false, "comment": "Keep it short"}
		}
	}`)}}
	transformer, err := orchestrator.NewJSONPresetTransformerFromFS(files, "preset.json")
	if err != nil {
		t.Fatalf("load preset: %v", err)
	}

	schema := testsupport.ContactSchema()
	if err := transformer.Transform(context.Background(), &schema); err != nil {
		t.Fatalf("transform: %v", err)
	}

	if schema.Name != "Support request" {
		t.Fatalf("name not patched: %q", schema.Name)
	}
	email, _ := schema.Field("email")
	if email.Label != "Work email" {
		t.Fatalf("label not patched: %q", email.Label)
	}
	if diff := cmp.Diff([]string{"acme.com"}, email.AllowedDomains); diff != "" {
		t.Fatalf("domains mismatch (-want +got):\n%s", diff)
	}
	message, _ := schema.Field("message")
	if message.Required || message.Comment != "Keep it short" {
		t.Fatalf("message not patched: %+v", message)
	}
	name, _ := schema.Field("name")
	if !name.Required || name.Label != "Name" {
		t.Fatalf("untouched field changed: %+v", name)
	}
}

func TestJSONPresetTransformer_Errors(t *testing.T) {
	if _, err := orchestrator.NewJSONPresetTransformer([]byte("  ")); err == nil {
		t.Fatalf("expected empty document error")
	}
	if _, err := orchestrator.NewJSONPresetTransformerFromFS(nil, "x.json"); err == nil {
		t.Fatalf("expected nil filesystem error")
	}

	transformer, err := orchestrator.NewJSONPresetTransformer([]byte(`{"fields":{"ghost":{"label":"Boo"}}}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	schema := model.FormSchema{Fields: []model.Field{{ID: "real", Type: model.FieldTypeText}}}
	if err := transformer.Transform(context.Background(), &schema); err == nil {
		t.Fatalf("expected unknown field error")
	}
}
