// Package testsupport holds fixtures shared by package tests.
package testsupport

import (
	"bytes"
	"context"
	"io"
	"os"
	"testing"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// ContactSchema is the four field form used by end to end tests.
func ContactSchema() model.FormSchema {
	return model.FormSchema{
		Name: "Contact",
		Fields: []model.Field{
			{ID: "name", Type: model.FieldTypeText, Label: "Name", Placeholder: "Enter text input...", Required: true},
			{ID: "email", Type: model.FieldTypeEmail, Label: "Email", Placeholder: "Enter email...", Required: true},
			{ID: "subject", Type: model.FieldTypeSelect, Label: "Subject", Options: []string{"General", "Support", "Sales"}},
			{ID: "message", Type: model.FieldTypeTextarea, Label: "Message", Placeholder: "Enter textarea...", Required: true},
		},
	}
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// MustReadGoldenString reads a golden file.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return string(data)
}

// CaptureTemplateOutput runs a render function that also writes to an
// io.Writer and returns both the returned string and the written bytes.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}
	return out, buf.String()
}
