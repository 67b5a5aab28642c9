package formbuilder

import (
	"context"
	"io/fs"
	"strings"
	"testing"

	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/renderers/html"
	"github.com/goliatone/go-formbuilder/pkg/schemafile"
)

func TestEmbeddedFilesystems(t *testing.T) {
	if _, err := fs.ReadFile(AssetsFS(), html.StylesheetName); err != nil {
		t.Fatalf("expected stylesheet to be readable: %v", err)
	}
	matches, err := fs.Glob(EmbeddedTemplates(), "templates/*.tmpl")
	if err != nil || len(matches) == 0 {
		t.Fatalf("expected embedded templates, got %v %v", matches, err)
	}
}

func TestEditorToRender(t *testing.T) {
	ed := NewEditor(nil)
	ed.SetName("Quick")
	field, err := ed.Append(model.FieldTypeText)
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	ed.SetLabel(field.ID, "Nickname")

	out, err := Render(context.Background(), ed.Schema(), RenderOptions{Mode: render.ModePreview})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(string(out), "Nickname") || !strings.Contains(string(out), "Quick") {
		t.Fatalf("expected label and name in output")
	}
}

func TestGenerateHTML(t *testing.T) {
	out, err := GenerateHTML(context.Background(), schemafile.SourceFromFile("pkg/schemafile/testdata/contact.yaml"), "")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(string(out), "Contact") {
		t.Fatalf("expected form name in output")
	}
}
