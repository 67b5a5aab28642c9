// Package formbuilder is the entry point for rendering, editing and
// validating form schemas. The subpackages under pkg/ expose the full API;
// this package re-exports the common pieces.
package formbuilder

import (
	"context"

	"github.com/goliatone/go-formbuilder/pkg/components"
	"github.com/goliatone/go-formbuilder/pkg/editor"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/orchestrator"
	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/schemafile"
)

// FormSchema aliases model.FormSchema.
type FormSchema = model.FormSchema

// Field aliases model.Field.
type Field = model.Field

// Values aliases model.Values, the submission payload keyed by field id.
type Values = model.Values

// RenderOptions describes per-request overrides that renderers can use to
// prefill values or surface server-side validation errors.
type RenderOptions = render.RenderOptions

// NewRegistry returns a component registry with every built-in field type.
func NewRegistry(opts ...components.Option) *components.Registry {
	return components.NewDefaultRegistry(opts...)
}

// NewEditor starts an editing session on an empty schema, or on the one
// passed with editor.WithSchema. A nil registry uses the built-in components.
func NewEditor(registry *components.Registry, opts ...editor.Option) *editor.Editor {
	return editor.New(registry, opts...)
}

// NewLoader constructs a schema document loader.
func NewLoader(opts ...schemafile.Option) *schemafile.Loader {
	return schemafile.NewLoader(opts...)
}

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// GenerateHTML loads the schema document behind source and renders it with
// the named renderer, or the HTML renderer when rendererName is empty.
func GenerateHTML(ctx context.Context, source schemafile.Source, rendererName string, options ...orchestrator.Option) ([]byte, error) {
	gen := orchestrator.New(options...)
	return gen.Generate(ctx, orchestrator.Request{
		Source:   source,
		Renderer: rendererName,
	})
}

// Render renders an in-memory schema, coercing it through the component
// registry first.
func Render(ctx context.Context, schema FormSchema, opts RenderOptions, options ...orchestrator.Option) ([]byte, error) {
	gen := orchestrator.New(options...)
	return gen.Generate(ctx, orchestrator.Request{
		Schema:        &schema,
		RenderOptions: opts,
	})
}
