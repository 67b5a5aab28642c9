package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-formbuilder/pkg/components"
	"github.com/goliatone/go-formbuilder/pkg/gateway"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/renderers/html"
	"github.com/goliatone/go-formbuilder/pkg/schemafile"
)

const defaultRendererName = html.Name

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithLoader injects a schema document loader.
func WithLoader(loader *schemafile.Loader) Option {
	return func(o *Orchestrator) {
		o.loader = loader
	}
}

// WithComponents sets the component registry used for coercion and
// rendering of the default renderer.
func WithComponents(registry *components.Registry) Option {
	return func(o *Orchestrator) {
		o.components = registry
	}
}

// WithGateway enables Request.FormID resolution.
func WithGateway(gw gateway.Gateway) Option {
	return func(o *Orchestrator) {
		o.gateway = gw
	}
}

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithSchemaTransformer registers a Transformer that runs after the schema
// is resolved and before decorators.
func WithSchemaTransformer(t Transformer) Option {
	return func(o *Orchestrator) {
		o.transformer = t
	}
}

// WithDecorators registers decorators that run against the schema before
// rendering.
func WithDecorators(decorators ...model.Decorator) Option {
	return func(o *Orchestrator) {
		if len(decorators) == 0 {
			return
		}
		o.decorators = append(o.decorators, decorators...)
	}
}

// Orchestrator coordinates the pipeline from a schema reference to rendered
// output. It applies defaults (HTML renderer, built-in components) while
// remaining open to dependency injection.
type Orchestrator struct {
	loader          *schemafile.Loader
	components      *components.Registry
	gateway         gateway.Gateway
	registry        *render.Registry
	defaultRenderer string
	decorators      []model.Decorator
	transformer     Transformer
	initialiseErr   error
}

// New constructs an Orchestrator applying any provided options. Missing
// dependencies are initialised with the built-in implementations.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultRenderer: defaultRendererName,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes where the schema comes from and how to render it.
// Exactly one of Schema, Source or FormID is used, in that order.
type Request struct {
	// Schema bypasses loading entirely. It is still coerced through the
	// component registry.
	Schema *model.FormSchema

	// Source identifies a JSON or YAML schema document.
	Source schemafile.Source

	// FormID fetches a published form through the configured gateway.
	FormID string

	// Renderer names the renderer to use. If empty, the orchestrator falls back
	// to the configured default renderer.
	Renderer string

	// RenderOptions carries per-request values, errors and mode.
	RenderOptions render.RenderOptions
}

// Resolution is a schema ready for rendering plus the items dropped while
// coercing it.
type Resolution struct {
	Schema model.FormSchema
	Issues []schemafile.ItemError
}

// Resolve loads, coerces, transforms and decorates the requested schema.
func (o *Orchestrator) Resolve(ctx context.Context, req Request) (Resolution, error) {
	if ctx == nil {
		return Resolution{}, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return Resolution{}, err
	}
	if err := o.initialiseErr; err != nil {
		return Resolution{}, err
	}

	result, err := o.resolveSchema(ctx, req)
	if err != nil {
		return Resolution{}, err
	}
	schema := result.Schema

	if err := o.applyTransformer(ctx, &schema); err != nil {
		return Resolution{}, err
	}
	if err := o.applyDecorators(&schema); err != nil {
		return Resolution{}, err
	}
	return Resolution{Schema: schema, Issues: result.Issues}, nil
}

// Generate resolves the schema and renders it with the requested renderer.
func (o *Orchestrator) Generate(ctx context.Context, req Request) ([]byte, error) {
	resolution, err := o.Resolve(ctx, req)
	if err != nil {
		return nil, err
	}

	renderer, err := o.rendererFor(req.Renderer)
	if err != nil {
		return nil, err
	}

	output, err := renderer.Render(ctx, resolution.Schema, req.RenderOptions)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render output: %w", err)
	}
	return output, nil
}

func (o *Orchestrator) resolveSchema(ctx context.Context, req Request) (schemafile.Result, error) {
	opts := schemafile.CoerceOptions{Registry: o.components}
	switch {
	case req.Schema != nil:
		return o.coerce(*req.Schema, opts)
	case req.Source != nil:
		result, err := o.loader.Load(ctx, req.Source)
		if err != nil {
			return schemafile.Result{}, fmt.Errorf("orchestrator: load schema: %w", err)
		}
		return result, nil
	case req.FormID != "":
		if o.gateway == nil {
			return schemafile.Result{}, errors.New("orchestrator: gateway is not configured")
		}
		form, err := o.gateway.FetchForm(ctx, req.FormID)
		if err != nil {
			return schemafile.Result{}, fmt.Errorf("orchestrator: fetch form: %w", err)
		}
		if form.Schema.Name == "" {
			form.Schema.Name = form.Name
		}
		return o.coerce(form.Schema, opts)
	default:
		return schemafile.Result{}, errors.New("orchestrator: schema, source or form id is required")
	}
}

// coerce runs an in-memory schema through the same defensive import as a
// loaded document so every path yields the same guarantees.
func (o *Orchestrator) coerce(schema model.FormSchema, opts schemafile.CoerceOptions) (schemafile.Result, error) {
	raw, err := schemafile.ToDocument(schema)
	if err != nil {
		return schemafile.Result{}, fmt.Errorf("orchestrator: encode schema: %w", err)
	}
	return schemafile.Coerce(raw, opts)
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}

	target := name
	if target == "" {
		target = o.defaultRenderer
	}

	if target != "" {
		renderer, err := o.registry.Get(target)
		if err == nil {
			return renderer, nil
		}
		if name != "" {
			return nil, fmt.Errorf("orchestrator: renderer %q: %w", name, err)
		}
	}

	renderer, ok := o.registry.First()
	if !ok {
		return nil, errors.New("orchestrator: no renderers registered")
	}
	return renderer, nil
}

func (o *Orchestrator) applyDecorators(schema *model.FormSchema) error {
	for _, decorator := range o.decorators {
		if decorator == nil {
			continue
		}
		if err := decorator.Decorate(schema); err != nil {
			return fmt.Errorf("orchestrator: decorate schema: %w", err)
		}
	}
	return nil
}

func (o *Orchestrator) applyTransformer(ctx context.Context, schema *model.FormSchema) error {
	if o.transformer == nil {
		return nil
	}
	if err := o.transformer.Transform(ctx, schema); err != nil {
		return fmt.Errorf("orchestrator: transform schema: %w", err)
	}
	return nil
}

func (o *Orchestrator) applyDefaults() {
	if o.components == nil {
		o.components = components.NewDefaultRegistry()
	}
	if o.loader == nil {
		o.loader = schemafile.NewLoader(schemafile.WithRegistry(o.components))
	}
	if o.registry == nil {
		o.registry = render.NewRegistry()
		renderer, err := html.New(html.WithStrategies(o.components))
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default renderer: %w", err)
		} else {
			o.registry.MustRegister(renderer)
		}
	}
	if o.defaultRenderer == "" {
		o.defaultRenderer = defaultRendererName
	}
}
