package html

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/components"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/render"
	rendertemplate "github.com/goliatone/go-formbuilder/pkg/render/template"
	"github.com/goliatone/go-formbuilder/pkg/render/template/pongo"
	"github.com/goliatone/go-formbuilder/pkg/widgets"
)

// Name is the registry name of the renderer.
const Name = "html"

// DefaultSubmitLabel is shown on the submit button of published forms.
const DefaultSubmitLabel = "Submit"

const formTemplate = "templates/form.tmpl"

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templatesDir     string
	templateFuncs    map[string]any
	templateRenderer rendertemplate.TemplateRenderer
	strategies       render.StrategySource
	stylesheet       string
}

// WithTemplatesFS supplies an alternate template bundle. It must contain
// templates/form.tmpl.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk. Files found
// there override the bundled ones; anything missing falls back to the bundle.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		cfg.templatesDir = strings.TrimSpace(path)
	}
}

// WithTemplateFuncs exposes helpers to the templates: pongo2.FilterFunction
// values become filters, other functions become callable globals.
func WithTemplateFuncs(funcs map[string]any) Option {
	return func(cfg *config) {
		if len(funcs) == 0 {
			return
		}
		if cfg.templateFuncs == nil {
			cfg.templateFuncs = make(map[string]any, len(funcs))
		}
		for name, fn := range funcs {
			cfg.templateFuncs[name] = fn
		}
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithStrategies sets the source of per-type strategies, normally the
// component registry. Defaults to components.NewDefaultRegistry().
func WithStrategies(src render.StrategySource) Option {
	return func(cfg *config) {
		if src != nil {
			cfg.strategies = src
		}
	}
}

// WithStylesheet links a stylesheet from the page head.
func WithStylesheet(href string) Option {
	return func(cfg *config) {
		cfg.stylesheet = strings.TrimSpace(href)
	}
}

// Renderer produces a complete HTML page for a schema.
type Renderer struct {
	templates  rendertemplate.TemplateRenderer
	strategies render.StrategySource
	stylesheet string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}
	if cfg.strategies == nil {
		cfg.strategies = components.NewDefaultRegistry()
	}

	templates := cfg.templateRenderer
	if templates == nil {
		engine, err := pongo.New(
			pongo.WithBaseDir(cfg.templatesDir),
			pongo.WithFS(cfg.templateFS),
			pongo.WithTemplateFunc(cfg.templateFuncs),
		)
		if err != nil {
			return nil, fmt.Errorf("html renderer: configure templates: %w", err)
		}
		templates = engine
	}

	return &Renderer{templates: templates, strategies: cfg.strategies, stylesheet: cfg.stylesheet}, nil
}

func (r *Renderer) Name() string {
	return Name
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// fieldView is a widget plus the sanitised help markup.
type fieldView struct {
	widgets.Widget
	HelpHTML string `json:"helpHtml,omitempty"`
}

type formView struct {
	Name       string      `json:"name"`
	Fields     []fieldView `json:"fields"`
	FormErrors []string    `json:"formErrors,omitempty"`
}

// Render builds the page. Unknown field types fail the whole render.
func (r *Renderer) Render(ctx context.Context, schema model.FormSchema, options render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.templates == nil {
		return nil, errors.New("html renderer: template renderer is nil")
	}

	view, err := render.RenderForm(r.strategies, schema, options.Values, options.Errors)
	if err != nil {
		return nil, fmt.Errorf("html renderer: %w", err)
	}

	page := formView{
		Name:       view.Name,
		Fields:     make([]fieldView, 0, len(view.Fields)),
		FormErrors: render.MergeFormErrors(view.FormErrors, options.FormErrors...),
	}
	for _, w := range view.Fields {
		if w.Embed != nil {
			w.Embed.Src = safeURL(w.Embed.Src)
			w.Embed.Empty = w.Embed.Src == ""
		}
		page.Fields = append(page.Fields, fieldView{Widget: w, HelpHTML: sanitizeHelp(w.Help)})
	}

	mode := options.Mode
	if mode == "" {
		mode = render.ModePublished
	}
	submitLabel := strings.TrimSpace(options.SubmitLabel)
	if submitLabel == "" {
		submitLabel = DefaultSubmitLabel
	}

	result, err := r.templates.RenderTemplate(formTemplate, map[string]any{
		"form":        page,
		"mode":        string(mode),
		"action":      options.Action,
		"notice":      options.Notice,
		"hidden":      render.SortedHiddenFields(options.Hidden),
		"submitLabel": submitLabel,
		"stylesheet":  r.stylesheet,
	})
	if err != nil {
		return nil, fmt.Errorf("html renderer: render template: %w", err)
	}
	return []byte(result), nil
}
