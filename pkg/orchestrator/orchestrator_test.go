package orchestrator_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbuilder/pkg/gateway"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/orchestrator"
	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/schemafile"
	"github.com/goliatone/go-formbuilder/pkg/testsupport"
)

type stubRenderer struct {
	name    string
	last    model.FormSchema
	options render.RenderOptions
}

func (s *stubRenderer) Name() string        { return s.name }
func (s *stubRenderer) ContentType() string { return "text/plain" }

func (s *stubRenderer) Render(_ context.Context, schema model.FormSchema, opts render.RenderOptions) ([]byte, error) {
	s.last = schema
	s.options = opts
	return []byte(s.name + ":" + schema.Name), nil
}

type stubGateway struct {
	gateway.Gateway
	forms map[string]model.PublishedForm
}

func (s stubGateway) FetchForm(_ context.Context, id string) (model.PublishedForm, error) {
	form, ok := s.forms[id]
	if !ok {
		return model.PublishedForm{}, gateway.ErrNotFound
	}
	return form, nil
}

func TestOrchestrator_DefaultHTMLRenderer(t *testing.T) {
	schema := testsupport.ContactSchema()
	out, err := orchestrator.New().Generate(testsupport.Context(), orchestrator.Request{
		Schema:        &schema,
		RenderOptions: render.RenderOptions{Mode: render.ModePublished, Action: "/api/forms/x/submit"},
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	html := string(out)
	for _, want := range []string{"<title>Contact</title>", `name="email"`, `action="/api/forms/x/submit"`} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected %q in output:\n%s", want, html)
		}
	}
}

func TestOrchestrator_SourceIsCoerced(t *testing.T) {
	renderer := &stubRenderer{name: "stub"}
	registry := render.NewRegistry()
	registry.MustRegister(renderer)
	orch := orchestrator.New(orchestrator.WithRegistry(registry), orchestrator.WithDefaultRenderer("stub"))

	req := orchestrator.Request{Source: schemafile.SourceFromFile(filepath.Join("testdata", "survey.yaml"))}
	resolution, err := orch.Resolve(testsupport.Context(), req)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if diff := cmp.Diff([]string{"age", "sep"}, resolution.Schema.IDs()); diff != "" {
		t.Fatalf("ids mismatch (-want +got):\n%s", diff)
	}
	if len(resolution.Issues) != 1 || resolution.Issues[0].ID != "mystery" {
		t.Fatalf("expected unknown type issue, got %+v", resolution.Issues)
	}

	out, err := orch.Generate(testsupport.Context(), req)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if string(out) != "stub:Survey" || !renderer.last.Fields[0].DisallowDecimals {
		t.Fatalf("unexpected render %q %+v", out, renderer.last)
	}
}

func TestOrchestrator_GatewayTransformerAndDecorators(t *testing.T) {
	renderer := &stubRenderer{name: "stub"}
	registry := render.NewRegistry()
	registry.MustRegister(renderer)

	gw := stubGateway{forms: map[string]model.PublishedForm{
		"f-1": {ID: "f-1", Name: "Published", Schema: model.FormSchema{Fields: testsupport.ContactSchema().Fields}},
	}}

	var order []string
	orch := orchestrator.New(
		orchestrator.WithRegistry(registry),
		orchestrator.WithGateway(gw),
		orchestrator.WithSchemaTransformer(orchestrator.TransformerFunc(func(_ context.Context, schema *model.FormSchema) error {
			order = append(order, "transform")
			schema.Fields[0].Label = "Full name"
			return nil
		})),
		orchestrator.WithDecorators(model.DecoratorFunc(func(schema *model.FormSchema) error {
			order = append(order, "decorate:"+schema.Fields[0].Label)
			return nil
		})),
	)

	out, err := orch.Generate(testsupport.Context(), orchestrator.Request{FormID: "f-1", Renderer: "stub"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if string(out) != "stub:Published" {
		t.Fatalf("expected published name fallback, got %q", out)
	}
	if diff := cmp.Diff([]string{"transform", "decorate:Full name"}, order); diff != "" {
		t.Fatalf("pipeline order mismatch (-want +got):\n%s", diff)
	}

	if _, err := orch.Generate(testsupport.Context(), orchestrator.Request{FormID: "nope"}); !errors.Is(err, gateway.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestOrchestrator_RequestErrors(t *testing.T) {
	orch := orchestrator.New()
	ctx := testsupport.Context()

	if _, err := orch.Generate(ctx, orchestrator.Request{}); err == nil {
		t.Fatalf("expected missing schema error")
	}
	if _, err := orch.Generate(ctx, orchestrator.Request{FormID: "x"}); err == nil {
		t.Fatalf("expected missing gateway error")
	}
	schema := testsupport.ContactSchema()
	if _, err := orch.Generate(ctx, orchestrator.Request{Schema: &schema, Renderer: "pdf"}); err == nil {
		t.Fatalf("expected unknown renderer error")
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := orch.Generate(cancelled, orchestrator.Request{Schema: &schema}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
}
