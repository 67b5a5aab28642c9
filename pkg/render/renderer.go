package render

import (
	"context"

	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/widgets"
)

// Renderer converts a schema into a byte representation (HTML, terminal
// transcript, etc.).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, schema model.FormSchema, options RenderOptions) ([]byte, error)
}

// StrategySource resolves the render/validate strategy for a field type.
// *components.Registry satisfies it.
type StrategySource interface {
	Strategy(fieldType model.FieldType) (widgets.Strategy, error)
}
