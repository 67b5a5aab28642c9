package components

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/widgets"
)

// Descriptor describes one palette entry: the type it creates, the attributes
// that type understands, the defaults a fresh instance starts with, and the
// strategy that renders and validates it.
type Descriptor struct {
	Type       model.FieldType
	Label      string
	Attributes []string
	Defaults   model.Field
	Strategy   widgets.Strategy
}

// Recognizes reports whether attr is meaningful for the descriptor's type.
func (d Descriptor) Recognizes(attr string) bool {
	return slices.Contains(d.Attributes, attr)
}

// Option customises registry construction.
type Option func(*Registry)

// WithPolicy overrides the option limits.
func WithPolicy(policy Policy) Option {
	return func(r *Registry) {
		r.policy = policy.Normalize()
	}
}

// WithIDGenerator replaces the uuid generator used by Instantiate.
func WithIDGenerator(fn func() string) Option {
	return func(r *Registry) {
		if fn != nil {
			r.newID = fn
		}
	}
}

// Registry is the closed set of field types the builder can create. Palette
// order is registration order.
type Registry struct {
	mu          sync.RWMutex
	descriptors map[model.FieldType]Descriptor
	order       []model.FieldType
	policy      Policy
	newID       func() string
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	reg := &Registry{
		descriptors: make(map[model.FieldType]Descriptor),
		policy:      DefaultPolicy(),
		newID:       uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(reg)
		}
	}
	return reg
}

// Register adds a descriptor. Registering a type twice is an error.
func (r *Registry) Register(descriptor Descriptor) error {
	descriptor.Type = model.FieldType(strings.TrimSpace(string(descriptor.Type)))
	if descriptor.Type == "" {
		return fmt.Errorf("components: descriptor type is required")
	}
	if descriptor.Strategy == nil {
		return fmt.Errorf("components: strategy for %q is nil", descriptor.Type)
	}
	if descriptor.Strategy.Type() != descriptor.Type {
		return fmt.Errorf("components: strategy for %q handles %q", descriptor.Type, descriptor.Strategy.Type())
	}
	if strings.TrimSpace(descriptor.Label) == "" {
		descriptor.Label = string(descriptor.Type)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.descriptors[descriptor.Type]; exists {
		return fmt.Errorf("components: type %q already registered", descriptor.Type)
	}
	r.descriptors[descriptor.Type] = cloneDescriptor(descriptor)
	r.order = append(r.order, descriptor.Type)
	return nil
}

// MustRegister mirrors Register but panics on error.
func (r *Registry) MustRegister(descriptor Descriptor) {
	if err := r.Register(descriptor); err != nil {
		panic(err)
	}
}

// Policy returns the option limits in effect.
func (r *Registry) Policy() Policy {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.policy
}

// ListTypes returns every descriptor in palette order.
func (r *Registry) ListTypes() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Descriptor, 0, len(r.order))
	for _, fieldType := range r.order {
		out = append(out, cloneDescriptor(r.descriptors[fieldType]))
	}
	return out
}

// Search filters the palette by a case-insensitive match on label or type.
// An empty query returns the whole palette.
func (r *Registry) Search(query string) []Descriptor {
	all := r.ListTypes()
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return all
	}
	out := all[:0]
	for _, descriptor := range all {
		if strings.Contains(strings.ToLower(descriptor.Label), query) ||
			strings.Contains(string(descriptor.Type), query) {
			out = append(out, descriptor)
		}
	}
	return out
}

// Describe returns the descriptor for fieldType.
func (r *Registry) Describe(fieldType model.FieldType) (Descriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	descriptor, ok := r.descriptors[fieldType]
	if !ok {
		return Descriptor{}, &UnknownTypeError{Type: string(fieldType)}
	}
	return cloneDescriptor(descriptor), nil
}

// Strategy returns the render/validate strategy for fieldType.
func (r *Registry) Strategy(fieldType model.FieldType) (widgets.Strategy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	descriptor, ok := r.descriptors[fieldType]
	if !ok {
		return nil, &UnknownTypeError{Type: string(fieldType)}
	}
	return descriptor.Strategy, nil
}

// Recognizes reports whether attr is meaningful for fieldType. Unknown types
// recognise nothing.
func (r *Registry) Recognizes(fieldType model.FieldType, attr string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	descriptor, ok := r.descriptors[fieldType]
	return ok && descriptor.Recognizes(attr)
}

// Instantiate builds a fresh field of fieldType with a new unique id and the
// type's defaults. Registry state is never modified.
func (r *Registry) Instantiate(fieldType model.FieldType) (model.Field, error) {
	descriptor, err := r.Describe(fieldType)
	if err != nil {
		return model.Field{}, err
	}
	policy := r.Policy()

	field := descriptor.Defaults.Clone()
	field.ID = r.newID()
	field.Type = descriptor.Type
	if field.Label == "" {
		field.Label = descriptor.Label
	}
	field.Required = false
	if descriptor.Recognizes(model.AttrPlaceholder) && field.Placeholder == "" {
		field.Placeholder = "Enter " + strings.ToLower(field.Label) + "..."
	}
	if descriptor.Recognizes(model.AttrOptions) && len(field.Options) == 0 {
		field.Options = GeneratedOptions(policy.DefaultOptionCount)
	}
	return field, nil
}

func cloneDescriptor(descriptor Descriptor) Descriptor {
	descriptor.Attributes = slices.Clone(descriptor.Attributes)
	descriptor.Defaults = descriptor.Defaults.Clone()
	return descriptor
}
