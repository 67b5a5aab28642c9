package widgets

import (
	"fmt"
	"sort"
	"sync"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// Registry maps field types to the strategy that renders and validates them.
// It is safe for concurrent use. An empty registry never resolves a strategy.
type Registry struct {
	mu         sync.RWMutex
	strategies map[model.FieldType]Strategy
	order      []model.FieldType
}

// NewRegistry constructs a registry with a strategy registered for every
// built-in field type.
func NewRegistry() *Registry {
	reg := &Registry{}
	reg.registerBuiltins()
	return reg
}

// Register installs a strategy, replacing any strategy already registered for
// the same type. Replacement keeps the original registration position.
func (r *Registry) Register(strategy Strategy) error {
	if r == nil {
		return fmt.Errorf("widgets: registry is nil")
	}
	if strategy == nil {
		return fmt.Errorf("widgets: strategy is nil")
	}
	fieldType := strategy.Type()
	if fieldType == "" {
		return fmt.Errorf("widgets: strategy type is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.strategies == nil {
		r.strategies = make(map[model.FieldType]Strategy)
	}
	if _, exists := r.strategies[fieldType]; !exists {
		r.order = append(r.order, fieldType)
	}
	r.strategies[fieldType] = strategy
	return nil
}

// MustRegister registers the strategy and panics on error.
func (r *Registry) MustRegister(strategy Strategy) {
	if err := r.Register(strategy); err != nil {
		panic(err)
	}
}

// Resolve returns the strategy registered for fieldType.
func (r *Registry) Resolve(fieldType model.FieldType) (Strategy, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	strategy, ok := r.strategies[fieldType]
	return strategy, ok
}

// Types lists the registered field types in registration order.
func (r *Registry) Types() []model.FieldType {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]model.FieldType(nil), r.order...)
}

// Missing reports which of the supplied types have no strategy. The result is
// sorted for stable diagnostics.
func (r *Registry) Missing(types ...model.FieldType) []model.FieldType {
	var missing []model.FieldType
	for _, fieldType := range types {
		if _, ok := r.Resolve(fieldType); !ok {
			missing = append(missing, fieldType)
		}
	}
	sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })
	return missing
}

func (r *Registry) registerBuiltins() {
	r.MustRegister(inputStrategy{fieldType: model.FieldTypeText, input: InputText, placeholder: "Enter text..."})
	r.MustRegister(emailStrategy{inputStrategy{fieldType: model.FieldTypeEmail, input: InputEmail, placeholder: "Enter email..."}})
	r.MustRegister(numberStrategy{})
	r.MustRegister(inputStrategy{fieldType: model.FieldTypeTextarea, input: InputTextarea, placeholder: "Enter text..."})
	r.MustRegister(selectStrategy{})
	r.MustRegister(checkboxStrategy{})
	r.MustRegister(radioStrategy{})
	r.MustRegister(sliderStrategy{})
	r.MustRegister(inputStrategy{fieldType: model.FieldTypeDate, input: InputDate})
	r.MustRegister(inputStrategy{fieldType: model.FieldTypeTime, input: InputTime})
	r.MustRegister(inputStrategy{
		fieldType:   model.FieldTypeURL,
		input:       InputURL,
		placeholder: "https://example.com",
		prefill:     urlFocusPrefill,
	})
	r.MustRegister(ratingStrategy{})
	r.MustRegister(iframeStrategy{})
	r.MustRegister(colorStrategy{})
	r.MustRegister(locationStrategy{})
	r.MustRegister(dividerStrategy{})
}
