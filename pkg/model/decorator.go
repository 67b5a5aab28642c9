package model

// Decorator adjusts a schema after it has been loaded and before it is
// rendered or persisted.
type Decorator interface {
	Decorate(*FormSchema) error
}

// DecoratorFunc adapts a function into a Decorator.
type DecoratorFunc func(*FormSchema) error

// Decorate calls the underlying function.
func (fn DecoratorFunc) Decorate(schema *FormSchema) error {
	return fn(schema)
}
