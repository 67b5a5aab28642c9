// Package components is the component type registry: the palette of field
// types a form can be built from, their defaults and the attributes each type
// understands.
package components
