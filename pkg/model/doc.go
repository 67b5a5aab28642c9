// Package model defines the form schema shared by the builder, the preview and
// the published renderer. A FormSchema is an ordered list of Field instances
// plus a display name; Values carries the current input keyed by field id.
//
// Field carries every attribute any supported type recognises. Attributes a
// type does not recognise are ignored by renderers rather than rejected, so a
// schema produced by an older builder (or an external generator) still renders.
// The JSON shape matches the wire format used by the publish gateway:
// `{"formName": ..., "formComponents": [...]}`.
package model
