// Package schemafile imports form schemas from JSON or YAML documents held in
// files, an fs.FS or behind a URL. Imports are defensive: externally
// generated documents are coerced item by item and malformed items are
// reported instead of failing the whole document.
package schemafile
