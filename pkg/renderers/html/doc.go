// Package html renders form schemas as standalone HTML pages with pongo2
// templates. The same template serves the builder preview, the draft preview
// and the published form; only the mode differs.
package html
