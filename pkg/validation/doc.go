// Package validation holds the opt-in submission constraints (required
// values, allowed email domains, option membership) and structural schema
// checks used by the builder preview and the CLI.
package validation
