// Package orchestrator wires the resolve → coerce → transform → render
// pipeline: a schema given directly, loaded from a document source, or
// fetched from a publish gateway is normalised and handed to a named
// renderer.
package orchestrator
