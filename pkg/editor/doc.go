// Package editor implements the form builder's editing state machine. An
// Editor owns one schema and moves between idle, dragging and editing as the
// host forwards user actions to it.
package editor
