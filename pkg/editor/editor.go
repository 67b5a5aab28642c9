package editor

import (
	"fmt"

	"github.com/goliatone/go-formbuilder/pkg/components"
	"github.com/goliatone/go-formbuilder/pkg/model"
)

// Option customises an Editor.
type Option func(*Editor)

// WithSchema seeds the editor with an existing schema. The schema is copied.
func WithSchema(schema model.FormSchema) Option {
	return func(e *Editor) {
		e.schema = schema.Clone()
	}
}

// WithEventHook registers an observer called after every applied mutation.
func WithEventHook(hook func(Event)) Option {
	return func(e *Editor) {
		e.hook = hook
	}
}

// Editor owns one schema and applies user actions to it. It is not safe for
// concurrent use; hosts serialise access per editing session.
type Editor struct {
	registry *components.Registry
	schema   model.FormSchema
	state    State
	selected string
	drag     *DragSource
	prior    State
	hook     func(Event)
}

// New creates an editor backed by registry. A nil registry falls back to the
// built-in component set.
func New(registry *components.Registry, opts ...Option) *Editor {
	if registry == nil {
		registry = components.NewDefaultRegistry()
	}
	e := &Editor{registry: registry}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// Registry exposes the component registry the editor instantiates from.
func (e *Editor) Registry() *components.Registry {
	return e.registry
}

// Schema returns a copy of the current schema.
func (e *Editor) Schema() model.FormSchema {
	return e.schema.Clone()
}

// State returns the interaction mode.
func (e *Editor) State() State {
	return e.state
}

// Selected returns the selected field id, or "".
func (e *Editor) Selected() string {
	return e.selected
}

// Snapshot returns the interaction state.
func (e *Editor) Snapshot() Snapshot {
	snap := Snapshot{State: e.state, Mode: e.state.String(), Selected: e.selected}
	if e.drag != nil {
		drag := *e.drag
		snap.Drag = &drag
	}
	return snap
}

// BeginDrag starts a drag from idle or editing. It reports false when a drag
// is already in progress or the dragged field does not exist.
func (e *Editor) BeginDrag(source DragSource) bool {
	if e.state == StateDragging {
		return false
	}
	if !source.FromPalette() && e.schema.IndexOf(source.FieldID) < 0 {
		return false
	}
	e.prior = e.state
	e.drag = &source
	e.state = StateDragging
	return true
}

// CancelDrag abandons the drag and restores the mode it started from.
func (e *Editor) CancelDrag() {
	if e.state != StateDragging {
		return
	}
	e.drag = nil
	e.state = e.prior
	if e.state == StateEditing && e.schema.IndexOf(e.selected) < 0 {
		e.state = StateIdle
		e.selected = ""
	}
}

// Drop completes the drag over targetID and returns to idle. A palette drag
// inserts a new field at the target's position, or appends when the target is
// empty or unknown. A field drag moves the field to the target's position and
// does nothing when the target is invalid. The only error is a palette type
// the registry does not know.
func (e *Editor) Drop(targetID string) (model.Field, error) {
	if e.state != StateDragging || e.drag == nil {
		return model.Field{}, fmt.Errorf("editor: drop without an active drag")
	}
	source := *e.drag
	e.drag = nil
	e.state = StateIdle
	e.selected = ""

	if source.FromPalette() {
		return e.Insert(source.Type, e.schema.IndexOf(targetID))
	}

	from := e.schema.IndexOf(source.FieldID)
	to := e.schema.IndexOf(targetID)
	if from < 0 || to < 0 || from == to {
		return model.Field{}, nil
	}
	e.schema.Fields = moveField(e.schema.Fields, from, to)
	e.emit(Event{Kind: EventMove, FieldID: source.FieldID})
	moved, _ := e.schema.Field(source.FieldID)
	return moved.Clone(), nil
}

// Select marks id as the field under edit. Only one field is selected at a
// time; selecting during a drag is refused.
func (e *Editor) Select(id string) bool {
	if e.state == StateDragging || e.schema.IndexOf(id) < 0 {
		return false
	}
	e.selected = id
	e.state = StateEditing
	return true
}

// Deselect clears the selection.
func (e *Editor) Deselect() {
	if e.state == StateDragging {
		e.prior = StateIdle
	} else {
		e.state = StateIdle
	}
	e.selected = ""
}

func (e *Editor) emit(event Event) {
	if e.hook != nil {
		e.hook(event)
	}
}

// moveField moves the element at from to index to, shifting the elements in
// between.
func moveField(fields []model.Field, from, to int) []model.Field {
	out := make([]model.Field, 0, len(fields))
	moving := fields[from]
	for i, field := range fields {
		if i == from {
			continue
		}
		out = append(out, field)
	}
	out = append(out[:to], append([]model.Field{moving}, out[to:]...)...)
	return out
}
