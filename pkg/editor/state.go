package editor

import "github.com/goliatone/go-formbuilder/pkg/model"

// State is the editor's interaction mode.
type State int

const (
	StateIdle State = iota
	StateDragging
	StateEditing
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDragging:
		return "dragging"
	case StateEditing:
		return "editing"
	default:
		return "unknown"
	}
}

// DragSource identifies what is being dragged: either a palette entry (a
// type to instantiate) or an existing field (to reorder).
type DragSource struct {
	Type    model.FieldType `json:"type,omitempty"`
	FieldID string          `json:"fieldId,omitempty"`
}

// PaletteSource drags a new field of the given type.
func PaletteSource(fieldType model.FieldType) DragSource {
	return DragSource{Type: fieldType}
}

// FieldSource drags an existing field.
func FieldSource(id string) DragSource {
	return DragSource{FieldID: id}
}

// FromPalette reports whether the source is a palette entry.
func (d DragSource) FromPalette() bool {
	return d.FieldID == "" && d.Type != ""
}

// Snapshot captures the interaction state without the schema.
type Snapshot struct {
	State    State       `json:"-"`
	Mode     string      `json:"state"`
	Selected string      `json:"selected,omitempty"`
	Drag     *DragSource `json:"drag,omitempty"`
}

// EventKind names an applied mutation.
type EventKind string

const (
	EventInsert EventKind = "insert"
	EventMove   EventKind = "move"
	EventDelete EventKind = "delete"
	EventEdit   EventKind = "edit"
	EventRename EventKind = "rename"
)

// Event is delivered to the hook after a mutation has been applied.
type Event struct {
	Kind      EventKind
	FieldID   string
	Attribute string
}
