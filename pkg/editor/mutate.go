package editor

import (
	"github.com/goliatone/go-formbuilder/pkg/model"
)

// Insert instantiates fieldType and places it at index. Indexes outside the
// schema append.
func (e *Editor) Insert(fieldType model.FieldType, index int) (model.Field, error) {
	field, err := e.registry.Instantiate(fieldType)
	if err != nil {
		return model.Field{}, err
	}
	fields := e.schema.Fields
	if index < 0 || index > len(fields) {
		index = len(fields)
	}
	fields = append(fields, model.Field{})
	copy(fields[index+1:], fields[index:])
	fields[index] = field
	e.schema.Fields = fields
	e.emit(Event{Kind: EventInsert, FieldID: field.ID})
	return field.Clone(), nil
}

// Append instantiates fieldType at the end of the schema.
func (e *Editor) Append(fieldType model.FieldType) (model.Field, error) {
	return e.Insert(fieldType, -1)
}

// Delete removes the field. Deleting the selected field clears the selection
// and returns the editor to idle.
func (e *Editor) Delete(id string) bool {
	idx := e.schema.IndexOf(id)
	if idx < 0 {
		return false
	}
	e.schema.Fields = append(e.schema.Fields[:idx], e.schema.Fields[idx+1:]...)
	if e.selected == id {
		e.selected = ""
		if e.state == StateEditing {
			e.state = StateIdle
		}
		if e.state == StateDragging {
			e.prior = StateIdle
		}
	}
	if e.drag != nil && e.drag.FieldID == id {
		e.drag = nil
		e.state = StateIdle
	}
	e.emit(Event{Kind: EventDelete, FieldID: id})
	return true
}

// MoveUp swaps the field with its predecessor. The first field cannot move
// up. Selection is unchanged.
func (e *Editor) MoveUp(id string) bool {
	idx := e.schema.IndexOf(id)
	if idx <= 0 {
		return false
	}
	e.swap(idx, idx-1)
	e.emit(Event{Kind: EventMove, FieldID: id})
	return true
}

// MoveDown swaps the field with its successor. The last field cannot move
// down. Selection is unchanged.
func (e *Editor) MoveDown(id string) bool {
	idx := e.schema.IndexOf(id)
	if idx < 0 || idx >= len(e.schema.Fields)-1 {
		return false
	}
	e.swap(idx, idx+1)
	e.emit(Event{Kind: EventMove, FieldID: id})
	return true
}

func (e *Editor) swap(i, j int) {
	e.schema.Fields[i], e.schema.Fields[j] = e.schema.Fields[j], e.schema.Fields[i]
}

// SetName renames the form.
func (e *Editor) SetName(name string) {
	e.schema.Name = name
	e.emit(Event{Kind: EventRename})
}
