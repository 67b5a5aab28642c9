package builder

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/editor"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/widgets"
)

// Action operations.
const (
	OpInsert       = "insert"
	OpAppend       = "append"
	OpDelete       = "delete"
	OpMoveUp       = "move_up"
	OpMoveDown     = "move_down"
	OpDrag         = "drag"
	OpDrop         = "drop"
	OpCancelDrag   = "cancel_drag"
	OpSelect       = "select"
	OpDeselect     = "deselect"
	OpRename       = "rename"
	OpSet          = "set"
	OpAddOption    = "add_option"
	OpRemoveOption = "remove_option"
	OpAddDomain    = "add_domain"
	OpRemoveDomain = "remove_domain"
)

var (
	// ErrUnknownAction reports an unsupported op or attribute.
	ErrUnknownAction = errors.New("builder: unknown action")
	// ErrInvalidValue reports a value of the wrong shape for the attribute.
	ErrInvalidValue = errors.New("builder: invalid value")
)

// Action is one discrete user interaction. Type names a palette entry,
// FieldID the field acted on and Target the field a drag is dropped on.
// Index positions inserts and addresses options and domains. Value carries
// the new attribute value for set.
type Action struct {
	Op      string          `json:"op"`
	Type    model.FieldType `json:"type,omitempty"`
	FieldID string          `json:"fieldId,omitempty"`
	Target  string          `json:"target,omitempty"`
	Index   *int            `json:"index,omitempty"`
	Attr    string          `json:"attr,omitempty"`
	Value   any             `json:"value,omitempty"`
}

// Outcome reports what an action did. Rejected edits leave the schema
// untouched and report Applied false.
type Outcome struct {
	Applied bool         `json:"applied"`
	Field   *model.Field `json:"field,omitempty"`
}

// Apply performs action on ed.
func Apply(ed *editor.Editor, action Action) (Outcome, error) {
	switch strings.ToLower(strings.TrimSpace(action.Op)) {
	case OpInsert:
		index := -1
		if action.Index != nil {
			index = *action.Index
		}
		return inserted(ed.Insert(action.Type, index))
	case OpAppend:
		return inserted(ed.Append(action.Type))
	case OpDelete:
		return Outcome{Applied: ed.Delete(action.FieldID)}, nil
	case OpMoveUp:
		return Outcome{Applied: ed.MoveUp(action.FieldID)}, nil
	case OpMoveDown:
		return Outcome{Applied: ed.MoveDown(action.FieldID)}, nil
	case OpDrag:
		source := editor.FieldSource(action.FieldID)
		if action.FieldID == "" {
			source = editor.PaletteSource(action.Type)
		}
		return Outcome{Applied: ed.BeginDrag(source)}, nil
	case OpDrop:
		field, err := ed.Drop(action.Target)
		if err != nil {
			return Outcome{}, err
		}
		if field.ID == "" {
			return Outcome{}, nil
		}
		return Outcome{Applied: true, Field: &field}, nil
	case OpCancelDrag:
		ed.CancelDrag()
		return Outcome{Applied: true}, nil
	case OpSelect:
		return Outcome{Applied: ed.Select(action.FieldID)}, nil
	case OpDeselect:
		ed.Deselect()
		return Outcome{Applied: true}, nil
	case OpRename:
		text, ok := widgets.AsString(action.Value)
		if !ok {
			return Outcome{}, fmt.Errorf("%w: rename expects text", ErrInvalidValue)
		}
		ed.SetName(text)
		return Outcome{Applied: true}, nil
	case OpAddOption:
		return fieldOutcome(ed, action.FieldID, ed.AddOption(action.FieldID)), nil
	case OpRemoveOption:
		return fieldOutcome(ed, action.FieldID, action.Index != nil && ed.RemoveOption(action.FieldID, *action.Index)), nil
	case OpAddDomain:
		text, _ := widgets.AsString(action.Value)
		return fieldOutcome(ed, action.FieldID, ed.AddDomain(action.FieldID, text)), nil
	case OpRemoveDomain:
		return fieldOutcome(ed, action.FieldID, action.Index != nil && ed.RemoveDomain(action.FieldID, *action.Index)), nil
	case OpSet:
		applied, err := set(ed, action)
		if err != nil {
			return Outcome{}, err
		}
		return fieldOutcome(ed, action.FieldID, applied), nil
	default:
		return Outcome{}, fmt.Errorf("%w: %q", ErrUnknownAction, action.Op)
	}
}

func inserted(field model.Field, err error) (Outcome, error) {
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Applied: true, Field: &field}, nil
}

func fieldOutcome(ed *editor.Editor, id string, applied bool) Outcome {
	if !applied {
		return Outcome{}
	}
	field, ok := ed.Schema().Field(id)
	if !ok {
		return Outcome{Applied: true}
	}
	return Outcome{Applied: true, Field: &field}
}

func set(ed *editor.Editor, action Action) (bool, error) {
	id := action.FieldID
	field, ok := ed.Schema().Field(id)
	if !ok {
		return false, nil
	}

	switch action.Attr {
	case model.AttrLabel, model.AttrPlaceholder, model.AttrComment, model.AttrColorValue, model.AttrSrc, model.AttrWidth, model.AttrHeight:
		text, ok := widgets.AsString(action.Value)
		if !ok {
			return false, fmt.Errorf("%w: %s expects text", ErrInvalidValue, action.Attr)
		}
		switch action.Attr {
		case model.AttrLabel:
			return ed.SetLabel(id, text), nil
		case model.AttrPlaceholder:
			return ed.SetPlaceholder(id, text), nil
		case model.AttrComment:
			return ed.SetComment(id, text), nil
		case model.AttrColorValue:
			return ed.SetColor(id, text), nil
		case model.AttrSrc:
			return ed.SetIframe(id, text, "", ""), nil
		case model.AttrWidth:
			return ed.SetIframe(id, field.Src, text, ""), nil
		default:
			return ed.SetIframe(id, field.Src, "", text), nil
		}

	case model.AttrRequired, model.AttrDisallowDecimals, model.AttrAllowHalf:
		flag, ok := asBool(action.Value)
		if !ok {
			return false, fmt.Errorf("%w: %s expects a boolean", ErrInvalidValue, action.Attr)
		}
		switch action.Attr {
		case model.AttrRequired:
			return ed.SetRequired(id, flag), nil
		case model.AttrDisallowDecimals:
			return ed.SetDisallowDecimals(id, flag), nil
		default:
			return ed.SetAllowHalf(id, flag), nil
		}

	case model.AttrMin, model.AttrMax, model.AttrValue:
		number, ok := widgets.AsFloat(action.Value)
		if !ok {
			return false, fmt.Errorf("%w: %s expects a number", ErrInvalidValue, action.Attr)
		}
		switch {
		case action.Attr == model.AttrMax && field.Type == model.FieldTypeRating:
			return ed.SetRatingMax(id, int(min(max(number, 0), math.MaxInt32))), nil
		case action.Attr == model.AttrMin:
			return ed.SetSliderMin(id, number), nil
		case action.Attr == model.AttrMax:
			return ed.SetSliderMax(id, number), nil
		default:
			return ed.SetSliderValue(id, number), nil
		}

	case model.AttrOptions, model.AttrAllowedDomains:
		text, ok := widgets.AsString(action.Value)
		if !ok || action.Index == nil {
			return false, fmt.Errorf("%w: %s expects an index and text", ErrInvalidValue, action.Attr)
		}
		if action.Attr == model.AttrOptions {
			return ed.SetOption(id, *action.Index, text), nil
		}
		return ed.SetDomain(id, *action.Index, text), nil

	case model.AttrLocationValue:
		loc, ok := widgets.AsLocation(action.Value)
		if !ok {
			return false, fmt.Errorf("%w: %s expects lat and lng", ErrInvalidValue, action.Attr)
		}
		return ed.SetLocation(id, loc), nil

	default:
		return false, fmt.Errorf("%w: attribute %q", ErrUnknownAction, action.Attr)
	}
}

func asBool(value any) (bool, bool) {
	switch typed := value.(type) {
	case bool:
		return typed, true
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(typed))
		return parsed, err == nil
	default:
		return false, false
	}
}
