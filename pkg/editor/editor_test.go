package editor

import (
	"errors"
	"fmt"
	"math/rand"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbuilder/pkg/components"
	"github.com/goliatone/go-formbuilder/pkg/model"
)

func sequentialRegistry(opts ...components.Option) *components.Registry {
	n := 0
	opts = append(opts, components.WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("f%d", n)
	}))
	return components.NewDefaultRegistry(opts...)
}

func newEditorWith(t *testing.T, types ...model.FieldType) *Editor {
	t.Helper()
	ed := New(sequentialRegistry())
	for _, fieldType := range types {
		if _, err := ed.Append(fieldType); err != nil {
			t.Fatalf("append %s: %v", fieldType, err)
		}
	}
	return ed
}

func TestDrop_PaletteInsertsAtTargetOrAppends(t *testing.T) {
	ed := newEditorWith(t, model.FieldTypeText, model.FieldTypeEmail)

	if !ed.BeginDrag(PaletteSource(model.FieldTypeNumber)) {
		t.Fatalf("expected drag to start")
	}
	if ed.State() != StateDragging {
		t.Fatalf("expected dragging, got %s", ed.State())
	}
	field, err := ed.Drop("f2")
	if err != nil {
		t.Fatalf("drop: %v", err)
	}
	if field.ID != "f3" || ed.State() != StateIdle {
		t.Fatalf("unexpected drop result %+v state %s", field, ed.State())
	}
	if diff := cmp.Diff([]string{"f1", "f3", "f2"}, ed.Schema().IDs()); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}

	ed.BeginDrag(PaletteSource(model.FieldTypeDivider))
	if _, err := ed.Drop("missing"); err != nil {
		t.Fatalf("drop: %v", err)
	}
	if diff := cmp.Diff([]string{"f1", "f3", "f2", "f4"}, ed.Schema().IDs()); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestDrop_UnknownPaletteType(t *testing.T) {
	ed := newEditorWith(t)
	ed.BeginDrag(PaletteSource("signature"))
	if _, err := ed.Drop(""); !errors.Is(err, components.ErrUnknownType) {
		t.Fatalf("expected unknown type error, got %v", err)
	}
	if ed.State() != StateIdle || len(ed.Schema().Fields) != 0 {
		t.Fatalf("expected idle editor with no fields")
	}
}

func TestDrop_ReorderUsesMoveSemantics(t *testing.T) {
	ed := newEditorWith(t, model.FieldTypeText, model.FieldTypeEmail, model.FieldTypeNumber, model.FieldTypeDate)

	ed.BeginDrag(FieldSource("f1"))
	if _, err := ed.Drop("f3"); err != nil {
		t.Fatalf("drop: %v", err)
	}
	if diff := cmp.Diff([]string{"f2", "f3", "f1", "f4"}, ed.Schema().IDs()); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}

	before := ed.Schema()
	ed.BeginDrag(FieldSource("f4"))
	ed.Drop("nowhere")
	ed.BeginDrag(FieldSource("f4"))
	ed.Drop("f4")
	if diff := cmp.Diff(before, ed.Schema()); diff != "" {
		t.Fatalf("invalid reorder should be a no-op (-want +got):\n%s", diff)
	}
}

func TestBeginDrag_Guards(t *testing.T) {
	ed := newEditorWith(t, model.FieldTypeText)
	if ed.BeginDrag(FieldSource("missing")) {
		t.Fatalf("dragging a missing field should be refused")
	}
	ed.Select("f1")
	if !ed.BeginDrag(FieldSource("f1")) {
		t.Fatalf("expected drag from editing")
	}
	if ed.BeginDrag(PaletteSource(model.FieldTypeText)) {
		t.Fatalf("second drag should be refused")
	}
	if ed.Select("f1") {
		t.Fatalf("selecting while dragging should be refused")
	}
	ed.CancelDrag()
	if got := ed.Snapshot(); got.State != StateEditing || got.Selected != "f1" || got.Drag != nil {
		t.Fatalf("cancel should restore editing, got %+v", got)
	}
	if _, err := ed.Drop("f1"); err == nil {
		t.Fatalf("drop without drag should error")
	}
}

func TestSelectAndDelete(t *testing.T) {
	ed := newEditorWith(t, model.FieldTypeText, model.FieldTypeEmail)

	if ed.Select("missing") {
		t.Fatalf("selecting unknown id should fail")
	}
	ed.Select("f1")
	ed.Select("f2")
	if ed.State() != StateEditing || ed.Selected() != "f2" {
		t.Fatalf("expected single selection of f2, got %+v", ed.Snapshot())
	}

	if !ed.Delete("f1") {
		t.Fatalf("expected delete")
	}
	if ed.State() != StateEditing || ed.Selected() != "f2" {
		t.Fatalf("deleting another field must keep selection")
	}

	if !ed.Delete("f2") {
		t.Fatalf("expected delete")
	}
	if ed.State() != StateIdle || ed.Selected() != "" {
		t.Fatalf("deleting the selected field must return to idle, got %+v", ed.Snapshot())
	}
	if ed.Delete("f2") {
		t.Fatalf("second delete should be a no-op")
	}
}

func TestDeselect(t *testing.T) {
	ed := newEditorWith(t, model.FieldTypeText)
	ed.Select("f1")
	ed.Deselect()
	if ed.State() != StateIdle || ed.Selected() != "" {
		t.Fatalf("expected idle after deselect")
	}
}

func TestMove_BoundariesAndSelection(t *testing.T) {
	ed := newEditorWith(t, model.FieldTypeText, model.FieldTypeEmail, model.FieldTypeNumber)
	ed.Select("f2")

	if ed.MoveUp("f1") || ed.MoveDown("f3") || ed.MoveUp("missing") {
		t.Fatalf("boundary moves must be no-ops")
	}
	if !ed.MoveUp("f2") {
		t.Fatalf("expected move up")
	}
	if diff := cmp.Diff([]string{"f2", "f1", "f3"}, ed.Schema().IDs()); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
	if ed.Selected() != "f2" || ed.State() != StateEditing {
		t.Fatalf("moves must not change selection")
	}
}

func TestMove_IsPermutation(t *testing.T) {
	ed := newEditorWith(t,
		model.FieldTypeText, model.FieldTypeEmail, model.FieldTypeNumber,
		model.FieldTypeSelect, model.FieldTypeDivider, model.FieldTypeRating)
	want := ed.Schema().IDs()
	slices.Sort(want)

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		ids := ed.Schema().IDs()
		id := ids[rng.Intn(len(ids))]
		if rng.Intn(2) == 0 {
			ed.MoveUp(id)
		} else {
			ed.MoveDown(id)
		}
		got := ed.Schema().IDs()
		slices.Sort(got)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("step %d changed the id multiset (-want +got):\n%s", i, diff)
		}
	}
}

func TestOptions_AddRemoveRoundTripAndCap(t *testing.T) {
	ed := newEditorWith(t, model.FieldTypeSelect)
	before := ed.Schema()

	if !ed.AddOption("f1") {
		t.Fatalf("expected add")
	}
	if !ed.RemoveOption("f1", 3) {
		t.Fatalf("expected remove")
	}
	if diff := cmp.Diff(before, ed.Schema()); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}

	ed.AddOption("f1")
	ed.AddOption("f1")
	full := ed.Schema()
	if len(full.Fields[0].Options) != 5 {
		t.Fatalf("expected 5 options, got %v", full.Fields[0].Options)
	}
	if ed.AddOption("f1") {
		t.Fatalf("sixth option must be rejected")
	}
	if diff := cmp.Diff(full, ed.Schema()); diff != "" {
		t.Fatalf("rejected add changed the schema (-want +got):\n%s", diff)
	}
}

func TestRemoveOption_RenumbersGeneratedOnly(t *testing.T) {
	ed := newEditorWith(t, model.FieldTypeRadio)
	ed.AddOption("f1")
	ed.SetOption("f1", 2, "Custom")

	if !ed.RemoveOption("f1", 0) {
		t.Fatalf("expected remove")
	}
	got := ed.Schema().Fields[0].Options
	if diff := cmp.Diff([]string{"Option 1", "Custom", "Option 3"}, got); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
	if ed.RemoveOption("f1", 9) {
		t.Fatalf("out of range removal should be a no-op")
	}
}

func TestOptionCap_FromPolicy(t *testing.T) {
	ed := New(sequentialRegistry(components.WithPolicy(components.Policy{OptionCap: 3, DefaultOptionCount: 3})))
	ed.Append(model.FieldTypeCheckbox)
	if ed.AddOption("f1") {
		t.Fatalf("expected cap of 3 to reject")
	}
}

func TestSlider_BoundInvariant(t *testing.T) {
	ed := newEditorWith(t, model.FieldTypeSlider)
	rng := rand.New(rand.NewSource(11))

	for i := 0; i < 300; i++ {
		before := ed.Schema().Fields[0]
		value := float64(rng.Intn(300) - 100)
		var applied bool
		if rng.Intn(2) == 0 {
			applied = ed.SetSliderMin("f1", value)
		} else {
			applied = ed.SetSliderMax("f1", value)
		}
		after := ed.Schema().Fields[0]
		if *after.Min > *after.Max {
			t.Fatalf("step %d: min %v > max %v", i, *after.Min, *after.Max)
		}
		if !applied {
			if diff := cmp.Diff(before, after); diff != "" {
				t.Fatalf("step %d: rejected edit changed bounds (-want +got):\n%s", i, diff)
			}
		}
	}

	if ed.SetSliderMin("f1", *ed.Schema().Fields[0].Max+1) {
		t.Fatalf("min above max must be rejected")
	}
}

func TestEdits_TargetOnlyOneAttribute(t *testing.T) {
	ed := newEditorWith(t, model.FieldTypeText, model.FieldTypeNumber, model.FieldTypeEmail)
	before := ed.Schema()

	if !ed.SetLabel("f2", "Age") {
		t.Fatalf("expected label edit")
	}
	after := ed.Schema()
	want := before.Clone()
	want.Fields[1].Label = "Age"
	if diff := cmp.Diff(want, after); diff != "" {
		t.Fatalf("edit touched more than the label (-want +got):\n%s", diff)
	}

	if ed.SetDisallowDecimals("f1", true) {
		t.Fatalf("text fields do not recognise disallowDecimals")
	}
	if ed.SetLabel("missing", "x") {
		t.Fatalf("unknown id should be a no-op")
	}
	if !ed.ToggleDisallowDecimals("f2") || !ed.Schema().Fields[1].DisallowDecimals {
		t.Fatalf("expected toggle to enable disallowDecimals")
	}

	ed.AddDomain("f3", " acme.com ")
	ed.AddDomain("f3", "")
	ed.SetDomain("f3", 1, "example.org")
	ed.RemoveDomain("f3", 0)
	if diff := cmp.Diff([]string{"example.org"}, ed.Schema().Fields[2].AllowedDomains); diff != "" {
		t.Fatalf("domains mismatch (-want +got):\n%s", diff)
	}
}

func TestEdits_PresentationTypes(t *testing.T) {
	ed := newEditorWith(t, model.FieldTypeIframe, model.FieldTypeColor, model.FieldTypeLocation, model.FieldTypeRating)

	ed.SetIframe("f1", "https://example.com", "", "300px")
	iframe := ed.Schema().Fields[0]
	if iframe.Src != "https://example.com" || iframe.Width != "100%" || iframe.Height != "300px" {
		t.Fatalf("unexpected iframe %+v", iframe)
	}
	if ed.SetRequired("f1", true) {
		t.Fatalf("iframes do not recognise required")
	}

	ed.SetColor("f2", "#FF0000")
	ed.SetLocation("f3", model.Location{Lat: 1, Lng: 2})
	ed.SetRatingMax("f4", 10)
	ed.SetAllowHalf("f4", true)
	schema := ed.Schema()
	if schema.Fields[1].ColorValue != "#FF0000" || schema.Fields[2].LocationValue.Lng != 2 {
		t.Fatalf("unexpected presentation edits %+v", schema.Fields)
	}
	if *schema.Fields[3].Max != 10 || !schema.Fields[3].AllowHalf {
		t.Fatalf("unexpected rating %+v", schema.Fields[3])
	}
	if ed.SetRatingMax("f4", 0) {
		t.Fatalf("zero stars must be rejected")
	}
	if ed.SetRatingMax("f4", components.DefaultRatingCap+1) || ed.SetRatingMax("f4", 1e9) {
		t.Fatalf("star counts above the rating cap must be rejected")
	}
	if got := *ed.Schema().Fields[3].Max; got != 10 {
		t.Fatalf("rejected edits must keep the previous max, got %v", got)
	}
}

func TestSchema_ReturnsCopyAndHookFires(t *testing.T) {
	var events []Event
	ed := New(sequentialRegistry(), WithEventHook(func(e Event) { events = append(events, e) }))
	ed.SetName("Contact")
	ed.Append(model.FieldTypeSelect)
	ed.SetOption("f1", 0, "General")
	ed.SetSliderMin("f1", 1)

	schema := ed.Schema()
	schema.Fields[0].Options[0] = "mutated"
	if ed.Schema().Fields[0].Options[0] != "General" {
		t.Fatalf("Schema must return a copy")
	}

	want := []Event{
		{Kind: EventRename},
		{Kind: EventInsert, FieldID: "f1"},
		{Kind: EventEdit, FieldID: "f1", Attribute: model.AttrOptions},
	}
	if diff := cmp.Diff(want, events); diff != "" {
		t.Fatalf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestWithSchema_Seeds(t *testing.T) {
	seed := model.FormSchema{Name: "Seed", Fields: []model.Field{{ID: "a", Type: model.FieldTypeText, Label: "A"}}}
	ed := New(nil, WithSchema(seed))
	seed.Fields[0].Label = "changed"
	if got := ed.Schema().Fields[0].Label; got != "A" {
		t.Fatalf("seed schema must be copied, got %q", got)
	}
	if !ed.Select("a") {
		t.Fatalf("expected to select seeded field")
	}
}
