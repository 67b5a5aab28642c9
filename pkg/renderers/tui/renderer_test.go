package tui

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/widgets"
)

type stubDriver struct {
	inputs       []string
	selectIdx    []int
	multiIdx     [][]int
	confirm      []bool
	textAreas    []string
	infoMessages []string
	inputPos     int
	selectPos    int
	multiPos     int
	confirmPos   int
	textPos      int
}

func (s *stubDriver) Input(_ context.Context, _ InputConfig) (string, error) {
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, _ ConfirmConfig) (bool, error) {
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, _ SelectConfig) (int, error) {
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) MultiSelect(_ context.Context, _ SelectConfig) ([]int, error) {
	if s.multiPos >= len(s.multiIdx) {
		return nil, errors.New("no multiselect scripted")
	}
	val := s.multiIdx[s.multiPos]
	s.multiPos++
	return val, nil
}

func (s *stubDriver) TextArea(_ context.Context, _ TextAreaConfig) (string, error) {
	if s.textPos >= len(s.textAreas) {
		return "", errors.New("no textarea scripted")
	}
	val := s.textAreas[s.textPos]
	s.textPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

func contactSchema() model.FormSchema {
	return model.FormSchema{
		Name: "Contact",
		Fields: []model.Field{
			{ID: "name", Type: model.FieldTypeText, Label: "Name", Required: true},
			{ID: "email", Type: model.FieldTypeEmail, Label: "Email", Required: true},
			{ID: "subject", Type: model.FieldTypeSelect, Label: "Subject", Options: []string{"General", "Support", "Sales"}},
			{ID: "message", Type: model.FieldTypeTextarea, Label: "Message", Required: true},
		},
	}
}

func requiredRule(field model.Field, value any) *widgets.ValidationError {
	if field.Required && value == nil {
		return &widgets.ValidationError{FieldID: field.ID, Code: widgets.CodeRequired, Message: "This field is required"}
	}
	return nil
}

func TestRender_ContactJSON(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"Ada", "ada@example.com"},
		selectIdx: []int{2},
		textAreas: []string{"Hello there"},
	}
	renderer, err := New(WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if renderer.Name() != "tui" || renderer.ContentType() != "application/json" {
		t.Fatalf("unexpected identity %s %s", renderer.Name(), renderer.ContentType())
	}

	out, err := renderer.Render(context.Background(), contactSchema(), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := map[string]any{
		"name":    "Ada",
		"email":   "ada@example.com",
		"subject": "Support",
		"message": "Hello there",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestCollect_UnsetSelectIsOmitted(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"Ada", "ada@example.com"},
		selectIdx: []int{0},
		textAreas: []string{"Hi"},
	}
	renderer, _ := New(WithPromptDriver(driver))
	values, err := renderer.Collect(context.Background(), contactSchema(), render.RenderOptions{})
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if _, ok := values["subject"]; ok {
		t.Fatalf("unset select must not be submitted, got %v", values)
	}
}

func TestCollect_RepromptsDecimalNumber(t *testing.T) {
	schema := model.FormSchema{Fields: []model.Field{
		{ID: "age", Type: model.FieldTypeNumber, Label: "Age", DisallowDecimals: true},
	}}
	driver := &stubDriver{inputs: []string{"2.5", "3"}}
	renderer, _ := New(WithPromptDriver(driver))

	values, err := renderer.Collect(context.Background(), schema, render.RenderOptions{})
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if diff := cmp.Diff(model.Values{"age": "3"}, values); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	if len(driver.infoMessages) != 1 || !strings.HasPrefix(driver.infoMessages[0], "Age: ") {
		t.Fatalf("expected one inline error, got %v", driver.infoMessages)
	}
}

func TestCollect_RulesRejectBlankRequired(t *testing.T) {
	schema := model.FormSchema{Fields: []model.Field{
		{ID: "name", Type: model.FieldTypeText, Label: "Name", Required: true},
	}}
	driver := &stubDriver{inputs: []string{"  ", "Ada"}}
	renderer, _ := New(WithPromptDriver(driver), WithRules(requiredRule), WithTheme(Theme{ErrorPrefix: "! "}))

	values, err := renderer.Collect(context.Background(), schema, render.RenderOptions{})
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if values["name"] != "Ada" {
		t.Fatalf("unexpected values %v", values)
	}
	if diff := cmp.Diff([]string{"! Name: This field is required"}, driver.infoMessages); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}
}

func TestCollect_SpecialisedInputs(t *testing.T) {
	schema := model.FormSchema{Fields: []model.Field{
		{ID: "intro", Type: model.FieldTypeDivider, Label: "About you"},
		{ID: "tags", Type: model.FieldTypeCheckbox, Label: "Tags", Options: []string{"x", "y", "z"}},
		{ID: "level", Type: model.FieldTypeSlider, Label: "Level", Min: model.Float(0), Max: model.Float(10)},
		{ID: "stars", Type: model.FieldTypeRating, Label: "Stars", Max: model.Float(3), AllowHalf: true},
		{ID: "tint", Type: model.FieldTypeColor, Label: "Tint"},
		{ID: "where", Type: model.FieldTypeLocation, Label: "Where"},
		{ID: "map", Type: model.FieldTypeIframe, Label: "Map", Src: "https://example.com/embed"},
	}}
	driver := &stubDriver{
		multiIdx: [][]int{{2, 0}},
		// level: out of range then valid; tint custom; where partial then complete
		inputs: []string{"11", "7", "#1e90ff", "51.5", "", "51.5", "-0.12"},
		// stars: options are 0.5,1,1.5,2,2.5,3 so index 4 is 2.5; tint: custom
		selectIdx: []int{4, len(widgets.ColorPalette)},
	}
	renderer, _ := New(WithPromptDriver(driver))

	values, err := renderer.Collect(context.Background(), schema, render.RenderOptions{})
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	want := model.Values{
		"tags":  []string{"z", "x"},
		"level": 7.0,
		"stars": 2.5,
		"tint":  "#1E90FF",
		"where": model.Location{Lat: 51.5, Lng: -0.12},
	}
	if diff := cmp.Diff(want, values); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	if driver.infoMessages[0] != "-- About you --" {
		t.Fatalf("expected divider heading, got %v", driver.infoMessages)
	}
	if last := driver.infoMessages[len(driver.infoMessages)-1]; last != "Map: https://example.com/embed" {
		t.Fatalf("expected embed notice, got %q", last)
	}
}

func TestRender_FormAndPrettyOutput(t *testing.T) {
	schema := model.FormSchema{Name: "Mixed", Fields: []model.Field{
		{ID: "name", Type: model.FieldTypeText, Label: "Name"},
		{ID: "tags", Type: model.FieldTypeCheckbox, Label: "Tags", Options: []string{"a", "b"}},
		{ID: "where", Type: model.FieldTypeLocation, Label: "Where"},
	}}
	script := func() *stubDriver {
		return &stubDriver{
			inputs:   []string{"Ada", "1", "2"},
			multiIdx: [][]int{{0, 1}},
		}
	}

	form, _ := New(WithPromptDriver(script()), WithOutputFormat(OutputFormatFormURLEncoded))
	out, err := form.Render(context.Background(), schema, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render form: %v", err)
	}
	parsed, err := url.ParseQuery(string(out))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	wantForm := url.Values{"name": {"Ada"}, "tags": {"a", "b"}, "where.lat": {"1"}, "where.lng": {"2"}}
	if diff := cmp.Diff(wantForm, parsed); diff != "" {
		t.Fatalf("form mismatch (-want +got):\n%s", diff)
	}

	pretty, _ := New(WithPromptDriver(script()), WithOutputFormat(OutputFormatPrettyText))
	out, err = pretty.Render(context.Background(), schema, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render pretty: %v", err)
	}
	want := "Mixed\nName: Ada\nTags: a, b\nWhere: 1, 2\n"
	if diff := cmp.Diff(want, string(out)); diff != "" {
		t.Fatalf("pretty mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_SubmitTransformer(t *testing.T) {
	schema := model.FormSchema{Fields: []model.Field{{ID: "name", Type: model.FieldTypeText}}}
	driver := &stubDriver{inputs: []string{"ada"}}
	renderer, _ := New(WithPromptDriver(driver), WithSubmitTransformer(func(values model.Values) (model.Values, error) {
		values["name"] = strings.ToUpper(values["name"].(string))
		return values, nil
	}))
	out, err := renderer.Render(context.Background(), schema, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(string(out), `"ADA"`) {
		t.Fatalf("transformer not applied: %s", out)
	}
}

func TestFill_RetriesAndStartsOver(t *testing.T) {
	schema := model.FormSchema{Fields: []model.Field{{ID: "name", Type: model.FieldTypeText, Label: "Name"}}}
	driver := &stubDriver{
		inputs: []string{"Ada", "Grace"},
		// retry after failure, submit another, stop
		confirm: []bool{true, true, false},
	}
	renderer, _ := New(WithPromptDriver(driver))

	var submitted []model.Values
	calls := 0
	err := renderer.Fill(context.Background(), schema, func(_ context.Context, values model.Values) error {
		calls++
		if calls == 1 {
			return errors.New("gateway unavailable")
		}
		submitted = append(submitted, values)
		return nil
	})
	if err != nil {
		t.Fatalf("fill: %v", err)
	}
	want := []model.Values{{"name": "Ada"}, {"name": "Grace"}}
	if diff := cmp.Diff(want, submitted); diff != "" {
		t.Fatalf("submissions mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{
		"Submission failed: gateway unavailable",
		"Form submitted successfully!",
		"Form submitted successfully!",
	}, driver.infoMessages); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}
}

func TestCollect_PrefilledErrorsAndAborts(t *testing.T) {
	schema := model.FormSchema{Fields: []model.Field{{ID: "name", Type: model.FieldTypeText, Label: "Name"}}}
	driver := &stubDriver{}
	renderer, _ := New(WithPromptDriver(driver))

	_, err := renderer.Collect(context.Background(), schema, render.RenderOptions{
		Errors: map[string][]string{"name": {"Taken"}},
	})
	if err == nil {
		t.Fatalf("expected driver error when the script runs out")
	}
	if diff := cmp.Diff([]string{"Name: Taken"}, driver.infoMessages); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}

	if _, err := New(WithOutputFormat("xml")); err == nil {
		t.Fatalf("expected unsupported format error")
	}
}
