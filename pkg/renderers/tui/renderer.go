package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/components"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/widgets"
)

// Name is the registry name of the renderer.
const Name = "tui"

const customColorLabel = "Custom..."

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Renderer fills a form interactively in the terminal. Render prompts for
// every field in schema order and returns the serialized submission payload.
type Renderer struct {
	driver            PromptDriver
	strategies        render.StrategySource
	rules             []render.FieldRule
	outputFormat      OutputFormat
	maxAttempts       int
	submitTransformer SubmitTransformer
	theme             Theme
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		outputFormat: OutputFormatJSON,
		maxAttempts:  DefaultMaxAttempts,
	}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	if r.driver == nil {
		r.driver = NewSurveyDriver(nil)
	}
	if r.strategies == nil {
		r.strategies = components.NewDefaultRegistry()
	}
	switch r.outputFormat {
	case OutputFormatJSON, OutputFormatFormURLEncoded, OutputFormatPrettyText:
	default:
		return nil, fmt.Errorf("tui: unsupported output format %q", r.outputFormat)
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return Name
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain; charset=utf-8"
	default:
		return "application/json"
	}
}

// Render collects values and serializes the payload.
func (r *Renderer) Render(ctx context.Context, schema model.FormSchema, opts render.RenderOptions) ([]byte, error) {
	values, err := r.Collect(ctx, schema, opts)
	if err != nil {
		return nil, err
	}
	if r.submitTransformer != nil {
		values, err = r.submitTransformer(values)
		if err != nil {
			return nil, fmt.Errorf("tui: submit transformer: %w", err)
		}
	}
	return r.serialize(schema, values)
}

// Collect prompts for every field and returns the validated payload. Fields
// that fail validation on submit are prompted again with their messages, up
// to the configured number of attempts.
func (r *Renderer) Collect(ctx context.Context, schema model.FormSchema, opts render.RenderOptions) (model.Values, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	session := render.NewSession(r.strategies, schema, r.rules...)
	for id, value := range opts.Values {
		session.Set(id, value)
	}
	if opts.Notice != "" {
		_ = r.info(ctx, opts.Notice)
	}
	for _, message := range opts.FormErrors {
		_ = r.fail(ctx, message)
	}

	pending := opts.Errors
	for attempt := 0; ; attempt++ {
		for _, field := range schema.Fields {
			if attempt > 0 && len(pending[field.ID]) == 0 {
				continue
			}
			if err := r.promptField(ctx, session, field, pending[field.ID]); err != nil {
				return nil, err
			}
		}

		payload, err := session.Submit()
		if err == nil {
			return payload, nil
		}
		var invalid render.ValidationErrors
		if !errors.As(err, &invalid) {
			return nil, fmt.Errorf("tui: %w", err)
		}
		if attempt+1 >= r.maxAttempts {
			return nil, fmt.Errorf("%w: %v", ErrTooManyAttempts, invalid)
		}
		pending = invalid.ByField()
	}
}

// SubmitFunc delivers one collected payload.
type SubmitFunc func(ctx context.Context, values model.Values) error

// Fill runs the published-form loop: collect, submit, confirm, and start over
// with empty values when the user wants to send another response. A failed
// submission keeps the collected values and may be retried.
func (r *Renderer) Fill(ctx context.Context, schema model.FormSchema, submit SubmitFunc) error {
	if submit == nil {
		return errors.New("tui: submit function is required")
	}
	for {
		values, err := r.Collect(ctx, schema, render.RenderOptions{})
		if err != nil {
			return err
		}
		for {
			err = submit(ctx, values)
			if err == nil {
				break
			}
			_ = r.fail(ctx, fmt.Sprintf("Submission failed: %v", err))
			retry, askErr := r.driver.Confirm(ctx, ConfirmConfig{Message: "Retry submission?", Default: true})
			if askErr != nil {
				return askErr
			}
			if !retry {
				return err
			}
		}
		_ = r.info(ctx, "Form submitted successfully!")
		again, err := r.driver.Confirm(ctx, ConfirmConfig{Message: "Submit another response?"})
		if err != nil {
			return err
		}
		if !again {
			return nil
		}
	}
}

func (r *Renderer) promptField(ctx context.Context, session *render.Session, field model.Field, messages []string) error {
	w, err := render.RenderField(r.strategies, field, session.Value(field.ID))
	if err != nil {
		return err
	}
	for _, message := range messages {
		_ = r.fail(ctx, fmt.Sprintf("%s: %s", w.Label, message))
	}

	switch w.Input {
	case widgets.InputDivider:
		if w.Label != "" {
			return r.info(ctx, fmt.Sprintf("-- %s --", w.Label))
		}
		return r.info(ctx, "--")
	case widgets.InputIframe:
		target := w.Embed.Src
		if w.Embed.Empty {
			target = w.Embed.EmptyDetail
		}
		return r.info(ctx, fmt.Sprintf("%s: %s", w.Embed.Title, target))
	case widgets.InputTextarea:
		return r.promptText(ctx, session, field, w, true)
	case widgets.InputSelect, widgets.InputRadio:
		return r.promptChoice(ctx, session, field, w)
	case widgets.InputCheckbox:
		return r.promptCheckbox(ctx, session, field, w)
	case widgets.InputRange:
		return r.promptRange(ctx, session, field, w)
	case widgets.InputRating:
		return r.promptRating(ctx, session, field, w)
	case widgets.InputColor:
		return r.promptColor(ctx, session, field, w)
	case widgets.InputLocation:
		return r.promptLocation(ctx, session, field, w)
	default:
		return r.promptText(ctx, session, field, w, false)
	}
}

func (r *Renderer) promptText(ctx context.Context, session *render.Session, field model.Field, w widgets.Widget, multiline bool) error {
	for {
		var (
			response string
			err      error
		)
		if multiline {
			response, err = r.driver.TextArea(ctx, TextAreaConfig{Message: w.Label, Default: w.Text, Help: help(w)})
		} else {
			response, err = r.driver.Input(ctx, InputConfig{
				Message:     w.Label,
				Default:     w.Text,
				Help:        help(w),
				Placeholder: w.Placeholder,
			})
		}
		if err != nil {
			return err
		}

		var value any
		if strings.TrimSpace(response) != "" {
			value = response
		}
		if message := r.check(field, value); message != "" {
			_ = r.fail(ctx, fmt.Sprintf("%s: %s", w.Label, message))
			continue
		}
		session.Set(field.ID, value)
		return nil
	}
}

func (r *Renderer) promptChoice(ctx context.Context, session *render.Session, field model.Field, w widgets.Widget) error {
	options := make([]string, 0, len(w.Options)+1)
	offset := 0
	if w.Input == widgets.InputSelect {
		options = append(options, w.UnsetLabel)
		offset = 1
	}
	defaultIndex := 0
	for i, option := range w.Options {
		options = append(options, option.Value)
		if option.Selected {
			defaultIndex = i + offset
		}
	}
	if len(options) == 0 {
		return r.info(ctx, fmt.Sprintf("%s: no options", w.Label))
	}

	for {
		idx, err := r.driver.Select(ctx, SelectConfig{Message: w.Label, Options: options, DefaultIndex: defaultIndex, Help: help(w)})
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(options) {
			_ = r.fail(ctx, fmt.Sprintf("%s: choose one of the listed options", w.Label))
			continue
		}
		var value any
		if idx >= offset {
			value = w.Options[idx-offset].Value
		}
		if message := r.check(field, value); message != "" {
			_ = r.fail(ctx, fmt.Sprintf("%s: %s", w.Label, message))
			continue
		}
		session.Set(field.ID, value)
		return nil
	}
}

func (r *Renderer) promptCheckbox(ctx context.Context, session *render.Session, field model.Field, w widgets.Widget) error {
	options := make([]string, len(w.Options))
	var defaults []int
	for i, option := range w.Options {
		options[i] = option.Value
		if option.Selected {
			defaults = append(defaults, i)
		}
	}
	for {
		picked, err := r.driver.MultiSelect(ctx, SelectConfig{Message: w.Label, Options: options, Defaults: defaults, Help: help(w)})
		if err != nil {
			return err
		}
		var chosen []string
		for _, idx := range picked {
			if idx >= 0 && idx < len(options) {
				chosen = widgets.ToggleChoice(chosen, options[idx], true)
			}
		}
		var value any
		if len(chosen) > 0 {
			value = chosen
		}
		if message := r.check(field, value); message != "" {
			_ = r.fail(ctx, fmt.Sprintf("%s: %s", w.Label, message))
			continue
		}
		session.Set(field.ID, nil)
		for _, option := range chosen {
			session.Toggle(field.ID, option, true)
		}
		return nil
	}
}

func (r *Renderer) promptRange(ctx context.Context, session *render.Session, field model.Field, w widgets.Widget) error {
	bounds := fmt.Sprintf("%s to %s", formatNumber(w.Range.Min), formatNumber(w.Range.Max))
	for {
		response, err := r.driver.Input(ctx, InputConfig{Message: w.Label, Default: w.Text, Help: joinHelp(help(w), bounds)})
		if err != nil {
			return err
		}
		number, ok := widgets.AsFloat(response)
		if !ok || number < w.Range.Min || number > w.Range.Max {
			_ = r.fail(ctx, fmt.Sprintf("%s: enter a number from %s", w.Label, bounds))
			continue
		}
		session.Set(field.ID, number)
		return nil
	}
}

func (r *Renderer) promptRating(ctx context.Context, session *render.Session, field model.Field, w widgets.Widget) error {
	type choice struct {
		star int
		half bool
	}
	var (
		options []string
		choices []choice
	)
	defaultIndex := 0
	for _, star := range w.Rating.Stars {
		if w.Rating.AllowHalf {
			options = append(options, formatNumber(star.HalfValue))
			choices = append(choices, choice{star: star.Index, half: true})
			if w.Rating.Value == star.HalfValue {
				defaultIndex = len(options) - 1
			}
		}
		options = append(options, formatNumber(star.FullValue))
		choices = append(choices, choice{star: star.Index})
		if w.Rating.Value == star.FullValue {
			defaultIndex = len(options) - 1
		}
	}
	if len(options) == 0 {
		return nil
	}
	for {
		idx, err := r.driver.Select(ctx, SelectConfig{Message: w.Label, Options: options, DefaultIndex: defaultIndex, Help: help(w)})
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(choices) {
			_ = r.fail(ctx, fmt.Sprintf("%s: choose one of the listed ratings", w.Label))
			continue
		}
		session.Rate(field.ID, choices[idx].star, choices[idx].half)
		return nil
	}
}

func (r *Renderer) promptColor(ctx context.Context, session *render.Session, field model.Field, w widgets.Widget) error {
	options := append(append([]string(nil), w.Color.Palette...), customColorLabel)
	defaultIndex := indexOf(options, strings.ToUpper(w.Color.Value))
	if defaultIndex < 0 {
		defaultIndex = len(options) - 1
	}
	idx, err := r.driver.Select(ctx, SelectConfig{Message: w.Label, Options: options, DefaultIndex: defaultIndex, Help: help(w)})
	if err != nil {
		return err
	}
	if idx >= 0 && idx < len(w.Color.Palette) {
		session.Set(field.ID, w.Color.Palette[idx])
		return nil
	}
	for {
		response, err := r.driver.Input(ctx, InputConfig{Message: w.Label, Default: w.Color.Value, Help: "Hex colour, e.g. #1E90FF"})
		if err != nil {
			return err
		}
		trimmed := strings.TrimSpace(response)
		if !hexColor.MatchString(trimmed) {
			_ = r.fail(ctx, fmt.Sprintf("%s: enter a hex colour such as #1E90FF", w.Label))
			continue
		}
		session.Set(field.ID, strings.ToUpper(trimmed))
		return nil
	}
}

func (r *Renderer) promptLocation(ctx context.Context, session *render.Session, field model.Field, w widgets.Widget) error {
	for {
		lat, err := r.driver.Input(ctx, InputConfig{Message: w.Label + " latitude", Default: w.Location.Lat, Help: help(w)})
		if err != nil {
			return err
		}
		lng, err := r.driver.Input(ctx, InputConfig{Message: w.Label + " longitude", Default: w.Location.Lng})
		if err != nil {
			return err
		}
		input := widgets.LocationInput{Lat: strings.TrimSpace(lat), Lng: strings.TrimSpace(lng)}
		if input.Lat == "" && input.Lng == "" {
			if message := r.check(field, nil); message != "" {
				_ = r.fail(ctx, fmt.Sprintf("%s: %s", w.Label, message))
				continue
			}
			session.Set(field.ID, nil)
			return nil
		}
		loc, ok := input.Commit()
		if !ok {
			_ = r.fail(ctx, fmt.Sprintf("%s: enter both latitude and longitude as numbers", w.Label))
			continue
		}
		session.Set(field.ID, loc)
		return nil
	}
}

// check runs the field's strategy and the configured rules for one answer.
func (r *Renderer) check(field model.Field, value any) string {
	strategy, err := r.strategies.Strategy(field.Type)
	if err != nil {
		return err.Error()
	}
	if verr := strategy.Validate(field, value); verr != nil {
		return verr.Message
	}
	for _, rule := range r.rules {
		if verr := rule(field, value); verr != nil {
			return verr.Message
		}
	}
	return ""
}

func (r *Renderer) info(ctx context.Context, msg string) error {
	return r.driver.Info(ctx, r.theme.InfoPrefix+msg)
}

func (r *Renderer) fail(ctx context.Context, msg string) error {
	return r.driver.Info(ctx, r.theme.ErrorPrefix+msg)
}

func help(w widgets.Widget) string {
	return joinHelp(append([]string{w.Help}, w.Notes...)...)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func (r *Renderer) serialize(schema model.FormSchema, values model.Values) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return []byte(encodeForm(schema, values).Encode()), nil
	case OutputFormatPrettyText:
		return []byte(prettyText(schema, values)), nil
	default:
		data, err := json.MarshalIndent(values, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("tui: encode json: %w", err)
		}
		return data, nil
	}
}

// encodeForm mirrors the field names the HTML form posts.
func encodeForm(schema model.FormSchema, values model.Values) url.Values {
	out := url.Values{}
	for _, field := range schema.Fields {
		value, ok := values[field.ID]
		if !ok {
			continue
		}
		if loc, ok := widgets.AsLocation(value); ok {
			out.Set(field.ID+".lat", formatNumber(loc.Lat))
			out.Set(field.ID+".lng", formatNumber(loc.Lng))
			continue
		}
		if list, ok := value.([]string); ok {
			for _, item := range list {
				out.Add(field.ID, item)
			}
			continue
		}
		if text, ok := widgets.AsString(value); ok {
			out.Set(field.ID, text)
		}
	}
	return out
}

func prettyText(schema model.FormSchema, values model.Values) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", schema.DisplayName())
	for _, field := range schema.Fields {
		value, ok := values[field.ID]
		if !ok {
			continue
		}
		label := field.Label
		if label == "" {
			label = field.ID
		}
		fmt.Fprintf(&b, "%s: %s\n", label, describe(value))
	}
	return b.String()
}

func describe(value any) string {
	if loc, ok := widgets.AsLocation(value); ok {
		return formatNumber(loc.Lat) + ", " + formatNumber(loc.Lng)
	}
	if list, ok := value.([]string); ok {
		return strings.Join(list, ", ")
	}
	if text, ok := widgets.AsString(value); ok {
		return text
	}
	return fmt.Sprint(value)
}
