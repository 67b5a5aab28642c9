package contract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

const (
	openAPIVersion = "3.0.3"
	operationID    = "submitForm"
)

// Contract is the OpenAPI description of one form's submission payload.
type Contract struct {
	doc     *openapi3.T
	payload *openapi3.Schema
	fields  map[string]model.Field
	strict  bool
}

// Build derives the submission contract for schema. Presentation-only fields
// are left out of the payload.
func Build(schema model.FormSchema, opts ...Option) (*Contract, error) {
	cfg := newOptions(opts...)
	if !strings.Contains(cfg.Path, "{uuid}") {
		return nil, fmt.Errorf("contract: path %q must contain {uuid}", cfg.Path)
	}

	payload := openapi3.NewObjectSchema()
	payload.Title = schema.DisplayName()
	fields := make(map[string]model.Field, len(schema.Fields))
	var required []string
	for _, field := range schema.Fields {
		if !field.Type.Submittable() {
			continue
		}
		if field.ID == "" {
			return nil, errors.New("contract: field without id")
		}
		if _, dup := fields[field.ID]; dup {
			return nil, fmt.Errorf("contract: duplicate field id %q", field.ID)
		}
		fields[field.ID] = field
		payload.WithProperty(field.ID, fieldSchema(field, cfg))
		if cfg.Policy.EnforceRequired && field.Required {
			required = append(required, field.ID)
		}
	}
	if len(required) > 0 {
		payload.Required = required
	}
	if cfg.StrictBounds {
		closed := false
		payload.AdditionalProperties = openapi3.AdditionalProperties{Has: &closed}
	}

	result := openapi3.NewObjectSchema().
		WithProperty("success", openapi3.NewBoolSchema()).
		WithProperty("submissionId", openapi3.NewStringSchema())
	failure := openapi3.NewObjectSchema().
		WithProperty("ok", openapi3.NewIntegerSchema()).
		WithProperty("code", openapi3.NewIntegerSchema()).
		WithProperty("message", openapi3.NewStringSchema()).
		WithProperty("errors", openapi3.NewObjectSchema())

	operation := &openapi3.Operation{
		OperationID: operationID,
		Summary:     "Submit " + schema.DisplayName(),
		Parameters: openapi3.Parameters{
			{Value: openapi3.NewPathParameter("uuid").WithSchema(openapi3.NewStringSchema())},
		},
		RequestBody: &openapi3.RequestBodyRef{
			Value: openapi3.NewRequestBody().WithRequired(true).WithJSONSchema(payload),
		},
		Responses: openapi3.NewResponses(
			openapi3.WithStatus(200, &openapi3.ResponseRef{Value: openapi3.NewResponse().WithDescription("Submission stored").WithJSONSchema(result)}),
			openapi3.WithStatus(404, &openapi3.ResponseRef{Value: openapi3.NewResponse().WithDescription("Form not found").WithJSONSchema(failure)}),
			openapi3.WithStatus(422, &openapi3.ResponseRef{Value: openapi3.NewResponse().WithDescription("Validation failed").WithJSONSchema(failure)}),
		),
	}

	doc := &openapi3.T{
		OpenAPI: openAPIVersion,
		Info: &openapi3.Info{
			Title:   schema.DisplayName() + " submission",
			Version: cfg.Version,
		},
		Paths: openapi3.NewPaths(openapi3.WithPath(cfg.Path, &openapi3.PathItem{Post: operation})),
	}

	return &Contract{doc: doc, payload: payload, fields: fields, strict: cfg.StrictBounds}, nil
}

// Document exposes the underlying OpenAPI document.
func (c *Contract) Document() *openapi3.T {
	return c.doc
}

// Payload exposes the request body schema.
func (c *Contract) Payload() *openapi3.Schema {
	return c.payload
}

// Validate runs the OpenAPI structural checks over the generated document.
func (c *Contract) Validate(ctx context.Context) error {
	if err := c.doc.Validate(ctx); err != nil {
		return fmt.Errorf("contract: invalid document: %w", err)
	}
	return nil
}

// JSON encodes the document as indented JSON.
func (c *Contract) JSON() ([]byte, error) {
	data, err := json.MarshalIndent(c.doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("contract: encode json: %w", err)
	}
	return data, nil
}

// YAML encodes the document as YAML.
func (c *Contract) YAML() ([]byte, error) {
	data, err := json.Marshal(c.doc)
	if err != nil {
		return nil, fmt.Errorf("contract: encode json: %w", err)
	}
	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return nil, fmt.Errorf("contract: decode json: %w", err)
	}
	out, err := yaml.Marshal(generic)
	if err != nil {
		return nil, fmt.Errorf("contract: encode yaml: %w", err)
	}
	return out, nil
}

var (
	timePattern  = `^\d{2}:\d{2}(:\d{2})?$`
	colorPattern = `^#(?:[0-9A-Fa-f]{3}|[0-9A-Fa-f]{6})$`
)

func fieldSchema(field model.Field, cfg Options) *openapi3.Schema {
	var schema *openapi3.Schema
	switch field.Type {
	case model.FieldTypeEmail:
		schema = openapi3.NewStringSchema().WithFormat("email")
		if cfg.Policy.EnforceAllowedDomains {
			if pattern := domainPattern(field.AllowedDomains); pattern != "" {
				schema.WithPattern(pattern)
			}
		}
	case model.FieldTypeNumber:
		if field.DisallowDecimals {
			schema = openapi3.NewIntegerSchema()
		} else {
			schema = openapi3.NewFloat64Schema()
		}
	case model.FieldTypeSelect, model.FieldTypeRadio:
		schema = openapi3.NewStringSchema()
		if cfg.Policy.EnforceOptions && len(field.Options) > 0 {
			schema.WithEnum(enumValues(field.Options)...)
		}
	case model.FieldTypeCheckbox:
		items := openapi3.NewStringSchema()
		if cfg.Policy.EnforceOptions && len(field.Options) > 0 {
			items.WithEnum(enumValues(field.Options)...)
		}
		schema = openapi3.NewArraySchema().WithItems(items)
	case model.FieldTypeSlider:
		schema = openapi3.NewFloat64Schema()
		if cfg.StrictBounds {
			schema.WithMin(model.FloatOr(field.Min, 0)).WithMax(model.FloatOr(field.Max, 100))
		}
	case model.FieldTypeRating:
		schema = openapi3.NewFloat64Schema()
		if cfg.StrictBounds {
			step := 1.0
			if field.AllowHalf {
				step = 0.5
			}
			schema.WithMin(0).WithMax(model.FloatOr(field.Max, 5))
			schema.MultipleOf = &step
		}
	case model.FieldTypeDate:
		schema = openapi3.NewStringSchema().WithFormat("date")
	case model.FieldTypeTime:
		schema = openapi3.NewStringSchema().WithPattern(timePattern)
	case model.FieldTypeURL:
		schema = openapi3.NewStringSchema().WithFormat("uri")
	case model.FieldTypeColor:
		schema = openapi3.NewStringSchema()
		if cfg.StrictBounds {
			schema.WithPattern(colorPattern)
		}
	case model.FieldTypeLocation:
		schema = openapi3.NewObjectSchema().
			WithProperty("lat", openapi3.NewFloat64Schema().WithMin(-90).WithMax(90)).
			WithProperty("lng", openapi3.NewFloat64Schema().WithMin(-180).WithMax(180)).
			WithProperty("address", openapi3.NewStringSchema())
		schema.Required = []string{"lat", "lng"}
	default:
		schema = openapi3.NewStringSchema()
	}
	schema.Title = field.Label
	schema.Description = field.Comment
	return schema
}

func domainPattern(domains []string) string {
	var parts []string
	for _, domain := range domains {
		trimmed := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(domain)), "@")
		if trimmed != "" {
			parts = append(parts, regexp.QuoteMeta(trimmed))
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return "@(" + strings.Join(parts, "|") + ")$"
}

func enumValues(options []string) []any {
	out := make([]any, len(options))
	for i, option := range options {
		out[i] = option
	}
	return out
}
