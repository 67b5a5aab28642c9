// Package forms is the server side of the publish/submit gateway: it stores
// published schemas, validates and records submissions and serves the
// published form page.
package forms

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-formbuilder/internal/middleware"
	"github.com/goliatone/go-formbuilder/internal/models"
	"github.com/goliatone/go-formbuilder/internal/store"
	"github.com/goliatone/go-formbuilder/pkg/components"
	"github.com/goliatone/go-formbuilder/pkg/contract"
	"github.com/goliatone/go-formbuilder/pkg/gateway"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/schemafile"
	"github.com/goliatone/go-formbuilder/pkg/validation"
)

// Option configures a Service.
type Option func(*Service)

// WithPolicy enables the opt-in submission constraints.
func WithPolicy(policy validation.Policy) Option {
	return func(s *Service) {
		s.policy = policy
	}
}

// WithStrictContract also checks submissions against the payload schema with
// bounds and unknown keys enforced.
func WithStrictContract(enabled bool) Option {
	return func(s *Service) {
		s.strict = enabled
	}
}

// WithAdmin sets the admin credential checker.
func WithAdmin(admin middleware.Admin) Option {
	return func(s *Service) {
		s.admin = admin
	}
}

// WithBaseURL prefixes the public links of published forms.
func WithBaseURL(baseURL string) Option {
	return func(s *Service) {
		s.baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	}
}

// WithLogger sets the service logger.
func WithLogger(log *zap.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// Service implements gateway.Gateway on top of a store.
type Service struct {
	store    store.Store
	registry *components.Registry
	policy   validation.Policy
	strict   bool
	admin    middleware.Admin
	baseURL  string
	log      *zap.Logger
}

var _ gateway.Gateway = (*Service)(nil)

// NewService builds a service. A nil registry uses the default components.
func NewService(st store.Store, registry *components.Registry, opts ...Option) *Service {
	if registry == nil {
		registry = components.NewDefaultRegistry()
	}
	s := &Service{store: st, registry: registry, log: zap.NewNop()}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Registry returns the component registry the service validates with.
func (s *Service) Registry() *components.Registry {
	return s.registry
}

// CreateForm stores a schema. Every call creates a new record. Components
// are coerced first: unknown attributes are dropped, ids are repaired and
// items without a usable type are excluded.
func (s *Service) CreateForm(ctx context.Context, req gateway.CreateRequest) (gateway.FormRef, error) {
	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		return gateway.FormRef{}, gateway.ErrSessionRequired
	}

	schema, err := s.coerce(req.Schema)
	if err != nil {
		return gateway.FormRef{}, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = schema.DisplayName()
	}
	schema.Name = name

	record := models.FormModel{Name: name, Content: schema, SessionID: sessionID}
	if err := s.store.CreateForm(ctx, &record); err != nil {
		return gateway.FormRef{}, fmt.Errorf("forms: create: %w", err)
	}
	s.log.Info("form published",
		zap.String("uuid", record.ID),
		zap.Int("fields", len(schema.Fields)),
	)
	return gateway.FormRef{ID: record.ID, URL: models.PublicURL(s.baseURL, record.ID)}, nil
}

func (s *Service) coerce(schema model.FormSchema) (model.FormSchema, error) {
	doc, err := schemafile.ToDocument(schema)
	if err != nil {
		return model.FormSchema{}, fmt.Errorf("forms: encode schema: %w", err)
	}
	result, err := schemafile.Coerce(doc, schemafile.CoerceOptions{Registry: s.registry})
	if err != nil {
		return model.FormSchema{}, fmt.Errorf("forms: %w", err)
	}
	for _, issue := range result.Issues {
		s.log.Warn("component dropped",
			zap.Int("index", issue.Index),
			zap.String("id", issue.ID),
			zap.String("reason", issue.Reason),
		)
	}
	return result.Schema, nil
}

// FetchForm returns a published form without its submissions.
func (s *Service) FetchForm(ctx context.Context, id string) (model.PublishedForm, error) {
	record, err := s.get(ctx, id)
	if err != nil {
		return model.PublishedForm{}, err
	}
	return record.ToPublished(s.baseURL), nil
}

func (s *Service) get(ctx context.Context, id string) (models.FormModel, error) {
	record, err := s.store.GetForm(ctx, strings.TrimSpace(id))
	if errors.Is(err, store.ErrNotFound) {
		return models.FormModel{}, gateway.ErrNotFound
	}
	if err != nil {
		return models.FormModel{}, fmt.Errorf("forms: fetch: %w", err)
	}
	return record, nil
}

// Submit validates values against the stored schema and records the
// payload. Validation failures come back as *gateway.RejectedError and
// nothing is stored.
func (s *Service) Submit(ctx context.Context, id string, values model.Values) (gateway.SubmitResult, error) {
	record, err := s.get(ctx, id)
	if err != nil {
		return gateway.SubmitResult{}, err
	}
	schema := record.Content

	errs, err := validation.Check(s.registry, schema, values, s.policy)
	if err != nil {
		return gateway.SubmitResult{}, fmt.Errorf("forms: validate: %w", err)
	}
	if s.strict {
		doc, err := s.contract(schema)
		if err != nil {
			return gateway.SubmitResult{}, err
		}
		errs = append(errs, doc.Check(values)...)
	}
	if errs.HasErrors() {
		return gateway.SubmitResult{}, &gateway.RejectedError{Message: "Validation failed", Fields: errs.ByField()}
	}

	submission := models.SubmissionModel{FormID: record.ID, Data: render.Payload(schema, values)}
	if err := s.store.CreateSubmission(ctx, &submission); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return gateway.SubmitResult{}, gateway.ErrNotFound
		}
		return gateway.SubmitResult{}, fmt.Errorf("forms: store submission: %w", err)
	}
	return gateway.SubmitResult{SubmissionID: submission.ID}, nil
}

// ListForms returns every form for a valid admin credential, otherwise the
// forms of scope.SessionID. An invalid credential falls back to the session.
func (s *Service) ListForms(ctx context.Context, scope gateway.Scope) ([]model.PublishedForm, error) {
	sessionID := strings.TrimSpace(scope.SessionID)
	if !s.admin.Verify(scope.AdminCredential) {
		if sessionID == "" {
			return nil, gateway.ErrSessionRequired
		}
	} else {
		sessionID = ""
	}

	records, err := s.store.ListForms(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("forms: list: %w", err)
	}
	out := make([]model.PublishedForm, 0, len(records))
	for _, record := range records {
		out = append(out, record.ToPublished(s.baseURL))
	}
	return out, nil
}

// DeleteForm removes a form and its submissions.
func (s *Service) DeleteForm(ctx context.Context, id, adminCredential string) error {
	if !s.admin.Verify(adminCredential) {
		return gateway.ErrUnauthorized
	}
	err := s.store.DeleteForm(ctx, strings.TrimSpace(id))
	if errors.Is(err, store.ErrNotFound) {
		return gateway.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("forms: delete: %w", err)
	}
	s.log.Info("form deleted", zap.String("uuid", id))
	return nil
}

// Contract builds the OpenAPI document of a form's submission payload.
func (s *Service) Contract(ctx context.Context, id string) (*contract.Contract, error) {
	record, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.contract(record.Content)
}

func (s *Service) contract(schema model.FormSchema) (*contract.Contract, error) {
	doc, err := contract.Build(schema,
		contract.WithPolicy(s.policy),
		contract.WithStrictBounds(s.strict),
	)
	if err != nil {
		return nil, fmt.Errorf("forms: contract: %w", err)
	}
	return doc, nil
}
