package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// DefaultTimeout bounds a single request when no client is supplied.
const DefaultTimeout = 15 * time.Second

const maxResponseSize = 4 << 20

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		if client != nil {
			c.http = client
		}
	}
}

// WithUserAgent sets the User-Agent header sent with each request.
func WithUserAgent(agent string) ClientOption {
	return func(c *Client) {
		c.userAgent = agent
	}
}

// Client is a Gateway backed by the HTTP API.
type Client struct {
	base      *url.URL
	http      *http.Client
	userAgent string
}

var _ Gateway = (*Client)(nil)

// NewClient returns a client for the server rooted at baseURL.
func NewClient(baseURL string, opts ...ClientOption) (*Client, error) {
	parsed, err := url.Parse(strings.TrimRight(strings.TrimSpace(baseURL), "/"))
	if err != nil {
		return nil, fmt.Errorf("gateway: invalid base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("gateway: unsupported base url scheme %q", parsed.Scheme)
	}
	c := &Client{base: parsed, userAgent: "go-formbuilder"}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: DefaultTimeout}
	}
	return c, nil
}

// CreateForm publishes a schema.
func (c *Client) CreateForm(ctx context.Context, req CreateRequest) (FormRef, error) {
	if strings.TrimSpace(req.SessionID) == "" {
		return FormRef{}, ErrSessionRequired
	}
	name := req.Name
	if name == "" {
		name = req.Schema.Name
	}
	payload := CreatePayload{Name: name, Fields: req.Schema.Fields, SessionID: req.SessionID}
	if payload.Fields == nil {
		payload.Fields = []model.Field{}
	}
	var out CreateResponse
	if err := c.do(ctx, "create form", http.MethodPost, "/api/forms", payload, nil, &out); err != nil {
		return FormRef{}, err
	}
	return FormRef{ID: out.ID, URL: out.URL}, nil
}

// FetchForm loads a published form.
func (c *Client) FetchForm(ctx context.Context, id string) (model.PublishedForm, error) {
	var out model.PublishedForm
	if err := c.do(ctx, "fetch form", http.MethodGet, formPath(id), nil, nil, &out); err != nil {
		return model.PublishedForm{}, err
	}
	return out, nil
}

// Submit records values for a published form. A 422 answer is returned as a
// *RejectedError.
func (c *Client) Submit(ctx context.Context, id string, values model.Values) (SubmitResult, error) {
	if values == nil {
		values = model.Values{}
	}
	var out SubmitResponse
	if err := c.do(ctx, "submit", http.MethodPost, formPath(id)+"/submit", values, nil, &out); err != nil {
		return SubmitResult{}, err
	}
	return SubmitResult{SubmissionID: out.SubmissionID}, nil
}

// ListForms lists forms with their submissions, newest first.
func (c *Client) ListForms(ctx context.Context, scope Scope) ([]model.PublishedForm, error) {
	header := http.Header{}
	switch {
	case scope.AdminCredential != "":
		header.Set(HeaderAuthorization, "Bearer "+scope.AdminCredential)
	case scope.SessionID != "":
		header.Set(HeaderSessionID, scope.SessionID)
	default:
		return nil, ErrSessionRequired
	}
	var out ListResponse
	if err := c.do(ctx, "list forms", http.MethodGet, "/api/forms", nil, header, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// DeleteForm removes a form and its submissions.
func (c *Client) DeleteForm(ctx context.Context, id, adminCredential string) error {
	if adminCredential == "" {
		return ErrUnauthorized
	}
	header := http.Header{}
	header.Set(HeaderAuthorization, "Bearer "+adminCredential)
	var out DeleteResponse
	return c.do(ctx, "delete form", http.MethodDelete, formPath(id), nil, header, &out)
}

// Contract fetches the OpenAPI document describing a form's submit payload.
func (c *Client) Contract(ctx context.Context, id string) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.do(ctx, "fetch contract", http.MethodGet, formPath(id)+"/contract", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func formPath(id string) string {
	return "/api/forms/" + url.PathEscape(id)
}

func (c *Client) do(ctx context.Context, op, method, path string, body any, header http.Header, out any) error {
	if ctx == nil {
		return errors.New("gateway: context is required")
	}
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("gateway: %s: encode body: %w", op, err)
		}
		reader = bytes.NewReader(data)
	}

	target := c.base.JoinPath(path)
	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	for key, values := range header {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return &TransportError{Op: op, Status: resp.StatusCode, Err: err}
	}

	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		if out == nil || len(bytes.TrimSpace(data)) == 0 {
			return nil
		}
		if err := json.Unmarshal(data, out); err != nil {
			return &TransportError{Op: op, Status: resp.StatusCode, Message: "decode response", Err: err}
		}
		return nil
	}
	return statusError(op, resp.StatusCode, data)
}

func statusError(op string, status int, data []byte) error {
	var envelope ErrorResponse
	_ = json.Unmarshal(data, &envelope)
	message := strings.TrimSpace(envelope.Message)
	if message == "" {
		message = http.StatusText(status)
	}

	switch status {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, op)
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrUnauthorized, op)
	case http.StatusUnprocessableEntity:
		return &RejectedError{Message: message, Fields: envelope.Errors}
	default:
		return &TransportError{Op: op, Status: status, Message: message}
	}
}
