package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// Gateway publishes schemas and records submissions. Implementations never
// retry or deduplicate: every CreateForm call creates a new record and
// callers keep their local state when a call fails.
type Gateway interface {
	CreateForm(ctx context.Context, req CreateRequest) (FormRef, error)
	FetchForm(ctx context.Context, id string) (model.PublishedForm, error)
	Submit(ctx context.Context, id string, values model.Values) (SubmitResult, error)
	ListForms(ctx context.Context, scope Scope) ([]model.PublishedForm, error)
	DeleteForm(ctx context.Context, id, adminCredential string) error
}

// CreateRequest is the input of CreateForm.
type CreateRequest struct {
	Name      string
	Schema    model.FormSchema
	SessionID string
}

// FormRef identifies a published form.
type FormRef struct {
	ID  string `json:"uuid"`
	URL string `json:"url"`
}

// SubmitResult identifies a stored submission.
type SubmitResult struct {
	SubmissionID string `json:"submissionId"`
}

// Scope selects which forms ListForms returns: every form for a valid admin
// credential, otherwise the forms created by SessionID.
type Scope struct {
	SessionID       string
	AdminCredential string
}

var (
	// ErrNotFound reports an unknown form id.
	ErrNotFound = errors.New("gateway: form not found")
	// ErrUnauthorized reports a missing or invalid admin credential.
	ErrUnauthorized = errors.New("gateway: unauthorized")
	// ErrSessionRequired reports a create or list call without a session.
	ErrSessionRequired = errors.New("gateway: session id is required")
)

// TransportError describes a failed exchange with a remote gateway: the
// request could not be sent, or the server answered with a status the
// client does not map to a sentinel.
type TransportError struct {
	Op      string
	Status  int
	Message string
	Err     error
}

func (e *TransportError) Error() string {
	var b strings.Builder
	b.WriteString("gateway: ")
	b.WriteString(e.Op)
	if e.Status > 0 {
		fmt.Fprintf(&b, ": status %d", e.Status)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Temporary reports whether the failure is worth retrying by hand: network
// errors and 5xx/429 responses.
func (e *TransportError) Temporary() bool {
	return e.Status == 0 || e.Status == http.StatusTooManyRequests || e.Status >= 500
}

// RejectedError is returned by Submit when the gateway refuses the values.
// Fields holds messages keyed by field id.
type RejectedError struct {
	Message string
	Fields  map[string][]string
}

func (e *RejectedError) Error() string {
	if len(e.Fields) == 0 {
		return "gateway: submission rejected: " + e.Message
	}
	ids := make([]string, 0, len(e.Fields))
	for id := range e.Fields {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return fmt.Sprintf("gateway: submission rejected: %s (%s)", e.Message, strings.Join(ids, ", "))
}
