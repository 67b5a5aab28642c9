// Package store persists published forms and their submissions.
package store

import (
	"context"
	"errors"

	"github.com/goliatone/go-formbuilder/internal/models"
)

// ErrNotFound reports an unknown form id.
var ErrNotFound = errors.New("store: form not found")

// Store is the persistence boundary of the forms service. List methods
// return forms and submissions newest first.
type Store interface {
	CreateForm(ctx context.Context, form *models.FormModel) error
	GetForm(ctx context.Context, id string) (models.FormModel, error)
	// ListForms returns every form when sessionID is empty, otherwise the
	// forms created by that session. Submissions are included.
	ListForms(ctx context.Context, sessionID string) ([]models.FormModel, error)
	// DeleteForm removes the form and its submissions.
	DeleteForm(ctx context.Context, id string) error
	CreateSubmission(ctx context.Context, submission *models.SubmissionModel) error
}
