package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-formbuilder/internal/models"
)

// Memory is an in-process Store used by tests and the memory database driver.
type Memory struct {
	mu          sync.RWMutex
	now         func() time.Time
	forms       map[string]models.FormModel
	submissions map[string][]models.SubmissionModel
}

var _ Store = (*Memory)(nil)

// NewMemory returns an empty store.
func NewMemory() *Memory {
	return &Memory{
		now:         time.Now,
		forms:       make(map[string]models.FormModel),
		submissions: make(map[string][]models.SubmissionModel),
	}
}

// CreateForm stores form, assigning its id and timestamp.
func (m *Memory) CreateForm(ctx context.Context, form *models.FormModel) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if form.ID == "" {
		form.ID = uuid.NewString()
	}
	if form.CreatedAt.IsZero() {
		form.CreatedAt = m.now()
	}
	stored := *form
	stored.Content = form.Content.Clone()
	stored.Submissions = nil
	m.forms[form.ID] = stored
	return nil
}

// GetForm returns a form without its submissions.
func (m *Memory) GetForm(ctx context.Context, id string) (models.FormModel, error) {
	if err := ctx.Err(); err != nil {
		return models.FormModel{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	form, ok := m.forms[id]
	if !ok {
		return models.FormModel{}, ErrNotFound
	}
	form.Content = form.Content.Clone()
	return form, nil
}

// ListForms returns forms and submissions newest first.
func (m *Memory) ListForms(ctx context.Context, sessionID string) ([]models.FormModel, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.FormModel, 0, len(m.forms))
	for _, form := range m.forms {
		if sessionID != "" && form.SessionID != sessionID {
			continue
		}
		form.Content = form.Content.Clone()
		subs := append([]models.SubmissionModel(nil), m.submissions[form.ID]...)
		sort.SliceStable(subs, func(i, j int) bool { return subs[i].CreatedAt.After(subs[j].CreatedAt) })
		form.Submissions = subs
		out = append(out, form)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// DeleteForm removes a form and its submissions.
func (m *Memory) DeleteForm(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.forms[id]; !ok {
		return ErrNotFound
	}
	delete(m.forms, id)
	delete(m.submissions, id)
	return nil
}

// CreateSubmission stores a submission for an existing form.
func (m *Memory) CreateSubmission(ctx context.Context, submission *models.SubmissionModel) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.forms[submission.FormID]; !ok {
		return ErrNotFound
	}
	if submission.ID == "" {
		submission.ID = uuid.NewString()
	}
	if submission.CreatedAt.IsZero() {
		submission.CreatedAt = m.now()
	}
	stored := *submission
	stored.Data = submission.Data.Clone()
	m.submissions[submission.FormID] = append(m.submissions[submission.FormID], stored)
	return nil
}
