package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/goliatone/go-formbuilder/internal/models"
)

// Gorm is a Store backed by a gorm database.
type Gorm struct {
	db *gorm.DB
}

var _ Store = (*Gorm)(nil)

// NewGorm wraps db.
func NewGorm(db *gorm.DB) *Gorm {
	return &Gorm{db: db}
}

func newestSubmissions(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC")
}

// CreateForm inserts form, assigning its id.
func (s *Gorm) CreateForm(ctx context.Context, form *models.FormModel) error {
	if err := s.db.WithContext(ctx).Omit("Submissions").Create(form).Error; err != nil {
		return fmt.Errorf("store: create form: %w", err)
	}
	return nil
}

// GetForm loads a form without its submissions.
func (s *Gorm) GetForm(ctx context.Context, id string) (models.FormModel, error) {
	var form models.FormModel
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&form).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.FormModel{}, ErrNotFound
	}
	if err != nil {
		return models.FormModel{}, fmt.Errorf("store: get form: %w", err)
	}
	return form, nil
}

// ListForms loads forms with submissions, newest first.
func (s *Gorm) ListForms(ctx context.Context, sessionID string) ([]models.FormModel, error) {
	query := s.db.WithContext(ctx).Preload("Submissions", newestSubmissions).Order("created_at DESC")
	if sessionID != "" {
		query = query.Where("session_id = ?", sessionID)
	}
	var forms []models.FormModel
	if err := query.Find(&forms).Error; err != nil {
		return nil, fmt.Errorf("store: list forms: %w", err)
	}
	return forms, nil
}

// DeleteForm removes the submissions and the form in one transaction.
func (s *Gorm) DeleteForm(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("form_id = ?", id).Delete(&models.SubmissionModel{}).Error; err != nil {
			return fmt.Errorf("store: delete submissions: %w", err)
		}
		res := tx.Where("id = ?", id).Delete(&models.FormModel{})
		if res.Error != nil {
			return fmt.Errorf("store: delete form: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// CreateSubmission inserts a submission, assigning its id.
func (s *Gorm) CreateSubmission(ctx context.Context, submission *models.SubmissionModel) error {
	if err := s.db.WithContext(ctx).Create(submission).Error; err != nil {
		return fmt.Errorf("store: create submission: %w", err)
	}
	return nil
}
