// Package models holds the gorm records persisted by the publish gateway.
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// FormModel is a published form. Content stores the schema as JSON.
type FormModel struct {
	ID          string            `gorm:"type:char(36);primaryKey"`
	Name        string            `gorm:"size:255;not null"`
	Content     model.FormSchema  `gorm:"type:longtext;serializer:json"`
	SessionID   string            `gorm:"size:16;index"`
	CreatedAt   time.Time         `gorm:"index"`
	Submissions []SubmissionModel `gorm:"foreignKey:FormID;constraint:OnDelete:CASCADE"`
}

func (FormModel) TableName() string { return "forms" }

func (f *FormModel) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}

// ToPublished converts the record for API responses. baseURL prefixes the
// public form link.
func (f FormModel) ToPublished(baseURL string) model.PublishedForm {
	out := model.PublishedForm{
		ID:        f.ID,
		Name:      f.Name,
		Schema:    f.Content,
		URL:       PublicURL(baseURL, f.ID),
		SessionID: f.SessionID,
		CreatedAt: f.CreatedAt,
	}
	for _, s := range f.Submissions {
		out.Submissions = append(out.Submissions, s.ToSubmission())
	}
	return out
}

// SubmissionModel is one stored submission.
type SubmissionModel struct {
	ID        string       `gorm:"type:char(36);primaryKey"`
	FormID    string       `gorm:"type:char(36);index;not null"`
	Data      model.Values `gorm:"type:longtext;serializer:json"`
	CreatedAt time.Time    `gorm:"index"`
}

func (SubmissionModel) TableName() string { return "submissions" }

func (s *SubmissionModel) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// ToSubmission converts the record for API responses.
func (s SubmissionModel) ToSubmission() model.Submission {
	return model.Submission{ID: s.ID, FormID: s.FormID, Values: s.Data, CreatedAt: s.CreatedAt}
}

// PublicURL is the link a published form is shared under.
func PublicURL(baseURL, id string) string {
	return baseURL + "/f/" + id
}
