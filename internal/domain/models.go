// Package domain defines the persistence models for reviews and leads.
// These types are mapped with GORM and form the core data layer of the
// due-diligence backend.
package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Review is the central persisted entity: one due-diligence review of a
// Web3 project, created in a single step with the AI analysis already
// attached. PDF artifact URLs are added by a later, independent call.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - ProjectName: non-empty display name of the reviewed project.
//   - BrandImageURL: optional public URL of the uploaded brand image.
//   - RawNotes: the analyst's four aisle texts plus optional extras (JSON).
//   - AIData: the validated AI analysis payload; nil until generated (JSON).
//   - InfographicURL / ReportURL: artifact URLs; nil until rendered.
//   - RatingScore: overall score duplicated at the top level for
//     sorting/filtering. Must equal AIData.PublicReceipt.Scores.Overall
//     whenever AIData is set.
//   - CreatedAt / UpdatedAt: timestamps managed by GORM.
//
// Deleting a review removes the row permanently; its storage objects are
// destroyed first, so no surviving row may reference a destroyed object.
type Review struct {
	ID             string                          `json:"id"              gorm:"type:char(36);primaryKey"`
	ProjectName    string                          `json:"project_name"    gorm:"type:varchar(255);not null;index"`
	BrandImageURL  *string                         `json:"brand_image_url" gorm:"type:text"`
	RawNotes       datatypes.JSONType[RawNotes]    `json:"raw_notes"       gorm:"not null"`
	AIData         *datatypes.JSONType[AIAnalysis] `json:"ai_data"`
	InfographicURL *string                         `json:"infographic_url" gorm:"type:text"`
	ReportURL      *string                         `json:"report_url"      gorm:"type:text"`
	RatingScore    *float64                        `json:"rating_score"    gorm:"index"`
	CreatedAt      time.Time                       `json:"created_at"`
	UpdatedAt      time.Time                       `json:"updated_at"`
}

// TableName returns the database table name for Review.
func (Review) TableName() string { return "reviews" }

// Analysis returns the decoded AI payload, or nil when none is attached.
func (r *Review) Analysis() *AIAnalysis {
	if r.AIData == nil {
		return nil
	}
	a := r.AIData.Data()
	return &a
}

// Notes returns the decoded raw analyst notes.
func (r *Review) Notes() RawNotes { return r.RawNotes.Data() }

// Lead is a public inquiry submitted through the lead-intake form.
// Leads are created once and never mutated; the admin notification
// side-effect is fire-and-forget and independent of persistence.
type Lead struct {
	ID                    string        `json:"id"                      gorm:"type:char(36);primaryKey"`
	Name                  string        `json:"name"                    gorm:"type:varchar(255);not null"`
	ProjectLink           *string       `json:"project_link"            gorm:"type:text"`
	Email                 string        `json:"email"                   gorm:"type:varchar(255);not null;index"`
	TelegramUsername      *string       `json:"telegram_username"       gorm:"type:varchar(255)"`
	PreferredContact      ContactMethod `json:"preferred_contact"       gorm:"type:varchar(16);not null;default:'email'"`
	PreferredContactOther *string       `json:"preferred_contact_other" gorm:"type:varchar(255)"`
	Message               *string       `json:"message"                 gorm:"type:text"`
	CreatedAt             time.Time     `json:"created_at"`
}

// TableName returns the database table name for Lead.
func (Lead) TableName() string { return "leads" }
