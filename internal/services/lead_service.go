// Package services – LeadService
//
// This file implements the LeadService, which handles public lead intake:
// validating the submission, persisting the lead, and dispatching the admin
// notification email on a background goroutine. Notification delivery is
// decoupled from persistence: a created lead is reported as accepted even
// when the email cannot be sent.
package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"gorm.io/gorm"

	"github.com/bodegaresearch/go-review-backend/internal/domain"
	"github.com/bodegaresearch/go-review-backend/internal/mail"
	"github.com/bodegaresearch/go-review-backend/internal/repo"
)

// emailRE is a pragmatic format check, not a full RFC 5322 parser.
var emailRE = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// LeadInput is the validated shape of a lead submission.
type LeadInput struct {
	Name                  string
	ProjectLink           string
	Email                 string
	TelegramUsername      string
	PreferredContact      string
	PreferredContactOther string
	Message               string
}

// LeadService provides public lead intake.
type LeadService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Notifier sends the admin email; nil disables notifications.
	Notifier mail.Notifier
}

// NewLeadService constructs a LeadService.
func NewLeadService(db *gorm.DB, n mail.Notifier) *LeadService {
	return &LeadService{DB: db, Notifier: n}
}

// Submit validates and persists a lead, then dispatches the admin
// notification in the background. The returned channel closes when the
// notification attempt completes; callers that do not care may ignore it.
//
// Validation failures wrap ErrInvalidLead with a human-readable reason.
func (s *LeadService) Submit(ctx context.Context, in LeadInput) (*domain.Lead, <-chan struct{}, error) {
	lead, err := buildLead(in)
	if err != nil {
		return nil, nil, err
	}

	created, err := repo.CreateLead(ctx, s.DB, lead)
	if err != nil {
		return nil, nil, err
	}

	// Detach the notification from the request lifetime; the email should
	// not be cancelled when the HTTP request completes.
	done := mail.Dispatch(context.WithoutCancel(ctx), s.Notifier, created)
	return created, done, nil
}

// buildLead normalizes and validates the input, returning a persistable Lead.
func buildLead(in LeadInput) (*domain.Lead, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidLead)
	}
	email := strings.TrimSpace(in.Email)
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrInvalidLead)
	}
	if !emailRE.MatchString(email) {
		return nil, fmt.Errorf("%w: email is malformed", ErrInvalidLead)
	}

	contact := domain.ContactMethod(strings.TrimSpace(in.PreferredContact))
	if contact == "" {
		contact = domain.ContactEmail
	}
	if !contact.Valid() {
		return nil, fmt.Errorf("%w: unknown contact method %q", ErrInvalidLead, in.PreferredContact)
	}
	other := strings.TrimSpace(in.PreferredContactOther)
	if contact == domain.ContactOther && other == "" {
		return nil, fmt.Errorf("%w: contact detail required for method other", ErrInvalidLead)
	}
	if contact != domain.ContactOther {
		other = ""
	}

	lead := &domain.Lead{
		Name:             name,
		Email:            email,
		PreferredContact: contact,
	}
	setOpt := func(dst **string, v string) {
		if v = strings.TrimSpace(v); v != "" {
			*dst = &v
		}
	}
	setOpt(&lead.ProjectLink, in.ProjectLink)
	setOpt(&lead.TelegramUsername, in.TelegramUsername)
	setOpt(&lead.PreferredContactOther, other)
	setOpt(&lead.Message, in.Message)
	return lead, nil
}
