package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bodegaresearch/go-review-backend/internal/domain"
)

type stubNotifier struct {
	calls int32
	err   error
	last  *domain.Lead
}

func (n *stubNotifier) NotifyLead(_ context.Context, lead *domain.Lead) error {
	atomic.AddInt32(&n.calls, 1)
	n.last = lead
	return n.err
}

func waitDone(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("notification dispatch did not finish")
	}
}

func validLeadInput() LeadInput {
	return LeadInput{
		Name:             "Ada",
		Email:            "ada@example.com",
		ProjectLink:      "https://chainworks.xyz",
		PreferredContact: "telegram",
		TelegramUsername: "@ada",
		Message:          "please review us",
	}
}

func TestSubmit_PersistsAndNotifies(t *testing.T) {
	n := &stubNotifier{}
	s := NewLeadService(testDB(t), n)

	lead, done, err := s.Submit(context.Background(), validLeadInput())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if lead.ID == "" || lead.CreatedAt.IsZero() {
		t.Fatalf("lead not persisted: %+v", lead)
	}
	if lead.PreferredContact != domain.ContactTelegram {
		t.Fatalf("contact = %q", lead.PreferredContact)
	}
	if lead.ProjectLink == nil || *lead.ProjectLink != "https://chainworks.xyz" {
		t.Fatalf("project link = %v", lead.ProjectLink)
	}

	waitDone(t, done)
	if got := atomic.LoadInt32(&n.calls); got != 1 {
		t.Fatalf("notifier calls = %d; want 1", got)
	}
	if n.last == nil || n.last.ID != lead.ID {
		t.Fatalf("notifier received wrong lead: %+v", n.last)
	}
}

func TestSubmit_ValidationFailures(t *testing.T) {
	n := &stubNotifier{}
	s := NewLeadService(testDB(t), n)

	cases := []struct {
		name   string
		mutate func(*LeadInput)
	}{
		{"missing name", func(in *LeadInput) { in.Name = "  " }},
		{"missing email", func(in *LeadInput) { in.Email = "" }},
		{"malformed email", func(in *LeadInput) { in.Email = "not-an-email" }},
		{"email without tld", func(in *LeadInput) { in.Email = "a@b" }},
		{"unknown contact method", func(in *LeadInput) { in.PreferredContact = "carrier-pigeon" }},
		{"other without detail", func(in *LeadInput) {
			in.PreferredContact = "other"
			in.PreferredContactOther = "  "
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validLeadInput()
			tc.mutate(&in)
			if _, _, err := s.Submit(context.Background(), in); !errors.Is(err, ErrInvalidLead) {
				t.Fatalf("err = %v; want ErrInvalidLead", err)
			}
		})
	}
	if got := atomic.LoadInt32(&n.calls); got != 0 {
		t.Fatalf("notifier called %d times on invalid input; want 0", got)
	}
}

func TestSubmit_ContactDefaultsAndOtherHandling(t *testing.T) {
	s := NewLeadService(testDB(t), nil)

	// Blank contact defaults to email.
	in := validLeadInput()
	in.PreferredContact = ""
	lead, done, err := s.Submit(context.Background(), in)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	waitDone(t, done)
	if lead.PreferredContact != domain.ContactEmail {
		t.Fatalf("default contact = %q; want email", lead.PreferredContact)
	}

	// "other" keeps the companion detail.
	in = validLeadInput()
	in.PreferredContact = "other"
	in.PreferredContactOther = "Discord: ada#1234"
	lead, done, err = s.Submit(context.Background(), in)
	if err != nil {
		t.Fatalf("Submit other: %v", err)
	}
	waitDone(t, done)
	if lead.PreferredContactOther == nil || *lead.PreferredContactOther != "Discord: ada#1234" {
		t.Fatalf("other detail = %v", lead.PreferredContactOther)
	}

	// A companion detail on a non-other method is dropped.
	in = validLeadInput()
	in.PreferredContact = "email"
	in.PreferredContactOther = "Discord: ada#1234"
	lead, done, err = s.Submit(context.Background(), in)
	if err != nil {
		t.Fatalf("Submit email: %v", err)
	}
	waitDone(t, done)
	if lead.PreferredContactOther != nil {
		t.Fatalf("stale other detail kept: %q", *lead.PreferredContactOther)
	}
}

func TestSubmit_NotifierFailureDoesNotFailCreation(t *testing.T) {
	n := &stubNotifier{err: errors.New("resend down")}
	s := NewLeadService(testDB(t), n)

	lead, done, err := s.Submit(context.Background(), validLeadInput())
	if err != nil {
		t.Fatalf("Submit should succeed despite notifier failure: %v", err)
	}
	waitDone(t, done)
	if lead.ID == "" {
		t.Fatalf("lead not persisted")
	}
}

func TestSubmit_NilNotifier(t *testing.T) {
	s := NewLeadService(testDB(t), nil)
	_, done, err := s.Submit(context.Background(), validLeadInput())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	// Closed immediately when notifications are disabled.
	waitDone(t, done)
}
