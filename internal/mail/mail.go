// Package mail sends operational notification emails through Resend. The
// only sender today is the lead-intake notice to the admin inbox; delivery
// is best effort and never blocks or fails the originating request.
package mail

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog/log"

	"github.com/bodegaresearch/go-review-backend/internal/domain"
)

// Notifier delivers lead notifications. Implementations must be safe for
// concurrent use.
type Notifier interface {
	// NotifyLead sends the new-lead email. Returning an error is
	// informational; callers log it and move on.
	NotifyLead(ctx context.Context, lead *domain.Lead) error
}

// ResendNotifier implements Notifier on the Resend API.
type ResendNotifier struct {
	client *resend.Client
	from   string
	to     string
}

// NewResendNotifier builds a notifier, or nil when the API key or the admin
// recipient is absent. A nil Notifier disables email without any further
// configuration; the intake flow treats it as "nothing to send".
func NewResendNotifier(apiKey, from, to string) *ResendNotifier {
	if apiKey == "" || to == "" {
		return nil
	}
	if from == "" {
		from = "Bodega Research <onboarding@resend.dev>"
	}
	return &ResendNotifier{client: resend.NewClient(apiKey), from: from, to: to}
}

// NotifyLead sends the new-lead email synchronously. Use Dispatch for the
// fire-and-forget path.
func (n *ResendNotifier) NotifyLead(ctx context.Context, lead *domain.Lead) error {
	params := &resend.SendEmailRequest{
		From:    n.from,
		To:      []string{n.to},
		Subject: fmt.Sprintf("New Review Request: %s", lead.Name),
		Html:    leadHTML(lead),
	}
	_, err := n.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return fmt.Errorf("resend: %w", err)
	}
	return nil
}

// Dispatch sends the lead notification on a background goroutine and returns
// a channel that closes when the attempt finishes. The channel exists so
// tests and shutdown paths can wait; production callers ignore it. A nil
// Notifier yields an already-closed channel.
func Dispatch(ctx context.Context, n Notifier, lead *domain.Lead) <-chan struct{} {
	done := make(chan struct{})
	if n == nil || (isNilPtr(n)) {
		close(done)
		return done
	}
	go func() {
		defer close(done)
		if err := n.NotifyLead(ctx, lead); err != nil {
			log.Ctx(ctx).Error().Err(err).
				Str("lead_id", lead.ID).
				Msg("lead notification failed")
			return
		}
		log.Ctx(ctx).Info().Str("lead_id", lead.ID).Msg("lead notification sent")
	}()
	return done
}

// isNilPtr guards against a typed-nil *ResendNotifier stored in the
// interface.
func isNilPtr(n Notifier) bool {
	p, ok := n.(*ResendNotifier)
	return ok && p == nil
}

// leadHTML renders the notification body. Values are user supplied and are
// escaped before interpolation.
func leadHTML(lead *domain.Lead) string {
	var b strings.Builder
	b.WriteString("<h2>New Review Request</h2>")
	row := func(label, value string) {
		if value == "" {
			return
		}
		fmt.Fprintf(&b, "<p><strong>%s:</strong> %s</p>", label, html.EscapeString(value))
	}
	deref := func(p *string) string {
		if p == nil {
			return ""
		}
		return *p
	}
	row("Name", lead.Name)
	row("Project", deref(lead.ProjectLink))
	row("Email", lead.Email)
	row("Telegram", deref(lead.TelegramUsername))
	contact := lead.PreferredContact.Label()
	if lead.PreferredContact == domain.ContactOther && deref(lead.PreferredContactOther) != "" {
		contact = *lead.PreferredContactOther
	}
	row("Preferred Contact", contact)
	row("Message", deref(lead.Message))
	return b.String()
}
