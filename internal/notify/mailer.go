// Package notify delivers transactional email off the request path.
// Every send runs on a detached background task and logs its own
// failures; nothing here can fail or block an HTTP response.
package notify

import (
	"context"
	"log/slog"

	"github.com/resend/resend-go/v2"
)

type Email struct {
	From    string
	To      string
	ReplyTo string
	Subject string
	HTML    string
}

// Mailer sends one email and returns the provider's delivery id.
type Mailer interface {
	Send(ctx context.Context, e Email) (string, error)
}

// ResendMailer delivers through the Resend API.
type ResendMailer struct {
	client *resend.Client
}

func NewResendMailer(apiKey string) *ResendMailer {
	return &ResendMailer{client: resend.NewClient(apiKey)}
}

func (m *ResendMailer) Send(ctx context.Context, e Email) (string, error) {
	sent, err := m.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    e.From,
		To:      []string{e.To},
		ReplyTo: e.ReplyTo,
		Subject: e.Subject,
		Html:    e.HTML,
	})
	if err != nil {
		return "", err
	}
	return sent.Id, nil
}

// LogMailer is the development fallback when no API key is configured.
type LogMailer struct{}

func (LogMailer) Send(_ context.Context, e Email) (string, error) {
	slog.Info("email (log only)", "to", e.To, "subject", e.Subject)
	return "log-only", nil
}
