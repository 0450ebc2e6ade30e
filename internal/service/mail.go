package service

import (
	"context"

	"github.com/deppfellow/go-mailer/internal/lib/email"
	"github.com/deppfellow/go-mailer/internal/server"
)

// MailService is the entry point of the mail feature. It decides which
// template an operation uses and delegates rendering and delivery to the
// email client.
type MailService struct {
	server *server.Server
}

func NewMailService(s *server.Server) *MailService {
	return &MailService{server: s}
}

// SendLink emails a single call-to-action button pointing at url.
//
// url is forwarded untouched; an empty subject uses the template default.
func (m *MailService) SendLink(ctx context.Context, to, subject, url string) error {
	return m.server.Email.SendLinkEmail(ctx, to, subject, url)
}

// Preview renders the button email. A nil data map uses the preview sample.
func (m *MailService) Preview(data map[string]string) (string, error) {
	return email.Preview(email.TemplateButton, data)
}

// CheckProvider verifies the mail transport is reachable.
func (m *MailService) CheckProvider(ctx context.Context) error {
	return m.server.Email.Check(ctx)
}
