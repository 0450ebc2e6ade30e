// Package email provides the email sending client.
//
// Templates are rendered in-process from internal/emails and delivered by
// one of the providers below, selected by mail.provider:
//
//   - resend: Resend HTTP API (resend-go)
//   - smtp:   any SMTP relay (gomail)
//   - log:    written to the logger, nothing leaves the process
//
// Each send is a single attempt. There is no queue and no retry.
package email

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/deppfellow/go-mailer/internal/config"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// ErrUnknownProvider is returned for a mail.provider value with no sender.
var ErrUnknownProvider = errors.New("unknown mail provider")

// Client renders templates and passes the result to a Sender.
type Client struct {
	sender            Sender
	provider          string
	slowSendThreshold time.Duration
	logger            *zerolog.Logger
}

// NewSender builds the Sender configured by cfg.Mail.Provider.
func NewSender(cfg *config.Config, logger *zerolog.Logger) (Sender, error) {
	from := fmt.Sprintf("%s <%s>", cfg.Mail.FromName, cfg.Mail.FromAddress)

	switch cfg.Mail.Provider {
	case config.MailProviderResend:
		return NewResendSender(cfg.Integration.ResendAPIKey, from), nil
	case config.MailProviderSMTP:
		return NewSMTPSender(cfg.Mail), nil
	case config.MailProviderLog:
		return NewLogSender(from, logger), nil
	default:
		return nil, errors.Wrapf(ErrUnknownProvider, "provider %q", cfg.Mail.Provider)
	}
}

// NewClient creates an email Client using the provider from config.
func NewClient(cfg *config.Config, logger *zerolog.Logger) (*Client, error) {
	sender, err := NewSender(cfg, logger)
	if err != nil {
		return nil, err
	}

	return NewClientWithSender(cfg, sender, logger), nil
}

// NewClientWithSender creates a Client around an existing Sender.
func NewClientWithSender(cfg *config.Config, sender Sender, logger *zerolog.Logger) *Client {
	var threshold time.Duration
	if cfg.Observability != nil {
		threshold = cfg.Observability.Logging.SlowSendThreshold
	}

	return &Client{
		sender:            sender,
		provider:          cfg.Mail.Provider,
		slowSendThreshold: threshold,
		logger:            logger,
	}
}

// Provider returns the configured provider name.
func (c *Client) Provider() string {
	return c.provider
}

// SendEmail renders templateName with data and sends it to a single recipient.
//
// An empty subject falls back to the template's default subject.
// Render failures are returned wrapped; provider failures are returned as
// *DeliveryError.
func (c *Client) SendEmail(ctx context.Context, to, subject string, templateName Template, data map[string]string) error {
	html, text, err := Render(templateName, data)
	if err != nil {
		return errors.Wrapf(err, "failed to render email template %s", templateName)
	}

	if subject == "" {
		subject = templateName.DefaultSubject()
	}

	start := time.Now()
	err = c.sender.Send(ctx, Message{
		To:      to,
		Subject: subject,
		HTML:    html,
		Text:    text,
	})
	duration := time.Since(start)

	if err != nil {
		c.logger.Error().
			Err(err).
			Str("provider", c.provider).
			Str("template", string(templateName)).
			Str("to_domain", recipientDomain(to)).
			Dur("duration", duration).
			Msg("failed to send email")

		return &DeliveryError{Provider: c.provider, Err: err}
	}

	event := c.logger.Info()
	if c.slowSendThreshold > 0 && duration > c.slowSendThreshold {
		event = c.logger.Warn().Bool("slow", true)
	}

	event.
		Str("provider", c.provider).
		Str("template", string(templateName)).
		Str("to_domain", recipientDomain(to)).
		Dur("duration", duration).
		Msg("email sent")

	return nil
}

// recipientDomain keeps only the domain of an address for logging.
func recipientDomain(to string) string {
	if i := strings.LastIndexByte(to, '@'); i >= 0 {
		return to[i+1:]
	}
	return ""
}

// SendLinkEmail sends the button email pointing at url.
func (c *Client) SendLinkEmail(ctx context.Context, to, subject, url string) error {
	return c.SendEmail(ctx, to, subject, TemplateButton, map[string]string{
		"url": url,
	})
}

// Check verifies the provider transport when the sender supports it.
// Providers without a cheap check are reported healthy.
func (c *Client) Check(ctx context.Context) error {
	checker, ok := c.sender.(Checker)
	if !ok {
		return nil
	}
	return checker.Check(ctx)
}
