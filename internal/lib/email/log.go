package email

import (
	"context"

	"github.com/rs/zerolog"
)

// LogSender writes emails to the logger instead of sending them.
// Useful for local development and tests.
type LogSender struct {
	from   string
	logger *zerolog.Logger
}

// NewLogSender creates a log-based sender.
func NewLogSender(from string, logger *zerolog.Logger) *LogSender {
	return &LogSender{
		from:   from,
		logger: logger,
	}
}

// Send logs the email. The plain text part is logged instead of the HTML
// to keep log lines readable.
func (s *LogSender) Send(ctx context.Context, msg Message) error {
	s.logger.Info().
		Str("from", s.from).
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Str("text", msg.Text).
		Int("html_bytes", len(msg.HTML)).
		Msg("EMAIL (dev mode - not actually sent)")

	return nil
}
