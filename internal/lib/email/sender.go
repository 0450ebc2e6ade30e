package email

import (
	"context"
	"fmt"
)

// Message is a fully rendered email ready for a provider.
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string // plain text alternative
}

// Sender is implemented by every mail provider.
//
// A Sender makes exactly one delivery attempt per call. Retrying, if
// anybody wants it, is the caller's business.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Checker is implemented by senders that can verify their transport is
// reachable without sending anything (used by the health endpoint).
type Checker interface {
	Check(ctx context.Context) error
}

// DeliveryError reports that the provider did not accept a message.
//
// The global error handler maps it to 502 Bad Gateway.
type DeliveryError struct {
	Provider string
	Err      error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("email delivery via %s failed: %v", e.Provider, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}
