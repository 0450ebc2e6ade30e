package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"time"

	"github.com/deppfellow/go-mailer/internal/config"
	"gopkg.in/gomail.v2"
)

// DefaultSMTPTimeout bounds a whole SMTP exchange when neither the config
// nor the caller's context sets a shorter limit.
const DefaultSMTPTimeout = 10 * time.Second

// SMTPSender delivers mail through an SMTP relay. gomail composes the MIME
// message; the conversation runs on a connection whose deadline is the
// earlier of ctx's deadline and the configured timeout, and which is closed
// as soon as ctx is cancelled.
type SMTPSender struct {
	host        string
	port        int
	user        string
	password    string
	tlsConfig   *tls.Config
	timeout     time.Duration
	fromAddress string
	fromName    string
}

// NewSMTPSender creates an SMTP sender from the mail config.
//
// STARTTLS is negotiated when the server offers it; port 465 uses
// implicit TLS.
func NewSMTPSender(cfg config.MailConfig) *SMTPSender {
	timeout := cfg.SMTPTimeout
	if timeout <= 0 {
		timeout = DefaultSMTPTimeout
	}

	return &SMTPSender{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		tlsConfig: &tls.Config{
			ServerName:         cfg.SMTPHost,
			InsecureSkipVerify: cfg.SMTPInsecureSkipVerify,
		},
		timeout:     timeout,
		fromAddress: cfg.FromAddress,
		fromName:    cfg.FromName,
	}
}

func (s *SMTPSender) addr() string {
	return net.JoinHostPort(s.host, strconv.Itoa(s.port))
}

// session is one open SMTP conversation.
type session struct {
	client *smtp.Client
	stop   func() bool
}

func (ss *session) close() {
	ss.stop()
	_ = ss.client.Close()
}

// dial connects, greets and authenticates. Every read and write after the
// dial is bounded by the connection deadline.
func (s *SMTPSender) dial(ctx context.Context) (*session, error) {
	deadline := time.Now().Add(s.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	dialer := net.Dialer{Deadline: deadline}
	raw, err := dialer.DialContext(ctx, "tcp", s.addr())
	if err != nil {
		return nil, err
	}

	if err := raw.SetDeadline(deadline); err != nil {
		_ = raw.Close()
		return nil, err
	}

	// Unblocks any pending read or write the moment ctx ends.
	stop := context.AfterFunc(ctx, func() { _ = raw.Close() })

	conn := raw
	if s.port == 465 {
		conn = tls.Client(raw, s.tlsConfig)
	}

	client, err := smtp.NewClient(conn, s.host)
	if err != nil {
		stop()
		_ = conn.Close()
		return nil, ctxErr(ctx, err)
	}

	ss := &session{client: client, stop: stop}

	if err := s.handshake(client); err != nil {
		ss.close()
		return nil, ctxErr(ctx, err)
	}

	return ss, nil
}

func (s *SMTPSender) handshake(client *smtp.Client) error {
	if err := client.Hello("localhost"); err != nil {
		return err
	}

	if s.port != 465 {
		if ok, _ := client.Extension("STARTTLS"); ok {
			if err := client.StartTLS(s.tlsConfig); err != nil {
				return err
			}
		}
	}

	if s.user != "" {
		if ok, _ := client.Extension("AUTH"); ok {
			if err := client.Auth(smtp.PlainAuth("", s.user, s.password, s.host)); err != nil {
				return err
			}
		}
	}

	return nil
}

// ctxErr prefers the context error over the I/O error it caused.
func ctxErr(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

// Send delivers msg as multipart/alternative: text/plain first, text/html
// as the preferred alternative.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.fromAddress, s.fromName)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Text)
	m.AddAlternative("text/html", msg.HTML)

	ss, err := s.dial(ctx)
	if err != nil {
		return fmt.Errorf("smtp %s: %w", s.addr(), err)
	}
	defer ss.close()

	if err := s.deliver(ss.client, msg.To, m); err != nil {
		return fmt.Errorf("smtp %s: %w", s.addr(), ctxErr(ctx, err))
	}

	return nil
}

func (s *SMTPSender) deliver(client *smtp.Client, to string, m *gomail.Message) error {
	if err := client.Mail(s.fromAddress); err != nil {
		return err
	}
	if err := client.Rcpt(to); err != nil {
		return err
	}

	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := m.WriteTo(w); err != nil {
		_ = w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	return client.Quit()
}

// Check connects, greets and authenticates against the relay, then hangs up.
func (s *SMTPSender) Check(ctx context.Context) error {
	ss, err := s.dial(ctx)
	if err != nil {
		return fmt.Errorf("smtp %s: %w", s.addr(), err)
	}
	defer ss.close()

	if err := ss.client.Quit(); err != nil {
		return fmt.Errorf("smtp %s: %w", s.addr(), ctxErr(ctx, err))
	}

	return nil
}
