package email

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/deppfellow/go-mailer/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startSilentServer accepts TCP connections and never writes to them, like
// a relay that hangs before its greeting.
func startSilentServer(t *testing.T) int {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	var mu sync.Mutex
	var conns []net.Conn

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			mu.Lock()
			conns = append(conns, conn)
			mu.Unlock()
		}
	}()

	t.Cleanup(func() {
		_ = ln.Close()
		mu.Lock()
		defer mu.Unlock()
		for _, c := range conns {
			_ = c.Close()
		}
	})

	return ln.Addr().(*net.TCPAddr).Port
}

// fakeRelay is a minimal SMTP server that accepts every command and keeps
// the envelope and DATA of the last message.
type fakeRelay struct {
	mu   sync.Mutex
	from string
	rcpt string
	data string
}

func (r *fakeRelay) snapshot() (from, rcpt, data string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.from, r.rcpt, r.data
}

func startFakeRelay(t *testing.T) (int, *fakeRelay) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	relay := &fakeRelay{}

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go relay.serve(conn)
		}
	}()

	return ln.Addr().(*net.TCPAddr).Port, relay
}

func (r *fakeRelay) serve(conn net.Conn) {
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(5 * time.Second))

	reader := bufio.NewReader(conn)
	reply := func(s string) { fmt.Fprintf(conn, "%s\r\n", s) }

	reply("220 localhost ESMTP")

	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		cmd := strings.ToUpper(strings.TrimSpace(line))

		switch {
		case strings.HasPrefix(cmd, "EHLO"), strings.HasPrefix(cmd, "HELO"):
			reply("250-localhost")
			reply("250 8BITMIME")
		case strings.HasPrefix(cmd, "MAIL FROM"):
			r.mu.Lock()
			r.from = strings.TrimSpace(line)
			r.mu.Unlock()
			reply("250 OK")
		case strings.HasPrefix(cmd, "RCPT TO"):
			r.mu.Lock()
			r.rcpt = strings.TrimSpace(line)
			r.mu.Unlock()
			reply("250 OK")
		case cmd == "DATA":
			reply("354 End data with <CR><LF>.<CR><LF>")
			var b strings.Builder
			for {
				dl, err := reader.ReadString('\n')
				if err != nil {
					return
				}
				if dl == ".\r\n" {
					break
				}
				b.WriteString(dl)
			}
			r.mu.Lock()
			r.data = b.String()
			r.mu.Unlock()
			reply("250 OK queued")
		case cmd == "QUIT":
			reply("221 Bye")
			return
		default:
			reply("250 OK")
		}
	}
}

func smtpConfig(port int) config.MailConfig {
	cfg := testConfig(config.MailProviderSMTP).Mail
	cfg.SMTPPort = port
	return cfg
}

func TestNewSMTPSender_Defaults(t *testing.T) {
	cfg := smtpConfig(2525)
	cfg.SMTPInsecureSkipVerify = true

	sender := NewSMTPSender(cfg)

	assert.Equal(t, "127.0.0.1:2525", sender.addr())
	assert.Equal(t, DefaultSMTPTimeout, sender.timeout)
	assert.True(t, sender.tlsConfig.InsecureSkipVerify)
	assert.Equal(t, "127.0.0.1", sender.tlsConfig.ServerName)

	cfg.SMTPTimeout = time.Second
	assert.Equal(t, time.Second, NewSMTPSender(cfg).timeout)
}

func TestSMTPSender_Send(t *testing.T) {
	port, relay := startFakeRelay(t)
	sender := NewSMTPSender(smtpConfig(port))

	err := sender.Send(context.Background(), Message{
		To:      "user@example.com",
		Subject: "Hello",
		HTML:    `<a href="https://example.com">Click me</a>`,
		Text:    "Click me: https://example.com\n",
	})
	require.NoError(t, err)

	from, rcpt, data := relay.snapshot()
	assert.Contains(t, from, "<noreply@example.com>")
	assert.Contains(t, rcpt, "<user@example.com>")
	assert.Contains(t, data, "Subject: Hello")
	assert.Contains(t, data, "multipart/alternative")
	assert.Contains(t, data, "Content-Type: text/plain")
	assert.Contains(t, data, "Content-Type: text/html")
}

func TestSMTPSender_Check(t *testing.T) {
	port, _ := startFakeRelay(t)
	sender := NewSMTPSender(smtpConfig(port))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	assert.NoError(t, sender.Check(ctx))
}

func TestSMTPSender_SendHonoursCancelledContext(t *testing.T) {
	sender := NewSMTPSender(smtpConfig(1))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, sender.Send(ctx, Message{To: "user@example.com"}), context.Canceled)
}

func TestSMTPSender_CheckUnreachable(t *testing.T) {
	sender := NewSMTPSender(smtpConfig(1))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	assert.Error(t, sender.Check(ctx))
}

func TestSMTPSender_CheckSilentRelayReleasesConnections(t *testing.T) {
	port := startSilentServer(t)
	sender := NewSMTPSender(smtpConfig(port))

	before := runtime.NumGoroutine()

	for i := 0; i < 20; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		start := time.Now()
		err := sender.Check(ctx)
		cancel()

		require.Error(t, err)
		assert.Less(t, time.Since(start), time.Second)
	}

	assert.Eventually(t, func() bool {
		return runtime.NumGoroutine() <= before
	}, 2*time.Second, 20*time.Millisecond)
}

func TestSMTPSender_SendSilentRelayTimesOut(t *testing.T) {
	port := startSilentServer(t)
	cfg := smtpConfig(port)
	cfg.SMTPTimeout = 100 * time.Millisecond
	sender := NewSMTPSender(cfg)

	start := time.Now()
	err := sender.Send(context.Background(), Message{To: "user@example.com", Subject: "Hello"})

	require.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
}
