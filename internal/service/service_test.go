package service

import (
	"context"
	"errors"
	"testing"

	"github.com/deppfellow/go-mailer/internal/config"
	"github.com/deppfellow/go-mailer/internal/lib/email"
	"github.com/deppfellow/go-mailer/internal/server"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	sent []email.Message
	err  error
}

func (f *fakeSender) Send(ctx context.Context, msg email.Message) error {
	f.sent = append(f.sent, msg)
	return f.err
}

func newTestServer(sender email.Sender) *server.Server {
	cfg := &config.Config{
		Auth: config.AuthConfig{SecretKey: "sk_test_123"},
		Mail: config.MailConfig{
			Provider:    config.MailProviderLog,
			FromName:    "Mailer",
			FromAddress: "noreply@example.com",
		},
		Observability: config.DefaultObservabilityConfig(),
	}
	logger := zerolog.Nop()

	return server.NewWithEmail(cfg, &logger, nil, email.NewClientWithSender(cfg, sender, &logger))
}

func TestAppService_GetHello(t *testing.T) {
	assert.Equal(t, "Hello World!", NewAppService().GetHello())
}

func TestMailService_SendLink(t *testing.T) {
	sender := &fakeSender{}
	svc := NewMailService(newTestServer(sender))

	require.NoError(t, svc.SendLink(context.Background(), "user@example.com", "", "https://example.com/go"))

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "user@example.com", sender.sent[0].To)
	assert.Equal(t, email.TemplateButton.DefaultSubject(), sender.sent[0].Subject)
	assert.Contains(t, sender.sent[0].HTML, `href="https://example.com/go"`)
}

func TestMailService_SendLink_ProviderFailure(t *testing.T) {
	sender := &fakeSender{err: errors.New("boom")}
	svc := NewMailService(newTestServer(sender))

	err := svc.SendLink(context.Background(), "user@example.com", "", "https://example.com")

	var deliveryErr *email.DeliveryError
	assert.ErrorAs(t, err, &deliveryErr)
}

func TestMailService_Preview(t *testing.T) {
	svc := NewMailService(newTestServer(&fakeSender{}))

	html, err := svc.Preview(nil)
	require.NoError(t, err)
	assert.Contains(t, html, email.PreviewData["button"]["url"])

	html, err = svc.Preview(map[string]string{"url": ""})
	require.NoError(t, err)
	assert.Contains(t, html, `href=""`)
}

func TestNewServices(t *testing.T) {
	services := NewServices(newTestServer(&fakeSender{}))

	assert.NotNil(t, services.App)
	assert.NotNil(t, services.Auth)
	assert.NotNil(t, services.Mail)
}
