package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/deppfellow/go-mailer/internal/config"
	"github.com/deppfellow/go-mailer/internal/lib/email"
	"github.com/deppfellow/go-mailer/internal/middleware"
	"github.com/deppfellow/go-mailer/internal/server"
	"github.com/deppfellow/go-mailer/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	mu       sync.Mutex
	sent     []email.Message
	sendErr  error
	checkErr error
}

func (f *fakeSender) Send(ctx context.Context, msg email.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeSender) Check(ctx context.Context) error {
	return f.checkErr
}

type testEnv struct {
	echo     *echo.Echo
	handlers *Handlers
	sender   *fakeSender
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := &config.Config{
		Primary: config.Primary{Env: "local"},
		Auth:    config.AuthConfig{SecretKey: "sk_test_123"},
		Mail: config.MailConfig{
			Provider:    config.MailProviderLog,
			FromName:    "Mailer",
			FromAddress: "noreply@example.com",
		},
		RateLimit:     config.DefaultRateLimitConfig(),
		Observability: config.DefaultObservabilityConfig(),
	}
	logger := zerolog.Nop()
	sender := &fakeSender{}

	s := server.NewWithEmail(cfg, &logger, nil, email.NewClientWithSender(cfg, sender, &logger))
	h := NewHandlers(s, service.NewServices(s))

	e := echo.New()
	e.HTTPErrorHandler = middleware.NewGlobalMiddlewares(s).GlobalErrorHandler

	return &testEnv{echo: e, handlers: h, sender: sender}
}

func (env *testEnv) do(method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	env.echo.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestAppHandler_GetHello(t *testing.T) {
	env := newTestEnv(t)
	env.echo.GET("/", env.handlers.App.GetHello())

	rec := env.do(http.MethodGet, "/", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Hello World!", decode(t, rec)["message"])
}

func TestMailHandler_Send(t *testing.T) {
	env := newTestEnv(t)
	env.echo.POST("/send", env.handlers.Mail.Send())

	rec := env.do(http.MethodPost, "/send", `{"to":"user@example.com","url":"https://example.com/verify?token=abc"}`)

	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, "sent", decode(t, rec)["status"])

	require.Len(t, env.sender.sent, 1)
	msg := env.sender.sent[0]
	assert.Equal(t, "user@example.com", msg.To)
	assert.Equal(t, email.TemplateButton.DefaultSubject(), msg.Subject)
	assert.Contains(t, msg.HTML, `href="https://example.com/verify?token=abc"`)
	assert.Contains(t, msg.Text, "https://example.com/verify?token=abc")
}

func TestMailHandler_Send_CustomSubject(t *testing.T) {
	env := newTestEnv(t)
	env.echo.POST("/send", env.handlers.Mail.Send())

	rec := env.do(http.MethodPost, "/send", `{"to":"user@example.com","subject":"Confirm","url":"https://example.com"}`)

	require.Equal(t, http.StatusAccepted, rec.Code)
	require.Len(t, env.sender.sent, 1)
	assert.Equal(t, "Confirm", env.sender.sent[0].Subject)
}

func TestMailHandler_Send_LogsWithoutRecipient(t *testing.T) {
	env := newTestEnv(t)

	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	env.echo.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(middleware.LoggerKey, &logger)
			return next(c)
		}
	})
	env.echo.POST("/send", env.handlers.Mail.Send())

	rec := env.do(http.MethodPost, "/send", `{"to":"user@example.com","url":"https://example.com"}`)

	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.Contains(t, buf.String(), "link email sent")
	assert.NotContains(t, buf.String(), "user@example.com")
}

func TestSendMailRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     SendMailRequest
		wantErr bool
	}{
		{name: "valid", req: SendMailRequest{To: "user@example.com", URL: "https://example.com"}},
		{name: "bad address", req: SendMailRequest{To: "user", URL: "https://example.com"}, wantErr: true},
		{name: "missing url", req: SendMailRequest{To: "user@example.com"}, wantErr: true},
		{name: "long subject", req: SendMailRequest{To: "user@example.com", URL: "x", Subject: strings.Repeat("s", 201)}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestMailHandler_Send_ValidationError(t *testing.T) {
	env := newTestEnv(t)
	env.echo.POST("/send", env.handlers.Mail.Send())

	rec := env.do(http.MethodPost, "/send", `{"to":"not-an-email"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "BAD_REQUEST", body["code"])
	assert.Len(t, body["errors"], 2)
	assert.Empty(t, env.sender.sent)
}

func TestMailHandler_Send_ProviderFailure(t *testing.T) {
	env := newTestEnv(t)
	env.sender.sendErr = errors.New("connection refused")
	env.echo.POST("/send", env.handlers.Mail.Send())

	rec := env.do(http.MethodPost, "/send", `{"to":"user@example.com","url":"https://example.com"}`)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func TestMailHandler_Preview(t *testing.T) {
	tests := []struct {
		name   string
		target string
		href   string
	}{
		{name: "sample data", target: "/preview", href: `href="https://example.com/welcome"`},
		{name: "explicit url", target: "/preview?url=https://example.com/reset", href: `href="https://example.com/reset"`},
		{name: "empty url", target: "/preview?url=", href: `href=""`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.echo.GET("/preview", env.handlers.Mail.Preview())

			rec := env.do(http.MethodGet, tt.target, "")

			require.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Header().Get(echo.HeaderContentType), echo.MIMETextHTML)
			assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))
			assert.Equal(t, htmlContentSecurityPolicy, rec.Header().Get("Content-Security-Policy"))
			assert.Contains(t, rec.Body.String(), tt.href)
			assert.Equal(t, 1, strings.Count(rec.Body.String(), "<a "))
		})
	}
}

func TestHealthHandler_CheckHealth(t *testing.T) {
	env := newTestEnv(t)
	env.echo.GET("/status", env.handlers.Health.CheckHealth)

	rec := env.do(http.MethodGet, "/status", "")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "local", body["environment"])

	checks := body["checks"].(map[string]interface{})
	mail := checks["mail"].(map[string]interface{})
	assert.Equal(t, "healthy", mail["status"])
	assert.Equal(t, config.MailProviderLog, mail["provider"])
}

func TestHealthHandler_CheckHealth_Unhealthy(t *testing.T) {
	env := newTestEnv(t)
	env.sender.checkErr = errors.New("dial tcp: i/o timeout")
	env.echo.GET("/status", env.handlers.Health.CheckHealth)

	rec := env.do(http.MethodGet, "/status", "")

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "unhealthy", body["status"])

	mail := body["checks"].(map[string]interface{})["mail"].(map[string]interface{})
	assert.Equal(t, "dial tcp: i/o timeout", mail["error"])
}

func TestHealthHandler_ChecksDisabled(t *testing.T) {
	env := newTestEnv(t)
	env.sender.checkErr = errors.New("unreachable")
	env.handlers.Health.server.Config.Observability.HealthChecks.Enabled = false
	env.echo.GET("/status", env.handlers.Health.CheckHealth)

	rec := env.do(http.MethodGet, "/status", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode(t, rec)["checks"])
}

func TestOpenAPIHandler_ServeOpenAPIUI(t *testing.T) {
	env := newTestEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "openapi.html"), []byte("<html>docs</html>"), 0o600))
	env.handlers.OpenAPI.staticDir = dir
	env.echo.GET("/docs", env.handlers.OpenAPI.ServeOpenAPIUI)

	rec := env.do(http.MethodGet, "/docs", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "<html>docs</html>", rec.Body.String())
	assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))
}

func TestOpenAPIHandler_MissingTemplate(t *testing.T) {
	env := newTestEnv(t)
	env.handlers.OpenAPI.staticDir = t.TempDir()
	env.echo.GET("/docs", env.handlers.OpenAPI.ServeOpenAPIUI)

	rec := env.do(http.MethodGet, "/docs", "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestNewRequest_FreshValuePerCall(t *testing.T) {
	proto := &SendMailRequest{To: "stale@example.com"}

	got := newRequest(proto)

	assert.NotSame(t, proto, got)
	assert.Empty(t, got.To)
}
