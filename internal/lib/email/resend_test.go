package email

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type resendRequest struct {
	path   string
	auth   string
	method string
	body   map[string]interface{}
}

// newResendTestSender points a ResendSender at a local server that answers
// with status and body and keeps the last request.
func newResendTestSender(t *testing.T, status int, body string) (*ResendSender, func() resendRequest) {
	t.Helper()

	var mu sync.Mutex
	var last resendRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))

		mu.Lock()
		last = resendRequest{path: r.URL.Path, auth: r.Header.Get("Authorization"), method: r.Method, body: payload}
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	base, err := url.Parse(srv.URL + "/")
	require.NoError(t, err)

	sender := NewResendSender("re_test", "Mailer <noreply@example.com>")
	sender.client.BaseURL = base

	return sender, func() resendRequest {
		mu.Lock()
		defer mu.Unlock()
		return last
	}
}

func TestResendSender_Send(t *testing.T) {
	sender, last := newResendTestSender(t, http.StatusOK, `{"id":"email_123"}`)

	err := sender.Send(context.Background(), Message{
		To:      "user@example.com",
		Subject: "Your link",
		HTML:    `<a href="https://example.com">Click me</a>`,
		Text:    "Click me: https://example.com\n",
	})
	require.NoError(t, err)

	req := last()
	assert.Equal(t, http.MethodPost, req.method)
	assert.Equal(t, "/emails", req.path)
	assert.Equal(t, "Bearer re_test", req.auth)
	assert.Equal(t, "Mailer <noreply@example.com>", req.body["from"])
	assert.Equal(t, []interface{}{"user@example.com"}, req.body["to"])
	assert.Equal(t, "Your link", req.body["subject"])
	assert.Equal(t, `<a href="https://example.com">Click me</a>`, req.body["html"])
	assert.Equal(t, "Click me: https://example.com\n", req.body["text"])
}

func TestResendSender_SendRejected(t *testing.T) {
	sender, _ := newResendTestSender(t, http.StatusUnprocessableEntity,
		`{"statusCode":422,"name":"validation_error","message":"The example.com domain is not verified"}`)

	err := sender.Send(context.Background(), Message{To: "user@example.com", Subject: "Hi"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "resend")
	assert.Contains(t, err.Error(), "not verified")
}
