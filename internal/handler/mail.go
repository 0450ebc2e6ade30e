package handler

import (
	"net/http"

	"github.com/deppfellow/go-mailer/internal/middleware"
	"github.com/deppfellow/go-mailer/internal/server"
	"github.com/deppfellow/go-mailer/internal/service"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// validate is shared so struct metadata is parsed once.
var validate = validator.New()

// MailHandler exposes the button email over HTTP.
type MailHandler struct {
	Handler
	mailService *service.MailService
}

func NewMailHandler(s *server.Server, mailService *service.MailService) *MailHandler {
	return &MailHandler{
		Handler:     NewHandler(s),
		mailService: mailService,
	}
}

// SendMailRequest is the body of POST /api/v1/mail/send.
//
// Subject is optional; the template default is used when it is empty.
type SendMailRequest struct {
	To      string `json:"to" validate:"required,email"`
	Subject string `json:"subject" validate:"max=200"`
	URL     string `json:"url" validate:"required,max=2048"`
}

func (r *SendMailRequest) Validate() error {
	return validate.Struct(r)
}

type SendMailResponse struct {
	Status string `json:"status"`
}

// Send renders the button email and hands it to the mail provider once.
func (h *MailHandler) Send() echo.HandlerFunc {
	return Handle(h.Handler, func(c echo.Context, req *SendMailRequest) (*SendMailResponse, error) {
		if err := h.mailService.SendLink(c.Request().Context(), req.To, req.Subject, req.URL); err != nil {
			return nil, err
		}

		middleware.GetLogger(c).Info().
			Str("user_id", middleware.GetUserID(c)).
			Msg("link email sent")

		return &SendMailResponse{Status: "sent"}, nil
	}, http.StatusAccepted, &SendMailRequest{})
}

// PreviewRequest carries the optional url query parameter.
type PreviewRequest struct {
	URL string `query:"url"`
}

// Validate accepts any url, including an empty one.
func (r *PreviewRequest) Validate() error {
	return nil
}

// Preview serves the rendered button email. Without a url parameter the
// built-in sample is rendered; ?url= renders an empty link target.
func (h *MailHandler) Preview() echo.HandlerFunc {
	return HandleHTML(h.Handler, func(c echo.Context, req *PreviewRequest) (string, error) {
		var data map[string]string
		if c.QueryParams().Has("url") {
			data = map[string]string{"url": req.URL}
		}
		return h.mailService.Preview(data)
	}, http.StatusOK, &PreviewRequest{})
}
