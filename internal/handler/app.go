package handler

import (
	"net/http"

	"github.com/deppfellow/go-mailer/internal/server"
	"github.com/deppfellow/go-mailer/internal/service"
	"github.com/labstack/echo/v4"
)

// AppHandler is the root controller.
type AppHandler struct {
	Handler
	appService *service.AppService
}

func NewAppHandler(s *server.Server, appService *service.AppService) *AppHandler {
	return &AppHandler{
		Handler:    NewHandler(s),
		appService: appService,
	}
}

// GetHelloRequest has no fields; the root route takes no input.
type GetHelloRequest struct{}

func (r *GetHelloRequest) Validate() error {
	return nil
}

type GetHelloResponse struct {
	Message string `json:"message"`
}

// GetHello serves GET /.
func (h *AppHandler) GetHello() echo.HandlerFunc {
	return Handle(h.Handler, func(c echo.Context, req *GetHelloRequest) (*GetHelloResponse, error) {
		return &GetHelloResponse{Message: h.appService.GetHello()}, nil
	}, http.StatusOK, &GetHelloRequest{})
}
