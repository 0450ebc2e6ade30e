package handler

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/deppfellow/go-mailer/internal/server"
	"github.com/labstack/echo/v4"
)

// OpenAPIHandler serves the API docs UI from the static directory.
//
// openapi.html loads its JS from a CDN and reads static/openapi.json.
type OpenAPIHandler struct {
	Handler
	staticDir string
}

func NewOpenAPIHandler(s *server.Server) *OpenAPIHandler {
	return &OpenAPIHandler{
		Handler:   NewHandler(s),
		staticDir: "static",
	}
}

// ServeOpenAPIUI reads openapi.html on every request so doc edits show up
// without a restart.
func (h *OpenAPIHandler) ServeOpenAPIUI(c echo.Context) error {
	templateBytes, err := os.ReadFile(filepath.Join(h.staticDir, "openapi.html"))

	c.Response().Header().Set("Cache-Control", "no-cache")

	if err != nil {
		return fmt.Errorf("failed to read OpenAPI UI template: %w", err)
	}

	if err := c.HTML(http.StatusOK, string(templateBytes)); err != nil {
		return fmt.Errorf("failed to write HTML response: %w", err)
	}

	return nil
}
