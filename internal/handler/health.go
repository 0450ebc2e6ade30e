package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/deppfellow/go-mailer/internal/middleware"
	"github.com/deppfellow/go-mailer/internal/server"
	"github.com/deppfellow/go-mailer/internal/service"
	"github.com/labstack/echo/v4"
)

// HealthHandler answers GET /status for load balancers and uptime monitors.
type HealthHandler struct {
	Handler
	mailService *service.MailService
}

func NewHealthHandler(s *server.Server, mailService *service.MailService) *HealthHandler {
	return &HealthHandler{
		Handler:     NewHandler(s),
		mailService: mailService,
	}
}

// CheckHealth reports overall status plus one entry per configured check.
//
// It returns 200 when every check passes and 503 otherwise.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()

	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	obs := h.server.Config.Observability

	checks := make(map[string]interface{})
	response := map[string]interface{}{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"environment": h.server.Config.Primary.Env,
		"checks":      checks,
	}

	isHealthy := true

	if obs != nil && obs.HealthChecks.Enabled {
		for _, name := range obs.HealthChecks.Checks {
			if name != "mail" {
				logger.Warn().Str("check", name).Msg("unknown health check skipped")
				continue
			}

			ctx, cancel := context.WithTimeout(c.Request().Context(), obs.HealthCheckTimeout())
			mailStart := time.Now()
			err := h.mailService.CheckProvider(ctx)
			cancel()

			if err != nil {
				isHealthy = false
				checks["mail"] = map[string]interface{}{
					"status":        "unhealthy",
					"provider":      h.server.Email.Provider(),
					"response_time": time.Since(mailStart).String(),
					"error":         err.Error(),
				}

				logger.Error().
					Err(err).
					Dur("response_time", time.Since(mailStart)).
					Msg("mail health check failed")

				h.recordHealthError("mail", "mail_unreachable", time.Since(mailStart), err)
				continue
			}

			checks["mail"] = map[string]interface{}{
				"status":        "healthy",
				"provider":      h.server.Email.Provider(),
				"response_time": time.Since(mailStart).String(),
			}

			logger.Info().
				Dur("response_time", time.Since(mailStart)).
				Msg("mail health check passed")
		}
	}

	if !isHealthy {
		response["status"] = "unhealthy"

		logger.Warn().
			Dur("total_duration", time.Since(start)).
			Msg("health check failed")

		return c.JSON(http.StatusServiceUnavailable, response)
	}

	logger.Info().
		Dur("total_duration", time.Since(start)).
		Msg("health check passed")

	if err := c.JSON(http.StatusOK, response); err != nil {
		logger.Error().Err(err).Msg("failed to write JSON response")
		h.recordHealthError("response", "json_response_error", time.Since(start), err)
		return fmt.Errorf("failed to write JSON response: %w", err)
	}

	return nil
}

func (h *HealthHandler) recordHealthError(checkType, errorType string, elapsed time.Duration, err error) {
	nrApp := h.server.LoggerService.GetApplication()
	if nrApp == nil {
		return
	}

	nrApp.RecordCustomEvent("HealthCheckError", map[string]interface{}{
		"check_type":       checkType,
		"operation":        "health_check",
		"error_type":       errorType,
		"response_time_ms": elapsed.Milliseconds(),
		"error_message":    err.Error(),
	})
}
