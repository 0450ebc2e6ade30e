package middleware

import (
	"net/http"

	"github.com/deppfellow/go-mailer/internal/errs"
	"github.com/deppfellow/go-mailer/internal/lib/email"
	"github.com/deppfellow/go-mailer/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// GlobalMiddlewares groups the middleware applied to every route and the
// global error handler.
type GlobalMiddlewares struct {
	server *server.Server
}

func NewGlobalMiddlewares(s *server.Server) *GlobalMiddlewares {
	return &GlobalMiddlewares{
		server: s,
	}
}

// CORS allows the origins from server.cors_allowed_origins.
func (global *GlobalMiddlewares) CORS() echo.MiddlewareFunc {
	return middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: global.server.Config.Server.CORSAllowedOrigins,
	})
}

// RequestLogger writes one "API" log line per request through the
// request-scoped logger, with a level picked from the final status.
func (global *GlobalMiddlewares) RequestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:     true,
		LogStatus:  true,
		LogError:   true,
		LogLatency: true,
		LogHost:    true,
		LogMethod:  true,
		LogURIPath: true,

		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			// When the handler returned an error the response has not been
			// written yet, so v.Status is still 200. Derive it from the error.
			// See https://github.com/labstack/echo/issues/2310#issuecomment-1288196898
			statusCode := v.Status
			if v.Error != nil {
				statusCode = statusFor(v.Error)
			}

			logger := GetLogger(c)

			var e *zerolog.Event
			switch {
			case statusCode >= 500:
				e = logger.Error().Err(v.Error)
			case statusCode >= 400:
				e = logger.Warn()
			default:
				e = logger.Info()
			}

			if requestID := GetRequestID(c); requestID != "" {
				e = e.Str("request_id", requestID)
			}

			if userID := GetUserID(c); userID != "" {
				e = e.Str("user_id", userID)
			}

			e.
				Dur("latency", v.Latency).
				Int("status", statusCode).
				Str("method", v.Method).
				Str("uri", v.URI).
				Str("host", v.Host).
				Str("ip", c.RealIP()).
				Str("user_agent", c.Request().UserAgent()).
				Msg("API")

			return nil
		},
	})
}

// Recover turns handler panics into 500 responses.
func (global *GlobalMiddlewares) Recover() echo.MiddlewareFunc {
	return middleware.Recover()
}

// Secure sets the standard security headers.
func (global *GlobalMiddlewares) Secure() echo.MiddlewareFunc {
	return middleware.Secure()
}

// toHTTPError classifies any error returned by a handler:
//
//   - *errs.HTTPError passes through
//   - echo 404 becomes "Route not found"
//   - other *echo.HTTPError keep their status
//   - *email.DeliveryError becomes 502, provider details stay in the logs
//   - email.ErrUnknownTemplate becomes 404
//   - anything else is a generic 500
func toHTTPError(err error) *errs.HTTPError {
	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		if echoErr.Code == http.StatusNotFound {
			return errs.NewNotFoundError("Route not found", false, nil)
		}

		message, ok := echoErr.Message.(string)
		if !ok {
			message = http.StatusText(echoErr.Code)
		}

		return &errs.HTTPError{
			Code:    errs.MakeUpperCaseWithUnderscores(http.StatusText(echoErr.Code)),
			Message: message,
			Status:  echoErr.Code,
		}
	}

	var deliveryErr *email.DeliveryError
	if errors.As(err, &deliveryErr) {
		return errs.NewBadGatewayError("The mail provider did not accept the message")
	}

	if errors.Is(err, email.ErrUnknownTemplate) {
		code := "UNKNOWN_TEMPLATE"
		return errs.NewNotFoundError("Email template not found", false, &code)
	}

	return errs.NewInternalServerError()
}

func statusFor(err error) int {
	return toHTTPError(err).Status
}

// GlobalErrorHandler is the final error funnel for the HTTP server.
//
// The client gets the sanitized HTTPError; the log line keeps the original
// error with its stack.
func (global *GlobalMiddlewares) GlobalErrorHandler(err error, c echo.Context) {
	httpErr := toHTTPError(err)

	logger := GetLogger(c)
	logger.Error().Stack().
		Err(err).
		Int("status", httpErr.Status).
		Str("error_code", httpErr.Code).
		Msg(httpErr.Message)

	if !c.Response().Committed {
		_ = c.JSON(httpErr.Status, errs.HTTPError{
			Code:     httpErr.Code,
			Message:  httpErr.Message,
			Status:   httpErr.Status,
			Override: httpErr.Override,
			Errors:   httpErr.Errors,
			Action:   httpErr.Action,
		})
	}
}
