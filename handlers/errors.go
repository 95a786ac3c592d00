package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dipanshukale/CraftCrazy/services"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type listResponse struct {
	Success bool `json:"success"`
	Count   int  `json:"count"`
	Data    any  `json:"data"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// HTTPErrorHandler renders every unhandled error as {success:false, error}.
// Internal failures are logged and hidden from the client.
func HTTPErrorHandler(logger zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		code, msg := statusFor(err)
		if code >= http.StatusInternalServerError {
			logger.Error().Err(err).
				Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
				Str("uri", c.Request().RequestURI).
				Msg("request failed")
		}

		var werr error
		if c.Request().Method == http.MethodHead {
			werr = c.NoContent(code)
		} else {
			werr = c.JSON(code, errorResponse{Success: false, Error: msg})
		}
		if werr != nil {
			logger.Error().Err(werr).Msg("write error response")
		}
	}
}

// statusFor maps service errors to a status code and a client-safe message.
func statusFor(err error) (int, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprint(he.Message)
	}

	msg := http.StatusText(http.StatusInternalServerError)
	var se *services.Error
	if errors.As(err, &se) {
		msg = se.Message
	}
	switch {
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound, msg
	case errors.Is(err, services.ErrInvalidArgument), errors.Is(err, services.ErrPaymentVerification):
		return http.StatusBadRequest, msg
	case errors.Is(err, services.ErrConflict):
		return http.StatusConflict, msg
	case errors.Is(err, services.ErrUpstream):
		return http.StatusInternalServerError, msg
	default:
		return http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)
	}
}

func badRequest(msg string) error {
	return echo.NewHTTPError(http.StatusBadRequest, msg)
}
