package utils

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	if validationErr, ok := err.(validator.ValidationErrors); ok {
		_, message := FirstValidationError(validationErr)
		_ = BadRequest(c, message, "")
		return
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		if innerErr, ok := he.Internal.(validator.ValidationErrors); ok {
			_, message := FirstValidationError(innerErr)
			_ = BadRequest(c, message, "")
			return
		}

		if he.Code >= http.StatusInternalServerError {
			Logger.Error().Err(err).Str("trace_id", TraceIDFromContext(c.Request().Context())).Msg("request failed")
			_ = errorResponse(c, he.Code, UnexpectedErrorMessage, "")
			return
		}

		message := http.StatusText(he.Code)
		if msg, ok := he.Message.(string); ok {
			message = msg
		}
		_ = errorResponse(c, he.Code, message, "")
		return
	}

	_ = HandleError(c, err)
}
