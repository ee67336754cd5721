package utils

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

const UnexpectedErrorMessage = "An unexpected error occurred"

// TransportError is the flat error object returned with a real HTTP status when a
// request cannot be interpreted as a payment transaction at all.
type TransportError struct {
	HTTPCode        string `json:"httpCode"`
	HTTPMessage     string `json:"httpMessage"`
	MoreInformation string `json:"moreInformation"`
	MoreDetails     string `json:"moreDetails,omitempty"`
}

func HandleError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}

	var (
		baseErr error
		message string
		details string
	)

	if wrappedErr, ok := IsWrappedError(err); ok {
		message = wrappedErr.GetMessage()
		details = wrappedErr.GetDetails()
		baseErr = wrappedErr.Unwrap()
	} else {
		message = err.Error()
		baseErr = err
	}

	switch {
	case errors.Is(baseErr, ErrNotFound):
		return NotFound(c, message, details)
	case errors.Is(baseErr, ErrDuplicatedKey):
		return Conflict(c, message, details)
	case errors.Is(baseErr, ErrBadRequest):
		return BadRequest(c, message, details)
	case errors.Is(baseErr, ErrNotAuthorized):
		return Unauthorized(c, message, details)
	case errors.Is(baseErr, ErrUnsupportedMediaType):
		return UnsupportedMediaType(c, message, details)
	case errors.Is(baseErr, ErrInternal):
		fallthrough
	default:
		Logger.Error().Err(err).Str("trace_id", TraceIDFromContext(c.Request().Context())).Msg("unexpected error")
		return InternalError(c)
	}
}

// Envelope writes a domain response wrapped in its named tag. Domain outcomes,
// including FAILED and HELD, always travel with HTTP 200.
func Envelope(c echo.Context, tag string, payload any) error {
	return c.JSON(http.StatusOK, map[string]any{tag: payload})
}

func BadRequest(c echo.Context, message, details string) error {
	return errorResponse(c, http.StatusBadRequest, message, details)
}

func Unauthorized(c echo.Context, message, details string) error {
	return errorResponse(c, http.StatusUnauthorized, message, details)
}

func NotFound(c echo.Context, message, details string) error {
	return errorResponse(c, http.StatusNotFound, message, details)
}

func Conflict(c echo.Context, message, details string) error {
	return errorResponse(c, http.StatusConflict, message, details)
}

func UnsupportedMediaType(c echo.Context, message, details string) error {
	return errorResponse(c, http.StatusUnsupportedMediaType, message, details)
}

// InternalError never carries internal error text to the caller.
func InternalError(c echo.Context) error {
	return errorResponse(c, http.StatusInternalServerError, UnexpectedErrorMessage, "")
}

func errorResponse(c echo.Context, code int, message, details string) error {
	return c.JSON(code, TransportError{
		HTTPCode:        strconv.Itoa(code),
		HTTPMessage:     http.StatusText(code),
		MoreInformation: message,
		MoreDetails:     details,
	})
}
