package utils

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound             = errors.New("not found")
	ErrDuplicatedKey        = errors.New("duplicate entity")
	ErrBadRequest           = errors.New("bad request")
	ErrNotAuthorized        = errors.New("not authorized")
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrInternal             = errors.New("server error")
)

type WrappedError interface {
	error
	Unwrap() error
	GetMessage() string
	GetDetails() string
}

type wrappedError struct {
	Message string
	Details string
	Err     error
}

func (e *wrappedError) Error() string {
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *wrappedError) Unwrap() error {
	return e.Err
}

func (e *wrappedError) GetMessage() string {
	return e.Message
}

// GetDetails returns the optional moreDetails text of the transport error object.
func (e *wrappedError) GetDetails() string {
	return e.Details
}

func wrapErrorMessage(err error, msg string) WrappedError {
	return &wrappedError{
		Message: msg,
		Err:     err,
	}
}

func IsWrappedError(err error) (WrappedError, bool) {
	var w WrappedError
	ok := errors.As(err, &w)
	return w, ok
}

// WithDetails attaches moreDetails to a wrapped error. Other errors are returned unchanged.
func WithDetails(err error, details string) error {
	var w *wrappedError
	if !errors.As(err, &w) {
		return err
	}
	return &wrappedError{
		Message: w.Message,
		Details: details,
		Err:     w.Err,
	}
}

func NotFoundErr(message string) error {
	return wrapErrorMessage(ErrNotFound, message)
}

func DuplicateKeyErr(message string) error {
	return wrapErrorMessage(ErrDuplicatedKey, message)
}

func BadRequestErr(message string) error {
	return wrapErrorMessage(ErrBadRequest, message)
}

func NotAuthorizedErr(message string) error {
	return wrapErrorMessage(ErrNotAuthorized, message)
}

func UnsupportedMediaTypeErr(message string) error {
	return wrapErrorMessage(ErrUnsupportedMediaType, message)
}

func ServerErr(err error) error {
	return wrapErrorMessage(ErrInternal, err.Error())
}
