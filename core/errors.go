package core

import (
	"errors"
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-shipcompliant/api"
	"github.com/goliatone/go-shipcompliant/bridge"
)

const (
	ErrorTransportFailure = "SHIPCOMPLIANT_TRANSPORT_FAILURE"
	ErrorInvalidInput     = "SHIPCOMPLIANT_INVALID_INPUT"
	ErrorTranscodeFailure = "SHIPCOMPLIANT_TRANSCODE_FAILURE"
	ErrorClientClosed     = "SHIPCOMPLIANT_CLIENT_CLOSED"
	ErrorInvalidConfig    = "SHIPCOMPLIANT_INVALID_CONFIG"
	ErrorInternal         = "SHIPCOMPLIANT_INTERNAL_ERROR"
)

// RaisedPrefix starts the message of every raised error.
const RaisedPrefix = "error: "

func raise(cause error, category goerrors.Category, textCode string) *goerrors.Error {
	err := goerrors.New(RaisedPrefix+describe(cause), category).
		WithTextCode(textCode).
		WithCode(httpStatus(category))
	err.Source = cause
	return err
}

func transportFailure(cause error) *goerrors.Error {
	return raise(cause, goerrors.CategoryExternal, ErrorTransportFailure)
}

func transcodeFailure(cause error) *goerrors.Error {
	return raise(cause, goerrors.CategoryExternal, ErrorTranscodeFailure)
}

func invalidConfig(cause error) *goerrors.Error {
	return raise(cause, goerrors.CategoryValidation, ErrorInvalidConfig)
}

func internalFailure(cause error) *goerrors.Error {
	return raise(cause, goerrors.CategoryInternal, ErrorInternal)
}

func clientClosed() *goerrors.Error {
	return raise(bridge.ErrClosed, goerrors.CategoryOperation, ErrorClientClosed)
}

// inputError keeps field level detail when cause is a validation error.
func inputError(cause error) *goerrors.Error {
	var rich *goerrors.Error
	if goerrors.As(cause, &rich) && rich.Category == goerrors.CategoryValidation {
		err := raise(cause, goerrors.CategoryValidation, ErrorInvalidInput)
		err.ValidationErrors = rich.ValidationErrors
		return err
	}
	return raise(cause, goerrors.CategoryBadInput, ErrorInvalidInput)
}

func describe(cause error) string {
	if cause == nil {
		return "unknown failure"
	}
	var typed *api.Error
	if errors.As(cause, &typed) {
		return typed.Error()
	}
	var rich *goerrors.Error
	if goerrors.As(cause, &rich) {
		message := strings.TrimSpace(rich.Message)
		if len(rich.ValidationErrors) > 0 {
			message += ": " + rich.ValidationErrors.Error()
		}
		if rich.Source != nil {
			message += ": " + rich.Source.Error()
		}
		return message
	}
	return cause.Error()
}

func httpStatus(category goerrors.Category) int {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return http.StatusBadRequest
	case goerrors.CategoryExternal:
		return http.StatusBadGateway
	case goerrors.CategoryOperation:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
