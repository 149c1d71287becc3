package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

type ErrorKind string

const (
	KindErrorResponse          ErrorKind = "error_response"
	KindUnexpectedResponse     ErrorKind = "unexpected_response"
	KindInvalidResponsePayload ErrorKind = "invalid_response_payload"
	KindOther                  ErrorKind = "other"
)

// Error is the closed failure taxonomy of a typed call. Exactly one of Body,
// Response, Payload or Cause is meaningful, depending on Kind.
type Error struct {
	Kind       ErrorKind
	Operation  string
	StatusCode int
	Headers    http.Header

	// Body is the decoded error document for KindErrorResponse.
	Body *ErrorBody
	// Response is still open for KindUnexpectedResponse. Whoever handles the
	// error owns closing it.
	Response *http.Response
	// Payload holds the buffered bytes for KindInvalidResponsePayload.
	Payload []byte
	Cause   error
}

func NewErrorResponse(status int, headers http.Header, body *ErrorBody) *Error {
	if body == nil {
		body = &ErrorBody{}
	}
	return &Error{
		Kind:       KindErrorResponse,
		StatusCode: status,
		Headers:    headers,
		Body:       body,
	}
}

func NewUnexpectedResponse(res *http.Response) *Error {
	err := &Error{Kind: KindUnexpectedResponse, Response: res}
	if res != nil {
		err.StatusCode = res.StatusCode
		err.Headers = res.Header
	}
	return err
}

func NewInvalidResponsePayload(status int, headers http.Header, payload []byte, cause error) *Error {
	return &Error{
		Kind:       KindInvalidResponsePayload,
		StatusCode: status,
		Headers:    headers,
		Payload:    payload,
		Cause:      cause,
	}
}

func NewOther(cause error) *Error {
	return &Error{Kind: KindOther, Cause: cause}
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	switch e.Kind {
	case KindErrorResponse:
		if e.Body != nil && strings.TrimSpace(e.Body.Message) != "" {
			return fmt.Sprintf("error response (status %d): %s", e.StatusCode, e.Body.Message)
		}
		if e.Body != nil && strings.TrimSpace(e.Body.ErrorCode) != "" {
			return fmt.Sprintf("error response (status %d): %s", e.StatusCode, e.Body.ErrorCode)
		}
		return fmt.Sprintf("error response (status %d)", e.StatusCode)
	case KindUnexpectedResponse:
		return fmt.Sprintf("unexpected response (status %d)", e.StatusCode)
	case KindInvalidResponsePayload:
		return fmt.Sprintf("invalid response payload: %s", describeCause(e.Cause))
	default:
		return describeCause(e.Cause)
	}
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// AsError extracts the typed call error from err.
func AsError(err error) (*Error, bool) {
	var target *Error
	if errors.As(err, &target) && target != nil {
		return target, true
	}
	return nil, false
}

func describeCause(cause error) string {
	if cause == nil {
		return "unknown failure"
	}
	var rich *goerrors.Error
	if errors.As(cause, &rich) && rich != nil {
		if rich.Source != nil {
			return rich.Message + ": " + rich.Source.Error()
		}
		return rich.Message
	}
	return cause.Error()
}
