package core

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-shipcompliant/api"
	"github.com/goliatone/go-shipcompliant/bridge"
	"github.com/goliatone/go-shipcompliant/dynamic"
)

type normalized struct {
	value      any
	outcome    Outcome
	statusCode int
}

// normalizeResult maps a typed call result onto exactly one outcome. Data
// outcomes carry a snake_case dynamic value. Raised outcomes carry a
// *goerrors.Error and no value.
func normalizeResult[T any](res *api.ResponseValue[T], callErr error) (normalized, error) {
	if callErr == nil {
		if res == nil {
			return normalized{outcome: OutcomeInternalError},
				internalFailure(fmt.Errorf("typed client returned neither a response nor an error"))
		}
		value, err := dynamic.FromValue(res.Inner)
		if err != nil {
			return normalized{outcome: OutcomeTranscodeError, statusCode: res.StatusCode}, transcodeFailure(err)
		}
		return snakeize(normalized{value: value, outcome: OutcomeSuccess, statusCode: res.StatusCode})
	}

	typed, ok := api.AsError(callErr)
	if !ok {
		return normalized{outcome: OutcomeTransportError}, transportFailure(callErr)
	}

	switch typed.Kind {
	case api.KindErrorResponse:
		value, err := dynamic.FromValue(typed.Body)
		if err != nil {
			return normalized{outcome: OutcomeTranscodeError, statusCode: typed.StatusCode}, transcodeFailure(err)
		}
		return snakeize(normalized{value: value, outcome: OutcomeAPIError, statusCode: typed.StatusCode})

	case api.KindUnexpectedResponse:
		body, err := drain(typed.Response)
		if err != nil {
			return normalized{outcome: OutcomeTransportError, statusCode: typed.StatusCode}, transportFailure(err)
		}
		value, err := dynamic.FromJSON(body)
		if err != nil {
			return normalized{outcome: OutcomeTranscodeError, statusCode: typed.StatusCode},
				transcodeFailure(fmt.Errorf("unexpected response (status %d): %w", typed.StatusCode, err))
		}
		return snakeize(normalized{value: value, outcome: OutcomeUnexpectedResponse, statusCode: typed.StatusCode})

	case api.KindInvalidResponsePayload:
		value, err := dynamic.FromJSON(typed.Payload)
		if err != nil {
			return normalized{outcome: OutcomeTranscodeError, statusCode: typed.StatusCode},
				transcodeFailure(fmt.Errorf("invalid response payload (status %d): %w", typed.StatusCode, err))
		}
		return snakeize(normalized{value: value, outcome: OutcomeInvalidPayload, statusCode: typed.StatusCode})

	default:
		return normalized{outcome: OutcomeTransportError, statusCode: typed.StatusCode}, transportFailure(typed)
	}
}

func snakeize(result normalized) (normalized, error) {
	value, err := dynamic.SnakeizeKeys(result.value)
	if err != nil {
		return normalized{outcome: OutcomeTranscodeError, statusCode: result.statusCode}, transcodeFailure(err)
	}
	result.value = value
	return result, nil
}

func drain(res *http.Response) ([]byte, error) {
	if res == nil || res.Body == nil {
		return nil, fmt.Errorf("unexpected response has no body")
	}
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read unexpected response body: %w", err)
	}
	return body, nil
}

// bridgeFailure classifies errors raised by the runner rather than by the
// call it ran.
func bridgeFailure(err error) (Outcome, *goerrors.Error) {
	if errors.Is(err, bridge.ErrClosed) {
		return OutcomeClientClosed, clientClosed()
	}
	return OutcomeInternalError, internalFailure(err)
}
