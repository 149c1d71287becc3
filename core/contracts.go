package core

import (
	"context"
	"time"

	glog "github.com/goliatone/go-logger/glog"
)

type Logger = glog.Logger

type LoggerProvider = glog.LoggerProvider

type FieldsLogger = glog.FieldsLogger

type MetricsRecorder interface {
	IncCounter(ctx context.Context, name string, value int64, tags map[string]string)
	ObserveHistogram(ctx context.Context, name string, value float64, tags map[string]string)
}

// Outcome classifies how a façade call ended.
type Outcome string

const (
	OutcomeSuccess            Outcome = "success"
	OutcomeAPIError           Outcome = "api_error"
	OutcomeUnexpectedResponse Outcome = "unexpected_response"
	OutcomeInvalidPayload     Outcome = "invalid_payload"
	OutcomeTransportError     Outcome = "transport_error"
	OutcomeTranscodeError     Outcome = "transcode_error"
	OutcomeInputError         Outcome = "input_error"
	OutcomeClientClosed       Outcome = "client_closed"
	OutcomeInternalError      Outcome = "internal_error"
)

// Raised reports whether the outcome surfaces as an error rather than data.
func (o Outcome) Raised() bool {
	switch o {
	case OutcomeSuccess, OutcomeAPIError, OutcomeUnexpectedResponse, OutcomeInvalidPayload:
		return false
	default:
		return true
	}
}

type CallRecord struct {
	ID         string
	RequestID  string
	Operation  string
	Outcome    Outcome
	StatusCode int
	DurationMS int64
	Error      string
	CreatedAt  time.Time
}

type CallJournalFilter struct {
	Operation string
	Outcome   Outcome
	Since     *time.Time
	Limit     int
	Offset    int
}

type CallJournalPage struct {
	Records []CallRecord
	Total   int
}

// CallJournal receives one record per façade call. Failures are logged by
// the client and never change the call result.
type CallJournal interface {
	Record(ctx context.Context, record CallRecord) error
}

type CallJournalReader interface {
	List(ctx context.Context, filter CallJournalFilter) (CallJournalPage, error)
}

type NopCallJournal struct{}

func (NopCallJournal) Record(context.Context, CallRecord) error { return nil }
