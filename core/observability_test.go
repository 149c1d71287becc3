package core

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/goliatone/go-shipcompliant/api"
)

func TestObservability_SuccessRecordsMetricsLogAndJournal(t *testing.T) {
	_, server := newFakeShipCompliant(t, nil)
	metrics := &captureMetricsRecorder{}
	logger := newCaptureLogger()
	journal := &memoryJournal{}
	client := newTestClient(t, server.URL,
		WithHTTPClient(server.Client()),
		WithMetricsRecorder(metrics),
		withCaptureLogger(logger),
		WithCallJournal(journal),
		WithRequestIDFactory(func() string { return "req-1" }),
	)

	if _, err := client.GetSalesOrder(context.Background(), "SO-1"); err != nil {
		t.Fatalf("get sales order: %v", err)
	}

	if !metrics.hasCounter(MetricOperationTotal, api.OperationGetSalesOrder, OutcomeSuccess) {
		t.Fatalf("expected success counter")
	}
	if !metrics.hasHistogram(MetricOperationDuration, api.OperationGetSalesOrder, OutcomeSuccess) {
		t.Fatalf("expected duration histogram")
	}
	entry, ok := logger.find("info", "get_sales_order completed")
	if !ok {
		t.Fatalf("expected completion log, got %#v", logger.snapshot())
	}
	if entry.fields["request_id"] != "req-1" || entry.fields["sales_order_key"] != "SO-1" {
		t.Fatalf("expected traceability fields, got %#v", entry.fields)
	}
	if entry.fields["status_code"] != http.StatusOK {
		t.Fatalf("expected status_code field, got %#v", entry.fields["status_code"])
	}

	records := journal.snapshot()
	if len(records) != 1 {
		t.Fatalf("expected one journal record, got %d", len(records))
	}
	record := records[0]
	if record.ID == "" || record.RequestID != "req-1" || record.Operation != api.OperationGetSalesOrder {
		t.Fatalf("unexpected journal record: %#v", record)
	}
	if record.Outcome != OutcomeSuccess || record.StatusCode != http.StatusOK || record.Error != "" {
		t.Fatalf("unexpected journal outcome: %#v", record)
	}
	if record.CreatedAt.IsZero() {
		t.Fatalf("expected created_at to be set")
	}
}

func TestObservability_APIErrorIsLoggedAsData(t *testing.T) {
	_, server := newFakeShipCompliant(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, `{"errorCode":"INVALID_KEY"}`)
	})
	metrics := &captureMetricsRecorder{}
	logger := newCaptureLogger()
	client := newTestClient(t, server.URL,
		WithHTTPClient(server.Client()),
		WithMetricsRecorder(metrics),
		withCaptureLogger(logger),
	)

	if _, err := client.GetProduct(context.Background(), "P-404"); err != nil {
		t.Fatalf("expected data, got %v", err)
	}
	if !metrics.hasCounter(MetricOperationTotal, api.OperationGetProduct, OutcomeAPIError) {
		t.Fatalf("expected api_error counter")
	}
	if _, ok := logger.find("info", "get_product completed"); !ok {
		t.Fatalf("expected info log for data outcome")
	}
}

func TestObservability_RaisedErrorsLogAtErrorLevel(t *testing.T) {
	metrics := &captureMetricsRecorder{}
	logger := newCaptureLogger()
	journal := &memoryJournal{}
	client := newTestClient(t, "https://ws.shipcompliant.test",
		WithMetricsRecorder(metrics),
		withCaptureLogger(logger),
		WithCallJournal(journal),
	)

	if _, err := client.VoidSalesOrder(context.Background(), ""); err == nil {
		t.Fatalf("expected input error")
	}
	if !metrics.hasCounter(MetricOperationTotal, api.OperationVoidSalesOrder, OutcomeInputError) {
		t.Fatalf("expected input_error counter")
	}
	entry, ok := logger.find("error", "void_sales_order failed")
	if !ok {
		t.Fatalf("expected error log, got %#v", logger.snapshot())
	}
	if entry.fields["error"] == nil {
		t.Fatalf("expected error field")
	}
	records := journal.snapshot()
	if len(records) != 1 || records[0].Outcome != OutcomeInputError || records[0].Error == "" {
		t.Fatalf("unexpected journal records: %#v", records)
	}
}

func TestObservability_JournalFailureDoesNotChangeResult(t *testing.T) {
	_, server := newFakeShipCompliant(t, nil)
	logger := newCaptureLogger()
	client := newTestClient(t, server.URL,
		WithHTTPClient(server.Client()),
		withCaptureLogger(logger),
		WithCallJournal(&memoryJournal{err: errors.New("database is locked")}),
	)

	result, err := client.GetProduct(context.Background(), "P-1")
	if err != nil || result == nil {
		t.Fatalf("expected call to succeed, got %v", err)
	}
	entry, ok := logger.find("warn", "call journal write failed")
	if !ok {
		t.Fatalf("expected journal failure warning")
	}
	if entry.fields["error"] != "database is locked" {
		t.Fatalf("unexpected warning fields: %#v", entry.fields)
	}
}

func TestObservability_RedactsCredentialFields(t *testing.T) {
	logger := newCaptureLogger()
	client := newTestClient(t, "https://ws.shipcompliant.test", withCaptureLogger(logger))

	client.observeOperation(context.Background(), time.Now(), "get_product", "req-1",
		normalized{outcome: OutcomeSuccess},
		nil,
		map[string]any{"password": "s3cret", "product_key": "P-1"},
	)
	entry, ok := logger.find("info", "get_product completed")
	if !ok {
		t.Fatalf("expected log entry")
	}
	if entry.fields["password"] != RedactedValue {
		t.Fatalf("expected password to be redacted, got %#v", entry.fields["password"])
	}
	if entry.fields["product_key"] != "P-1" {
		t.Fatalf("expected product_key to stay visible")
	}
}

func TestOutcomeRaised(t *testing.T) {
	data := []Outcome{OutcomeSuccess, OutcomeAPIError, OutcomeUnexpectedResponse, OutcomeInvalidPayload}
	raised := []Outcome{OutcomeTransportError, OutcomeTranscodeError, OutcomeInputError, OutcomeClientClosed, OutcomeInternalError}
	for _, outcome := range data {
		if outcome.Raised() {
			t.Fatalf("expected %q to be data", outcome)
		}
	}
	for _, outcome := range raised {
		if !outcome.Raised() {
			t.Fatalf("expected %q to raise", outcome)
		}
	}
}
