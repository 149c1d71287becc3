package core

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

func (c *Client) observeOperation(
	ctx context.Context,
	startedAt time.Time,
	operation string,
	requestID string,
	result normalized,
	err error,
	fields map[string]any,
) {
	if c == nil {
		return
	}
	operation = normalizeOperation(operation)
	if operation == "" {
		operation = "unknown"
	}
	outcome := result.outcome
	if outcome == "" {
		outcome = OutcomeInternalError
	}
	duration := time.Since(startedAt)

	contextFields := cloneFields(fields)
	contextFields["operation"] = operation
	contextFields["request_id"] = requestID
	contextFields["outcome"] = string(outcome)
	contextFields["duration_ms"] = duration.Milliseconds()
	if result.statusCode != 0 {
		contextFields["status_code"] = result.statusCode
	}
	if err != nil {
		contextFields["error"] = err.Error()
	}
	contextFields = RedactSensitiveMap(contextFields)

	tags := map[string]string{
		"operation": operation,
		"outcome":   string(outcome),
	}
	c.recordCounter(ctx, MetricOperationTotal, 1, tags)
	c.recordHistogram(ctx, MetricOperationDuration, float64(duration.Milliseconds()), tags)

	c.writeJournal(ctx, CallRecord{
		ID:         uuid.NewString(),
		RequestID:  requestID,
		Operation:  operation,
		Outcome:    outcome,
		StatusCode: result.statusCode,
		DurationMS: duration.Milliseconds(),
		Error:      errorText(err),
		CreatedAt:  startedAt.UTC(),
	})

	if outcome.Raised() {
		c.logError(ctx, operation+" failed", contextFields)
		return
	}
	c.logInfo(ctx, operation+" completed", contextFields)
}

func (c *Client) writeJournal(ctx context.Context, record CallRecord) {
	if c == nil || c.journal == nil {
		return
	}
	if err := c.journal.Record(ctx, record); err != nil {
		c.logWithLevel(ctx, "warn", "call journal write failed", map[string]any{
			"operation":  record.Operation,
			"request_id": record.RequestID,
			"error":      err.Error(),
		})
	}
}

func (c *Client) logInfo(ctx context.Context, message string, fields map[string]any) {
	c.logWithLevel(ctx, "info", message, fields)
}

func (c *Client) logError(ctx context.Context, message string, fields map[string]any) {
	c.logWithLevel(ctx, "error", message, fields)
}

func (c *Client) logWithLevel(ctx context.Context, level string, message string, fields map[string]any) {
	if c == nil || c.logger == nil {
		return
	}
	logger := c.logger
	if ctx != nil {
		logger = logger.WithContext(ctx)
	}
	if fieldsLogger, ok := logger.(FieldsLogger); ok {
		logger = fieldsLogger.WithFields(cloneFields(fields))
	}
	args := flattenFields(fields)
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "error":
		logger.Error(message, args...)
	case "warn":
		logger.Warn(message, args...)
	default:
		logger.Info(message, args...)
	}
}

func (c *Client) recordCounter(ctx context.Context, name string, value int64, tags map[string]string) {
	if c == nil || c.metricsRecorder == nil {
		return
	}
	c.metricsRecorder.IncCounter(ctx, strings.TrimSpace(name), value, cloneTags(tags))
}

func (c *Client) recordHistogram(ctx context.Context, name string, value float64, tags map[string]string) {
	if c == nil || c.metricsRecorder == nil {
		return
	}
	c.metricsRecorder.ObserveHistogram(ctx, strings.TrimSpace(name), value, cloneTags(tags))
}

func errorText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func cloneFields(fields map[string]any) map[string]any {
	if len(fields) == 0 {
		return map[string]any{}
	}
	copied := make(map[string]any, len(fields))
	for key, value := range fields {
		copied[key] = value
	}
	return copied
}

func flattenFields(fields map[string]any) []any {
	if len(fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	args := make([]any, 0, len(keys)*2)
	for _, key := range keys {
		args = append(args, key, fields[key])
	}
	return args
}

func normalizeOperation(operation string) string {
	operation = strings.TrimSpace(strings.ToLower(operation))
	operation = strings.ReplaceAll(operation, " ", "_")
	operation = strings.ReplaceAll(operation, "-", "_")
	return operation
}
