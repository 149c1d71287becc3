package sqlstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-shipcompliant/core"
)

const (
	DefaultJournalPageSize = 50
	maxErrorMessageLength  = 2048
)

// JournalStore persists one row per façade call.
type JournalStore struct {
	db   *bun.DB
	repo repository.Repository[*callRecord]
	now  func() time.Time
}

func NewJournalStore(db *bun.DB) (*JournalStore, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlstore: bun db is required")
	}
	repo := repository.NewRepository[*callRecord](db, callRecordHandlers())
	if validator, ok := repo.(repository.Validator); ok {
		if err := validator.Validate(); err != nil {
			return nil, fmt.Errorf("sqlstore: invalid call journal repository wiring: %w", err)
		}
	}
	return &JournalStore{db: db, repo: repo, now: time.Now}, nil
}

// NewJournalStoreFromPersistence accepts a *bun.DB or anything exposing
// DB() *bun.DB, such as a go-persistence-bun client.
func NewJournalStoreFromPersistence(client any) (*JournalStore, error) {
	db, err := resolveBunDB(client)
	if err != nil {
		return nil, err
	}
	return NewJournalStore(db)
}

func (s *JournalStore) Record(ctx context.Context, entry core.CallRecord) error {
	if s == nil || s.repo == nil {
		return fmt.Errorf("sqlstore: call journal store is not configured")
	}
	operation := strings.TrimSpace(entry.Operation)
	if operation == "" {
		return fmt.Errorf("sqlstore: call record operation is required")
	}
	id := strings.TrimSpace(entry.ID)
	if id == "" {
		id = uuid.NewString()
	}
	createdAt := entry.CreatedAt.UTC()
	if entry.CreatedAt.IsZero() {
		createdAt = s.now().UTC()
	}
	outcome := strings.TrimSpace(string(entry.Outcome))
	if outcome == "" {
		outcome = string(core.OutcomeInternalError)
	}

	record := &callRecord{
		ID:           id,
		RequestID:    strings.TrimSpace(entry.RequestID),
		Operation:    operation,
		Outcome:      outcome,
		StatusCode:   entry.StatusCode,
		DurationMS:   entry.DurationMS,
		ErrorMessage: truncate(entry.Error, maxErrorMessageLength),
		CreatedAt:    createdAt,
	}
	_, err := s.repo.Create(ctx, record)
	return err
}

// List returns records newest first.
func (s *JournalStore) List(ctx context.Context, filter core.CallJournalFilter) (core.CallJournalPage, error) {
	if s == nil || s.repo == nil {
		return core.CallJournalPage{}, fmt.Errorf("sqlstore: call journal store is not configured")
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultJournalPageSize
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	selectors := []repository.SelectCriteria{
		repository.OrderBy("created_at DESC"),
		repository.OrderBy("id DESC"),
		repository.SelectPaginate(limit, offset),
	}
	if operation := strings.TrimSpace(filter.Operation); operation != "" {
		selectors = append(selectors, repository.SelectBy("operation", "=", operation))
	}
	if outcome := strings.TrimSpace(string(filter.Outcome)); outcome != "" {
		selectors = append(selectors, repository.SelectBy("outcome", "=", outcome))
	}
	if filter.Since != nil {
		selectors = append(selectors, selectCreatedSince(filter.Since.UTC()))
	}

	records, total, err := s.repo.List(ctx, selectors...)
	if err != nil {
		return core.CallJournalPage{}, err
	}
	out := make([]core.CallRecord, 0, len(records))
	for _, record := range records {
		out = append(out, callRecordToDomain(record))
	}
	return core.CallJournalPage{Records: out, Total: total}, nil
}

// Prune deletes records older than maxAge and reports how many went.
func (s *JournalStore) Prune(ctx context.Context, maxAge time.Duration) (int, error) {
	if s == nil || s.db == nil {
		return 0, fmt.Errorf("sqlstore: call journal store is not configured")
	}
	if maxAge <= 0 {
		return 0, fmt.Errorf("sqlstore: prune max age must be positive")
	}
	cutoff := s.now().UTC().Add(-maxAge)
	res, err := s.db.NewDelete().
		Model((*callRecord)(nil)).
		Where("created_at < ?", cutoff).
		Exec(ctx)
	if err != nil {
		return 0, err
	}
	affected, _ := res.RowsAffected()
	return int(affected), nil
}

// selectCreatedSince binds the cutoff as a time value so each dialect formats
// it the same way it stores created_at.
func selectCreatedSince(since time.Time) repository.SelectCriteria {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.created_at >= ?", since)
	}
}

func callRecordToDomain(record *callRecord) core.CallRecord {
	if record == nil {
		return core.CallRecord{}
	}
	return core.CallRecord{
		ID:         record.ID,
		RequestID:  record.RequestID,
		Operation:  record.Operation,
		Outcome:    core.Outcome(record.Outcome),
		StatusCode: record.StatusCode,
		DurationMS: record.DurationMS,
		Error:      record.ErrorMessage,
		CreatedAt:  record.CreatedAt.UTC(),
	}
}

func truncate(value string, limit int) string {
	if len(value) <= limit {
		return value
	}
	return strings.ToValidUTF8(value[:limit], "")
}
