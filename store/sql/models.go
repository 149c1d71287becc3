package sqlstore

import (
	"time"

	"github.com/uptrace/bun"
)

type callRecord struct {
	bun.BaseModel `bun:"table:shipcompliant_call_journal,alias:scj"`

	ID           string    `bun:"id,pk"`
	RequestID    string    `bun:"request_id,notnull"`
	Operation    string    `bun:"operation,notnull"`
	Outcome      string    `bun:"outcome,notnull"`
	StatusCode   int       `bun:"status_code,notnull"`
	DurationMS   int64     `bun:"duration_ms,notnull"`
	ErrorMessage string    `bun:"error_message,notnull"`
	CreatedAt    time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}
