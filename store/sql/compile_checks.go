package sqlstore

import "github.com/goliatone/go-shipcompliant/core"

var (
	_ core.CallJournal       = (*JournalStore)(nil)
	_ core.CallJournalReader = (*JournalStore)(nil)
)
