package migrations

import (
	"context"
	"database/sql"
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	_ "github.com/mattn/go-sqlite3"

	shipcompliant "github.com/goliatone/go-shipcompliant"
)

func TestSources_ReturnsPostgresAndSQLite(t *testing.T) {
	sources, err := Sources()
	if err != nil {
		t.Fatalf("sources: %v", err)
	}
	if len(sources) != 2 {
		t.Fatalf("expected 2 sources, got %d", len(sources))
	}
	if sources[0].Dialect != DialectPostgres || sources[0].Path != "data/sql/migrations" {
		t.Fatalf("unexpected postgres source %#v", sources[0])
	}
	if sources[1].Dialect != DialectSQLite || sources[1].Path != "data/sql/migrations/sqlite" {
		t.Fatalf("unexpected sqlite source %#v", sources[1])
	}
	for _, source := range sources {
		matches, err := fs.Glob(source.FS, "*.up.sql")
		if err != nil {
			t.Fatalf("glob %s: %v", source.Dialect, err)
		}
		if len(matches) == 0 {
			t.Fatalf("expected %s migration files, got none", source.Dialect)
		}
	}
}

func TestRegister_OnlyRequestedDialect(t *testing.T) {
	var calls []string
	err := Register(context.Background(), func(_ context.Context, dialect string, label string, _ fs.FS) error {
		calls = append(calls, dialect+":"+label)
		return nil
	}, "SQLite")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if len(calls) != 1 || calls[0] != DialectSQLite+":"+SourceLabel {
		t.Fatalf("expected only sqlite registration, got %v", calls)
	}
}

func TestRegister_AllDialectsByDefault(t *testing.T) {
	var calls []string
	err := Register(context.Background(), func(_ context.Context, dialect string, _ string, _ fs.FS) error {
		calls = append(calls, dialect)
		return nil
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if strings.Join(calls, ",") != DialectPostgres+","+DialectSQLite {
		t.Fatalf("expected both dialects, got %v", calls)
	}
}

func TestRegister_RejectsBadInput(t *testing.T) {
	if err := Register(context.Background(), nil); err == nil {
		t.Fatalf("expected error for nil register function")
	}
	noop := func(context.Context, string, string, fs.FS) error { return nil }
	if err := Register(context.Background(), noop, "mysql"); err == nil {
		t.Fatalf("expected error for unsupported dialect")
	}
	failing := func(context.Context, string, string, fs.FS) error { return errors.New("boom") }
	if err := Register(context.Background(), failing, DialectPostgres); err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("expected register failure to propagate, got %v", err)
	}
}

func TestCheckPairs_RequiresDownMigration(t *testing.T) {
	fsys := fstest.MapFS{
		"00001_a.up.sql":   {Data: []byte("SELECT 1;")},
		"00001_a.down.sql": {Data: []byte("SELECT 1;")},
		"00002_b.up.sql":   {Data: []byte("SELECT 1;")},
	}
	if err := checkPairs(fsys, "test"); err == nil || !strings.Contains(err.Error(), "00002_b.up.sql") {
		t.Fatalf("expected missing down migration error, got %v", err)
	}
	if err := checkPairs(fstest.MapFS{}, "empty"); err == nil {
		t.Fatalf("expected error for empty directory")
	}
}

func TestCallJournalMigrationPair_ExistsForBothDialects(t *testing.T) {
	root := shipcompliant.GetMigrationsFS()
	paths := []string{
		"data/sql/migrations/00001_shipcompliant_call_journal.up.sql",
		"data/sql/migrations/00001_shipcompliant_call_journal.down.sql",
		"data/sql/migrations/sqlite/00001_shipcompliant_call_journal.up.sql",
		"data/sql/migrations/sqlite/00001_shipcompliant_call_journal.down.sql",
	}
	for _, migrationPath := range paths {
		content, err := fs.ReadFile(root, migrationPath)
		if err != nil {
			t.Fatalf("read migration %s: %v", migrationPath, err)
		}
		if strings.TrimSpace(string(content)) == "" {
			t.Fatalf("expected migration %s to have SQL content", migrationPath)
		}
	}
}

func TestSQLiteCallJournalMigration_ApplyAndRollback(t *testing.T) {
	db, err := sql.Open("sqlite3", "file:migrations-call-journal?mode=memory&cache=shared&_foreign_keys=on")
	if err != nil {
		t.Fatalf("open sqlite db: %v", err)
	}
	defer func() { _ = db.Close() }()
	db.SetMaxOpenConns(1)

	sqliteMigrations, err := fs.Sub(shipcompliant.GetMigrationsFS(), "data/sql/migrations/sqlite")
	if err != nil {
		t.Fatalf("resolve sqlite migrations: %v", err)
	}
	ctx := context.Background()

	if err := execSQLMigration(ctx, db, sqliteMigrations, "00001_shipcompliant_call_journal.up.sql"); err != nil {
		t.Fatalf("apply up migration: %v", err)
	}
	if _, err := db.ExecContext(ctx,
		`INSERT INTO shipcompliant_call_journal (id, request_id, operation, outcome) VALUES (?, ?, ?, ?)`,
		"rec_1", "req_1", "get_product", "success",
	); err != nil {
		t.Fatalf("insert journal row: %v", err)
	}
	if _, err := db.ExecContext(ctx,
		`INSERT INTO shipcompliant_call_journal (id, request_id, operation, outcome) VALUES (?, ?, ?, ?)`,
		"rec_1", "req_2", "get_product", "success",
	); err == nil {
		t.Fatalf("expected primary key violation")
	}

	var statusCode int
	var errorMessage string
	if err := db.QueryRowContext(ctx,
		`SELECT status_code, error_message FROM shipcompliant_call_journal WHERE id = ?`, "rec_1",
	).Scan(&statusCode, &errorMessage); err != nil {
		t.Fatalf("read journal row: %v", err)
	}
	if statusCode != 0 || errorMessage != "" {
		t.Fatalf("expected column defaults, got %d %q", statusCode, errorMessage)
	}

	if err := execSQLMigration(ctx, db, sqliteMigrations, "00001_shipcompliant_call_journal.down.sql"); err != nil {
		t.Fatalf("apply down migration: %v", err)
	}
	var name string
	err = db.QueryRowContext(ctx,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, "shipcompliant_call_journal",
	).Scan(&name)
	if err != sql.ErrNoRows {
		t.Fatalf("expected table to be dropped, got %q %v", name, err)
	}
}

func execSQLMigration(ctx context.Context, db *sql.DB, fsys fs.FS, filename string) error {
	content, err := fs.ReadFile(fsys, filepath.Clean(filename))
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, string(content))
	return err
}
