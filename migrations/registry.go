// Package migrations exposes the embedded call journal schema per dialect.
package migrations

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"strings"

	shipcompliant "github.com/goliatone/go-shipcompliant"
)

const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"

	SourceLabel = "go-shipcompliant"

	rootPath = "data/sql/migrations"
)

// Source is the migration directory for one dialect.
type Source struct {
	Dialect string
	Path    string
	FS      fs.FS
}

type RegisterFunc func(ctx context.Context, dialect string, sourceLabel string, fsys fs.FS) error

// Sources returns the postgres and sqlite migration directories. Every
// *.up.sql file must have a matching *.down.sql file.
func Sources() ([]Source, error) {
	root := shipcompliant.GetMigrationsFS()
	sources := make([]Source, 0, 2)
	for _, dialect := range []string{DialectPostgres, DialectSQLite} {
		dir := rootPath
		if dialect == DialectSQLite {
			dir = path.Join(rootPath, "sqlite")
		}
		sub, err := fs.Sub(root, dir)
		if err != nil {
			return nil, fmt.Errorf("migrations: resolve %s: %w", dir, err)
		}
		if err := checkPairs(sub, dir); err != nil {
			return nil, err
		}
		sources = append(sources, Source{Dialect: dialect, Path: dir, FS: sub})
	}
	return sources, nil
}

// Register hands the source of each requested dialect to registerFn. No
// dialects means all of them.
func Register(ctx context.Context, registerFn RegisterFunc, dialects ...string) error {
	if registerFn == nil {
		return fmt.Errorf("migrations: register function is required")
	}
	sources, err := Sources()
	if err != nil {
		return err
	}

	wanted := map[string]bool{}
	for _, dialect := range dialects {
		normalized := strings.ToLower(strings.TrimSpace(dialect))
		if normalized != DialectPostgres && normalized != DialectSQLite {
			return fmt.Errorf("migrations: unsupported dialect %q", dialect)
		}
		wanted[normalized] = true
	}

	for _, source := range sources {
		if len(wanted) > 0 && !wanted[source.Dialect] {
			continue
		}
		if err := registerFn(ctx, source.Dialect, SourceLabel, source.FS); err != nil {
			return fmt.Errorf("migrations: register %s (%s): %w", source.Dialect, source.Path, err)
		}
	}
	return nil
}

func checkPairs(fsys fs.FS, dir string) error {
	ups, err := fs.Glob(fsys, "*.up.sql")
	if err != nil {
		return fmt.Errorf("migrations: glob %s: %w", dir, err)
	}
	if len(ups) == 0 {
		return fmt.Errorf("migrations: %s has no *.up.sql files", dir)
	}
	for _, up := range ups {
		down := strings.TrimSuffix(up, ".up.sql") + ".down.sql"
		if _, err := fs.Stat(fsys, down); err != nil {
			return fmt.Errorf("migrations: %s/%s has no down migration", dir, up)
		}
	}
	return nil
}
