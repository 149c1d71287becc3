package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-shipcompliant/adapters/gologger"
	"github.com/goliatone/go-shipcompliant/core"
	sqlstore "github.com/goliatone/go-shipcompliant/store/sql"
)

const (
	envBaseURL       = "SHIPCOMPLIANT_BASE_URL"
	envUsername      = "SHIPCOMPLIANT_USERNAME"
	envPassword      = "SHIPCOMPLIANT_PASSWORD"
	envJournalDriver = "SHIPCOMPLIANT_JOURNAL_DRIVER"
	envJournalDSN    = "SHIPCOMPLIANT_JOURNAL_DSN"
)

type rootOptions struct {
	baseURL  string
	username string
	password string

	configPath string
	envFile    string

	journalDriver string
	journalDSN    string

	logLevel string
}

// fileConfig is the YAML layout read by --config. The client section is
// handed to the core config provider as is.
type fileConfig struct {
	BaseURL  string         `yaml:"base_url"`
	Username string         `yaml:"username"`
	Password string         `yaml:"password"`
	Client   map[string]any `yaml:"client"`
	Journal  struct {
		Driver string `yaml:"driver"`
		DSN    string `yaml:"dsn"`
	} `yaml:"journal"`
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "shipcompliant",
		Short:         "Call the ShipCompliant API from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.envFile == "" {
				return nil
			}
			if err := godotenv.Load(opts.envFile); err != nil {
				return fmt.Errorf("load env file %s: %w", opts.envFile, err)
			}
			return nil
		},
	}

	fs := cmd.PersistentFlags()
	fs.StringVar(&opts.baseURL, "base-url", "", "API base url (env "+envBaseURL+")")
	fs.StringVar(&opts.username, "username", "", "API username (env "+envUsername+")")
	fs.StringVar(&opts.password, "password", "", "API password (env "+envPassword+")")
	fs.StringVar(&opts.configPath, "config", "", "yaml config path")
	fs.StringVar(&opts.envFile, "env-file", "", "dotenv file loaded before reading the environment")
	fs.StringVar(&opts.journalDriver, "journal-driver", "", "call journal driver: sqlite3 or postgres (env "+envJournalDriver+")")
	fs.StringVar(&opts.journalDSN, "journal-dsn", "", "call journal DSN, journal disabled when empty (env "+envJournalDSN+")")
	fs.StringVar(&opts.logLevel, "log-level", "warn", "log level: trace, debug, info, warn or error")

	cmd.AddCommand(
		newCallCmd(opts),
		newScriptCmd(opts),
		newJournalCmd(opts),
		newOperationsCmd(),
	)
	return cmd
}

// settings is the merged view of flags, environment and config file, in that
// order of precedence.
type settings struct {
	baseURL       string
	username      string
	password      string
	client        map[string]any
	journalDriver string
	journalDSN    string
}

func resolveSettings(opts rootOptions) (settings, error) {
	file := fileConfig{}
	if opts.configPath != "" {
		raw, err := os.ReadFile(opts.configPath)
		if err != nil {
			return settings{}, fmt.Errorf("read config %s: %w", opts.configPath, err)
		}
		if err := yaml.Unmarshal(raw, &file); err != nil {
			return settings{}, fmt.Errorf("parse config %s: %w", opts.configPath, err)
		}
	}
	return settings{
		baseURL:       firstNonEmpty(opts.baseURL, os.Getenv(envBaseURL), file.BaseURL),
		username:      firstNonEmpty(opts.username, os.Getenv(envUsername), file.Username),
		password:      firstNonEmpty(opts.password, os.Getenv(envPassword), file.Password),
		client:        file.Client,
		journalDriver: firstNonEmpty(opts.journalDriver, os.Getenv(envJournalDriver), file.Journal.Driver),
		journalDSN:    firstNonEmpty(opts.journalDSN, os.Getenv(envJournalDSN), file.Journal.DSN),
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

func parseLogLevel(value string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "trace":
		return gologger.LevelTrace, nil
	case "fatal":
		return gologger.LevelFatal, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(value)); err != nil {
		return 0, fmt.Errorf("invalid log level %q", value)
	}
	return level, nil
}

// session owns the client and the optional journal database for one command.
type session struct {
	settings settings
	provider *gologger.SlogProvider
	client   *core.Client
	journal  *sqlstore.JournalStore
	closers  []func() error
}

func openJournal(ctx context.Context, s *session) error {
	if s.settings.journalDSN == "" {
		return nil
	}
	db, err := sqlstore.Open(ctx, sqlstore.Options{
		Driver: s.settings.journalDriver,
		DSN:    s.settings.journalDSN,
	})
	if err != nil {
		return fmt.Errorf("open call journal: %w", err)
	}
	s.closers = append(s.closers, db.Close)
	store, err := sqlstore.NewJournalStoreFromPersistence(db)
	if err != nil {
		return fmt.Errorf("open call journal: %w", err)
	}
	s.journal = store
	return nil
}

func newSession(ctx context.Context, opts rootOptions, logOut io.Writer) (*session, error) {
	resolved, err := resolveSettings(opts)
	if err != nil {
		return nil, err
	}
	level, err := parseLogLevel(opts.logLevel)
	if err != nil {
		return nil, err
	}
	s := &session{
		settings: resolved,
		provider: gologger.NewSlogProvider(slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: level}))),
	}
	if err := openJournal(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *session) clientOptions() []core.Option {
	options := []core.Option{
		core.WithLoggerProvider(s.provider),
		core.WithConfigProvider(core.NewCfgxConfigProvider(core.StaticRawConfigLoader{Values: s.settings.client})),
	}
	if s.journal != nil {
		options = append(options, core.WithCallJournal(s.journal))
	}
	return options
}

func (s *session) openClient(extra ...core.Option) (*core.Client, error) {
	if s.settings.baseURL == "" {
		return nil, fmt.Errorf("base url is required (--base-url or %s)", envBaseURL)
	}
	if s.settings.username == "" {
		return nil, fmt.Errorf("username is required (--username or %s)", envUsername)
	}
	client, err := core.NewClient(s.settings.baseURL, s.settings.username, s.settings.password,
		append(s.clientOptions(), extra...)...)
	if err != nil {
		return nil, err
	}
	s.client = client
	return client, nil
}

func (s *session) Close() error {
	var errs []error
	if s.client != nil {
		errs = append(errs, s.client.Close())
	}
	for i := len(s.closers) - 1; i >= 0; i-- {
		errs = append(errs, s.closers[i]())
	}
	return errors.Join(errs...)
}

func writeJSON(out io.Writer, value any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}
