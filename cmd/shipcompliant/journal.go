package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-shipcompliant/core"
)

type journalListOptions struct {
	operation string
	outcome   string
	since     time.Duration
	limit     int
	offset    int
}

func newJournalCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Inspect the call journal",
	}
	cmd.AddCommand(newJournalListCmd(root), newJournalPruneCmd(root))
	return cmd
}

func newJournalListCmd(root *rootOptions) *cobra.Command {
	opts := journalListOptions{}
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded calls, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJournalList(cmd.Context(), *root, opts, time.Now(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	fs := cmd.Flags()
	fs.StringVar(&opts.operation, "operation", "", "only calls to this operation")
	fs.StringVar(&opts.outcome, "outcome", "", "only calls with this outcome")
	fs.DurationVar(&opts.since, "since", 0, "only calls newer than this age, e.g. 24h")
	fs.IntVar(&opts.limit, "limit", 50, "page size")
	fs.IntVar(&opts.offset, "offset", 0, "page offset")
	return cmd
}

func newJournalPruneCmd(root *rootOptions) *cobra.Command {
	var olderThan time.Duration
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete recorded calls older than --older-than",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJournalPrune(cmd.Context(), *root, olderThan, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	cmd.Flags().DurationVar(&olderThan, "older-than", 30*24*time.Hour, "minimum age of deleted calls")
	return cmd
}

type journalEntry struct {
	ID         string    `json:"id"`
	RequestID  string    `json:"request_id"`
	Operation  string    `json:"operation"`
	Outcome    string    `json:"outcome"`
	StatusCode int       `json:"status_code,omitempty"`
	DurationMS int64     `json:"duration_ms"`
	Error      string    `json:"error,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type journalListing struct {
	Total   int            `json:"total"`
	Records []journalEntry `json:"records"`
}

func openJournalSession(ctx context.Context, root rootOptions, stderr io.Writer) (*session, error) {
	s, err := newSession(ctx, root, stderr)
	if err != nil {
		return nil, err
	}
	if s.journal == nil {
		_ = s.Close()
		return nil, fmt.Errorf("call journal is not configured (--journal-dsn or %s)", envJournalDSN)
	}
	return s, nil
}

func runJournalList(ctx context.Context, root rootOptions, opts journalListOptions, now time.Time, stdout io.Writer, stderr io.Writer) error {
	if opts.limit < 0 || opts.offset < 0 {
		return fmt.Errorf("limit and offset must not be negative")
	}
	s, err := openJournalSession(ctx, root, stderr)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	filter := core.CallJournalFilter{
		Operation: opts.operation,
		Outcome:   core.Outcome(opts.outcome),
		Limit:     opts.limit,
		Offset:    opts.offset,
	}
	if opts.since > 0 {
		since := now.Add(-opts.since)
		filter.Since = &since
	}
	page, err := s.journal.List(ctx, filter)
	if err != nil {
		return err
	}

	listing := journalListing{Total: page.Total, Records: make([]journalEntry, 0, len(page.Records))}
	for _, record := range page.Records {
		listing.Records = append(listing.Records, journalEntry{
			ID:         record.ID,
			RequestID:  record.RequestID,
			Operation:  record.Operation,
			Outcome:    string(record.Outcome),
			StatusCode: record.StatusCode,
			DurationMS: record.DurationMS,
			Error:      record.Error,
			CreatedAt:  record.CreatedAt,
		})
	}
	return writeJSON(stdout, listing)
}

func runJournalPrune(ctx context.Context, root rootOptions, olderThan time.Duration, stdout io.Writer, stderr io.Writer) error {
	if olderThan <= 0 {
		return fmt.Errorf("--older-than must be positive")
	}
	s, err := openJournalSession(ctx, root, stderr)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	removed, err := s.journal.Prune(ctx, olderThan)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(stdout, "pruned %d calls\n", removed)
	return err
}
