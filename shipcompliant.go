// Package shipcompliant is the entry point for the ShipCompliant client.
//
// It re-exports the core client and options, and wires the go-command
// handlers through Facade. Scripts reach the same client through the host
// package.
package shipcompliant

import "github.com/goliatone/go-shipcompliant/core"

type Config = core.Config

type Option = core.Option

type Client = core.Client

type ClientDependencies = core.ClientDependencies
type MetricsRecorder = core.MetricsRecorder
type CallJournal = core.CallJournal
type CallJournalReader = core.CallJournalReader
type CallJournalFilter = core.CallJournalFilter
type CallJournalPage = core.CallJournalPage
type CallRecord = core.CallRecord
type Outcome = core.Outcome

var (
	WithConfig           = core.WithConfig
	WithLogger           = core.WithLogger
	WithLoggerProvider   = core.WithLoggerProvider
	WithMetricsRecorder  = core.WithMetricsRecorder
	WithConfigProvider   = core.WithConfigProvider
	WithOptionsResolver  = core.WithOptionsResolver
	WithHTTPClient       = core.WithHTTPClient
	WithCallJournal      = core.WithCallJournal
	WithRequestIDFactory = core.WithRequestIDFactory
)

func DefaultConfig() Config {
	return core.DefaultConfig()
}

// NewClient builds a client for baseURL authenticated with HTTP Basic
// credentials.
func NewClient(baseURL string, username string, password string, opts ...Option) (*Client, error) {
	return core.NewClient(baseURL, username, password, opts...)
}
