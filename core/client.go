package core

import (
	"context"
	"strings"
	"sync"

	glog "github.com/goliatone/go-logger/glog"

	"github.com/goliatone/go-shipcompliant/api"
	"github.com/goliatone/go-shipcompliant/auth"
	"github.com/goliatone/go-shipcompliant/bridge"
)

// Client is the handle host code holds. It owns one typed API client and one
// bridge runner for its whole life. All methods are safe for concurrent use.
type Client struct {
	config           Config
	api              *api.Client
	runner           *bridge.Runner
	logger           Logger
	loggerProvider   LoggerProvider
	metricsRecorder  MetricsRecorder
	configProvider   ConfigProvider
	optionsResolver  OptionsResolver
	journal          CallJournal
	requestIDFactory func() string
	closeOnce        sync.Once
}

type ClientDependencies struct {
	Logger          Logger
	LoggerProvider  LoggerProvider
	MetricsRecorder MetricsRecorder
	ConfigProvider  ConfigProvider
	OptionsResolver OptionsResolver
	CallJournal     CallJournal
}

// NewClient validates configuration and the base URL without any network
// access. An unreachable but well-formed URL is accepted; the first call
// reports the transport failure.
func NewClient(baseURL string, username string, password string, opts ...Option) (*Client, error) {
	builder := defaultClientBuilder()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&builder)
	}

	provider, logger := glog.Resolve("shipcompliant", builder.loggerProvider, builder.logger)
	logger = glog.Ensure(logger)
	if provider != nil {
		if named := provider.GetLogger("shipcompliant"); named != nil {
			logger = glog.Ensure(named)
		}
	}

	if builder.metricsRecorder == nil {
		builder.metricsRecorder = NopMetricsRecorder{}
	}
	if builder.configProvider == nil {
		builder.configProvider = NewCfgxConfigProvider(nil)
	}
	if builder.optionsResolver == nil {
		builder.optionsResolver = GoOptionsResolver{}
	}
	if builder.journal == nil {
		builder.journal = NopCallJournal{}
	}
	if builder.requestIDFactory == nil {
		builder.requestIDFactory = defaultClientBuilder().requestIDFactory
	}

	defaults := DefaultConfig()
	loaded, err := builder.configProvider.Load(context.Background(), defaults)
	if err != nil {
		return nil, invalidConfig(err)
	}
	finalConfig, err := builder.optionsResolver.Resolve(defaults, loaded, builder.runtimeConfig)
	if err != nil {
		return nil, invalidConfig(err)
	}

	apiClient, err := api.NewClient(baseURL,
		api.WithHTTPClient(builder.httpClient),
		api.WithSigner(auth.NewBasicSigner(username, password)),
		api.WithUserAgent(finalConfig.UserAgent),
		api.WithRequestIDHeader(finalConfig.RequestIDHeader),
	)
	if err != nil {
		return nil, invalidConfig(err).WithMetadata(map[string]any{
			"base_url": strings.TrimSpace(baseURL),
		})
	}

	client := &Client{
		config:           finalConfig,
		api:              apiClient,
		runner:           bridge.New(finalConfig.Workers),
		logger:           logger,
		loggerProvider:   provider,
		metricsRecorder:  builder.metricsRecorder,
		configProvider:   builder.configProvider,
		optionsResolver:  builder.optionsResolver,
		journal:          builder.journal,
		requestIDFactory: builder.requestIDFactory,
	}
	client.logger.Debug("shipcompliant client ready",
		"service", finalConfig.ServiceName,
		"base_url", apiClient.BaseURL(),
		"workers", finalConfig.Workers,
	)
	return client, nil
}

func (c *Client) Config() Config {
	if c == nil {
		return Config{}
	}
	return c.config
}

func (c *Client) BaseURL() string {
	if c == nil {
		return ""
	}
	return c.api.BaseURL()
}

func (c *Client) Dependencies() ClientDependencies {
	if c == nil {
		return ClientDependencies{}
	}
	return ClientDependencies{
		Logger:          c.logger,
		LoggerProvider:  c.loggerProvider,
		MetricsRecorder: c.metricsRecorder,
		ConfigProvider:  c.configProvider,
		OptionsResolver: c.optionsResolver,
		CallJournal:     c.journal,
	}
}

// Close waits for in-flight calls and stops the runner's workers. Later calls
// raise SHIPCOMPLIANT_CLIENT_CLOSED. Close is idempotent.
func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	var err error
	c.closeOnce.Do(func() {
		err = c.runner.Close()
		c.logger.Debug("shipcompliant client closed", "service", c.config.ServiceName)
	})
	return err
}
