package core

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	goerrors "github.com/goliatone/go-errors"
)

type fixedConfigProvider struct {
	cfg Config
	err error
}

func (p *fixedConfigProvider) Load(context.Context, Config) (Config, error) {
	return p.cfg, p.err
}

func TestNewClient_DefaultDependencies(t *testing.T) {
	client := newTestClient(t, "https://ws.shipcompliant.test")
	deps := client.Dependencies()
	if deps.Logger == nil {
		t.Fatalf("expected default logger")
	}
	if deps.LoggerProvider == nil {
		t.Fatalf("expected default logger provider")
	}
	if deps.MetricsRecorder == nil {
		t.Fatalf("expected default metrics recorder")
	}
	if deps.ConfigProvider == nil || deps.OptionsResolver == nil {
		t.Fatalf("expected default config provider and options resolver")
	}
	if deps.CallJournal == nil {
		t.Fatalf("expected default call journal")
	}
	if got := client.Config(); got != DefaultConfig() {
		t.Fatalf("expected default config, got %+v", got)
	}
}

func TestNewClient_InvalidBaseURLFailsAtConstruction(t *testing.T) {
	for _, raw := range []string{"", "ws.shipcompliant.test", "ftp://ws.shipcompliant.test", "http://[::1"} {
		client, err := NewClient(raw, "merchant", "s3cret")
		if err == nil {
			_ = client.Close()
			t.Fatalf("expected construction error for %q", raw)
		}
		if client != nil {
			t.Fatalf("expected no partial client for %q", raw)
		}
		var rich *goerrors.Error
		if !goerrors.As(err, &rich) {
			t.Fatalf("expected go-errors envelope, got %T", err)
		}
		if rich.TextCode != ErrorInvalidConfig || rich.Category != goerrors.CategoryValidation {
			t.Fatalf("expected invalid config envelope for %q, got %q %q", raw, rich.Category, rich.TextCode)
		}
		if !strings.HasPrefix(rich.Message, RaisedPrefix) {
			t.Fatalf("expected raised prefix, got %q", rich.Message)
		}
	}
}

func TestNewClient_UnreachableBaseURLConstructsLazily(t *testing.T) {
	client := newTestClient(t, "http://127.0.0.1:1")

	_, err := client.GetSalesOrder(context.Background(), "SO-1")
	if err == nil {
		t.Fatalf("expected first call to raise")
	}
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) || rich.TextCode != ErrorTransportFailure {
		t.Fatalf("expected transport failure, got %v", err)
	}
}

func TestNewClient_ResolvesLayeredConfig(t *testing.T) {
	fake, server := newFakeShipCompliant(t, nil)
	client := newTestClient(t, server.URL,
		WithHTTPClient(server.Client()),
		WithConfigProvider(NewCfgxConfigProvider(StaticRawConfigLoader{Values: map[string]any{
			"workers":    2,
			"user_agent": "from-config",
		}})),
		WithConfig(Config{UserAgent: "from-runtime", RequestIDHeader: "X-Correlation-Id"}),
		WithRequestIDFactory(func() string { return "req-fixed" }),
	)

	cfg := client.Config()
	if cfg.Workers != 2 {
		t.Fatalf("expected loaded workers=2, got %d", cfg.Workers)
	}
	if cfg.UserAgent != "from-runtime" {
		t.Fatalf("expected runtime user agent to win, got %q", cfg.UserAgent)
	}
	if cfg.ServiceName != "shipcompliant" {
		t.Fatalf("expected default service name, got %q", cfg.ServiceName)
	}

	if _, err := client.GetProduct(context.Background(), "P-1"); err != nil {
		t.Fatalf("get product: %v", err)
	}
	req := fake.last(t)
	if got := req.header.Get("User-Agent"); got != "from-runtime" {
		t.Fatalf("expected user agent on the wire, got %q", got)
	}
	if got := req.header.Get("X-Correlation-Id"); got != "req-fixed" {
		t.Fatalf("expected request id under configured header, got %q", got)
	}
	if got := req.header.Get("Authorization"); got != "Basic bWVyY2hhbnQ6czNjcmV0" {
		t.Fatalf("expected basic auth header, got %q", got)
	}
}

func TestNewClient_InvalidConfigFails(t *testing.T) {
	_, err := NewClient("https://ws.shipcompliant.test", "merchant", "s3cret",
		WithConfig(Config{Workers: -1}),
	)
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) || rich.TextCode != ErrorInvalidConfig {
		t.Fatalf("expected invalid config error, got %v", err)
	}

	_, err = NewClient("https://ws.shipcompliant.test", "merchant", "s3cret",
		WithConfigProvider(&fixedConfigProvider{err: errors.New("config file unreadable")}),
	)
	if !goerrors.As(err, &rich) || !strings.Contains(rich.Message, "config file unreadable") {
		t.Fatalf("expected provider failure to surface, got %v", err)
	}
}

func TestClient_CloseIsIdempotentAndRejectsCalls(t *testing.T) {
	fake, server := newFakeShipCompliant(t, nil)
	client, err := NewClient(server.URL, "merchant", "s3cret", WithHTTPClient(server.Client()))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if err := client.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := client.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}

	_, err = client.GetSalesOrder(context.Background(), "SO-1")
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		t.Fatalf("expected go-errors envelope, got %T", err)
	}
	if rich.TextCode != ErrorClientClosed || rich.Category != goerrors.CategoryOperation {
		t.Fatalf("expected client closed envelope, got %q %q", rich.Category, rich.TextCode)
	}
	if len(fake.snapshot()) != 0 {
		t.Fatalf("expected no request after close")
	}
}

func TestClient_NilReceiverRaisesClosed(t *testing.T) {
	var client *Client
	_, err := client.GetProduct(context.Background(), "P-1")
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) || rich.TextCode != ErrorClientClosed {
		t.Fatalf("expected closed error for nil client, got %v", err)
	}
	if client.Close() != nil || client.BaseURL() != "" {
		t.Fatalf("expected nil client helpers to be safe")
	}
}

func TestConfigValidate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	cases := map[string]Config{
		"service name": {Workers: 1, UserAgent: "ua", RequestIDHeader: "X-Request-Id"},
		"workers":      {ServiceName: "s", Workers: 0, UserAgent: "ua", RequestIDHeader: "X-Request-Id"},
		"too many":     {ServiceName: "s", Workers: 1000, UserAgent: "ua", RequestIDHeader: "X-Request-Id"},
		"user agent":   {ServiceName: "s", Workers: 1, RequestIDHeader: "X-Request-Id"},
		"header":       {ServiceName: "s", Workers: 1, UserAgent: "ua", RequestIDHeader: "X Request"},
	}
	for name, cfg := range cases {
		if err := cfg.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}

func TestGoOptionsResolver_RuntimeOverridesLoaded(t *testing.T) {
	loaded := DefaultConfig()
	loaded.Workers = 8
	loaded.ServiceName = "from-config"

	resolved, err := GoOptionsResolver{}.Resolve(DefaultConfig(), loaded, Config{ServiceName: "from-runtime"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolved.ServiceName != "from-runtime" || resolved.Workers != 8 {
		t.Fatalf("unexpected resolved config: %+v", resolved)
	}
	if resolved.RequestIDHeader != http.CanonicalHeaderKey("x-request-id") {
		t.Fatalf("expected default header to survive, got %q", resolved.RequestIDHeader)
	}
}
