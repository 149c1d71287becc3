package core

import (
	"fmt"
	"net/textproto"
	"strings"
)

const maxWorkers = 256

type Config struct {
	ServiceName     string `koanf:"service_name" mapstructure:"service_name"`
	Workers         int    `koanf:"workers" mapstructure:"workers"`
	UserAgent       string `koanf:"user_agent" mapstructure:"user_agent"`
	RequestIDHeader string `koanf:"request_id_header" mapstructure:"request_id_header"`
}

func DefaultConfig() Config {
	return Config{
		ServiceName:     "shipcompliant",
		Workers:         4,
		UserAgent:       "go-shipcompliant",
		RequestIDHeader: "X-Request-Id",
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.ServiceName) == "" {
		return fmt.Errorf("core: service_name is required")
	}
	if c.Workers < 1 || c.Workers > maxWorkers {
		return fmt.Errorf("core: workers must be between 1 and %d, got %d", maxWorkers, c.Workers)
	}
	if strings.TrimSpace(c.UserAgent) == "" {
		return fmt.Errorf("core: user_agent is required")
	}
	header := strings.TrimSpace(c.RequestIDHeader)
	if header == "" {
		return fmt.Errorf("core: request_id_header is required")
	}
	if textproto.CanonicalMIMEHeaderKey(header) == "" || strings.ContainsAny(header, " :\t") {
		return fmt.Errorf("core: request_id_header %q is not a valid header name", header)
	}
	return nil
}
