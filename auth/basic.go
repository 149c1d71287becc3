package auth

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
)

const (
	HeaderAuthorization = "Authorization"
	RedactedValue       = "[REDACTED]"
)

// Secret holds a credential that must never reach logs or serialized output.
type Secret string

func (Secret) String() string { return RedactedValue }

func (Secret) GoString() string { return RedactedValue }

func (Secret) LogValue() slog.Value { return slog.StringValue(RedactedValue) }

func (Secret) MarshalJSON() ([]byte, error) { return []byte(`"` + RedactedValue + `"`), nil }

func (Secret) MarshalText() ([]byte, error) { return []byte(RedactedValue), nil }

// Reveal returns the raw value for the one place that needs it: the wire.
func (s Secret) Reveal() string { return string(s) }

func (s Secret) Empty() bool { return strings.TrimSpace(string(s)) == "" }

// BasicAuthHeader returns "Basic base64(username:password)". An empty password
// encodes as "username:".
func BasicAuthHeader(username string, password string) Secret {
	encoded := base64.StdEncoding.EncodeToString([]byte(username + ":" + password))
	return Secret("Basic " + encoded)
}

// BasicSigner applies a precomputed basic auth header to every request.
type BasicSigner struct {
	header Secret
}

func NewBasicSigner(username string, password string) *BasicSigner {
	return &BasicSigner{header: BasicAuthHeader(username, password)}
}

func (s *BasicSigner) Sign(_ context.Context, req *http.Request) error {
	if req == nil {
		return fmt.Errorf("auth: http request is required")
	}
	if s == nil || s.header.Empty() {
		return fmt.Errorf("auth: basic credentials are not configured")
	}
	req.Header.Set(HeaderAuthorization, s.header.Reveal())
	return nil
}

// Header exposes the header value, still wrapped.
func (s *BasicSigner) Header() Secret {
	if s == nil {
		return ""
	}
	return s.header
}
