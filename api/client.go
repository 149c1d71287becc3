// Package api is the typed ShipCompliant HTTP client. Each endpoint returns a
// ResponseValue on documented success or an *Error classified into one of four
// kinds.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/goliatone/go-shipcompliant/transport"
)

const (
	DefaultUserAgent       = "go-shipcompliant"
	DefaultRequestIDHeader = "X-Request-Id"
)

// documentedErrorStatuses carry an ErrorBody per the service schema.
var documentedErrorStatuses = []int{
	http.StatusBadRequest,
	http.StatusUnauthorized,
	http.StatusForbidden,
	http.StatusNotFound,
	http.StatusConflict,
	http.StatusUnprocessableEntity,
	http.StatusInternalServerError,
}

type Client struct {
	baseURL         string
	adapter         *transport.RESTAdapter
	requestIDHeader string
}

type Option func(*clientOptions)

type clientOptions struct {
	httpClient      transport.HTTPDoer
	signer          transport.Signer
	userAgent       string
	requestIDHeader string
	headers         map[string]string
}

func WithHTTPClient(client transport.HTTPDoer) Option {
	return func(o *clientOptions) {
		if client != nil {
			o.httpClient = client
		}
	}
}

func WithSigner(signer transport.Signer) Option {
	return func(o *clientOptions) {
		o.signer = signer
	}
}

func WithUserAgent(userAgent string) Option {
	return func(o *clientOptions) {
		if strings.TrimSpace(userAgent) != "" {
			o.userAgent = strings.TrimSpace(userAgent)
		}
	}
}

func WithRequestIDHeader(header string) Option {
	return func(o *clientOptions) {
		if strings.TrimSpace(header) != "" {
			o.requestIDHeader = strings.TrimSpace(header)
		}
	}
}

func WithHeader(key, value string) Option {
	return func(o *clientOptions) {
		if strings.TrimSpace(key) == "" {
			return
		}
		if o.headers == nil {
			o.headers = map[string]string{}
		}
		o.headers[strings.TrimSpace(key)] = value
	}
}

// NewClient validates baseURL without touching the network.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimSpace(baseURL)
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("api: invalid base url %q: %w", trimmed, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("api: base url %q must use http or https", trimmed)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("api: base url %q has no host", trimmed)
	}

	options := clientOptions{
		userAgent:       DefaultUserAgent,
		requestIDHeader: DefaultRequestIDHeader,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}

	adapter := transport.NewRESTAdapter(options.httpClient)
	adapter.Signer = options.signer
	adapter.DefaultHeaders["User-Agent"] = options.userAgent
	for key, value := range options.headers {
		adapter.DefaultHeaders[key] = value
	}

	return &Client{
		baseURL:         strings.TrimRight(trimmed, "/"),
		adapter:         adapter,
		requestIDHeader: options.requestIDHeader,
	}, nil
}

func (c *Client) BaseURL() string {
	if c == nil {
		return ""
	}
	return c.baseURL
}

type requestIDKey struct{}

func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, requestIDKey{}, strings.TrimSpace(requestID))
}

func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(requestIDKey{}).(string)
	return value
}

type endpoint struct {
	name    string
	method  string
	path    string
	query   url.Values
	body    any
	success []int
}

func send[T any](ctx context.Context, c *Client, ep endpoint) (*ResponseValue[T], error) {
	if c == nil || c.adapter == nil {
		return nil, other(ep.name, fmt.Errorf("api: client is not initialized"))
	}

	var payload []byte
	if ep.body != nil {
		encoded, err := json.Marshal(ep.body)
		if err != nil {
			return nil, other(ep.name, fmt.Errorf("api: encode %s request: %w", ep.name, err))
		}
		payload = encoded
	}

	headers := map[string]string{}
	if requestID := RequestIDFromContext(ctx); requestID != "" && c.requestIDHeader != "" {
		headers[c.requestIDHeader] = requestID
	}

	res, err := c.adapter.Do(ctx, transport.Request{
		Method:  ep.method,
		URL:     c.baseURL + ep.path,
		Query:   ep.query,
		Headers: headers,
		Body:    payload,
	})
	if err != nil {
		return nil, other(ep.name, err)
	}

	success := ep.success
	if len(success) == 0 {
		success = []int{http.StatusOK}
	}

	switch {
	case slices.Contains(success, res.StatusCode):
		body, err := readAndClose(res)
		if err != nil {
			return nil, other(ep.name, err)
		}
		var inner T
		if err := json.Unmarshal(body, &inner); err != nil {
			typed := NewInvalidResponsePayload(res.StatusCode, res.Header, body, err)
			typed.Operation = ep.name
			return nil, typed
		}
		return &ResponseValue[T]{Inner: inner, StatusCode: res.StatusCode, Headers: res.Header}, nil

	case slices.Contains(documentedErrorStatuses, res.StatusCode):
		body, err := readAndClose(res)
		if err != nil {
			return nil, other(ep.name, err)
		}
		var errBody ErrorBody
		if err := json.Unmarshal(body, &errBody); err != nil {
			typed := NewInvalidResponsePayload(res.StatusCode, res.Header, body, err)
			typed.Operation = ep.name
			return nil, typed
		}
		typed := NewErrorResponse(res.StatusCode, res.Header, &errBody)
		typed.Operation = ep.name
		return nil, typed

	default:
		typed := NewUnexpectedResponse(res)
		typed.Operation = ep.name
		return nil, typed
	}
}

func other(operation string, cause error) *Error {
	err := NewOther(cause)
	err.Operation = operation
	return err
}

func readAndClose(res *http.Response) ([]byte, error) {
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("api: read response body: %w", err)
	}
	return body, nil
}

func keyPath(format string, keys ...string) string {
	escaped := make([]any, 0, len(keys))
	for _, key := range keys {
		escaped = append(escaped, url.PathEscape(strings.TrimSpace(key)))
	}
	return fmt.Sprintf(format, escaped...)
}
