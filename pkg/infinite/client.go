package infinite

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/hashicorp/go-hclog"
)

// APIKeyParam is the query parameter carrying Config.APIKey.
const APIKeyParam = "infinite_api_key"

// Client is the single choke point for calls to the platform. It issues the
// HTTP request and interprets the {data, response} envelope.
type Client struct {
	config     *Config
	httpClient *http.Client
	logger     hclog.Logger
}

// ClientOption customises a Client.
type ClientOption func(*Client)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger hclog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithHTTPClient replaces the HTTP client built from the config.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a new platform client. cfg is copied; defaults are
// applied to the copy before validation.
func NewClient(cfg *Config, opts ...ClientOption) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}

	config := *cfg
	config.ApplyDefaults()
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid client config: %w", err)
	}

	c := &Client{
		config: &config,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		c.httpClient = config.NewHTTPClient()
	}
	if c.logger == nil {
		c.logger = hclog.NewNullLogger()
	}
	c.logger = c.logger.Named("infinite")

	return c, nil
}

// Endpoints returns the configured resource base paths.
func (c *Client) Endpoints() Endpoints {
	return c.config.Endpoints
}

// BaseURL returns the configured API base URL.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// Logger returns the client's logger for resource services to name.
func (c *Client) Logger() hclog.Logger {
	return c.logger
}

// Params are query string parameters. Values are formatted with
// FormatParam.
type Params map[string]any

type queryOptions struct {
	alwaysResolve    bool
	forceContentType bool
	contentType      string
}

// QueryOption adjusts a single RawQuery call.
type QueryOption func(*queryOptions)

// AlwaysResolve skips the response.success check.
func AlwaysResolve() QueryOption {
	return AlwaysResolveIf(true)
}

// AlwaysResolveIf skips the response.success check when b is true.
func AlwaysResolveIf(b bool) QueryOption {
	return func(o *queryOptions) {
		o.alwaysResolve = o.alwaysResolve || b
	}
}

// ForceContentType sets the Content-Type header of a non-GET request. An
// empty value removes the header entirely.
func ForceContentType(contentType string) QueryOption {
	return func(o *queryOptions) {
		o.forceContentType = true
		o.contentType = contentType
	}
}

// NormalizeMethod returns method upper-cased if it is GET, POST, PUT or
// DELETE, and GET otherwise.
func NormalizeMethod(method string) string {
	switch m := strings.ToUpper(method); m {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete:
		return m
	}
	return http.MethodGet
}

// RawQuery issues one call to BaseURL+path. query and body may both be set.
//
// The envelope is returned when AlwaysResolve is given or response.success
// is true. A successful transport with success == false yields a
// *LogicalFailureError; network failures, non-2xx statuses and unreadable
// bodies yield a *TransportError.
func (c *Client) RawQuery(ctx context.Context, method, path string, query Params, body any, opts ...QueryOption) (*Envelope, error) {
	var o queryOptions
	for _, opt := range opts {
		opt(&o)
	}

	method = NormalizeMethod(method)
	endpoint := c.buildURL(path, query)

	bodyReader, contentType, err := encodeBody(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if o.forceContentType && method != http.MethodGet {
		if o.contentType == "" {
			req.Header.Del("Content-Type")
		} else {
			req.Header.Set("Content-Type", o.contentType)
		}
	}

	c.logger.Debug("http request", "method", method, "path", path, "query", len(query), "body", body != nil)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Method: method, URL: path, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Method: method, URL: path, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &TransportError{
			Method:     method,
			URL:        path,
			StatusCode: resp.StatusCode,
			Body:       respBody,
			Err:        fmt.Errorf("API returned status %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
		}
	}

	env, err := decodeEnvelope(respBody)
	if err != nil {
		return nil, &TransportError{Method: method, URL: path, StatusCode: resp.StatusCode, Body: respBody, Err: err}
	}

	if o.alwaysResolve || env.Succeeded() {
		return env, nil
	}

	message := DefaultFailureMessage
	if env.Response != nil && env.Response.Message != "" {
		message = env.Response.Message
	}
	c.logger.Debug("api reported failure", "method", method, "path", path, "message", message)

	return nil, &LogicalFailureError{Message: message, Envelope: env}
}

// Get performs a GET. The second argument is query parameters.
func (c *Client) Get(ctx context.Context, path string, query Params, opts ...QueryOption) (*Envelope, error) {
	return c.RawQuery(ctx, http.MethodGet, path, query, nil, opts...)
}

// Post performs a POST. Note the order: body first, then query parameters.
func (c *Client) Post(ctx context.Context, path string, body any, query Params, opts ...QueryOption) (*Envelope, error) {
	return c.RawQuery(ctx, http.MethodPost, path, query, body, opts...)
}

// Put performs a PUT with body then query parameters.
func (c *Client) Put(ctx context.Context, path string, body any, query Params, opts ...QueryOption) (*Envelope, error) {
	return c.RawQuery(ctx, http.MethodPut, path, query, body, opts...)
}

// Delete performs a DELETE with body then query parameters.
func (c *Client) Delete(ctx context.Context, path string, body any, query Params, opts ...QueryOption) (*Envelope, error) {
	return c.RawQuery(ctx, http.MethodDelete, path, query, body, opts...)
}

// URL returns the absolute URL for path and query, including the API key.
func (c *Client) URL(path string, query Params) string {
	return c.buildURL(path, query)
}

// buildURL constructs a URL with query parameters
func (c *Client) buildURL(path string, params Params) string {
	endpoint := c.config.BaseURL + path

	values := url.Values{}
	for k, v := range params {
		values.Set(k, FormatParam(v))
	}
	if c.config.APIKey != "" {
		values.Set(APIKeyParam, c.config.APIKey)
	}
	if len(values) == 0 {
		return endpoint
	}

	sep := "?"
	if strings.Contains(endpoint, "?") {
		sep = "&"
	}
	return endpoint + sep + values.Encode()
}

// FormatParam renders a query parameter value.
func FormatParam(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case []string:
		return strings.Join(val, ",")
	case fmt.Stringer:
		return val.String()
	}
	return fmt.Sprint(v)
}

func encodeBody(body any) (io.Reader, string, error) {
	switch b := body.(type) {
	case nil:
		return nil, "", nil
	case []byte:
		return bytes.NewReader(b), "application/octet-stream", nil
	case string:
		return strings.NewReader(b), "text/plain; charset=utf-8", nil
	case io.Reader:
		return b, "application/octet-stream", nil
	}

	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to marshal request body: %w", err)
	}
	return bytes.NewReader(bodyBytes), "application/json", nil
}

// decodeEnvelope parses a response body. Bodies that are not a JSON object
// are kept verbatim as the envelope's data; a JSON object that does not fit
// the envelope shape is an error.
func decodeEnvelope(body []byte) (*Envelope, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return &Envelope{keys: map[string]struct{}{}}, nil
	}

	if trimmed[0] != '{' || !json.Valid(trimmed) {
		return &Envelope{
			Data: string(body),
			keys: map[string]struct{}{"data": {}},
		}, nil
	}

	var env Envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, fmt.Errorf("failed to decode response envelope: %w", err)
	}
	return &env, nil
}
