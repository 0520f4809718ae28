// Package client executes reconciled tool calls against the wrapped API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bobmcallan/notion-mcp/internal/common"
	"github.com/bobmcallan/notion-mcp/internal/openapi"
)

// maxResponseSize caps the response body to prevent OOM from unexpectedly
// large responses.
const maxResponseSize = 50 << 20 // 50MB

// Client executes OperationDescriptors against the wrapped API. Static auth
// headers are injected on every request.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *common.Logger
	headers    map[string]string
}

// New creates a client targeting the given base URL with the given static
// auth headers.
func New(baseURL string, headers map[string]string, timeout time.Duration, logger *common.Logger) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
		headers:    headers,
	}
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ExecutionResult is the normalized outcome of one successful call.
// Headers are case-insensitive; repeated headers fold into one
// comma-joined string via FoldedHeaders.
type ExecutionResult struct {
	Status  int
	Body    []byte
	Data    any
	Headers http.Header
}

// FoldedHeaders returns the response headers with multi-valued entries
// joined by commas.
func (r *ExecutionResult) FoldedHeaders() map[string]string {
	return foldHeaders(r.Headers)
}

// HTTPError is the typed error for a 4xx/5xx response. It carries the parsed
// remote body and headers so callers can react to the structured content
// (resource-not-found vs. validation error) instead of a flat message.
type HTTPError struct {
	Status  int
	Body    any
	Headers http.Header
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("wrapped API returned %d", e.Status)
}

// FoldedHeaders returns the error response headers with multi-valued
// entries joined by commas.
func (e *HTTPError) FoldedHeaders() map[string]string {
	return foldHeaders(e.Headers)
}

func foldHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, vals := range h {
		out[k] = strings.Join(vals, ", ")
	}
	return out
}

// Execute runs one operation with a reconciled argument set. Arguments are
// partitioned into URL parameters (the operation's declared path/query/header
// list) and body parameters (everything else). Operations without a declared
// request body treat all remaining arguments as URL parameters.
func (c *Client) Execute(ctx context.Context, op *openapi.OperationDescriptor, args map[string]any) (*ExecutionResult, error) {
	declared := op.ParameterNames()

	urlArgs := make(map[string]any)
	bodyArgs := make(map[string]any)
	for name, value := range args {
		if _, ok := declared[name]; ok || !op.HasBody {
			urlArgs[name] = value
		} else {
			bodyArgs[name] = value
		}
	}

	path := op.Path
	query := url.Values{}
	headerArgs := make(map[string]string)
	for name, value := range urlArgs {
		param, ok := declared[name]
		if !ok {
			// No declared body: undeclared arguments ride along as query.
			query.Set(name, stringifyParam(value))
			continue
		}
		switch param.In {
		case "path":
			path = strings.ReplaceAll(path, "{"+name+"}", url.PathEscape(stringifyParam(value)))
		case "query":
			query.Set(name, stringifyParam(value))
		case "header":
			headerArgs[name] = stringifyParam(value)
		}
	}
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var bodyReader io.Reader
	contentType := ""
	if op.HasBody && len(op.FileParams) > 0 {
		mp, err := buildMultipartBody(bodyArgs, op.FileParams)
		if err != nil {
			return nil, err
		}
		bodyReader = mp.buf
		contentType = mp.contentType
	} else if op.HasBody && len(bodyArgs) > 0 {
		data, err := json.Marshal(bodyArgs)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
		contentType = "application/json"
	}

	c.logger.Debug().Str("method", op.Method).Str("path", path).Str("operation", op.OperationID).Msg("api request")

	req, err := http.NewRequestWithContext(ctx, op.Method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, err
	}
	// No body means no Content-Type: an empty JSON body with a JSON content
	// type is rejected by some servers.
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	for k, v := range headerArgs {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)
	if err != nil {
		c.logger.Error().Str("method", op.Method).Str("path", path).Int64("duration_ms", duration.Milliseconds()).Str("error", err.Error()).Msg("api request failed")
		return nil, fmt.Errorf("api request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	c.logger.Debug().Int("status", resp.StatusCode).Int64("duration_ms", duration.Milliseconds()).Msg("api response")

	data := parseBody(body)
	if resp.StatusCode >= 400 {
		return nil, &HTTPError{Status: resp.StatusCode, Body: data, Headers: resp.Header}
	}

	return &ExecutionResult{
		Status:  resp.StatusCode,
		Body:    body,
		Data:    data,
		Headers: resp.Header,
	}, nil
}

// parseBody parses a response body as JSON, falling back to the raw string.
func parseBody(body []byte) any {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	var data any
	if err := json.Unmarshal(body, &data); err != nil {
		return string(body)
	}
	return data
}

// stringifyParam renders an argument for path/query/header placement.
// Structures serialize as JSON; primitives use their natural form.
func stringifyParam(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case nil:
		return ""
	case map[string]any, []any:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(data)
	default:
		return fmt.Sprint(v)
	}
}
