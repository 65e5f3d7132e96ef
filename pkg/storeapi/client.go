// Package storeapi wraps the remote mail template store with a single
// failure-observation point: every failed call produces exactly one toast and
// is then returned to the caller unchanged.
package storeapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	pkgerrors "github.com/kunkunyu/mailtemplate/pkg/errors"
)

const (
	// BaseURL is the fixed origin of the store service.
	BaseURL = "https://www.yunext.cn"

	defaultTimeout        = 10 * time.Second
	responseBodyReadLimit = 10 << 20
	contentTypeJSON       = "application/json"
	headerContentType     = "Content-Type"
	headerAccept          = "Accept"
)

// Client is safe for concurrent use; its configuration is fixed at construction.
type Client struct {
	httpClient *http.Client
	baseURL    string
	notifier   Notifier
	messages   Messages
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout sets the timeout on the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient = &http.Client{Timeout: timeout}
		}
	}
}

// WithBaseURL points the client at another origin. Only meant for tests and
// local stubs of the store service.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// WithMessages replaces the user-facing toast texts. Empty fields keep the defaults.
func WithMessages(messages Messages) Option {
	return func(c *Client) {
		c.messages = messages.withDefaults()
	}
}

// NewClient builds the store client. The notifier receives one message per failed call.
func NewClient(notifier Notifier, opts ...Option) (*Client, error) {
	if notifier == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "store api notifier is required")
	}

	client := &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    BaseURL,
		notifier:   notifier,
		messages:   DefaultMessages,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	return client, nil
}

// Request describes one call against the store service.
type Request struct {
	Method string
	Path   string
	// Params are encoded into the query string; slices become repeated keys.
	Params map[string]any
	// Body is JSON encoded when non-nil.
	Body   any
	Header http.Header
}

// Response is a successful (2xx) store response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// DecodeJSON unmarshals the response body into dest.
func (r *Response) DecodeJSON(dest any) error {
	return json.Unmarshal(r.Body, dest)
}

// Do sends the request. Non-2xx responses are returned as *ResponseError;
// transport failures are returned exactly as the transport produced them.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "store api client not configured")
	}

	httpReq, err := c.newHTTPRequest(ctx, req)
	if err != nil {
		return nil, c.intercept(ctx, err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, c.intercept(ctx, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, readErr := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
	if !isSuccess(resp.StatusCode) {
		// The status line arrived, so a broken body is still a server response.
		respErr := newResponseError(resp, body)
		if readErr != nil {
			respErr.Problem = nil
			respErr.ReadErr = readErr
		}
		return nil, c.intercept(ctx, respErr)
	}
	if readErr != nil {
		return nil, c.intercept(ctx, readErr)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}

func isSuccess(status int) bool {
	return status >= http.StatusOK && status < http.StatusMultipleChoices
}

func (c *Client) newHTTPRequest(ctx context.Context, req Request) (*http.Request, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.buildURL(req.Path, req.Params), body)
	if err != nil {
		return nil, err
	}
	for key, values := range req.Header {
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}
	httpReq.Header.Set(headerAccept, contentTypeJSON)
	if req.Body != nil {
		httpReq.Header.Set(headerContentType, contentTypeJSON)
	}
	return httpReq, nil
}

func (c *Client) buildURL(path string, params map[string]any) string {
	url := strings.TrimRight(c.baseURL, "/") + "/" + strings.TrimLeft(path, "/")
	if query := EncodeParams(params); query != "" {
		url += "?" + query
	}
	return url
}
