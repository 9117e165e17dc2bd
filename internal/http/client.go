package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/hashicorp/go-retryablehttp"

	"github.com/fivetwenty-io/mgmt-client/internal/auth"
	"github.com/fivetwenty-io/mgmt-client/internal/constants"
	"github.com/fivetwenty-io/mgmt-client/pkg/mgmt"
)

// Logger interface for the HTTP layer.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Client sends requests to a base URL. It is safe for concurrent use.
type Client struct {
	baseURL      string
	httpClient   *retryablehttp.Client
	tokenManager auth.TokenManager
	logger       Logger
	debug        bool
	userAgent    string
	interceptors *mgmt.InterceptorChain
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger.
func WithLogger(logger Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables request/response logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithRetryConfig enables retries of 429, 5xx and connection errors. Retry
// attempts are logged through the configured Logger.
func WithRetryConfig(retryMax int, waitMin, waitMax time.Duration) Option {
	return func(c *Client) {
		c.httpClient.RetryMax = retryMax
		c.httpClient.RetryWaitMin = waitMin
		c.httpClient.RetryWaitMax = waitMax
	}
}

// WithTimeout bounds a single attempt.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.HTTPClient.Timeout = timeout
	}
}

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient.HTTPClient = httpClient
	}
}

// WithInterceptors runs chain around every request.
func WithInterceptors(chain *mgmt.InterceptorChain) Option {
	return func(c *Client) {
		c.interceptors = chain
	}
}

// NewClient creates a client for baseURL. tokenManager may be nil, in which
// case no Authorization header is sent. Requests are attempted once unless
// WithRetryConfig is given.
func NewClient(baseURL string, tokenManager auth.TokenManager, opts ...Option) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 0
	retryClient.Logger = nil
	retryClient.HTTPClient.Timeout = constants.DefaultHTTPTimeout
	// Hand the final response back untouched so error payloads can be decoded.
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	client := &Client{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		httpClient:   retryClient,
		tokenManager: tokenManager,
		userAgent:    constants.DefaultUserAgent,
		interceptors: mgmt.NewInterceptorChain(),
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.logger != nil && retryClient.RetryMax > 0 {
		retryClient.Logger = &leveledLogger{logger: client.logger}
	}

	return client
}

// Request represents an API request. Body is marshaled as JSON; RawBody is
// sent as is with ContentType. Headers are applied last.
type Request struct {
	Method      string
	Path        string
	Route       string
	Body        interface{}
	RawBody     []byte
	ContentType string
	Headers     map[string]string
}

// Response represents an API response.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// Do sends req. A non-2xx status returns both the response and an
// *mgmt.APIError; a failed connection returns an error wrapping
// mgmt.ErrTransport.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	body, contentType, err := requestBody(req)
	if err != nil {
		return nil, err
	}

	headers, err := c.buildHeaders(ctx, req, contentType)
	if err != nil {
		return nil, err
	}

	intercepted := &mgmt.InterceptedRequest{
		Method:  req.Method,
		Path:    req.Path,
		Route:   req.Route,
		Headers: headers,
		Body:    body,
	}

	err = c.interceptors.ExecuteRequestInterceptors(ctx, intercepted)
	if err != nil {
		return nil, err
	}

	fullURL := c.baseURL + req.Path

	var rawBody interface{}
	if intercepted.Body != nil {
		rawBody = intercepted.Body
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, fullURL, rawBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	httpReq.Header = intercepted.Headers

	c.logRequest(req.Method, fullURL)

	start := time.Now()

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		_ = c.interceptors.ExecuteResponseInterceptors(ctx, intercepted, &mgmt.InterceptedResponse{Error: err})

		return nil, fmt.Errorf("%w: %s %s: %w", mgmt.ErrTransport, req.Method, req.Path, err)
	}

	defer func() {
		_ = httpResp.Body.Close()
	}()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response body: %w", mgmt.ErrTransport, err)
	}

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       respBody,
	}

	c.logResponse(resp.StatusCode, time.Since(start))

	var apiErr error
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr = mgmt.ParseAPIError(resp.StatusCode, respBody)
	}

	err = c.interceptors.ExecuteResponseInterceptors(ctx, intercepted, &mgmt.InterceptedResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Headers,
		Body:       resp.Body,
		Error:      apiErr,
	})
	if err != nil {
		return resp, err
	}

	if apiErr != nil {
		return resp, apiErr
	}

	return resp, nil
}

// RequestOption adjusts a request sent through the verb helpers.
type RequestOption func(*Request)

// WithRoute sets the path template reported to interceptors.
func WithRoute(route string) RequestOption {
	return func(r *Request) {
		r.Route = route
	}
}

// WithRequestHeaders adds headers to a single request.
func WithRequestHeaders(headers map[string]string) RequestOption {
	return func(r *Request) {
		r.Headers = headers
	}
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, buildRequest(&Request{Method: http.MethodGet, Path: path}, opts))
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body interface{}, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, buildRequest(&Request{Method: http.MethodPost, Path: path, Body: body}, opts))
}

// PostRaw performs a POST request with a pre-encoded body.
func (c *Client) PostRaw(
	ctx context.Context,
	path string,
	body []byte,
	contentType string,
	opts ...RequestOption,
) (*Response, error) {
	return c.Do(ctx, buildRequest(&Request{Method: http.MethodPost, Path: path, RawBody: body, ContentType: contentType}, opts))
}

func buildRequest(req *Request, opts []RequestOption) *Request {
	for _, opt := range opts {
		opt(req)
	}

	return req
}

func requestBody(req *Request) ([]byte, string, error) {
	if req.RawBody != nil {
		return req.RawBody, req.ContentType, nil
	}

	if req.Body == nil {
		return nil, req.ContentType, nil
	}

	data, err := json.Marshal(req.Body)
	if err != nil {
		return nil, "", fmt.Errorf("marshaling request body: %w", err)
	}

	return data, constants.ContentTypeJSON, nil
}

var errMissingToken = errors.New("token manager returned an empty token")

func (c *Client) buildHeaders(ctx context.Context, req *Request, contentType string) (http.Header, error) {
	headers := make(http.Header)
	headers.Set("Accept", constants.ContentTypeJSON)
	headers.Set("User-Agent", c.userAgent)

	if contentType != "" {
		headers.Set("Content-Type", contentType)
	}

	if c.tokenManager != nil {
		token, err := c.tokenManager.GetToken(ctx)
		if err != nil {
			return nil, fmt.Errorf("getting access token: %w", err)
		}

		if token == "" {
			return nil, errMissingToken
		}

		headers.Set("Authorization", "Bearer "+token)
	}

	for key, value := range req.Headers {
		headers.Set(key, value)
	}

	return headers, nil
}

func (c *Client) logRequest(method, fullURL string) {
	if !c.debug || c.logger == nil {
		return
	}

	c.logger.Debug("HTTP Request", map[string]interface{}{
		"method": method,
		"url":    fullURL,
	})
}

func (c *Client) logResponse(statusCode int, duration time.Duration) {
	if !c.debug || c.logger == nil {
		return
	}

	c.logger.Debug("HTTP Response", map[string]interface{}{
		"status":   statusCode,
		"duration": duration.String(),
	})
}

// leveledLogger bridges retryablehttp's key/value logging to Logger.
type leveledLogger struct {
	logger Logger
}

func (l *leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, kvFields(keysAndValues))
}

func (l *leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Info(msg, kvFields(keysAndValues))
}

func (l *leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, kvFields(keysAndValues))
}

func (l *leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.Warn(msg, kvFields(keysAndValues))
}

func kvFields(keysAndValues []interface{}) map[string]interface{} {
	fields := make(map[string]interface{}, len(keysAndValues)/2)

	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fields[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}

	return fields
}

// Compile-time check that the bridge satisfies retryablehttp.
var _ retryablehttp.LeveledLogger = (*leveledLogger)(nil)

