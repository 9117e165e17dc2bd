package mgmt

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Request is a fully built, not yet executed API call.
type Request[T any] interface {
	// Execute sends the request once and decodes a successful response into T.
	Execute(ctx context.Context) (T, error)
}

// JobsClient builds requests against the jobs resource.
type JobsClient interface {
	Get(jobID string) (Request[*Job], error)
	GetErrorDetails(jobID string) (Request[[]JobErrorDetails], error)
	ExportUsers(connectionID string, filter *UsersExportFilter) (Request[*Job], error)
	SendVerificationEmail(userID, clientID string) (Request[*Job], error)
	ImportUsers(connectionID string, usersFile File) (Request[*Job], error)
	ImportUsersWithOptions(connectionID string, usersFile File, opts *UsersImportOptions) (Request[*Job], error)
	WaitUntilComplete(ctx context.Context, jobID string) (*Job, error)
}

// Client is the entry point to the resource clients.
type Client interface {
	Jobs() JobsClient
	GetToken(ctx context.Context) (string, error)
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Config represents client configuration for building a Client.
//
// # Authentication precedence
//
//  1. APIToken: used directly as a static Bearer token.
//  2. ClientID/ClientSecret: the OAuth2 client_credentials grant against
//     TokenURL (default "<domain>/oauth/token") for Audience (default
//     "<domain>/api/v2/").
//  3. No credentials: requests are sent without an Authorization header.
//
// Fields carry env tags so a Config can be read with LoadConfigFromEnv.
type Config struct {
	// Domain is the tenant domain or base URL, e.g. "tenant.example.com".
	// A missing scheme defaults to https.
	Domain string `env:"DOMAIN"`

	APIToken     string `env:"API_TOKEN"`
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
	Audience     string `env:"AUDIENCE"`
	TokenURL     string `env:"TOKEN_URL"`

	// HTTPTimeout bounds a single HTTP attempt. Zero uses the default.
	HTTPTimeout time.Duration `env:"HTTP_TIMEOUT"`
	// RetryMax enables transport retries for 429/5xx and connection errors.
	// Zero, the default, sends every request exactly once.
	RetryMax     int           `env:"RETRY_MAX"`
	RetryWaitMin time.Duration `env:"RETRY_WAIT_MIN"`
	RetryWaitMax time.Duration `env:"RETRY_WAIT_MAX"`

	// Debug enables request/response logging when a Logger is set.
	Debug     bool   `env:"DEBUG"`
	UserAgent string `env:"USER_AGENT"`

	// Logger receives transport logs. With Debug set, every request and
	// response is also logged through LoggingInterceptor and
	// LoggingResponseInterceptor.
	Logger Logger
	// Registerer, when set, receives request count and latency metrics.
	Registerer prometheus.Registerer

	// Headers are added to every request, e.g. "X-Request-Source:batch".
	Headers map[string]string `env:"HEADERS"`
	// RequestInterceptors and ResponseInterceptors run around every request,
	// after the built-in header and logging interceptors.
	RequestInterceptors  []RequestInterceptor
	ResponseInterceptors []ResponseInterceptor
}
