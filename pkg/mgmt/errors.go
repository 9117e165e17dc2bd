package mgmt

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/goccy/go-json"
)

// Sentinel errors for errors.Is checks. Static errors for err113 compliance.
var (
	ErrInvalidArgument     = errors.New("invalid argument")
	ErrTransport           = errors.New("transport error")
	ErrDecode              = errors.New("decode error")
	ErrJobFailed           = errors.New("job failed")
	ErrConfigRequired      = errors.New("config is required")
	ErrDomainRequired      = errors.New("domain is required")
	ErrNoTokenManager      = errors.New("no token manager configured")
	ErrEmptyResponseBody   = errors.New("empty response body")
	ErrClientSecretMissing = errors.New("client secret is required with client id")
)

// InvalidArgumentError reports a required argument that was not supplied.
type InvalidArgumentError struct {
	Field string
}

// Error implements the error interface.
func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("'%s' cannot be null!", e.Field)
}

// Is matches ErrInvalidArgument.
func (e *InvalidArgumentError) Is(target error) bool {
	return target == ErrInvalidArgument
}

// APIError is a non-2xx response. Title, Message and ErrorCode are filled
// from the error payload when the body carries one; Body always holds the raw
// response.
type APIError struct {
	StatusCode int    `json:"statusCode"          yaml:"status_code"`
	Title      string `json:"error"               yaml:"error"`
	Message    string `json:"message"             yaml:"message"`
	ErrorCode  string `json:"errorCode,omitempty" yaml:"error_code,omitempty"`
	Body       []byte `json:"-"                   yaml:"-"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}

	if e.ErrorCode != "" {
		return fmt.Sprintf("%s: %s (status: %d, code: %s)", e.Title, e.Message, e.StatusCode, e.ErrorCode)
	}

	return fmt.Sprintf("%s: %s (status: %d)", e.Title, e.Message, e.StatusCode)
}

// Is matches ErrTransport.
func (e *APIError) Is(target error) bool {
	return target == ErrTransport
}

// ParseAPIError builds an APIError for a response with the given status.
// A body that is not an error payload still yields an error carrying the
// status code.
func ParseAPIError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{}

	err := json.Unmarshal(body, apiErr)
	if err != nil {
		apiErr = &APIError{}
	}

	apiErr.StatusCode = statusCode
	apiErr.Body = body

	if apiErr.Title == "" {
		apiErr.Title = http.StatusText(statusCode)
	}

	return apiErr
}

// DecodeError reports a successful response whose body does not match the
// expected type.
type DecodeError struct {
	Target string
	Err    error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding %s response: %v", e.Target, e.Err)
}

// Unwrap returns the underlying error.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Is matches ErrDecode.
func (e *DecodeError) Is(target error) bool {
	return target == ErrDecode
}

// IsNotFound checks if the error is a not found error.
func IsNotFound(err error) bool {
	return hasStatus(err, http.StatusNotFound)
}

// IsUnauthorized checks if the error is an unauthorized error.
func IsUnauthorized(err error) bool {
	return hasStatus(err, http.StatusUnauthorized)
}

// IsForbidden checks if the error is a forbidden error.
func IsForbidden(err error) bool {
	return hasStatus(err, http.StatusForbidden)
}

// IsRateLimited checks if the error is a rate limit error.
func IsRateLimited(err error) bool {
	return hasStatus(err, http.StatusTooManyRequests)
}

func hasStatus(err error, statusCode int) bool {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == statusCode
	}

	return false
}
