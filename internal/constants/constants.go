package constants

import "time"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second

	// ShortHTTPTimeout is used for quick operations such as token exchange.
	ShortHTTPTimeout = 10 * time.Second
)

// Retry limits. Retries are opt-in; a zero RetryMax means a single attempt.
const (
	// DefaultRetryWaitMin is the minimum wait between retries.
	DefaultRetryWaitMin = 1 * time.Second

	// DefaultRetryWaitMax is the maximum wait time between retries.
	DefaultRetryWaitMax = 30 * time.Second
)

// Job polling.
const (
	// DefaultPollInterval is used when waiting for a job to finish.
	DefaultPollInterval = 2 * time.Second

	// DefaultJobPollTimeout bounds how long a job is waited on.
	DefaultJobPollTimeout = 10 * time.Minute
)

// API paths, relative to the versioned base.
const (
	// APIBasePath is the versioned prefix every request path is joined to.
	APIBasePath = "/api/v2"

	// APIPathJobs is the jobs collection.
	APIPathJobs = "/jobs"

	// APIPathUsersExports creates a users export job.
	APIPathUsersExports = "/jobs/users-exports"

	// APIPathUsersImports creates a users import job.
	APIPathUsersImports = "/jobs/users-imports"

	// APIPathVerificationEmail creates a verification email job.
	APIPathVerificationEmail = "/jobs/verification-email"
)

// Content types.
const (
	// ContentTypeJSON is sent with every JSON-bodied request.
	ContentTypeJSON = "application/json"

	// ContentTypeUsersFile is declared for the users file part of an import.
	ContentTypeUsersFile = "text/json"
)

// Job statuses reported by the API.
const (
	// JobStatusPending is a queued job.
	JobStatusPending = "pending"

	// JobStatusProcessing is a running job.
	JobStatusProcessing = "processing"

	// JobStatusCompleted indicates a finished job.
	JobStatusCompleted = "completed"

	// JobStatusFailed indicates a failed job.
	JobStatusFailed = "failed"
)

// Format constants.
const (
	// FormatJSON for JSON output format.
	FormatJSON = "json"

	// FormatYAML for YAML output format.
	FormatYAML = "yaml"
)

// DefaultUserAgent is sent when Config.UserAgent is empty.
const DefaultUserAgent = "mgmt-client-go"
