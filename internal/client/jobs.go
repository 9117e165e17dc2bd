package client

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/fivetwenty-io/mgmt-client/internal/constants"
	"github.com/fivetwenty-io/mgmt-client/internal/http"
	"github.com/fivetwenty-io/mgmt-client/internal/multipart"
	"github.com/fivetwenty-io/mgmt-client/pkg/mgmt"
)

// Body and form keys.
const (
	keyConnectionID        = "connection_id"
	keyUserID              = "user_id"
	keyClientID            = "client_id"
	keyUsers               = "users"
	keyUpsert              = "upsert"
	keyExternalID          = "external_id"
	keySendCompletionEmail = "send_completion_email"
)

// Route templates used as metric labels.
const (
	routeJob       = constants.APIPathJobs + "/{id}"
	routeJobErrors = constants.APIPathJobs + "/{id}/errors"
)

// JobsClient implements mgmt.JobsClient.
type JobsClient struct {
	httpClient   *http.Client
	pollInterval time.Duration
	pollTimeout  time.Duration
}

// NewJobsClient creates a new jobs client.
func NewJobsClient(httpClient *http.Client) *JobsClient {
	return &JobsClient{
		httpClient:   httpClient,
		pollInterval: constants.DefaultPollInterval,
		pollTimeout:  constants.DefaultJobPollTimeout,
	}
}

// Get implements mgmt.JobsClient.Get.
func (c *JobsClient) Get(jobID string) (mgmt.Request[*mgmt.Job], error) {
	err := requireNonEmpty(fieldJobID, jobID)
	if err != nil {
		return nil, err
	}

	return &deferredRequest[*mgmt.Job]{
		httpClient: c.httpClient,
		path:       jobPath(jobID),
		route:      routeJob,
		headers:    jsonHeaders(),
		target:     "job",
	}, nil
}

// GetErrorDetails implements mgmt.JobsClient.GetErrorDetails.
func (c *JobsClient) GetErrorDetails(jobID string) (mgmt.Request[[]mgmt.JobErrorDetails], error) {
	err := requireNonEmpty(fieldJobID, jobID)
	if err != nil {
		return nil, err
	}

	return &deferredRequest[[]mgmt.JobErrorDetails]{
		httpClient: c.httpClient,
		path:       jobPath(jobID) + "/errors",
		route:      routeJobErrors,
		headers:    jsonHeaders(),
		decode:     decodeErrorDetails,
		target:     "job error details",
	}, nil
}

// ExportUsers implements mgmt.JobsClient.ExportUsers.
func (c *JobsClient) ExportUsers(connectionID string, filter *mgmt.UsersExportFilter) (mgmt.Request[*mgmt.Job], error) {
	err := requireNonEmpty(fieldConnectionID, connectionID)
	if err != nil {
		return nil, err
	}

	params := mgmt.Params{}
	params.Set(keyConnectionID, connectionID)
	params.Merge(filter.AsParams())

	return &deferredRequest[*mgmt.Job]{
		httpClient: c.httpClient,
		path:       constants.APIPathUsersExports,
		route:      constants.APIPathUsersExports,
		params:     params,
		target:     "job",
	}, nil
}

// SendVerificationEmail implements mgmt.JobsClient.SendVerificationEmail. An
// empty clientID leaves client_id out of the body.
func (c *JobsClient) SendVerificationEmail(userID, clientID string) (mgmt.Request[*mgmt.Job], error) {
	err := requireNonEmpty(fieldUserID, userID)
	if err != nil {
		return nil, err
	}

	params := mgmt.Params{}
	params.Set(keyUserID, userID)

	if clientID != "" {
		params.Set(keyClientID, clientID)
	}

	return &deferredRequest[*mgmt.Job]{
		httpClient: c.httpClient,
		path:       constants.APIPathVerificationEmail,
		route:      constants.APIPathVerificationEmail,
		params:     params,
		target:     "job",
	}, nil
}

// ImportUsers implements mgmt.JobsClient.ImportUsers.
func (c *JobsClient) ImportUsers(connectionID string, usersFile mgmt.File) (mgmt.Request[*mgmt.Job], error) {
	return c.ImportUsersWithOptions(connectionID, usersFile, nil)
}

// ImportUsersWithOptions implements mgmt.JobsClient.ImportUsersWithOptions.
// The file is read when the request is executed.
func (c *JobsClient) ImportUsersWithOptions(
	connectionID string,
	usersFile mgmt.File,
	opts *mgmt.UsersImportOptions,
) (mgmt.Request[*mgmt.Job], error) {
	err := requireNonEmpty(fieldConnectionID, connectionID)
	if err != nil {
		return nil, err
	}

	err = requireFile(fieldUsersFile, usersFile)
	if err != nil {
		return nil, err
	}

	trailing := importOptionParts(opts)

	body := func() ([]byte, string, error) {
		content, err := usersFile.ReadAll()
		if err != nil {
			return nil, "", fmt.Errorf("reading users file: %w", err)
		}

		parts := multipart.Body{
			multipart.KeyValue(keyConnectionID, connectionID),
			multipart.File(keyUsers, usersFile.Name(), constants.ContentTypeUsersFile, content),
		}
		parts = append(parts, trailing...)

		encoded, err := multipart.Encode(parts)
		if err != nil {
			return nil, "", fmt.Errorf("encoding users import: %w", err)
		}

		return encoded.Bytes, encoded.ContentType, nil
	}

	return &deferredRequest[*mgmt.Job]{
		httpClient: c.httpClient,
		path:       constants.APIPathUsersImports,
		route:      constants.APIPathUsersImports,
		body:       body,
		target:     "job",
	}, nil
}

// importOptionParts renders the options that were set, in a fixed order.
func importOptionParts(opts *mgmt.UsersImportOptions) []multipart.Part {
	if opts == nil {
		return nil
	}

	var parts []multipart.Part

	if opts.Upsert != nil {
		parts = append(parts, multipart.KeyValue(keyUpsert, strconv.FormatBool(*opts.Upsert)))
	}

	if opts.ExternalID != "" {
		parts = append(parts, multipart.KeyValue(keyExternalID, opts.ExternalID))
	}

	if opts.SendCompletionEmail != nil {
		parts = append(parts, multipart.KeyValue(keySendCompletionEmail, strconv.FormatBool(*opts.SendCompletionEmail)))
	}

	return parts
}

// WaitUntilComplete implements mgmt.JobsClient.WaitUntilComplete.
// It polls the job until it reaches a terminal status (completed or failed).
func (c *JobsClient) WaitUntilComplete(ctx context.Context, jobID string) (*mgmt.Job, error) {
	req, err := c.Get(jobID)
	if err != nil {
		return nil, err
	}

	pollCtx, cancel := context.WithTimeout(ctx, c.pollTimeout)
	defer cancel()

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	var last *mgmt.Job

	for {
		job, err := req.Execute(pollCtx)
		if err != nil {
			if last != nil && pollCtx.Err() != nil {
				return last, fmt.Errorf("waiting for job %s to complete: %w", jobID, pollCtx.Err())
			}

			return nil, fmt.Errorf("getting job status: %w", err)
		}

		last = job

		switch job.Status {
		case constants.JobStatusCompleted:
			return job, nil
		case constants.JobStatusFailed:
			return job, fmt.Errorf("%w: %s", mgmt.ErrJobFailed, describeFailure(job))
		}

		select {
		case <-pollCtx.Done():
			// Return the last known state on timeout
			return job, fmt.Errorf("waiting for job %s to complete: %w", jobID, pollCtx.Err())
		case <-ticker.C:
		}
	}
}

// describeFailure formats a failed job for display.
func describeFailure(job *mgmt.Job) string {
	if job.Summary == nil {
		return fmt.Sprintf("job %s (%s)", job.ID, job.Type)
	}

	return fmt.Sprintf("job %s (%s): %d of %d records failed",
		job.ID, job.Type, job.Summary.Failed, job.Summary.Total)
}

func jobPath(jobID string) string {
	return constants.APIPathJobs + "/" + url.PathEscape(jobID)
}

// decodeErrorDetails decodes the error list of a job. A job without failed
// records is answered with the job document itself, which yields no details.
func decodeErrorDetails(target string, data []byte) ([]mgmt.JobErrorDetails, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		_, err := decodeJSON[*mgmt.Job](target, trimmed)
		if err != nil {
			return nil, err
		}

		return []mgmt.JobErrorDetails{}, nil
	}

	return decodeJSON[[]mgmt.JobErrorDetails](target, trimmed)
}
