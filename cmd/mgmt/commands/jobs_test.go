package commands

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/mgmt-client/internal/constants"
	"github.com/fivetwenty-io/mgmt-client/pkg/mgmt"
)

// findSubcommand finds a subcommand by name within a cobra command.
func findSubcommand(cmd *cobra.Command, name string) *cobra.Command {
	for _, c := range cmd.Commands() {
		if c.Name() == name {
			return c
		}
	}

	return nil
}

// useServer points the global settings at server for the duration of the test.
func useServer(t *testing.T, server *httptest.Server) {
	t.Helper()

	viper.Reset()
	viper.Set("domain", server.URL)
	viper.Set("token", "cli-token")
	viper.Set("output", constants.FormatJSON)

	t.Cleanup(viper.Reset)
}

func runJobsCommand(t *testing.T, args ...string) (*mgmt.Job, error) {
	t.Helper()

	var out bytes.Buffer

	cmd := NewJobsCommand()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	err := cmd.ExecuteContext(context.Background())
	if out.Len() == 0 {
		return nil, err
	}

	var job mgmt.Job
	require.NoError(t, json.Unmarshal(out.Bytes(), &job))

	return &job, err
}

func TestNewJobsCommand(t *testing.T) {
	t.Parallel()

	cmd := NewJobsCommand()
	assert.Equal(t, "jobs", cmd.Use)
	assert.Equal(t, []string{"job"}, cmd.Aliases)

	for _, name := range []string{"get", "errors", "export-users", "import-users", "send-verification-email", "wait"} {
		assert.NotNil(t, findSubcommand(cmd, name), "missing subcommand %s", name)
	}

	exportCmd := findSubcommand(cmd, "export-users")
	for _, flagName := range []string{"limit", "format", "field", "wait"} {
		assert.NotNil(t, exportCmd.Flags().Lookup(flagName), "Flag %s should exist", flagName)
	}

	importCmd := findSubcommand(cmd, "import-users")
	for _, flagName := range []string{"upsert", "external-id", "send-completion-email", "wait"} {
		assert.NotNil(t, importCmd.Flags().Lookup(flagName), "Flag %s should exist", flagName)
	}
}

//nolint:paralleltest // mutates the global viper settings
func TestJobsGetCommand(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v2/jobs/job_1", r.URL.Path)
		assert.Equal(t, "Bearer cli-token", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"id":"job_1","type":"users_import","status":"processing"}`))
	}))
	defer server.Close()

	useServer(t, server)

	job, err := runJobsCommand(t, "get", "job_1")
	require.NoError(t, err)
	assert.Equal(t, "job_1", job.ID)
	assert.Equal(t, constants.JobStatusProcessing, job.Status)
}

//nolint:paralleltest // mutates the global viper settings
func TestJobsExportUsersCommand(t *testing.T) {
	var body map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/v2/jobs/users-exports":
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			_, _ = w.Write([]byte(`{"id":"job_2","type":"users_export","status":"pending"}`))
		case r.Method == http.MethodGet && r.URL.Path == "/api/v2/jobs/job_2":
			_, _ = w.Write([]byte(`{"id":"job_2","type":"users_export","status":"completed","location":"https://files.example.com/export.json"}`))
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	}))
	defer server.Close()

	useServer(t, server)

	job, err := runJobsCommand(t, "export-users", "con_1",
		"--limit", "10", "--format", "csv", "--field", "email", "--field", "name:full_name", "--wait")
	require.NoError(t, err)
	assert.Equal(t, constants.JobStatusCompleted, job.Status)
	assert.Equal(t, "https://files.example.com/export.json", job.Location)

	assert.Equal(t, map[string]interface{}{
		"connection_id": "con_1",
		"limit":         float64(10),
		"format":        "csv",
		"fields": []interface{}{
			map[string]interface{}{"name": "email"},
			map[string]interface{}{"name": "name", "export_as": "full_name"},
		},
	}, body)
}

//nolint:paralleltest // mutates the global viper settings
func TestJobsExportUsersCommand_InvalidField(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
	}))
	defer server.Close()

	useServer(t, server)

	_, err := runJobsCommand(t, "export-users", "con_1", "--field", "email:")
	require.ErrorIs(t, err, constants.ErrInvalidFieldSpec)
}

//nolint:paralleltest // mutates the global viper settings
func TestJobsImportUsersCommand(t *testing.T) {
	usersFile := filepath.Join(t.TempDir(), "users.json")
	require.NoError(t, os.WriteFile(usersFile, []byte(`[{"email":"jane@example.com"}]`), 0o600))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v2/jobs/users-imports", r.URL.Path)
		assert.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "con_1", r.FormValue("connection_id"))
		assert.Equal(t, "true", r.FormValue("upsert"))
		assert.Equal(t, "batch-7", r.FormValue("external_id"))
		assert.Equal(t, "false", r.FormValue("send_completion_email"))

		file, header, err := r.FormFile("users")
		if assert.NoError(t, err) {
			defer func() { _ = file.Close() }()

			content, _ := io.ReadAll(file)
			assert.Equal(t, "users.json", header.Filename)
			assert.JSONEq(t, `[{"email":"jane@example.com"}]`, string(content))
		}

		_, _ = w.Write([]byte(`{"id":"job_3","type":"users_import","status":"pending","external_id":"batch-7"}`))
	}))
	defer server.Close()

	useServer(t, server)

	job, err := runJobsCommand(t, "import-users", "con_1", usersFile,
		"--upsert", "--external-id", "batch-7", "--send-completion-email=false")
	require.NoError(t, err)
	assert.Equal(t, "job_3", job.ID)
	assert.Equal(t, "batch-7", job.ExternalID)
}

//nolint:paralleltest // mutates the global viper settings
func TestJobsImportUsersCommand_MissingFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
	}))
	defer server.Close()

	useServer(t, server)

	_, err := runJobsCommand(t, "import-users", "con_1", filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	require.ErrorIs(t, err, os.ErrNotExist)
}

//nolint:paralleltest // mutates the global viper settings
func TestJobsSendVerificationEmailCommand(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		assert.Equal(t, `{"user_id":"auth0|1","client_id":"app_1"}`, string(data))
		_, _ = w.Write([]byte(`{"id":"job_4","type":"verification_email","status":"pending"}`))
	}))
	defer server.Close()

	useServer(t, server)

	job, err := runJobsCommand(t, "send-verification-email", "auth0|1", "--client-id", "app_1")
	require.NoError(t, err)
	assert.Equal(t, "job_4", job.ID)
}

//nolint:paralleltest // mutates the global viper settings
func TestJobsWaitCommand_FailedJob(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"job_5","type":"users_import","status":"failed","summary":{"failed":2,"updated":0,"inserted":1,"total":3}}`))
	}))
	defer server.Close()

	useServer(t, server)

	job, err := runJobsCommand(t, "wait", "job_5")
	require.ErrorIs(t, err, mgmt.ErrJobFailed)
	require.NotNil(t, job)
	assert.Equal(t, 2, job.Summary.Failed)
}

//nolint:paralleltest // mutates the global viper settings
func TestJobsCommand_NotConfigured(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	_, err := runJobsCommand(t, "get", "job_1")
	require.ErrorIs(t, err, constants.ErrNoDomainConfigured)

	viper.Set("domain", "tenant.example.com")

	_, err = runJobsCommand(t, "get", "job_1")
	require.ErrorIs(t, err, constants.ErrNoCredentialsConfigured)
}

//nolint:paralleltest // mutates the global viper settings
func TestVersionCommand(t *testing.T) {
	viper.Reset()
	viper.Set("output", constants.FormatJSON)
	t.Cleanup(viper.Reset)

	var out bytes.Buffer

	cmd := NewVersionCommand("1.2.3", "abc123", "2026-01-01")
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})

	require.NoError(t, cmd.Execute())

	var info VersionInfo
	require.NoError(t, json.Unmarshal(out.Bytes(), &info))
	assert.Equal(t, VersionInfo{Version: "1.2.3", Commit: "abc123", Built: "2026-01-01"}, info)
}

//nolint:paralleltest // mutates the global viper settings
func TestConfigShowCommand_MasksSecrets(t *testing.T) {
	viper.Reset()
	viper.Set("domain", "tenant.example.com")
	viper.Set("token", "secret-token-1234")
	viper.Set("output", constants.FormatJSON)
	t.Cleanup(viper.Reset)

	var out bytes.Buffer

	cmd := NewConfigCommand()
	cmd.SetArgs([]string{"show"})
	cmd.SetOut(&out)

	require.NoError(t, cmd.Execute())

	var shown Config
	require.NoError(t, json.Unmarshal(out.Bytes(), &shown))
	assert.Equal(t, "tenant.example.com", shown.Domain)
	assert.Equal(t, Masked+"1234", shown.Token)
	assert.NotContains(t, out.String(), "secret-token")
}

//nolint:paralleltest // mutates the global viper settings
func TestConfigSetCommand_UnknownKey(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cmd := NewConfigCommand()
	cmd.SetArgs([]string{"set", "colour", "blue"})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SilenceUsage = true

	require.ErrorIs(t, cmd.Execute(), ErrUnknownSetting)
}
