package commands

import (
	"bytes"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/mgmt-client/internal/constants"
	"github.com/fivetwenty-io/mgmt-client/pkg/mgmt"
)

func TestParseFieldSpecs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		specs   []string
		want    []mgmt.UsersExportField
		wantErr bool
	}{
		{name: "none", specs: nil, want: []mgmt.UsersExportField{}},
		{
			name:  "plain and aliased",
			specs: []string{"email", "user_metadata.plan:plan"},
			want: []mgmt.UsersExportField{
				{Name: "email"},
				{Name: "user_metadata.plan", ExportAs: "plan"},
			},
		},
		{name: "spaces trimmed", specs: []string{" name : full_name "}, want: []mgmt.UsersExportField{{Name: "name", ExportAs: "full_name"}}},
		{name: "empty name", specs: []string{":alias"}, wantErr: true},
		{name: "empty alias", specs: []string{"email:"}, wantErr: true},
		{name: "blank", specs: []string{" "}, wantErr: true},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseFieldSpecs(testCase.specs)
			if testCase.wantErr {
				require.ErrorIs(t, err, constants.ErrInvalidFieldSpec)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, testCase.want, got)
		})
	}
}

func TestConfigFromViper(t *testing.T) {
	t.Parallel()

	v := viper.New()
	v.Set("domain", " tenant.example.com ")
	v.Set("token", "token_1")
	v.Set("client-id", "client_1")
	v.Set("client-secret", "secret_1")
	v.Set("audience", "https://tenant.example.com/api/v2/")
	v.Set("token-url", "https://login.example.com/oauth/token")
	v.Set("retries", "3")
	v.Set("verbose", true)

	config := configFromViper(v)

	assert.Equal(t, "tenant.example.com", config.Domain)
	assert.Equal(t, "token_1", config.APIToken)
	assert.Equal(t, "client_1", config.ClientID)
	assert.Equal(t, "secret_1", config.ClientSecret)
	assert.Equal(t, "https://tenant.example.com/api/v2/", config.Audience)
	assert.Equal(t, "https://login.example.com/oauth/token", config.TokenURL)
	assert.Equal(t, 3, config.RetryMax)
	assert.True(t, config.Debug)
}

func TestValidateConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		config *mgmt.Config
		want   error
	}{
		{name: "no domain", config: &mgmt.Config{APIToken: "token"}, want: constants.ErrNoDomainConfigured},
		{name: "no credentials", config: &mgmt.Config{Domain: "tenant.example.com"}, want: constants.ErrNoCredentialsConfigured},
		{name: "token", config: &mgmt.Config{Domain: "tenant.example.com", APIToken: "token"}},
		{name: "client id", config: &mgmt.Config{Domain: "tenant.example.com", ClientID: "client_1"}},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			err := validateConfig(testCase.config)
			if testCase.want == nil {
				require.NoError(t, err)

				return
			}

			require.ErrorIs(t, err, testCase.want)
		})
	}
}

func TestMaskSecret(t *testing.T) {
	t.Parallel()

	assert.Empty(t, maskSecret(""))
	assert.Equal(t, Masked, maskSecret("abcd"))
	assert.Equal(t, Masked+"6789", maskSecret("0123456789"))
}

func TestWriteOutput(t *testing.T) {
	t.Parallel()

	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	job := &mgmt.Job{
		ID:           "job_1",
		Type:         "users_export",
		Status:       constants.JobStatusPending,
		CreatedAt:    &created,
		ConnectionID: "con_1",
		Limit:        5,
		Fields:       []mgmt.UsersExportField{{Name: "email"}, {Name: "name", ExportAs: "full_name"}},
	}

	t.Run("json", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		require.NoError(t, writeOutput(&buf, constants.FormatJSON, job, jobTable(job)))

		var decoded mgmt.Job
		require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
		assert.Equal(t, "job_1", decoded.ID)
		assert.Contains(t, buf.String(), "\n  \"id\": \"job_1\"")
	})

	t.Run("yaml", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		require.NoError(t, writeOutput(&buf, constants.FormatYAML, job, jobTable(job)))

		var decoded map[string]interface{}
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
		assert.Equal(t, "con_1", decoded["connection_id"])
	})

	t.Run("table", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		require.NoError(t, writeOutput(&buf, OutputFormatTable, job, jobTable(job)))

		out := buf.String()
		assert.Contains(t, out, "job_1")
		assert.Contains(t, out, "con_1")
		assert.Contains(t, out, "2026-01-02 03:04:05")
		assert.Contains(t, out, "email, name as full_name")
		assert.NotContains(t, out, "Location")
	})

	t.Run("unknown format", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		err := writeOutput(&buf, "xml", job, func(*tablewriter.Table) error { return nil })
		require.ErrorIs(t, err, constants.ErrUnknownOutputFormat)
		assert.Empty(t, buf.String())
	})
}

func TestErrorDetailsTable(t *testing.T) {
	t.Parallel()

	details := []mgmt.JobErrorDetails{
		{
			User:   map[string]interface{}{"email": "jane@example.com"},
			Errors: []mgmt.JobError{{Code: "INVALID_FORMAT", Message: "bad email", Path: "email"}},
		},
		{
			User:   map[string]interface{}{},
			Errors: []mgmt.JobError{{Code: "CONFLICT", Message: "user exists"}},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, writeOutput(&buf, OutputFormatTable, details, errorDetailsTable(details)))

	out := buf.String()
	assert.Contains(t, out, "jane@example.com")
	assert.Contains(t, out, "INVALID_FORMAT")
	assert.Contains(t, out, NotAvailable)
	assert.Contains(t, out, "CONFLICT")
}

func TestSaveConfig(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	path := "/home/user/.mgmt/config.yml"

	v := viper.New()
	v.Set("domain", "tenant.example.com")
	v.Set("client-id", "client_1")
	v.Set("retries", "2")

	require.NoError(t, saveConfig(fs, path, loadConfig(v)))

	info, err := fs.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, "-rw-------", info.Mode().Perm().String())

	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)

	var saved Config
	require.NoError(t, yaml.Unmarshal(data, &saved))
	assert.Equal(t, Config{Domain: "tenant.example.com", ClientID: "client_1", Retries: 2}, saved)
	assert.NotContains(t, string(data), "token")
}
