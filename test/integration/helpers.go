//go:build integration

package integration

import (
	"bytes"
	"os"
	"os/exec"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/mgmt-client/pkg/mgmt"
)

// TestConfig holds configuration for integration tests.
type TestConfig struct {
	Domain       string
	ClientID     string
	ClientSecret string
	ConnectionID string
	UserID       string
	BinaryPath   string
	Verbose      bool
}

// LoadTestConfig loads configuration from environment variables.
func LoadTestConfig() *TestConfig {
	return &TestConfig{
		Domain:       os.Getenv("MGMT_DOMAIN"),
		ClientID:     os.Getenv("MGMT_CLIENT_ID"),
		ClientSecret: os.Getenv("MGMT_CLIENT_SECRET"),
		ConnectionID: os.Getenv("MGMT_TEST_CONNECTION_ID"),
		UserID:       os.Getenv("MGMT_TEST_USER_ID"),
		BinaryPath:   getBinaryPath(),
		Verbose:      os.Getenv("MGMT_VERBOSE") == "true",
	}
}

// getBinaryPath determines the path to the mgmt binary.
func getBinaryPath() string {
	if path := os.Getenv("MGMT_BINARY_PATH"); path != "" {
		return path
	}

	for _, candidate := range []string{"../../mgmt", "./mgmt", "../mgmt"} {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return "mgmt" // Fallback to PATH
}

// SkipIfMissingConfig skips the test unless a tenant and a binary are available.
func (config *TestConfig) SkipIfMissingConfig(t *testing.T) {
	t.Helper()

	if config.Domain == "" || config.ClientID == "" || config.ClientSecret == "" {
		t.Skip("MGMT_DOMAIN, MGMT_CLIENT_ID and MGMT_CLIENT_SECRET not set, skipping integration test")
	}

	if config.ConnectionID == "" {
		t.Skip("MGMT_TEST_CONNECTION_ID not set, skipping integration test")
	}

	if _, err := exec.LookPath(config.BinaryPath); err != nil {
		t.Skipf("mgmt binary not found at %s, skipping integration test", config.BinaryPath)
	}
}

// CommandRunner runs mgmt commands against the configured tenant.
type CommandRunner struct {
	config *TestConfig
	t      *testing.T
}

// NewCommandRunner creates a new command runner.
func NewCommandRunner(config *TestConfig, t *testing.T) *CommandRunner {
	return &CommandRunner{config: config, t: t}
}

// Run executes an mgmt command with JSON output and returns its output.
func (runner *CommandRunner) Run(args ...string) (stdout, stderr string, err error) {
	if runner.config.Verbose {
		runner.t.Logf("Running: %s %s", runner.config.BinaryPath, strings.Join(args, " "))
	}

	// Credentials are never logged.
	args = append(args,
		"--domain", runner.config.Domain,
		"--client-id", runner.config.ClientID,
		"--client-secret", runner.config.ClientSecret,
		"--output", "json")

	cmd := exec.Command(runner.config.BinaryPath, args...)

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	err = cmd.Run()
	stdout = stdoutBuf.String()
	stderr = stderrBuf.String()

	if runner.config.Verbose && err != nil {
		runner.t.Logf("Command failed: %v\nStdout: %s\nStderr: %s", err, stdout, stderr)
	}

	return stdout, stderr, err
}

// RunJob runs a job command and decodes the printed job.
func (runner *CommandRunner) RunJob(args ...string) *mgmt.Job {
	runner.t.Helper()

	stdout, stderr, err := runner.Run(args...)
	require.NoError(runner.t, err, "command failed: %s", stderr)

	var job mgmt.Job
	require.NoError(runner.t, json.Unmarshal([]byte(stdout), &job), "output is not a job: %s", stdout)

	return &job
}

// GenerateTestName creates a unique test resource name.
func GenerateTestName(prefix string) string {
	return prefix + "-" + uuid.NewString()
}
