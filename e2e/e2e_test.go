//go:build e2e

// Package e2e contains end-to-end tests for gmtest.
// These tests drive a real browser against the live Guerrilla Mail site.
//
// Required environment variables:
//   - GMT_E2E: set to 1 to enable the tests
//
// Optional environment variables:
//   - GMT_WEB_DRIVER: chromium (default), chrome or remote
//   - GMT_BROWSER_BIN: browser executable
//   - GMT_CONTROL_URL: DevTools URL of a running browser (remote)
//
// Run with:
//
//	go build -o gmtest ./cmd/gmtest && GMT_E2E=1 go test -tags=e2e -v -timeout 20m ./e2e/...
package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/joho/godotenv"
	"github.com/shawn-b/GuerrillaMailTester/internal/driver"
	"github.com/stretchr/testify/require"
)

var gmtestBinPath string // Absolute path to the gmtest binary

func TestMain(m *testing.M) {
	// Load .env file if it exists (won't error if missing)
	if err := godotenv.Load("../.env"); err != nil {
		fmt.Fprintln(os.Stderr, "Note: .env file not found at project root")
	}

	if os.Getenv("GMT_E2E") != "1" {
		fmt.Fprintln(os.Stderr, "Skipping e2e tests: GMT_E2E not set to 1")
		os.Exit(0)
	}

	gmtestBinPath, _ = filepath.Abs("../gmtest")
	if _, err := os.Stat(gmtestBinPath); os.IsNotExist(err) {
		fmt.Fprintln(os.Stderr, "Error: gmtest binary not found. Run 'go build -o gmtest ./cmd/gmtest' first")
		os.Exit(1)
	}

	fmt.Fprintln(os.Stderr, "Running e2e tests...")
	os.Exit(m.Run())
}

// ============================================================================
// CLI Execution Helpers
// ============================================================================

// runGMTest executes the gmtest CLI with the given config file contents.
// Each test gets an isolated config directory.
func runGMTest(t *testing.T, configYAML string, args ...string) (stdout, stderr string, exitCode int) {
	t.Helper()

	configDir := t.TempDir()
	if configYAML != "" {
		require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(configYAML), 0600))
	}

	cmd := exec.Command(gmtestBinPath, args...)
	cmd.Dir = configDir
	cmd.Env = append(os.Environ(),
		"GMT_CONFIG_DIR="+configDir,
		"NO_COLOR=1", // Disable color output for easier parsing
	)

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	err := cmd.Run()
	exitCode = 0
	if exitErr, ok := err.(*exec.ExitError); ok {
		exitCode = exitErr.ExitCode()
	} else if err != nil {
		t.Logf("exec error: %v", err)
		exitCode = -1
	}

	return stdoutBuf.String(), stderrBuf.String(), exitCode
}

type runJSON struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Result     string `json:"result"`
	FailedStep string `json:"failedStep"`
	Error      string `json:"error"`
	Steps      []struct {
		Name   string `json:"name"`
		Result string `json:"result"`
		Note   string `json:"note"`
	} `json:"steps"`
}

// runGMTestJSON executes gmtest with --output json and parses the summary.
func runGMTestJSON(t *testing.T, configYAML string, args ...string) []runJSON {
	t.Helper()
	args = append(args, "--output", "json")
	stdout, stderr, code := runGMTest(t, configYAML, args...)
	require.Equal(t, 0, code, "gmtest failed: stdout=%s, stderr=%s", stdout, stderr)

	var runs []runJSON
	require.NoError(t, json.Unmarshal([]byte(stdout), &runs), "failed to parse JSON output: %s", stdout)
	return runs
}

// launch opens a browser the same way the CLI does.
func launch(t *testing.T) driver.Browser {
	t.Helper()

	kind := os.Getenv("GMT_WEB_DRIVER")
	b, err := driver.Launch(context.Background(), driver.Options{
		Kind:       kind,
		Headless:   true,
		Bin:        os.Getenv("GMT_BROWSER_BIN"),
		ControlURL: os.Getenv("GMT_CONTROL_URL"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })
	return b
}

func stepNames(run runJSON) string {
	names := make([]string, 0, len(run.Steps))
	for _, s := range run.Steps {
		names = append(names, s.Name+"="+s.Result)
	}
	return strings.Join(names, ", ")
}
