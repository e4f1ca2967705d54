// Package testutil provides test utilities and helpers for pkginit tests.
package testutil

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"testing"
)

// HelperProcessConfig configures the behavior of HelperProcess.
type HelperProcessConfig struct {
	// ExitCode is the exit code to return (default 0).
	ExitCode int `json:"exit_code"`
	// Stdout is the content to write to stdout.
	Stdout string `json:"stdout"`
	// Stderr is the content to write to stderr.
	Stderr string `json:"stderr"`
	// RecordFile, if set, receives one line per invocation with the
	// arguments passed after "--".
	RecordFile string `json:"record_file"`
}

// Environment variable names used by HelperProcess.
const (
	// EnvWantHelperProcess signals that the test binary should run as a helper process.
	EnvWantHelperProcess = "GO_WANT_HELPER_PROCESS"
	// EnvHelperProcessConfig contains JSON-encoded HelperProcessConfig.
	EnvHelperProcessConfig = "GO_HELPER_PROCESS_CONFIG"
)

// HelperProcess turns the test binary into a fake external command when
// GO_WANT_HELPER_PROCESS=1. It exits without returning in that case and
// returns immediately otherwise.
//
// Usage in test file:
//
//	func TestHelperProcess(t *testing.T) {
//	    testutil.HelperProcess(t)
//	}
func HelperProcess(t *testing.T) {
	if os.Getenv(EnvWantHelperProcess) != "1" {
		return
	}

	config := HelperProcessConfig{}
	if raw := os.Getenv(EnvHelperProcessConfig); raw != "" {
		// Ignore parse errors; use defaults on failure
		_ = json.Unmarshal([]byte(raw), &config)
	}

	if config.RecordFile != "" {
		if f, err := os.OpenFile(config.RecordFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644); err == nil {
			fmt.Fprintln(f, strings.Join(argsAfterDashes(os.Args), " "))
			f.Close()
		}
	}
	if config.Stdout != "" {
		fmt.Fprint(os.Stdout, config.Stdout)
	}
	if config.Stderr != "" {
		fmt.Fprint(os.Stderr, config.Stderr)
	}
	os.Exit(config.ExitCode)
}

// HelperCommand returns an argv and extra environment that run the test
// binary as a fake command. testName must name a test that calls
// HelperProcess. args are passed after "--" and recorded if RecordFile is set.
func HelperCommand(t *testing.T, testName string, config HelperProcessConfig, args ...string) (argv, env []string) {
	t.Helper()

	testBinary, err := os.Executable()
	if err != nil {
		t.Fatalf("failed to get test binary path: %v", err)
	}

	configJSON, err := json.Marshal(config)
	if err != nil {
		t.Fatalf("encoding helper config: %v", err)
	}

	argv = append([]string{testBinary, "-test.run=^" + testName + "$", "--"}, args...)
	env = []string{
		EnvWantHelperProcess + "=1",
		EnvHelperProcessConfig + "=" + string(configJSON),
	}
	return argv, env
}

// ReadRecord returns the invocations written to a RecordFile, one per entry.
// A missing file means the command never ran.
func ReadRecord(t *testing.T, path string) []string {
	t.Helper()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		t.Fatalf("reading helper record: %v", err)
	}
	return strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
}

func argsAfterDashes(args []string) []string {
	for i, a := range args {
		if a == "--" {
			return args[i+1:]
		}
	}
	return nil
}
