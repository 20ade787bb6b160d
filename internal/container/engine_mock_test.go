// SPDX-License-Identifier: MPL-2.0

package container

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"
)

type (
	// MockCommandRecorder captures arguments passed to exec.CommandContext for
	// verification. It uses the TestHelperProcess pattern to simulate command
	// execution.
	MockCommandRecorder struct {
		mu sync.Mutex
		// Invocations records each call to the mock exec function
		Invocations []MockInvocation
		// ExitCode is the exit code to return (0 = success)
		ExitCode int
		// Stdout is the output to write to stdout
		Stdout string
		// Stderr is the output to write to stderr
		Stderr string
		// EchoStdin makes the helper copy its stdin to stdout
		EchoStdin bool
		// Sleep makes the helper block until it is signaled
		Sleep bool
	}

	// MockInvocation represents a single invocation of the exec function.
	MockInvocation struct {
		// Name is the binary path
		Name string
		// Args are the arguments passed to the binary
		Args []string
	}
)

// NewMockCommandRecorder creates a new recorder with default settings (success, no output).
func NewMockCommandRecorder() *MockCommandRecorder {
	return &MockCommandRecorder{
		Invocations: make([]MockInvocation, 0),
	}
}

// ContextCommandFunc returns an ExecCommandFunc that records invocations and
// runs TestHelperProcess instead of the real binary.
func (m *MockCommandRecorder) ContextCommandFunc(t *testing.T) ExecCommandFunc {
	t.Helper()
	return func(ctx context.Context, name string, args ...string) *exec.Cmd {
		m.mu.Lock()
		m.Invocations = append(m.Invocations, MockInvocation{Name: name, Args: slices.Clone(args)})
		m.mu.Unlock()

		cs := []string{"-test.run=TestHelperProcess", "--", name}
		cs = append(cs, args...)
		//nolint:gosec // TestHelperProcess is a test-only pattern
		cmd := exec.CommandContext(ctx, os.Args[0], cs...)
		cmd.Env = []string{
			"GO_WANT_HELPER_PROCESS=1",
			fmt.Sprintf("GO_HELPER_EXIT_CODE=%d", m.ExitCode),
			fmt.Sprintf("GO_HELPER_STDOUT=%s", m.Stdout),
			fmt.Sprintf("GO_HELPER_STDERR=%s", m.Stderr),
		}
		if m.EchoStdin {
			cmd.Env = append(cmd.Env, "GO_HELPER_ECHO_STDIN=1")
		}
		if m.Sleep {
			cmd.Env = append(cmd.Env, "GO_HELPER_SLEEP=1")
		}
		return cmd
	}
}

// LastInvocation returns the most recent invocation, or nil if none.
func (m *MockCommandRecorder) LastInvocation() *MockInvocation {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Invocations) == 0 {
		return nil
	}
	inv := m.Invocations[len(m.Invocations)-1]
	return &inv
}

// LastArgs returns the arguments from the most recent invocation.
func (m *MockCommandRecorder) LastArgs() []string {
	if inv := m.LastInvocation(); inv != nil {
		return inv.Args
	}
	return nil
}

// AssertCommandName verifies the last command name matches.
func (m *MockCommandRecorder) AssertCommandName(t *testing.T, expected string) {
	t.Helper()
	if inv := m.LastInvocation(); inv == nil {
		t.Errorf("expected command %q but no commands were invoked", expected)
	} else if inv.Name != expected {
		t.Errorf("expected command %q, got %q", expected, inv.Name)
	}
}

// AssertArgs verifies the last invocation args match exactly.
func (m *MockCommandRecorder) AssertArgs(t *testing.T, expected ...string) {
	t.Helper()
	if got := m.LastArgs(); !slices.Equal(got, expected) {
		t.Errorf("expected args %q, got %q", expected, got)
	}
}

// AssertArgsContain verifies that the last invocation args contain the expected string.
func (m *MockCommandRecorder) AssertArgsContain(t *testing.T, expected string) {
	t.Helper()
	args := m.LastArgs()
	if !strings.Contains(strings.Join(args, " "), expected) {
		t.Errorf("expected args to contain %q, got: %v", expected, args)
	}
}

// AssertInvocationCount verifies the number of command invocations.
func (m *MockCommandRecorder) AssertInvocationCount(t *testing.T, expected int) {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Invocations) != expected {
		t.Errorf("expected %d invocations, got %d", expected, len(m.Invocations))
	}
}

// TestHelperProcess is used by the mock to simulate command execution.
// It reads configuration from environment variables and outputs accordingly.
// This function should not be called directly - it is invoked by the mock.
func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}

	if os.Getenv("GO_HELPER_ECHO_STDIN") == "1" {
		var buf [4096]byte
		for {
			n, err := os.Stdin.Read(buf[:])
			if n > 0 {
				os.Stdout.Write(buf[:n])
			}
			if err != nil {
				break
			}
		}
	}

	if stdout := os.Getenv("GO_HELPER_STDOUT"); stdout != "" {
		fmt.Fprint(os.Stdout, stdout)
	}
	if stderr := os.Getenv("GO_HELPER_STDERR"); stderr != "" {
		fmt.Fprint(os.Stderr, stderr)
	}

	if os.Getenv("GO_HELPER_SLEEP") == "1" {
		time.Sleep(time.Minute)
	}

	exitCode := 0
	if code := os.Getenv("GO_HELPER_EXIT_CODE"); code != "" {
		fmt.Sscanf(code, "%d", &exitCode)
	}

	os.Exit(exitCode)
}

// withLookPath replaces the PATH lookup for the duration of a test.
func withLookPath(t *testing.T, fn func(string) (string, error)) {
	t.Helper()
	old := lookPath
	lookPath = fn
	t.Cleanup(func() { lookPath = old })
}

func TestMockCommandRecorder_Records(t *testing.T) {
	t.Parallel()

	recorder := NewMockCommandRecorder()
	recorder.Stdout = "hello"
	engine := NewBaseCLIEngine("/usr/bin/podman", WithName("podman"), WithExecCommand(recorder.ContextCommandFunc(t)))

	out, err := engine.RunCommandWithOutput(context.Background(), "version")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "hello" {
		t.Errorf("output = %q, want hello", out)
	}
	recorder.AssertInvocationCount(t, 1)
	recorder.AssertCommandName(t, "/usr/bin/podman")
	recorder.AssertArgs(t, "version")
}
