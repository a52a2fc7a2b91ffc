package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

// Sample decks shared by the command tests.
const (
	validDeck   = "---\ntitle: Launch\n---\n\n## Why\n\nBecause it matters.\n"
	invalidDeck = "@[split]\n# Product\n\nNo picture here.\n"
)

// mockRunner records marp-cli invocations instead of running them.
type mockRunner struct {
	mu     sync.Mutex
	calls  [][]string
	stderr string
	err    error
}

func (m *mockRunner) Run(_ context.Context, name string, args ...string) (string, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, append([]string{name}, args...))
	return "", m.stderr, m.err
}

func (m *mockRunner) Calls() [][]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// testEnv returns an environment writing to buffers with a fixed clock.
func testEnv(runner *mockRunner) (*Environment, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	env := &Environment{
		Now:    func() time.Time { return time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC) },
		Stdin:  strings.NewReader(""),
		Stdout: &stdout,
		Stderr: &stderr,
		Runner: runner,
	}
	return env, &stdout, &stderr
}

// setupTestDir creates a temp directory with the given file structure.
// Files map paths to content. Returns the temp directory path.
func setupTestDir(t *testing.T, files map[string]string) string {
	t.Helper()
	tempDir := t.TempDir()

	for path, content := range files {
		fullPath := filepath.Join(tempDir, path)
		if err := os.MkdirAll(filepath.Dir(fullPath), 0o750); err != nil {
			t.Fatalf("failed to create dir for %s: %v", path, err)
		}
		if err := os.WriteFile(fullPath, []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", path, err)
		}
	}

	return tempDir
}

// argValue returns the argument following flag in args.
func argValue(args []string, flag string) string {
	for i := 0; i < len(args)-1; i++ {
		if args[i] == flag {
			return args[i+1]
		}
	}
	return ""
}
