package main

// Notes:
// - runMain: we test dispatch and exit codes. Deck processing itself is
//   covered by deck_test.go.

import (
	"path/filepath"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestRunMain - Dispatch and exit codes
// ---------------------------------------------------------------------------

func TestRunMain(t *testing.T) {
	t.Parallel()

	dir := setupTestDir(t, map[string]string{"talk.md": validDeck, "bad.md": invalidDeck})

	tests := []struct {
		name       string
		args       []string
		wantCode   int
		wantStdout string
		wantStderr string
	}{
		{"no command", []string{"md2deck"}, ExitUsage, "", "Usage: md2deck"},
		{"unknown command", []string{"md2deck", "convert"}, ExitUsage, "", "unknown command: convert"},
		{"version", []string{"md2deck", "version"}, ExitSuccess, "md2deck dev", ""},
		{"help", []string{"md2deck", "help"}, ExitSuccess, "Commands:", ""},
		{"help build", []string{"md2deck", "help", "build"}, ExitSuccess, "md2deck build", ""},
		{"command help flag", []string{"md2deck", "preprocess", "-h"}, ExitSuccess, "md2deck preprocess", ""},
		{"completion", []string{"md2deck", "completion", "fish"}, ExitSuccess, "complete -c md2deck", ""},
		{"bad shell", []string{"md2deck", "completion", "tcsh"}, ExitUsage, "", "unsupported shell"},
		{"markdown shortcut builds", []string{"md2deck", filepath.Join(dir, "talk.md")}, ExitSuccess, "Created", ""},
		{"validation failure", []string{"md2deck", "preprocess", filepath.Join(dir, "bad.md")}, ExitValidation, "", "FAILED"},
		{"missing input", []string{"md2deck", "build", filepath.Join(dir, "gone.md")}, ExitIO, "", "error:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, stdout, stderr := testEnv(&mockRunner{})
			code := runMain(tt.args, env)

			if code != tt.wantCode {
				t.Errorf("runMain(%v) = %d, want %d\nstderr: %s", tt.args, code, tt.wantCode, stderr.String())
			}
			if tt.wantStdout != "" && !strings.Contains(stdout.String(), tt.wantStdout) {
				t.Errorf("stdout = %q, want %q", stdout.String(), tt.wantStdout)
			}
			if tt.wantStderr != "" && !strings.Contains(stderr.String(), tt.wantStderr) {
				t.Errorf("stderr = %q, want %q", stderr.String(), tt.wantStderr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestIsCommand - Command name matching
// ---------------------------------------------------------------------------

func TestIsCommand(t *testing.T) {
	t.Parallel()

	if !isCommand("help", "help", "-h") {
		t.Error("isCommand(help) = false")
	}
	if isCommand("build", "help", "-h") {
		t.Error("isCommand(build, help...) = true")
	}
}

// ---------------------------------------------------------------------------
// TestLooksLikeMarkdown - Shortcut detection
// ---------------------------------------------------------------------------

func TestLooksLikeMarkdown(t *testing.T) {
	t.Parallel()

	tests := []struct {
		arg  string
		want bool
	}{
		{"talk.md", true},
		{"docs/Talk.MARKDOWN", true},
		{"build", false},
		{"talk.txt", false},
	}

	for _, tt := range tests {
		if got := looksLikeMarkdown(tt.arg); got != tt.want {
			t.Errorf("looksLikeMarkdown(%q) = %v, want %v", tt.arg, got, tt.want)
		}
	}
}
