package pipeline

import (
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestRebasePaths - Markdown Destinations
// ---------------------------------------------------------------------------

func TestRebasePaths(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("unix paths")
	}

	tests := []struct {
		name   string
		input  string
		source string
		target string
		want   string
	}{
		{
			name:   "image moved to sibling dir",
			input:  "![logo](img/logo.png)",
			source: "/docs",
			target: "/out",
			want:   "![logo](../docs/img/logo.png)",
		},
		{
			name:   "link moved to child dir",
			input:  "see [notes](notes.md)",
			source: "/docs",
			target: "/docs/build",
			want:   "see [notes](../notes.md)",
		},
		{
			name:   "marp background image",
			input:  "![bg right](photo.jpg)",
			source: "/docs",
			target: "/out",
			want:   "![bg right](../docs/photo.jpg)",
		},
		{
			name:   "title kept",
			input:  `![a](a.png "A title")`,
			source: "/docs",
			target: "/out",
			want:   `![a](../docs/a.png "A title")`,
		},
		{
			name:   "angle bracket destination",
			input:  "![a](<my pic.png>)",
			source: "/docs",
			target: "/out",
			want:   "![a](<../docs/my pic.png>)",
		},
		{
			name:   "two images on one line",
			input:  "![a](a.png) ![b](b.png)",
			source: "/docs",
			target: "/out",
			want:   "![a](../docs/a.png) ![b](../docs/b.png)",
		},
		{
			name:   "same dir unchanged",
			input:  "![a](a.png)",
			source: "/docs",
			target: "/docs",
			want:   "![a](a.png)",
		},
		{
			name:   "empty source unchanged",
			input:  "![a](a.png)",
			source: "",
			target: "/out",
			want:   "![a](a.png)",
		},
		{
			name:   "url unchanged",
			input:  "![a](https://example.com/a.png)",
			source: "/docs",
			target: "/out",
			want:   "![a](https://example.com/a.png)",
		},
		{
			name:   "anchor unchanged",
			input:  "[top](#intro)",
			source: "/docs",
			target: "/out",
			want:   "[top](#intro)",
		},
		{
			name:   "absolute path unchanged",
			input:  "![a](/srv/a.png)",
			source: "/docs",
			target: "/out",
			want:   "![a](/srv/a.png)",
		},
		{
			name:   "fenced code unchanged",
			input:  "```md\n![a](a.png)\n```\n![b](b.png)",
			source: "/docs",
			target: "/out",
			want:   "```md\n![a](a.png)\n```\n![b](../docs/b.png)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := RebasePaths(tt.input, tt.source, tt.target)
			if got != tt.want {
				t.Errorf("RebasePaths() =\n%q\nwant\n%q", got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestRebasePaths_ImgTags - Inline HTML
// ---------------------------------------------------------------------------

func TestRebasePaths_ImgTags(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("unix paths")
	}

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "double quoted src",
			input: `<img src="a.png" width="200">`,
			want:  `<img src="../docs/a.png" width="200">`,
		},
		{
			name:  "single quoted src",
			input: `<img src='a.png'/>`,
			want:  `<img src='../docs/a.png'/>`,
		},
		{
			name:  "remote src unchanged",
			input: `<img src="https://example.com/a.png">`,
			want:  `<img src="https://example.com/a.png">`,
		},
		{
			name:  "non img tag unchanged",
			input: `<script src="a.js"></script>`,
			want:  `<script src="a.js"></script>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := RebasePaths(tt.input, "/docs", "/out")
			if got != tt.want {
				t.Errorf("RebasePaths() = %q, want %q", got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestIsRelativePath - Path Classification
// ---------------------------------------------------------------------------

func TestIsRelativePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want bool
	}{
		{"img/a.png", true},
		{"./a.png", true},
		{"../a.png", true},
		{"", false},
		{"http://example.com/a.png", false},
		{"https://example.com/a.png", false},
		{"file:///tmp/a.png", false},
		{"data:image/png;base64,AAAA", false},
		{"mailto:someone@example.com", false},
		{"//cdn.example.com/a.png", false},
		{"#section", false},
		{"/abs/a.png", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			if got := isRelativePath(tt.path); got != tt.want {
				t.Errorf("isRelativePath(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestPathToFileURL - URL Conversion
// ---------------------------------------------------------------------------

func TestPathToFileURL(t *testing.T) {
	t.Parallel()

	abs, err := filepath.Abs(filepath.Join("testdata", "a.png"))
	if err != nil {
		t.Fatalf("Abs() error = %v", err)
	}

	got := pathToFileURL(abs)
	if !strings.HasPrefix(got, "file://") {
		t.Errorf("pathToFileURL() = %q, want file:// prefix", got)
	}
	if !strings.HasSuffix(got, "/testdata/a.png") {
		t.Errorf("pathToFileURL() = %q, want /testdata/a.png suffix", got)
	}
}
