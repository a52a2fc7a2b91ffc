// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"strings"

	"github.com/alnah/go-md2deck/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForRenderer returns hints for a failed marp-cli run. PPTX and PDF output
// drive a headless Chrome, so the browser settings are only suggested for those.
func ForRenderer(format string) string {
	if format != "pptx" && format != "pdf" {
		return ""
	}

	var hints []string

	inCI := os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != "" ||
		os.Getenv("JENKINS_URL") != ""

	if inCI || IsInContainer() {
		hints = append(hints, "use the marpteam/marp-cli image in Docker/CI")
	}

	if os.Getenv("CHROME_PATH") == "" {
		hints = append(hints, "set CHROME_PATH to use a custom Chrome")
	}

	return formatHints(hints)
}

// ForMarpMissing returns a hint for a renderer command that cannot be found.
func ForMarpMissing() string {
	return format("install Node.js for npx, or set marp.command / MD2DECK_MARP to a marp binary")
}

// ForValidation returns the hint shown when validation blocked the output.
func ForValidation() string {
	return format("fix the reported slides, or use --force to write the deck anyway")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/go-md2deck/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(p, ".config/go-md2deck") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForThemeNotFound returns hints when no stylesheet matches the deck theme.
func ForThemeNotFound(theme string) string {
	if theme == "" {
		return ""
	}
	return format("place " + theme + ".css or theme-" + theme + ".css beside the input")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
