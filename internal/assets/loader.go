package assets

import (
	"fmt"
	"regexp"
)

// Theme is a Marp theme stylesheet.
type Theme struct {
	Name string
	CSS  string

	// Path is the stylesheet on disk. Empty for built-in themes, which
	// must be written out before marp-cli can read them.
	Path string
}

// ThemeLoader defines the contract for loading theme stylesheets.
type ThemeLoader interface {
	// LoadTheme loads the stylesheet of a theme by name.
	// Returns ErrThemeNotFound if no stylesheet exists.
	// Returns ErrInvalidThemeName if the name contains invalid characters.
	LoadTheme(name string) (*Theme, error)
}

// themeNamePattern accepts names that are safe as a file name on every
// platform: letters, digits, hyphen and underscore, not starting with a
// separator character.
var themeNamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)

// ValidateThemeName checks that a theme name is safe for use as a filename.
// Paths, extensions and traversal sequences are rejected with
// ErrInvalidThemeName.
func ValidateThemeName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidThemeName)
	}
	if !themeNamePattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidThemeName, name)
	}
	return nil
}
