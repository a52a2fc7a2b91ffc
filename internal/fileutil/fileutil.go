// Package fileutil provides file and path utility functions.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Prefixes of the intermediate files written beside the input.
const (
	ProcessPrefix = ".process_"
	CompilePrefix = ".compile_"
)

// intermediatePrefix matches the prefixes left on a file name by earlier runs.
var intermediatePrefix = regexp.MustCompile(`^\.?(process|compiled|compile)_`)

// Sentinel errors for file utility operations.
var (
	ErrExtensionEmpty         = errors.New("extension cannot be empty")
	ErrExtensionPathTraversal = errors.New("extension contains path separator or null byte")
)

// WriteTempFile creates a temporary file with the given content and extension.
// Returns the file path and a cleanup function to remove the file.
func WriteTempFile(content, extension string) (path string, cleanup func(), err error) {
	if err := ValidateExtension(extension); err != nil {
		return "", nil, err
	}

	tmpFile, err := os.CreateTemp("", "md2deck-*."+extension)
	if err != nil {
		return "", nil, fmt.Errorf("creating temp file: %w", err)
	}

	path = tmpFile.Name()
	cleanup = func() { _ = os.Remove(path) }

	if _, writeErr := tmpFile.WriteString(content); writeErr != nil {
		_ = tmpFile.Close()
		cleanup()
		return "", nil, fmt.Errorf("writing temp file: %w", writeErr)
	}

	if closeErr := tmpFile.Close(); closeErr != nil {
		cleanup()
		return "", nil, fmt.Errorf("closing temp file: %w", closeErr)
	}

	return path, cleanup, nil
}

// ValidateExtension checks that the extension is safe for use in temp file names.
func ValidateExtension(extension string) error {
	if extension == "" {
		return ErrExtensionEmpty
	}
	if strings.ContainsAny(extension, "/\\\x00") {
		return ErrExtensionPathTraversal
	}
	return nil
}

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// ProcessedPath returns the path of the preprocessed deck written beside input.
func ProcessedPath(input string) string {
	return filepath.Join(filepath.Dir(input), ProcessPrefix+BaseName(input)+".md")
}

// CompilePath returns the path of the copy handed to the renderer.
func CompilePath(input string) string {
	return filepath.Join(filepath.Dir(input), CompilePrefix+BaseName(input)+".md")
}

// BaseName strips the directory, the .md extension and any intermediate
// prefix from path.
//
// Examples:
//   - "talk.md" -> "talk"
//   - "docs/.process_talk.md" -> "talk"
//   - "compiled_talk.md" -> "talk"
func BaseName(path string) string {
	name := filepath.Base(path)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	return intermediatePrefix.ReplaceAllString(name, "")
}

// OutputPath returns the artifact path for input with the given extension.
// An explicit output wins: a directory receives the derived name, anything
// else is used as is.
func OutputPath(input, output, extension string) string {
	name := BaseName(input) + "." + extension
	switch {
	case output == "":
		return filepath.Join(filepath.Dir(input), name)
	case IsDir(output) || strings.HasSuffix(output, string(filepath.Separator)):
		return filepath.Join(output, name)
	default:
		return output
	}
}

// IsDir returns true if the path exists and is a directory.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// IsMarkdown reports whether path has a Markdown extension.
func IsMarkdown(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return true
	}
	return false
}

// IsIntermediate reports whether path names a file written by an earlier run.
func IsIntermediate(path string) bool {
	name := filepath.Base(path)
	return strings.HasPrefix(name, ProcessPrefix) || strings.HasPrefix(name, CompilePrefix)
}

// IsFilePath returns true if the string looks like a file path rather than a name.
// A string containing path separators (/, \) is treated as a path.
//
// Examples:
//   - "slides" -> false (config name)
//   - "./slides.yaml" -> true (relative path)
//   - "/etc/md2deck.yaml" -> true (absolute)
//   - "C:\\decks\\slides.yaml" -> true (Windows)
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}
