package assets

import "errors"

// Sentinel errors for asset operations.
var (
	// ErrThemeNotFound indicates no stylesheet exists for the theme.
	ErrThemeNotFound = errors.New("theme not found")

	// ErrInvalidThemeName indicates the theme name is not a plain file-safe word.
	ErrInvalidThemeName = errors.New("invalid theme name")

	// ErrInvalidBasePath indicates the configured base path is not a valid directory.
	ErrInvalidBasePath = errors.New("invalid base path")

	// ErrAssetRead indicates an I/O error occurred while reading a stylesheet.
	ErrAssetRead = errors.New("failed to read asset")

	// ErrPathTraversal indicates an attempt to access files outside the base path.
	ErrPathTraversal = errors.New("path traversal detected")
)
