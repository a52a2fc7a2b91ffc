package assets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FilesystemLoader loads theme stylesheets from a directory on disk.
// Implements ThemeLoader interface.
type FilesystemLoader struct {
	dir      string // as given, used for returned paths
	basePath string // absolute, symlinks resolved
}

// NewFilesystemLoader creates a FilesystemLoader for dir.
// Returns ErrInvalidBasePath if the path is not a valid, readable directory.
func NewFilesystemLoader(dir string) (*FilesystemLoader, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidBasePath)
	}

	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}

	// Containment checks compare resolved paths.
	if realPath, err := filepath.EvalSymlinks(absPath); err == nil {
		absPath = realPath
	}

	info, err := os.Stat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: directory does not exist: %s", ErrInvalidBasePath, absPath)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: not a directory: %s", ErrInvalidBasePath, absPath)
	}

	return &FilesystemLoader{dir: dir, basePath: absPath}, nil
}

// candidateNames lists the file names a theme may use, in lookup order.
func candidateNames(name string) []string {
	return []string{name + ".css", "theme-" + name + ".css"}
}

// LoadTheme loads the stylesheet of name: <name>.css first, then
// theme-<name>.css.
func (f *FilesystemLoader) LoadTheme(name string) (*Theme, error) {
	if err := ValidateThemeName(name); err != nil {
		return nil, err
	}

	for _, file := range candidateNames(name) {
		filePath := filepath.Join(f.basePath, file)
		if err := f.verifyPathContainment(filePath); err != nil {
			return nil, err
		}

		content, err := os.ReadFile(filePath) // #nosec G304 -- path validated above
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("%w: %v", ErrAssetRead, err)
		}

		return &Theme{
			Name: name,
			CSS:  string(content),
			Path: filepath.Join(f.dir, file),
		}, nil
	}

	return nil, fmt.Errorf("%w: %q in %s", ErrThemeNotFound, name, f.dir)
}

// verifyPathContainment ensures the resolved file path is within basePath.
// A symlinked stylesheet pointing outside the directory is rejected.
func (f *FilesystemLoader) verifyPathContainment(filePath string) error {
	absFilePath, err := filepath.Abs(filePath)
	if err != nil {
		return fmt.Errorf("%w: cannot resolve path", ErrPathTraversal)
	}

	// Missing files keep the unresolved path and fail on read.
	if realPath, err := filepath.EvalSymlinks(absFilePath); err == nil {
		absFilePath = realPath
	}

	// The separator suffix rejects siblings such as /base/pathevil.
	if !strings.HasPrefix(absFilePath, f.basePath+string(filepath.Separator)) {
		return fmt.Errorf("%w: path escapes base directory", ErrPathTraversal)
	}

	return nil
}

// Compile-time interface check.
var _ ThemeLoader = (*FilesystemLoader)(nil)
