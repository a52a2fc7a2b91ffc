package assets

import (
	"errors"
)

// AssetResolver combines a deck directory with the built-in themes.
// A stylesheet in the directory wins; built-in themes fill in when the
// directory has none.
type AssetResolver struct {
	custom   ThemeLoader // nil if no directory configured
	embedded ThemeLoader
}

// NewAssetResolver creates an AssetResolver.
// If dir is empty, only built-in themes are used.
// Returns error if dir is set but invalid.
func NewAssetResolver(dir string) (*AssetResolver, error) {
	resolver := &AssetResolver{
		embedded: NewEmbeddedLoader(),
	}

	if dir != "" {
		fsLoader, err := NewFilesystemLoader(dir)
		if err != nil {
			return nil, err
		}
		resolver.custom = fsLoader
	}

	return resolver, nil
}

// LoadTheme loads a theme, trying the directory first if configured.
func (r *AssetResolver) LoadTheme(name string) (*Theme, error) {
	if r.custom == nil {
		return r.embedded.LoadTheme(name)
	}

	theme, err := r.custom.LoadTheme(name)
	if err == nil {
		return theme, nil
	}

	// Only fall back for "not found" errors, not validation or I/O errors
	if !errors.Is(err, ErrThemeNotFound) {
		return nil, err
	}

	return r.embedded.LoadTheme(name)
}

// Compile-time interface check.
var _ ThemeLoader = (*AssetResolver)(nil)
