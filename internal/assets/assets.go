package assets

// DefaultThemeName is the built-in theme decks use unless they name another.
const DefaultThemeName = "md2deck"

// defaultLoader is the package-level embedded loader.
var defaultLoader = NewEmbeddedLoader()

// LoadTheme loads a built-in theme by name.
// Returns ErrThemeNotFound if the theme does not exist.
// Returns ErrInvalidThemeName if the name contains path separators or traversal.
func LoadTheme(name string) (*Theme, error) {
	return defaultLoader.LoadTheme(name)
}
