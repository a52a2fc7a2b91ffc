// Package assets provides the Marp theme stylesheets decks are compiled with.
//
// # Loader Architecture
//
// The package implements a layered loading system:
//
//	ThemeLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - built-in themes (go:embed)
//	    ├── FilesystemLoader  - stylesheets in a directory on disk
//	    └── AssetResolver     - combines both with custom-first fallback
//
// FilesystemLoader looks for <name>.css, then theme-<name>.css, directly in
// its directory. The compiler points it at the directory of the deck so a
// stylesheet placed beside the Markdown wins over the built-in one.
//
// # Built-in Themes
//
// The md2deck theme styles every layout class the preprocessor emits:
// cover, chapter, toc, split, cards, cols2..cols6, metric, quote and focus.
//
// # Security
//
// Theme names are validated to prevent path traversal attacks.
// FilesystemLoader resolves symlinks and verifies paths stay within its
// directory.
package assets
