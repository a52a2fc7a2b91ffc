package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-md2deck/internal/dateutil"
	"github.com/alnah/go-md2deck/internal/fileutil"
	"github.com/alnah/go-md2deck/internal/layout"
	"github.com/alnah/go-md2deck/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidField    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxTitleLength    = 200
	MaxNameLength     = 100
	MaxThemeLength    = 100
	MaxTOCTitleLength = 100
	MaxSuffixLength   = 30
	MaxKeywordLength  = 50
	MaxKeywords       = 200
	MaxCommandLength  = 1024
	MaxPathLength     = 4096
	MaxWorkers        = 32
)

// Formats lists the artifact formats the renderer can produce.
var Formats = []string{"pptx", "pdf", "html"}

// Config holds all configuration for deck generation.
type Config struct {
	Force              bool              `yaml:"force"`
	Format             string            `yaml:"format"`  // pptx, pdf or html (empty = pptx)
	Workers            int               `yaml:"workers"` // 0 = auto
	DateFormat         string            `yaml:"dateFormat"`
	Defaults           DefaultsConfig    `yaml:"defaults"`
	Thresholds         layout.Thresholds `yaml:"thresholds"` // zero fields keep the built-in budgets
	Keywords           []string          `yaml:"keywords"`   // empty = built-in vocabulary
	TOCTitle           string            `yaml:"tocTitle"`
	ContinuationSuffix string            `yaml:"continuationSuffix"`
	Output             OutputConfig      `yaml:"output"`
	Marp               MarpConfig        `yaml:"marp"`
}

// DefaultsConfig supplies metadata for documents that leave it out.
type DefaultsConfig struct {
	Title  string `yaml:"title"`
	Author string `yaml:"author"`
	Thanks string `yaml:"thanks"`
	Theme  string `yaml:"theme"`
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Empty = same as source
}

// MarpConfig configures the renderer invocation.
type MarpConfig struct {
	Command string `yaml:"command"` // Empty = "npx @marp-team/marp-cli"
}

// Validate checks field values and lengths. Called automatically by
// LoadConfig, but available for consumers who construct Config manually.
func (c *Config) Validate() error {
	if c.Format != "" && !isFormat(c.Format) {
		return fmt.Errorf("%w: format %q (must be %s)", ErrInvalidField, c.Format, strings.Join(Formats, ", "))
	}
	if c.Workers < 0 || c.Workers > MaxWorkers {
		return fmt.Errorf("%w: workers must be between 0 and %d, got %d", ErrInvalidField, MaxWorkers, c.Workers)
	}
	if c.DateFormat != "" {
		if _, err := dateutil.FormatDate(c.DateFormat, time.Time{}); err != nil {
			return fmt.Errorf("dateFormat: %w", err)
		}
	}

	fields := []struct {
		name  string
		value string
		max   int
	}{
		{"defaults.title", c.Defaults.Title, MaxTitleLength},
		{"defaults.author", c.Defaults.Author, MaxNameLength},
		{"defaults.thanks", c.Defaults.Thanks, MaxTitleLength},
		{"defaults.theme", c.Defaults.Theme, MaxThemeLength},
		{"tocTitle", c.TOCTitle, MaxTOCTitleLength},
		{"continuationSuffix", c.ContinuationSuffix, MaxSuffixLength},
		{"output.defaultDir", c.Output.DefaultDir, MaxPathLength},
		{"marp.command", c.Marp.Command, MaxCommandLength},
	}
	for _, f := range fields {
		if err := validateFieldLength(f.name, f.value, f.max); err != nil {
			return err
		}
	}

	if len(c.Keywords) > MaxKeywords {
		return fmt.Errorf("%w: keywords (%d entries, max %d)", ErrFieldTooLong, len(c.Keywords), MaxKeywords)
	}
	for i, k := range c.Keywords {
		if strings.TrimSpace(k) == "" {
			return fmt.Errorf("%w: keywords[%d] is empty", ErrInvalidField, i)
		}
		if err := validateFieldLength(fmt.Sprintf("keywords[%d]", i), k, MaxKeywordLength); err != nil {
			return err
		}
	}

	// Zero keeps the built-in budget; anything else must be positive.
	if err := layout.DefaultThresholds().Merge(c.Thresholds).Validate(); err != nil {
		return fmt.Errorf("thresholds: %w", err)
	}

	return nil
}

func isFormat(s string) bool {
	for _, f := range Formats {
		if s == f {
			return true
		}
	}
	return false
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns the configuration used when no file is given. Format
// stays empty so the environment can still choose it; empty means pptx.
func DefaultConfig() *Config {
	return &Config{
		Thresholds: layout.DefaultThresholds(),
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{Paths: []string{configPath}}
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yamlutil.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// NotFoundError lists the locations searched for a config file.
type NotFoundError struct {
	Paths []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%v: tried %s", ErrConfigNotFound, strings.Join(e.Paths, ", "))
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrConfigNotFound
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/go-md2deck/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2) // 2 locations

	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "go-md2deck", name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", &NotFoundError{Paths: triedPaths}
}
