package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/alnah/go-md2deck/internal/config"
)

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string // MD2DECK_CONFIG: config file name or path
	Format     string // MD2DECK_FORMAT: pptx, pdf, html
	OutputDir  string // MD2DECK_OUTPUT_DIR: default output directory
	Theme      string // MD2DECK_THEME: default theme
	Author     string // MD2DECK_AUTHOR: default author
	DateFormat string // MD2DECK_DATE_FORMAT: date preset or format
	TOCTitle   string // MD2DECK_TOC_TITLE: contents heading
	Marp       string // MD2DECK_MARP: renderer command
	Force      bool   // MD2DECK_FORCE: downgrade contract violations
	Workers    int    // MD2DECK_WORKERS: parallel documents
}

// knownEnvVars lists valid MD2DECK_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"MD2DECK_CONFIG":      true,
	"MD2DECK_FORMAT":      true,
	"MD2DECK_OUTPUT_DIR":  true,
	"MD2DECK_THEME":       true,
	"MD2DECK_AUTHOR":      true,
	"MD2DECK_DATE_FORMAT": true,
	"MD2DECK_TOC_TITLE":   true,
	"MD2DECK_MARP":        true,
	"MD2DECK_FORCE":       true,
	"MD2DECK_WORKERS":     true,
}

// loadDotEnv reads a .env file from the working directory when present.
// Variables already set in the environment win.
func loadDotEnv() {
	_ = godotenv.Load()
}

// loadEnvConfig reads configuration from environment variables.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath: os.Getenv("MD2DECK_CONFIG"),
		Format:     os.Getenv("MD2DECK_FORMAT"),
		OutputDir:  os.Getenv("MD2DECK_OUTPUT_DIR"),
		Theme:      os.Getenv("MD2DECK_THEME"),
		Author:     os.Getenv("MD2DECK_AUTHOR"),
		DateFormat: os.Getenv("MD2DECK_DATE_FORMAT"),
		TOCTitle:   os.Getenv("MD2DECK_TOC_TITLE"),
		Marp:       os.Getenv("MD2DECK_MARP"),
	}

	if force := os.Getenv("MD2DECK_FORCE"); force != "" {
		if b, err := strconv.ParseBool(force); err == nil {
			cfg.Force = b
		}
	}

	if workers := os.Getenv("MD2DECK_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized MD2DECK_* variables.
// Helps catch typos like MD2DECK_TEHME instead of MD2DECK_THEME.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "MD2DECK_") {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig applies environment variable values to config.
// Only sets values if the env var is set AND the config value is empty/zero.
// This ensures: CLI flags > env vars > config file > defaults
// (CLI flags are applied later via mergeFlags)
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Format != "" && cfg.Format == "" {
		cfg.Format = env.Format
	}
	if env.OutputDir != "" && cfg.Output.DefaultDir == "" {
		cfg.Output.DefaultDir = env.OutputDir
	}
	if env.Theme != "" && cfg.Defaults.Theme == "" {
		cfg.Defaults.Theme = env.Theme
	}
	if env.Author != "" && cfg.Defaults.Author == "" {
		cfg.Defaults.Author = env.Author
	}
	if env.DateFormat != "" && cfg.DateFormat == "" {
		cfg.DateFormat = env.DateFormat
	}
	if env.TOCTitle != "" && cfg.TOCTitle == "" {
		cfg.TOCTitle = env.TOCTitle
	}
	if env.Marp != "" && cfg.Marp.Command == "" {
		cfg.Marp.Command = env.Marp
	}
	if env.Force {
		cfg.Force = true
	}
	if env.Workers > 0 && cfg.Workers == 0 {
		cfg.Workers = env.Workers
	}
}
