package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	md2deck "github.com/alnah/go-md2deck"
	"github.com/alnah/go-md2deck/internal/config"
	"github.com/alnah/go-md2deck/internal/fileutil"
	"github.com/alnah/go-md2deck/internal/hints"
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// Preprocessor is the interface for the layout pipeline.
type Preprocessor interface {
	Process(ctx context.Context, input md2deck.Input) (*md2deck.Result, error)
}

// DeckCompiler is the interface for the renderer step.
type DeckCompiler interface {
	Compile(ctx context.Context, req md2deck.CompileRequest) (string, error)
}

// Compile-time interface implementation check.
var (
	_ Preprocessor = (*md2deck.Preprocessor)(nil)
	_ DeckCompiler = (*md2deck.Compiler)(nil)
)

// deckRunner carries what every document of a run shares.
type deckRunner struct {
	cmd      string
	pre      Preprocessor
	compiler DeckCompiler
	format   md2deck.Format
	report   bool
	quiet    bool
	log      *slog.Logger
	env      *Environment

	stdoutMu sync.Mutex // reports from parallel documents
}

// runDeck orchestrates build, preprocess and compile.
func runDeck(ctx context.Context, cmd string, args []string, env *Environment) error {
	flags, positional, err := parseDeckFlags(cmd, args, env.Stdout)
	if err != nil {
		return err
	}

	// Validate worker count early
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}

	envCfg := loadEnvConfig()
	cfg, err := loadConfig(flags.common.config, envCfg)
	if err != nil {
		return err
	}

	// CLI flags > env vars > config file > defaults
	applyEnvConfig(envCfg, cfg)
	mergeFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}

	format, err := md2deck.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}

	logger := newLogger(env.Stderr, flags.common)
	r := &deckRunner{
		cmd:      cmd,
		pre:      newPreprocessor(cfg, env, logger),
		compiler: newCompiler(cfg, env, logger),
		format:   format,
		report:   flags.report,
		quiet:    flags.common.quiet,
		log:      logger,
		env:      env,
	}

	if isStdin(positional) {
		return r.runStdin(ctx, flags.output)
	}

	files, err := discoverAll(cmd, positional, resolveOutputDir(flags.output, cfg), format)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("%w: no markdown files found in %s", ErrNoInput, strings.Join(positional, ", "))
	}

	poolSize := md2deck.ResolvePoolSize(cfg.Workers)
	logger.Debug("starting batch", "files", len(files), "workers", poolSize)

	results := processBatch(ctx, files, poolSize, r.run)
	printResultsWithWriter(results, flags.common.quiet, flags.common.verbose, env)

	err = batchErr(results)
	if errors.Is(err, md2deck.ErrValidation) {
		fmt.Fprintln(env.Stderr, strings.TrimPrefix(hints.ForValidation(), "\n"))
	}
	return err
}

// loadConfig loads the config named by the flag or MD2DECK_CONFIG. No
// config leaves every field empty so env vars can still fill them.
func loadConfig(name string, env *envConfig) (*config.Config, error) {
	if name == "" {
		name = env.ConfigPath
	}
	if name == "" {
		return config.DefaultConfig(), nil
	}

	cfg, err := config.LoadConfig(name)
	if err != nil {
		var nf *config.NotFoundError
		if errors.As(err, &nf) {
			return nil, fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound(nf.Paths))
		}
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// mergeFlags merges CLI flags into config. CLI values override config values.
func mergeFlags(flags *deckFlags, cfg *config.Config) {
	if flags.format != "" {
		cfg.Format = flags.format
	}
	if flags.workers > 0 {
		cfg.Workers = flags.workers
	}
	if flags.force {
		cfg.Force = true
	}
}

// newLogger returns a text logger on w. Warnings by default, debug with
// --verbose, errors only with --quiet.
func newLogger(w io.Writer, f commonFlags) *slog.Logger {
	level := slog.LevelWarn
	switch {
	case f.quiet:
		level = slog.LevelError
	case f.verbose:
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// newPreprocessor builds the pipeline from the merged config.
func newPreprocessor(cfg *config.Config, env *Environment, logger *slog.Logger) *md2deck.Preprocessor {
	opts := []md2deck.Option{
		md2deck.WithForce(cfg.Force),
		md2deck.WithLogger(logger),
		md2deck.WithThresholds(cfg.Thresholds),
		md2deck.WithDefaults(defaultsFrom(cfg)),
		md2deck.WithDateFormat(cfg.DateFormat),
		md2deck.WithTOCTitle(cfg.TOCTitle),
		md2deck.WithContinuationSuffix(cfg.ContinuationSuffix),
	}
	if env.Now != nil {
		opts = append(opts, md2deck.WithNow(env.Now))
	}
	if len(cfg.Keywords) > 0 {
		opts = append(opts, md2deck.WithKeywords(cfg.Keywords))
	}
	return md2deck.NewPreprocessor(opts...)
}

// newCompiler builds the renderer step from the merged config.
func newCompiler(cfg *config.Config, env *Environment, logger *slog.Logger) *md2deck.Compiler {
	opts := []md2deck.CompilerOption{
		md2deck.WithCompilerLogger(logger),
		md2deck.WithCompilerDefaults(defaultsFrom(cfg)),
	}
	if cfg.Marp.Command != "" {
		opts = append(opts, md2deck.WithMarpCommand(cfg.Marp.Command))
	}
	if env.Runner != nil {
		opts = append(opts, md2deck.WithRunner(env.Runner))
	}
	return md2deck.NewCompiler(opts...)
}

func defaultsFrom(cfg *config.Config) md2deck.Defaults {
	return md2deck.Defaults{
		Title:      cfg.Defaults.Title,
		Author:     cfg.Defaults.Author,
		Thanks:     cfg.Defaults.Thanks,
		Theme:      cfg.Defaults.Theme,
		DateFormat: cfg.DateFormat,
	}
}

// run processes one document according to the command.
func (r *deckRunner) run(ctx context.Context, f DeckFile) (string, error) {
	switch r.cmd {
	case cmdPreprocess:
		return r.preprocess(ctx, f.InputPath, f.OutputPath)
	case cmdCompile:
		return r.compiler.Compile(ctx, md2deck.CompileRequest{
			Source: f.InputPath,
			Output: f.OutputPath,
			Format: r.format,
		})
	default:
		// The processed deck stays beside the input so images and theme
		// stylesheets resolve.
		processed, err := r.preprocess(ctx, f.InputPath, fileutil.ProcessedPath(f.InputPath))
		if err != nil {
			return "", err
		}
		return r.compiler.Compile(ctx, md2deck.CompileRequest{
			Source: processed,
			Output: f.OutputPath,
			Format: r.format,
		})
	}
}

// preprocess runs the pipeline on inputPath and writes the deck to
// outputPath. Nothing is written when validation fails.
func (r *deckRunner) preprocess(ctx context.Context, inputPath, outputPath string) (string, error) {
	content, err := os.ReadFile(inputPath) // #nosec G304 -- discovered path
	if err != nil {
		return "", fmt.Errorf("%w: %v", md2deck.ErrReadMarkdown, err)
	}

	res, err := r.process(ctx, string(content), inputPath)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), dirPermissions); err != nil {
		return "", fmt.Errorf("%w: creating output directory: %v%s", md2deck.ErrWriteOutput, err, hints.ForOutputDirectory())
	}
	out := md2deck.RebasePaths(res.Markdown, filepath.Dir(inputPath), filepath.Dir(outputPath))
	// #nosec G306 -- decks are meant to be readable
	if err := os.WriteFile(outputPath, []byte(out), filePermissions); err != nil {
		return "", fmt.Errorf("%w: %v", md2deck.ErrWriteOutput, err)
	}
	r.log.Debug("deck written", "input", inputPath, "output", outputPath, "slides", res.Report.Slides)
	return outputPath, nil
}

// process runs the pipeline and prints the report when asked. Diagnostics
// are logged by the pipeline itself.
func (r *deckRunner) process(ctx context.Context, content, name string) (*md2deck.Result, error) {
	res, err := r.pre.Process(ctx, md2deck.Input{Markdown: content, Name: name})
	if res != nil && r.report {
		r.writeReport(name, res.Report)
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

// writeReport prints one document's quality report to stdout.
func (r *deckRunner) writeReport(name string, report md2deck.Report) {
	r.stdoutMu.Lock()
	defer r.stdoutMu.Unlock()

	fmt.Fprintf(r.env.Stdout, "== %s ==\n", name)
	_, _ = report.WriteTo(r.env.Stdout)
	fmt.Fprintln(r.env.Stdout)
}

// runStdin handles "-" as input. preprocess writes the deck to stdout or
// -o; build and compile render to -o, or deck.<format> in the working
// directory.
func (r *deckRunner) runStdin(ctx context.Context, output string) error {
	data, err := io.ReadAll(r.env.Stdin)
	if err != nil {
		return fmt.Errorf("%w: reading stdin: %v", md2deck.ErrReadMarkdown, err)
	}
	content := string(data)

	if r.cmd != cmdCompile {
		res, err := r.process(ctx, content, "stdin")
		if err != nil {
			return err
		}
		content = res.Markdown
	}

	if r.cmd == cmdPreprocess {
		if output == "" {
			_, err := io.WriteString(r.env.Stdout, content)
			return err
		}
		content = md2deck.RebasePaths(content, ".", filepath.Dir(output))
		// #nosec G306 -- decks are meant to be readable
		if err := os.WriteFile(output, []byte(content), filePermissions); err != nil {
			return fmt.Errorf("%w: %v", md2deck.ErrWriteOutput, err)
		}
		r.created(output)
		return nil
	}

	out, err := r.compiler.Compile(ctx, md2deck.CompileRequest{
		Markdown: content,
		Output:   output,
		Format:   r.format,
	})
	if err != nil {
		return err
	}
	r.created(out)
	return nil
}

func (r *deckRunner) created(path string) {
	if !r.quiet {
		fmt.Fprintf(r.env.Stdout, "Created %s\n", path)
	}
}
