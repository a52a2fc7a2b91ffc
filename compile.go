package md2deck

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-md2deck/internal/assets"
	"github.com/alnah/go-md2deck/internal/fileutil"
	"github.com/alnah/go-md2deck/internal/frontmatter"
	"github.com/alnah/go-md2deck/internal/hints"
	"github.com/alnah/go-md2deck/internal/pipeline"
	"github.com/alnah/go-md2deck/internal/process"
	"github.com/alnah/go-md2deck/internal/render"
)

// DefaultMarpCommand runs marp-cli through npx.
const DefaultMarpCommand = "npx @marp-team/marp-cli"

// File permission constants.
const (
	dirPermissions  = 0o750
	filePermissions = 0o644
)

// CommandRunner abstracts command execution to enable testing without real subprocesses.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (stdout string, stderr string, err error)
}

// ExecRunner implements CommandRunner using os/exec. Cancelling the context
// kills the command and every process it started.
type ExecRunner struct{}

func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	process.Configure(cmd)

	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return "", "", fmt.Errorf("creating stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return "", "", fmt.Errorf("starting command: %w", err)
	}

	stderrContent, err := io.ReadAll(stderrPipe)
	if err != nil {
		return "", "", fmt.Errorf("reading stderr: %w", err)
	}

	err = cmd.Wait()
	return stdout.String(), string(stderrContent), err
}

// Compiler builds slide artifacts by running marp-cli on rendered decks.
type Compiler struct {
	runner   CommandRunner
	command  []string
	defaults Defaults
	now      func() time.Time
	log      *slog.Logger
}

// CompilerOption configures a Compiler.
type CompilerOption func(*Compiler)

// WithRunner replaces the command runner (tests, remote execution).
func WithRunner(r CommandRunner) CompilerOption {
	return func(c *Compiler) {
		c.runner = r
	}
}

// WithMarpCommand sets the renderer command line, e.g. "marp" or
// "npx @marp-team/marp-cli@latest". Empty keeps DefaultMarpCommand.
func WithMarpCommand(command string) CompilerOption {
	return func(c *Compiler) {
		if fields := strings.Fields(command); len(fields) > 0 {
			c.command = fields
		}
	}
}

// WithCompilerLogger sets the logger of a Compiler.
func WithCompilerLogger(l *slog.Logger) CompilerOption {
	return func(c *Compiler) {
		c.log = l
	}
}

// WithCompilerDefaults sets the metadata used when a deck leaves it out.
// Empty fields keep the built-in values.
func WithCompilerDefaults(d Defaults) CompilerOption {
	return func(c *Compiler) {
		c.defaults = c.defaults.Merge(d)
	}
}

// NewCompiler creates a Compiler that runs DefaultMarpCommand.
func NewCompiler(opts ...CompilerOption) *Compiler {
	c := &Compiler{
		runner:   &ExecRunner{},
		command:  strings.Fields(DefaultMarpCommand),
		defaults: frontmatter.DefaultDefaults(),
		now:      time.Now,
		log:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = slog.New(slog.DiscardHandler)
	}
	return c
}

// CompileRequest describes one deck to build.
type CompileRequest struct {
	// Source is the deck path. Stylesheets and relative images resolve
	// beside it. Empty means Markdown came from elsewhere (stdin).
	Source string

	// Markdown is the deck content. Empty reads Source.
	Markdown string

	// Output is a file or directory. Empty writes <base>.<format> beside
	// Source, or in the working directory when Source is empty.
	Output string

	Format Format
}

// Compile renders the deck to the requested format and returns the artifact
// path. Layout markers left in the deck are translated first, so raw
// annotated Markdown compiles too.
func (c *Compiler) Compile(ctx context.Context, req CompileRequest) (string, error) {
	if err := req.Format.Validate(); err != nil {
		return "", err
	}

	content := req.Markdown
	if content == "" && req.Source != "" {
		data, err := os.ReadFile(req.Source) // #nosec G304 -- user-provided path
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrReadMarkdown, err)
		}
		content = string(data)
	}
	if strings.TrimSpace(content) == "" {
		return "", ErrEmptyMarkdown
	}

	now := c.now()
	doc, err := frontmatter.Extract(content, c.defaults, now)
	if err != nil {
		return "", fmt.Errorf("reading deck metadata: %w", err)
	}
	rendered, err := render.Document(content, c.defaults, now, c.log)
	if err != nil {
		return "", err
	}

	compilePath, cleanup, err := writeCompileCopy(req.Source, rendered)
	if err != nil {
		return "", err
	}
	defer cleanup()

	// Decks without a source are written as deck.<format> in the working directory.
	source := req.Source
	if source == "" {
		source = "deck.md"
	}
	out := fileutil.OutputPath(source, req.Output, req.Format.Extension())
	if err := os.MkdirAll(filepath.Dir(out), dirPermissions); err != nil {
		return "", fmt.Errorf("%w: creating output directory: %v%s", ErrWriteOutput, err, hints.ForOutputDirectory())
	}

	args := append([]string(nil), c.command[1:]...)
	args = append(args, compilePath)
	themePath, themeCleanup := c.resolveTheme(filepath.Dir(source), doc.Metadata.Theme)
	defer themeCleanup()
	if themePath != "" {
		args = append(args, "--theme", themePath)
	}
	args = append(args, "--allow-local-files", "-o", out, "--no-stdin")
	switch req.Format {
	case FormatPDF:
		args = append(args, "--pdf")
	case FormatHTML:
		args = append(args, "--html")
	}

	c.log.Info("compiling deck", "source", source, "output", out, "format", req.Format.Extension())
	stdout, stderr, err := c.runner.Run(ctx, c.command[0], args...)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		if errors.Is(err, exec.ErrNotFound) {
			return "", fmt.Errorf("%w: %s%s", ErrMarpNotFound, c.command[0], hints.ForMarpMissing())
		}
		return "", fmt.Errorf("%w: %s: %v%s", ErrRender, strings.TrimSpace(stderr), err, hints.ForRenderer(req.Format.Extension()))
	}
	if s := strings.TrimSpace(stdout); s != "" {
		c.log.Debug("marp output", "stdout", s)
	}
	return out, nil
}

// writeCompileCopy writes the rendered deck beside source so relative image
// paths keep resolving. Decks without a source go to a temp file, with paths
// rebased from the working directory.
func writeCompileCopy(source, rendered string) (path string, cleanup func(), err error) {
	if source == "" {
		if wd, wdErr := os.Getwd(); wdErr == nil {
			rendered = pipeline.RebasePaths(rendered, wd, os.TempDir())
		}
		path, cleanup, err = fileutil.WriteTempFile(rendered, "md")
		if err != nil {
			return "", nil, fmt.Errorf("%w: %v", ErrWriteOutput, err)
		}
		return path, cleanup, nil
	}

	path = fileutil.CompilePath(source)
	if err := os.WriteFile(path, []byte(rendered), filePermissions); err != nil { // #nosec G306 -- decks are meant to be readable
		return "", nil, fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return path, func() { _ = os.Remove(path) }, nil
}

// resolveTheme returns the stylesheet to pass to marp-cli for theme: one
// beside the deck, else a built-in theme written to a temp file. An empty
// path leaves the theme to marp-cli.
func (c *Compiler) resolveTheme(dir, theme string) (path string, cleanup func()) {
	noop := func() {}

	resolver, err := assets.NewAssetResolver(dir)
	if err != nil {
		c.log.Warn("cannot read theme directory", "dir", dir, "error", err)
		return "", noop
	}

	t, err := resolver.LoadTheme(theme)
	if err != nil {
		c.log.Warn("theme stylesheet not found, using the theme named in the deck",
			"theme", theme, "dir", dir,
			"hint", strings.TrimPrefix(hints.ForThemeNotFound(theme), "\n  hint: "))
		return "", noop
	}
	if t.Path != "" {
		return t.Path, noop
	}

	path, cleanup, err = fileutil.WriteTempFile(t.CSS, "css")
	if err != nil {
		c.log.Warn("cannot write built-in theme", "theme", theme, "error", err)
		return "", noop
	}
	c.log.Debug("using built-in theme", "theme", theme)
	return path, cleanup
}

// FindTheme looks for the stylesheet of theme in dir: <theme>.css first,
// then theme-<theme>.css.
func FindTheme(dir, theme string) (string, bool) {
	loader, err := assets.NewFilesystemLoader(dir)
	if err != nil {
		return "", false
	}
	t, err := loader.LoadTheme(theme)
	if err != nil {
		return "", false
	}
	return t.Path, true
}
