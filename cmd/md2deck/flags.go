package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// ErrUsage wraps flag parsing failures.
var ErrUsage = errors.New("invalid usage")

// Deck commands.
const (
	cmdBuild      = "build"
	cmdPreprocess = "preprocess"
	cmdCompile    = "compile"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// deckFlags holds the flags of build, preprocess and compile. Fields a
// command does not register keep their zero value.
type deckFlags struct {
	common  commonFlags
	output  string
	format  string
	workers int
	force   bool
	report  bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show stage messages and timing")
}

// addPreprocessFlags adds the flags that drive the layout pipeline.
func addPreprocessFlags(fs *flag.FlagSet, f *deckFlags) {
	fs.BoolVar(&f.force, "force", false, "downgrade layout contract violations to warnings")
	fs.BoolVar(&f.report, "report", false, "print the quality report to stdout")
}

// addCompileFlags adds the flags that drive the renderer.
func addCompileFlags(fs *flag.FlagSet, f *deckFlags) {
	fs.StringVarP(&f.format, "format", "f", "", "output format: pptx, pdf, html")
}

// buildDeckFlagSet creates the FlagSet of a deck command. Shared by
// parseDeckFlags and shell completion.
func buildDeckFlagSet(cmd string, f *deckFlags) *flag.FlagSet {
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)

	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel documents (0 = auto)")
	addCommonFlags(fs, &f.common)

	switch cmd {
	case cmdBuild:
		addPreprocessFlags(fs, f)
		addCompileFlags(fs, f)
	case cmdPreprocess:
		addPreprocessFlags(fs, f)
	case cmdCompile:
		addCompileFlags(fs, f)
	}

	return fs
}

// parseDeckFlags parses the flags of a deck command and returns the
// positional arguments. Help requests return flag.ErrHelp after printing
// usage to w.
func parseDeckFlags(cmd string, args []string, w io.Writer) (*deckFlags, []string, error) {
	f := &deckFlags{}
	fs := buildDeckFlagSet(cmd, f)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printCommandUsage(w, cmd)
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("%w: %v (see 'md2deck help %s')", ErrUsage, err, cmd)
	}

	return f, fs.Args(), nil
}

// hasVerboseFlag reports whether -v or --verbose appears before "--".
// main needs it before any command is parsed.
func hasVerboseFlag(args []string) bool {
	for _, a := range args {
		switch a {
		case "--":
			return false
		case "-v", "--verbose":
			return true
		}
	}
	return false
}
