package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	md2deck "github.com/alnah/go-md2deck"
	"github.com/alnah/go-md2deck/internal/config"
	"github.com/alnah/go-md2deck/internal/fileutil"
)

// Sentinel errors for file discovery.
var (
	ErrNoInput          = errors.New("no input specified")
	ErrInvalidExtension = errors.New("file must have .md or .markdown extension")
)

// stdinArg names standard input as the source.
const stdinArg = "-"

// DeckFile represents a single document to process.
type DeckFile struct {
	InputPath  string
	OutputPath string // artifact for build and compile, Markdown for preprocess
}

// discoverAll runs discoverFiles on every input. Inputs are resolved in
// order and the result keeps that order.
func discoverAll(cmd string, inputs []string, outputDir string, format md2deck.Format) ([]DeckFile, error) {
	if len(inputs) == 0 {
		return nil, ErrNoInput
	}

	var files []DeckFile
	for _, in := range inputs {
		found, err := discoverFiles(cmd, in, outputDir, format)
		if err != nil {
			return nil, err
		}
		files = append(files, found...)
	}
	return files, nil
}

// discoverFiles finds the documents a command should process under
// inputPath. Directories are walked recursively; build and preprocess skip
// intermediate files, compile only takes preprocessed ones.
func discoverFiles(cmd, inputPath, outputDir string, format md2deck.Format) ([]DeckFile, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		if err := validateMarkdownExtension(inputPath); err != nil {
			return nil, err
		}
		return []DeckFile{{
			InputPath:  inputPath,
			OutputPath: singleOutputPath(cmd, inputPath, outputDir, format),
		}}, nil
	}

	var files []DeckFile
	err = filepath.WalkDir(inputPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if d.IsDir() {
			if path != inputPath && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !wantsFile(cmd, path) {
			return nil
		}
		files = append(files, DeckFile{
			InputPath:  path,
			OutputPath: resolveOutputPath(cmd, path, outputDir, inputPath, format),
		})
		return nil
	})

	return files, err
}

// wantsFile reports whether a walked file belongs to the command.
func wantsFile(cmd, path string) bool {
	if !fileutil.IsMarkdown(path) {
		return false
	}
	if cmd == cmdCompile {
		return strings.HasPrefix(filepath.Base(path), fileutil.ProcessPrefix)
	}
	return !fileutil.IsIntermediate(path)
}

// singleOutputPath resolves the output of a lone input file, where -o may
// name the output file itself.
func singleOutputPath(cmd, inputPath, output string, format md2deck.Format) string {
	if cmd == cmdPreprocess {
		if output == "" {
			return fileutil.ProcessedPath(inputPath)
		}
		if fileutil.IsDir(output) || strings.HasSuffix(output, string(filepath.Separator)) {
			return filepath.Join(output, filepath.Base(fileutil.ProcessedPath(inputPath)))
		}
		return output
	}
	return fileutil.OutputPath(inputPath, output, format.Extension())
}

// resolveOutputPath determines the output path of a file found under
// baseInputDir. A set outputDir mirrors the input tree.
func resolveOutputPath(cmd, inputPath, outputDir, baseInputDir string, format md2deck.Format) string {
	name := fileutil.BaseName(inputPath) + "." + format.Extension()
	if cmd == cmdPreprocess {
		name = filepath.Base(fileutil.ProcessedPath(inputPath))
	}

	if outputDir == "" {
		return filepath.Join(filepath.Dir(inputPath), name)
	}

	relDir := "."
	if relPath, err := filepath.Rel(baseInputDir, inputPath); err == nil {
		relDir = filepath.Dir(relPath)
	}
	return filepath.Join(outputDir, relDir, name)
}

// resolveOutputDir returns the -o flag, falling back to output.defaultDir.
func resolveOutputDir(flagOutput string, cfg *config.Config) string {
	if flagOutput != "" {
		return flagOutput
	}
	return cfg.Output.DefaultDir
}

// validateMarkdownExtension checks that the file has a .md or .markdown extension.
func validateMarkdownExtension(path string) error {
	if !fileutil.IsMarkdown(path) {
		return fmt.Errorf("%w: got %q", ErrInvalidExtension, filepath.Ext(path))
	}
	return nil
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", md2deck.ErrInvalidWorkers, n)
	}
	if n > config.MaxWorkers {
		return fmt.Errorf("%w: %d (maximum is %d)", md2deck.ErrInvalidWorkers, n, config.MaxWorkers)
	}
	return nil
}

// isStdin reports whether the inputs name standard input.
func isStdin(inputs []string) bool {
	return len(inputs) == 1 && inputs[0] == stdinArg
}
