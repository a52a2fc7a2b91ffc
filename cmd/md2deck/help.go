package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/alnah/go-md2deck/internal/assets"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2deck <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  build       Preprocess and render markdown decks")
	fmt.Fprintln(w, "  preprocess  Write paginated, layout-tagged Marp markdown")
	fmt.Fprintln(w, "  compile     Render Marp markdown with marp-cli")
	fmt.Fprintln(w, "  completion  Generate shell completion script")
	fmt.Fprintln(w, "  version     Show version information")
	fmt.Fprintln(w, "  help        Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "A markdown file as first argument runs build.")
	fmt.Fprintln(w, "Run 'md2deck help <command>' for details on a specific command.")
}

// printCommandUsage prints usage for a command. Unknown names print the
// main usage.
func printCommandUsage(w io.Writer, cmd string) {
	switch cmd {
	case cmdBuild:
		printBuildUsage(w)
	case cmdPreprocess:
		printPreprocessUsage(w)
	case cmdCompile:
		printCompileUsage(w)
	case "completion":
		printCompletionUsage(w)
	default:
		printUsage(w)
	}
}

// printBuildUsage prints usage for the build command.
func printBuildUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2deck build <input>... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Paginate markdown into slides, tag layouts and render the deck.")
	fmt.Fprintln(w, "The preprocessed deck is kept beside each input as .process_<name>.md.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    Markdown files or directories, or - for stdin")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file or directory")
	fmt.Fprintln(w, "  -f, --format <s>          Output format: pptx, pdf, html (default pptx)")
	fmt.Fprintln(w, "      --force               Downgrade layout contract violations to warnings")
	fmt.Fprintln(w, "      --report              Print the quality report to stdout")
	printSharedFlags(w)
	printLayoutMarkers(w)
}

// printPreprocessUsage prints usage for the preprocess command.
func printPreprocessUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2deck preprocess <input>... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Write paginated, layout-tagged Marp markdown without rendering.")
	fmt.Fprintln(w, "Output defaults to .process_<name>.md beside each input, or stdout for -.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file or directory")
	fmt.Fprintln(w, "      --force               Downgrade layout contract violations to warnings")
	fmt.Fprintln(w, "      --report              Print the quality report to stdout")
	printSharedFlags(w)
	printLayoutMarkers(w)
}

// printCompileUsage prints usage for the compile command.
func printCompileUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2deck compile <input>... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render Marp markdown with marp-cli. Directories yield their .process_*.md files.")
	fmt.Fprintln(w, "Theme stylesheets are looked up beside the input: <theme>.css, then theme-<theme>.css.")
	fmt.Fprintf(w, "Built-in themes: %s\n", strings.Join(assets.NewEmbeddedLoader().Names(), ", "))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file or directory")
	fmt.Fprintln(w, "  -f, --format <s>          Output format: pptx, pdf, html (default pptx)")
	printSharedFlags(w)
}

func printSharedFlags(w io.Writer) {
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel documents (0 = auto)")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show stage messages and timing")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  MD2DECK_CONFIG, MD2DECK_FORMAT, MD2DECK_OUTPUT_DIR, MD2DECK_THEME,")
	fmt.Fprintln(w, "  MD2DECK_AUTHOR, MD2DECK_DATE_FORMAT, MD2DECK_TOC_TITLE, MD2DECK_MARP,")
	fmt.Fprintln(w, "  MD2DECK_FORCE, MD2DECK_WORKERS (a .env file in the working directory is read)")
}

func printLayoutMarkers(w io.Writer) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Layout markers (on their own line, under a heading):")
	fmt.Fprintln(w, "  @[split]  @[cards]  @[cols2]..@[cols6]  @[metric]  @[quote]  @[focus]")
	fmt.Fprintln(w, "  @[chapter]  @[toc]  @[toc:N] (N = first entry number)")
}

// runHelp handles the help command.
func runHelp(args []string, env *Environment) error {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return nil
	}
	printCommandUsage(env.Stdout, args[0])
	return nil
}
