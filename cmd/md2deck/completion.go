package main

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	flag "github.com/spf13/pflag"

	md2deck "github.com/alnah/go-md2deck"
)

// Shell represents a supported shell for completion generation.
type Shell string

// Supported shells for completion.
const (
	ShellBash Shell = "bash"
	ShellZsh  Shell = "zsh"
	ShellFish Shell = "fish"
)

// ErrUnsupportedShell is returned when an unknown shell is requested.
var ErrUnsupportedShell = errors.New("unsupported shell")

// flagType represents the completion type for a flag.
type flagType int

const (
	flagString flagType = iota // default
	flagBool
	flagInt
	flagEnum // has predefined values
	flagFile // file with glob pattern
	flagDir  // directory
)

// flagDef describes a flag for completion purposes.
type flagDef struct {
	Long     string   // --output
	Short    string   // -o (empty if none)
	Type     flagType // completion type
	Desc     string   // help text
	Values   []string // for enum flags
	FileGlob string   // for file flags
}

// commandDef describes a command for completion.
type commandDef struct {
	Name       string
	Desc       string
	Flags      []flagDef
	TakesFiles bool // accepts markdown arguments
}

// completionMeta holds completion-specific metadata for flags.
// Flag names, types, and descriptions come from the FlagSet.
type completionMeta struct {
	Values   []string // enum values
	FileGlob string   // file glob pattern
	IsDir    bool     // directory completion
}

// flagCompletionMeta maps flag names to their completion metadata.
var flagCompletionMeta = map[string]completionMeta{
	"format": {Values: []string{string(md2deck.FormatPPTX), string(md2deck.FormatPDF), string(md2deck.FormatHTML)}},
	"config": {FileGlob: "*.yaml,*.yml"},
	"output": {IsDir: true},
}

// extractFlagsFromFlagSet extracts flag definitions from a pflag.FlagSet.
// Enriches with completion metadata from flagCompletionMeta.
func extractFlagsFromFlagSet(fs *flag.FlagSet) []flagDef {
	var flags []flagDef

	fs.VisitAll(func(f *flag.Flag) {
		fd := flagDef{
			Long:  f.Name,
			Short: f.Shorthand,
			Desc:  f.Usage,
		}

		switch f.Value.Type() {
		case "bool":
			fd.Type = flagBool
		case "int":
			fd.Type = flagInt
		default:
			fd.Type = flagString
		}

		if meta, ok := flagCompletionMeta[f.Name]; ok {
			switch {
			case len(meta.Values) > 0:
				fd.Type = flagEnum
				fd.Values = meta.Values
			case meta.FileGlob != "":
				fd.Type = flagFile
				fd.FileGlob = meta.FileGlob
			case meta.IsDir:
				fd.Type = flagDir
			}
		}

		flags = append(flags, fd)
	})

	return flags
}

// getCommands returns the command registry for completion.
// Flags are extracted from the actual FlagSet - single source of truth.
func getCommands() []commandDef {
	deckFlagsFor := func(cmd string) []flagDef {
		return extractFlagsFromFlagSet(buildDeckFlagSet(cmd, &deckFlags{}))
	}

	return []commandDef{
		{Name: cmdBuild, Desc: "Preprocess and render markdown decks", Flags: deckFlagsFor(cmdBuild), TakesFiles: true},
		{Name: cmdPreprocess, Desc: "Write layout-tagged Marp markdown", Flags: deckFlagsFor(cmdPreprocess), TakesFiles: true},
		{Name: cmdCompile, Desc: "Render Marp markdown with marp-cli", Flags: deckFlagsFor(cmdCompile), TakesFiles: true},
		{Name: "completion", Desc: "Generate shell completion script"},
		{Name: "version", Desc: "Show version information"},
		{Name: "help", Desc: "Show help for a command"},
	}
}

// GenerateCompletion writes shell completion script to w.
// Returns error if shell is unsupported or write fails.
func GenerateCompletion(w io.Writer, shell Shell) error {
	switch shell {
	case ShellBash:
		return generateBash(w)
	case ShellZsh:
		return generateZsh(w)
	case ShellFish:
		return generateFish(w)
	default:
		return fmt.Errorf("%w: %q (supported: bash, zsh, fish)", ErrUnsupportedShell, shell)
	}
}

func commandNames(cmds []commandDef) []string {
	names := make([]string, len(cmds))
	for i, c := range cmds {
		names[i] = c.Name
	}
	return names
}

func flagWords(flags []flagDef) []string {
	var words []string
	for _, f := range flags {
		words = append(words, "--"+f.Long)
		if f.Short != "" {
			words = append(words, "-"+f.Short)
		}
	}
	sort.Strings(words)
	return words
}

// generateBash writes a completion function driven by compgen.
func generateBash(w io.Writer) error {
	cmds := getCommands()
	var b strings.Builder

	b.WriteString("# bash completion for md2deck\n")
	b.WriteString("_md2deck() {\n")
	b.WriteString("  local cur prev cmd\n")
	b.WriteString("  cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("  prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n")
	b.WriteString("  cmd=\"${COMP_WORDS[1]}\"\n\n")
	b.WriteString("  if [[ ${COMP_CWORD} -eq 1 ]]; then\n")
	fmt.Fprintf(&b, "    COMPREPLY=($(compgen -W %q -- \"$cur\"))\n", strings.Join(commandNames(cmds), " "))
	b.WriteString("    return\n  fi\n\n")

	b.WriteString("  case \"$prev\" in\n")
	for _, f := range deckFlagsUnion(cmds) {
		pattern := "--" + f.Long
		if f.Short != "" {
			pattern += "|-" + f.Short
		}
		switch f.Type {
		case flagEnum:
			fmt.Fprintf(&b, "    %s) COMPREPLY=($(compgen -W %q -- \"$cur\")); return ;;\n", pattern, strings.Join(f.Values, " "))
		case flagFile:
			b.WriteString("    " + pattern + ") COMPREPLY=($(compgen -f -X '!*.@(yaml|yml)' -- \"$cur\")); return ;;\n")
		case flagDir:
			b.WriteString("    " + pattern + ") COMPREPLY=($(compgen -d -- \"$cur\")); return ;;\n")
		case flagInt, flagString:
			b.WriteString("    " + pattern + ") return ;;\n")
		}
	}
	b.WriteString("  esac\n\n")

	b.WriteString("  case \"$cmd\" in\n")
	for _, c := range cmds {
		if !c.TakesFiles {
			continue
		}
		fmt.Fprintf(&b, "    %s)\n", c.Name)
		b.WriteString("      if [[ \"$cur\" == -* ]]; then\n")
		fmt.Fprintf(&b, "        COMPREPLY=($(compgen -W %q -- \"$cur\"))\n", strings.Join(flagWords(c.Flags), " "))
		b.WriteString("      else\n")
		b.WriteString("        COMPREPLY=($(compgen -f -X '!*.@(md|markdown)' -- \"$cur\") $(compgen -d -- \"$cur\"))\n")
		b.WriteString("      fi ;;\n")
	}
	b.WriteString("    completion) COMPREPLY=($(compgen -W \"bash zsh fish\" -- \"$cur\")) ;;\n")
	fmt.Fprintf(&b, "    help) COMPREPLY=($(compgen -W %q -- \"$cur\")) ;;\n", strings.Join(commandNames(cmds), " "))
	b.WriteString("  esac\n")
	b.WriteString("}\n")
	b.WriteString("shopt -s extglob\n")
	b.WriteString("complete -o filenames -F _md2deck md2deck\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// generateZsh writes a compdef function built on _arguments.
func generateZsh(w io.Writer) error {
	cmds := getCommands()
	var b strings.Builder

	b.WriteString("#compdef md2deck\n\n")
	b.WriteString("_md2deck() {\n")
	b.WriteString("  local -a commands\n")
	b.WriteString("  commands=(\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "    '%s:%s'\n", c.Name, zshEscape(c.Desc))
	}
	b.WriteString("  )\n\n")
	b.WriteString("  if (( CURRENT == 2 )); then\n")
	b.WriteString("    _describe 'command' commands\n")
	b.WriteString("    return\n  fi\n\n")
	b.WriteString("  case \"${words[2]}\" in\n")
	for _, c := range cmds {
		if !c.TakesFiles {
			continue
		}
		fmt.Fprintf(&b, "    %s)\n      _arguments \\\n", c.Name)
		for _, f := range c.Flags {
			fmt.Fprintf(&b, "        %s \\\n", zshFlagSpec(f))
		}
		b.WriteString("        '*:markdown file:_files -g \"*.(md|markdown)\"'\n      ;;\n")
	}
	b.WriteString("    completion) _values 'shell' bash zsh fish ;;\n")
	b.WriteString("    help) _describe 'command' commands ;;\n")
	b.WriteString("  esac\n")
	b.WriteString("}\n\n")
	b.WriteString("compdef _md2deck md2deck\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// zshFlagSpec renders one _arguments spec for f.
func zshFlagSpec(f flagDef) string {
	names := "--" + f.Long
	if f.Short != "" {
		names = fmt.Sprintf("{-%s,--%s}", f.Short, f.Long)
	}
	desc := "[" + zshEscape(f.Desc) + "]"

	var action string
	switch f.Type {
	case flagBool:
		action = ""
	case flagEnum:
		action = ":" + f.Long + ":(" + strings.Join(f.Values, " ") + ")"
	case flagFile:
		action = ":" + f.Long + ":_files -g \"*.(yaml|yml)\""
	case flagDir:
		action = ":" + f.Long + ":_files -/"
	default:
		action = ":" + f.Long + ":"
	}
	if f.Short != "" {
		return names + "'" + desc + action + "'"
	}
	return "'" + names + desc + action + "'"
}

func zshEscape(s string) string {
	s = strings.ReplaceAll(s, "'", "'\\''")
	s = strings.ReplaceAll(s, "[", "\\[")
	s = strings.ReplaceAll(s, "]", "\\]")
	return strings.ReplaceAll(s, ":", "\\:")
}

// generateFish writes complete commands for fish.
func generateFish(w io.Writer) error {
	cmds := getCommands()
	var b strings.Builder

	b.WriteString("# fish completion for md2deck\n")
	b.WriteString("complete -c md2deck -f\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "complete -c md2deck -n __fish_use_subcommand -a %s -d %s\n", c.Name, fishQuote(c.Desc))
	}
	for _, c := range cmds {
		cond := "__fish_seen_subcommand_from " + c.Name
		if c.TakesFiles {
			fmt.Fprintf(&b, "complete -c md2deck -n '%s' -F -a '(__fish_complete_suffix .md)'\n", cond)
		}
		for _, f := range c.Flags {
			line := fmt.Sprintf("complete -c md2deck -n '%s' -l %s", cond, f.Long)
			if f.Short != "" {
				line += " -s " + f.Short
			}
			switch f.Type {
			case flagEnum:
				line += " -x -a " + fishQuote(strings.Join(f.Values, " "))
			case flagFile, flagDir:
				line += " -r -F"
			case flagInt, flagString:
				line += " -x"
			}
			line += " -d " + fishQuote(f.Desc)
			b.WriteString(line + "\n")
		}
	}
	b.WriteString("complete -c md2deck -n '__fish_seen_subcommand_from completion' -x -a 'bash zsh fish'\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func fishQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "\\'") + "'"
}

// deckFlagsUnion returns every flag of the deck commands once, by long name.
func deckFlagsUnion(cmds []commandDef) []flagDef {
	seen := map[string]bool{}
	var out []flagDef
	for _, c := range cmds {
		for _, f := range c.Flags {
			if !seen[f.Long] {
				seen[f.Long] = true
				out = append(out, f)
			}
		}
	}
	return out
}

// runCompletion handles the completion command.
func runCompletion(args []string, env *Environment) error {
	if len(args) == 0 {
		printCompletionUsage(env.Stdout)
		return nil
	}

	return GenerateCompletion(env.Stdout, Shell(args[0]))
}

// printCompletionUsage prints help for the completion command.
func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2deck completion <shell>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate shell completion script for the specified shell.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Supported shells:")
	fmt.Fprintln(w, "  bash        Bash completion script")
	fmt.Fprintln(w, "  zsh         Zsh completion script")
	fmt.Fprintln(w, "  fish        Fish completion script")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Installation:")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Bash:")
	fmt.Fprintln(w, "    # Add to ~/.bashrc:")
	fmt.Fprintln(w, "    eval \"$(md2deck completion bash)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Zsh:")
	fmt.Fprintln(w, "    # Add to ~/.zshrc (after compinit):")
	fmt.Fprintln(w, "    eval \"$(md2deck completion zsh)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Fish:")
	fmt.Fprintln(w, "    md2deck completion fish > ~/.config/fish/completions/md2deck.fish")
}
