package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/alnah/go-md2deck/internal/fileutil"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	// Configure GOMAXPROCS with conditional logging
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	if hasVerboseFlag(os.Args[1:]) {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}))
	} else {
		_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
	}

	os.Exit(runMain(os.Args, DefaultEnv()))
}

// runMain dispatches the command in args and returns the exit code.
func runMain(args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	loadDotEnv()
	warnUnknownEnvVars(env.Stderr)

	ctx, stop := notifyContext(context.Background())
	defer stop()

	cmd, rest := args[1], args[2:]
	if looksLikeMarkdown(cmd) {
		cmd, rest = cmdBuild, args[1:]
	}

	var err error
	switch {
	case isCommand(cmd, cmdBuild, cmdPreprocess, cmdCompile):
		err = runDeck(ctx, cmd, rest, env)
	case isCommand(cmd, "version", "--version"):
		fmt.Fprintf(env.Stdout, "md2deck %s\n", Version)
	case isCommand(cmd, "help", "-h", "--help"):
		err = runHelp(rest, env)
	case isCommand(cmd, "completion"):
		err = runCompletion(rest, env)
	default:
		fmt.Fprintf(env.Stderr, "unknown command: %s\n\n", cmd)
		printUsage(env.Stderr)
		return ExitUsage
	}

	switch {
	case err == nil, errors.Is(err, flag.ErrHelp):
		return ExitSuccess
	case isCancelled(err):
		fmt.Fprintln(env.Stderr, "interrupted")
		return ExitGeneral
	}
	fmt.Fprintf(env.Stderr, "error: %v\n", err)
	return exitCodeFor(err)
}

// isCommand reports whether arg is one of names.
func isCommand(arg string, names ...string) bool {
	for _, n := range names {
		if arg == n {
			return true
		}
	}
	return false
}

// looksLikeMarkdown reports whether arg names a markdown file rather than a
// command.
func looksLikeMarkdown(arg string) bool {
	return fileutil.IsMarkdown(arg)
}
