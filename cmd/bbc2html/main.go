package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	// Configure GOMAXPROCS before the worker count is resolved.
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	undo, _ := maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
		if wantsVerbose(os.Args[1:]) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}
	}))

	ctx, stop := notifyContext(context.Background())
	code := runMain(ctx, os.Args[1:], DefaultEnv())
	stop()
	undo()
	os.Exit(code)
}

// commands lists the subcommand names.
var commands = map[string]bool{
	"render":  true,
	"doctor":  true,
	"version": true,
	"help":    true,
}

// isCommand reports whether arg names a subcommand.
func isCommand(arg string) bool {
	return commands[arg]
}

// runMain dispatches to a subcommand and returns the process exit code.
// A first argument that is not a command is treated as render input, so
// "bbc2html post.bbc" and "bbc2html render post.bbc" are the same.
func runMain(ctx context.Context, args []string, env *Environment) int {
	warnUnknownEnvVars(env.Stderr)

	if len(args) == 0 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	cmd, rest := args[0], args[1:]
	if !isCommand(cmd) {
		switch cmd {
		case "--version":
			cmd, rest = "version", nil
		case "-h", "--help":
			cmd, rest = "help", nil
		default:
			cmd, rest = "render", args
		}
	}

	switch cmd {
	case "version":
		fmt.Fprintf(env.Stdout, "bbc2html %s\n", Version)
		return ExitSuccess
	case "help":
		runHelp(rest, env)
		return ExitSuccess
	case "doctor":
		return runDoctorCmd(ctx, rest, env)
	}

	flags, positional, err := parseRenderFlags(rest, env.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		fmt.Fprintln(env.Stderr, err)
		return ExitUsage
	}
	if flags.version {
		fmt.Fprintf(env.Stdout, "bbc2html %s\n", Version)
		return ExitSuccess
	}

	if err := runRender(ctx, positional, flags, env); err != nil {
		fmt.Fprintln(env.Stderr, err)
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// wantsVerbose scans raw arguments for the verbose flag before pflag runs.
func wantsVerbose(args []string) bool {
	for _, a := range args {
		if a == "-v" || a == "--verbose" {
			return true
		}
	}
	return false
}
