package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: bbc2html <command> [flags] [args]")
	fmt.Fprintln(w, "       bbc2html <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  render     Render BBCode messages to HTML (default)")
	fmt.Fprintln(w, "  doctor     Check config, data sources and smiley sets")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'bbc2html help <command>' for details on a specific command.")
}

// printRenderUsage prints usage for the render command.
func printRenderUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: bbc2html render <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render forum messages to HTML fragments.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    .bbc or .txt file, directory, or - for stdin")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file or directory")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w, "      --max-size <n>        Maximum message size in bytes")
	fmt.Fprintln(w, "      --standalone          Write full HTML documents with a stylesheet")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "BBCode:")
	fmt.Fprintln(w, "      --print               Render for printing (drops colors and links)")
	fmt.Fprintln(w, "      --parsed-tags <list>  Only render these tags, e.g. b,i,url")
	fmt.Fprintln(w, "      --no-bbc              Render messages as plain text")
	fmt.Fprintln(w, "      --no-markdown         Disable the markdown pre-pass")
	fmt.Fprintln(w, "      --highlight-style <s> Chroma style for [code=lang]")
	fmt.Fprintln(w, "      --no-highlight        Disable syntax highlighting")
	fmt.Fprintln(w, "      --sanitize            Run output through an HTML sanitizer")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Smileys:")
	fmt.Fprintln(w, "      --smiley-set <name>   Smiley set name")
	fmt.Fprintln(w, "      --no-smileys          Disable smiley substitution")
	fmt.Fprintln(w, "      --no-emoji            Disable :shortcode: emoji")
	fmt.Fprintln(w, "      --asset-path <dir>    Custom smiley sets and styles")
	fmt.Fprintln(w, "      --cache <s>           Smiley cache: none, memory, redis")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show detailed timing and debug logs")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  BBC_CONFIG, BBC_OUTPUT_DIR, BBC_WORKERS, BBC_SMILEY_SET, BBC_ASSET_PATH,")
	fmt.Fprintln(w, "  BBC_DB_DRIVER, BBC_DB_DSN, BBC_DB_PREFIX, BBC_CACHE, BBC_REDIS_ADDR,")
	fmt.Fprintln(w, "  BBC_REDIS_PASSWORD")
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: bbc2html doctor [--json] [-c config]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check the config, database, Redis cache and smiley set, then render")
	fmt.Fprintln(w, "a sample message.")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "render":
		printRenderUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: bbc2html version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: bbc2html help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
