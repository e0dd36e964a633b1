package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// bbcFlags holds tag rendering flags.
type bbcFlags struct {
	print          bool     // render for printing
	parsedTags     []string // only render these tags
	disabled       bool     // render plain escaped text
	sanitize       bool
	highlightStyle string
	noHighlight    bool
}

// smileyFlags holds smiley and emoji flags.
type smileyFlags struct {
	set      string
	disabled bool
	noEmoji  bool
}

// sourceFlags holds smiley data source flags.
type sourceFlags struct {
	assetPath string // Directory with custom smiley sets and styles
	cache     string // none, memory, redis
}

// outputFlags holds output mode flags.
type outputFlags struct {
	standalone bool // wrap fragments in a full HTML document
}

// renderFlags holds all flags for the render command.
type renderFlags struct {
	common     commonFlags
	output     string
	workers    int
	maxSize    int
	noMarkdown bool
	version    bool
	bbc        bbcFlags
	smileys    smileyFlags
	sources    sourceFlags
	outputMode outputFlags
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed timing and debug logs")
}

// addBBCFlags adds tag rendering flags to a FlagSet.
func addBBCFlags(fs *flag.FlagSet, f *bbcFlags) {
	fs.BoolVar(&f.print, "print", false, "render for printing (drops colors and links)")
	fs.StringSliceVar(&f.parsedTags, "parsed-tags", nil, "only render these tags, e.g. b,i,url")
	fs.BoolVar(&f.disabled, "no-bbc", false, "render messages as plain text")
	fs.BoolVar(&f.sanitize, "sanitize", false, "run output through an HTML sanitizer")
	fs.StringVar(&f.highlightStyle, "highlight-style", "", "chroma style for [code=lang]")
	fs.BoolVar(&f.noHighlight, "no-highlight", false, "disable syntax highlighting")
}

// addSmileyFlags adds smiley flags to a FlagSet.
func addSmileyFlags(fs *flag.FlagSet, f *smileyFlags) {
	fs.StringVar(&f.set, "smiley-set", "", "smiley set name")
	fs.BoolVar(&f.disabled, "no-smileys", false, "disable smiley substitution")
	fs.BoolVar(&f.noEmoji, "no-emoji", false, "disable :shortcode: emoji")
}

// addSourceFlags adds data source flags to a FlagSet.
func addSourceFlags(fs *flag.FlagSet, f *sourceFlags) {
	fs.StringVar(&f.assetPath, "asset-path", "", "custom asset directory")
	fs.StringVar(&f.cache, "cache", "", "smiley cache: none, memory, redis")
}

// addOutputFlags adds output mode flags to a FlagSet.
func addOutputFlags(fs *flag.FlagSet, f *outputFlags) {
	fs.BoolVar(&f.standalone, "standalone", false, "write full HTML documents with a stylesheet")
}

// parseRenderFlags parses render command flags and returns positional args.
func parseRenderFlags(args []string, usage io.Writer) (*renderFlags, []string, error) {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	fs.SetOutput(usage)
	f := &renderFlags{}

	// I/O flags
	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.IntVar(&f.maxSize, "max-size", 0, "maximum message size in bytes (0 = default)")
	fs.BoolVar(&f.noMarkdown, "no-markdown", false, "disable the markdown pre-pass")
	fs.BoolVar(&f.version, "version", false, "show version information")

	// Flag groups
	addCommonFlags(fs, &f.common)
	addBBCFlags(fs, &f.bbc)
	addSmileyFlags(fs, &f.smileys)
	addSourceFlags(fs, &f.sources)
	addOutputFlags(fs, &f.outputMode)

	fs.Usage = func() { printRenderUsage(usage) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	return f, fs.Args(), nil
}
