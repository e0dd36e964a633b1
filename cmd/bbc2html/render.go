package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	bbc "github.com/elkarte/go-bbc"
	"github.com/elkarte/go-bbc/internal/config"
	"github.com/elkarte/go-bbc/internal/fileutil"
	"github.com/elkarte/go-bbc/internal/hints"
)

// runRender orchestrates the render process.
func runRender(ctx context.Context, positionalArgs []string, flags *renderFlags, env *Environment) error {
	envCfg := loadEnvConfig()

	// Validate numeric flags early
	requested := flags.workers
	if requested == 0 {
		requested = envCfg.Workers
	}
	if err := validateWorkers(requested); err != nil {
		return err
	}
	if err := validateMaxSize(flags.maxSize); err != nil {
		return err
	}
	cfg, err := loadRenderConfig(flags, envCfg)
	if err != nil {
		return err
	}

	logger := newLogger(env.Stderr, flags.common.verbose, flags.common.quiet)
	defer func() { _ = logger.Sync() }()

	// Resolve input path
	inputPath, err := resolveInputPath(positionalArgs)
	if err != nil {
		return err
	}

	renderer, release, err := buildRenderer(ctx, cfg, flags.maxSize, env, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := release.Close(); err != nil {
			logger.Warn("closing data sources", zap.Error(err))
		}
	}()

	params := &renderParams{
		input: bbc.Input{
			ForPrinting: flags.bbc.print,
			ParsedTags:  flags.bbc.parsedTags,
		},
		standalone: cfg.Output.Standalone,
		now:        env.Now,
	}
	if params.standalone {
		params.stylesheet, err = renderer.Stylesheet()
		if err != nil {
			return fmt.Errorf("loading stylesheet: %w", err)
		}
	}

	if inputPath == stdinArg {
		return renderStdin(ctx, renderer, flags, params, env)
	}

	// Resolve output directory
	outputDir := resolveOutputDir(flags.output, cfg)

	// Discover files to render
	files, err := discoverFiles(inputPath, outputDir)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("%w: no .bbc or .txt files found in %s", ErrNoInput, inputPath)
	}

	workers := resolveWorkers(requested)
	logger.Debug("rendering batch", zap.Int("files", len(files)), zap.Int("workers", workers))

	results := renderBatch(ctx, renderer, workers, files, params)

	summary := printResultsWithWriter(results, flags.common.quiet, flags.common.verbose, env)
	if summary.Failed > 0 {
		return fmt.Errorf("%d render(s) failed: %w", summary.Failed, summary.FirstErr)
	}
	return nil
}

// renderStdin renders one message read from standard input. The result
// goes to --output when it names a file, to stdout otherwise.
func renderStdin(ctx context.Context, r MessageRenderer, flags *renderFlags, params *renderParams, env *Environment) error {
	content, err := io.ReadAll(env.Stdin)
	if err != nil {
		return fmt.Errorf("%w: stdin: %w", ErrReadMessage, err)
	}

	html, warnings, err := renderMessage(ctx, r, string(content), titleFor(stdinArg), params)
	if !flags.common.quiet {
		for _, w := range warnings {
			fmt.Fprintf(env.Stderr, "warning: stdin: %s\n", w)
		}
	}
	if err != nil {
		return err
	}

	if flags.output == "" {
		_, err := io.WriteString(env.Stdout, html)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(flags.output), dirPermissions); err != nil {
		return fmt.Errorf("creating output directory: %w%s", err, hints.ForOutputDirectory())
	}
	if err := fileutil.WriteFileAtomic(flags.output, []byte(html), filePermissions); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteHTML, err)
	}
	if !flags.common.quiet {
		fmt.Fprintf(env.Stdout, "Created %s\n", flags.output)
	}
	return nil
}

// loadRenderConfig loads the config file and applies environment and flag
// overrides. Precedence: CLI flags > config file > env vars > defaults.
func loadRenderConfig(flags *renderFlags, envCfg *envConfig) (*config.Config, error) {
	cfg := config.DefaultConfig()

	name := flags.common.config
	if name == "" {
		name = envCfg.ConfigPath
	}
	if name != "" {
		loaded, err := config.LoadConfig(name)
		if err != nil {
			if errors.Is(err, config.ErrConfigNotFound) {
				return nil, fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound(searchedConfigPaths(name)))
			}
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	applyEnvConfig(envCfg, cfg)
	mergeFlags(flags, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// searchedConfigPaths lists where a config name is looked up, for hints.
func searchedConfigPaths(name string) []string {
	if fileutil.IsFilePath(name) {
		return nil
	}
	paths := []string{name + ".yaml"}
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, "go-bbc", name+".yaml"))
	}
	return paths
}

// mergeFlags merges CLI flags into config. CLI values override config values.
func mergeFlags(flags *renderFlags, cfg *config.Config) {
	// BBC flags
	if flags.bbc.highlightStyle != "" {
		cfg.BBC.HighlightStyle = flags.bbc.highlightStyle
	}
	if flags.bbc.sanitize {
		cfg.BBC.Sanitize = true
	}

	// Smiley flags
	if flags.smileys.set != "" {
		cfg.Smileys.Set = flags.smileys.set
	}

	// Source flags
	if flags.sources.assetPath != "" {
		cfg.Smileys.AssetPath = flags.sources.assetPath
	}
	if flags.sources.cache != "" {
		cfg.Cache.Backend = flags.sources.cache
	}

	// Output flags
	if flags.outputMode.standalone {
		cfg.Output.Standalone = true
	}

	// Disable flags
	if flags.bbc.disabled {
		cfg.BBC.Enabled = false
	}
	if flags.bbc.noHighlight {
		cfg.BBC.Highlight = false
	}
	if flags.smileys.disabled {
		cfg.Smileys.Enabled = false
	}
	if flags.smileys.noEmoji {
		cfg.Smileys.Emoji = false
	}
	if flags.noMarkdown {
		cfg.Markdown.Enabled = false
	}
}

// resolveInputPath determines the input path from args.
func resolveInputPath(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	return "", ErrNoInput
}

// resolveOutputDir determines the output directory from flag or config.
func resolveOutputDir(flagOutput string, cfg *config.Config) string {
	if flagOutput != "" {
		return flagOutput
	}
	return cfg.Output.DefaultDir
}

// buildRenderer opens the configured data sources and builds a Renderer.
// The returned Closer releases database and Redis handles.
func buildRenderer(ctx context.Context, cfg *config.Config, maxSize int, env *Environment, logger *zap.Logger) (*bbc.Renderer, io.Closer, error) {
	var release closers

	opts := []bbc.Option{
		bbc.WithSettings(cfg.Settings()),
		bbc.WithStrings(cfg.Strings),
		bbc.WithSite(cfg.Site.ScriptURL, cfg.Site.SmileysURL, cfg.Site.ImagesURL),
		bbc.WithLogger(logger),
		bbc.WithSanitize(cfg.BBC.Sanitize),
		bbc.WithClock(env.Now),
	}
	if cfg.BBC.HighlightStyle != "" {
		opts = append(opts, bbc.WithHighlighting(cfg.BBC.HighlightStyle))
	}
	if cfg.Smileys.AssetPath != "" {
		opts = append(opts, bbc.WithAssetPath(cfg.Smileys.AssetPath))
	}
	if maxSize > 0 {
		opts = append(opts, bbc.WithMaxMessageSize(maxSize))
	}
	if ttl := cfg.Cache.TTL(); ttl > 0 {
		opts = append(opts, bbc.WithCacheTTL(ttl))
	}

	c, cacheCloser, err := openCache(ctx, cfg.Cache, logger)
	if err != nil {
		return nil, nil, err
	}
	if cacheCloser != nil {
		release = append(release, cacheCloser)
	}
	opts = append(opts, bbc.WithCache(c))

	src, dbCloser, err := openSmileySource(ctx, cfg.Database)
	if err != nil {
		_ = release.Close()
		return nil, nil, err
	}
	if src != nil {
		release = append(release, dbCloser)
		opts = append(opts, bbc.WithSmileySource(src))
		logger.Debug("smileys from database",
			zap.String("driver", cfg.Database.Driver),
			zap.String("prefix", cfg.Database.Prefix))
	}

	r, err := bbc.NewRenderer(opts...)
	if err != nil {
		_ = release.Close()
		return nil, nil, err
	}
	return r, release, nil
}

// withMessageHint appends a hint to errors the user can fix with a flag.
func withMessageHint(err error) error {
	if errors.Is(err, bbc.ErrMessageTooLarge) {
		return fmt.Errorf("%w%s", err, hints.ForMessageTooLarge())
	}
	return err
}
