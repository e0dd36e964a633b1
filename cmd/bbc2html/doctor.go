package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"runtime"

	flag "github.com/spf13/pflag"
	"go.uber.org/zap"

	bbc "github.com/elkarte/go-bbc"
	"github.com/elkarte/go-bbc/internal/config"
	"github.com/elkarte/go-bbc/internal/hints"
)

// doctorSample exercises tags, markdown and smileys in one render.
const doctorSample = "[b]doctor[/b] *check* :)"

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string     `json:"status"` // "ready", "warnings", "errors"
	Config   configInfo `json:"config"`
	Sources  sourceInfo `json:"sources"`
	Render   renderInfo `json:"render"`
	Env      envInfo    `json:"environment"`
	Warnings []string   `json:"warnings,omitempty"`
	Errors   []string   `json:"errors,omitempty"`
}

// configInfo holds config loading results.
type configInfo struct {
	Source string `json:"source"` // file name, or "defaults"
	Valid  bool   `json:"valid"`
}

// sourceInfo holds smiley data source results.
type sourceInfo struct {
	Database   string `json:"database,omitempty"` // driver name
	DatabaseOK bool   `json:"database_ok"`
	Smileys    int    `json:"smileys"`
	SmileySet  string `json:"smiley_set"`
	Cache      string `json:"cache"`
	CacheOK    bool   `json:"cache_ok"`
}

// renderInfo holds the sample render result.
type renderInfo struct {
	OK   bool   `json:"ok"`
	HTML string `json:"html,omitempty"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS         string `json:"os"`
	Arch       string `json:"arch"`
	GOMAXPROCS int    `json:"gomaxprocs"`
	Container  bool   `json:"container"`
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found.
func runDoctorCmd(ctx context.Context, args []string, env *Environment) int {
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	fs.SetOutput(env.Stderr)
	jsonOutput := fs.Bool("json", false, "print results as JSON")
	configName := fs.StringP("config", "c", "", "config file name or path")
	fs.Usage = func() { printDoctorUsage(env.Stderr) }
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		return ExitUsage
	}

	result := runDoctor(ctx, *configName, env)

	if *jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == "errors" {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor(ctx context.Context, configName string, env *Environment) *doctorResult {
	result := &doctorResult{
		Status: "ready",
		Env: envInfo{
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			GOMAXPROCS: runtime.GOMAXPROCS(0),
			Container:  hints.IsInContainer(),
		},
	}

	if cfg := checkConfig(result, configName); cfg != nil {
		checkDatabase(ctx, result, cfg)
		checkCache(ctx, result, cfg)
		checkRender(ctx, result, cfg, env)
	}

	// Determine final status
	if len(result.Errors) > 0 {
		result.Status = "errors"
	} else if len(result.Warnings) > 0 {
		result.Status = "warnings"
	}

	return result
}

// checkConfig loads the config the same way render does.
func checkConfig(result *doctorResult, name string) *config.Config {
	envCfg := loadEnvConfig()
	result.Config.Source = "defaults"
	if name != "" {
		result.Config.Source = name
	} else if envCfg.ConfigPath != "" {
		result.Config.Source = envCfg.ConfigPath
	}

	flags := &renderFlags{common: commonFlags{config: name}}
	cfg, err := loadRenderConfig(flags, envCfg)
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		return nil
	}
	result.Config.Valid = true
	result.Sources.SmileySet = cfg.Smileys.Set
	return cfg
}

// checkDatabase pings the smiley database and counts its rows.
func checkDatabase(ctx context.Context, result *doctorResult, cfg *config.Config) {
	if cfg.Database.Driver == "" {
		return
	}
	result.Sources.Database = cfg.Database.Driver

	src, closer, err := openSmileySource(ctx, cfg.Database)
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		return
	}
	defer func() { _ = closer.Close() }()

	smileys, err := src.Load(ctx, cfg.Smileys.Set)
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		return
	}
	result.Sources.DatabaseOK = true
	result.Sources.Smileys = len(smileys)
	if len(smileys) == 0 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("smiley table %ssmileys is empty", cfg.Database.Prefix))
	}
}

// checkCache connects to the configured cache backend.
func checkCache(ctx context.Context, result *doctorResult, cfg *config.Config) {
	result.Sources.Cache = cfg.Cache.Backend
	_, closer, err := openCache(ctx, cfg.Cache, zap.NewNop())
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		return
	}
	if closer != nil {
		_ = closer.Close()
	}
	result.Sources.CacheOK = true
}

// checkRender renders doctorSample with the full configuration.
func checkRender(ctx context.Context, result *doctorResult, cfg *config.Config, env *Environment) {
	r, closer, err := buildRenderer(ctx, cfg, 0, env, zap.NewNop())
	if err != nil {
		// Data source errors are already reported by the checks above.
		if !errors.Is(err, ErrDatabase) && !errors.Is(err, ErrCacheConnect) {
			result.Errors = append(result.Errors, err.Error())
		}
		return
	}
	defer func() { _ = closer.Close() }()

	res, err := r.Render(ctx, bbc.Input{Message: doctorSample})
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("sample render failed: %v", err))
		return
	}
	result.Render.OK = true
	result.Render.HTML = res.HTML
	result.Warnings = append(result.Warnings, res.Warnings...)
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "bbc2html doctor")
	fmt.Fprintln(w)

	// Config section
	fmt.Fprintln(w, "Config")
	if r.Config.Valid {
		fmt.Fprintf(w, "  [OK] Loaded: %s\n", r.Config.Source)
	} else {
		fmt.Fprintf(w, "  [ERROR] Invalid: %s\n", r.Config.Source)
	}
	fmt.Fprintln(w)

	// Sources section
	fmt.Fprintln(w, "Smiley sources")
	switch {
	case r.Sources.Database == "":
		fmt.Fprintf(w, "  [OK] Set: %s (asset files)\n", r.Sources.SmileySet)
	case r.Sources.DatabaseOK:
		fmt.Fprintf(w, "  [OK] Database: %s, %d smileys\n", r.Sources.Database, r.Sources.Smileys)
	default:
		fmt.Fprintf(w, "  [ERROR] Database: %s unreachable\n", r.Sources.Database)
	}
	if r.Sources.Cache != "" {
		if r.Sources.CacheOK {
			fmt.Fprintf(w, "  [OK] Cache: %s\n", r.Sources.Cache)
		} else {
			fmt.Fprintf(w, "  [ERROR] Cache: %s unreachable\n", r.Sources.Cache)
		}
	}
	fmt.Fprintln(w)

	// Render section
	fmt.Fprintln(w, "Render")
	if r.Render.OK {
		fmt.Fprintf(w, "  [OK] Sample: %s\n", r.Render.HTML)
	} else {
		fmt.Fprintln(w, "  [ERROR] Sample render did not complete")
	}
	fmt.Fprintln(w)

	// Environment section
	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	fmt.Fprintf(w, "  [OK] GOMAXPROCS: %d\n", r.Env.GOMAXPROCS)
	if r.Env.Container {
		fmt.Fprintln(w, "  [OK] Container: detected")
	}
	fmt.Fprintln(w)

	// Warnings
	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	// Errors
	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	// Final status
	switch r.Status {
	case "ready":
		fmt.Fprintln(w, "Status: Ready to render")
	case "warnings":
		fmt.Fprintln(w, "Status: Ready with warnings")
	case "errors":
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
