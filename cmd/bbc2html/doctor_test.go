package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestRunDoctor - Diagnostics
// ---------------------------------------------------------------------------

func TestRunDoctor_Defaults(t *testing.T) {
	t.Parallel()

	env, _, _ := testEnv("")
	result := runDoctor(context.Background(), "", env)

	if result.Status == "errors" {
		t.Fatalf("Status = errors: %v", result.Errors)
	}
	if !result.Config.Valid || result.Config.Source != "defaults" {
		t.Errorf("Config = %+v, want valid defaults", result.Config)
	}
	if !result.Render.OK || !strings.Contains(result.Render.HTML, "bbc_strong") {
		t.Errorf("Render = %+v, want sample rendered", result.Render)
	}
	if !result.Sources.CacheOK || result.Sources.Cache != "memory" {
		t.Errorf("Sources = %+v, want memory cache", result.Sources)
	}
}

func TestRunDoctor_MissingConfig(t *testing.T) {
	t.Parallel()

	env, _, _ := testEnv("")
	result := runDoctor(context.Background(), filepath.Join(t.TempDir(), "nope.yaml"), env)

	if result.Status != "errors" {
		t.Errorf("Status = %q, want errors", result.Status)
	}
	if result.Config.Valid {
		t.Error("Config.Valid = true for a missing file")
	}
}

func TestRunDoctor_SQLiteSource(t *testing.T) {
	t.Parallel()

	dsn := newForumDB(t, "elk_")
	cfgPath := filepath.Join(t.TempDir(), "forum.yaml")
	content := "database:\n  driver: sqlite\n  dsn: '" + dsn + "'\n  prefix: elk_\n"
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	env, _, _ := testEnv("")
	result := runDoctor(context.Background(), cfgPath, env)

	if result.Status == "errors" {
		t.Fatalf("Status = errors: %v", result.Errors)
	}
	if !result.Sources.DatabaseOK || result.Sources.Smileys != 2 {
		t.Errorf("Sources = %+v, want 2 smileys from sqlite", result.Sources)
	}
}

// ---------------------------------------------------------------------------
// TestRunDoctorCmd - Output formats
// ---------------------------------------------------------------------------

func TestRunDoctorCmd_Text(t *testing.T) {
	t.Parallel()

	env, stdout, _ := testEnv("")
	if code := runDoctorCmd(context.Background(), nil, env); code != ExitSuccess {
		t.Fatalf("runDoctorCmd() = %d, output:\n%s", code, stdout)
	}
	for _, want := range []string{"bbc2html doctor", "[OK] Loaded: defaults", "Status: Ready"} {
		if !strings.Contains(stdout.String(), want) {
			t.Errorf("output missing %q:\n%s", want, stdout)
		}
	}
}

func TestRunDoctorCmd_JSON(t *testing.T) {
	t.Parallel()

	env, stdout, _ := testEnv("")
	if code := runDoctorCmd(context.Background(), []string{"--json"}, env); code != ExitSuccess {
		t.Fatalf("runDoctorCmd() = %d", code)
	}

	var got doctorResult
	if err := json.Unmarshal(stdout.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, stdout)
	}
	if got.Env.OS == "" || got.Env.GOMAXPROCS < 1 {
		t.Errorf("Env = %+v", got.Env)
	}
}

func TestRunDoctorCmd_BadFlag(t *testing.T) {
	t.Parallel()

	env, _, _ := testEnv("")
	if code := runDoctorCmd(context.Background(), []string{"--bogus"}, env); code != ExitUsage {
		t.Errorf("runDoctorCmd() = %d, want %d", code, ExitUsage)
	}
}
