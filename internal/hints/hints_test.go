package hints

// Notes:
// - ForCacheConnect tests cannot use t.Parallel() because they:
//   1. Use t.Setenv() which modifies process environment
//   2. Modify the package-level IsInContainer variable

import (
	"strings"
	"testing"
)

func TestForDatabaseConnect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		driver   string
		contains string
	}{
		{driver: "sqlite", contains: "file:forum.db"},
		{driver: "mysql", contains: "tcp(localhost:3306)"},
		{driver: "postgres", contains: "postgres://"},
		{driver: "unknown", contains: "database.prefix"},
	}

	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			t.Parallel()

			hint := ForDatabaseConnect(tt.driver)
			if !strings.HasPrefix(hint, "\n  hint: ") {
				t.Errorf("hint format inconsistent: %q", hint)
			}
			if !strings.Contains(hint, tt.contains) {
				t.Errorf("expected hint to contain %q, got %q", tt.contains, hint)
			}
		})
	}
}

func TestForCacheConnect_InContainer(t *testing.T) {
	orig := IsInContainer
	defer func() { IsInContainer = orig }()
	IsInContainer = func() bool { return true }
	t.Setenv("BBC_CACHE", "")

	hint := ForCacheConnect("localhost:6379")

	if !strings.Contains(hint, "service name") {
		t.Error("expected service name suggestion in a container")
	}
	if !strings.Contains(hint, "BBC_CACHE=memory") {
		t.Error("expected BBC_CACHE suggestion")
	}
}

func TestForCacheConnect_RemoteHost(t *testing.T) {
	orig := IsInContainer
	defer func() { IsInContainer = orig }()
	IsInContainer = func() bool { return true }
	t.Setenv("BBC_CACHE", "")

	if hint := ForCacheConnect("redis:6379"); strings.Contains(hint, "service name") {
		t.Errorf("unexpected service name hint for a remote host: %q", hint)
	}
}

func TestForCacheConnect_NoHintsNeeded(t *testing.T) {
	orig := IsInContainer
	defer func() { IsInContainer = orig }()
	IsInContainer = func() bool { return false }
	t.Setenv("BBC_CACHE", "memory")

	if hint := ForCacheConnect("localhost:6379"); hint != "" {
		t.Errorf("expected no hints, got %q", hint)
	}
}

func TestForConfigNotFound(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		paths    []string
		contains string
	}{
		{name: "empty paths", paths: []string{}, contains: "--config"},
		{name: "with paths", paths: []string{"./forum.yaml", "~/.config/go-bbc/forum.yaml"}, contains: "go-bbc/forum.yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			hint := ForConfigNotFound(tt.paths)
			if !strings.Contains(hint, "hint:") {
				t.Error("expected hint prefix")
			}
			if !strings.Contains(hint, tt.contains) {
				t.Errorf("expected hint to contain %q, got %q", tt.contains, hint)
			}
		})
	}
}

func TestForSmileySetNotFound(t *testing.T) {
	t.Parallel()

	if hint := ForSmileySetNotFound(nil); !strings.Contains(hint, "--asset-path") {
		t.Errorf("expected asset path suggestion, got %q", hint)
	}
	if hint := ForSmileySetNotFound([]string{"classic", "default"}); !strings.Contains(hint, "classic, default") {
		t.Errorf("expected available sets, got %q", hint)
	}
}

func TestFormat_Consistency(t *testing.T) {
	t.Parallel()

	hints := []string{
		ForOutputDirectory(),
		ForMessageTooLarge(),
		ForSmileySetNotFound(nil),
	}

	for _, h := range hints {
		if !strings.HasPrefix(h, "\n  hint: ") {
			t.Errorf("hint format inconsistent: %q", h)
		}
	}
}
