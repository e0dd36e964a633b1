package main

import (
	"bytes"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestNewLogger - Level selection
// ---------------------------------------------------------------------------

func TestNewLogger(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		verbose   bool
		quiet     bool
		wantDebug bool
		wantWarn  bool
	}{
		{name: "default", wantWarn: true},
		{name: "verbose", verbose: true, wantDebug: true, wantWarn: true},
		{name: "quiet", quiet: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			l := newLogger(&buf, tt.verbose, tt.quiet)
			l.Debug("debug-line")
			l.Warn("warn-line")
			l.Error("error-line")
			_ = l.Sync()

			out := buf.String()
			if got := strings.Contains(out, "debug-line"); got != tt.wantDebug {
				t.Errorf("debug logged = %v, want %v", got, tt.wantDebug)
			}
			if got := strings.Contains(out, "warn-line"); got != tt.wantWarn {
				t.Errorf("warn logged = %v, want %v", got, tt.wantWarn)
			}
			if !strings.Contains(out, "error-line") {
				t.Error("error not logged")
			}
		})
	}
}
