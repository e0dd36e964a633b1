package smiley

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	_ "modernc.org/sqlite"

	"github.com/elkarte/go-bbc/internal/assets"
)

// ---------------------------------------------------------------------------
// TestAssetSource
// ---------------------------------------------------------------------------

func TestAssetSource_Embedded(t *testing.T) {
	t.Parallel()

	got, err := NewAssetSource(nil).Load(context.Background(), "default")
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if len(got) == 0 {
		t.Fatal("Load() returned no smileys")
	}
	if got[0].Code != ":)" || got[0].Filename != "smiley.gif" {
		t.Errorf("first smiley = %+v, want :) smiley.gif", got[0])
	}
}

func TestAssetSource_NotFound(t *testing.T) {
	t.Parallel()

	_, err := NewAssetSource(nil).Load(context.Background(), "nonexistent")
	if !errors.Is(err, ErrSetNotFound) {
		t.Errorf("Load() error = %v, want ErrSetNotFound", err)
	}
}

func TestAssetSource_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewAssetSource(nil).Load(ctx, "default"); !errors.Is(err, context.Canceled) {
		t.Errorf("Load() error = %v, want context.Canceled", err)
	}
}

func TestAssetSource_FilesystemOverride(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "smileys"), 0o755); err != nil {
		t.Fatal(err)
	}
	custom := "name: default\nsmileys:\n  - code: \":wave:\"\n    filename: wave.png\n"
	if err := os.WriteFile(filepath.Join(dir, "smileys", "default.yaml"), []byte(custom), 0o644); err != nil {
		t.Fatal(err)
	}

	loader, err := assets.NewAssetResolver(dir)
	if err != nil {
		t.Fatalf("NewAssetResolver() unexpected error: %v", err)
	}
	got, err := NewAssetSource(loader).Load(context.Background(), "default")
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if diff := cmp.Diff([]Smiley{{Code: ":wave:", Filename: "wave.png"}}, got); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

// ---------------------------------------------------------------------------
// TestSQLSource
// ---------------------------------------------------------------------------

func openSmileyDB(t *testing.T, prefix string) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("sql.Open() unexpected error: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	stmts := []string{
		`CREATE TABLE ` + prefix + `smileys (
			id_smiley INTEGER PRIMARY KEY,
			code TEXT NOT NULL,
			filename TEXT NOT NULL,
			description TEXT,
			hidden INTEGER NOT NULL DEFAULT 0
		)`,
		`INSERT INTO ` + prefix + `smileys (code, filename, description, hidden) VALUES
			(':)', 'smiley.gif', 'Smiley', 0),
			('>:D', 'evil.gif', 'Evil', 2),
			(':-X', 'lipsrsealed.gif', NULL, 0),
			(':secret:', 'secret.gif', 'Hidden', 1),
			('   ', 'blank.gif', 'Blank', 0)`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			t.Fatalf("Exec() unexpected error: %v", err)
		}
	}
	return db
}

func TestSQLSource_Load(t *testing.T) {
	t.Parallel()

	db := openSmileyDB(t, "elk_")
	src, err := NewSQLSource(db, "elk_")
	if err != nil {
		t.Fatalf("NewSQLSource() unexpected error: %v", err)
	}

	got, err := src.Load(context.Background(), "default")
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	want := []Smiley{
		{Code: ":-X", Filename: "lipsrsealed.gif"},
		{Code: ">:D", Filename: "evil.gif", Description: "Evil"},
		{Code: ":)", Filename: "smiley.gif", Description: "Smiley"},
	}
	// :-X and >:D have the same length, so only the lengths are ordered.
	if len(got) != len(want) {
		t.Fatalf("Load() returned %d smileys, want %d: %+v", len(got), len(want), got)
	}
	if got[2] != want[2] {
		t.Errorf("shortest code should come last, got %+v", got[2])
	}
	byCode := map[string]Smiley{}
	for _, sm := range got {
		byCode[sm.Code] = sm
	}
	for _, w := range want {
		if byCode[w.Code] != w {
			t.Errorf("smiley %q = %+v, want %+v", w.Code, byCode[w.Code], w)
		}
	}
}

func TestSQLSource_MissingTable(t *testing.T) {
	t.Parallel()

	db := openSmileyDB(t, "elk_")
	src, err := NewSQLSource(db, "other_")
	if err != nil {
		t.Fatalf("NewSQLSource() unexpected error: %v", err)
	}
	if _, err := src.Load(context.Background(), "default"); !errors.Is(err, ErrSourceFailed) {
		t.Errorf("Load() error = %v, want ErrSourceFailed", err)
	}
}

func TestNewSQLSource_Validation(t *testing.T) {
	t.Parallel()

	db := openSmileyDB(t, "")

	tests := []struct {
		name    string
		db      *sql.DB
		prefix  string
		wantErr error
	}{
		{name: "empty prefix", db: db, prefix: ""},
		{name: "plain prefix", db: db, prefix: "elk_"},
		{name: "injection", db: db, prefix: "x; DROP TABLE y; --", wantErr: ErrInvalidPrefix},
		{name: "too long", db: db, prefix: "abcdefghijklmnopqrstuvwxyz0123456789", wantErr: ErrInvalidPrefix},
		{name: "nil database", db: nil, prefix: "elk_", wantErr: ErrSourceFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewSQLSource(tt.db, tt.prefix)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("NewSQLSource() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("NewSQLSource() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
