package dateutil

import (
	"errors"
	"testing"
	"time"
)

func TestParseDateFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		format  string
		want    string
		wantErr error
	}{
		// Valid token conversions
		{
			name:   "YYYY converts to Go year format",
			format: "YYYY",
			want:   "2006",
		},
		{
			name:   "YY converts to short year format",
			format: "YY",
			want:   "06",
		},
		{
			name:   "MMMM converts to full month name",
			format: "MMMM",
			want:   "January",
		},
		{
			name:   "MMM converts to short month name",
			format: "MMM",
			want:   "Jan",
		},
		{
			name:   "MM converts to zero-padded month",
			format: "MM",
			want:   "01",
		},
		{
			name:   "M converts to non-padded month",
			format: "M",
			want:   "1",
		},
		{
			name:   "DD converts to zero-padded day",
			format: "DD",
			want:   "02",
		},
		{
			name:   "D converts to non-padded day",
			format: "D",
			want:   "2",
		},
		// Combined formats
		{
			name:   "ISO date format YYYY-MM-DD",
			format: "YYYY-MM-DD",
			want:   "2006-01-02",
		},
		{
			name:   "European format DD/MM/YYYY",
			format: "DD/MM/YYYY",
			want:   "02/01/2006",
		},
		{
			name:   "US format MM/DD/YYYY",
			format: "MM/DD/YYYY",
			want:   "01/02/2006",
		},
		{
			name:   "long format with full month name",
			format: "MMMM D, YYYY",
			want:   "January 2, 2006",
		},
		{
			name:   "short month with year",
			format: "MMM YYYY",
			want:   "Jan 2006",
		},
		// Literal preservation
		{
			name:   "preserves literal separators",
			format: "YYYY/MM/DD",
			want:   "2006/01/02",
		},
		{
			name:   "preserves literal text without token chars",
			format: "(YYYY-MM-DD)",
			want:   "(2006-01-02)",
		},
		{
			name:   "preserves spaces",
			format: "DD MM YYYY",
			want:   "02 01 2006",
		},
		{
			name:   "D in text is matched as day token",
			format: "Date: YYYY",
			want:   "2ate: 2006", // D -> 2 (day), use [Date] to escape
		},
		// Bracket escape syntax
		{
			name:   "brackets preserve literal text",
			format: "[Date]: YYYY",
			want:   "Date: 2006",
		},
		{
			name:   "brackets preserve tokens as literals",
			format: "[YYYY]-MM-DD",
			want:   "YYYY-01-02",
		},
		{
			name:   "multiple bracket groups",
			format: "[Day]: D [Month]: M",
			want:   "Day: 2 Month: 1",
		},
		{
			name:   "empty brackets are valid",
			format: "YYYY[]MM",
			want:   "200601",
		},
		{
			name:   "brackets with special characters",
			format: "[Date/Time]: YYYY-MM-DD",
			want:   "Date/Time: 2006-01-02",
		},
		{
			name:    "unclosed bracket returns error",
			format:  "[Date YYYY",
			wantErr: ErrInvalidDateFormat,
		},
		{
			name:   "nested-looking brackets use first close",
			format: "[a[b]c",
			want:   "a[bc", // [a[b] is the escaped part, c is literal
		},
		// Edge cases
		{
			name:    "empty format returns error",
			format:  "",
			wantErr: ErrInvalidDateFormat,
		},
		{
			name:    "format exceeding max length returns error",
			format:  string(make([]byte, MaxDateFormatLength+1)),
			wantErr: ErrInvalidDateFormat,
		},
		{
			name:   "format at max length is valid",
			format: string(make([]byte, MaxDateFormatLength)),
			want:   string(make([]byte, MaxDateFormatLength)),
		},
		{
			name:   "only literal characters",
			format: "---",
			want:   "---",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseDateFormat(tt.format)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("ParseDateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
				}
				return
			}

			if err != nil {
				t.Errorf("ParseDateFormat(%q) unexpected error: %v", tt.format, err)
				return
			}

			if got != tt.want {
				t.Errorf("ParseDateFormat(%q) = %q, want %q", tt.format, got, tt.want)
			}
		})
	}
}

func TestParseDateFormat_TimeTokens(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format string
		want   string
	}{
		{"HH:mm", "15:04"},
		{"hh:mm A", "03:04 PM"},
		{"HH:mm:ss", "15:04:05"},
		{"dddd, MMMM D", "Monday, January 2"},
		{"ddd D MMM", "Mon 2 Jan"},
		{DefaultDateFormat, "January 2, 2006, 03:04 PM"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			t.Parallel()

			got, err := ParseDateFormat(tt.format)
			if err != nil {
				t.Fatalf("ParseDateFormat(%q) unexpected error: %v", tt.format, err)
			}
			if got != tt.want {
				t.Errorf("ParseDateFormat(%q) = %q, want %q", tt.format, got, tt.want)
			}
		})
	}
}

func TestFormatUnix(t *testing.T) {
	t.Parallel()

	// 2024-03-15 14:30:00 UTC
	ts := time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC).Unix()

	tests := []struct {
		name    string
		format  string
		want    string
		wantErr error
	}{
		{
			name:   "long format",
			format: "MMMM D, YYYY",
			want:   "March 15, 2024",
		},
		{
			name:   "forum preset",
			format: "forum",
			want:   "March 15, 2024, 02:30 PM",
		},
		{
			name:   "preset is case insensitive",
			format: "ISO",
			want:   "2024-03-15",
		},
		{
			name:   "european preset",
			format: "european",
			want:   "15/03/2024",
		},
		{
			name:   "us preset",
			format: "us",
			want:   "03/15/2024",
		},
		{
			name:   "24 hour clock",
			format: "YYYY-MM-DD HH:mm",
			want:   "2024-03-15 14:30",
		},
		{
			name:   "escaped literal",
			format: "D MMM [at] HH:mm",
			want:   "15 Mar at 14:30",
		},
		{
			name:    "empty format",
			format:  "",
			wantErr: ErrInvalidDateFormat,
		},
		{
			name:    "unclosed bracket",
			format:  "[at YYYY",
			wantErr: ErrInvalidDateFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := FormatUnix(ts, tt.format)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("FormatUnix(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("FormatUnix(%q) unexpected error: %v", tt.format, err)
			}
			if got != tt.want {
				t.Errorf("FormatUnix(%q) = %q, want %q", tt.format, got, tt.want)
			}
		})
	}
}

func TestFormat_UsesGivenZone(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("UTC+2", 2*60*60)
	tm := time.Date(2024, 3, 15, 23, 30, 0, 0, time.UTC).In(loc)

	got, err := Format(tm, "iso")
	if err != nil {
		t.Fatalf("Format() unexpected error: %v", err)
	}
	if got != "2024-03-16" {
		t.Errorf("Format() = %q, want %q", got, "2024-03-16")
	}
}
