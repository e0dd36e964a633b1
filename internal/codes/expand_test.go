package codes

import "testing"

func TestExpand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		tpl    string
		values []string
		params map[string]string
		want   string
	}{
		{
			name: "no placeholders",
			tpl:  "<hr />",
			want: "<hr />",
		},
		{
			name:   "positional values",
			tpl:    `<a href="$1">$2</a>`,
			values: []string{"http://x", "label"},
			want:   `<a href="http://x">label</a>`,
		},
		{
			name:   "missing value expands empty",
			tpl:    "[$3]",
			values: []string{"a"},
			want:   "[]",
		},
		{
			name:   "named params",
			tpl:    `<img alt="{alt}" style="{width}" />`,
			params: map[string]string{"alt": "cat", "width": "max-width: 10px;"},
			want:   `<img alt="cat" style="max-width: 10px;" />`,
		},
		{
			name:   "unknown param kept literally",
			tpl:    "{nope}",
			params: map[string]string{"alt": "x"},
			want:   "{nope}",
		},
		{
			name:   "substituted text is not rescanned",
			tpl:    "$1|{a}",
			values: []string{"$2{a}"},
			params: map[string]string{"a": "$1"},
			want:   "$2{a}|$1",
		},
		{
			name:   "dollar without digit",
			tpl:    "cost $ 5 $0",
			values: []string{"x"},
			want:   "cost $ 5 $0",
		},
		{
			name: "unterminated brace",
			tpl:  "{open",
			params: map[string]string{
				"open": "x",
			},
			want: "{open",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Expand(tt.tpl, tt.values, tt.params); got != tt.want {
				t.Errorf("Expand(%q) = %q, want %q", tt.tpl, got, tt.want)
			}
		})
	}
}
