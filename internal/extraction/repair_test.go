// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extraction

import (
	"encoding/json"
	"testing"
)

func TestRepairTruncatedJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "balanced input unchanged",
			in:   `{"title":"Study"}`,
			want: `{"title":"Study"}`,
		},
		{
			name: "cut inside string",
			in:   `{"title":"Effects of`,
			want: `{"title":"Effects of"}`,
		},
		{
			name: "cut after value",
			in:   `{"title":"Study","content_sections":[{"header":"Intro"`,
			want: `{"title":"Study","content_sections":[{"header":"Intro"}]}`,
		},
		{
			name: "nested arrays and objects",
			in:   `{"a":[{"b":[1,2`,
			want: `{"a":[{"b":[1,2]}]}`,
		},
		{
			name: "escaped quote inside string does not close it",
			in:   `{"title":"He said \"stop`,
			want: `{"title":"He said \"stop"}`,
		},
		{
			name: "trailing lone backslash is completed",
			in:   `{"title":"path C:\`,
			want: `{"title":"path C:\\"}`,
		},
		{
			name: "brackets inside strings are ignored",
			in:   `{"body":"see [TABLE] rows {a|b`,
			want: `{"body":"see [TABLE] rows {a|b"}`,
		},
		{
			name: "empty input",
			in:   "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RepairTruncatedJSON(tt.in)
			if got != tt.want {
				t.Errorf("RepairTruncatedJSON(%q) = %q, want %q", tt.in, got, tt.want)
			}

			// Repaired non-empty output must parse.
			if got != "" {
				var v any
				if err := json.Unmarshal([]byte(got), &v); err != nil {
					t.Errorf("repaired output %q does not parse: %v", got, err)
				}
			}

			// Idempotence: repairing repaired output changes nothing.
			if again := RepairTruncatedJSON(got); again != got {
				t.Errorf("repair not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no fence", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding whitespace", "  ```json\n{\"a\":1}\n```  ", `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripCodeFences(tt.in); got != tt.want {
				t.Errorf("StripCodeFences(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
