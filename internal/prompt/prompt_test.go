// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package prompt

import (
	"strings"
	"testing"

	"github.com/pdiddy/manuscript-press/pkg/types"
)

func TestBuild(t *testing.T) {
	p, err := Build("Raw manuscript body.", nil, "")
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{
		"VERBATIM",
		"[TABLE]...[/TABLE]",
		"$...$",
		"Raw manuscript body.",
		"Original Research Article",
		`"content_sections"`,
	} {
		if !strings.Contains(p.Text, want) {
			t.Errorf("prompt missing %q", want)
		}
	}

	if strings.Contains(p.Text, "[FIGURE:") {
		t.Error("figure instructions emitted without figures")
	}
}

func TestBuildWithFigures(t *testing.T) {
	figures := []types.Figure{{ID: "1"}, {ID: "2"}}
	p, err := Build("Body citing Figure 1.", figures, "Case Report")
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(p.Text, "2 uploaded figure(s)") {
		t.Error("prompt missing figure count")
	}
	if !strings.Contains(p.Text, "numbered 1, 2") {
		t.Error("prompt missing figure id list")
	}
	if !strings.Contains(p.Text, "[FIGURE:N]") {
		t.Error("prompt missing marker instruction")
	}
	if !strings.Contains(p.Text, "Case Report") {
		t.Error("prompt missing article type hint")
	}
}

func TestBuildEmptyText(t *testing.T) {
	if _, err := Build("   \n ", nil, ""); err == nil {
		t.Fatal("want error for empty manuscript text")
	}
}

func TestSchemaDescribe(t *testing.T) {
	desc := ResponseSchema().Describe()

	if !strings.Contains(desc, `"title": string (required)`) {
		t.Errorf("schema description missing required title:\n%s", desc)
	}
	if !strings.Contains(desc, `"keywords": list<string> (optional)`) {
		t.Errorf("schema description missing optional keywords:\n%s", desc)
	}
}
