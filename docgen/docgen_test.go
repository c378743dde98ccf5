package docgen

import (
	"strings"
	"testing"

	"github.com/jonwraymond/blocklibrary/block"
)

func TestGenerate_Deterministic(t *testing.T) {
	in := Input{
		Name:     "cards",
		Variants: []string{"compact", "wide"},
		Features: block.Features{Image: true, MultiItem: true},
		Content:  map[string]string{"": "<p>base</p>", "compact": "<p>compact</p>"},
	}
	first := Generate(in)
	second := Generate(in)
	if first != second {
		t.Error("Generate() is not deterministic for identical input")
	}
}

func TestGenerate_SectionPerVariant(t *testing.T) {
	out := Generate(Input{Name: "cards", Variants: []string{"compact", "wide"}})

	if got := strings.Count(out, "<h2>"); got != 2 {
		t.Errorf("section count = %d, want 2", got)
	}
	for _, want := range []string{
		"<h2>Cards (compact)</h2>",
		"<h2>Cards (wide)</h2>",
		`<div class="cards compact">`,
		`<div class="cards wide">`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Generate() missing %q", want)
		}
	}
}

func TestGenerate_BaseSectionWhenNoVariants(t *testing.T) {
	out := Generate(Input{Name: "hero"})

	if got := strings.Count(out, "<h2>"); got != 1 {
		t.Errorf("section count = %d, want exactly 1", got)
	}
	if !strings.Contains(out, "<h2>Hero</h2>") {
		t.Error("Generate() missing base heading")
	}
	if !strings.Contains(out, `<div class="hero"></div>`) {
		t.Error("Generate() missing empty base body")
	}
}

func TestGenerate_Skeleton(t *testing.T) {
	out := Generate(Input{Name: "hero"})
	for _, want := range []string{
		"<!DOCTYPE html>",
		"<title>Hero</title>",
		"<header></header>",
		"<main>",
		"<footer></footer>",
		`<div class="library-metadata">`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Generate() missing %q", want)
		}
	}
}

func TestGenerate_ContentFallback(t *testing.T) {
	in := Input{
		Name:     "hero",
		Variants: []string{"dark", "wide"},
		Content:  map[string]string{"": "<p>base</p>", "dark": "<p>dark</p>"},
	}
	out := Generate(in)

	if !strings.Contains(out, "<p>dark</p>") {
		t.Error("variant section should use its own content")
	}
	// The wide section has no captured content and falls back to base.
	if got := strings.Count(out, "<p>base</p>"); got != 1 {
		t.Errorf("base content used %d times, want 1 (wide fallback)", got)
	}
}

func TestGenerate_ExplicitDescriptionWins(t *testing.T) {
	out := Generate(Input{
		Name:        "hero",
		Description: "A custom description.",
		Features:    block.Features{MultiItem: true},
	})
	if !strings.Contains(out, "A custom description.") {
		t.Error("explicit description not used")
	}
	if strings.Contains(out, "Multi-item layout") {
		t.Error("synthesized description should be suppressed")
	}
}

func TestGenerate_EscapesMetadataText(t *testing.T) {
	out := Generate(Input{Name: "hero", Description: `uses <b> & "quotes"`})
	if !strings.Contains(out, "uses &lt;b&gt; &amp; &#34;quotes&#34;") {
		t.Error("description not HTML-escaped in metadata")
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		name     string
		block    string
		features block.Features
		variants []string
		want     string
	}{
		{
			"bare fallback",
			"hero", block.Features{}, nil,
			"Hero block",
		},
		{
			"multi-item lead",
			"cards", block.Features{MultiItem: true}, nil,
			"Multi-item layout",
		},
		{
			"content kinds in fixed order",
			"hero", block.Features{Image: true, Heading: true, Button: true}, nil,
			"Hero block with images, headings, buttons",
		},
		{
			"everything",
			"cards", block.Features{MultiItem: true, Image: true, Heading: true}, []string{"compact", "wide"},
			"Multi-item layout with images, headings. Variants: compact, wide",
		},
		{
			"variants only",
			"quote", block.Features{}, []string{"pull"},
			"Quote block. Variants: pull",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Describe(tt.block, tt.features, tt.variants); got != tt.want {
				t.Errorf("Describe() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCapitalize(t *testing.T) {
	tests := []struct{ in, want string }{
		{"hero", "Hero"},
		{"cards", "Cards"},
		{"a", "A"},
		{"", ""},
		{"already", "Already"},
	}
	for _, tt := range tests {
		if got := Capitalize(tt.in); got != tt.want {
			t.Errorf("Capitalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRenderReadme(t *testing.T) {
	html, err := RenderReadme("# Hero\n\nA *fine* block.")
	if err != nil {
		t.Fatalf("RenderReadme() error = %v", err)
	}
	for _, want := range []string{"<h1>Hero</h1>", "<em>fine</em>"} {
		if !strings.Contains(html, want) {
			t.Errorf("RenderReadme() = %q, missing %q", html, want)
		}
	}
}
