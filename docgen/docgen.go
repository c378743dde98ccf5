// Package docgen assembles documentation pages for blocks.
//
// Generate produces a complete HTML document with one demonstration
// section per variant: a library-metadata table naming the variant,
// a heading, and the block markup itself, populated with captured
// instance content when available. Output is deterministic; the same
// input always yields byte-identical HTML, so generated pages diff
// cleanly across runs.
package docgen

import (
	"html"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jonwraymond/blocklibrary/block"
)

// Input holds everything Generate needs to assemble a documentation
// page. Only Name is required: a missing Description is synthesized
// from Features and Variants, no Variants means a single base
// section, and missing Content leaves sections empty.
type Input struct {
	Name        string
	Description string
	Variants    []string
	Features    block.Features
	Content     map[string]string
}

// Generate renders the documentation page for one block.
func Generate(in Input) string {
	title := Capitalize(in.Name)
	description := in.Description
	if description == "" {
		description = Describe(in.Name, in.Features, in.Variants)
	}

	// One demonstration section per variant; an unnamed base section
	// when the block has none.
	variants := in.Variants
	if len(variants) == 0 {
		variants = []string{""}
	}

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n")
	b.WriteString("  <title>" + html.EscapeString(title) + "</title>\n")
	b.WriteString("</head>\n<body>\n")
	b.WriteString("  <header></header>\n")
	b.WriteString("  <main>\n")
	for _, variant := range variants {
		heading := title
		classes := in.Name
		if variant != "" {
			heading = title + " (" + variant + ")"
			classes = in.Name + " " + variant
		}

		b.WriteString("    <div class=\"library-metadata\">\n")
		writeMetadataField(&b, "name", heading)
		writeMetadataField(&b, "description", description)
		b.WriteString("    </div>\n")
		b.WriteString("    <h2>" + html.EscapeString(heading) + "</h2>\n")

		content := contentFor(in.Content, variant)
		if content == "" {
			b.WriteString("    <div class=\"" + classes + "\"></div>\n")
		} else {
			b.WriteString("    <div class=\"" + classes + "\">\n")
			b.WriteString("      " + content + "\n")
			b.WriteString("    </div>\n")
		}
	}
	b.WriteString("  </main>\n")
	b.WriteString("  <footer></footer>\n")
	b.WriteString("</body>\n</html>\n")
	return b.String()
}

// contentFor picks the markup for a variant section: the variant's
// own captured content, falling back to the base instance, falling
// back to empty.
func contentFor(content map[string]string, variant string) string {
	if content == nil {
		return ""
	}
	if c, ok := content[variant]; ok {
		return c
	}
	return content[""]
}

func writeMetadataField(b *strings.Builder, name, value string) {
	b.WriteString("      <div>\n")
	b.WriteString("        <div>" + name + "</div>\n")
	b.WriteString("        <div>" + html.EscapeString(value) + "</div>\n")
	b.WriteString("      </div>\n")
}

// Describe synthesizes a block description from its structure: the
// layout kind, the notable content types it carries, and its
// variants.
func Describe(name string, features block.Features, variants []string) string {
	var b strings.Builder
	if features.MultiItem {
		b.WriteString("Multi-item layout")
	} else {
		b.WriteString(Capitalize(name) + " block")
	}

	kinds := []string{}
	if features.Image {
		kinds = append(kinds, "images")
	}
	if features.Heading {
		kinds = append(kinds, "headings")
	}
	if features.Button {
		kinds = append(kinds, "buttons")
	}
	if len(kinds) > 0 {
		b.WriteString(" with " + strings.Join(kinds, ", "))
	}
	if len(variants) > 0 {
		b.WriteString(". Variants: " + strings.Join(variants, ", "))
	}
	return b.String()
}

// Capitalize upper-cases the first rune of name.
func Capitalize(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return name
	}
	return string(unicode.ToUpper(r)) + name[size:]
}
