package docgen

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
)

// RenderReadme renders block README Markdown to HTML.
func RenderReadme(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("docgen: rendering readme: %w", err)
	}
	return buf.String(), nil
}
