package block

import (
	"context"
	"regexp"
	"strings"
	"sync"

	"github.com/jonwraymond/blocklibrary/source"
)

// Features are structure hints inferred from a block's CSS class
// names. Detection is case-insensitive and order-independent.
type Features struct {
	Image     bool `json:"image"`
	Heading   bool `json:"heading"`
	Button    bool `json:"button"`
	MultiItem bool `json:"multiItem"`
	BEM       bool `json:"bem"`
}

// Analysis is the structural summary of one block, derived entirely
// from its script and stylesheet text.
type Analysis struct {
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	FunctionName string   `json:"functionName,omitempty"`
	HasJS        bool     `json:"hasJS"`
	HasCSS       bool     `json:"hasCSS"`
	Variants     []string `json:"variants"`
	Classes      []string `json:"classes"`
	Features     Features `json:"features"`
}

var (
	exportRE = regexp.MustCompile(`export\s+default\s+(?:async\s+)?function\s+([A-Za-z_$][0-9A-Za-z_$]*)`)
	classRE  = regexp.MustCompile(`\.([A-Za-z_][0-9A-Za-z_-]*)`)
)

// Analyze reads the named block's script and stylesheet and derives
// its Analysis. Both reads are best-effort and concurrent; a block
// with neither file yields an empty analysis, not an error.
func Analyze(ctx context.Context, src source.Source, name string) (Analysis, error) {
	if err := ValidateName(name); err != nil {
		return Analysis{}, err
	}

	var (
		js, css       string
		hasJS, hasCSS bool
		wg            sync.WaitGroup
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		js, hasJS = src.FileContent(ctx, scriptPath(name))
	}()
	go func() {
		defer wg.Done()
		css, hasCSS = src.FileContent(ctx, stylePath(name))
	}()
	wg.Wait()

	a := Analysis{
		Name:     name,
		HasJS:    hasJS,
		HasCSS:   hasCSS,
		Variants: []string{},
		Classes:  []string{},
	}
	if hasJS {
		a.Description = docComment(js)
		a.FunctionName = exportedFunction(js)
	}
	if hasCSS {
		a.Classes = classNames(css)
		a.Variants = variantNames(css, name)
		a.Features = DetectFeatures(a.Classes)
	}
	return a, nil
}

// DetectFeatures derives structure flags from a set of CSS class
// names. Matching is by case-insensitive substring, except BEM, which
// looks for the literal "__" and "--" separators.
func DetectFeatures(classes []string) Features {
	var f Features
	for _, class := range classes {
		lower := strings.ToLower(class)
		f.Image = f.Image || containsAny(lower, "image", "img", "picture", "photo")
		f.Heading = f.Heading || containsAny(lower, "title", "heading", "headline")
		f.Button = f.Button || containsAny(lower, "button", "btn", "cta", "action")
		f.MultiItem = f.MultiItem || containsAny(lower, "item", "card", "column")
		f.BEM = f.BEM || strings.Contains(class, "__") || strings.Contains(class, "--")
	}
	return f
}

func containsAny(s string, substrings ...string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// docComment extracts a one-line description from the first /** doc
// comment in script text: the first non-empty line of its body.
func docComment(js string) string {
	_, body, found := strings.Cut(js, "/**")
	if !found {
		return ""
	}
	if end := strings.Index(body, "*/"); end >= 0 {
		body = body[:end]
	}
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimSpace(strings.TrimLeft(line, "*"))
		if line != "" {
			return line
		}
	}
	return ""
}

// exportedFunction returns the name of the default-export function
// declaration, if the script has one.
func exportedFunction(js string) string {
	m := exportRE.FindStringSubmatch(js)
	if m == nil {
		return ""
	}
	return m[1]
}

// classNames returns the distinct class-selector names in stylesheet
// text, in first-seen order.
func classNames(css string) []string {
	names := []string{}
	seen := make(map[string]bool)
	for _, m := range classRE.FindAllStringSubmatch(css, -1) {
		if seen[m[1]] {
			continue
		}
		seen[m[1]] = true
		names = append(names, m[1])
	}
	return names
}

// variantNames returns the variant v of each compound selector
// .name.v in stylesheet text, deduplicated in first-seen order. The
// block name itself never counts as a variant.
func variantNames(css, name string) []string {
	re := regexp.MustCompile(`\.` + regexp.QuoteMeta(name) + `\.([A-Za-z_][0-9A-Za-z_-]*)`)
	variants := []string{}
	seen := make(map[string]bool)
	for _, m := range re.FindAllStringSubmatch(css, -1) {
		v := m[1]
		if v == name || seen[v] {
			continue
		}
		seen[v] = true
		variants = append(variants, v)
	}
	return variants
}
