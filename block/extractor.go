package block

import (
	"context"
	"regexp"
	"strings"
)

var (
	openDivRE   = regexp.MustCompile(`<div\b[^>]*>`)
	divTokenRE  = regexp.MustCompile(`</?div\b[^>]*>`)
	classAttrRE = regexp.MustCompile(`\bclass\s*=\s*(?:"([^"]*)"|'([^']*)')`)
)

// PageFetcher fetches the rendered HTML of published pages. It is
// satisfied by docstore.Client.
type PageFetcher interface {
	FetchPage(ctx context.Context, org, repo, path string) (string, error)
}

// DefaultPagePaths returns the published pages probed for live
// instances of a block when the caller names none: the block's
// library page, its demo page, a page named after it, and the home
// page.
func DefaultPagePaths(blockName string) []string {
	return []string{
		"/library/blocks/" + blockName,
		"/blocks/" + blockName,
		"/" + blockName,
		"/",
	}
}

// ExtractContent scans page HTML for <div> elements whose class list
// contains blockName as a whole word and returns the inner markup of
// the first instance found per variant. The variant is the first
// class token that is neither the block name nor a "<blockName>-"
// modifier; an instance with no such token is the base variant, keyed
// by "". Instances whose closing tag cannot be found by depth
// counting are dropped.
//
// The scan is lexical. Tags are lowercase-matched, attribute values
// may use double or single quotes, and nesting is tracked purely by
// counting div opens against closes.
func ExtractContent(html, blockName string) map[string]string {
	word := regexp.MustCompile(`\b` + regexp.QuoteMeta(blockName) + `\b`)

	found := make(map[string]string)
	for _, loc := range openDivRE.FindAllStringIndex(html, -1) {
		classes, ok := classOf(html[loc[0]:loc[1]])
		if !ok || !word.MatchString(classes) {
			continue
		}
		variant := variantOf(classes, blockName)
		if _, seen := found[variant]; seen {
			continue
		}
		inner, ok := balancedContent(html, loc[1])
		if !ok {
			continue
		}
		found[variant] = strings.TrimSpace(inner)
	}
	return found
}

// FindContent fetches candidate published pages in order and returns
// the block content of the first page containing any instance, along
// with the path that supplied it. Pages that fail to fetch or contain
// no instance are skipped. With no explicit paths the default
// candidates are probed.
func FindContent(ctx context.Context, pages PageFetcher, org, repo, blockName string, paths ...string) (map[string]string, string, bool) {
	if len(paths) == 0 {
		paths = DefaultPagePaths(blockName)
	}
	for _, p := range paths {
		html, err := pages.FetchPage(ctx, org, repo, p)
		if err != nil {
			continue
		}
		if content := ExtractContent(html, blockName); len(content) > 0 {
			return content, p, true
		}
	}
	return nil, "", false
}

// classOf extracts the class attribute value from an opening tag.
func classOf(tag string) (string, bool) {
	m := classAttrRE.FindStringSubmatch(tag)
	if m == nil {
		return "", false
	}
	if m[1] != "" {
		return m[1], true
	}
	return m[2], true
}

// variantOf returns the first class token that is neither the block
// name nor one of its hyphenated modifiers. No such token means the
// base variant.
func variantOf(classes, blockName string) string {
	for _, token := range strings.Fields(classes) {
		if token == blockName || strings.HasPrefix(token, blockName+"-") {
			continue
		}
		return token
	}
	return ""
}

// balancedContent returns the markup between start and the close tag
// that returns the div depth to zero. Start must sit just past an
// opening <div> tag, so the scan begins at depth one.
func balancedContent(html string, start int) (string, bool) {
	depth := 1
	pos := start
	for {
		loc := divTokenRE.FindStringIndex(html[pos:])
		if loc == nil {
			return "", false
		}
		tokenStart := pos + loc[0]
		if strings.HasPrefix(html[tokenStart:], "</") {
			depth--
			if depth == 0 {
				return html[start:tokenStart], true
			}
		} else {
			depth++
		}
		pos += loc[1]
	}
}
