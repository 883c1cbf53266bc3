// Package preview turns raw note content into the plain text the
// engine indexes for content matches and shows beside results.
package preview

import (
	"path/filepath"
	"regexp"
	"strings"
)

// Markdown syntax patterns, compiled once.
var (
	codeBlockRe    = regexp.MustCompile("(?s)```[^`]*```")
	inlineCodeRe   = regexp.MustCompile("`[^`]+`")
	imageRe        = regexp.MustCompile(`!\[[^\]]*\]\([^)]+\)`)
	linkRe         = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	labelledWikiRe = regexp.MustCompile(`\[\[[^\]|]+\|([^\]]+)\]\]`)
	wikiRe         = regexp.MustCompile(`\[\[([^\]]+)\]\]`)
	headingRe      = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	blockquoteRe   = regexp.MustCompile(`(?m)^>\s*`)
	hrRe           = regexp.MustCompile(`(?m)^[-*_]{3,}\s*$`)
	listRe         = regexp.MustCompile(`(?m)^\s*[-*+]\s+`)
	numberedRe     = regexp.MustCompile(`(?m)^\s*\d+\.\s+`)
	blankRunRe     = regexp.MustCompile("\n{3,}")
)

// Extract renders content as a plain-text preview capped at limit
// runes. Markdown files are stripped of their syntax first; any other
// file only gets whitespace normalisation.
func Extract(path, content string, limit int) string {
	if isMarkdownPath(path) {
		content = StripMarkdown(content)
	} else {
		content = collapseBlankRuns(strings.TrimSpace(content))
	}
	return Truncate(content, limit)
}

func isMarkdownPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return true
	}
	return false
}

// StripMarkdown removes common markdown formatting for plain text
// content. Wiki links keep their label when one is given, otherwise
// their target.
func StripMarkdown(content string) string {
	content = codeBlockRe.ReplaceAllString(content, "")
	content = inlineCodeRe.ReplaceAllString(content, "")
	content = imageRe.ReplaceAllString(content, "")
	content = linkRe.ReplaceAllString(content, "$1")
	content = labelledWikiRe.ReplaceAllString(content, "$1")
	content = wikiRe.ReplaceAllString(content, "$1")
	content = headingRe.ReplaceAllString(content, "")
	content = blockquoteRe.ReplaceAllString(content, "")
	content = hrRe.ReplaceAllString(content, "")
	content = listRe.ReplaceAllString(content, "")
	content = numberedRe.ReplaceAllString(content, "")

	content = strings.ReplaceAll(content, "**", "")
	content = strings.ReplaceAll(content, "__", "")
	content = strings.ReplaceAll(content, "*", "")
	content = strings.ReplaceAll(content, "~~", "")

	content = collapseBlankRuns(content)
	return strings.TrimSpace(content)
}

// Truncate caps s at n runes without splitting a rune. A non-positive
// n keeps s whole.
func Truncate(s string, n int) string {
	if n <= 0 {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

func collapseBlankRuns(content string) string {
	return blankRunRe.ReplaceAllString(content, "\n\n")
}
