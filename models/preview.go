package models

import (
	"regexp"
	"strings"
)

const previewMaxLength = 60

var markdownMarkers = regexp.MustCompile("#+\\s?|[*_`\\[\\]()]")

// PreviewSnippet returns a short plain-text teaser of markdown content for
// note listings.
func PreviewSnippet(content string) string {
	const empty = "No content in this note."
	if content == "" {
		return empty
	}

	text := strings.TrimSpace(markdownMarkers.ReplaceAllString(content, ""))
	if runes := []rune(text); len(runes) > previewMaxLength {
		text = string(runes[:previewMaxLength]) + "..."
	}
	if text == "" {
		return empty
	}
	return text
}
