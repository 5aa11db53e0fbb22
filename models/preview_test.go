package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPreviewSnippet(t *testing.T) {
	assert.Equal(t, "No content in this note.", PreviewSnippet(""))
	assert.Equal(t, "No content in this note.", PreviewSnippet("## "))
	assert.Equal(t, "intro", PreviewSnippet("## intro"))
	assert.Equal(t, "bold and link", PreviewSnippet("**bold** and [link]"))

	long := strings.Repeat("a", 80)
	snippet := PreviewSnippet(long)
	assert.Equal(t, strings.Repeat("a", 60)+"...", snippet)
}
