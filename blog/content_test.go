package blog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadingTime(t *testing.T) {
	tests := []struct {
		words int
		want  int
	}{
		{0, 1},
		{1, 1},
		{200, 1},
		{201, 2},
		{1000, 5},
	}
	for _, tt := range tests {
		content := strings.TrimSpace(strings.Repeat("word ", tt.words))
		assert.Equal(t, tt.want, ReadingTime(content), "words=%d", tt.words)
	}
}

func TestExtractExcerpt(t *testing.T) {
	t.Run("short content is returned as plain text", func(t *testing.T) {
		assert.Equal(t, "Hello world.", ExtractExcerpt("<p>Hello <b>world</b>.</p>", 160))
	})

	t.Run("cuts at a late sentence end", func(t *testing.T) {
		content := strings.Repeat("a", 80) + ". " + strings.Repeat("b", 100)
		got := ExtractExcerpt(content, 100)
		assert.Equal(t, strings.Repeat("a", 80)+".", got)
	})

	t.Run("falls back to a word boundary with ellipsis", func(t *testing.T) {
		content := "Short. " + strings.Repeat("word ", 40)
		got := ExtractExcerpt(content, 50)
		assert.True(t, strings.HasSuffix(got, "..."))
		assert.LessOrEqual(t, len(got), 53)
		assert.False(t, strings.HasSuffix(strings.TrimSuffix(got, "..."), " "))
	})
}

func TestGenerateSlug(t *testing.T) {
	assert.Equal(t, "automating-month-end-close", GenerateSlug("Automating Month-End Close"))
	assert.Equal(t, "ai-and-you", GenerateSlug("AI & You"))
}

func TestRenderMarkdown(t *testing.T) {
	html := RenderMarkdown("# Title\n\nSome [link](https://example.com).")
	assert.Contains(t, html, `<h1 id="title">Title</h1>`)
	assert.Contains(t, html, `target="_blank"`)
}
