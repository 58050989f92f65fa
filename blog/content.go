package blog

import (
	"math"
	"regexp"
	"strings"

	"catalytiq/constants"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/gosimple/slug"
)

var htmlTagPattern = regexp.MustCompile(`<[^>]*>`)

// ReadingTime estimates minutes to read content at READING_SPEED_WPM, never less than 1.
func ReadingTime(content string) int {
	words := len(strings.Fields(content))
	minutes := int(math.Ceil(float64(words) / constants.READING_SPEED_WPM))
	if minutes < 1 {
		return 1
	}
	return minutes
}

// ExtractExcerpt returns a plain-text summary of at most maxLength runes,
// cut at a sentence end when one falls in the last 30% of the window and at
// a word boundary (with an ellipsis) otherwise.
func ExtractExcerpt(content string, maxLength int) string {
	plain := strings.TrimSpace(htmlTagPattern.ReplaceAllString(content, ""))
	runes := []rune(plain)
	if len(runes) <= maxLength {
		return plain
	}

	truncated := string(runes[:maxLength])
	if lastSentence := strings.LastIndex(truncated, "."); lastSentence > int(float64(maxLength)*0.7) {
		return truncated[:lastSentence+1]
	}
	if lastSpace := strings.LastIndex(truncated, " "); lastSpace > 0 {
		truncated = truncated[:lastSpace]
	}
	return truncated + "..."
}

// GenerateSlug derives a URL-safe slug from a title.
func GenerateSlug(title string) string {
	return slug.Make(title)
}

// RenderMarkdown converts authored markdown into the HTML stored as post content.
func RenderMarkdown(source string) string {
	extensions := parser.CommonExtensions | parser.AutoHeadingIDs
	p := parser.NewWithExtensions(extensions)
	doc := p.Parse([]byte(source))

	htmlFlags := html.CommonFlags | html.HrefTargetBlank
	renderer := html.NewRenderer(html.RendererOptions{Flags: htmlFlags})

	return string(markdown.Render(doc, renderer))
}
