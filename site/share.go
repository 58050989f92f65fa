package site

import (
	"net/url"
	"strings"

	"catalytiq/templates"
)

// encodeComponent escapes s for use inside a URL query value, spaces as %20.
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// ShareLinks builds the LinkedIn, Twitter and email share targets for a page.
func ShareLinks(pageURL, title, description string) templates.ShareLinks {
	return templates.ShareLinks{
		LinkedIn: "https://www.linkedin.com/sharing/share-offsite/?url=" + encodeComponent(pageURL),
		Twitter:  "https://twitter.com/intent/tweet?url=" + encodeComponent(pageURL) + "&text=" + encodeComponent(title),
		Email:    "mailto:?subject=" + encodeComponent(title) + "&body=" + encodeComponent(description+"\n\n"+pageURL),
	}
}
