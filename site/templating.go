package site

import (
	"net/http"

	"catalytiq/constants"
	"catalytiq/logging"
	"catalytiq/templates"

	g "github.com/maragudk/gomponents"
)

// Page is everything the layout needs around a page body.
type Page struct {
	Title     string
	Head      templates.SEOHead
	ActiveNav string
	Body      g.Node
}

// RenderPage writes page inside the site layout with the given status.
func RenderPage(w http.ResponseWriter, r *http.Request, status int, page Page) {
	title := page.Title
	if title == "" {
		title = constants.APP_NAME
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)

	layout := templates.Layout(templates.LayoutProps{
		Title:     title,
		Head:      page.Head,
		ActiveNav: page.ActiveNav,
	}, page.Body)

	if err := layout.Render(w); err != nil {
		logging.Error("page render failed", "path", r.URL.Path, "err", err)
	}
}

func renderNotFound(w http.ResponseWriter, r *http.Request) {
	RenderPage(w, r, http.StatusNotFound, Page{
		Title: "Post Not Found" + constants.BLOG_TITLE_SUFFIX,
		Head:  templates.SEOHead{Description: "The requested blog post could not be found."},
		Body:  templates.NotFoundPage(),
	})
}

func renderFailure(w http.ResponseWriter, r *http.Request, message string) {
	RenderPage(w, r, http.StatusInternalServerError, Page{
		Title: "Error" + constants.BLOG_TITLE_SUFFIX,
		Body:  templates.FailurePage(message),
	})
}
