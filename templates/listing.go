package templates

import (
	"fmt"

	"catalytiq/blog"

	g "github.com/maragudk/gomponents"
	. "github.com/maragudk/gomponents/html"
)

// FilterLink is one selectable category or tag in the listing sidebar.
type FilterLink struct {
	Label  string
	Href   string
	Color  *string
	Active bool
}

type PageLink struct {
	Number  int
	Href    string
	Current bool
}

type Pagination struct {
	PrevHref string
	NextHref string
	Pages    []PageLink
}

type BlogPageProps struct {
	Page       blog.PostsPage
	Failed     bool
	Search     string
	Category   string
	Tag        string
	ClearHref  string
	Pagination Pagination

	Categories       []FilterLink
	CategoriesFailed bool
	Tags             []FilterLink
	TagsFailed       bool
	Recent           []blog.Post
	RecentFailed     bool
	Popular          []blog.Post
	PopularFailed    bool
}

func PaginationComponent(p Pagination) g.Node {
	if len(p.Pages) <= 1 {
		return nil
	}

	items := make([]g.Node, 0, len(p.Pages)+2)
	if p.PrevHref != "" {
		items = append(items, A(Class("button outline"), Href(p.PrevHref), Rel("prev"), g.Text("Previous")))
	}
	for _, page := range p.Pages {
		if page.Current {
			items = append(items, Span(Class("button primary"), g.Attr("aria-current", "page"), g.Textf("%d", page.Number)))
			continue
		}
		items = append(items, A(Class("button clear"), Href(page.Href), g.Textf("%d", page.Number)))
	}
	if p.NextHref != "" {
		items = append(items, A(Class("button outline"), Href(p.NextHref), Rel("next"), g.Text("Next")))
	}
	return Nav(Class("pagination"), g.Attr("aria-label", "Pagination"), g.Group(items))
}

func filterList(title string, links []FilterLink, failed bool) g.Node {
	var body g.Node
	switch {
	case failed:
		body = P(Class("text-grey"), g.Textf("Failed to load %s.", title))
	case len(links) == 0:
		body = P(Class("text-grey"), g.Textf("No %s yet.", title))
	default:
		items := make([]g.Node, 0, len(links))
		for _, l := range links {
			items = append(items, Li(
				A(Href(l.Href), g.If(l.Active, Class("active")),
					g.If(l.Color != nil, Style("border-left: 4px solid "+deref(l.Color)+"; padding-left: .5em;")),
					g.Text(l.Label),
				),
			))
		}
		body = Ul(Class("filter-list"), g.Group(items))
	}
	return Section(Class("sidebar-panel"), H4(g.Text(capitalize(title))), body)
}

func postList(title string, posts []blog.Post, failed bool) g.Node {
	var body g.Node
	switch {
	case failed:
		body = P(Class("text-grey"), g.Textf("Failed to load %s.", title))
	case len(posts) == 0:
		body = P(Class("text-grey"), g.Text("Nothing here yet."))
	default:
		items := make([]g.Node, 0, len(posts))
		for _, p := range posts {
			items = append(items, Li(A(Href(postHref(p.Slug)), g.Text(p.Title))))
		}
		body = Ul(g.Group(items))
	}
	return Section(Class("sidebar-panel"), H4(g.Text(capitalize(title))), body)
}

func searchForm(props BlogPageProps) g.Node {
	return g.El("form", Class("search-form"), g.Attr("method", "get"), g.Attr("action", "/blog"), g.Attr("role", "search"),
		g.If(props.Category != "", Input(Type("hidden"), Name("category"), Value(props.Category))),
		g.If(props.Tag != "", Input(Type("hidden"), Name("tag"), Value(props.Tag))),
		Input(Type("search"), Name("search"), Value(props.Search), Placeholder("Search articles...")),
		Button(Type("submit"), Class("button primary"), g.Text("Search")),
	)
}

func BlogPage(props BlogPageProps) g.Node {
	var results g.Node
	if props.Failed {
		results = FailureNotice("Failed to load posts.")
	} else {
		results = g.Group([]g.Node{
			P(Class("text-grey result-count"), g.Text(articleCount(props.Page.Total))),
			PostGrid(props.Page.Posts, "No posts match these filters."),
			PaginationComponent(props.Pagination),
		})
	}

	filtered := props.Search != "" || props.Category != "" || props.Tag != ""

	return Div(Class("row blog"),
		Div(Class("col-9"),
			H1(g.Text("Blog")),
			searchForm(props),
			g.If(filtered, P(A(Href(props.ClearHref), g.Text("Clear filters")))),
			results,
		),
		Aside(Class("col-3 sidebar"),
			filterList("categories", props.Categories, props.CategoriesFailed),
			filterList("tags", props.Tags, props.TagsFailed),
			postList("recent posts", props.Recent, props.RecentFailed),
			postList("popular posts", props.Popular, props.PopularFailed),
		),
	)
}

func articleCount(n int64) string {
	if n == 1 {
		return "1 article"
	}
	return fmt.Sprintf("%d articles", n)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
