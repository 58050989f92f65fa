package templates

import (
	"strings"
	"time"

	"catalytiq/constants"

	g "github.com/maragudk/gomponents"
	. "github.com/maragudk/gomponents/html"
)

// SEOHead is the resolved set of document meta tags for a page.
type SEOHead struct {
	Title              string
	Description        string
	Keywords           []string
	Canonical          string
	Type               string
	OGTitle            string
	OGDescription      string
	OGImage            string
	TwitterTitle       string
	TwitterDescription string
	TwitterImage       string
}

type LayoutProps struct {
	Title     string
	Head      SEOHead
	ActiveNav string
}

func NavbarComponent(props LayoutProps) g.Node {
	navLink := func(href, label, key string) g.Node {
		return A(Href(href), g.If(props.ActiveNav == key, Class("active")), g.Text(label))
	}

	return Nav(Class("nav"),
		Div(Class("nav-left"),
			Div(Class("brand"), A(Href("/"), g.Text(constants.APP_NAME))),
		),
		Div(Class("nav-links nav-right"),
			navLink("/", "Home", "home"),
			navLink("/blog", "Blog", "blog"),
		),
	)
}

func FooterComponent() g.Node {
	return Footer(Class("footer"),
		P(Class("text-grey"),
			g.El("small", g.Textf("© %d %s. All rights reserved.", time.Now().Year(), constants.APP_NAME)),
		),
	)
}

func metaName(name, content string) g.Node {
	if content == "" {
		return nil
	}
	return Meta(Name(name), Content(content))
}

func metaProperty(property, content string) g.Node {
	if content == "" {
		return nil
	}
	return Meta(g.Attr("property", property), Content(content))
}

func headNodes(head SEOHead) []g.Node {
	ogType := head.Type
	if ogType == "" {
		ogType = "website"
	}

	nodes := []g.Node{
		metaName("description", head.Description),
		metaName("keywords", strings.Join(head.Keywords, ", ")),
		metaProperty("og:type", ogType),
		metaProperty("og:title", head.OGTitle),
		metaProperty("og:description", head.OGDescription),
		metaProperty("og:image", head.OGImage),
		metaProperty("og:url", head.Canonical),
		metaName("twitter:card", "summary_large_image"),
		metaName("twitter:title", head.TwitterTitle),
		metaName("twitter:description", head.TwitterDescription),
		metaName("twitter:image", head.TwitterImage),
	}
	if head.Canonical != "" {
		nodes = append(nodes, Link(Rel("canonical"), Href(head.Canonical)))
	}
	return nodes
}

func Layout(props LayoutProps, children ...g.Node) g.Node {
	return Doctype(
		HTML(
			Lang("en"),
			Head(
				Meta(Charset("utf-8")),
				Meta(Name("viewport"), Content("width=device-width, initial-scale=1")),

				Link(Rel("stylesheet"), Href("https://unpkg.com/chota@0.9.2/dist/chota.min.css")),
				Link(Rel("stylesheet"), Href("/assets/css/main.css")),

				TitleEl(g.Text(props.Title)),
				g.Group(headNodes(props.Head)),
			),
			Body(
				Div(Class("container"), Style("margin-top: 1.5em;"),
					NavbarComponent(props),
					Main(
						g.Group(children),
					),
				),
				FooterComponent(),
			),
		),
	)
}

// FormatDate renders a publish date, or nothing for posts without one.
func FormatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("January 2, 2006")
}
