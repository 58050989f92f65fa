package templates

import (
	"catalytiq/blog"

	g "github.com/maragudk/gomponents"
	. "github.com/maragudk/gomponents/html"
)

func postHref(slug string) string {
	return "/blog/" + slug
}

func categoryBadge(name, slug string, color *string) g.Node {
	style := ""
	if color != nil {
		style = "background-color: " + *color + ";"
	}
	return A(Class("tag category-badge"), Href("/blog?category="+slug),
		g.If(style != "", Style(style)),
		g.Text(name),
	)
}

func categoryBadges(categories []blog.Category) g.Node {
	badges := make([]g.Node, 0, len(categories))
	for _, c := range categories {
		badges = append(badges, categoryBadge(c.Name, c.Slug, c.Color))
	}
	return Div(Class("post-categories"), g.Group(badges))
}

func postMeta(author *blog.Author, published string, readingTime int) g.Node {
	nodes := []g.Node{}
	if author != nil {
		nodes = append(nodes, Span(Class("post-author"), g.Text(author.Name)))
	}
	if published != "" {
		nodes = append(nodes, Span(Class("post-date"), g.Text(published)))
	}
	nodes = append(nodes, Span(Class("post-reading-time"), g.Textf("%d min read", readingTime)))
	return Div(Class("post-meta text-grey"), g.Group(nodes))
}

func coverImage(url *string, alt string) g.Node {
	if url == nil {
		return nil
	}
	return Img(Class("post-cover"), Src(*url), Alt(alt), g.Attr("loading", "lazy"))
}

// PostCard is the summary tile used in listings.
func PostCard(post blog.Post) g.Node {
	return Article(Class("card post-card"),
		coverImage(post.FeaturedImageURL, post.Title),
		categoryBadges(post.Categories),
		H3(A(Href(postHref(post.Slug)), g.Text(post.Title))),
		P(g.Text(post.Excerpt)),
		postMeta(post.Author, FormatDate(post.PublishedAt), post.ReadingTime),
	)
}

// PostGrid lays out post cards, or an empty-state message when there are none.
func PostGrid(posts []blog.Post, empty string) g.Node {
	if len(posts) == 0 {
		return P(Class("empty-state text-grey"), g.Text(empty))
	}
	cards := make([]g.Node, 0, len(posts))
	for _, p := range posts {
		cards = append(cards, Div(Class("col-4"), PostCard(p)))
	}
	return Div(Class("row post-grid"), g.Group(cards))
}

type HomePageProps struct {
	Featured       []blog.Post
	FeaturedFailed bool
	Latest         []blog.Post
	LatestFailed   bool
}

func HomePage(props HomePageProps) g.Node {
	featured := PostGrid(props.Featured, "No featured posts yet.")
	if props.FeaturedFailed {
		featured = FailureNotice("Failed to load featured posts.")
	}
	latest := PostGrid(props.Latest, "No posts published yet.")
	if props.LatestFailed {
		latest = FailureNotice("Failed to load posts.")
	}

	return Div(Class("home"),
		Header(Class("hero"),
			H1(g.Text("Insights on finance automation")),
			P(Class("text-grey"), g.Text("Practical writing from the team building the future of back-office operations.")),
		),
		Section(Class("featured-posts"),
			H2(g.Text("Featured")),
			featured,
		),
		Section(Class("latest-posts"),
			H2(g.Text("Latest posts")),
			latest,
			P(A(Class("button outline"), Href("/blog"), g.Text("View all posts"))),
		),
	)
}

// ShareLinks are prebuilt share targets for a post.
type ShareLinks struct {
	LinkedIn string
	Twitter  string
	Email    string
}

func ShareLinksComponent(links ShareLinks) g.Node {
	return Div(Class("share-links"),
		Strong(g.Text("Share: ")),
		A(Href(links.LinkedIn), Target("_blank"), Rel("noopener noreferrer"), g.Text("LinkedIn")),
		A(Href(links.Twitter), Target("_blank"), Rel("noopener noreferrer"), g.Text("Twitter")),
		A(Href(links.Email), g.Text("Email")),
	)
}

func relatedCard(post blog.RelatedPost) g.Node {
	badges := make([]g.Node, 0, len(post.Categories))
	for _, c := range post.Categories {
		badges = append(badges, categoryBadge(c.Name, c.Slug, c.Color))
	}
	author := ""
	if post.Author != nil {
		author = post.Author.Name
	}

	return Article(Class("card related-card"),
		coverImage(post.FeaturedImageURL, post.Title),
		Div(Class("post-categories"), g.Group(badges)),
		H4(A(Href(postHref(post.Slug)), g.Text(post.Title))),
		P(g.Text(post.Excerpt)),
		Div(Class("post-meta text-grey"),
			g.If(author != "", Span(Class("post-author"), g.Text(author))),
			g.If(post.PublishedAt != nil, Span(Class("post-date"), g.Text(FormatDate(post.PublishedAt)))),
			Span(Class("post-reading-time"), g.Textf("%d min read", post.ReadingTime)),
		),
	)
}

type PostPageProps struct {
	Post    blog.Post
	Related []blog.RelatedPost
	Share   ShareLinks
}

func PostPage(props PostPageProps) g.Node {
	post := props.Post

	tags := make([]g.Node, 0, len(post.Tags))
	for _, t := range post.Tags {
		tags = append(tags, A(Class("tag"), Href("/blog?tag="+t.Slug), g.Text("#"+t.Name)))
	}

	var related g.Node
	if len(props.Related) > 0 {
		cards := make([]g.Node, 0, len(props.Related))
		for _, r := range props.Related {
			cards = append(cards, Div(Class("col-4"), relatedCard(r)))
		}
		related = Section(Class("related-posts"),
			H2(g.Text("Related posts")),
			Div(Class("row"), g.Group(cards)),
		)
	}

	var bio g.Node
	if post.Author != nil && post.Author.Bio != nil {
		var linkedin g.Node
		if post.Author.LinkedinURL != nil {
			linkedin = A(Href(*post.Author.LinkedinURL), Target("_blank"), Rel("noopener noreferrer"), g.Text("LinkedIn"))
		}
		bio = Aside(Class("author-bio card"),
			Strong(g.Text(post.Author.Name)),
			P(g.Text(*post.Author.Bio)),
			linkedin,
		)
	}

	return Article(Class("post"),
		P(A(Href("/blog"), g.Text("← Back to blog"))),
		categoryBadges(post.Categories),
		H1(g.Text(post.Title)),
		postMeta(post.Author, FormatDate(post.PublishedAt), post.ReadingTime),
		coverImage(post.FeaturedImageURL, post.Title),
		Div(Class("post-content"), g.Raw(post.Content)),
		g.If(len(tags) > 0, Div(Class("post-tags"), g.Group(tags))),
		ShareLinksComponent(props.Share),
		bio,
		related,
	)
}
