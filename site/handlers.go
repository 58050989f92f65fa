package site

import (
	"net/http"
	"strings"

	"catalytiq/blog"
	"catalytiq/constants"
	"catalytiq/logging"
	"catalytiq/templates"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"
)

// Site serves the HTML pages and the JSON API over one blog service.
type Site struct {
	blog      *blog.Service
	publicURL string
}

func New(svc *blog.Service, publicURL string) *Site {
	return &Site{
		blog:      svc,
		publicURL: strings.TrimRight(publicURL, "/"),
	}
}

func (s *Site) absoluteURL(path string) string {
	return s.publicURL + path
}

func (s *Site) Home(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var props templates.HomePageProps

	// each panel degrades on its own, so the group never fails
	var panels errgroup.Group
	panels.Go(func() error {
		posts, err := s.blog.GetFeaturedPosts(ctx, constants.FEATURED_POSTS_COUNT)
		if err != nil {
			logging.Error("failed to load featured posts", "err", err)
			props.FeaturedFailed = true
			return nil
		}
		props.Featured = posts
		return nil
	})
	panels.Go(func() error {
		page, err := s.blog.ListPosts(ctx, blog.PostFilters{}, 1, constants.POSTS_PER_PAGE)
		if err != nil {
			logging.Error("failed to load latest posts", "err", err)
			props.LatestFailed = true
			return nil
		}
		props.Latest = page.Posts
		return nil
	})
	_ = panels.Wait()

	RenderPage(w, r, http.StatusOK, Page{
		Title:     constants.APP_NAME + " Blog",
		ActiveNav: "home",
		Head: templates.SEOHead{
			Description: "Insights on finance automation from " + constants.APP_NAME + ".",
			Canonical:   s.absoluteURL("/"),
		},
		Body: templates.HomePage(props),
	})
}

func (s *Site) BlogList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	state := ParseListingState(r.URL.Query())

	props := templates.BlogPageProps{
		Search:    state.Search,
		Category:  state.Category,
		Tag:       state.Tag,
		ClearHref: ListingState{}.Href(),
	}

	var (
		categories []blog.Category
		tags       []blog.Tag
	)

	var panels errgroup.Group
	panels.Go(func() error {
		page, err := s.blog.ListPosts(ctx, blog.PostFilters{
			Category: state.Category,
			Tag:      state.Tag,
			Search:   state.Search,
		}, state.Page, constants.POSTS_PER_PAGE)
		if err != nil {
			logging.Error("failed to load posts", "err", err, "state", state.Href())
			props.Failed = true
			return nil
		}
		props.Page = page
		return nil
	})
	panels.Go(func() error {
		var err error
		if categories, err = s.blog.ListCategories(ctx); err != nil {
			logging.Error("failed to load categories", "err", err)
			props.CategoriesFailed = true
		}
		return nil
	})
	panels.Go(func() error {
		var err error
		if tags, err = s.blog.ListTags(ctx); err != nil {
			logging.Error("failed to load tags", "err", err)
			props.TagsFailed = true
		}
		return nil
	})
	panels.Go(func() error {
		page, err := s.blog.ListPosts(ctx, blog.PostFilters{}, 1, constants.SIDEBAR_RECENT_COUNT)
		if err != nil {
			logging.Error("failed to load recent posts", "err", err)
			props.RecentFailed = true
			return nil
		}
		props.Recent = page.Posts
		return nil
	})
	panels.Go(func() error {
		posts, err := s.blog.GetPopularPosts(ctx, constants.SIDEBAR_POPULAR_COUNT)
		if err != nil {
			logging.Error("failed to load popular posts", "err", err)
			props.PopularFailed = true
			return nil
		}
		props.Popular = posts
		return nil
	})
	_ = panels.Wait()

	props.Categories = make([]templates.FilterLink, 0, len(categories)+1)
	props.Categories = append(props.Categories, templates.FilterLink{
		Label:  "All",
		Href:   state.WithCategory("").Href(),
		Active: state.Category == "",
	})
	for _, c := range categories {
		props.Categories = append(props.Categories, templates.FilterLink{
			Label:  c.Name,
			Href:   state.WithCategory(c.Slug).Href(),
			Color:  c.Color,
			Active: state.Category == c.Slug,
		})
	}

	if len(tags) > constants.SIDEBAR_TAGS_COUNT {
		tags = tags[:constants.SIDEBAR_TAGS_COUNT]
	}
	props.Tags = make([]templates.FilterLink, 0, len(tags))
	for _, t := range tags {
		next := state.WithTag(t.Slug)
		if state.Tag == t.Slug {
			next = state.WithTag("")
		}
		props.Tags = append(props.Tags, templates.FilterLink{
			Label:  t.Name,
			Href:   next.Href(),
			Active: state.Tag == t.Slug,
		})
	}

	if !props.Failed {
		props.Pagination = buildPagination(state, props.Page.TotalPages)
	}

	title := "Blog" + constants.BLOG_TITLE_SUFFIX
	if state.Search != "" {
		title = "Search: " + state.Search + constants.BLOG_TITLE_SUFFIX
	}

	RenderPage(w, r, http.StatusOK, Page{
		Title:     title,
		ActiveNav: "blog",
		Head: templates.SEOHead{
			Description: "Insights, strategies, and success stories on intelligent finance automation.",
			Canonical:   s.absoluteURL(state.Href()),
		},
		Body: templates.BlogPage(props),
	})
}

func buildPagination(state ListingState, totalPages int) templates.Pagination {
	var p templates.Pagination
	if totalPages <= 1 {
		return p
	}
	if state.Page > 1 {
		p.PrevHref = state.WithPage(state.Page - 1).Href()
	}
	if state.Page < totalPages {
		p.NextHref = state.WithPage(state.Page + 1).Href()
	}
	p.Pages = make([]templates.PageLink, 0, totalPages)
	for i := 1; i <= totalPages; i++ {
		p.Pages = append(p.Pages, templates.PageLink{
			Number:  i,
			Href:    state.WithPage(i).Href(),
			Current: i == state.Page,
		})
	}
	return p
}

func (s *Site) PostPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slug := chi.URLParam(r, "slug")

	post, err := s.blog.GetPostBySlug(ctx, slug)
	if err != nil {
		logging.Error("failed to load post", "slug", slug, "err", err)
		renderFailure(w, r, "Failed to load the post.")
		return
	}
	if post == nil {
		renderNotFound(w, r)
		return
	}

	s.blog.Views().Track(post.ID)

	related, err := s.blog.GetRelatedPosts(ctx, post.ID, post.CategorySlugs(), post.TagSlugs(), constants.RELATED_POSTS_COUNT)
	if err != nil {
		logging.Warn("failed to load related posts", "post_id", post.ID, "err", err)
		related = nil
	}

	head := PostHead(*post, s.absoluteURL("/blog/"+post.Slug))

	RenderPage(w, r, http.StatusOK, Page{
		Title:     head.Title,
		ActiveNav: "blog",
		Head:      head,
		Body: templates.PostPage(templates.PostPageProps{
			Post:    *post,
			Related: related,
			Share:   ShareLinks(head.Canonical, post.Title, post.Excerpt),
		}),
	})
}

// PostHead resolves a post's meta tags: SEO overrides first, then the post's
// own title, excerpt and featured image.
func PostHead(post blog.Post, canonical string) templates.SEOHead {
	var seo blog.SEOMetadata
	if post.SEOMetadata != nil {
		seo = *post.SEOMetadata
	}
	image := ""
	if post.FeaturedImageURL != nil {
		image = *post.FeaturedImageURL
	}

	return templates.SEOHead{
		Title:              firstNonEmpty(seo.MetaTitle, post.Title+constants.BLOG_TITLE_SUFFIX),
		Description:        firstNonEmpty(seo.MetaDescription, post.Excerpt),
		Keywords:           seo.Keywords,
		Canonical:          canonical,
		Type:               "article",
		OGTitle:            firstNonEmpty(seo.OGTitle, post.Title),
		OGDescription:      firstNonEmpty(seo.OGDescription, post.Excerpt),
		OGImage:            firstNonEmpty(seo.OGImage, image),
		TwitterTitle:       firstNonEmpty(seo.TwitterTitle, post.Title),
		TwitterDescription: firstNonEmpty(seo.TwitterDescription, post.Excerpt),
		TwitterImage:       firstNonEmpty(seo.TwitterImage, image),
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
