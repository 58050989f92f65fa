package blog

import (
	"context"
	"fmt"
	"testing"
	"time"

	"catalytiq/database"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm/clause"
)

type fixture struct {
	t      *testing.T
	ctx    context.Context
	store  *database.Client
	svc    *Service
	author database.Author
	base   time.Time
	seq    int
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()

	store, err := database.Open(database.Config{URL: "sqlite::memory:", Key: "test-key"})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	require.NoError(t, store.Migrate(context.Background()))

	f := &fixture{
		t:     t,
		ctx:   context.Background(),
		store: store,
		svc:   NewService(store, opts...),
		base:  time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
	}
	f.author = f.newAuthor("jane", "Jane Doe")
	return f
}

func (f *fixture) newAuthor(slug, name string) database.Author {
	f.t.Helper()
	a := database.Author{Slug: slug, Name: name, Email: slug + "@example.com"}
	require.NoError(f.t, f.store.Authors(f.ctx).Create(&a).Error)
	return a
}

func (f *fixture) newCategory(slug string) database.Category {
	f.t.Helper()
	color := "#123456"
	c := database.Category{Slug: slug, Name: "Category " + slug, Color: &color}
	require.NoError(f.t, f.store.Categories(f.ctx).Create(&c).Error)
	return c
}

func (f *fixture) newTag(slug string) database.Tag {
	f.t.Helper()
	tg := database.Tag{Slug: slug, Name: "Tag " + slug}
	require.NoError(f.t, f.store.Tags(f.ctx).Create(&tg).Error)
	return tg
}

type postOpts struct {
	title      string
	excerpt    string
	content    string
	featured   bool
	draft      bool
	noDate     bool
	views      int64
	author     *database.Author
	categories []database.Category
	tags       []database.Tag
}

// newPost inserts a post; each call is published one day after the previous one.
func (f *fixture) newPost(opts postOpts) database.Post {
	f.t.Helper()
	f.seq++

	if opts.title == "" {
		opts.title = fmt.Sprintf("Post %d", f.seq)
	}
	if opts.excerpt == "" {
		opts.excerpt = "Excerpt of " + opts.title
	}
	if opts.content == "" {
		opts.content = "<p>Body of " + opts.title + "</p>"
	}
	author := f.author
	if opts.author != nil {
		author = *opts.author
	}

	row := database.Post{
		Title:       opts.title,
		Slug:        GenerateSlug(opts.title),
		Excerpt:     opts.excerpt,
		Content:     opts.content,
		IsFeatured:  opts.featured,
		IsPublished: !opts.draft,
		AuthorID:    author.ID,
		ReadingTime: 1,
		ViewCount:   opts.views,
	}
	if !opts.noDate {
		published := f.base.AddDate(0, 0, f.seq)
		row.PublishedAt = &published
	}
	require.NoError(f.t, f.store.Posts(f.ctx).Omit(clause.Associations).Create(&row).Error)

	for _, c := range opts.categories {
		link := database.PostCategory{PostID: row.ID, CategoryID: c.ID}
		require.NoError(f.t, f.store.PostCategories(f.ctx).Omit(clause.Associations).Create(&link).Error)
	}
	for _, tg := range opts.tags {
		link := database.PostTag{PostID: row.ID, TagID: tg.ID}
		require.NoError(f.t, f.store.PostTags(f.ctx).Omit(clause.Associations).Create(&link).Error)
	}
	return row
}

func (f *fixture) viewCount(postID string) int64 {
	f.t.Helper()
	var row database.Post
	require.NoError(f.t, f.store.Posts(f.ctx).Where("id = ?", postID).Take(&row).Error)
	return row.ViewCount
}

func titles(posts []Post) []string {
	out := make([]string, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.Title)
	}
	return out
}

func boolPtr(b bool) *bool {
	return &b
}

func strPtr(s string) *string {
	return &s
}
