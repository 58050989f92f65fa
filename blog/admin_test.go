package blog

import (
	"strings"
	"testing"
	"time"

	"catalytiq/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePost(t *testing.T) {
	f := newFixture(t)
	finance := f.newCategory("finance")
	ai := f.newTag("ai")

	post, err := f.svc.CreatePost(f.ctx, CreatePostInput{
		Title:         "Closing the Books Faster",
		Content:       "# Closing\n\n" + strings.Repeat("word ", 450),
		ContentFormat: FormatMarkdown,
		IsPublished:   true,
		AuthorID:      f.author.ID,
		CategoryIDs:   []string{finance.ID, finance.ID},
		TagIDs:        []string{ai.ID},
		SEOMetadata:   &SEOMetadata{MetaTitle: "Close faster"},
	})
	require.NoError(t, err)

	assert.Equal(t, "closing-the-books-faster", post.Slug)
	assert.Contains(t, post.Content, `<h1 id="closing">Closing</h1>`)
	assert.Equal(t, 3, post.ReadingTime)
	assert.NotEmpty(t, post.Excerpt)
	assert.NotContains(t, post.Excerpt, "<")
	require.NotNil(t, post.PublishedAt, "publishing without a date stamps one")
	assert.WithinDuration(t, time.Now(), *post.PublishedAt, time.Minute)
	assert.Equal(t, []string{"finance"}, post.CategorySlugs())
	assert.Equal(t, []string{"ai"}, post.TagSlugs())
	require.NotNil(t, post.SEOMetadata)
	assert.Equal(t, "Close faster", post.SEOMetadata.MetaTitle)
	require.NotNil(t, post.Author)
	assert.Equal(t, f.author.ID, post.Author.ID)

	fetched, err := f.svc.GetPostBySlug(f.ctx, post.Slug)
	require.NoError(t, err)
	require.NotNil(t, fetched)
	assert.Equal(t, post.ID, fetched.ID)
}

func TestCreatePost_DraftKeepsNoDate(t *testing.T) {
	f := newFixture(t)

	post, err := f.svc.CreatePost(f.ctx, CreatePostInput{
		Title:    "Work in progress",
		Content:  "<p>Draft</p>",
		AuthorID: f.author.ID,
	})
	require.NoError(t, err)
	assert.False(t, post.IsPublished)
	assert.Nil(t, post.PublishedAt)
	assert.Equal(t, "Draft", post.Excerpt)
}

func TestCreatePost_Validation(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreatePost(f.ctx, CreatePostInput{Title: " ", AuthorID: f.author.ID})
	assert.ErrorIs(t, err, ErrInvalidPost)

	_, err = f.svc.CreatePost(f.ctx, CreatePostInput{Title: "No author"})
	assert.ErrorIs(t, err, ErrInvalidPost)
}

func TestCreatePost_DuplicateSlug(t *testing.T) {
	f := newFixture(t)
	ops := f.newCategory("operations")
	f.newPost(postOpts{title: "Taken"})

	_, err := f.svc.CreatePost(f.ctx, CreatePostInput{
		Title:       "Taken",
		Content:     "<p>Again</p>",
		AuthorID:    f.author.ID,
		CategoryIDs: []string{ops.ID},
	})
	assert.ErrorIs(t, err, ErrSlugTaken)

	var links int64
	require.NoError(t, f.store.PostCategories(f.ctx).Count(&links).Error)
	assert.Zero(t, links, "nothing is written when the slug is taken")
}

func TestUpdatePost(t *testing.T) {
	f := newFixture(t)
	finance := f.newCategory("finance")
	ops := f.newCategory("operations")
	ai := f.newTag("ai")
	draft := f.newPost(postOpts{title: "Draft", draft: true, noDate: true, categories: []database.Category{finance}, tags: []database.Tag{ai}})

	newTitle := "Now live"
	newContent := strings.Repeat("word ", 401)
	categories := []string{ops.ID}
	post, err := f.svc.UpdatePost(f.ctx, UpdatePostInput{
		ID:          draft.ID,
		Title:       &newTitle,
		Slug:        strPtr(""),
		Content:     &newContent,
		IsPublished: boolPtr(true),
		CategoryIDs: &categories,
	})
	require.NoError(t, err)

	assert.Equal(t, "Now live", post.Title)
	assert.Equal(t, "now-live", post.Slug)
	assert.Equal(t, 3, post.ReadingTime)
	assert.True(t, post.IsPublished)
	assert.NotNil(t, post.PublishedAt)
	assert.Equal(t, []string{"operations"}, post.CategorySlugs())
	assert.Equal(t, []string{"ai"}, post.TagSlugs(), "tags are untouched when not supplied")
}

func TestUpdatePost_Errors(t *testing.T) {
	f := newFixture(t)
	first := f.newPost(postOpts{title: "First"})
	f.newPost(postOpts{title: "Second"})

	_, err := f.svc.UpdatePost(f.ctx, UpdatePostInput{ID: "missing"})
	assert.ErrorIs(t, err, ErrPostNotFound)

	_, err = f.svc.UpdatePost(f.ctx, UpdatePostInput{ID: first.ID, Slug: strPtr("second")})
	assert.ErrorIs(t, err, ErrSlugTaken)

	_, err = f.svc.UpdatePost(f.ctx, UpdatePostInput{ID: first.ID, Title: strPtr("")})
	assert.ErrorIs(t, err, ErrInvalidPost)

	post, err := f.svc.UpdatePost(f.ctx, UpdatePostInput{ID: first.ID, Slug: strPtr("first")})
	require.NoError(t, err)
	assert.Equal(t, "first", post.Slug, "keeping the own slug is not a conflict")
}
