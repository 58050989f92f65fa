package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func openTestClient(t *testing.T) *Client {
	t.Helper()
	c, err := Open(Config{URL: "sqlite::memory:", Key: "test-key"})
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	require.NoError(t, c.Migrate(context.Background()))
	return c
}

func TestOpen_RequiresURLAndKey(t *testing.T) {
	_, err := Open(Config{Key: "k"})
	assert.ErrorIs(t, err, ErrMissingURL)

	_, err = Open(Config{URL: "sqlite::memory:"})
	assert.ErrorIs(t, err, ErrMissingKey)
}

func TestOpen_UnsupportedURL(t *testing.T) {
	_, err := Open(Config{URL: "mongodb://localhost", Key: "k"})
	assert.Error(t, err)

	_, err = Open(Config{URL: "sqlite:", Key: "k"})
	assert.Error(t, err)
}

func TestClient_CreateAndPreload(t *testing.T) {
	c := openTestClient(t)
	ctx := context.Background()

	author := Author{Slug: "jane", Name: "Jane", Email: "jane@example.com"}
	require.NoError(t, c.Authors(ctx).Create(&author).Error)
	assert.NotEmpty(t, author.ID, "ID should be generated on create")

	category := Category{Slug: "finance", Name: "Finance"}
	require.NoError(t, c.Categories(ctx).Create(&category).Error)
	tag := Tag{Slug: "ai", Name: "AI"}
	require.NoError(t, c.Tags(ctx).Create(&tag).Error)

	published := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	post := Post{
		Title:       "Automating invoices",
		Slug:        "automating-invoices",
		Excerpt:     "How to automate invoices",
		Content:     "<p>Body</p>",
		IsPublished: true,
		PublishedAt: &published,
		AuthorID:    author.ID,
		ReadingTime: 1,
		SEOMetadata: datatypes.NewJSONType(SEOMetadata{MetaTitle: "Invoices"}),
	}
	require.NoError(t, c.Posts(ctx).Omit("Author", "Categories", "Tags").Create(&post).Error)
	require.NoError(t, c.PostCategories(ctx).Create(&PostCategory{PostID: post.ID, CategoryID: category.ID}).Error)
	require.NoError(t, c.PostTags(ctx).Create(&PostTag{PostID: post.ID, TagID: tag.ID}).Error)

	var got Post
	err := c.Posts(ctx).
		Preload("Author").
		Preload("Categories.Category").
		Preload("Tags.Tag").
		Where("slug = ?", "automating-invoices").
		First(&got).Error
	require.NoError(t, err)

	assert.Equal(t, "Jane", got.Author.Name)
	require.Len(t, got.Categories, 1)
	assert.Equal(t, "finance", got.Categories[0].Category.Slug)
	require.Len(t, got.Tags, 1)
	assert.Equal(t, "ai", got.Tags[0].Tag.Slug)
	assert.Equal(t, "Invoices", got.SEOMetadata.Data().MetaTitle)
	require.NotNil(t, got.PublishedAt)
	assert.True(t, published.Equal(*got.PublishedAt))
}

func TestClient_NotFoundIsNormalized(t *testing.T) {
	c := openTestClient(t)

	var post Post
	err := c.Posts(context.Background()).Where("slug = ?", "missing").First(&post).Error
	require.Error(t, err)

	normalized := Normalize("get post", err)
	assert.ErrorIs(t, normalized, ErrNotFound)
	assert.True(t, IsNotFound(normalized))
}

func TestClient_Transaction_RollsBack(t *testing.T) {
	c := openTestClient(t)
	ctx := context.Background()

	boom := errors.New("boom")
	err := c.Transaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(&Tag{Slug: "temp", Name: "Temp"}).Error; err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var count int64
	require.NoError(t, c.Tags(ctx).Count(&count).Error)
	assert.Zero(t, count)
}

func TestNormalize(t *testing.T) {
	assert.NoError(t, Normalize("op", nil))

	assert.ErrorIs(t, Normalize("op", gorm.ErrRecordNotFound), ErrNotFound)

	pgErr := &pgconn.PgError{Message: "relation does not exist", Code: "42P01"}
	err := Normalize("list posts", pgErr)
	var storeErr *StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, "list posts", storeErr.Op)
	assert.Equal(t, "relation does not exist", storeErr.Message)
	assert.Equal(t, "42P01", storeErr.Code)
	assert.Contains(t, err.Error(), "42P01")

	plain := errors.New("connection refused")
	err = Normalize("count posts", plain)
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, "connection refused", storeErr.Message)
	assert.ErrorIs(t, err, plain)

	// already normalized errors pass through untouched
	assert.Same(t, storeErr, Normalize("other", storeErr))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.True(t, IsUniqueViolation(gorm.ErrDuplicatedKey))
	assert.False(t, IsUniqueViolation(errors.New("other")))
}

func TestIsUniqueViolation_SQLiteIndex(t *testing.T) {
	c := openTestClient(t)
	ctx := context.Background()

	require.NoError(t, c.Tags(ctx).Create(&Tag{Slug: "ai", Name: "AI"}).Error)
	err := c.Tags(ctx).Create(&Tag{Slug: "ai", Name: "Again"}).Error
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))
	assert.True(t, IsUniqueViolation(Normalize("create tag", err)))
}

func TestLowerFunc_FoldsUnicode(t *testing.T) {
	c := openTestClient(t)

	var got string
	require.NoError(t, c.db.Raw("SELECT "+LowerFunc+"(?)", "ÉCRIRE Des Factures").Row().Scan(&got))
	assert.Equal(t, "écrire des factures", got)
}

func TestSEOMetadata_IsEmpty(t *testing.T) {
	assert.True(t, SEOMetadata{}.IsEmpty())
	assert.False(t, SEOMetadata{Keywords: []string{"ai"}}.IsEmpty())
	assert.False(t, SEOMetadata{OGImage: "https://img"}.IsEmpty())
}
