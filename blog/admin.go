package blog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"catalytiq/constants"
	"catalytiq/database"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrSlugTaken    = errors.New("a post with the same slug already exists")
	ErrPostNotFound = errors.New("post not found")
	ErrInvalidPost  = errors.New("invalid post")
)

// ContentFormat says how authored content arrives. Stored content is always HTML.
type ContentFormat string

const (
	FormatHTML     ContentFormat = "html"
	FormatMarkdown ContentFormat = "markdown"
)

type CreatePostInput struct {
	Title            string
	Slug             string
	Excerpt          string
	Content          string
	ContentFormat    ContentFormat
	FeaturedImageURL *string
	IsFeatured       bool
	IsPublished      bool
	PublishedAt      *time.Time
	AuthorID         string
	CategoryIDs      []string
	TagIDs           []string
	SEOMetadata      *SEOMetadata
}

// UpdatePostInput changes only the fields that are set. CategoryIDs and
// TagIDs replace the post's links when non-nil.
type UpdatePostInput struct {
	ID               string
	Title            *string
	Slug             *string
	Excerpt          *string
	Content          *string
	ContentFormat    ContentFormat
	FeaturedImageURL *string
	IsFeatured       *bool
	IsPublished      *bool
	PublishedAt      *time.Time
	AuthorID         *string
	CategoryIDs      *[]string
	TagIDs           *[]string
	SEOMetadata      *SEOMetadata
}

func renderContent(content string, format ContentFormat) string {
	if format == FormatMarkdown {
		return RenderMarkdown(content)
	}
	return content
}

func now() time.Time {
	return time.Now().UTC()
}

// CreatePost writes a new post and then its category and tag links, in one
// store transaction. A missing slug is derived from the title, a missing
// excerpt from the content, and publishing without a date stamps it now.
func (s *Service) CreatePost(ctx context.Context, in CreatePostInput) (*Post, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidPost)
	}
	if strings.TrimSpace(in.AuthorID) == "" {
		return nil, fmt.Errorf("%w: author is required", ErrInvalidPost)
	}

	content := renderContent(in.Content, in.ContentFormat)

	row := database.Post{
		Title:            in.Title,
		Slug:             strings.TrimSpace(in.Slug),
		Excerpt:          strings.TrimSpace(in.Excerpt),
		Content:          content,
		FeaturedImageURL: optional(in.FeaturedImageURL),
		IsFeatured:       in.IsFeatured,
		IsPublished:      in.IsPublished,
		PublishedAt:      in.PublishedAt,
		AuthorID:         in.AuthorID,
		ReadingTime:      ReadingTime(content),
		ViewCount:        0,
	}
	if row.Slug == "" {
		row.Slug = GenerateSlug(in.Title)
	}
	if row.Excerpt == "" {
		row.Excerpt = ExtractExcerpt(content, constants.EXCERPT_LENGTH)
	}
	if row.IsPublished && row.PublishedAt == nil {
		t := now()
		row.PublishedAt = &t
	}
	if in.SEOMetadata != nil {
		row.SEOMetadata = datatypes.NewJSONType(*in.SEOMetadata)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var created database.Post
	err := s.store.Transaction(ctx, func(tx *gorm.DB) error {
		if err := ensureSlugFree(tx, row.Slug, ""); err != nil {
			return err
		}

		if err := tx.Omit(clause.Associations).Create(&row).Error; err != nil {
			if database.IsUniqueViolation(err) {
				return ErrSlugTaken
			}
			return database.Normalize("create post", err)
		}

		if err := linkTaxonomy(tx, row.ID, in.CategoryIDs, in.TagIDs); err != nil {
			return err
		}

		return reload(tx, row.ID, &created)
	})
	if err != nil {
		return nil, err
	}

	post := toPost(created)
	return &post, nil
}

// UpdatePost applies the set fields of in to an existing post (published or
// not), recomputing reading time when content changes, and replaces its
// category/tag links when new id sets are given.
func (s *Service) UpdatePost(ctx context.Context, in UpdatePostInput) (*Post, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var updated database.Post
	err := s.store.Transaction(ctx, func(tx *gorm.DB) error {
		var existing database.Post
		if err := tx.Where("id = ?", in.ID).Take(&existing).Error; err != nil {
			if database.IsNotFound(err) {
				return ErrPostNotFound
			}
			return database.Normalize("get post", err)
		}

		changes := map[string]any{}

		title := existing.Title
		if in.Title != nil {
			if strings.TrimSpace(*in.Title) == "" {
				return fmt.Errorf("%w: title cannot be empty", ErrInvalidPost)
			}
			title = *in.Title
			changes["title"] = title
		}
		if in.Slug != nil {
			slug := strings.TrimSpace(*in.Slug)
			if slug == "" {
				slug = GenerateSlug(title)
			}
			if slug != existing.Slug {
				if err := ensureSlugFree(tx, slug, existing.ID); err != nil {
					return err
				}
				changes["slug"] = slug
			}
		}
		content := existing.Content
		if in.Content != nil {
			content = renderContent(*in.Content, in.ContentFormat)
			changes["content"] = content
			changes["reading_time"] = ReadingTime(content)
		}
		if in.Excerpt != nil {
			excerpt := strings.TrimSpace(*in.Excerpt)
			if excerpt == "" {
				excerpt = ExtractExcerpt(content, constants.EXCERPT_LENGTH)
			}
			changes["excerpt"] = excerpt
		}
		if in.FeaturedImageURL != nil {
			changes["featured_image_url"] = optional(in.FeaturedImageURL)
		}
		if in.IsFeatured != nil {
			changes["is_featured"] = *in.IsFeatured
		}
		if in.PublishedAt != nil {
			changes["published_at"] = *in.PublishedAt
		}
		if in.IsPublished != nil {
			changes["is_published"] = *in.IsPublished
			if *in.IsPublished && existing.PublishedAt == nil && in.PublishedAt == nil {
				changes["published_at"] = now()
			}
		}
		if in.AuthorID != nil {
			changes["author_id"] = *in.AuthorID
		}
		if in.SEOMetadata != nil {
			changes["seo_metadata"] = datatypes.NewJSONType(*in.SEOMetadata)
		}

		if len(changes) > 0 {
			err := tx.Model(&database.Post{}).Where("id = ?", existing.ID).Updates(changes).Error
			if err != nil {
				if database.IsUniqueViolation(err) {
					return ErrSlugTaken
				}
				return database.Normalize("update post", err)
			}
		}

		if in.CategoryIDs != nil {
			if err := tx.Where("post_id = ?", existing.ID).Delete(&database.PostCategory{}).Error; err != nil {
				return database.Normalize("unlink categories", err)
			}
			if err := linkTaxonomy(tx, existing.ID, *in.CategoryIDs, nil); err != nil {
				return err
			}
		}
		if in.TagIDs != nil {
			if err := tx.Where("post_id = ?", existing.ID).Delete(&database.PostTag{}).Error; err != nil {
				return database.Normalize("unlink tags", err)
			}
			if err := linkTaxonomy(tx, existing.ID, nil, *in.TagIDs); err != nil {
				return err
			}
		}

		return reload(tx, existing.ID, &updated)
	})
	if err != nil {
		return nil, err
	}

	post := toPost(updated)
	return &post, nil
}

// ListPostsAdmin is ListPosts for administrative use: filters.Published is
// honoured, so drafts can be listed.
func (s *Service) ListPostsAdmin(ctx context.Context, filters PostFilters, page, pageSize int) (PostsPage, error) {
	return s.listPosts(ctx, filters, page, pageSize)
}

func ensureSlugFree(tx *gorm.DB, slug, ownID string) error {
	var count int64
	q := tx.Model(&database.Post{}).Where("slug = ?", slug)
	if ownID != "" {
		q = q.Where("id <> ?", ownID)
	}
	if err := q.Count(&count).Error; err != nil {
		return database.Normalize("check slug", err)
	}
	if count > 0 {
		return ErrSlugTaken
	}
	return nil
}

func linkTaxonomy(tx *gorm.DB, postID string, categoryIDs, tagIDs []string) error {
	if ids := dedupe(categoryIDs); len(ids) > 0 {
		links := make([]database.PostCategory, 0, len(ids))
		for _, id := range ids {
			links = append(links, database.PostCategory{PostID: postID, CategoryID: id})
		}
		if err := tx.Omit(clause.Associations).Create(&links).Error; err != nil {
			return database.Normalize("link categories", err)
		}
	}
	if ids := dedupe(tagIDs); len(ids) > 0 {
		links := make([]database.PostTag, 0, len(ids))
		for _, id := range ids {
			links = append(links, database.PostTag{PostID: postID, TagID: id})
		}
		if err := tx.Omit(clause.Associations).Create(&links).Error; err != nil {
			return database.Normalize("link tags", err)
		}
	}
	return nil
}

func reload(tx *gorm.DB, postID string, dst *database.Post) error {
	err := withRelations(tx.Model(&database.Post{})).Where("id = ?", postID).Take(dst).Error
	return database.Normalize("reload post", err)
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
