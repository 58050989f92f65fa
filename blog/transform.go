package blog

import (
	"strings"

	"catalytiq/database"
)

// toPost maps a joined post row to the public model. Rows must carry an ID
// and a slug; join rows whose relation was not loaded are skipped.
func toPost(row database.Post) Post {
	post := Post{
		ID:               row.ID,
		Title:            row.Title,
		Slug:             row.Slug,
		Excerpt:          row.Excerpt,
		Content:          row.Content,
		FeaturedImageURL: optional(row.FeaturedImageURL),
		IsFeatured:       row.IsFeatured,
		IsPublished:      row.IsPublished,
		PublishedAt:      row.PublishedAt,
		CreatedAt:        row.CreatedAt,
		UpdatedAt:        row.UpdatedAt,
		AuthorID:         row.AuthorID,
		ReadingTime:      row.ReadingTime,
		ViewCount:        row.ViewCount,
		Categories:       make([]Category, 0, len(row.Categories)),
		Tags:             make([]Tag, 0, len(row.Tags)),
	}

	if meta := row.SEOMetadata.Data(); !meta.IsEmpty() {
		post.SEOMetadata = &meta
	}

	if row.Author.ID != "" {
		author := toAuthor(row.Author)
		post.Author = &author
	}

	for _, pc := range row.Categories {
		if pc.Category.ID == "" {
			continue
		}
		post.Categories = append(post.Categories, toCategory(pc.Category))
	}
	for _, pt := range row.Tags {
		if pt.Tag.ID == "" {
			continue
		}
		post.Tags = append(post.Tags, toTag(pt.Tag))
	}

	return post
}

func toPosts(rows []database.Post) []Post {
	posts := make([]Post, 0, len(rows))
	for _, row := range rows {
		posts = append(posts, toPost(row))
	}
	return posts
}

func toAuthor(row database.Author) Author {
	return Author{
		ID:          row.ID,
		Slug:        row.Slug,
		Name:        row.Name,
		Email:       row.Email,
		Bio:         optional(row.Bio),
		AvatarURL:   optional(row.AvatarURL),
		LinkedinURL: optional(row.LinkedinURL),
		CreatedAt:   row.CreatedAt,
	}
}

func toCategory(row database.Category) Category {
	return Category{
		ID:          row.ID,
		Name:        row.Name,
		Slug:        row.Slug,
		Description: optional(row.Description),
		Color:       optional(row.Color),
		CreatedAt:   row.CreatedAt,
	}
}

func toTag(row database.Tag) Tag {
	return Tag{
		ID:        row.ID,
		Name:      row.Name,
		Slug:      row.Slug,
		CreatedAt: row.CreatedAt,
	}
}

func toRelatedPost(row database.Post) RelatedPost {
	related := RelatedPost{
		ID:               row.ID,
		Title:            row.Title,
		Slug:             row.Slug,
		Excerpt:          row.Excerpt,
		FeaturedImageURL: optional(row.FeaturedImageURL),
		PublishedAt:      row.PublishedAt,
		ReadingTime:      row.ReadingTime,
		Categories:       make([]RelatedCategory, 0, len(row.Categories)),
	}
	if row.Author.Name != "" {
		related.Author = &RelatedAuthor{
			Name:      row.Author.Name,
			AvatarURL: optional(row.Author.AvatarURL),
		}
	}
	for _, pc := range row.Categories {
		if pc.Category.ID == "" {
			continue
		}
		related.Categories = append(related.Categories, RelatedCategory{
			Name:  pc.Category.Name,
			Slug:  pc.Category.Slug,
			Color: optional(pc.Category.Color),
		})
	}
	return related
}

// optional treats missing and blank values alike as absent.
func optional(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := *s
	return &v
}
