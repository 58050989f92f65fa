// Package blog is the content retrieval layer of the site: it turns listing
// filters into store queries, normalizes joined rows into the public content
// model, ranks related posts and keeps view counts.
package blog

import (
	"time"

	"catalytiq/database"
)

type SEOMetadata = database.SEOMetadata

type Author struct {
	ID          string    `json:"id"`
	Slug        string    `json:"slug"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Bio         *string   `json:"bio,omitempty"`
	AvatarURL   *string   `json:"avatar_url,omitempty"`
	LinkedinURL *string   `json:"linkedin_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description,omitempty"`
	Color       *string   `json:"color,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type Tag struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}

type Post struct {
	ID               string       `json:"id"`
	Title            string       `json:"title"`
	Slug             string       `json:"slug"`
	Excerpt          string       `json:"excerpt"`
	Content          string       `json:"content"`
	FeaturedImageURL *string      `json:"featured_image_url,omitempty"`
	IsFeatured       bool         `json:"is_featured"`
	IsPublished      bool         `json:"is_published"`
	PublishedAt      *time.Time   `json:"published_at,omitempty"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
	AuthorID         string       `json:"author_id"`
	ReadingTime      int          `json:"reading_time"`
	ViewCount        int64        `json:"view_count"`
	SEOMetadata      *SEOMetadata `json:"seo_metadata,omitempty"`

	Author     *Author    `json:"author,omitempty"`
	Categories []Category `json:"categories"`
	Tags       []Tag      `json:"tags"`
}

// CategorySlugs returns the slugs of the post's categories, in order.
func (p *Post) CategorySlugs() []string {
	slugs := make([]string, 0, len(p.Categories))
	for _, c := range p.Categories {
		slugs = append(slugs, c.Slug)
	}
	return slugs
}

// TagSlugs returns the slugs of the post's tags, in order.
func (p *Post) TagSlugs() []string {
	slugs := make([]string, 0, len(p.Tags))
	for _, t := range p.Tags {
		slugs = append(slugs, t.Slug)
	}
	return slugs
}

type RelatedAuthor struct {
	Name      string  `json:"name"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

type RelatedCategory struct {
	Name  string  `json:"name"`
	Slug  string  `json:"slug"`
	Color *string `json:"color,omitempty"`
}

// RelatedPost is the reduced projection shown under a post.
type RelatedPost struct {
	ID               string            `json:"id"`
	Title            string            `json:"title"`
	Slug             string            `json:"slug"`
	Excerpt          string            `json:"excerpt"`
	FeaturedImageURL *string           `json:"featured_image_url,omitempty"`
	PublishedAt      *time.Time        `json:"published_at,omitempty"`
	ReadingTime      int               `json:"reading_time"`
	Author           *RelatedAuthor    `json:"author,omitempty"`
	Categories       []RelatedCategory `json:"categories"`
}

// PostsPage is one page of a filtered listing.
type PostsPage struct {
	Posts      []Post `json:"posts"`
	Total      int64  `json:"total"`
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
	TotalPages int    `json:"total_pages"`
}
