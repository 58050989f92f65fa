package blog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"catalytiq/database"
	"catalytiq/logging"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

// ContentFile is the YAML seed format accepted by ImportContent. Posts refer
// to their author, categories and tags by slug.
type ContentFile struct {
	Authors    []AuthorEntry   `yaml:"authors"`
	Categories []CategoryEntry `yaml:"categories"`
	Tags       []TagEntry      `yaml:"tags"`
	Posts      []PostEntry     `yaml:"posts"`
}

type AuthorEntry struct {
	Slug        string `yaml:"slug"`
	Name        string `yaml:"name"`
	Email       string `yaml:"email"`
	Bio         string `yaml:"bio"`
	AvatarURL   string `yaml:"avatar_url"`
	LinkedinURL string `yaml:"linkedin_url"`
}

type CategoryEntry struct {
	Slug        string `yaml:"slug"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Color       string `yaml:"color"`
}

type TagEntry struct {
	Slug string `yaml:"slug"`
	Name string `yaml:"name"`
}

type PostEntry struct {
	Title            string       `yaml:"title"`
	Slug             string       `yaml:"slug"`
	Excerpt          string       `yaml:"excerpt"`
	Content          string       `yaml:"content"`
	Format           string       `yaml:"format"`
	FeaturedImageURL string       `yaml:"featured_image_url"`
	Featured         bool         `yaml:"featured"`
	Published        bool         `yaml:"published"`
	PublishedAt      *time.Time   `yaml:"published_at"`
	Author           string       `yaml:"author"`
	Categories       []string     `yaml:"categories"`
	Tags             []string     `yaml:"tags"`
	SEO              *SEOMetadata `yaml:"seo"`
}

type ImportResult struct {
	Authors    int
	Categories int
	Tags       int
	Created    int
	Updated    int
	Skipped    int
}

// ParseContentFile decodes a YAML seed document.
func ParseContentFile(r io.Reader) (ContentFile, error) {
	var file ContentFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return file, nil
		}
		return ContentFile{}, fmt.Errorf("failed to parse content file: %w", err)
	}
	return file, nil
}

// ParsePostEntry decodes a single post document, as used by create-post.
func ParsePostEntry(r io.Reader) (PostEntry, error) {
	var entry PostEntry
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&entry); err != nil {
		return PostEntry{}, fmt.Errorf("failed to parse post: %w", err)
	}
	return entry, nil
}

// ImportContent loads a YAML seed into the store. Authors, categories and
// tags are matched by slug and created when missing (refreshed when
// overwrite is set). Posts that already exist are skipped unless overwrite.
func (s *Service) ImportContent(ctx context.Context, r io.Reader, overwrite bool) (ImportResult, error) {
	file, err := ParseContentFile(r)
	if err != nil {
		return ImportResult{}, err
	}

	var result ImportResult

	for _, a := range file.Authors {
		if err := s.upsertAuthor(ctx, a, overwrite); err != nil {
			return result, err
		}
		result.Authors++
	}
	for _, c := range file.Categories {
		if err := s.upsertCategory(ctx, c, overwrite); err != nil {
			return result, err
		}
		result.Categories++
	}
	for _, t := range file.Tags {
		if err := s.upsertTag(ctx, t, overwrite); err != nil {
			return result, err
		}
		result.Tags++
	}

	for _, entry := range file.Posts {
		_, created, err := s.SavePostEntry(ctx, entry, overwrite)
		switch {
		case errors.Is(err, ErrSlugTaken):
			logging.Info("skipping existing post", "title", entry.Title)
			result.Skipped++
		case err != nil:
			return result, fmt.Errorf("post %q: %w", entry.Title, err)
		case created:
			result.Created++
		default:
			result.Updated++
		}
	}

	return result, nil
}

// SavePostEntry creates the post described by entry, or updates the existing
// post with the same slug when overwrite is set. It reports whether a new
// post was created. An existing post without overwrite yields ErrSlugTaken.
func (s *Service) SavePostEntry(ctx context.Context, entry PostEntry, overwrite bool) (*Post, bool, error) {
	authorID, err := s.lookupID(ctx, s.store.Authors(ctx), entry.Author)
	if err != nil {
		return nil, false, fmt.Errorf("author %q: %w", entry.Author, err)
	}
	categoryIDs, err := s.lookupIDs(ctx, s.store.Categories, entry.Categories)
	if err != nil {
		return nil, false, err
	}
	tagIDs, err := s.lookupIDs(ctx, s.store.Tags, entry.Tags)
	if err != nil {
		return nil, false, err
	}

	slug := strings.TrimSpace(entry.Slug)
	if slug == "" {
		slug = GenerateSlug(entry.Title)
	}
	format := ContentFormat(strings.ToLower(entry.Format))
	image := optional(&entry.FeaturedImageURL)

	existingID, err := s.lookupID(ctx, s.store.Posts(ctx), slug)
	switch {
	case err == nil && !overwrite:
		return nil, false, ErrSlugTaken
	case err == nil:
		post, err := s.UpdatePost(ctx, UpdatePostInput{
			ID:               existingID,
			Title:            &entry.Title,
			Excerpt:          &entry.Excerpt,
			Content:          &entry.Content,
			ContentFormat:    format,
			FeaturedImageURL: image,
			IsFeatured:       &entry.Featured,
			IsPublished:      &entry.Published,
			PublishedAt:      entry.PublishedAt,
			AuthorID:         &authorID,
			CategoryIDs:      &categoryIDs,
			TagIDs:           &tagIDs,
			SEOMetadata:      entry.SEO,
		})
		return post, false, err
	case !database.IsNotFound(err):
		return nil, false, err
	}

	post, err := s.CreatePost(ctx, CreatePostInput{
		Title:            entry.Title,
		Slug:             slug,
		Excerpt:          entry.Excerpt,
		Content:          entry.Content,
		ContentFormat:    format,
		FeaturedImageURL: image,
		IsFeatured:       entry.Featured,
		IsPublished:      entry.Published,
		PublishedAt:      entry.PublishedAt,
		AuthorID:         authorID,
		CategoryIDs:      categoryIDs,
		TagIDs:           tagIDs,
		SEOMetadata:      entry.SEO,
	})
	if err != nil {
		return nil, false, err
	}
	return post, true, nil
}

func (s *Service) lookupID(ctx context.Context, db *gorm.DB, slug string) (string, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var row struct{ ID string }
	err := db.WithContext(ctx).Select("id").Where("slug = ?", slug).Take(&row).Error
	if err != nil {
		return "", database.Normalize("lookup "+slug, err)
	}
	return row.ID, nil
}

func (s *Service) lookupIDs(ctx context.Context, table func(context.Context) *gorm.DB, slugs []string) ([]string, error) {
	ids := make([]string, 0, len(slugs))
	for _, slug := range slugs {
		id, err := s.lookupID(ctx, table(ctx), slug)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", slug, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *Service) upsertAuthor(ctx context.Context, a AuthorEntry, overwrite bool) error {
	if a.Slug == "" {
		a.Slug = GenerateSlug(a.Name)
	}
	row := database.Author{
		Slug:        a.Slug,
		Name:        a.Name,
		Email:       a.Email,
		Bio:         optional(&a.Bio),
		AvatarURL:   optional(&a.AvatarURL),
		LinkedinURL: optional(&a.LinkedinURL),
	}
	return s.upsert(ctx, s.store.Authors, a.Slug, &row, overwrite, map[string]any{
		"name":         row.Name,
		"email":        row.Email,
		"bio":          row.Bio,
		"avatar_url":   row.AvatarURL,
		"linkedin_url": row.LinkedinURL,
	})
}

func (s *Service) upsertCategory(ctx context.Context, c CategoryEntry, overwrite bool) error {
	if c.Slug == "" {
		c.Slug = GenerateSlug(c.Name)
	}
	row := database.Category{
		Slug:        c.Slug,
		Name:        c.Name,
		Description: optional(&c.Description),
		Color:       optional(&c.Color),
	}
	return s.upsert(ctx, s.store.Categories, c.Slug, &row, overwrite, map[string]any{
		"name":        row.Name,
		"description": row.Description,
		"color":       row.Color,
	})
}

func (s *Service) upsertTag(ctx context.Context, t TagEntry, overwrite bool) error {
	if t.Slug == "" {
		t.Slug = GenerateSlug(t.Name)
	}
	row := database.Tag{Slug: t.Slug, Name: t.Name}
	return s.upsert(ctx, s.store.Tags, t.Slug, &row, overwrite, map[string]any{
		"name": row.Name,
	})
}

func (s *Service) upsert(ctx context.Context, table func(context.Context) *gorm.DB, slug string, row any, overwrite bool, changes map[string]any) error {
	_, err := s.lookupID(ctx, table(ctx), slug)
	if err != nil && !database.IsNotFound(err) {
		return err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err == nil {
		if !overwrite {
			return nil
		}
		err = table(ctx).Where("slug = ?", slug).Updates(changes).Error
		return database.Normalize("update "+slug, err)
	}

	err = table(ctx).Create(row).Error
	return database.Normalize("create "+slug, err)
}
