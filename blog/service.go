package blog

import (
	"context"
	"strings"
	"time"

	"catalytiq/constants"
	"catalytiq/database"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const defaultStoreTimeout = 10 * time.Second

// Service exposes the blog read paths and administrative writes over one
// content store client.
type Service struct {
	store   *database.Client
	timeout time.Duration
	scorer  RelevanceScorer
	views   *ViewCounter
}

type Option func(*Service)

// WithTimeout bounds every store round trip made by the service.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithScorer replaces the default related-post scorer.
func WithScorer(scorer RelevanceScorer) Option {
	return func(s *Service) {
		s.scorer = scorer
	}
}

func NewService(store *database.Client, opts ...Option) *Service {
	s := &Service{
		store:   store,
		timeout: defaultStoreTimeout,
		scorer:  DefaultScorer(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.views = newViewCounter(s)
	return s
}

// Views returns the detached view counter bound to this service.
func (s *Service) Views() *ViewCounter {
	return s.views
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

func withRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("Author").Preload("Categories.Category").Preload("Tags.Tag")
}

// ListPosts returns one page of published posts matching every supplied
// filter, newest first. The count and the page are fetched concurrently and
// a fault in either fails the whole call. The returned Page and Limit are
// the effective values after clamping, and TotalPages is computed from that
// Limit rather than the requested page size.
func (s *Service) ListPosts(ctx context.Context, filters PostFilters, page, pageSize int) (PostsPage, error) {
	filters.Published = nil
	return s.listPosts(ctx, filters, page, pageSize)
}

func (s *Service) listPosts(ctx context.Context, filters PostFilters, page, pageSize int) (PostsPage, error) {
	q := BuildPostQuery(filters, page, pageSize)

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var (
		total int64
		rows  []database.Post
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := q.Filter(s.store.Posts(gctx)).Count(&total).Error
		return database.Normalize("count posts", err)
	})
	g.Go(func() error {
		err := withRelations(q.Paginate(s.store.Posts(gctx))).Find(&rows).Error
		return database.Normalize("list posts", err)
	})
	if err := g.Wait(); err != nil {
		return PostsPage{}, err
	}

	return PostsPage{
		Posts:      toPosts(rows),
		Total:      total,
		Page:       q.Page,
		Limit:      q.Limit,
		TotalPages: q.TotalPages(total),
	}, nil
}

// GetPostBySlug returns the published post with the given slug, or nil when
// there is none. Unpublished posts are reported as absent.
func (s *Service) GetPostBySlug(ctx context.Context, slug string) (*Post, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var row database.Post
	err := withRelations(s.store.Posts(ctx)).
		Where("slug = ? AND is_published = ?", slug, true).
		First(&row).Error
	if err != nil {
		err = database.Normalize("get post by slug", err)
		if database.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	post := toPost(row)
	return &post, nil
}

// GetFeaturedPosts returns up to limit published featured posts, newest first.
func (s *Service) GetFeaturedPosts(ctx context.Context, limit int) ([]Post, error) {
	if limit < 1 {
		limit = constants.FEATURED_POSTS_COUNT
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var rows []database.Post
	err := withRelations(byPublishDate(s.store.Posts(ctx))).
		Where("is_published = ? AND is_featured = ?", true, true).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, database.Normalize("list featured posts", err)
	}
	return toPosts(rows), nil
}

// GetPopularPosts returns up to limit published posts with the most views.
func (s *Service) GetPopularPosts(ctx context.Context, limit int) ([]Post, error) {
	if limit < 1 {
		limit = constants.SIDEBAR_POPULAR_COUNT
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var rows []database.Post
	err := withRelations(byPublishDate(s.store.Posts(ctx).Order("view_count DESC"))).
		Where("is_published = ?", true).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, database.Normalize("list popular posts", err)
	}
	return toPosts(rows), nil
}

// SearchPosts returns up to limit published posts whose title, excerpt or
// content contains query, ignoring case. A blank query matches nothing.
func (s *Service) SearchPosts(ctx context.Context, query string, limit int) ([]Post, error) {
	if strings.TrimSpace(query) == "" {
		return []Post{}, nil
	}
	if limit < 1 {
		limit = constants.SEARCH_RESULTS_LIMIT
	}

	q := BuildPostQuery(PostFilters{Search: query}, 1, limit)

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var rows []database.Post
	if err := withRelations(q.Paginate(s.store.Posts(ctx))).Find(&rows).Error; err != nil {
		return nil, database.Normalize("search posts", err)
	}
	return toPosts(rows), nil
}

func (s *Service) ListCategories(ctx context.Context) ([]Category, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var rows []database.Category
	if err := s.store.Categories(ctx).Order("name").Find(&rows).Error; err != nil {
		return nil, database.Normalize("list categories", err)
	}

	categories := make([]Category, 0, len(rows))
	for _, row := range rows {
		categories = append(categories, toCategory(row))
	}
	return categories, nil
}

func (s *Service) ListTags(ctx context.Context) ([]Tag, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var rows []database.Tag
	if err := s.store.Tags(ctx).Order("name").Find(&rows).Error; err != nil {
		return nil, database.Normalize("list tags", err)
	}

	tags := make([]Tag, 0, len(rows))
	for _, row := range rows {
		tags = append(tags, toTag(row))
	}
	return tags, nil
}

func (s *Service) ListAuthors(ctx context.Context) ([]Author, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var rows []database.Author
	if err := s.store.Authors(ctx).Order("name").Find(&rows).Error; err != nil {
		return nil, database.Normalize("list authors", err)
	}

	authors := make([]Author, 0, len(rows))
	for _, row := range rows {
		authors = append(authors, toAuthor(row))
	}
	return authors, nil
}
