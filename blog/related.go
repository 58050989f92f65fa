package blog

import (
	"context"
	"sort"

	"catalytiq/constants"
	"catalytiq/database"

	"gorm.io/gorm"
)

// RelevanceScorer ranks related-post candidates by shared taxonomy.
//
// TagWeight defaults to 0: tag overlap is part of the intended scoring but
// has not been signed off, so only categories count until it is set.
type RelevanceScorer struct {
	CategoryWeight int
	TagWeight      int
}

func DefaultScorer() RelevanceScorer {
	return RelevanceScorer{CategoryWeight: 2}
}

// Score is CategoryWeight per shared category slug plus TagWeight per shared tag slug.
func (r RelevanceScorer) Score(sourceCategories, sourceTags, categories, tags []string) int {
	return r.CategoryWeight*countShared(sourceCategories, categories) +
		r.TagWeight*countShared(sourceTags, tags)
}

// Rank orders candidates by descending score, keeping the incoming order for
// equal scores, and keeps at most limit of them.
func (r RelevanceScorer) Rank(candidates []database.Post, sourceCategories, sourceTags []string, limit int) []database.Post {
	type scored struct {
		row   database.Post
		score int
	}

	ranked := make([]scored, 0, len(candidates))
	for _, c := range candidates {
		ranked = append(ranked, scored{
			row:   c,
			score: r.Score(sourceCategories, sourceTags, rowCategorySlugs(c), rowTagSlugs(c)),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	if limit >= 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	out := make([]database.Post, 0, len(ranked))
	for _, s := range ranked {
		out = append(out, s.row)
	}
	return out
}

// GetRelatedPosts returns up to limit published posts other than postID,
// ranked by shared taxonomy. The candidate pool is the 2*limit most recent
// posts, not the whole archive.
func (s *Service) GetRelatedPosts(ctx context.Context, postID string, categorySlugs, tagSlugs []string, limit int) ([]RelatedPost, error) {
	if limit < 1 {
		limit = constants.RELATED_POSTS_COUNT
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	query := s.store.Posts(ctx).
		Select("id", "title", "slug", "excerpt", "featured_image_url", "published_at", "created_at", "reading_time", "author_id").
		Preload("Author", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name", "avatar_url")
		}).
		Preload("Categories.Category")
	if s.scorer.TagWeight != 0 {
		query = query.Preload("Tags.Tag")
	}

	var candidates []database.Post
	err := byPublishDate(query).
		Where("is_published = ? AND id <> ?", true, postID).
		Limit(limit * 2).
		Find(&candidates).Error
	if err != nil {
		return nil, database.Normalize("list related posts", err)
	}

	ranked := s.scorer.Rank(candidates, categorySlugs, tagSlugs, limit)

	related := make([]RelatedPost, 0, len(ranked))
	for _, row := range ranked {
		related = append(related, toRelatedPost(row))
	}
	return related, nil
}

func countShared(source, other []string) int {
	if len(source) == 0 || len(other) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(other))
	for _, s := range other {
		set[s] = struct{}{}
	}
	shared := 0
	seen := make(map[string]struct{}, len(source))
	for _, s := range source {
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		if _, ok := set[s]; ok {
			shared++
		}
	}
	return shared
}

func rowCategorySlugs(row database.Post) []string {
	slugs := make([]string, 0, len(row.Categories))
	for _, pc := range row.Categories {
		slugs = append(slugs, pc.Category.Slug)
	}
	return slugs
}

func rowTagSlugs(row database.Post) []string {
	slugs := make([]string, 0, len(row.Tags))
	for _, pt := range row.Tags {
		slugs = append(slugs, pt.Tag.Slug)
	}
	return slugs
}
