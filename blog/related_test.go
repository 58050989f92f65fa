package blog

import (
	"testing"

	"catalytiq/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelevanceScorer_Score(t *testing.T) {
	tests := []struct {
		name       string
		scorer     RelevanceScorer
		categories []string
		tags       []string
		want       int
	}{
		{"no overlap", DefaultScorer(), []string{"ops"}, []string{"ai"}, 0},
		{"one shared category", DefaultScorer(), []string{"finance", "ops"}, nil, 2},
		{"two shared categories", DefaultScorer(), []string{"finance", "hr"}, nil, 4},
		{"tags ignored by default", DefaultScorer(), nil, []string{"ai", "ml"}, 0},
		{"tags weighted when set", RelevanceScorer{CategoryWeight: 2, TagWeight: 1}, []string{"finance"}, []string{"ai", "ml"}, 4},
	}

	source := []string{"finance", "hr"}
	sourceTags := []string{"ai", "ml"}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.scorer.Score(source, sourceTags, tt.categories, tt.tags))
		})
	}
}

func TestRelevanceScorer_RankIsStable(t *testing.T) {
	withCategory := func(id, slug string) database.Post {
		p := database.Post{ID: id}
		if slug != "" {
			p.Categories = []database.PostCategory{{Category: database.Category{ID: slug, Slug: slug}}}
		}
		return p
	}
	candidates := []database.Post{
		withCategory("a", ""),
		withCategory("b", "finance"),
		withCategory("c", ""),
		withCategory("d", "finance"),
	}

	ranked := DefaultScorer().Rank(candidates, []string{"finance"}, nil, 3)
	ids := make([]string, 0, len(ranked))
	for _, r := range ranked {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"b", "d", "a"}, ids)
}

func TestGetRelatedPosts(t *testing.T) {
	f := newFixture(t)
	finance := f.newCategory("finance")
	ops := f.newCategory("operations")

	source := f.newPost(postOpts{title: "Source", categories: []database.Category{finance}})
	f.newPost(postOpts{title: "Old finance", categories: []database.Category{finance}})
	f.newPost(postOpts{title: "Ops one", categories: []database.Category{ops}})
	f.newPost(postOpts{title: "Finance draft", categories: []database.Category{finance}, draft: true})
	f.newPost(postOpts{title: "New finance", categories: []database.Category{finance}})
	f.newPost(postOpts{title: "Ops two", categories: []database.Category{ops}})

	related, err := f.svc.GetRelatedPosts(f.ctx, source.ID, []string{"finance"}, nil, 3)
	require.NoError(t, err)

	got := make([]string, 0, len(related))
	for _, r := range related {
		assert.NotEqual(t, source.ID, r.ID)
		got = append(got, r.Title)
	}
	// pool is the 6 newest others; finance matches first, then recency
	assert.Equal(t, []string{"New finance", "Old finance", "Ops two"}, got)

	first := related[0]
	require.NotNil(t, first.Author)
	assert.Equal(t, "Jane Doe", first.Author.Name)
	require.Len(t, first.Categories, 1)
	assert.Equal(t, "finance", first.Categories[0].Slug)
	require.NotNil(t, first.Categories[0].Color)
}

func TestGetRelatedPosts_PoolIsRecentPostsOnly(t *testing.T) {
	f := newFixture(t)
	finance := f.newCategory("finance")

	source := f.newPost(postOpts{title: "Source"})
	f.newPost(postOpts{title: "Ancient finance", categories: []database.Category{finance}})
	f.newPost(postOpts{title: "Recent 1"})
	f.newPost(postOpts{title: "Recent 2"})

	related, err := f.svc.GetRelatedPosts(f.ctx, source.ID, []string{"finance"}, nil, 1)
	require.NoError(t, err)
	require.Len(t, related, 1)
	assert.Equal(t, "Recent 2", related[0].Title, "a match outside the 2*limit pool is not considered")
}

func TestGetRelatedPosts_NoCandidates(t *testing.T) {
	f := newFixture(t)
	source := f.newPost(postOpts{title: "Lonely"})

	related, err := f.svc.GetRelatedPosts(f.ctx, source.ID, nil, nil, 3)
	require.NoError(t, err)
	assert.NotNil(t, related)
	assert.Empty(t, related)
}

func TestGetRelatedPosts_TagWeight(t *testing.T) {
	f := newFixture(t, WithScorer(RelevanceScorer{CategoryWeight: 2, TagWeight: 1}))
	ai := f.newTag("ai")

	source := f.newPost(postOpts{title: "Source", tags: []database.Tag{ai}})
	f.newPost(postOpts{title: "Tagged", tags: []database.Tag{ai}})
	f.newPost(postOpts{title: "Plain"})

	related, err := f.svc.GetRelatedPosts(f.ctx, source.ID, nil, []string{"ai"}, 1)
	require.NoError(t, err)
	require.Len(t, related, 1)
	assert.Equal(t, "Tagged", related[0].Title)
}
