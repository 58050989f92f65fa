package site

import (
	"encoding/json"
	"net/http"
	"strings"

	"catalytiq/blog"
	"catalytiq/constants"
	"catalytiq/logging"

	"github.com/go-chi/chi/v5"
)

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func parseBool(value string) *bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1", "yes":
		b := true
		return &b
	case "false", "0", "no":
		b := false
		return &b
	}
	return nil
}

func (s *Site) APIListPosts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	state := ParseListingState(q)
	limit := parsePositiveInt(q.Get("limit"), constants.POSTS_PER_PAGE)

	page, err := s.blog.ListPosts(r.Context(), blog.PostFilters{
		Category: state.Category,
		Tag:      state.Tag,
		Author:   strings.TrimSpace(q.Get("author")),
		Search:   state.Search,
		Featured: parseBool(q.Get("featured")),
	}, state.Page, limit)
	if err != nil {
		logging.Error("api: failed to list posts", "err", err)
		respondError(w, http.StatusInternalServerError, "failed to load posts")
		return
	}
	respondJSON(w, http.StatusOK, page)
}

func (s *Site) APIFeaturedPosts(w http.ResponseWriter, r *http.Request) {
	limit := parsePositiveInt(r.URL.Query().Get("limit"), constants.FEATURED_POSTS_COUNT)
	posts, err := s.blog.GetFeaturedPosts(r.Context(), limit)
	if err != nil {
		logging.Error("api: failed to load featured posts", "err", err)
		respondError(w, http.StatusInternalServerError, "failed to load featured posts")
		return
	}
	respondJSON(w, http.StatusOK, posts)
}

func (s *Site) APIPopularPosts(w http.ResponseWriter, r *http.Request) {
	limit := parsePositiveInt(r.URL.Query().Get("limit"), constants.SIDEBAR_POPULAR_COUNT)
	posts, err := s.blog.GetPopularPosts(r.Context(), limit)
	if err != nil {
		logging.Error("api: failed to load popular posts", "err", err)
		respondError(w, http.StatusInternalServerError, "failed to load popular posts")
		return
	}
	respondJSON(w, http.StatusOK, posts)
}

func (s *Site) APISearchPosts(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		respondError(w, http.StatusBadRequest, "missing search query")
		return
	}
	limit := parsePositiveInt(r.URL.Query().Get("limit"), constants.SEARCH_RESULTS_LIMIT)

	posts, err := s.blog.SearchPosts(r.Context(), query, limit)
	if err != nil {
		logging.Error("api: failed to search posts", "err", err)
		respondError(w, http.StatusInternalServerError, "failed to search posts")
		return
	}
	respondJSON(w, http.StatusOK, posts)
}

func (s *Site) APIGetPost(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	post, err := s.blog.GetPostBySlug(r.Context(), slug)
	if err != nil {
		logging.Error("api: failed to load post", "slug", slug, "err", err)
		respondError(w, http.StatusInternalServerError, "failed to load post")
		return
	}
	if post == nil {
		respondError(w, http.StatusNotFound, "not found")
		return
	}
	respondJSON(w, http.StatusOK, post)
}

func splitSlugs(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	var slugs []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			slugs = append(slugs, part)
		}
	}
	return slugs
}

// APIRelatedPosts ranks posts related to {id}. The source taxonomy comes from
// the categories and tags query parameters (comma separated slugs).
func (s *Site) APIRelatedPosts(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	q := r.URL.Query()
	limit := parsePositiveInt(q.Get("limit"), constants.RELATED_POSTS_COUNT)

	related, err := s.blog.GetRelatedPosts(r.Context(), id, splitSlugs(q.Get("categories")), splitSlugs(q.Get("tags")), limit)
	if err != nil {
		logging.Error("api: failed to load related posts", "post_id", id, "err", err)
		respondError(w, http.StatusInternalServerError, "failed to load related posts")
		return
	}
	respondJSON(w, http.StatusOK, related)
}

func (s *Site) APICategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.blog.ListCategories(r.Context())
	if err != nil {
		logging.Error("api: failed to list categories", "err", err)
		respondError(w, http.StatusInternalServerError, "failed to load categories")
		return
	}
	respondJSON(w, http.StatusOK, categories)
}

func (s *Site) APITags(w http.ResponseWriter, r *http.Request) {
	tags, err := s.blog.ListTags(r.Context())
	if err != nil {
		logging.Error("api: failed to list tags", "err", err)
		respondError(w, http.StatusInternalServerError, "failed to load tags")
		return
	}
	respondJSON(w, http.StatusOK, tags)
}

func (s *Site) APIAuthors(w http.ResponseWriter, r *http.Request) {
	authors, err := s.blog.ListAuthors(r.Context())
	if err != nil {
		logging.Error("api: failed to list authors", "err", err)
		respondError(w, http.StatusInternalServerError, "failed to load authors")
		return
	}
	respondJSON(w, http.StatusOK, authors)
}

// APIRecordView schedules a view count increment and answers at once.
func (s *Site) APIRecordView(w http.ResponseWriter, r *http.Request) {
	s.blog.Views().Track(chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusAccepted)
}

func Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
