package site

import (
	"net/url"
	"strconv"
	"strings"
)

// ListingState is the blog listing's filter and page selection as carried in
// the query string, so every listing view has a shareable URL.
type ListingState struct {
	Page     int
	Category string
	Tag      string
	Search   string
}

// ParseListingState reads page, category, tag and search from a query.
// Invalid or missing pages become 1 and the "all" category means none.
func ParseListingState(q url.Values) ListingState {
	s := ListingState{
		Page:     parsePositiveInt(q.Get("page"), 1),
		Category: strings.TrimSpace(q.Get("category")),
		Tag:      strings.TrimSpace(q.Get("tag")),
		Search:   strings.TrimSpace(q.Get("search")),
	}
	if s.Category == "all" {
		s.Category = ""
	}
	return s
}

// Query encodes the state, leaving out page 1 and empty filters.
func (s ListingState) Query() url.Values {
	q := url.Values{}
	if s.Category != "" && s.Category != "all" {
		q.Set("category", s.Category)
	}
	if s.Tag != "" {
		q.Set("tag", s.Tag)
	}
	if s.Search != "" {
		q.Set("search", s.Search)
	}
	if s.Page > 1 {
		q.Set("page", strconv.Itoa(s.Page))
	}
	return q
}

// Href is the listing URL for the state.
func (s ListingState) Href() string {
	if q := s.Query().Encode(); q != "" {
		return "/blog?" + q
	}
	return "/blog"
}

// The filter setters return a copy on the first page; changing any filter
// resets pagination.

func (s ListingState) WithCategory(slug string) ListingState {
	s.Category = strings.TrimSpace(slug)
	if s.Category == "all" {
		s.Category = ""
	}
	s.Page = 1
	return s
}

func (s ListingState) WithTag(slug string) ListingState {
	s.Tag = strings.TrimSpace(slug)
	s.Page = 1
	return s
}

func (s ListingState) WithSearch(query string) ListingState {
	s.Search = strings.TrimSpace(query)
	s.Page = 1
	return s
}

func (s ListingState) WithPage(page int) ListingState {
	if page < 1 {
		page = 1
	}
	s.Page = page
	return s
}

func parsePositiveInt(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}
