package blog

import (
	"math"
	"strings"

	"catalytiq/constants"
	"catalytiq/database"

	"gorm.io/gorm"
)

// PostFilters are the user-facing listing filters. Empty strings and nil
// flags mean "not filtered"; all supplied filters must match.
type PostFilters struct {
	Category string
	Tag      string
	Author   string
	Search   string
	Featured *bool
	// Published is only honoured by administrative listings; nil means published only.
	Published *bool
}

// Condition is one SQL predicate with its placeholder arguments.
type Condition struct {
	SQL  string
	Args []any
}

// PostQuery is the store-independent translation of a filtered, paginated listing.
type PostQuery struct {
	Conditions []Condition
	Page       int
	Limit      int
	Offset     int
}

const (
	categorySubquery = `id IN (SELECT pc.post_id FROM post_categories pc JOIN categories c ON c.id = pc.category_id WHERE c.slug = ?)`
	tagSubquery      = `id IN (SELECT pt.post_id FROM post_tags pt JOIN tags t ON t.id = pt.tag_id WHERE t.slug = ?)`
	authorSubquery   = `author_id IN (SELECT a.id FROM authors a WHERE a.slug = ?)`
	searchPredicate  = `(` + database.LowerFunc + `(title) LIKE ? ESCAPE '\' OR ` +
		database.LowerFunc + `(excerpt) LIKE ? ESCAPE '\' OR ` +
		database.LowerFunc + `(content) LIKE ? ESCAPE '\')`
)

// BuildPostQuery translates filters and 1-based pagination into a PostQuery.
// Pages below 1 become 1; page sizes below 1 fall back to the default and
// sizes above MAX_PAGE_SIZE are clamped. Pages whose offset would overflow
// are capped so the offset stays positive and past any real row.
func BuildPostQuery(f PostFilters, page, pageSize int) PostQuery {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = constants.POSTS_PER_PAGE
	}
	if pageSize > constants.MAX_PAGE_SIZE {
		pageSize = constants.MAX_PAGE_SIZE
	}
	if maxPage := math.MaxInt / pageSize; page > maxPage {
		page = maxPage
	}

	published := true
	if f.Published != nil {
		published = *f.Published
	}

	conds := []Condition{{SQL: "is_published = ?", Args: []any{published}}}

	if slug := strings.TrimSpace(f.Category); slug != "" {
		conds = append(conds, Condition{SQL: categorySubquery, Args: []any{slug}})
	}
	if slug := strings.TrimSpace(f.Tag); slug != "" {
		conds = append(conds, Condition{SQL: tagSubquery, Args: []any{slug}})
	}
	if slug := strings.TrimSpace(f.Author); slug != "" {
		conds = append(conds, Condition{SQL: authorSubquery, Args: []any{slug}})
	}
	if search := strings.TrimSpace(f.Search); search != "" {
		pattern := "%" + escapeLike(strings.ToLower(search)) + "%"
		conds = append(conds, Condition{SQL: searchPredicate, Args: []any{pattern, pattern, pattern}})
	}
	if f.Featured != nil {
		conds = append(conds, Condition{SQL: "is_featured = ?", Args: []any{*f.Featured}})
	}

	return PostQuery{
		Conditions: conds,
		Page:       page,
		Limit:      pageSize,
		Offset:     (page - 1) * pageSize,
	}
}

// Filter applies the predicate set only; it is shared by the count and the page query.
func (q PostQuery) Filter(db *gorm.DB) *gorm.DB {
	for _, c := range q.Conditions {
		db = db.Where(c.SQL, c.Args...)
	}
	return db
}

// Paginate applies predicates, the listing order and the offset/limit window.
func (q PostQuery) Paginate(db *gorm.DB) *gorm.DB {
	return byPublishDate(q.Filter(db)).Offset(q.Offset).Limit(q.Limit)
}

// TotalPages is ceil(total / limit).
func (q PostQuery) TotalPages(total int64) int {
	if q.Limit <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(q.Limit) - 1) / int64(q.Limit))
}

// byPublishDate orders newest first; posts without a publish date sort last.
func byPublishDate(db *gorm.DB) *gorm.DB {
	return db.Order("published_at IS NULL").Order("published_at DESC").Order("created_at DESC")
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
