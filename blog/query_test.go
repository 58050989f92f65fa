package blog

import (
	"math"
	"testing"

	"catalytiq/constants"

	"github.com/stretchr/testify/assert"
)

func TestBuildPostQuery_Pagination(t *testing.T) {
	tests := []struct {
		name       string
		page, size int
		wantPage   int
		wantLimit  int
		wantOffset int
	}{
		{"first page", 1, 9, 1, 9, 0},
		{"second page", 2, 9, 2, 9, 9},
		{"page below one", 0, 9, 1, 9, 0},
		{"negative page", -3, 9, 1, 9, 0},
		{"default size", 3, 0, 3, constants.POSTS_PER_PAGE, 2 * constants.POSTS_PER_PAGE},
		{"size clamped", 1, 1000, 1, constants.MAX_PAGE_SIZE, 0},
		{"huge page keeps a positive offset", math.MaxInt, 9, math.MaxInt / 9, 9, (math.MaxInt/9 - 1) * 9},
		{"page that would overflow the offset", 1024819115206086202, 9, math.MaxInt / 9, 9, (math.MaxInt/9 - 1) * 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := BuildPostQuery(PostFilters{}, tt.page, tt.size)
			assert.Equal(t, tt.wantPage, q.Page)
			assert.Equal(t, tt.wantLimit, q.Limit)
			assert.Equal(t, tt.wantOffset, q.Offset)
		})
	}
}

func TestBuildPostQuery_Conditions(t *testing.T) {
	t.Run("published only by default", func(t *testing.T) {
		q := BuildPostQuery(PostFilters{}, 1, 9)
		assert.Equal(t, []Condition{{SQL: "is_published = ?", Args: []any{true}}}, q.Conditions)
	})

	t.Run("blank filters are ignored", func(t *testing.T) {
		q := BuildPostQuery(PostFilters{Category: " ", Tag: "", Search: "  "}, 1, 9)
		assert.Len(t, q.Conditions, 1)
	})

	t.Run("every filter adds one predicate", func(t *testing.T) {
		q := BuildPostQuery(PostFilters{
			Category: "finance",
			Tag:      "ai",
			Author:   "jane",
			Search:   "Invoice",
			Featured: boolPtr(true),
		}, 1, 9)
		assert.Len(t, q.Conditions, 6)
		assert.Equal(t, []any{"finance"}, q.Conditions[1].Args)
		assert.Equal(t, []any{"ai"}, q.Conditions[2].Args)
		assert.Equal(t, []any{"jane"}, q.Conditions[3].Args)
		assert.Equal(t, []any{"%invoice%", "%invoice%", "%invoice%"}, q.Conditions[4].Args)
		assert.Contains(t, q.Conditions[4].SQL, "unicode_lower(excerpt)")
		assert.Equal(t, []any{true}, q.Conditions[5].Args)
	})

	t.Run("drafts can be requested", func(t *testing.T) {
		q := BuildPostQuery(PostFilters{Published: boolPtr(false)}, 1, 9)
		assert.Equal(t, []any{false}, q.Conditions[0].Args)
	})

	t.Run("like wildcards are escaped", func(t *testing.T) {
		q := BuildPostQuery(PostFilters{Search: `50%_off\`}, 1, 9)
		assert.Equal(t, `%50\%\_off\\%`, q.Conditions[1].Args[0])
	})
}

func TestPostQuery_TotalPages(t *testing.T) {
	q := BuildPostQuery(PostFilters{}, 1, 9)
	assert.Equal(t, 0, q.TotalPages(0))
	assert.Equal(t, 1, q.TotalPages(9))
	assert.Equal(t, 2, q.TotalPages(10))
	assert.Equal(t, 12, q.TotalPages(100))
}
