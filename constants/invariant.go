package constants

const (
	APP_NAME          = "CatalytIQ Systems"
	BLOG_TITLE_SUFFIX = " | CatalytIQ Systems Blog"

	// blog listing
	POSTS_PER_PAGE       = 9
	MAX_PAGE_SIZE        = 100
	FEATURED_POSTS_COUNT = 3
	RELATED_POSTS_COUNT  = 3
	SEARCH_RESULTS_LIMIT = 10

	// sidebar
	SIDEBAR_TAGS_COUNT    = 10
	SIDEBAR_RECENT_COUNT  = 5
	SIDEBAR_POPULAR_COUNT = 5

	// content
	EXCERPT_LENGTH    = 160
	READING_SPEED_WPM = 200
)
