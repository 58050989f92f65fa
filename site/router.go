package site

import (
	"net/http"
	"os"
	"time"

	"catalytiq/logging"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
)

type RouterOptions struct {
	AllowedOrigins     []string
	RateLimitPerMinute int
	RequestTimeout     time.Duration
	AssetsDir          string
}

func NewRouter(s *Site, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	CORSMiddleware := cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	})

	r.Use(CORSMiddleware.Handler)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger:  logging.StandardLog(),
		NoColor: true,
	}))
	if opts.RateLimitPerMinute > 0 {
		// general rate limiter for all routes (shared across all routes)
		r.Use(httprate.LimitByIP(opts.RateLimitPerMinute, time.Minute))
	}
	r.Use(middleware.Recoverer)
	if opts.RequestTimeout > 0 {
		r.Use(middleware.Timeout(opts.RequestTimeout))
	}

	r.Get("/", s.Home)
	r.Get("/health", Health)

	r.Route("/blog", func(r chi.Router) {
		r.Get("/", s.BlogList)
		r.Get("/{slug}", s.PostPage)
	})

	if opts.AssetsDir != "" {
		if _, err := os.Stat(opts.AssetsDir); err == nil {
			fileServer := http.FileServer(http.Dir(opts.AssetsDir))
			r.Handle("/assets/*", http.StripPrefix("/assets", fileServer))
		}
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/v1", func(r chi.Router) {
			r.Get("/posts", s.APIListPosts)
			r.Get("/posts/featured", s.APIFeaturedPosts)
			r.Get("/posts/popular", s.APIPopularPosts)
			r.Get("/posts/search", s.APISearchPosts)
			r.Get("/posts/{slug}", s.APIGetPost)
			r.Get("/posts/{id}/related", s.APIRelatedPosts)
			r.Post("/posts/{id}/views", s.APIRecordView)

			r.Get("/categories", s.APICategories)
			r.Get("/tags", s.APITags)
			r.Get("/authors", s.APIAuthors)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		renderNotFound(w, r)
	})

	return r
}
