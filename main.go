package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"catalytiq/blog"
	"catalytiq/config"
	"catalytiq/constants"
	"catalytiq/database"
	"catalytiq/logging"
	"catalytiq/site"

	"github.com/urfave/cli/v2"
)

const (
	ExitSuccess      = 0
	ExitGeneralError = 1
	ExitUsageError   = 2
	ExitDataError    = 3
)

func main() {
	app := &cli.App{
		Name:  "catalytiq-blog",
		Usage: "The " + constants.APP_NAME + " blog: web server and content tools",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Config file (default: ./catalytiq.yaml when present)",
				EnvVars: []string{"BLOG_CONFIG"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the blog web server",
				Action: serve,
			},
			{
				Name:   "migrate",
				Usage:  "Create or update the content tables",
				Action: migrate,
			},
			{
				Name:      "import",
				Usage:     "Import authors, categories, tags and posts from a YAML file",
				ArgsUsage: "<file.yaml>",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "overwrite",
						Usage: "Update posts whose slug already exists instead of skipping them",
					},
				},
				Action: importContent,
			},
			{
				Name:  "create-post",
				Usage: "Create one post from a YAML file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "Post YAML file",
						Required: true,
					},
				},
				Action: createPost,
			},
			{
				Name:  "list",
				Usage: "List posts as JSON",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "drafts",
						Usage: "List unpublished posts instead of published ones",
					},
					&cli.IntFlag{
						Name:    "page",
						Aliases: []string{"p"},
						Value:   1,
					},
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"l"},
						Value:   constants.POSTS_PER_PAGE,
					},
				},
				Action: listPosts,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logging.Fatal("command failed", "err", err)
	}
}

type runtime struct {
	cfg   config.Config
	store *database.Client
	blog  *blog.Service
}

func (rt *runtime) Close() {
	rt.blog.Views().Wait()
	if err := rt.store.Close(); err != nil {
		logging.Warn("failed to close content store", "err", err)
	}
}

// setup loads configuration, initializes logging and opens the content store.
// Configuration faults are fatal.
func setup(c *cli.Context) *runtime {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		logging.Fatal("invalid configuration", "err", err)
	}

	if err := logging.Init(os.Stderr, cfg.LogLevel); err != nil {
		logging.Fatal("invalid log level", "level", cfg.LogLevel, "err", err)
	}

	store, err := database.Open(database.Config{
		URL:   cfg.StoreURL,
		Key:   cfg.StoreKey,
		Debug: cfg.Debug,
	})
	if err != nil {
		logging.Fatal("failed to open content store", "err", err)
	}

	return &runtime{
		cfg:   cfg,
		store: store,
		blog:  blog.NewService(store, blog.WithTimeout(cfg.StoreTimeout)),
	}
}

func serve(c *cli.Context) error {
	rt := setup(c)
	defer rt.Close()

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rt.store.Migrate(ctx); err != nil {
		return cli.Exit(fmt.Sprintf("Failed to migrate content store: %v", err), ExitDataError)
	}

	router := site.NewRouter(site.New(rt.blog, rt.cfg.PublicURL), site.RouterOptions{
		AllowedOrigins:     rt.cfg.CorsAllowedOrigins,
		RateLimitPerMinute: rt.cfg.RateLimitPerMinute,
		RequestTimeout:     rt.cfg.StoreTimeout + 5*time.Second,
		AssetsDir:          "./assets",
	})

	srv := &http.Server{
		Addr:              ":" + rt.cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logging.Info("running", "url", "http://localhost"+srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return cli.Exit(fmt.Sprintf("HTTP server stopped: %v", err), ExitGeneralError)
		}
	case <-ctx.Done():
	}

	logging.Info("shutting down gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Warn("HTTP server shutdown", "err", err)
	}
	return nil
}

func migrate(c *cli.Context) error {
	rt := setup(c)
	defer rt.Close()

	if err := rt.store.Migrate(c.Context); err != nil {
		return cli.Exit(fmt.Sprintf("Failed to migrate content store: %v", err), ExitDataError)
	}
	logging.Info("content store migrated")
	return nil
}

func importContent(c *cli.Context) error {
	if c.Args().Len() != 1 {
		return cli.Exit("Usage: catalytiq-blog import <file.yaml> [--overwrite]", ExitUsageError)
	}

	f, err := os.Open(c.Args().First())
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	defer f.Close()

	rt := setup(c)
	defer rt.Close()

	result, err := rt.blog.ImportContent(c.Context, f, c.Bool("overwrite"))
	if err != nil {
		return cli.Exit(fmt.Sprintf("Import failed: %v", err), ExitDataError)
	}
	return outputJSON(result)
}

func createPost(c *cli.Context) error {
	f, err := os.Open(c.String("file"))
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	defer f.Close()

	entry, err := blog.ParsePostEntry(f)
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}

	rt := setup(c)
	defer rt.Close()

	post, _, err := rt.blog.SavePostEntry(c.Context, entry, false)
	if err != nil {
		if errors.Is(err, blog.ErrSlugTaken) {
			return cli.Exit("A post with the same slug already exists", ExitDataError)
		}
		return cli.Exit(fmt.Sprintf("Failed to create post: %v", err), ExitDataError)
	}
	return outputJSON(post)
}

func listPosts(c *cli.Context) error {
	rt := setup(c)
	defer rt.Close()

	published := !c.Bool("drafts")
	page, err := rt.blog.ListPostsAdmin(c.Context, blog.PostFilters{Published: &published}, c.Int("page"), c.Int("limit"))
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	return outputJSON(page)
}

func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
