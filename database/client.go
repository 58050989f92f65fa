package database

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	moderncsqlite "modernc.org/sqlite" // pure-Go driver registered as "sqlite"
)

// LowerFunc is a Unicode-aware lower-case SQL function available on every
// supported store. sqlite's built-in LOWER only folds ASCII.
const LowerFunc = "unicode_lower"

const postgresLowerFunc = `CREATE OR REPLACE FUNCTION ` + LowerFunc + `(text) RETURNS text
	AS 'SELECT lower($1)' LANGUAGE SQL IMMUTABLE`

func init() {
	moderncsqlite.MustRegisterDeterministicScalarFunction(LowerFunc, 1, unicodeLower)
}

func unicodeLower(_ *moderncsqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case nil:
		return nil, nil
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	default:
		return v, nil
	}
}

var (
	ErrMissingURL = errors.New("content store URL is required")
	ErrMissingKey = errors.New("content store access key is required")
)

// Config holds what is needed to reach the content store.
//
// URL is either a postgres connection URL (postgres://user@host:port/db), in
// which case Key is used as the connection password, or a sqlite location
// (sqlite:path/to/blog.db, sqlite::memory:).
type Config struct {
	URL   string
	Key   string
	Debug bool
}

// Client is the typed entry point to the content store.
type Client struct {
	db *gorm.DB
}

// Open validates cfg and connects to the content store. It is meant to be
// called once at startup; the returned client is safe for concurrent use.
func Open(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, ErrMissingURL
	}
	if strings.TrimSpace(cfg.Key) == "" {
		return nil, ErrMissingKey
	}

	dialector, isSQLite, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	logLevel := logger.Silent
	if cfg.Debug {
		logLevel = logger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		NowFunc:        func() time.Time { return time.Now().UTC() },
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to content store: %w", err)
	}

	if isSQLite {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to access sqlite handle: %w", err)
		}
		// a single connection keeps :memory: databases shared and serializes writers
		sqlDB.SetMaxOpenConns(1)
	}

	return &Client{db: db}, nil
}

func dialectorFor(cfg Config) (gorm.Dialector, bool, error) {
	switch {
	case strings.HasPrefix(cfg.URL, "postgres://"), strings.HasPrefix(cfg.URL, "postgresql://"):
		u, err := url.Parse(cfg.URL)
		if err != nil {
			return nil, false, fmt.Errorf("invalid content store URL: %w", err)
		}
		username := ""
		if u.User != nil {
			username = u.User.Username()
		}
		u.User = url.UserPassword(username, cfg.Key)
		return postgres.Open(u.String()), false, nil

	case strings.HasPrefix(cfg.URL, "sqlite:"):
		dsn := strings.TrimPrefix(strings.TrimPrefix(cfg.URL, "sqlite:"), "//")
		if dsn == "" {
			return nil, false, fmt.Errorf("invalid content store URL %q: missing sqlite path", cfg.URL)
		}
		return sqlite.New(sqlite.Config{DriverName: "sqlite", DSN: dsn}), true, nil

	default:
		return nil, false, fmt.Errorf("unsupported content store URL %q", cfg.URL)
	}
}

// Close releases the underlying connection pool.
func (c *Client) Close() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Migrate creates or updates every content table. On postgres it also
// installs LowerFunc; sqlite gets it from the driver.
func (c *Client) Migrate(ctx context.Context) error {
	db := c.db.WithContext(ctx)
	if err := db.AutoMigrate(AllModels()...); err != nil {
		return Normalize("migrate", err)
	}
	if db.Dialector.Name() == "postgres" {
		if err := db.Exec(postgresLowerFunc).Error; err != nil {
			return Normalize("migrate", err)
		}
	}
	return nil
}

func (c *Client) Posts(ctx context.Context) *gorm.DB {
	return c.db.WithContext(ctx).Model(&Post{})
}

func (c *Client) Authors(ctx context.Context) *gorm.DB {
	return c.db.WithContext(ctx).Model(&Author{})
}

func (c *Client) Categories(ctx context.Context) *gorm.DB {
	return c.db.WithContext(ctx).Model(&Category{})
}

func (c *Client) Tags(ctx context.Context) *gorm.DB {
	return c.db.WithContext(ctx).Model(&Tag{})
}

func (c *Client) PostCategories(ctx context.Context) *gorm.DB {
	return c.db.WithContext(ctx).Model(&PostCategory{})
}

func (c *Client) PostTags(ctx context.Context) *gorm.DB {
	return c.db.WithContext(ctx).Model(&PostTag{})
}

// Transaction runs fn inside a store transaction. Errors returned by fn roll
// the transaction back and are returned as-is.
func (c *Client) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return c.db.WithContext(ctx).Transaction(fn)
}
