// Package cache provides a SQLite-backed response cache for network
// lookups, with TTL expiry and shorter-lived negative caching for
// authoritative "not found" answers.
package cache

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/spf13/viper"
	_ "modernc.org/sqlite"
)

const (
	// DefaultTTL is the time-to-live for cached entries (30 days).
	DefaultTTL = 720 * time.Hour
	// NegativeTTL is the TTL for "not found" responses (7 days).
	NegativeTTL = 168 * time.Hour
)

// FetchFunc fetches data from an external source on a cache miss.
type FetchFunc[T any] func() (T, error)

// DB manages the SQLite connection backing the cache.
type DB struct {
	db   *sql.DB
	mu   sync.RWMutex
	path string
}

var (
	globalCache     *DB
	globalCacheOnce sync.Once
)

// Global returns the singleton cache instance, creating it on first use
// from the viper `cache.dbfile` setting.
func Global() (*DB, error) {
	var initErr error
	globalCacheOnce.Do(func() {
		dbPath := viper.GetString("cache.dbfile")
		if dbPath == "" {
			dbPath = "./cache.db"
		}
		globalCache, initErr = Open(dbPath)
		if initErr != nil {
			return
		}
		for _, schema := range AllCacheSchemas {
			if err := globalCache.CreateTable(schema); err != nil {
				initErr = fmt.Errorf("failed to create cache table: %w", err)
				return
			}
		}
	})
	if initErr != nil {
		return nil, initErr
	}
	return globalCache, nil
}

// ResetGlobal closes the current global cache and resets the singleton so
// the next Global call creates a new instance. Primarily for tests.
func ResetGlobal() error {
	if globalCache != nil {
		if err := globalCache.Close(); err != nil {
			return err
		}
	}
	globalCache = nil
	globalCacheOnce = sync.Once{}
	return nil
}

// Open opens (or creates) a cache database at the given path.
func Open(dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	if err := db.Ping(); err != nil {
		closeErr := db.Close()
		return nil, errors.Join(fmt.Errorf("failed to connect to cache database: %w", err), closeErr)
	}

	return &DB{db: db, path: dbPath}, nil
}

// CreateTable creates a table using the provided schema.
func (c *DB) CreateTable(schema string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := c.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (c *DB) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// Get retrieves a cached value from the given table. It returns the raw
// data, the entry's age, and whether a live (unexpired) entry was found.
func (c *DB) Get(tableName, key string) (string, time.Duration, bool, error) {
	if err := validateTableName(tableName); err != nil {
		return "", 0, false, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	query := fmt.Sprintf(`SELECT data, cached_at, expires_at FROM %s WHERE cache_key = ?`, tableName)

	var data string
	var cachedAt, expiresAt time.Time
	err := c.db.QueryRow(query, key).Scan(&data, &cachedAt, &expiresAt)
	if err == sql.ErrNoRows {
		return "", 0, false, nil
	}
	if err != nil {
		return "", 0, false, fmt.Errorf("failed to query cache: %w", err)
	}

	now := time.Now().UTC()
	if now.After(expiresAt) {
		slog.Debug("Cache expired", "table", tableName, "key", key, "expired_at", expiresAt)
		return "", 0, false, nil
	}

	return data, now.Sub(cachedAt), true, nil
}

// Set stores a value in the given table with the given lifetime,
// replacing any existing entry.
func (c *DB) Set(tableName, key, data string, ttl time.Duration) error {
	if err := validateTableName(tableName); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now().UTC()
	query := fmt.Sprintf(`
		INSERT INTO %s (cache_key, data, cached_at, expires_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(cache_key) DO UPDATE SET
			data = excluded.data,
			cached_at = excluded.cached_at,
			expires_at = excluded.expires_at
	`, tableName)

	if _, err := c.db.Exec(query, key, data, now, now.Add(ttl)); err != nil {
		return fmt.Errorf("failed to store cache entry: %w", err)
	}
	return nil
}

// Invalidate deletes all entries from the specified cache table and
// returns the number of rows removed.
func (c *DB) Invalidate(tableName string) (int64, error) {
	if err := validateTableName(tableName); err != nil {
		return 0, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	result, err := c.db.Exec(fmt.Sprintf("DELETE FROM %s", tableName))
	if err != nil {
		return 0, fmt.Errorf("failed to delete cache entries: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	slog.Debug("Cache table cleared", "table", tableName, "rows_deleted", rows)
	return rows, nil
}

func validateTableName(tableName string) error {
	if !ValidCacheTableNames[tableName] {
		return fmt.Errorf("invalid cache table name: %s", tableName)
	}
	return nil
}

// configuredTTL reads the cache TTL from viper, falling back to DefaultTTL.
func configuredTTL() time.Duration {
	ttlStr := viper.GetString("cache.ttl")
	if ttlStr == "" {
		return DefaultTTL
	}
	ttl, err := time.ParseDuration(ttlStr)
	if err != nil {
		slog.Warn("Invalid cache TTL, using default", "ttl", ttlStr, "error", err)
		return DefaultTTL
	}
	return ttl
}

// GetOrFetch retrieves data from cache or fetches it from the source.
// It returns the data, the cache age (zero when freshly fetched), and
// whether the value came from cache. A cache that fails to initialize
// degrades to a direct fetch.
func GetOrFetch[T any](tableName, cacheKey string, fetch FetchFunc[T]) (T, time.Duration, bool, error) {
	return GetOrFetchWithTTL(tableName, cacheKey, fetch, nil)
}

// GetOrFetchWithTTL is GetOrFetch with a per-result TTL selector, used
// for negative caching: cache "not found" answers with a shorter life
// than real data. A nil selector caches everything with the configured
// default TTL.
func GetOrFetchWithTTL[T any](tableName, cacheKey string, fetch FetchFunc[T], ttlSelector func(T) time.Duration) (T, time.Duration, bool, error) {
	var zero T

	db, err := Global()
	if err != nil {
		slog.Warn("Failed to initialize cache, fetching directly", "error", err)
		data, fetchErr := fetch()
		return data, 0, false, fetchErr
	}

	cached, age, hit, err := db.Get(tableName, cacheKey)
	if err == nil && hit {
		var result T
		if err := json.Unmarshal([]byte(cached), &result); err == nil {
			slog.Debug("Cache hit", "table", tableName, "key", cacheKey, "age", age)
			return result, age, true, nil
		}
		slog.Warn("Failed to unmarshal cached data, refetching", "table", tableName, "key", cacheKey, "error", err)
	}

	slog.Debug("Cache miss, fetching data", "table", tableName, "key", cacheKey)
	data, err := fetch()
	if err != nil {
		return zero, 0, false, fmt.Errorf("failed to fetch data: %w", err)
	}

	ttl := configuredTTL()
	if ttlSelector != nil {
		ttl = ttlSelector(data)
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		slog.Warn("Failed to marshal data for caching", "table", tableName, "key", cacheKey, "error", err)
		return data, 0, false, nil
	}
	if err := db.Set(tableName, cacheKey, string(jsonData), ttl); err != nil {
		slog.Warn("Failed to cache data", "table", tableName, "key", cacheKey, "error", err)
	}
	return data, 0, false, nil
}

// SelectNegativeTTL builds a TTL selector that assigns NegativeTTL to
// results the isNotFound predicate matches and DefaultTTL to the rest.
func SelectNegativeTTL[T any](isNotFound func(T) bool) func(T) time.Duration {
	return func(result T) time.Duration {
		if isNotFound(result) {
			return NegativeTTL
		}
		return DefaultTTL
	}
}
