package cache

// SQL schemas for cache tables.
// All cache tables use "cache_key" as the primary key column and carry a
// per-entry expiry so negative entries can live shorter than real data.

// AudnexBookCacheSchema caches Audnex book responses, keyed by ASIN+region.
const AudnexBookCacheSchema = `
CREATE TABLE IF NOT EXISTS audnex_book_cache (
	cache_key TEXT PRIMARY KEY NOT NULL,
	data TEXT NOT NULL,
	cached_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	expires_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_audnex_book_expires_at ON audnex_book_cache(expires_at);
`

// AudnexChaptersCacheSchema caches Audnex chapter responses.
const AudnexChaptersCacheSchema = `
CREATE TABLE IF NOT EXISTS audnex_chapters_cache (
	cache_key TEXT PRIMARY KEY NOT NULL,
	data TEXT NOT NULL,
	cached_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	expires_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_audnex_chapters_expires_at ON audnex_chapters_cache(expires_at);
`

// AudnexAuthorCacheSchema caches Audnex author responses.
const AudnexAuthorCacheSchema = `
CREATE TABLE IF NOT EXISTS audnex_author_cache (
	cache_key TEXT PRIMARY KEY NOT NULL,
	data TEXT NOT NULL,
	cached_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	expires_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_audnex_author_expires_at ON audnex_author_cache(expires_at);
`

// AllCacheSchemas contains all cache table schemas for initialization.
var AllCacheSchemas = []string{
	AudnexBookCacheSchema,
	AudnexChaptersCacheSchema,
	AudnexAuthorCacheSchema,
}

// ValidCacheTableNames is the allowlist of cache table names, used to
// prevent SQL injection when interpolating table names.
var ValidCacheTableNames = map[string]bool{
	"audnex_book_cache":     true,
	"audnex_chapters_cache": true,
	"audnex_author_cache":   true,
}
