package audnex

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lepinkainen/calliope/internal/cache"
)

// CachedBook wraps a book lookup for caching. Found is false for
// authoritative not-found answers, which are cached with a shorter TTL so
// newly published books show up without hammering the API in the meantime.
type CachedBook struct {
	Book   *Book  `json:"book,omitempty"`
	Region string `json:"region,omitempty"`
	Found  bool   `json:"found"`
}

// CachedChapters wraps a chapters lookup for caching.
type CachedChapters struct {
	Chapters *Chapters `json:"chapters,omitempty"`
	Found    bool      `json:"found"`
}

// CachedAuthor wraps an author lookup for caching.
type CachedAuthor struct {
	Author *Author `json:"author,omitempty"`
	Found  bool    `json:"found"`
}

// CachedGetBook fetches book metadata with caching.
// Cache key format: book_{asin} or book_{asin}_{region}
func (c *Client) CachedGetBook(ctx context.Context, asin, region string) (*Book, string, time.Duration, bool, error) {
	cacheKey := fmt.Sprintf("book_%s", asin)
	if region != "" {
		cacheKey = fmt.Sprintf("book_%s_%s", asin, region)
	}

	result, age, fromCache, err := cache.GetOrFetchWithTTL("audnex_book_cache", cacheKey, func() (*CachedBook, error) {
		book, foundRegion, fetchErr := c.GetBook(ctx, asin, region)
		if fetchErr != nil {
			if errors.Is(fetchErr, ErrNotFound) {
				return &CachedBook{Found: false}, nil
			}
			return nil, fetchErr
		}
		return &CachedBook{Book: book, Region: foundRegion, Found: true}, nil
	}, cache.SelectNegativeTTL(func(r *CachedBook) bool {
		return r == nil || !r.Found
	}))

	if err != nil {
		return nil, "", 0, false, err
	}
	if !result.Found {
		return nil, "", age, fromCache, fmt.Errorf("asin %s: %w", asin, ErrNotFound)
	}

	return result.Book, result.Region, age, fromCache, nil
}

// CachedGetChapters fetches chapter data with caching.
// Cache key format: chapters_{asin}
func (c *Client) CachedGetChapters(ctx context.Context, asin, region string) (*Chapters, time.Duration, bool, error) {
	cacheKey := fmt.Sprintf("chapters_%s", asin)

	result, age, fromCache, err := cache.GetOrFetchWithTTL("audnex_chapters_cache", cacheKey, func() (*CachedChapters, error) {
		chapters, fetchErr := c.GetChapters(ctx, asin, region)
		if fetchErr != nil {
			if errors.Is(fetchErr, ErrNotFound) {
				return &CachedChapters{Found: false}, nil
			}
			return nil, fetchErr
		}
		return &CachedChapters{Chapters: chapters, Found: true}, nil
	}, cache.SelectNegativeTTL(func(r *CachedChapters) bool {
		return r == nil || !r.Found
	}))

	if err != nil {
		return nil, 0, false, err
	}
	if !result.Found {
		return nil, age, fromCache, fmt.Errorf("chapters for asin %s: %w", asin, ErrNotFound)
	}

	return result.Chapters, age, fromCache, nil
}

// CachedGetAuthor fetches author metadata with caching.
// Cache key format: author_{asin}
func (c *Client) CachedGetAuthor(ctx context.Context, asin, region string) (*Author, time.Duration, bool, error) {
	cacheKey := fmt.Sprintf("author_%s", asin)

	result, age, fromCache, err := cache.GetOrFetchWithTTL("audnex_author_cache", cacheKey, func() (*CachedAuthor, error) {
		author, fetchErr := c.GetAuthor(ctx, asin, region)
		if fetchErr != nil {
			if errors.Is(fetchErr, ErrNotFound) {
				return &CachedAuthor{Found: false}, nil
			}
			return nil, fetchErr
		}
		return &CachedAuthor{Author: author, Found: true}, nil
	}, cache.SelectNegativeTTL(func(r *CachedAuthor) bool {
		return r == nil || !r.Found
	}))

	if err != nil {
		return nil, 0, false, err
	}
	if !result.Found {
		return nil, age, fromCache, fmt.Errorf("author %s: %w", asin, ErrNotFound)
	}

	return result.Author, age, fromCache, nil
}
