package audnex

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
)

// GetBook fetches book metadata for an ASIN, trying each configured region
// in order. It returns the book and the region it was found in. If a
// specific region is given, only that region is tried.
func (c *Client) GetBook(ctx context.Context, asin, region string) (*Book, string, error) {
	if region != "" {
		book, err := c.getBookRegion(ctx, asin, region)
		if err != nil {
			return nil, "", err
		}
		return book, region, nil
	}

	for _, r := range c.regions {
		book, err := c.getBookRegion(ctx, asin, r)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				slog.Debug("ASIN not found in region", "asin", asin, "region", r)
				continue
			}
			if ctx.Err() != nil {
				return nil, "", err
			}
			slog.Debug("Audnex book fetch failed, trying next region", "asin", asin, "region", r, "error", err)
			continue
		}
		slog.Info("Fetched Audnex metadata", "asin", asin, "region", r)
		return book, r, nil
	}

	slog.Warn("ASIN not found in any configured region", "asin", asin, "regions", c.regions)
	return nil, "", fmt.Errorf("asin %s: %w", asin, ErrNotFound)
}

func (c *Client) getBookRegion(ctx context.Context, asin, region string) (*Book, error) {
	endpoint := fmt.Sprintf("%s/books/%s?region=%s", c.baseURL, url.PathEscape(asin), url.QueryEscape(region))

	var book Book
	if err := c.getJSON(ctx, endpoint, &book); err != nil {
		return nil, err
	}
	if book.Region == "" {
		book.Region = region
	}
	return &book, nil
}

// GetChapters fetches chapter markers for an ASIN with region fallback.
func (c *Client) GetChapters(ctx context.Context, asin, region string) (*Chapters, error) {
	regions := c.regions
	if region != "" {
		regions = []string{region}
	}

	for _, r := range regions {
		endpoint := fmt.Sprintf("%s/books/%s/chapters?region=%s", c.baseURL, url.PathEscape(asin), url.QueryEscape(r))

		var chapters Chapters
		err := c.getJSON(ctx, endpoint, &chapters)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				slog.Debug("Chapters not found in region", "asin", asin, "region", r)
				continue
			}
			if ctx.Err() != nil {
				return nil, err
			}
			slog.Debug("Audnex chapters fetch failed, trying next region", "asin", asin, "region", r, "error", err)
			continue
		}
		slog.Info("Fetched Audnex chapters", "asin", asin, "region", r, "count", len(chapters.Chapters))
		return &chapters, nil
	}

	return nil, fmt.Errorf("chapters for asin %s: %w", asin, ErrNotFound)
}

// GetAuthor fetches author metadata for an author ASIN with region fallback.
func (c *Client) GetAuthor(ctx context.Context, asin, region string) (*Author, error) {
	regions := c.regions
	if region != "" {
		regions = []string{region}
	}

	for _, r := range regions {
		endpoint := fmt.Sprintf("%s/authors/%s?region=%s", c.baseURL, url.PathEscape(asin), url.QueryEscape(r))

		var author Author
		err := c.getJSON(ctx, endpoint, &author)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				slog.Debug("Author not found in region", "asin", asin, "region", r)
				continue
			}
			if ctx.Err() != nil {
				return nil, err
			}
			slog.Debug("Audnex author fetch failed, trying next region", "asin", asin, "region", r, "error", err)
			continue
		}
		slog.Info("Fetched Audnex author", "asin", asin, "region", r)
		return &author, nil
	}

	return nil, fmt.Errorf("author %s: %w", asin, ErrNotFound)
}
