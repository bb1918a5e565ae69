// Package providers holds the concrete metadata.Provider implementations:
// the Audnex API, mediainfo technical inspection, media-server sidecar
// files and user override files.
package providers

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"github.com/lepinkainen/calliope/internal/audnex"
	"github.com/lepinkainen/calliope/internal/canonical"
	"github.com/lepinkainen/calliope/internal/metadata"
)

// Audnex looks up book metadata from the Audnex API by ASIN. It is the
// primary network source: authoritative for descriptive metadata, less so
// for runtime, which local inspection measures exactly.
type Audnex struct {
	client *audnex.Client
	region string
}

// NewAudnex creates the Audnex provider. A non-empty region pins lookups
// to that marketplace instead of the client's fallback list.
func NewAudnex(client *audnex.Client, region string) *Audnex {
	return &Audnex{client: client, region: region}
}

func (p *Audnex) Name() string        { return "audnex" }
func (p *Audnex) Priority() int       { return 10 }
func (p *Audnex) Kind() metadata.Kind { return metadata.KindNetwork }
func (p *Audnex) Override() bool      { return false }

// CanLookup requires an ASIN; Audnex has no other lookup key.
func (p *Audnex) CanLookup(lookup metadata.Lookup, idType metadata.IDType) bool {
	return idType == metadata.IDTypeASIN && lookup.ASIN() != ""
}

func (p *Audnex) Fetch(ctx context.Context, lookup metadata.Lookup, idType metadata.IDType) (*metadata.Result, error) {
	asin := lookup.ASIN()

	book, _, age, fromCache, err := p.client.CachedGetBook(ctx, asin, p.region)
	if err != nil {
		if errors.Is(err, audnex.ErrNotFound) {
			// A clean miss is an answer, not a failure.
			result := metadata.NewResult(p.Name())
			result.Cached = fromCache
			result.CacheAge = age
			return result, nil
		}
		return nil, err
	}

	result := metadata.NewResult(p.Name())
	result.Cached = fromCache
	result.CacheAge = age

	setString(result, metadata.FieldTitle, book.Title, 1.0)
	setString(result, metadata.FieldSubtitle, book.Subtitle, 0.9)
	setStrings(result, metadata.FieldAuthors, book.AuthorNames(), 0.95)
	setStrings(result, metadata.FieldNarrators, book.NarratorNames(), 0.95)
	setString(result, metadata.FieldPublisher, book.PublisherName, 0.9)
	setString(result, metadata.FieldLanguage, book.Language, 0.8)
	setString(result, metadata.FieldReleaseDate, book.ReleaseDate, 0.9)
	setStrings(result, metadata.FieldGenres, book.GenreNames(), 0.8)
	setString(result, metadata.FieldSummary, canonical.StripHTML(book.Summary), 0.85)
	setString(result, metadata.FieldDescription, canonical.StripHTML(book.Description), 0.85)
	setString(result, metadata.FieldCoverURL, book.Image, 0.95)
	setString(result, metadata.FieldFormatType, book.FormatType, 0.9)
	setString(result, metadata.FieldLiteratureType, book.LiteratureType, 0.7)
	setString(result, metadata.FieldRating, book.Rating, 0.7)
	setString(result, metadata.FieldISBN, book.ISBN, 0.9)

	if book.SeriesPrimary != nil {
		setString(result, metadata.FieldSeriesName, book.SeriesPrimary.Name, 0.9)
		setString(result, metadata.FieldSeriesPosition, book.SeriesPrimary.Position, 0.9)
	}
	if book.IsAdult {
		result.MustSetField(metadata.FieldIsAdult, true, 0.9)
	}
	if book.Copyright > 0 {
		result.MustSetField(metadata.FieldCopyright, book.Copyright, 0.8)
	}
	if book.RuntimeLengthMin > 0 {
		// Catalog runtime is rounded to minutes; mediainfo measures the
		// actual file, so keep this low-confidence.
		result.MustSetField(metadata.FieldDurationSeconds, float64(book.RuntimeLengthMin*60), 0.5)
	}

	p.addChapters(ctx, result, asin)

	return result, nil
}

// addChapters is best effort: chapter data is a separate endpoint and not
// every book has it.
func (p *Audnex) addChapters(ctx context.Context, result *metadata.Result, asin string) {
	chapters, _, _, err := p.client.CachedGetChapters(ctx, asin, p.region)
	if err != nil {
		if !errors.Is(err, audnex.ErrNotFound) {
			slog.Debug("Audnex chapters unavailable", "asin", asin, "error", err)
		}
		return
	}
	if len(chapters.Chapters) == 0 {
		return
	}

	marks := make([]canonical.Chapter, 0, len(chapters.Chapters))
	for _, ch := range chapters.Chapters {
		marks = append(marks, canonical.Chapter{
			Title:          ch.Title,
			StartOffsetSec: ch.StartOffsetSec,
			LengthMs:       ch.LengthMs,
		})
	}
	result.MustSetField(metadata.FieldChapters, marks, 0.95)

	if chapters.RuntimeLengthSec > 0 {
		result.MustSetField(metadata.FieldDurationSeconds, float64(chapters.RuntimeLengthSec), 0.7)
	}
}

func setString(r *metadata.Result, name metadata.FieldName, value string, confidence float64) {
	if value == "" {
		return
	}
	r.MustSetField(name, value, confidence)
}

func setStrings(r *metadata.Result, name metadata.FieldName, values []string, confidence float64) {
	if len(values) == 0 {
		return
	}
	r.MustSetField(name, values, confidence)
}

// positionString normalizes a series position to a string; sidecar JSON
// and override YAML may store it as a number.
func positionString(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case int:
		return strconv.Itoa(v), true
	default:
		return "", false
	}
}
