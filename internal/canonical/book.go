// Package canonical defines the unified internal representation of
// audiobook metadata. Providers emit partial field maps that the
// aggregator merges; FromFields materializes the merged map into a Book,
// which exporters then map to their output formats.
package canonical

import (
	"strconv"

	"github.com/lepinkainen/calliope/internal/metadata"
)

// Chapter is a chapter marker in the canonical schema.
type Chapter struct {
	Title          string `json:"title"`
	StartOffsetSec int64  `json:"start_offset_sec"`
	LengthMs       int64  `json:"length_ms,omitempty"`
}

// Book is the canonical audiobook metadata record. It is richer than any
// single export format; exporters pick the fields they need.
type Book struct {
	ASIN           string `json:"asin"`
	Title          string `json:"title"`
	Subtitle       string `json:"subtitle,omitempty"`

	Authors   []string `json:"authors,omitempty"`
	Narrators []string `json:"narrators,omitempty"`

	SeriesName     string `json:"series_name,omitempty"`
	SeriesPosition string `json:"series_position,omitempty"`

	Genres         []string `json:"genres,omitempty"`
	Summary        string   `json:"summary,omitempty"`
	Description    string   `json:"description,omitempty"`
	Publisher      string   `json:"publisher,omitempty"`
	Language       string   `json:"language,omitempty"`
	ReleaseDate    string   `json:"release_date,omitempty"`
	Copyright      int      `json:"copyright,omitempty"`
	FormatType     string   `json:"format_type,omitempty"`
	LiteratureType string   `json:"literature_type,omitempty"`
	IsAdult        bool     `json:"is_adult,omitempty"`
	Rating         string   `json:"rating,omitempty"`
	CoverURL       string   `json:"cover_url,omitempty"`
	ISBN           string   `json:"isbn,omitempty"`

	Chapters        []Chapter `json:"chapters,omitempty"`
	DurationSeconds float64   `json:"duration_seconds,omitempty"`
	Codec           string    `json:"codec,omitempty"`
	Bitrate         int       `json:"bitrate,omitempty"`
	Channels        int       `json:"channels,omitempty"`
	Container       string    `json:"container,omitempty"`
}

// FromFields builds a Book from a merged field map keyed by the canonical
// vocabulary. Values are coerced leniently: providers agree on the types
// below, but sidecar files written by other tools may carry e.g. float64
// where an int is expected.
func FromFields(asin string, fields map[metadata.FieldName]any) *Book {
	book := &Book{ASIN: asin}

	for name, value := range fields {
		if value == nil {
			continue
		}
		switch name {
		case metadata.FieldTitle:
			book.Title = asString(value)
		case metadata.FieldSubtitle:
			book.Subtitle = asString(value)
		case metadata.FieldAuthors:
			book.Authors = asStringSlice(value)
		case metadata.FieldNarrators:
			book.Narrators = asStringSlice(value)
		case metadata.FieldPublisher:
			book.Publisher = asString(value)
		case metadata.FieldLanguage:
			book.Language = asString(value)
		case metadata.FieldReleaseDate:
			book.ReleaseDate = asString(value)
		case metadata.FieldSeriesName:
			book.SeriesName = asString(value)
		case metadata.FieldSeriesPosition:
			book.SeriesPosition = asString(value)
		case metadata.FieldGenres:
			book.Genres = asStringSlice(value)
		case metadata.FieldSummary:
			book.Summary = asString(value)
		case metadata.FieldDescription:
			book.Description = asString(value)
		case metadata.FieldCoverURL:
			book.CoverURL = asString(value)
		case metadata.FieldFormatType:
			book.FormatType = asString(value)
		case metadata.FieldLiteratureType:
			book.LiteratureType = asString(value)
		case metadata.FieldIsAdult:
			book.IsAdult = asBool(value)
		case metadata.FieldCopyright:
			book.Copyright = asInt(value)
		case metadata.FieldRating:
			book.Rating = asString(value)
		case metadata.FieldISBN:
			book.ISBN = asString(value)
		case metadata.FieldChapters:
			book.Chapters = asChapters(value)
		case metadata.FieldDurationSeconds:
			book.DurationSeconds = asFloat(value)
		case metadata.FieldCodec:
			book.Codec = asString(value)
		case metadata.FieldBitrate:
			book.Bitrate = asInt(value)
		case metadata.FieldChannels:
			book.Channels = asInt(value)
		case metadata.FieldContainer:
			book.Container = asString(value)
		}
	}

	return book
}

// ReleaseYear extracts the year from the release date, or 0 when the date
// is missing or malformed.
func (b *Book) ReleaseYear() int {
	if len(b.ReleaseDate) < 4 {
		return 0
	}
	year, err := strconv.Atoi(b.ReleaseDate[:4])
	if err != nil {
		return 0
	}
	return year
}

// ReleaseDateISO returns the release date as YYYY-MM-DD, or empty when
// only a partial date is known.
func (b *Book) ReleaseDateISO() string {
	if len(b.ReleaseDate) < 10 {
		return ""
	}
	return b.ReleaseDate[:10]
}

// PrimaryAuthor returns the first author, or empty.
func (b *Book) PrimaryAuthor() string {
	if len(b.Authors) == 0 {
		return ""
	}
	return b.Authors[0]
}

// PrimaryNarrator returns the first narrator, or empty.
func (b *Book) PrimaryNarrator() string {
	if len(b.Narrators) == 0 {
		return ""
	}
	return b.Narrators[0]
}

func asString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int:
		return strconv.Itoa(s)
	default:
		return ""
	}
}

func asStringSlice(v any) []string {
	switch s := v.(type) {
	case []string:
		return s
	case []any:
		out := make([]string, 0, len(s))
		for _, item := range s {
			if str := asString(item); str != "" {
				out = append(out, str)
			}
		}
		return out
	case string:
		if s == "" {
			return nil
		}
		return []string{s}
	default:
		return nil
	}
}

func asInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	case string:
		i, err := strconv.Atoi(n)
		if err != nil {
			return 0
		}
		return i
	default:
		return 0
	}
}

func asFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

func asBool(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		return b == "true" || b == "1"
	default:
		return false
	}
}

func asChapters(v any) []Chapter {
	switch c := v.(type) {
	case []Chapter:
		return c
	case []any:
		out := make([]Chapter, 0, len(c))
		for _, item := range c {
			m, ok := item.(map[string]any)
			if !ok {
				continue
			}
			out = append(out, Chapter{
				Title:          asString(m["title"]),
				StartOffsetSec: int64(asInt(m["start_offset_sec"])),
				LengthMs:       int64(asInt(m["length_ms"])),
			})
		}
		return out
	default:
		return nil
	}
}
