// Package metadata implements the provider system for audiobook metadata:
// a closed vocabulary of canonical fields, a pluggable Provider interface,
// a registry, and an aggregator that merges partial results from several
// providers using deterministic conflict resolution.
package metadata

import "slices"

// IDType identifies the kind of lookup identifier.
type IDType string

const (
	IDTypeASIN      IDType = "asin"
	IDTypeISBN      IDType = "isbn"
	IDTypeGoodreads IDType = "goodreads_id"
	IDTypeHardcover IDType = "hardcover_id"
)

// FieldName is one of the canonical metadata attribute names.
// The set is closed: providers and exporters agree on exactly this
// vocabulary, and the aggregator never merges ad-hoc names.
type FieldName string

// Book-level fields.
const (
	FieldTitle          FieldName = "title"
	FieldSubtitle       FieldName = "subtitle"
	FieldAuthors        FieldName = "authors"
	FieldNarrators      FieldName = "narrators"
	FieldPublisher      FieldName = "publisher"
	FieldLanguage       FieldName = "language"
	FieldReleaseDate    FieldName = "release_date"
	FieldSeriesName     FieldName = "series_name"
	FieldSeriesPosition FieldName = "series_position"
	FieldGenres         FieldName = "genres"
	FieldSummary        FieldName = "summary"
	FieldDescription    FieldName = "description"
	FieldCoverURL       FieldName = "cover_url"
	FieldFormatType     FieldName = "format_type"
	FieldLiteratureType FieldName = "literature_type"
	FieldIsAdult        FieldName = "is_adult"
	FieldCopyright      FieldName = "copyright"
	FieldRating         FieldName = "rating"
	FieldISBN           FieldName = "isbn"
)

// Audio-level fields, supplied by local technical inspection.
const (
	FieldChapters        FieldName = "chapters"
	FieldDurationSeconds FieldName = "duration_seconds"
	FieldCodec           FieldName = "codec"
	FieldBitrate         FieldName = "bitrate"
	FieldChannels        FieldName = "channels"
	FieldContainer       FieldName = "container"
)

// allFields lists every canonical field in a fixed order. Merge output and
// missing-field accounting iterate this slice, which keeps aggregation
// deterministic regardless of map iteration order.
var allFields = []FieldName{
	FieldTitle,
	FieldSubtitle,
	FieldAuthors,
	FieldNarrators,
	FieldPublisher,
	FieldLanguage,
	FieldReleaseDate,
	FieldSeriesName,
	FieldSeriesPosition,
	FieldGenres,
	FieldSummary,
	FieldDescription,
	FieldCoverURL,
	FieldFormatType,
	FieldLiteratureType,
	FieldIsAdult,
	FieldCopyright,
	FieldRating,
	FieldISBN,
	FieldChapters,
	FieldDurationSeconds,
	FieldCodec,
	FieldBitrate,
	FieldChannels,
	FieldContainer,
}

// AllFields returns the full canonical field vocabulary in its fixed order.
// The returned slice is a copy and safe to modify.
func AllFields() []FieldName {
	return slices.Clone(allFields)
}

// IsCanonical reports whether name belongs to the canonical vocabulary.
func IsCanonical(name FieldName) bool {
	return slices.Contains(allFields, name)
}

// ParseFields converts a list of raw field names into canonical FieldNames,
// skipping anything outside the vocabulary. Used by the CLI when parsing
// --required flags.
func ParseFields(names []string) []FieldName {
	fields := make([]FieldName, 0, len(names))
	for _, n := range names {
		if f := FieldName(n); IsCanonical(f) {
			fields = append(fields, f)
		}
	}
	return fields
}
