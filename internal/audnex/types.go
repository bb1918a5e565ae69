package audnex

import "strings"

// Person is an author or narrator as returned by the Audnex API.
type Person struct {
	Name string `json:"name"`
	ASIN string `json:"asin,omitempty"`
}

// Series holds series membership with a position that may be fractional
// (e.g. "2.5") or a range, so it stays a string.
type Series struct {
	Name     string `json:"name"`
	Position string `json:"position,omitempty"`
	ASIN     string `json:"asin,omitempty"`
}

// Genre is a genre or tag classification.
type Genre struct {
	Name string `json:"name"`
	ASIN string `json:"asin,omitempty"`
	Type string `json:"type,omitempty"`
}

// Book is the Audnex /books/{asin} response.
type Book struct {
	ASIN             string   `json:"asin"`
	Title            string   `json:"title"`
	Subtitle         string   `json:"subtitle,omitempty"`
	Authors          []Person `json:"authors,omitempty"`
	Narrators        []Person `json:"narrators,omitempty"`
	SeriesPrimary    *Series  `json:"seriesPrimary,omitempty"`
	SeriesSecondary  *Series  `json:"seriesSecondary,omitempty"`
	Genres           []Genre  `json:"genres,omitempty"`
	PublisherName    string   `json:"publisherName,omitempty"`
	ReleaseDate      string   `json:"releaseDate,omitempty"`
	Copyright        int      `json:"copyright,omitempty"`
	Language         string   `json:"language,omitempty"`
	Summary          string   `json:"summary,omitempty"`
	Description      string   `json:"description,omitempty"`
	Image            string   `json:"image,omitempty"`
	ISBN             string   `json:"isbn,omitempty"`
	Rating           string   `json:"rating,omitempty"`
	FormatType       string   `json:"formatType,omitempty"`
	LiteratureType   string   `json:"literatureType,omitempty"`
	IsAdult          bool     `json:"isAdult,omitempty"`
	RuntimeLengthMin int      `json:"runtimeLengthMin,omitempty"`
	Region           string   `json:"region,omitempty"`
}

// AuthorNames returns the author display names in API order.
func (b *Book) AuthorNames() []string {
	return personNames(b.Authors)
}

// NarratorNames returns the narrator display names in API order.
func (b *Book) NarratorNames() []string {
	return personNames(b.Narrators)
}

// GenreNames returns deduplicated genre and tag names in API order.
func (b *Book) GenreNames() []string {
	seen := make(map[string]bool, len(b.Genres))
	names := make([]string, 0, len(b.Genres))
	for _, g := range b.Genres {
		if g.Name == "" || seen[g.Name] {
			continue
		}
		seen[g.Name] = true
		names = append(names, g.Name)
	}
	return names
}

func personNames(people []Person) []string {
	names := make([]string, 0, len(people))
	for _, p := range people {
		if strings.TrimSpace(p.Name) != "" {
			names = append(names, p.Name)
		}
	}
	return names
}

// Author is the Audnex /authors/{asin} response.
type Author struct {
	ASIN        string   `json:"asin"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Image       string   `json:"image,omitempty"`
	Genres      []Genre  `json:"genres,omitempty"`
	Similar     []Person `json:"similar,omitempty"`
}

// Chapter is a single chapter marker.
type Chapter struct {
	Title          string `json:"title"`
	LengthMs       int64  `json:"lengthMs"`
	StartOffsetMs  int64  `json:"startOffsetMs"`
	StartOffsetSec int64  `json:"startOffsetSec"`
}

// Chapters is the Audnex /books/{asin}/chapters response.
type Chapters struct {
	ASIN                 string    `json:"asin"`
	BrandIntroDurationMs int64     `json:"brandIntroDurationMs,omitempty"`
	BrandOutroDurationMs int64     `json:"brandOutroDurationMs,omitempty"`
	Chapters             []Chapter `json:"chapters"`
	RuntimeLengthMs      int64     `json:"runtimeLengthMs,omitempty"`
	RuntimeLengthSec     int64     `json:"runtimeLengthSec,omitempty"`
}
