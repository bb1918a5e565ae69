package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllFieldsIsStableAndCopied(t *testing.T) {
	first := AllFields()
	second := AllFields()

	assert.Equal(t, first, second)

	// Mutating the returned slice must not leak into the vocabulary.
	first[0] = FieldName("mangled")
	assert.Equal(t, FieldTitle, AllFields()[0])
}

func TestIsCanonical(t *testing.T) {
	assert.True(t, IsCanonical(FieldTitle))
	assert.True(t, IsCanonical(FieldDurationSeconds))
	assert.False(t, IsCanonical(FieldName("page_count")))
	assert.False(t, IsCanonical(FieldName("")))
}

func TestParseFields(t *testing.T) {
	parsed := ParseFields([]string{"title", "authors", "bogus", "chapters"})
	assert.Equal(t, []FieldName{FieldTitle, FieldAuthors, FieldChapters}, parsed)
}

func TestLookupAccessors(t *testing.T) {
	lookup := NewLookup(IDTypeASIN, "B08G9PRS1K").
		WithPath("/library/The Way of Kings").
		WithID(IDTypeISBN, "9780765326355")

	assert.Equal(t, "B08G9PRS1K", lookup.ASIN())
	assert.Equal(t, "9780765326355", lookup.ISBN())
	assert.Equal(t, "", lookup.ID(IDTypeGoodreads))
	assert.Equal(t, "/library/The Way of Kings", lookup.Path)
}

func TestWithIDDoesNotMutateOriginal(t *testing.T) {
	base := NewLookup(IDTypeASIN, "B08G9PRS1K")
	derived := base.WithID(IDTypeISBN, "9780765326355")

	assert.Equal(t, "", base.ISBN())
	assert.Equal(t, "9780765326355", derived.ISBN())
	assert.Equal(t, "B08G9PRS1K", derived.ASIN())
}
