package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lepinkainen/calliope/internal/audnex"
	"github.com/lepinkainen/calliope/internal/cache"
	"github.com/lepinkainen/calliope/internal/canonical"
	"github.com/lepinkainen/calliope/internal/metadata"
	"github.com/lepinkainen/calliope/internal/ratelimit"
	"github.com/lepinkainen/calliope/internal/testutil"
)

const testASIN = "B08G9PRS1K"

func newTestAudnexProvider(t *testing.T, handler http.HandlerFunc) *Audnex {
	t.Helper()

	env := testutil.NewTestEnv(t)
	testutil.SetupTestCache(t, env)
	require.NoError(t, cache.ResetGlobal())
	t.Cleanup(func() { _ = cache.ResetGlobal() })

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := audnex.NewClient(
		audnex.WithBaseURL(server.URL),
		audnex.WithRegions([]string{"us"}),
		audnex.WithRateLimiter(ratelimit.New("test", 1000)),
	)
	return NewAudnex(client, "")
}

func TestAudnexProviderAttributes(t *testing.T) {
	p := NewAudnex(nil, "")
	assert.Equal(t, "audnex", p.Name())
	assert.Equal(t, 10, p.Priority())
	assert.Equal(t, metadata.KindNetwork, p.Kind())
	assert.False(t, p.Override())
}

func TestAudnexProviderCanLookup(t *testing.T) {
	p := NewAudnex(nil, "")

	withASIN := metadata.NewLookup(metadata.IDTypeASIN, testASIN)
	assert.True(t, p.CanLookup(withASIN, metadata.IDTypeASIN))
	assert.False(t, p.CanLookup(withASIN, metadata.IDTypeISBN))

	noASIN := metadata.NewLookup(metadata.IDTypeISBN, "9780593135204")
	assert.False(t, p.CanLookup(noASIN, metadata.IDTypeASIN))
}

func TestAudnexProviderFetch(t *testing.T) {
	p := newTestAudnexProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if strings.HasSuffix(r.URL.Path, "/chapters") {
			_, _ = w.Write([]byte(`{
				"asin": "` + testASIN + `",
				"chapters": [
					{"title": "Chapter 1", "lengthMs": 1800000, "startOffsetMs": 0, "startOffsetSec": 0}
				],
				"runtimeLengthSec": 58214
			}`))
			return
		}
		_, _ = w.Write([]byte(`{
			"asin": "` + testASIN + `",
			"title": "Project Hail Mary",
			"subtitle": "A Novel",
			"authors": [{"name": "Andy Weir"}],
			"narrators": [{"name": "Ray Porter"}],
			"genres": [{"name": "Science Fiction & Fantasy", "type": "genre"}],
			"publisherName": "Audible Studios",
			"releaseDate": "2021-05-04",
			"language": "english",
			"summary": "<p>Ryland Grace &amp; crew</p>",
			"image": "https://img.example/phm.jpg",
			"runtimeLengthMin": 970,
			"region": "us"
		}`))
	})

	lookup := metadata.NewLookup(metadata.IDTypeASIN, testASIN)
	result, err := p.Fetch(context.Background(), lookup, metadata.IDTypeASIN)
	require.NoError(t, err)
	require.True(t, result.Success)

	assert.Equal(t, "Project Hail Mary", result.Fields[metadata.FieldTitle])
	assert.Equal(t, 1.0, result.Confidence[metadata.FieldTitle])
	assert.Equal(t, []string{"Andy Weir"}, result.Fields[metadata.FieldAuthors])
	assert.Equal(t, []string{"Ray Porter"}, result.Fields[metadata.FieldNarrators])
	assert.Equal(t, "Ryland Grace & crew", result.Fields[metadata.FieldSummary], "summary is stripped of HTML")
	assert.Equal(t, "https://img.example/phm.jpg", result.Fields[metadata.FieldCoverURL])

	chapters, ok := result.Fields[metadata.FieldChapters].([]canonical.Chapter)
	require.True(t, ok)
	require.Len(t, chapters, 1)
	assert.Equal(t, "Chapter 1", chapters[0].Title)

	// Chapter runtime beats the minute-rounded catalog runtime.
	assert.Equal(t, float64(58214), result.Fields[metadata.FieldDurationSeconds])
	assert.Equal(t, 0.7, result.Confidence[metadata.FieldDurationSeconds])

	_, hasISBN := result.Fields[metadata.FieldISBN]
	assert.False(t, hasISBN, "empty API fields are not set")
}

func TestAudnexProviderNotFoundIsCleanMiss(t *testing.T) {
	p := newTestAudnexProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	lookup := metadata.NewLookup(metadata.IDTypeASIN, testASIN)
	result, err := p.Fetch(context.Background(), lookup, metadata.IDTypeASIN)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Empty(t, result.Fields)
}

func TestAudnexProviderFetchServedFromCache(t *testing.T) {
	fetches := 0
	p := newTestAudnexProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/chapters") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		fetches++
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"asin": "` + testASIN + `", "title": "Project Hail Mary"}`))
	})

	lookup := metadata.NewLookup(metadata.IDTypeASIN, testASIN)

	first, err := p.Fetch(context.Background(), lookup, metadata.IDTypeASIN)
	require.NoError(t, err)
	assert.False(t, first.Cached)

	second, err := p.Fetch(context.Background(), lookup, metadata.IDTypeASIN)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, 1, fetches)
}
