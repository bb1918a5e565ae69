package exporter

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/jpeg"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lepinkainen/calliope/internal/canonical"
	"github.com/lepinkainen/calliope/internal/testutil"
)

func testBook() *canonical.Book {
	return &canonical.Book{
		ASIN:           "B08G9PRS1K",
		Title:          "Project Hail Mary",
		Authors:        []string{"Andy Weir"},
		Narrators:      []string{"Ray Porter"},
		SeriesPosition: "1",
		ReleaseDate:    "2021-05-04",
	}
}

func TestExportWritesSidecar(t *testing.T) {
	env := testutil.NewTestEnv(t)
	audioPath := env.Path("Project Hail Mary.m4b")

	exporter := New(Options{})
	result, err := exporter.Export(context.Background(), testBook(), audioPath)
	require.NoError(t, err)

	assert.True(t, result.SidecarWritten)
	assert.Equal(t, env.Path("Project Hail Mary.metadata.json"), result.SidecarPath)
	env.RequireFileExists("Project Hail Mary.metadata.json")

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(env.ReadFile("Project Hail Mary.metadata.json"), &decoded))
	assert.Equal(t, "Project Hail Mary", decoded["title"])
	assert.Equal(t, "B08G9PRS1K", decoded["asin"])
	assert.Equal(t, []any{"Andy Weir"}, decoded["authors"])
}

func TestExportRespectsOverwrite(t *testing.T) {
	env := testutil.NewTestEnv(t)
	audioPath := env.Path("book.m4b")
	env.WriteFileString("book.metadata.json", `{"title": "old"}`)

	result, err := New(Options{}).Export(context.Background(), testBook(), audioPath)
	require.NoError(t, err)
	assert.False(t, result.SidecarWritten)
	env.AssertFileContains("book.metadata.json", "old")

	result, err = New(Options{Overwrite: true}).Export(context.Background(), testBook(), audioPath)
	require.NoError(t, err)
	assert.True(t, result.SidecarWritten)
	env.AssertFileContains("book.metadata.json", "Project Hail Mary")
}

func TestExportDownloadsCover(t *testing.T) {
	env := testutil.NewTestEnv(t)
	audioPath := env.Path("book.m4b")

	img := image.NewRGBA(image.Rect(0, 0, 50, 75))
	for y := 0; y < 75; y++ {
		for x := 0; x < 50; x++ {
			img.Set(x, y, color.RGBA{R: 10, G: 20, B: 30, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write(buf.Bytes())
	}))
	defer server.Close()

	book := testBook()
	book.CoverURL = server.URL + "/cover.jpg"

	result, err := New(Options{DownloadCover: true}).Export(context.Background(), book, audioPath)
	require.NoError(t, err)
	assert.True(t, result.CoverDownloaded)
	env.RequireFileExists("Project Hail Mary - cover.jpg")
}

func TestExportCoverFailureDoesNotFailExport(t *testing.T) {
	env := testutil.NewTestEnv(t)
	audioPath := env.Path("book.m4b")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	book := testBook()
	book.CoverURL = server.URL

	result, err := New(Options{DownloadCover: true}).Export(context.Background(), book, audioPath)
	require.NoError(t, err)
	assert.True(t, result.SidecarWritten)
	assert.False(t, result.CoverDownloaded)
}

func TestExportNilBook(t *testing.T) {
	_, err := New(Options{}).Export(context.Background(), nil, "book.m4b")
	require.Error(t, err)
}
