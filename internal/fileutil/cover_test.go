package fileutil

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lepinkainen/calliope/internal/testutil"
)

// testJPEG encodes a solid-color JPEG of the given size.
func testJPEG(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 120, B: 40, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func TestDownloadCover(t *testing.T) {
	env := testutil.NewTestEnv(t)

	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write(testJPEG(t, 100, 150))
	}))
	defer server.Close()

	result, err := DownloadCover(context.Background(), CoverDownloadOptions{
		URL:       server.URL + "/cover.jpg",
		OutputDir: env.RootDir(),
		Filename:  "Dune - cover.jpg",
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.Downloaded)
	assert.Equal(t, 1, requests)
	env.RequireFileExists("Dune - cover.jpg")

	// A second call without Force reuses the existing file.
	result, err = DownloadCover(context.Background(), CoverDownloadOptions{
		URL:       server.URL + "/cover.jpg",
		OutputDir: env.RootDir(),
		Filename:  "Dune - cover.jpg",
	})
	require.NoError(t, err)
	assert.False(t, result.Downloaded)
	assert.Equal(t, 1, requests)
}

func TestDownloadCoverResizesWideImages(t *testing.T) {
	env := testutil.NewTestEnv(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write(testJPEG(t, 1200, 1800))
	}))
	defer server.Close()

	result, err := DownloadCover(context.Background(), CoverDownloadOptions{
		URL:       server.URL,
		OutputDir: env.RootDir(),
		Filename:  "big - cover.jpg",
		MaxWidth:  300,
	})
	require.NoError(t, err)
	assert.True(t, result.Downloaded)

	img, err := imaging.Open(result.LocalPath)
	require.NoError(t, err)
	assert.Equal(t, 300, img.Bounds().Dx())
}

func TestDownloadCoverEmptyURL(t *testing.T) {
	result, err := DownloadCover(context.Background(), CoverDownloadOptions{})
	assert.NoError(t, err)
	assert.Nil(t, result)
}

func TestDownloadCoverServerError(t *testing.T) {
	env := testutil.NewTestEnv(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := DownloadCover(context.Background(), CoverDownloadOptions{
		URL:       server.URL,
		OutputDir: env.RootDir(),
		Filename:  "missing - cover.jpg",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 404")
	env.RequireFileNotExists("missing - cover.jpg")
}

func TestBuildCoverFilename(t *testing.T) {
	assert.Equal(t, "Dune - Messiah - cover.jpg", BuildCoverFilename("Dune: Messiah"))
}
