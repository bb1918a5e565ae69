// Package exporter writes aggregated metadata back to the library as JSON
// sidecar files. The sidecar uses the canonical field names, so a later
// run's sidecar provider can read it straight back in.
package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/lepinkainen/calliope/internal/canonical"
	"github.com/lepinkainen/calliope/internal/fileutil"
)

// Options configures an export run.
type Options struct {
	// Overwrite replaces an existing sidecar instead of skipping it.
	Overwrite bool
	// DownloadCover fetches the cover image next to the audio file.
	DownloadCover bool
	// CoverMaxWidth bounds the stored cover width; 0 means the default.
	CoverMaxWidth int
}

// Result reports what an export actually did.
type Result struct {
	SidecarPath     string
	SidecarWritten  bool
	CoverPath       string
	CoverDownloaded bool
}

// Exporter writes canonical metadata sidecars.
type Exporter struct {
	opts Options
}

// New creates an exporter.
func New(opts Options) *Exporter {
	return &Exporter{opts: opts}
}

// Export writes the book's sidecar next to the audio file and, when
// enabled, downloads its cover. A cover failure does not fail the export.
func (e *Exporter) Export(ctx context.Context, book *canonical.Book, audioPath string) (*Result, error) {
	if book == nil {
		return nil, fmt.Errorf("nothing to export")
	}

	result := &Result{
		SidecarPath: fileutil.SidecarPath(audioPath),
	}

	written, err := fileutil.WriteJSONFile(book, result.SidecarPath, e.opts.Overwrite)
	if err != nil {
		return nil, fmt.Errorf("write sidecar: %w", err)
	}
	result.SidecarWritten = written

	if e.opts.DownloadCover && book.CoverURL != "" && book.Title != "" {
		cover, err := fileutil.DownloadCover(ctx, fileutil.CoverDownloadOptions{
			URL:       book.CoverURL,
			OutputDir: filepath.Dir(audioPath),
			Filename:  fileutil.BuildCoverFilename(book.Title),
			MaxWidth:  e.opts.CoverMaxWidth,
			Force:     e.opts.Overwrite,
		})
		if err != nil {
			slog.Warn("Cover download failed", "title", book.Title, "error", err)
		} else if cover != nil {
			result.CoverPath = cover.LocalPath
			result.CoverDownloaded = cover.Downloaded
		}
	}

	return result, nil
}
