package providers

import (
	"context"
	"strings"

	"github.com/lepinkainen/calliope/internal/mediainfo"
	"github.com/lepinkainen/calliope/internal/metadata"
)

// MediaInfo measures the audio file itself via the mediainfo CLI. It is
// authoritative for technical fields and supplies low-confidence title
// and author guesses from embedded tags.
type MediaInfo struct {
	inspector *mediainfo.Inspector
}

// NewMediaInfo creates the mediainfo provider.
func NewMediaInfo(inspector *mediainfo.Inspector) *MediaInfo {
	return &MediaInfo{inspector: inspector}
}

func (p *MediaInfo) Name() string        { return "mediainfo" }
func (p *MediaInfo) Priority() int       { return 30 }
func (p *MediaInfo) Kind() metadata.Kind { return metadata.KindLocal }
func (p *MediaInfo) Override() bool      { return false }

// CanLookup needs a file to inspect; the id type is irrelevant.
func (p *MediaInfo) CanLookup(lookup metadata.Lookup, idType metadata.IDType) bool {
	return lookup.Path != "" && p.inspector.Available()
}

func (p *MediaInfo) Fetch(ctx context.Context, lookup metadata.Lookup, idType metadata.IDType) (*metadata.Result, error) {
	report, err := p.inspector.Inspect(ctx, lookup.Path)
	if err != nil {
		return nil, err
	}

	result := metadata.NewResult(p.Name())

	info := report.Summary()
	setString(result, metadata.FieldContainer, info.Container, 1.0)
	setString(result, metadata.FieldCodec, info.Codec, 1.0)
	if info.DurationSeconds > 0 {
		result.MustSetField(metadata.FieldDurationSeconds, info.DurationSeconds, 1.0)
	}
	if info.Bitrate > 0 {
		result.MustSetField(metadata.FieldBitrate, info.Bitrate, 1.0)
	}
	if info.Channels > 0 {
		result.MustSetField(metadata.FieldChannels, info.Channels, 1.0)
	}

	// Embedded tags are whatever the ripper wrote; treat as weak hints.
	if general := report.General(); general != nil {
		setString(result, metadata.FieldTitle, strings.TrimSpace(general.Album), 0.3)
		if performer := strings.TrimSpace(general.Performer); performer != "" {
			result.MustSetField(metadata.FieldAuthors, []string{performer}, 0.2)
		}
	}

	return result, nil
}
