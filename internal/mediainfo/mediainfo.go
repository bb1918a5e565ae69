// Package mediainfo inspects audio files by shelling out to the mediainfo
// CLI with JSON output. All values in mediainfo's JSON are strings, so the
// track types keep them as strings and expose typed accessors.
package mediainfo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// DefaultBinary is used when no binary path is configured.
const DefaultBinary = "mediainfo"

// ErrBinaryNotFound is returned when the mediainfo binary is not on PATH.
var ErrBinaryNotFound = errors.New("mediainfo binary not found")

// Track is one track from mediainfo's JSON output.
type Track struct {
	Type           string `json:"@type"`
	Format         string `json:"Format,omitempty"`
	FormatProfile  string `json:"Format_Profile,omitempty"`
	Duration       string `json:"Duration,omitempty"`
	BitRate        string `json:"BitRate,omitempty"`
	OverallBitRate string `json:"OverallBitRate,omitempty"`
	Channels       string `json:"Channels,omitempty"`
	SamplingRate   string `json:"SamplingRate,omitempty"`
	Title          string `json:"Title,omitempty"`
	Album          string `json:"Album,omitempty"`
	Performer      string `json:"Performer,omitempty"`
}

// Report is the parsed mediainfo JSON document.
type Report struct {
	Media struct {
		Ref    string  `json:"@ref"`
		Tracks []Track `json:"track"`
	} `json:"media"`
}

// General returns the container-level track, if present.
func (r *Report) General() *Track {
	return r.trackOfType("General")
}

// FirstAudio returns the first audio track, if present.
func (r *Report) FirstAudio() *Track {
	return r.trackOfType("Audio")
}

func (r *Report) trackOfType(kind string) *Track {
	for i := range r.Media.Tracks {
		if r.Media.Tracks[i].Type == kind {
			return &r.Media.Tracks[i]
		}
	}
	return nil
}

// Info is the technical summary extracted from a report.
type Info struct {
	Container       string
	Codec           string
	DurationSeconds float64
	Bitrate         int
	Channels        int
}

// Summary extracts the technical summary from a report. Duration and
// bitrate prefer the audio track and fall back to the container values.
func (r *Report) Summary() Info {
	var info Info

	if general := r.General(); general != nil {
		info.Container = general.Format
		info.DurationSeconds = parseFloat(general.Duration)
		info.Bitrate = parseInt(general.OverallBitRate)
	}

	if audio := r.FirstAudio(); audio != nil {
		info.Codec = audio.Format
		info.Channels = parseInt(audio.Channels)
		if d := parseFloat(audio.Duration); d > 0 {
			info.DurationSeconds = d
		}
		if b := parseInt(audio.BitRate); b > 0 {
			info.Bitrate = b
		}
	}

	return info
}

func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

func parseInt(s string) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		// Some releases report fractional bitrates.
		return int(parseFloat(s))
	}
	return v
}

// Inspector runs the mediainfo binary against audio files.
type Inspector struct {
	binary string
}

// NewInspector creates an inspector using the given binary path, or
// DefaultBinary when empty.
func NewInspector(binary string) *Inspector {
	if binary == "" {
		binary = DefaultBinary
	}
	return &Inspector{binary: binary}
}

// Available reports whether the mediainfo binary can be found.
func (i *Inspector) Available() bool {
	_, err := exec.LookPath(i.binary)
	return err == nil
}

// Inspect runs mediainfo on the file and returns the parsed report.
func (i *Inspector) Inspect(ctx context.Context, path string) (*Report, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("file not found for mediainfo: %w", err)
	}
	if _, err := exec.LookPath(i.binary); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrBinaryNotFound, i.binary)
	}

	cmd := exec.CommandContext(ctx, i.binary, "--Output=JSON", path)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	slog.Debug("Running mediainfo", "binary", i.binary, "file", path)

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("mediainfo failed: %s: %w", strings.TrimSpace(stderr.String()), err)
	}

	var report Report
	if err := json.Unmarshal(stdout.Bytes(), &report); err != nil {
		return nil, fmt.Errorf("invalid JSON from mediainfo: %w", err)
	}

	slog.Info("Got MediaInfo", "file", path, "tracks", len(report.Media.Tracks))
	return &report, nil
}
