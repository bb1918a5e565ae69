package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/lepinkainen/calliope/internal/fileutil"
	"github.com/lepinkainen/calliope/internal/metadata"
)

// sidecarConfidence applies to every sidecar field: the file was written
// by an earlier run or another tool, so it is trusted less than a fresh
// API answer but more than embedded tags.
const sidecarConfidence = 0.8

// Sidecar reads a previously exported metadata sidecar, either pre-loaded
// into the lookup or from the JSON file next to the audio file.
type Sidecar struct{}

// NewSidecar creates the sidecar provider.
func NewSidecar() *Sidecar {
	return &Sidecar{}
}

func (p *Sidecar) Name() string        { return "sidecar" }
func (p *Sidecar) Priority() int       { return 20 }
func (p *Sidecar) Kind() metadata.Kind { return metadata.KindLocal }
func (p *Sidecar) Override() bool      { return false }

func (p *Sidecar) CanLookup(lookup metadata.Lookup, idType metadata.IDType) bool {
	if lookup.Sidecar != nil {
		return true
	}
	return lookup.Path != "" && fileutil.FileExists(fileutil.SidecarPath(lookup.Path))
}

func (p *Sidecar) Fetch(ctx context.Context, lookup metadata.Lookup, idType metadata.IDType) (*metadata.Result, error) {
	data := lookup.Sidecar
	if data == nil {
		path := fileutil.SidecarPath(lookup.Path)
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read sidecar %s: %w", path, err)
		}
		if err := json.Unmarshal(raw, &data); err != nil {
			return nil, fmt.Errorf("parse sidecar %s: %w", path, err)
		}
	}

	result := metadata.NewResult(p.Name())
	for key, value := range data {
		name := metadata.FieldName(key)
		if !metadata.IsCanonical(name) || value == nil {
			continue
		}
		if name == metadata.FieldSeriesPosition {
			if s, ok := positionString(value); ok && s != "" {
				result.MustSetField(name, s, sidecarConfidence)
			}
			continue
		}
		result.MustSetField(name, value, sidecarConfidence)
	}

	return result, nil
}
