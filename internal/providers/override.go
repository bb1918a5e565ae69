package providers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/lepinkainen/calliope/internal/fileutil"
	"github.com/lepinkainen/calliope/internal/metadata"
)

// OverrideFilename is the per-book override file, living next to the
// audio file.
const OverrideFilename = "metadata.override.yaml"

// Override reads user-written corrections from a YAML file next to the
// book. It is the highest-priority provider and the only one allowed to
// assert empty values: writing `subtitle: ""` clears the subtitle no
// matter what other providers say.
type Override struct{}

// NewOverride creates the override provider.
func NewOverride() *Override {
	return &Override{}
}

func (p *Override) Name() string        { return "override" }
func (p *Override) Priority() int       { return 0 }
func (p *Override) Kind() metadata.Kind { return metadata.KindLocal }
func (p *Override) Override() bool      { return true }

func (p *Override) CanLookup(lookup metadata.Lookup, idType metadata.IDType) bool {
	return lookup.Path != "" && fileutil.FileExists(p.overridePath(lookup))
}

func (p *Override) overridePath(lookup metadata.Lookup) string {
	return filepath.Join(filepath.Dir(lookup.Path), OverrideFilename)
}

func (p *Override) Fetch(ctx context.Context, lookup metadata.Lookup, idType metadata.IDType) (*metadata.Result, error) {
	path := p.overridePath(lookup)

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read override %s: %w", path, err)
	}

	var data map[string]any
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse override %s: %w", path, err)
	}

	result := metadata.NewResult(p.Name())
	for key, value := range data {
		name := metadata.FieldName(key)
		if !metadata.IsCanonical(name) {
			continue
		}
		if s, ok := positionString(value); ok && name == metadata.FieldSeriesPosition {
			result.MustSetField(name, s, 1.0)
			continue
		}
		// nil and empty values are kept: an override entry is always
		// an intentional statement, including "this field is empty".
		result.MustSetField(name, value, 1.0)
	}

	return result, nil
}
