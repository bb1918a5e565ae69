package providers

import (
	"github.com/lepinkainen/calliope/internal/audnex"
	"github.com/lepinkainen/calliope/internal/mediainfo"
	"github.com/lepinkainen/calliope/internal/metadata"
)

// NewDefaultRegistry wires up the standard provider set: override and
// sidecar files, mediainfo inspection, and the Audnex API.
func NewDefaultRegistry(client *audnex.Client, inspector *mediainfo.Inspector, region string) *metadata.Registry {
	registry := metadata.NewRegistry()
	registry.Register(NewOverride())
	registry.Register(NewSidecar())
	registry.Register(NewMediaInfo(inspector))
	registry.Register(NewAudnex(client, region))
	return registry
}
