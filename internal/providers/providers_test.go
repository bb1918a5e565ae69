package providers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lepinkainen/calliope/internal/audnex"
	"github.com/lepinkainen/calliope/internal/mediainfo"
)

func TestNewDefaultRegistry(t *testing.T) {
	registry := NewDefaultRegistry(audnex.NewClient(), mediainfo.NewInspector(""), "us")

	assert.Equal(t, []string{"override", "sidecar", "mediainfo", "audnex"}, registry.Names())
	assert.NotNil(t, registry.Get("audnex"))
	assert.True(t, registry.Get("override").Override())
}
