package providers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lepinkainen/calliope/internal/metadata"
	"github.com/lepinkainen/calliope/internal/testutil"
)

func TestOverrideProviderAttributes(t *testing.T) {
	p := NewOverride()
	assert.Equal(t, "override", p.Name())
	assert.Equal(t, 0, p.Priority())
	assert.Equal(t, metadata.KindLocal, p.Kind())
	assert.True(t, p.Override())
}

func TestOverrideProviderCanLookup(t *testing.T) {
	env := testutil.NewTestEnv(t)
	p := NewOverride()

	lookup := metadata.NewLookup(metadata.IDTypeASIN, testASIN).WithPath(env.Path("book.m4b"))
	assert.False(t, p.CanLookup(lookup, metadata.IDTypeASIN))

	env.WriteFileString(OverrideFilename, "title: Corrected Title\n")
	assert.True(t, p.CanLookup(lookup, metadata.IDTypeASIN))

	assert.False(t, p.CanLookup(metadata.NewLookup(metadata.IDTypeASIN, testASIN), metadata.IDTypeASIN))
}

func TestOverrideProviderFetch(t *testing.T) {
	env := testutil.NewTestEnv(t)
	env.WriteFileString(OverrideFilename, `
title: "Dune (40th Anniversary Edition)"
subtitle: ""
series_position: 2.5
authors:
  - Frank Herbert
not_a_field: ignored
`)

	p := NewOverride()
	lookup := metadata.NewLookup(metadata.IDTypeASIN, testASIN).WithPath(env.Path("book.m4b"))

	result, err := p.Fetch(context.Background(), lookup, metadata.IDTypeASIN)
	require.NoError(t, err)
	require.True(t, result.Success)

	assert.Equal(t, "Dune (40th Anniversary Edition)", result.Fields[metadata.FieldTitle])
	assert.Equal(t, 1.0, result.Confidence[metadata.FieldTitle])

	// The empty subtitle is kept: an override entry clears the field.
	subtitle, present := result.Fields[metadata.FieldSubtitle]
	assert.True(t, present)
	assert.Equal(t, "", subtitle)

	assert.Equal(t, "2.5", result.Fields[metadata.FieldSeriesPosition])

	_, hasUnknown := result.Fields[metadata.FieldName("not_a_field")]
	assert.False(t, hasUnknown)
}

func TestOverrideProviderFetchInvalidYAML(t *testing.T) {
	env := testutil.NewTestEnv(t)
	env.WriteFileString(OverrideFilename, "title: [unclosed")

	p := NewOverride()
	lookup := metadata.NewLookup(metadata.IDTypeASIN, testASIN).WithPath(env.Path("book.m4b"))

	_, err := p.Fetch(context.Background(), lookup, metadata.IDTypeASIN)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse override")
}
