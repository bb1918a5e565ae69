package providers

import (
	"context"
	"os"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lepinkainen/calliope/internal/mediainfo"
	"github.com/lepinkainen/calliope/internal/metadata"
	"github.com/lepinkainen/calliope/internal/testutil"
)

const mediainfoSample = `{
	"media": {
		"track": [
			{
				"@type": "General",
				"Format": "MPEG-4",
				"Duration": "58213.996",
				"OverallBitRate": "63373",
				"Album": "Project Hail Mary",
				"Performer": "Andy Weir"
			},
			{
				"@type": "Audio",
				"Format": "AAC",
				"Duration": "58213.996",
				"BitRate": "62847",
				"Channels": "2"
			}
		]
	}
}`

func fakeMediainfoBinary(t *testing.T, env *testutil.TestEnv, output string) string {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("fake binary helper requires a POSIX shell")
	}

	script := "#!/bin/sh\ncat <<'REPORT'\n" + output + "\nREPORT\n"
	path := env.Path("mediainfo")
	env.WriteFileString("mediainfo", script)
	require.NoError(t, os.Chmod(path, 0o755))
	return path
}

func TestMediaInfoProviderAttributes(t *testing.T) {
	p := NewMediaInfo(mediainfo.NewInspector(""))
	assert.Equal(t, "mediainfo", p.Name())
	assert.Equal(t, 30, p.Priority())
	assert.Equal(t, metadata.KindLocal, p.Kind())
	assert.False(t, p.Override())
}

func TestMediaInfoProviderCanLookup(t *testing.T) {
	env := testutil.NewTestEnv(t)
	binary := fakeMediainfoBinary(t, env, mediainfoSample)
	p := NewMediaInfo(mediainfo.NewInspector(binary))

	withPath := metadata.NewLookup(metadata.IDTypeASIN, testASIN).WithPath(env.Path("book.m4b"))
	assert.True(t, p.CanLookup(withPath, metadata.IDTypeASIN))

	noPath := metadata.NewLookup(metadata.IDTypeASIN, testASIN)
	assert.False(t, p.CanLookup(noPath, metadata.IDTypeASIN))

	missing := NewMediaInfo(mediainfo.NewInspector(env.Path("absent-binary")))
	assert.False(t, missing.CanLookup(withPath, metadata.IDTypeASIN))
}

func TestMediaInfoProviderFetch(t *testing.T) {
	env := testutil.NewTestEnv(t)
	env.WriteFileString("book.m4b", "stub audio")
	binary := fakeMediainfoBinary(t, env, mediainfoSample)

	p := NewMediaInfo(mediainfo.NewInspector(binary))
	lookup := metadata.NewLookup(metadata.IDTypeASIN, testASIN).WithPath(env.Path("book.m4b"))

	result, err := p.Fetch(context.Background(), lookup, metadata.IDTypeASIN)
	require.NoError(t, err)
	require.True(t, result.Success)

	assert.Equal(t, "MPEG-4", result.Fields[metadata.FieldContainer])
	assert.Equal(t, "AAC", result.Fields[metadata.FieldCodec])
	assert.Equal(t, 62847, result.Fields[metadata.FieldBitrate])
	assert.Equal(t, 2, result.Fields[metadata.FieldChannels])
	assert.InDelta(t, 58213.996, result.Fields[metadata.FieldDurationSeconds].(float64), 0.001)
	assert.Equal(t, 1.0, result.Confidence[metadata.FieldCodec])

	// Embedded tags are weak hints.
	assert.Equal(t, "Project Hail Mary", result.Fields[metadata.FieldTitle])
	assert.Equal(t, 0.3, result.Confidence[metadata.FieldTitle])
	assert.Equal(t, []string{"Andy Weir"}, result.Fields[metadata.FieldAuthors])
	assert.Equal(t, 0.2, result.Confidence[metadata.FieldAuthors])
}

func TestMediaInfoProviderFetchMissingFile(t *testing.T) {
	env := testutil.NewTestEnv(t)
	binary := fakeMediainfoBinary(t, env, mediainfoSample)

	p := NewMediaInfo(mediainfo.NewInspector(binary))
	lookup := metadata.NewLookup(metadata.IDTypeASIN, testASIN).WithPath(env.Path("missing.m4b"))

	_, err := p.Fetch(context.Background(), lookup, metadata.IDTypeASIN)
	require.Error(t, err)
}
