package songlist

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSkipsEmptyLines(t *testing.T) {
	input := "songs/a.spectro\n\nsongs/b.spectro\n  \nsongs/c.spectro\n"
	entries, err := Load(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "songs/a.spectro", entries[0].Name)
	assert.Equal(t, entries[0].Name, entries[0].Path)
}

func TestLoadEmptyInput(t *testing.T) {
	entries, err := Load(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLoadManifestParsesNameAndPath(t *testing.T) {
	data := []byte(`[{"name":"a","path":"songs/a.spectro"},{"name":"b","path":"songs/b.spectro"}]`)
	entries, err := LoadManifest(data)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "a", entries[0].Name)
	assert.Equal(t, "songs/a.spectro", entries[0].Path)
	assert.Equal(t, "b", entries[1].Name)
}

func TestLoadManifestRejectsInvalidJSON(t *testing.T) {
	_, err := LoadManifest([]byte(`not json`))
	assert.Error(t, err)
}

func TestLoadManifestRejectsMissingFields(t *testing.T) {
	_, err := LoadManifest([]byte(`[{"name":"a"}]`))
	assert.Error(t, err)
}

func TestLoadManifestEmptyArray(t *testing.T) {
	entries, err := LoadManifest([]byte(`[]`))
	require.NoError(t, err)
	assert.Empty(t, entries)
}
