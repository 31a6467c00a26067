package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"constellation/internal/fingerprint"
)

func TestMemoryRegisterSongStartsAtOne(t *testing.T) {
	db := NewMemory()
	id, err := db.RegisterSong("first")
	require.NoError(t, err)
	assert.Equal(t, uint16(1), id)
}

func TestMemoryInsertPanicsOnUnregisteredSong(t *testing.T) {
	db := NewMemory()
	assert.Panics(t, func() {
		_ = db.Insert(fingerprint.Pack(1, 2, 3), fingerprint.Value{SongID: 99})
	})
}

func TestMemoryInsertPanicsOnQueryReservedID(t *testing.T) {
	db := NewMemory()
	assert.Panics(t, func() {
		_ = db.Insert(fingerprint.Pack(1, 2, 3), fingerprint.Value{SongID: 0})
	})
}

func TestMemoryLookupReturnsAllValuesForKey(t *testing.T) {
	db := NewMemory()
	id1, _ := db.RegisterSong("a")
	id2, _ := db.RegisterSong("b")

	key := fingerprint.Pack(1, 2, 3)
	require.NoError(t, db.Insert(key, fingerprint.Value{SongID: id1, AnchorTime: 1}))
	require.NoError(t, db.Insert(key, fingerprint.Value{SongID: id2, AnchorTime: 2}))

	got, err := db.Lookup(key)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestMemorySongsEmptyWhenNoneRegistered(t *testing.T) {
	db := NewMemory()
	songs, err := db.Songs()
	require.NoError(t, err)
	assert.Empty(t, songs)
}

func TestMemorySongByIDUnknown(t *testing.T) {
	db := NewMemory()
	_, ok, err := db.SongByID(42)
	require.NoError(t, err)
	assert.False(t, ok)
}
