package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"constellation/internal/fingerprint"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestRegisterSongAssignsDenseIDs(t *testing.T) {
	db := openTestDB(t)

	id1, err := db.RegisterSong("first")
	require.NoError(t, err)
	id2, err := db.RegisterSong("second")
	require.NoError(t, err)

	assert.Equal(t, uint16(1), id1)
	assert.Equal(t, uint16(2), id2)
}

func TestInsertAndLookupRoundTrip(t *testing.T) {
	db := openTestDB(t)
	songID, err := db.RegisterSong("song")
	require.NoError(t, err)

	key := fingerprint.Pack(1, 2, 3)
	value := fingerprint.Value{SongID: songID, AnchorTime: 42}
	require.NoError(t, db.Insert(key, value))

	got, err := db.Lookup(key)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, value, got[0])
}

func TestInsertBatchUpdatesFingerprintCount(t *testing.T) {
	db := openTestDB(t)
	songID, err := db.RegisterSong("song")
	require.NoError(t, err)

	entries := []fingerprint.Entry{
		{Key: fingerprint.Pack(1, 2, 3), Value: fingerprint.Value{SongID: songID, AnchorTime: 0}},
		{Key: fingerprint.Pack(4, 5, 6), Value: fingerprint.Value{SongID: songID, AnchorTime: 1}},
	}
	require.NoError(t, db.InsertBatch(entries))

	info, ok, err := db.SongByID(songID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 2, info.FingerprintCount)
}

func TestLookupUnknownKeyReturnsEmpty(t *testing.T) {
	db := openTestDB(t)
	got, err := db.Lookup(fingerprint.Pack(9, 9, 9))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSongsListsInIDOrder(t *testing.T) {
	db := openTestDB(t)
	_, err := db.RegisterSong("a")
	require.NoError(t, err)
	_, err = db.RegisterSong("b")
	require.NoError(t, err)

	songs, err := db.Songs()
	require.NoError(t, err)
	require.Len(t, songs, 2)
	assert.Equal(t, "a", songs[0].Name)
	assert.Equal(t, "b", songs[1].Name)
}
