package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"constellation/internal/database"
	"constellation/internal/fingerprint"
)

func mustInsert(t *testing.T, db database.Database, songID uint16, entries []fingerprint.Entry) {
	t.Helper()
	for i := range entries {
		entries[i].Value.SongID = songID
	}
	require.NoError(t, db.InsertBatch(entries))
}

func TestMatchRejectsBelowTargetZoneSize(t *testing.T) {
	db := database.NewMemory()
	songID, err := db.RegisterSong("only-song")
	require.NoError(t, err)

	// Enrolled: a single fingerprint at anchor_time=0.
	mustInsert(t, db, songID, []fingerprint.Entry{
		{Key: fingerprint.Pack(1, 2, 3), Value: fingerprint.Value{AnchorTime: 0}},
	})

	// Query reproduces the same key at the same relative anchor_time,
	// but only once — one coincidence can't satisfy a target zone of 4.
	query := []fingerprint.Entry{
		{Key: fingerprint.Pack(1, 2, 3), Value: fingerprint.Value{AnchorTime: 100}},
	}

	scores, err := Match(query, db, 4)
	require.NoError(t, err)
	assert.Empty(t, scores, "a single hash collision must not register as a match")
}

func TestMatchAcceptsFullTargetZone(t *testing.T) {
	db := database.NewMemory()
	songID, err := db.RegisterSong("matching-song")
	require.NoError(t, err)

	// Enrolled anchor at db time 50, with a 4-peak target zone, all
	// sharing the same db anchor_time (one fingerprint database
	// entry per target-zone pair, all keyed off the same anchor).
	enrolled := []fingerprint.Entry{
		{Key: fingerprint.Pack(1, 2, 10), Value: fingerprint.Value{AnchorTime: 50}},
		{Key: fingerprint.Pack(1, 3, 20), Value: fingerprint.Value{AnchorTime: 50}},
		{Key: fingerprint.Pack(1, 4, 30), Value: fingerprint.Value{AnchorTime: 50}},
		{Key: fingerprint.Pack(1, 5, 40), Value: fingerprint.Value{AnchorTime: 50}},
	}
	mustInsert(t, db, songID, enrolled)

	// Query reproduces all 4 keys at the same query anchor_time, so
	// all 4 coincidences land in the same (song, 50, queryAnchor) bucket.
	query := []fingerprint.Entry{
		{Key: fingerprint.Pack(1, 2, 10), Value: fingerprint.Value{AnchorTime: 9}},
		{Key: fingerprint.Pack(1, 3, 20), Value: fingerprint.Value{AnchorTime: 9}},
		{Key: fingerprint.Pack(1, 4, 30), Value: fingerprint.Value{AnchorTime: 9}},
		{Key: fingerprint.Pack(1, 5, 40), Value: fingerprint.Value{AnchorTime: 9}},
	}

	scores, err := Match(query, db, 4)
	require.NoError(t, err)
	require.Contains(t, scores, songID)
	assert.Equal(t, 4, scores[songID].Count)
	assert.Equal(t, 4, scores[songID].NumHashes)
}

func TestMatchUnknownKeyYieldsNoScores(t *testing.T) {
	db := database.NewMemory()
	query := []fingerprint.Entry{
		{Key: fingerprint.Pack(9, 9, 9), Value: fingerprint.Value{AnchorTime: 0}},
	}
	scores, err := Match(query, db, 1)
	require.NoError(t, err)
	assert.Empty(t, scores)
}
