// Package database defines the multi-valued fingerprint store: a
// key -> list<(song_id, anchor_time)> mapping with expected O(1)
// lookup, plus a song table
// tracking each enrolled song's name and fingerprint count. Insertion
// is append-only; duplicate (key, value) pairs are allowed and
// meaningful, since multiple anchors in the same song can generate
// identical keys.
package database

import (
	"constellation/internal/fingerprint"
)

// SongInfo is the side-table entry for one enrolled song.
type SongInfo struct {
	ID               uint16
	Name             string
	FingerprintCount int
}

// Database is the interface every backend (in-memory, sqlite,
// mongo) implements. Writes are serialized by the caller: enrollment
// runs one song at a time to completion before starting the next, so
// no implementation needs internal locking.
type Database interface {
	// RegisterSong allocates a new dense song_id (starting at 1) for
	// name and returns it.
	RegisterSong(name string) (id uint16, err error)

	// Insert appends one fingerprint entry. Duplicate (key, value)
	// pairs are allowed.
	Insert(key fingerprint.Key, value fingerprint.Value) error

	// InsertBatch appends many entries; implementations may use this
	// to batch writes more efficiently than repeated Insert calls.
	InsertBatch(entries []fingerprint.Entry) error

	// Lookup returns every value stored under key, in insertion order.
	Lookup(key fingerprint.Key) ([]fingerprint.Value, error)

	// SongByID resolves a song_id to its SongInfo.
	SongByID(id uint16) (SongInfo, bool, error)

	// Songs returns every enrolled song, in song_id order.
	Songs() ([]SongInfo, error)

	// Close releases any underlying resources.
	Close() error
}
