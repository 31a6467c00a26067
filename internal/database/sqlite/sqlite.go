// Package sqlite is a mattn/go-sqlite3-backed implementation of the
// database.Database interface, for enrollment that needs to persist
// across process restarts. Two tables: songs (dense song_id, name,
// fingerprint_count) and fingerprints (key, song_id, anchor_time),
// with an index on fingerprints.key so Lookup stays close to the
// in-memory map's O(1)-amortized cost, backed by SQLite's B-tree.
package sqlite

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"constellation/internal/database"
	"constellation/internal/fingerprint"
)

const schema = `
CREATE TABLE IF NOT EXISTS songs (
	id INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	fingerprint_count INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS fingerprints (
	key INTEGER NOT NULL,
	song_id INTEGER NOT NULL,
	anchor_time INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_fingerprints_key ON fingerprints(key);
`

// DB wraps a *sql.DB opened against a SQLite file, implementing
// database.Database.
type DB struct {
	conn *sql.DB
}

// Open opens (creating if necessary) a SQLite database at path and
// ensures the schema exists.
func Open(path string) (*DB, error) {
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %w", path, err)
	}
	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: applying schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

func (d *DB) RegisterSong(name string) (uint16, error) {
	res, err := d.conn.Exec(`INSERT INTO songs(name, fingerprint_count) VALUES (?, 0)`, name)
	if err != nil {
		return 0, fmt.Errorf("sqlite: registering song %q: %w", name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("sqlite: reading inserted song id: %w", err)
	}
	return uint16(id), nil
}

func (d *DB) Insert(key fingerprint.Key, value fingerprint.Value) error {
	return d.InsertBatch([]fingerprint.Entry{{Key: key, Value: value}})
}

// InsertBatch wraps the whole batch in one transaction: enrollment of
// one song inserts thousands of entries, and per-row transactions
// would dominate wall-clock time on disk-backed SQLite.
func (d *DB) InsertBatch(entries []fingerprint.Entry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := d.conn.Begin()
	if err != nil {
		return fmt.Errorf("sqlite: begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO fingerprints(key, song_id, anchor_time) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("sqlite: preparing insert: %w", err)
	}
	defer stmt.Close()

	songCounts := make(map[uint16]int)
	for _, e := range entries {
		if _, err := stmt.Exec(int64(e.Key), e.Value.SongID, e.Value.AnchorTime); err != nil {
			return fmt.Errorf("sqlite: inserting fingerprint: %w", err)
		}
		songCounts[e.Value.SongID]++
	}

	for songID, count := range songCounts {
		if _, err := tx.Exec(`UPDATE songs SET fingerprint_count = fingerprint_count + ? WHERE id = ?`, count, songID); err != nil {
			return fmt.Errorf("sqlite: updating fingerprint_count for song %d: %w", songID, err)
		}
	}

	return tx.Commit()
}

func (d *DB) Lookup(key fingerprint.Key) ([]fingerprint.Value, error) {
	rows, err := d.conn.Query(`SELECT song_id, anchor_time FROM fingerprints WHERE key = ?`, int64(key))
	if err != nil {
		return nil, fmt.Errorf("sqlite: lookup: %w", err)
	}
	defer rows.Close()

	var out []fingerprint.Value
	for rows.Next() {
		var v fingerprint.Value
		if err := rows.Scan(&v.SongID, &v.AnchorTime); err != nil {
			return nil, fmt.Errorf("sqlite: scanning lookup row: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (d *DB) SongByID(id uint16) (database.SongInfo, bool, error) {
	row := d.conn.QueryRow(`SELECT id, name, fingerprint_count FROM songs WHERE id = ?`, id)
	var info database.SongInfo
	switch err := row.Scan(&info.ID, &info.Name, &info.FingerprintCount); err {
	case nil:
		return info, true, nil
	case sql.ErrNoRows:
		return database.SongInfo{}, false, nil
	default:
		return database.SongInfo{}, false, fmt.Errorf("sqlite: reading song %d: %w", id, err)
	}
}

func (d *DB) Songs() ([]database.SongInfo, error) {
	rows, err := d.conn.Query(`SELECT id, name, fingerprint_count FROM songs ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing songs: %w", err)
	}
	defer rows.Close()

	var out []database.SongInfo
	for rows.Next() {
		var info database.SongInfo
		if err := rows.Scan(&info.ID, &info.Name, &info.FingerprintCount); err != nil {
			return nil, fmt.Errorf("sqlite: scanning song row: %w", err)
		}
		out = append(out, info)
	}
	return out, rows.Err()
}

func (d *DB) Close() error {
	return d.conn.Close()
}
