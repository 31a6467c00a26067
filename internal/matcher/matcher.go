// Package matcher implements the two-level coincidence histogram that
// converts a query fingerprint stream into a per-song score: first a
// fine-grained count of how many fingerprints align at each exact
// (song, db_anchor_time, query_anchor_time) offset, then a coarse
// sum that only admits buckets whose count reaches the target-zone
// size. A single matching fingerprint means nothing on its own —
// random collisions between 48-bit keys are common in a database of a
// few million entries. A full target zone matching at the same offset
// means the anchor and all Z downstream peaks lined up simultaneously,
// which is astronomically unlikely by chance.
package matcher

import (
	"constellation/internal/database"
	"constellation/internal/fingerprint"
)

// Score is one song's matching result: Count is the number of
// fingerprints contributed by target-zone-matched buckets; NumHashes
// is the song's total enrolled fingerprint count, used by the ranker
// to normalize away a length bias.
type Score struct {
	Count     int
	NumHashes int
}

// coincidenceKey packs (song_id, db_anchor_time, query_anchor_time)
// into one uint64 for use as a map key, matching the reference
// matcher's keying scheme. Keying on the absolute (a_t, q_t) pair
// rather than on the offset a_t-q_t avoids false positives from songs
// that happen to be self-similar at multiple offsets.
func coincidenceKey(songID uint16, dbAnchorTime, queryAnchorTime uint16) uint64 {
	k := uint64(songID)
	k = k<<16 | uint64(dbAnchorTime)
	k = k<<16 | uint64(queryAnchorTime)
	return k
}

// Match runs the two-level histogram over query against db, returning
// a score per song_id that appeared in at least one target-zone-sized
// bucket. Songs that matched nothing are absent from the result
// (callers wanting an explicit zero for every enrolled song should
// merge against database.Songs()).
func Match(query []fingerprint.Entry, db database.Database, targetZoneSize int) (map[uint16]Score, error) {
	counts := make(map[uint64]uint8)

	for _, q := range query {
		hits, err := db.Lookup(q.Key)
		if err != nil {
			return nil, err
		}
		for _, hit := range hits {
			key := coincidenceKey(hit.SongID, hit.AnchorTime, q.Value.AnchorTime)
			if counts[key] < 0xFF {
				counts[key]++
			}
		}
	}

	scores := make(map[uint16]Score)
	for key, count := range counts {
		if int(count) < targetZoneSize {
			continue
		}
		songID := uint16(key >> 32)

		s := scores[songID]
		s.Count += int(count)
		scores[songID] = s
	}

	for songID, s := range scores {
		info, ok, err := db.SongByID(songID)
		if err != nil {
			return nil, err
		}
		if ok {
			s.NumHashes = info.FingerprintCount
			scores[songID] = s
		}
	}

	return scores, nil
}
