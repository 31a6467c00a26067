// Package ranker sorts a matcher.Score map into a ranked candidate
// list: primary key is raw coincidence count (the target-zone filter
// already rejects unrelated songs, so any nonzero count is
// meaningful), with a length-normalized score used only to break
// near-ties between songs of very different enrolled length.
package ranker

import (
	"math"
	"sort"

	"constellation/internal/database"
	"constellation/internal/matcher"
)

// Ranked is one candidate in the final ordering.
type Ranked struct {
	SongID    uint16
	SongName  string
	Count     int
	NumHashes int
	Score     float64 // count / num_hashes^NormPow
}

// score computes count / num_hashes^p, matching the reference
// scoring function; a song with zero enrolled hashes scores zero
// rather than dividing by zero.
func score(count, numHashes int, normPow float64) float64 {
	if numHashes == 0 {
		return 0
	}
	return float64(count) / math.Pow(float64(numHashes), normPow)
}

// Rank resolves song names from songTable, computes the normalized
// score, and returns candidates sorted by (Count desc, Score desc).
// Songs with Count == 0 are still included in the full list (for
// diagnostics) but Best reports "no match" when the top entry has
// zero count.
func Rank(scores map[uint16]matcher.Score, songs []database.SongInfo, normPow float64) []Ranked {
	names := make(map[uint16]string, len(songs))
	for _, s := range songs {
		names[s.ID] = s.Name
	}

	out := make([]Ranked, 0, len(scores))
	for id, s := range scores {
		out = append(out, Ranked{
			SongID:    id,
			SongName:  names[id],
			Count:     s.Count,
			NumHashes: s.NumHashes,
			Score:     score(s.Count, s.NumHashes, normPow),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		// deterministic tie-break: insertion/song_id order, so
		// identical-score ties (e.g. two identically enrolled songs)
		// resolve the same way on every run.
		return out[i].SongID < out[j].SongID
	})

	return out
}

// Best returns the top candidate, or ok=false if ranked is empty or
// every candidate has zero count — an explicit "no match" outcome,
// reported as such rather than as an arbitrary top-of-ties.
func Best(ranked []Ranked) (Ranked, bool) {
	if len(ranked) == 0 || ranked[0].Count == 0 {
		return Ranked{}, false
	}
	return ranked[0], true
}
