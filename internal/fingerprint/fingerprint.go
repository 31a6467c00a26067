// Package fingerprint implements the combinatorial hashing scheme:
// packing (anchor_freq, target_freq, delta_t) triples into a 48-bit
// key carried in a uint64, and the anchor/target-zone pairing that
// turns a constellation into a stream of fingerprints. Callers never
// manipulate the packed bits directly — Pack/Unpack are the only way
// in or out.
package fingerprint

import (
	"fmt"
	"log"

	"constellation/internal/config"
	"constellation/internal/constellation"
)

// Key is a 48-bit packed (anchor_freq, target_freq, delta_t) triple
// carried in the low 48 bits of a uint64; the upper 16 bits are
// always zero.
type Key uint64

// Pack combines an anchor frequency, a target frequency, and a time
// delta into a single Key: (anchorFreq<<32) | (targetFreq<<16) | deltaT.
func Pack(anchorFreq, targetFreq, deltaT uint16) Key {
	return Key(uint64(anchorFreq)<<32 | uint64(targetFreq)<<16 | uint64(deltaT))
}

// Unpack reverses Pack.
func Unpack(k Key) (anchorFreq, targetFreq, deltaT uint16) {
	anchorFreq = uint16(k >> 32)
	targetFreq = uint16(k >> 16)
	deltaT = uint16(k)
	return
}

// Value is what a fingerprint key maps to in the database: the
// enrolling song and the anchor's time. The song name is NOT carried
// here — only song_id participates in matching; names are resolved from the song
// table at ranking time, cutting per-entry memory substantially.
type Value struct {
	SongID     uint16
	AnchorTime uint16
}

// Entry is one (key, value) pair emitted by Encode.
type Entry struct {
	Key   Key
	Value Value
}

// Encode pairs each eligible anchor peak in c with its target zone —
// the TargetZoneSize peaks that follow a TargetOffset gap — and emits
// one Entry per (anchor, target) pair. A peak at index i is an anchor
// iff i + TargetOffset + TargetZoneSize < len(c).
//
// delta_t is truncated to 16 bits; a pair whose true delta does not
// fit is skipped with a logged warning rather than silently wrapped.
// This indicates a configuration smell (runaway
// TargetOffset+TargetZoneSize or a malformed constellation), not a
// condition the matcher should ever see.
func Encode(c constellation.Constellation, songID uint16, cfg config.Config) []Entry {
	if cfg.TargetZoneSize <= 0 {
		return nil
	}

	n := len(c)
	var out []Entry

	for i := 0; i+cfg.TargetOffset+cfg.TargetZoneSize < n; i++ {
		anchor := c[i]

		for j := 1; j <= cfg.TargetZoneSize; j++ {
			target := c[i+cfg.TargetOffset+j]

			delta := int(target.Time) - int(anchor.Time)
			if delta < 0 || delta > 0xFFFF {
				log.Printf("[fingerprint] skipping pair at anchor time %d: delta_t %d out of range", anchor.Time, delta)
				continue
			}

			out = append(out, Entry{
				Key: Pack(anchor.Freq, target.Freq, uint16(delta)),
				Value: Value{
					SongID:     songID,
					AnchorTime: anchor.Time,
				},
			})
		}
	}

	return out
}

// MustValidSongID asserts that id is within the dense, query-reserving
// allocation scheme (0 reserved for queries, enrolled songs start at
// 1). A violation indicates corrupted enrollment bookkeeping, not bad
// input, and is the one case that must not be silently tolerated.
func MustValidSongID(id uint16, nextID uint16) {
	if id == 0 {
		panic("fingerprint: song_id 0 is reserved for queries")
	}
	if id >= nextID {
		panic(fmt.Sprintf("fingerprint: song_id %d was never assigned (next unassigned id is %d)", id, nextID))
	}
}
