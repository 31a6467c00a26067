package fingerprint

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"constellation/internal/config"
	"constellation/internal/constellation"
)

func TestPackUnpackRoundTrip(t *testing.T) {
	cases := []struct {
		anchor, target, delta uint16
	}{
		{0, 0, 0},
		{65535, 65535, 65535},
		{440, 880, 100},
		{1, 0, 0},
	}
	for _, tc := range cases {
		k := Pack(tc.anchor, tc.target, tc.delta)
		gotAnchor, gotTarget, gotDelta := Unpack(k)
		assert.Equal(t, tc.anchor, gotAnchor)
		assert.Equal(t, tc.target, gotTarget)
		assert.Equal(t, tc.delta, gotDelta)
	}
}

func TestPackUpperBitsAreZero(t *testing.T) {
	k := Pack(65535, 65535, 65535)
	assert.LessOrEqual(t, uint64(k), uint64(1)<<48-1)
}

func TestEncodePairsAnchorsWithTargetZone(t *testing.T) {
	cfg := config.Default()
	cfg.TargetOffset = 1
	cfg.TargetZoneSize = 2

	c := constellation.Constellation{
		{Freq: 10, Time: 0},
		{Freq: 20, Time: 1}, // gap
		{Freq: 30, Time: 2}, // target 1 of anchor 0
		{Freq: 40, Time: 3}, // target 2 of anchor 0
	}

	entries := Encode(c, 1, cfg)
	assert.Len(t, entries, 2)

	af, tf, dt := Unpack(entries[0].Key)
	assert.Equal(t, uint16(10), af)
	assert.Equal(t, uint16(30), tf)
	assert.Equal(t, uint16(2), dt)
	assert.Equal(t, uint16(1), entries[0].Value.SongID)
	assert.Equal(t, uint16(0), entries[0].Value.AnchorTime)
}

func TestEncodeEmptyConstellationYieldsNoFingerprints(t *testing.T) {
	cfg := config.Default()
	entries := Encode(nil, 1, cfg)
	assert.Empty(t, entries)
}

func TestEncodeZeroTargetZoneSizeYieldsNoFingerprints(t *testing.T) {
	cfg := config.Default()
	cfg.TargetZoneSize = 0
	c := constellation.Constellation{{Freq: 1, Time: 0}, {Freq: 2, Time: 1}}
	assert.Empty(t, Encode(c, 1, cfg))
}

func TestMustValidSongIDPanicsOnReservedID(t *testing.T) {
	assert.Panics(t, func() { MustValidSongID(0, 5) })
}

func TestMustValidSongIDPanicsOnUnassignedID(t *testing.T) {
	assert.Panics(t, func() { MustValidSongID(5, 5) })
}

func TestMustValidSongIDAcceptsAssignedID(t *testing.T) {
	assert.NotPanics(t, func() { MustValidSongID(3, 5) })
}
