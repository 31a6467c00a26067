// Package config holds the single tunable configuration record threaded
// through the peak extractor, fingerprint encoder, and matcher. It
// replaces the compile-time #define constants of the original engine
// with one immutable record passed by reference: test fixtures can vary
// parameters without recompiling.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// PruningScheme selects the statistical rule stage B of the peak
// extractor uses to decide whether a raw peak survives.
type PruningScheme int

const (
	// SchemeStdDev keeps a peak when ampl > mean + K*stddev within its
	// window and band. This is the deployed scheme.
	SchemeStdDev PruningScheme = iota
	// SchemeMeanRatio keeps a peak when ampl > C*mean. Historical
	// variants used C in [1.4, 2.3]; kept for compatibility testing.
	SchemeMeanRatio
)

// Config is the immutable set of tunables for one enrollment or query
// pipeline run. Zero value is not meaningful; use Default().
type Config struct {
	// NFFT is the width of the spectrogram (F in the data model): the
	// number of frequency bins per time column.
	NFFT int

	// BandCutoffs partitions [0, NFFT) into six bands via seven cutoff
	// indices c0 < c1 < ... < c6.
	BandCutoffs [7]int

	// PruningWindow is the number of time samples (W) grouped into one
	// statistics window for stage B.
	PruningWindow int

	// PruningScheme selects which stage-B rule to apply.
	PruningScheme PruningScheme

	// StdDevCoef is K in "ampl > mean + K*stddev" (SchemeStdDev).
	StdDevCoef float64

	// MeanRatioCoef is C in "ampl > C*mean" (SchemeMeanRatio).
	MeanRatioCoef float64

	// TargetZoneSize is Z: the number of peaks after the anchor (past
	// the gap) that each anchor pairs with.
	TargetZoneSize int

	// TargetOffset is G: the gap, in constellation-index units, left
	// between an anchor and the start of its target zone.
	TargetOffset int

	// NormPow is p in score(c) = count / num_hashes^p, used by the
	// ranker to break near-ties between candidate songs.
	NormPow float64

	// Device carries the FFT-accelerator sampling parameters.
	Device DeviceConfig
}

// DeviceConfig describes the hardware FFT-accelerator sample source.
type DeviceConfig struct {
	Path                string // character device path, e.g. /dev/fft_accelerator
	SamplingFreqHz      int    // 48000
	DownSamplingFactor  int    // 512
	AmplFractionalBits  uint   // 7
	MaxRetries          int    // ~15
	RetryBackoffMillis  int    // ~1-2ms per retry
	StallTimeoutMillis  int    // ~30ms: treated as end-of-stream
}

// Default returns the deployed configuration: F=256, six bands,
// W=500, K=1.25, Z=4, G=2, p=1.0, std-dev pruning.
func Default() Config {
	return Config{
		NFFT:           256,
		BandCutoffs:    [7]int{0, 10, 20, 40, 80, 160, 256},
		PruningWindow:  500,
		PruningScheme:  SchemeStdDev,
		StdDevCoef:     1.25,
		MeanRatioCoef:  1.4,
		TargetZoneSize: 4,
		TargetOffset:   2,
		NormPow:        1.0,
		Device: DeviceConfig{
			Path:               "/dev/fft_accelerator",
			SamplingFreqHz:     48000,
			DownSamplingFactor: 512,
			AmplFractionalBits: 7,
			MaxRetries:         15,
			RetryBackoffMillis: 2,
			StallTimeoutMillis: 30,
		},
	}
}

// DefaultFile returns the configuration used by the historical
// file-based variant: F=128, narrower bands, same pruning defaults.
func DefaultFile() Config {
	c := Default()
	c.NFFT = 128
	c.BandCutoffs = [7]int{0, 5, 10, 20, 40, 80, 128}
	return c
}

// Load reads a YAML configuration file and overlays it onto Default().
// Missing fields keep their default values, so a deployment config
// only needs to name the tunables it wants to change.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks that the band table and pruning parameters are
// internally consistent.
func (c Config) Validate() error {
	for i := 1; i < len(c.BandCutoffs); i++ {
		if c.BandCutoffs[i] <= c.BandCutoffs[i-1] {
			return fmt.Errorf("config: band cutoffs must be strictly increasing, got %v", c.BandCutoffs)
		}
	}
	if c.BandCutoffs[len(c.BandCutoffs)-1] > c.NFFT {
		return fmt.Errorf("config: highest band cutoff %d exceeds NFFT %d", c.BandCutoffs[6], c.NFFT)
	}
	if c.PruningWindow <= 0 {
		return fmt.Errorf("config: pruning window must be positive, got %d", c.PruningWindow)
	}
	if c.TargetZoneSize < 0 {
		return fmt.Errorf("config: target zone size must be non-negative, got %d", c.TargetZoneSize)
	}
	return nil
}

// Band returns the band index (1..6) that freq falls into, or 0 if
// freq is out of [c0, c6).
func (c Config) Band(freq int) int {
	if freq < c.BandCutoffs[0] || freq >= c.BandCutoffs[6] {
		return 0
	}
	for b := 1; b <= 6; b++ {
		if freq < c.BandCutoffs[b] {
			return b
		}
	}
	return 0
}
