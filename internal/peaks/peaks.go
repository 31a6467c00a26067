// Package peaks implements the two-stage constellation extractor: a
// per-column, per-band local-maximum filter (stage A), followed by a
// time-windowed statistical pruning pass (stage B). The two-pass
// structure is required — computing statistics and applying a
// threshold in the same pass would bias the statistics with
// not-yet-classified samples.
package peaks

import (
	"math"

	"constellation/internal/config"
	"constellation/internal/constellation"
	"constellation/internal/spectrogram"
)

// rawPeak is the transient, pre-pruning form of a detected local
// maximum: carries amplitude so stage B can compute per-band
// statistics, but never escapes this package.
type rawPeak struct {
	freq uint16
	time uint16
	ampl float32
}

// Extract runs stage A then stage B over src and returns the
// resulting constellation in non-decreasing time order.
func Extract(src spectrogram.Source, cfg config.Config) constellation.Constellation {
	cols := spectrogram.Drain(src)
	raw := stageA(cols, cfg)
	return stageB(raw, cfg)
}

// stageA finds, for each column index t in [1, T-2), the strongest
// raw peak per band among the column's strict 4-neighbour local
// maxima (edges treated as -inf). Ties within a band in the same
// column are broken by first occurrence (increasing f), matching the
// deployed variant. A found peak is tagged with cols[t].Time, the
// producer's real time index, not the slice position t — the two
// diverge once a dropped device frame has been skipped upstream.
func stageA(cols []spectrogram.Column, cfg config.Config) []rawPeak {
	T := len(cols)
	if T < 3 {
		return nil
	}
	F := cfg.NFFT

	var out []rawPeak
	for t := 1; t < T-2; t++ {
		var bestAmpl [7]float32
		var bestFreq [7]uint16
		var found [7]bool

		cur := cols[t].Data
		prev := cols[t-1].Data
		nxt := cols[t+1].Data

		for f := 0; f < F-1 && f < len(cur); f++ {
			if f >= len(prev) || f >= len(nxt) {
				continue
			}
			center := cur[f]

			isPeak := center > prev[f] && center > nxt[f]
			if isPeak && f >= 1 {
				isPeak = center > cur[f-1]
			}
			if isPeak && f+1 < F && f+1 < len(cur) {
				isPeak = center > cur[f+1]
			}
			if !isPeak {
				continue
			}

			b := cfg.Band(f)
			if b == 0 {
				continue
			}
			if !found[b] || center > bestAmpl[b] {
				bestAmpl[b] = center
				bestFreq[b] = uint16(f)
				found[b] = true
			}
		}

		for b := 1; b <= 6; b++ {
			if found[b] {
				out = append(out, rawPeak{
					freq: bestFreq[b],
					time: uint16(cols[t].Time),
					ampl: bestAmpl[b],
				})
			}
		}
	}
	return out
}

// stageB groups raw into consecutive windows of cfg.PruningWindow time
// samples, computes per-band mean and standard deviation within each
// window, and keeps a peak iff it clears the configured threshold.
// Bands with zero raw peaks in a window contribute nothing.
func stageB(raw []rawPeak, cfg config.Config) constellation.Constellation {
	if len(raw) == 0 {
		return nil
	}

	var out constellation.Constellation

	windowStart := 0
	for windowStart < len(raw) {
		windowEndTime := int(raw[windowStart].time) + cfg.PruningWindow

		end := windowStart
		for end < len(raw) && int(raw[end].time) < windowEndTime {
			end++
		}

		window := raw[windowStart:end]

		var sum, sumSq [7]float64
		var count [7]int
		for _, p := range window {
			b := cfg.Band(int(p.freq))
			sum[b] += float64(p.ampl)
			sumSq[b] += float64(p.ampl) * float64(p.ampl)
			count[b]++
		}

		var mean, stddev [7]float64
		for b := 1; b <= 6; b++ {
			if count[b] == 0 {
				continue
			}
			mean[b] = sum[b] / float64(count[b])
			variance := sumSq[b]/float64(count[b]) - mean[b]*mean[b]
			if variance < 0 {
				variance = 0
			}
			stddev[b] = math.Sqrt(variance)
		}

		for _, p := range window {
			b := cfg.Band(int(p.freq))
			if count[b] == 0 {
				continue
			}

			var threshold float64
			switch cfg.PruningScheme {
			case config.SchemeMeanRatio:
				threshold = cfg.MeanRatioCoef * mean[b]
			default:
				threshold = mean[b] + cfg.StdDevCoef*stddev[b]
			}

			if float64(p.ampl) > threshold {
				out = append(out, constellation.Peak{Freq: p.freq, Time: p.time})
			}
		}

		windowStart = end
	}

	return out
}
