// Package spectrogram provides a lazy (time_index, magnitude_vector)
// producer abstraction, along with two concrete sources: a plain-text
// file reader for pre-computed spectrograms, and (in device.go) a
// reader backed by the FFT-accelerator character device.
package spectrogram

// Source is a lazy, pull-based sequence of magnitude columns of fixed
// width F. A column for a given t must be delivered atomically: a
// single call returns one complete column or reports exhaustion via
// ok=false.
//
// A source hands over one column at a time rather than a fully
// materialized [][]float32. The peak extractor does not stream: it
// drains the whole source (see Drain) before running stage A.
type Source interface {
	// Width returns F, the fixed number of frequency bins per column.
	Width() int
	// Next returns the next (time_index, magnitude_vector) pair, or
	// ok=false once the source is exhausted.
	Next() (t int, col []float32, ok bool)
}

// Matrix is an in-memory Source over a fully materialized spectrogram,
// used by tests and by any caller that already has the whole song in
// memory. cols[t][f] is S[f, t] transposed to time-major for Go slice
// ergonomics: cols[t] is one time column of length F.
type Matrix struct {
	cols []([]float32)
	next int
}

// NewMatrix wraps a time-major spectrogram (cols[t][f]) as a Source.
// All columns must share the same length.
func NewMatrix(cols [][]float32) *Matrix {
	return &Matrix{cols: cols}
}

// Width returns F, inferred from the first column (0 if empty).
func (m *Matrix) Width() int {
	if len(m.cols) == 0 {
		return 0
	}
	return len(m.cols[0])
}

// Next returns the next column in order.
func (m *Matrix) Next() (int, []float32, bool) {
	if m.next >= len(m.cols) {
		return 0, nil, false
	}
	t := m.next
	col := m.cols[m.next]
	m.next++
	return t, col, true
}

// Column pairs one magnitude vector with the time index Source.Next
// reported for it. DeviceSource's time index can skip values across a
// dropped frame, so a consumer draining the whole source up front must
// carry each column's real time alongside it rather than recover it
// from slice position.
type Column struct {
	Time int
	Data []float32
}

// Drain reads every remaining column out of src in order, pairing each
// with its real time index. Used where a component genuinely needs the
// whole spectrogram at once (the peak extractor's stage B requires a
// full pass for its windowed statistics); most other consumers should
// pull from src directly.
func Drain(src Source) []Column {
	var out []Column
	for {
		t, col, ok := src.Next()
		if !ok {
			break
		}
		out = append(out, Column{Time: t, Data: col})
	}
	return out
}
