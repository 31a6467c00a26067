package spectrogram

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// FileSource reads a plain-text spectrogram file format: one line per
// frequency row, whitespace-separated decimal magnitudes, first line
// skipped as a header. Once every row has been read, the rows are
// transposed to time-major columns so Next can hand back one complete
// (time_index, magnitude_vector) atomically, per the Source contract.
//
// Because the on-disk layout is frequency-major (one line per bin)
// while the consumer wants time-major columns, FileSource must read
// the whole file before it can emit the first column — true streaming
// would require a column-major file format, which this layout does
// not provide. This is the one Source implementation that can't
// avoid buffering the full matrix; the device-backed Source in
// device.go genuinely streams.
type FileSource struct {
	Matrix
}

// ClipColumns optionally restricts every row to [lo, hi) columns
// before parsing, for noisy query files that should be clipped to a
// fixed column window.
type ClipColumns struct {
	Lo, Hi int
	Enable bool
}

// ReadFile parses r as the plain-text spectrogram file format. An
// empty file (after the header) yields an empty Source, matching
// the "empty spectrogram -> empty constellation" boundary case.
func ReadFile(r io.Reader, clip ClipColumns) (*FileSource, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	if !scanner.Scan() {
		return &FileSource{}, nil
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("spectrogram: reading header: %w", err)
	}

	var rows [][]float32
	rowNum := 0
	for scanner.Scan() {
		rowNum++
		fields := strings.Fields(scanner.Text())
		if clip.Enable {
			lo, hi := clip.Lo, clip.Hi
			if lo < 0 {
				lo = 0
			}
			if hi > len(fields) {
				hi = len(fields)
			}
			if lo < hi {
				fields = fields[lo:hi]
			} else {
				fields = nil
			}
		}

		row := make([]float32, len(fields))
		for i, f := range fields {
			v, err := strconv.ParseFloat(f, 32)
			if err != nil {
				return nil, fmt.Errorf("spectrogram: row %d: non-numeric token %q: %w", rowNum, f, err)
			}
			row[i] = float32(v)
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("spectrogram: reading rows: %w", err)
	}

	if len(rows) == 0 {
		return &FileSource{}, nil
	}

	// Each row is one frequency bin (F rows); each row's columns are
	// time samples (T columns). Transpose to the time-major [][]float32
	// the Source interface expects: cols[t][f].
	numFreqBins := len(rows)
	numTimeSamples := len(rows[0])
	for i, row := range rows {
		if len(row) != numTimeSamples {
			return nil, fmt.Errorf("spectrogram: ragged rows: row 0 has %d columns, row %d has %d", numTimeSamples, i, len(row))
		}
	}

	cols := make([][]float32, numTimeSamples)
	for t := 0; t < numTimeSamples; t++ {
		col := make([]float32, numFreqBins)
		for f := 0; f < numFreqBins; f++ {
			col[f] = rows[f][t]
		}
		cols[t] = col
	}

	return &FileSource{Matrix{cols: cols}}, nil
}
