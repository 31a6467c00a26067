package spectrogram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatrixNextInOrder(t *testing.T) {
	cols := [][]float32{{1, 2}, {3, 4}, {5, 6}}
	m := NewMatrix(cols)

	assert.Equal(t, 2, m.Width())

	for i := 0; i < 3; i++ {
		tIdx, col, ok := m.Next()
		assert.True(t, ok)
		assert.Equal(t, i, tIdx)
		assert.Equal(t, cols[i], col)
	}

	_, _, ok := m.Next()
	assert.False(t, ok, "source must report exhaustion once every column is consumed")
}

func TestMatrixWidthOfEmptySource(t *testing.T) {
	m := NewMatrix(nil)
	assert.Equal(t, 0, m.Width())
	_, _, ok := m.Next()
	assert.False(t, ok)
}

func TestDrainCollectsAllColumns(t *testing.T) {
	cols := [][]float32{{1}, {2}, {3}}
	m := NewMatrix(cols)
	out := Drain(m)

	require.Len(t, out, 3)
	for i, c := range out {
		assert.Equal(t, i, c.Time)
		assert.Equal(t, cols[i], c.Data)
	}
}
