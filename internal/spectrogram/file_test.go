package spectrogram

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadFileTransposesFrequencyMajorToTimeMajor(t *testing.T) {
	// header line, then 2 frequency rows of 3 time samples each
	input := "header\n1 2 3\n4 5 6\n"

	src, err := ReadFile(strings.NewReader(input), ClipColumns{})
	require.NoError(t, err)
	assert.Equal(t, 2, src.Width())

	_, col0, ok := src.Next()
	require.True(t, ok)
	assert.Equal(t, []float32{1, 4}, col0)

	_, col1, ok := src.Next()
	require.True(t, ok)
	assert.Equal(t, []float32{2, 5}, col1)

	_, col2, ok := src.Next()
	require.True(t, ok)
	assert.Equal(t, []float32{3, 6}, col2)

	_, _, ok = src.Next()
	assert.False(t, ok)
}

func TestReadFileEmptyAfterHeaderYieldsEmptySource(t *testing.T) {
	src, err := ReadFile(strings.NewReader("header only\n"), ClipColumns{})
	require.NoError(t, err)
	assert.Equal(t, 0, src.Width())
	_, _, ok := src.Next()
	assert.False(t, ok)
}

func TestReadFileEmptyInputYieldsEmptySource(t *testing.T) {
	src, err := ReadFile(strings.NewReader(""), ClipColumns{})
	require.NoError(t, err)
	assert.Equal(t, 0, src.Width())
}

func TestReadFileRejectsRaggedRows(t *testing.T) {
	input := "header\n1 2 3\n4 5\n"
	_, err := ReadFile(strings.NewReader(input), ClipColumns{})
	assert.Error(t, err)
}

func TestReadFileRejectsNonNumericTokens(t *testing.T) {
	input := "header\n1 x 3\n"
	_, err := ReadFile(strings.NewReader(input), ClipColumns{})
	assert.Error(t, err)
}

func TestReadFileClipColumns(t *testing.T) {
	input := "header\n1 2 3 4 5\n6 7 8 9 10\n"
	src, err := ReadFile(strings.NewReader(input), ClipColumns{Enable: true, Lo: 1, Hi: 3})
	require.NoError(t, err)

	_, col0, ok := src.Next()
	require.True(t, ok)
	assert.Equal(t, []float32{2, 7}, col0)

	_, col1, ok := src.Next()
	require.True(t, ok)
	assert.Equal(t, []float32{3, 8}, col1)

	_, _, ok = src.Next()
	assert.False(t, ok)
}
