package feature

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssembleRowColumnOrder(t *testing.T) {
	text := []float64{0.1, 0.2, 0.3}
	clk := Clock{Hour: 12, Minute: 1, Second: 30, Day: "Friday", Valid: true}
	row := AssembleRow(text, 4, UnseenCode, 45, clk, 27)

	require.Len(t, row, len(text)+DenseWidth)
	assert.Equal(t, text, row[:3])
	assert.Equal(t, []float64{4, -1, 45, 12, 1, 30, 27}, row[3:])
}

func TestAssembleRowZeroFillsInvalidClock(t *testing.T) {
	row := AssembleRow([]float64{0.5}, 0, 0, 10, Clock{}, 5)
	require.Len(t, row, 1+DenseWidth)
	// hour, minute, second columns
	assert.Equal(t, []float64{0, 0, 0}, row[4:7])
}

func TestTextLength(t *testing.T) {
	assert.Equal(t, 0, TextLength(""))
	assert.Equal(t, 5, TextLength("ab cd"))
	// Runes, not bytes.
	assert.Equal(t, 2, TextLength("héy"[0:3]))
}
