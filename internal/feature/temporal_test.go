package feature

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClockFrom(t *testing.T) {
	// 2024-03-04 was a Monday.
	ts := time.Date(2024, 3, 4, 13, 37, 9, 0, time.UTC)
	clk := ClockFrom(ts)
	assert.True(t, clk.Valid)
	assert.Equal(t, 13, clk.Hour)
	assert.Equal(t, 37, clk.Minute)
	assert.Equal(t, 9, clk.Second)
	assert.Equal(t, "Monday", clk.Day)
}

func TestParseClockLayouts(t *testing.T) {
	for _, in := range []string{
		"2024-03-04T13:37:09Z",
		"2024-03-04 13:37:09",
		"13:37:09",
	} {
		clk := ParseClock(in)
		assert.True(t, clk.Valid, "input %q", in)
		assert.Equal(t, 13, clk.Hour, "input %q", in)
		assert.Equal(t, 37, clk.Minute, "input %q", in)
		assert.Equal(t, 9, clk.Second, "input %q", in)
	}
}

func TestParseClockInvalid(t *testing.T) {
	for _, in := range []string{"", "not a time", "25:99:99", "2024-13-45"} {
		clk := ParseClock(in)
		assert.False(t, clk.Valid, "input %q", in)
		assert.Zero(t, clk.Hour)
		assert.Zero(t, clk.Minute)
		assert.Zero(t, clk.Second)
		assert.Empty(t, clk.Day)
	}
}

func TestParseTimestamp(t *testing.T) {
	ts, ok := ParseTimestamp("2024-03-04T13:37:09Z")
	assert.True(t, ok)
	assert.Equal(t, 2024, ts.Year())

	_, ok = ParseTimestamp("garbage")
	assert.False(t, ok)
}
