package queuenum

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		t    time.Time
		seq  int
		want string
	}{
		{"first of the day", date(2025, time.January, 17), 1, "Q25011701"},
		{"second of the day", date(2025, time.January, 17), 2, "Q25011702"},
		{"double digit sequence", date(2025, time.January, 17), 42, "Q25011742"},
		{"new years eve", date(2024, time.December, 31), 99, "Q24123199"},
		{"suffix widens past 99", date(2025, time.January, 17), 100, "Q250117100"},
		{"single digit month and day", date(2026, time.March, 5), 7, "Q26030507"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.t, tt.seq))
		})
	}
}

func TestFormatDayRollover(t *testing.T) {
	before := Format(time.Date(2025, time.January, 17, 23, 59, 59, 0, time.Local), 55)
	after := Format(time.Date(2025, time.January, 18, 0, 0, 1, 0, time.Local), 1)

	assert.Equal(t, "Q25011755", before)
	assert.Equal(t, "Q25011801", after)
}

func TestRoundTrip(t *testing.T) {
	day := date(2025, time.January, 17)
	for seq := 1; seq <= 99; seq++ {
		parsedDay, parsedSeq, err := Parse(Format(day, seq))
		require.NoError(t, err)
		assert.Equal(t, day, parsedDay)
		assert.Equal(t, seq, parsedSeq)
	}
}

func TestRoundTripWideSequence(t *testing.T) {
	day := date(2025, time.June, 30)
	parsedDay, parsedSeq, err := Parse(Format(day, 123))
	require.NoError(t, err)
	assert.Equal(t, day, parsedDay)
	assert.Equal(t, 123, parsedSeq)
}

func TestParseRejectsMalformed(t *testing.T) {
	for _, s := range []string{
		"",
		"Q",
		"Q2501170",    // too short
		"X25011701",   // wrong prefix
		"Q2501170a",   // non-digit
		"Q25131701",   // month out of range
		"Q25013201",   // day out of range
		"Q25011700",   // zero sequence
	} {
		_, _, err := Parse(s)
		assert.Error(t, err, "input %q", s)
	}
}
