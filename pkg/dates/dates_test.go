package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/calsheet/pkg/errors"
)

// 2024-01-01 has proleptic ordinal 738886 and is a Monday.
const jan1st2024 Day = 738885

func TestFromDate(t *testing.T) {
	tests := []struct {
		name string
		y    int
		m    time.Month
		d    int
		want Day
	}{
		{"epoch", 1, time.January, 1, 0},
		{"unix epoch", 1970, time.January, 1, 719162},
		{"2024", 2024, time.January, 1, jan1st2024},
		{"leap day", 2024, time.February, 29, jan1st2024 + 59},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FromDate(tt.y, tt.m, tt.d))
		})
	}
}

func TestDayRoundTripsThroughTime(t *testing.T) {
	for _, d := range []Day{0, 1, 719161, 719162, jan1st2024, 3652058} {
		assert.Equal(t, d, FromTime(d.Time()), "day %d", d)
	}
}

func TestWeekday(t *testing.T) {
	assert.Equal(t, 0, Day(0).Weekday())
	assert.Equal(t, 0, jan1st2024.Weekday())
	assert.Equal(t, time.Monday, jan1st2024.Time().Weekday())

	sat := jan1st2024 + 5
	sun := jan1st2024 + 6
	assert.True(t, sat.IsWeekend())
	assert.True(t, sun.IsWeekend())
	assert.False(t, (jan1st2024 + 4).IsWeekend())
	assert.Equal(t, time.Sunday, sun.Time().Weekday())

	assert.Equal(t, 6, Day(-1).Weekday())
}

func TestWeekStart(t *testing.T) {
	tests := []struct {
		in, want Day
	}{
		{jan1st2024, jan1st2024},
		{jan1st2024 + 2, jan1st2024},
		{jan1st2024 + 6, jan1st2024},
		{jan1st2024 + 7, jan1st2024 + 7},
		{-1, -7},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, WeekStart(tt.in), "WeekStart(%d)", tt.in)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Day
	}{
		{"full year", "01/01/2024", jan1st2024},
		{"two digit year", "1/1/24", jan1st2024},
		{"three digit year", "1/1/024", jan1st2024},
		{"default year", "1/1", jan1st2024},
		{"leap day", "29/2/2024", jan1st2024 + 59},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input, 2024)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseErrors(t *testing.T) {
	inputs := []string{"", "1", "1/2/3/4", "a/1/2024", "1/b", "31/2/2024", "0/1/2024", "1/13/2024", "29/2/2023"}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			_, err := Parse(in, 2024)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrCodeParse), "want PARSE_ERROR, got %v", err)
		})
	}
}

func TestFormatRoundTrip(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"01/01/2024", "1/1/2024"},
		{"5/6/18", "5/6/2018"},
		{"15/3", "15/3/2026"},
		{"31/12/1999", "31/12/1999"},
	}
	for _, tt := range tests {
		d, err := Parse(tt.input, 2026)
		require.NoError(t, err)
		assert.Equal(t, tt.want, Format(d))

		// The canonical form parses back to the same day.
		again, err := Parse(Format(d), 1)
		require.NoError(t, err)
		assert.Equal(t, d, again)
	}
}

func TestParseBirthday(t *testing.T) {
	tests := []struct {
		input    string
		wantKey  int
		wantName string
	}{
		{"15/03-Alice", 315, "Alice"},
		{"1/1-Bob", 101, "Bob"},
		{"29/2-Leap", 229, "Leap"},
		{"2/10-Anne-Marie", 1002, "Anne-Marie"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			key, name, err := ParseBirthday(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.wantKey, key)
			assert.Equal(t, tt.wantName, name)
		})
	}

	for _, bad := range []string{"15/03Alice", "15-Alice", "a/b-Alice", "31/4-X", "1/2/2000-X"} {
		_, _, err := ParseBirthday(bad)
		assert.True(t, errors.Is(err, errors.ErrCodeParse), "ParseBirthday(%q) = %v", bad, err)
	}
}

func TestMonthDayKey(t *testing.T) {
	d, err := Parse("15/3/2024", 0)
	require.NoError(t, err)
	assert.Equal(t, 315, d.MonthDayKey())
}

func TestClock(t *testing.T) {
	c := FixedClock{T: time.Date(2024, time.January, 3, 15, 0, 0, 0, time.UTC)}
	assert.Equal(t, jan1st2024+2, Today(c))
	assert.Equal(t, 2024, CurrentYear(c))
}
