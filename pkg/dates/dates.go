// Package dates implements the ordinal-day arithmetic shared by the
// calendar and chart engines.
//
// A [Day] counts days since 0001-01-01 of the proleptic Gregorian calendar,
// which is day 0 and a Monday. Day % 7 therefore yields a stable weekday
// index (0 = Monday ... 6 = Sunday) and every grid in calsheet aligns its
// columns to that phase. Calendar strings only appear at the boundaries:
// [Parse] on the way in and [Format] on the way out.
package dates

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/matzehuels/calsheet/pkg/errors"
)

// Day is an ordinal day number. See the package documentation.
type Day int

// unixEpoch is the Day of 1970-01-01.
const unixEpoch Day = 719162

const secondsPerDay = 24 * 60 * 60

// FromDate returns the Day of the given civil date. Out-of-range month or
// day values are normalized the way time.Date normalizes them.
func FromDate(year int, month time.Month, day int) Day {
	secs := time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Unix()
	return unixEpoch + Day(floorDiv(secs, secondsPerDay))
}

// FromTime returns the Day of t's calendar date in t's location.
func FromTime(t time.Time) Day {
	y, m, d := t.Date()
	return FromDate(y, m, d)
}

// Time returns midnight UTC of the day.
func (d Day) Time() time.Time {
	return time.Unix(int64(d-unixEpoch)*secondsPerDay, 0).UTC()
}

// Date returns the civil date of the day.
func (d Day) Date() (year int, month time.Month, day int) {
	return d.Time().Date()
}

// Weekday returns the column index of the day, 0 (Monday) through 6 (Sunday).
func (d Day) Weekday() int {
	return int(floorMod(int64(d), 7))
}

// IsWeekend reports whether the day falls in the last two slots of the week.
func (d Day) IsWeekend() bool {
	return d.Weekday() > 4
}

// MonthDayKey returns month*100 + day, the year-independent birthday key.
func (d Day) MonthDayKey() int {
	_, m, day := d.Date()
	return int(m)*100 + day
}

// String formats the day canonically.
func (d Day) String() string {
	return Format(d)
}

// WeekStart floors d to the first day of its 7-day grid row.
func WeekStart(d Day) Day {
	return Day(floorDiv(int64(d), 7) * 7)
}

// Format renders d as "d/m/yyyy" without zero padding.
func Format(d Day) string {
	y, m, day := d.Date()
	return fmt.Sprintf("%d/%d/%d", day, int(m), y)
}

// Parse converts "d/m", "d/m/yy" or "d/m/yyyy" into a Day. A missing year
// defaults to defaultYear and years below 1000 are shifted by 2000, so "18"
// means 2018. Any other shape, a non-numeric field or an impossible date
// yields an ErrCodeParse error.
func Parse(s string, defaultYear int) (Day, error) {
	fields := strings.Split(s, "/")
	if len(fields) != 2 && len(fields) != 3 {
		return 0, errors.Parse("invalid date %q: want d/m[/y]", s)
	}

	nums := make([]int, 3)
	for i, f := range fields {
		n, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return 0, errors.Parse("invalid date %q: field %q is not a number", s, f)
		}
		nums[i] = n
	}
	if len(fields) == 2 {
		nums[2] = defaultYear
	}
	if nums[2] < 1000 {
		nums[2] += 2000
	}

	day, month, year := nums[0], nums[1], nums[2]
	if err := checkDate(year, month, day); err != nil {
		return 0, errors.Parse("invalid date %q: %v", s, err)
	}
	return FromDate(year, time.Month(month), day), nil
}

// ParseBirthday splits "d/m-Name" into its month*100+day key and the name.
// Only the first dash separates; the name keeps any further dashes.
func ParseBirthday(s string) (int, string, error) {
	date, name, ok := strings.Cut(s, "-")
	if !ok {
		return 0, "", errors.Parse("invalid birthday %q: want d/m-Name", s)
	}

	parts := strings.Split(date, "/")
	if len(parts) != 2 {
		return 0, "", errors.Parse("invalid birthday %q: date must be d/m", s)
	}
	d, errD := strconv.Atoi(strings.TrimSpace(parts[0]))
	m, errM := strconv.Atoi(strings.TrimSpace(parts[1]))
	if errD != nil || errM != nil {
		return 0, "", errors.Parse("invalid birthday %q: non-numeric date", s)
	}
	// 2000 is a leap year, so 29/2 is accepted.
	if err := checkDate(2000, m, d); err != nil {
		return 0, "", errors.Parse("invalid birthday %q: %v", s, err)
	}
	return m*100 + d, name, nil
}

func checkDate(year, month, day int) error {
	if year < 1 || year > 9999 {
		return fmt.Errorf("year %d out of range", year)
	}
	if month < 1 || month > 12 {
		return fmt.Errorf("month %d out of range", month)
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if day < 1 || t.Day() != day {
		return fmt.Errorf("day %d out of range for %s %d", day, time.Month(month), year)
	}
	return nil
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int64) int64 {
	return a - floorDiv(a, b)*b
}
