package chart

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/calsheet/pkg/dates"
	"github.com/matzehuels/calsheet/pkg/errors"
)

// Sample is one measurement. Raw is in tenths of the display unit.
type Sample struct {
	Day dates.Day `json:"day" toml:"day"`
	Raw int       `json:"amount" toml:"amount"`
}

// ParseSample builds a sample from a date that is either an ordinal day
// number or a "d/m[/y]" string. Dates without a year use defaultYear.
func ParseSample(date string, raw, defaultYear int) (Sample, error) {
	date = strings.TrimSpace(date)
	if n, err := strconv.Atoi(date); err == nil {
		if n < 0 {
			return Sample{}, errors.Parse("invalid sample day %d", n)
		}
		return Sample{Day: dates.Day(n), Raw: raw}, nil
	}
	d, err := dates.Parse(date, defaultYear)
	if err != nil {
		return Sample{}, err
	}
	return Sample{Day: d, Raw: raw}, nil
}

// Value is a normalized sample amount. Raw amounts divisible by 10 become
// integers, everything else keeps one decimal: 20 is 2, 25 is 2.5.
type Value struct {
	V       float64
	Integer bool
}

// Normalize converts a raw amount to its display value.
func Normalize(raw int) Value {
	if raw%10 != 0 {
		return Value{V: float64(raw) / 10}
	}
	return Value{V: float64(raw / 10), Integer: true}
}

// String formats integers with %d and fractions with two decimals.
func (v Value) String() string {
	if v.Integer {
		return strconv.Itoa(int(v.V))
	}
	return fmt.Sprintf("%.2f", v.V)
}
