package source

import (
	"encoding/csv"
	stderrors "errors"
	"io"
	"strings"
	"time"

	"github.com/matzehuels/calsheet/pkg/dates"
	"github.com/matzehuels/calsheet/pkg/errors"
	"github.com/matzehuels/calsheet/pkg/render/chart"
)

// MinIntervalMinutes is the shortest interval that counts.
const MinIntervalMinutes = 10

// Interval is one start/stop pair, such as going to sleep and waking up.
type Interval struct {
	Start, End time.Time
}

// Amount converts the interval to tenths of an hour, truncating. Intervals
// shorter than MinIntervalMinutes, including negative ones, yield 0 and
// false.
func (iv Interval) Amount() (int, bool) {
	minutes := int(iv.End.Sub(iv.Start)/time.Second) / 60
	if minutes < MinIntervalMinutes {
		return 0, false
	}
	return int(float64(minutes) / 60 * 10), true
}

// SamplesFromIntervals accumulates interval amounts per day. An interval is
// booked on the day it ends, so a night's sleep counts for the morning
// after. Days keep the order in which they first appear.
func SamplesFromIntervals(intervals []Interval) []chart.Sample {
	idx := make(map[dates.Day]int)
	var out []chart.Sample
	for _, iv := range intervals {
		amount, ok := iv.Amount()
		if !ok {
			continue
		}
		d := dates.FromTime(iv.End)
		i, seen := idx[d]
		if !seen {
			i = len(out)
			idx[d] = i
			out = append(out, chart.Sample{Day: d})
		}
		out[i].Raw += amount
	}
	return out
}

// ReadCSVIntervals reads "start,end" rows of RFC 3339 timestamps. A first
// row that does not parse is treated as a header.
func ReadCSVIntervals(r io.Reader) ([]Interval, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 2
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	var out []Interval
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if stderrors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeParse, err, "csv")
		}
		start, errS := time.Parse(time.RFC3339, strings.TrimSpace(rec[0]))
		end, errE := time.Parse(time.RFC3339, strings.TrimSpace(rec[1]))
		if errS != nil || errE != nil {
			if line == 1 {
				continue
			}
			return nil, errors.Parse("csv line %d: want RFC 3339 start,end", line)
		}
		out = append(out, Interval{Start: start, End: end})
	}
}
