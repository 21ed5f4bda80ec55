package chart

import (
	"fmt"
	"image"
	"image/color"

	"github.com/matzehuels/calsheet/pkg/dates"
	"github.com/matzehuels/calsheet/pkg/errors"
	"github.com/matzehuels/calsheet/pkg/render/canvas"
)

// Blue is the fixed blue channel of every value color.
const Blue = 80

// Background is the chart canvas color.
var Background = color.RGBA{R: 200 - Blue/2, G: 200 - Blue/2, B: 255, A: 255}

// MaxWeeks bounds the chart window.
const MaxWeeks = 52

// Params is the input of one chart render.
type Params struct {
	// Weeks is the window length ending with the current week, clamped to
	// [1, 52].
	Weeks   int
	Samples []Sample
}

// Cell is one day with data.
type Cell struct {
	Day     dates.Day
	Weekday int
	Row     int
	Rect    image.Rectangle // the colored box, inset 2px from the column
	Value   Value
	Color   color.RGBA
	Text    string
}

// Row is one week that has data.
type Row struct {
	Monday dates.Day
	Header image.Rectangle
	Title  string
	Cells  []Cell
}

// Summary is one weekday average of the footer.
type Summary struct {
	Weekday int
	Average float64
	Samples int
	Rect    image.Rectangle
	Color   color.RGBA
	Text    string
}

// Chart is the computed layout of a chart.
type Chart struct {
	Start dates.Day // Monday of the first week in the window
	Weeks int

	Average float64
	Step    float64

	RowHeight  int // cell height, without the week header
	WeekHeader int
	Rows       []Row

	AverageRect image.Rectangle
	Summaries   []Summary // weekdays without samples are left out
}

// ClampWeeks bounds n to [1, MaxWeeks].
func ClampWeeks(n int) int {
	return min(max(n, 1), MaxWeeks)
}

// ColorFor maps v to its deviation color: green toward (0, 255, 80) above
// the average, red toward (255, 0, 80) at or below it. Channels truncate
// toward zero.
func ColorFor(v, avg, step float64) color.RGBA {
	sub := v - avg
	if sub < 0 {
		sub = -sub
	}
	ch := 255 - sub*step
	if ch < 0 {
		ch = 0
	}
	if v > avg {
		return color.RGBA{R: uint8(ch), G: 255, B: Blue, A: 255}
	}
	return color.RGBA{R: 255, G: uint8(ch), B: Blue, A: 255}
}

// ColorFor maps v against the chart's average and step.
func (c *Chart) ColorFor(v float64) color.RGBA {
	return ColorFor(v, c.Average, c.Step)
}

// Arrow returns the trend marker of v.
func (c *Chart) Arrow(v float64) string {
	if v > c.Average {
		return "▲"
	}
	return "▼"
}

// Layout filters, normalizes and places the samples. It fails with
// ErrCodeEmptyData when no sample falls inside the window.
//
// Samples dated before the window are dropped. Samples after the current
// week still count towards the averages but get no cell. When every sample
// falls after the current week Layout fails with ErrCodeEmptyData instead
// of drawing a sheet with no rows; the row height only divides among the
// weeks that get drawn.
func Layout(cfg *canvas.Config, p Params, clock dates.Clock) (*Chart, error) {
	weeks := ClampWeeks(p.Weeks)
	start := dates.WeekStart(dates.Today(clock)) - dates.Day((weeks-1)*7)
	end := start + dates.Day(weeks*7)

	values := make(map[dates.Day]Value)
	var order []dates.Day
	var byWeekday [7][]float64
	for _, s := range p.Samples {
		if s.Day < start {
			continue
		}
		v := Normalize(s.Raw)
		if _, seen := values[s.Day]; !seen {
			order = append(order, s.Day)
		}
		values[s.Day] = v
		byWeekday[s.Day.Weekday()] = append(byWeekday[s.Day.Weekday()], v.V)
	}
	if len(order) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyData, "no samples in the last %d weeks", weeks)
	}

	c := &Chart{Start: start, Weeks: weeks}
	var sum float64
	for _, d := range order {
		sum += values[d].V
	}
	c.Average = sum / float64(len(order))

	var maxDev float64
	for _, d := range order {
		dev := values[d].V - c.Average
		if dev < 0 {
			dev = -dev
		}
		maxDev = max(maxDev, dev)
	}
	if maxDev > 0 {
		c.Step = 255 / maxDev
	}

	nonEmpty := make(map[dates.Day]bool)
	for _, d := range order {
		if d < end {
			nonEmpty[dates.WeekStart(d)] = true
		}
	}
	if len(nonEmpty) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyData, "all samples fall after the current week")
	}

	header := cfg.HeaderHeight()
	band := cfg.Height / 20
	height := (cfg.Height - header - 2*band) / len(nonEmpty)
	c.WeekHeader = height / 4
	c.RowHeight = height - c.WeekHeader

	for monday := start; monday < end; monday += 7 {
		if !nonEmpty[monday] {
			continue
		}
		y := (c.RowHeight+c.WeekHeader)*len(c.Rows) + header
		row := Row{
			Monday: monday,
			Header: image.Rect(0, y, cfg.Width, y+c.WeekHeader),
			Title:  weekTitle(monday),
		}
		y += c.WeekHeader
		for wday := 0; wday < 7; wday++ {
			d := monday + dates.Day(wday)
			v, ok := values[d]
			if !ok {
				continue
			}
			x, w := cfg.Column(wday)
			row.Cells = append(row.Cells, Cell{
				Day:     d,
				Weekday: wday,
				Row:     len(c.Rows),
				Rect:    image.Rect(x+2, y+2, x+w-2, y+c.RowHeight-2),
				Value:   v,
				Color:   c.ColorFor(v.V),
				Text:    c.Arrow(v.V) + " " + v.String(),
			})
		}
		c.Rows = append(c.Rows, row)
	}

	y := cfg.Height - 2*band
	c.AverageRect = image.Rect(0, y, cfg.Width, y+band)
	y += band
	for wday, vals := range byWeekday {
		if len(vals) == 0 {
			continue
		}
		var total float64
		for _, v := range vals {
			total += v
		}
		avg := total / float64(len(vals))
		x, w := cfg.Column(wday)
		c.Summaries = append(c.Summaries, Summary{
			Weekday: wday,
			Average: avg,
			Samples: len(vals),
			Rect:    image.Rect(x, y, x+w, y+band),
			Color:   c.ColorFor(avg),
			Text:    fmt.Sprintf("%s %.2f", c.Arrow(avg), avg),
		})
	}
	return c, nil
}

// weekTitle formats the week as "dd/mm - dd/mm", Monday to Sunday.
func weekTitle(monday dates.Day) string {
	_, m1, d1 := monday.Date()
	_, m2, d2 := (monday + 6).Date()
	return fmt.Sprintf("%02d/%02d - %02d/%02d", d1, int(m1), d2, int(m2))
}
