package calendar

import (
	"image"
	"image/color"
	"strings"

	"github.com/matzehuels/calsheet/pkg/dates"
	"github.com/matzehuels/calsheet/pkg/errors"
	"github.com/matzehuels/calsheet/pkg/render/canvas"
)

// Defaults used by callers that leave parameters unset.
const (
	DefaultWeeks  = 26
	DefaultSmooth = 205
	MaxWeeks      = 52
)

// Params is the input of one calendar render.
type Params struct {
	// Start is any day of the first week, "d/m[/y]".
	Start string
	// Weeks is clamped to [1, 52].
	Weeks int
	// Birthdays are "d/m-Name" strings. A name may pack several names
	// separated by newlines.
	Birthdays []string
	Periods   []PeriodSpec
	// Smooth is the tint factor, 0 to 255.
	Smooth int
}

// Cell is one day of the grid.
type Cell struct {
	Day          dates.Day
	Weekday      int
	Week         int
	Rect         image.Rectangle
	DayNumber    int
	Month        int
	FirstOfMonth bool
	Color        color.RGBA // smoothed
	Label        string
	LabelVisible bool
	Birthdays    []string
}

// Grid is the computed layout of a calendar.
type Grid struct {
	Start     dates.Day
	Weeks     int
	Header    int
	RowHeight int
	RowExtra  int
	Cells     []Cell
}

// ClampWeeks bounds n to [1, MaxWeeks].
func ClampWeeks(n int) int {
	return min(max(n, 1), MaxWeeks)
}

// Layout parses p and computes every cell of the grid. Malformed dates,
// birthdays or colors fail with ErrCodeParse. Dates without a year take the
// clock's current year.
func Layout(cfg *canvas.Config, p Params, clock dates.Clock) (*Grid, error) {
	if err := errors.ValidateSmoothFactor(p.Smooth); err != nil {
		return nil, err
	}
	year := dates.CurrentYear(clock)

	first, err := dates.Parse(p.Start, year)
	if err != nil {
		return nil, err
	}

	birthdays := make(map[int][]string)
	for _, spec := range p.Birthdays {
		key, name, err := dates.ParseBirthday(spec)
		if err != nil {
			return nil, err
		}
		birthdays[key] = append(birthdays[key], strings.Split(name, "\n")...)
	}

	periods := make([]Period, 0, len(p.Periods))
	for _, spec := range p.Periods {
		period, err := spec.Resolve(year)
		if err != nil {
			return nil, err
		}
		periods = append(periods, period)
	}
	days := MergePeriods(periods)
	visible := VisibleLabels(days)

	g := &Grid{
		Start:  dates.WeekStart(first),
		Weeks:  ClampWeeks(p.Weeks),
		Header: cfg.HeaderHeight(),
	}
	body := cfg.Height - g.Header
	g.RowHeight, g.RowExtra = body/g.Weeks, body%g.Weeks

	g.Cells = make([]Cell, 0, g.Weeks*7)
	for d := g.Start; d < g.Start+dates.Day(g.Weeks*7); d++ {
		_, month, dayNum := d.Date()
		c := Cell{
			Day:          d,
			Weekday:      d.Weekday(),
			Week:         int(d-g.Start) / 7,
			DayNumber:    dayNum,
			Month:        int(month),
			FirstOfMonth: dayNum == 1,
			Birthdays:    birthdays[d.MonthDayKey()],
		}
		c.Rect = g.cellRect(cfg, c)

		base := canvas.White
		if e, ok := days.Get(d); ok {
			base = e.Color
			c.Label = e.Label
			c.LabelVisible = visible[d]
		}
		c.Color = Smooth(base, p.Smooth, c.Weekday)
		g.Cells = append(g.Cells, c)
	}
	return g, nil
}

// cellRect places c. Days in the first week of a month drop 1px from the
// top, every cell leaves 1px for the separator below it, and the last row
// absorbs the height remainder.
func (g *Grid) cellRect(cfg *canvas.Config, c Cell) image.Rectangle {
	inset := 0
	if c.DayNumber < 8 {
		inset = 1
	}
	x, w := cfg.Column(c.Weekday)
	y := g.Header + c.Week*g.RowHeight + inset
	h := g.RowHeight - inset - 1
	if c.Week == g.Weeks-1 {
		h += g.RowExtra + 1
	}
	return image.Rect(x, y, x+w, y+h)
}
