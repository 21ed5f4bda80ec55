package calendar

import (
	"image/color"
	"strconv"

	"github.com/matzehuels/calsheet/pkg/dates"
	"github.com/matzehuels/calsheet/pkg/errors"
)

// DefaultColor is the shorthand used by periods without a color.
const DefaultColor = "F00"

// labelWindow is how many trailing day entries suppress a repeated label.
const labelWindow = 7

// ParseColor expands a 3-digit hex shorthand. Each digit d becomes the byte
// 0xdF, so "F00" is (255, 15, 15).
func ParseColor(s string) (color.RGBA, error) {
	if len(s) != 3 {
		return color.RGBA{}, errors.Parse("invalid color %q: want 3 hex digits", s)
	}
	var ch [3]uint8
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseUint(s[i:i+1]+"F", 16, 8)
		if err != nil {
			return color.RGBA{}, errors.Parse("invalid color %q: %q is not a hex digit", s, s[i:i+1])
		}
		ch[i] = uint8(v)
	}
	return color.RGBA{R: ch[0], G: ch[1], B: ch[2], A: 255}, nil
}

// PeriodSpec is the declarative form of a period as it arrives in calendar
// bundles and API payloads. Dates are "d/m[/y]" strings.
type PeriodSpec struct {
	IDay       string   `json:"iDay" toml:"iDay"`
	FDay       string   `json:"fDay,omitempty" toml:"fDay,omitempty"`
	Name       string   `json:"name,omitempty" toml:"name,omitempty"`
	Color      string   `json:"color,omitempty" toml:"color,omitempty"`
	Weekend    string   `json:"weekend,omitempty" toml:"weekend,omitempty"`
	Exceptions []string `json:"exceptions,omitempty" toml:"exceptions,omitempty"`
}

// Period is a resolved, inclusive day range.
type Period struct {
	Start, End dates.Day
	Color      color.RGBA
	Weekend    color.RGBA
	Label      string // empty means no label
	Exceptions map[dates.Day]struct{}
}

// Resolve parses the period. FDay defaults to IDay, Color to DefaultColor and
// Weekend to Color. Dates without a year use defaultYear.
func (s PeriodSpec) Resolve(defaultYear int) (Period, error) {
	start, err := dates.Parse(s.IDay, defaultYear)
	if err != nil {
		return Period{}, err
	}
	end := start
	if s.FDay != "" {
		if end, err = dates.Parse(s.FDay, defaultYear); err != nil {
			return Period{}, err
		}
	}

	shorthand := s.Color
	if shorthand == "" {
		shorthand = DefaultColor
	}
	col, err := ParseColor(shorthand)
	if err != nil {
		return Period{}, err
	}
	weekend := col
	if s.Weekend != "" {
		if weekend, err = ParseColor(s.Weekend); err != nil {
			return Period{}, err
		}
	}

	p := Period{
		Start:   start,
		End:     end,
		Color:   col,
		Weekend: weekend,
		Label:   s.Name,
	}
	if len(s.Exceptions) > 0 {
		p.Exceptions = make(map[dates.Day]struct{}, len(s.Exceptions))
		for _, e := range s.Exceptions {
			d, err := dates.Parse(e, defaultYear)
			if err != nil {
				return Period{}, err
			}
			p.Exceptions[d] = struct{}{}
		}
	}
	return p, nil
}

// Entry is the color and label a period assigns to one day.
type Entry struct {
	Color color.RGBA
	Label string
}

// DayMap maps days to entries and remembers the order days were first
// inserted. Overwriting a day changes its entry but not its position.
type DayMap struct {
	order   []dates.Day
	entries map[dates.Day]Entry
}

// NewDayMap returns an empty map.
func NewDayMap() *DayMap {
	return &DayMap{entries: make(map[dates.Day]Entry)}
}

// Set assigns e to d.
func (m *DayMap) Set(d dates.Day, e Entry) {
	if _, ok := m.entries[d]; !ok {
		m.order = append(m.order, d)
	}
	m.entries[d] = e
}

// Get returns the entry of d.
func (m *DayMap) Get(d dates.Day) (Entry, bool) {
	e, ok := m.entries[d]
	return e, ok
}

// Days returns the days in first-insertion order.
func (m *DayMap) Days() []dates.Day {
	return append([]dates.Day(nil), m.order...)
}

// Len returns the number of days.
func (m *DayMap) Len() int { return len(m.order) }

// MergePeriods expands periods in order into a DayMap. Exception days are
// skipped, weekend days take the weekend color and later periods overwrite
// earlier ones.
func MergePeriods(periods []Period) *DayMap {
	m := NewDayMap()
	for _, p := range periods {
		for d := p.Start; d <= p.End; d++ {
			if _, skip := p.Exceptions[d]; skip {
				continue
			}
			col := p.Color
			if d.IsWeekend() {
				col = p.Weekend
			}
			m.Set(d, Entry{Color: col, Label: p.Label})
		}
	}
	return m
}

// VisibleLabels walks m in insertion order and marks the days whose label
// is drawn: a labeled day is visible unless its label is among the labels
// of the previous 7 entries walked. Unlabeled days take a window slot too.
func VisibleLabels(m *DayMap) map[dates.Day]bool {
	visible := make(map[dates.Day]bool)
	window := make([]string, 0, m.Len())
	for _, d := range m.order {
		label := m.entries[d].Label
		if label != "" && !recent(window, label) {
			visible[d] = true
		}
		window = append(window, label)
	}
	return visible
}

func recent(window []string, label string) bool {
	start := len(window) - labelWindow
	if start < 0 {
		start = 0
	}
	for _, l := range window[start:] {
		if l == label {
			return true
		}
	}
	return false
}
