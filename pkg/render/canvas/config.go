// Package canvas holds the configuration shared by the calendar and chart
// engines and the per-render drawing context.
//
// A [Config] is built once with [New] and never mutated, so it can be
// shared by concurrent renders. Each render opens its own [Context], which
// owns the image being drawn and the font faces used to draw it.
package canvas

import (
	"image"
	"image/color"
	"sort"

	"github.com/matzehuels/calsheet/pkg/errors"
	"github.com/matzehuels/calsheet/pkg/fonts"
	"github.com/matzehuels/calsheet/pkg/locale"
)

// DefaultDPI is the resolution used when Options.DPI is zero.
const DefaultDPI = 150

// a4 maps a DPI class to the A4 canvas size in pixels.
var a4 = map[int]image.Point{
	75:  {X: 595, Y: 842},
	96:  {X: 794, Y: 1123},
	150: {X: 1240, Y: 1754},
	300: {X: 2480, Y: 3508},
}

// A4 returns the A4 canvas size for dpi and whether the DPI class exists.
func A4(dpi int) (image.Point, bool) {
	p, ok := a4[dpi]
	return p, ok
}

// SupportedDPI lists the DPI classes in ascending order.
func SupportedDPI() []int {
	out := make([]int, 0, len(a4))
	for dpi := range a4 {
		out = append(out, dpi)
	}
	sort.Ints(out)
	return out
}

// Gray returns the opaque gray of level v.
func Gray(v uint8) color.RGBA {
	return color.RGBA{R: v, G: v, B: v, A: 255}
}

// Palette colors.
var (
	White = Gray(255)
	Black = Gray(0)
)

// Fonts names the font family used for each kind of text. Values are
// builtin family names or TTF/OTF paths.
type Fonts struct {
	Mono  string // day numbers, headers, chart values
	Text  string // period labels
	Label string // birthdays, chart captions
}

// DefaultFonts are the builtin Go families.
var DefaultFonts = Fonts{
	Mono:  fonts.Mono,
	Text:  fonts.Regular,
	Label: fonts.Italic,
}

// Options configures [New]. Zero values select defaults.
type Options struct {
	DPI    int
	Size   image.Point // overrides the A4 size for DPI when non-zero
	Locale string
	Fonts  Fonts
	// Registry resolves font families. Defaults to fonts.Default().
	Registry *fonts.Registry
}

// Config is the immutable drawing configuration.
type Config struct {
	Width, Height int
	DPI           int
	Fonts         Fonts
	Labels        locale.Labels
	Registry      *fonts.Registry
}

// New validates opts and builds a Config. An unknown DPI class fails with
// ErrCodeInvalidInput, an unknown locale with ErrCodeInvalidLocale and an
// unresolvable font with ErrCodeFontFit.
func New(opts Options) (*Config, error) {
	if opts.DPI == 0 {
		opts.DPI = DefaultDPI
	}
	size := opts.Size
	if size == (image.Point{}) {
		p, ok := A4(opts.DPI)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidInput,
				"unsupported dpi %d (supported: %v)", opts.DPI, SupportedDPI())
		}
		size = p
	}
	if size.X < 7 || size.Y < 35 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "canvas %dx%d is too small", size.X, size.Y)
	}

	labels, err := locale.Load(opts.Locale)
	if err != nil {
		return nil, err
	}

	reg := opts.Registry
	if reg == nil {
		reg = fonts.Default()
	}
	families := DefaultFonts
	for _, f := range []struct {
		dst *string
		src string
	}{
		{&families.Mono, opts.Fonts.Mono},
		{&families.Text, opts.Fonts.Text},
		{&families.Label, opts.Fonts.Label},
	} {
		if f.src == "" {
			continue
		}
		name, err := reg.Resolve(f.src)
		if err != nil {
			return nil, err
		}
		*f.dst = name
	}

	return &Config{
		Width:    size.X,
		Height:   size.Y,
		DPI:      opts.DPI,
		Fonts:    families,
		Labels:   labels,
		Registry: reg,
	}, nil
}

// Bounds returns the canvas rectangle.
func (c *Config) Bounds() image.Rectangle {
	return image.Rect(0, 0, c.Width, c.Height)
}

// ColumnWidth returns the width of the 7 grid columns and the remainder
// the last column absorbs.
func (c *Config) ColumnWidth() (width, extra int) {
	return c.Width / 7, c.Width % 7
}

// Column returns the x offset and width of weekday column wday.
func (c *Config) Column(wday int) (x, width int) {
	width, extra := c.ColumnWidth()
	x = wday * width
	if wday == 6 {
		width += extra
	}
	return x, width
}

// HeaderHeight returns the height of the weekday header row.
func (c *Config) HeaderHeight() int {
	return c.Height / 35
}
