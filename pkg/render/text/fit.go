package text

import (
	"golang.org/x/image/font"

	"github.com/matzehuels/calsheet/pkg/fonts"
)

// Default search bounds for [Fit].
const (
	DefaultMinSize   = 1
	DefaultMaxSize   = 50
	DefaultPrecision = 1
)

// Measurer reports the pixel box of text rendered at a font size.
//
// Fit assumes the box grows monotonically with size. Real fonts satisfy
// this; nothing checks it.
type Measurer interface {
	Measure(size int, text string) (w, h int)
}

// MeasurerFunc adapts a function to [Measurer].
type MeasurerFunc func(size int, text string) (w, h int)

// Measure calls f.
func (f MeasurerFunc) Measure(size int, text string) (int, int) { return f(size, text) }

// FitOption configures [Fit].
type FitOption func(*fitOptions)

type fitOptions struct {
	min, max, precision int
}

// WithMin sets the smallest size considered.
func WithMin(n int) FitOption {
	return func(o *fitOptions) { o.min = n }
}

// WithMax sets the largest size considered.
func WithMax(n int) FitOption {
	return func(o *fitOptions) { o.max = n }
}

// WithPrecision sets the interval width at which the search stops.
func WithPrecision(n int) FitOption {
	return func(o *fitOptions) { o.precision = n }
}

// Fit returns the largest font size, to within the precision, whose
// rendering of text fits in a maxW x maxH box.
//
// It bisects [min, max]: a probe that overflows either dimension becomes the
// new max, otherwise the new min. The search ends once max-min is at most
// the precision and returns (max+min)/2. When even min overflows the result
// is min. Empty text fits at max.
func Fit(m Measurer, text string, maxW, maxH int, opts ...FitOption) int {
	o := fitOptions{min: DefaultMinSize, max: DefaultMaxSize, precision: DefaultPrecision}
	for _, opt := range opts {
		opt(&o)
	}
	if o.precision < 1 {
		o.precision = 1
	}
	if text == "" {
		return o.max
	}

	lo, hi := o.min, o.max
	for hi-lo > o.precision {
		probe := (hi + lo) / 2
		w, h := m.Measure(probe, text)
		if w > maxW || h > maxH {
			hi = probe
		} else {
			lo = probe
		}
	}
	return (hi + lo) / 2
}

// FaceMeasurer measures with the faces of one font family. Measurement
// errors are kept and reported by Err, the first one wins.
type FaceMeasurer struct {
	Faces *fonts.FaceSet
	err   error
}

// NewFaceMeasurer returns a measurer over set.
func NewFaceMeasurer(set *fonts.FaceSet) *FaceMeasurer {
	return &FaceMeasurer{Faces: set}
}

// Measure implements [Measurer]. A failed face measures as overflowing so
// the search shrinks instead of picking it.
func (m *FaceMeasurer) Measure(size int, text string) (int, int) {
	face, err := m.Faces.Face(size)
	if err != nil {
		if m.err == nil {
			m.err = err
		}
		return int(^uint(0) >> 1), int(^uint(0) >> 1)
	}
	return Size(face, text)
}

// Err returns the first face error seen by Measure.
func (m *FaceMeasurer) Err() error { return m.err }

// Size returns the box of text drawn with face: its advance width and the
// face's line height (ascent plus descent).
func Size(face font.Face, text string) (w, h int) {
	metrics := face.Metrics()
	return font.MeasureString(face, text).Ceil(), (metrics.Ascent + metrics.Descent).Ceil()
}
