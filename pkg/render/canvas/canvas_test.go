package canvas

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/calsheet/pkg/errors"
	"github.com/matzehuels/calsheet/pkg/fonts"
)

func TestNewDefaults(t *testing.T) {
	cfg, err := New(Options{})
	require.NoError(t, err)

	assert.Equal(t, 1240, cfg.Width)
	assert.Equal(t, 1754, cfg.Height)
	assert.Equal(t, DefaultDPI, cfg.DPI)
	assert.Equal(t, DefaultFonts, cfg.Fonts)
	assert.Equal(t, "es", cfg.Labels.Tag)
	assert.Same(t, fonts.Default(), cfg.Registry)

	w, extra := cfg.ColumnWidth()
	assert.Equal(t, 177, w)
	assert.Equal(t, 1, extra)
	assert.Equal(t, 50, cfg.HeaderHeight())

	x, w := cfg.Column(6)
	assert.Equal(t, 1062, x)
	assert.Equal(t, 178, w)
	x, w = cfg.Column(2)
	assert.Equal(t, 354, x)
	assert.Equal(t, 177, w)
}

func TestNewSizes(t *testing.T) {
	for _, dpi := range SupportedDPI() {
		cfg, err := New(Options{DPI: dpi})
		require.NoError(t, err)
		want, _ := A4(dpi)
		assert.Equal(t, want, cfg.Bounds().Size())
	}

	cfg, err := New(Options{Size: image.Pt(700, 700)})
	require.NoError(t, err)
	assert.Equal(t, 700, cfg.Width)
	assert.Equal(t, 20, cfg.HeaderHeight())
}

func TestNewErrors(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"dpi", Options{DPI: 123}, errors.ErrCodeInvalidInput},
		{"tiny canvas", Options{Size: image.Pt(6, 100)}, errors.ErrCodeInvalidInput},
		{"locale", Options{Locale: "xx"}, errors.ErrCodeInvalidLocale},
		{"font", Options{Fonts: Fonts{Mono: "dejavusansmono"}}, errors.ErrCodeFontFit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.opts)
			assert.True(t, errors.Is(err, tt.code), "got %v", err)
		})
	}
}

func TestContextHeader(t *testing.T) {
	cfg, err := New(Options{DPI: 75})
	require.NoError(t, err)

	ctx := NewContext(cfg, Black)
	defer ctx.Close()
	require.NoError(t, ctx.Header())

	colW, _ := cfg.ColumnWidth()
	assert.Equal(t, Gray(225), ctx.Image.RGBAAt(0, 0))
	assert.Equal(t, Gray(215), ctx.Image.RGBAAt(colW, 0))
	assert.Equal(t, Gray(225), ctx.Image.RGBAAt(cfg.Width-1, 0))
	assert.Equal(t, Black, ctx.Image.RGBAAt(0, cfg.HeaderHeight()))
}

func TestContextFit(t *testing.T) {
	cfg, err := New(Options{})
	require.NoError(t, err)
	ctx := NewContext(cfg, White)
	defer ctx.Close()

	face, size, err := ctx.Fit(cfg.Fonts.Mono, "15", 44, 40)
	require.NoError(t, err)
	assert.NotNil(t, face)
	assert.LessOrEqual(t, size.X, 44)
	assert.LessOrEqual(t, size.Y, 40)

	_, _, err = ctx.Fit("missing", "15", 44, 40)
	assert.True(t, errors.Is(err, errors.ErrCodeFontFit))
}
