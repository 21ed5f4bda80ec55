package chart

import (
	"fmt"
	"image"

	"github.com/matzehuels/calsheet/pkg/dates"
	"github.com/matzehuels/calsheet/pkg/render/canvas"
	"github.com/matzehuels/calsheet/pkg/render/sink"
	"github.com/matzehuels/calsheet/pkg/render/text"
)

// Render lays out p and draws the chart.
func Render(cfg *canvas.Config, p Params, clock dates.Clock) (*image.RGBA, error) {
	c, err := Layout(cfg, p, clock)
	if err != nil {
		return nil, err
	}
	return Draw(cfg, c)
}

// RenderPNG renders the chart and emits it: the PNG bytes when path is
// empty, otherwise the file at path and nil bytes.
func RenderPNG(cfg *canvas.Config, p Params, clock dates.Clock, path string) ([]byte, error) {
	img, err := Render(cfg, p, clock)
	if err != nil {
		return nil, err
	}
	return sink.Emit(img, path)
}

// Draw paints a computed chart on a fresh canvas.
func Draw(cfg *canvas.Config, c *Chart) (*image.RGBA, error) {
	ctx := canvas.NewContext(cfg, Background)
	defer ctx.Close()

	if err := ctx.Header(); err != nil {
		return nil, err
	}
	for _, row := range c.Rows {
		if err := drawRow(ctx, row); err != nil {
			return nil, err
		}
	}
	if err := drawFooter(ctx, c); err != nil {
		return nil, err
	}
	return ctx.Image, nil
}

func drawRow(ctx *canvas.Context, row Row) error {
	cfg := ctx.Config
	h := row.Header
	face, _, err := ctx.Fit(cfg.Fonts.Label, row.Title, h.Dx(), int(float64(h.Dy())*0.9))
	if err != nil {
		return err
	}
	ctx.Blit(face, h.Min, h.Size(), row.Title, canvas.Gray(100), Background, text.Center)

	for _, cell := range row.Cells {
		// The text budget is 80% of the full column, not of the inset box.
		colW, colH := cell.Rect.Dx()+4, cell.Rect.Dy()+4
		face, _, err := ctx.Fit(cfg.Fonts.Mono, cell.Text, int(float64(colW)*0.8), int(float64(colH)*0.8))
		if err != nil {
			return err
		}
		ctx.Blit(face, cell.Rect.Min, cell.Rect.Size(), cell.Text, canvas.Black, cell.Color, text.Center)
	}
	return nil
}

func drawFooter(ctx *canvas.Context, c *Chart) error {
	cfg := ctx.Config
	r := c.AverageRect
	face, _, err := ctx.Fit(cfg.Fonts.Label, cfg.Labels.Average+":0.00", r.Dx(), r.Dy())
	if err != nil {
		return err
	}
	caption := fmt.Sprintf("%s: %.2f", cfg.Labels.Average, c.Average)
	ctx.Blit(face, r.Min, r.Size(), caption, canvas.Black, c.ColorFor(c.Average), text.Center)

	colW, _ := cfg.ColumnWidth()
	face, _, err = ctx.Fit(cfg.Fonts.Label, "▲ 00.00", colW, r.Dy())
	if err != nil {
		return err
	}
	for _, s := range c.Summaries {
		ctx.Blit(face, s.Rect.Min, s.Rect.Size(), s.Text, canvas.Black, s.Color, text.Center)
	}
	return nil
}
