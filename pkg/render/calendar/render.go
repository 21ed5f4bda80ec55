package calendar

import (
	"fmt"
	"image"
	"strconv"

	"github.com/matzehuels/calsheet/pkg/dates"
	"github.com/matzehuels/calsheet/pkg/render/canvas"
	"github.com/matzehuels/calsheet/pkg/render/sink"
	"github.com/matzehuels/calsheet/pkg/render/text"
)

// minIconHeight is the smallest birthday row that still gets a gift icon.
const minIconHeight = 8

// Render lays out p and draws the calendar.
func Render(cfg *canvas.Config, p Params, clock dates.Clock) (*image.RGBA, error) {
	g, err := Layout(cfg, p, clock)
	if err != nil {
		return nil, err
	}
	return Draw(cfg, g)
}

// RenderPNG renders the calendar and emits it: the PNG bytes when path is
// empty, otherwise the file at path and nil bytes.
func RenderPNG(cfg *canvas.Config, p Params, clock dates.Clock, path string) ([]byte, error) {
	img, err := Render(cfg, p, clock)
	if err != nil {
		return nil, err
	}
	return sink.Emit(img, path)
}

// Draw paints a computed grid on a fresh canvas.
func Draw(cfg *canvas.Config, g *Grid) (*image.RGBA, error) {
	ctx := canvas.NewContext(cfg, canvas.Black)
	defer ctx.Close()

	for week := 1; week < g.Weeks; week++ {
		y := g.Header + week*g.RowHeight - 1
		ctx.Fill(image.Rect(0, y, cfg.Width, y+1), canvas.Gray(200))
	}
	if err := ctx.Header(); err != nil {
		return nil, err
	}
	for i := range g.Cells {
		if err := paintCell(ctx, &g.Cells[i]); err != nil {
			return nil, err
		}
	}
	return ctx.Image, nil
}

// paintCell fills the cell and stacks its contents top to bottom: the day
// number, one row per birthday, then the period label against the bottom.
func paintCell(ctx *canvas.Context, c *Cell) error {
	cfg := ctx.Config
	x, y := c.Rect.Min.X, c.Rect.Min.Y
	w, h := c.Rect.Dx(), c.Rect.Dy()

	var dayText string
	var fitW int
	if c.FirstOfMonth {
		dayText = fmt.Sprintf("%d %s", c.DayNumber, cfg.Labels.Month(c.Month))
		if c.Weekday != 0 {
			x++
			w--
		}
		fitW = w
	} else {
		dayText = strconv.Itoa(c.DayNumber)
		fitW = w / 4
	}
	face, daySize, err := ctx.Fit(cfg.Fonts.Mono, dayText, fitW, h/3)
	if err != nil {
		return err
	}
	ctx.Blit(face, image.Pt(x, y), image.Pt(w, h), dayText, canvas.Black, c.Color, text.NW)

	top, bottom := y, y+h
	if c.FirstOfMonth {
		top += daySize.Y
	}

	for i, name := range c.Birthdays {
		offset := 0
		if i == 0 && !c.FirstOfMonth {
			offset = daySize.X
		}
		rowH := min(bottom-top, h/3)
		var side int
		if rowH >= minIconHeight {
			side = min(int(float64(rowH)*0.8), w/4)
			drawGift(ctx.Image, image.Pt(x+offset, top), side)
			offset += side
		} else if rowH > 0 {
			side = rowH
		} else {
			break
		}
		box := image.Pt(w-offset, side)
		face, _, err := ctx.Fit(cfg.Fonts.Label, name, box.X, box.Y)
		if err != nil {
			return err
		}
		ctx.Blit(face, image.Pt(x+offset, top), box, name, canvas.Gray(100), c.Color, text.SW)
		top += side
	}

	if c.LabelVisible {
		labelText := "{" + c.Label + "}"
		box := image.Pt(w, min(bottom-top, h/3))
		if box.Y <= 0 {
			return nil
		}
		face, _, err := ctx.Fit(cfg.Fonts.Text, labelText, box.X, box.Y)
		if err != nil {
			return err
		}
		ctx.Blit(face, image.Pt(x, bottom-box.Y), box, labelText, canvas.Black, c.Color, text.SW)
	}
	return nil
}
