package calendar

import (
	"image"
	"image/color"
	"image/draw"
	"sync"

	xdraw "golang.org/x/image/draw"
)

const giftSize = 64

var (
	giftOnce sync.Once
	giftImg  *image.RGBA
)

// gift returns the birthday icon master, a wrapped box with a bow on a
// transparent background.
func gift() *image.RGBA {
	giftOnce.Do(func() {
		img := image.NewRGBA(image.Rect(0, 0, giftSize, giftSize))
		box := color.RGBA{R: 220, G: 50, B: 60, A: 255}
		lid := color.RGBA{R: 235, G: 70, B: 80, A: 255}
		ribbon := color.RGBA{R: 250, G: 200, B: 40, A: 255}

		paint := func(r image.Rectangle, c color.RGBA) {
			draw.Draw(img, r, image.NewUniform(c), image.Point{}, draw.Src)
		}
		paint(image.Rect(8, 28, 56, 62), box)
		paint(image.Rect(4, 18, 60, 28), lid)
		paint(image.Rect(28, 18, 36, 62), ribbon)
		paint(image.Rect(4, 21, 60, 25), ribbon)

		// Bow: two loops either side of the knot.
		for y := 4; y < 18; y++ {
			for x := 10; x < 54; x++ {
				dl := sq(x-22) + sq(y-11)*3
				dr := sq(x-42) + sq(y-11)*3
				if (dl < 110 && dl > 30) || (dr < 110 && dr > 30) || (x >= 29 && x < 35 && y >= 12) {
					img.SetRGBA(x, y, ribbon)
				}
			}
		}
		giftImg = img
	})
	return giftImg
}

func sq(v int) int { return v * v }

// drawGift scales the icon into a side x side square at pos.
func drawGift(dst draw.Image, pos image.Point, side int) {
	if side <= 0 {
		return
	}
	src := gift()
	r := image.Rectangle{Min: pos, Max: pos.Add(image.Pt(side, side))}
	xdraw.CatmullRom.Scale(dst, r, src, src.Bounds(), xdraw.Over, nil)
}
