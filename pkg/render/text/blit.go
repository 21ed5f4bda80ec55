package text

import (
	"image"
	"image/color"
	"image/draw"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// Anchor places a text box inside a sized region. It is any combination of
// the letters N or S (vertical) and W or E (horizontal); a missing axis
// letter centers on that axis.
type Anchor string

// Common anchors.
const (
	Center Anchor = ""
	NW     Anchor = "NW"
	SW     Anchor = "SW"
	NE     Anchor = "NE"
	SE     Anchor = "SE"
)

// BlitOptions controls [Blit].
type BlitOptions struct {
	// Background, when set, fills the region (and the text box itself).
	Background *color.RGBA
	// Size turns pos into the corner of a pos..pos+Size region the text is
	// anchored in. Without it the text is drawn at pos.
	Size *image.Point
	Anchor Anchor
	// NoFill skips filling the region; the text box is still filled.
	NoFill bool
}

// Blit draws text onto dst with face and fg. See [BlitOptions] for placement.
// Nothing is clipped besides dst's own bounds.
func Blit(dst draw.Image, face font.Face, pos image.Point, text string, fg color.Color, opts BlitOptions) {
	w, h := Size(face, text)
	box := image.Rect(0, 0, w, h)

	if opts.Size == nil {
		box = box.Add(pos)
	} else {
		region := image.Rectangle{Min: pos, Max: pos.Add(*opts.Size)}
		if opts.Background != nil && !opts.NoFill {
			Fill(dst, region, *opts.Background)
		}
		box = box.Add(anchor(region, w, h, opts.Anchor))
	}

	if opts.Background != nil {
		Fill(dst, box, *opts.Background)
	}
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(fg),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(box.Min.X), Y: fixed.I(box.Min.Y) + face.Metrics().Ascent},
	}
	d.DrawString(text)
}

// anchor returns the top-left corner of a w x h box placed in region.
func anchor(region image.Rectangle, w, h int, a Anchor) image.Point {
	var p image.Point
	switch s := string(a); {
	case strings.ContainsRune(s, 'N'):
		p.Y = region.Min.Y
	case strings.ContainsRune(s, 'S'):
		p.Y = region.Max.Y - h
	default:
		p.Y = region.Min.Y + region.Dy()/2 - h/2
	}
	switch s := string(a); {
	case strings.ContainsRune(s, 'W'):
		p.X = region.Min.X
	case strings.ContainsRune(s, 'E'):
		p.X = region.Max.X - w
	default:
		p.X = region.Min.X + region.Dx()/2 - w/2
	}
	return p
}

// Fill paints r on dst with c.
func Fill(dst draw.Image, r image.Rectangle, c color.RGBA) {
	draw.Draw(dst, r, image.NewUniform(c), image.Point{}, draw.Src)
}
