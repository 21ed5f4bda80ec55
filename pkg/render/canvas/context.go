package canvas

import (
	"image"
	"image/color"

	"golang.org/x/image/font"

	"github.com/matzehuels/calsheet/pkg/fonts"
	"github.com/matzehuels/calsheet/pkg/render/text"
)

// Context is the state of one render: the canvas and the faces drawn on it.
// It is not safe for concurrent use.
type Context struct {
	Config *Config
	Image  *image.RGBA

	faces map[string]*fonts.FaceSet
}

// NewContext allocates a canvas filled with bg.
func NewContext(cfg *Config, bg color.RGBA) *Context {
	img := image.NewRGBA(cfg.Bounds())
	text.Fill(img, img.Bounds(), bg)
	return &Context{
		Config: cfg,
		Image:  img,
		faces:  make(map[string]*fonts.FaceSet),
	}
}

// Close releases the faces opened by the context.
func (c *Context) Close() {
	for name, set := range c.faces {
		_ = set.Close()
		delete(c.faces, name)
	}
}

func (c *Context) faceSet(family string) (*fonts.FaceSet, error) {
	if set, ok := c.faces[family]; ok {
		return set, nil
	}
	set, err := c.Config.Registry.NewFaceSet(family)
	if err != nil {
		return nil, err
	}
	c.faces[family] = set
	return set, nil
}

// Fit returns the face of family that fits s into a w x h box, and the
// measured size of s in that face.
func (c *Context) Fit(family, s string, w, h int) (font.Face, image.Point, error) {
	set, err := c.faceSet(family)
	if err != nil {
		return nil, image.Point{}, err
	}
	m := text.NewFaceMeasurer(set)
	size := text.Fit(m, s, w, h)
	if err := m.Err(); err != nil {
		return nil, image.Point{}, err
	}
	face, err := set.Face(size)
	if err != nil {
		return nil, image.Point{}, err
	}
	tw, th := text.Size(face, s)
	return face, image.Pt(tw, th), nil
}

// Blit draws s into the region at pos of the given size.
func (c *Context) Blit(face font.Face, pos image.Point, size image.Point, s string, fg, bg color.RGBA, anchor text.Anchor) {
	text.Blit(c.Image, face, pos, s, fg, text.BlitOptions{
		Background: &bg,
		Size:       &size,
		Anchor:     anchor,
	})
}

// Fill paints r with col.
func (c *Context) Fill(r image.Rectangle, col color.RGBA) {
	text.Fill(c.Image, r, col)
}

// Header draws the weekday letters across the top row, white on
// alternating light grays.
func (c *Context) Header() error {
	colW, _ := c.Config.ColumnWidth()
	h := c.Config.HeaderHeight()
	face, _, err := c.Fit(c.Config.Fonts.Mono, "0", colW/4, h)
	if err != nil {
		return err
	}
	for wday := 0; wday < 7; wday++ {
		x, w := c.Config.Column(wday)
		bg := Gray(225)
		if wday&1 == 1 {
			bg = Gray(215)
		}
		c.Blit(face, image.Pt(x, 0), image.Pt(w, h), c.Config.Labels.Weekdays[wday], White, bg, text.Center)
	}
	return nil
}
