// Package text fits and draws single-line text runs.
//
// [Fit] picks a font size by bisection over a [Measurer], so the search can
// be tested against a synthetic measurer without any font rasterizer.
// [FaceMeasurer] is the production measurer backed by [fonts.FaceSet].
//
// [Blit] composes a run into a destination image. The text box is the
// run's advance width by the face's line height, and is anchored inside an
// optional region:
//
//	text.Blit(img, face, image.Pt(x, y), "15", black, text.BlitOptions{
//	    Background: &cellColor,
//	    Size:       &image.Point{X: w, Y: h},
//	    Anchor:     text.NW,
//	})
//
// [fonts.FaceSet]: github.com/matzehuels/calsheet/pkg/fonts.FaceSet
package text
