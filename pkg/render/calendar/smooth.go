package calendar

import "image/color"

// Smooth tints c toward white by factor, with a slightly different ramp on
// odd columns so neighbouring days of one period stay distinguishable.
//
//	even: factor   + ch*((255-factor)/5)/51
//	odd:  factor+5 + ch*((255-factor)/5-1)/51
//
// Divisions floor, left to right, and results clamp to [0, 255].
func Smooth(c color.RGBA, factor, column int) color.RGBA {
	step := (255 - factor) / 5
	base := factor
	if column&1 == 1 {
		step--
		base += 5
	}
	ch := func(v uint8) uint8 {
		return clamp(base + floorDiv(int(v)*step, 51))
	}
	return color.RGBA{R: ch(c.R), G: ch(c.G), B: ch(c.B), A: 255}
}

func clamp(v int) uint8 {
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	}
	return uint8(v)
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
