package source

import (
	"github.com/matzehuels/calsheet/pkg/errors"
	"github.com/matzehuels/calsheet/pkg/render/calendar"
)

// PackedPeriod builds a period spec from the compact record used by the
// chat front end: three color digits, three weekend digits, then the
// label, as in "0F00A0Summer". The label may be empty. Colors are
// validated here so a bad record fails before it reaches a render.
func PackedPeriod(iDay, fDay, packed string) (calendar.PeriodSpec, error) {
	if len(packed) < 6 {
		return calendar.PeriodSpec{}, errors.Parse("packed period %q: want RGBWKE followed by a label", packed)
	}
	spec := calendar.PeriodSpec{
		IDay:    iDay,
		FDay:    fDay,
		Color:   packed[:3],
		Weekend: packed[3:6],
		Name:    packed[6:],
	}
	for _, c := range []string{spec.Color, spec.Weekend} {
		if _, err := calendar.ParseColor(c); err != nil {
			return calendar.PeriodSpec{}, err
		}
	}
	return spec, nil
}
