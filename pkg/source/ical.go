package source

import (
	"context"
	stderrors "errors"
	"io"
	"strings"
	"time"

	"github.com/emersion/go-ical"

	"github.com/matzehuels/calsheet/pkg/dates"
	"github.com/matzehuels/calsheet/pkg/errors"
	"github.com/matzehuels/calsheet/pkg/render/calendar"
)

// Non-standard event properties carrying the period colors.
const (
	PropColor   = "X-CALSHEET-COLOR"
	PropWeekend = "X-CALSHEET-WEEKEND"
)

// ReadICalPeriods turns every VEVENT in r into a period spec. SUMMARY is
// the label, EXDATE values become exceptions and the optional PropColor and
// PropWeekend properties carry 3-digit color shorthands. DTEND is
// exclusive, so an all-day event ending on the 8th covers the 7th. Times
// are read in loc; nil means UTC.
func ReadICalPeriods(ctx context.Context, r io.Reader, loc *time.Location) ([]calendar.PeriodSpec, error) {
	if loc == nil {
		loc = time.UTC
	}
	dec := ical.NewDecoder(r)
	var out []calendar.PeriodSpec
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		cal, err := dec.Decode()
		if stderrors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeParse, err, "decode ical")
		}
		for _, ev := range cal.Events() {
			spec, err := eventPeriod(ev, loc)
			if err != nil {
				return nil, err
			}
			out = append(out, spec)
		}
	}
}

func eventPeriod(ev ical.Event, loc *time.Location) (calendar.PeriodSpec, error) {
	uid, _ := ev.Props.Text(ical.PropUID)

	start, err := ev.DateTimeStart(loc)
	if err != nil {
		return calendar.PeriodSpec{}, errors.Wrap(errors.ErrCodeParse, err, "event %q: DTSTART", uid)
	}
	end := start
	if prop := ev.Props.Get(ical.PropDateTimeEnd); prop != nil {
		if end, err = prop.DateTime(loc); err != nil {
			return calendar.PeriodSpec{}, errors.Wrap(errors.ErrCodeParse, err, "event %q: DTEND", uid)
		}
		if end.After(start) {
			end = end.Add(-time.Nanosecond)
		} else {
			end = start
		}
	}

	summary, err := ev.Props.Text(ical.PropSummary)
	if err != nil {
		return calendar.PeriodSpec{}, errors.Wrap(errors.ErrCodeParse, err, "event %q: SUMMARY", uid)
	}
	spec := calendar.PeriodSpec{
		IDay: dates.Format(dates.FromTime(start)),
		FDay: dates.Format(dates.FromTime(end)),
		Name: strings.TrimSpace(summary),
	}
	if p := ev.Props.Get(PropColor); p != nil {
		spec.Color = strings.TrimSpace(p.Value)
	}
	if p := ev.Props.Get(PropWeekend); p != nil {
		spec.Weekend = strings.TrimSpace(p.Value)
	}

	for _, p := range ev.Props.Values(ical.PropExceptionDates) {
		for _, v := range strings.Split(p.Value, ",") {
			single := ical.Prop{Name: p.Name, Params: p.Params, Value: strings.TrimSpace(v)}
			t, err := single.DateTime(loc)
			if err != nil {
				return calendar.PeriodSpec{}, errors.Wrap(errors.ErrCodeParse, err, "event %q: EXDATE %q", uid, v)
			}
			spec.Exceptions = append(spec.Exceptions, dates.Format(dates.FromTime(t)))
		}
	}
	return spec, nil
}
