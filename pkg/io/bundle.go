package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/matzehuels/calsheet/pkg/dates"
	"github.com/matzehuels/calsheet/pkg/errors"
	"github.com/matzehuels/calsheet/pkg/render/calendar"
	"github.com/matzehuels/calsheet/pkg/render/chart"
)

// Calendar is a calendar bundle.
type Calendar struct {
	Start     string                `json:"start,omitempty" toml:"start,omitempty"`
	Weeks     int                   `json:"weeks,omitempty" toml:"weeks,omitempty"`
	Smooth    *int                  `json:"smooth,omitempty" toml:"smooth,omitempty"`
	Birthdays []string              `json:"birthdays,omitempty" toml:"birthdays,omitempty"`
	Periods   []calendar.PeriodSpec `json:"periods,omitempty" toml:"periods,omitempty"`
}

// Params converts the bundle to render parameters. An empty start means
// today and unset weeks and smooth take the calendar defaults.
func (c *Calendar) Params(today dates.Day) calendar.Params {
	p := calendar.Params{
		Start:     c.Start,
		Weeks:     c.Weeks,
		Smooth:    calendar.DefaultSmooth,
		Birthdays: c.Birthdays,
		Periods:   c.Periods,
	}
	if p.Start == "" {
		p.Start = dates.Format(today)
	}
	if p.Weeks == 0 {
		p.Weeks = calendar.DefaultWeeks
	}
	if c.Smooth != nil {
		p.Smooth = *c.Smooth
	}
	return p
}

// Chart is a chart bundle.
type Chart struct {
	Weeks   int            `json:"weeks,omitempty" toml:"weeks,omitempty"`
	Samples []SampleRecord `json:"samples" toml:"samples"`
}

// Params resolves the sample records. Dates without a year use
// defaultYear; unset weeks take the calendar default.
func (c *Chart) Params(defaultYear int) (chart.Params, error) {
	p := chart.Params{Weeks: c.Weeks, Samples: make([]chart.Sample, 0, len(c.Samples))}
	if p.Weeks == 0 {
		p.Weeks = calendar.DefaultWeeks
	}
	for i, rec := range c.Samples {
		s, err := chart.ParseSample(rec.Day, rec.Amount, defaultYear)
		if err != nil {
			return chart.Params{}, errors.Wrap(errors.ErrCodeParse, err, "sample %d", i)
		}
		p.Samples = append(p.Samples, s)
	}
	return p, nil
}

// SampleRecord is one [day, amount] pair as written in a chart bundle.
// Day holds either an ordinal number or a date string.
type SampleRecord struct {
	Day    string
	Amount int
}

// UnmarshalJSON decodes a [day, amount] pair.
func (r *SampleRecord) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil || len(pair) != 2 {
		return errors.Parse("sample %s: want [day, amount]", data)
	}

	var day any
	dec := json.NewDecoder(bytes.NewReader(pair[0]))
	dec.UseNumber()
	if err := dec.Decode(&day); err != nil {
		return errors.Wrap(errors.ErrCodeParse, err, "sample day %s", pair[0])
	}
	var amount json.Number
	if err := json.Unmarshal(pair[1], &amount); err != nil {
		return errors.Wrap(errors.ErrCodeParse, err, "sample amount %s", pair[1])
	}
	return r.set(day, amount.String())
}

// MarshalJSON encodes the record as a [day, amount] pair.
func (r SampleRecord) MarshalJSON() ([]byte, error) {
	if n, err := strconv.Atoi(r.Day); err == nil {
		return json.Marshal([]any{n, r.Amount})
	}
	return json.Marshal([]any{r.Day, r.Amount})
}

// UnmarshalTOML decodes a [day, amount] array.
func (r *SampleRecord) UnmarshalTOML(v any) error {
	pair, ok := v.([]any)
	if !ok || len(pair) != 2 {
		return errors.Parse("sample %v: want [day, amount]", v)
	}
	return r.set(pair[0], fmt.Sprint(pair[1]))
}

func (r *SampleRecord) set(day any, amount string) error {
	switch d := day.(type) {
	case string:
		r.Day = d
	case json.Number:
		r.Day = d.String()
	case int64:
		r.Day = strconv.FormatInt(d, 10)
	default:
		return errors.Parse("sample day %v: want a number or a date string", day)
	}
	n, err := strconv.Atoi(amount)
	if err != nil {
		return errors.Parse("sample amount %q: want an integer", amount)
	}
	r.Amount = n
	return nil
}
