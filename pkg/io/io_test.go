package io

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/calsheet/pkg/dates"
	"github.com/matzehuels/calsheet/pkg/errors"
	"github.com/matzehuels/calsheet/pkg/render/calendar"
)

const calendarTOML = `
start = "1/1/2024"
weeks = 8
smooth = 0
birthdays = ["15/03-Alice"]

[[periods]]
iDay = "1/7/2024"
fDay = "31/7/2024"
name = "Summer"
color = "0F0"
exceptions = ["15/7/2024"]
`

const calendarJSON = `{
  "start": "1/1/2024",
  "weeks": 8,
  "smooth": 0,
  "birthdays": ["15/03-Alice"],
  "periods": [
    {"iDay": "1/7/2024", "fDay": "31/7/2024", "name": "Summer", "color": "0F0", "exceptions": ["15/7/2024"]}
  ]
}`

func TestFormatFromPath(t *testing.T) {
	for path, want := range map[string]Format{
		"cal.json":       FormatJSON,
		"dir/cal.TOML":   FormatTOML,
		"a.b/chart.json": FormatJSON,
	} {
		got, err := FormatFromPath(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}

	_, err := FormatFromPath("cal.yaml")
	assert.True(t, errors.Is(err, errors.ErrCodeUnsupported))
}

func TestReadCalendar(t *testing.T) {
	want := &Calendar{
		Start:     "1/1/2024",
		Weeks:     8,
		Smooth:    new(int),
		Birthdays: []string{"15/03-Alice"},
		Periods: []calendar.PeriodSpec{{
			IDay: "1/7/2024", FDay: "31/7/2024", Name: "Summer", Color: "0F0",
			Exceptions: []string{"15/7/2024"},
		}},
	}
	for f, src := range map[Format]string{FormatTOML: calendarTOML, FormatJSON: calendarJSON} {
		t.Run(string(f), func(t *testing.T) {
			got, err := ReadCalendar(strings.NewReader(src), f)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestReadCalendarUnknownKey(t *testing.T) {
	_, err := ReadCalendar(strings.NewReader(`{"weekends": 3}`), FormatJSON)
	assert.True(t, errors.Is(err, errors.ErrCodeParse), "got %v", err)

	_, err = ReadCalendar(strings.NewReader("weekends = 3\n"), FormatTOML)
	assert.True(t, errors.Is(err, errors.ErrCodeParse), "got %v", err)
}

func TestCalendarParamsDefaults(t *testing.T) {
	today := dates.FromDate(2024, 2, 10)

	p := (&Calendar{}).Params(today)
	assert.Equal(t, "10/2/2024", p.Start)
	assert.Equal(t, calendar.DefaultWeeks, p.Weeks)
	assert.Equal(t, calendar.DefaultSmooth, p.Smooth)

	zero := 0
	p = (&Calendar{Start: "1/1", Weeks: 3, Smooth: &zero}).Params(today)
	assert.Equal(t, "1/1", p.Start)
	assert.Equal(t, 3, p.Weeks)
	assert.Equal(t, 0, p.Smooth, "an explicit zero disables smoothing")
}

func TestReadChart(t *testing.T) {
	tests := []struct {
		format Format
		src    string
	}{
		{FormatJSON, `{"weeks": 4, "samples": [[738885, 75], ["2/1/2024", 80], ["3/1", 5]]}`},
		{FormatTOML, "weeks = 4\nsamples = [[738885, 75], [\"2/1/2024\", 80], [\"3/1\", 5]]\n"},
	}
	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			c, err := ReadChart(strings.NewReader(tt.src), tt.format)
			require.NoError(t, err)
			assert.Equal(t, []SampleRecord{{"738885", 75}, {"2/1/2024", 80}, {"3/1", 5}}, c.Samples)

			p, err := c.Params(2024)
			require.NoError(t, err)
			assert.Equal(t, 4, p.Weeks)
			require.Len(t, p.Samples, 3)
			assert.Equal(t, dates.Day(738885), p.Samples[0].Day)
			assert.Equal(t, dates.Day(738886), p.Samples[1].Day)
			assert.Equal(t, dates.Day(738887), p.Samples[2].Day)
			assert.Equal(t, 5, p.Samples[2].Raw)
		})
	}
}

func TestReadChartErrors(t *testing.T) {
	for _, src := range []string{
		`{"samples": [[1]]}`,
		`{"samples": [[1, 2, 3]]}`,
		`{"samples": [[true, 2]]}`,
		`{"samples": [[738885, 2.5]]}`,
		`{"samples": {"day": 1}}`,
	} {
		_, err := ReadChart(strings.NewReader(src), FormatJSON)
		assert.True(t, errors.Is(err, errors.ErrCodeParse), "%s: got %v", src, err)
	}

	c, err := ReadChart(strings.NewReader(`{"samples": [["31/2/2024", 1]]}`), FormatJSON)
	require.NoError(t, err, "dates are checked when resolving")
	_, err = c.Params(2024)
	assert.True(t, errors.Is(err, errors.ErrCodeParse))
}

func TestSampleRecordMarshalJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteChartJSON(&buf, &Chart{Samples: []SampleRecord{{"738885", 75}, {"2/1", 80}}}))
	assert.JSONEq(t, `{"samples": [[738885, 75], ["2/1", 80]]}`, buf.String())
}

func TestExportImportCalendar(t *testing.T) {
	dir := t.TempDir()
	smooth := 120
	c := &Calendar{
		Start:     "5/2/2024",
		Weeks:     4,
		Smooth:    &smooth,
		Birthdays: []string{"2/10-Bob"},
		Periods:   []calendar.PeriodSpec{{IDay: "6/2/2024", Name: "Trip", Weekend: "00F"}},
	}
	for _, name := range []string{"cal.json", "cal.toml"} {
		path := filepath.Join(dir, name)
		require.NoError(t, ExportCalendar(path, c))
		got, err := ImportCalendar(path)
		require.NoError(t, err, name)
		assert.Equal(t, c, got, name)
	}
}

func TestImportErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := ImportCalendar(filepath.Join(dir, "missing.json"))
	assert.True(t, errors.Is(err, errors.ErrCodeFileNotFound), "got %v", err)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o644))
	_, err = ImportChart(bad)
	assert.True(t, errors.Is(err, errors.ErrCodeParse), "got %v", err)
	assert.Contains(t, err.Error(), bad)

	err = ExportCalendar(filepath.Join(dir, "cal.txt"), &Calendar{})
	assert.True(t, errors.Is(err, errors.ErrCodeUnsupported))
}
