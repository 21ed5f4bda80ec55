package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/calsheet/pkg/dates"
	"github.com/matzehuels/calsheet/pkg/errors"
	"github.com/matzehuels/calsheet/pkg/locale"
	"github.com/matzehuels/calsheet/pkg/render/calendar"
	"github.com/matzehuels/calsheet/pkg/render/canvas"
	"github.com/matzehuels/calsheet/pkg/render/chart"
)

// changedFlags returns a flag set where exactly the given flags were set.
func changedFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Int("weeks", 0, "")
	fs.Int("smooth", 0, "")
	require.NoError(t, fs.Parse(args))
	return fs
}

var defaults = settings{Weeks: calendar.DefaultWeeks, Smooth: calendar.DefaultSmooth}

func TestBuildCalendar(t *testing.T) {
	dir := t.TempDir()
	bundlePath := writeFile(t, filepath.Join(dir, "school.toml"), `start = "1/9/2024"
weeks = 10
birthdays = ["1/1-Ana"]
`)
	txt := writeFile(t, filepath.Join(dir, "family.txt"), "3/3-Carla\n# cousins\n\n4/4-Dani\n")

	opts := &calendarOpts{
		weeks:         4,
		birthdays:     []string{"2/2-Bea"},
		birthdayFiles: []string{txt},
		periods:       []string{"1/7/2024:31/7/2024:0F00A0Summer"},
	}
	b, err := buildCalendar(context.Background(), changedFlags(t, "--weeks", "4"), []string{bundlePath}, opts, defaults)
	require.NoError(t, err)

	assert.Equal(t, "1/9/2024", b.Start)
	assert.Equal(t, 4, b.Weeks, "flag beats bundle")
	require.NotNil(t, b.Smooth)
	assert.Equal(t, calendar.DefaultSmooth, *b.Smooth)
	assert.Equal(t, []string{"1/1-Ana", "2/2-Bea", "3/3-Carla", "4/4-Dani"}, b.Birthdays)
	assert.Equal(t, []calendar.PeriodSpec{{
		IDay: "1/7/2024", FDay: "31/7/2024", Color: "0F0", Weekend: "0A0", Name: "Summer",
	}}, b.Periods)
}

func TestBuildCalendarDefaults(t *testing.T) {
	s := settings{Weeks: 8, Smooth: 100}
	b, err := buildCalendar(context.Background(), changedFlags(t), nil, &calendarOpts{}, s)
	require.NoError(t, err)
	assert.Empty(t, b.Start)
	assert.Equal(t, 8, b.Weeks)
	assert.Equal(t, 100, *b.Smooth)

	b, err = buildCalendar(context.Background(), changedFlags(t, "--smooth", "0"), nil, &calendarOpts{smooth: 0}, s)
	require.NoError(t, err)
	assert.Equal(t, 0, *b.Smooth, "an explicit zero is kept")
}

func TestBuildCalendarErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name  string
		flags []string
		args  []string
		opts  calendarOpts
		code  errors.Code
	}{
		{"smooth out of range", []string{"--smooth", "300"}, nil, calendarOpts{smooth: 300}, errors.ErrCodeInvalidInput},
		{"packed period without dates", nil, nil, calendarOpts{periods: []string{"F00F00Name"}}, errors.ErrCodeInvalidInput},
		{"packed period too short", nil, nil, calendarOpts{periods: []string{"1/7::F00"}}, errors.ErrCodeParse},
		{"missing bundle", nil, []string{filepath.Join(dir, "none.toml")}, calendarOpts{}, errors.ErrCodeFileNotFound},
		{"missing birthdays", nil, nil, calendarOpts{birthdayFiles: []string{filepath.Join(dir, "none.vcf")}}, errors.ErrCodeFileNotFound},
		{"unknown time zone", nil, nil, calendarOpts{icalFiles: []string{"x.ics"}, timezone: "Mars/Olympus"}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := buildCalendar(context.Background(), changedFlags(t, tt.flags...), tt.args, &tt.opts, defaults)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.code), "got %v", err)
		})
	}
}

func TestBuildChart(t *testing.T) {
	dir := t.TempDir()
	bundlePath := writeFile(t, filepath.Join(dir, "sleep.json"), `{"weeks": 3, "samples": [["5/1/2024", 70]]}`)
	samples := writeFile(t, filepath.Join(dir, "sleep.csv"), "date,amount\n1/1/2024,25\n2/1,10\n")
	intervals := writeFile(t, filepath.Join(dir, "log.csv"), "2024-01-01T23:00:00Z,2024-01-02T07:00:00Z\n")

	opts := &chartOpts{samples: []string{samples}, intervals: []string{intervals}}
	p, err := buildChart(context.Background(), changedFlags(t), []string{bundlePath}, opts, defaults, 2024)
	require.NoError(t, err)

	assert.Equal(t, 3, p.Weeks)
	assert.Equal(t, []chart.Sample{
		{Day: 738889, Raw: 70},
		{Day: 738885, Raw: 25},
		{Day: 738886, Raw: 10},
		{Day: 738886, Raw: 80},
	}, p.Samples)

	p, err = buildChart(context.Background(), changedFlags(t, "--weeks", "6"), nil, &chartOpts{weeks: 6}, defaults, 2024)
	require.NoError(t, err)
	assert.Equal(t, 6, p.Weeks)
	assert.Empty(t, p.Samples)

	_, err = buildChart(context.Background(), changedFlags(t), nil, &chartOpts{samples: []string{bundlePath}}, defaults, 2024)
	assert.True(t, errors.Is(err, errors.ErrCodeUnsupported), "got %v", err)
}

func TestPrintSummary(t *testing.T) {
	labels, err := locale.Load("en")
	require.NoError(t, err)
	c := &chart.Chart{
		Average: 2.5,
		Summaries: []chart.Summary{
			{Weekday: 0, Average: 3, Samples: 2},
			{Weekday: 4, Average: 1.25, Samples: 1},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, printSummary(&buf, c, labels))
	out := buf.String()
	assert.Contains(t, out, labels.Weekdays[0])
	assert.Contains(t, out, labels.Weekdays[4])
	assert.Contains(t, out, "3.00")
	assert.Contains(t, out, "1.25")
	assert.Contains(t, out, "2.50")
	assert.Contains(t, out, "▲")
	assert.Contains(t, out, "▼")
}

// execute runs the root command with args and returns its standard output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var logs, out bytes.Buffer
	c := New(&logs, LogInfo)
	root := c.RootCommand()
	root.SetOut(&out)
	root.SetErr(&logs)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCalendarCommand(t *testing.T) {
	dir := isolate(t)
	cacheDir := t.TempDir()
	t.Setenv("CALSHEET_CACHE_DIR", cacheDir)
	output := filepath.Join(dir, "sheet.png")

	out, err := execute(t, "calendar", "--dpi", "75", "-w", "4", "-b", "1/1-Ana", "-o", output)
	require.NoError(t, err)
	assert.Contains(t, out, "Rendered 4 weeks")
	assert.Contains(t, out, output)
	assert.Contains(t, out, iconFresh)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))

	out, err = execute(t, "calendar", "--dpi", "75", "-w", "4", "-b", "1/1-Ana", "-o", output)
	require.NoError(t, err)
	assert.Contains(t, out, iconCached, "second render is served from the cache")

	out, err = execute(t, "cache", "path")
	require.NoError(t, err)
	assert.Equal(t, cacheDir, strings.TrimSpace(out))

	out, err = execute(t, "cache", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Cleared the file cache")
	entries, err := os.ReadDir(cacheDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCalendarCommandCachePrefix(t *testing.T) {
	dir := isolate(t)
	t.Setenv("CALSHEET_CACHE_DIR", t.TempDir())
	output := filepath.Join(dir, "sheet.png")
	render := func(prefix string) string {
		t.Setenv("CALSHEET_CACHE_PREFIX", prefix)
		out, err := execute(t, "calendar", "--dpi", "75", "-w", "4", "-o", output)
		require.NoError(t, err)
		return out
	}

	assert.Contains(t, render("work"), iconFresh)
	assert.Contains(t, render("home"), iconFresh, "prefixes do not share entries")
	assert.Contains(t, render("work"), iconCached)
}

func TestDPIHelpListsSupported(t *testing.T) {
	flag := New(&bytes.Buffer{}, LogInfo).RootCommand().PersistentFlags().Lookup(keyDPI)
	require.NotNil(t, flag)
	for _, dpi := range canvas.SupportedDPI() {
		assert.Contains(t, flag.Usage, strconv.Itoa(dpi))
	}
	assert.NotContains(t, flag.Usage, "200")
}

func TestCalendarCommandExport(t *testing.T) {
	dir := isolate(t)
	exported := filepath.Join(dir, "bundle.toml")

	_, err := execute(t, "calendar", "--dpi", "75", "--no-cache", "--start", "2/9/2024",
		"-p", "2/9/2024:6/9/2024:F00F80Exams", "--export", exported, "-o", filepath.Join(dir, "a.png"))
	require.NoError(t, err)

	out, err := execute(t, "calendar", exported, "--dpi", "75", "--no-cache", "-o", filepath.Join(dir, "b.png"))
	require.NoError(t, err)
	assert.Contains(t, out, "from 2/9/2024")

	a, err := os.ReadFile(filepath.Join(dir, "a.png"))
	require.NoError(t, err)
	b, err := os.ReadFile(filepath.Join(dir, "b.png"))
	require.NoError(t, err)
	assert.Equal(t, a, b, "the exported bundle reproduces the render")
}

func TestCalendarCommandErrors(t *testing.T) {
	dir := isolate(t)

	_, err := execute(t, "calendar", "--dpi", "80", "--no-cache", "-o", filepath.Join(dir, "x.png"))
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput), "got %v", err)

	_, err = execute(t, "calendar", "--dpi", "75", "--no-cache", "-o", filepath.Join(dir, "x.jpg"))
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidFormat), "got %v", err)

	_, err = execute(t, "calendar", "--dpi", "75", "--no-cache", "--start", "31/2/2024", "-o", filepath.Join(dir, "x.png"))
	assert.True(t, errors.Is(err, errors.ErrCodeParse), "got %v", err)
}

func TestChartCommand(t *testing.T) {
	dir := isolate(t)
	today := dates.Today(nil)
	csv := writeFile(t, filepath.Join(dir, "sleep.csv"),
		dates.Format(today)+",75\n"+dates.Format(today-1)+",60\n")

	out, err := execute(t, "chart", "--dpi", "75", "--no-cache", "--locale", "en",
		"-s", csv, "-o", filepath.Join(dir, "chart.png"))
	require.NoError(t, err)
	assert.Contains(t, out, "Rendered")
	assert.Contains(t, out, "6.75", "overall average in the summary table")

	_, err = os.Stat(filepath.Join(dir, "chart.png"))
	require.NoError(t, err)

	empty := writeFile(t, filepath.Join(dir, "empty.csv"), "date,amount\n")
	_, err = execute(t, "chart", "--dpi", "75", "--no-cache", "-s", empty, "-o", filepath.Join(dir, "none.png"))
	assert.True(t, errors.Is(err, errors.ErrCodeEmptyData), "got %v", err)
}

func TestVersionCommand(t *testing.T) {
	isolate(t)
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "commit:")
}
