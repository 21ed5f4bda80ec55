package pipeline

import (
	"context"
	"image"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/calsheet/pkg/cache"
	"github.com/matzehuels/calsheet/pkg/dates"
	"github.com/matzehuels/calsheet/pkg/errors"
	"github.com/matzehuels/calsheet/pkg/observability"
	"github.com/matzehuels/calsheet/pkg/render/calendar"
	"github.com/matzehuels/calsheet/pkg/render/canvas"
	"github.com/matzehuels/calsheet/pkg/render/chart"
)

var wednesday = dates.FixedClock{T: time.Date(2024, time.January, 24, 9, 0, 0, 0, time.UTC)}

func newRunner(t *testing.T, c cache.Cache) *Runner {
	t.Helper()
	cfg, err := canvas.New(canvas.Options{DPI: 75})
	require.NoError(t, err)
	r := NewRunner(cfg, c, nil, log.New(io.Discard))
	r.Clock = wednesday
	return r
}

func fileCache(t *testing.T) cache.Cache {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	return c
}

var calendarParams = calendar.Params{
	Start:     "1/1/2024",
	Weeks:     4,
	Smooth:    calendar.DefaultSmooth,
	Birthdays: []string{"10/1-Ana"},
	Periods:   []calendar.PeriodSpec{{IDay: "8/1", FDay: "12/1", Name: "Trip", Color: "0F0"}},
}

var chartParams = chart.Params{Weeks: 2, Samples: []chart.Sample{
	{Day: dates.FromDate(2024, 1, 16), Raw: 75},
	{Day: dates.FromDate(2024, 1, 22), Raw: 80},
	{Day: dates.FromDate(2024, 1, 23), Raw: 65},
}}

type recordingHooks struct {
	observability.NoopRenderHooks
	observability.NoopCacheHooks

	mu     sync.Mutex
	events []string
}

func (h *recordingHooks) record(e string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, e)
}

func (h *recordingHooks) OnLayoutComplete(_ context.Context, kind string, _ int, _ time.Duration, err error) {
	if err != nil {
		h.record(kind + ":layout-error")
		return
	}
	h.record(kind + ":layout")
}

func (h *recordingHooks) OnRenderComplete(_ context.Context, kind string, _ int, _ time.Duration, _ error) {
	h.record(kind + ":render")
}

func (h *recordingHooks) OnCacheHit(_ context.Context, kind string)        { h.record(kind + ":hit") }
func (h *recordingHooks) OnCacheMiss(_ context.Context, kind string)       { h.record(kind + ":miss") }
func (h *recordingHooks) OnCacheSet(_ context.Context, kind string, _ int) { h.record(kind + ":set") }

func installHooks(t *testing.T) *recordingHooks {
	t.Helper()
	h := &recordingHooks{}
	observability.SetRenderHooks(h)
	observability.SetCacheHooks(h)
	t.Cleanup(observability.Reset)
	return h
}

func TestRunnerCalendarCaches(t *testing.T) {
	hooks := installHooks(t)
	r := newRunner(t, fileCache(t))
	ctx := context.Background()
	out := filepath.Join(t.TempDir(), "calendar.png")

	first, err := r.Calendar(ctx, CalendarRequest{Params: calendarParams, Output: out})
	require.NoError(t, err)
	assert.False(t, first.CacheHit)
	assert.Equal(t, KindCalendar, first.Kind)
	assert.NotEmpty(t, first.RenderID)
	assert.Equal(t, cache.Hash(first.Data), first.ETag)
	assert.Equal(t, 28, first.Stats.Cells)
	require.NotNil(t, first.Grid)

	written, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, first.Data, written)

	second, err := r.Calendar(ctx, CalendarRequest{Params: calendarParams})
	require.NoError(t, err)
	assert.True(t, second.CacheHit)
	assert.Equal(t, first.Data, second.Data)
	assert.Equal(t, first.ETag, second.ETag)
	assert.NotEqual(t, first.RenderID, second.RenderID)
	assert.Empty(t, second.Output)

	refreshed, err := r.Calendar(ctx, CalendarRequest{Params: calendarParams, Refresh: true})
	require.NoError(t, err)
	assert.False(t, refreshed.CacheHit)
	assert.Equal(t, first.Data, refreshed.Data, "renders are deterministic")

	assert.Equal(t, []string{
		"calendar:layout", "calendar:miss", "calendar:render", "calendar:set",
		"calendar:layout", "calendar:hit",
		"calendar:layout", "calendar:render", "calendar:set",
	}, hooks.events)
}

func TestRunnerCacheKeyFollowsToday(t *testing.T) {
	r := newRunner(t, fileCache(t))
	ctx := context.Background()

	_, err := r.Chart(ctx, ChartRequest{Params: chartParams})
	require.NoError(t, err)

	r.Clock = dates.FixedClock{T: wednesday.T.Add(24 * time.Hour)}
	res, err := r.Chart(ctx, ChartRequest{Params: chartParams})
	require.NoError(t, err)
	assert.False(t, res.CacheHit, "a new day is a new window")
}

func TestRunnerCacheKeyFollowsSize(t *testing.T) {
	shared := fileCache(t)
	ctx := context.Background()

	a4 := newRunner(t, shared)
	_, err := a4.Chart(ctx, ChartRequest{Params: chartParams})
	require.NoError(t, err)

	cfg, err := canvas.New(canvas.Options{DPI: 75, Size: image.Pt(400, 560)})
	require.NoError(t, err)
	small := NewRunner(cfg, shared, nil, log.New(io.Discard))
	small.Clock = wednesday

	res, err := small.Chart(ctx, ChartRequest{Params: chartParams})
	require.NoError(t, err)
	assert.False(t, res.CacheHit, "same dpi, other size")
}

func TestRunnerScopedKeys(t *testing.T) {
	shared := fileCache(t)
	ctx := context.Background()
	scoped := func(prefix string) *Runner {
		r := newRunner(t, shared)
		r.Keyer = cache.NewScopedKeyer(nil, prefix)
		return r
	}

	_, err := scoped("work:").Calendar(ctx, CalendarRequest{Params: calendarParams})
	require.NoError(t, err)

	res, err := scoped("home:").Calendar(ctx, CalendarRequest{Params: calendarParams})
	require.NoError(t, err)
	assert.False(t, res.CacheHit, "other prefix")

	res, err = scoped("work:").Calendar(ctx, CalendarRequest{Params: calendarParams})
	require.NoError(t, err)
	assert.True(t, res.CacheHit, "same prefix")
}

func TestRunnerChart(t *testing.T) {
	r := newRunner(t, nil)
	res, err := r.Chart(context.Background(), ChartRequest{Params: chartParams})
	require.NoError(t, err)
	require.NotNil(t, res.Chart)
	assert.Len(t, res.Chart.Rows, 2)
	assert.Equal(t, 3, res.Stats.Cells)
	assert.InDelta(t, 7.333333, res.Chart.Average, 1e-5)
	assert.False(t, res.CacheHit)
}

func TestRunnerErrorsBeforeCache(t *testing.T) {
	hooks := installHooks(t)
	r := newRunner(t, fileCache(t))
	ctx := context.Background()

	_, err := r.Chart(ctx, ChartRequest{Params: chart.Params{Weeks: 2}})
	assert.True(t, errors.Is(err, errors.ErrCodeEmptyData), "got %v", err)

	bad := calendarParams
	bad.Start = "31/2/2024"
	_, err = r.Calendar(ctx, CalendarRequest{Params: bad})
	assert.True(t, errors.Is(err, errors.ErrCodeParse), "got %v", err)

	assert.Equal(t, []string{"chart:layout-error", "calendar:layout-error"}, hooks.events)
}

type brokenCache struct{ cache.Cache }

func (brokenCache) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, os.ErrPermission
}

func (brokenCache) Set(context.Context, string, []byte, time.Duration) error {
	return os.ErrPermission
}

func TestRunnerSurvivesCacheFailures(t *testing.T) {
	r := newRunner(t, brokenCache{cache.NewNullCache()})
	res, err := r.Calendar(context.Background(), CalendarRequest{Params: calendarParams})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Data)
	assert.False(t, res.CacheHit)
}

func TestRunnerInvalidOutput(t *testing.T) {
	r := newRunner(t, nil)
	_, err := r.Calendar(context.Background(), CalendarRequest{
		Params: calendarParams,
		Output: filepath.Join(t.TempDir(), "calendar.jpg"),
	})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidFormat), "got %v", err)
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadBirthdays(t *testing.T) {
	ctx := context.Background()

	got, err := LoadBirthdays(ctx, writeFile(t, "b.txt", "# family\n10/1-Ana\n\n 2/10-Bob \n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"10/1-Ana", "2/10-Bob"}, got)

	vcf := "BEGIN:VCARD\r\nVERSION:3.0\r\nFN:Ana\r\nBDAY:1990-01-10\r\nEND:VCARD\r\n"
	got, err = LoadBirthdays(ctx, writeFile(t, "contacts.vcf", vcf))
	require.NoError(t, err)
	assert.Equal(t, []string{"10/1-Ana"}, got)

	_, err = LoadBirthdays(ctx, writeFile(t, "b.json", "[]"))
	assert.True(t, errors.Is(err, errors.ErrCodeUnsupported), "got %v", err)

	_, err = LoadBirthdays(ctx, filepath.Join(t.TempDir(), "missing.txt"))
	assert.True(t, errors.Is(err, errors.ErrCodeFileNotFound), "got %v", err)
}

func TestLoadSamples(t *testing.T) {
	ctx := context.Background()

	got, err := LoadSamples(ctx, writeFile(t, "s.csv", "date,amount\n16/1,75\n738885,10\n"), 2024)
	require.NoError(t, err)
	assert.Equal(t, []chart.Sample{{Day: dates.FromDate(2024, 1, 16), Raw: 75}, {Day: 738885, Raw: 10}}, got)

	_, err = LoadSamples(ctx, writeFile(t, "s.csv", "16/1,lots\n17/1,x\n"), 2024)
	assert.True(t, errors.Is(err, errors.ErrCodeParse), "got %v", err)

	got, err = LoadIntervals(ctx, writeFile(t, "sleep.csv", "2024-01-15T23:00:00Z,2024-01-16T06:30:00Z\n"))
	require.NoError(t, err)
	assert.Equal(t, []chart.Sample{{Day: dates.FromDate(2024, 1, 16), Raw: 75}}, got)
}

func TestLoadPeriods(t *testing.T) {
	ics := "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:-//calsheet//test//EN\r\n" +
		"BEGIN:VEVENT\r\nUID:1\r\nDTSTAMP:20240101T000000Z\r\nDTSTART;VALUE=DATE:20240108\r\n" +
		"DTEND;VALUE=DATE:20240113\r\nSUMMARY:Trip\r\nEND:VEVENT\r\nEND:VCALENDAR\r\n"
	got, err := LoadPeriods(context.Background(), writeFile(t, "trips.ics", ics), time.UTC)
	require.NoError(t, err)
	assert.Equal(t, []calendar.PeriodSpec{{IDay: "8/1/2024", FDay: "12/1/2024", Name: "Trip"}}, got)
}
