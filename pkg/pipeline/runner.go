package pipeline

import (
	"context"
	"image"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/calsheet/pkg/cache"
	"github.com/matzehuels/calsheet/pkg/dates"
	"github.com/matzehuels/calsheet/pkg/observability"
	"github.com/matzehuels/calsheet/pkg/render/calendar"
	"github.com/matzehuels/calsheet/pkg/render/canvas"
	"github.com/matzehuels/calsheet/pkg/render/chart"
	"github.com/matzehuels/calsheet/pkg/render/sink"
)

// Runner executes renders against one canvas configuration.
//
// The Runner keeps no per-render state, so one Runner may serve concurrent
// requests as long as its cache does. Cache failures are logged and never
// fail a render.
type Runner struct {
	Config *canvas.Config
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	// Clock supplies "today" and the default year; nil means the system
	// clock.
	Clock dates.Clock
	// TTL applies to stored artifacts.
	TTL time.Duration
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer
// selects the default keyer and a nil logger the default logger.
func NewRunner(cfg *canvas.Config, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Config: cfg,
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		TTL:    cache.DefaultTTL,
	}
}

// Calendar renders a calendar grid.
func (r *Runner) Calendar(ctx context.Context, req CalendarRequest) (*Result, error) {
	res, logger := r.begin(KindCalendar)
	hooks := observability.Render()

	hooks.OnLayoutStart(ctx, KindCalendar, req.Params.Weeks)
	start := time.Now()
	grid, err := calendar.Layout(r.Config, req.Params, r.Clock)
	res.Stats.LayoutTime = time.Since(start)
	if err != nil {
		hooks.OnLayoutComplete(ctx, KindCalendar, 0, res.Stats.LayoutTime, err)
		return nil, err
	}
	hooks.OnLayoutComplete(ctx, KindCalendar, len(grid.Cells), res.Stats.LayoutTime, nil)
	res.Grid = grid
	res.Stats.Cells = len(grid.Cells)
	logger.Debug("computed layout",
		"weeks", grid.Weeks,
		"row_height", grid.RowHeight,
		"duration", res.Stats.LayoutTime)

	draw := func() (*image.RGBA, error) { return calendar.Draw(r.Config, grid) }
	if err := r.render(ctx, logger, res, req.Params, req.Refresh, draw); err != nil {
		return nil, err
	}
	if err := r.emit(logger, res, req.Output); err != nil {
		return nil, err
	}
	return res, nil
}

// Chart renders a weekly chart. It fails with ErrCodeEmptyData when the
// window holds no samples.
func (r *Runner) Chart(ctx context.Context, req ChartRequest) (*Result, error) {
	res, logger := r.begin(KindChart)
	hooks := observability.Render()

	hooks.OnLayoutStart(ctx, KindChart, req.Params.Weeks)
	start := time.Now()
	c, err := chart.Layout(r.Config, req.Params, r.Clock)
	res.Stats.LayoutTime = time.Since(start)
	if err != nil {
		hooks.OnLayoutComplete(ctx, KindChart, 0, res.Stats.LayoutTime, err)
		return nil, err
	}
	cells := 0
	for _, row := range c.Rows {
		cells += len(row.Cells)
	}
	hooks.OnLayoutComplete(ctx, KindChart, cells, res.Stats.LayoutTime, nil)
	res.Chart = c
	res.Stats.Cells = cells
	logger.Debug("computed layout",
		"weeks", c.Weeks,
		"rows", len(c.Rows),
		"average", c.Average,
		"duration", res.Stats.LayoutTime)

	draw := func() (*image.RGBA, error) { return chart.Draw(r.Config, c) }
	if err := r.render(ctx, logger, res, req.Params, req.Refresh, draw); err != nil {
		return nil, err
	}
	if err := r.emit(logger, res, req.Output); err != nil {
		return nil, err
	}
	return res, nil
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) begin(kind string) (*Result, *log.Logger) {
	res := &Result{Kind: kind, RenderID: uuid.NewString()}
	return res, r.Logger.With("render_id", res.RenderID, "kind", kind)
}

func (r *Runner) keyOpts() cache.RenderKeyOpts {
	return cache.RenderKeyOpts{
		DPI:    r.Config.DPI,
		Width:  r.Config.Width,
		Height: r.Config.Height,
		Locale: r.Config.Labels.Tag,
		Fonts:  [3]string{r.Config.Fonts.Mono, r.Config.Fonts.Text, r.Config.Fonts.Label},
		Today:  int(dates.Today(r.Clock)),
	}
}

// render fills res.Data from the cache or by drawing and encoding.
func (r *Runner) render(ctx context.Context, logger *log.Logger, res *Result, inputs any, refresh bool, draw func() (*image.RGBA, error)) error {
	key := r.Keyer.RenderKey(res.Kind, inputs, r.keyOpts())
	hooks := observability.Cache()

	if !refresh {
		if data, ok := r.lookup(ctx, logger, key); ok {
			hooks.OnCacheHit(ctx, res.Kind)
			res.Data, res.CacheHit = data, true
			return nil
		}
		hooks.OnCacheMiss(ctx, res.Kind)
	}

	start := time.Now()
	img, err := draw()
	var data []byte
	if err == nil {
		data, err = sink.EncodePNG(img)
	}
	res.Stats.RenderTime = time.Since(start)
	observability.Render().OnRenderComplete(ctx, res.Kind, len(data), res.Stats.RenderTime, err)
	if err != nil {
		return err
	}
	res.Data = data

	err = cache.RetryWithBackoff(ctx, func() error {
		return r.Cache.Set(ctx, key, data, r.TTL)
	})
	if err != nil {
		logger.Warn("cache write failed", "err", err)
	} else {
		hooks.OnCacheSet(ctx, res.Kind, len(data))
	}
	return nil
}

func (r *Runner) lookup(ctx context.Context, logger *log.Logger, key string) ([]byte, bool) {
	var data []byte
	var hit bool
	err := cache.RetryWithBackoff(ctx, func() (err error) {
		data, hit, err = r.Cache.Get(ctx, key)
		return err
	})
	if err != nil {
		logger.Warn("cache read failed", "err", err)
		return nil, false
	}
	return data, hit
}

func (r *Runner) emit(logger *log.Logger, res *Result, output string) error {
	res.ETag = cache.Hash(res.Data)
	if output != "" {
		if err := sink.WriteFile(res.Data, output); err != nil {
			return err
		}
		res.Output = output
	}

	status := "miss"
	if res.CacheHit {
		status = "hit"
	}
	logger.Info("rendered "+res.Kind,
		"bytes", len(res.Data),
		"cache", status,
		"etag", res.ETag[:12],
		"duration", res.Stats.LayoutTime+res.Stats.RenderTime)
	return nil
}
