// Package pipeline runs calendar and chart renders for the CLI.
//
// A [Runner] ties the engines to the surrounding infrastructure: it lays
// out the request, looks the artifact up in the cache, draws and encodes
// on a miss, reports every stage through the observability hooks and
// writes the PNG when an output path is given.
//
// # Stages
//
//  1. Layout: parse the parameters and compute the grid or chart. Input
//     errors surface here, before the cache is consulted.
//  2. Render: draw the layout and encode it as PNG, or take the bytes
//     from the cache.
//  3. Emit: write the file atomically when the request names one.
//
// # Usage
//
//	cfg, _ := canvas.New(canvas.Options{DPI: 150, Locale: "es"})
//	runner := pipeline.NewRunner(cfg, c, nil, logger)
//	res, err := runner.Calendar(ctx, pipeline.CalendarRequest{
//	    Params: calendar.Params{Start: "1/1/2024", Weeks: 26, Smooth: 205},
//	    Output: "calendar.png",
//	})
//	fmt.Println(res.ETag, res.CacheHit)
//
// Inputs usually come from files; see [LoadBirthdays], [LoadPeriods] and
// [LoadSamples].
package pipeline

import (
	"time"

	"github.com/matzehuels/calsheet/pkg/render/calendar"
	"github.com/matzehuels/calsheet/pkg/render/chart"
)

// Render kinds, used in cache keys, hooks and logs.
const (
	KindCalendar = "calendar"
	KindChart    = "chart"
)

// CalendarRequest is one calendar render.
type CalendarRequest struct {
	Params calendar.Params
	// Output is the PNG path; empty keeps the bytes in memory only.
	Output string
	// Refresh skips the cache lookup but still stores the result.
	Refresh bool
}

// ChartRequest is one chart render.
type ChartRequest struct {
	Params  chart.Params
	Output  string
	Refresh bool
}

// Stats records stage timings.
type Stats struct {
	LayoutTime time.Duration
	RenderTime time.Duration
	Cells      int
}

// Result is the outcome of a render.
type Result struct {
	Kind     string
	RenderID string
	// Data is the encoded PNG.
	Data []byte
	// ETag is the hex SHA-256 of Data.
	ETag     string
	CacheHit bool
	Output   string
	Stats    Stats

	// Grid or Chart holds the computed layout of the request's kind.
	Grid  *calendar.Grid
	Chart *chart.Chart
}
