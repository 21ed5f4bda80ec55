// Package pkg provides the core libraries of calsheet, a renderer for
// printable calendar sheets and weekly metric charts.
//
// # Overview
//
// Calsheet draws A4 PNG images from declarative inputs. The pkg directory
// is organized into four areas:
//
//  1. [render] - Drawing (canvas, text fitting, calendar grid, chart)
//  2. [source] - Adapters from vCard, iCalendar, CSV and Parquet files
//  3. [pipeline] - Orchestration (layout → cache → draw → encode)
//  4. Support: [dates], [fonts], [locale], [io], [cache], [observability]
//
// # Architecture
//
// The typical data flow:
//
//	calendar.toml / contacts.vcf / holidays.ics / sleep.csv
//	         ↓
//	    [io] and [source] packages (decode inputs)
//	         ↓
//	    [render/calendar] or [render/chart] Layout (pure geometry)
//	         ↓
//	    Draw on a [render/canvas] Context
//	         ↓
//	    [render/sink] (PNG bytes or an atomically written file)
//
// # Quick Start
//
//	cfg, _ := canvas.New(canvas.Options{DPI: 150, Locale: "en"})
//	png, err := calendar.RenderPNG(cfg, calendar.Params{
//	    Start:     "2/9/2024",
//	    Weeks:     40,
//	    Smooth:    calendar.DefaultSmooth,
//	    Birthdays: []string{"15/3-Alice"},
//	    Periods: []calendar.PeriodSpec{
//	        {IDay: "23/12/2024", FDay: "6/1/2025", Name: "Holidays", Color: "0F0"},
//	    },
//	}, nil, "")
//
// With caching and structured logs, go through the [pipeline] runner:
//
//	r := pipeline.NewRunner(cfg, cache.NewNullCache(), nil, logger)
//	res, err := r.Calendar(ctx, pipeline.CalendarRequest{Params: p, Output: "sheet.png"})
//
// # Main Packages
//
// [dates] - Ordinal day numbers (day 0 is Monday 1 January of year 1),
// "d/m/yyyy" parsing and the injectable clock.
//
// [render/calendar] - The calendar grid: week rows, month boundaries, period
// tinting, period labels and birthday boxes.
//
// [render/chart] - The weekly chart: compacted week rows, deviation colors
// and weekday averages.
//
// [cache] - Artifact cache with file, Redis and null backends.
//
// [render]: https://pkg.go.dev/github.com/matzehuels/calsheet/pkg/render
// [render/calendar]: https://pkg.go.dev/github.com/matzehuels/calsheet/pkg/render/calendar
// [render/chart]: https://pkg.go.dev/github.com/matzehuels/calsheet/pkg/render/chart
// [render/canvas]: https://pkg.go.dev/github.com/matzehuels/calsheet/pkg/render/canvas
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/calsheet/pkg/render/sink
// [source]: https://pkg.go.dev/github.com/matzehuels/calsheet/pkg/source
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/calsheet/pkg/pipeline
// [dates]: https://pkg.go.dev/github.com/matzehuels/calsheet/pkg/dates
// [fonts]: https://pkg.go.dev/github.com/matzehuels/calsheet/pkg/fonts
// [locale]: https://pkg.go.dev/github.com/matzehuels/calsheet/pkg/locale
// [io]: https://pkg.go.dev/github.com/matzehuels/calsheet/pkg/io
// [cache]: https://pkg.go.dev/github.com/matzehuels/calsheet/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/calsheet/pkg/observability
package pkg
