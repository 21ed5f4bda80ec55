package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/calsheet/pkg/dates"
	calio "github.com/matzehuels/calsheet/pkg/io"
	"github.com/matzehuels/calsheet/pkg/locale"
	"github.com/matzehuels/calsheet/pkg/pipeline"
	"github.com/matzehuels/calsheet/pkg/render/chart"
)

// chartOpts holds the command-line flags for the chart command.
type chartOpts struct {
	output    string
	weeks     int
	samples   []string // .csv or .parquet
	intervals []string // start,end CSV
	summary   bool
	noCache   bool
	refresh   bool
}

func (c *CLI) chartCommand() *cobra.Command {
	opts := chartOpts{output: "chart.png", summary: true}

	cmd := &cobra.Command{
		Use:   "chart [bundle]",
		Short: "Render a weekly metric chart to PNG",
		Long: `Render a weekly metric chart to PNG.

Samples come from an optional chart.toml or chart.json bundle and from
sample files: "date,amount" CSV or Parquet, and "start,end" interval CSV
whose durations are booked in tenths of an hour on the end date.`,
		Example: `  calsheet chart --samples sleep.csv --weeks 8
  calsheet chart --intervals sleep-log.csv -o sleep.png
  calsheet chart absences.toml --samples more.parquet`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runChart(cmd, args, &opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.output, "output", "o", opts.output, "output PNG path")
	f.IntVarP(&opts.weeks, "weeks", "w", 0, "window length in weeks, ending with the current one")
	f.StringArrayVarP(&opts.samples, "samples", "s", nil, "sample file: .csv or .parquet (repeatable)")
	f.StringArrayVar(&opts.intervals, "intervals", nil, "interval CSV with RFC 3339 start,end rows (repeatable)")
	f.BoolVar(&opts.summary, "summary", opts.summary, "print the weekday averages table")
	f.BoolVar(&opts.noCache, "no-cache", false, "disable the render cache")
	f.BoolVar(&opts.refresh, "refresh", false, "re-render even when a cached image exists")

	return cmd
}

func (c *CLI) runChart(cmd *cobra.Command, args []string, opts *chartOpts) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	s, err := readSettings(c.config)
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	params, err := buildChart(ctx, cmd.Flags(), args, opts, s, dates.CurrentYear(runner.Clock))
	if err != nil {
		return err
	}
	res, err := runner.Chart(ctx, pipeline.ChartRequest{
		Params:  params,
		Output:  opts.output,
		Refresh: opts.refresh,
	})
	if err != nil {
		return err
	}

	printSuccess(out, "Rendered %d of %d weeks", len(res.Chart.Rows), res.Chart.Weeks)
	printFile(out, res.Output)
	printStats(out, res.Stats.Cells, res.Stats.LayoutTime+res.Stats.RenderTime, res.CacheHit)
	if opts.summary {
		return printSummary(out, res.Chart, runner.Config.Labels)
	}
	return nil
}

// buildChart merges the bundle file and the sample files into chart
// parameters. Dates without a year take year.
func buildChart(ctx context.Context, flags *pflag.FlagSet, args []string, opts *chartOpts, s settings, year int) (chart.Params, error) {
	logger := loggerFromContext(ctx)

	bundle := &calio.Chart{}
	if len(args) == 1 {
		b, err := calio.ImportChart(args[0])
		if err != nil {
			return chart.Params{}, err
		}
		bundle = b
		logger.Debug("imported bundle", "path", args[0])
	}
	switch {
	case flags.Changed("weeks"):
		bundle.Weeks = opts.weeks
	case bundle.Weeks == 0:
		bundle.Weeks = s.Weeks
	}

	params, err := bundle.Params(year)
	if err != nil {
		return chart.Params{}, err
	}
	for _, path := range opts.samples {
		prog := newProgress(logger)
		samples, err := pipeline.LoadSamples(ctx, path, year)
		if err != nil {
			return chart.Params{}, err
		}
		params.Samples = append(params.Samples, samples...)
		prog.done("loaded samples", "path", path, "count", len(samples))
	}
	for _, path := range opts.intervals {
		prog := newProgress(logger)
		samples, err := pipeline.LoadIntervals(ctx, path)
		if err != nil {
			return chart.Params{}, err
		}
		params.Samples = append(params.Samples, samples...)
		prog.done("loaded intervals", "path", path, "days", len(samples))
	}
	return params, nil
}

// printSummary writes the weekday averages and the overall average as a
// table.
func printSummary(w io.Writer, c *chart.Chart, labels locale.Labels) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Day", "Samples", "Average", "Trend"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	total := 0
	for _, s := range c.Summaries {
		data = append(data, []string{
			labels.Weekdays[s.Weekday],
			fmt.Sprintf("%d", s.Samples),
			fmt.Sprintf("%.2f", s.Average),
			c.Arrow(s.Average),
		})
		total += s.Samples
	}
	data = append(data, []string{labels.Average, fmt.Sprintf("%d", total), fmt.Sprintf("%.2f", c.Average), ""})

	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}
