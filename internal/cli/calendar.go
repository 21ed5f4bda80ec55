package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/calsheet/pkg/dates"
	"github.com/matzehuels/calsheet/pkg/errors"
	"github.com/matzehuels/calsheet/pkg/io"
	"github.com/matzehuels/calsheet/pkg/pipeline"
	"github.com/matzehuels/calsheet/pkg/render/calendar"
	"github.com/matzehuels/calsheet/pkg/source"
)

// calendarOpts holds the command-line flags for the calendar command.
type calendarOpts struct {
	output        string
	start         string
	weeks         int
	smooth        int
	birthdays     []string // inline "d/m-Name" specs
	birthdayFiles []string // .vcf, .vcard or .txt
	periods       []string // packed "iDay:fDay:RGBWKEname"
	icalFiles     []string
	timezone      string
	export        string
	noCache       bool
	refresh       bool
}

func (c *CLI) calendarCommand() *cobra.Command {
	opts := calendarOpts{output: "calendar.png"}

	cmd := &cobra.Command{
		Use:   "calendar [bundle]",
		Short: "Render a calendar grid to PNG",
		Long: `Render a calendar grid of whole weeks to PNG.

The optional bundle is a calendar.toml or calendar.json file. Flags and
source files are merged on top of it: --start and --weeks replace the
bundle values, birthdays and periods are appended.`,
		Example: `  calsheet calendar --start 1/9/2024 --weeks 40 --birthdays contacts.vcf
  calsheet calendar school.toml --ical holidays.ics -o school.png
  calsheet calendar --period "1/7/2024:31/7/2024:F80C80Summer" --export summer.toml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCalendar(cmd, args, &opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.output, "output", "o", opts.output, "output PNG path")
	f.StringVar(&opts.start, "start", "", "any day of the first week, d/m[/y] (default: today)")
	f.IntVarP(&opts.weeks, "weeks", "w", 0, "number of weeks, 1 to 52")
	f.IntVar(&opts.smooth, "smooth", 0, "period tint factor, 0 (solid) to 255 (white)")
	f.StringArrayVarP(&opts.birthdays, "birthday", "b", nil, "birthday spec d/m-Name (repeatable)")
	f.StringArrayVar(&opts.birthdayFiles, "birthdays", nil, "birthday file: .vcf, .vcard or .txt (repeatable)")
	f.StringArrayVarP(&opts.periods, "period", "p", nil, "packed period iDay:fDay:RGBWKEname (repeatable)")
	f.StringArrayVar(&opts.icalFiles, "ical", nil, "iCalendar file whose events become periods (repeatable)")
	f.StringVar(&opts.timezone, "tz", "", "time zone for iCalendar events (default: local)")
	f.StringVar(&opts.export, "export", "", "also write the merged bundle to this .toml or .json path")
	f.BoolVar(&opts.noCache, "no-cache", false, "disable the render cache")
	f.BoolVar(&opts.refresh, "refresh", false, "re-render even when a cached image exists")

	return cmd
}

func (c *CLI) runCalendar(cmd *cobra.Command, args []string, opts *calendarOpts) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	s, err := readSettings(c.config)
	if err != nil {
		return err
	}
	bundle, err := buildCalendar(ctx, cmd.Flags(), args, opts, s)
	if err != nil {
		return err
	}
	if opts.export != "" {
		if err := io.ExportCalendar(opts.export, bundle); err != nil {
			return err
		}
		printInfo(out, "Exported bundle")
		printFile(out, opts.export)
		printNextStep(out, "Render it again with", appName+" calendar "+opts.export)
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	params := bundle.Params(dates.Today(runner.Clock))
	res, err := runner.Calendar(ctx, pipeline.CalendarRequest{
		Params:  params,
		Output:  opts.output,
		Refresh: opts.refresh,
	})
	if err != nil {
		return err
	}

	printSuccess(out, "Rendered %d weeks from %s", res.Grid.Weeks, dates.Format(res.Grid.Start))
	printFile(out, res.Output)
	printStats(out, res.Stats.Cells, res.Stats.LayoutTime+res.Stats.RenderTime, res.CacheHit)
	if len(params.Birthdays) > 0 || len(params.Periods) > 0 {
		printKeyValue(out, "birthdays", fmt.Sprint(len(params.Birthdays)))
		printKeyValue(out, "periods", fmt.Sprint(len(params.Periods)))
	}
	return nil
}

// buildCalendar merges the bundle file, the configured defaults and the
// flags into one calendar bundle.
func buildCalendar(ctx context.Context, flags *pflag.FlagSet, args []string, opts *calendarOpts, s settings) (*io.Calendar, error) {
	logger := loggerFromContext(ctx)

	bundle := &io.Calendar{}
	if len(args) == 1 {
		b, err := io.ImportCalendar(args[0])
		if err != nil {
			return nil, err
		}
		bundle = b
		logger.Debug("imported bundle", "path", args[0])
	}

	if opts.start != "" {
		bundle.Start = opts.start
	}
	switch {
	case flags.Changed("weeks"):
		bundle.Weeks = opts.weeks
	case bundle.Weeks == 0:
		bundle.Weeks = s.Weeks
	}
	switch {
	case flags.Changed("smooth"):
		if err := errors.ValidateSmoothFactor(opts.smooth); err != nil {
			return nil, err
		}
		bundle.Smooth = &opts.smooth
	case bundle.Smooth == nil:
		smooth := s.Smooth
		bundle.Smooth = &smooth
	}

	bundle.Birthdays = append(bundle.Birthdays, opts.birthdays...)
	for _, path := range opts.birthdayFiles {
		prog := newProgress(logger)
		specs, err := pipeline.LoadBirthdays(ctx, path)
		if err != nil {
			return nil, err
		}
		bundle.Birthdays = append(bundle.Birthdays, specs...)
		prog.done("loaded birthdays", "path", path, "count", len(specs))
	}

	for _, packed := range opts.periods {
		p, err := parsePackedPeriod(packed)
		if err != nil {
			return nil, err
		}
		bundle.Periods = append(bundle.Periods, p)
	}
	if len(opts.icalFiles) > 0 {
		loc, err := loadLocation(opts.timezone)
		if err != nil {
			return nil, err
		}
		for _, path := range opts.icalFiles {
			prog := newProgress(logger)
			periods, err := pipeline.LoadPeriods(ctx, path, loc)
			if err != nil {
				return nil, err
			}
			bundle.Periods = append(bundle.Periods, periods...)
			prog.done("loaded periods", "path", path, "count", len(periods))
		}
	}
	return bundle, nil
}

// parsePackedPeriod splits "iDay:fDay:RGBWKEname". fDay may be empty for a
// single day.
func parsePackedPeriod(s string) (calendar.PeriodSpec, error) {
	parts := strings.SplitN(s, ":", 3)
	if len(parts) != 3 {
		return calendar.PeriodSpec{}, errors.New(errors.ErrCodeInvalidInput,
			"period %q: want iDay:fDay:RGBWKEname", s)
	}
	p, err := source.PackedPeriod(parts[0], parts[1], parts[2])
	if err != nil {
		return calendar.PeriodSpec{}, fmt.Errorf("period %q: %w", s, err)
	}
	return p, nil
}

func loadLocation(name string) (*time.Location, error) {
	if name == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "time zone %q", name)
	}
	return loc, nil
}
