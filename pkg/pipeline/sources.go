package pipeline

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/matzehuels/calsheet/pkg/errors"
	"github.com/matzehuels/calsheet/pkg/observability"
	"github.com/matzehuels/calsheet/pkg/render/calendar"
	"github.com/matzehuels/calsheet/pkg/render/chart"
	"github.com/matzehuels/calsheet/pkg/source"
)

// LoadBirthdays reads birthday specs from a vCard file (.vcf, .vcard) or a
// text file with one "d/m-Name" spec per line (.txt). Blank lines and lines
// starting with # are ignored in text files.
func LoadBirthdays(ctx context.Context, path string) ([]string, error) {
	var out []string
	err := readSource(ctx, path, func(f *os.File, ext string) (int, error) {
		var err error
		switch ext {
		case ".vcf", ".vcard":
			out, err = source.ReadVCardBirthdays(ctx, f)
		case ".txt":
			out, err = readLines(f)
		default:
			return 0, unsupported(path, ".vcf, .vcard or .txt")
		}
		return len(out), err
	})
	return out, err
}

// LoadPeriods reads period specs from an iCalendar file (.ics). Event times
// are interpreted in loc.
func LoadPeriods(ctx context.Context, path string, loc *time.Location) ([]calendar.PeriodSpec, error) {
	var out []calendar.PeriodSpec
	err := readSource(ctx, path, func(f *os.File, ext string) (int, error) {
		if ext != ".ics" {
			return 0, unsupported(path, ".ics")
		}
		var err error
		out, err = source.ReadICalPeriods(ctx, f, loc)
		return len(out), err
	})
	return out, err
}

// LoadSamples reads chart samples from a CSV ("date,amount") or Parquet
// file.
func LoadSamples(ctx context.Context, path string, defaultYear int) ([]chart.Sample, error) {
	var out []chart.Sample
	err := readSource(ctx, path, func(f *os.File, ext string) (int, error) {
		var err error
		switch ext {
		case ".csv":
			out, err = source.ReadCSVSamples(f, defaultYear)
		case ".parquet":
			out, err = source.ReadParquetSamples(f)
		default:
			return 0, unsupported(path, ".csv or .parquet")
		}
		return len(out), err
	})
	return out, err
}

// LoadIntervals reads a "start,end" CSV of intervals and books them as
// daily samples; see [source.SamplesFromIntervals].
func LoadIntervals(ctx context.Context, path string) ([]chart.Sample, error) {
	var out []chart.Sample
	err := readSource(ctx, path, func(f *os.File, ext string) (int, error) {
		if ext != ".csv" {
			return 0, unsupported(path, ".csv")
		}
		ivs, err := source.ReadCSVIntervals(f)
		if err != nil {
			return 0, err
		}
		out = source.SamplesFromIntervals(ivs)
		return len(out), nil
	})
	return out, err
}

func readSource(ctx context.Context, path string, read func(*os.File, string) (int, error)) error {
	ext := strings.ToLower(filepath.Ext(path))
	start := time.Now()

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "open %s", path)
	}
	defer f.Close()

	n, err := read(f, ext)
	observability.Source().OnSourceRead(ctx, strings.TrimPrefix(ext, "."), n, time.Since(start), err)
	if err != nil {
		if code := errors.GetCode(err); code != "" {
			return errors.Wrap(code, err, "read %s", path)
		}
		return err
	}
	return nil
}

func readLines(f *os.File) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "scan")
	}
	return out, nil
}

func unsupported(path, want string) error {
	return errors.New(errors.ErrCodeUnsupported, "%s: want %s", filepath.Base(path), want)
}
