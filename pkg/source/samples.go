package source

import (
	"encoding/csv"
	stderrors "errors"
	"io"
	"strconv"
	"strings"

	"github.com/parquet-go/parquet-go"

	"github.com/matzehuels/calsheet/pkg/dates"
	"github.com/matzehuels/calsheet/pkg/errors"
	"github.com/matzehuels/calsheet/pkg/render/chart"
)

// ReadCSVSamples reads "date,amount" rows. The date is an ordinal day
// number or "d/m[/y]"; dates without a year use defaultYear. A first row
// whose amount is not a number is treated as a header.
func ReadCSVSamples(r io.Reader, defaultYear int) ([]chart.Sample, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 2
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	var out []chart.Sample
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if stderrors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeParse, err, "csv")
		}
		amount, err := strconv.Atoi(strings.TrimSpace(rec[1]))
		if err != nil {
			if line == 1 {
				continue
			}
			return nil, errors.Parse("csv line %d: amount %q is not an integer", line, rec[1])
		}
		s, err := chart.ParseSample(rec[0], amount, defaultYear)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeParse, err, "csv line %d", line)
		}
		out = append(out, s)
	}
}

// SampleRow is the Parquet schema of a chart sample.
type SampleRow struct {
	// Day is the ordinal day number.
	Day int64 `parquet:"day,snappy"`
	// Amount is in tenths of the display unit.
	Amount int64 `parquet:"amount,snappy"`
}

// WriteParquetSamples writes samples as SampleRow records.
func WriteParquetSamples(w io.Writer, samples []chart.Sample) error {
	rows := make([]SampleRow, len(samples))
	for i, s := range samples {
		rows[i] = SampleRow{Day: int64(s.Day), Amount: int64(s.Raw)}
	}

	pw := parquet.NewGenericWriter[SampleRow](w)
	if _, err := pw.Write(rows); err != nil {
		_ = pw.Close()
		return errors.Wrap(errors.ErrCodeInternal, err, "write parquet rows")
	}
	if err := pw.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "close parquet writer")
	}
	return nil
}

// ReadParquetSamples reads every SampleRow of a Parquet file. Negative
// days fail with ErrCodeParse.
func ReadParquetSamples(r io.ReaderAt) (out []chart.Sample, err error) {
	// NewGenericReader panics on input it cannot open as Parquet.
	defer func() {
		if p := recover(); p != nil {
			out, err = nil, errors.Parse("read parquet: %v", p)
		}
	}()

	pr := parquet.NewGenericReader[SampleRow](r)
	defer pr.Close()

	rows := make([]SampleRow, pr.NumRows())
	n, err := pr.Read(rows)
	if err != nil && !stderrors.Is(err, io.EOF) {
		return nil, errors.Wrap(errors.ErrCodeParse, err, "read parquet")
	}

	out = make([]chart.Sample, 0, n)
	for i, row := range rows[:n] {
		if row.Day < 0 {
			return nil, errors.Parse("parquet row %d: invalid day %d", i, row.Day)
		}
		out = append(out, chart.Sample{Day: dates.Day(row.Day), Raw: int(row.Amount)})
	}
	return out, nil
}
