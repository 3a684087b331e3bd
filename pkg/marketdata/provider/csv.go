package provider

import (
	"context"
	"os"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/signalcraft-lab/signalcraft/internal/types"
	"github.com/signalcraft-lab/signalcraft/pkg/errors"
)

// csvBar is one row of a close-series CSV file. Dates are accepted as
// 2006-01-02 or RFC 3339.
type csvBar struct {
	Date  string  `csv:"date"`
	Close float64 `csv:"close"`
}

// CSVProvider reads a daily close series from a local CSV file with a
// date,close header. The symbol argument is ignored; the file is the
// source of truth.
type CSVProvider struct {
	path string
}

func NewCSVProvider(path string) Provider {
	return &CSVProvider{path: path}
}

func (c *CSVProvider) Daily(ctx context.Context, symbol string, start time.Time, end time.Time) (types.PriceSeries, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := os.Open(c.path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeDataNotFound, err, "failed to open csv file %s", c.path)
	}
	defer file.Close()

	rows := []*csvBar{}
	if err := gocsv.UnmarshalFile(file, &rows); err != nil {
		return nil, errors.Wrapf(errors.ErrCodeMarketDataParseFailed, err, "failed to parse csv file %s", c.path)
	}

	series := make(types.PriceSeries, 0, len(rows))

	for _, row := range rows {
		date, err := parseBarDate(row.Date)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrCodeMarketDataParseFailed, err, "invalid date %q in %s", row.Date, c.path)
		}

		series = append(series, types.Bar{
			Date:  date,
			Close: row.Close,
		})
	}

	if len(series) == 0 {
		return nil, errors.Newf(errors.ErrCodeEmptySeries, "csv file %s contains no rows", c.path)
	}

	return sortAndClip(series, start, end), nil
}

func parseBarDate(value string) (time.Time, error) {
	if date, err := time.Parse("2006-01-02", value); err == nil {
		return date.UTC(), nil
	}

	date, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, err
	}

	return date.UTC(), nil
}
