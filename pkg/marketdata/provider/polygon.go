package provider

import (
	"context"
	"fmt"
	"time"

	polygon "github.com/polygon-io/client-go/rest"
	"github.com/polygon-io/client-go/rest/models"
	"github.com/schollz/progressbar/v3"

	"github.com/signalcraft-lab/signalcraft/internal/types"
	"github.com/signalcraft-lab/signalcraft/pkg/errors"
)

type PolygonClient struct {
	client     *polygon.Client
	onProgress OnDownloadProgress
}

func NewPolygonClient(apiKey string) (Provider, error) {
	if apiKey == "" {
		return nil, errors.New(errors.ErrCodeMissingParameter, "apiKey is required")
	}

	return &PolygonClient{
		client:     polygon.New(apiKey),
		onProgress: nil,
	}, nil
}

// ConfigProgress sets an optional progress callback invoked while paging
// through aggregates.
func (c *PolygonClient) ConfigProgress(onProgress OnDownloadProgress) {
	c.onProgress = onProgress
}

// Daily fetches daily aggregates for the symbol and returns them as a close
// series, oldest first.
func (c *PolygonClient) Daily(ctx context.Context, symbol string, start time.Time, end time.Time) (types.PriceSeries, error) {
	totalDays := int(end.Sub(start).Hours()/24) + 1

	bar := progressbar.NewOptions(totalDays,
		progressbar.OptionSetDescription(fmt.Sprintf("Fetching %s", symbol)),
		progressbar.OptionShowCount())

	//nolint:exhaustruct // third-party struct with many optional fields
	params := models.ListAggsParams{
		Ticker:     symbol,
		Multiplier: 1,
		Timespan:   models.Day,
		From:       models.Millis(start),
		To:         models.Millis(end),
	}.WithLimit(50000)

	iter := c.client.ListAggs(ctx, params)

	series := types.PriceSeries{}

	for iter.Next() {
		agg := iter.Item()
		barTime := time.Time(agg.Timestamp).UTC()

		series = append(series, types.Bar{
			Date:  barTime,
			Close: agg.Close,
		})

		daysElapsed := int(barTime.Sub(start).Hours() / 24)
		bar.Set(daysElapsed)

		if c.onProgress != nil {
			c.onProgress(float64(len(series)), float64(totalDays), fmt.Sprintf("Fetching %s", symbol))
		}
	}

	if iter.Err() != nil {
		return nil, errors.Wrapf(errors.ErrCodeMarketDataFetchFailed, iter.Err(), "error iterating polygon aggregates for %s", symbol)
	}

	bar.Finish()

	if len(series) == 0 {
		return nil, errors.Newf(errors.ErrCodeDataNotFound, "no daily bars returned for %s", symbol)
	}

	return sortAndClip(series, start, end), nil
}
