package provider

import (
	"context"
	"strconv"
	"time"

	binance "github.com/adshao/go-binance/v2"

	"github.com/signalcraft-lab/signalcraft/internal/types"
	"github.com/signalcraft-lab/signalcraft/pkg/errors"
)

// binancePageSize is the maximum number of klines returned per request.
const binancePageSize = 500

type BinanceClient struct {
	client *binance.Client
}

func NewBinanceClient() (Provider, error) {
	// Public kline endpoints need no credentials.
	return &BinanceClient{
		client: binance.NewClient("", ""),
	}, nil
}

// Daily fetches daily klines for the symbol and returns them as a close
// series, oldest first. Binance caps each response at 500 klines so the
// fetch pages through the range using the last close time as the next
// start.
func (c *BinanceClient) Daily(ctx context.Context, symbol string, start time.Time, end time.Time) (types.PriceSeries, error) {
	startMillis := start.UnixMilli()
	endMillis := end.UnixMilli()

	series := types.PriceSeries{}
	currentStart := startMillis

	for {
		klines, err := c.client.NewKlinesService().
			Symbol(symbol).
			Interval("1d").
			StartTime(currentStart).
			EndTime(endMillis).
			Do(ctx)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrCodeMarketDataFetchFailed, err, "failed to fetch klines from Binance for %s", symbol)
		}

		bars, err := convertKlines(symbol, klines)
		if err != nil {
			return nil, err
		}

		series = append(series, bars...)

		if len(klines) < binancePageSize {
			break
		}

		// Use the close time of the last kline + 1ms to avoid duplicates
		lastKline := klines[len(klines)-1]
		currentStart = lastKline.CloseTime + 1

		if currentStart >= endMillis {
			break
		}
	}

	if len(series) == 0 {
		return nil, errors.Newf(errors.ErrCodeDataNotFound, "no daily klines returned for %s", symbol)
	}

	return sortAndClip(series, start, end), nil
}

// convertKlines converts binance klines to close bars. Binance reports
// prices as strings; a price that fails to parse aborts the fetch rather
// than feeding a zero close downstream.
func convertKlines(symbol string, klines []*binance.Kline) (types.PriceSeries, error) {
	bars := make(types.PriceSeries, 0, len(klines))

	for _, k := range klines {
		closePrice, err := strconv.ParseFloat(k.Close, 64)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrCodeMarketDataParseFailed, err, "invalid close price %q for %s", k.Close, symbol)
		}

		bars = append(bars, types.Bar{
			// OpenTime marks the trading day the bar belongs to.
			Date:  time.UnixMilli(k.OpenTime).UTC(),
			Close: closePrice,
		})
	}

	return bars, nil
}
