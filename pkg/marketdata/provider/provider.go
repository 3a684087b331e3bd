// Package provider fetches daily close series from external market data
// sources. Every provider normalizes its source format into a
// chronologically ordered types.PriceSeries.
package provider

import (
	"context"
	"sort"
	"time"

	"github.com/signalcraft-lab/signalcraft/internal/types"
	"github.com/signalcraft-lab/signalcraft/pkg/errors"
)

// ProviderType defines the type of market data provider.
type ProviderType string

const (
	ProviderPolygon ProviderType = "polygon"
	ProviderBinance ProviderType = "binance"
	ProviderCSV     ProviderType = "csv"
)

type OnDownloadProgress = func(current float64, total float64, message string)

type Provider interface {
	// Daily returns the daily close series for the given symbol and date
	// range, oldest bar first. The context can be used to cancel the
	// fetch.
	// example:
	// Daily(ctx, "AAPL", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC))
	Daily(ctx context.Context, symbol string, start time.Time, end time.Time) (types.PriceSeries, error)
}

// NewProvider creates a new market data provider based on the provider type.
// The config argument carries the provider-specific setting: the API key for
// polygon, the file path for csv, ignored for binance.
func NewProvider(providerType ProviderType, config string) (Provider, error) {
	switch providerType {
	case ProviderBinance:
		return NewBinanceClient()
	case ProviderPolygon:
		if config == "" {
			return nil, errors.New(errors.ErrCodeMissingParameter, "polygon provider requires an API key")
		}

		return NewPolygonClient(config)
	case ProviderCSV:
		if config == "" {
			return nil, errors.New(errors.ErrCodeMissingParameter, "csv provider requires a file path")
		}

		return NewCSVProvider(config), nil
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidProvider, "unsupported market data provider: %s", providerType)
	}
}

// sortAndClip drops bars outside [start, end] and returns the series in
// chronological order. Providers that already paginate in order still pass
// through here so all sources share the same guarantee.
func sortAndClip(series types.PriceSeries, start, end time.Time) types.PriceSeries {
	clipped := make(types.PriceSeries, 0, len(series))

	for _, bar := range series {
		if bar.Date.Before(start) || bar.Date.After(end) {
			continue
		}

		clipped = append(clipped, bar)
	}

	sort.Slice(clipped, func(i, j int) bool {
		return clipped[i].Date.Before(clipped[j].Date)
	})

	return clipped
}
