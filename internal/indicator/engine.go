// Package indicator computes the technical indicator columns of the signal
// pipeline: 20/50-period simple moving averages, the 14-period relative
// strength index and the 12/26 MACD line.
package indicator

import (
	"github.com/signalcraft-lab/signalcraft/internal/types"
	"github.com/signalcraft-lab/signalcraft/pkg/errors"
)

const (
	// DefaultShortPeriod is the short simple moving average window.
	DefaultShortPeriod = 20
	// DefaultLongPeriod is the long simple moving average window. It is the
	// longest lookback of the engine and sets the minimum series length.
	DefaultLongPeriod = 50
	// DefaultRSIPeriod is the relative strength index window.
	DefaultRSIPeriod = 14
	// DefaultMACDFastPeriod is the fast EMA window of the MACD line.
	DefaultMACDFastPeriod = 12
	// DefaultMACDSlowPeriod is the slow EMA window of the MACD line.
	DefaultMACDSlowPeriod = 26
	// DefaultMACDSignalPeriod is the MACD signal line window. The signal line
	// and histogram are computed internally but only the MACD line is retained.
	DefaultMACDSignalPeriod = 9
)

// Engine computes an IndicatorTable from a daily price series. The zero value
// is not usable; construct with NewEngine.
type Engine struct {
	shortPeriod      int
	longPeriod       int
	rsiPeriod        int
	macdFastPeriod   int
	macdSlowPeriod   int
	macdSignalPeriod int
}

// NewEngine creates an indicator engine with the standard periods.
func NewEngine() *Engine {
	return &Engine{
		shortPeriod:      DefaultShortPeriod,
		longPeriod:       DefaultLongPeriod,
		rsiPeriod:        DefaultRSIPeriod,
		macdFastPeriod:   DefaultMACDFastPeriod,
		macdSlowPeriod:   DefaultMACDSlowPeriod,
		macdSignalPeriod: DefaultMACDSignalPeriod,
	}
}

// MinRows returns the minimum number of rows a series must have for Compute
// to succeed.
func (e *Engine) MinRows() int {
	return e.longPeriod
}

// Compute derives the indicator columns for the given series. It returns a
// new table index-aligned with the input; the input is never mutated. Series
// shorter than the longest lookback fail with an InsufficientDataError.
func (e *Engine) Compute(series types.PriceSeries) (types.IndicatorTable, error) {
	if len(series) < e.longPeriod {
		return nil, errors.NewInsufficientDataErrorf(e.longPeriod, len(series), "",
			"insufficient data for indicator computation: required %d rows, got %d", e.longPeriod, len(series))
	}

	closes := series.Closes()

	maShort := simpleMovingAverage(closes, e.shortPeriod)
	maLong := simpleMovingAverage(closes, e.longPeriod)
	rsi := relativeStrengthIndex(closes, e.rsiPeriod)
	macd, _, _ := macdSeries(closes, e.macdFastPeriod, e.macdSlowPeriod, e.macdSignalPeriod)

	table := make(types.IndicatorTable, len(series))
	for i, bar := range series {
		table[i] = types.IndicatorRow{
			Bar:     bar,
			MAShort: maShort[i],
			MALong:  maLong[i],
			RSI:     rsi[i],
			MACD:    macd[i],
		}
	}

	return table, nil
}
