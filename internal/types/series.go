package types

import "time"

// Bar is one trading day's closing price.
type Bar struct {
	// Date is the trading day, normalized to UTC midnight by the data source.
	Date time.Time `json:"date"`
	// Close is the closing price for the day.
	Close float64 `json:"close"`
}

// PriceSeries is an ordered sequence of daily bars, one entry per trading day,
// ascending by date. It is the immutable input to the pipeline; no transform
// drops or reorders its rows.
type PriceSeries []Bar

// Closes returns the closing prices in row order.
func (s PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s))
	for i, bar := range s {
		closes[i] = bar.Close
	}

	return closes
}

// IsChronological reports whether the series is strictly ascending by date.
func (s PriceSeries) IsChronological() bool {
	for i := 1; i < len(s); i++ {
		if !s[i].Date.After(s[i-1].Date) {
			return false
		}
	}

	return true
}
