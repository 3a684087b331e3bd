package types

import (
	"time"

	"github.com/moznion/go-optional"
)

// IndicatorRow extends a price bar with the computed indicator values. Values
// inside the warm-up window of their lookback are None and are never used for
// signal decisions.
type IndicatorRow struct {
	Bar

	// MAShort is the 20-period simple moving average, None for the first 19 rows.
	MAShort optional.Option[float64] `json:"maShort"`
	// MALong is the 50-period simple moving average, None for the first 49 rows.
	MALong optional.Option[float64] `json:"maLong"`
	// RSI is the 14-period relative strength index, bounded to [0, 100].
	RSI optional.Option[float64] `json:"rsi"`
	// MACD is the 12/26 EMA difference, None until the slow EMA is established.
	MACD optional.Option[float64] `json:"macd"`
}

// IndicatorTable is a price series extended with indicator columns,
// index-aligned with the input series.
type IndicatorTable []IndicatorRow

// SignalRow extends an indicator row with the discrete buy/sell signals.
type SignalRow struct {
	IndicatorRow

	// BuySignal is 1 when the buy condition holds, otherwise 0.
	BuySignal int `json:"buySignal"`
	// SellSignal is -1 when the sell condition holds, otherwise 0.
	SellSignal int `json:"sellSignal"`
}

// SignalTable is an indicator table extended with signal columns.
type SignalTable []SignalRow

// StrategyRow extends a signal row with the final directional call and the
// profit-target and stop-loss price levels.
type StrategyRow struct {
	SignalRow

	// Signal is the final directional call: 1 when Close > MALong, else -1.
	// It is derived independently of BuySignal/SellSignal, which survive as
	// separate fields for the ledger.
	Signal int `json:"signal"`
	// Target is the profit-taking price level, rounded to 2 decimals.
	Target float64 `json:"target"`
	// StopLoss is the loss-limiting price level, rounded to 2 decimals.
	StopLoss float64 `json:"stopLoss"`
}

// StrategyTable is a signal table extended with the strategy columns.
type StrategyTable []StrategyRow

// LedgerRow carries the running balance and the per-row signed cash flow for
// one trading day.
type LedgerRow struct {
	// Date is the trading day, aligned with the strategy table row.
	Date time.Time `json:"date"`
	// Balance is the cumulative sum of signed flow up to and including this row.
	Balance float64 `json:"balance"`
	// Profit is this row's signed flow. It mirrors the instantaneous flow, not
	// a cumulative profit.
	Profit float64 `json:"profit"`
}

// LedgerTable is index-aligned with the strategy table it was built from.
type LedgerTable []LedgerRow

// ComparisonRow extends a strategy row with the prior run's profit for the
// same row index.
type ComparisonRow struct {
	StrategyRow

	// PriorProfit is the prior ledger's Profit at this row, 0 when no prior
	// run is available.
	PriorProfit float64 `json:"priorProfit"`
}

// ComparisonResult is a strategy table merged with a prior run's profit
// series for period-over-period comparison.
type ComparisonResult []ComparisonRow
