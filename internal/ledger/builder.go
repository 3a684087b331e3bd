// Package ledger derives the running balance and per-row profit series from
// buy/sell signals and closing prices. It does not simulate order execution
// or position sizing; the flow is mechanical.
package ledger

import (
	"github.com/signalcraft-lab/signalcraft/internal/signal"
	"github.com/signalcraft-lab/signalcraft/internal/types"
)

// Builder derives a LedgerTable from a strategy table.
type Builder struct{}

// NewBuilder creates a ledger builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Build returns the ledger for the given strategy table: one row per input
// row, index-aligned. A buy signal books -Close, a sell signal +Close,
// otherwise the flow is zero. Balance is the running total starting at zero;
// Profit mirrors the per-row flow, not a cumulative sum. Build is a pure
// function of its input and never mutates prices or signals.
func (b *Builder) Build(table types.StrategyTable) types.LedgerTable {
	result := make(types.LedgerTable, len(table))

	balance := 0.0

	for i, row := range table {
		flow := 0.0

		switch {
		case row.BuySignal == signal.BuyMarker:
			flow = -row.Close
		case row.SellSignal == signal.SellMarker:
			flow = row.Close
		}

		balance += flow

		result[i] = types.LedgerRow{
			Date:    row.Date,
			Balance: balance,
			Profit:  flow,
		}
	}

	return result
}
