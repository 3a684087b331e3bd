// Package signal applies the threshold rules that turn indicator values into
// discrete buy/sell signals.
package signal

import (
	"github.com/signalcraft-lab/signalcraft/internal/types"
)

// Buy and sell markers as they appear in the signal columns.
const (
	BuyMarker  = 1
	SellMarker = -1
)

// Generator derives the BuySignal/SellSignal columns from an indicator table.
type Generator struct {
	buyRSIThreshold  float64
	sellRSIThreshold float64
}

// NewGenerator creates a signal generator with the given RSI thresholds. The
// buy threshold marks oversold territory, the sell threshold overbought.
func NewGenerator(buyRSIThreshold, sellRSIThreshold float64) *Generator {
	return &Generator{
		buyRSIThreshold:  buyRSIThreshold,
		sellRSIThreshold: sellRSIThreshold,
	}
}

// Generate appends the two signal columns to the indicator table, returning a
// new table. Rows with any undefined indicator never signal. The input table
// is not mutated.
func (g *Generator) Generate(table types.IndicatorTable) types.SignalTable {
	signals := make(types.SignalTable, len(table))

	for i, row := range table {
		signals[i] = types.SignalRow{
			IndicatorRow: row,
			BuySignal:    0,
			SellSignal:   0,
		}

		if row.MAShort.IsNone() || row.MALong.IsNone() || row.RSI.IsNone() || row.MACD.IsNone() {
			continue
		}

		maShort := row.MAShort.Unwrap()
		maLong := row.MALong.Unwrap()
		rsi := row.RSI.Unwrap()
		macd := row.MACD.Unwrap()

		if maShort > maLong && rsi < g.buyRSIThreshold && macd > 0 {
			signals[i].BuySignal = BuyMarker
		}

		if maShort < maLong && rsi > g.sellRSIThreshold && macd < 0 {
			signals[i].SellSignal = SellMarker
		}
	}

	return signals
}
