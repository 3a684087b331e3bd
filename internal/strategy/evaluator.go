// Package strategy combines the generated signals with the target and
// stop-loss percentage parameters into the final decision table.
package strategy

import (
	"github.com/shopspring/decimal"

	"github.com/signalcraft-lab/signalcraft/internal/signal"
	"github.com/signalcraft-lab/signalcraft/internal/types"
	"github.com/signalcraft-lab/signalcraft/pkg/errors"
)

// Final directional calls as they appear in the Signal column.
const (
	CallLong  = 1
	CallShort = -1
)

// pricePrecision is the decimal rounding applied to target and stop-loss
// price levels.
const pricePrecision = 2

// Evaluator derives the StrategyTable: recomputed buy/sell signals, the
// target/stop-loss price levels and the final directional call.
type Evaluator struct {
	targetPct     float64
	stopLossPct   float64
	dynamicTarget bool
	generator     *signal.Generator
}

// NewEvaluator creates an evaluator. Percentages at or below -100 would
// produce non-positive price levels and are rejected. dynamicTarget is a
// reserved extension point; it currently changes nothing.
func NewEvaluator(targetPct, stopLossPct, buyRSIThreshold, sellRSIThreshold float64, dynamicTarget bool) (*Evaluator, error) {
	if targetPct <= -100 {
		return nil, errors.Newf(errors.ErrCodeInvalidTargetPct, "targetPct must be greater than -100, got %v", targetPct)
	}

	if stopLossPct <= -100 {
		return nil, errors.Newf(errors.ErrCodeInvalidStopLossPct, "stopLossPct must be greater than -100, got %v", stopLossPct)
	}

	return &Evaluator{
		targetPct:     targetPct,
		stopLossPct:   stopLossPct,
		dynamicTarget: dynamicTarget,
		generator:     signal.NewGenerator(buyRSIThreshold, sellRSIThreshold),
	}, nil
}

// Evaluate returns the strategy table for the given signal table. The
// buy/sell columns are recomputed from the indicator values with the same
// threshold rules; given the same thresholds this is idempotent. The final
// Signal column is derived from Close versus the long moving average alone;
// the buy/sell columns do not feed it and survive as separate fields for the
// ledger. The input table is not mutated.
func (e *Evaluator) Evaluate(table types.SignalTable) types.StrategyTable {
	indicators := make(types.IndicatorTable, len(table))
	for i, row := range table {
		indicators[i] = row.IndicatorRow
	}

	regenerated := e.generator.Generate(indicators)

	result := make(types.StrategyTable, len(table))
	for i, row := range regenerated {
		result[i] = types.StrategyRow{
			SignalRow: row,
			Signal:    e.finalCall(row.IndicatorRow),
			Target:    offsetPrice(row.Close, e.targetPct),
			StopLoss:  offsetPrice(row.Close, -e.stopLossPct),
		}
	}

	return result
}

// finalCall is long when the close sits above the long moving average. Rows
// where the long average is still undefined resolve short; an undefined
// average never supports a long call.
func (e *Evaluator) finalCall(row types.IndicatorRow) int {
	if row.MALong.IsSome() && row.Close > row.MALong.Unwrap() {
		return CallLong
	}

	return CallShort
}

// offsetPrice applies a percentage offset to a close and rounds to cents.
func offsetPrice(close, pct float64) float64 {
	price := decimal.NewFromFloat(close).
		Mul(decimal.NewFromFloat(1 + pct/100)).
		Round(pricePrecision)

	value, _ := price.Float64()

	return value
}
