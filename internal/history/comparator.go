// Package history merges a prior run's profit series into the current result
// set and persists run ledgers between invocations.
package history

import (
	"github.com/signalcraft-lab/signalcraft/internal/types"
	"github.com/signalcraft-lab/signalcraft/pkg/errors"
)

// Comparator appends the prior run's profit column to a strategy table.
type Comparator struct{}

// NewComparator creates a comparator.
func NewComparator() *Comparator {
	return &Comparator{}
}

// Compare merges priorLedger.Profit into the current table by row index. A
// nil or empty prior ledger yields PriorProfit zero on every row. A prior
// ledger of a different length, or with dates that differ from the current
// rows, fails with an AlignmentError: alignment is strict, rows are never
// re-matched by date lookup.
func (c *Comparator) Compare(current types.StrategyTable, priorLedger types.LedgerTable) (types.ComparisonResult, error) {
	result := make(types.ComparisonResult, len(current))

	if len(priorLedger) == 0 {
		for i, row := range current {
			result[i] = types.ComparisonRow{StrategyRow: row, PriorProfit: 0}
		}

		return result, nil
	}

	if len(priorLedger) != len(current) {
		return nil, errors.NewAlignmentErrorf(len(current), len(priorLedger),
			"prior ledger has %d rows, current table has %d", len(priorLedger), len(current))
	}

	for i, row := range current {
		if !priorLedger[i].Date.Equal(row.Date) {
			return nil, errors.NewAlignmentErrorf(len(current), len(priorLedger),
				"prior ledger date %s does not match current row date %s at index %d",
				priorLedger[i].Date.Format("2006-01-02"), row.Date.Format("2006-01-02"), i)
		}

		result[i] = types.ComparisonRow{
			StrategyRow: row,
			PriorProfit: priorLedger[i].Profit,
		}
	}

	return result, nil
}
