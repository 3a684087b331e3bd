// Package pipeline orchestrates one pass of the signal computation: indicator
// table, signal columns, strategy table, ledger and prior-run comparison. The
// pipeline is synchronous and pure; nothing runs at package load.
package pipeline

import (
	"go.uber.org/zap"

	"github.com/signalcraft-lab/signalcraft/internal/history"
	"github.com/signalcraft-lab/signalcraft/internal/indicator"
	"github.com/signalcraft-lab/signalcraft/internal/ledger"
	"github.com/signalcraft-lab/signalcraft/internal/logger"
	"github.com/signalcraft-lab/signalcraft/internal/signal"
	"github.com/signalcraft-lab/signalcraft/internal/strategy"
	"github.com/signalcraft-lab/signalcraft/internal/types"
	"github.com/signalcraft-lab/signalcraft/pkg/errors"
)

// Input carries the externally materialized data for one run. Prices must be
// fetched (or fail) before the pipeline starts; there is no I/O inside.
type Input struct {
	// Prices is the historical daily series the signals are computed from.
	Prices types.PriceSeries
	// Prior is the previous run's ledger, empty when no prior run exists.
	Prior types.LedgerTable
	// Tracking is a second, independently fetched series passed through to
	// the result untouched.
	Tracking types.PriceSeries
}

// Result is the full output of one run, handed to a presentation collaborator
// for display. The pipeline performs no formatting or printing itself.
type Result struct {
	// Comparison is the strategy table merged with the prior run's profit.
	Comparison types.ComparisonResult
	// Ledger is the balance/profit series derived from this run's signals.
	Ledger types.LedgerTable
	// Tracking is the pass-through series from the input.
	Tracking types.PriceSeries
}

// Pipeline wires the stages together. Each Run call works on its own table
// copies; repeated invocations with different parameters cannot corrupt each
// other.
type Pipeline struct {
	log *logger.Logger
}

// New creates a pipeline. The logger is used for stage-level progress only;
// stage failures are returned, never just logged.
func New(log *logger.Logger) *Pipeline {
	return &Pipeline{log: log}
}

// Run executes one pass over the input series. It short-circuits on the
// first stage failure and returns no partial tables.
func (p *Pipeline) Run(config Config, input Input) (*Result, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	if !input.Prices.IsChronological() {
		return nil, errors.New(errors.ErrCodeUnorderedSeries, "price series must be in ascending date order")
	}

	evaluator, err := strategy.NewEvaluator(
		config.TargetPct, config.StopLossPct,
		config.BuyRSIThreshold, config.SellRSIThreshold,
		config.DynamicTarget,
	)
	if err != nil {
		return nil, err
	}

	indicators, err := indicator.NewEngine().Compute(input.Prices)
	if err != nil {
		return nil, err
	}

	p.log.Debug("indicators computed",
		zap.String("symbol", config.Symbol),
		zap.Int("rows", len(indicators)),
	)

	signals := signal.NewGenerator(config.BuyRSIThreshold, config.SellRSIThreshold).Generate(indicators)

	// The evaluator recomputes the buy/sell columns with the same
	// thresholds, so this stage is idempotent over the signal columns.
	strategyTable := evaluator.Evaluate(signals)

	ledgerTable := ledger.NewBuilder().Build(strategyTable)

	comparison, err := history.NewComparator().Compare(strategyTable, input.Prior)
	if err != nil {
		return nil, err
	}

	p.log.Info("pipeline run complete",
		zap.String("symbol", config.Symbol),
		zap.Int("rows", len(strategyTable)),
		zap.Float64("finalBalance", finalBalance(ledgerTable)),
	)

	return &Result{
		Comparison: comparison,
		Ledger:     ledgerTable,
		Tracking:   input.Tracking,
	}, nil
}

func finalBalance(table types.LedgerTable) float64 {
	if len(table) == 0 {
		return 0
	}

	return table[len(table)-1].Balance
}
