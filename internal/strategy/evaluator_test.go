package strategy

import (
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/stretchr/testify/suite"

	"github.com/signalcraft-lab/signalcraft/internal/signal"
	"github.com/signalcraft-lab/signalcraft/internal/types"
	"github.com/signalcraft-lab/signalcraft/pkg/errors"
)

type EvaluatorTestSuite struct {
	suite.Suite
}

func TestEvaluatorSuite(t *testing.T) {
	suite.Run(t, new(EvaluatorTestSuite))
}

func signalRow(close, maShort, maLong, rsi, macd float64) types.SignalRow {
	return types.SignalRow{
		IndicatorRow: types.IndicatorRow{
			Bar:     types.Bar{Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), Close: close},
			MAShort: optional.Some(maShort),
			MALong:  optional.Some(maLong),
			RSI:     optional.Some(rsi),
			MACD:    optional.Some(macd),
		},
	}
}

func (suite *EvaluatorTestSuite) TestNewEvaluatorRejectsTargetPct() {
	_, err := NewEvaluator(-100, 2, 30, 70, false)
	suite.Error(err)
	suite.True(errors.IsInvalidParameter(err))
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidTargetPct))

	_, err = NewEvaluator(-150, 2, 30, 70, false)
	suite.Error(err)
}

func (suite *EvaluatorTestSuite) TestNewEvaluatorRejectsStopLossPct() {
	_, err := NewEvaluator(2, -100, 30, 70, false)
	suite.Error(err)
	suite.True(errors.IsInvalidParameter(err))
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidStopLossPct))
}

func (suite *EvaluatorTestSuite) TestTargetAndStopLossRounding() {
	eval, err := NewEvaluator(2, 2, 30, 70, false)
	suite.NoError(err)

	table := eval.Evaluate(types.SignalTable{signalRow(100, 105, 99, 50, 0)})
	suite.Equal(102.00, table[0].Target)
	suite.Equal(98.00, table[0].StopLoss)
}

func (suite *EvaluatorTestSuite) TestTargetRoundsToCents() {
	eval, err := NewEvaluator(2.5, 1.25, 30, 70, false)
	suite.NoError(err)

	// 123.456 * 1.025 = 126.5424, 123.456 * 0.9875 = 121.9128
	table := eval.Evaluate(types.SignalTable{signalRow(123.456, 105, 99, 50, 0)})
	suite.Equal(126.54, table[0].Target)
	suite.Equal(121.91, table[0].StopLoss)
}

func (suite *EvaluatorTestSuite) TestPositiveLevelsForPositiveClose() {
	eval, err := NewEvaluator(2, 99.99, 30, 70, false)
	suite.NoError(err)

	table := eval.Evaluate(types.SignalTable{signalRow(100, 105, 99, 50, 0)})
	suite.Greater(table[0].Target, 0.0)
	suite.Greater(table[0].StopLoss, 0.0)
}

func (suite *EvaluatorTestSuite) TestFinalCallOverridesSignals() {
	eval, err := NewEvaluator(2, 2, 30, 70, false)
	suite.NoError(err)

	// Sell conditions hold, yet the final call is long because the close sits
	// above the long moving average.
	row := signalRow(100, 90, 95, 80, -1)
	table := eval.Evaluate(types.SignalTable{row})
	suite.Equal(signal.SellMarker, table[0].SellSignal)
	suite.Equal(CallLong, table[0].Signal)
}

func (suite *EvaluatorTestSuite) TestFinalCallShortWhenBelowLongAverage() {
	eval, err := NewEvaluator(2, 2, 30, 70, false)
	suite.NoError(err)

	table := eval.Evaluate(types.SignalTable{signalRow(100, 105, 101, 25, 1)})
	suite.Equal(CallShort, table[0].Signal)
}

func (suite *EvaluatorTestSuite) TestFinalCallShortOnUndefinedLongAverage() {
	eval, err := NewEvaluator(2, 2, 30, 70, false)
	suite.NoError(err)

	row := signalRow(100, 105, 99, 25, 1)
	row.MALong = optional.None[float64]()

	table := eval.Evaluate(types.SignalTable{row})
	suite.Equal(CallShort, table[0].Signal)
}

func (suite *EvaluatorTestSuite) TestRecomputesSignalsIdempotently() {
	eval, err := NewEvaluator(2, 2, 30, 70, false)
	suite.NoError(err)

	// The incoming signal columns are stale on purpose; Evaluate recomputes
	// them from the indicators with the same rules.
	row := signalRow(100, 105, 99, 25, 1)
	row.BuySignal = 0
	row.SellSignal = signal.SellMarker

	table := eval.Evaluate(types.SignalTable{row})
	suite.Equal(signal.BuyMarker, table[0].BuySignal)
	suite.Equal(0, table[0].SellSignal)
}

func (suite *EvaluatorTestSuite) TestDynamicTargetFlagChangesNothing() {
	static, err := NewEvaluator(2, 2, 30, 70, false)
	suite.NoError(err)

	dynamic, err := NewEvaluator(2, 2, 30, 70, true)
	suite.NoError(err)

	input := types.SignalTable{signalRow(123.456, 105, 99, 25, 1)}
	suite.Equal(static.Evaluate(input), dynamic.Evaluate(input))
}

func (suite *EvaluatorTestSuite) TestEvaluateDoesNotMutateInput() {
	eval, err := NewEvaluator(2, 2, 30, 70, false)
	suite.NoError(err)

	row := signalRow(100, 105, 99, 25, 1)
	row.SellSignal = signal.SellMarker
	table := types.SignalTable{row}
	original := table[0]

	_ = eval.Evaluate(table)
	suite.Equal(original, table[0])
}
