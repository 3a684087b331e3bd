package signal

import (
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/stretchr/testify/suite"

	"github.com/signalcraft-lab/signalcraft/internal/types"
)

type GeneratorTestSuite struct {
	suite.Suite
}

func TestGeneratorSuite(t *testing.T) {
	suite.Run(t, new(GeneratorTestSuite))
}

func indicatorRow(maShort, maLong, rsi, macd float64) types.IndicatorRow {
	return types.IndicatorRow{
		Bar:     types.Bar{Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), Close: 100},
		MAShort: optional.Some(maShort),
		MALong:  optional.Some(maLong),
		RSI:     optional.Some(rsi),
		MACD:    optional.Some(macd),
	}
}

func (suite *GeneratorTestSuite) TestBuyCondition() {
	gen := NewGenerator(30, 70)

	table := types.IndicatorTable{indicatorRow(105, 100, 25, 0.5)}
	signals := gen.Generate(table)

	suite.Len(signals, 1)
	suite.Equal(BuyMarker, signals[0].BuySignal)
	suite.Equal(0, signals[0].SellSignal)
}

func (suite *GeneratorTestSuite) TestSellCondition() {
	gen := NewGenerator(30, 70)

	table := types.IndicatorTable{indicatorRow(95, 100, 75, -0.5)}
	signals := gen.Generate(table)

	suite.Equal(0, signals[0].BuySignal)
	suite.Equal(SellMarker, signals[0].SellSignal)
}

func (suite *GeneratorTestSuite) TestNoSignalWhenConditionsPartial() {
	gen := NewGenerator(30, 70)

	// Trend up but RSI not oversold.
	signals := gen.Generate(types.IndicatorTable{indicatorRow(105, 100, 50, 0.5)})
	suite.Equal(0, signals[0].BuySignal)
	suite.Equal(0, signals[0].SellSignal)

	// Oversold but MACD bearish.
	signals = gen.Generate(types.IndicatorTable{indicatorRow(105, 100, 25, -0.5)})
	suite.Equal(0, signals[0].BuySignal)
	suite.Equal(0, signals[0].SellSignal)

	// Overbought but short average above long.
	signals = gen.Generate(types.IndicatorTable{indicatorRow(105, 100, 75, -0.5)})
	suite.Equal(0, signals[0].BuySignal)
	suite.Equal(0, signals[0].SellSignal)
}

func (suite *GeneratorTestSuite) TestUndefinedIndicatorsNeverSignal() {
	gen := NewGenerator(30, 70)

	row := indicatorRow(105, 100, 25, 0.5)
	row.MALong = optional.None[float64]()

	signals := gen.Generate(types.IndicatorTable{row})
	suite.Equal(0, signals[0].BuySignal)
	suite.Equal(0, signals[0].SellSignal)

	row = indicatorRow(105, 100, 25, 0.5)
	row.RSI = optional.None[float64]()

	signals = gen.Generate(types.IndicatorTable{row})
	suite.Equal(0, signals[0].BuySignal)
	suite.Equal(0, signals[0].SellSignal)
}

func (suite *GeneratorTestSuite) TestThresholdsAreExclusive() {
	gen := NewGenerator(30, 70)

	// RSI exactly at a threshold does not fire: the rules use strict
	// comparisons.
	signals := gen.Generate(types.IndicatorTable{indicatorRow(105, 100, 30, 0.5)})
	suite.Equal(0, signals[0].BuySignal)

	signals = gen.Generate(types.IndicatorTable{indicatorRow(95, 100, 70, -0.5)})
	suite.Equal(0, signals[0].SellSignal)
}

func (suite *GeneratorTestSuite) TestGenerateDoesNotMutateInput() {
	gen := NewGenerator(30, 70)

	table := types.IndicatorTable{indicatorRow(105, 100, 25, 0.5)}
	original := table[0]

	_ = gen.Generate(table)
	suite.Equal(original, table[0])
}

func (suite *GeneratorTestSuite) TestGenerateKeepsRowOrder() {
	gen := NewGenerator(30, 70)

	table := types.IndicatorTable{
		indicatorRow(105, 100, 25, 0.5),
		indicatorRow(95, 100, 75, -0.5),
		indicatorRow(100, 100, 50, 0),
	}

	signals := gen.Generate(table)
	suite.Len(signals, 3)
	suite.Equal(BuyMarker, signals[0].BuySignal)
	suite.Equal(SellMarker, signals[1].SellSignal)
	suite.Equal(0, signals[2].BuySignal)
	suite.Equal(0, signals[2].SellSignal)
}
