package indicator

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/signalcraft-lab/signalcraft/internal/types"
	"github.com/signalcraft-lab/signalcraft/pkg/errors"
)

type EngineTestSuite struct {
	suite.Suite
	engine *Engine
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineTestSuite))
}

func (suite *EngineTestSuite) SetupTest() {
	suite.engine = NewEngine()
}

func seriesFromCloses(closes []float64) types.PriceSeries {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	series := make(types.PriceSeries, len(closes))
	for i, close := range closes {
		series[i] = types.Bar{Date: start.AddDate(0, 0, i), Close: close}
	}

	return series
}

func flatSeries(length int, close float64) types.PriceSeries {
	closes := make([]float64, length)
	for i := range closes {
		closes[i] = close
	}

	return seriesFromCloses(closes)
}

func risingSeries(length int) types.PriceSeries {
	closes := make([]float64, length)
	for i := range closes {
		closes[i] = float64(i + 1)
	}

	return seriesFromCloses(closes)
}

func (suite *EngineTestSuite) TestMinRows() {
	suite.Equal(50, suite.engine.MinRows())
}

func (suite *EngineTestSuite) TestComputeInsufficientData() {
	table, err := suite.engine.Compute(flatSeries(49, 100))
	suite.Error(err)
	suite.Nil(table)
	suite.True(errors.IsInsufficientDataError(err))

	var insufficientErr *errors.InsufficientDataError
	suite.True(errors.As(err, &insufficientErr))
	suite.Equal(50, insufficientErr.Required)
	suite.Equal(49, insufficientErr.Actual)
}

func (suite *EngineTestSuite) TestComputeExactMinimumRows() {
	table, err := suite.engine.Compute(flatSeries(50, 100))
	suite.NoError(err)
	suite.Len(table, 50)
}

func (suite *EngineTestSuite) TestComputePreservesRows() {
	series := risingSeries(60)

	table, err := suite.engine.Compute(series)
	suite.NoError(err)
	suite.Len(table, len(series))

	for i, row := range table {
		suite.Equal(series[i].Date, row.Date)
		suite.Equal(series[i].Close, row.Close)
	}
}

func (suite *EngineTestSuite) TestComputeFlatSeries() {
	table, err := suite.engine.Compute(flatSeries(60, 100))
	suite.NoError(err)

	for i, row := range table {
		if i < 19 {
			suite.True(row.MAShort.IsNone(), "MAShort should be undefined at row %d", i)
		} else {
			suite.InDelta(100, row.MAShort.Unwrap(), 1e-9)
		}

		if i < 49 {
			suite.True(row.MALong.IsNone(), "MALong should be undefined at row %d", i)
		} else {
			suite.InDelta(100, row.MALong.Unwrap(), 1e-9)
		}

		// No gains and no losses resolves to a neutral oscillator.
		if i >= 13 {
			suite.InDelta(50, row.RSI.Unwrap(), 1e-9)
		}

		// EMA of a constant is the constant, so the MACD line is zero.
		if row.MACD.IsSome() {
			suite.InDelta(0, row.MACD.Unwrap(), 1e-9)
		}
	}

	// The MACD line must be defined once the slow EMA is established.
	suite.True(table[25].MACD.IsSome())
	suite.True(table[24].MACD.IsNone())
}

func (suite *EngineTestSuite) TestComputeWarmupBoundaries() {
	table, err := suite.engine.Compute(risingSeries(60))
	suite.NoError(err)

	suite.True(table[18].MAShort.IsNone())
	suite.True(table[19].MAShort.IsSome())
	suite.True(table[48].MALong.IsNone())
	suite.True(table[49].MALong.IsSome())
	suite.True(table[12].RSI.IsNone())
	suite.True(table[13].RSI.IsSome())
}

func (suite *EngineTestSuite) TestComputeRisingSeriesMovingAverages() {
	table, err := suite.engine.Compute(risingSeries(60))
	suite.NoError(err)

	// Mean of 1..20 and of 1..50.
	suite.InDelta(10.5, table[19].MAShort.Unwrap(), 1e-9)
	suite.InDelta(25.5, table[49].MALong.Unwrap(), 1e-9)

	// Short average tracks price more closely than the long average on a
	// sustained uptrend.
	for i := 49; i < 60; i++ {
		suite.Greater(table[i].MAShort.Unwrap(), table[i].MALong.Unwrap())
		suite.Greater(table[i].MACD.Unwrap(), 0.0)
	}
}

func (suite *EngineTestSuite) TestComputeRisingSeriesRSI() {
	table, err := suite.engine.Compute(risingSeries(60))
	suite.NoError(err)

	// No downward moves at all: perfect uptrend.
	for i := 13; i < 60; i++ {
		suite.InDelta(100, table[i].RSI.Unwrap(), 1e-9)
	}
}

func (suite *EngineTestSuite) TestComputeRSIBounds() {
	// Deterministic pseudo-random walk; RSI must stay within [0, 100] on
	// every defined row.
	closes := make([]float64, 120)
	price := 100.0

	for i := range closes {
		// Simple LCG so the walk is reproducible without a seed flag.
		step := float64((i*2654435761)%17) - 8
		price += step / 4

		closes[i] = price
	}

	table, err := suite.engine.Compute(seriesFromCloses(closes))
	suite.NoError(err)

	for i, row := range table {
		if row.RSI.IsNone() {
			continue
		}

		rsi := row.RSI.Unwrap()
		suite.GreaterOrEqual(rsi, 0.0, "row %d", i)
		suite.LessOrEqual(rsi, 100.0, "row %d", i)
		suite.False(math.IsNaN(rsi), "row %d", i)
	}
}

func (suite *EngineTestSuite) TestComputeDoesNotMutateInput() {
	series := risingSeries(60)

	copied := make(types.PriceSeries, len(series))
	copy(copied, series)

	_, err := suite.engine.Compute(series)
	suite.NoError(err)
	suite.Equal(copied, series)
}
