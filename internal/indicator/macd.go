package indicator

import (
	"github.com/moznion/go-optional"
)

// macdSeries returns the MACD line (fast EMA minus slow EMA), its signal line
// and the histogram. Only the MACD line is surfaced in the indicator table;
// the signal line and histogram are conventional byproducts kept for callers
// inside this package.
func macdSeries(closes []float64, fastPeriod, slowPeriod, signalPeriod int) (line, signal, histogram []optional.Option[float64]) {
	fast := exponentialMovingAverage(closes, fastPeriod)
	slow := exponentialMovingAverage(closes, slowPeriod)

	line = make([]optional.Option[float64], len(closes))
	for i := range closes {
		if fast[i].IsNone() || slow[i].IsNone() {
			continue
		}

		line[i] = optional.Some(fast[i].Unwrap() - slow[i].Unwrap())
	}

	signal = exponentialMovingAverageOptional(line, signalPeriod)

	histogram = make([]optional.Option[float64], len(closes))
	for i := range closes {
		if line[i].IsNone() || signal[i].IsNone() {
			continue
		}

		histogram[i] = optional.Some(line[i].Unwrap() - signal[i].Unwrap())
	}

	return line, signal, histogram
}
