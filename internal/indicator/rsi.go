package indicator

import (
	"github.com/moznion/go-optional"
)

// relativeStrengthIndex returns the trailing RSI over the given window: the
// ratio of average upward move to average downward move across the last
// `period` rows, mapped to [0, 100]. Rows before the window is established
// are None.
func relativeStrengthIndex(closes []float64, period int) []optional.Option[float64] {
	values := make([]optional.Option[float64], len(closes))

	for i := range closes {
		if i < period-1 {
			continue
		}

		// Price changes inside the trailing window. The very first row of the
		// series has no previous close, so the first defined window averages
		// over one change fewer.
		start := i - period + 1
		if start < 1 {
			start = 1
		}

		avgGain := 0.0
		avgLoss := 0.0

		for j := start; j <= i; j++ {
			change := closes[j] - closes[j-1]
			if change > 0 {
				avgGain += change
			} else {
				avgLoss += -change
			}
		}

		avgGain /= float64(period)
		avgLoss /= float64(period)

		values[i] = optional.Some(rsiFromAverages(avgGain, avgLoss))
	}

	return values
}

// rsiFromAverages maps average gain/loss to the bounded oscillator value.
// A window with no movement at all is neutral, a window with no losses is a
// perfect uptrend.
func rsiFromAverages(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		if avgGain == 0 {
			return 50
		}

		return 100
	}

	rs := avgGain / avgLoss

	return 100 - (100 / (1 + rs))
}
