package indicator

import (
	"github.com/moznion/go-optional"
)

// simpleMovingAverage returns the trailing unweighted mean of closes over the
// given window. Rows before the window is full are None.
func simpleMovingAverage(closes []float64, period int) []optional.Option[float64] {
	values := make([]optional.Option[float64], len(closes))

	sum := 0.0

	for i, close := range closes {
		sum += close
		if i >= period {
			sum -= closes[i-period]
		}

		if i >= period-1 {
			values[i] = optional.Some(sum / float64(period))
		}
	}

	return values
}
