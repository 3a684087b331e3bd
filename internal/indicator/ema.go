package indicator

import (
	"github.com/moznion/go-optional"
)

// exponentialMovingAverage returns the trailing EMA over the given window.
// The first defined value seeds with the simple average of the first window,
// then applies EMA = price * alpha + EMA_prev * (1 - alpha) with
// alpha = 2/(period+1), matching pandas ewm with adjust=False.
func exponentialMovingAverage(closes []float64, period int) []optional.Option[float64] {
	values := make([]optional.Option[float64], len(closes))
	if len(closes) < period {
		return values
	}

	seed := 0.0
	for i := 0; i < period; i++ {
		seed += closes[i]
	}

	seed /= float64(period)
	values[period-1] = optional.Some(seed)

	alpha := 2.0 / float64(period+1)

	ema := seed
	for i := period; i < len(closes); i++ {
		ema = (closes[i] * alpha) + (ema * (1 - alpha))
		values[i] = optional.Some(ema)
	}

	return values
}

// exponentialMovingAverageOptional applies the same smoothing to a series
// whose leading rows are None, such as a MACD line. The window starts at the
// first defined input row.
func exponentialMovingAverageOptional(input []optional.Option[float64], period int) []optional.Option[float64] {
	values := make([]optional.Option[float64], len(input))

	offset := -1

	for i, v := range input {
		if v.IsSome() {
			offset = i

			break
		}
	}

	if offset < 0 || len(input)-offset < period {
		return values
	}

	defined := make([]float64, 0, len(input)-offset)
	for _, v := range input[offset:] {
		defined = append(defined, v.Unwrap())
	}

	for i, v := range exponentialMovingAverage(defined, period) {
		values[offset+i] = v
	}

	return values
}
