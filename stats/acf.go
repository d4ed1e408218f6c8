package stats

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ACF calculates the autocorrelation function of values for lags 0 to maxLag.
// It returns nil for constant input.
func ACF(values []float64, maxLag int) []float64 {
	n := len(values)
	if maxLag >= n {
		maxLag = n - 1
	}
	if maxLag < 0 {
		return nil
	}

	centered := make([]float64, n)
	copy(centered, values)
	floats.AddConst(-stat.Mean(values, nil), centered)

	variance := floats.Dot(centered, centered)
	if variance == 0 {
		return nil
	}

	acf := make([]float64, maxLag+1)
	for k := 0; k <= maxLag; k++ {
		acf[k] = floats.Dot(centered[k:], centered[:n-k]) / variance
	}
	return acf
}

// PACF calculates the partial autocorrelation function with the
// Durbin-Levinson recursion. Index 0 is always 1.
func PACF(values []float64, maxLag int) []float64 {
	acf := ACF(values, maxLag)
	if len(acf) < 2 {
		return nil
	}
	maxLag = len(acf) - 1

	pacf := make([]float64, maxLag+1)
	pacf[0] = 1

	prev := []float64{acf[1]}
	pacf[1] = acf[1]
	for k := 2; k <= maxLag; k++ {
		num, den := acf[k], 1.0
		for j := 1; j < k; j++ {
			num -= prev[j-1] * acf[k-j]
			den -= prev[j-1] * acf[j]
		}
		if den == 0 {
			break
		}

		kk := num / den
		next := make([]float64, k)
		for j := 1; j < k; j++ {
			next[j-1] = prev[j-1] - kk*prev[k-j-1]
		}
		next[k-1] = kk
		pacf[k] = kk
		prev = next
	}
	return pacf
}
