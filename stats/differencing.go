package stats

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Diff returns the first difference of values, one element shorter.
func Diff(values []float64) []float64 {
	if len(values) < 2 {
		return nil
	}
	out := make([]float64, len(values)-1)
	for i := 1; i < len(values); i++ {
		out[i-1] = values[i] - values[i-1]
	}
	return out
}

// SeasonalDiff returns values[t] - values[t-period], period elements
// shorter. It returns nil when period is not positive or values has no full
// season to difference against.
func SeasonalDiff(values []float64, period int) []float64 {
	if period <= 0 || len(values) <= period {
		return nil
	}
	out := make([]float64, len(values)-period)
	for i := period; i < len(values); i++ {
		out[i-period] = values[i] - values[i-period]
	}
	return out
}

// NDiffs returns how many first differences (0..maxD) make values level
// stationary according to the KPSS test. A maxD of zero or less means 2.
func NDiffs(values []float64, maxD int) int {
	if maxD <= 0 {
		maxD = 2
	}

	current := values
	for d := 0; d < maxD; d++ {
		if res := KPSS(current, 0); res == nil || res.IsStationary {
			return d
		}
		current = Diff(current)
		if len(current) < 10 {
			return d
		}
	}
	return maxD
}

// KPSSResult is the outcome of a level-stationarity KPSS test.
type KPSSResult struct {
	Statistic    float64
	PValue       float64
	Lags         int
	IsStationary bool
}

// KPSS runs the Kwiatkowski-Phillips-Schmidt-Shin test with a constant
// only. The null hypothesis is stationarity. nlags <= 0 selects the
// Schwert rule. It returns nil for fewer than 10 observations.
func KPSS(values []float64, nlags int) *KPSSResult {
	n := len(values)
	if n < 10 {
		return nil
	}
	if nlags <= 0 {
		nlags = int(math.Ceil(12 * math.Pow(float64(n)/100, 0.25)))
	}

	mean := stat.Mean(values, nil)
	resid := make([]float64, n)
	for i, v := range values {
		resid[i] = v - mean
	}

	// Newey-West long-run variance with Bartlett weights.
	s2 := 0.0
	for _, r := range resid {
		s2 += r * r
	}
	s2 /= float64(n)
	for l := 1; l <= nlags && l < n; l++ {
		cov := 0.0
		for i := l; i < n; i++ {
			cov += resid[i] * resid[i-l]
		}
		s2 += 2 * (1 - float64(l)/float64(nlags+1)) * cov / float64(n)
	}
	if s2 <= 0 {
		s2 = 1e-10
	}

	eta, cum := 0.0, 0.0
	for _, r := range resid {
		cum += r
		eta += cum * cum
	}
	statistic := eta / (float64(n) * float64(n) * s2)
	p := kpssPValue(statistic)

	return &KPSSResult{
		Statistic:    statistic,
		PValue:       p,
		Lags:         nlags,
		IsStationary: p >= 0.05,
	}
}

// kpssPValue interpolates between the level-stationarity critical values
// 0.347 (10%), 0.463 (5%) and 0.739 (1%).
func kpssPValue(statistic float64) float64 {
	switch {
	case statistic > 0.739:
		return 0.01
	case statistic > 0.463:
		return 0.05
	case statistic > 0.347:
		return 0.10
	default:
		return 0.10 + (0.347-statistic)*0.5
	}
}
