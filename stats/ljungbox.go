package stats

import (
	"gonum.org/v1/gonum/stat/distuv"
)

// LjungBoxResult is the outcome of a Ljung-Box portmanteau test.
type LjungBoxResult struct {
	Statistic float64
	PValue    float64
	Lags      int
	DOF       int
}

// WhiteNoise reports whether the null of no autocorrelation survives at 5%.
func (r *LjungBoxResult) WhiteNoise() bool {
	return r.PValue >= 0.05
}

// LjungBox tests residuals for autocorrelation up to lags. fitdf is the
// number of estimated ARMA parameters (p+q). It returns nil for fewer than
// 10 observations or constant residuals.
func LjungBox(residuals []float64, lags, fitdf int) *LjungBoxResult {
	n := len(residuals)
	if n < 10 || lags < 1 {
		return nil
	}
	if lags >= n {
		lags = n - 1
	}

	acf := ACF(residuals, lags)
	if acf == nil {
		return nil
	}

	q := 0.0
	for k := 1; k <= lags; k++ {
		q += acf[k] * acf[k] / float64(n-k)
	}
	q *= float64(n * (n + 2))

	dof := max(lags-fitdf, 1)
	chi := distuv.ChiSquared{K: float64(dof)}

	return &LjungBoxResult{
		Statistic: q,
		PValue:    chi.Survival(q),
		Lags:      lags,
		DOF:       dof,
	}
}
