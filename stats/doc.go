// Package stats provides the statistical helpers behind ARIMA fitting.
//
// # Autocorrelation
//
//	acf := stats.ACF(values, 20)
//	pacf := stats.PACF(values, 20)
//
// # Differencing
//
// KPSS (null hypothesis: level stationary) drives the choice of d:
//
//	kpss := stats.KPSS(values, 0)
//	d := stats.NDiffs(values, 2)
//
// # Residual Diagnostics
//
//	lb := stats.LjungBox(residuals, 10, p+q)
//	if lb.WhiteNoise() {
//	    // no autocorrelation left in the residuals
//	}
package stats
