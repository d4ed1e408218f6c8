// Package arima fits non-seasonal ARIMA(p,d,q) models by conditional sum of
// squares and produces point forecasts.
package arima

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/sartorproj/goseries/stats"
)

var (
	// ErrInsufficientData is returned when the sample is too short for the order.
	ErrInsufficientData = errors.New("insufficient data points for the specified order")
	// ErrNotFitted is returned by Predict before Fit succeeded.
	ErrNotFitted = errors.New("model must be fitted before prediction")
)

// Order represents ARIMA model order (p, d, q).
type Order struct {
	P int // AR order
	D int // Differencing order
	Q int // MA order
}

func (o Order) String() string {
	return fmt.Sprintf("ARIMA(%d,%d,%d)", o.P, o.D, o.Q)
}

// Model represents an ARIMA model.
type Model struct {
	Order     Order
	ARCoeffs  []float64 // phi
	MACoeffs  []float64 // theta
	Intercept float64
	Variance  float64 // Residual variance
	AIC       float64
	AICc      float64
	BIC       float64
	LogLik    float64

	fitted     bool
	nobs       int
	tails      []float64 // last value of each differencing level, outermost first
	diffed     []float64
	residuals  []float64
	fittedVals []float64
}

// New creates an unfitted model with the given order. Orders must be
// non-negative.
func New(p, d, q int) *Model {
	return &Model{
		Order:    Order{P: p, D: d, Q: q},
		ARCoeffs: make([]float64, p),
		MACoeffs: make([]float64, q),
	}
}

// Fit estimates the model on values. NaN values are rejected.
func (m *Model) Fit(values []float64) error {
	if len(values) < m.Order.P+m.Order.Q+m.Order.D+10 {
		return fmt.Errorf("%w: %s needs %d points, got %d", ErrInsufficientData,
			m.Order, m.Order.P+m.Order.Q+m.Order.D+10, len(values))
	}
	if floats.HasNaN(values) {
		return errors.New("values contain NaN")
	}

	y := values
	m.tails = m.tails[:0]
	for i := 0; i < m.Order.D; i++ {
		m.tails = append(m.tails, y[len(y)-1])
		y = stats.Diff(y)
	}
	m.diffed = y
	m.nobs = len(values)

	m.fitCSS()
	m.calculateIC()
	m.fitted = true
	return nil
}

// fitCSS estimates coefficients by conditional sum of squares, starting AR
// terms from Yule-Walker and MA terms from 0.1.
func (m *Model) fitCSS() {
	y := m.diffed
	p, q := m.Order.P, m.Order.Q
	m.Intercept = stat.Mean(y, nil)

	if p > 0 {
		if acf := stats.ACF(y, p); acf != nil {
			if phi := yuleWalker(acf, p); phi != nil {
				m.ARCoeffs = phi
			}
		}
	}
	for i := range m.MACoeffs {
		m.MACoeffs[i] = 0.1
	}

	if p > 0 || q > 0 {
		m.optimize()
	}

	start := max(p, q)
	m.residuals, m.fittedVals = m.filter(y)

	sse := floats.Dot(m.residuals[start:], m.residuals[start:])
	count := len(y) - start
	switch {
	case p == 0 && q == 0:
		m.Variance = stat.Variance(y, nil)
	case count > p+q+1:
		m.Variance = sse / float64(count-p-q-1)
	default:
		m.Variance = sse / float64(count)
	}
}

// filter runs the ARMA recursion over y and returns residuals and one-step
// fitted values. The first max(p, q) fits are the intercept.
func (m *Model) filter(y []float64) (residuals, fitted []float64) {
	n := len(y)
	start := max(m.Order.P, m.Order.Q)
	residuals = make([]float64, n)
	fitted = make([]float64, n)
	for t := 0; t < n; t++ {
		pred := m.Intercept
		if t >= start {
			pred = m.step(y, residuals, t)
		}
		fitted[t] = pred
		residuals[t] = y[t] - pred
	}
	return residuals, fitted
}

// step predicts y[t] from past observations and residuals.
func (m *Model) step(y, residuals []float64, t int) float64 {
	pred := m.Intercept
	for i := 0; i < m.Order.P && t-i-1 >= 0; i++ {
		pred += m.ARCoeffs[i] * (y[t-i-1] - m.Intercept)
	}
	for i := 0; i < m.Order.Q && t-i-1 >= 0; i++ {
		pred += m.MACoeffs[i] * residuals[t-i-1]
	}
	return pred
}

// optimize refines coefficients by gradient descent on the CSS, keeping
// every coefficient inside (-0.99, 0.99).
func (m *Model) optimize() {
	const (
		maxIter      = 100
		tolerance    = 1e-6
		learningRate = 0.01
	)

	y := m.diffed
	n := float64(len(y))
	p, q := m.Order.P, m.Order.Q
	start := max(p, q)

	for iter := 0; iter < maxIter; iter++ {
		residuals, _ := m.filter(y)
		prevSSE := floats.Dot(residuals[start:], residuals[start:])

		arGrad := make([]float64, p)
		maGrad := make([]float64, q)
		for t := start; t < len(y); t++ {
			for i := 0; i < p; i++ {
				arGrad[i] -= 2 * residuals[t] * (y[t-i-1] - m.Intercept)
			}
			for i := 0; i < q; i++ {
				maGrad[i] -= 2 * residuals[t] * residuals[t-i-1]
			}
		}

		for i := range arGrad {
			m.ARCoeffs[i] = clamp(m.ARCoeffs[i] - learningRate*arGrad[i]/n)
		}
		for i := range maGrad {
			m.MACoeffs[i] = clamp(m.MACoeffs[i] - learningRate*maGrad[i]/n)
		}

		residuals, _ = m.filter(y)
		if math.Abs(prevSSE-floats.Dot(residuals[start:], residuals[start:])) < tolerance {
			return
		}
	}
}

func clamp(v float64) float64 {
	return math.Max(-0.99, math.Min(0.99, v))
}

// calculateIC computes the Gaussian log-likelihood, AIC, AICc and BIC.
func (m *Model) calculateIC() {
	n := float64(len(m.residuals))
	k := float64(m.Order.P + m.Order.Q + 1)
	sse := floats.Dot(m.residuals, m.residuals)

	if m.Variance > 0 {
		m.LogLik = -n/2*math.Log(2*math.Pi) - n/2*math.Log(m.Variance) - sse/(2*m.Variance)
	} else {
		m.LogLik = math.Inf(-1)
	}

	m.AIC = -2*m.LogLik + 2*k
	m.BIC = -2*m.LogLik + k*math.Log(n)
	if n-k-1 > 0 {
		m.AICc = m.AIC + 2*k*(k+1)/(n-k-1)
	} else {
		m.AICc = math.Inf(1)
	}
}

// Predict returns steps point forecasts on the original scale.
func (m *Model) Predict(steps int) ([]float64, error) {
	forecasts, _, _, err := m.PredictWithInterval(steps, 0.95)
	return forecasts, err
}

// PredictWithInterval returns point forecasts with lower and upper bounds at
// the given confidence level. A confidence outside (0, 1) means 0.95. The
// bounds widen with the square root of the horizon when d > 0.
func (m *Model) PredictWithInterval(steps int, confidence float64) (forecasts, lower, upper []float64, err error) {
	if !m.fitted {
		return nil, nil, nil, ErrNotFitted
	}
	if steps < 1 {
		return nil, nil, nil, errors.New("steps must be at least 1")
	}
	if confidence <= 0 || confidence >= 1 {
		confidence = 0.95
	}

	n := len(m.diffed)
	y := make([]float64, n+steps)
	copy(y, m.diffed)
	residuals := make([]float64, n+steps)
	copy(residuals, m.residuals)

	// Future innovations have expectation zero.
	for t := n; t < n+steps; t++ {
		y[t] = m.step(y, residuals, t)
	}

	forecasts = y[n:]
	for i := len(m.tails) - 1; i >= 0; i-- {
		level := m.tails[i]
		for j := range forecasts {
			level += forecasts[j]
			forecasts[j] = level
		}
	}

	z := distuv.UnitNormal.Quantile((1 + confidence) / 2)
	lower = make([]float64, steps)
	upper = make([]float64, steps)
	for h := range forecasts {
		se := math.Sqrt(m.Variance)
		if m.Order.D > 0 {
			se *= math.Sqrt(float64(h + 1))
		}
		lower[h] = forecasts[h] - z*se
		upper[h] = forecasts[h] + z*se
	}
	return forecasts, lower, upper, nil
}

// Residuals returns a copy of the in-sample residuals on the differenced scale.
func (m *Model) Residuals() []float64 {
	if !m.fitted {
		return nil
	}
	out := make([]float64, len(m.residuals))
	copy(out, m.residuals)
	return out
}

// FittedValues returns a copy of the one-step fitted values on the differenced scale.
func (m *Model) FittedValues() []float64 {
	if !m.fitted {
		return nil
	}
	out := make([]float64, len(m.fittedVals))
	copy(out, m.fittedVals)
	return out
}

// NObs returns the number of observations the model was fitted on.
func (m *Model) NObs() int {
	return m.nobs
}

// Diagnose runs a Ljung-Box test on the residuals. It returns nil before
// Fit or when the residuals are too short.
func (m *Model) Diagnose(lags int) *stats.LjungBoxResult {
	if !m.fitted {
		return nil
	}
	return stats.LjungBox(m.residuals, lags, m.Order.P+m.Order.Q)
}

// yuleWalker solves the Yule-Walker equations by Levinson-Durbin recursion.
func yuleWalker(acf []float64, order int) []float64 {
	if order <= 0 || len(acf) <= order {
		return nil
	}

	phi := make([]float64, order)
	phi[0] = acf[1]
	v := 1 - phi[0]*phi[0]

	for i := 1; i < order; i++ {
		if v <= 0 {
			break
		}
		lambda := acf[i+1]
		for j := 0; j < i; j++ {
			lambda -= phi[j] * acf[i-j]
		}
		lambda /= v

		next := make([]float64, i+1)
		for j := 0; j < i; j++ {
			next[j] = phi[j] - lambda*phi[i-1-j]
		}
		next[i] = lambda
		copy(phi, next)

		v *= 1 - lambda*lambda
	}
	return phi
}
