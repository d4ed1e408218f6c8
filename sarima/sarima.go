package sarima

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

// Order represents SARIMA model order (p, d, q) x (P, D, Q, m).
type Order struct {
	P int // Non-seasonal AR order
	D int // Non-seasonal differencing order
	Q int // Non-seasonal MA order
	// Seasonal components
	SP int // Seasonal AR order
	SD int // Seasonal differencing order
	SQ int // Seasonal MA order
	M  int // Seasonal period (e.g., 7 for daily data with weekly seasonality)
}

func (o Order) String() string {
	return fmt.Sprintf("SARIMA(%d,%d,%d)(%d,%d,%d)[%d]", o.P, o.D, o.Q, o.SP, o.SD, o.SQ, o.M)
}

func (o Order) minLength() int {
	return o.P + o.Q + o.D + (o.SP+o.SD+o.SQ)*o.M + 20
}

// Model represents a SARIMA model.
type Model struct {
	Order     Order
	ARCoeffs  []float64 // Non-seasonal AR coefficients
	MACoeffs  []float64 // Non-seasonal MA coefficients
	SARCoeffs []float64 // Seasonal AR coefficients
	SMACoeffs []float64 // Seasonal MA coefficients
	Intercept float64
	Variance  float64
	AIC       float64
	AICc      float64 // Corrected AIC for small sample sizes
	BIC       float64
	LogLik    float64

	fitted        bool
	nobs          int
	tails         []float64   // last value of each non-seasonal level, outermost first
	seasonalTails [][]float64 // last M values of each seasonal level, outermost first
	diffed        []float64
	residuals     []float64
	fittedVals    []float64
}

// New creates an unfitted model with the specified order. Orders must be
// non-negative.
func New(p, d, q, sp, sd, sq, m int) *Model {
	return &Model{
		Order: Order{
			P: p, D: d, Q: q,
			SP: sp, SD: sd, SQ: sq, M: m,
		},
		ARCoeffs:  make([]float64, p),
		MACoeffs:  make([]float64, q),
		SARCoeffs: make([]float64, sp),
		SMACoeffs: make([]float64, sq),
	}
}

// Fit estimates the model on values. Non-seasonal differencing is applied
// first, then seasonal differencing. NaN values are rejected.
func (m *Model) Fit(values []float64) error {
	o := m.Order
	if o.M < 1 && o.SP+o.SD+o.SQ > 0 {
		return errors.New("seasonal terms require a period of at least 1")
	}
	if len(values) < o.minLength() {
		return fmt.Errorf("%w: %s needs %d points, got %d", ErrInsufficientData, o, o.minLength(), len(values))
	}
	if floats.HasNaN(values) {
		return errors.New("values contain NaN")
	}

	y := values
	m.tails = m.tails[:0]
	for i := 0; i < o.D; i++ {
		m.tails = append(m.tails, y[len(y)-1])
		y = stats.Diff(y)
	}

	m.seasonalTails = m.seasonalTails[:0]
	for i := 0; i < o.SD; i++ {
		m.seasonalTails = append(m.seasonalTails, append([]float64(nil), y[len(y)-o.M:]...))
		y = stats.SeasonalDiff(y, o.M)
		if len(y) == 0 {
			return errors.New("seasonal differencing resulted in empty series")
		}
	}

	m.diffed = y
	m.nobs = len(values)

	m.fitCSS()
	m.calculateIC()
	m.fitted = true
	return nil
}

// fitCSS fits the model using Conditional Sum of Squares estimation.
func (m *Model) fitCSS() {
	y := m.diffed
	o := m.Order
	m.Intercept = stat.Mean(y, nil)

	// Initialize AR coefficients using ACF
	if o.P > 0 {
		if acf := stats.ACF(y, o.P); acf != nil {
			m.ARCoeffs = initARCoeffs(acf, o.P)
		}
	}

	// Initialize seasonal AR coefficients
	if o.SP > 0 {
		if acf := stats.ACF(y, o.SP*o.M); acf != nil {
			for i := 0; i < o.SP; i++ {
				if idx := (i + 1) * o.M; idx < len(acf) {
					m.SARCoeffs[i] = acf[idx] * 0.5
				}
			}
		}
	}

	for i := range m.MACoeffs {
		m.MACoeffs[i] = 0.1
	}
	for i := range m.SMACoeffs {
		m.SMACoeffs[i] = 0.1
	}

	start := m.startIndex()
	if o.P+o.Q+o.SP+o.SQ > 0 {
		m.optimizeCSS(start)
	}

	m.residuals, m.fittedVals = m.filter(y, 0)

	count := len(y) - start
	sse := floats.Dot(m.residuals[start:], m.residuals[start:])
	numParams := o.P + o.Q + o.SP + o.SQ + 1
	if count > numParams {
		m.Variance = sse / float64(count-numParams)
	} else {
		m.Variance = sse / float64(count)
	}
}

// startIndex is the first observation with a full set of lags. Short
// samples fall back to 0 so the CSS still has terms to sum.
func (m *Model) startIndex() int {
	o := m.Order
	start := max(max(o.P, o.Q), max(o.SP*o.M, o.SQ*o.M))
	if start >= len(m.diffed)-10 {
		return 0
	}
	return start
}

// filter runs the SARMA recursion from start and returns residuals and
// one-step fitted values. Entries before start are left at zero.
func (m *Model) filter(y []float64, start int) (residuals, fitted []float64) {
	residuals = make([]float64, len(y))
	fitted = make([]float64, len(y))
	for t := start; t < len(y); t++ {
		fitted[t] = m.step(y, residuals, t)
		residuals[t] = y[t] - fitted[t]
	}
	return residuals, fitted
}

// step predicts y[t] from the lags available before t.
func (m *Model) step(y, residuals []float64, t int) float64 {
	o := m.Order
	pred := m.Intercept

	for i := 0; i < o.P && t-i-1 >= 0; i++ {
		pred += m.ARCoeffs[i] * (y[t-i-1] - m.Intercept)
	}
	for i := 0; i < o.SP; i++ {
		if lag := (i + 1) * o.M; t-lag >= 0 {
			pred += m.SARCoeffs[i] * (y[t-lag] - m.Intercept)
		}
	}
	for i := 0; i < o.Q && t-i-1 >= 0; i++ {
		pred += m.MACoeffs[i] * residuals[t-i-1]
	}
	for i := 0; i < o.SQ; i++ {
		if lag := (i + 1) * o.M; t-lag >= 0 {
			pred += m.SMACoeffs[i] * residuals[t-lag]
		}
	}
	return pred
}

// optimizeCSS refines all coefficients by gradient descent with momentum
// and a decaying learning rate, keeping the best solution seen.
func (m *Model) optimizeCSS(start int) {
	const (
		maxIter   = 200
		tolerance = 1e-8
		momentum  = 0.9
		decay     = 0.99
		patience  = 20
	)

	y := m.diffed
	n := float64(len(y))
	o := m.Order
	learningRate := 0.005

	coeffs := [][]float64{m.ARCoeffs, m.SARCoeffs, m.MACoeffs, m.SMACoeffs}
	velocity := make([][]float64, len(coeffs))
	best := make([][]float64, len(coeffs))
	for i, c := range coeffs {
		velocity[i] = make([]float64, len(c))
		best[i] = append([]float64(nil), c...)
	}

	bestSSE := math.Inf(1)
	noImprove := 0

	for iter := 0; iter < maxIter; iter++ {
		residuals, _ := m.filter(y, start)
		sse := floats.Dot(residuals[start:], residuals[start:])

		if sse < bestSSE {
			bestSSE = sse
			for i, c := range coeffs {
				copy(best[i], c)
			}
			noImprove = 0
		} else {
			noImprove++
		}
		if noImprove > patience {
			break
		}

		grads := [][]float64{
			make([]float64, o.P), make([]float64, o.SP),
			make([]float64, o.Q), make([]float64, o.SQ),
		}
		for t := start; t < len(y); t++ {
			for i := 0; i < o.P && t-i-1 >= 0; i++ {
				grads[0][i] -= 2 * residuals[t] * (y[t-i-1] - m.Intercept)
			}
			for i := 0; i < o.SP; i++ {
				if lag := (i + 1) * o.M; t-lag >= 0 {
					grads[1][i] -= 2 * residuals[t] * (y[t-lag] - m.Intercept)
				}
			}
			for i := 0; i < o.Q && t-i-1 >= 0; i++ {
				grads[2][i] -= 2 * residuals[t] * residuals[t-i-1]
			}
			for i := 0; i < o.SQ; i++ {
				if lag := (i + 1) * o.M; t-lag >= 0 {
					grads[3][i] -= 2 * residuals[t] * residuals[t-lag]
				}
			}
		}

		for g, c := range coeffs {
			for i := range c {
				velocity[g][i] = momentum*velocity[g][i] + learningRate*grads[g][i]/n
				c[i] = clamp(c[i] - velocity[g][i])
			}
		}
		learningRate *= decay

		if iter > 0 && math.Abs(sse-bestSSE) < tolerance {
			break
		}
	}

	for i, c := range coeffs {
		copy(c, best[i])
	}
}

// calculateIC calculates AIC, AICc, and BIC.
func (m *Model) calculateIC() {
	n := float64(len(m.residuals))
	k := float64(m.Order.P + m.Order.Q + m.Order.SP + m.Order.SQ + 1)
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

// Predict generates forecasts for the specified number of steps ahead.
func (m *Model) Predict(steps int) ([]float64, error) {
	forecasts, _, _, err := m.PredictWithInterval(steps, 0.95)
	return forecasts, err
}

// PredictWithInterval returns point forecasts with lower and upper bounds at
// the given confidence level. A confidence outside (0, 1) means 0.95.
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
	forecasts = m.integrate(y[n:])

	// Approximate: variance grows with horizon for integrated series
	z := distuv.UnitNormal.Quantile((1 + confidence) / 2)
	lower = make([]float64, steps)
	upper = make([]float64, steps)
	for h := 0; h < steps; h++ {
		se := math.Sqrt(m.Variance)
		if m.Order.D > 0 {
			se *= math.Sqrt(float64(h + 1))
		}
		if m.Order.SD > 0 {
			se *= math.Sqrt(float64(h/m.Order.M + 1))
		}
		lower[h] = forecasts[h] - z*se
		upper[h] = forecasts[h] + z*se
	}
	return forecasts, lower, upper, nil
}

// integrate undoes seasonal differencing and then non-seasonal
// differencing, innermost level first.
func (m *Model) integrate(diffed []float64) []float64 {
	out := append([]float64(nil), diffed...)
	period := m.Order.M

	// x[t] = z[t] + x[t-m]
	for i := len(m.seasonalTails) - 1; i >= 0; i-- {
		hist := m.seasonalTails[i]
		for j := range out {
			if j < period {
				out[j] += hist[j]
			} else {
				out[j] += out[j-period]
			}
		}
	}

	for i := len(m.tails) - 1; i >= 0; i-- {
		level := m.tails[i]
		for j := range out {
			level += out[j]
			out[j] = level
		}
	}
	return out
}

// Residuals returns a copy of the residuals on the differenced scale.
func (m *Model) Residuals() []float64 {
	if !m.fitted {
		return nil
	}
	return append([]float64(nil), m.residuals...)
}

// FittedValues returns a copy of the fitted values on the differenced scale.
func (m *Model) FittedValues() []float64 {
	if !m.fitted {
		return nil
	}
	return append([]float64(nil), m.fittedVals...)
}

// NObs returns the number of observations the model was fitted on.
func (m *Model) NObs() int {
	return m.nobs
}

// Diagnose runs a Ljung-Box test on the residuals.
func (m *Model) Diagnose(lags int) *stats.LjungBoxResult {
	if !m.fitted {
		return nil
	}
	return stats.LjungBox(m.residuals, lags, m.Order.P+m.Order.Q+m.Order.SP+m.Order.SQ)
}

// initARCoeffs initializes AR coefficients from ACF.
func initARCoeffs(acf []float64, order int) []float64 {
	coeffs := make([]float64, order)
	for i := 0; i < order && i+1 < len(acf); i++ {
		coeffs[i] = acf[i+1] * 0.5
	}
	return coeffs
}

func clamp(v float64) float64 {
	return math.Max(-0.99, math.Min(0.99, v))
}
