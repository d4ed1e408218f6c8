package autoarima

import (
	"errors"
	"fmt"
	"math"

	"github.com/sartorproj/goseries/arima"
	"github.com/sartorproj/goseries/sarima"
	"github.com/sartorproj/goseries/stats"
)

// Information criteria accepted by Config.Criterion.
const (
	CriterionAIC  = "aic"
	CriterionAICc = "aicc"
	CriterionBIC  = "bic"
)

// Config holds configuration for auto ARIMA search.
type Config struct {
	MaxP      int    // Maximum AR order
	MaxD      int    // Maximum differencing order tried by the KPSS check
	MaxQ      int    // Maximum MA order
	MaxSP     int    // Maximum seasonal AR order
	MaxSD     int    // Maximum seasonal differencing order
	MaxSQ     int    // Maximum seasonal MA order
	M         int    // Seasonal period; 0 searches non-seasonal models only
	Stepwise  bool   // Use stepwise search instead of exhaustive
	Criterion string // "aic", "aicc" or "bic" (default: "aicc")
}

// DefaultConfig returns the default auto ARIMA configuration: an exhaustive
// non-seasonal search ranked by AICc.
func DefaultConfig() Config {
	return Config{
		MaxP:      3,
		MaxD:      2,
		MaxQ:      3,
		MaxSP:     1,
		MaxSD:     1,
		MaxSQ:     1,
		Criterion: CriterionAICc,
	}
}

// Validate checks the search bounds and criterion.
func (c Config) Validate() error {
	for _, v := range []int{c.MaxP, c.MaxD, c.MaxQ, c.MaxSP, c.MaxSD, c.MaxSQ, c.M} {
		if v < 0 {
			return errors.New("search bounds must be non-negative")
		}
	}
	switch c.Criterion {
	case "", CriterionAIC, CriterionAICc, CriterionBIC:
		return nil
	default:
		return fmt.Errorf("unknown criterion %q (valid: aic, aicc, bic)", c.Criterion)
	}
}

func (c Config) seasonal() bool {
	return c.M > 0
}

// Result represents the result of auto ARIMA model selection. Exactly one
// of Model and SeasonalModel is set.
type Result struct {
	Model         *arima.Model
	SeasonalModel *sarima.Model

	AIC       float64
	AICc      float64
	BIC       float64
	Criterion float64 // Value of the configured criterion

	ModelsEvaluated int
}

// IsSeasonal reports whether the selected model is a SARIMA model.
func (r *Result) IsSeasonal() bool {
	return r.SeasonalModel != nil
}

// Order describes the selected order, e.g. "ARIMA(1,1,0)".
func (r *Result) Order() string {
	if r.IsSeasonal() {
		return r.SeasonalModel.Order.String()
	}
	return r.Model.Order.String()
}

// candidate is one order; d and sd are fixed for a search.
type candidate struct {
	p, q, sp, sq int
}

// AutoARIMA picks d with repeated KPSS tests and, for seasonal searches, sd
// from the autocorrelation at the seasonal lag. It then searches (p, q) and,
// when seasonal, (P, Q) within the configured bounds and keeps the model
// with the lowest criterion. Orders that cannot be fitted are skipped.
func AutoARIMA(values []float64, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Criterion == "" {
		cfg.Criterion = CriterionAICc
	}

	s := &searcher{values: values, cfg: cfg, d: stats.NDiffs(values, cfg.MaxD)}
	if cfg.seasonal() {
		s.sd = determineSeasonalDifferencing(values, cfg.MaxSD, cfg.M)
	}

	if cfg.Stepwise {
		s.stepwise()
	} else {
		s.grid()
	}

	if s.best == nil {
		if s.lastErr == nil {
			s.lastErr = errors.New("no candidate model")
		}
		return nil, s.lastErr
	}
	s.best.ModelsEvaluated = s.evaluated
	return s.best, nil
}

// determineSeasonalDifferencing returns 1 when the autocorrelation at the
// seasonal lag is strong, capped by maxSD.
func determineSeasonalDifferencing(values []float64, maxSD, period int) int {
	if maxSD < 1 {
		return 0
	}
	acf := stats.ACF(values, period*2)
	if acf == nil {
		return 0
	}
	if len(acf) > period && math.Abs(acf[period]) > 0.5 {
		return 1
	}
	return 0
}

type searcher struct {
	values []float64
	cfg    Config
	d, sd  int

	best      *Result
	evaluated int
	lastErr   error
}

// try fits sp and reports whether it became the best model.
func (s *searcher) try(sp candidate) bool {
	if !s.inBounds(sp) {
		return false
	}

	var res *Result
	if s.cfg.seasonal() {
		m := sarima.New(sp.p, s.d, sp.q, sp.sp, s.sd, sp.sq, s.cfg.M)
		if err := m.Fit(s.values); err != nil {
			s.lastErr = err
			return false
		}
		res = &Result{SeasonalModel: m, AIC: m.AIC, AICc: m.AICc, BIC: m.BIC}
	} else {
		m := arima.New(sp.p, s.d, sp.q)
		if err := m.Fit(s.values); err != nil {
			s.lastErr = err
			return false
		}
		res = &Result{Model: m, AIC: m.AIC, AICc: m.AICc, BIC: m.BIC}
	}
	s.evaluated++

	switch s.cfg.Criterion {
	case CriterionAIC:
		res.Criterion = res.AIC
	case CriterionBIC:
		res.Criterion = res.BIC
	default:
		res.Criterion = res.AICc
	}

	if s.best == nil || res.Criterion < s.best.Criterion {
		s.best = res
		return true
	}
	return false
}

func (s *searcher) inBounds(sp candidate) bool {
	if sp.p < 0 || sp.p > s.cfg.MaxP || sp.q < 0 || sp.q > s.cfg.MaxQ {
		return false
	}
	if !s.cfg.seasonal() {
		return sp.sp == 0 && sp.sq == 0
	}
	return sp.sp >= 0 && sp.sp <= s.cfg.MaxSP && sp.sq >= 0 && sp.sq <= s.cfg.MaxSQ
}

// grid fits every candidate order.
func (s *searcher) grid() {
	maxSP, maxSQ := 0, 0
	if s.cfg.seasonal() {
		maxSP, maxSQ = s.cfg.MaxSP, s.cfg.MaxSQ
	}
	for p := 0; p <= s.cfg.MaxP; p++ {
		for q := 0; q <= s.cfg.MaxQ; q++ {
			for sp := 0; sp <= maxSP; sp++ {
				for sq := 0; sq <= maxSQ; sq++ {
					s.try(candidate{p, q, sp, sq})
				}
			}
		}
	}
}

// stepwise starts from a few simple orders and moves to the best
// neighbouring order until no neighbour improves the criterion.
func (s *searcher) stepwise() {
	starts := []candidate{{0, 0, 0, 0}, {1, 0, 0, 0}, {0, 1, 0, 0}, {1, 1, 0, 0}, {2, 2, 0, 0}}
	if s.cfg.seasonal() {
		starts = []candidate{{0, 0, 0, 0}, {1, 0, 1, 0}, {0, 1, 0, 1}, {1, 1, 1, 1}, {2, 2, 1, 1}}
	}

	var current candidate
	for _, sp := range starts {
		if s.try(sp) {
			current = sp
		}
	}
	if s.best == nil {
		return
	}

	for improved := true; improved; {
		improved = false
		for _, n := range s.neighbors(current) {
			if s.try(n) {
				current = n
				improved = true
			}
		}
	}
}

func (s *searcher) neighbors(c candidate) []candidate {
	out := []candidate{
		{c.p + 1, c.q, c.sp, c.sq},
		{c.p - 1, c.q, c.sp, c.sq},
		{c.p, c.q + 1, c.sp, c.sq},
		{c.p, c.q - 1, c.sp, c.sq},
		{c.p + 1, c.q + 1, c.sp, c.sq},
		{c.p - 1, c.q - 1, c.sp, c.sq},
	}
	if s.cfg.seasonal() {
		out = append(out,
			candidate{c.p, c.q, c.sp + 1, c.sq},
			candidate{c.p, c.q, c.sp - 1, c.sq},
			candidate{c.p, c.q, c.sp, c.sq + 1},
			candidate{c.p, c.q, c.sp, c.sq - 1},
		)
	}
	return out
}

// Predict generates forecasts using the selected model.
func (r *Result) Predict(steps int) ([]float64, error) {
	forecasts, _, _, err := r.PredictWithInterval(steps, 0.95)
	return forecasts, err
}

// PredictWithInterval returns point forecasts and bounds from the selected model.
func (r *Result) PredictWithInterval(steps int, confidence float64) (forecasts, lower, upper []float64, err error) {
	if r.IsSeasonal() {
		return r.SeasonalModel.PredictWithInterval(steps, confidence)
	}
	return r.Model.PredictWithInterval(steps, confidence)
}

// Residuals returns the model residuals.
func (r *Result) Residuals() []float64 {
	if r.IsSeasonal() {
		return r.SeasonalModel.Residuals()
	}
	return r.Model.Residuals()
}

// Diagnose runs a Ljung-Box test on the selected model's residuals.
func (r *Result) Diagnose(lags int) *stats.LjungBoxResult {
	if r.IsSeasonal() {
		return r.SeasonalModel.Diagnose(lags)
	}
	return r.Model.Diagnose(lags)
}
