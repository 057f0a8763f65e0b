package models

import (
	"math"
	"time"
)

// Analysis is the pure output of the scoring pipeline for one snapshot.
type Analysis struct {
	Regime  Regime
	Signals map[string]Signal
	Score   CompositeScore
}

// StockInfo identifies the analyzed security.
type StockInfo struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// PriceInfo summarizes the latest price action.
type PriceInfo struct {
	Close     float64 `json:"close"`
	Change    float64 `json:"change"`
	ChangePct float64 `json:"change_pct"`
	Volume    float64 `json:"volume"`
}

// AnalysisResult is the assembled response for one (symbol, period) request.
// Constructed once, returned, then discarded; callers must not mutate it.
type AnalysisResult struct {
	StockInfo     StockInfo             `json:"stock_info"`
	PriceInfo     PriceInfo             `json:"price_info"`
	Score         CompositeScore        `json:"comprehensive_score"`
	Signals       map[string]Signal     `json:"signals"`
	OHLCV         []Bar                 `json:"ohlcv"`
	KeyIndicators map[string]*float64   `json:"key_indicators,omitempty"`
	MALevels      map[string]float64    `json:"ma_levels,omitempty"`
	Advanced      map[string][]*float64 `json:"advanced_indicators"`
}

// AnalysisEvent is the compact record published after a completed analysis.
type AnalysisEvent struct {
	Symbol         string    `json:"symbol"`
	Period         string    `json:"period"`
	Score          float64   `json:"score"`
	Recommendation string    `json:"recommendation"`
	Regime         string    `json:"regime"`
	Timestamp      time.Time `json:"timestamp"`
}

// Quote is a live last-trade observation from the quote stream.
type Quote struct {
	Symbol    string
	Price     float64
	Volume    float64
	Timestamp time.Time
}

// JSONSeries converts a float series to a JSON-safe slice with NaN and Inf
// rendered as null.
func JSONSeries(xs []float64) []*float64 {
	out := make([]*float64, len(xs))
	for i := range xs {
		if math.IsNaN(xs[i]) || math.IsInf(xs[i], 0) {
			continue
		}
		v := xs[i]
		out[i] = &v
	}
	return out
}
