package models

// Polarity is the direction a signal argues for.
type Polarity string

const (
	PolarityBuy     Polarity = "buy"
	PolaritySell    Polarity = "sell"
	PolarityNeutral Polarity = "neutral"
)

// Sign maps the polarity to its scoring contribution sign.
func (p Polarity) Sign() float64 {
	switch p {
	case PolarityBuy:
		return 1
	case PolaritySell:
		return -1
	default:
		return 0
	}
}

// Category is the fixed signal taxonomy used for composite weighting.
type Category string

const (
	CategoryTrend      Category = "trend"
	CategoryMomentum   Category = "momentum"
	CategoryVolatility Category = "volatility"
	CategoryVolume     Category = "volume"
	CategoryDivergence Category = "divergence"
)

// Categories lists the taxonomy in weighting order.
func Categories() []Category {
	return []Category{CategoryTrend, CategoryMomentum, CategoryVolatility, CategoryVolume, CategoryDivergence}
}

// Signal is one discrete, self-explanatory analysis finding. Immutable once
// emitted; produced fresh per analysis.
type Signal struct {
	Name        string   `json:"-"`
	Polarity    Polarity `json:"signal"`
	Strength    float64  `json:"strength"`
	Description string   `json:"description"`
	Category    Category `json:"category"`
}

// RegimeLabel classifies market behavior.
type RegimeLabel string

const (
	RegimeTrending RegimeLabel = "trending"
	RegimeRanging  RegimeLabel = "ranging"
)

// Regime is the classified market state for one analysis.
type Regime struct {
	Label      RegimeLabel
	Direction  string // "up" or "down" when trending, empty otherwise
	Confidence float64
}

// String renders the regime for display and event payloads.
func (r Regime) String() string {
	if r.Label == RegimeTrending && r.Direction != "" {
		return string(r.Label) + "_" + r.Direction
	}
	return string(r.Label)
}

// CompositeScore is the weighted, regime-adjusted verdict over all signals.
// Derived and read-only; recomputed each analysis.
type CompositeScore struct {
	Score          float64 `json:"score"`
	Recommendation string  `json:"recommendation"`
	BuySignals     int     `json:"buy_signals"`
	SellSignals    int     `json:"sell_signals"`
	NeutralSignals int     `json:"neutral_signals"`
	Regime         string  `json:"regime"`
}

// Recommendation maps a composite score to its fixed band. It is a pure step
// function of the score, independent of regime.
func Recommendation(score float64) string {
	switch {
	case score >= 60:
		return "Strong Buy"
	case score >= 20:
		return "Buy"
	case score > -20:
		return "Hold/Neutral"
	case score > -60:
		return "Sell"
	default:
		return "Strong Sell"
	}
}
