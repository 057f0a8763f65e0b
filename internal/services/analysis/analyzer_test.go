package analysis

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"StockSight/internal/domain/models"
)

func flatFixture() ([]models.Bar, models.IndicatorTable) {
	n := 30
	bars := mkBars(constSeries(n, 100))
	table := models.IndicatorTable{
		models.SeriesSMA5:     constSeries(n, 100),
		models.SeriesSMA10:    constSeries(n, 100),
		models.SeriesSMA20:    constSeries(n, 100),
		models.SeriesSMA60:    constSeries(n, 100),
		models.SeriesRSI:      warmupSeries(n, 14, 50),
		models.SeriesMACD:     constSeries(n, 0),
		models.SeriesMACDSig:  constSeries(n, 0),
		models.SeriesMACDHist: constSeries(n, 0),
		models.SeriesK:        constSeries(n, 50),
		models.SeriesD:        constSeries(n, 50),
		models.SeriesJ:        constSeries(n, 50),
		models.SeriesCCI:      constSeries(n, 0),
		models.SeriesROC:      constSeries(n, 0),
		models.SeriesBBUpper:  constSeries(n, 102),
		models.SeriesBBMiddle: constSeries(n, 100),
		models.SeriesBBLower:  constSeries(n, 98),
		models.SeriesBBWidth:  constSeries(n, 4),
		models.SeriesATR:      constSeries(n, 1),
		models.SeriesADX:      constSeries(n, 10),
	}
	return bars, table
}

func TestAnalyzeFlatSeries(t *testing.T) {
	bars, table := flatFixture()
	got, err := NewAnalyzer(DefaultPolicy()).Analyze(bars, table)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if got.Regime.Label != models.RegimeRanging {
		t.Fatalf("flat series regime = %s, want ranging", got.Regime.Label)
	}
	for name, sig := range got.Signals {
		if sig.Polarity != models.PolarityNeutral {
			t.Fatalf("signal %q is %s, want all neutral", name, sig.Polarity)
		}
	}
	if math.Abs(got.Score.Score) > 5 {
		t.Fatalf("flat series score = %v, want |score| <= 5", got.Score.Score)
	}
	if got.Score.NeutralSignals != len(got.Signals) {
		t.Fatalf("neutral count %d != signal count %d", got.Score.NeutralSignals, len(got.Signals))
	}
}

func TestAnalyzeDeterministic(t *testing.T) {
	bars := mkBars(twoPeakCloses(120, 125))
	rsi := constSeries(40, 40)
	rsi[10] = 70
	rsi[30] = 60
	table := models.IndicatorTable{
		models.SeriesRSI:   rsi,
		models.SeriesATR:   constSeries(40, 2),
		models.SeriesADX:   constSeries(40, 35),
		models.SeriesSMA5:  constSeries(40, 114),
		models.SeriesSMA10: constSeries(40, 113),
		models.SeriesSMA20: constSeries(40, 112),
		models.SeriesSMA60: constSeries(40, 110),
		models.SeriesCCI:   constSeries(40, 120),
	}

	a := NewAnalyzer(DefaultPolicy())
	first, err := a.Analyze(bars, table)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := a.Analyze(bars, table)
		if err != nil {
			t.Fatalf("Analyze run %d: %v", i, err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d diverged from the first result", i)
		}
	}
}

func TestAnalyzeEmitsDivergenceSignal(t *testing.T) {
	bars := mkBars(twoPeakCloses(120, 125))
	rsi := constSeries(40, 40)
	rsi[10] = 70
	rsi[30] = 60
	table := models.IndicatorTable{
		models.SeriesRSI: rsi,
		models.SeriesATR: constSeries(40, 2),
	}

	got, err := NewAnalyzer(DefaultPolicy()).Analyze(bars, table)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	div, ok := got.Signals["RSI Divergence"]
	if !ok {
		t.Fatalf("divergence signal missing; have %d signals", len(got.Signals))
	}
	if div.Polarity != models.PolaritySell || div.Strength <= 0 {
		t.Fatalf("divergence = %s strength %v", div.Polarity, div.Strength)
	}
}

func TestValidateInputEmptyBars(t *testing.T) {
	err := ValidateInput(nil, models.IndicatorTable{})
	if !errors.Is(err, ErrMalformedInput) {
		t.Fatalf("err = %v, want ErrMalformedInput", err)
	}
}

func TestValidateInputSeriesLengthMismatch(t *testing.T) {
	bars := mkBars(constSeries(10, 100))
	table := models.IndicatorTable{models.SeriesRSI: constSeries(8, 50)}
	err := ValidateInput(bars, table)
	if !errors.Is(err, ErrMalformedInput) {
		t.Fatalf("err = %v, want ErrMalformedInput", err)
	}
}

func TestValidateInputUnorderedDates(t *testing.T) {
	bars := mkBars(constSeries(10, 100))
	bars[5].Date = bars[4].Date // duplicate date
	err := ValidateInput(bars, models.IndicatorTable{})
	if !errors.Is(err, ErrMalformedInput) {
		t.Fatalf("err = %v, want ErrMalformedInput", err)
	}
}

func TestValidateInputInteriorGap(t *testing.T) {
	bars := mkBars(constSeries(10, 100))
	series := constSeries(10, 50)
	series[6] = math.NaN()
	err := ValidateInput(bars, models.IndicatorTable{models.SeriesRSI: series})
	if !errors.Is(err, ErrMalformedInput) {
		t.Fatalf("err = %v, want ErrMalformedInput", err)
	}
}

func TestValidateInputAcceptsWarmupPrefix(t *testing.T) {
	bars := mkBars(constSeries(10, 100))
	table := models.IndicatorTable{models.SeriesRSI: warmupSeries(10, 4, 50)}
	if err := ValidateInput(bars, table); err != nil {
		t.Fatalf("warm-up prefix should validate: %v", err)
	}
}
