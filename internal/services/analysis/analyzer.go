package analysis

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"StockSight/internal/domain/models"
	domsvc "StockSight/internal/domain/service"
)

// ErrMalformedInput marks inputs the pipeline refuses to score: misaligned
// series, unordered bars, or interior indicator gaps.
var ErrMalformedInput = errors.New("malformed analysis input")

// Analyzer runs the full scoring pipeline: regime classification, the
// per-family generators, divergence detection, then the composite score.
// Classification and generation fan out in parallel; everything is pure so
// the only synchronization is the final join.
type Analyzer struct {
	classifier domsvc.RegimeClassifier
	generators []domsvc.SignalGenerator
	detector   domsvc.DivergenceDetector
	scorer     *Scorer
}

func NewAnalyzer(p Policy) *Analyzer {
	p = p.normalized()
	return &Analyzer{
		classifier: NewClassifier(p),
		generators: []domsvc.SignalGenerator{
			NewTrendGenerator(p),
			NewMomentumGenerator(p),
			NewVolatilityGenerator(p),
			NewVolumeGenerator(p),
			NewPatternGenerator(p),
		},
		detector: NewDetector(p),
		scorer:   NewScorer(p),
	}
}

// ValidateInput rejects inputs the pipeline cannot score meaningfully.
// Indicator series must align with the bars, bar dates must strictly
// ascend, and NaN may only appear as a warm-up prefix.
func ValidateInput(bars []models.Bar, table models.IndicatorTable) error {
	if len(bars) == 0 {
		return fmt.Errorf("%w: empty bar sequence", ErrMalformedInput)
	}
	for i := 1; i < len(bars); i++ {
		if !bars[i].Date.After(bars[i-1].Date) {
			return fmt.Errorf("%w: bar dates not strictly ascending at index %d (%s then %s)",
				ErrMalformedInput, i, bars[i-1].Date.Format("2006-01-02"), bars[i].Date.Format("2006-01-02"))
		}
	}
	for name, series := range table {
		if len(series) != len(bars) {
			return fmt.Errorf("%w: series %q has %d values for %d bars",
				ErrMalformedInput, name, len(series), len(bars))
		}
		defined := false
		for i, v := range series {
			if math.IsNaN(v) {
				if defined {
					return fmt.Errorf("%w: series %q has an interior gap at index %d",
						ErrMalformedInput, name, i)
				}
				continue
			}
			defined = true
		}
	}
	return nil
}

// Analyze validates the input and produces the full analysis. Signals are
// keyed by name; later emissions with a duplicate name are dropped so the
// result is deterministic.
func (a *Analyzer) Analyze(bars []models.Bar, table models.IndicatorTable) (*models.Analysis, error) {
	if err := ValidateInput(bars, table); err != nil {
		return nil, err
	}

	type item struct {
		order   int
		regime  *models.Regime
		signals []models.Signal
	}
	ch := make(chan item, len(a.generators)+2)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		r := a.classifier.Classify(bars, table)
		ch <- item{order: -1, regime: &r}
	}()
	for i, gen := range a.generators {
		wg.Add(1)
		go func(order int, gen domsvc.SignalGenerator) {
			defer wg.Done()
			ch <- item{order: order, signals: gen.Generate(bars, table)}
		}(i, gen)
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		ch <- item{order: len(a.generators), signals: a.detector.Detect(bars, table)}
	}()

	go func() { wg.Wait(); close(ch) }()

	var regime models.Regime
	batches := make([][]models.Signal, len(a.generators)+1)
	for it := range ch {
		if it.regime != nil {
			regime = *it.regime
			continue
		}
		batches[it.order] = it.signals
	}

	signals := make(map[string]models.Signal)
	var flat []models.Signal
	for _, batch := range batches {
		for _, sig := range batch {
			if _, dup := signals[sig.Name]; dup {
				continue
			}
			signals[sig.Name] = sig
			flat = append(flat, sig)
		}
	}

	return &models.Analysis{
		Regime:  regime,
		Signals: signals,
		Score:   a.scorer.Score(flat, regime),
	}, nil
}
