package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"StockSight/internal/domain/models"
	domrepo "StockSight/internal/domain/repository"
	domsvc "StockSight/internal/domain/service"
	"StockSight/internal/service/cache"
	"StockSight/internal/services/analysis"
	"StockSight/pkg/logger"
)

// quoteMaxAge bounds how stale a streamed quote may be before the last bar
// close is used instead.
const quoteMaxAge = 2 * time.Minute

// AnalyzeUseCase orchestrates one full analysis: bars from storage,
// indicators from the indicator service, the scoring pipeline, then result
// assembly. Results are memoized per (symbol, period).
type AnalyzeUseCase struct {
	store      domrepo.BarStore
	indicators domsvc.IndicatorProvider
	analyzer   *analysis.Analyzer
	cache      cache.BytesCache
	cacheTTL   time.Duration
	publisher  domrepo.AnalysisPublisher
	quotes     domrepo.QuoteStream
	metrics    domrepo.Metrics
	log        *logger.Logger
	timeout    time.Duration
}

type AnalyzeDeps struct {
	Store      domrepo.BarStore
	Indicators domsvc.IndicatorProvider
	Analyzer   *analysis.Analyzer
	Cache      cache.BytesCache
	CacheTTL   time.Duration
	Publisher  domrepo.AnalysisPublisher
	Quotes     domrepo.QuoteStream
	Metrics    domrepo.Metrics
	Log        *logger.Logger
}

func NewAnalyzeUseCase(d AnalyzeDeps) *AnalyzeUseCase {
	ttl := d.CacheTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &AnalyzeUseCase{
		store:      d.Store,
		indicators: d.Indicators,
		analyzer:   d.Analyzer,
		cache:      d.Cache,
		cacheTTL:   ttl,
		publisher:  d.Publisher,
		quotes:     d.Quotes,
		metrics:    d.Metrics,
		log:        d.Log,
		timeout:    15 * time.Second,
	}
}

type AnalyzeParams struct {
	Symbol string
	Period domrepo.Period
}

func (uc *AnalyzeUseCase) Analyze(ctx context.Context, p AnalyzeParams) (*models.AnalysisResult, error) {
	if p.Symbol == "" {
		return nil, fmt.Errorf("symbol required")
	}
	if !domrepo.IsValidPeriod(p.Period) {
		p.Period = domrepo.DefaultPeriod()
	}

	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	key := fmt.Sprintf("analysis:%s:%s", p.Symbol, p.Period)
	if cached := uc.fromCache(key); cached != nil {
		// The memoized document keeps the price current between recomputes.
		uc.applyQuote(cached)
		return cached, nil
	}

	started := time.Now()

	bars, err := uc.store.LatestBars(ctx, p.Symbol, domrepo.HistoryDepth(p.Period), p.Period)
	if err != nil {
		uc.recordError("store")
		return nil, fmt.Errorf("load bars: %w", err)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("no bars for symbol %s: %w", p.Symbol, ErrNotFound)
	}

	table, err := uc.indicators.Fetch(ctx, p.Symbol, p.Period, bars)
	if err != nil {
		uc.recordError("indicators")
		return nil, fmt.Errorf("fetch indicators: %w", err)
	}

	result, err := uc.analyzer.Analyze(bars, table)
	if err != nil {
		uc.recordError("analysis")
		return nil, err
	}

	out := uc.assemble(ctx, p, bars, table, result)

	if uc.metrics != nil {
		uc.metrics.RecordAnalysis(p.Symbol, string(p.Period))
		uc.metrics.RecordScore(p.Symbol, result.Score.Score)
		uc.metrics.RecordLatency("analyze", time.Since(started).Seconds())
	}
	uc.publish(ctx, p, result)
	uc.toCache(key, out)

	return out, nil
}

func (uc *AnalyzeUseCase) fromCache(key string) *models.AnalysisResult {
	if uc.cache == nil {
		return nil
	}
	b, ok, err := uc.cache.GetBytes(key)
	if err != nil || !ok {
		return nil
	}
	var out models.AnalysisResult
	if err := json.Unmarshal(b, &out); err != nil {
		return nil
	}
	return &out
}

func (uc *AnalyzeUseCase) toCache(key string, out *models.AnalysisResult) {
	if uc.cache == nil {
		return
	}
	b, err := json.Marshal(out)
	if err != nil {
		return
	}
	if err := uc.cache.SetBytes(key, b, uc.cacheTTL); err != nil && uc.log != nil {
		uc.log.Warn("cache analysis result", logger.Error(err))
	}
}

func (uc *AnalyzeUseCase) publish(ctx context.Context, p AnalyzeParams, result *models.Analysis) {
	if uc.publisher == nil {
		return
	}
	ev := models.AnalysisEvent{
		Symbol:         p.Symbol,
		Period:         string(p.Period),
		Score:          result.Score.Score,
		Recommendation: result.Score.Recommendation,
		Regime:         result.Regime.String(),
		Timestamp:      time.Now().UTC(),
	}
	if err := uc.publisher.PublishAnalysis(ctx, ev); err != nil {
		uc.recordError("publish")
		if uc.log != nil {
			uc.log.Warn("publish analysis event", logger.String("symbol", p.Symbol), logger.Error(err))
		}
	}
}

func (uc *AnalyzeUseCase) recordError(kind string) {
	if uc.metrics != nil {
		uc.metrics.RecordError(kind)
	}
}

func (uc *AnalyzeUseCase) assemble(ctx context.Context, p AnalyzeParams, bars []models.Bar, table models.IndicatorTable, result *models.Analysis) *models.AnalysisResult {
	name := p.Symbol
	if uc.store != nil {
		if n, err := uc.store.SecurityName(ctx, p.Symbol); err == nil && n != "" {
			name = n
		}
	}

	last := bars[len(bars)-1]
	prevClose := last.Close
	if len(bars) > 1 {
		prevClose = bars[len(bars)-2].Close
	}
	change := last.Close - prevClose
	changePct := 0.0
	if prevClose != 0 {
		changePct = change / prevClose * 100
	}

	out := &models.AnalysisResult{
		StockInfo: models.StockInfo{Code: p.Symbol, Name: name},
		PriceInfo: models.PriceInfo{
			Close:     last.Close,
			Change:    change,
			ChangePct: changePct,
			Volume:    last.Volume,
		},
		Score:         result.Score,
		Signals:       result.Signals,
		OHLCV:         bars,
		KeyIndicators: keyIndicators(table),
		MALevels:      maLevels(table),
		Advanced:      advancedIndicators(table),
	}
	uc.applyQuote(out)
	return out
}

// applyQuote overlays a sufficiently fresh streamed quote on the price
// summary; a stale or missing quote leaves the last bar close in place.
func (uc *AnalyzeUseCase) applyQuote(out *models.AnalysisResult) {
	if uc.quotes == nil || len(out.OHLCV) == 0 {
		return
	}
	q, ok := uc.quotes.Last(out.StockInfo.Code)
	if !ok || time.Since(q.Timestamp) > quoteMaxAge {
		return
	}
	prevClose := out.OHLCV[len(out.OHLCV)-1].Close
	if len(out.OHLCV) > 1 {
		prevClose = out.OHLCV[len(out.OHLCV)-2].Close
	}
	out.PriceInfo.Close = q.Price
	out.PriceInfo.Change = q.Price - prevClose
	if prevClose != 0 {
		out.PriceInfo.ChangePct = out.PriceInfo.Change / prevClose * 100
	} else {
		out.PriceInfo.ChangePct = 0
	}
}

// keyIndicators snapshots the latest oscillator readings; undefined values
// render as null.
func keyIndicators(table models.IndicatorTable) map[string]*float64 {
	names := []string{
		models.SeriesRSI, models.SeriesMACD, models.SeriesMACDSig, models.SeriesMACDHist,
		models.SeriesK, models.SeriesD, models.SeriesJ,
		models.SeriesCCI, models.SeriesROC, models.SeriesADX, models.SeriesATRPct,
		models.SeriesWILLR, models.SeriesMFI, models.SeriesCMF,
	}
	out := make(map[string]*float64, len(names))
	for _, n := range names {
		if _, present := table[n]; !present {
			continue
		}
		if v, ok := table.Last(n); ok {
			val := v
			out[n] = &val
		} else {
			out[n] = nil
		}
	}
	return out
}

// maLevels lists the defined moving-average and band levels.
func maLevels(table models.IndicatorTable) map[string]float64 {
	names := []string{
		models.SeriesSMA5, models.SeriesSMA10, models.SeriesSMA20, models.SeriesSMA60,
		models.SeriesEMA12, models.SeriesEMA26,
		models.SeriesBBUpper, models.SeriesBBMiddle, models.SeriesBBLower,
	}
	out := make(map[string]float64)
	for _, n := range names {
		if v, ok := table.Last(n); ok {
			out[n] = v
		}
	}
	return out
}

// advancedIndicators exports the full overlay series for charting.
func advancedIndicators(table models.IndicatorTable) map[string][]*float64 {
	names := []string{
		models.SeriesSuperTrend, models.SeriesSTDirection,
		models.SeriesIchiTenkan, models.SeriesIchiKijun,
		models.SeriesIchiSenkouA, models.SeriesIchiSenkouB,
		models.SeriesADX, models.SeriesPlusDI, models.SeriesMinusDI,
		models.SeriesATR, models.SeriesATRPct,
		models.SeriesBBUpper, models.SeriesBBMiddle, models.SeriesBBLower, models.SeriesBBWidth,
		models.SeriesDonchianUpper, models.SeriesDonchianLower,
		models.SeriesKeltnerUpper, models.SeriesKeltnerLower,
		models.SeriesKAMA, models.SeriesPPO, models.SeriesPPOSignal,
		models.SeriesTSI, models.SeriesTSISignal, models.SeriesForceIndex,
	}
	out := make(map[string][]*float64)
	for _, n := range names {
		if s := table.Series(n); s != nil {
			out[n] = models.JSONSeries(s)
		}
	}
	return out
}
