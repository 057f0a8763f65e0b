package models

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// Bar is one OHLCV record on the analysis date axis.
type Bar struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

const barDateLayout = "2006-01-02"

type barJSON struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

// MarshalJSON renders the bar with a plain calendar date, matching the
// charting payload consumed downstream.
func (b Bar) MarshalJSON() ([]byte, error) {
	v := barJSON{
		Date:   b.Date.Format(barDateLayout),
		Open:   b.Open,
		High:   b.High,
		Low:    b.Low,
		Close:  b.Close,
		Volume: b.Volume,
	}
	return json.Marshal(v)
}

// UnmarshalJSON parses the wire form back into a Bar.
func (b *Bar) UnmarshalJSON(data []byte) error {
	var v barJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	t, err := time.Parse(barDateLayout, v.Date)
	if err != nil {
		return fmt.Errorf("parse bar date: %w", err)
	}
	b.Date = t
	b.Open = v.Open
	b.High = v.High
	b.Low = v.Low
	b.Close = v.Close
	b.Volume = v.Volume
	return nil
}

// IndicatorTable maps a series name to values aligned 1:1 with the bar
// sequence. NaN marks warm-up positions; defined values never have interior
// NaN gaps.
type IndicatorTable map[string][]float64

// Series returns the named series, or nil when absent.
func (t IndicatorTable) Series(name string) []float64 {
	if t == nil {
		return nil
	}
	return t[name]
}

// Last returns the final value of the named series and whether it is defined.
func (t IndicatorTable) Last(name string) (float64, bool) {
	s := t.Series(name)
	if len(s) == 0 {
		return 0, false
	}
	v := s[len(s)-1]
	if math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// At returns the value k bars back from the end (k=0 is the latest) and
// whether it is defined.
func (t IndicatorTable) At(name string, k int) (float64, bool) {
	s := t.Series(name)
	if k < 0 || k >= len(s) {
		return 0, false
	}
	v := s[len(s)-1-k]
	if math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// Canonical indicator series names supplied by the indicator collaborator.
const (
	SeriesSMA5   = "SMA_5"
	SeriesSMA10  = "SMA_10"
	SeriesSMA20  = "SMA_20"
	SeriesSMA60  = "SMA_60"
	SeriesEMA12  = "EMA_12"
	SeriesEMA26  = "EMA_26"
	SeriesRSI    = "RSI_14"
	SeriesMACD   = "MACD"
	SeriesMACDSig  = "MACD_Signal"
	SeriesMACDHist = "MACD_Hist"
	SeriesK      = "K"
	SeriesD      = "D"
	SeriesJ      = "J"
	SeriesBBUpper  = "BB_Upper"
	SeriesBBMiddle = "BB_Middle"
	SeriesBBLower  = "BB_Lower"
	SeriesBBWidth  = "BB_Width"
	SeriesBBPctB   = "BB_PctB"
	SeriesATR    = "ATR"
	SeriesATRPct = "ATR_Pct"
	SeriesADX    = "ADX"
	SeriesPlusDI   = "+DI"
	SeriesMinusDI  = "-DI"
	SeriesCCI    = "CCI"
	SeriesROC    = "ROC"
	SeriesWILLR  = "WILLR"
	SeriesMFI    = "MFI"
	SeriesCMF    = "CMF"
	SeriesForceIndex = "ForceIndex"
	SeriesPPO        = "PPO"
	SeriesPPOSignal  = "PPO_Signal"
	SeriesTSI        = "TSI"
	SeriesTSISignal  = "TSI_Signal"
	SeriesKAMA       = "KAMA"
	SeriesKAMASlope  = "KAMA_Slope"
	SeriesKeltnerUpper = "Keltner_Upper"
	SeriesKeltnerLower = "Keltner_Lower"
	SeriesDonchianUpper = "Donchian_Upper"
	SeriesDonchianLower = "Donchian_Lower"
	SeriesSuperTrend  = "SuperTrend"
	SeriesSTDirection = "ST_Direction"
	SeriesIchiTenkan  = "Ichimoku_Tenkan"
	SeriesIchiKijun   = "Ichimoku_Kijun"
	SeriesIchiSenkouA = "Ichimoku_SenkouA"
	SeriesIchiSenkouB = "Ichimoku_SenkouB"
)
