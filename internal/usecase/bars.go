package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"StockSight/internal/domain/models"
	domrepo "StockSight/internal/domain/repository"
	"StockSight/pkg/util"
)

// ErrNotFound marks a lookup miss the transport layer maps to 404.
var ErrNotFound = errors.New("not found")

// BarsUseCase provides business logic for retrieving raw bars.
type BarsUseCase struct {
	store domrepo.BarStore
}

func NewBarsUseCase(store domrepo.BarStore) *BarsUseCase {
	return &BarsUseCase{store: store}
}

type GetBarsParams struct {
	Symbol string
	From   time.Time
	To     time.Time
	Period domrepo.Period
	Limit  int
}

type GetBarsResult struct {
	Symbol string       `json:"symbol"`
	Period string       `json:"period"`
	Count  int          `json:"count"`
	Bars   []models.Bar `json:"bars"`
}

func (uc *BarsUseCase) GetBars(ctx context.Context, p GetBarsParams) (*GetBarsResult, error) {
	if p.Symbol == "" {
		return nil, fmt.Errorf("symbol required")
	}
	if !p.From.IsZero() && !p.To.IsZero() && p.From.After(p.To) {
		return nil, fmt.Errorf("from must be <= to")
	}
	if !domrepo.IsValidPeriod(p.Period) {
		p.Period = domrepo.DefaultPeriod()
	}
	if p.Limit <= 0 {
		p.Limit = domrepo.HistoryDepth(p.Period)
	}
	if p.Limit > 10000 {
		p.Limit = 10000
	}

	var bars []models.Bar
	var err error
	if p.From.IsZero() && p.To.IsZero() {
		bars, err = uc.store.LatestBars(ctx, p.Symbol, p.Limit, p.Period)
	} else {
		if p.To.IsZero() {
			p.To = time.Now().UTC()
		}
		from, to := util.AlignFromTo(p.From, p.To, string(p.Period))
		bars, err = uc.store.Bars(ctx, p.Symbol, from, to, p.Period)
	}
	if err != nil {
		return nil, fmt.Errorf("get bars: %w", err)
	}
	if len(bars) > p.Limit {
		bars = bars[len(bars)-p.Limit:]
	}

	return &GetBarsResult{
		Symbol: p.Symbol,
		Period: string(p.Period),
		Count:  len(bars),
		Bars:   bars,
	}, nil
}
