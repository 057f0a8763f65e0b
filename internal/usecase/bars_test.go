package usecase

import (
	"context"
	"testing"
	"time"

	domrepo "StockSight/internal/domain/repository"
)

func TestGetBarsLatest(t *testing.T) {
	store := &fakeStore{bars: flatBars(30)}
	uc := NewBarsUseCase(store)

	res, err := uc.GetBars(context.Background(), GetBarsParams{Symbol: "AAPL", Period: domrepo.PeriodDaily})
	if err != nil {
		t.Fatalf("get bars: %v", err)
	}
	if res.Count != 30 || len(res.Bars) != 30 {
		t.Fatalf("expected 30 bars, got %d", res.Count)
	}
	if store.lastN != domrepo.HistoryDepth(domrepo.PeriodDaily) {
		t.Fatalf("expected default history depth, got %d", store.lastN)
	}
}

func TestGetBarsLimitTrimsTail(t *testing.T) {
	store := &fakeStore{bars: flatBars(30)}
	uc := NewBarsUseCase(store)

	res, err := uc.GetBars(context.Background(), GetBarsParams{Symbol: "AAPL", Period: domrepo.PeriodDaily, Limit: 10})
	if err != nil {
		t.Fatalf("get bars: %v", err)
	}
	if res.Count != 10 {
		t.Fatalf("expected 10 bars, got %d", res.Count)
	}
	last := res.Bars[len(res.Bars)-1]
	if !last.Date.Equal(store.bars[len(store.bars)-1].Date) {
		t.Fatalf("trim should keep the newest bars")
	}
}

func TestGetBarsRange(t *testing.T) {
	store := &fakeStore{bars: flatBars(30)}
	uc := NewBarsUseCase(store)

	from := store.bars[5].Date
	to := store.bars[10].Date
	res, err := uc.GetBars(context.Background(), GetBarsParams{
		Symbol: "AAPL", Period: domrepo.PeriodDaily, From: from, To: to,
	})
	if err != nil {
		t.Fatalf("get bars: %v", err)
	}
	if res.Count != 6 {
		t.Fatalf("expected 6 bars in range, got %d", res.Count)
	}
}

func TestGetBarsInvalidRange(t *testing.T) {
	uc := NewBarsUseCase(&fakeStore{bars: flatBars(5)})

	now := time.Now()
	_, err := uc.GetBars(context.Background(), GetBarsParams{
		Symbol: "AAPL", Period: domrepo.PeriodDaily, From: now, To: now.Add(-time.Hour),
	})
	if err == nil {
		t.Fatalf("expected error when from is after to")
	}
}

func TestGetBarsRequiresSymbol(t *testing.T) {
	uc := NewBarsUseCase(&fakeStore{})
	if _, err := uc.GetBars(context.Background(), GetBarsParams{Period: domrepo.PeriodDaily}); err == nil {
		t.Fatalf("expected error for missing symbol")
	}
}
