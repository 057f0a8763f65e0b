package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"StockSight/internal/domain/models"
	domrepo "StockSight/internal/domain/repository"
	pkgch "StockSight/pkg/clickhouse"
	applogger "StockSight/pkg/logger"
)

// CHBarStore implements BarStore backed by ClickHouse.
type CHBarStore struct {
	db *sql.DB
	l  *applogger.Logger
}

func NewCHBarStore(ch *pkgch.Client) *CHBarStore {
	return &CHBarStore{db: ch.DB()}
}

// SetLogger injects a structured logger.
func (s *CHBarStore) SetLogger(l *applogger.Logger) { s.l = l }

func (s *CHBarStore) Bars(ctx context.Context, symbol string, from, to time.Time, p domrepo.Period) ([]models.Bar, error) {
	start := time.Now()
	table, err := tableForPeriod(p)
	if err != nil {
		return nil, err
	}
	const qtpl = `
        SELECT date, open, high, low, close, volume
        FROM %s
        WHERE symbol = ? AND date >= ? AND date <= ?
        ORDER BY date ASC
    `
	q := fmt.Sprintf(qtpl, table)
	rows, err := s.db.QueryContext(ctx, q, symbol, from, to)
	if err != nil {
		s.logError("bars query error", table, symbol, p, err)
		return nil, fmt.Errorf("get bars: %w", err)
	}
	defer rows.Close()

	out := make([]models.Bar, 0, 512)
	for rows.Next() {
		var b models.Bar
		if err := rows.Scan(&b.Date, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			s.logError("bars scan error", table, symbol, p, err)
			return nil, fmt.Errorf("scan bar: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		s.logError("bars rows error", table, symbol, p, err)
		return nil, fmt.Errorf("rows: %w", err)
	}
	if s.l != nil {
		s.l.Debug("clickhouse bars ok",
			applogger.String("table", table),
			applogger.String("symbol", symbol),
			applogger.Int("rows", len(out)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return out, nil
}

func (s *CHBarStore) LatestBars(ctx context.Context, symbol string, n int, p domrepo.Period) ([]models.Bar, error) {
	start := time.Now()
	table, err := tableForPeriod(p)
	if err != nil {
		return nil, err
	}
	const qtpl = `
        SELECT date, open, high, low, close, volume
        FROM %s
        WHERE symbol = ?
        ORDER BY date DESC
        LIMIT ?
    `
	q := fmt.Sprintf(qtpl, table)
	rows, err := s.db.QueryContext(ctx, q, symbol, n)
	if err != nil {
		s.logError("latest_bars query error", table, symbol, p, err)
		return nil, fmt.Errorf("get latest bars: %w", err)
	}
	defer rows.Close()

	tmp := make([]models.Bar, 0, n)
	for rows.Next() {
		var b models.Bar
		if err := rows.Scan(&b.Date, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			s.logError("latest_bars scan error", table, symbol, p, err)
			return nil, fmt.Errorf("scan bar: %w", err)
		}
		tmp = append(tmp, b)
	}
	if err := rows.Err(); err != nil {
		s.logError("latest_bars rows error", table, symbol, p, err)
		return nil, fmt.Errorf("rows: %w", err)
	}
	// reverse to ASC
	for i, j := 0, len(tmp)-1; i < j; i, j = i+1, j-1 {
		tmp[i], tmp[j] = tmp[j], tmp[i]
	}
	if s.l != nil {
		s.l.Debug("clickhouse latest_bars ok",
			applogger.String("table", table),
			applogger.String("symbol", symbol),
			applogger.Int("limit", n),
			applogger.Int("rows", len(tmp)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return tmp, nil
}

func (s *CHBarStore) SecurityName(ctx context.Context, symbol string) (string, error) {
	const q = `SELECT name FROM stocksight.securities WHERE symbol = ? LIMIT 1`
	var name string
	err := s.db.QueryRowContext(ctx, q, symbol).Scan(&name)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("security name: %w", err)
	}
	return name, nil
}

func (s *CHBarStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *CHBarStore) logError(msg, table, symbol string, p domrepo.Period, err error) {
	if s.l == nil {
		return
	}
	s.l.Error("clickhouse "+msg,
		applogger.String("table", table),
		applogger.String("symbol", symbol),
		applogger.String("period", string(p)),
		applogger.Error(err),
	)
}

func tableForPeriod(p domrepo.Period) (string, error) {
	switch p {
	case domrepo.PeriodDaily:
		return "stocksight.bars_daily", nil
	case domrepo.PeriodWeekly:
		return "stocksight.bars_weekly", nil
	case domrepo.PeriodMonthly:
		return "stocksight.bars_monthly", nil
	default:
		return "", fmt.Errorf("unsupported period: %s", p)
	}
}

var _ domrepo.BarStore = (*CHBarStore)(nil)
