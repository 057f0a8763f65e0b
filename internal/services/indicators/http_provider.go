package indicators

import (
	"context"
	"fmt"
	"math"
	"time"

	"StockSight/internal/domain/models"
	domrepo "StockSight/internal/domain/repository"
	domsvc "StockSight/internal/domain/service"
	"StockSight/pkg/config"
	xhttp "StockSight/pkg/http"
)

const defaultTimeout = 5 * time.Second

// HTTPProvider fetches computed indicator series from the indicator service
// over JSON. Null values on the wire become NaN warm-up marks.
type HTTPProvider struct {
	baseURL string
	retries int
	client  *xhttp.Client
}

func NewHTTPProvider(cfg *config.Config) *HTTPProvider {
	timeout := cfg.Indicators.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	retries := cfg.Indicators.Retries
	if retries <= 0 {
		retries = 3
	}
	return &HTTPProvider{
		baseURL: cfg.Indicators.ServiceURL,
		retries: retries,
		client:  xhttp.NewClient(xhttp.WithTimeout(timeout)),
	}
}

type indicatorRequest struct {
	Symbol string       `json:"symbol"`
	Period string       `json:"period"`
	Bars   []models.Bar `json:"bars"`
}

type indicatorResponse struct {
	Indicators map[string][]*float64 `json:"indicators"`
}

func (p *HTTPProvider) Fetch(ctx context.Context, symbol string, period domrepo.Period, bars []models.Bar) (models.IndicatorTable, error) {
	if p.baseURL == "" {
		return nil, fmt.Errorf("indicator service url not configured")
	}

	var resp indicatorResponse
	err := p.postWithRetry(ctx, "/indicators/compute", indicatorRequest{
		Symbol: symbol,
		Period: string(period),
		Bars:   bars,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("fetch indicators for %s: %w", symbol, err)
	}

	table := make(models.IndicatorTable, len(resp.Indicators))
	for name, series := range resp.Indicators {
		values := make([]float64, len(series))
		for i, v := range series {
			if v == nil {
				values[i] = math.NaN()
			} else {
				values[i] = *v
			}
		}
		table[name] = values
	}
	return table, nil
}

func (p *HTTPProvider) postWithRetry(ctx context.Context, path string, payload, dest interface{}) error {
	var err error
	for i := 1; i <= p.retries; i++ {
		err = p.client.SendAndParse(ctx, &xhttp.RequestOptions{
			Method: xhttp.MethodPost,
			URL:    p.baseURL + path,
			Headers: map[string]string{
				"Content-Type": "application/json",
			},
			Body: payload,
		}, dest)
		if err == nil {
			return nil
		}
		select {
		case <-time.After(time.Duration(i) * 50 * time.Millisecond):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

var _ domsvc.IndicatorProvider = (*HTTPProvider)(nil)
