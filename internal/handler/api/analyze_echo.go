package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	models "StockSight/internal/domain/models"
	domrepo "StockSight/internal/domain/repository"
	"StockSight/internal/service/ratelimit"
	"StockSight/internal/services/analysis"
	"StockSight/internal/usecase"
	xhttp "StockSight/pkg/http"
	xlogger "StockSight/pkg/logger"

	"github.com/labstack/echo/v4"
)

// AnalyzeEchoHandler exposes the analysis endpoints. The analyze response is
// the assembled result document itself; errors render as {"error": message}.
type AnalyzeEchoHandler struct {
	logger  *xlogger.Logger
	analyze *usecase.AnalyzeUseCase
	bars    *usecase.BarsUseCase
	store   domrepo.BarStore
	rl      *ratelimit.Limiter
	rlRPS   float64
	rlBurst float64
}

func NewAnalyzeEchoHandler(logger *xlogger.Logger, analyze *usecase.AnalyzeUseCase, bars *usecase.BarsUseCase, store domrepo.BarStore) *AnalyzeEchoHandler {
	return &AnalyzeEchoHandler{
		logger:  logger,
		analyze: analyze,
		bars:    bars,
		store:   store,
		rl:      ratelimit.New(),
		rlRPS:   2,
		rlBurst: 5,
	}
}

// SetRateLimit overrides the default per-client budget.
func (h *AnalyzeEchoHandler) SetRateLimit(rps float64, burst int) {
	h.rlRPS = rps
	h.rlBurst = float64(burst)
}

func (h *AnalyzeEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/analyze", h.Analyze)
	e.GET("/bars", h.Bars)
	e.GET("/healthz", h.Health)

	g := e.Group("/api")
	g.GET("/analyze", h.Analyze)
	g.GET("/bars", h.Bars)
}

func (h *AnalyzeEchoHandler) Analyze(c echo.Context) error {
	req := &models.AnalyzeRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError(validationMessage(verr)))
	}
	if !h.rl.Allow(c.RealIP()+":analyze", h.rlBurst, h.rlRPS) {
		return xhttp.AppErrorResponse(c, xhttp.RateLimitedError("rate limited"))
	}

	res, err := h.analyze.Analyze(c.Request().Context(), usecase.AnalyzeParams{
		Symbol: strings.ToUpper(req.Symbol),
		Period: domrepo.NormalizePeriod(req.Period),
	})
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrNotFound):
			return xhttp.AppErrorResponse(c, xhttp.NotFoundError(err.Error()).WithError(err))
		case errors.Is(err, analysis.ErrMalformedInput):
			h.logger.Error("analyze malformed input", xlogger.String("symbol", req.Symbol), xlogger.Error(err))
			return xhttp.AppErrorResponse(c, xhttp.UnprocessableError(err.Error()).WithError(err))
		default:
			h.logger.Error("analyze usecase error", xlogger.String("symbol", req.Symbol), xlogger.Error(err))
			return xhttp.AppErrorResponse(c, xhttp.InternalError(err.Error()).WithError(err))
		}
	}

	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=60")
	return c.JSON(http.StatusOK, res)
}

func (h *AnalyzeEchoHandler) Bars(c echo.Context) error {
	req := &models.BarsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError(validationMessage(verr)))
	}
	if !h.rl.Allow(c.RealIP()+":bars", h.rlBurst, h.rlRPS) {
		return xhttp.AppErrorResponse(c, xhttp.RateLimitedError("rate limited"))
	}

	res, err := h.bars.GetBars(c.Request().Context(), usecase.GetBarsParams{
		Symbol: strings.ToUpper(req.Symbol),
		From:   xhttp.ParseTimeDefault(req.From, time.Time{}),
		To:     xhttp.ParseTimeDefault(req.To, time.Time{}),
		Period: domrepo.NormalizePeriod(req.Period),
		Limit:  req.Limit,
	})
	if err != nil {
		h.logger.Error("bars usecase error", xlogger.String("symbol", req.Symbol), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalError(err.Error()).WithError(err))
	}
	return c.JSON(http.StatusOK, res)
}

func (h *AnalyzeEchoHandler) Health(c echo.Context) error {
	status := map[string]string{"status": "ok"}
	if h.store != nil {
		if err := h.store.Health(c.Request().Context()); err != nil {
			status["status"] = "degraded"
			status["store"] = err.Error()
			return c.JSON(http.StatusServiceUnavailable, status)
		}
	}
	status["time"] = time.Now().UTC().Format(time.RFC3339)
	return c.JSON(http.StatusOK, status)
}

// validationMessage flattens the validator output into the single error
// string the response contract uses.
func validationMessage(verr interface{}) string {
	if errs, ok := verr.([]xhttp.ValidationError); ok && len(errs) > 0 {
		msgs := make([]string, 0, len(errs))
		for _, e := range errs {
			msgs = append(msgs, e.Message)
		}
		return strings.Join(msgs, "; ")
	}
	return "invalid request"
}
