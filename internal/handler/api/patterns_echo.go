package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"PatternScan/internal/domain/models"
	domrepo "PatternScan/internal/domain/repository"
	svcmetrics "PatternScan/internal/service/metrics"
	"PatternScan/internal/service/ratelimit"
	"PatternScan/internal/services/analytics"
	"PatternScan/internal/usecase"
	xhttp "PatternScan/pkg/http"
	xlogger "PatternScan/pkg/logger"
	"PatternScan/pkg/util"
)

// LatestSnapshot exposes the scheduler's most recent scan.
type LatestSnapshot interface {
	Latest() *models.ScanSnapshot
}

// PatternResponse is the single-pair result.
type PatternResponse struct {
	models.ScanRow
	Candles int `json:"candles"`
}

// PatternsEchoHandler serves the dashboard API.
type PatternsEchoHandler struct {
	logger  *xlogger.Logger
	scanner *usecase.Scanner
	market  *usecase.Market
	latest  LatestSnapshot
	limiter *ratelimit.Limiter
}

func NewPatternsEchoHandler(
	logger *xlogger.Logger,
	scanner *usecase.Scanner,
	market *usecase.Market,
	latest LatestSnapshot,
	limiter *ratelimit.Limiter,
) *PatternsEchoHandler {
	svcmetrics.Register()
	return &PatternsEchoHandler{logger: logger, scanner: scanner, market: market, latest: latest, limiter: limiter}
}

func (h *PatternsEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Health)

	g := e.Group("/api")
	g.GET("/pairs", h.Pairs)
	g.GET("/timeframes", h.Timeframes)
	g.GET("/scan", h.Scan, h.rateLimited)
	g.GET("/scan/latest", h.LatestScan)
	g.GET("/pattern", h.Pattern, h.rateLimited)
	g.GET("/tickers", h.Tickers)
}

func (h *PatternsEchoHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (h *PatternsEchoHandler) Pairs(c echo.Context) error {
	defer observe("pairs", time.Now())
	pairs, err := h.market.Pairs(c.Request().Context())
	if err != nil {
		return h.fail(c, "pairs", err)
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "public, max-age=600")
	return xhttp.ListResponse(c, pairs, int64(len(pairs)))
}

func (h *PatternsEchoHandler) Timeframes(c echo.Context) error {
	return xhttp.SuccessResponse(c, domrepo.Timeframes())
}

func (h *PatternsEchoHandler) Scan(c echo.Context) error {
	defer observe("scan", time.Now())
	req := &models.ScanRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	ctx := c.Request().Context()

	var symbols []string
	if _, given := c.QueryParams()["symbols"]; given {
		symbols = util.SplitSymbols(req.Symbols)
		if len(symbols) == 0 {
			return h.fail(c, "scan", models.NewInvalidArgument("symbols", "select at least one trading pair"))
		}
	} else {
		def, err := h.market.DefaultSymbols(ctx)
		if err != nil {
			return h.fail(c, "scan", err)
		}
		symbols = def
	}

	snap, err := h.scanner.Scan(ctx, usecase.ScanParams{
		Symbols:   symbols,
		Timeframe: domrepo.Timeframe(req.TF),
		Capital:   analytics.ParseCapital(req.Capital),
		Limit:     req.Limit,
	})
	if err != nil {
		return h.fail(c, "scan", err)
	}
	return xhttp.SuccessResponse(c, snap)
}

func (h *PatternsEchoHandler) LatestScan(c echo.Context) error {
	if h.latest == nil {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundError("scheduled scanning is disabled"))
	}
	snap := h.latest.Latest()
	if snap == nil {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundError("no completed scan yet"))
	}
	return xhttp.SuccessResponse(c, snap)
}

func (h *PatternsEchoHandler) Pattern(c echo.Context) error {
	defer observe("pattern", time.Now())
	req := &models.PatternRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	symbols := util.SplitSymbols(req.Symbol)
	if len(symbols) != 1 {
		return h.fail(c, "pattern", models.NewInvalidArgument("symbol", "exactly one trading pair is required"))
	}
	row, candles, err := h.scanner.Pattern(c.Request().Context(), symbols[0],
		domrepo.Timeframe(req.TF), analytics.ParseCapital(req.Capital), req.Limit)
	if err != nil {
		return h.fail(c, "pattern", err)
	}
	return xhttp.SuccessResponse(c, PatternResponse{ScanRow: row, Candles: len(candles)})
}

func (h *PatternsEchoHandler) Tickers(c echo.Context) error {
	defer observe("tickers", time.Now())
	req := &models.TickersRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	min, ok := util.ParseFloat(req.Min)
	if !ok {
		return h.fail(c, "tickers", models.NewInvalidArgument("min", "must be a number"))
	}
	var max *float64
	if req.Max != "" {
		v, ok := util.ParseFloat(req.Max)
		if !ok {
			return h.fail(c, "tickers", models.NewInvalidArgument("max", "must be a number"))
		}
		if v < min {
			return h.fail(c, "tickers", models.NewInvalidArgument("max", "must not be below min"))
		}
		max = &v
	}

	tickers, err := h.market.Tickers(c.Request().Context(), min, max)
	if err != nil {
		return h.fail(c, "tickers", err)
	}
	if req.Sort == "change" {
		tickers = usecase.SortByChange(tickers)
	}
	return xhttp.ListResponse(c, tickers, int64(len(tickers)))
}

// rateLimited applies the per-client token bucket to endpoints that hit the exchange.
func (h *PatternsEchoHandler) rateLimited(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if h.limiter != nil && !h.limiter.Allow(c.RealIP()) {
			svcmetrics.HandlerErrors.WithLabelValues(c.Path(), xhttp.CodeRateLimited).Inc()
			return xhttp.AppErrorResponse(c, xhttp.TooManyRequestsError("too many scan requests, slow down"))
		}
		return next(c)
	}
}

func (h *PatternsEchoHandler) fail(c echo.Context, endpoint string, err error) error {
	appErr := toAppError(err)
	svcmetrics.HandlerErrors.WithLabelValues(endpoint, appErr.Code).Inc()
	if appErr.Status >= http.StatusInternalServerError {
		h.logger.Error(endpoint+" failed", xlogger.String("code", appErr.Code), xlogger.Error(err))
	} else {
		h.logger.Debug(endpoint+" rejected", xlogger.String("code", appErr.Code), xlogger.Error(err))
	}
	return xhttp.AppErrorResponse(c, appErr)
}

func observe(endpoint string, start time.Time) {
	svcmetrics.HandlerLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
}
