package bybit

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"PatternScan/internal/domain/models"
	"PatternScan/internal/domain/repository"
	xhttp "PatternScan/pkg/http"
	"PatternScan/pkg/logger"
)

const (
	klinePath       = "/v5/market/kline"
	tickersPath     = "/v5/market/tickers"
	instrumentsPath = "/v5/market/instruments-info"

	maxErrorBody = 512
)

// Client reads Bybit v5 public market endpoints. Every call is a single GET;
// failures come back as TransportError, HTTPError or DecodeError.
type Client struct {
	baseURL  string
	category string
	http     *xhttp.Client
	log      *logger.Logger
	metrics  repository.Metrics
}

// Option customizes Client.
type Option func(*Client)

// WithMetrics records fetch outcomes and latency.
func WithMetrics(m repository.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithLogger sets the logger for row-level decode failures.
func WithLogger(l *logger.Logger) Option {
	return func(c *Client) { c.log = l }
}

func NewClient(baseURL, category string, hc *xhttp.Client, opts ...Option) *Client {
	if hc == nil {
		hc = xhttp.NewClient()
	}
	c := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		category: category,
		http:     hc,
		log:      logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Category is the market category sent with every request.
func (c *Client) Category() string { return c.category }

func (c *Client) Klines(ctx context.Context, symbol string, interval repository.Interval, limit int) ([]models.Candle, error) {
	if strings.TrimSpace(symbol) == "" {
		return nil, models.NewInvalidArgument("symbol", "is required")
	}
	q := map[string][]string{
		"category": {c.category},
		"symbol":   {symbol},
		"interval": {string(interval)},
	}
	if limit > 0 {
		q["limit"] = []string{strconv.Itoa(limit)}
	}

	list, err := c.get(ctx, "kline", klinePath, q)
	if err != nil {
		return nil, err
	}
	candles, skipped, err := decodeKlines(list)
	if err != nil {
		return nil, c.fail("kline", &models.DecodeError{Op: "kline", Reason: "result.list is not an array of rows", Err: err})
	}
	c.logSkipped("kline", skipped, logger.String("symbol", symbol), logger.String("interval", string(interval)))
	return candles, nil
}

func (c *Client) Tickers(ctx context.Context) ([]models.Ticker, error) {
	list, err := c.get(ctx, "tickers", tickersPath, map[string][]string{"category": {c.category}})
	if err != nil {
		return nil, err
	}
	tickers, skipped, err := decodeTickers(list)
	if err != nil {
		return nil, c.fail("tickers", &models.DecodeError{Op: "tickers", Reason: "result.list is not an array of objects", Err: err})
	}
	c.logSkipped("tickers", skipped)
	return tickers, nil
}

func (c *Client) Instruments(ctx context.Context) ([]models.Instrument, error) {
	list, err := c.get(ctx, "instruments", instrumentsPath, map[string][]string{"category": {c.category}})
	if err != nil {
		return nil, err
	}
	items, skipped, err := decodeInstruments(list)
	if err != nil {
		return nil, c.fail("instruments", &models.DecodeError{Op: "instruments", Reason: "result.list is not an array of objects", Err: err})
	}
	c.logSkipped("instruments", skipped)
	return items, nil
}

// get performs the request and unwraps the v5 envelope down to result.list.
func (c *Client) get(ctx context.Context, op, path string, query map[string][]string) ([]byte, error) {
	start := time.Now()
	resp, err := c.http.Fetch(ctx, &xhttp.RequestOptions{
		Method:      xhttp.MethodGet,
		URL:         c.baseURL + path,
		QueryParams: query,
	})
	c.observe(op, start)
	if err != nil {
		return nil, c.fail(op, &models.TransportError{Op: op, Err: err})
	}
	if !resp.OK() {
		body := string(resp.Body)
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		return nil, c.fail(op, &models.HTTPError{Op: op, Status: resp.Status, Body: body})
	}

	list, err := unwrapList(resp.Body)
	if err != nil {
		return nil, c.fail(op, withOp(op, err))
	}
	c.record(op, "ok")
	return list, nil
}

func (c *Client) fail(op string, err error) error {
	c.record(op, models.ErrorKind(err))
	c.log.Warn("bybit request failed", logger.String("op", op), logger.String("kind", models.ErrorKind(err)), logger.Error(err))
	return err
}

func (c *Client) record(op, result string) {
	if c.metrics != nil {
		c.metrics.RecordFetch(op, result)
	}
}

func (c *Client) observe(op string, start time.Time) {
	if c.metrics != nil {
		c.metrics.RecordLatency("bybit_"+op, time.Since(start).Seconds())
	}
}

func (c *Client) logSkipped(op string, skipped []rowError, fields ...logger.Field) {
	if len(skipped) == 0 {
		return
	}
	if c.metrics != nil {
		c.metrics.RecordError("decode_row")
	}
	fields = append(fields,
		logger.String("op", op),
		logger.Int("skipped", len(skipped)),
		logger.String("first", skipped[0].Error()),
	)
	c.log.Warn("excluded malformed rows", fields...)
}

func withOp(op string, err error) error {
	var de *models.DecodeError
	if errors.As(err, &de) {
		de.Op = op
		return de
	}
	return fmt.Errorf("%s: %w", op, err)
}

var _ repository.MarketData = (*Client)(nil)
