package bybit

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PatternScan/internal/domain/models"
	"PatternScan/internal/domain/repository"
	"PatternScan/internal/service/cache"
	xhttp "PatternScan/pkg/http"
)

func newTestClient(t *testing.T, h http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "spot", xhttp.NewClient(xhttp.WithTimeout(2*time.Second))), srv
}

func respond(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}
}

func TestKlines_SortsAndBindsFields(t *testing.T) {
	var gotQuery string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		assert.Equal(t, klinePath, r.URL.Path)
		respond(`{"retCode":0,"retMsg":"OK","result":{"list":[
			["1700000120000","105","106","104","105.5","10","1055","extra"],
			["1700000060000","95","96","94","95","11","1045"],
			["1700000000000","100","101","99","100","12","1200"]
		]}}`)(w, r)
	})

	candles, err := c.Klines(context.Background(), "BTCUSDT", repository.Interval("15"), 3)
	require.NoError(t, err)
	require.Len(t, candles, 3)

	assert.Contains(t, gotQuery, "category=spot")
	assert.Contains(t, gotQuery, "symbol=BTCUSDT")
	assert.Contains(t, gotQuery, "interval=15")
	assert.Contains(t, gotQuery, "limit=3")

	assert.Equal(t, int64(1700000000000), candles[0].Timestamp)
	assert.Equal(t, int64(1700000120000), candles[2].Timestamp)
	assert.Equal(t, models.Candle{
		Timestamp: 1700000120000, Open: 105, High: 106, Low: 104, Close: 105.5, Volume: 10, Turnover: 1055,
	}, candles[2])
}

func TestKlines_ExcludesMalformedRows(t *testing.T) {
	c, _ := newTestClient(t, respond(`{"retCode":0,"result":{"list":[
		["1700000000000","100","101","99"],
		["1700000060000","x","101","99","100","1","1"],
		["1700000120000","100","101","99","100","1","1"]
	]}}`))

	candles, err := c.Klines(context.Background(), "BTCUSDT", "1", 0)
	require.NoError(t, err)
	require.Len(t, candles, 1)
	assert.Equal(t, int64(1700000120000), candles[0].Timestamp)
}

func TestKlines_ExcludesNonArrayRows(t *testing.T) {
	c, _ := newTestClient(t, respond(`{"retCode":0,"result":{"list":[
		"garbage",
		42,
		{"open":"100"},
		["1700000120000","100","101","99","100","1","1"],
		["1700000060000","99","100","98","99","1","1"]
	]}}`))

	candles, err := c.Klines(context.Background(), "BTCUSDT", "1", 0)
	require.NoError(t, err)
	require.Len(t, candles, 2)
	assert.Equal(t, int64(1700000060000), candles[0].Timestamp)
	assert.Equal(t, int64(1700000120000), candles[1].Timestamp)
}

func TestKlines_HTTPStatus(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
	})

	candles, err := c.Klines(context.Background(), "BTCUSDT", "15", 0)
	assert.Nil(t, candles)

	var he *models.HTTPError
	require.True(t, errors.As(err, &he), "got %v", err)
	assert.Equal(t, http.StatusServiceUnavailable, he.Status)
	assert.Contains(t, err.Error(), "source returned error status 503")
}

func TestKlines_DecodeErrors(t *testing.T) {
	cases := map[string]string{
		"not json":      `<html>oops</html>`,
		"missing list":  `{"retCode":0,"result":{}}`,
		"null result":   `{"retCode":0,"result":null}`,
		"retCode":       `{"retCode":10001,"retMsg":"params error","result":{}}`,
		"list not rows": `{"retCode":0,"result":{"list":{"a":1}}}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			c, _ := newTestClient(t, respond(body))
			_, err := c.Klines(context.Background(), "BTCUSDT", "15", 0)

			var de *models.DecodeError
			require.True(t, errors.As(err, &de), "got %v", err)
			assert.Equal(t, "kline", de.Op)
			assert.Contains(t, err.Error(), "response was not valid data")
		})
	}
}

func TestKlines_TransportError(t *testing.T) {
	srv := httptest.NewServer(respond(`{}`))
	url := srv.URL
	srv.Close()

	c := NewClient(url, "spot", xhttp.NewClient(xhttp.WithTimeout(time.Second)))
	_, err := c.Klines(context.Background(), "BTCUSDT", "15", 0)

	var te *models.TransportError
	require.True(t, errors.As(err, &te), "got %v", err)
	assert.Contains(t, err.Error(), "could not reach source")
}

func TestKlines_RequiresSymbol(t *testing.T) {
	c := NewClient("http://unused", "spot", nil)
	_, err := c.Klines(context.Background(), " ", "15", 0)
	var ia *models.InvalidArgument
	assert.True(t, errors.As(err, &ia))
}

func TestTickers_PercentUnits(t *testing.T) {
	c, _ := newTestClient(t, respond(`{"retCode":0,"result":{"list":[
		{"symbol":"BTCUSDT","lastPrice":"64000.5","price24hPcnt":"0.0512"},
		{"symbol":"ETHUSDT","lastPrice":"3000","price24hPcnt":"-0.1"},
		{"symbol":"","lastPrice":"1","price24hPcnt":"0"},
		{"symbol":"BADUSDT","lastPrice":"","price24hPcnt":"0"}
	]}}`))

	tickers, err := c.Tickers(context.Background())
	require.NoError(t, err)
	require.Len(t, tickers, 2)
	assert.Equal(t, "BTCUSDT", tickers[0].Symbol)
	assert.Equal(t, 64000.5, tickers[0].LastPrice)
	assert.Equal(t, 5.12, tickers[0].ChangePct)
	assert.Equal(t, -10.0, tickers[1].ChangePct)
}

func TestInstruments_OptionalLaunchTime(t *testing.T) {
	c, _ := newTestClient(t, respond(`{"retCode":0,"result":{"list":[
		{"symbol":"BTCUSDT","status":"Trading","launchTime":"1585526400000"},
		{"symbol":"NEWUSDT","status":"Trading"},
		{"symbol":"ODDUSDT","launchTime":"soon"}
	]}}`))

	listings, err := Listings(context.Background(), c)
	require.NoError(t, err)
	require.Len(t, listings, 3)
	require.NotNil(t, listings["BTCUSDT"])
	assert.Equal(t, int64(1585526400000), *listings["BTCUSDT"])
	assert.Nil(t, listings["NEWUSDT"])
	assert.Nil(t, listings["ODDUSDT"])
}

func TestCachedSource_TTL(t *testing.T) {
	var tickerCalls, instrumentCalls atomic.Int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case tickersPath:
			tickerCalls.Add(1)
			respond(`{"retCode":0,"result":{"list":[{"symbol":"BTCUSDT","lastPrice":"1","price24hPcnt":"0.01"}]}}`)(w, r)
		case instrumentsPath:
			instrumentCalls.Add(1)
			respond(`{"retCode":0,"result":{"list":[{"symbol":"BTCUSDT","launchTime":"1"}]}}`)(w, r)
		}
	})

	now := time.Unix(1_700_000_000, 0)
	mem := cache.NewTTLCache().WithClock(func() time.Time { return now })
	src := NewCachedSource(c, mem, "spot", time.Minute, 10*time.Minute, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		tickers, err := src.Tickers(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1.0, tickers[0].ChangePct)
		_, err = src.Instruments(ctx)
		require.NoError(t, err)
	}
	assert.EqualValues(t, 1, tickerCalls.Load())
	assert.EqualValues(t, 1, instrumentCalls.Load())

	now = now.Add(61 * time.Second)
	_, err := src.Tickers(ctx)
	require.NoError(t, err)
	_, err = src.Instruments(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, tickerCalls.Load(), "tickers refetched after one minute")
	assert.EqualValues(t, 1, instrumentCalls.Load(), "instruments still fresh")

	now = now.Add(10 * time.Minute)
	_, err = src.Instruments(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, instrumentCalls.Load())
}

func TestCachedSource_DoesNotCacheErrors(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	})
	src := NewCachedSource(c, cache.NewTTLCache(), "spot", time.Minute, time.Minute, nil)

	_, err := src.Tickers(context.Background())
	require.Error(t, err)
	_, err = src.Tickers(context.Background())
	require.Error(t, err)
	assert.EqualValues(t, 2, calls.Load())
}
