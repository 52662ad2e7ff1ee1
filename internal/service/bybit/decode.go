package bybit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"PatternScan/internal/domain/models"
	"PatternScan/pkg/util"
)

// klineFields is the number of positional columns bound from each kline row.
const klineFields = 7

var hundred = decimal.NewFromInt(100)

type envelope struct {
	RetCode int    `json:"retCode"`
	RetMsg  string `json:"retMsg"`
	Result  *struct {
		List json.RawMessage `json:"list"`
	} `json:"result"`
}

type tickerRow struct {
	Symbol       string `json:"symbol"`
	LastPrice    string `json:"lastPrice"`
	Price24hPcnt string `json:"price24hPcnt"`
}

type instrumentRow struct {
	Symbol     string `json:"symbol"`
	Status     string `json:"status"`
	LaunchTime string `json:"launchTime"`
}

// rowError describes one excluded row.
type rowError struct {
	Index  int
	Reason string
}

func (e rowError) Error() string { return fmt.Sprintf("row %d: %s", e.Index, e.Reason) }

func unwrapList(body []byte) ([]byte, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &models.DecodeError{Reason: "body is not JSON", Err: err}
	}
	if env.RetCode != 0 {
		return nil, &models.DecodeError{Reason: fmt.Sprintf("retCode %d: %s", env.RetCode, env.RetMsg)}
	}
	if env.Result == nil || len(env.Result.List) == 0 || bytes.Equal(env.Result.List, []byte("null")) {
		return nil, &models.DecodeError{Reason: "missing result.list"}
	}
	return env.Result.List, nil
}

// decodeKlines binds the first seven fields of each row and sorts the result
// oldest first. Short or non-numeric rows are skipped and reported.
func decodeKlines(list []byte) ([]models.Candle, []rowError, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(list, &raw); err != nil {
		return nil, nil, err
	}

	out := make([]models.Candle, 0, len(raw))
	var skipped []rowError
	for i, elem := range raw {
		dec := json.NewDecoder(bytes.NewReader(elem))
		dec.UseNumber()
		var row []any
		if err := dec.Decode(&row); err != nil {
			skipped = append(skipped, rowError{Index: i, Reason: "not an array"})
			continue
		}
		if len(row) < klineFields {
			skipped = append(skipped, rowError{Index: i, Reason: fmt.Sprintf("expected %d fields, got %d", klineFields, len(row))})
			continue
		}
		var vals [klineFields]decimal.Decimal
		ok := true
		for j := 0; j < klineFields; j++ {
			d, err := toDecimal(row[j])
			if err != nil {
				skipped = append(skipped, rowError{Index: i, Reason: fmt.Sprintf("field %d: %v", j, err)})
				ok = false
				break
			}
			vals[j] = d
		}
		if !ok {
			continue
		}
		out = append(out, models.Candle{
			Timestamp: vals[0].IntPart(),
			Open:      vals[1].InexactFloat64(),
			High:      vals[2].InexactFloat64(),
			Low:       vals[3].InexactFloat64(),
			Close:     vals[4].InexactFloat64(),
			Volume:    vals[5].InexactFloat64(),
			Turnover:  vals[6].InexactFloat64(),
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp < out[j].Timestamp })
	return out, skipped, nil
}

func decodeTickers(list []byte) ([]models.Ticker, []rowError, error) {
	var rows []tickerRow
	if err := json.Unmarshal(list, &rows); err != nil {
		return nil, nil, err
	}

	out := make([]models.Ticker, 0, len(rows))
	var skipped []rowError
	for i, r := range rows {
		if r.Symbol == "" {
			skipped = append(skipped, rowError{Index: i, Reason: "missing symbol"})
			continue
		}
		last, err := decimal.NewFromString(r.LastPrice)
		if err != nil {
			skipped = append(skipped, rowError{Index: i, Reason: "lastPrice: " + err.Error()})
			continue
		}
		pct, err := decimal.NewFromString(r.Price24hPcnt)
		if err != nil {
			skipped = append(skipped, rowError{Index: i, Reason: "price24hPcnt: " + err.Error()})
			continue
		}
		out = append(out, models.Ticker{
			Symbol:    r.Symbol,
			LastPrice: last.InexactFloat64(),
			ChangePct: pct.Mul(hundred).InexactFloat64(),
		})
	}
	return out, skipped, nil
}

// decodeInstruments tolerates a missing launchTime; only a missing symbol
// excludes a row.
func decodeInstruments(list []byte) ([]models.Instrument, []rowError, error) {
	var rows []instrumentRow
	if err := json.Unmarshal(list, &rows); err != nil {
		return nil, nil, err
	}

	out := make([]models.Instrument, 0, len(rows))
	var skipped []rowError
	for i, r := range rows {
		if r.Symbol == "" {
			skipped = append(skipped, rowError{Index: i, Reason: "missing symbol"})
			continue
		}
		inst := models.Instrument{Symbol: r.Symbol, Status: r.Status}
		if ts, ok := util.ParseMillis(r.LaunchTime); ok {
			inst.LaunchTime = &ts
		}
		out = append(out, inst)
	}
	return out, skipped, nil
}

func toDecimal(v any) (decimal.Decimal, error) {
	switch val := v.(type) {
	case string:
		return decimal.NewFromString(val)
	case json.Number:
		return decimal.NewFromString(val.String())
	case nil:
		return decimal.Decimal{}, fmt.Errorf("null value")
	default:
		return decimal.Decimal{}, fmt.Errorf("unexpected %T", v)
	}
}
