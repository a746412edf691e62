package filter

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strconv"

	jsoniter "github.com/json-iterator/go"

	"skin_market/internal/domain/value"
	"skin_market/pkg/logx"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

const unboundedMaxPrice = 9999999.0

// Engine keeps the items whose primary profit and reference market price fall
// into the requested range. Kept records are copied byte for byte, in input
// order.
type Engine struct{}

func NewEngine() Engine {
	return Engine{}
}

type thresholds struct {
	minProfit float64
	minPrice  float64
	maxPrice  float64
}

type filterFields struct {
	ProfitPercent float64 `json:"profitPercent"`
	MarketPrice   float64 `json:"marketPrice"`
}

func (Engine) FilterItems(ctx context.Context, data string, params value.FilterParams) (string, error) {
	var records []jsoniter.RawMessage
	if err := json.UnmarshalFromString(data, &records); err != nil {
		return "", fmt.Errorf("json.UnmarshalFromString: %w", err)
	}

	t := parseThresholds(params)

	var buf bytes.Buffer

	buf.WriteByte('[')

	kept := 0

	for i, record := range records {
		var fields filterFields
		if err := json.Unmarshal(record, &fields); err != nil {
			return "", fmt.Errorf("json.Unmarshal(item %d): %w", i, err)
		}

		if !t.match(fields) {
			continue
		}

		if kept > 0 {
			buf.WriteByte(',')
		}

		buf.Write(record)
		kept++
	}

	buf.WriteByte(']')

	logger(ctx).Debug(
		"items filtered",
		slog.Int(logx.FieldItemCount, len(records)),
		slog.Int("kept", kept),
	)

	return buf.String(), nil
}

// Unparsable lower bounds fall back to 0 and an unparsable upper bound to no
// limit, so a malformed parameter widens the result instead of failing it.
func parseThresholds(params value.FilterParams) thresholds {
	minProfit, _ := strconv.ParseFloat(params.MinProfit, 64)
	minPrice, _ := strconv.ParseFloat(params.MinPrice, 64)

	maxPrice, err := strconv.ParseFloat(params.MaxPrice, 64)
	if err != nil {
		maxPrice = unboundedMaxPrice
	}

	return thresholds{
		minProfit: minProfit,
		minPrice:  minPrice,
		maxPrice:  maxPrice,
	}
}

func (t thresholds) match(f filterFields) bool {
	return f.ProfitPercent >= t.minProfit &&
		f.MarketPrice >= t.minPrice &&
		f.MarketPrice <= t.maxPrice
}
