package calc

import (
	"errors"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

const DefaultCommissionRate = 0.10

const (
	ClassProfit = "profit"
	ClassLoss   = "loss"
)

var ErrInvalidCommission = errors.New("commission rate must be in [0, 1)")

//nolint:gochecknoglobals
var (
	hundred = decimal.NewFromInt(100)

	// numberPrefix matches the leading decimal number of an input, the way a
	// browser number parser reads "12abc" as 12.
	numberPrefix = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
)

// Calculator estimates the result of buying at one price and selling at
// another on a marketplace that keeps a commission from the sale.
type Calculator struct {
	commission decimal.Decimal
}

func NewCalculator(rate float64) (Calculator, error) {
	if rate < 0 || rate >= 1 {
		return Calculator{}, ErrInvalidCommission
	}

	return Calculator{commission: decimal.NewFromFloat(rate)}, nil
}

func (c Calculator) CommissionRate() decimal.Decimal {
	return c.commission
}

type Result struct {
	NetProceeds decimal.Decimal
	Amount      decimal.Decimal
	Percent     decimal.Decimal
}

func (r Result) IsProfit() bool {
	return r.Amount.IsPositive()
}

func (r Result) Class() string {
	if r.IsProfit() {
		return ClassProfit
	}
	return ClassLoss
}

func (r Result) AmountText() string {
	return r.Amount.StringFixed(2)
}

func (r Result) PercentText() string {
	return r.Percent.StringFixed(1)
}

// Calculate returns ok=false when either price is zero, which clears the
// displayed result.
func (c Calculator) Calculate(buy, sell decimal.Decimal) (Result, bool) {
	if buy.IsZero() || sell.IsZero() {
		return Result{}, false
	}

	net := sell.Mul(decimal.NewFromInt(1).Sub(c.commission))
	amount := net.Sub(buy)

	return Result{
		NetProceeds: net,
		Amount:      amount,
		Percent:     amount.Div(buy).Mul(hundred),
	}, true
}

// CalculateInput is Calculate over raw form input. Only the leading number of
// each value is read; blank or non-numeric values count as zero.
func (c Calculator) CalculateInput(buy, sell string) (Result, bool) {
	return c.Calculate(parsePrice(buy), parsePrice(sell))
}

func parsePrice(s string) decimal.Decimal {
	d, err := decimal.NewFromString(numberPrefix.FindString(strings.TrimSpace(s)))
	if err != nil {
		return decimal.Zero
	}
	return d
}
