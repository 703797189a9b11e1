package entity

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	errs "github.com/amirhossein-jamali/game-portal/internal/domain/error"
)

// MaxDecimalPlaces defines the maximum number of decimal places allowed for money amounts
const MaxDecimalPlaces = 2

// MaxIntegerDigits is the integer part a numeric(20,2) money column can hold
const MaxIntegerDigits = 18

var moneyBound = decimal.New(1, MaxIntegerDigits)

// ParseAmount parses a monetary string into a decimal with at most two fraction digits.
// Zero is accepted here; callers decide whether zero is meaningful.
func ParseAmount(amount string) (decimal.Decimal, error) {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return decimal.Zero, fmt.Errorf("%w: empty value", errs.ErrInvalidAmount)
	}

	d, err := decimal.NewFromString(amount)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s", errs.ErrInvalidAmount, err.Error())
	}

	if !HasMoneyPrecision(d) {
		return decimal.Zero, fmt.Errorf("%w: maximum %d decimal places allowed", errs.ErrInvalidAmount, MaxDecimalPlaces)
	}

	return d, nil
}

// HasMoneyPrecision reports whether d carries no more than two fraction digits
func HasMoneyPrecision(d decimal.Decimal) bool {
	return d.Equal(d.Round(MaxDecimalPlaces))
}

// FitsMoneyColumn reports whether d is storable in a numeric(20,2) column
func FitsMoneyColumn(d decimal.Decimal) bool {
	return d.Abs().LessThan(moneyBound)
}

// FormatMoney renders an amount with exactly two decimal places
func FormatMoney(d decimal.Decimal) string {
	return d.StringFixed(MaxDecimalPlaces)
}

// MustMoney builds a decimal from a literal, panicking on malformed input.
// Only meant for constants and configuration defaults.
func MustMoney(amount string) decimal.Decimal {
	return decimal.RequireFromString(amount)
}
