package domain

import (
	"math"

	"github.com/shopspring/decimal"
)

const minorUnitExponent = -2

// Amount is a monetary value in the minor unit of the configured currency.
type Amount int64

// TotalAmount returns price × seats, failing instead of wrapping around.
func TotalAmount(price Amount, seats int) (Amount, error) {
	if price < 0 || seats < 0 {
		return 0, ErrAmountOverflow
	}

	if price != 0 && int64(seats) > math.MaxInt64/int64(price) {
		return 0, ErrAmountOverflow
	}

	return price * Amount(seats), nil
}

func (a Amount) Decimal() decimal.Decimal {
	return decimal.New(int64(a), minorUnitExponent)
}

// Format renders the amount in major units, e.g. "INR 6.00".
func (a Amount) Format(currency string) string {
	s := a.Decimal().StringFixed(-minorUnitExponent)
	if currency == "" {
		return s
	}

	return currency + " " + s
}
