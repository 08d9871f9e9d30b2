package domain

import (
	"github.com/shopspring/decimal"
)

// MinorUnitPlaces is the number of fractional digits a currency amount may carry.
const MinorUnitPlaces = 2

const DefaultCurrency = "CNY"

type Money struct {
	Amount   decimal.Decimal
	Currency string
}

func NewMoney(amount decimal.Decimal, currency string) (Money, error) {
	if currency == "" {
		return Money{}, NewMissingRequiredFieldError("currency")
	}
	if !amount.Equal(amount.Round(MinorUnitPlaces)) {
		return Money{}, NewInvalidAmountError("more than two fractional digits")
	}
	return Money{Amount: amount, Currency: currency}, nil
}

// ParseMoney parses a decimal string such as "12.50".
func ParseMoney(s, currency string) (Money, error) {
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, NewInvalidAmountError("not a decimal number")
	}
	return NewMoney(amount, currency)
}

// MinorUnits returns the amount in the currency's smallest unit.
func (m Money) MinorUnits() int64 {
	return m.Amount.Shift(MinorUnitPlaces).IntPart()
}

func (m Money) String() string {
	return m.Amount.StringFixed(MinorUnitPlaces)
}

// AmountPolicy bounds an amount before it is ever sent to the server.
type AmountPolicy struct {
	Minimum decimal.Decimal
	Ceiling *decimal.Decimal
}

func (p AmountPolicy) Validate(m Money) error {
	if !m.Amount.IsPositive() {
		return NewInvalidAmountError("must be positive")
	}
	if p.Minimum.IsPositive() && m.Amount.LessThan(p.Minimum) {
		return NewAmountBelowMinimumError(m.String(), p.Minimum.StringFixed(MinorUnitPlaces))
	}
	if p.Ceiling != nil && m.Amount.GreaterThan(*p.Ceiling) {
		return NewAmountExceedsCeilingError(m.String(), p.Ceiling.StringFixed(MinorUnitPlaces))
	}
	return nil
}
