package money

import "github.com/shopspring/decimal"

// ToMinorUnits converts a decimal amount to the gateway's integer
// representation: round(amount * 10^exponent), half away from zero.
func ToMinorUnits(amount decimal.Decimal, exponent int) int64 {
	return amount.Shift(int32(exponent)).Round(0).IntPart()
}

// FromMinorUnits converts a minor-unit integer back to a decimal amount,
// the inverse of ToMinorUnits within the currency's precision.
func FromMinorUnits(value int64, exponent int) decimal.Decimal {
	return decimal.NewFromInt(value).Shift(int32(-exponent))
}
