package valueobject

import "github.com/shopspring/decimal"

// MoneyPlaces is the number of decimal places kept for amounts
const MoneyPlaces = 2

// RoundMoney rounds an amount half away from zero to cents
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyPlaces)
}

// SumMoney adds amounts and rounds the result to cents
func SumMoney(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return RoundMoney(total)
}

// Percent returns rate percent of amount, rounded to cents.
// rate is a fraction: 0.10 is ten percent.
func Percent(amount, rate decimal.Decimal) decimal.Decimal {
	return RoundMoney(amount.Mul(rate))
}
