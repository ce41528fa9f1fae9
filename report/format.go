package report

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
	"github.com/warp/partyfin/generic"
)

// millions converts an M€ figure to euros.
var millions = decimal.NewFromInt(1_000_000)

// Euros displays an M€ amount in whole euros, e.g. "€8,000,000.00".
func Euros(a generic.Amount) string {
	cur := money.GetCurrency(money.EUR)
	minor := a.Value.Mul(millions).Shift(int32(cur.Fraction)).Round(0)
	return money.New(minor.IntPart(), money.EUR).Display()
}

// Format displays an amount the way the report prints it.
func Format(a generic.Amount) string {
	switch a.Unit {
	case generic.UnitMillionEUR:
		return Euros(a)
	case generic.UnitPeople:
		return a.Value.StringFixed(0) + " people"
	case generic.UnitPercent:
		return a.Value.StringFixed(1) + "%"
	default:
		return a.String()
	}
}
