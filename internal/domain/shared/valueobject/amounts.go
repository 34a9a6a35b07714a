package valueobject

import (
	"github.com/shopspring/decimal"
)

// Amounts is a value object holding a pre-tax (HT) and tax-included (TTC)
// monetary pair. It is immutable - all operations return new Amounts instances.
type Amounts struct {
	HT  decimal.Decimal `json:"total_ht"`
	TTC decimal.Decimal `json:"total_ttc"`
}

// NewAmounts creates a new Amounts with the specified HT and TTC values
func NewAmounts(ht, ttc decimal.Decimal) Amounts {
	return Amounts{HT: ht, TTC: ttc}
}

// NewAmountsFromFloat creates Amounts from float64 values
func NewAmountsFromFloat(ht, ttc float64) Amounts {
	return Amounts{HT: decimal.NewFromFloat(ht), TTC: decimal.NewFromFloat(ttc)}
}

// ZeroAmounts returns a zero-value Amounts
func ZeroAmounts() Amounts {
	return Amounts{HT: decimal.Zero, TTC: decimal.Zero}
}

// Add returns a new Amounts with the field-wise sum
func (a Amounts) Add(other Amounts) Amounts {
	return Amounts{HT: a.HT.Add(other.HT), TTC: a.TTC.Add(other.TTC)}
}

// Sub returns a new Amounts with the field-wise difference
func (a Amounts) Sub(other Amounts) Amounts {
	return Amounts{HT: a.HT.Sub(other.HT), TTC: a.TTC.Sub(other.TTC)}
}

// ClampZero floors each field at zero independently
func (a Amounts) ClampZero() Amounts {
	out := a
	if out.HT.IsNegative() {
		out.HT = decimal.Zero
	}
	if out.TTC.IsNegative() {
		out.TTC = decimal.Zero
	}
	return out
}

// Round2 returns a new Amounts with both fields rounded to 2 decimal places,
// ties rounded away from zero
func (a Amounts) Round2() Amounts {
	return Amounts{HT: Round2(a.HT), TTC: Round2(a.TTC)}
}

// IsZero returns true if both fields are zero
func (a Amounts) IsZero() bool {
	return a.HT.IsZero() && a.TTC.IsZero()
}

// IsValid returns true if the TTC >= HT >= 0 invariant holds
func (a Amounts) IsValid() bool {
	return !a.HT.IsNegative() && a.TTC.GreaterThanOrEqual(a.HT)
}

// Equals returns true if both Amounts carry the same values
func (a Amounts) Equals(other Amounts) bool {
	return a.HT.Equal(other.HT) && a.TTC.Equal(other.TTC)
}

// Round2 rounds a monetary value to exactly 2 decimal places, ties away from zero
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// ItemTotals is implemented by line items exposing their sale-time total prices
type ItemTotals interface {
	ItemTotalHT() decimal.Decimal
	ItemTotalTTC() decimal.Decimal
}

// SumItemTotals sums the HT and TTC totals across all items, rounded to 2
// decimals. An empty sequence returns the caller-supplied fallback unchanged
// apart from rounding. The stored item totals are trusted as-is; they are
// never re-derived from unit price and quantity here.
func SumItemTotals[T ItemTotals](items []T, fallback Amounts) Amounts {
	if len(items) == 0 {
		return fallback.Round2()
	}
	total := ZeroAmounts()
	for _, item := range items {
		total = total.Add(Amounts{HT: item.ItemTotalHT(), TTC: item.ItemTotalTTC()})
	}
	return total.Round2()
}
