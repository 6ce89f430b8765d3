// Package calculator computes line totals and invoice subtotals with
// exact decimal arithmetic. All functions are pure; repeated
// recomputation over the same inputs never drifts.
package calculator

import "github.com/shopspring/decimal"

// Line is the input to a line total computation.
type Line struct {
	UnitPrice decimal.Decimal
	Quantity  int
	Discount  decimal.Decimal
}

// LineTotal computes unitPrice × quantity − discount.
//
// No floor is applied: a discount larger than the line value produces a
// negative total, and that value is carried into the invoice subtotal.
func LineTotal(unitPrice decimal.Decimal, quantity int, discount decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity))).Sub(discount)
}

// Subtotal sums the line totals of all lines.
func Subtotal(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(LineTotal(l.UnitPrice, l.Quantity, l.Discount))
	}
	return total
}
