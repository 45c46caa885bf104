package services

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/diewo77/quotes/internal/models"
	pdfgen "github.com/diewo77/quotes/pdf"
)

// DefaultTaxRate is applied when a company has no rate configured.
const DefaultTaxRate = 0.18

// totalsTolerance absorbs per-line rounding to cents.
const totalsTolerance = 0.005

// ItemTotals are the computed amounts of one line.
type ItemTotals struct {
	Subtotal float64
	Discount float64
	Tax      float64
	Total    float64
}

// ComputeItemTotals prices one line. A percentage discount applies to the
// line subtotal, an amount discount applies per unit. Tax is charged on the
// discounted subtotal of taxable lines. Results are rounded to cents.
func ComputeItemTotals(unitPrice float64, qty int, kind pdfgen.DiscountKind, value float64, taxable bool, rate float64) ItemTotals {
	if rate <= 0 {
		rate = DefaultTaxRate
	}
	q := decimal.NewFromInt(int64(qty))
	subtotal := decimal.NewFromFloat(unitPrice).Mul(q)
	discount := decimal.Zero
	switch kind {
	case pdfgen.DiscountPercent:
		discount = subtotal.Mul(decimal.NewFromFloat(value)).Div(decimal.NewFromInt(100))
	case pdfgen.DiscountAmount:
		discount = decimal.NewFromFloat(value).Mul(q)
	}
	subtotal = subtotal.Sub(discount).Round(2)
	tax := decimal.Zero
	if taxable {
		tax = subtotal.Mul(decimal.NewFromFloat(rate)).Round(2)
	}
	return ItemTotals{
		Subtotal: subtotal.InexactFloat64(),
		Discount: discount.Round(2).InexactFloat64(),
		Tax:      tax.InexactFloat64(),
		Total:    subtotal.Add(tax).InexactFloat64(),
	}
}

// ApplyTotals recomputes every line of q and the quote totals from them.
func ApplyTotals(q *models.Quote, rate float64) {
	subtotal, tax, total := decimal.Zero, decimal.Zero, decimal.Zero
	for i := range q.Items {
		it := &q.Items[i]
		t := ComputeItemTotals(it.UnitPrice, it.Quantity, pdfgen.DiscountKind(it.DiscountKind), it.DiscountValue, it.Taxable, rate)
		it.Subtotal, it.Tax, it.Total = t.Subtotal, t.Tax, t.Total
		subtotal = subtotal.Add(decimal.NewFromFloat(t.Subtotal))
		tax = tax.Add(decimal.NewFromFloat(t.Tax))
		total = total.Add(decimal.NewFromFloat(t.Total))
	}
	q.Subtotal = subtotal.InexactFloat64()
	q.Tax = tax.InexactFloat64()
	q.Total = total.InexactFloat64()
}

// CheckTotals cross-checks the pre-computed amounts the document will print:
// every line total is its subtotal plus tax, the line totals add up to the
// quote total, and the quote total is its subtotal plus tax.
func CheckTotals(in pdfgen.Input) error {
	tol := decimal.NewFromFloat(totalsTolerance)
	d := decimal.NewFromFloat
	sum := decimal.Zero
	for i, it := range in.Items {
		if d(it.Subtotal).Add(d(it.Tax)).Sub(d(it.Total)).Abs().GreaterThan(tol) {
			return fmt.Errorf("%w: line %d (%s): %v + %v != %v", ErrTotalsMismatch, i+1, it.Name, it.Subtotal, it.Tax, it.Total)
		}
		sum = sum.Add(d(it.Total))
	}
	q := in.Quote
	if len(in.Items) > 0 {
		lineTol := tol.Mul(decimal.NewFromInt(int64(len(in.Items))))
		if sum.Sub(d(q.Total)).Abs().GreaterThan(lineTol) {
			return fmt.Errorf("%w: lines add up to %s, quote total is %v", ErrTotalsMismatch, sum.StringFixed(2), q.Total)
		}
	}
	if d(q.Subtotal).Add(d(q.Tax)).Sub(d(q.Total)).Abs().GreaterThan(tol) {
		return fmt.Errorf("%w: %v + %v != %v", ErrTotalsMismatch, q.Subtotal, q.Tax, q.Total)
	}
	return nil
}
