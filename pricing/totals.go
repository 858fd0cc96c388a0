package pricing

// Line is the per-item input to ComputeTotals: a unit amount, the flat
// per-unit tax amount, and a quantity.
type Line struct {
	UnitAmount float64
	TaxAmount  float64
	Quantity   int
}

type Totals struct {
	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"tax"`
	Shipping float64 `json:"shipping"`
	Discount float64 `json:"discount"`
	Total    float64 `json:"total"`
}

// ComputeTotals sums unit amounts and flat tax amounts across lines. Tax is
// an absolute currency amount per unit, summed, never multiplied by price.
// Each component is rounded independently before the total is combined.
func ComputeTotals(lines []Line, shipping, discount float64) Totals {
	var subtotal, tax float64
	for _, l := range lines {
		subtotal += l.UnitAmount * float64(l.Quantity)
		tax += l.TaxAmount * float64(l.Quantity)
	}
	t := Totals{
		Subtotal: Round2(subtotal),
		Tax:      Round2(tax),
		Shipping: Round2(shipping),
		Discount: Round2(discount),
	}
	t.Total = Round2(t.Subtotal + t.Tax + t.Shipping - t.Discount)
	return t
}
