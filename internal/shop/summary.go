package shop

import "github.com/shopspring/decimal"

// Amount is a money figure shown in an order summary. Estimated marks values
// the server did not send; those are display fallbacks, not financial data.
type Amount struct {
	Value     decimal.Decimal
	Estimated bool
}

type Summary struct {
	Subtotal Amount
	Shipping Amount
	Tax      Amount
	Total    decimal.Decimal
}

// SummaryOf fills subtotal, shipping and tax from the order, falling back to
// the sum of the items and zero when the server omitted them. Total is always
// the server's figure.
func SummaryOf(o Order) Summary {
	s := Summary{Total: o.Total}

	if o.Subtotal.Valid {
		s.Subtotal = Amount{Value: o.Subtotal.Decimal}
	} else {
		sum := decimal.Zero
		for _, it := range o.Items {
			sum = sum.Add(it.Subtotal())
		}
		s.Subtotal = Amount{Value: sum, Estimated: true}
	}

	if o.ShippingFee.Valid {
		s.Shipping = Amount{Value: o.ShippingFee.Decimal}
	} else {
		s.Shipping = Amount{Value: decimal.Zero, Estimated: true}
	}

	if o.Tax.Valid {
		s.Tax = Amount{Value: o.Tax.Decimal}
	} else {
		s.Tax = Amount{Value: decimal.Zero, Estimated: true}
	}
	return s
}
