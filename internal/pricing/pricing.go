// Package pricing computes the price breakdown of a single cart line.
package pricing

import (
	"shams-elarab/internal/model"

	"github.com/shopspring/decimal"
)

// TaxRate is the fixed VAT applied to every purchase.
var TaxRate = decimal.RequireFromString("0.15")

// Calculate returns the breakdown for one course or roadmap. It is a pure
// function of the product's pricing record.
//
// The original price comes from the record's OriginalPrice and falls back to
// the price when absent. Tax is rounded to two decimals before it is added.
func Calculate(product model.Product) (model.PriceBreakdown, error) {
	if product == nil || !product.ProductType().Valid() {
		return model.PriceBreakdown{}, model.ErrInvalidProductType
	}

	p := product.ProductPricing()
	price := p.Price
	if price.IsNegative() {
		return model.PriceBreakdown{}, model.ErrNegativePrice
	}

	originalPrice := p.OriginalPrice
	if originalPrice.IsZero() {
		originalPrice = price
	}

	subtotal := price
	tax := subtotal.Mul(TaxRate).Round(2)
	total := subtotal.Add(tax)

	discount := decimal.Zero
	if originalPrice.GreaterThan(price) {
		discount = originalPrice.Sub(price)
	}

	return model.PriceBreakdown{
		Subtotal:      subtotal,
		Discount:      discount,
		Tax:           tax,
		Total:         total,
		OriginalPrice: originalPrice,
	}, nil
}
