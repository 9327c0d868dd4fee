package model

import "github.com/shopspring/decimal"

// Money is exchanged with clients as JSON numbers. Quoted decimals are still
// accepted on input.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// ProductType discriminates the two purchasable catalog items.
type ProductType string

const (
	ProductTypeCourse ProductType = "course"
	ProductTypeTrack  ProductType = "track"
)

// Valid reports whether t is a known product type.
func (t ProductType) Valid() bool {
	return t == ProductTypeCourse || t == ProductTypeTrack
}

// Pricing is the canonical price record shared by courses and roadmaps.
// OriginalPrice is the pre-discount price; a zero value means no discount.
type Pricing struct {
	Price              decimal.Decimal `json:"price"`
	OriginalPrice      decimal.Decimal `json:"originalPrice"`
	DiscountPercentage decimal.Decimal `json:"discountPercentage"`
}

// Validate checks the pricing invariants of a catalog record.
func (p Pricing) Validate(verr *ValidationError) {
	if p.Price.IsNegative() {
		verr.Add("pricing.price", "must not be negative")
	}
	if p.OriginalPrice.IsNegative() {
		verr.Add("pricing.originalPrice", "must not be negative")
	}
	if !p.OriginalPrice.IsZero() && p.OriginalPrice.LessThan(p.Price) {
		verr.Add("pricing.originalPrice", "must not be lower than price")
	}
	if p.DiscountPercentage.IsNegative() || p.DiscountPercentage.GreaterThan(decimal.NewFromInt(100)) {
		verr.Add("pricing.discountPercentage", "must be between 0 and 100")
	}
}

// Product is a purchasable catalog item.
type Product interface {
	ProductID() string
	ProductTitle() string
	ProductType() ProductType
	ProductPricing() Pricing
}

// Instructor describes who teaches a course or roadmap.
type Instructor struct {
	Name  string `json:"name"`
	Title string `json:"title"`
	Bio   string `json:"bio"`
	Image string `json:"image"`
}

// PriceBreakdown is the output of the pricing engine for one cart line.
type PriceBreakdown struct {
	Subtotal      decimal.Decimal `json:"subtotal"`
	Discount      decimal.Decimal `json:"discount"`
	Tax           decimal.Decimal `json:"tax"`
	Total         decimal.Decimal `json:"total"`
	OriginalPrice decimal.Decimal `json:"originalPrice"`
}
