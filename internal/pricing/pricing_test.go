package pricing

import (
	"testing"

	"shams-elarab/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, expected string, actual decimal.Decimal, field string) {
	t.Helper()
	assert.True(t, dec(expected).Equal(actual), "%s: expected %s, got %s", field, expected, actual.String())
}

func TestCalculate(t *testing.T) {
	tests := []struct {
		name          string
		product       model.Product
		subtotal      string
		discount      string
		tax           string
		total         string
		originalPrice string
	}{
		{
			name: "Course with original price",
			product: model.Course{ID: "go-basics", Pricing: model.Pricing{
				Price:         dec("100"),
				OriginalPrice: dec("120"),
			}},
			subtotal: "100", discount: "20", tax: "15", total: "115", originalPrice: "120",
		},
		{
			name: "Roadmap with discount converted to original price",
			product: model.Roadmap{ID: "backend", Pricing: model.Pricing{
				Price:         dec("200"),
				OriginalPrice: dec("250"),
			}},
			subtotal: "200", discount: "50", tax: "30", total: "230", originalPrice: "250",
		},
		{
			name:     "Course without original price",
			product:  model.Course{ID: "c", Pricing: model.Pricing{Price: dec("80")}},
			subtotal: "80", discount: "0", tax: "12", total: "92", originalPrice: "80",
		},
		{
			name:     "Free item",
			product:  model.Course{ID: "free"},
			subtotal: "0", discount: "0", tax: "0", total: "0", originalPrice: "0",
		},
		{
			name:     "Free item with original price",
			product:  model.Roadmap{ID: "free", Pricing: model.Pricing{OriginalPrice: dec("300")}},
			subtotal: "0", discount: "300", tax: "0", total: "0", originalPrice: "300",
		},
		{
			name:     "Tax rounded to two decimals",
			product:  model.Course{ID: "odd", Pricing: model.Pricing{Price: dec("99.99")}},
			subtotal: "99.99", discount: "0", tax: "15", total: "114.99", originalPrice: "99.99",
		},
		{
			name: "Original price below price yields no discount",
			product: model.Course{ID: "odd", Pricing: model.Pricing{
				Price:         dec("150"),
				OriginalPrice: dec("100"),
			}},
			subtotal: "150", discount: "0", tax: "22.5", total: "172.5", originalPrice: "100",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := Calculate(tt.product)
			require.NoError(t, err)

			assertDecimal(t, tt.subtotal, b.Subtotal, "subtotal")
			assertDecimal(t, tt.discount, b.Discount, "discount")
			assertDecimal(t, tt.tax, b.Tax, "tax")
			assertDecimal(t, tt.total, b.Total, "total")
			assertDecimal(t, tt.originalPrice, b.OriginalPrice, "originalPrice")

			assert.True(t, b.Total.Equal(b.Subtotal.Add(b.Tax)), "total must equal subtotal + tax")
			assert.False(t, b.Discount.IsNegative(), "discount must not be negative")
		})
	}
}

func TestCalculate_Deterministic(t *testing.T) {
	product := model.Course{ID: "c", Pricing: model.Pricing{Price: dec("123.45"), OriginalPrice: dec("150")}}

	first, err := Calculate(product)
	require.NoError(t, err)
	second, err := Calculate(product)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestCalculate_Errors(t *testing.T) {
	_, err := Calculate(model.Course{ID: "neg", Pricing: model.Pricing{Price: dec("-1")}})
	assert.ErrorIs(t, err, model.ErrNegativePrice)

	_, err = Calculate(nil)
	assert.ErrorIs(t, err, model.ErrInvalidProductType)
}
