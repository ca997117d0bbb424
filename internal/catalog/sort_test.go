package catalog

import (
	"math"
	"testing"

	"catalog-service/internal/model"

	"github.com/stretchr/testify/assert"
)

func productWithPrices(slug string, prices ...[2]float64) model.Product {
	p := model.Product{Slug: slug}
	for _, pair := range prices {
		p.Variants = append(p.Variants, model.ProductVariant{
			Sizes: []model.Size{{Price: pair[0], Discount: pair[1]}},
		})
	}
	return p
}

func TestMinEffectivePrice(t *testing.T) {
	// The minimum spans all variants, after discounts
	p := productWithPrices("multi", [2]float64{100, 0}, [2]float64{90, 50})
	assert.Equal(t, 45.0, minEffectivePrice(p))

	// No sizes at all yields +Inf so the product sorts last
	assert.True(t, math.IsInf(minEffectivePrice(model.Product{Slug: "bare"}), 1))
}

func TestSortByPriceStable(t *testing.T) {
	products := []model.Product{
		productWithPrices("b", [2]float64{20, 0}),
		productWithPrices("a", [2]float64{20, 0}),
		productWithPrices("c", [2]float64{10, 0}),
		{Slug: "no-sizes"},
	}

	sortByPrice(products, SortPriceLowToHigh)
	assert.Equal(t, "c", products[0].Slug)
	// Ties keep their fetch order
	assert.Equal(t, "b", products[1].Slug)
	assert.Equal(t, "a", products[2].Slug)
	assert.Equal(t, "no-sizes", products[3].Slug)

	sortByPrice(products, SortPriceHighToLow)
	assert.Equal(t, "no-sizes", products[0].Slug)
	assert.Equal(t, "c", products[3].Slug)
}

func TestSortByPriceNoOrder(t *testing.T) {
	products := []model.Product{
		productWithPrices("b", [2]float64{20, 0}),
		productWithPrices("a", [2]float64{10, 0}),
	}
	sortByPrice(products, "")
	assert.Equal(t, "b", products[0].Slug)
	assert.Equal(t, "a", products[1].Slug)
}
