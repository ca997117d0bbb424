package catalog

import (
	"math"
	"sort"

	"catalog-service/internal/model"
)

// SortOrder selects the price ordering of a catalog query. The empty value
// leaves ordering to the datastore.
type SortOrder string

const (
	SortPriceLowToHigh SortOrder = "price-low-to-high"
	SortPriceHighToLow SortOrder = "price-high-to-low"
)

// minEffectivePrice is the cheapest discounted price across all variant/size
// combinations of a product. A product with no sizes sorts last.
func minEffectivePrice(p model.Product) float64 {
	min := math.Inf(1)
	for _, v := range p.Variants {
		for _, s := range v.Sizes {
			if price := s.EffectivePrice(); price < min {
				min = price
			}
		}
	}
	return min
}

// sortByPrice reorders the fetched page in memory. The sort key is derived
// (discount-adjusted), so it cannot be pushed into the query; ordering holds
// only within the page window, not globally. Stable, so ties keep fetch order.
func sortByPrice(products []model.Product, order SortOrder) {
	switch order {
	case SortPriceLowToHigh:
		sort.SliceStable(products, func(i, j int) bool {
			return minEffectivePrice(products[i]) < minEffectivePrice(products[j])
		})
	case SortPriceHighToLow:
		sort.SliceStable(products, func(i, j int) bool {
			return minEffectivePrice(products[i]) > minEffectivePrice(products[j])
		})
	}
}
