package catalog

import (
	"fmt"

	"catalog-service/internal/model"
)

// VariantSummary is the card-level view of one variant
type VariantSummary struct {
	VariantID   uint                 `json:"variant_id"`
	VariantSlug string               `json:"variant_slug"`
	VariantName string               `json:"variant_name"`
	Images      []model.ProductImage `json:"images"`
	Sizes       []model.Size         `json:"sizes"`
}

// VariantImage is the representative image of a variant with its page URL
type VariantImage struct {
	URL   string `json:"url"`
	Image string `json:"image"`
}

// ProductCard is the projected card shape returned by catalog queries
type ProductCard struct {
	ID            uint             `json:"id"`
	Slug          string           `json:"slug"`
	Name          string           `json:"name"`
	Rating        float64          `json:"rating"`
	Sales         int64            `json:"sales"`
	Variants      []VariantSummary `json:"variants"`
	VariantImages []VariantImage   `json:"variant_images"`
}

// projectCard flattens a product with its preloaded variants into a card.
// The representative image of a variant is its explicit variant image when
// set, else the first image of its ordered gallery.
func projectCard(p model.Product) (ProductCard, error) {
	card := ProductCard{
		ID:     p.ID,
		Slug:   p.Slug,
		Name:   p.Name,
		Rating: p.Rating,
		Sales:  p.Sales,
	}

	for _, v := range p.Variants {
		card.Variants = append(card.Variants, VariantSummary{
			VariantID:   v.ID,
			VariantSlug: v.Slug,
			VariantName: v.VariantName,
			Images:      v.Images,
			Sizes:       v.Sizes,
		})

		image := v.VariantImage
		if image == "" {
			if len(v.Images) == 0 {
				return ProductCard{}, fmt.Errorf("variant %q: %w", v.Slug, ErrVariantWithoutImage)
			}
			image = v.Images[0].URL
		}
		card.VariantImages = append(card.VariantImages, VariantImage{
			URL:   fmt.Sprintf("/product/%s/%s", p.Slug, v.Slug),
			Image: image,
		})
	}

	return card, nil
}
