package catalog

import (
	"slices"
	"strings"

	"github.com/jcmexdev/storefront/internal/pkg/randx"
	"github.com/jcmexdev/storefront/internal/storefront/core/domain/entity"
)

var (
	menCategories   = []string{"mens-shoes", "mens-watches", "mens-shirts", "mens-bags"}
	womenCategories = []string{"womens-shoes", "womens-watches", "womens-dresses", "womens-bags"}

	numericSizes = []string{"6", "7", "8", "9", "10", "11", "12"}
	apparelSizes = []string{"XS", "S", "M", "L", "XL", "XXL"}
	oneSize      = []string{"One Size"}

	palette = []string{"black", "white", "red", "blue", "green", "yellow", "pink", "purple"}
)

// Normalizer maps raw catalog records to products. The random source only
// decides how many palette colors a product gets.
type Normalizer struct {
	rnd randx.Source
}

func NewNormalizer(rnd randx.Source) *Normalizer {
	return &Normalizer{rnd: rnd}
}

func (n *Normalizer) Product(raw entity.RawProduct) entity.Product {
	brand := raw.Brand
	if brand == "" {
		brand = "Unknown"
	}
	var image string
	if len(raw.Images) > 0 {
		image = raw.Images[0]
	}

	return entity.Product{
		ID:                 raw.ID,
		Name:               raw.Title,
		Brand:              brand,
		Price:              raw.Price,
		Gender:             Gender(raw.Category),
		Category:           raw.Category,
		Image:              image,
		Description:        raw.Description,
		Sizes:              Sizes(raw.Category),
		Colors:             n.Colors(),
		InStock:            raw.Stock > 0,
		Stock:              raw.Stock,
		Rating:             raw.Rating,
		DiscountPercentage: raw.DiscountPercentage,
		Thumbnail:          raw.Thumbnail,
	}
}

func (n *Normalizer) Products(raws []entity.RawProduct) []entity.Product {
	out := make([]entity.Product, len(raws))
	for i, raw := range raws {
		out[i] = n.Product(raw)
	}
	return out
}

// Colors returns the first 2 to 5 palette colors.
func (n *Normalizer) Colors() []string {
	count := n.rnd.IntN(4) + 2
	return slices.Clone(palette[:count])
}

func Gender(category string) string {
	switch {
	case slices.Contains(menCategories, category):
		return entity.GenderMen
	case slices.Contains(womenCategories, category):
		return entity.GenderWomen
	default:
		return entity.GenderUnisex
	}
}

func Sizes(category string) []string {
	switch {
	case strings.Contains(category, "shoes"), strings.Contains(category, "watches"):
		return slices.Clone(numericSizes)
	case strings.Contains(category, "shirts"), strings.Contains(category, "dresses"):
		return slices.Clone(apparelSizes)
	default:
		return slices.Clone(oneSize)
	}
}
