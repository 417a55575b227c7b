package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jcmexdev/storefront/internal/pkg/randx"
	"github.com/jcmexdev/storefront/internal/storefront/core/domain/entity"
)

type fixedRand struct{ n int }

func (r fixedRand) IntN(n int) int   { return r.n % n }
func (r fixedRand) Float64() float64 { return 0 }

func TestGender(t *testing.T) {
	cases := map[string]string{
		"mens-shoes":     entity.GenderMen,
		"mens-bags":      entity.GenderMen,
		"womens-dresses": entity.GenderWomen,
		"womens-watches": entity.GenderWomen,
		"smartphones":    entity.GenderUnisex,
		"sports-shoes":   entity.GenderUnisex,
	}
	for category, want := range cases {
		assert.Equal(t, want, Gender(category), category)
	}
}

func TestSizes(t *testing.T) {
	assert.Equal(t, []string{"6", "7", "8", "9", "10", "11", "12"}, Sizes("mens-shoes"))
	assert.Equal(t, []string{"6", "7", "8", "9", "10", "11", "12"}, Sizes("womens-watches"))
	assert.Equal(t, []string{"XS", "S", "M", "L", "XL", "XXL"}, Sizes("mens-shirts"))
	assert.Equal(t, []string{"XS", "S", "M", "L", "XL", "XXL"}, Sizes("womens-dresses"))
	assert.Equal(t, []string{"One Size"}, Sizes("fragrances"))
}

func TestColors_LengthFollowsSource(t *testing.T) {
	assert.Equal(t, []string{"black", "white"}, NewNormalizer(fixedRand{n: 0}).Colors())
	assert.Equal(t, []string{"black", "white", "red", "blue", "green"}, NewNormalizer(fixedRand{n: 3}).Colors())
}

func TestColors_SeededIsReproducibleAndBounded(t *testing.T) {
	a := NewNormalizer(randx.New(99))
	b := NewNormalizer(randx.New(99))
	for i := 0; i < 50; i++ {
		ca, cb := a.Colors(), b.Colors()
		assert.Equal(t, ca, cb)
		assert.GreaterOrEqual(t, len(ca), 2)
		assert.LessOrEqual(t, len(ca), 5)
		assert.Equal(t, palette[:len(ca)], ca)
	}
}

func TestNormalizer_Product(t *testing.T) {
	n := NewNormalizer(fixedRand{n: 1})
	p := n.Product(entity.RawProduct{
		ID:        7,
		Title:     "Runner",
		Category:  "mens-shoes",
		Price:     59.99,
		Stock:     0,
		Images:    []string{"a.png", "b.png"},
		Thumbnail: "t.png",
	})

	assert.Equal(t, int64(7), p.ID)
	assert.Equal(t, "Runner", p.Name)
	assert.Equal(t, "Unknown", p.Brand)
	assert.Equal(t, entity.GenderMen, p.Gender)
	assert.Equal(t, "a.png", p.Image)
	assert.False(t, p.InStock)
	assert.Len(t, p.Colors, 3)
	assert.Nil(t, p.Images, "list entries carry only the first image")
}
