package entity

// Gender tags derived from the catalog category.
const (
	GenderMen    = "men"
	GenderWomen  = "women"
	GenderUnisex = "unisex"
)

// Product is the normalized catalog entry. It is rebuilt from the external
// catalog on every cache miss and never persisted locally.
type Product struct {
	ID                 int64    `json:"id"`
	Name               string   `json:"name"`
	Brand              string   `json:"brand"`
	Price              float64  `json:"price"`
	Gender             string   `json:"gender"`
	Category           string   `json:"category"`
	Image              string   `json:"image,omitempty"`
	Images             []string `json:"images,omitempty"`
	Description        string   `json:"description"`
	Sizes              []string `json:"sizes"`
	Colors             []string `json:"colors"`
	InStock            bool     `json:"inStock"`
	Stock              int      `json:"stock"`
	Rating             float64  `json:"rating"`
	DiscountPercentage float64  `json:"discountPercentage"`
	Thumbnail          string   `json:"thumbnail,omitempty"`
}

// Category is a catalog category as listed by the external API.
type Category struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

// RawProduct is a catalog record exactly as the external API returns it.
type RawProduct struct {
	ID                 int64    `json:"id"`
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	Category           string   `json:"category"`
	Price              float64  `json:"price"`
	DiscountPercentage float64  `json:"discountPercentage"`
	Rating             float64  `json:"rating"`
	Stock              int      `json:"stock"`
	Brand              string   `json:"brand"`
	Thumbnail          string   `json:"thumbnail"`
	Images             []string `json:"images"`
}
