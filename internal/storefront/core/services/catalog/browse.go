package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/jcmexdev/storefront/internal/storefront/core/domain/entity"
)

// browseWindow is how many products Browse and ByGender filter over.
const browseWindow = 100

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

type Filter struct {
	Category string
	Brand    string
	MinPrice *float64
	MaxPrice *float64
}

type Page struct {
	CurrentPage     int `json:"currentPage"`
	TotalPages      int `json:"totalPages"`
	TotalProducts   int `json:"totalProducts"`
	ProductsPerPage int `json:"productsPerPage"`
}

// Pagination normalizes page and limit and returns the matching skip.
func Pagination(page, limit int) (int, int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	return page, limit, (page - 1) * limit
}

// NewPage describes page of a result set with total entries.
func NewPage(page, limit, total int) Page {
	return Page{
		CurrentPage:     page,
		TotalPages:      (total + limit - 1) / limit,
		TotalProducts:   total,
		ProductsPerPage: limit,
	}
}

// Browse filters the first catalog window and returns the requested page.
func (g *Gateway) Browse(ctx context.Context, f Filter, page, limit int) ([]entity.Product, Page, error) {
	all, err := g.FetchAll(ctx, browseWindow, 0)
	if err != nil {
		return nil, Page{}, err
	}

	filtered := make([]entity.Product, 0, len(all))
	for _, p := range all {
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		if f.Brand != "" && !strings.EqualFold(p.Brand, f.Brand) {
			continue
		}
		if f.MinPrice != nil && p.Price < *f.MinPrice {
			continue
		}
		if f.MaxPrice != nil && p.Price > *f.MaxPrice {
			continue
		}
		filtered = append(filtered, p)
	}

	page, limit, _ = Pagination(page, limit)
	return paginate(filtered, page, limit), NewPage(page, limit, len(filtered)), nil
}

// ByGender returns products tagged with gender plus unisex products.
func (g *Gateway) ByGender(ctx context.Context, gender string, page, limit int) ([]entity.Product, Page, error) {
	switch gender {
	case entity.GenderMen, entity.GenderWomen, entity.GenderUnisex:
	default:
		return nil, Page{}, fmt.Errorf("%w: invalid gender parameter, must be men, women, or unisex", entity.ErrValidation)
	}

	all, err := g.FetchAll(ctx, browseWindow, 0)
	if err != nil {
		return nil, Page{}, err
	}

	filtered := make([]entity.Product, 0, len(all))
	for _, p := range all {
		if p.Gender == gender || p.Gender == entity.GenderUnisex {
			filtered = append(filtered, p)
		}
	}

	page, limit, _ = Pagination(page, limit)
	return paginate(filtered, page, limit), NewPage(page, limit, len(filtered)), nil
}

func paginate(products []entity.Product, page, limit int) []entity.Product {
	start := (page - 1) * limit
	if start >= len(products) {
		return []entity.Product{}
	}
	end := min(start+limit, len(products))
	return products[start:end]
}
