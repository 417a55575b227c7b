package httpx

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/jcmexdev/storefront/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/storefront/internal/storefront/core/services/catalog"
)

// ListProducts serves the filtered, paginated product listing.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, limit, err := pageParams(q)
	if err != nil {
		handleError(w, r, err)
		return
	}

	filter := catalog.Filter{
		Category: q.Get("category"),
		Brand:    q.Get("brand"),
	}
	if filter.MinPrice, err = floatParam(q, "minPrice"); err != nil {
		handleError(w, r, err)
		return
	}
	if filter.MaxPrice, err = floatParam(q, "maxPrice"); err != nil {
		handleError(w, r, err)
		return
	}

	products, pg, err := h.catalog.Browse(r.Context(), filter, page, limit)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "Products retrieved successfully", map[string]any{
		"products":   products,
		"pagination": pg,
	})
}

func (h *Handler) ProductsByCategory(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	page, limit, err := pageParams(r.URL.Query())
	if err != nil {
		handleError(w, r, err)
		return
	}
	page, limit, skip := catalog.Pagination(page, limit)

	products, err := h.catalog.FetchByCategory(r.Context(), category, limit, skip)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, category+" products retrieved successfully", map[string]any{
		"category":   category,
		"products":   products,
		"pagination": catalog.NewPage(page, limit, len(products)),
	})
}

func (h *Handler) ProductsByGender(w http.ResponseWriter, r *http.Request) {
	gender := chi.URLParam(r, "gender")
	page, limit, err := pageParams(r.URL.Query())
	if err != nil {
		handleError(w, r, err)
		return
	}

	products, pg, err := h.catalog.ByGender(r.Context(), gender, page, limit)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, gender+" products retrieved successfully", map[string]any{
		"gender":     gender,
		"products":   products,
		"pagination": pg,
	})
}

func (h *Handler) SearchProducts(w http.ResponseWriter, r *http.Request) {
	query := chi.URLParam(r, "query")
	page, limit, err := pageParams(r.URL.Query())
	if err != nil {
		handleError(w, r, err)
		return
	}
	page, limit, skip := catalog.Pagination(page, limit)

	products, err := h.catalog.Search(r.Context(), query, limit, skip)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "Search completed successfully", map[string]any{
		"query":      query,
		"products":   products,
		"pagination": catalog.NewPage(page, limit, len(products)),
	})
}

func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.FetchCategories(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "Categories retrieved successfully", map[string]any{
		"categories": categories,
	})
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.catalog.FetchByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "Product retrieved successfully", map[string]any{
		"product": product,
	})
}

// pageParams reads page and limit; absent values are 0 and get defaulted
// by the catalog.
func pageParams(q url.Values) (int, int, error) {
	page, err := intParam(q, "page")
	if err != nil {
		return 0, 0, err
	}
	limit, err := intParam(q, "limit")
	if err != nil {
		return 0, 0, err
	}
	return page, limit, nil
}

func intParam(q url.Values, name string) (int, error) {
	v := q.Get(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", entity.ErrValidation, name)
	}
	return n, nil
}

func floatParam(q url.Values, name string) (*float64, error) {
	v := q.Get(name)
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be a number", entity.ErrValidation, name)
	}
	return &f, nil
}
