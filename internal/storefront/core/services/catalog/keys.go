package catalog

import "fmt"

// Cache keys. The format is relied on when inspecting a shared Redis cache.
const categoriesKey = "categories"

func allProductsKey(limit, skip int) string {
	return fmt.Sprintf("all_products_%d_%d", limit, skip)
}

func categoryKey(category string, limit, skip int) string {
	return fmt.Sprintf("category_%s_%d_%d", category, limit, skip)
}

func productKey(id string) string {
	return "product_" + id
}

func searchKey(query string, limit, skip int) string {
	return fmt.Sprintf("search_%s_%d_%d", query, limit, skip)
}
