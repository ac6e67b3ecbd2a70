// Package catalog holds the product shapes returned by the storefront API and
// snapshotted into client-local state.
package catalog

import "strings"

// Product mirrors the /api/products payload.
type Product struct {
	ID            int      `json:"id"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Price         float64  `json:"price"`
	Discount      float64  `json:"discount"`
	Images        []string `json:"images"`
	Colors        []string `json:"colors"`
	StockQuantity int      `json:"stock_quantity"`
	CategoryName  string   `json:"category_name"`
}

// EffectivePrice applies the percentage discount to the list price.
func (p Product) EffectivePrice() float64 {
	if p.Discount <= 0 {
		return p.Price
	}
	return p.Price * (1 - p.Discount/100)
}

// MatchesQuery reports a case-insensitive substring match on name, category
// name, or description. Matched or not; no ranking.
func (p Product) MatchesQuery(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return false
	}
	return strings.Contains(strings.ToLower(p.Name), q) ||
		strings.Contains(strings.ToLower(p.CategoryName), q) ||
		strings.Contains(strings.ToLower(p.Description), q)
}

// Category mirrors the /api/categories payload.
type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Color mirrors the /api/colors payload.
type Color struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Hex  string `json:"hex"`
}
