// Package catalog evaluates storefront queries over an in-memory product list.
package catalog

import (
	"sort"
	"strings"

	"github.com/iselbouch1/bouchauto-showcase/internal/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

const (
	DefaultPage    = 1
	DefaultPerPage = 12
	MaxPerPage     = 100
)

// Query filters, sorts and paginates products. It never fails: no match is an empty page.
func Query(products []models.Product, filters models.FilterParams) models.PaginatedResponse[models.Product] {
	return Paginate(ApplyFilters(products, filters), filters.Page, filters.PerPage)
}

// ApplyFilters returns the products matching every set predicate, in the requested order.
// The input slice is left untouched.
func ApplyFilters(products []models.Product, filters models.FilterParams) []models.Product {
	fold := cases.Fold()
	search := fold.String(filters.Search)

	filtered := make([]models.Product, 0, len(products))
	for _, p := range products {
		if matches(p, filters, search, fold) {
			filtered = append(filtered, p)
		}
	}

	Sort(filtered, filters.SortBy)
	return filtered
}

func matches(p models.Product, f models.FilterParams, search string, fold cases.Caser) bool {
	if f.Visible != nil && p.IsVisible != *f.Visible {
		return false
	}
	if f.Featured != nil && p.IsFeatured != *f.Featured {
		return false
	}
	if search != "" && !matchesSearch(p, search, fold) {
		return false
	}
	if f.Category != "" && !p.InCategory(f.Category) {
		return false
	}
	if len(f.Tags) > 0 && !hasAnyTag(p, f.Tags) {
		return false
	}
	return true
}

func matchesSearch(p models.Product, search string, fold cases.Caser) bool {
	if strings.Contains(fold.String(p.Name), search) {
		return true
	}
	if strings.Contains(fold.String(p.ShortDescription), search) {
		return true
	}
	for _, t := range p.Tags {
		if strings.Contains(fold.String(t), search) {
			return true
		}
	}
	return false
}

func hasAnyTag(p models.Product, tags []string) bool {
	for _, tag := range tags {
		if p.HasTag(tag) {
			return true
		}
	}
	return false
}

// Sort orders products in place. Every ordering is stable so ties keep catalog order.
func Sort(products []models.Product, by models.SortBy) {
	switch by {
	case models.SortName:
		c := collate.New(language.French)
		sort.SliceStable(products, func(i, j int) bool {
			return c.CompareString(products[i].Name, products[j].Name) < 0
		})
	case models.SortNewest:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].SortOrder > products[j].SortOrder
		})
	case models.SortFeatured:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].IsFeatured && !products[j].IsFeatured
		})
	}
}

// Paginate cuts one page out of items. page < 1 is treated as the first page, perPage < 1
// falls back to DefaultPerPage and perPage is capped at MaxPerPage.
func Paginate[T any](items []T, page, perPage int) models.PaginatedResponse[T] {
	page, perPage = NormalizePage(page, perPage)

	total := len(items)
	start := clamp((page-1)*perPage, 0, total)
	end := clamp(start+perPage, start, total)

	data := make([]T, end-start)
	copy(data, items[start:end])

	return models.PaginatedResponse[T]{
		Data:       data,
		Total:      total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: (total + perPage - 1) / perPage,
	}
}

// NormalizePage applies the pagination bounds used by every repository.
func NormalizePage(page, perPage int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	return page, perPage
}

// Offset is the number of items preceding the page.
func Offset(page, perPage int) int {
	page, perPage = NormalizePage(page, perPage)
	return (page - 1) * perPage
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
