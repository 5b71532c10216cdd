package models

// SortBy enumerates the catalog orderings offered by the storefront.
type SortBy string

const (
	SortNone     SortBy = ""
	SortName     SortBy = "name"
	SortNewest   SortBy = "newest"
	SortFeatured SortBy = "featured"
)

// Valid reports whether s is one of the known orderings.
func (s SortBy) Valid() bool {
	switch s {
	case SortNone, SortName, SortNewest, SortFeatured:
		return true
	}
	return false
}

// FilterParams configures a catalog query. Nil pointers and zero values mean "not set".
type FilterParams struct {
	Search   string   `json:"search,omitempty"`
	Category string   `json:"category,omitempty"`
	Tags     []string `json:"tags,omitempty"`
	Visible  *bool    `json:"visible,omitempty"`
	Featured *bool    `json:"featured,omitempty"`
	Page     int      `json:"page,omitempty"`
	PerPage  int      `json:"perPage,omitempty"`
	SortBy   SortBy   `json:"sortBy,omitempty"`
}

// PaginatedResponse is a single page of a filtered result set.
type PaginatedResponse[T any] struct {
	Data       []T `json:"data"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	PerPage    int `json:"perPage"`
	TotalPages int `json:"totalPages"`
}

// TagFacet is a tag offered in the filter sidebar along with how many products carry it.
type TagFacet struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Count int    `json:"count"`
}

// BoolPtr is a helper for building FilterParams literals.
func BoolPtr(b bool) *bool {
	return &b
}
