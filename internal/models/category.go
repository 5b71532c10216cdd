package models

// Category groups products for browsing. Routing identifies a category by its slug.
type Category struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Slug        string `json:"slug" yaml:"slug"`
	Description string `json:"description,omitempty" yaml:"description"`
	ParentID    string `json:"parentId,omitempty" yaml:"parentId"`
	Image       string `json:"image,omitempty" yaml:"image"`
	SortOrder   *int   `json:"sortOrder,omitempty" yaml:"sortOrder"`
}
