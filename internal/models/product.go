package models

import (
	"maps"
	"slices"
	"time"
)

// ProductImage is one picture of a product gallery.
type ProductImage struct {
	URL     string `json:"url" yaml:"url"`
	Alt     string `json:"alt,omitempty" yaml:"alt"`
	IsCover bool   `json:"isCover,omitempty" yaml:"isCover"`
}

// Product represents a catalog entry of the storefront.
type Product struct {
	ID                string               `json:"id" yaml:"id"`
	Name              string               `json:"name" yaml:"name"`
	Slug              string               `json:"slug" yaml:"slug"`
	ShortDescription  string               `json:"shortDescription,omitempty" yaml:"shortDescription"`
	Description       string               `json:"description,omitempty" yaml:"description"`
	CategoryIDs       []string             `json:"categoryIds" yaml:"categoryIds"`
	Tags              []string             `json:"tags,omitempty" yaml:"tags"`
	IsVisible         bool                 `json:"isVisible" yaml:"isVisible"`
	IsFeatured        bool                 `json:"isFeatured,omitempty" yaml:"isFeatured"`
	IsNew             bool                 `json:"isNew,omitempty" yaml:"isNew"`
	SortOrder         int                  `json:"sortOrder,omitempty" yaml:"sortOrder"`
	Images            []ProductImage       `json:"images" yaml:"images"`
	Specs             map[string]SpecValue `json:"specs,omitempty" yaml:"specs"`
	RelatedProductIDs []string             `json:"relatedProductIds,omitempty" yaml:"relatedProductIds"`
	CreatedAt         time.Time            `json:"createdAt,omitzero" yaml:"-"`
	UpdatedAt         time.Time            `json:"updatedAt,omitzero" yaml:"-"`
}

// Clone returns a copy that shares no slices or maps with p.
func (p Product) Clone() Product {
	p.CategoryIDs = slices.Clone(p.CategoryIDs)
	p.Tags = slices.Clone(p.Tags)
	p.Images = slices.Clone(p.Images)
	p.Specs = maps.Clone(p.Specs)
	p.RelatedProductIDs = slices.Clone(p.RelatedProductIDs)
	return p
}

// HasTag reports whether the product carries exactly the given tag.
func (p Product) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// InCategory reports whether the product belongs to the category id.
func (p Product) InCategory(categoryID string) bool {
	for _, id := range p.CategoryIDs {
		if id == categoryID {
			return true
		}
	}
	return false
}

// CoverImage returns the image flagged as cover, or the first one.
func (p Product) CoverImage() (ProductImage, bool) {
	for _, img := range p.Images {
		if img.IsCover {
			return img, true
		}
	}
	if len(p.Images) > 0 {
		return p.Images[0], true
	}
	return ProductImage{}, false
}
