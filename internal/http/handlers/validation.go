package handlers

import (
	"regexp"
	"strings"
)

type ProductValidationError struct {
	Field       string `json:"field"`
	Description string `json:"description"`
}

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// reservedProductSlugs collide with static routes under /api/v1/products.
var reservedProductSlugs = map[string]bool{"tags": true}

func validateProduct(p ProductRequest) []ProductValidationError {
	errs := []ProductValidationError{}
	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, ProductValidationError{Field: "Name", Description: "Name is required"})
	}
	if p.Slug != "" && !slugPattern.MatchString(p.Slug) {
		errs = append(errs, ProductValidationError{Field: "Slug", Description: "Slug must contain lowercase letters, digits and dashes"})
	} else if reservedProductSlugs[p.Slug] {
		errs = append(errs, ProductValidationError{Field: "Slug", Description: "Slug is reserved"})
	}
	if len(p.CategoryIDs) == 0 {
		errs = append(errs, ProductValidationError{Field: "CategoryIds", Description: "At least one category is required"})
	}
	for _, tag := range p.Tags {
		if strings.TrimSpace(tag) == "" {
			errs = append(errs, ProductValidationError{Field: "Tags", Description: "Tags cannot be empty"})
			break
		}
	}
	for _, img := range p.Images {
		if strings.TrimSpace(img.URL) == "" {
			errs = append(errs, ProductValidationError{Field: "Images", Description: "Image URL is required"})
			break
		}
	}
	if p.SortOrder < 0 {
		errs = append(errs, ProductValidationError{Field: "SortOrder", Description: "Sort order cannot be negative"})
	}
	return errs
}

func validateCategory(c CategoryRequest) []ProductValidationError {
	errs := []ProductValidationError{}
	if strings.TrimSpace(c.Name) == "" {
		errs = append(errs, ProductValidationError{Field: "Name", Description: "Name is required"})
	}
	if c.Slug != "" && !slugPattern.MatchString(c.Slug) {
		errs = append(errs, ProductValidationError{Field: "Slug", Description: "Slug must contain lowercase letters, digits and dashes"})
	}
	return errs
}
