package handlers

import "github.com/iselbouch1/bouchauto-showcase/internal/models"

type CategoryRequest struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	Slug        string `json:"slug,omitempty"`
	Description string `json:"description,omitempty"`
	ParentID    string `json:"parentId,omitempty"`
	Image       string `json:"image,omitempty"`
	SortOrder   *int   `json:"sortOrder,omitempty"`
}

type ProductRequest struct {
	ID                string                      `json:"id,omitempty"`
	Name              string                      `json:"name"`
	Slug              string                      `json:"slug,omitempty"`
	ShortDescription  string                      `json:"shortDescription,omitempty"`
	Description       string                      `json:"description,omitempty"`
	CategoryIDs       []string                    `json:"categoryIds"`
	Tags              []string                    `json:"tags,omitempty"`
	IsVisible         bool                        `json:"isVisible"`
	IsFeatured        bool                        `json:"isFeatured,omitempty"`
	IsNew             bool                        `json:"isNew,omitempty"`
	SortOrder         int                         `json:"sortOrder,omitempty"`
	Images            []models.ProductImage       `json:"images,omitempty"`
	Specs             map[string]models.SpecValue `json:"specs,omitempty"`
	RelatedProductIDs []string                    `json:"relatedProductIds,omitempty"`
}

func (req ProductRequest) toProduct() models.Product {
	return models.Product{
		ID:                req.ID,
		Name:              req.Name,
		Slug:              req.Slug,
		ShortDescription:  req.ShortDescription,
		Description:       req.Description,
		CategoryIDs:       nonNil(req.CategoryIDs),
		Tags:              nonNil(req.Tags),
		IsVisible:         req.IsVisible,
		IsFeatured:        req.IsFeatured,
		IsNew:             req.IsNew,
		SortOrder:         req.SortOrder,
		Images:            nonNilImages(req.Images),
		Specs:             req.Specs,
		RelatedProductIDs: req.RelatedProductIDs,
	}
}

func (req CategoryRequest) toCategory() models.Category {
	return models.Category{
		ID:          req.ID,
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		ParentID:    req.ParentID,
		Image:       req.Image,
		SortOrder:   req.SortOrder,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nonNilImages(s []models.ProductImage) []models.ProductImage {
	if s == nil {
		return []models.ProductImage{}
	}
	return s
}

type UserLogin struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResult struct {
	Token string `json:"token"`
}

type ImportProductsResult struct {
	ImportedProductsCount int                      `json:"imported"`
	UpdatedProductsCount  int                      `json:"updated"`
	Errors                []ProductValidationError `json:"errors"`
}
