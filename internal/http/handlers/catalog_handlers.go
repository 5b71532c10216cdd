package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/iselbouch1/bouchauto-showcase/internal/filterparams"
	"github.com/iselbouch1/bouchauto-showcase/internal/models"
	"github.com/iselbouch1/bouchauto-showcase/internal/repo"
)

const (
	defaultRelatedLimit = 4
	maxRelatedLimit     = 24
)

// GetCategoriesHandler godoc
// @Summary List categories
// @Description Categories ordered by sort order then name
// @Tags catalog
// @Produce json
// @Success 200 {array} models.Category
// @Failure 500 {string} string "Internal error"
// @Router /api/v1/categories [get]
func GetCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	categories, err := catalogRepo.GetCategories(r.Context())
	if err != nil {
		repoError(w, r, err, "could not fetch categories")
		return
	}
	respond(w, r, http.StatusOK, categories)
}

// GetCategoryBySlugHandler godoc
// @Summary Get category by slug
// @Tags catalog
// @Produce json
// @Param slug path string true "Category slug"
// @Success 200 {object} models.Category
// @Failure 404 {string} string "Not found"
// @Failure 500 {string} string "Internal error"
// @Router /api/v1/categories/{slug} [get]
func GetCategoryBySlugHandler(w http.ResponseWriter, r *http.Request) {
	category, err := catalogRepo.GetCategoryBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		repoError(w, r, err, "could not fetch category")
		return
	}
	respond(w, r, http.StatusOK, category)
}

// GetProductsHandler godoc
// @Summary Search products
// @Description Filters, sorts and paginates the catalog
// @Tags catalog
// @Produce json
// @Param search query string false "Case-insensitive text in name, short description or tags"
// @Param category query string false "Category slug or id"
// @Param tags[] query []string false "Any of these tags" collectionFormat(multi)
// @Param visible query string false "1 or 0"
// @Param featured query string false "1 or 0"
// @Param page query int false "Page number, starting at 1"
// @Param per_page query int false "Page size (default 12, max 100)"
// @Param sort_by query string false "name, newest or featured"
// @Success 200 {object} models.PaginatedResponse[models.Product]
// @Failure 400 {string} string "Invalid parameter"
// @Failure 500 {string} string "Internal error"
// @Router /api/v1/products [get]
func GetProductsHandler(w http.ResponseWriter, r *http.Request) {
	filters, err := filterparams.Decode(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	page, err := catalogRepo.GetProducts(r.Context(), filters)
	if err != nil {
		repoError(w, r, err, "could not fetch products")
		return
	}
	respond(w, r, http.StatusOK, page)
}

// GetProductTagsHandler godoc
// @Summary Tag facets
// @Description Distinct tags with product counts over every product matching the filters
// @Tags catalog
// @Produce json
// @Param search query string false "Search text"
// @Param category query string false "Category slug or id"
// @Param visible query string false "1 or 0"
// @Success 200 {array} models.TagFacet
// @Failure 400 {string} string "Invalid parameter"
// @Failure 500 {string} string "Internal error"
// @Router /api/v1/products/tags [get]
func GetProductTagsHandler(w http.ResponseWriter, r *http.Request) {
	filters, err := filterparams.Decode(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	facets, err := catalogRepo.GetTagFacets(r.Context(), filters)
	if err != nil {
		repoError(w, r, err, "could not fetch tags")
		return
	}
	respond(w, r, http.StatusOK, facets)
}

// GetProductBySlugHandler godoc
// @Summary Get product by slug
// @Tags catalog
// @Produce json
// @Param slug path string true "Product slug"
// @Success 200 {object} models.Product
// @Failure 404 {string} string "Not found"
// @Failure 500 {string} string "Internal error"
// @Router /api/v1/products/{slug} [get]
func GetProductBySlugHandler(w http.ResponseWriter, r *http.Request) {
	product, err := catalogRepo.GetProductBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		repoError(w, r, err, "could not fetch product")
		return
	}
	respond(w, r, http.StatusOK, product)
}

// GetRelatedProductsHandler godoc
// @Summary Related products
// @Description Visible products linked to or sharing a category with the product
// @Tags catalog
// @Produce json
// @Param id path string true "Product ID"
// @Param limit query int false "Maximum number of products (default 4, max 24)"
// @Success 200 {array} models.Product
// @Failure 400 {string} string "Invalid limit"
// @Failure 500 {string} string "Internal error"
// @Router /api/v1/products/{id}/related [get]
func GetRelatedProductsHandler(w http.ResponseWriter, r *http.Request) {
	limit := defaultRelatedLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = min(n, maxRelatedLimit)
	}

	related, err := catalogRepo.GetRelatedProducts(r.Context(), chi.URLParam(r, "id"), limit)
	if errors.Is(err, repo.ErrNotFound) {
		related, err = []models.Product{}, nil
	}
	if err != nil {
		repoError(w, r, err, "could not fetch related products")
		return
	}
	respond(w, r, http.StatusOK, related)
}
