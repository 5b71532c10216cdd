package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/iselbouch1/bouchauto-showcase/internal/catalog"
	"go.uber.org/zap"
)

// CreateCategoryHandler godoc
// @Summary Create a category
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param category body CategoryRequest true "Category to add"
// @Success 201 {object} models.Category
// @Failure 400 {object} []ProductValidationError
// @Failure 409 {string} string "Slug already used"
// @Failure 501 {string} string "Read-only catalog"
// @Router /api/v1/admin/categories [post]
func CreateCategoryHandler(w http.ResponseWriter, r *http.Request) {
	writer, err := catalogWriter()
	if err != nil {
		repoError(w, r, err, "could not create category")
		return
	}

	var req CategoryRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}
	if req.Slug == "" {
		req.Slug = catalog.Slugify(req.Name)
	}

	if validationErrors := validateCategory(req); len(validationErrors) > 0 {
		respond(w, r, http.StatusBadRequest, validationErrors)
		return
	}

	created, err := writer.CreateCategory(r.Context(), req.toCategory())
	if err != nil {
		repoError(w, r, err, "could not create category")
		return
	}
	logger.Info("category created", zap.String("id", created.ID), zap.String("slug", created.Slug))
	respond(w, r, http.StatusCreated, created)
}

// GetProductByIDHandler godoc
// @Summary Get product by ID, hidden ones included
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Success 200 {object} models.Product
// @Failure 404 {string} string "Not found"
// @Failure 501 {string} string "Read-only catalog"
// @Router /api/v1/admin/products/{id} [get]
func GetProductByIDHandler(w http.ResponseWriter, r *http.Request) {
	writer, err := catalogWriter()
	if err != nil {
		repoError(w, r, err, "could not fetch product")
		return
	}

	product, err := writer.GetProductByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		repoError(w, r, err, "could not fetch product")
		return
	}
	respond(w, r, http.StatusOK, product)
}

// CreateProductHandler godoc
// @Summary Create a product
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param product body ProductRequest true "Product to add"
// @Success 201 {object} models.Product
// @Failure 400 {object} []ProductValidationError
// @Failure 409 {string} string "Slug already used"
// @Failure 501 {string} string "Read-only catalog"
// @Router /api/v1/admin/products [post]
func CreateProductHandler(w http.ResponseWriter, r *http.Request) {
	writer, err := catalogWriter()
	if err != nil {
		repoError(w, r, err, "could not create product")
		return
	}

	var req ProductRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}
	if req.Slug == "" {
		req.Slug = catalog.Slugify(req.Name)
	}

	if validationErrors := validateProduct(req); len(validationErrors) > 0 {
		respond(w, r, http.StatusBadRequest, validationErrors)
		return
	}

	created, err := writer.CreateProduct(r.Context(), req.toProduct())
	if err != nil {
		repoError(w, r, err, "could not create product")
		return
	}
	logger.Info("product created", zap.String("id", created.ID), zap.String("slug", created.Slug))
	respond(w, r, http.StatusCreated, created)
}

// UpdateProductHandler godoc
// @Summary Update a product
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Param product body ProductRequest true "Updated product"
// @Success 200 {object} models.Product
// @Failure 400 {object} []ProductValidationError
// @Failure 404 {string} string "Not found"
// @Failure 409 {string} string "Slug already used"
// @Failure 501 {string} string "Read-only catalog"
// @Router /api/v1/admin/products/{id} [put]
func UpdateProductHandler(w http.ResponseWriter, r *http.Request) {
	writer, err := catalogWriter()
	if err != nil {
		repoError(w, r, err, "could not update product")
		return
	}

	var req ProductRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}
	req.ID = chi.URLParam(r, "id")
	if req.Slug == "" {
		req.Slug = catalog.Slugify(req.Name)
	}

	if validationErrors := validateProduct(req); len(validationErrors) > 0 {
		respond(w, r, http.StatusBadRequest, validationErrors)
		return
	}

	updated, err := writer.UpdateProduct(r.Context(), req.toProduct())
	if err != nil {
		repoError(w, r, err, "could not update product")
		return
	}
	logger.Info("product updated", zap.String("id", updated.ID))
	respond(w, r, http.StatusOK, updated)
}

// DeleteProductHandler godoc
// @Summary Delete a product
// @Tags admin
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Success 204 "Deleted successfully"
// @Failure 404 {string} string "Not found"
// @Failure 501 {string} string "Read-only catalog"
// @Router /api/v1/admin/products/{id} [delete]
func DeleteProductHandler(w http.ResponseWriter, r *http.Request) {
	writer, err := catalogWriter()
	if err != nil {
		repoError(w, r, err, "could not delete product")
		return
	}

	id := chi.URLParam(r, "id")
	if err := writer.DeleteProduct(r.Context(), id); err != nil {
		repoError(w, r, err, "could not delete product")
		return
	}
	logger.Info("product deleted", zap.String("id", id))
	w.WriteHeader(http.StatusNoContent)
}
