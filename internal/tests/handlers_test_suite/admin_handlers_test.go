package handlers_test_suite

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	api "github.com/iselbouch1/bouchauto-showcase/internal/http"
	handler "github.com/iselbouch1/bouchauto-showcase/internal/http/handlers"
	"github.com/iselbouch1/bouchauto-showcase/internal/models"
)

func validProduct() handler.ProductRequest {
	return handler.ProductRequest{
		Name:             "Désodorisant Pin des Landes",
		ShortDescription: "Parfum boisé longue durée.",
		CategoryIDs:      []string{"6"},
		Tags:             []string{"entretien"},
		IsVisible:        true,
		Images:           []models.ProductImage{{URL: "/images/desodorisant.jpg", IsCover: true}},
	}
}

func TestCreateProductHandler_Valid(t *testing.T) {
	t.Cleanup(resetCatalog)
	r := api.NewRouter()

	w := createProduct(r, validProduct())
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 Created, got %d: %s", w.Code, w.Body.String())
	}

	var created models.Product
	if err := json.NewDecoder(w.Body).Decode(&created); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	if created.ID == "" {
		t.Error("expected a generated id")
	}
	if created.Slug != "desodorisant-pin-des-landes" {
		t.Errorf("expected slug derived from name, got %q", created.Slug)
	}

	w = get(r, "/api/v1/products/desodorisant-pin-des-landes")
	if w.Code != http.StatusOK {
		t.Errorf("expected created product to be readable, got %d", w.Code)
	}
}

func TestCreateProductHandler_Invalid(t *testing.T) {
	t.Cleanup(resetCatalog)
	r := api.NewRouter()

	tests := []struct {
		name           string
		mutate         func(*handler.ProductRequest)
		expectedErrors []string
	}{
		{
			name:           "Empty name and categories",
			mutate:         func(p *handler.ProductRequest) { p.Name = ""; p.CategoryIDs = nil },
			expectedErrors: []string{"Name", "CategoryIds"},
		},
		{
			name:           "Invalid slug",
			mutate:         func(p *handler.ProductRequest) { p.Slug = "Pas Un Slug" },
			expectedErrors: []string{"Slug"},
		},
		{
			name:           "Reserved slug",
			mutate:         func(p *handler.ProductRequest) { p.Slug = "tags" },
			expectedErrors: []string{"Slug"},
		},
		{
			name:           "Name deriving a reserved slug",
			mutate:         func(p *handler.ProductRequest) { p.Name = "Tags"; p.Slug = "" },
			expectedErrors: []string{"Slug"},
		},
		{
			name:           "Image without url",
			mutate:         func(p *handler.ProductRequest) { p.Images = []models.ProductImage{{Alt: "vide"}} },
			expectedErrors: []string{"Images"},
		},
		{
			name:           "Negative sort order",
			mutate:         func(p *handler.ProductRequest) { p.SortOrder = -1 },
			expectedErrors: []string{"SortOrder"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := validProduct()
			tt.mutate(&payload)
			w := createProduct(r, payload)

			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected status 400, got %d", w.Code)
			}

			var resp []handler.ProductValidationError
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("error decoding response: %v", err)
			}

			for _, field := range tt.expectedErrors {
				found := false
				for _, err := range resp {
					if strings.EqualFold(err.Field, field) {
						found = true
						break
					}
				}
				if !found {
					t.Errorf("expected error for field %q, but not found", field)
				}
			}
		})
	}
}

func TestCreateProductHandler_DuplicatedSlug(t *testing.T) {
	t.Cleanup(resetCatalog)
	r := api.NewRouter()

	payload := validProduct()
	payload.Slug = "kit-ampoules-led-h7"
	w := createProduct(r, payload)
	if w.Code != http.StatusConflict {
		t.Errorf("expected 409 Conflict, got %d", w.Code)
	}
}

func TestCreateProductHandler_MalformedJSON(t *testing.T) {
	r := api.NewRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/products", bytes.NewBufferString(`{"name": "x",`))
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 Bad Request, got %d", w.Code)
	}
}

func TestAdminRoutes_RequireAdmin(t *testing.T) {
	r := api.NewRouter()

	tests := []struct {
		name         string
		token        string
		expectedCode int
	}{
		{name: "No token", token: "", expectedCode: http.StatusUnauthorized},
		{name: "Garbage token", token: "garbage", expectedCode: http.StatusUnauthorized},
		{name: "Non-admin user", token: userToken, expectedCode: http.StatusForbidden},
		{name: "Admin", token: token, expectedCode: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/metrics", nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.expectedCode {
				t.Errorf("expected status %d, got %d", tt.expectedCode, w.Code)
			}
		})
	}
}

func TestUpdateProductHandler(t *testing.T) {
	t.Cleanup(resetCatalog)
	r := api.NewRouter()

	payload := handler.ProductRequest{
		Name:        "Kit ampoules LED H7 Pro",
		Slug:        "kit-ampoules-led-h7",
		CategoryIDs: []string{"3"},
		Tags:        []string{"led", "premium"},
		IsVisible:   false,
	}
	w := sendJSON(r, http.MethodPut, "/api/v1/admin/products/107", payload)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d: %s", w.Code, w.Body.String())
	}

	var updated models.Product
	if err := json.NewDecoder(w.Body).Decode(&updated); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	if updated.ID != "107" || updated.Name != "Kit ampoules LED H7 Pro" || updated.IsVisible {
		t.Errorf("unexpected update result %+v", updated)
	}

	w = get(r, "/api/v1/products?visible=1&tags[]=led")
	resp, _ := decodeProducts(w)
	if resp.Total != 2 {
		t.Errorf("expected hidden product to leave visible listing, got total %d", resp.Total)
	}

	payload.Slug = "produit-introuvable"
	w = sendJSON(r, http.MethodPut, "/api/v1/admin/products/999", payload)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown product, got %d", w.Code)
	}

	payload.Slug = "rampe-led-toit"
	w = sendJSON(r, http.MethodPut, "/api/v1/admin/products/107", payload)
	if w.Code != http.StatusConflict {
		t.Errorf("expected 409 for slug owned by another product, got %d", w.Code)
	}
}

func TestGetProductByIDHandler_IncludesHidden(t *testing.T) {
	r := api.NewRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/products/106", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}
	var product models.Product
	json.NewDecoder(w.Body).Decode(&product)
	if product.Slug != "becquet-toit" || product.IsVisible {
		t.Errorf("unexpected product %+v", product)
	}
}

func TestDeleteProductHandler(t *testing.T) {
	t.Cleanup(resetCatalog)
	r := api.NewRouter()

	tests := []struct {
		name         string
		id           string
		expectedCode int
	}{
		{name: "Existing product", id: "114", expectedCode: http.StatusNoContent},
		{name: "Already deleted", id: "114", expectedCode: http.StatusNotFound},
		{name: "Unknown product", id: "abc", expectedCode: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodDelete, "/api/v1/admin/products/"+tt.id, nil)
			req.Header.Set("Authorization", "Bearer "+token)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.expectedCode {
				t.Errorf("expected status %d, got %d", tt.expectedCode, w.Code)
			}
		})
	}

	w := get(r, "/api/v1/products/kit-lustrage-carrosserie")
	if w.Code != http.StatusNotFound {
		t.Errorf("expected deleted product to be gone, got %d", w.Code)
	}
}

func TestCreateCategoryHandler(t *testing.T) {
	t.Cleanup(resetCatalog)
	r := api.NewRouter()

	order := 7
	w := sendJSON(r, http.MethodPost, "/api/v1/admin/categories", handler.CategoryRequest{Name: "Pièces détachées", SortOrder: &order})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 Created, got %d: %s", w.Code, w.Body.String())
	}
	var created models.Category
	json.NewDecoder(w.Body).Decode(&created)
	if created.Slug != "pieces-detachees" {
		t.Errorf("expected derived slug, got %q", created.Slug)
	}

	w = sendJSON(r, http.MethodPost, "/api/v1/admin/categories", handler.CategoryRequest{Name: "Autre", Slug: "interieur"})
	if w.Code != http.StatusConflict {
		t.Errorf("expected 409 Conflict, got %d", w.Code)
	}

	w = sendJSON(r, http.MethodPost, "/api/v1/admin/categories", handler.CategoryRequest{})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 Bad Request, got %d", w.Code)
	}
}
