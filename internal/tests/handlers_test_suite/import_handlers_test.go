package handlers_test_suite

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	api "github.com/iselbouch1/bouchauto-showcase/internal/http"
	handler "github.com/iselbouch1/bouchauto-showcase/internal/http/handlers"
)

func importCSV(r http.Handler, csvData, query string) *httptest.ResponseRecorder {
	buf, contentType := multipartCSV(csvData, "products.csv")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/products/import"+query, buf)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeImport(t *testing.T, w *httptest.ResponseRecorder) handler.ImportProductsResult {
	t.Helper()
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d: %s", w.Code, w.Body.String())
	}
	var resp handler.ImportProductsResult
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return resp
}

func TestImportProductsHandler(t *testing.T) {
	r := api.NewRouter()

	t.Run("File with unique valid products", func(t *testing.T) {
		t.Cleanup(resetCatalog)
		clearAllProducts()

		csvData := `name,category_ids,tags,is_visible,images
Raclette à givre,6,entretien|hiver,1,/images/raclette.jpg
Chargeur USB-C double,5|1,connecte,1,`

		resp := decodeImport(t, importCSV(r, csvData, ""))
		if resp.ImportedProductsCount != 2 {
			t.Errorf("expected 2 imported products, got %d", resp.ImportedProductsCount)
		}
		if len(resp.Errors) != 0 {
			t.Errorf("expected no errors, got %v", resp.Errors)
		}

		w := get(r, "/api/v1/products/raclette-a-givre")
		if w.Code != http.StatusOK {
			t.Fatalf("expected imported product to be readable, got %d", w.Code)
		}

		w = get(r, "/api/v1/products?tags[]=hiver")
		page, _ := decodeProducts(w)
		if page.Total != 1 || len(page.Data[0].Images) != 1 || !page.Data[0].Images[0].IsCover {
			t.Errorf("unexpected imported product %+v", page.Data)
		}
	})

	t.Run("File with one invalid product", func(t *testing.T) {
		t.Cleanup(resetCatalog)
		clearAllProducts()

		csvData := `name,category_ids
Raclette à givre,6
,6
Chargeur USB-C double,5`

		resp := decodeImport(t, importCSV(r, csvData, ""))
		if resp.ImportedProductsCount != 2 {
			t.Errorf("expected 2 imported products, got %d", resp.ImportedProductsCount)
		}
		if len(resp.Errors) != 1 {
			t.Fatalf("expected 1 error, got %d", len(resp.Errors))
		}
		if !strings.Contains(resp.Errors[0].Description, "row 3") {
			t.Errorf("expected error for row 3, got %v", resp.Errors[0])
		}
		if resp.Errors[0].Field != "Name" {
			t.Errorf("expected Name error, got %v", resp.Errors[0])
		}
	})

	t.Run("File with an existing product in default mode (skip)", func(t *testing.T) {
		t.Cleanup(resetCatalog)

		csvData := `name,slug,category_ids
Kit ampoules LED H7 v2,kit-ampoules-led-h7,3
Raclette à givre,,6`

		resp := decodeImport(t, importCSV(r, csvData, ""))
		if resp.ImportedProductsCount != 1 || resp.UpdatedProductsCount != 0 {
			t.Errorf("expected 1 imported and 0 updated, got %d/%d", resp.ImportedProductsCount, resp.UpdatedProductsCount)
		}
		if len(resp.Errors) != 1 || !strings.Contains(resp.Errors[0].Description, "already exists") {
			t.Errorf("expected one 'already exists' error, got %v", resp.Errors)
		}
	})

	t.Run("Import with update mode replaces product", func(t *testing.T) {
		t.Cleanup(resetCatalog)

		csvData := `name,slug,category_ids,tags,is_visible,is_featured
Kit ampoules LED H7 v2,kit-ampoules-led-h7,3,led|premium,0,0`

		resp := decodeImport(t, importCSV(r, csvData, "?mode=update"))
		if resp.UpdatedProductsCount != 1 || len(resp.Errors) != 0 {
			t.Fatalf("expected 1 update and no errors, got %d and %v", resp.UpdatedProductsCount, resp.Errors)
		}

		w := get(r, "/api/v1/products/kit-ampoules-led-h7")
		var product struct {
			ID        string   `json:"id"`
			Name      string   `json:"name"`
			Tags      []string `json:"tags"`
			IsVisible bool     `json:"isVisible"`
			Images    []any    `json:"images"`
		}
		json.NewDecoder(w.Body).Decode(&product)
		if product.ID != "107" || product.Name != "Kit ampoules LED H7 v2" || product.IsVisible {
			t.Errorf("unexpected updated product %+v", product)
		}
		if len(product.Images) == 0 {
			t.Error("expected existing images to be kept when the row has none")
		}
	})

	t.Run("Missing required column", func(t *testing.T) {
		w := importCSV(r, "name,tags\nRaclette,hiver", "")
		if w.Code != http.StatusBadRequest {
			t.Errorf("expected 400 Bad Request, got %d", w.Code)
		}
	})

	t.Run("Missing file", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/products/import", strings.NewReader(""))
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("expected 400 Bad Request, got %d", w.Code)
		}
	})
}
