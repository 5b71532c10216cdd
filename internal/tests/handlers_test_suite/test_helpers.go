package handlers_test_suite

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"

	api "github.com/iselbouch1/bouchauto-showcase/internal/http"
	handler "github.com/iselbouch1/bouchauto-showcase/internal/http/handlers"
	"github.com/iselbouch1/bouchauto-showcase/internal/models"
	"github.com/iselbouch1/bouchauto-showcase/internal/repo"
	"golang.org/x/crypto/bcrypt"
)

var (
	token       string
	userToken   string
	catalogRepo *repo.InMemoryCatalogRepository
)

func init() {
	setupTestRepos("secret")
	r := api.NewRouter()

	var err error
	token, err = generateToken(r, "admin", "secret")
	if err != nil {
		panic(fmt.Sprintf("error generating token: %v", err))
	}
	userToken, err = generateToken(r, "visitor", "secret")
	if err != nil {
		panic(fmt.Sprintf("error generating token: %v", err))
	}
}

func setupTestRepos(password string) {
	var err error
	catalogRepo, err = repo.NewSeededCatalogRepository()
	if err != nil {
		panic(fmt.Sprintf("error loading seed catalog: %v", err))
	}
	handler.SetCatalogRepo(catalogRepo)

	userRepo := repo.NewInMemoryUserRepository()
	handler.SetUserRepo(userRepo)

	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	userRepo.CreateUser(context.Background(), models.User{
		Username:     "admin",
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
	})
	userRepo.CreateUser(context.Background(), models.User{
		Username:     "visitor",
		PasswordHash: string(hash),
		Role:         models.RoleUser,
	})

	metricsRepo := repo.NewInMemoryMetricsRepository()
	handler.SetMetricsRepo(metricsRepo)
	metricsRepo.SetRepositories(catalogRepo)
}

// resetCatalog restores the seeded catalog after a test that writes to it.
func resetCatalog() {
	ds, err := repo.SeedDataset()
	if err != nil {
		panic(err)
	}
	catalogRepo.Load(ds)
}

func clearAllProducts() {
	catalogRepo.Clear()
}

func generateToken(r http.Handler, username, password string) (string, error) {
	payload := handler.UserLogin{Username: username, Password: password}
	body, _ := json.Marshal(payload)

	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp handler.LoginResult
	err := json.NewDecoder(w.Body).Decode(&resp)
	if err != nil {
		return "", fmt.Errorf("token decoding failed: %v", err)
	}
	return resp.Token, nil
}

func get(r http.Handler, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func sendJSON(r http.Handler, method, target string, payload any) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func createProduct(r http.Handler, p handler.ProductRequest) *httptest.ResponseRecorder {
	return sendJSON(r, http.MethodPost, "/api/v1/admin/products", p)
}

func decodeProducts(w *httptest.ResponseRecorder) (models.PaginatedResponse[models.Product], error) {
	var resp models.PaginatedResponse[models.Product]
	err := json.NewDecoder(w.Body).Decode(&resp)
	return resp, err
}

func slugs(products []models.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.Slug
	}
	return out
}

func multipartCSV(csvContent string, filename string) (*bytes.Buffer, string) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, _ := writer.CreateFormFile("file", filename)
	part.Write([]byte(csvContent))

	writer.Close()
	return &buf, writer.FormDataContentType()
}
