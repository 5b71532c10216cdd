package handlers_integrated_test_suite

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/iselbouch1/bouchauto-showcase/internal/db"
	handler "github.com/iselbouch1/bouchauto-showcase/internal/http/handlers"
	"github.com/iselbouch1/bouchauto-showcase/internal/models"
	"github.com/iselbouch1/bouchauto-showcase/internal/repo"
	"golang.org/x/crypto/bcrypt"
)

var (
	token       string
	catalogRepo *repo.PostgresCatalogRepository
	userRepo    *repo.PostgresUserRepository
	database    *sql.DB
)

func setupTestRepos(dbUrl, password string) error {
	ctx := context.Background()

	var err error
	database, err = db.Connect(ctx, dbUrl)
	if err != nil {
		return err
	}
	if err := db.Migrate(ctx, database); err != nil {
		return err
	}

	catalogRepo = repo.NewPostgresCatalogRepository(database)
	handler.SetCatalogRepo(catalogRepo)

	userRepo = repo.NewPostgresUserRepository(database)
	handler.SetUserRepo(userRepo)

	handler.SetMetricsRepo(repo.NewPostgresMetricsRepository(database))

	resetCatalog()
	return createAdminIfNotExists(password)
}

func createAdminIfNotExists(password string) error {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	_, err := userRepo.CreateUser(context.Background(), models.User{
		Username:     "admin",
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
	})
	if err != nil && !errors.Is(err, repo.ErrDuplicatedValueUnique) {
		return err
	}
	return nil
}

// resetCatalog replaces the tables content with the embedded demo catalog.
func resetCatalog() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := database.ExecContext(ctx, "TRUNCATE TABLE products, categories RESTART IDENTITY CASCADE"); err != nil {
		panic(fmt.Errorf("failed to truncate catalog tables: %w", err))
	}
	ds, err := repo.SeedDataset()
	if err != nil {
		panic(err)
	}
	if err := catalogRepo.Import(ctx, ds); err != nil {
		panic(err)
	}
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
