package handlers_test_suite

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	api "github.com/iselbouch1/bouchauto-showcase/internal/http"
	handler "github.com/iselbouch1/bouchauto-showcase/internal/http/handlers"
)

func TestLoginHandler(t *testing.T) {
	r := api.NewRouter()

	tests := []struct {
		name         string
		body         string
		expectedCode int
	}{
		{name: "Valid credentials", body: `{"username":"admin","password":"secret"}`, expectedCode: http.StatusOK},
		{name: "Wrong password", body: `{"username":"admin","password":"nope"}`, expectedCode: http.StatusUnauthorized},
		{name: "Unknown user", body: `{"username":"ghost","password":"secret"}`, expectedCode: http.StatusUnauthorized},
		{name: "Malformed JSON", body: `{"username":`, expectedCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewBufferString(tt.body))
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.expectedCode {
				t.Fatalf("expected status %d, got %d", tt.expectedCode, w.Code)
			}
			if tt.expectedCode != http.StatusOK {
				return
			}

			var resp handler.LoginResult
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("token decoding failed: %v", err)
			}
			if resp.Token == "" {
				t.Error("expected a token")
			}
		})
	}
}
