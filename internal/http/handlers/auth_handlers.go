package handlers

import (
	"net/http"

	"github.com/iselbouch1/bouchauto-showcase/internal/auth"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// LoginHandler godoc
// @Summary Authenticate user and return JWT token
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body UserLogin true "username and password"
// @Success 200 {object} LoginResult
// @Failure 400 {string} string "Invalid input"
// @Failure 401 {string} string "Unauthorized"
// @Router /login [post]
func LoginHandler(w http.ResponseWriter, r *http.Request) {
	var credentials UserLogin
	if err := readJSON(w, r, &credentials); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	user, err := userRepo.GetByUsername(r.Context(), credentials.Username)
	if err != nil {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(credentials.Password)) != nil {
		logger.Warn("failed login", zap.String("username", credentials.Username))
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	token, err := auth.GenerateToken(user)
	if err != nil {
		logger.Error("could not generate token", zap.Error(err))
		http.Error(w, "could not generate token", http.StatusInternalServerError)
		return
	}

	respond(w, r, http.StatusOK, LoginResult{Token: token})
}
