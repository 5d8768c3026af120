package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/kugesan/eduquest/internal/app"
	"github.com/kugesan/eduquest/internal/models"
)

type AuthHandler struct {
	service *app.Service
}

func NewAuthHandler(service *app.Service) *AuthHandler {
	return &AuthHandler{
		service: service,
	}
}

type signupRequest struct {
	Name         string `json:"name" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=6"`
	ProfileImage string `json:"profileImage"`
	Role         string `json:"role" validate:"omitempty,oneof=student instructor"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	defer observeRequest(r, start, "200")

	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := validator.New().Struct(&req); err != nil {
		http.Error(w, "Invalid signup payload", http.StatusBadRequest)
		return
	}

	if req.Role == "" {
		req.Role = models.RoleStudent
	}

	existing, err := h.service.Store.GetUserByEmail(req.Email)
	if err != nil {
		logger.Error.Printf("Failed to check existing email: %v", err)
		http.Error(w, "Failed to create user", http.StatusInternalServerError)
		return
	}
	if existing != nil {
		http.Error(w, "Email already registered", http.StatusBadRequest)
		return
	}

	hash, err := app.HashPassword(req.Password)
	if err != nil {
		logger.Error.Printf("Failed to hash password: %v", err)
		http.Error(w, "Failed to create user", http.StatusInternalServerError)
		return
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		ProfileImage: req.ProfileImage,
		Role:         req.Role,
	}

	if err := h.service.Store.CreateUser(user); err != nil {
		logger.Error.Printf("Failed to create user: %v", err)
		http.Error(w, "Failed to create user", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Signup successful"})
}

func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	defer observeRequest(r, start, "200")

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.service.Store.GetUserByEmail(req.Email)
	if err != nil {
		logger.Error.Printf("Failed to fetch user for login: %v", err)
		http.Error(w, "Login failed", http.StatusInternalServerError)
		return
	}

	// Missing account and wrong password produce the same response, so the
	// endpoint cannot be used to probe which emails are registered.
	if user == nil || !app.VerifyPassword(req.Password, user.PasswordHash) {
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	token, err := h.service.Auth.IssueToken(r.Context(), user.Email)
	if err != nil {
		logger.Error.Printf("Failed to issue token: %v", err)
		http.Error(w, "Login failed", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"token":        token,
		"name":         user.Name,
		"role":         user.Role,
		"profileImage": user.ProfileImage,
	})
}
