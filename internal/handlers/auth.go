package handlers

import (
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/Abdullo200604/idealmarket/internal/auth"
	"github.com/Abdullo200604/idealmarket/internal/httpx"
	"github.com/Abdullo200604/idealmarket/internal/models"
)

type AuthHandler struct{ DB *gorm.DB }

func NewAuthHandler(db *gorm.DB) *AuthHandler { return &AuthHandler{DB: db} }

// Login: POST /login. On success sets the signed session cookie and returns
// the caller's role together with the landing path for that role: admins go
// to statistics, cashiers to the till.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		httpx.JSONError(w, http.StatusBadRequest, "missing_credentials", nil)
		return
	}

	var user models.User
	err := h.DB.Preload("Role").Where("username = ?", req.Username).First(&user).Error
	if err != nil || !auth.CheckPassword(user.Password, req.Password) {
		// identical answer for unknown user and wrong password
		httpx.JSONError(w, http.StatusUnauthorized, "invalid_credentials", nil)
		return
	}

	auth.CreateSession(w, user.ID)
	httpx.JSON(w, http.StatusOK, map[string]any{
		"username": user.Username,
		"role":     user.Role.Name,
		"landing":  landingFor(user.Role.Name),
	})
}

// Logout: POST /logout clears the session cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSession(w)
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}

// Me: GET /me returns the authenticated identity, or 401.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	var user models.User
	if err := h.DB.Preload("Role").First(&user, id.UserID).Error; err != nil {
		httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"id":       user.ID,
		"username": user.Username,
		"role":     user.Role.Name,
		"landing":  landingFor(user.Role.Name),
	})
}

func landingFor(role string) string {
	if role == models.RoleAdmin {
		return "/statistics"
	}
	return "/kassa"
}
