package handlers

import (
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/Abdullo200604/idealmarket/internal/auth"
	"github.com/Abdullo200604/idealmarket/internal/httpx"
	"github.com/Abdullo200604/idealmarket/internal/models"
)

// UserHandler is the operator account admin: create cashiers and admins,
// edit profiles, reset passwords, remove accounts. Sales recorded by a
// removed account keep their rows with the operator nulled.
type UserHandler struct{ DB *gorm.DB }

func NewUserHandler(db *gorm.DB) *UserHandler { return &UserHandler{DB: db} }

const minPasswordLen = 8

// List: GET /users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	var users []models.User
	if err := h.DB.Preload("Role").Order("username").Find(&users).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_users", nil)
		return
	}
	items := make([]map[string]any, 0, len(users))
	for i := range users {
		u := &users[i]
		items = append(items, map[string]any{
			"id":         u.ID,
			"username":   u.Username,
			"first_name": u.FirstName,
			"last_name":  u.LastName,
			"role":       u.Role.Name,
		})
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": items, "total": len(items)})
}

// Create: POST /users
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username  string `json:"username"`
		Password  string `json:"password"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Role      string `json:"role"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" {
		httpx.JSONError(w, http.StatusBadRequest, "username_required", nil)
		return
	}
	if len(req.Password) < minPasswordLen {
		httpx.JSONError(w, http.StatusBadRequest, "password_too_short", map[string]int{"min_length": minPasswordLen})
		return
	}

	role, ok := h.roleByName(w, req.Role)
	if !ok {
		return
	}
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_create_user", nil)
		return
	}
	user := models.User{
		Username:  req.Username,
		Password:  hash,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		RoleID:    role.ID,
	}
	if err := h.DB.Create(&user).Error; err != nil {
		httpx.JSONError(w, http.StatusConflict, "username_taken", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{
		"id":       user.ID,
		"username": user.Username,
		"role":     role.Name,
	})
}

// Update: POST /users/update edits profile fields and optionally the role.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID        uint   `json:"id"`
		Username  string `json:"username"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Role      string `json:"role"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	var user models.User
	if err := h.DB.First(&user, req.ID).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "user_not_found", nil)
		return
	}
	if v := strings.TrimSpace(req.Username); v != "" {
		user.Username = v
	}
	user.FirstName = strings.TrimSpace(req.FirstName)
	user.LastName = strings.TrimSpace(req.LastName)
	if req.Role != "" {
		role, ok := h.roleByName(w, req.Role)
		if !ok {
			return
		}
		user.RoleID = role.ID
	}
	if err := h.DB.Save(&user).Error; err != nil {
		httpx.JSONError(w, http.StatusConflict, "username_taken", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"id": user.ID, "username": user.Username})
}

// Password: POST /users/password resets an account password.
func (h *UserHandler) Password(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID       uint   `json:"id"`
		Password string `json:"password"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if len(req.Password) < minPasswordLen {
		httpx.JSONError(w, http.StatusBadRequest, "password_too_short", map[string]int{"min_length": minPasswordLen})
		return
	}
	var user models.User
	if err := h.DB.First(&user, req.ID).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "user_not_found", nil)
		return
	}
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_set_password", nil)
		return
	}
	user.Password = hash
	if err := h.DB.Save(&user).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_set_password", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"id": user.ID})
}

// Delete: POST /users/delete. Deleting yourself is refused so an admin
// cannot lock everyone out by accident.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID uint `json:"id"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if id, ok := auth.IdentityFromContext(r.Context()); ok && id.UserID == req.ID {
		httpx.JSONError(w, http.StatusBadRequest, "cannot_delete_self", nil)
		return
	}
	// detach the ledger before the account goes away
	if err := h.DB.Model(&models.Sale{}).Where("created_by_id = ?", req.ID).Update("created_by_id", nil).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_delete_user", nil)
		return
	}
	res := h.DB.Delete(&models.User{}, req.ID)
	if res.Error != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_delete_user", nil)
		return
	}
	if res.RowsAffected == 0 {
		httpx.JSONError(w, http.StatusNotFound, "user_not_found", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"deleted": req.ID})
}

func (h *UserHandler) roleByName(w http.ResponseWriter, name string) (*models.Role, bool) {
	if name == "" {
		name = models.RoleCashier
	}
	var role models.Role
	if err := h.DB.Where("name = ?", name).First(&role).Error; err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "unknown_role", map[string]string{"role": name})
		return nil, false
	}
	return &role, true
}
