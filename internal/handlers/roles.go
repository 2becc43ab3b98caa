package handlers

import (
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/Abdullo200604/idealmarket/internal/auth"
	"github.com/Abdullo200604/idealmarket/internal/httpx"
	"github.com/Abdullo200604/idealmarket/internal/models"
)

// RoleHandler manages operator roles. The built-in admin and cashier
// roles carry the capability mapping and cannot be renamed or removed.
type RoleHandler struct{ DB *gorm.DB }

func NewRoleHandler(db *gorm.DB) *RoleHandler { return &RoleHandler{DB: db} }

func builtinRole(name string) bool {
	return name == models.RoleAdmin || name == models.RoleCashier
}

// List: GET /roles with member counts and resolved capabilities.
func (h *RoleHandler) List(w http.ResponseWriter, r *http.Request) {
	var roles []models.Role
	if err := h.DB.Order("name").Find(&roles).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_roles", nil)
		return
	}
	items := make([]map[string]any, 0, len(roles))
	for i := range roles {
		role := &roles[i]
		var members int64
		h.DB.Model(&models.User{}).Where("role_id = ?", role.ID).Count(&members)
		items = append(items, map[string]any{
			"id":           role.ID,
			"name":         role.Name,
			"description":  role.Description,
			"builtin":      builtinRole(role.Name),
			"members":      members,
			"capabilities": auth.CapabilitiesForRole(role.Name),
		})
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": items, "total": len(items)})
}

// Create: POST /roles
func (h *RoleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		httpx.JSONError(w, http.StatusBadRequest, "name_required", nil)
		return
	}
	role := models.Role{Name: req.Name, Description: req.Description}
	if err := h.DB.Create(&role).Error; err != nil {
		httpx.JSONError(w, http.StatusConflict, "role_name_taken", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, role)
}

// Update: POST /roles/update. Built-in roles accept a new description
// but keep their name, which the capability mapping keys on.
func (h *RoleHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID          uint   `json:"id"`
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	var role models.Role
	if err := h.DB.First(&role, req.ID).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "role_not_found", nil)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name != "" && req.Name != role.Name {
		if builtinRole(role.Name) {
			httpx.JSONError(w, http.StatusBadRequest, "builtin_role", map[string]string{"role": role.Name})
			return
		}
		role.Name = req.Name
	}
	role.Description = req.Description
	if err := h.DB.Save(&role).Error; err != nil {
		httpx.JSONError(w, http.StatusConflict, "role_name_taken", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, role)
}

// Delete: POST /roles/delete refuses built-in roles and roles that
// still have members.
func (h *RoleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID uint `json:"id"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	var role models.Role
	if err := h.DB.First(&role, req.ID).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "role_not_found", nil)
		return
	}
	if builtinRole(role.Name) {
		httpx.JSONError(w, http.StatusBadRequest, "builtin_role", map[string]string{"role": role.Name})
		return
	}
	var members int64
	if err := h.DB.Model(&models.User{}).Where("role_id = ?", role.ID).Count(&members).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_delete_role", nil)
		return
	}
	if members > 0 {
		httpx.JSONError(w, http.StatusConflict, "role_in_use", map[string]any{"members": members})
		return
	}
	if err := h.DB.Delete(&role).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_delete_role", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"deleted": role.ID})
}
