package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"gorm.io/gorm"

	"github.com/Abdullo200604/idealmarket/internal/auth"
	"github.com/Abdullo200604/idealmarket/internal/models"
)

func seedOperator(t *testing.T, db *gorm.DB, username, password, roleName string) *models.User {
	t.Helper()
	role := models.Role{Name: roleName}
	if err := db.Where("name = ?", roleName).FirstOrCreate(&role).Error; err != nil {
		t.Fatalf("role: %v", err)
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	user := models.User{Username: username, Password: hash, RoleID: role.ID}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("user: %v", err)
	}
	return &user
}

func TestLoginSuccessSetsSessionAndLanding(t *testing.T) {
	db := setupHandlerTestDB(t)
	seedOperator(t, db, "admin1", "sw0rdfish42", models.RoleAdmin)
	h := NewAuthHandler(db)

	w := postJSON(t, h.Login, "/login", `{"username":"admin1","password":"sw0rdfish42"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	var resp struct {
		Role    string `json:"role"`
		Landing string `json:"landing"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Role != "admin" || resp.Landing != "/statistics" {
		t.Fatalf("unexpected response: %s", w.Body.String())
	}

	sessionSet := false
	for _, c := range w.Result().Cookies() {
		if c.Name == "session" && c.Value != "" {
			sessionSet = true
		}
	}
	if !sessionSet {
		t.Fatal("session cookie not set")
	}
}

func TestLoginCashierLandsOnKassa(t *testing.T) {
	db := setupHandlerTestDB(t)
	seedOperator(t, db, "kass1", "sw0rdfish42", models.RoleCashier)
	h := NewAuthHandler(db)

	w := postJSON(t, h.Login, "/login", `{"username":"kass1","password":"sw0rdfish42"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	var resp struct {
		Landing string `json:"landing"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Landing != "/kassa" {
		t.Fatalf("unexpected landing: %s", w.Body.String())
	}
}

func TestLoginWrongPassword(t *testing.T) {
	db := setupHandlerTestDB(t)
	seedOperator(t, db, "admin1", "sw0rdfish42", models.RoleAdmin)
	h := NewAuthHandler(db)

	for _, body := range []string{
		`{"username":"admin1","password":"nope"}`,
		`{"username":"ghost","password":"sw0rdfish42"}`,
	} {
		w := postJSON(t, h.Login, "/login", body)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401 got %d body=%s", w.Code, w.Body.String())
		}
	}
}

func TestLogoutClearsCookie(t *testing.T) {
	db := setupHandlerTestDB(t)
	h := NewAuthHandler(db)

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	w := httptest.NewRecorder()
	h.Logout(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
	cleared := false
	for _, c := range w.Result().Cookies() {
		if c.Name == "session" && c.Value == "" {
			cleared = true
		}
	}
	if !cleared {
		t.Fatal("session cookie not cleared")
	}
}

func TestMeRequiresIdentity(t *testing.T) {
	db := setupHandlerTestDB(t)
	h := NewAuthHandler(db)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	w := httptest.NewRecorder()
	h.Me(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", w.Code)
	}

	user := seedOperator(t, db, "kass2", "sw0rdfish42", models.RoleCashier)
	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req = req.WithContext(auth.WithIdentity(req.Context(), auth.Identity{UserID: user.ID}))
	w = httptest.NewRecorder()
	h.Me(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}
}
