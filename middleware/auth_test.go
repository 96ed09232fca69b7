package middleware

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"retailhub-backend/models"
	"retailhub-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Setenv("JWT_SECRET", "test-secret-key-for-unit-tests")
	os.Exit(m.Run())
}

func protectedRouter(extra ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	handlers := append([]gin.HandlerFunc{AuthMiddleware()}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		role, _ := c.Get("user_role")
		c.JSON(http.StatusOK, gin.H{"success": true, "role": role})
	})
	r.GET("/protected", handlers...)
	return r
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	r := protectedRouter()
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestAuthMiddleware_MalformedHeader(t *testing.T) {
	r := protectedRouter()

	for _, header := range []string{"Basic abc", "Bearer", "just-a-token"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", header)
		r.ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("header %q: expected 401, got %d", header, w.Code)
		}
	}
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	token, err := utils.GenerateToken(uuid.New(), "u@example.com", models.RoleUser, nil)
	if err != nil {
		t.Fatal(err)
	}

	r := protectedRouter()
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAdminMiddleware(t *testing.T) {
	adminToken, _ := utils.GenerateToken(uuid.New(), "a@example.com", models.RoleAdmin, nil)
	userToken, _ := utils.GenerateToken(uuid.New(), "u@example.com", models.RoleUser, nil)

	r := protectedRouter(AdminMiddleware())

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("admin: expected 200, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+userToken)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Errorf("user: expected 403, got %d", w.Code)
	}
}

func TestAdminOrManagerMiddleware(t *testing.T) {
	franchiseID := uuid.New()
	managerToken, _ := utils.GenerateToken(uuid.New(), "m@example.com", models.RoleOrderManager, &franchiseID)
	userToken, _ := utils.GenerateToken(uuid.New(), "u@example.com", models.RoleUser, nil)

	r := protectedRouter(AdminOrManagerMiddleware())

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+managerToken)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("manager: expected 200, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+userToken)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Errorf("user: expected 403, got %d", w.Code)
	}
}
