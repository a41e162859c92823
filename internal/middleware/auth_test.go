package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/tranvdm/clinic-api/internal/models"
	"github.com/tranvdm/clinic-api/internal/utils"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	protected := r.Group("/doctor")
	protected.Use(AuthMiddleware(), RequireRoles(models.RoleDoctor, models.RoleHOD))
	protected.GET("/appointments", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userId": c.GetString("userID"), "role": c.GetString("userRole")})
	})
	return r
}

func doRequest(t *testing.T, r *gin.Engine, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/doctor/appointments", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	r := newTestRouter()

	t.Run("missing header", func(t *testing.T) {
		if w := doRequest(t, r, ""); w.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", w.Code)
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		if w := doRequest(t, r, "not-a-jwt"); w.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", w.Code)
		}
	})

	t.Run("valid token allowed role", func(t *testing.T) {
		token, err := utils.GenerateJWT("u1", models.RoleDoctor, "")
		if err != nil {
			t.Fatalf("GenerateJWT: %v", err)
		}
		if w := doRequest(t, r, token); w.Code != http.StatusOK {
			t.Errorf("expected 200, got %d (%s)", w.Code, w.Body.String())
		}
	})

	t.Run("valid token role outside allow list", func(t *testing.T) {
		token, err := utils.GenerateJWT("u2", models.RolePatient, "")
		if err != nil {
			t.Fatalf("GenerateJWT: %v", err)
		}
		if w := doRequest(t, r, token); w.Code != http.StatusForbidden {
			t.Errorf("expected 403, got %d", w.Code)
		}
	})
}
