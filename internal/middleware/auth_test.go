package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"lifelink/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func protectedRouter(extra ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	chain := append([]gin.HandlerFunc{AuthMiddleware()}, extra...)
	chain = append(chain, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"subject_id":   c.MustGet(ContextSubjectID),
			"subject_type": c.MustGet(ContextSubjectType),
		})
	})
	r.GET("/protected", chain...)
	return r
}

func get(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestAuthMiddleware(t *testing.T) {
	t.Run("valid token passes claims through", func(t *testing.T) {
		token, err := GenerateToken(7, models.UserTypeDonor, "donor@example.com")
		if err != nil {
			t.Fatalf("failed to generate token: %v", err)
		}

		rec := get(protectedRouter(), "Bearer "+token)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("missing header rejected", func(t *testing.T) {
		rec := get(protectedRouter(), "")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("malformed header rejected", func(t *testing.T) {
		rec := get(protectedRouter(), "Token abc")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		rec := get(protectedRouter(), "Bearer not-a-jwt")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}

func TestRequireRole(t *testing.T) {
	t.Run("allowed role passes", func(t *testing.T) {
		token, err := GenerateToken(3, models.UserTypeStaff, "staff@example.com")
		if err != nil {
			t.Fatalf("failed to generate token: %v", err)
		}

		rec := get(protectedRouter(RequireRole(models.UserTypeStaff)), "Bearer "+token)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("other role forbidden", func(t *testing.T) {
		token, err := GenerateToken(7, models.UserTypeDonor, "donor@example.com")
		if err != nil {
			t.Fatalf("failed to generate token: %v", err)
		}

		rec := get(protectedRouter(RequireRole(models.UserTypeStaff, models.UserTypeHospital)), "Bearer "+token)
		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
	})
}
