package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"lifelink/internal/config"
	"lifelink/internal/models"
)

// Context keys set by AuthMiddleware.
const (
	ContextSubjectID   = "subjectID"
	ContextSubjectType = "subjectType"
	ContextEmail       = "email"
)

// getJWTKey returns the JWT key from configuration
func getJWTKey() []byte {
	return []byte(config.Get().JWTSecret)
}

// Claims represents the claim set carried by a session token: who the
// subject is and which registry (donor/hospital/staff) they belong to.
type Claims struct {
	SubjectID   uint            `json:"subject_id"`
	SubjectType models.UserType `json:"subject_type"`
	Email       string          `json:"email"`
	jwt.RegisteredClaims
}

// GenerateToken signs a session token for the given subject. Validity is
// fixed by JWT_EXPIRES_IN (24h default).
func GenerateToken(subjectID uint, subjectType models.UserType, email string) (string, error) {
	now := time.Now()
	claims := &Claims{
		SubjectID:   subjectID,
		SubjectType: subjectType,
		Email:       email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(config.Get().JWTExpirationDur)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "lifelink-api",
			Subject:   fmt.Sprintf("%d", subjectID),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(getJWTKey())
}

// ParseToken validates a session token and returns its claims. It rejects
// missing, malformed, and expired tokens alike.
func ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return getJWTKey(), nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// AuthMiddleware verifies the bearer token and sets the subject in the context.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": gin.H{"code": "UNAUTHORIZED", "message": "Authorization header is required"}})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": gin.H{"code": "UNAUTHORIZED", "message": "Invalid authorization header format"}})
			c.Abort()
			return
		}

		claims, err := ParseToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": gin.H{"code": "UNAUTHORIZED", "message": "Invalid or expired token"}})
			c.Abort()
			return
		}

		c.Set(ContextSubjectID, claims.SubjectID)
		c.Set(ContextSubjectType, claims.SubjectType)
		c.Set(ContextEmail, claims.Email)
		c.Next()
	}
}

// RequireRole aborts with 403 unless the authenticated subject's type is one
// of the allowed ones. Must run after AuthMiddleware.
func RequireRole(allowed ...models.UserType) gin.HandlerFunc {
	return func(c *gin.Context) {
		subjectType, exists := c.Get(ContextSubjectType)
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": gin.H{"code": "UNAUTHORIZED", "message": "Authentication required"}})
			c.Abort()
			return
		}
		st := subjectType.(models.UserType)
		for _, role := range allowed {
			if st == role {
				c.Next()
				return
			}
		}
		c.JSON(http.StatusForbidden, gin.H{"error": gin.H{"code": "FORBIDDEN", "message": "Access denied"}})
		c.Abort()
	}
}
