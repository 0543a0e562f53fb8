package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// ErrAuthDisabled is returned when minting a token without a configured secret.
var ErrAuthDisabled = errors.New("api auth disabled: no jwt secret configured")

// Claims identifies the caller of the API.
type Claims struct {
	jwt.RegisteredClaims
}

// AuthService signs and validates bearer tokens. With an empty secret it is
// disabled and RequireAPIAuth lets every request through.
type AuthService struct {
	secret []byte
	ttl    time.Duration
}

// NewAuthService builds the service; ttl <= 0 defaults to 24h.
func NewAuthService(secret string, ttl time.Duration) *AuthService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &AuthService{secret: []byte(strings.TrimSpace(secret)), ttl: ttl}
}

// Enabled reports whether tokens are enforced.
func (a *AuthService) Enabled() bool {
	return a != nil && len(a.secret) > 0
}

// GenerateToken signs a token for subject.
func (a *AuthService) GenerateToken(subject string) (string, error) {
	if !a.Enabled() {
		return "", ErrAuthDisabled
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   subject,
			Issuer:    "aegis",
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

// ValidateToken parses and verifies tokenString.
func (a *AuthService) ValidateToken(tokenString string) (*Claims, error) {
	if !a.Enabled() {
		return nil, ErrAuthDisabled
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("invalid token")
}

// RequireAPIAuth enforces a bearer token when the service is enabled.
func (a *AuthService) RequireAPIAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !a.Enabled() {
			c.Next()
			return
		}
		tokenString := strings.TrimSpace(strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer "))
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}
		claims, err := a.ValidateToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}
		c.Set("subject", claims.Subject)
		c.Next()
	}
}
