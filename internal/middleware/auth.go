package middleware

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/hooplab/courtside/internal/service"
)

const actorKey = "actor"

// Claims is what the identity service puts in the token: the subject is the
// actor id, permissions are the override capabilities the actor holds.
type Claims struct {
	jwt.RegisteredClaims
	Permissions []string `json:"permissions,omitempty"`
}

type AuthMiddleware struct {
	secret string
}

func NewAuthMiddleware() *AuthMiddleware {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "12345"
	}

	return &AuthMiddleware{secret: secret}
}

// RequireAuth rejects requests without a valid token.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, err := m.parseActor(c)
		if err != nil || actor.Anonymous {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			c.Abort()
			return
		}
		c.Set(actorKey, actor)
		c.Next()
	}
}

// OptionalAuth resolves the actor when a token is present and falls back to
// the anonymous actor otherwise. Read endpoints use this so derived fields
// like "is followed" can still be computed for logged-in callers.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, err := m.parseActor(c)
		if err != nil {
			actor = service.AnonymousActor()
		}
		c.Set(actorKey, actor)
		c.Next()
	}
}

func (m *AuthMiddleware) parseActor(c *gin.Context) (service.Actor, error) {
	tokenString := ""
	authHeader := c.GetHeader("Authorization")

	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			tokenString = parts[1]
		}
	}

	if tokenString == "" {
		return service.AnonymousActor(), nil
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(m.secret), nil
	})
	if err != nil || !token.Valid {
		return service.AnonymousActor(), fmt.Errorf("invalid or expired token")
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return service.AnonymousActor(), fmt.Errorf("invalid token claims")
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return service.AnonymousActor(), fmt.Errorf("invalid subject claim")
	}

	permissions := make([]service.Permission, 0, len(claims.Permissions))
	for _, p := range claims.Permissions {
		permissions = append(permissions, service.Permission(p))
	}

	return service.Actor{ID: userID, Permissions: permissions}, nil
}

// GetActor returns the actor resolved by RequireAuth/OptionalAuth.
func GetActor(c *gin.Context) service.Actor {
	value, exists := c.Get(actorKey)
	if !exists {
		return service.AnonymousActor()
	}
	actor, ok := value.(service.Actor)
	if !ok {
		return service.AnonymousActor()
	}
	return actor
}
