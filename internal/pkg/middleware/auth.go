package middleware

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/ManuelReschke/CineFox/app/models"
	"github.com/ManuelReschke/CineFox/internal/pkg/usercontext"
)

// ViewerClaims are the claims CineFox reads from an access token. Tokens are
// issued elsewhere; this service only verifies them.
type ViewerClaims struct {
	jwt.RegisteredClaims
	Name string `json:"name,omitempty"`
	Role string `json:"role,omitempty"`
}

// ViewerID parses the subject as a user id.
func (c *ViewerClaims) ViewerID() (uint, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("subject is not a user id")
	}
	return uint(id), nil
}

// ErrNoSigningKey is returned when no token secret is configured; no token can
// be verified then.
var ErrNoSigningKey = errors.New("no token signing key configured")

// ParseViewerToken validates an HS256 token and returns its claims.
func ParseViewerToken(tokenStr string, secret []byte) (*ViewerClaims, error) {
	if len(secret) == 0 {
		return nil, ErrNoSigningKey
	}
	token, err := jwt.ParseWithClaims(tokenStr, &ViewerClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*ViewerClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// BearerAuthMiddleware resolves the viewer from an optional bearer token.
// Requests without a token continue as anonymous; an invalid token is rejected,
// and so is every token when secret is empty.
func BearerAuthMiddleware(secret []byte) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenStr := extractBearerToken(c)
		if tokenStr == "" {
			usercontext.SetUserContext(c, usercontext.UserContext{})
			return c.Next()
		}

		claims, err := ParseViewerToken(tokenStr, secret)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Invalid access token"})
		}
		viewerID, err := claims.ViewerID()
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Invalid access token"})
		}

		usercontext.SetUserContext(c, usercontext.UserContext{
			UserID:     viewerID,
			Username:   claims.Name,
			IsLoggedIn: true,
			IsAdmin:    claims.Role == models.ROLE_ADMIN,
		})
		return c.Next()
	}
}

// RequireViewer rejects anonymous requests with a JSON 401.
func RequireViewer(c *fiber.Ctx) error {
	if !usercontext.IsLoggedIn(c) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":   "unauthorized",
			"message": "login required",
		})
	}
	return c.Next()
}

func extractBearerToken(c *fiber.Ctx) string {
	auth := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if len(auth) > 7 && strings.EqualFold(auth[:7], "bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}
