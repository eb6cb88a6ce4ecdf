package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/vizboard/vizboard/api/internal/pkg/errors"
)

// ContextKeyUserID is the Fiber locals key holding the token subject
const ContextKeyUserID = "userID"

// JWTConfig configures token verification. Tokens are issued elsewhere.
type JWTConfig struct {
	Secret string
	// Issuer is required in tokens when set
	Issuer string
}

// RequireJWT verifies an HMAC-signed bearer token and stores its subject as
// the user ID
func RequireJWT(config JWTConfig) fiber.Handler {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}),
		jwt.WithExpirationRequired(),
	}
	if config.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(config.Issuer))
	}
	parser := jwt.NewParser(opts...)
	key := []byte(config.Secret)

	return func(c *fiber.Ctx) error {
		raw := extractBearerToken(c)
		if raw == "" {
			return apperrors.Unauthorized("authorization header required")
		}

		claims := &jwt.RegisteredClaims{}
		_, err := parser.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
			return key, nil
		})
		if err != nil {
			return apperrors.Unauthorized("invalid or expired token").WithError(err)
		}
		if claims.Subject == "" {
			return apperrors.Unauthorized("token has no subject")
		}

		c.Locals(ContextKeyUserID, claims.Subject)
		return c.Next()
	}
}

// extractBearerToken extracts the token from the Authorization header
func extractBearerToken(c *fiber.Ctx) string {
	auth := c.Get(fiber.HeaderAuthorization)
	if len(auth) > 7 && strings.EqualFold(auth[:7], "Bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}

// GetUserID gets the authenticated user ID from context
func GetUserID(c *fiber.Ctx) string {
	userID, _ := c.Locals(ContextKeyUserID).(string)
	return userID
}
