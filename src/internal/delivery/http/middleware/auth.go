package middleware

import (
	"strings"

	"kolibra-order-service/src/pkg/token"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/viper"
)

const userLocalKey = "auth:user"

// VerifyBearer validates the JWT issued by the managed auth provider and
// stores its claims for the handlers downstream.
func VerifyBearer(v *viper.Viper) fiber.Handler {
	secret := []byte(v.GetString("auth.jwt_secret"))

	return func(ctx *fiber.Ctx) error {
		header := ctx.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(header, "Bearer ") {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing bearer token"})
		}
		raw := strings.TrimPrefix(header, "Bearer ")

		claims := jwt.MapClaims{}
		parsed, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return secret, nil
		})
		if err != nil || !parsed.Valid {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid or expired token"})
		}

		claim := &token.Claim{}
		if sub, ok := claims["sub"].(string); ok {
			claim.Metadata.UserID = sub
		}
		if meta, ok := claims["metadata"].(map[string]interface{}); ok {
			if userID, ok := meta["user_id"].(string); ok {
				claim.Metadata.UserID = userID
			}
			if name, ok := meta["full_name"].(string); ok {
				claim.Metadata.FullName = name
			}
			if role, ok := meta["role"].(string); ok {
				claim.Metadata.Role = role
			}
		}
		if claim.Metadata.UserID == "" {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "token carries no user identity"})
		}

		ctx.Locals(userLocalKey, claim)
		return ctx.Next()
	}
}

// RequireAdmin guards the back-office routes.
func RequireAdmin() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		claim := GetUser(ctx)
		if claim == nil || claim.Metadata.Role != "admin" {
			return ctx.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "admin role required"})
		}
		return ctx.Next()
	}
}

func GetUser(ctx *fiber.Ctx) *token.Claim {
	claim, _ := ctx.Locals(userLocalKey).(*token.Claim)
	return claim
}
