package middleware

import (
	config "github.com/anjiri1684/corporate_training/configs"
	"github.com/anjiri1684/corporate_training/models"
	"github.com/anjiri1684/corporate_training/services"
	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v3"
	"github.com/golang-jwt/jwt/v4"
)

const identityKey = "identity"

func Protected() fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:     []byte(config.Config("JWT_SECRET")),
		ErrorHandler:   jwtError,
		SuccessHandler: resolveIdentity,
	})
}

func jwtError(c *fiber.Ctx, err error) error {
	if err.Error() == "Missing or malformed JWT" {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"error": "Missing or malformed JWT"})
	}
	return c.Status(fiber.StatusUnauthorized).
		JSON(fiber.Map{"error": "Invalid or expired JWT"})
}

// resolveIdentity turns verified claims into a services.Identity. Refresh
// tokens are refused here even though their signature is valid.
func resolveIdentity(c *fiber.Ctx) error {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return jwtError(c, fiber.ErrUnauthorized)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return jwtError(c, fiber.ErrUnauthorized)
	}
	if typ, _ := claims["typ"].(string); typ != services.TokenTypeAccess {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Access token required"})
	}

	identity, err := services.IdentityFromClaims(claims)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token claims"})
	}
	c.Locals(identityKey, identity)
	return c.Next()
}

// CurrentIdentity returns the caller resolved by Protected.
func CurrentIdentity(c *fiber.Ctx) services.Identity {
	identity, _ := c.Locals(identityKey).(services.Identity)
	return identity
}

func RolesRequired(roles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !CurrentIdentity(c).HasRole(roles...) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Forbidden: insufficient role",
			})
		}
		return c.Next()
	}
}

func SystemAdminRequired() fiber.Handler {
	return RolesRequired(models.RoleSystemAdmin)
}
