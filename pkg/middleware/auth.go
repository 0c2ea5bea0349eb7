package middleware

import (
	"errors"

	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/payollar/payollar/pkg/config"
	"github.com/payollar/payollar/webapi/common"
)

// JwtProtected verifies the bearer token and stores it in c.Locals("user").
func JwtProtected(cfg *config.Jwt) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:   jwtware.SigningKey{Key: []byte(cfg.Secret)},
		ContextKey:   "user",
		ErrorHandler: jwtError,
	})
}

func jwtError(c *fiber.Ctx, err error) error {
	if errors.Is(err, jwtware.ErrJWTMissingOrMalformed) {
		return common.ProblemDetailsJSON(c, "Unauthorized", nil, "Missing or malformed JWT", fiber.StatusUnauthorized)
	}
	return common.ProblemDetailsJSON(c, "Unauthorized", nil, "Invalid or expired JWT", fiber.StatusUnauthorized)
}
