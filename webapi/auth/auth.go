package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/payollar/payollar/pkg/domain/user"
	authsvc "github.com/payollar/payollar/pkg/service/auth"
	"github.com/payollar/payollar/webapi/common"
)

func Routes(app *fiber.App, authSvc *authsvc.Service) {
	app.Post("/auth/login", Login(authSvc))
}

// Login handles user authentication and returns a JWT token.
// @Summary User login
// @Description Authenticate user with identity (username or email) and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginInput true "Login credentials"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Failure 401 {object} common.ProblemDetails
// @Failure 429 {object} common.ProblemDetails
// @Failure 500 {object} common.ProblemDetails
// @Router /auth/login [post]
func Login(authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[LoginInput](c)
		if input == nil {
			return err // Error already written by BindAndValidate
		}
		u, err := authSvc.Login(c.UserContext(), input.Identity, input.Password)
		if errors.Is(err, user.ErrUserUnauthorized) || (err == nil && u == nil) {
			return common.ProblemDetailsJSON(c, "Invalid identity or password", nil, "Identity or password is incorrect", fiber.StatusUnauthorized)
		}
		if err != nil {
			return common.ProblemDetailsJSON(c, "Internal Server Error", err, fiber.StatusInternalServerError)
		}
		token, err := authSvc.GenerateToken(c.UserContext(), u)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Internal Server Error", err, fiber.StatusInternalServerError)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Success login", fiber.Map{"token": token})
	}
}
