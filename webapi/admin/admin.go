package admin

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/payollar/payollar/pkg/config"
	"github.com/payollar/payollar/pkg/middleware"
	adminsvc "github.com/payollar/payollar/pkg/service/admin"
	authsvc "github.com/payollar/payollar/pkg/service/auth"
	"github.com/payollar/payollar/webapi/common"
)

func Routes(
	app *fiber.App,
	adminSvc *adminsvc.Service,
	authSvc *authsvc.Service,
	cfg *config.App,
) {
	group := app.Group("/admin", middleware.JwtProtected(cfg.Auth.Jwt))
	group.Get("/payouts", ListPendingPayouts(adminSvc, authSvc))
	group.Post("/payouts/approve", ApprovePayout(adminSvc, authSvc))
	group.Post("/payouts/:id/approve", ApprovePayoutByID(adminSvc, authSvc))
	group.Get("/users/:id/credit-transactions", ListCreditTransactions(adminSvc, authSvc))
}

// principal resolves the caller from the verified token. A token that
// carries no usable id yields uuid.Nil, which the admin gate rejects.
func principal(c *fiber.Ctx, authSvc *authsvc.Service) uuid.UUID {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return uuid.Nil
	}
	id, err := authSvc.GetCurrentUserID(token)
	if err != nil {
		log.Warnf("Failed to parse user ID from token: %v", err)
		return uuid.Nil
	}
	return id
}

func approve(c *fiber.Ctx, adminSvc *adminsvc.Service, authSvc *authsvc.Service, payoutID string) error {
	res, err := adminSvc.ApprovePayout(c.UserContext(), principal(c, authSvc), payoutID)
	if err != nil {
		return common.ProblemDetailsJSON(c, "Payout not approved", err)
	}
	return c.Status(fiber.StatusOK).JSON(res)
}

// ApprovePayout approves a pending payout request.
// @Summary Approve payout
// @Description Mark a PROCESSING payout as PROCESSED, debit the creator's credits and record an ADMIN_ADJUSTMENT ledger entry
// @Tags admin
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param request body ApprovePayoutInput true "Payout to approve"
// @Success 200 {object} adminsvc.ApproveResult
// @Failure 400 {object} common.ProblemDetails
// @Failure 401 {object} common.ProblemDetails
// @Failure 403 {object} common.ProblemDetails
// @Failure 404 {object} common.ProblemDetails
// @Failure 422 {object} common.ProblemDetails
// @Failure 500 {object} common.ProblemDetails
// @Router /admin/payouts/approve [post]
// @Security Bearer
func ApprovePayout(adminSvc *adminsvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[ApprovePayoutInput](c)
		if input == nil {
			return err
		}
		return approve(c, adminSvc, authSvc, input.PayoutID)
	}
}

// ApprovePayoutByID approves the payout named in the path.
// @Summary Approve payout by ID
// @Tags admin
// @Produce json
// @Param id path string true "Payout ID"
// @Success 200 {object} adminsvc.ApproveResult
// @Failure 401 {object} common.ProblemDetails
// @Failure 403 {object} common.ProblemDetails
// @Failure 404 {object} common.ProblemDetails
// @Failure 422 {object} common.ProblemDetails
// @Failure 500 {object} common.ProblemDetails
// @Router /admin/payouts/{id}/approve [post]
// @Security Bearer
func ApprovePayoutByID(adminSvc *adminsvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return approve(c, adminSvc, authSvc, c.Params("id"))
	}
}

// ListPendingPayouts lists payouts awaiting approval.
// @Summary List pending payouts
// @Tags admin
// @Produce json
// @Success 200 {object} common.Response
// @Failure 401 {object} common.ProblemDetails
// @Failure 403 {object} common.ProblemDetails
// @Router /admin/payouts [get]
// @Security Bearer
func ListPendingPayouts(adminSvc *adminsvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		payouts, err := adminSvc.ListPendingPayouts(c.UserContext(), principal(c, authSvc))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to list payouts", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Pending payouts", payouts)
	}
}

// ListCreditTransactions lists a user's credit ledger, newest first.
// @Summary List credit transactions
// @Tags admin
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} common.Response
// @Failure 401 {object} common.ProblemDetails
// @Failure 403 {object} common.ProblemDetails
// @Failure 404 {object} common.ProblemDetails
// @Router /admin/users/{id}/credit-transactions [get]
// @Security Bearer
func ListCreditTransactions(adminSvc *adminsvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		entries, err := adminSvc.ListCreditTransactions(c.UserContext(), principal(c, authSvc), c.Params("id"))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to list credit transactions", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Credit transactions", entries)
	}
}
