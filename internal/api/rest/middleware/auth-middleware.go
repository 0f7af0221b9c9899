package middleware

import (
	"strings"

	"github.com/SundayYogurt/application_service/internal/helper"
	"github.com/SundayYogurt/application_service/internal/helper/utils"
	"github.com/gofiber/fiber/v2"
)

func AuthMiddleware(auth helper.Auth) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		// 1) try cookie first
		tokenStr := strings.TrimSpace(ctx.Cookies("access_token"))

		// 2) fallback to Authorization header
		if tokenStr == "" {
			tokenStr = strings.TrimSpace(ctx.Get(fiber.HeaderAuthorization))
		}

		reviewer, err := auth.VerifyToken(tokenStr)
		if err != nil {
			return utils.ResponseError(ctx, fiber.StatusUnauthorized, "Not authorized: "+err.Error())
		}

		ctx.Locals("reviewer", reviewer)
		return ctx.Next()
	}
}

// ReviewerOnly admits sessions whose role may decide applications.
func ReviewerOnly() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		reviewer, err := helper.GetCurrentReviewer(ctx)
		if err != nil {
			return utils.ResponseError(ctx, fiber.StatusUnauthorized, "Not authorized")
		}

		switch strings.ToLower(reviewer.Role) {
		case helper.RoleAdmin, helper.RoleReviewer:
			return ctx.Next()
		}
		return utils.ResponseError(ctx, fiber.StatusForbidden, "Reviewer access required")
	}
}
