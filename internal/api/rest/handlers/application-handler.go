package handlers

import (
	"github.com/SundayYogurt/application_service/internal/api/rest/middleware"
	"github.com/SundayYogurt/application_service/internal/apperr"
	"github.com/SundayYogurt/application_service/internal/dto"
	"github.com/SundayYogurt/application_service/internal/helper"
	"github.com/SundayYogurt/application_service/internal/helper/utils"
	"github.com/SundayYogurt/application_service/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ApplicationHandler struct {
	intake   services.IntakeService
	decision services.DecisionService
	stats    services.StatsService
	log      *zap.Logger
}

func NewApplicationHandler(
	intake services.IntakeService,
	decision services.DecisionService,
	stats services.StatsService,
	log *zap.Logger,
) *ApplicationHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &ApplicationHandler{intake: intake, decision: decision, stats: stats, log: log}
}

// SetupRoutes mounts the application endpoints. submitLimiter guards the public
// submit route only; pass nil to disable it.
func (h *ApplicationHandler) SetupRoutes(app *fiber.App, auth helper.Auth, submitLimiter fiber.Handler) {
	api := app.Group("/api")
	apps := api.Group("/applications")

	if submitLimiter == nil {
		submitLimiter = func(c *fiber.Ctx) error { return c.Next() }
	}
	apps.Post("/", submitLimiter, h.Submit)

	// reviewer session
	authn := middleware.AuthMiddleware(auth)
	reviewerOnly := middleware.ReviewerOnly()
	apps.Get("/", authn, reviewerOnly, h.List)
	apps.Get("/stats", authn, reviewerOnly, h.Stats)
	apps.Get("/:id", authn, reviewerOnly, h.Get)
	apps.Put("/:id/approve", authn, reviewerOnly, h.Approve)
	apps.Put("/:id/reject", authn, reviewerOnly, h.Reject)
}

// Submit godoc
// @Summary Submit an application
// @Tags Applications
// @Accept json
// @Produce json
// @Param body body dto.SubmitApplicationRequest true "registration form"
// @Success 201 {object} dto.SubmitApplicationResponse
// @Failure 400 {object} dto.APIError
// @Failure 409 {object} dto.APIError
// @Failure 503 {object} dto.APIError
// @Router /api/applications [post]
func (h *ApplicationHandler) Submit(ctx *fiber.Ctx) error {
	var req dto.SubmitApplicationRequest
	if err := ctx.BodyParser(&req); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}

	summary, err := h.intake.Submit(ctx.UserContext(), req)
	if err != nil {
		return h.fail(ctx, "submit", err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusCreated,
		"Application submitted successfully! Please wait for admin approval.",
		fiber.Map{"application": summary})
}

// List godoc
// @Summary List applications
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Param status query string false "pending | approved | rejected"
// @Param limit query int false "page size (default 50, max 200)"
// @Param offset query int false "rows to skip"
// @Success 200 {object} dto.ListApplicationsResponse
// @Failure 400 {object} dto.APIError
// @Failure 401 {object} dto.APIError
// @Router /api/applications [get]
func (h *ApplicationHandler) List(ctx *fiber.Ctx) error {
	var q dto.ListApplicationsQuery
	if err := ctx.QueryParser(&q); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Invalid query parameters")
	}

	apps, err := h.decision.List(ctx.UserContext(), q)
	if err != nil {
		return h.fail(ctx, "list", err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "", fiber.Map{"applications": apps})
}

// Get godoc
// @Summary Get one application
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Param id path string true "application id"
// @Success 200 {object} dto.GetApplicationResponse
// @Failure 404 {object} dto.APIError
// @Router /api/applications/{id} [get]
func (h *ApplicationHandler) Get(ctx *fiber.Ctx) error {
	id, err := parseID(ctx)
	if err != nil {
		return h.fail(ctx, "get", err)
	}

	app, err := h.decision.Get(ctx.UserContext(), id)
	if err != nil {
		return h.fail(ctx, "get", err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "", fiber.Map{"application": app})
}

// Stats godoc
// @Summary Application counts per status
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.StatsResponse
// @Failure 503 {object} dto.APIError
// @Router /api/applications/stats [get]
func (h *ApplicationHandler) Stats(ctx *fiber.Ctx) error {
	stats, err := h.stats.Compute(ctx.UserContext())
	if err != nil {
		return h.fail(ctx, "stats", err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "", fiber.Map{"stats": stats})
}

// Approve godoc
// @Summary Approve a pending application
// @Description Creates the account and queues the acceptance email.
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Param id path string true "application id"
// @Success 200 {object} dto.ApproveApplicationResponse
// @Failure 404 {object} dto.APIError
// @Failure 409 {object} dto.APIError
// @Failure 503 {object} dto.APIError
// @Router /api/applications/{id}/approve [put]
func (h *ApplicationHandler) Approve(ctx *fiber.Ctx) error {
	id, err := parseID(ctx)
	if err != nil {
		return h.fail(ctx, "approve", err)
	}
	reviewer, err := helper.GetCurrentReviewer(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "Not authorized")
	}

	user, err := h.decision.Approve(ctx.UserContext(), id, reviewer, decisionMeta(ctx))
	if err != nil {
		return h.fail(ctx, "approve", err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "Application approved successfully",
		fiber.Map{"user": user})
}

// Reject godoc
// @Summary Reject a pending application
// @Tags Applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "application id"
// @Param body body dto.RejectRequest false "optional email check and reason"
// @Success 200 {object} dto.APIMessage
// @Failure 400 {object} dto.APIError
// @Failure 404 {object} dto.APIError
// @Failure 409 {object} dto.APIError
// @Router /api/applications/{id}/reject [put]
func (h *ApplicationHandler) Reject(ctx *fiber.Ctx) error {
	id, err := parseID(ctx)
	if err != nil {
		return h.fail(ctx, "reject", err)
	}
	reviewer, err := helper.GetCurrentReviewer(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "Not authorized")
	}

	var req dto.RejectRequest
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(&req); err != nil {
			return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
		}
	}

	if err := h.decision.Reject(ctx.UserContext(), id, reviewer, req, decisionMeta(ctx)); err != nil {
		return h.fail(ctx, "reject", err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "Application rejected", nil)
}

func (h *ApplicationHandler) fail(ctx *fiber.Ctx, op string, err error) error {
	status := utils.StatusOf(err)
	if status >= fiber.StatusInternalServerError {
		h.log.Error("request failed", zap.String("op", op), zap.Int("status", status), zap.Error(err))
	}
	return utils.ResponseAppError(ctx, err)
}

func parseID(ctx *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		verr := apperr.NewValidationError()
		verr.Add("id", "id must be a valid UUID")
		return uuid.Nil, verr
	}
	return id, nil
}

func decisionMeta(ctx *fiber.Ctx) dto.DecisionMeta {
	return dto.DecisionMeta{
		IPAddress: ctx.IP(),
		UserAgent: ctx.Get(fiber.HeaderUserAgent),
	}
}
