package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/nnypa/endorsement_service/internal/dto"
	"github.com/nnypa/endorsement_service/internal/helper/utils"
	"github.com/nnypa/endorsement_service/internal/services"
)

type AdminHandler struct {
	appSvc  services.ApplicationService
	userSvc services.UserService
}

func NewAdminHandler(appSvc services.ApplicationService, userSvc services.UserService) *AdminHandler {
	return &AdminHandler{appSvc: appSvc, userSvc: userSvc}
}

// GET /api/admin/applications
func (h *AdminHandler) ListApplications(ctx *fiber.Ctx) error {
	userID, _ := ctx.Locals("userID").(uint)
	limit, offset := pagination(ctx)

	apps, err := h.appSvc.ListAll(userID, limit, offset)
	if err != nil {
		return utils.ResponseFromError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, apps)
}

// GET /api/admin/profiles
func (h *AdminHandler) ListProfiles(ctx *fiber.Ctx) error {
	userID, _ := ctx.Locals("userID").(uint)
	limit, offset := pagination(ctx)

	profiles, err := h.userSvc.ListProfiles(userID, limit, offset)
	if err != nil {
		return utils.ResponseFromError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, profiles)
}

// POST /api/admin/applications/:appID/review
func (h *AdminHandler) Review(ctx *fiber.Ctx) error {
	userID, _ := ctx.Locals("userID").(uint)

	appID, err := strconv.ParseUint(ctx.Params("appID"), 10, 32)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid application id")
	}

	var requestBody dto.ReviewRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}

	if err := h.appSvc.Review(uint(appID), userID, requestBody); err != nil {
		return utils.ResponseFromError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{
		"application_id": uint(appID),
		"decision":       requestBody.Decision,
	})
}

// GET /api/admin/stats
func (h *AdminHandler) Stats(ctx *fiber.Ctx) error {
	userID, _ := ctx.Locals("userID").(uint)

	stats, err := h.appSvc.Stats(userID)
	if err != nil {
		return utils.ResponseFromError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, stats)
}

// GET /api/admin/applications/:appID/documents/:docType/url
func (h *AdminHandler) DocumentURL(ctx *fiber.Ctx) error {
	userID, _ := ctx.Locals("userID").(uint)

	appID, err := strconv.ParseUint(ctx.Params("appID"), 10, 32)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid application id")
	}

	res, err := h.appSvc.DocumentURL(userID, uint(appID), ctx.Params("docType"))
	if err != nil {
		return utils.ResponseFromError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, res)
}

func pagination(ctx *fiber.Ctx) (limit, offset int) {
	limit = ctx.QueryInt("limit", 50)
	offset = ctx.QueryInt("offset", 0)
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
