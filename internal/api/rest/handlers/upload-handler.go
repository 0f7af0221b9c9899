package handlers

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/SundayYogurt/application_service/internal/helper/utils"
	"github.com/SundayYogurt/application_service/internal/interfaces"
	pkgutils "github.com/SundayYogurt/application_service/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	profileImageFolder   = "amiable/profile_images"
	maxProfileImageSize  = 5 * 1024 * 1024 //5MB
	profileImageMaxWidth = 1024
)

var allowedImageExt = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true}

type UploadHandler struct {
	uploader interfaces.Uploader
	log      *zap.Logger
}

func NewUploadHandler(uploader interfaces.Uploader, log *zap.Logger) *UploadHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &UploadHandler{uploader: uploader, log: log}
}

func (h *UploadHandler) SetupRoutes(app *fiber.App, limiter fiber.Handler) {
	if limiter == nil {
		limiter = func(c *fiber.Ctx) error { return c.Next() }
	}
	app.Post("/api/uploads/profile-image", limiter, h.UploadProfileImage)
}

// UploadProfileImage godoc
// @Summary Upload a profile image
// @Description Returns the URL to send as profileImage when submitting an application.
// @Tags Uploads
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "jpg/jpeg/png/webp, max 5MB"
// @Success 201 {object} dto.UploadResponse
// @Failure 400 {object} dto.APIError
// @Failure 503 {object} dto.APIError
// @Router /api/uploads/profile-image [post]
func (h *UploadHandler) UploadProfileImage(c *fiber.Ctx) error {
	if h.uploader == nil {
		return utils.ResponseError(c, fiber.StatusServiceUnavailable, "Upload service not configured")
	}

	file, err := c.FormFile("file")
	if err != nil {
		return utils.ResponseError(c, fiber.StatusBadRequest, "file is required")
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedImageExt[ext] {
		return utils.ResponseError(c, fiber.StatusBadRequest, "only jpg/jpeg/png/webp allowed")
	}
	if file.Size > maxProfileImageSize {
		return utils.ResponseError(c, fiber.StatusBadRequest, "file too large (max 5MB)")
	}

	f, err := file.Open()
	if err != nil {
		return utils.ResponseError(c, fiber.StatusInternalServerError, "cannot open uploaded file")
	}
	defer f.Close()

	raw, err := pkgutils.ReadAllLimit(f, maxProfileImageSize)
	if errors.Is(err, pkgutils.ErrTooLarge) {
		return utils.ResponseError(c, fiber.StatusBadRequest, "file too large (max 5MB)")
	}
	if err != nil {
		return utils.ResponseError(c, fiber.StatusBadRequest, "cannot read uploaded file")
	}
	img, err := pkgutils.NormalizeToJPG(raw, profileImageMaxWidth, 85)
	if err != nil {
		return utils.ResponseError(c, fiber.StatusBadRequest, "unsupported image")
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), 20*time.Second)
	defer cancel()

	name := uuid.NewString()
	url, err := h.uploader.UploadBytes(ctx, profileImageFolder, name, img)
	if err != nil {
		h.log.Error("profile image upload failed", zap.Error(err))
		return utils.ResponseError(c, fiber.StatusBadGateway, "image upload failed")
	}

	return utils.ResponseSuccess(c, fiber.StatusCreated, "", fiber.Map{
		"url":      url,
		"publicId": profileImageFolder + "/" + name,
	})
}
