package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"twin-editor/internal/models"
	"twin-editor/internal/services"
)

type LibraryHandler struct {
	library *services.LibraryService
	logger  *zap.Logger
}

func NewLibraryHandler(library *services.LibraryService, logger *zap.Logger) *LibraryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LibraryHandler{library: library, logger: logger}
}

// ListAssets returns the asset catalog
// @Summary List library assets
// @Description Catalog shown in the editor sidebar. Model files are resolved to fetchable URLs.
// @Tags library
// @Produce json
// @Success 200 {array} models.LibraryAsset
// @Failure 502 {object} ErrorResponse
// @Router /library [get]
func (h *LibraryHandler) ListAssets(c *fiber.Ctx) error {
	assets, err := h.library.List(c.UserContext())
	if err != nil {
		return fail(c, h.logger, "Failed to list library assets", err)
	}
	if assets == nil {
		assets = []models.LibraryAsset{}
	}
	return c.JSON(assets)
}

// UploadAsset adds a model to the catalog
// @Summary Upload a library asset
// @Description Accepts a single model file (.glb, .gltf, .fbx, .obj, .dae, .stl) or an archive (.zip, .rar, .7z, .tar) holding exactly one model and its resources. Non-GLB models are converted to GLB when Assimp is installed.
// @Tags library
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Model file or archive"
// @Param name formData string false "Display name (defaults to the file name)"
// @Param category formData string false "MACHINE, SENSOR, INFRASTRUCTURE or OTHER"
// @Param default_scale formData number false "Initial uniform scale"
// @Success 201 {object} models.LibraryAsset
// @Failure 400 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse "Unsupported file or archive without a single model"
// @Failure 502 {object} ErrorResponse
// @Router /library [post]
func (h *LibraryHandler) UploadAsset(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "file is required")
	}

	upload := models.LibraryUpload{
		Name:     c.FormValue("name"),
		Category: models.AssetCategory(c.FormValue("category")),
	}
	if raw := c.FormValue("default_scale"); raw != "" {
		scale, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return badRequest(c, "default_scale must be a number")
		}
		upload.DefaultScale = scale
	}

	src, err := fileHeader.Open()
	if err != nil {
		return fail(c, h.logger, "Could not open uploaded file", err)
	}
	defer src.Close()

	asset, err := h.library.Upload(c.UserContext(), upload, fileHeader.Filename, src)
	if err != nil {
		return fail(c, h.logger, "Failed to upload library asset", err)
	}
	return c.Status(fiber.StatusCreated).JSON(asset)
}

// DeleteAsset removes a catalog entry
// @Summary Delete a library asset
// @Tags library
// @Param assetId path string true "Library asset ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /library/{assetId} [delete]
func (h *LibraryHandler) DeleteAsset(c *fiber.Ctx) error {
	if err := h.library.Delete(c.UserContext(), c.Params("assetId")); err != nil {
		return fail(c, h.logger, "Failed to delete library asset", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
