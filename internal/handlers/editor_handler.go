package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"go.uber.org/zap"

	"twin-editor/internal/models"
	"twin-editor/internal/scene"
	"twin-editor/internal/services"
	"twin-editor/internal/telemetry"
)

type EditorHandler struct {
	scenes  *services.SceneService
	library *services.LibraryService
	logger  *zap.Logger
}

func NewEditorHandler(scenes *services.SceneService, library *services.LibraryService, logger *zap.Logger) *EditorHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EditorHandler{scenes: scenes, library: library, logger: logger}
}

// SceneResponse is the full editor state of one plant.
type SceneResponse struct {
	Session    scene.SessionInfo    `json:"session"`
	Objects    []models.PlacedAsset `json:"objects"`
	SelectedID *string              `json:"selectedId"`
}

// AddObjectRequest is the payload of dropping a library asset into the
// scene. Either the full asset or its id must be given.
type AddObjectRequest struct {
	AssetID *models.Ref          `json:"assetId"`
	Asset   *models.LibraryAsset `json:"asset"`
}

type BindingRequest struct {
	Field string `json:"field" example:"rpm"`
}

type SelectionRequest struct {
	ID *string `json:"id"`
}

// plantParam copies the plant id out of the request buffer; it outlives the
// request as a session key and metric label.
func plantParam(c *fiber.Ctx) string {
	return utils.CopyString(c.Params("plantId"))
}

func sceneResponse(session *scene.Session) SceneResponse {
	resp := SceneResponse{
		Session: session.Info(),
		Objects: session.Store.Objects(),
	}
	if obj, ok := session.Store.Selected(); ok {
		resp.SelectedID = &obj.ID
	}
	return resp
}

// GetScene returns the editor state of a plant
// @Summary Get the editor scene of a plant
// @Description Objects, current selection and unsaved-changes flag. Opens an empty session on first access.
// @Tags scene
// @Produce json
// @Param plantId path string true "Plant ID"
// @Success 200 {object} SceneResponse
// @Router /plants/{plantId}/scene [get]
func (h *EditorHandler) GetScene(c *fiber.Ctx) error {
	session := h.scenes.Session(plantParam(c))
	return c.JSON(sceneResponse(session))
}

// LoadScene replaces the session with the persisted scene
// @Summary Load a plant's scene from the backend
// @Description Replaces all objects with the plant's saved assets. On failure the session is left unchanged.
// @Tags scene
// @Produce json
// @Param plantId path string true "Plant ID"
// @Success 200 {object} SceneResponse
// @Failure 502 {object} ErrorResponse "Backend unreachable or returned an unexpected body"
// @Router /plants/{plantId}/scene/load [post]
func (h *EditorHandler) LoadScene(c *fiber.Ctx) error {
	plantID := plantParam(c)
	if _, err := h.scenes.Load(c.UserContext(), plantID); err != nil {
		return fail(c, h.logger, "Failed to load scene", err)
	}
	return c.JSON(sceneResponse(h.scenes.Session(plantID)))
}

// SaveScene persists the session
// @Summary Save a plant's scene to the backend
// @Description Sends every object in one batch. The session stays dirty if the save fails.
// @Tags scene
// @Produce json
// @Param plantId path string true "Plant ID"
// @Success 200 {object} scene.SessionInfo
// @Failure 404 {object} ErrorResponse "No session for plant"
// @Failure 422 {object} ErrorResponse "Backend rejected the batch"
// @Failure 502 {object} ErrorResponse "Backend unreachable"
// @Router /plants/{plantId}/scene/save [post]
func (h *EditorHandler) SaveScene(c *fiber.Ctx) error {
	info, err := h.scenes.SaveSession(c.UserContext(), plantParam(c))
	if err != nil {
		return fail(c, h.logger, "Failed to save scene", err)
	}
	return c.JSON(info)
}

// CloseScene discards the session
// @Summary Close a plant's editor session
// @Description Drops the in-memory scene including unsaved changes.
// @Tags scene
// @Param plantId path string true "Plant ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /plants/{plantId}/scene [delete]
func (h *EditorHandler) CloseScene(c *fiber.Ctx) error {
	if !h.scenes.Close(plantParam(c)) {
		return fail(c, h.logger, "Failed to close scene", services.ErrSessionNotFound)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AddObject drops a library asset into the scene
// @Summary Place a library asset
// @Description Creates a new object at the origin with the asset's default scale.
// @Tags objects
// @Accept json
// @Produce json
// @Param plantId path string true "Plant ID"
// @Param payload body AddObjectRequest true "Dropped asset"
// @Success 201 {object} models.PlacedAsset
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Unknown library asset"
// @Router /plants/{plantId}/objects [post]
func (h *EditorHandler) AddObject(c *fiber.Ctx) error {
	var req AddObjectRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request format")
	}

	var asset models.LibraryAsset
	switch {
	case req.Asset != nil:
		asset = *req.Asset
	case req.AssetID != nil && !req.AssetID.IsZero():
		found, err := h.library.Get(c.UserContext(), req.AssetID.String())
		if err != nil {
			return fail(c, h.logger, "Failed to look up library asset", err)
		}
		asset = found
	default:
		return badRequest(c, "asset or assetId is required")
	}

	obj := h.scenes.AddObject(plantParam(c), asset)
	return c.Status(fiber.StatusCreated).JSON(obj)
}

// UpdateObject applies a partial update
// @Summary Update an object's transform or bindings
// @Description Only the given fields change. Vectors are replaced as a whole; "boundDeviceId": null unbinds.
// @Tags objects
// @Accept json
// @Produce json
// @Param plantId path string true "Plant ID"
// @Param objectId path string true "Object ID"
// @Param patch body models.ObjectPatch true "Fields to change"
// @Success 200 {object} models.PlacedAsset
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /plants/{plantId}/objects/{objectId} [patch]
func (h *EditorHandler) UpdateObject(c *fiber.Ctx) error {
	var patch models.ObjectPatch
	if err := c.BodyParser(&patch); err != nil {
		return badRequest(c, "Invalid request format: "+err.Error())
	}
	if err := patch.Validate(); err != nil {
		return badRequest(c, err.Error())
	}

	obj, err := h.scenes.UpdateObject(plantParam(c), c.Params("objectId"), patch)
	if err != nil {
		return fail(c, h.logger, "Failed to update object", err)
	}
	return c.JSON(obj)
}

// SetBinding binds one visual property to a telemetry field
// @Summary Bind a visual property to a telemetry field
// @Description An empty field removes the binding.
// @Tags objects
// @Accept json
// @Produce json
// @Param plantId path string true "Plant ID"
// @Param objectId path string true "Object ID"
// @Param property path string true "Visual property" Enums(rotation_y, color, scale_y, visible)
// @Param binding body BindingRequest true "Telemetry field"
// @Success 200 {object} models.PlacedAsset
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /plants/{plantId}/objects/{objectId}/bindings/{property} [put]
func (h *EditorHandler) SetBinding(c *fiber.Ctx) error {
	property := models.VisualProperty(utils.CopyString(c.Params("property")))
	if !property.Valid() {
		return badRequest(c, "unknown visual property "+string(property))
	}
	var req BindingRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request format")
	}

	obj, err := h.scenes.SetTelemetryBinding(plantParam(c), c.Params("objectId"), property, strings.TrimSpace(req.Field))
	if err != nil {
		return fail(c, h.logger, "Failed to set telemetry binding", err)
	}
	return c.JSON(obj)
}

// RemoveObject deletes an object
// @Summary Remove an object from the scene
// @Tags objects
// @Param plantId path string true "Plant ID"
// @Param objectId path string true "Object ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /plants/{plantId}/objects/{objectId} [delete]
func (h *EditorHandler) RemoveObject(c *fiber.Ctx) error {
	if err := h.scenes.RemoveObject(plantParam(c), c.Params("objectId")); err != nil {
		return fail(c, h.logger, "Failed to remove object", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Select changes the selection
// @Summary Select an object or clear the selection
// @Tags scene
// @Accept json
// @Produce json
// @Param plantId path string true "Plant ID"
// @Param selection body SelectionRequest true "Object ID or null"
// @Success 200 {object} SceneResponse
// @Failure 404 {object} ErrorResponse
// @Router /plants/{plantId}/selection [put]
func (h *EditorHandler) Select(c *fiber.Ctx) error {
	var req SelectionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request format")
	}
	id := ""
	if req.ID != nil {
		id = *req.ID
	}

	plantID := plantParam(c)
	if err := h.scenes.Select(plantID, id); err != nil {
		return fail(c, h.logger, "Failed to change selection", err)
	}
	session, err := h.scenes.Lookup(plantID)
	if err != nil {
		return fail(c, h.logger, "Failed to change selection", err)
	}
	return c.JSON(sceneResponse(session))
}

// LiveState resolves device-driven visuals
// @Summary Live visual state of bound objects
// @Description Applies each object's telemetry mapping to its device's latest telemetry.
// @Tags scene
// @Produce json
// @Param plantId path string true "Plant ID"
// @Success 200 {array} telemetry.VisualState
// @Failure 404 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /plants/{plantId}/live [get]
func (h *EditorHandler) LiveState(c *fiber.Ctx) error {
	states, err := h.scenes.LiveState(c.UserContext(), plantParam(c))
	if err != nil {
		return fail(c, h.logger, "Failed to resolve live state", err)
	}
	if states == nil {
		states = []telemetry.VisualState{}
	}
	return c.JSON(states)
}
