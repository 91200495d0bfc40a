package handlers

import (
	"github.com/gofiber/fiber/v2"

	"twin-editor/internal/services"
	"twin-editor/internal/services/cache"
)

// HealthResponse reports liveness and open sessions.
type HealthResponse struct {
	Status   string            `json:"status" example:"ok"`
	Sessions []string          `json:"sessions"`
	Cache    *cache.LayerStats `json:"cache,omitempty"`
}

// Health reports liveness
// @Summary Health check
// @Tags system
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func Health(scenes *services.SceneService, catalog *services.CatalogCache) fiber.Handler {
	return func(c *fiber.Ctx) error {
		resp := HealthResponse{Status: "ok", Sessions: scenes.PlantIDs()}
		if stats, ok := catalog.Stats(); ok {
			resp.Cache = &stats
		}
		return c.JSON(resp)
	}
}

// Register mounts the editor API on router.
func Register(router fiber.Router, editor *EditorHandler, library *LibraryHandler, devices *DeviceHandler) {
	router.Get("/library", library.ListAssets)
	router.Post("/library", library.UploadAsset)
	router.Delete("/library/:assetId", library.DeleteAsset)

	router.Get("/devices", devices.ListDevices)
	router.Post("/devices", devices.CreateDevice)
	router.Delete("/devices/:deviceId", devices.DeleteDevice)

	plants := router.Group("/plants/:plantId")
	plants.Get("/scene", editor.GetScene)
	plants.Delete("/scene", editor.CloseScene)
	plants.Post("/scene/load", editor.LoadScene)
	plants.Post("/scene/save", editor.SaveScene)
	plants.Post("/objects", editor.AddObject)
	plants.Patch("/objects/:objectId", editor.UpdateObject)
	plants.Delete("/objects/:objectId", editor.RemoveObject)
	plants.Put("/objects/:objectId/bindings/:property", editor.SetBinding)
	plants.Put("/selection", editor.Select)
	plants.Get("/live", editor.LiveState)
}
