package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"twin-editor/internal/models"
	"twin-editor/internal/services"
)

type DeviceHandler struct {
	devices *services.DeviceService
	logger  *zap.Logger
}

func NewDeviceHandler(devices *services.DeviceService, logger *zap.Logger) *DeviceHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DeviceHandler{devices: devices, logger: logger}
}

// ListDevices returns the device registry
// @Summary List devices
// @Description Devices available for telemetry bindings, with their latest telemetry.
// @Tags devices
// @Produce json
// @Success 200 {array} models.Device
// @Failure 502 {object} ErrorResponse
// @Router /devices [get]
func (h *DeviceHandler) ListDevices(c *fiber.Ctx) error {
	devices, err := h.devices.List(c.UserContext())
	if err != nil {
		return fail(c, h.logger, "Failed to list devices", err)
	}
	if devices == nil {
		devices = []models.Device{}
	}
	return c.JSON(devices)
}

// CreateDevice registers a device
// @Summary Register a device
// @Description The response carries the access token the device uses to push telemetry.
// @Tags devices
// @Accept json
// @Produce json
// @Param device body models.CreateDeviceRequest true "Device data"
// @Success 201 {object} models.Device
// @Failure 400 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse "Missing fields or duplicate serial number"
// @Failure 502 {object} ErrorResponse
// @Router /devices [post]
func (h *DeviceHandler) CreateDevice(c *fiber.Ctx) error {
	var req models.CreateDeviceRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request format")
	}
	device, err := h.devices.Create(c.UserContext(), req)
	if err != nil {
		return fail(c, h.logger, "Failed to create device", err)
	}
	return c.Status(fiber.StatusCreated).JSON(device)
}

// DeleteDevice removes a device
// @Summary Delete a device
// @Tags devices
// @Param deviceId path string true "Device ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /devices/{deviceId} [delete]
func (h *DeviceHandler) DeleteDevice(c *fiber.Ctx) error {
	if err := h.devices.Delete(c.UserContext(), c.Params("deviceId")); err != nil {
		return fail(c, h.logger, "Failed to delete device", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
