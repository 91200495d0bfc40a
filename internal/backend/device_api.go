package backend

import (
	"context"

	"github.com/go-resty/resty/v2"

	"twin-editor/internal/models"
)

const devicesPath = "devices/devices/"

// Devices lists the device registry, including each device's latest telemetry.
func (c *Client) Devices(ctx context.Context) ([]models.Device, error) {
	return fetchList[models.Device](ctx, c, "list devices", c.httpClient.R(), devicesPath)
}

// CreateDevice registers a device. A duplicate serial number is reported by
// the backend as a validation error.
func (c *Client) CreateDevice(ctx context.Context, in models.CreateDeviceRequest) (models.Device, error) {
	req := c.httpClient.R().
		SetHeader("Content-Type", "application/json").
		SetBody(in)

	var device models.Device
	err := c.do(ctx, "create device", req, resty.MethodPost, devicesPath, &device)
	return device, err
}

func (c *Client) DeleteDevice(ctx context.Context, id string) error {
	return c.do(ctx, "delete device", c.httpClient.R(), resty.MethodDelete, itemPath(devicesPath, id), nil)
}
