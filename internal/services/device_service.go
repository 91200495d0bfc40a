package services

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"twin-editor/internal/models"
)

// ErrInvalidDevice is returned when required device fields are blank.
var ErrInvalidDevice = errors.New("device name and serial number are required")

// DeviceService lists and manages the IoT device registry used for bindings.
type DeviceService struct {
	backend DeviceBackend
	cache   *CatalogCache
	logger  *zap.Logger
}

func NewDeviceService(backend DeviceBackend, catalog *CatalogCache, logger *zap.Logger) *DeviceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DeviceService{
		backend: backend,
		cache:   catalog,
		logger:  logger.With(zap.String("component", "devices")),
	}
}

// List returns the registry, possibly from cache.
func (s *DeviceService) List(ctx context.Context) ([]models.Device, error) {
	devices, err := readThrough(ctx, s.cache, devicesCacheKey, s.backend.Devices)
	if err != nil {
		return nil, errors.Wrap(err, "list devices")
	}
	return devices, nil
}

// Create registers a device. The backend generates its access token.
func (s *DeviceService) Create(ctx context.Context, in models.CreateDeviceRequest) (models.Device, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.SerialNumber = strings.TrimSpace(in.SerialNumber)
	if in.Name == "" || in.SerialNumber == "" {
		return models.Device{}, ErrInvalidDevice
	}

	device, err := s.backend.CreateDevice(ctx, in)
	if err != nil {
		return models.Device{}, errors.Wrap(err, "create device")
	}
	s.cache.invalidate(ctx, devicesCacheKey)
	s.logger.Info("Created device",
		zap.String("device_id", device.ID.String()),
		zap.String("serial_number", device.SerialNumber),
	)
	return device, nil
}

func (s *DeviceService) Delete(ctx context.Context, id string) error {
	if err := s.backend.DeleteDevice(ctx, id); err != nil {
		return errors.Wrapf(err, "delete device %s", id)
	}
	s.cache.invalidate(ctx, devicesCacheKey)
	s.logger.Info("Deleted device", zap.String("device_id", id))
	return nil
}
