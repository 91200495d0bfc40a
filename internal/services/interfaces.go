package services

import (
	"context"
	"io"

	"twin-editor/internal/models"
)

// SceneBackend persists the placed assets of a plant.
type SceneBackend interface {
	PlantAssets(ctx context.Context, plantID string) ([]models.PlantAssetRecord, error)
	SaveScene(ctx context.Context, payload models.SaveSceneRequest) error
}

// LibraryBackend stores the asset catalog.
type LibraryBackend interface {
	LibraryAssets(ctx context.Context) ([]models.LibraryAsset, error)
	LibraryAsset(ctx context.Context, id string) (models.LibraryAsset, error)
	CreateLibraryAsset(ctx context.Context, upload models.LibraryUpload, filename string, file io.Reader) (models.LibraryAsset, error)
	DeleteLibraryAsset(ctx context.Context, id string) error
}

// DeviceBackend is the IoT device registry.
type DeviceBackend interface {
	Devices(ctx context.Context) ([]models.Device, error)
	CreateDevice(ctx context.Context, in models.CreateDeviceRequest) (models.Device, error)
	DeleteDevice(ctx context.Context, id string) error
}

// ModelResolver turns a library file reference into a fetchable URL.
type ModelResolver interface {
	ResolveModelURL(ctx context.Context, file string) (string, error)
}

// ModelConverter produces a GLB file from another model format.
type ModelConverter interface {
	ConvertToGLB(ctx context.Context, inputPath string) (string, error)
}

type passthroughResolver struct{}

func (passthroughResolver) ResolveModelURL(_ context.Context, file string) (string, error) {
	return file, nil
}
