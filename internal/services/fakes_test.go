package services

import (
	"context"
	"fmt"
	"io"
	"sync"

	"twin-editor/internal/models"
	"twin-editor/internal/scene"
)

type fakeSceneBackend struct {
	mu      sync.Mutex
	records []models.PlantAssetRecord
	loadErr error
	saveErr error
	saved   []models.SaveSceneRequest
	// onSave runs while the save is in flight.
	onSave func()
}

func (f *fakeSceneBackend) PlantAssets(_ context.Context, _ string) ([]models.PlantAssetRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.records, nil
}

func (f *fakeSceneBackend) SaveScene(_ context.Context, payload models.SaveSceneRequest) error {
	if f.onSave != nil {
		f.onSave()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, payload)
	return nil
}

type fakeLibraryBackend struct {
	mu      sync.Mutex
	assets  []models.LibraryAsset
	lists   int
	created []createdAsset
	deleted []string
	err     error
}

type createdAsset struct {
	upload   models.LibraryUpload
	filename string
	data     string
}

func (f *fakeLibraryBackend) LibraryAssets(_ context.Context) ([]models.LibraryAsset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists++
	if f.err != nil {
		return nil, f.err
	}
	return append([]models.LibraryAsset(nil), f.assets...), nil
}

func (f *fakeLibraryBackend) LibraryAsset(_ context.Context, id string) (models.LibraryAsset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.assets {
		if a.ID.String() == id {
			return a, nil
		}
	}
	return models.LibraryAsset{}, fmt.Errorf("asset %s not found", id)
}

func (f *fakeLibraryBackend) CreateLibraryAsset(_ context.Context, upload models.LibraryUpload, filename string, file io.Reader) (models.LibraryAsset, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return models.LibraryAsset{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return models.LibraryAsset{}, f.err
	}
	f.created = append(f.created, createdAsset{upload: upload, filename: filename, data: string(data)})
	asset := models.LibraryAsset{
		ID:           models.Ref(fmt.Sprint(100 + len(f.created))),
		Name:         upload.Name,
		File:         "models/" + filename,
		Category:     upload.Category,
		DefaultScale: upload.DefaultScale,
	}
	f.assets = append(f.assets, asset)
	return asset, nil
}

func (f *fakeLibraryBackend) DeleteLibraryAsset(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeDeviceBackend struct {
	mu      sync.Mutex
	devices []models.Device
	lists   int
	err     error
}

func (f *fakeDeviceBackend) Devices(_ context.Context) ([]models.Device, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists++
	if f.err != nil {
		return nil, f.err
	}
	return append([]models.Device(nil), f.devices...), nil
}

func (f *fakeDeviceBackend) CreateDevice(_ context.Context, in models.CreateDeviceRequest) (models.Device, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return models.Device{}, f.err
	}
	d := models.Device{
		ID:           models.Ref(fmt.Sprint(len(f.devices) + 1)),
		Name:         in.Name,
		SerialNumber: in.SerialNumber,
		Token:        "tok-" + in.SerialNumber,
	}
	f.devices = append(f.devices, d)
	return d, nil
}

func (f *fakeDeviceBackend) DeleteDevice(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	kept := f.devices[:0]
	for _, d := range f.devices {
		if d.ID.String() != id {
			kept = append(kept, d)
		}
	}
	f.devices = kept
	return nil
}

type prefixResolver struct{ prefix string }

func (r prefixResolver) ResolveModelURL(_ context.Context, file string) (string, error) {
	if file == "" {
		return "", nil
	}
	return r.prefix + file, nil
}

type failingResolver struct{}

func (failingResolver) ResolveModelURL(context.Context, string) (string, error) {
	return "", fmt.Errorf("presign failed")
}

func sequentialIDs() scene.Option {
	var mu sync.Mutex
	n := 0
	return scene.WithIDGenerator(func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("id-%d", n)
	})
}

func ptr[T any](v T) *T { return &v }
