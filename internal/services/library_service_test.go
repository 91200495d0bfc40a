package services

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"twin-editor/internal/conversion"
	"twin-editor/internal/extraction"
	"twin-editor/internal/metrics"
	"twin-editor/internal/models"
	"twin-editor/internal/services/caches"
)

// copyConverter "converts" by copying the input next to it as .glb.
type copyConverter struct{ calls int }

func (c *copyConverter) ConvertToGLB(_ context.Context, in string) (string, error) {
	c.calls++
	data, err := os.ReadFile(in)
	if err != nil {
		return "", err
	}
	out := strings.TrimSuffix(in, filepath.Ext(in)) + ".glb"
	return out, os.WriteFile(out, append([]byte("glb:"), data...), 0o644)
}

type unavailableConverter struct{}

func (unavailableConverter) ConvertToGLB(context.Context, string) (string, error) {
	return "", conversion.ErrUnavailable
}

func newCatalog() *CatalogCache {
	return NewCatalogCache(caches.NewMemoryCache(), time.Minute, metrics.NewCollector(prometheus.NewRegistry()), nil)
}

func zipBytes(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, data := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(data))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestLibraryList_CachesAndResolves(t *testing.T) {
	lb := &fakeLibraryBackend{assets: []models.LibraryAsset{{ID: "1", Name: "Pump", File: "pump.glb"}}}
	svc := NewLibraryService(lb, prefixResolver{prefix: "https://cdn/"}, nil, newCatalog(), nil)

	first, err := svc.List(context.Background())
	require.NoError(t, err)
	second, err := svc.List(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, lb.lists)
	assert.Equal(t, "https://cdn/pump.glb", first[0].File)
	assert.Equal(t, first, second)
}

func TestLibraryList_WithoutCacheHitsBackend(t *testing.T) {
	lb := &fakeLibraryBackend{assets: []models.LibraryAsset{{ID: "1", Name: "Pump"}}}
	svc := NewLibraryService(lb, nil, nil, nil, nil)

	_, err := svc.List(context.Background())
	require.NoError(t, err)
	_, err = svc.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, lb.lists)
}

func TestLibraryList_ErrorIsNotCached(t *testing.T) {
	lb := &fakeLibraryBackend{err: errors.New("down")}
	svc := NewLibraryService(lb, nil, nil, newCatalog(), nil)

	_, err := svc.List(context.Background())
	require.Error(t, err)

	lb.err = nil
	lb.assets = []models.LibraryAsset{{ID: "1", Name: "Pump"}}
	assets, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, assets, 1)
}

func TestLibraryUpload_GLBGoesStraightToBackend(t *testing.T) {
	lb := &fakeLibraryBackend{}
	conv := &copyConverter{}
	svc := NewLibraryService(lb, nil, conv, newCatalog(), nil)

	asset, err := svc.Upload(context.Background(), models.LibraryUpload{Category: "sensor"}, "probe.glb", strings.NewReader("glTF"))
	require.NoError(t, err)

	assert.Zero(t, conv.calls)
	require.Len(t, lb.created, 1)
	assert.Equal(t, "probe.glb", lb.created[0].filename)
	assert.Equal(t, "glTF", lb.created[0].data)
	assert.Equal(t, "probe", asset.Name)
	assert.Equal(t, models.CategorySensor, asset.Category)
}

func TestLibraryUpload_ConvertsOtherFormats(t *testing.T) {
	lb := &fakeLibraryBackend{}
	conv := &copyConverter{}
	svc := NewLibraryService(lb, nil, conv, newCatalog(), nil)

	_, err := svc.Upload(context.Background(), models.LibraryUpload{Name: "Robot arm"}, "arm.fbx", strings.NewReader("fbx"))
	require.NoError(t, err)

	assert.Equal(t, 1, conv.calls)
	require.Len(t, lb.created, 1)
	assert.Equal(t, "arm.glb", lb.created[0].filename)
	assert.Equal(t, "glb:fbx", lb.created[0].data)
	assert.Equal(t, models.CategoryOther, lb.created[0].upload.Category)
}

func TestLibraryUpload_FallsBackWhenConverterMissing(t *testing.T) {
	lb := &fakeLibraryBackend{}
	svc := NewLibraryService(lb, nil, unavailableConverter{}, newCatalog(), nil)

	_, err := svc.Upload(context.Background(), models.LibraryUpload{}, "arm.obj", strings.NewReader("o arm"))
	require.NoError(t, err)
	require.Len(t, lb.created, 1)
	assert.Equal(t, "arm.obj", lb.created[0].filename)
	assert.Equal(t, "o arm", lb.created[0].data)
}

func TestLibraryUpload_RejectsUnsupportedFiles(t *testing.T) {
	svc := NewLibraryService(&fakeLibraryBackend{}, nil, nil, newCatalog(), nil)

	_, err := svc.Upload(context.Background(), models.LibraryUpload{}, "notes.txt", strings.NewReader("hi"))
	assert.ErrorIs(t, err, ErrUnsupportedFile)
}

func TestLibraryUpload_BundleIsExtractedAndConverted(t *testing.T) {
	lb := &fakeLibraryBackend{}
	conv := &copyConverter{}
	svc := NewLibraryService(lb, nil, conv, newCatalog(), nil)

	archive := zipBytes(t, map[string]string{
		"pump/pump.obj": "o pump",
		"pump/pump.mtl": "newmtl steel",
	})
	asset, err := svc.Upload(context.Background(), models.LibraryUpload{}, "pump.zip", bytes.NewReader(archive))
	require.NoError(t, err)

	assert.Equal(t, 1, conv.calls)
	require.Len(t, lb.created, 1)
	assert.Equal(t, "pump.glb", lb.created[0].filename)
	assert.Equal(t, "glb:o pump", lb.created[0].data)
	assert.Equal(t, "pump", asset.Name)
}

func TestLibraryUpload_BundleWithSeveralModelsIsRejected(t *testing.T) {
	lb := &fakeLibraryBackend{}
	svc := NewLibraryService(lb, nil, &copyConverter{}, newCatalog(), nil)

	archive := zipBytes(t, map[string]string{"a.glb": "a", "b.stl": "b"})
	_, err := svc.Upload(context.Background(), models.LibraryUpload{}, "two.zip", bytes.NewReader(archive))
	assert.ErrorIs(t, err, extraction.ErrMultipleModels)
	assert.Empty(t, lb.created)
}

func TestLibraryUpload_InvalidatesCatalog(t *testing.T) {
	lb := &fakeLibraryBackend{}
	svc := NewLibraryService(lb, nil, nil, newCatalog(), nil)

	assets, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, assets)

	_, err = svc.Upload(context.Background(), models.LibraryUpload{Name: "Tank"}, "tank.glb", strings.NewReader("glTF"))
	require.NoError(t, err)

	assets, err = svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, assets, 1)
	assert.Equal(t, "Tank", assets[0].Name)
	assert.Equal(t, 2, lb.lists)

	require.NoError(t, svc.Delete(context.Background(), assets[0].ID.String()))
	_, err = svc.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, lb.lists)
	assert.Equal(t, []string{"101"}, lb.deleted)
}

func TestLibraryGet(t *testing.T) {
	lb := &fakeLibraryBackend{assets: []models.LibraryAsset{{ID: "3", Name: "Fan", File: "fan.glb"}}}
	svc := NewLibraryService(lb, prefixResolver{prefix: "/m/"}, nil, nil, nil)

	asset, err := svc.Get(context.Background(), "3")
	require.NoError(t, err)
	assert.Equal(t, "/m/fan.glb", asset.File)

	_, err = svc.Get(context.Background(), "4")
	assert.Error(t, err)
}
