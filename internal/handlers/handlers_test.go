package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"twin-editor/internal/backend"
	"twin-editor/internal/metrics"
	"twin-editor/internal/models"
	"twin-editor/internal/scene"
	"twin-editor/internal/services"
	"twin-editor/internal/services/caches"
)

// fakeBackend emulates the REST backend.
type fakeBackend struct {
	mu         sync.Mutex
	plantBody  string
	saveStatus int
	saveBody   string
	saved      []json.RawMessage
	uploads    []string
}

func (f *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/assets/", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		_, _ = io.WriteString(w, f.plantBody)
	})
	mux.HandleFunc("POST /api/assets/save_scene/", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.saveStatus != 0 {
			w.WriteHeader(f.saveStatus)
			_, _ = io.WriteString(w, f.saveBody)
			return
		}
		f.saved = append(f.saved, body)
		_, _ = io.WriteString(w, `{"status": "saved"}`)
	})
	mux.HandleFunc("GET /api/library/assets/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[{"id": 4, "name": "Pump", "file": "/media/pump.glb", "category": "MACHINE", "default_scale": 2}]`)
	})
	mux.HandleFunc("GET /api/library/assets/{id}/", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != "4" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"detail": "Not found."}`)
			return
		}
		_, _ = io.WriteString(w, `{"id": 4, "name": "Pump", "file": "/media/pump.glb", "category": "MACHINE", "default_scale": 2}`)
	})
	mux.HandleFunc("POST /api/library/assets/", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_, hdr, err := r.FormFile("file")
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"file": ["No file was submitted."]}`)
			return
		}
		f.mu.Lock()
		f.uploads = append(f.uploads, hdr.Filename)
		f.mu.Unlock()
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id": 9, "name": "`+r.FormValue("name")+`", "file": "/media/`+hdr.Filename+`", "category": "`+r.FormValue("category")+`", "default_scale": 1}`)
	})
	mux.HandleFunc("GET /api/devices/devices/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[{"id": 5, "name": "P-1", "serial_number": "SN-1", "latest_telemetry": {"rpm": 60, "status": "warning"}}]`)
	})
	mux.HandleFunc("POST /api/devices/devices/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"serial_number": ["device with this serial number already exists."]}`)
	})
	return mux
}

type testApp struct {
	app     *fiber.App
	backend *fakeBackend
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	fb := &fakeBackend{plantBody: `[]`}
	srv := httptest.NewServer(fb.handler())
	t.Cleanup(srv.Close)

	client := backend.NewClient(backend.Options{BaseURL: srv.URL + "/api/", Timeout: 2 * time.Second})
	collector := metrics.NewCollector(prometheus.NewRegistry())
	catalog := services.NewCatalogCache(caches.NewMemoryCache(), time.Minute, collector, nil)

	n := 0
	registry := scene.NewRegistry(scene.WithIDGenerator(func() string {
		n++
		return "obj-" + strconv.Itoa(n)
	}))
	scenes := services.NewSceneService(client, client, nil, registry, collector, nil)
	library := services.NewLibraryService(client, nil, nil, catalog, nil)
	devices := services.NewDeviceService(client, catalog, nil)

	app := fiber.New()
	api := app.Group("/api/editor")
	api.Get("/health", Health(scenes, catalog))
	Register(api, NewEditorHandler(scenes, library, nil), NewLibraryHandler(library, nil), NewDeviceHandler(devices, nil))
	return &testApp{app: app, backend: fb}
}

func (a *testApp) do(t *testing.T, method, path string, body any) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, "/api/editor"+path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func decode[T any](t *testing.T, data []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(data, &v), string(data))
	return v
}

func TestEditorFlow_AddEditSelectRemove(t *testing.T) {
	a := newTestApp(t)

	resp, body := a.do(t, http.MethodPost, "/plants/7/objects", map[string]any{"assetId": 4})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	obj := decode[models.PlacedAsset](t, body)
	assert.Equal(t, "obj-1", obj.ID)
	assert.Equal(t, "Pump", obj.Name)
	assert.Equal(t, "/media/pump.glb", obj.ModelURL)
	assert.Equal(t, models.Vec3{2, 2, 2}, obj.Scale)

	resp, body = a.do(t, http.MethodPatch, "/plants/7/objects/obj-1", map[string]any{
		"position":      []float64{4, 0, -2},
		"boundDeviceId": 5,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	obj = decode[models.PlacedAsset](t, body)
	assert.Equal(t, models.Vec3{4, 0, -2}, obj.Position)
	assert.Equal(t, models.Vec3{2, 2, 2}, obj.Scale)
	assert.Equal(t, models.Ref("5"), *obj.BoundDeviceID)

	resp, body = a.do(t, http.MethodPut, "/plants/7/objects/obj-1/bindings/rotation_y", map[string]any{"field": "rpm"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	obj = decode[models.PlacedAsset](t, body)
	assert.Equal(t, "rpm", obj.TelemetryMapping[models.VisualRotationY])

	resp, body = a.do(t, http.MethodPut, "/plants/7/selection", map[string]any{"id": "obj-1"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	state := decode[SceneResponse](t, body)
	require.NotNil(t, state.SelectedID)
	assert.Equal(t, "obj-1", *state.SelectedID)
	assert.True(t, state.Session.Dirty)

	resp, body = a.do(t, http.MethodGet, "/plants/7/live", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Contains(t, string(body), `"objectId":"obj-1"`)
	assert.Contains(t, string(body), `"spinRate":6.28`)

	resp, _ = a.do(t, http.MethodDelete, "/plants/7/objects/obj-1", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, body = a.do(t, http.MethodGet, "/plants/7/scene", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	state = decode[SceneResponse](t, body)
	assert.Empty(t, state.Objects)
	assert.Nil(t, state.SelectedID)
}

func TestEditor_AddObjectWithUnknownAsset(t *testing.T) {
	a := newTestApp(t)

	resp, body := a.do(t, http.MethodPost, "/plants/7/objects", map[string]any{"assetId": 77})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	errResp := decode[ErrorResponse](t, body)
	assert.True(t, errResp.Error)
	assert.Equal(t, "not_found", errResp.Kind)
	assert.Equal(t, "Not found.", errResp.Message)

	resp, _ = a.do(t, http.MethodPost, "/plants/7/objects", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestEditor_PatchValidation(t *testing.T) {
	a := newTestApp(t)
	a.do(t, http.MethodPost, "/plants/7/objects", map[string]any{"asset": map[string]any{"id": 1, "name": "Fan"}})

	resp, _ := a.do(t, http.MethodPatch, "/plants/7/objects/obj-1", map[string]any{"scale": []float64{1, 2}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = a.do(t, http.MethodPatch, "/plants/7/objects/obj-1", map[string]any{"telemetryMapping": map[string]string{"glow": "temp"}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = a.do(t, http.MethodPut, "/plants/7/objects/obj-1/bindings/glow", map[string]any{"field": "temp"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = a.do(t, http.MethodPatch, "/plants/7/objects/ghost", map[string]any{"position": []float64{1, 1, 1}})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = a.do(t, http.MethodPatch, "/plants/8/objects/obj-1", map[string]any{"position": []float64{1, 1, 1}})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestEditor_LoadAndSave(t *testing.T) {
	a := newTestApp(t)
	a.backend.plantBody = `[{"id": 11, "plant": 7, "name": "",
		"library_asset": {"id": 4, "name": "Pump", "file": "/media/pump.glb"},
		"device": null, "position_x": 1, "position_y": 0, "position_z": 2,
		"rotation_x": 0, "rotation_y": 0, "rotation_z": 0, "telemetry_mapping": {}}]`

	resp, body := a.do(t, http.MethodPost, "/plants/7/scene/load", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	state := decode[SceneResponse](t, body)
	require.Len(t, state.Objects, 1)
	assert.Equal(t, "Pump", state.Objects[0].Name)
	assert.Equal(t, models.Vec3{1, 1, 1}, state.Objects[0].Scale)
	assert.False(t, state.Session.Dirty)
	assert.True(t, state.Session.Loaded)

	resp, body = a.do(t, http.MethodPost, "/plants/7/scene/save", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	require.Len(t, a.backend.saved, 1)

	saved := decode[map[string]any](t, a.backend.saved[0])
	assert.Equal(t, float64(7), saved["plant_id"])
	assert.Len(t, saved["assets"], 1)
}

func TestEditor_SaveRejectedKeepsSessionDirty(t *testing.T) {
	a := newTestApp(t)
	a.backend.saveStatus = http.StatusBadRequest
	a.backend.saveBody = `{"error": "plant_id is required"}`
	a.do(t, http.MethodPost, "/plants/7/objects", map[string]any{"asset": map[string]any{"name": "Fan"}})

	resp, body := a.do(t, http.MethodPost, "/plants/7/scene/save", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	errResp := decode[ErrorResponse](t, body)
	assert.Equal(t, "validation", errResp.Kind)
	assert.Equal(t, "plant_id is required", errResp.Message)

	a.backend.saveStatus = http.StatusInternalServerError
	a.backend.saveBody = ``
	resp, _ = a.do(t, http.MethodPost, "/plants/7/scene/save", nil)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)

	_, body = a.do(t, http.MethodGet, "/plants/7/scene", nil)
	state := decode[SceneResponse](t, body)
	assert.True(t, state.Session.Dirty)
	assert.Len(t, state.Objects, 1)
}

func TestEditor_MalformedLoadIsBadGateway(t *testing.T) {
	a := newTestApp(t)
	a.backend.plantBody = `<html>oops</html>`

	resp, body := a.do(t, http.MethodPost, "/plants/7/scene/load", nil)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, "malformed", decode[ErrorResponse](t, body).Kind)
}

func TestEditor_CloseScene(t *testing.T) {
	a := newTestApp(t)
	a.do(t, http.MethodGet, "/plants/7/scene", nil)

	resp, _ := a.do(t, http.MethodDelete, "/plants/7/scene", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp, _ = a.do(t, http.MethodDelete, "/plants/7/scene", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestLibrary_ListAndUpload(t *testing.T) {
	a := newTestApp(t)

	resp, body := a.do(t, http.MethodGet, "/library", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assets := decode[[]models.LibraryAsset](t, body)
	require.Len(t, assets, 1)
	assert.Equal(t, models.CategoryMachine, assets[0].Category)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("name", "Tank"))
	require.NoError(t, mw.WriteField("category", "infrastructure"))
	fw, err := mw.CreateFormFile("file", "tank.glb")
	require.NoError(t, err)
	_, err = fw.Write([]byte("glTF"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/editor/library", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err = a.app.Test(req, -1)
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	asset := decode[models.LibraryAsset](t, body)
	assert.Equal(t, "Tank", asset.Name)
	assert.Equal(t, models.CategoryInfrastructure, asset.Category)
	assert.Equal(t, []string{"tank.glb"}, a.backend.uploads)
}

func TestLibrary_UploadRejectsUnsupportedFile(t *testing.T) {
	a := newTestApp(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "notes.txt")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("hello"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/editor/library", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Empty(t, a.backend.uploads)
}

func TestDevices_ListAndDuplicateSerial(t *testing.T) {
	a := newTestApp(t)

	resp, body := a.do(t, http.MethodGet, "/devices", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	devices := decode[[]models.Device](t, body)
	require.Len(t, devices, 1)
	assert.Equal(t, "SN-1", devices[0].SerialNumber)

	resp, body = a.do(t, http.MethodPost, "/devices", map[string]any{"name": "P-2", "serial_number": "SN-1"})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	errResp := decode[ErrorResponse](t, body)
	assert.Equal(t, "validation", errResp.Kind)
	assert.True(t, strings.Contains(errResp.Message, "already exists"))

	resp, _ = a.do(t, http.MethodPost, "/devices", map[string]any{"name": "P-2"})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestHealth(t *testing.T) {
	a := newTestApp(t)
	a.do(t, http.MethodGet, "/plants/3/scene", nil)

	resp, body := a.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	health := decode[HealthResponse](t, body)
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, []string{"3"}, health.Sessions)
	require.NotNil(t, health.Cache)
	assert.Equal(t, "memory", health.Cache.Name)
}

func TestEditor_SessionsStayKeyedByPlant(t *testing.T) {
	a := newTestApp(t)

	resp, body := a.do(t, http.MethodPost, "/plants/alpha/objects", map[string]any{"assetId": 4})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	resp, _ = a.do(t, http.MethodGet, "/plants/omega/scene", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	_, body = a.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, []string{"alpha", "omega"}, decode[HealthResponse](t, body).Sessions)

	_, body = a.do(t, http.MethodGet, "/plants/alpha/scene", nil)
	alpha := decode[SceneResponse](t, body)
	assert.Equal(t, "alpha", alpha.Session.PlantID)
	assert.Len(t, alpha.Objects, 1)

	_, body = a.do(t, http.MethodGet, "/plants/omega/scene", nil)
	omega := decode[SceneResponse](t, body)
	assert.Equal(t, "omega", omega.Session.PlantID)
	assert.Empty(t, omega.Objects)

	_, body = a.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, []string{"alpha", "omega"}, decode[HealthResponse](t, body).Sessions)

	resp, _ = a.do(t, http.MethodDelete, "/plants/alpha/scene", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	_, body = a.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, []string{"omega"}, decode[HealthResponse](t, body).Sessions)
}
