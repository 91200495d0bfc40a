package services

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"twin-editor/internal/metrics"
	"twin-editor/internal/models"
	"twin-editor/internal/scene"
	"twin-editor/internal/telemetry"
)

var (
	ErrSessionNotFound = errors.New("no editor session for plant")
	ErrObjectNotFound  = errors.New("object not found")
)

// SceneService synchronizes per-plant editor sessions with the backend.
type SceneService struct {
	backend  SceneBackend
	devices  DeviceBackend
	resolver ModelResolver
	sessions *scene.Registry
	metrics  *metrics.Collector
	logger   *zap.Logger
	now      func() time.Time
}

func NewSceneService(backend SceneBackend, devices DeviceBackend, resolver ModelResolver, sessions *scene.Registry, collector *metrics.Collector, logger *zap.Logger) *SceneService {
	if resolver == nil {
		resolver = passthroughResolver{}
	}
	if sessions == nil {
		sessions = scene.NewRegistry()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SceneService{
		backend:  backend,
		devices:  devices,
		resolver: resolver,
		sessions: sessions,
		metrics:  collector,
		logger:   logger.With(zap.String("component", "scene")),
		now:      time.Now,
	}
}

// Session returns the plant's session, creating an empty one on first use.
func (s *SceneService) Session(plantID string) *scene.Session {
	return s.sessions.Session(plantID)
}

// Lookup returns an existing session.
func (s *SceneService) Lookup(plantID string) (*scene.Session, error) {
	session, ok := s.sessions.Lookup(plantID)
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// Close discards a session and its unsaved edits.
func (s *SceneService) Close(plantID string) bool {
	closed := s.sessions.Close(plantID)
	if closed {
		s.metrics.ForgetScene(plantID)
		s.logger.Info("Closed editor session", zap.String("plant_id", plantID))
	}
	return closed
}

func (s *SceneService) PlantIDs() []string {
	return s.sessions.PlantIDs()
}

// Load replaces the session's objects with the plant's persisted assets.
// Nothing is installed unless every record was fetched and mapped.
func (s *SceneService) Load(ctx context.Context, plantID string) (objects []models.PlacedAsset, err error) {
	started := s.now()
	defer func() { s.metrics.ObserveSync(metrics.OpLoad, started, err) }()

	session := s.sessions.Session(plantID)
	records, err := s.backend.PlantAssets(ctx, plantID)
	if err != nil {
		s.logger.Error("Failed to load scene", zap.String("plant_id", plantID), zap.Error(err))
		return nil, errors.Wrapf(err, "load scene for plant %s", plantID)
	}

	mapped := make([]models.PlacedAsset, 0, len(records))
	for _, rec := range records {
		obj, err := s.fromRecord(ctx, session.Store.NewID(), rec)
		if err != nil {
			s.logger.Error("Failed to map placed asset",
				zap.String("plant_id", plantID),
				zap.String("record_id", rec.ID.String()),
				zap.Error(err),
			)
			return nil, errors.Wrapf(err, "load scene for plant %s", plantID)
		}
		mapped = append(mapped, obj)
	}

	rev := session.Store.SetObjects(mapped)
	session.MarkLoaded(rev, s.now())
	s.metrics.SetSceneObjects(plantID, len(mapped))
	s.logger.Info("Loaded scene", zap.String("plant_id", plantID), zap.Int("objects", len(mapped)))
	return session.Store.Objects(), nil
}

// fromRecord maps a persisted record to an editor object under a fresh id.
func (s *SceneService) fromRecord(ctx context.Context, id string, rec models.PlantAssetRecord) (models.PlacedAsset, error) {
	obj := models.PlacedAsset{
		ID:       id,
		Name:     rec.Name,
		Position: rec.Position(),
		Rotation: rec.Rotation(),
		Scale:    rec.Scale(),
	}
	if lib := rec.LibraryAsset; lib != nil {
		if !lib.ID.IsZero() {
			obj.AssetID = lib.ID.Ptr()
		}
		if obj.Name == "" {
			obj.Name = lib.Name
		}
		url, err := s.resolver.ResolveModelURL(ctx, lib.File)
		if err != nil {
			return models.PlacedAsset{}, err
		}
		obj.ModelURL = url
	}
	if dev := rec.Device; dev != nil && !dev.ID.IsZero() {
		obj.BoundDeviceID = dev.ID.Ptr()
	}

	mapping := make(models.TelemetryMapping, len(rec.TelemetryMapping))
	for prop, field := range rec.TelemetryMapping {
		if !prop.Valid() {
			s.logger.Warn("Ignoring unknown telemetry property",
				zap.String("record_id", rec.ID.String()),
				zap.String("property", string(prop)),
			)
			continue
		}
		mapping[prop] = field
	}
	obj.TelemetryMapping = mapping.Normalized()
	return obj, nil
}

// Save replaces the plant's persisted assets with objects.
func (s *SceneService) Save(ctx context.Context, plantID string, objects []models.PlacedAsset) (err error) {
	started := s.now()
	defer func() { s.metrics.ObserveSync(metrics.OpSave, started, err) }()

	payload := models.SaveSceneRequest{PlantID: models.Ref(plantID), Assets: objects}
	if err := s.backend.SaveScene(ctx, payload); err != nil {
		s.logger.Error("Failed to save scene",
			zap.String("plant_id", plantID),
			zap.Int("objects", len(objects)),
			zap.Error(err),
		)
		return errors.Wrapf(err, "save scene for plant %s", plantID)
	}
	s.logger.Info("Saved scene", zap.String("plant_id", plantID), zap.Int("objects", len(objects)))
	return nil
}

// SaveSession saves the session's current objects and marks them clean on
// success. Edits made during the round trip stay dirty.
func (s *SceneService) SaveSession(ctx context.Context, plantID string) (scene.SessionInfo, error) {
	session, err := s.Lookup(plantID)
	if err != nil {
		return scene.SessionInfo{}, err
	}
	objects, rev := session.Store.Snapshot()
	if err := s.Save(ctx, plantID, objects); err != nil {
		return session.Info(), err
	}
	session.MarkSaved(rev, s.now())
	return session.Info(), nil
}

// AddObject drops a library asset into the plant's scene at the origin.
func (s *SceneService) AddObject(plantID string, asset models.LibraryAsset) models.PlacedAsset {
	session := s.sessions.Session(plantID)
	obj := session.Store.AddObject(asset)
	s.metrics.SetSceneObjects(plantID, session.Store.Len())
	return obj
}

// UpdateObject applies patch and returns the updated object.
func (s *SceneService) UpdateObject(plantID, id string, patch models.ObjectPatch) (models.PlacedAsset, error) {
	session, err := s.Lookup(plantID)
	if err != nil {
		return models.PlacedAsset{}, err
	}
	session.Store.UpdateObject(id, patch)
	obj, ok := session.Store.Get(id)
	if !ok {
		return models.PlacedAsset{}, ErrObjectNotFound
	}
	return obj, nil
}

// SetTelemetryBinding binds property to a telemetry field; an empty field
// removes the binding.
func (s *SceneService) SetTelemetryBinding(plantID, id string, property models.VisualProperty, field string) (models.PlacedAsset, error) {
	session, err := s.Lookup(plantID)
	if err != nil {
		return models.PlacedAsset{}, err
	}
	session.Store.SetTelemetryBinding(id, property, field)
	obj, ok := session.Store.Get(id)
	if !ok {
		return models.PlacedAsset{}, ErrObjectNotFound
	}
	return obj, nil
}

func (s *SceneService) RemoveObject(plantID, id string) error {
	session, err := s.Lookup(plantID)
	if err != nil {
		return err
	}
	if !session.Store.RemoveObject(id) {
		return ErrObjectNotFound
	}
	s.metrics.SetSceneObjects(plantID, session.Store.Len())
	return nil
}

// Select marks id as selected; an empty id clears the selection.
func (s *SceneService) Select(plantID, id string) error {
	session, err := s.Lookup(plantID)
	if err != nil {
		return err
	}
	if id == "" {
		session.Store.ClearSelection()
	} else {
		session.Store.Select(id)
	}
	return nil
}

// LiveState resolves the visual state of every device-bound object from the
// registry's latest telemetry.
func (s *SceneService) LiveState(ctx context.Context, plantID string) ([]telemetry.VisualState, error) {
	session, err := s.Lookup(plantID)
	if err != nil {
		return nil, err
	}
	devices, err := s.devices.Devices(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "fetch device telemetry")
	}
	latest := make(map[models.Ref]map[string]any, len(devices))
	for _, d := range devices {
		latest[d.ID] = d.LatestTelemetry
	}

	states := []telemetry.VisualState{}
	for _, obj := range session.Store.Objects() {
		if !obj.Bound() {
			continue
		}
		states = append(states, telemetry.Resolve(obj, latest[*obj.BoundDeviceID]))
	}
	return states, nil
}
