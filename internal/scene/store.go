// Package scene holds the editor-side state of plant scenes: the placed
// assets of each plant and the current selection.
package scene

import (
	"sync"

	"github.com/google/uuid"

	"twin-editor/internal/models"
)

// IDGenerator produces identifiers for newly placed assets.
type IDGenerator func() string

// Option configures a Store.
type Option func(*Store)

// WithIDGenerator replaces the default UUID generator.
func WithIDGenerator(gen IDGenerator) Option {
	return func(s *Store) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// Store is the single source of truth for the placed assets of one scene and
// its selection. Every view component reads and writes the same Store value,
// which is injected rather than shared through package state.
//
// Operations on absent ids are no-ops. Collection order is insertion order.
type Store struct {
	mu       sync.RWMutex
	objects  []models.PlacedAsset
	selected string
	revision uint64
	newID    IDGenerator
}

// NewStore creates an empty store.
func NewStore(opts ...Option) *Store {
	s := &Store{newID: uuid.NewString}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewID returns a fresh identifier from the store's generator.
func (s *Store) NewID() string {
	return s.newID()
}

// SetObjects replaces the whole collection. The input is trusted as is; a
// selection that no longer resolves is cleared. It returns the new revision.
func (s *Store) SetObjects(objects []models.PlacedAsset) uint64 {
	next := make([]models.PlacedAsset, len(objects))
	for i, obj := range objects {
		next[i] = obj.Clone()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects = next
	if s.selected != "" && s.indexOf(s.selected) < 0 {
		s.selected = ""
	}
	s.revision++
	return s.revision
}

// AddObject instantiates a library asset at the origin and appends it.
// The new record is returned for convenience; it is also visible through Objects.
func (s *Store) AddObject(asset models.LibraryAsset) models.PlacedAsset {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.newID()
	for s.indexOf(id) >= 0 {
		id = s.newID()
	}
	obj := models.NewPlacedAsset(id, asset)
	s.objects = append(s.objects, obj)
	s.revision++
	return obj.Clone()
}

// UpdateObject merges patch into every record with the given id. It reports
// whether a record matched.
func (s *Store) UpdateObject(id string, patch models.ObjectPatch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	found, changed := false, false
	for i := range s.objects {
		if s.objects[i].ID != id {
			continue
		}
		found = true
		if patch.Apply(&s.objects[i]) {
			changed = true
		}
	}
	if changed {
		s.revision++
	}
	return found
}

// SetTelemetryBinding binds property to a telemetry field of the object's
// device, or removes the binding when field is empty.
func (s *Store) SetTelemetryBinding(id string, property models.VisualProperty, field string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	found, changed := false, false
	for i := range s.objects {
		obj := &s.objects[i]
		if obj.ID != id {
			continue
		}
		found = true
		next := obj.TelemetryMapping.With(property, field)
		if !next.Equal(obj.TelemetryMapping) {
			obj.TelemetryMapping = next
			changed = true
		}
	}
	if changed {
		s.revision++
	}
	return found
}

// Select points the selection at id without checking that it exists.
// An empty id clears the selection.
func (s *Store) Select(id string) {
	s.mu.Lock()
	s.selected = id
	s.mu.Unlock()
}

// ClearSelection is Select("").
func (s *Store) ClearSelection() {
	s.Select("")
}

// SelectedID returns the raw selection, which may dangle.
func (s *Store) SelectedID() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected, s.selected != ""
}

// Selected resolves the selection. A dangling selection reports false.
func (s *Store) Selected() (models.PlacedAsset, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selected == "" {
		return models.PlacedAsset{}, false
	}
	i := s.indexOf(s.selected)
	if i < 0 {
		return models.PlacedAsset{}, false
	}
	return s.objects[i].Clone(), true
}

// RemoveObject deletes every record with the given id and clears the
// selection if it pointed there. It reports whether a record was removed.
func (s *Store) RemoveObject(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.objects[:0]
	removed := false
	for _, obj := range s.objects {
		if obj.ID == id {
			removed = true
			continue
		}
		kept = append(kept, obj)
	}
	for i := len(kept); i < len(s.objects); i++ {
		s.objects[i] = models.PlacedAsset{}
	}
	s.objects = kept
	if s.selected == id {
		s.selected = ""
	}
	if removed {
		s.revision++
	}
	return removed
}

// Get returns a copy of the first record with the given id.
func (s *Store) Get(id string) (models.PlacedAsset, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexOf(id)
	if i < 0 {
		return models.PlacedAsset{}, false
	}
	return s.objects[i].Clone(), true
}

// Objects returns a deep copy of the collection.
func (s *Store) Objects() []models.PlacedAsset {
	objects, _ := s.Snapshot()
	return objects
}

// Snapshot returns a deep copy of the collection together with the revision it reflects.
func (s *Store) Snapshot() ([]models.PlacedAsset, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.PlacedAsset, len(s.objects))
	for i, obj := range s.objects {
		out[i] = obj.Clone()
	}
	return out, s.revision
}

// Len returns the number of objects.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}

// Revision increases with every change to the collection. Selection changes
// do not count.
func (s *Store) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

func (s *Store) indexOf(id string) int {
	for i := range s.objects {
		if s.objects[i].ID == id {
			return i
		}
	}
	return -1
}
