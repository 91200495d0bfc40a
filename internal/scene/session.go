package scene

import (
	"sort"
	"sync"
	"time"
)

// Session is the editing state of one plant.
type Session struct {
	PlantID string
	Store   *Store

	mu         sync.Mutex
	syncedRev  uint64
	loadedAt   time.Time
	savedAt    time.Time
	everLoaded bool
}

// SessionInfo is a point-in-time view of a session for API responses.
type SessionInfo struct {
	PlantID  string     `json:"plantId"`
	Objects  int        `json:"objects"`
	Dirty    bool       `json:"dirty"`
	Loaded   bool       `json:"loaded"`
	LoadedAt *time.Time `json:"loadedAt,omitempty"`
	SavedAt  *time.Time `json:"savedAt,omitempty"`
}

// Dirty reports unsaved changes since the last successful load or save.
func (s *Session) Dirty() bool {
	rev := s.Store.Revision()
	s.mu.Lock()
	defer s.mu.Unlock()
	return rev != s.syncedRev
}

// MarkLoaded records that revision rev mirrors the backend after a load.
func (s *Session) MarkLoaded(rev uint64, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.syncedRev = rev
	s.loadedAt = at
	s.everLoaded = true
}

// MarkSaved records that revision rev was accepted by the backend. Edits made
// while the save was in flight keep the session dirty.
func (s *Session) MarkSaved(rev uint64, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.syncedRev = rev
	s.savedAt = at
}

// Info summarizes the session.
func (s *Session) Info() SessionInfo {
	objects := s.Store.Len()
	dirty := s.Dirty()

	s.mu.Lock()
	defer s.mu.Unlock()
	info := SessionInfo{
		PlantID: s.PlantID,
		Objects: objects,
		Dirty:   dirty,
		Loaded:  s.everLoaded,
	}
	if !s.loadedAt.IsZero() {
		t := s.loadedAt
		info.LoadedAt = &t
	}
	if !s.savedAt.IsZero() {
		t := s.savedAt
		info.SavedAt = &t
	}
	return info
}

// Registry keeps one Session per plant being edited.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	opts     []Option
}

// NewRegistry creates a registry whose stores are built with opts.
func NewRegistry(opts ...Option) *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		opts:     opts,
	}
}

// Session returns the plant's session, creating an empty one on first use.
func (r *Registry) Session(plantID string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[plantID]; ok {
		return s
	}
	s := &Session{PlantID: plantID, Store: NewStore(r.opts...)}
	r.sessions[plantID] = s
	return s
}

// Lookup returns an existing session.
func (r *Registry) Lookup(plantID string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[plantID]
	return s, ok
}

// Close discards a session and any unsaved changes.
func (r *Registry) Close(plantID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.sessions[plantID]
	delete(r.sessions, plantID)
	return ok
}

// PlantIDs lists open sessions in lexical order.
func (r *Registry) PlantIDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
