// Package store holds the farm snapshot and the mutators that replace it.
package store

import (
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/farmdash/internal/domain/models"
)

// DefaultProductionWindow is the production history length kept by Refresh.
const DefaultProductionWindow = 30

// ChangeKind names the mutation that produced a snapshot.
type ChangeKind string

const (
	ChangeControlSystemUpdated   ChangeKind = "control_system_updated"
	ChangeAlertRead              ChangeKind = "alert_read"
	ChangeMaintenanceTaskAdded   ChangeKind = "maintenance_task_added"
	ChangeMaintenanceTaskUpdated ChangeKind = "maintenance_task_updated"
	ChangeRefreshed              ChangeKind = "refreshed"
)

// Change describes a committed mutation.
type Change struct {
	Kind     ChangeKind
	ID       string
	At       time.Time
	Snapshot models.Snapshot
}

// Listener observes committed changes. Listeners are called one change at a
// time in version order and must not call store mutators.
type Listener func(Change)

// Source supplies fresh readings on refresh.
type Source interface {
	Sensors() []models.SensorReading
	Production() models.ProductionRecord
}

// Store is the farm state container. Snapshots it hands out are never
// modified afterwards; callers must treat their slices as read-only.
type Store struct {
	mu      sync.Mutex
	current *models.Snapshot
	source  Source
	window  int
	now     func() time.Time
	newID   func() string
	logger  *zap.Logger

	// notifyMu keeps notifications in commit order. It is taken before mu is
	// released, so listeners must not call mutators synchronously.
	notifyMu sync.Mutex

	listenersMu sync.RWMutex
	listeners   map[uint64]Listener
	nextToken   uint64
}

// Option customizes a Store.
type Option func(*Store)

// WithProductionWindow caps the production history kept by Refresh.
func WithProductionWindow(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.window = n
		}
	}
}

// WithClock overrides the time source used for last-updated stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides how maintenance task ids are minted.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New builds a store around the initial snapshot.
func New(initial models.Snapshot, source Source, opts ...Option) *Store {
	s := &Store{
		source:    source,
		window:    DefaultProductionWindow,
		now:       time.Now,
		newID:     uuid.NewString,
		logger:    zap.NewNop(),
		listeners: make(map[uint64]Listener),
	}
	for _, opt := range opts {
		opt(s)
	}
	snap := initial
	s.current = &snap
	return s
}

// Snapshot returns the current farm state.
func (s *Store) Snapshot() models.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.current
}

// Subscribe registers l for every committed change and returns a func that removes it.
func (s *Store) Subscribe(l Listener) (unsubscribe func()) {
	s.listenersMu.Lock()
	token := s.nextToken
	s.nextToken++
	s.listeners[token] = l
	s.listenersMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.listenersMu.Lock()
			delete(s.listeners, token)
			s.listenersMu.Unlock()
		})
	}
}

// UpdateControlSystem merges patch into the control system with the given id
// and stamps it as updated now. Unknown ids are ignored.
func (s *Store) UpdateControlSystem(id string, patch models.ControlSystemPatch) (models.ControlSystem, bool) {
	return s.UpdateControlSystemFunc(id, func(models.ControlSystem) models.ControlSystemPatch { return patch })
}

// UpdateControlSystemFunc is UpdateControlSystem with the patch derived from the
// current system while the write lock is held, so read-modify-write intents
// such as toggles cannot lose concurrent updates. fn must not call the store.
func (s *Store) UpdateControlSystemFunc(id string, fn func(models.ControlSystem) models.ControlSystemPatch) (models.ControlSystem, bool) {
	var updated models.ControlSystem
	ok := s.commit(ChangeControlSystemUpdated, id, func(snap *models.Snapshot, now time.Time) bool {
		idx := slices.IndexFunc(snap.ControlSystems, func(cs models.ControlSystem) bool { return cs.ID == id })
		if idx < 0 {
			return false
		}
		systems := slices.Clone(snap.ControlSystems)
		updated = fn(systems[idx]).Apply(systems[idx])
		updated.LastUpdated = now
		systems[idx] = updated
		snap.ControlSystems = systems
		return true
	})
	return updated, ok
}

// MarkAlertAsRead flags the alert as read. Unknown or already-read alerts are ignored.
func (s *Store) MarkAlertAsRead(id string) bool {
	return s.commit(ChangeAlertRead, id, func(snap *models.Snapshot, _ time.Time) bool {
		idx := slices.IndexFunc(snap.Alerts, func(a models.Alert) bool { return a.ID == id })
		if idx < 0 || snap.Alerts[idx].IsRead {
			return false
		}
		alerts := slices.Clone(snap.Alerts)
		alerts[idx].IsRead = true
		snap.Alerts = alerts
		return true
	})
}

// AddMaintenanceTask appends a task under a freshly minted id.
func (s *Store) AddMaintenanceTask(task models.NewMaintenanceTask) models.MaintenanceTask {
	created := task.WithID(s.newID())
	s.commit(ChangeMaintenanceTaskAdded, created.ID, func(snap *models.Snapshot, _ time.Time) bool {
		tasks := make([]models.MaintenanceTask, len(snap.MaintenanceTasks), len(snap.MaintenanceTasks)+1)
		copy(tasks, snap.MaintenanceTasks)
		snap.MaintenanceTasks = append(tasks, created)
		return true
	})
	return created
}

// UpdateMaintenanceTask merges patch into the task with the given id. Unknown ids are ignored.
func (s *Store) UpdateMaintenanceTask(id string, patch models.MaintenanceTaskPatch) (models.MaintenanceTask, bool) {
	var updated models.MaintenanceTask
	ok := s.commit(ChangeMaintenanceTaskUpdated, id, func(snap *models.Snapshot, _ time.Time) bool {
		idx := slices.IndexFunc(snap.MaintenanceTasks, func(t models.MaintenanceTask) bool { return t.ID == id })
		if idx < 0 {
			return false
		}
		tasks := slices.Clone(snap.MaintenanceTasks)
		updated = patch.Apply(tasks[idx])
		tasks[idx] = updated
		snap.MaintenanceTasks = tasks
		return true
	})
	return updated, ok
}

// Refresh replaces the sensor readings and appends one production record,
// dropping the oldest records beyond the production window.
func (s *Store) Refresh() {
	s.commit(ChangeRefreshed, "", func(snap *models.Snapshot, _ time.Time) bool {
		snap.SensorData = s.source.Sensors()

		keep := snap.ProductionData
		if len(keep) > s.window-1 {
			keep = keep[len(keep)-(s.window-1):]
		}
		history := make([]models.ProductionRecord, len(keep), len(keep)+1)
		copy(history, keep)
		snap.ProductionData = append(history, s.source.Production())
		return true
	})
}

// commit applies mutate to a shallow copy of the current snapshot and, when it
// reports a change, publishes the copy and notifies listeners. Listeners see
// changes in version order even when commits race.
func (s *Store) commit(kind ChangeKind, id string, mutate func(*models.Snapshot, time.Time) bool) bool {
	s.mu.Lock()
	now := s.now()
	next := *s.current
	if !mutate(&next, now) {
		s.mu.Unlock()
		s.logger.Debug("mutation ignored", zap.String("kind", string(kind)), zap.String("id", id))
		return false
	}
	next.Version = s.current.Version + 1
	s.current = &next
	s.notifyMu.Lock()
	s.mu.Unlock()
	defer s.notifyMu.Unlock()

	s.logger.Debug("snapshot committed",
		zap.String("kind", string(kind)),
		zap.String("id", id),
		zap.Uint64("version", next.Version))

	s.notify(Change{Kind: kind, ID: id, At: now, Snapshot: next})
	return true
}

func (s *Store) notify(change Change) {
	s.listenersMu.RLock()
	tokens := make([]uint64, 0, len(s.listeners))
	for token := range s.listeners {
		tokens = append(tokens, token)
	}
	slices.Sort(tokens)
	listeners := make([]Listener, 0, len(tokens))
	for _, token := range tokens {
		listeners = append(listeners, s.listeners[token])
	}
	s.listenersMu.RUnlock()

	for _, l := range listeners {
		l(change)
	}
}
