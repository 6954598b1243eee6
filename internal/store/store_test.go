package store

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/farmdash/internal/domain/models"
	"github.com/mamadbah2/farmdash/internal/mockdata"
)

var baseTime = time.Date(2026, time.October, 18, 8, 0, 0, 0, time.UTC)

type tickingClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *tickingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Minute)
	return c.now
}

func newTestStore(t *testing.T, opts ...Option) (*Store, *tickingClock) {
	t.Helper()
	clock := &tickingClock{now: baseTime}
	gen := mockdata.New(mockdata.WithSeed(3), mockdata.WithClock(clock.Now))
	opts = append([]Option{WithClock(clock.Now)}, opts...)
	return New(gen.Snapshot(), gen, opts...), clock
}

func ptr[T any](v T) *T { return &v }

func TestUpdateControlSystem(t *testing.T) {
	s, _ := newTestStore(t)
	before := s.Snapshot()

	updated, ok := s.UpdateControlSystem("2", models.ControlSystemPatch{
		Status:      ptr(models.ControlInactive),
		TargetValue: ptr(85.0),
	})
	require.True(t, ok)
	assert.Equal(t, models.ControlInactive, updated.Status)
	assert.Equal(t, 85.0, updated.TargetValue)
	assert.Equal(t, "Ventilation System", updated.Name)
	assert.True(t, updated.LastUpdated.After(before.ControlSystems[1].LastUpdated))

	after := s.Snapshot()
	assert.Equal(t, updated, after.ControlSystems[1])
	assert.Equal(t, before.Version+1, after.Version)
	assert.Equal(t, before.ControlSystems[0], after.ControlSystems[0])
}

func TestUpdateControlSystemUnknownID(t *testing.T) {
	s, _ := newTestStore(t)
	before := s.Snapshot()

	_, ok := s.UpdateControlSystem("missing", models.ControlSystemPatch{IsAutomated: ptr(false)})
	assert.False(t, ok)

	after := s.Snapshot()
	assert.Equal(t, before.ControlSystems, after.ControlSystems)
	assert.Equal(t, before.Version, after.Version)
}

func TestMarkAlertAsRead(t *testing.T) {
	s, _ := newTestStore(t)

	require.False(t, s.Snapshot().Alerts[0].IsRead)
	assert.True(t, s.MarkAlertAsRead("1"))
	assert.True(t, s.Snapshot().Alerts[0].IsRead)

	t.Run("already read is unchanged", func(t *testing.T) {
		before := s.Snapshot()
		assert.False(t, s.MarkAlertAsRead("1"))
		assert.Equal(t, before, s.Snapshot())
	})

	t.Run("unknown id is unchanged", func(t *testing.T) {
		before := s.Snapshot()
		assert.False(t, s.MarkAlertAsRead("404"))
		assert.Equal(t, before, s.Snapshot())
	})
}

func TestAddMaintenanceTask(t *testing.T) {
	s, _ := newTestStore(t)
	before := s.Snapshot()

	created := s.AddMaintenanceTask(models.NewMaintenanceTask{
		Title:    "Clean Egg Belts",
		Priority: models.PriorityLow,
		Status:   models.TaskPending,
		DueDate:  baseTime.Add(48 * time.Hour),
	})

	after := s.Snapshot()
	require.Len(t, after.MaintenanceTasks, len(before.MaintenanceTasks)+1)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, created, after.MaintenanceTasks[len(after.MaintenanceTasks)-1])
	for _, task := range before.MaintenanceTasks {
		assert.NotEqual(t, task.ID, created.ID)
	}
}

func TestAddMaintenanceTaskIDsAreUnique(t *testing.T) {
	s, _ := newTestStore(t)
	seen := map[string]bool{}
	for _, task := range s.Snapshot().MaintenanceTasks {
		seen[task.ID] = true
	}
	for i := range 50 {
		created := s.AddMaintenanceTask(models.NewMaintenanceTask{Title: fmt.Sprintf("task %d", i)})
		assert.False(t, seen[created.ID], "duplicate id %s", created.ID)
		seen[created.ID] = true
	}
	assert.Len(t, s.Snapshot().MaintenanceTasks, 53)
}

func TestUpdateMaintenanceTask(t *testing.T) {
	s, _ := newTestStore(t)
	done := baseTime.Add(time.Hour)

	updated, ok := s.UpdateMaintenanceTask("1", models.MaintenanceTaskPatch{
		Status:        ptr(models.TaskCompleted),
		CompletedDate: &done,
	})
	require.True(t, ok)
	assert.Equal(t, models.TaskCompleted, updated.Status)
	require.NotNil(t, updated.CompletedDate)
	assert.True(t, updated.CompletedDate.Equal(done))
	assert.Equal(t, "Replace Air Filters", updated.Title)

	_, ok = s.UpdateMaintenanceTask("nope", models.MaintenanceTaskPatch{Title: ptr("x")})
	assert.False(t, ok)
}

func TestRefreshKeepsWindow(t *testing.T) {
	s, _ := newTestStore(t)
	require.Len(t, s.Snapshot().ProductionData, DefaultProductionWindow)

	for range 5 {
		prevLatest, _ := s.Snapshot().LatestProduction()
		s.Refresh()

		snap := s.Snapshot()
		require.Len(t, snap.ProductionData, DefaultProductionWindow)
		latest, _ := snap.LatestProduction()
		assert.True(t, latest.Date.After(prevLatest.Date))
		for _, rec := range snap.ProductionData {
			assert.False(t, rec.Date.After(latest.Date))
		}
	}
}

func TestRefreshGrowsShortHistory(t *testing.T) {
	clock := &tickingClock{now: baseTime}
	gen := mockdata.New(mockdata.WithSeed(5), mockdata.WithClock(clock.Now))
	initial := gen.Snapshot()
	initial.ProductionData = initial.ProductionData[:3]

	s := New(initial, gen, WithClock(clock.Now), WithProductionWindow(5))
	for i := 0; i < 10; i++ {
		s.Refresh()
		assert.LessOrEqual(t, len(s.Snapshot().ProductionData), 5)
	}
	assert.Len(t, s.Snapshot().ProductionData, 5)
}

func TestRefreshReplacesSensors(t *testing.T) {
	s, _ := newTestStore(t)
	before := s.Snapshot()
	s.Refresh()
	after := s.Snapshot()

	require.Len(t, after.SensorData, len(before.SensorData))
	assert.True(t, after.SensorData[0].Timestamp.After(before.SensorData[0].Timestamp))
}

func TestSnapshotsAreImmutable(t *testing.T) {
	s, _ := newTestStore(t)
	before := s.Snapshot()
	firstSystem := before.ControlSystems[0]
	firstAlert := before.Alerts[0]
	firstRecord := before.ProductionData[0]
	taskCount := len(before.MaintenanceTasks)

	s.UpdateControlSystem(firstSystem.ID, models.ControlSystemPatch{Name: ptr("renamed")})
	s.MarkAlertAsRead(firstAlert.ID)
	s.AddMaintenanceTask(models.NewMaintenanceTask{Title: "new"})
	s.Refresh()

	assert.Equal(t, firstSystem, before.ControlSystems[0])
	assert.Equal(t, firstAlert, before.Alerts[0])
	assert.Equal(t, firstRecord, before.ProductionData[0])
	assert.Len(t, before.MaintenanceTasks, taskCount)
}

func TestListeners(t *testing.T) {
	s, _ := newTestStore(t)

	var got []Change
	unsubscribe := s.Subscribe(func(c Change) { got = append(got, c) })

	s.MarkAlertAsRead("1")
	s.MarkAlertAsRead("1")
	s.UpdateControlSystem("missing", models.ControlSystemPatch{})
	s.Refresh()

	require.Len(t, got, 2)
	assert.Equal(t, ChangeAlertRead, got[0].Kind)
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, ChangeRefreshed, got[1].Kind)
	assert.Equal(t, s.Snapshot().Version, got[1].Snapshot.Version)

	unsubscribe()
	unsubscribe()
	s.Refresh()
	assert.Len(t, got, 2)
}

func TestListenersRunInRegistrationOrder(t *testing.T) {
	s, _ := newTestStore(t)
	var order []int
	for i := range 3 {
		s.Subscribe(func(Change) { order = append(order, i) })
	}
	s.Refresh()
	assert.Equal(t, []int{0, 1, 2}, order)
}

func TestConcurrentMutations(t *testing.T) {
	s, _ := newTestStore(t)
	start := s.Snapshot()

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.AddMaintenanceTask(models.NewMaintenanceTask{Title: fmt.Sprintf("t%d", i)})
		}()
		go func() {
			defer wg.Done()
			s.Refresh()
		}()
	}
	wg.Wait()

	end := s.Snapshot()
	assert.Len(t, end.MaintenanceTasks, len(start.MaintenanceTasks)+20)
	assert.Len(t, end.ProductionData, DefaultProductionWindow)
	assert.Equal(t, start.Version+40, end.Version)
}

func TestUpdateControlSystemFuncIsAtomic(t *testing.T) {
	slowClock := func() time.Time {
		time.Sleep(200 * time.Microsecond)
		return baseTime
	}
	s, _ := newTestStore(t, WithClock(slowClock))
	require.True(t, s.Snapshot().ControlSystems[0].IsAutomated)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, ok := s.UpdateControlSystemFunc("1", func(cs models.ControlSystem) models.ControlSystemPatch {
				return models.ControlSystemPatch{IsAutomated: ptr(!cs.IsAutomated)}
			})
			assert.True(t, ok)
		}()
	}
	wg.Wait()

	assert.True(t, s.Snapshot().ControlSystems[0].IsAutomated)

	_, ok := s.UpdateControlSystemFunc("missing", func(models.ControlSystem) models.ControlSystemPatch {
		t.Fatal("patch built for unknown id")
		return models.ControlSystemPatch{}
	})
	assert.False(t, ok)
}

func TestListenersSeeVersionOrder(t *testing.T) {
	s, _ := newTestStore(t)
	start := s.Snapshot().Version

	var (
		mu       sync.Mutex
		versions []uint64
	)
	s.Subscribe(func(c Change) {
		time.Sleep(time.Duration(c.Snapshot.Version%3) * 100 * time.Microsecond)
	})
	s.Subscribe(func(c Change) {
		mu.Lock()
		versions = append(versions, c.Snapshot.Version)
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Refresh()
		}()
	}
	wg.Wait()

	require.Len(t, versions, 8)
	for i, v := range versions {
		assert.Equal(t, start+uint64(i)+1, v)
	}
}

func TestIDGenerator(t *testing.T) {
	var n int
	s, _ := newTestStore(t, WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("task-%d", n)
	}))

	first := s.AddMaintenanceTask(models.NewMaintenanceTask{Title: "Clean feeders"})
	second := s.AddMaintenanceTask(models.NewMaintenanceTask{Title: "Check fans"})

	assert.Equal(t, "task-1", first.ID)
	assert.Equal(t, "task-2", second.ID)
}
