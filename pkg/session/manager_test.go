package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pillsee-be/internal/entity"
	"pillsee-be/internal/pkg/logger"
	"pillsee-be/internal/repository/memory"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func newTestManager(clock *fakeClock) *Manager {
	return NewManager(memory.NewSessionRepository(), logger.NewNopLogger(), 30*time.Minute, clock.Now)
}

func TestCreateAndLoad(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)}
	manager := newTestManager(clock)

	created := manager.Create()
	require.NotEmpty(t, created.Id)

	loaded, found := manager.Load(created.Id)
	require.True(t, found)
	assert.Equal(t, created.Id, loaded.Id)
	assert.Empty(t, loaded.Messages)
}

func TestRecord_AppendsExchange(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)}
	manager := newTestManager(clock)

	created := manager.Create()
	manager.Record(created.Id, "Co je to Paralen?", "Paralen je lék proti bolesti.")

	loaded, found := manager.Load(created.Id)
	require.True(t, found)
	require.Len(t, loaded.Messages, 2)
	assert.Equal(t, entity.SessionRoleUser, loaded.Messages[0].Role)
	assert.Equal(t, entity.SessionRoleAssistant, loaded.Messages[1].Role)
	assert.Equal(t, 1, loaded.QueryCount)
}

func TestLoad_ExpiresAfterInactivity(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)}
	manager := newTestManager(clock)

	created := manager.Create()
	manager.Record(created.Id, "dotaz", "odpověď")

	clock.Advance(31 * time.Minute)

	_, found := manager.Load(created.Id)
	assert.False(t, found)
}

func TestLoad_ActivityRefreshesTimeout(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)}
	manager := newTestManager(clock)

	created := manager.Create()
	clock.Advance(20 * time.Minute)
	manager.Record(created.Id, "dotaz", "odpověď")
	clock.Advance(20 * time.Minute)

	// 40 minutes since creation but only 20 since last activity.
	loaded, found := manager.Load(created.Id)
	require.True(t, found)
	assert.Len(t, loaded.Messages, 2)
}

func TestRecord_ExpiredSessionStartsFresh(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)}
	manager := newTestManager(clock)

	created := manager.Create()
	manager.Record(created.Id, "první", "odpověď")
	clock.Advance(31 * time.Minute)

	fresh := manager.Record(created.Id, "druhý", "odpověď")

	assert.NotEqual(t, created.Id, fresh.Id)
	assert.Len(t, fresh.Messages, 2)
	assert.Equal(t, "druhý", fresh.Messages[0].Content)
}

func TestClear(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)}
	manager := newTestManager(clock)

	created := manager.Create()
	manager.Clear(created.Id)

	_, found := manager.Load(created.Id)
	assert.False(t, found)
}
