package services

import (
	"testing"

	"github.com/vilanovax/karbarg/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func threeTasks() []models.LevelTask {
	return []models.LevelTask{
		{ID: 1, Position: 1, Title: "a"},
		{ID: 2, Position: 2, Title: "b"},
		{ID: 3, Position: 3, Title: "c"},
	}
}

func TestDeriveTaskStatusesLinearUnlock(t *testing.T) {
	// completed={task0} -> task0 completed, task1 pending, task2 locked.
	states := DeriveTaskStatuses(threeTasks(), map[uint]bool{1: true}, nil)
	require.Len(t, states, 3)

	assert.Equal(t, models.TaskCompleted, states[0].Status)
	assert.Equal(t, models.TaskPending, states[1].Status)
	assert.Equal(t, models.TaskLocked, states[2].Status)
}

func TestDeriveTaskStatusesAllPendingAtStart(t *testing.T) {
	states := DeriveTaskStatuses(threeTasks(), map[uint]bool{}, nil)

	assert.Equal(t, models.TaskPending, states[0].Status)
	assert.Equal(t, models.TaskLocked, states[1].Status)
	assert.Equal(t, models.TaskLocked, states[2].Status)
}

func TestDeriveTaskStatusesInProgressMarker(t *testing.T) {
	current := uint(2)
	states := DeriveTaskStatuses(threeTasks(), map[uint]bool{1: true}, &current)

	assert.Equal(t, models.TaskCompleted, states[0].Status)
	assert.Equal(t, models.TaskInProgress, states[1].Status)
	assert.Equal(t, models.TaskLocked, states[2].Status)
}

func TestDeriveTaskStatusesLockedBeatsMarker(t *testing.T) {
	// A stale marker on a locked task never unlocks it.
	current := uint(3)
	states := DeriveTaskStatuses(threeTasks(), map[uint]bool{1: true}, &current)

	assert.Equal(t, models.TaskLocked, states[2].Status)
}

func TestDeriveTaskStatusesLockedIffEarlierIncomplete(t *testing.T) {
	// Task i is locked exactly when some task before i is incomplete.
	states := DeriveTaskStatuses(threeTasks(), map[uint]bool{1: true, 2: true}, nil)

	assert.Equal(t, models.TaskCompleted, states[0].Status)
	assert.Equal(t, models.TaskCompleted, states[1].Status)
	assert.Equal(t, models.TaskPending, states[2].Status)
}

func TestDeriveTaskStatusesAllCompleted(t *testing.T) {
	states := DeriveTaskStatuses(threeTasks(), map[uint]bool{1: true, 2: true, 3: true}, nil)

	for _, state := range states {
		assert.Equal(t, models.TaskCompleted, state.Status)
	}
}

func TestLevelProgressCompletedSet(t *testing.T) {
	progress := models.LevelProgress{CompletedIDs: "1,3,9"}
	set := progress.CompletedSet()

	assert.True(t, set[1])
	assert.False(t, set[2])
	assert.True(t, set[3])
	assert.True(t, set[9])
}

func TestLevelProgressMarkCompleted(t *testing.T) {
	progress := models.LevelProgress{}

	progress.MarkCompleted(4)
	assert.Equal(t, "4", progress.CompletedIDs)

	progress.MarkCompleted(7)
	assert.Equal(t, "4,7", progress.CompletedIDs)

	// Append-only and idempotent: re-completing never duplicates.
	progress.MarkCompleted(4)
	assert.Equal(t, "4,7", progress.CompletedIDs)
}
