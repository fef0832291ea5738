package services

import (
	"context"
	"testing"
	"time"

	"donorhub/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func taskIDs(tasks []*domain.Task) []int64 {
	out := make([]int64, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

func TestTaskLedger_IDsAreScopedPerEvent(t *testing.T) {
	repo := newFakeTaskRepo(1, 2)
	ctx := context.Background()
	l1 := NewTaskLedger(repo, nil, discardLogger(), time.Second)
	l2 := NewTaskLedger(repo, nil, discardLogger(), time.Second)

	for _, text := range []string{"book venue", "print menus", "hire band"} {
		_, err := l1.AddTask(ctx, 1, text, "")
		require.NoError(t, err)
	}
	for _, text := range []string{"call sponsors", "order flowers"} {
		_, err := l2.AddTask(ctx, 2, text, "")
		require.NoError(t, err)
	}

	assert.Equal(t, []int64{1, 2, 3}, taskIDs(l1.Tasks()))
	assert.Equal(t, []int64{1, 2}, taskIDs(l2.Tasks()))
	assert.Equal(t, domain.TaskUndone, l1.Tasks()[0].Status)
}

func TestTaskLedger_IDsAreNotReusedAfterDelete(t *testing.T) {
	repo := newFakeTaskRepo(1)
	ctx := context.Background()
	l := NewTaskLedger(repo, nil, discardLogger(), time.Second)

	for _, text := range []string{"a", "b", "c"} {
		_, err := l.AddTask(ctx, 1, text, domain.TaskUndone)
		require.NoError(t, err)
	}
	require.NoError(t, l.DeleteTask(ctx, 1, 2))
	task, err := l.AddTask(ctx, 1, "d", domain.TaskUndone)
	require.NoError(t, err)

	assert.Equal(t, int64(4), task.ID)
	assert.Equal(t, []int64{1, 3, 4}, taskIDs(l.Tasks()))
}

func TestTaskLedger_CompletionPercentage(t *testing.T) {
	repo := newFakeTaskRepo(1)
	ctx := context.Background()
	l := NewTaskLedger(repo, nil, discardLogger(), time.Second)

	require.NoError(t, l.Load(ctx, 1))
	assert.Equal(t, 0.0, l.CompletionPercentage())

	statuses := []domain.TaskStatus{domain.TaskDone, domain.TaskUndone, domain.TaskDone, domain.TaskInProgress}
	for i, s := range statuses {
		_, err := l.AddTask(ctx, 1, "task", s)
		require.NoError(t, err, "task %d", i)
	}
	assert.Equal(t, 50.0, l.CompletionPercentage())

	_, err := l.ToggleStatus(ctx, 1, 4, domain.TaskDone)
	require.NoError(t, err)
	assert.Equal(t, 75.0, l.CompletionPercentage())
	assert.Equal(t, 75.0, l.Snapshot().CompletionPercentage)
}

func TestTaskLedger_Validation(t *testing.T) {
	repo := newFakeTaskRepo(1)
	ctx := context.Background()
	l := NewTaskLedger(repo, nil, discardLogger(), time.Second)

	_, err := l.AddTask(ctx, 1, "   ", domain.TaskUndone)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = l.AddTask(ctx, 1, "x", "finished")
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = l.ToggleStatus(ctx, 1, 1, "")
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, repo.writes)
}

func TestTaskLedger_EnsureIsAutomatic(t *testing.T) {
	repo := newFakeTaskRepo(1)
	ctx := context.Background()
	l := NewTaskLedger(repo, nil, discardLogger(), time.Second)

	// No explicit EnsureEvent before the first mutation.
	_, err := l.AddTask(ctx, 1, "first", domain.TaskUndone)
	require.NoError(t, err)

	_, err = l.AddTask(ctx, 404, "orphan", domain.TaskUndone)
	require.ErrorIs(t, err, domain.ErrEventNotFound)
}

func TestTaskLedger_ToggleStatusMissingTask(t *testing.T) {
	repo := newFakeTaskRepo(1)
	l := NewTaskLedger(repo, nil, discardLogger(), time.Second)

	_, err := l.ToggleStatus(context.Background(), 1, 9, domain.TaskDone)
	require.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestTaskLedger_DeleteTask(t *testing.T) {
	repo := newFakeTaskRepo(1, 2)
	ctx := context.Background()
	l := NewTaskLedger(repo, nil, discardLogger(), time.Second)

	// Event 2 exists but its task list was never created.
	err := l.DeleteTask(ctx, 2, 1)
	require.ErrorIs(t, err, domain.ErrEventNotFound)

	_, err = l.AddTask(ctx, 1, "a", domain.TaskUndone)
	require.NoError(t, err)
	require.NoError(t, l.DeleteTask(ctx, 1, 42), "absent task is not an error")
	assert.Len(t, l.Tasks(), 1)
}

func TestTaskLedger_WritesAreScopedToOneEvent(t *testing.T) {
	repo := newFakeTaskRepo(1, 2)
	ctx := context.Background()
	l := NewTaskLedger(repo, nil, discardLogger(), time.Second)

	_, err := l.AddTask(ctx, 1, "a", domain.TaskUndone)
	require.NoError(t, err)
	_, err = l.ToggleStatus(ctx, 1, 1, domain.TaskDone)
	require.NoError(t, err)
	require.NoError(t, l.DeleteTask(ctx, 1, 1))

	assert.Equal(t, []int64{1, 1, 1}, repo.writes)
}

func TestTaskLedger_CacheMirror(t *testing.T) {
	repo := newFakeTaskRepo(1)
	cache := newFakeTaskCache()
	ctx := context.Background()
	l := NewTaskLedger(repo, cache, discardLogger(), time.Second)

	_, err := l.AddTask(ctx, 1, "a", domain.TaskUndone)
	require.NoError(t, err)
	_, err = l.AddTask(ctx, 1, "b", domain.TaskDone)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, taskIDs(cache.data[1]))

	// With the list unreadable, a fresh ledger falls back to the mirror.
	repo.listErr = errStore
	fresh := NewTaskLedger(repo, cache, discardLogger(), time.Second)
	require.NoError(t, fresh.Load(ctx, 1))
	assert.Equal(t, []int64{1, 2}, taskIDs(fresh.Tasks()))
	assert.Equal(t, 50.0, fresh.CompletionPercentage())
}

func TestTaskLedger_StoreWinsOverStaleCache(t *testing.T) {
	repo := newFakeTaskRepo(1)
	cache := newFakeTaskCache()
	ctx := context.Background()
	_, err := NewTaskLedger(repo, cache, discardLogger(), time.Second).AddTask(ctx, 1, "a", domain.TaskUndone)
	require.NoError(t, err)
	cache.data[1] = nil

	l := NewTaskLedger(repo, cache, discardLogger(), time.Second)
	require.NoError(t, l.Load(ctx, 1))
	assert.Equal(t, []int64{1}, taskIDs(l.Tasks()))
	assert.Equal(t, []int64{1}, taskIDs(cache.data[1]), "load rewrites the mirror")
}

func TestTaskService_ConcurrentWritesDoNotServeStaleList(t *testing.T) {
	repo := newFakeTaskRepo(1)
	cache := newFakeTaskCache()
	cache.gate = make(chan struct{})
	cache.entered = make(chan struct{})
	svc := NewTaskService(repo, cache, discardLogger(), time.Second)
	ctx := context.Background()

	// The first writer stalls while mirroring its one-task list.
	done := make(chan error)
	go func() {
		_, _, err := svc.AddTask(ctx, 1, "a", "")
		done <- err
	}()
	<-cache.entered

	_, list, err := svc.AddTask(ctx, 1, "b", "")
	require.NoError(t, err)
	require.Len(t, list.Tasks, 2)

	close(cache.gate)
	require.NoError(t, <-done)
	stale, _ := cache.cached(1)
	require.Len(t, stale, 1, "older mirror write landed last")

	list, err = svc.GetTasks(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, taskIDs(list.Tasks))
}

func TestTaskService_DeletedEventDropsCachedTasks(t *testing.T) {
	repo := newFakeTaskRepo(1)
	cache := newFakeTaskCache()
	svc := NewTaskService(repo, cache, discardLogger(), time.Second)
	ctx := context.Background()

	_, _, err := svc.AddTask(ctx, 1, "book venue", "")
	require.NoError(t, err)
	_, ok := cache.cached(1)
	require.True(t, ok)

	repo.dropEvent(1)

	_, err = svc.GetTasks(ctx, 1)
	require.ErrorIs(t, err, domain.ErrEventNotFound)
	_, ok = cache.cached(1)
	assert.False(t, ok)

	_, err = svc.GetTasks(ctx, 1)
	require.ErrorIs(t, err, domain.ErrEventNotFound, "no fallback to a dropped mirror")
}

func TestTaskLedger_CacheFailuresAreNotFatal(t *testing.T) {
	repo := newFakeTaskRepo(1)
	cache := newFakeTaskCache()
	cache.getErr = errStore
	cache.setErr = errStore
	ctx := context.Background()
	l := NewTaskLedger(repo, cache, discardLogger(), time.Second)

	require.NoError(t, l.Load(ctx, 1))
	_, err := l.AddTask(ctx, 1, "a", domain.TaskUndone)
	require.NoError(t, err)
	assert.Len(t, l.Tasks(), 1)
	assert.Positive(t, cache.sets)
}

func TestTaskLedger_StoreFailureLeavesStateUnchanged(t *testing.T) {
	repo := newFakeTaskRepo(1)
	ctx := context.Background()
	l := NewTaskLedger(repo, nil, discardLogger(), time.Second)
	_, err := l.AddTask(ctx, 1, "a", domain.TaskUndone)
	require.NoError(t, err)

	repo.addErr = errStore
	_, err = l.AddTask(ctx, 1, "b", domain.TaskUndone)
	require.ErrorIs(t, err, errStore)
	assert.Len(t, l.Tasks(), 1)
}

func TestTaskService(t *testing.T) {
	repo := newFakeTaskRepo(1)
	svc := NewTaskService(repo, newFakeTaskCache(), discardLogger(), time.Second)
	ctx := context.Background()

	list, err := svc.GetTasks(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, list.Tasks)
	assert.Equal(t, 0.0, list.CompletionPercentage)

	task, list, err := svc.AddTask(ctx, 1, "book venue", "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), task.ID)
	assert.Len(t, list.Tasks, 1)
	assert.Equal(t, int64(1), list.EventID)

	_, list, err = svc.UpdateTaskStatus(ctx, 1, 1, domain.TaskDone)
	require.NoError(t, err)
	assert.Equal(t, 100.0, list.CompletionPercentage)

	list, err = svc.DeleteTask(ctx, 1, 1)
	require.NoError(t, err)
	assert.Empty(t, list.Tasks)

	_, err = svc.GetTasks(ctx, 77)
	require.ErrorIs(t, err, domain.ErrEventNotFound)
}
