package entity

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTaskStatus_Valid(t *testing.T) {
	tests := []struct {
		status   TaskStatus
		expected bool
	}{
		{TaskPending, true},
		{TaskInProgress, true},
		{TaskCompleted, true},
		{TaskFailed, true},
		{TaskStatus("unknown"), false},
		{TaskStatus(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.status.Valid())
		})
	}
}

func TestTaskStatus_CanTransition(t *testing.T) {
	all := []TaskStatus{TaskPending, TaskInProgress, TaskCompleted, TaskFailed}

	allowed := map[TaskStatus]map[TaskStatus]bool{
		TaskPending:    {TaskInProgress: true},
		TaskInProgress: {TaskCompleted: true, TaskFailed: true},
	}

	for _, from := range all {
		for _, to := range all {
			want := allowed[from][to]
			assert.Equal(t, want, from.CanTransition(to), "%s -> %s", from, to)
		}
	}
}

func TestTaskStatus_Terminal(t *testing.T) {
	assert.False(t, TaskPending.Terminal())
	assert.False(t, TaskInProgress.Terminal())
	assert.True(t, TaskCompleted.Terminal())
	assert.True(t, TaskFailed.Terminal())
}

func TestTask_Transition(t *testing.T) {
	task := &Task{ID: "task_abc123", Status: TaskPending}

	assert.NoError(t, task.Transition(TaskInProgress, "", ""))
	assert.Equal(t, TaskInProgress, task.Status)
	assert.False(t, task.UpdatedAt.IsZero())

	assert.NoError(t, task.Transition(TaskCompleted, `{"decision":"Approved"}`, ""))
	assert.Equal(t, TaskCompleted, task.Status)
	assert.Equal(t, `{"decision":"Approved"}`, task.ResultData)
	assert.Empty(t, task.ErrorMessage)

	// Terminal states never move again.
	err := task.Transition(TaskFailed, "", "late failure")
	assert.Error(t, err)
	assert.Equal(t, TaskCompleted, task.Status)
}

func TestTask_Transition_Invariants(t *testing.T) {
	task := &Task{ID: "task_abc123", Status: TaskInProgress}

	// Completion without a result is rejected.
	assert.Error(t, task.Transition(TaskCompleted, "", ""))
	assert.Equal(t, TaskInProgress, task.Status)

	// Failure without an error message is rejected.
	assert.Error(t, task.Transition(TaskFailed, "", ""))
	assert.Equal(t, TaskInProgress, task.Status)

	// Failing clears any stale result.
	task.ResultData = "stale"
	assert.NoError(t, task.Transition(TaskFailed, "", "pipeline error"))
	assert.Equal(t, TaskFailed, task.Status)
	assert.Empty(t, task.ResultData)
	assert.Equal(t, "pipeline error", task.ErrorMessage)
}

func TestTask_Transition_SkippingStates(t *testing.T) {
	task := &Task{ID: "task_abc123", Status: TaskPending}

	// Pending cannot jump straight to a terminal state.
	assert.Error(t, task.Transition(TaskCompleted, "result", ""))
	assert.Error(t, task.Transition(TaskFailed, "", "error"))
	assert.Equal(t, TaskPending, task.Status)

	// Unknown statuses are rejected outright.
	assert.Error(t, task.Transition(TaskStatus("archived"), "", ""))
}

func TestTask_Transition_RandomSequences(t *testing.T) {
	rank := map[TaskStatus]int{
		TaskPending:    0,
		TaskInProgress: 1,
		TaskCompleted:  2,
		TaskFailed:     2,
	}
	targets := []TaskStatus{TaskPending, TaskInProgress, TaskCompleted, TaskFailed}
	rng := rand.New(rand.NewSource(1))

	for run := 0; run < 100; run++ {
		task := &Task{ID: "task_random", Status: TaskPending}

		for step := 0; step < 20; step++ {
			before := task.Status
			next := targets[rng.Intn(len(targets))]

			err := task.Transition(next, `{"ok":true}`, "boom")
			if err != nil {
				assert.Equal(t, before, task.Status, "failed transition must not move the task")
				continue
			}

			assert.True(t, before.CanTransition(next), "%s -> %s accepted", before, next)
			assert.Greater(t, rank[task.Status], rank[before], "status must advance monotonically")
		}
	}
}
