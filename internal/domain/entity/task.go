package entity

import (
	"fmt"
	"time"
)

// TaskStatus is the lifecycle state of a pipeline run.
type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
	TaskFailed     TaskStatus = "failed"
)

// Valid reports whether s is one of the four known statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskPending, TaskInProgress, TaskCompleted, TaskFailed:
		return true
	}
	return false
}

// Terminal reports whether no further transition is permitted from s.
func (s TaskStatus) Terminal() bool {
	return s == TaskCompleted || s == TaskFailed
}

// CanTransition reports whether the status machine permits moving from
// s to next. The lifecycle is monotonic:
// pending -> in_progress -> {completed | failed}.
func (s TaskStatus) CanTransition(next TaskStatus) bool {
	switch s {
	case TaskPending:
		return next == TaskInProgress
	case TaskInProgress:
		return next == TaskCompleted || next == TaskFailed
	default:
		return false
	}
}

// Task is the persisted lifecycle record of one pipeline run.
type Task struct {
	ID            string     `json:"task_id"`
	ApplicantName string     `json:"applicant_name"`
	Status        TaskStatus `json:"status"`
	RequestData   string     `json:"request_data"`
	ResultData    string     `json:"result_data,omitempty"`
	ErrorMessage  string     `json:"error_message,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Transition advances the task to next, enforcing monotonicity and the
// completed-implies-result / failed-implies-error invariants.
func (t *Task) Transition(next TaskStatus, result, errMsg string) error {
	if !next.Valid() {
		return fmt.Errorf("unknown task status: %q", next)
	}
	if !t.Status.CanTransition(next) {
		return fmt.Errorf("illegal task transition %s -> %s", t.Status, next)
	}
	switch next {
	case TaskCompleted:
		if result == "" {
			return fmt.Errorf("completed task %s requires a result", t.ID)
		}
		t.ResultData = result
		t.ErrorMessage = ""
	case TaskFailed:
		if errMsg == "" {
			return fmt.Errorf("failed task %s requires an error message", t.ID)
		}
		t.ErrorMessage = errMsg
		t.ResultData = ""
	}
	t.Status = next
	t.UpdatedAt = time.Now().UTC()
	return nil
}
