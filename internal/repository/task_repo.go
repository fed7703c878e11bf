// Package repository provides SQLite-backed persistence for pipeline
// tasks.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lendcore/loanverify/internal/domain/entity"
	"go.uber.org/zap"
)

// TaskRepository persists pipeline task records.
type TaskRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewTaskRepository creates a new task repository.
func NewTaskRepository(db *sql.DB, logger *zap.Logger) *TaskRepository {
	return &TaskRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new task record.
func (r *TaskRepository) Create(ctx context.Context, task *entity.Task) error {
	query := `
		INSERT INTO loan_tasks (
			task_id, applicant_name, status, request_data, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?)
	`

	now := time.Now().UTC()
	task.CreatedAt = now
	task.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, query,
		task.ID,
		task.ApplicantName,
		string(task.Status),
		task.RequestData,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create task", zap.String("task_id", task.ID), zap.Error(err))
		return fmt.Errorf("failed to create task: %w", err)
	}

	return nil
}

// GetByID retrieves a task by its identifier. Returns nil when no task
// with that identifier exists.
func (r *TaskRepository) GetByID(ctx context.Context, id string) (*entity.Task, error) {
	query := `
		SELECT task_id, applicant_name, status, request_data, result_data,
			error_message, created_at, updated_at
		FROM loan_tasks
		WHERE task_id = ?
	`

	task, err := scanTask(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get task by ID", zap.String("task_id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	return task, nil
}

// UpdateStatus advances a task through its lifecycle. The transition is
// validated against the current stored status before writing, so stale
// or out-of-order updates are rejected.
func (r *TaskRepository) UpdateStatus(ctx context.Context, id string, status entity.TaskStatus, result, errMsg string) error {
	task, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if task == nil {
		return fmt.Errorf("task %s not found", id)
	}

	if err := task.Transition(status, result, errMsg); err != nil {
		return err
	}

	query := `
		UPDATE loan_tasks
		SET status = ?, result_data = ?, error_message = ?, updated_at = ?
		WHERE task_id = ?
	`

	_, err = r.db.ExecContext(ctx, query,
		string(task.Status),
		nullIfEmpty(task.ResultData),
		nullIfEmpty(task.ErrorMessage),
		task.UpdatedAt,
		task.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update task status",
			zap.String("task_id", id), zap.String("status", string(status)), zap.Error(err))
		return fmt.Errorf("failed to update task status: %w", err)
	}

	return nil
}

// ListRecent retrieves the most recently created tasks, newest first.
func (r *TaskRepository) ListRecent(ctx context.Context, limit int) ([]*entity.Task, error) {
	query := `
		SELECT task_id, applicant_name, status, request_data, result_data,
			error_message, created_at, updated_at
		FROM loan_tasks
		ORDER BY created_at DESC
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		r.logger.Error("Failed to list tasks", zap.Error(err))
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*entity.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}

	return tasks, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTask(row rowScanner) (*entity.Task, error) {
	var task entity.Task
	var status string
	var resultData, errorMessage sql.NullString

	err := row.Scan(
		&task.ID,
		&task.ApplicantName,
		&status,
		&task.RequestData,
		&resultData,
		&errorMessage,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	task.Status = entity.TaskStatus(status)
	task.ResultData = resultData.String
	task.ErrorMessage = errorMessage.String

	return &task, nil
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
