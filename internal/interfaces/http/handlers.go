package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lendcore/loanverify/internal/domain/entity"
	"github.com/lendcore/loanverify/internal/pipeline"
)

// Handlers contains all HTTP request handlers
type Handlers struct {
	orchestrator *pipeline.Orchestrator
	logger       *zap.Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(orchestrator *pipeline.Orchestrator, logger *zap.Logger) *Handlers {
	return &Handlers{
		orchestrator: orchestrator,
		logger:       logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// TaskResponse represents a task in API responses
type TaskResponse struct {
	TaskID        string `json:"task_id"`
	ApplicantName string `json:"applicant_name"`
	Status        string `json:"status"`
	ResultData    string `json:"result_data,omitempty"`
	ErrorMessage  string `json:"error_message,omitempty"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

// ListTasksRequest represents query parameters for listing tasks
type ListTasksRequest struct {
	Limit int `form:"limit"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   "1.0.0",
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    response,
	})
}

// ProcessApplication handles POST /api/v1/loans/apply. The pipeline
// runs synchronously; the response carries the full decision along
// with the task identifier for later retrieval.
func (h *Handlers) ProcessApplication(c *gin.Context) {
	var app entity.Application
	if err := c.ShouldBindJSON(&app); err != nil {
		h.logger.Error("Invalid application payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   "invalid application: " + err.Error(),
		})
		return
	}

	result, err := h.orchestrator.Process(c.Request.Context(), app)
	if err != nil {
		h.logger.Error("Application processing failed",
			zap.String("applicant", app.Name), zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{
			Success: false,
			Error:   "application processing failed",
		})
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    result,
	})
}

// GetTask handles GET /api/v1/tasks/:id
func (h *Handlers) GetTask(c *gin.Context) {
	id := c.Param("id")

	task, err := h.orchestrator.GetTask(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("Failed to get task", zap.String("task_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{
			Success: false,
			Error:   "failed to retrieve task",
		})
		return
	}
	if task == nil {
		c.JSON(http.StatusNotFound, Response{
			Success: false,
			Error:   "task not found",
		})
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    toTaskResponse(task),
	})
}

// ListTasks handles GET /api/v1/tasks
func (h *Handlers) ListTasks(c *gin.Context) {
	var req ListTasksRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.logger.Error("Invalid query parameters", zap.Error(err))
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   "invalid query parameters",
		})
		return
	}

	tasks, err := h.orchestrator.ListTasks(c.Request.Context(), req.Limit)
	if err != nil {
		h.logger.Error("Failed to list tasks", zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{
			Success: false,
			Error:   "failed to retrieve tasks",
		})
		return
	}

	responseTasks := make([]TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		responseTasks = append(responseTasks, toTaskResponse(task))
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    responseTasks,
	})
}

// toTaskResponse converts a domain task to an API response
func toTaskResponse(task *entity.Task) TaskResponse {
	return TaskResponse{
		TaskID:        task.ID,
		ApplicantName: task.ApplicantName,
		Status:        string(task.Status),
		ResultData:    task.ResultData,
		ErrorMessage:  task.ErrorMessage,
		CreatedAt:     task.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     task.UpdatedAt.Format(time.RFC3339),
	}
}
