// Package pipeline runs the end-to-end loan verification flow: fan out
// the three scoring stages, review their consistency, synthesize the
// decision, and record the task lifecycle.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lendcore/loanverify/internal/decision"
	"github.com/lendcore/loanverify/internal/domain/entity"
	"github.com/lendcore/loanverify/internal/metrics"
	"github.com/lendcore/loanverify/internal/review"
	"github.com/lendcore/loanverify/internal/scoring"
	"github.com/lendcore/loanverify/pkg/utils"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// TaskStore is the persistence surface the orchestrator needs.
type TaskStore interface {
	Create(ctx context.Context, task *entity.Task) error
	GetByID(ctx context.Context, id string) (*entity.Task, error)
	UpdateStatus(ctx context.Context, id string, status entity.TaskStatus, result, errMsg string) error
	ListRecent(ctx context.Context, limit int) ([]*entity.Task, error)
}

// Result is the full output of one pipeline run.
type Result struct {
	TaskID      string                   `json:"task_id"`
	Decision    entity.Decision          `json:"decision"`
	RiskScore   float64                  `json:"risk_score"`
	Confidence  float64                  `json:"confidence"`
	Reasoning   string                   `json:"reasoning"`
	Conditions  []string                 `json:"conditions,omitempty"`
	Credit      entity.CreditVerdict     `json:"credit_assessment"`
	Employment  entity.EmploymentVerdict `json:"employment_verification"`
	Collateral  entity.CollateralVerdict `json:"collateral_evaluation"`
	Review      entity.ReviewResult      `json:"consistency_review"`
	ProcessedAt time.Time                `json:"processed_at"`
}

// Orchestrator wires the pipeline stages together.
type Orchestrator struct {
	credit      *scoring.CreditScorer
	employment  *scoring.EmploymentVerifier
	collateral  *scoring.CollateralAssessor
	reviewer    *review.Reviewer
	synthesizer *decision.Synthesizer
	tasks       TaskStore
	logger      *zap.Logger
}

// NewOrchestrator creates a pipeline orchestrator.
func NewOrchestrator(
	credit *scoring.CreditScorer,
	employment *scoring.EmploymentVerifier,
	collateral *scoring.CollateralAssessor,
	reviewer *review.Reviewer,
	synthesizer *decision.Synthesizer,
	tasks TaskStore,
	logger *zap.Logger,
) *Orchestrator {
	return &Orchestrator{
		credit:      credit,
		employment:  employment,
		collateral:  collateral,
		reviewer:    reviewer,
		synthesizer: synthesizer,
		tasks:       tasks,
		logger:      logger,
	}
}

// Process runs the full verification pipeline for one application.
// Scoring stages are total and cannot fail the run; only invalid input
// and persistence errors do, and those mark the task failed.
func (o *Orchestrator) Process(ctx context.Context, app entity.Application) (*Result, error) {
	if err := app.Validate(); err != nil {
		return nil, fmt.Errorf("invalid application: %w", err)
	}

	requestData, err := json.Marshal(app)
	if err != nil {
		return nil, fmt.Errorf("failed to encode application: %w", err)
	}

	task := &entity.Task{
		ID:            newTaskID(),
		ApplicantName: utils.SanitizeString(app.Name),
		Status:        entity.TaskPending,
		RequestData:   string(requestData),
	}
	if err := o.tasks.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to register task: %w", err)
	}

	o.logger.Info("Pipeline started",
		zap.String("task_id", task.ID),
		zap.String("applicant", app.Name))

	if err := o.tasks.UpdateStatus(ctx, task.ID, entity.TaskInProgress, "", ""); err != nil {
		return nil, o.fail(ctx, task.ID, "persistence", err)
	}

	metrics.PipelineActive.Inc()
	defer metrics.PipelineActive.Dec()

	var (
		creditVerdict     entity.CreditVerdict
		employmentVerdict entity.EmploymentVerdict
		collateralVerdict entity.CollateralVerdict
	)

	// The three scoring stages are independent; run them concurrently
	// and join before the review stage.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer observe("credit", time.Now())
		creditVerdict = o.credit.Score(app)
		return nil
	})
	g.Go(func() error {
		defer observe("employment", time.Now())
		employmentVerdict = o.employment.Verify(gctx, app)
		return nil
	})
	g.Go(func() error {
		defer observe("collateral", time.Now())
		collateralVerdict = o.collateral.Assess(app)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, o.fail(ctx, task.ID, "scoring", err)
	}

	reviewStart := time.Now()
	reviewResult := o.reviewer.Review(ctx, app, creditVerdict, employmentVerdict, collateralVerdict)
	observe("review", reviewStart)

	decisionStart := time.Now()
	decisionResult := o.synthesizer.Decide(ctx, app, creditVerdict, employmentVerdict, collateralVerdict, reviewResult)
	observe("decision", decisionStart)

	result := &Result{
		TaskID:      task.ID,
		Decision:    decisionResult.Decision,
		RiskScore:   decisionResult.RiskScore,
		Confidence:  decisionResult.Confidence,
		Reasoning:   decisionResult.Reasoning,
		Conditions:  decisionResult.Conditions,
		Credit:      creditVerdict,
		Employment:  employmentVerdict,
		Collateral:  collateralVerdict,
		Review:      reviewResult,
		ProcessedAt: time.Now().UTC(),
	}

	resultData, err := json.Marshal(result)
	if err != nil {
		return nil, o.fail(ctx, task.ID, "encoding", err)
	}
	if err := o.tasks.UpdateStatus(ctx, task.ID, entity.TaskCompleted, string(resultData), ""); err != nil {
		return nil, o.fail(ctx, task.ID, "persistence", err)
	}

	metrics.ApplicationsProcessed.WithLabelValues(string(result.Decision)).Inc()
	o.logger.Info("Pipeline completed",
		zap.String("task_id", task.ID),
		zap.String("decision", string(result.Decision)),
		zap.Float64("risk_score", result.RiskScore))

	return result, nil
}

// GetTask retrieves a task by its identifier. Returns nil when no task
// with that identifier exists.
func (o *Orchestrator) GetTask(ctx context.Context, id string) (*entity.Task, error) {
	return o.tasks.GetByID(ctx, id)
}

// ListTasks retrieves the most recent tasks, newest first.
func (o *Orchestrator) ListTasks(ctx context.Context, limit int) ([]*entity.Task, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return o.tasks.ListRecent(ctx, limit)
}

// fail marks the task failed, best effort, and returns the original
// error wrapped with the failing stage.
func (o *Orchestrator) fail(ctx context.Context, taskID, stage string, err error) error {
	metrics.PipelineFailures.WithLabelValues(stage).Inc()
	o.logger.Error("Pipeline failed",
		zap.String("task_id", taskID),
		zap.String("stage", stage),
		zap.Error(err))

	if markErr := o.tasks.UpdateStatus(ctx, taskID, entity.TaskFailed, "", err.Error()); markErr != nil {
		o.logger.Error("Failed to mark task as failed",
			zap.String("task_id", taskID), zap.Error(markErr))
	}
	return fmt.Errorf("pipeline %s stage: %w", stage, err)
}

func observe(stage string, start time.Time) {
	metrics.StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

func newTaskID() string {
	return "task_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}
