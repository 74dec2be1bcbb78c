package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"stock-screener/config"
	"stock-screener/internal/model"
	"stock-screener/internal/repository"
	"stock-screener/internal/strategy"
	"stock-screener/pkg/logger"
	"stock-screener/pkg/metrics"
	"stock-screener/pkg/utils"
)

type TaskExecutor interface {
	Execute(ctx context.Context, taskHistory *model.TaskExecutionHistory) error
}

type taskExecutor struct {
	cfg                *config.Config
	log                *logger.Logger
	jobRepo            repository.JobRepository
	executorStrategies map[strategy.JobType]strategy.JobExecutionStrategy
}

func NewTaskExecutor(cfg *config.Config, log *logger.Logger, jobRepo repository.JobRepository, strategies ...strategy.JobExecutionStrategy) TaskExecutor {
	executorStrategies := make(map[strategy.JobType]strategy.JobExecutionStrategy, len(strategies))
	for _, st := range strategies {
		executorStrategies[st.GetType()] = st
	}
	return &taskExecutor{
		jobRepo:            jobRepo,
		cfg:                cfg,
		log:                log,
		executorStrategies: executorStrategies,
	}
}

func (t *taskExecutor) Execute(ctx context.Context, taskHistory *model.TaskExecutionHistory) error {
	t.log.InfoContext(ctx, "Processing job", logger.UintField("job_id", taskHistory.JobID), logger.UintField("history_id", taskHistory.ID))

	job, err := t.jobRepo.FindByID(ctx, taskHistory.JobID)
	if err != nil {
		t.log.ErrorContext(ctx, "Failed to find job", logger.ErrorField(err), logger.UintField("job_id", taskHistory.JobID))
		taskHistory.Status = model.StatusFailed
		taskHistory.ErrorMessage = sql.NullString{String: err.Error(), Valid: true}
		return t.finish(ctx, taskHistory, "unknown")
	}

	executor := t.executorStrategies[strategy.JobType(job.Type)]
	if executor == nil {
		t.log.ErrorContext(ctx, "Job type not found", logger.UintField("job_id", job.ID), logger.StringField("job_type", job.Type))
		taskHistory.Status = model.StatusFailed
		taskHistory.ErrorMessage = sql.NullString{String: "job type not found", Valid: true}
		taskHistory.ExitCode = sql.NullInt32{Int32: strategy.JOB_EXIT_CODE_FAILED, Valid: true}
		return t.finish(ctx, taskHistory, job.Type)
	}

	result, err := executor.Execute(ctx, job)
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
		t.log.ErrorContext(ctx, "Job timed out", logger.UintField("job_id", job.ID))
		taskHistory.Status = model.StatusTimeout
		taskHistory.ErrorMessage = sql.NullString{String: context.DeadlineExceeded.Error(), Valid: true}
	case err != nil:
		t.log.ErrorContext(ctx, "Failed to execute job", logger.ErrorField(err), logger.UintField("job_id", job.ID))
		taskHistory.Status = model.StatusFailed
		taskHistory.ErrorMessage = sql.NullString{String: err.Error(), Valid: true}
	default:
		taskHistory.Status = model.StatusCompleted
	}
	if result.ExitCode == 0 && taskHistory.Status != model.StatusCompleted {
		result.ExitCode = strategy.JOB_EXIT_CODE_FAILED
	}
	taskHistory.ExitCode = sql.NullInt32{Int32: result.ExitCode, Valid: true}
	taskHistory.Output = sql.NullString{String: result.Output, Valid: true}
	return t.finish(ctx, taskHistory, job.Type)
}

func (t *taskExecutor) finish(ctx context.Context, taskHistory *model.TaskExecutionHistory, jobType string) error {
	metrics.IncJobRun(jobType, int(taskHistory.ExitCode.Int32))
	taskHistory.CompletedAt = sql.NullTime{Time: utils.TimeNowWIB(), Valid: true}

	// The run context may already be past its deadline.
	saveCtx := ctx
	if ctx.Err() != nil {
		saveCtx = context.WithoutCancel(ctx)
	}
	if err := t.jobRepo.UpdateTaskExecutionHistory(saveCtx, taskHistory); err != nil {
		t.log.ErrorContext(ctx, "Failed to update task execution history", logger.ErrorField(err), logger.UintField("job_id", taskHistory.JobID))
		return fmt.Errorf("failed to update task execution history: %w", err)
	}
	return nil
}
