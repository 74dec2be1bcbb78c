package strategy

import (
	"context"
	"fmt"
	"stock-screener/config"
	"stock-screener/internal/model"
	"stock-screener/internal/repository"
	"stock-screener/pkg/logger"
	"stock-screener/pkg/utils"
)

const defaultRetentionDays = 365

type DataCleanUpPayload struct {
	RetentionDays int `json:"retention_days"`
}

type DataCleanUpResult struct {
	Table string `json:"table"`
	Total int64  `json:"total"`
	Error string `json:"error,omitempty"`
}

type DataCleanUpStrategy struct {
	cfg          *config.Config
	log          *logger.Logger
	priceBarRepo repository.PriceBarRepository
	jobRepo      repository.JobRepository
}

func NewDataCleanUpStrategy(cfg *config.Config, log *logger.Logger, priceBarRepo repository.PriceBarRepository, jobRepo repository.JobRepository) JobExecutionStrategy {
	return &DataCleanUpStrategy{
		cfg:          cfg,
		log:          log,
		priceBarRepo: priceBarRepo,
		jobRepo:      jobRepo,
	}
}

func (s *DataCleanUpStrategy) Execute(ctx context.Context, job *model.Job) (JobResult, error) {
	s.log.InfoContext(ctx, "Starting data clean up")

	var payload DataCleanUpPayload
	if err := decodePayload(job, &payload); err != nil {
		s.log.ErrorContext(ctx, "Failed to unmarshal job payload", logger.ErrorField(err), logger.UintField("job_id", job.ID))
		return failedResult(err)
	}
	if payload.RetentionDays <= 0 {
		payload.RetentionDays = defaultRetentionDays
	}
	// Price bars must outlive the window indicators are computed from.
	if payload.RetentionDays < s.cfg.PriceSource.Range {
		payload.RetentionDays = s.cfg.PriceSource.Range
	}

	date := utils.StartOfDay(utils.TimeNowWIB()).AddDate(0, 0, -payload.RetentionDays)
	cleaners := []struct {
		table string
		run   func(ctx context.Context) (int64, error)
	}{
		{"price_bars", func(ctx context.Context) (int64, error) { return s.priceBarRepo.DeleteOlderThan(ctx, date) }},
		{"task_execution_history", func(ctx context.Context) (int64, error) { return s.jobRepo.DeleteTaskHistoryOlderThan(ctx, date) }},
	}

	outputMsg := make([]DataCleanUpResult, 0, len(cleaners))
	failed := 0
	for _, c := range cleaners {
		total, err := c.run(ctx)
		result := DataCleanUpResult{Table: c.table, Total: total}
		if err != nil {
			failed++
			s.log.ErrorContext(ctx, "Failed to delete old rows", logger.ErrorField(err), logger.StringField("table", c.table))
			result.Error = fmt.Sprintf("failed to delete %s older than %s: %v", c.table, date.Format("2006-01-02"), err)
		}
		outputMsg = append(outputMsg, result)
	}

	return outputResult(exitCode(len(cleaners), failed), outputMsg)
}

func (s *DataCleanUpStrategy) GetType() JobType {
	return JobTypeDataCleanUp
}
