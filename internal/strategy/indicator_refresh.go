package strategy

import (
	"context"
	"stock-screener/internal/contract"
	"stock-screener/internal/model"
	"stock-screener/pkg/logger"
)

type IndicatorRefreshPayload struct {
	Symbols []string `json:"symbols"`
}

type IndicatorRefreshStrategy struct {
	log       *logger.Logger
	refresher contract.IndicatorRefreshContract
}

func NewIndicatorRefreshStrategy(log *logger.Logger, refresher contract.IndicatorRefreshContract) JobExecutionStrategy {
	return &IndicatorRefreshStrategy{
		log:       log,
		refresher: refresher,
	}
}

func (s *IndicatorRefreshStrategy) Execute(ctx context.Context, job *model.Job) (JobResult, error) {
	var payload IndicatorRefreshPayload
	if err := decodePayload(job, &payload); err != nil {
		s.log.ErrorContext(ctx, "Failed to read indicator refresh payload", logger.ErrorField(err), logger.UintField("job_id", job.ID))
		return failedResult(err)
	}

	report, err := s.refresher.RefreshAll(ctx, payload.Symbols)
	if err != nil {
		s.log.ErrorContext(ctx, "Indicator refresh failed", logger.ErrorField(err), logger.UintField("job_id", job.ID))
		if report == nil {
			return failedResult(err)
		}
		result, _ := outputResult(JOB_EXIT_CODE_FAILED, report)
		return result, err
	}
	return outputResult(exitCode(report.Total, len(report.Failed)), report)
}

func (s *IndicatorRefreshStrategy) GetType() JobType {
	return JobTypeIndicatorRefresh
}
