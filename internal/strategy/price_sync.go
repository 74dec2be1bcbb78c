package strategy

import (
	"context"
	"stock-screener/config"
	"stock-screener/internal/contract"
	"stock-screener/internal/model"
	"stock-screener/pkg/logger"
)

type PriceSyncPayload struct {
	Symbols []string `json:"symbols"`
	Days    int      `json:"days"`
}

type PriceSyncStrategy struct {
	cfg       *config.Config
	log       *logger.Logger
	priceSync contract.PriceSyncContract
}

func NewPriceSyncStrategy(cfg *config.Config, log *logger.Logger, priceSync contract.PriceSyncContract) JobExecutionStrategy {
	return &PriceSyncStrategy{
		cfg:       cfg,
		log:       log,
		priceSync: priceSync,
	}
}

func (s *PriceSyncStrategy) Execute(ctx context.Context, job *model.Job) (JobResult, error) {
	var payload PriceSyncPayload
	if err := decodePayload(job, &payload); err != nil {
		s.log.ErrorContext(ctx, "Failed to read price sync payload", logger.ErrorField(err), logger.UintField("job_id", job.ID))
		return failedResult(err)
	}
	if payload.Days <= 0 {
		payload.Days = s.cfg.PriceSource.Range
	}

	s.log.InfoContext(ctx, "Starting price sync", logger.IntField("symbols", len(payload.Symbols)), logger.IntField("days", payload.Days))
	report, err := s.priceSync.SyncPrices(ctx, payload.Symbols, payload.Days)
	if err != nil {
		s.log.ErrorContext(ctx, "Price sync failed", logger.ErrorField(err), logger.UintField("job_id", job.ID))
		if report == nil {
			return failedResult(err)
		}
		result, _ := outputResult(JOB_EXIT_CODE_FAILED, report)
		return result, err
	}
	return outputResult(exitCode(report.Total, len(report.Failed)), report)
}

func (s *PriceSyncStrategy) GetType() JobType {
	return JobTypePriceSync
}
