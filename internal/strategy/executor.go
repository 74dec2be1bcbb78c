package strategy

import (
	"context"
	"encoding/json"
	"fmt"
	"stock-screener/internal/model"
)

const (
	JOB_EXIT_CODE_SUCCESS         = 200
	JOB_EXIT_CODE_FAILED          = 500
	JOB_EXIT_CODE_SKIPPED         = 204
	JOB_EXIT_CODE_PARTIAL_SUCCESS = 206
)

type JobType string

const (
	JobTypePriceSync        JobType = "price_sync"
	JobTypeIndicatorRefresh JobType = "indicator_refresh"
	JobTypeDataCleanUp      JobType = "data_clean_up"
)

type JobResult struct {
	ExitCode int32  `json:"exit_code"`
	Output   string `json:"output"`
}

// JobExecutionStrategy defines the interface for different job execution strategies.
type JobExecutionStrategy interface {
	Execute(ctx context.Context, job *model.Job) (JobResult, error)
	GetType() JobType
}

// decodePayload reads a job payload into v. An empty payload leaves v untouched.
func decodePayload(job *model.Job, v interface{}) error {
	if len(job.Payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(job.Payload, v); err != nil {
		return fmt.Errorf("failed to unmarshal job payload: %w", err)
	}
	return nil
}

// exitCode grades a batch run: nothing to do, all failed, some failed, or all succeeded.
func exitCode(total, failed int) int32 {
	switch {
	case total == 0:
		return JOB_EXIT_CODE_SKIPPED
	case failed == total:
		return JOB_EXIT_CODE_FAILED
	case failed > 0:
		return JOB_EXIT_CODE_PARTIAL_SUCCESS
	default:
		return JOB_EXIT_CODE_SUCCESS
	}
}

func failedResult(err error) (JobResult, error) {
	return JobResult{ExitCode: JOB_EXIT_CODE_FAILED, Output: err.Error()}, err
}

func outputResult(code int32, v interface{}) (JobResult, error) {
	res, err := json.Marshal(v)
	if err != nil {
		return failedResult(fmt.Errorf("failed to marshal output message: %w", err))
	}
	return JobResult{ExitCode: code, Output: string(res)}, nil
}
