package strategy

import (
	"context"
	"encoding/json"
	"errors"
	"stock-screener/config"
	"stock-screener/internal/dto"
	"stock-screener/internal/model"
	"stock-screener/pkg/logger"
	"stock-screener/pkg/utils"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

type mockPriceSync struct{ mock.Mock }

func (m *mockPriceSync) SyncPrices(ctx context.Context, symbols []string, days int) (*dto.SyncReport, error) {
	args := m.Called(ctx, symbols, days)
	r, _ := args.Get(0).(*dto.SyncReport)
	return r, args.Error(1)
}

type mockRefresher struct{ mock.Mock }

func (m *mockRefresher) RefreshAll(ctx context.Context, symbols []string) (*dto.RefreshReport, error) {
	args := m.Called(ctx, symbols)
	r, _ := args.Get(0).(*dto.RefreshReport)
	return r, args.Error(1)
}

type mockPriceBarRepo struct{ mock.Mock }

func (m *mockPriceBarRepo) Name() string { return config.PriceProviderDatabase }

func (m *mockPriceBarRepo) Get(ctx context.Context, param dto.GetPriceHistoryParam) (*dto.PriceHistory, error) {
	return nil, errors.New("not used")
}

func (m *mockPriceBarRepo) Upsert(ctx context.Context, bars []model.PriceBar, opts ...utils.DBOption) error {
	return errors.New("not used")
}

func (m *mockPriceBarRepo) DeleteOlderThan(ctx context.Context, date time.Time, opts ...utils.DBOption) (int64, error) {
	args := m.Called(ctx, date)
	return int64(args.Int(0)), args.Error(1)
}

type mockJobRepo struct{ mock.Mock }

func (m *mockJobRepo) FindJobsToSchedule(ctx context.Context, opts ...utils.DBOption) ([]model.TaskSchedule, error) {
	return nil, nil
}

func (m *mockJobRepo) CreateTaskExecutionHistory(ctx context.Context, history *model.TaskExecutionHistory, opts ...utils.DBOption) error {
	return nil
}

func (m *mockJobRepo) UpdateTaskSchedule(ctx context.Context, schedule *model.TaskSchedule, opts ...utils.DBOption) error {
	return nil
}

func (m *mockJobRepo) FindByID(ctx context.Context, id uint) (*model.Job, error) {
	return nil, nil
}

func (m *mockJobRepo) UpdateTaskExecutionHistory(ctx context.Context, history *model.TaskExecutionHistory, opts ...utils.DBOption) error {
	return nil
}

func (m *mockJobRepo) Get(ctx context.Context, param *model.GetJobParam, opts ...utils.DBOption) ([]model.Job, error) {
	return nil, nil
}

func (m *mockJobRepo) DeleteTaskHistoryOlderThan(ctx context.Context, date time.Time, opts ...utils.DBOption) (int64, error) {
	args := m.Called(ctx, date)
	return int64(args.Int(0)), args.Error(1)
}

func testConfig() *config.Config {
	return &config.Config{PriceSource: config.PriceSource{Range: 120, Interval: "1d"}}
}

func jobWithPayload(t *testing.T, jobType JobType, payload interface{}) *model.Job {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	return &model.Job{ID: 1, Type: string(jobType), Payload: datatypes.JSON(raw)}
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, int32(JOB_EXIT_CODE_SKIPPED), exitCode(0, 0))
	assert.Equal(t, int32(JOB_EXIT_CODE_SUCCESS), exitCode(3, 0))
	assert.Equal(t, int32(JOB_EXIT_CODE_PARTIAL_SUCCESS), exitCode(3, 1))
	assert.Equal(t, int32(JOB_EXIT_CODE_FAILED), exitCode(3, 3))
}

func TestPriceSyncStrategy(t *testing.T) {
	sync := &mockPriceSync{}
	s := NewPriceSyncStrategy(testConfig(), logger.Nop(), sync)
	assert.Equal(t, JobTypePriceSync, s.GetType())

	sync.On("SyncPrices", mock.Anything, []string{"BBCA"}, 120).
		Return(&dto.SyncReport{Total: 1, Synced: 1, Failed: map[string]string{}}, nil)

	res, err := s.Execute(context.Background(), jobWithPayload(t, JobTypePriceSync, PriceSyncPayload{Symbols: []string{"BBCA"}}))
	require.NoError(t, err)
	assert.Equal(t, int32(JOB_EXIT_CODE_SUCCESS), res.ExitCode)
	assert.Contains(t, res.Output, `"synced":1`)
}

func TestPriceSyncStrategy_BadPayload(t *testing.T) {
	s := NewPriceSyncStrategy(testConfig(), logger.Nop(), &mockPriceSync{})
	job := &model.Job{ID: 1, Payload: datatypes.JSON(`[1,2]`)}

	res, err := s.Execute(context.Background(), job)
	assert.Error(t, err)
	assert.Equal(t, int32(JOB_EXIT_CODE_FAILED), res.ExitCode)
}

func TestIndicatorRefreshStrategy(t *testing.T) {
	refresher := &mockRefresher{}
	s := NewIndicatorRefreshStrategy(logger.Nop(), refresher)
	assert.Equal(t, JobTypeIndicatorRefresh, s.GetType())

	refresher.On("RefreshAll", mock.Anything, []string(nil)).
		Return(&dto.RefreshReport{Total: 2, Refreshed: 1, Failed: map[string]string{"TLKM": "no data"}}, nil)

	res, err := s.Execute(context.Background(), &model.Job{ID: 2})
	require.NoError(t, err)
	assert.Equal(t, int32(JOB_EXIT_CODE_PARTIAL_SUCCESS), res.ExitCode)
	assert.Contains(t, res.Output, "TLKM")
}

func TestIndicatorRefreshStrategy_Error(t *testing.T) {
	refresher := &mockRefresher{}
	s := NewIndicatorRefreshStrategy(logger.Nop(), refresher)
	refresher.On("RefreshAll", mock.Anything, mock.Anything).Return(nil, errors.New("db down"))

	res, err := s.Execute(context.Background(), &model.Job{ID: 2})
	assert.EqualError(t, err, "db down")
	assert.Equal(t, int32(JOB_EXIT_CODE_FAILED), res.ExitCode)
}

func TestDataCleanUpStrategy(t *testing.T) {
	bars := &mockPriceBarRepo{}
	jobs := &mockJobRepo{}
	s := NewDataCleanUpStrategy(testConfig(), logger.Nop(), bars, jobs)
	assert.Equal(t, JobTypeDataCleanUp, s.GetType())

	cutoff := utils.StartOfDay(utils.TimeNowWIB()).AddDate(0, 0, -400)
	bars.On("DeleteOlderThan", mock.Anything, mock.MatchedBy(func(d time.Time) bool { return d.Equal(cutoff) })).Return(12, nil)
	jobs.On("DeleteTaskHistoryOlderThan", mock.Anything, mock.Anything).Return(0, errors.New("locked"))

	res, err := s.Execute(context.Background(), jobWithPayload(t, JobTypeDataCleanUp, DataCleanUpPayload{RetentionDays: 400}))
	require.NoError(t, err)
	assert.Equal(t, int32(JOB_EXIT_CODE_PARTIAL_SUCCESS), res.ExitCode)

	var out []DataCleanUpResult
	require.NoError(t, json.Unmarshal([]byte(res.Output), &out))
	require.Len(t, out, 2)
	assert.Equal(t, DataCleanUpResult{Table: "price_bars", Total: 12}, out[0])
	assert.Equal(t, "task_execution_history", out[1].Table)
	assert.Contains(t, out[1].Error, "locked")
}

func TestDataCleanUpStrategy_KeepsIndicatorWindow(t *testing.T) {
	bars := &mockPriceBarRepo{}
	jobs := &mockJobRepo{}
	s := NewDataCleanUpStrategy(testConfig(), logger.Nop(), bars, jobs)

	cutoff := utils.StartOfDay(utils.TimeNowWIB()).AddDate(0, 0, -120)
	bars.On("DeleteOlderThan", mock.Anything, mock.MatchedBy(func(d time.Time) bool { return d.Equal(cutoff) })).Return(0, nil)
	jobs.On("DeleteTaskHistoryOlderThan", mock.Anything, mock.Anything).Return(0, nil)

	res, err := s.Execute(context.Background(), jobWithPayload(t, JobTypeDataCleanUp, DataCleanUpPayload{RetentionDays: 7}))
	require.NoError(t, err)
	assert.Equal(t, int32(JOB_EXIT_CODE_SUCCESS), res.ExitCode)
	bars.AssertExpectations(t)
}
