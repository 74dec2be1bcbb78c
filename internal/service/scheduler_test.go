package service

import (
	"context"
	"errors"
	"stock-screener/internal/model"
	"stock-screener/pkg/logger"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type recordingExecutor struct {
	done chan *model.TaskExecutionHistory
}

func (r *recordingExecutor) Execute(ctx context.Context, history *model.TaskExecutionHistory) error {
	r.done <- history
	return nil
}

func TestSchedulerService_RunJobTask(t *testing.T) {
	jobRepo := &mockJobRepo{}
	exec := &recordingExecutor{done: make(chan *model.TaskExecutionHistory, 1)}
	svc := NewSchedulerService(serviceConfig(), logger.Nop(), jobRepo, exec)

	jobRepo.On("Get", mock.Anything, &model.GetJobParam{IDs: []uint{3}}).Return([]model.Job{{ID: 3, Name: "sync", Type: "price_sync"}}, nil)
	jobRepo.On("CreateTaskExecutionHistory", mock.Anything, mock.Anything).Return(nil)

	require.NoError(t, svc.RunJobTask(context.Background(), 3))

	select {
	case history := <-exec.done:
		assert.Equal(t, uint(3), history.JobID)
		assert.Nil(t, history.ScheduleID)
		assert.Equal(t, model.StatusRunning, history.Status)
	case <-time.After(time.Second):
		t.Fatal("job was not handed to the executor")
	}
	jobRepo.AssertNotCalled(t, "UpdateTaskSchedule", mock.Anything, mock.Anything)
}

func TestSchedulerService_RunJobTask_NotFound(t *testing.T) {
	jobRepo := &mockJobRepo{}
	svc := NewSchedulerService(serviceConfig(), logger.Nop(), jobRepo, &recordingExecutor{})
	jobRepo.On("Get", mock.Anything, mock.Anything).Return([]model.Job{}, nil)

	err := svc.RunJobTask(context.Background(), 42)
	assert.ErrorIs(t, err, ErrJobNotFound)
}

func TestSchedulerService_Execute_AdvancesSchedule(t *testing.T) {
	jobRepo := &mockJobRepo{}
	exec := &recordingExecutor{done: make(chan *model.TaskExecutionHistory, 1)}
	svc := NewSchedulerService(serviceConfig(), logger.Nop(), jobRepo, exec)

	schedule := model.TaskSchedule{ID: 8, JobID: 2, CronExpression: "0 18 * * 1-5", Job: model.Job{ID: 2, Type: "indicator_refresh"}}
	jobRepo.On("FindJobsToSchedule", mock.Anything).Return([]model.TaskSchedule{schedule}, nil)
	jobRepo.On("CreateTaskExecutionHistory", mock.Anything, mock.Anything).Return(nil)
	jobRepo.On("UpdateTaskSchedule", mock.Anything, mock.MatchedBy(func(s *model.TaskSchedule) bool {
		return s.ID == 8 && s.NextExecution.Valid && s.NextExecution.Time.After(s.LastExecution.Time)
	})).Return(nil)

	require.NoError(t, svc.Execute(context.Background()))

	select {
	case history := <-exec.done:
		require.NotNil(t, history.ScheduleID)
		assert.Equal(t, uint(8), *history.ScheduleID)
	case <-time.After(time.Second):
		t.Fatal("job was not handed to the executor")
	}
	jobRepo.AssertExpectations(t)
}

func TestSchedulerService_RunJobTask_CancelledWhileWaiting(t *testing.T) {
	jobRepo := &mockJobRepo{}
	svc := NewSchedulerService(serviceConfig(), logger.Nop(), jobRepo, &recordingExecutor{})
	jobRepo.On("Get", mock.Anything, mock.Anything).Return([]model.Job{{ID: 3, Type: "price_sync"}}, nil)

	sched := svc.(*schedulerService)
	for i := 0; i < cap(sched.semaphore); i++ {
		sched.semaphore <- struct{}{}
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := svc.RunJobTask(ctx, 3)
	assert.ErrorIs(t, err, context.Canceled)
	jobRepo.AssertNotCalled(t, "CreateTaskExecutionHistory", mock.Anything, mock.Anything)
	assert.Len(t, sched.semaphore, cap(sched.semaphore))
}

func TestSchedulerService_RunJobTask_HistoryFailureReleasesSlot(t *testing.T) {
	jobRepo := &mockJobRepo{}
	svc := NewSchedulerService(serviceConfig(), logger.Nop(), jobRepo, &recordingExecutor{})
	jobRepo.On("Get", mock.Anything, mock.Anything).Return([]model.Job{{ID: 3, Type: "price_sync"}}, nil)
	jobRepo.On("CreateTaskExecutionHistory", mock.Anything, mock.Anything).Return(errors.New("db down"))

	require.Error(t, svc.RunJobTask(context.Background(), 3))
	assert.Empty(t, svc.(*schedulerService).semaphore)
}
