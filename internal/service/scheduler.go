package service

import (
	"context"
	"database/sql"
	"fmt"
	"stock-screener/config"
	"stock-screener/internal/model"
	"stock-screener/internal/repository"
	"stock-screener/pkg/logger"
	"stock-screener/pkg/utils"

	"github.com/robfig/cron/v3"
)

var ErrJobNotFound = repository.ErrJobNotFound

type SchedulerService interface {
	// Execute starts every due schedule and moves it to its next run.
	Execute(ctx context.Context) error
	GetJobSchedule(ctx context.Context, param model.GetJobParam) ([]model.Job, error)
	// RunJobTask starts a job now, outside its schedule.
	RunJobTask(ctx context.Context, jobID uint) error
}

type schedulerService struct {
	cfg          *config.Config
	log          *logger.Logger
	cronParser   cron.Parser
	jobRepo      repository.JobRepository
	taskExecutor TaskExecutor
	semaphore    chan struct{}
}

func NewSchedulerService(
	cfg *config.Config,
	log *logger.Logger,
	jobRepo repository.JobRepository,
	taskExecutor TaskExecutor,
) SchedulerService {
	return &schedulerService{
		cfg:          cfg,
		log:          log,
		jobRepo:      jobRepo,
		cronParser:   cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor),
		taskExecutor: taskExecutor,
		semaphore:    make(chan struct{}, cfg.Scheduler.MaxConcurrency),
	}
}

func (s *schedulerService) Execute(ctx context.Context) error {
	schedules, err := s.jobRepo.FindJobsToSchedule(ctx, utils.WithPreload("Job"))
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to find jobs to schedule", logger.ErrorField(err))
		return fmt.Errorf("failed to find jobs to schedule: %w", err)
	}

	if len(schedules) == 0 {
		s.log.DebugContext(ctx, "No jobs to schedule")
		return nil
	}
	s.log.InfoContext(ctx, "Start running jobs",
		logger.IntField("job_count", len(schedules)),
		logger.IntField("max_concurrency", s.cfg.Scheduler.MaxConcurrency),
	)

	for i := range schedules {
		task := schedules[i]
		if ctx.Err() != nil {
			s.log.WarnContext(ctx, "Job execution cancelled", logger.ErrorField(ctx.Err()))
			return nil
		}

		if err := s.startTask(ctx, task.Job, &task.ID); err != nil {
			s.log.ErrorContext(ctx, "Failed to execute job",
				logger.ErrorField(err),
				logger.UintField("job_id", task.JobID),
				logger.UintField("schedule_id", task.ID),
				logger.StringField("job_name", task.Job.Name),
				logger.StringField("job_type", task.Job.Type),
			)
		}

		if err := s.advanceSchedule(ctx, &task); err != nil {
			s.log.ErrorContext(ctx, "Failed to advance schedule", logger.ErrorField(err), logger.UintField("schedule_id", task.ID))
		}
	}

	return nil
}

// startTask waits for a free slot, records a running history row and hands the job to the
// executor in the background.
func (s *schedulerService) startTask(ctx context.Context, job model.Job, scheduleID *uint) error {
	s.log.DebugContext(ctx, "Executing job",
		logger.UintField("job_id", job.ID),
		logger.StringField("job_name", job.Name),
		logger.StringField("job_type", job.Type),
		logger.DurationField("timeout", job.TimeoutDuration()),
		logger.IntField("active_concurrency", len(s.semaphore)),
		logger.IntField("max_concurrency", cap(s.semaphore)),
	)

	// The slot is taken before the history row exists so a cancelled wait leaves no row behind.
	select {
	case s.semaphore <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}

	history := &model.TaskExecutionHistory{
		JobID:      job.ID,
		ScheduleID: scheduleID,
		Status:     model.StatusRunning,
		StartedAt:  utils.TimeNowWIB(),
	}
	if err := s.jobRepo.CreateTaskExecutionHistory(ctx, history); err != nil {
		<-s.semaphore
		return fmt.Errorf("failed to create task history: %w", err)
	}

	timeout := job.TimeoutDuration()
	if s.cfg.Scheduler.TimeoutDuration > 0 && s.cfg.Scheduler.TimeoutDuration < timeout {
		timeout = s.cfg.Scheduler.TimeoutDuration
	}
	reqID := logger.RequestID(ctx)

	utils.GoSafe(func() {
		defer func() {
			<-s.semaphore
		}()

		// The run outlives the tick or request that started it.
		taskCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if reqID != "" {
			taskCtx = s.log.WithRequestID(taskCtx, reqID)
		}

		if err := s.taskExecutor.Execute(taskCtx, history); err != nil {
			s.log.ErrorContext(taskCtx, "Failed to execute task", logger.ErrorField(err), logger.UintField("history_id", history.ID))
		}
	})
	return nil
}

func (s *schedulerService) advanceSchedule(ctx context.Context, task *model.TaskSchedule) error {
	cronSchedule, err := s.cronParser.Parse(task.CronExpression)
	if err != nil {
		return fmt.Errorf("failed to parse cron expression %q: %w", task.CronExpression, err)
	}

	now := utils.TimeNowWIB()
	task.LastExecution = sql.NullTime{Time: now, Valid: true}
	task.NextExecution = sql.NullTime{Time: cronSchedule.Next(now), Valid: true}

	if err := s.jobRepo.UpdateTaskSchedule(ctx, task); err != nil {
		return fmt.Errorf("failed to update task schedule: %w", err)
	}
	return nil
}

func (s *schedulerService) GetJobSchedule(ctx context.Context, param model.GetJobParam) ([]model.Job, error) {
	return s.jobRepo.Get(ctx, &param)
}

func (s *schedulerService) RunJobTask(ctx context.Context, jobID uint) error {
	s.log.InfoContext(ctx, "Running job task", logger.UintField("job_id", jobID))
	jobs, err := s.jobRepo.Get(ctx, &model.GetJobParam{IDs: []uint{jobID}})
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to find job", logger.ErrorField(err), logger.UintField("job_id", jobID))
		return fmt.Errorf("failed to find job: %w", err)
	}
	if len(jobs) == 0 {
		return fmt.Errorf("%w: %d", ErrJobNotFound, jobID)
	}

	return s.startTask(ctx, jobs[0], nil)
}
