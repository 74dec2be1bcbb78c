package repository

import (
	"context"
	"errors"
	"fmt"
	"stock-screener/internal/model"
	"stock-screener/pkg/utils"
	"time"

	"gorm.io/gorm"
)

type JobRepository interface {
	FindJobsToSchedule(ctx context.Context, opts ...utils.DBOption) ([]model.TaskSchedule, error)
	CreateTaskExecutionHistory(ctx context.Context, history *model.TaskExecutionHistory, opts ...utils.DBOption) error
	UpdateTaskSchedule(ctx context.Context, schedule *model.TaskSchedule, opts ...utils.DBOption) error
	FindByID(ctx context.Context, id uint) (*model.Job, error)
	UpdateTaskExecutionHistory(ctx context.Context, history *model.TaskExecutionHistory, opts ...utils.DBOption) error
	Get(ctx context.Context, param *model.GetJobParam, opts ...utils.DBOption) ([]model.Job, error)
	DeleteTaskHistoryOlderThan(ctx context.Context, date time.Time, opts ...utils.DBOption) (int64, error)
}

type jobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) JobRepository {
	return &jobRepository{db: db}
}

// dueSchedules selects active schedules that never ran or whose next run has passed.
func dueSchedules(now time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("is_active = ?", true).
			Where("next_execution IS NULL OR next_execution <= ?", now).
			Order("next_execution ASC NULLS FIRST")
	}
}

func jobFilter(param *model.GetJobParam) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if param == nil {
			return db
		}
		if len(param.IDs) > 0 {
			db = db.Where("jobs.id IN ?", param.IDs)
		}
		if len(param.Types) > 0 {
			db = db.Where("jobs.type IN ?", param.Types)
		}
		if param.IsActive != nil {
			active := db.Session(&gorm.Session{NewDB: true}).
				Table("task_schedules").
				Select("1").
				Where("task_schedules.job_id = jobs.id AND task_schedules.is_active = ?", *param.IsActive)
			db = db.Where("EXISTS (?)", active)
		}
		if param.Limit != nil {
			db = db.Limit(*param.Limit)
		}
		return db
	}
}

// recentHistory preloads the newest executions first, capped at limit when set.
func recentHistory(limit *int) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Order("created_at DESC")
		if limit != nil {
			db = db.Limit(*limit)
		}
		return db
	}
}

func (r *jobRepository) FindJobsToSchedule(ctx context.Context, opts ...utils.DBOption) ([]model.TaskSchedule, error) {
	var schedules []model.TaskSchedule
	err := utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Scopes(dueSchedules(utils.TimeNowWIB())).
		Find(&schedules).Error
	return schedules, err
}

func (r *jobRepository) CreateTaskExecutionHistory(ctx context.Context, history *model.TaskExecutionHistory, opts ...utils.DBOption) error {
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).Create(history).Error
}

// UpdateTaskSchedule persists only the run bookkeeping; the cron expression and active flag
// are owned by whoever manages the schedule rows.
func (r *jobRepository) UpdateTaskSchedule(ctx context.Context, schedule *model.TaskSchedule, opts ...utils.DBOption) error {
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Model(schedule).
		Select("last_execution", "next_execution").
		Updates(schedule).Error
}

func (r *jobRepository) FindByID(ctx context.Context, id uint) (*model.Job, error) {
	var job model.Job
	err := r.db.WithContext(ctx).First(&job, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("job %d: %w", id, ErrJobNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *jobRepository) UpdateTaskExecutionHistory(ctx context.Context, history *model.TaskExecutionHistory, opts ...utils.DBOption) error {
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).Save(history).Error
}

func (r *jobRepository) Get(ctx context.Context, param *model.GetJobParam, opts ...utils.DBOption) ([]model.Job, error) {
	db := utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Model(&model.Job{}).
		Scopes(jobFilter(param))
	if param != nil && param.WithTaskHistory != nil {
		db = db.Preload("Histories", recentHistory(param.WithTaskHistory.Limit))
	}

	var jobs []model.Job
	if err := db.Preload("Schedules").Order("jobs.id ASC").Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

func (r *jobRepository) DeleteTaskHistoryOlderThan(ctx context.Context, date time.Time, opts ...utils.DBOption) (int64, error) {
	res := utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Where("created_at < ?", date).
		Delete(&model.TaskExecutionHistory{})
	return res.RowsAffected, res.Error
}
