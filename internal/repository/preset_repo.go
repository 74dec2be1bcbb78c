package repository

import (
	"context"
	"errors"
	"stock-screener/internal/model"
	"stock-screener/pkg/utils"

	"gorm.io/gorm"
)

type PresetRepository interface {
	List(ctx context.Context, opts ...utils.DBOption) ([]model.Preset, error)
	FindByID(ctx context.Context, id uint, opts ...utils.DBOption) (*model.Preset, error)
	Create(ctx context.Context, preset *model.Preset, opts ...utils.DBOption) error
	Update(ctx context.Context, preset *model.Preset, opts ...utils.DBOption) error
	Delete(ctx context.Context, id uint, opts ...utils.DBOption) error
}

type presetRepository struct {
	db *gorm.DB
}

func NewPresetRepository(db *gorm.DB) PresetRepository {
	return &presetRepository{db: db}
}

func (r *presetRepository) List(ctx context.Context, opts ...utils.DBOption) ([]model.Preset, error) {
	var presets []model.Preset
	if err := utils.ApplyOptions(r.db.WithContext(ctx), opts...).Order("name ASC").Find(&presets).Error; err != nil {
		return nil, err
	}
	return presets, nil
}

func (r *presetRepository) FindByID(ctx context.Context, id uint, opts ...utils.DBOption) (*model.Preset, error) {
	var preset model.Preset
	if err := utils.ApplyOptions(r.db.WithContext(ctx), opts...).First(&preset, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPresetNotFound
		}
		return nil, err
	}
	return &preset, nil
}

func (r *presetRepository) Create(ctx context.Context, preset *model.Preset, opts ...utils.DBOption) error {
	err := utils.ApplyOptions(r.db.WithContext(ctx), opts...).Create(preset).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicatePreset
	}
	return err
}

func (r *presetRepository) Update(ctx context.Context, preset *model.Preset, opts ...utils.DBOption) error {
	res := utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Model(&model.Preset{}).
		Where("id = ?", preset.ID).
		Updates(map[string]interface{}{
			"name":        preset.Name,
			"description": preset.Description,
			"criteria":    preset.Criteria,
		})
	if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
		return ErrDuplicatePreset
	}
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrPresetNotFound
	}
	return nil
}

func (r *presetRepository) Delete(ctx context.Context, id uint, opts ...utils.DBOption) error {
	res := utils.ApplyOptions(r.db.WithContext(ctx), opts...).Delete(&model.Preset{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrPresetNotFound
	}
	return nil
}
