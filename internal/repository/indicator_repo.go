package repository

import (
	"context"
	"stock-screener/internal/model"
	"stock-screener/pkg/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type IndicatorRepository interface {
	// Upsert stores the current value of each (stock, type) pair, replacing any older one.
	Upsert(ctx context.Context, indicators []model.Indicator, opts ...utils.DBOption) error
	GetByStockID(ctx context.Context, stockID uint, opts ...utils.DBOption) ([]model.Indicator, error)
	DeleteByStockIDExcept(ctx context.Context, stockID uint, keepTypes []string, opts ...utils.DBOption) (int64, error)
}

type indicatorRepository struct {
	db *gorm.DB
}

func NewIndicatorRepository(db *gorm.DB) IndicatorRepository {
	return &indicatorRepository{db: db}
}

func (r *indicatorRepository) Upsert(ctx context.Context, indicators []model.Indicator, opts ...utils.DBOption) error {
	if len(indicators) == 0 {
		return nil
	}
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "stock_id"}, {Name: "type"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "signal", "timestamp", "updated_at"}),
		}).
		Create(&indicators).Error
}

func (r *indicatorRepository) GetByStockID(ctx context.Context, stockID uint, opts ...utils.DBOption) ([]model.Indicator, error) {
	var indicators []model.Indicator
	if err := utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Where("stock_id = ?", stockID).
		Order("type ASC").
		Find(&indicators).Error; err != nil {
		return nil, err
	}
	return indicators, nil
}

// DeleteByStockIDExcept drops indicators of types no longer computable for the stock, so a
// shrinking history never leaves a stale value behind.
func (r *indicatorRepository) DeleteByStockIDExcept(ctx context.Context, stockID uint, keepTypes []string, opts ...utils.DBOption) (int64, error) {
	db := utils.ApplyOptions(r.db.WithContext(ctx), opts...).Where("stock_id = ?", stockID)
	if len(keepTypes) > 0 {
		db = db.Where("type NOT IN (?)", keepTypes)
	}
	res := db.Delete(&model.Indicator{})
	return res.RowsAffected, res.Error
}
