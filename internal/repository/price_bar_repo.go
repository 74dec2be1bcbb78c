package repository

import (
	"context"
	"fmt"
	"stock-screener/config"
	"stock-screener/internal/dto"
	"stock-screener/internal/model"
	"stock-screener/pkg/utils"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PriceBarRepository interface {
	PriceHistoryProvider
	Upsert(ctx context.Context, bars []model.PriceBar, opts ...utils.DBOption) error
	DeleteOlderThan(ctx context.Context, date time.Time, opts ...utils.DBOption) (int64, error)
}

type priceBarRepository struct {
	db *gorm.DB
}

func NewPriceBarRepository(db *gorm.DB) PriceBarRepository {
	return &priceBarRepository{db: db}
}

func (r *priceBarRepository) Name() string {
	return config.PriceProviderDatabase
}

// Get reads stored bars for the symbol, oldest first.
func (r *priceBarRepository) Get(ctx context.Context, param dto.GetPriceHistoryParam) (*dto.PriceHistory, error) {
	var bars []model.PriceBar
	since := utils.StartOfDay(utils.TimeNowWIB().AddDate(0, 0, -param.Days))
	err := r.db.WithContext(ctx).
		Joins("JOIN stocks ON stocks.id = price_bars.stock_id").
		Where("stocks.symbol = ? AND price_bars.interval = ? AND price_bars.timestamp >= ?", param.Symbol, param.Interval, since).
		Order("price_bars.timestamp ASC").
		Find(&bars).Error
	if err != nil {
		return nil, fmt.Errorf("failed to read price bars for %s: %w", param.Symbol, err)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("%w for %s", ErrNoPriceData, param.Symbol)
	}

	series := make(dto.PriceSeries, 0, len(bars))
	for i := range bars {
		series = append(series, bars[i].ToDTO())
	}
	last, _ := series.Last()
	return &dto.PriceHistory{
		Symbol:      param.Symbol,
		MarketPrice: last.Close,
		Data:        series,
	}, nil
}

func (r *priceBarRepository) Upsert(ctx context.Context, bars []model.PriceBar, opts ...utils.DBOption) error {
	if len(bars) == 0 {
		return nil
	}
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "stock_id"}, {Name: "interval"}, {Name: "timestamp"}},
			DoUpdates: clause.AssignmentColumns([]string{"open", "high", "low", "close", "volume"}),
		}).
		CreateInBatches(&bars, 500).Error
}

func (r *priceBarRepository) DeleteOlderThan(ctx context.Context, date time.Time, opts ...utils.DBOption) (int64, error) {
	res := utils.ApplyOptions(r.db.WithContext(ctx), opts...).Where("timestamp < ?", date).Delete(&model.PriceBar{})
	return res.RowsAffected, res.Error
}
