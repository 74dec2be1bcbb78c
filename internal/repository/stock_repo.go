package repository

import (
	"context"
	"errors"
	"stock-screener/internal/model"
	"stock-screener/pkg/utils"
	"strings"

	"gorm.io/gorm"
)

type StockRepository interface {
	Get(ctx context.Context, param model.GetStockParam, opts ...utils.DBOption) ([]model.Stock, error)
	FindBySymbol(ctx context.Context, symbol string, withIndicators bool, opts ...utils.DBOption) (*model.Stock, error)
	UpdateQuote(ctx context.Context, stockID uint, quote model.StockQuote, opts ...utils.DBOption) error
}

type stockRepository struct {
	db *gorm.DB
}

func NewStockRepository(db *gorm.DB) StockRepository {
	return &stockRepository{db: db}
}

// Get returns stocks ordered by symbol. An empty param returns the whole table.
func (r *stockRepository) Get(ctx context.Context, param model.GetStockParam, opts ...utils.DBOption) ([]model.Stock, error) {
	var stocks []model.Stock

	qFilter := []string{}
	qFilterParam := []interface{}{}

	if len(param.Symbols) > 0 {
		qFilter = append(qFilter, "symbol IN (?)")
		qFilterParam = append(qFilterParam, param.Symbols)
	}

	if param.Sector != "" {
		qFilter = append(qFilter, "LOWER(sector) = ?")
		qFilterParam = append(qFilterParam, strings.ToLower(param.Sector))
	}

	if param.OnlyActive {
		qFilter = append(qFilter, "is_active = ?")
		qFilterParam = append(qFilterParam, true)
	}

	db := utils.ApplyOptions(r.db.WithContext(ctx), opts...)
	if len(qFilter) > 0 {
		db = db.Where(strings.Join(qFilter, " AND "), qFilterParam...)
	}
	if param.WithIndicators {
		db = db.Preload("Indicators", func(db *gorm.DB) *gorm.DB {
			return db.Order("type ASC")
		})
	}

	if err := db.Order("symbol ASC").Find(&stocks).Error; err != nil {
		return nil, err
	}
	return stocks, nil
}

func (r *stockRepository) FindBySymbol(ctx context.Context, symbol string, withIndicators bool, opts ...utils.DBOption) (*model.Stock, error) {
	var stock model.Stock
	db := utils.ApplyOptions(r.db.WithContext(ctx), opts...)
	if withIndicators {
		db = db.Preload("Indicators")
	}
	if err := db.Where("symbol = ?", strings.ToUpper(symbol)).First(&stock).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStockNotFound
		}
		return nil, err
	}
	return &stock, nil
}

func (r *stockRepository) UpdateQuote(ctx context.Context, stockID uint, quote model.StockQuote, opts ...utils.DBOption) error {
	res := utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Model(&model.Stock{}).
		Where("id = ?", stockID).
		Updates(map[string]interface{}{
			"price":          quote.Price,
			"change":         quote.Change,
			"change_percent": quote.ChangePercent,
			"volume":         quote.Volume,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStockNotFound
	}
	return nil
}
