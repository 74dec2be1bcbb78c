package model

import (
	"stock-screener/internal/dto"
	"time"
)

// Indicator is the current value of one indicator type for one stock. (stock_id, type) is unique.
type Indicator struct {
	ID        uint      `gorm:"primaryKey"`
	StockID   uint      `gorm:"not null;uniqueIndex:idx_indicators_stock_type"`
	Type      string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_indicators_stock_type"`
	Value     float64   `gorm:"type:numeric(18,4);not null"`
	Signal    string    `gorm:"type:varchar(20);not null"`
	Timestamp time.Time `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Indicator) TableName() string {
	return "indicators"
}

func (i *Indicator) ToDTO() dto.Indicator {
	return dto.Indicator{
		ID:        i.ID,
		StockID:   i.StockID,
		Type:      dto.IndicatorType(i.Type),
		Value:     i.Value,
		Signal:    dto.Signal(i.Signal),
		Timestamp: i.Timestamp,
	}
}

func IndicatorFromDTO(in dto.Indicator) Indicator {
	return Indicator{
		ID:        in.ID,
		StockID:   in.StockID,
		Type:      string(in.Type),
		Value:     in.Value,
		Signal:    string(in.Signal),
		Timestamp: in.Timestamp,
	}
}
