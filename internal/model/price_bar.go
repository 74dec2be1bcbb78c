package model

import (
	"stock-screener/internal/dto"
	"time"
)

type PriceBar struct {
	ID        uint      `gorm:"primaryKey"`
	StockID   uint      `gorm:"not null;uniqueIndex:idx_price_bars_stock_interval_ts"`
	Interval  string    `gorm:"type:varchar(10);not null;uniqueIndex:idx_price_bars_stock_interval_ts"`
	Timestamp time.Time `gorm:"not null;uniqueIndex:idx_price_bars_stock_interval_ts"`
	Open      float64   `gorm:"type:numeric(18,4);not null"`
	High      float64   `gorm:"type:numeric(18,4);not null"`
	Low       float64   `gorm:"type:numeric(18,4);not null"`
	Close     float64   `gorm:"type:numeric(18,4);not null"`
	Volume    int64     `gorm:"not null;default:0"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (PriceBar) TableName() string {
	return "price_bars"
}

func (b *PriceBar) ToDTO() dto.PricePoint {
	return dto.PricePoint{
		Timestamp: b.Timestamp,
		Open:      b.Open,
		High:      b.High,
		Low:       b.Low,
		Close:     b.Close,
		Volume:    b.Volume,
	}
}

func PriceBarsFromSeries(stockID uint, interval string, series dto.PriceSeries) []PriceBar {
	out := make([]PriceBar, 0, len(series))
	for _, p := range series {
		out = append(out, PriceBar{
			StockID:   stockID,
			Interval:  interval,
			Timestamp: p.Timestamp,
			Open:      p.Open,
			High:      p.High,
			Low:       p.Low,
			Close:     p.Close,
			Volume:    p.Volume,
		})
	}
	return out
}
