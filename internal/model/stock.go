package model

import (
	"stock-screener/internal/dto"
	"time"
)

type Stock struct {
	ID            uint      `gorm:"primaryKey"`
	Symbol        string    `gorm:"type:varchar(20);not null;uniqueIndex"`
	Name          string    `gorm:"type:varchar(255);not null"`
	Exchange      string    `gorm:"type:varchar(20);not null;default:IDX"`
	Price         float64   `gorm:"type:numeric(18,4);not null;default:0"`
	Change        float64   `gorm:"type:numeric(18,4);not null;default:0"`
	ChangePercent float64   `gorm:"type:numeric(10,4);not null;default:0"`
	Volume        int64     `gorm:"not null;default:0"`
	MarketCap     float64   `gorm:"type:numeric(24,2);not null;default:0"`
	Sector        string    `gorm:"type:varchar(100)"`
	IsActive      bool      `gorm:"default:true"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`

	Indicators []Indicator `gorm:"foreignKey:StockID"`
}

func (Stock) TableName() string {
	return "stocks"
}

func (s *Stock) ToDTO() dto.Stock {
	out := dto.Stock{
		ID:            s.ID,
		Symbol:        s.Symbol,
		Name:          s.Name,
		Exchange:      s.Exchange,
		Price:         s.Price,
		Change:        s.Change,
		ChangePercent: s.ChangePercent,
		Volume:        s.Volume,
		MarketCap:     s.MarketCap,
		Sector:        s.Sector,
		Indicators:    make([]dto.Indicator, 0, len(s.Indicators)),
	}
	for i := range s.Indicators {
		out.Indicators = append(out.Indicators, s.Indicators[i].ToDTO())
	}
	return out
}

type GetStockParam struct {
	Symbols        []string
	Sector         string
	OnlyActive     bool
	WithIndicators bool
}

// StockQuote is the latest-price update applied by the price sync job.
type StockQuote struct {
	Price         float64
	Change        float64
	ChangePercent float64
	Volume        int64
}
