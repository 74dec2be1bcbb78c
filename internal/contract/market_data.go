package contract

import (
	"context"
	"stock-screener/internal/dto"
)

type PriceSyncContract interface {
	SyncPrices(ctx context.Context, symbols []string, days int) (*dto.SyncReport, error)
}

type IndicatorRefreshContract interface {
	RefreshAll(ctx context.Context, symbols []string) (*dto.RefreshReport, error)
}
