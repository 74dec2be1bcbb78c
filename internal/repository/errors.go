package repository

import "errors"

var (
	ErrStockNotFound   = errors.New("stock not found")
	ErrPresetNotFound  = errors.New("preset not found")
	ErrDuplicatePreset = errors.New("preset name already exists")
	ErrNoPriceData     = errors.New("no price data")
	ErrUnknownProvider = errors.New("unknown price provider")
	ErrJobNotFound     = errors.New("job not found")
)
