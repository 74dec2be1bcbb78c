package common

// Cache keys. KEY_PRICE_SERIES takes symbol, days and interval.
const (
	KEY_STOCK_UNIVERSE = "stock_universe"
	KEY_STOCK          = "stock:%s"
	KEY_PRICE_SERIES   = "price_series:%s:%d:%s"
)
