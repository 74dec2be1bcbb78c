package utils

import "gorm.io/gorm"

// DBOption adjusts a query before a repository runs it. Repositories accept a variadic list so
// callers can join a transaction or widen what is loaded without new methods.
type DBOption func(*gorm.DB) *gorm.DB

func ApplyOptions(db *gorm.DB, opts ...DBOption) *gorm.DB {
	for _, opt := range opts {
		if opt != nil {
			db = opt(db)
		}
	}
	return db
}

// WithTx runs the query on tx. It must come first: it replaces the handle that earlier options
// have modified.
func WithTx(tx *gorm.DB) DBOption {
	return func(_ *gorm.DB) *gorm.DB {
		return tx
	}
}

func WithPreload(column string) DBOption {
	return func(db *gorm.DB) *gorm.DB {
		return db.Preload(column)
	}
}
