package repository

import (
	"context"
	"stock-screener/pkg/utils"

	"gorm.io/gorm"
)

// UnitOfWork runs several repository calls in one transaction. Repositories join it through the
// DBOption handed to fn.
type UnitOfWork interface {
	Run(ctx context.Context, fn func(opts ...utils.DBOption) error) error
}

type unitOfWork struct {
	db *gorm.DB
}

func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &unitOfWork{
		db: db,
	}
}

// Run commits when fn returns nil and rolls back on error or panic.
func (u *unitOfWork) Run(ctx context.Context, fn func(opts ...utils.DBOption) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(utils.WithTx(tx))
	})
}
