package repository

import (
	"errors"

	"github.com/jmoiron/sqlx"
)

// ErrDuplicate is returned when a write hits a unique constraint.
var ErrDuplicate = errors.New("duplicate record")

type Repository struct {
	UserRepo  UserRepositoryInterface
	MenuRepo  MenuRepositoryInterface
	OrderRepo OrderRepositoryInterface
}

func New(db *sqlx.DB) *Repository {
	return &Repository{
		UserRepo:  NewUserRepository(db),
		MenuRepo:  NewMenuRepository(db),
		OrderRepo: NewOrderRepository(db),
	}
}
