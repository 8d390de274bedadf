package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"campus-canteen/internal/domain"
)

type MenuRepositoryInterface interface {
	// ListItems orders by category, then name.
	ListItems(ctx context.Context, availableOnly bool) ([]domain.MenuItem, error)
	GetItem(ctx context.Context, id int64) (domain.MenuItem, bool, error)
	CreateItem(ctx context.Context, item domain.MenuItem) (domain.MenuItem, error)
	CreateItems(ctx context.Context, items []domain.MenuItem) error
	ToggleAvailability(ctx context.Context, id int64) (domain.MenuItem, bool, error)
	UpdatePrice(ctx context.Context, id int64, price float64) (domain.MenuItem, bool, error)
	CountItems(ctx context.Context) (int, error)
}

type MenuRepository struct {
	db *sqlx.DB
}

func NewMenuRepository(db *sqlx.DB) MenuRepositoryInterface {
	return &MenuRepository{db: db}
}

const menuColumns = `id, name, price, category, available`

func (r *MenuRepository) ListItems(ctx context.Context, availableOnly bool) ([]domain.MenuItem, error) {
	items := []domain.MenuItem{}
	err := r.db.SelectContext(ctx, &items, `
		SELECT `+menuColumns+`
		FROM menu_items
		WHERE ($1 = FALSE OR available)
		ORDER BY category ASC, name ASC, id ASC
	`, availableOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list menu items: %w", err)
	}
	return items, nil
}

func (r *MenuRepository) GetItem(ctx context.Context, id int64) (domain.MenuItem, bool, error) {
	var it domain.MenuItem
	err := r.db.GetContext(ctx, &it, `SELECT `+menuColumns+` FROM menu_items WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.MenuItem{}, false, nil
	}
	if err != nil {
		return domain.MenuItem{}, false, fmt.Errorf("failed to get menu item %d: %w", id, err)
	}
	return it, true, nil
}

func (r *MenuRepository) CreateItem(ctx context.Context, item domain.MenuItem) (domain.MenuItem, error) {
	var out domain.MenuItem
	err := r.db.GetContext(ctx, &out, `
		INSERT INTO menu_items (name, price, category, available)
		VALUES ($1, $2, $3, $4)
		RETURNING `+menuColumns,
		item.Name, item.Price, item.Category, item.Available)
	if err != nil {
		return domain.MenuItem{}, fmt.Errorf("failed to insert menu item: %w", err)
	}
	return out, nil
}

func (r *MenuRepository) CreateItems(ctx context.Context, items []domain.MenuItem) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, it := range items {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO menu_items (name, price, category, available)
			VALUES ($1, $2, $3, $4)
		`, it.Name, it.Price, it.Category, it.Available); err != nil {
			return fmt.Errorf("failed to insert menu item %s: %w", it.Name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *MenuRepository) ToggleAvailability(ctx context.Context, id int64) (domain.MenuItem, bool, error) {
	var it domain.MenuItem
	err := r.db.GetContext(ctx, &it, `
		UPDATE menu_items SET available = NOT available
		WHERE id = $1
		RETURNING `+menuColumns, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.MenuItem{}, false, nil
	}
	if err != nil {
		return domain.MenuItem{}, false, fmt.Errorf("failed to toggle menu item %d: %w", id, err)
	}
	return it, true, nil
}

func (r *MenuRepository) UpdatePrice(ctx context.Context, id int64, price float64) (domain.MenuItem, bool, error) {
	var it domain.MenuItem
	err := r.db.GetContext(ctx, &it, `
		UPDATE menu_items SET price = $2
		WHERE id = $1
		RETURNING `+menuColumns, id, price)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.MenuItem{}, false, nil
	}
	if err != nil {
		return domain.MenuItem{}, false, fmt.Errorf("failed to update price of menu item %d: %w", id, err)
	}
	return it, true, nil
}

func (r *MenuRepository) CountItems(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM menu_items`); err != nil {
		return 0, fmt.Errorf("failed to count menu items: %w", err)
	}
	return n, nil
}
