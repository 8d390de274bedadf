package service

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"campus-canteen/internal/common/logger"
	"campus-canteen/internal/domain"
	"campus-canteen/internal/microservices/canteen/repository"
)

type MenuServiceInterface interface {
	ListItems(ctx context.Context, availableOnly bool) ([]domain.MenuItem, error)
	GetItem(ctx context.Context, id int64) (domain.MenuItem, error)
	// AddItem coerces an unparsable or negative price to zero.
	AddItem(ctx context.Context, name, price, category string) (domain.MenuItem, error)
	ToggleAvailability(ctx context.Context, id int64) (domain.MenuItem, error)
	UpdatePrice(ctx context.Context, id int64, price string) (domain.MenuItem, error)
	// SeedDefaults fills an empty catalog with the sample menu.
	SeedDefaults(ctx context.Context) (bool, error)
}

type MenuService struct {
	db  repository.MenuRepositoryInterface
	log *logger.Logger
}

func NewMenuService(db repository.MenuRepositoryInterface, lg *logger.Logger) MenuServiceInterface {
	return &MenuService{db: db, log: lg}
}

var defaultMenu = []domain.MenuItem{
	{Name: "Veg Biryani", Price: 60, Category: "Main", Available: true},
	{Name: "Chicken Biryani", Price: 90, Category: "Main", Available: true},
	{Name: "Egg Manchuria", Price: 50, Category: "Snacks", Available: true},
	{Name: "Chicken Manchuria", Price: 70, Category: "Snacks", Available: true},
	{Name: "Samosa", Price: 15, Category: "Snacks", Available: true},
	{Name: "Idli", Price: 25, Category: "Tiffins", Available: true},
	{Name: "Dosa", Price: 30, Category: "Tiffins", Available: true},
	{Name: "Upma", Price: 20, Category: "Tiffins", Available: true},
}

func (s *MenuService) ListItems(ctx context.Context, availableOnly bool) ([]domain.MenuItem, error) {
	return s.db.ListItems(ctx, availableOnly)
}

func (s *MenuService) GetItem(ctx context.Context, id int64) (domain.MenuItem, error) {
	it, found, err := s.db.GetItem(ctx, id)
	if err != nil {
		return domain.MenuItem{}, err
	}
	if !found {
		return domain.MenuItem{}, domain.NotFound("menu item not found")
	}
	return it, nil
}

func (s *MenuService) AddItem(ctx context.Context, name, price, category string) (domain.MenuItem, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.MenuItem{}, domain.Validation("item name is required")
	}
	category = strings.TrimSpace(category)
	if category == "" {
		category = domain.DefaultCategory
	}
	it, err := s.db.CreateItem(ctx, domain.MenuItem{
		Name:      name,
		Price:     parsePrice(price),
		Category:  category,
		Available: true,
	})
	if err != nil {
		return domain.MenuItem{}, err
	}
	s.log.FromContext(ctx).Info("menu_item_added", map[string]any{"item_id": it.ID, "name": it.Name, "price": it.Price})
	return it, nil
}

func (s *MenuService) ToggleAvailability(ctx context.Context, id int64) (domain.MenuItem, error) {
	it, found, err := s.db.ToggleAvailability(ctx, id)
	if err != nil {
		return domain.MenuItem{}, err
	}
	if !found {
		return domain.MenuItem{}, domain.NotFound("menu item not found")
	}
	s.log.FromContext(ctx).Info("menu_item_toggled", map[string]any{"item_id": it.ID, "available": it.Available})
	return it, nil
}

func (s *MenuService) UpdatePrice(ctx context.Context, id int64, price string) (domain.MenuItem, error) {
	it, found, err := s.db.UpdatePrice(ctx, id, parsePrice(price))
	if err != nil {
		return domain.MenuItem{}, err
	}
	if !found {
		return domain.MenuItem{}, domain.NotFound("menu item not found")
	}
	s.log.FromContext(ctx).Info("menu_item_repriced", map[string]any{"item_id": it.ID, "price": it.Price})
	return it, nil
}

func (s *MenuService) SeedDefaults(ctx context.Context) (bool, error) {
	n, err := s.db.CountItems(ctx)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	if err := s.db.CreateItems(ctx, defaultMenu); err != nil {
		return false, err
	}
	s.log.Info("menu_seeded", map[string]any{"items": len(defaultMenu)})
	return true, nil
}

// parsePrice returns the price rounded to cents, or 0 when raw is not a
// non-negative decimal.
func parsePrice(raw string) float64 {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || d.IsNegative() {
		return 0
	}
	return d.Round(2).InexactFloat64()
}
