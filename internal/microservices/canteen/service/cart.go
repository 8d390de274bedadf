package service

import (
	"context"

	"github.com/shopspring/decimal"

	"campus-canteen/internal/domain"
	"campus-canteen/internal/microservices/canteen/repository"
)

type CartServiceInterface interface {
	Add(ctx context.Context, cart *domain.Cart, itemID int64, qty int) error
	Remove(cart *domain.Cart, itemID int64)
	// Snapshot prices the cart against the live catalog. Lines whose item is
	// gone or unavailable are left out of the view but stay in the cart.
	Snapshot(ctx context.Context, cart *domain.Cart) (domain.CartView, error)
	Clear(cart *domain.Cart)
}

type CartService struct {
	db repository.MenuRepositoryInterface
}

func NewCartService(db repository.MenuRepositoryInterface) CartServiceInterface {
	return &CartService{db: db}
}

func (s *CartService) Add(ctx context.Context, cart *domain.Cart, itemID int64, qty int) error {
	if qty <= 0 {
		return domain.Validation("quantity must be positive")
	}
	it, found, err := s.db.GetItem(ctx, itemID)
	if err != nil {
		return err
	}
	if !found || !it.Available {
		return domain.Unavailable("item not available")
	}
	cart.Add(itemID, qty)
	return nil
}

func (s *CartService) Remove(cart *domain.Cart, itemID int64) { cart.Remove(itemID) }

func (s *CartService) Clear(cart *domain.Cart) { cart.Clear() }

func (s *CartService) Snapshot(ctx context.Context, cart *domain.Cart) (domain.CartView, error) {
	view := domain.CartView{Items: []domain.CartEntry{}}
	if cart.Empty() {
		return view, nil
	}
	items, err := s.db.ListItems(ctx, true)
	if err != nil {
		return domain.CartView{}, err
	}
	byID := make(map[int64]domain.MenuItem, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}

	total := decimal.Zero
	for _, line := range cart.Lines {
		it, ok := byID[line.ItemID]
		if !ok {
			continue
		}
		sub := decimal.NewFromFloat(it.Price).Mul(decimal.NewFromInt(int64(line.Quantity))).Round(2)
		total = total.Add(sub)
		view.Items = append(view.Items, domain.CartEntry{
			ItemID:   it.ID,
			Name:     it.Name,
			Quantity: line.Quantity,
			Price:    it.Price,
			Subtotal: sub.InexactFloat64(),
		})
	}
	view.Total = total.Round(2).InexactFloat64()
	return view, nil
}
