// Package memory is an in-process implementation of the canteen repositories.
// Service and handler tests run against it instead of Postgres.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"campus-canteen/internal/domain"
	"campus-canteen/internal/microservices/canteen/repository"
)

type Store struct {
	mu     sync.Mutex
	now    func() time.Time
	seq    int64
	users  []domain.User
	items  []domain.MenuItem
	orders []domain.Order
	log    []domain.StatusLogEntry
}

func New() *Store {
	return &Store{now: func() time.Time { return time.Now().UTC() }}
}

// SetClock fixes the timestamps given to new rows.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Repository bundles the store behind the repository interfaces.
func (s *Store) Repository() *repository.Repository {
	return &repository.Repository{UserRepo: s, MenuRepo: s, OrderRepo: s}
}

func (s *Store) nextID() int64 {
	s.seq++
	return s.seq
}

// users

func (s *Store) CreateUser(_ context.Context, u domain.User) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Username == u.Username {
			return domain.User{}, repository.ErrDuplicate
		}
	}
	u.ID = s.nextID()
	u.CreatedAt = s.now()
	s.users = append(s.users, u)
	return u, nil
}

// InsertUserUnchecked skips the uniqueness check, tests use it to model data
// that predates the single-owner rule.
func (s *Store) InsertUserUnchecked(u domain.User) domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u.ID = s.nextID()
	u.CreatedAt = s.now()
	s.users = append(s.users, u)
	return u
}

func (s *Store) GetUserByUsername(_ context.Context, username string) (domain.User, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username {
			return u, true, nil
		}
	}
	return domain.User{}, false, nil
}

func (s *Store) ListUsersByRole(_ context.Context, role domain.Role) ([]domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.User
	for _, u := range s.users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *Store) DeleteUser(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, u := range s.users {
		if u.ID == id {
			s.users = append(s.users[:i], s.users[i+1:]...)
			return nil
		}
	}
	return nil
}

// UserCount is a test helper.
func (s *Store) UserCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}

// menu

func (s *Store) ListItems(_ context.Context, availableOnly bool) ([]domain.MenuItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.MenuItem{}
	for _, it := range s.items {
		if availableOnly && !it.Available {
			continue
		}
		out = append(out, it)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) GetItem(_ context.Context, id int64) (domain.MenuItem, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range s.items {
		if it.ID == id {
			return it, true, nil
		}
	}
	return domain.MenuItem{}, false, nil
}

func (s *Store) CreateItem(_ context.Context, item domain.MenuItem) (domain.MenuItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item.ID = s.nextID()
	s.items = append(s.items, item)
	return item, nil
}

func (s *Store) CreateItems(ctx context.Context, items []domain.MenuItem) error {
	for _, it := range items {
		if _, err := s.CreateItem(ctx, it); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) ToggleAvailability(_ context.Context, id int64) (domain.MenuItem, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Available = !s.items[i].Available
			return s.items[i], true, nil
		}
	}
	return domain.MenuItem{}, false, nil
}

func (s *Store) UpdatePrice(_ context.Context, id int64, price float64) (domain.MenuItem, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Price = price
			return s.items[i], true, nil
		}
	}
	return domain.MenuItem{}, false, nil
}

func (s *Store) CountItems(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items), nil
}

// orders

func (s *Store) CreateOrder(_ context.Context, o domain.Order, changedBy string) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o.ID = s.nextID()
	if o.CreatedAt.IsZero() {
		o.CreatedAt = s.now()
	}
	o.Items = append([]domain.LineItem(nil), o.Items...)
	s.orders = append(s.orders, o)
	s.appendLog(o, o.Status, changedBy)
	return cloneOrder(o), nil
}

// InsertOrder stores o as given (including CreatedAt and PickupAt), without a
// status log row. Tests use it to arrange listings.
func (s *Store) InsertOrder(o domain.Order) domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	o.ID = s.nextID()
	s.orders = append(s.orders, o)
	return cloneOrder(o)
}

func (s *Store) GetOrder(_ context.Context, id int64) (domain.Order, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.orders {
		if o.ID == id {
			return cloneOrder(o), true, nil
		}
	}
	return domain.Order{}, false, nil
}

func (s *Store) ListOrdersByUsername(_ context.Context, username string) ([]domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.Order{}
	for i := len(s.orders) - 1; i >= 0; i-- {
		if s.orders[i].Username == username {
			out = append(out, cloneOrder(s.orders[i]))
		}
	}
	return out, nil
}

func (s *Store) ListOrders(_ context.Context, status *domain.OrderStatus) ([]domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.Order{}
	for i := len(s.orders) - 1; i >= 0; i-- {
		if status != nil && s.orders[i].Status != *status {
			continue
		}
		out = append(out, cloneOrder(s.orders[i]))
	}
	return out, nil
}

func (s *Store) UpdateStatusTx(_ context.Context, id int64, status domain.OrderStatus, changedBy string) (domain.Order, domain.OrderStatus, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.orders {
		if s.orders[i].ID == id {
			old := s.orders[i].Status
			s.orders[i].Status = status
			s.appendLog(s.orders[i], status, changedBy)
			return cloneOrder(s.orders[i]), old, true, nil
		}
	}
	return domain.Order{}, "", false, nil
}

func (s *Store) DeleteOrderTx(_ context.Context, id int64, logStatus domain.OrderStatus, changedBy string) (domain.Order, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, o := range s.orders {
		if o.ID == id {
			s.orders = append(s.orders[:i], s.orders[i+1:]...)
			s.appendLog(o, logStatus, changedBy)
			return o, true, nil
		}
	}
	return domain.Order{}, false, nil
}

func (s *Store) CountByStatus(_ context.Context) (map[domain.OrderStatus]int, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := make(map[domain.OrderStatus]int)
	for _, o := range s.orders {
		counts[o.Status]++
	}
	return counts, len(s.orders), nil
}

func (s *Store) ListStatusLog(_ context.Context, orderID int64) ([]domain.StatusLogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.StatusLogEntry{}
	for _, e := range s.log {
		if e.OrderID == orderID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *Store) appendLog(o domain.Order, status domain.OrderStatus, changedBy string) {
	s.log = append(s.log, domain.StatusLogEntry{
		ID:        int64(len(s.log) + 1),
		OrderID:   o.ID,
		Token:     o.Token,
		Status:    status,
		ChangedBy: changedBy,
		ChangedAt: s.now(),
	})
}

func cloneOrder(o domain.Order) domain.Order {
	o.Items = append([]domain.LineItem{}, o.Items...)
	return o
}
