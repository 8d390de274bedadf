package service

import (
	"context"
	"sort"

	"campus-canteen/internal/domain"
	"campus-canteen/internal/microservices/canteen/repository"
)

type LifecycleServiceInterface interface {
	// SetStatus assigns any status; Received deletes the order.
	SetStatus(ctx context.Context, actor Actor, id int64, status string) (domain.Order, error)
	// MarkReceived lets a user acknowledge pickup of their own Ready order.
	MarkReceived(ctx context.Context, actor Actor, id int64) error
	Receive(ctx context.Context, actor Actor, id int64) error
	Delete(ctx context.Context, actor Actor, id int64) error
	ListOrders(ctx context.Context, status string) ([]domain.Order, error)
	Dashboard(ctx context.Context) (domain.StatusCounts, error)
	Timeline(ctx context.Context, id int64) ([]domain.StatusLogEntry, error)
}

type LifecycleService struct {
	db     repository.OrderRepositoryInterface
	notify *notifier
}

func NewLifecycleService(db repository.OrderRepositoryInterface, notify *notifier) LifecycleServiceInterface {
	return &LifecycleService{db: db, notify: notify}
}

func (s *LifecycleService) SetStatus(ctx context.Context, actor Actor, id int64, raw string) (domain.Order, error) {
	status, ok := domain.ParseOrderStatus(raw)
	if !ok {
		return domain.Order{}, domain.Validation("unknown order status")
	}
	if status == domain.StatusReceived {
		o, err := s.remove(ctx, actor, id, domain.StatusReceived)
		if err != nil {
			return domain.Order{}, err
		}
		o.Status = domain.StatusReceived
		return o, nil
	}

	o, old, found, err := s.db.UpdateStatusTx(ctx, id, status, actor.Username)
	if err != nil {
		return domain.Order{}, err
	}
	if !found {
		return domain.Order{}, domain.NotFound("order not found")
	}
	s.notify.log.FromContext(ctx).Info("order_status_changed", map[string]any{
		"order_id": o.ID, "token": o.Token, "old_status": old, "new_status": o.Status, "changed_by": actor.Username,
	})
	s.notify.statusChanged(ctx, o, old, actor.Username)
	return o, nil
}

func (s *LifecycleService) MarkReceived(ctx context.Context, actor Actor, id int64) error {
	o, found, err := s.db.GetOrder(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return domain.NotFound("order not found")
	}
	if o.Username != actor.Username {
		return domain.Forbidden("not your order")
	}
	if o.Status != domain.StatusReady {
		return domain.InvalidTransition("order is not ready for pickup")
	}
	_, err = s.remove(ctx, actor, id, domain.StatusReceived)
	return err
}

func (s *LifecycleService) Receive(ctx context.Context, actor Actor, id int64) error {
	_, err := s.remove(ctx, actor, id, domain.StatusReceived)
	return err
}

func (s *LifecycleService) Delete(ctx context.Context, actor Actor, id int64) error {
	_, err := s.remove(ctx, actor, id, domain.StatusDeleted)
	return err
}

func (s *LifecycleService) remove(ctx context.Context, actor Actor, id int64, logStatus domain.OrderStatus) (domain.Order, error) {
	o, found, err := s.db.DeleteOrderTx(ctx, id, logStatus, actor.Username)
	if err != nil {
		return domain.Order{}, err
	}
	if !found {
		return domain.Order{}, domain.NotFound("order not found")
	}
	s.notify.log.FromContext(ctx).Info("order_removed", map[string]any{
		"order_id": o.ID, "token": o.Token, "as": logStatus, "changed_by": actor.Username,
	})
	s.notify.deleted(ctx, o, logStatus, actor.Username)
	return o, nil
}

// ListOrders filters by exact status when one is given.
func (s *LifecycleService) ListOrders(ctx context.Context, status string) ([]domain.Order, error) {
	var filter *domain.OrderStatus
	if status != "" {
		st := domain.OrderStatus(status)
		filter = &st
	}
	orders, err := s.db.ListOrders(ctx, filter)
	if err != nil {
		return nil, err
	}
	SortForPickup(orders)
	return orders, nil
}

// SortForPickup puts orders with a pickup time first, earliest pickup first,
// then the rest by creation time. Ties keep id order.
func SortForPickup(orders []domain.Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		a, b := orders[i], orders[j]
		switch {
		case a.PickupAt != nil && b.PickupAt != nil:
			if !a.PickupAt.Equal(*b.PickupAt) {
				return a.PickupAt.Before(*b.PickupAt)
			}
		case a.PickupAt != nil:
			return true
		case b.PickupAt != nil:
			return false
		default:
			az, bz := a.CreatedAt.IsZero(), b.CreatedAt.IsZero()
			if az != bz {
				return bz
			}
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.Before(b.CreatedAt)
			}
		}
		return a.ID < b.ID
	})
}

var dashboardStatuses = []domain.OrderStatus{domain.StatusPending, domain.StatusPreparing, domain.StatusReady, domain.StatusCompleted}

func (s *LifecycleService) Dashboard(ctx context.Context) (domain.StatusCounts, error) {
	counts, total, err := s.db.CountByStatus(ctx)
	if err != nil {
		return domain.StatusCounts{}, err
	}
	out := domain.StatusCounts{Counts: make(map[domain.OrderStatus]int, len(dashboardStatuses)), Total: total}
	for _, st := range dashboardStatuses {
		out.Counts[st] = counts[st]
	}
	return out, nil
}

func (s *LifecycleService) Timeline(ctx context.Context, id int64) ([]domain.StatusLogEntry, error) {
	entries, err := s.db.ListStatusLog(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, domain.NotFound("order has no history")
	}
	return entries, nil
}
