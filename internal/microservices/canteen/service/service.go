package service

import (
	"context"
	"time"

	"campus-canteen/internal/common/logger"
	"campus-canteen/internal/common/metrics"
	"campus-canteen/internal/config"
	"campus-canteen/internal/domain"
	"campus-canteen/internal/events"
	"campus-canteen/internal/microservices/canteen/repository"
)

type Service struct {
	IdentityService  IdentityServiceInterface
	MenuService      MenuServiceInterface
	CartService      CartServiceInterface
	OrderService     OrderServiceInterface
	LifecycleService LifecycleServiceInterface
}

// Options carries the collaborators shared by every service. Zero values
// fall back to bcrypt, a no-op publisher, the local zone and time.Now.
type Options struct {
	Owner     config.OwnerConfig
	Hasher    Hasher
	Publisher events.Publisher
	Metrics   *metrics.Metrics
	Logger    *logger.Logger
	Location  *time.Location
	Now       func() time.Time
}

func (o Options) withDefaults() Options {
	if o.Owner.Username == "" {
		o.Owner = config.OwnerConfig{Username: "canteen_admin", Password: "admin123"}
	}
	if o.Hasher == nil {
		o.Hasher = BcryptHasher{}
	}
	if o.Publisher == nil {
		o.Publisher = events.Noop{}
	}
	if o.Logger == nil {
		o.Logger = logger.New("canteen-server")
	}
	if o.Location == nil {
		o.Location = time.Local
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

func New(repo *repository.Repository, opts Options) *Service {
	opts = opts.withDefaults()
	notify := &notifier{publisher: opts.Publisher, metrics: opts.Metrics, log: opts.Logger}
	cart := NewCartService(repo.MenuRepo)
	return &Service{
		IdentityService:  NewIdentityService(repo.UserRepo, opts.Hasher, opts.Owner, opts.Logger),
		MenuService:      NewMenuService(repo.MenuRepo, opts.Logger),
		CartService:      cart,
		OrderService:     NewOrderService(repo.OrderRepo, cart, notify, opts.Location, opts.Now),
		LifecycleService: NewLifecycleService(repo.OrderRepo, notify),
	}
}

// Actor is the authenticated caller of an operation.
type Actor struct {
	Username string
	Role     domain.Role
}

func (a Actor) IsOwner() bool { return a.Role == domain.RoleOwner }

// notifier publishes ledger events and counts them. Broker failures are
// logged and never surface to the caller.
type notifier struct {
	publisher events.Publisher
	metrics   *metrics.Metrics
	log       *logger.Logger
}

func (n *notifier) placed(ctx context.Context, o domain.Order, by string) {
	n.metrics.OrderPlaced(string(o.PaymentMethod))
	n.publish(ctx, domain.NewOrderEvent(domain.EventOrderPlaced, o, by))
}

func (n *notifier) statusChanged(ctx context.Context, o domain.Order, old domain.OrderStatus, by string) {
	n.metrics.StatusChanged(string(o.Status))
	ev := domain.NewOrderEvent(domain.EventOrderStatusChanged, o, by)
	ev.OldStatus = old
	n.publish(ctx, ev)
}

func (n *notifier) deleted(ctx context.Context, o domain.Order, status domain.OrderStatus, by string) {
	n.metrics.StatusChanged(string(status))
	ev := domain.NewOrderEvent(domain.EventOrderDeleted, o, by)
	ev.OldStatus = o.Status
	ev.Status = status
	n.publish(ctx, ev)
}

func (n *notifier) publish(ctx context.Context, ev domain.OrderEvent) {
	if err := n.publisher.Publish(ctx, ev); err != nil {
		n.log.FromContext(ctx).Error("event_publish_failed", err, map[string]any{
			"event": ev.Event, "order_id": ev.OrderID, "token": ev.Token,
		})
		return
	}
	n.log.FromContext(ctx).Debug("event_published", map[string]any{
		"event": ev.Event, "order_id": ev.OrderID, "status": ev.Status,
	})
}
