package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"campus-canteen/internal/domain"
	"campus-canteen/internal/microservices/canteen/pickup"
	"campus-canteen/internal/microservices/canteen/repository"
	"campus-canteen/internal/session"
)

const (
	DummyUPIID   = "canteen@upi"
	upiPayeeName = "CampusCanteen"
)

type CheckoutRequest struct {
	PaymentMethod    string `json:"payment_method"`
	PickupClock      string `json:"pickup_time"`
	PickupDesignator string `json:"pickup_ampm"`
}

// CheckoutResult holds either the placed order or, for online payment, the
// staged payment the client must confirm.
type CheckoutResult struct {
	Order           *domain.Order          `json:"order,omitempty"`
	RequiresPayment bool                   `json:"requires_payment"`
	Pending         *domain.PendingPayment `json:"pending_payment,omitempty"`
}

type PaymentInfo struct {
	UPIID     string                 `json:"upi_id"`
	QRPayload string                 `json:"qr_data"`
	Amount    float64                `json:"amount"`
	Pending   *domain.PendingPayment `json:"pending_payment"`
}

type OrderServiceInterface interface {
	Checkout(ctx context.Context, st *session.State, req CheckoutRequest) (CheckoutResult, error)
	PaymentDetails(st *session.State) (PaymentInfo, error)
	ConfirmPayment(ctx context.Context, st *session.State) (domain.Order, error)
	GetOrder(ctx context.Context, actor Actor, id int64) (domain.Order, error)
	// ListUserOrders returns the user's orders, newest first.
	ListUserOrders(ctx context.Context, username string) ([]domain.Order, error)
}

type OrderService struct {
	db     repository.OrderRepositoryInterface
	cart   CartServiceInterface
	notify *notifier
	loc    *time.Location
	now    func() time.Time
}

func NewOrderService(db repository.OrderRepositoryInterface, cart CartServiceInterface, notify *notifier, loc *time.Location, now func() time.Time) OrderServiceInterface {
	return &OrderService{db: db, cart: cart, notify: notify, loc: loc, now: now}
}

func (s *OrderService) Checkout(ctx context.Context, st *session.State, req CheckoutRequest) (CheckoutResult, error) {
	view, err := s.cart.Snapshot(ctx, &st.Cart)
	if err != nil {
		return CheckoutResult{}, err
	}
	if len(view.Items) == 0 {
		return CheckoutResult{}, domain.Validation("cart is empty")
	}

	// A pickup time that does not parse is dropped, not rejected.
	var pickupDisplay *string
	var pickupAt *time.Time
	if pt, ok := pickup.Normalize(req.PickupClock, req.PickupDesignator, s.now().In(s.loc)); ok {
		pickupDisplay, pickupAt = &pt.Display, &pt.At
	}

	if parsePaymentMethod(req.PaymentMethod) == domain.PaymentOnline {
		st.PendingPayment = &domain.PendingPayment{
			Username:      st.Username,
			PaymentMethod: string(domain.PaymentOnline),
			Items:         view.LineItems(),
			Total:         view.Total,
			PickupTime:    pickupDisplay,
			PickupAt:      pickupAt,
		}
		return CheckoutResult{RequiresPayment: true, Pending: st.PendingPayment}, nil
	}

	o, err := s.place(ctx, domain.Order{
		Username:      st.Username,
		Items:         view.LineItems(),
		TotalPrice:    view.Total,
		PaymentMethod: domain.PaymentCash,
		PaymentStatus: domain.PaymentNotPaid,
		PickupTime:    pickupDisplay,
		PickupAt:      pickupAt,
	})
	if err != nil {
		return CheckoutResult{}, err
	}
	s.cart.Clear(&st.Cart)
	return CheckoutResult{Order: &o}, nil
}

func (s *OrderService) PaymentDetails(st *session.State) (PaymentInfo, error) {
	p := st.PendingPayment
	if p == nil {
		return PaymentInfo{}, domain.Validation("no pending payment")
	}
	return PaymentInfo{
		UPIID:     DummyUPIID,
		QRPayload: fmt.Sprintf("upi://pay?pa=%s&pn=%s&am=%.2f", DummyUPIID, upiPayeeName, p.Total),
		Amount:    p.Total,
		Pending:   p,
	}, nil
}

func (s *OrderService) ConfirmPayment(ctx context.Context, st *session.State) (domain.Order, error) {
	p := st.PendingPayment
	if p == nil {
		return domain.Order{}, domain.Validation("no pending payment")
	}
	o, err := s.place(ctx, domain.Order{
		Username:      st.Username,
		Items:         p.Items,
		TotalPrice:    p.Total,
		PaymentMethod: domain.PaymentOnline,
		PaymentStatus: domain.PaymentPaid,
		PickupTime:    p.PickupTime,
		PickupAt:      p.PickupAt,
	})
	if err != nil {
		return domain.Order{}, err
	}
	s.cart.Clear(&st.Cart)
	st.PendingPayment = nil
	return o, nil
}

func (s *OrderService) place(ctx context.Context, o domain.Order) (domain.Order, error) {
	token, err := newToken()
	if err != nil {
		return domain.Order{}, err
	}
	o.Token = token
	o.Status = domain.StatusPending
	o, err = s.db.CreateOrder(ctx, o, o.Username)
	if err != nil {
		return domain.Order{}, err
	}
	s.notify.log.FromContext(ctx).Info("order_placed", map[string]any{
		"order_id": o.ID, "token": o.Token, "username": o.Username,
		"total_price": o.TotalPrice, "payment_method": o.PaymentMethod,
	})
	s.notify.placed(ctx, o, o.Username)
	return o, nil
}

func (s *OrderService) GetOrder(ctx context.Context, actor Actor, id int64) (domain.Order, error) {
	o, found, err := s.db.GetOrder(ctx, id)
	if err != nil {
		return domain.Order{}, err
	}
	if !found {
		return domain.Order{}, domain.NotFound("order not found")
	}
	if !actor.IsOwner() && o.Username != actor.Username {
		return domain.Order{}, domain.Forbidden("not your order")
	}
	return o, nil
}

func (s *OrderService) ListUserOrders(ctx context.Context, username string) ([]domain.Order, error) {
	return s.db.ListOrdersByUsername(ctx, username)
}

// parsePaymentMethod treats anything but "Online" as cash.
func parsePaymentMethod(raw string) domain.PaymentMethod {
	if strings.EqualFold(strings.TrimSpace(raw), string(domain.PaymentOnline)) {
		return domain.PaymentOnline
	}
	return domain.PaymentCash
}

const tokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func newToken() (string, error) {
	b := make([]byte, 6)
	limit := big.NewInt(int64(len(tokenAlphabet)))
	for i := range b {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("generate token: %w", err)
		}
		b[i] = tokenAlphabet[n.Int64()]
	}
	return string(b), nil
}
