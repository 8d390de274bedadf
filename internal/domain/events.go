package domain

import "time"

const (
	EventOrderPlaced        = "order.placed"
	EventOrderStatusChanged = "order.status_changed"
	EventOrderDeleted       = "order.deleted"
)

// OrderEvent is the message published for every ledger change.
type OrderEvent struct {
	Event         string        `json:"event"`
	OrderID       int64         `json:"order_id"`
	Token         string        `json:"token"`
	Username      string        `json:"username"`
	OldStatus     OrderStatus   `json:"old_status,omitempty"`
	Status        OrderStatus   `json:"status"`
	TotalPrice    float64       `json:"total_price"`
	PaymentMethod PaymentMethod `json:"payment_method,omitempty"`
	PickupTime    string        `json:"pickup_time,omitempty"`
	ChangedBy     string        `json:"changed_by"`
	OccurredAt    time.Time     `json:"occurred_at"`
}

func NewOrderEvent(event string, o Order, changedBy string) OrderEvent {
	ev := OrderEvent{
		Event:         event,
		OrderID:       o.ID,
		Token:         o.Token,
		Username:      o.Username,
		Status:        o.Status,
		TotalPrice:    o.TotalPrice,
		PaymentMethod: o.PaymentMethod,
		ChangedBy:     changedBy,
		OccurredAt:    time.Now().UTC(),
	}
	if o.PickupTime != nil {
		ev.PickupTime = *o.PickupTime
	}
	return ev
}
