package domain

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleOwner Role = "owner"
)

type User struct {
	ID             int64     `json:"id" db:"id"`
	Username       string    `json:"username" db:"username"`
	PasswordDigest string    `json:"-" db:"password_hash"`
	Role           Role      `json:"role" db:"role"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

func (u User) IsOwner() bool { return u.Role == RoleOwner }

// DefaultCategory is used when a menu item is created without one.
const DefaultCategory = "General"

type MenuItem struct {
	ID        int64   `json:"id" db:"id"`
	Name      string  `json:"name" db:"name"`
	Price     float64 `json:"price" db:"price"`
	Category  string  `json:"category" db:"category"`
	Available bool    `json:"available" db:"available"`
}

type OrderStatus string

const (
	StatusPending   OrderStatus = "Pending"
	StatusPreparing OrderStatus = "Preparing"
	StatusReady     OrderStatus = "Ready"
	StatusCompleted OrderStatus = "Completed"
	// StatusReceived is never stored: reaching it deletes the order.
	StatusReceived OrderStatus = "Received"
	// StatusDeleted only appears in the status log, for owner deletions.
	StatusDeleted OrderStatus = "Deleted"
)

// Statuses lists every value the owner may assign, in lifecycle order.
var Statuses = []OrderStatus{StatusPending, StatusPreparing, StatusReady, StatusCompleted, StatusReceived}

func ParseOrderStatus(s string) (OrderStatus, bool) {
	for _, st := range Statuses {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "Cash"
	PaymentOnline PaymentMethod = "Online"
)

type PaymentStatus string

const (
	PaymentNotPaid PaymentStatus = "Not Paid"
	PaymentPaid    PaymentStatus = "Paid"
)

// LineItem is the copy of a menu item recorded on an order at purchase time.
type LineItem struct {
	ItemID    int64   `json:"item_id" db:"item_id"`
	Name      string  `json:"name" db:"name"`
	Quantity  int     `json:"qty" db:"quantity"`
	UnitPrice float64 `json:"price" db:"unit_price"`
}

type Order struct {
	ID            int64         `json:"id" db:"id"`
	Username      string        `json:"username" db:"username"`
	Items         []LineItem    `json:"items_list" db:"-"`
	TotalPrice    float64       `json:"total_price" db:"total_price"`
	Status        OrderStatus   `json:"status" db:"status"`
	Token         string        `json:"token" db:"token"`
	PaymentMethod PaymentMethod `json:"payment_method" db:"payment_method"`
	PaymentStatus PaymentStatus `json:"payment_status" db:"payment_status"`
	PickupTime    *string       `json:"pickup_time" db:"pickup_time"`
	PickupAt      *time.Time    `json:"pickup_dt" db:"pickup_at"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
}

// StatusLogEntry is an audit row; it outlives the order it refers to.
type StatusLogEntry struct {
	ID        int64       `json:"id" db:"id"`
	OrderID   int64       `json:"order_id" db:"order_id"`
	Token     string      `json:"token" db:"token"`
	Status    OrderStatus `json:"status" db:"status"`
	ChangedBy string      `json:"changed_by" db:"changed_by"`
	ChangedAt time.Time   `json:"changed_at" db:"changed_at"`
}

// StatusCounts is the owner dashboard summary.
type StatusCounts struct {
	Counts map[OrderStatus]int `json:"counts"`
	Total  int                 `json:"total"`
}
