package domain

import "time"

// CartLine is one requested item in a session cart.
type CartLine struct {
	ItemID   int64 `json:"item_id"`
	Quantity int   `json:"quantity"`
}

// Cart keeps lines in the order items were first added.
type Cart struct {
	Lines []CartLine `json:"lines"`
}

func (c *Cart) Quantity(itemID int64) int {
	for _, l := range c.Lines {
		if l.ItemID == itemID {
			return l.Quantity
		}
	}
	return 0
}

// Add accumulates qty onto an existing line or appends a new one.
func (c *Cart) Add(itemID int64, qty int) {
	for i := range c.Lines {
		if c.Lines[i].ItemID == itemID {
			c.Lines[i].Quantity += qty
			return
		}
	}
	c.Lines = append(c.Lines, CartLine{ItemID: itemID, Quantity: qty})
}

func (c *Cart) Remove(itemID int64) {
	for i := range c.Lines {
		if c.Lines[i].ItemID == itemID {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			return
		}
	}
}

func (c *Cart) Clear() { c.Lines = nil }

func (c *Cart) Empty() bool { return len(c.Lines) == 0 }

// CartEntry is a cart line resolved against the live catalog.
type CartEntry struct {
	ItemID   int64   `json:"id"`
	Name     string  `json:"name"`
	Quantity int     `json:"qty"`
	Price    float64 `json:"price"`
	Subtotal float64 `json:"subtotal"`
}

type CartView struct {
	Items []CartEntry `json:"items"`
	Total float64     `json:"total"`
}

// LineItems converts the resolved view into order snapshot lines.
func (v CartView) LineItems() []LineItem {
	out := make([]LineItem, 0, len(v.Items))
	for _, e := range v.Items {
		out = append(out, LineItem{ItemID: e.ItemID, Name: e.Name, Quantity: e.Quantity, UnitPrice: e.Price})
	}
	return out
}

// PendingPayment is an online checkout waiting for the simulated payment.
type PendingPayment struct {
	Username      string     `json:"username"`
	PaymentMethod string     `json:"payment_method"`
	Items         []LineItem `json:"items"`
	Total         float64    `json:"total"`
	PickupTime    *string    `json:"pickup_time"`
	PickupAt      *time.Time `json:"pickup_dt"`
}
