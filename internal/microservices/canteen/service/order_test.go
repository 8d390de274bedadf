package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"campus-canteen/internal/domain"
)

func TestCashCheckoutCreatesPendingOrder(t *testing.T) {
	f := newFixture(t)
	item := f.addItem(t, "Veg Biryani", "60", "Main")
	st := f.userSession("alice")

	o := f.placeCash(t, st, item, 2, "01:00", "pm")

	if o.Status != domain.StatusPending || o.PaymentMethod != domain.PaymentCash || o.PaymentStatus != domain.PaymentNotPaid {
		t.Fatalf("order = %+v", o)
	}
	if o.TotalPrice != 120 || len(o.Items) != 1 || o.Items[0].Name != "Veg Biryani" || o.Items[0].UnitPrice != 60 {
		t.Fatalf("snapshot = %+v total %v", o.Items, o.TotalPrice)
	}
	if len(o.Token) != 6 || strings.Trim(o.Token, tokenAlphabet) != "" {
		t.Fatalf("token = %q", o.Token)
	}
	// 15:00 now, 1 PM already passed
	if o.PickupTime == nil || *o.PickupTime != "01:00 PM" {
		t.Fatalf("pickup display = %v", o.PickupTime)
	}
	if want := time.Date(2026, 3, 11, 13, 0, 0, 0, time.UTC); o.PickupAt == nil || !o.PickupAt.Equal(want) {
		t.Fatalf("pickup at = %v, want %v", o.PickupAt, want)
	}
	if !st.Cart.Empty() {
		t.Fatal("cart not cleared")
	}
	log, _ := f.store.ListStatusLog(context.Background(), o.ID)
	if len(log) != 1 || log[0].Status != domain.StatusPending || log[0].ChangedBy != "alice" {
		t.Fatalf("status log = %+v", log)
	}
}

func TestCheckoutPickupToday(t *testing.T) {
	f := newFixture(t)
	item := f.addItem(t, "Dosa", "30", "Tiffins")

	o := f.placeCash(t, f.userSession("bob"), item, 1, "06:00", "PM")
	if want := time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC); o.PickupAt == nil || !o.PickupAt.Equal(want) {
		t.Fatalf("pickup at = %v, want %v", o.PickupAt, want)
	}
}

func TestCheckoutBadPickupIsDropped(t *testing.T) {
	f := newFixture(t)
	item := f.addItem(t, "Dosa", "30", "Tiffins")

	o := f.placeCash(t, f.userSession("bob"), item, 1, "25:99", "PM")
	if o.PickupTime != nil || o.PickupAt != nil {
		t.Fatalf("pickup = %v %v, want none", o.PickupTime, o.PickupAt)
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.OrderService.Checkout(context.Background(), f.userSession("alice"), CheckoutRequest{PaymentMethod: "Cash"})
	wantKind(t, err, domain.KindValidation)
}

func TestOnlineCheckoutWaitsForPayment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item := f.addItem(t, "Chicken Biryani", "90", "Main")
	st := f.userSession("alice")
	if err := f.svc.CartService.Add(ctx, &st.Cart, item.ID, 2); err != nil {
		t.Fatal(err)
	}

	res, err := f.svc.OrderService.Checkout(ctx, st, CheckoutRequest{PaymentMethod: "Online", PickupClock: "12:30", PickupDesignator: "PM"})
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if !res.RequiresPayment || res.Order != nil || st.PendingPayment == nil {
		t.Fatalf("result = %+v", res)
	}
	if orders, _ := f.store.ListOrders(ctx, nil); len(orders) != 0 {
		t.Fatalf("order created before payment: %+v", orders)
	}

	info, err := f.svc.OrderService.PaymentDetails(st)
	if err != nil {
		t.Fatalf("PaymentDetails: %v", err)
	}
	if info.UPIID != "canteen@upi" || info.QRPayload != "upi://pay?pa=canteen@upi&pn=CampusCanteen&am=180.00" {
		t.Fatalf("payment info = %+v", info)
	}

	o, err := f.svc.OrderService.ConfirmPayment(ctx, st)
	if err != nil {
		t.Fatalf("ConfirmPayment: %v", err)
	}
	if o.PaymentMethod != domain.PaymentOnline || o.PaymentStatus != domain.PaymentPaid || o.TotalPrice != 180 {
		t.Fatalf("order = %+v", o)
	}
	if o.PickupTime == nil || *o.PickupTime != "12:30 PM" {
		t.Fatalf("pickup = %v", o.PickupTime)
	}
	if st.PendingPayment != nil || !st.Cart.Empty() {
		t.Fatal("session not reset after payment")
	}

	_, err = f.svc.OrderService.ConfirmPayment(ctx, st)
	wantKind(t, err, domain.KindValidation)
	_, err = f.svc.OrderService.PaymentDetails(st)
	wantKind(t, err, domain.KindValidation)
}

func TestUnknownPaymentMethodIsCash(t *testing.T) {
	if parsePaymentMethod("bitcoin") != domain.PaymentCash || parsePaymentMethod(" online ") != domain.PaymentOnline {
		t.Fatal("payment method parsing")
	}
}

func TestPriceChangeDoesNotTouchPlacedOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item := f.addItem(t, "Samosa", "15", "Snacks")
	placed := f.placeCash(t, f.userSession("alice"), item, 4, "", "")

	if _, err := f.svc.MenuService.UpdatePrice(ctx, item.ID, "25"); err != nil {
		t.Fatal(err)
	}
	got, err := f.svc.OrderService.GetOrder(ctx, Actor{Username: "alice", Role: domain.RoleUser}, placed.ID)
	if err != nil {
		t.Fatalf("GetOrder: %v", err)
	}
	if got.TotalPrice != 60 || got.Items[0].UnitPrice != 15 {
		t.Fatalf("stored order changed: %+v", got)
	}
}

func TestGetOrderAccess(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item := f.addItem(t, "Idli", "25", "Tiffins")
	o := f.placeCash(t, f.userSession("alice"), item, 1, "", "")

	_, err := f.svc.OrderService.GetOrder(ctx, Actor{Username: "mallory", Role: domain.RoleUser}, o.ID)
	wantKind(t, err, domain.KindAuthorization)
	if _, err := f.svc.OrderService.GetOrder(ctx, Actor{Username: "canteen_admin", Role: domain.RoleOwner}, o.ID); err != nil {
		t.Fatalf("owner GetOrder: %v", err)
	}
	_, err = f.svc.OrderService.GetOrder(ctx, Actor{Username: "alice"}, 404)
	wantKind(t, err, domain.KindNotFound)
}

func TestListUserOrdersNewestFirst(t *testing.T) {
	f := newFixture(t)
	item := f.addItem(t, "Upma", "20", "Tiffins")
	st := f.userSession("alice")
	first := f.placeCash(t, st, item, 1, "", "")
	second := f.placeCash(t, st, item, 1, "", "")
	f.placeCash(t, f.userSession("bob"), item, 1, "", "")

	orders, err := f.svc.OrderService.ListUserOrders(context.Background(), "alice")
	if err != nil {
		t.Fatal(err)
	}
	if len(orders) != 2 || orders[0].ID != second.ID || orders[1].ID != first.ID {
		t.Fatalf("orders = %+v", orders)
	}
}
