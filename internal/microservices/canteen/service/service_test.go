package service

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"campus-canteen/internal/common/logger"
	"campus-canteen/internal/domain"
	"campus-canteen/internal/microservices/canteen/repository/memory"
	"campus-canteen/internal/session"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.OrderEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev domain.OrderEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Event)
	}
	return out
}

type fixture struct {
	store *memory.Store
	pub   *recordingPublisher
	svc   *Service
	now   time.Time
}

// 15:00 on 2026-03-10 in UTC.
var fixedNow = time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger.SetOutput(io.Discard)
	store := memory.New()
	pub := &recordingPublisher{}
	f := &fixture{store: store, pub: pub, now: fixedNow}
	f.svc = New(store.Repository(), Options{
		Hasher:    BcryptHasher{Cost: bcrypt.MinCost},
		Publisher: pub,
		Location:  time.UTC,
		Now:       func() time.Time { return f.now },
	})
	return f
}

func (f *fixture) addItem(t *testing.T, name, price, category string) domain.MenuItem {
	t.Helper()
	it, err := f.svc.MenuService.AddItem(context.Background(), name, price, category)
	if err != nil {
		t.Fatalf("AddItem(%s): %v", name, err)
	}
	return it
}

func (f *fixture) userSession(username string) *session.State {
	return session.New(domain.User{Username: username, Role: domain.RoleUser})
}

// placeCash puts qty of item in a fresh cart and checks out with cash.
func (f *fixture) placeCash(t *testing.T, st *session.State, item domain.MenuItem, qty int, clock, ampm string) domain.Order {
	t.Helper()
	ctx := context.Background()
	if err := f.svc.CartService.Add(ctx, &st.Cart, item.ID, qty); err != nil {
		t.Fatalf("cart add: %v", err)
	}
	res, err := f.svc.OrderService.Checkout(ctx, st, CheckoutRequest{PaymentMethod: "Cash", PickupClock: clock, PickupDesignator: ampm})
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if res.Order == nil {
		t.Fatal("cash checkout returned no order")
	}
	return *res.Order
}

func wantKind(t *testing.T, err error, kind domain.Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", kind)
	}
	if got, ok := domain.KindOf(err); !ok || got != kind {
		t.Fatalf("error kind = %q (%v), want %q", got, err, kind)
	}
}

func TestPublishFailureDoesNotFailCheckout(t *testing.T) {
	f := newFixture(t)
	f.pub.err = errors.New("broker down")
	item := f.addItem(t, "Dosa", "30", "Tiffins")

	o := f.placeCash(t, f.userSession("alice"), item, 1, "", "")
	if o.ID == 0 {
		t.Fatal("order not stored")
	}
	if got := f.pub.names(); len(got) != 1 || got[0] != domain.EventOrderPlaced {
		t.Fatalf("events = %v", got)
	}
}
