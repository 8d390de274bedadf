package session

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/golang-jwt/jwt/v5"

	"campus-canteen/internal/domain"
)

func sampleState() *State {
	st := New(domain.User{Username: "alice", Role: domain.RoleUser})
	st.Cart.Add(3, 2)
	pickup := "12:30 PM"
	st.PendingPayment = &domain.PendingPayment{Username: "alice", Total: 120, PickupTime: &pickup}
	return st
}

func exerciseStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()
	st := sampleState()

	if _, err := store.Load(ctx, st.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Load before Save = %v, want ErrNotFound", err)
	}
	if err := store.Save(ctx, st); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := store.Load(ctx, st.ID)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Username != "alice" || got.Cart.Quantity(3) != 2 || got.PendingPayment == nil || *got.PendingPayment.PickupTime != "12:30 PM" {
		t.Fatalf("loaded = %+v", got)
	}

	// the store keeps a copy, not the caller's pointer
	st.Cart.Add(3, 1)
	again, _ := store.Load(ctx, st.ID)
	if again.Cart.Quantity(3) != 2 {
		t.Fatal("store aliases caller state")
	}

	if err := store.Delete(ctx, st.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Load(ctx, st.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Load after Delete = %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore(time.Minute))
}

func TestMemoryStoreExpires(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	st := sampleState()
	if err := store.Save(context.Background(), st); err != nil {
		t.Fatal(err)
	}
	now = now.Add(2 * time.Minute)
	if _, err := store.Load(context.Background(), st.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Load after TTL = %v", err)
	}
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("CANTEEN_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("CANTEEN_TEST_REDIS_ADDR not set")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	defer rdb.Close()
	store := NewRedisStore(rdb, time.Minute)
	exerciseStore(t, store)

	st := sampleState()
	if err := store.Save(context.Background(), st); err != nil {
		t.Fatal(err)
	}
	ttl, err := rdb.TTL(context.Background(), keyPrefix+st.ID).Result()
	if err != nil || ttl <= 0 || ttl > time.Minute {
		t.Fatalf("ttl = %v, %v", ttl, err)
	}
	_ = store.Delete(context.Background(), st.ID)
}

func TestSignerRoundTrip(t *testing.T) {
	s := NewSigner("secret", time.Hour)
	st := sampleState()

	tok, exp, err := s.Issue(st)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if time.Until(exp) <= 0 {
		t.Fatalf("exp = %v", exp)
	}
	claims, err := s.Parse(tok)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.SessionID != st.ID || claims.Subject != "alice" || claims.Role != domain.RoleUser {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestSignerRejects(t *testing.T) {
	s := NewSigner("secret", time.Hour)
	st := sampleState()
	tok, _, _ := s.Issue(st)

	if _, err := NewSigner("other", time.Hour).Parse(tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("wrong secret: %v", err)
	}

	expired := NewSigner("secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, _, _ := expired.Issue(st)
	if _, err := s.Parse(old); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expired: %v", err)
	}

	none, _ := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{SessionID: st.ID}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if _, err := s.Parse(none); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("alg none: %v", err)
	}

	blank, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{}).SignedString([]byte("secret"))
	if _, err := s.Parse(blank); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("missing sid: %v", err)
	}
}
