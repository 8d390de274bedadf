package service

import (
	"context"
	"testing"

	"campus-canteen/internal/domain"
)

func TestRegisterRejectsDuplicateAndReservedNames(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ids := f.svc.IdentityService

	if _, err := ids.Register(ctx, "  alice ", "pw"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	before := f.store.UserCount()

	for _, name := range []string{"alice", "canteen_admin"} {
		_, err := ids.Register(ctx, name, "other")
		wantKind(t, err, domain.KindConflict)
	}
	if got := f.store.UserCount(); got != before {
		t.Fatalf("user count = %d, want %d", got, before)
	}
}

func TestRegisterValidation(t *testing.T) {
	f := newFixture(t)
	for _, tc := range []struct{ user, pass string }{{"", "pw"}, {"   ", "pw"}, {"bob", ""}} {
		_, err := f.svc.IdentityService.Register(context.Background(), tc.user, tc.pass)
		wantKind(t, err, domain.KindValidation)
	}
}

func TestAuthenticate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if _, err := f.svc.IdentityService.Register(ctx, "alice", "secret"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	u, ok, err := f.svc.IdentityService.Authenticate(ctx, "alice", "secret")
	if err != nil || !ok {
		t.Fatalf("Authenticate = %v, %v", ok, err)
	}
	if u.Role != domain.RoleUser || u.PasswordDigest == "secret" {
		t.Fatalf("user = %+v", u)
	}

	for _, tc := range []struct{ user, pass string }{{"alice", "wrong"}, {"nobody", "secret"}} {
		_, ok, err := f.svc.IdentityService.Authenticate(ctx, tc.user, tc.pass)
		if err != nil || ok {
			t.Fatalf("Authenticate(%s,%s) = %v, %v; want false, nil", tc.user, tc.pass, ok, err)
		}
	}
}

func TestBootstrapOwnerLeavesExactlyOne(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.store.InsertUserUnchecked(domain.User{Username: "old_owner", Role: domain.RoleOwner})
	f.store.InsertUserUnchecked(domain.User{Username: "second_owner", Role: domain.RoleOwner})

	for i := 0; i < 3; i++ {
		if err := f.svc.IdentityService.BootstrapOwner(ctx); err != nil {
			t.Fatalf("BootstrapOwner #%d: %v", i, err)
		}
	}
	owners, _ := f.store.ListUsersByRole(ctx, domain.RoleOwner)
	if len(owners) != 1 || owners[0].Username != "old_owner" {
		t.Fatalf("owners = %+v", owners)
	}
}

func TestBootstrapOwnerCreatesDefaultOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if err := f.svc.IdentityService.BootstrapOwner(ctx); err != nil {
		t.Fatalf("BootstrapOwner: %v", err)
	}
	if err := f.svc.IdentityService.BootstrapOwner(ctx); err != nil {
		t.Fatalf("BootstrapOwner again: %v", err)
	}
	u, ok, err := f.svc.IdentityService.Authenticate(ctx, "canteen_admin", "admin123")
	if err != nil || !ok || !u.IsOwner() {
		t.Fatalf("owner login = %+v, %v, %v", u, ok, err)
	}
	if f.store.UserCount() != 1 {
		t.Fatalf("user count = %d", f.store.UserCount())
	}
}
