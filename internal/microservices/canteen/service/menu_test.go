package service

import (
	"context"
	"testing"

	"campus-canteen/internal/domain"
)

func TestAddItemDefaults(t *testing.T) {
	f := newFixture(t)
	tests := []struct {
		price, category string
		wantPrice       float64
		wantCategory    string
	}{
		{"45.5", "Snacks", 45.5, "Snacks"},
		{"abc", "", 0, domain.DefaultCategory},
		{"-3", " ", 0, domain.DefaultCategory},
		{"12.345", "Main", 12.35, "Main"},
	}
	for _, tc := range tests {
		it := f.addItem(t, "Tea", tc.price, tc.category)
		if it.Price != tc.wantPrice || it.Category != tc.wantCategory || !it.Available {
			t.Fatalf("AddItem(%q,%q) = %+v", tc.price, tc.category, it)
		}
	}

	_, err := f.svc.MenuService.AddItem(context.Background(), "  ", "10", "")
	wantKind(t, err, domain.KindValidation)
}

func TestToggleTwiceRestoresAvailability(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	it := f.addItem(t, "Samosa", "15", "Snacks")

	off, err := f.svc.MenuService.ToggleAvailability(ctx, it.ID)
	if err != nil || off.Available {
		t.Fatalf("first toggle = %+v, %v", off, err)
	}
	on, err := f.svc.MenuService.ToggleAvailability(ctx, it.ID)
	if err != nil || !on.Available {
		t.Fatalf("second toggle = %+v, %v", on, err)
	}

	_, err = f.svc.MenuService.ToggleAvailability(ctx, 999)
	wantKind(t, err, domain.KindNotFound)
}

func TestListItemsHidesUnavailable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addItem(t, "Upma", "20", "Tiffins")
	idli := f.addItem(t, "Idli", "25", "Tiffins")
	f.addItem(t, "Veg Biryani", "60", "Main")
	if _, err := f.svc.MenuService.ToggleAvailability(ctx, idli.ID); err != nil {
		t.Fatal(err)
	}

	all, _ := f.svc.MenuService.ListItems(ctx, false)
	if len(all) != 3 || all[0].Name != "Veg Biryani" || all[1].Name != "Idli" {
		t.Fatalf("all = %+v", all)
	}
	avail, _ := f.svc.MenuService.ListItems(ctx, true)
	if len(avail) != 2 {
		t.Fatalf("available = %+v", avail)
	}
}

func TestSeedDefaultsOnlyOnEmptyCatalog(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	seeded, err := f.svc.MenuService.SeedDefaults(ctx)
	if err != nil || !seeded {
		t.Fatalf("first seed = %v, %v", seeded, err)
	}
	seeded, err = f.svc.MenuService.SeedDefaults(ctx)
	if err != nil || seeded {
		t.Fatalf("second seed = %v, %v", seeded, err)
	}
	n, _ := f.store.CountItems(ctx)
	if n != len(defaultMenu) {
		t.Fatalf("items = %d, want %d", n, len(defaultMenu))
	}
}

func TestUpdatePrice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	it := f.addItem(t, "Dosa", "30", "Tiffins")

	got, err := f.svc.MenuService.UpdatePrice(ctx, it.ID, "35")
	if err != nil || got.Price != 35 {
		t.Fatalf("UpdatePrice = %+v, %v", got, err)
	}
	_, err = f.svc.MenuService.UpdatePrice(ctx, 404, "35")
	wantKind(t, err, domain.KindNotFound)
}
