package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/apperror"
	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/model"
)

func TestCart_AddTwiceThenList(t *testing.T) {
	store := newFakeStore()
	svc := NewCartService(store, store, quietLogger())
	ctx := context.Background()

	a := &model.Product{Name: "A", PriceCents: 1000, Quantity: 3}
	b := &model.Product{Name: "B", PriceCents: 250, Quantity: 3}
	_ = store.CreateProduct(ctx, a)
	_ = store.CreateProduct(ctx, b)

	for _, id := range []int64{a.ID, a.ID, b.ID} {
		if _, err := svc.Add(ctx, 5, id); err != nil {
			t.Fatalf("Add(%d) error = %v", id, err)
		}
	}

	cart, err := svc.List(ctx, 5)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(cart.Items) != 2 {
		t.Fatalf("len(Items) = %d, want 2", len(cart.Items))
	}
	if cart.Items[0].Quantity != 2 {
		t.Errorf("quantity of A = %d, want 2", cart.Items[0].Quantity)
	}
	if got := cart.Total.StringFixed(2); got != "22.50" {
		t.Errorf("Total = %s, want 22.50", got)
	}

	other, _ := svc.List(ctx, 6)
	if len(other.Items) != 0 {
		t.Errorf("another user's cart has %d items", len(other.Items))
	}
}

func TestCart_AddUnknownProduct(t *testing.T) {
	store := newFakeStore()
	svc := NewCartService(store, store, quietLogger())

	if _, err := svc.Add(context.Background(), 1, 404); !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("Add() error = %v, want ErrNotFound", err)
	}
}

func TestCart_RemoveDropsWholeLine(t *testing.T) {
	store := newFakeStore()
	svc := NewCartService(store, store, quietLogger())
	ctx := context.Background()

	p := &model.Product{Name: "A", PriceCents: 100}
	_ = store.CreateProduct(ctx, p)
	_, _ = svc.Add(ctx, 1, p.ID)
	_, _ = svc.Add(ctx, 1, p.ID)

	if err := svc.Remove(ctx, 1, p.ID); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	cart, _ := svc.List(ctx, 1)
	if len(cart.Items) != 0 {
		t.Errorf("cart not empty after Remove: %+v", cart.Items)
	}
	if err := svc.Remove(ctx, 1, p.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("second Remove() error = %v, want ErrNotFound", err)
	}
}
