package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/apperror"
)

func TestCreateAndGetProduct(t *testing.T) {
	db := newTestDB(t)
	p := createTestProduct(t, db, "dunes", 2500, 3)

	if p.ID == 0 {
		t.Fatal("CreateProduct() did not set ID")
	}

	got, err := db.GetProduct(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("GetProduct() error = %v", err)
	}
	if got.Name != "dunes" || got.PriceCents != 2500 || got.Quantity != 3 {
		t.Errorf("GetProduct() = %+v", got)
	}
	if got.StripePriceID != "price_dunes" {
		t.Errorf("StripePriceID = %q, want %q", got.StripePriceID, "price_dunes")
	}
	if got.Price().String() != "25" {
		t.Errorf("Price() = %s, want 25", got.Price())
	}
}

func TestGetProduct_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetProduct(context.Background(), 99)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetProduct() error = %v, want ErrNotFound", err)
	}
}

func TestListProducts(t *testing.T) {
	db := newTestDB(t)

	empty, err := db.ListProducts(context.Background())
	if err != nil {
		t.Fatalf("ListProducts() error = %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Errorf("ListProducts() on empty db = %v, want empty non-nil slice", empty)
	}

	createTestProduct(t, db, "a", 100, 1)
	createTestProduct(t, db, "b", 200, 1)

	all, err := db.ListProducts(context.Background())
	if err != nil {
		t.Fatalf("ListProducts() error = %v", err)
	}
	if len(all) != 2 || all[0].Name != "a" || all[1].Name != "b" {
		t.Errorf("ListProducts() = %+v", all)
	}
}

func TestUpdateProduct_OverwritesFields(t *testing.T) {
	db := newTestDB(t)
	p := createTestProduct(t, db, "old", 1000, 5)

	p.Name = "new"
	p.Description = "new description"
	p.ImageURL = "https://img.example.com/new.jpg"
	p.PriceCents = 1500
	p.Quantity = 2
	p.StripePriceID = "price_new"

	if err := db.UpdateProduct(context.Background(), p); err != nil {
		t.Fatalf("UpdateProduct() error = %v", err)
	}

	got, _ := db.GetProduct(context.Background(), p.ID)
	if got.Name != "new" || got.Description != "new description" ||
		got.PriceCents != 1500 || got.Quantity != 2 || got.StripePriceID != "price_new" {
		t.Errorf("after UpdateProduct() got %+v", got)
	}
	if got.StripeProductID != "prod_old" {
		t.Errorf("StripeProductID changed to %q", got.StripeProductID)
	}
}

func TestUpdateProduct_NotFound(t *testing.T) {
	db := newTestDB(t)
	p := createTestProduct(t, db, "x", 100, 1)
	p.ID = 999

	if err := db.UpdateProduct(context.Background(), p); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("UpdateProduct() error = %v, want ErrNotFound", err)
	}
}

func TestDeleteProduct_RemovesCartLinesAndComments(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	u := createTestUser(t, db, "carol")
	p := createTestProduct(t, db, "gone", 100, 1)

	if _, err := db.AddToCart(ctx, u.ID, p.ID); err != nil {
		t.Fatalf("AddToCart() error = %v", err)
	}
	createTestComment(t, db, u.ID, p.ID, "nice")

	if err := db.DeleteProduct(ctx, p.ID); err != nil {
		t.Fatalf("DeleteProduct() error = %v", err)
	}

	if _, err := db.GetProduct(ctx, p.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("product still present: %v", err)
	}
	cart, _ := db.ListCart(ctx, u.ID)
	if len(cart) != 0 {
		t.Errorf("cart still has %d lines", len(cart))
	}
	comments, _ := db.ListComments(ctx, p.ID)
	if len(comments) != 0 {
		t.Errorf("product still has %d comments", len(comments))
	}
}

func TestDeleteProduct_NotFound(t *testing.T) {
	db := newTestDB(t)

	if err := db.DeleteProduct(context.Background(), 7); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("DeleteProduct() error = %v, want ErrNotFound", err)
	}
}
