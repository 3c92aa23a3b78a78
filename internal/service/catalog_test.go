package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/apperror"
	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/model"
)

func sunsetInput() ProductInput {
	return ProductInput{
		Name:        "Sunset",
		Description: "Golden hour over the bay",
		ImageURL:    "https://example.com/sunset.jpg",
		Price:       decimal.RequireFromString("19.99"),
		Quantity:    5,
	}
}

func TestCatalogCreate(t *testing.T) {
	store, prov := newFakeStore(), newFakeProvider()
	svc := NewCatalogService(store, store, prov, quietLogger())

	p, err := svc.Create(context.Background(), sunsetInput())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if p.PriceCents != 1999 {
		t.Errorf("PriceCents = %d, want 1999", p.PriceCents)
	}
	if p.StripeProductID == "" || p.StripePriceID == "" {
		t.Fatalf("provider ids not stored: %+v", p)
	}
	if got := prov.prices[p.StripePriceID]; got != 1999 {
		t.Errorf("provider price = %d, want 1999", got)
	}
	if got := prov.products[p.StripeProductID]; got[0] != "Sunset" {
		t.Errorf("provider product name = %q, want Sunset", got[0])
	}

	stored, err := store.GetProduct(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("GetProduct() error = %v", err)
	}
	if stored.Quantity != 5 || stored.ImageURL != "https://example.com/sunset.jpg" {
		t.Errorf("stored product = %+v", stored)
	}
}

func TestCatalogCreate_ProviderFailureStoresNothing(t *testing.T) {
	store, prov := newFakeStore(), newFakeProvider()
	prov.productErr = errors.New("Invalid API Key provided")
	svc := NewCatalogService(store, store, prov, quietLogger())

	if _, err := svc.Create(context.Background(), sunsetInput()); err == nil {
		t.Fatal("Create() should fail when the provider fails")
	}
	products, _ := store.ListProducts(context.Background())
	if len(products) != 0 {
		t.Errorf("len(products) = %d, want 0", len(products))
	}
}

func TestCatalogCreate_InvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*ProductInput)
		field string
	}{
		{"zero price", func(in *ProductInput) { in.Price = decimal.Zero }, "price"},
		{"negative price", func(in *ProductInput) { in.Price = decimal.RequireFromString("-1") }, "price"},
		{"rounds to zero", func(in *ProductInput) { in.Price = decimal.RequireFromString("0.001") }, "price"},
		{"above provider maximum", func(in *ProductInput) { in.Price = decimal.RequireFromString("1000000") }, "price"},
		{"past int64 cents", func(in *ProductInput) { in.Price = decimal.RequireFromString("92233720368547758.08") }, "price"},
		{"zero quantity", func(in *ProductInput) { in.Quantity = 0 }, "quantity"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, prov := newFakeStore(), newFakeProvider()
			svc := NewCatalogService(store, store, prov, quietLogger())

			in := sunsetInput()
			tt.edit(&in)
			_, err := svc.Create(context.Background(), in)
			if !errors.Is(err, apperror.ErrValidation) {
				t.Fatalf("Create() error = %v, want ErrValidation", err)
			}
			if apperror.Field(err) != tt.field {
				t.Errorf("Field = %q, want %q", apperror.Field(err), tt.field)
			}
			if len(prov.products) != 0 {
				t.Error("provider should not be called for invalid input")
			}
		})
	}
}

func TestCatalogUpdate_NewPriceAndAllFields(t *testing.T) {
	store, prov := newFakeStore(), newFakeProvider()
	svc := NewCatalogService(store, store, prov, quietLogger())
	ctx := context.Background()

	p, err := svc.Create(ctx, sunsetInput())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	oldPrice := p.StripePriceID

	in := ProductInput{
		Name:        "Sunrise",
		Description: "Same bay, other end of the day",
		ImageURL:    "https://example.com/sunrise.jpg",
		Price:       decimal.RequireFromString("25"),
		Quantity:    2,
	}
	updated, err := svc.Update(ctx, p.ID, in)
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if updated.StripePriceID == oldPrice {
		t.Error("Update() should point at a new provider price")
	}
	if updated.StripeProductID != p.StripeProductID {
		t.Error("Update() should keep the provider product")
	}
	if prov.prices[updated.StripePriceID] != 2500 {
		t.Errorf("new provider price = %d, want 2500", prov.prices[updated.StripePriceID])
	}
	if got := prov.products[p.StripeProductID]; got[0] != "Sunrise" {
		t.Errorf("provider product name = %q, want Sunrise", got[0])
	}

	stored, _ := store.GetProduct(ctx, p.ID)
	want := model.Product{
		ID: p.ID, Name: "Sunrise", Description: "Same bay, other end of the day",
		ImageURL: "https://example.com/sunrise.jpg", PriceCents: 2500, Quantity: 2,
		StripeProductID: p.StripeProductID, StripePriceID: updated.StripePriceID,
	}
	if *stored != want {
		t.Errorf("stored = %+v, want %+v", *stored, want)
	}
}

func TestCatalogUpdate_UnknownProduct(t *testing.T) {
	store, prov := newFakeStore(), newFakeProvider()
	svc := NewCatalogService(store, store, prov, quietLogger())

	_, err := svc.Update(context.Background(), 42, sunsetInput())
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("Update() error = %v, want ErrNotFound", err)
	}
}

func TestCatalogRemove(t *testing.T) {
	store, prov := newFakeStore(), newFakeProvider()
	svc := NewCatalogService(store, store, prov, quietLogger())
	ctx := context.Background()

	p, _ := svc.Create(ctx, sunsetInput())
	if _, err := store.AddToCart(ctx, 2, p.ID); err != nil {
		t.Fatalf("AddToCart() error = %v", err)
	}

	if err := svc.Remove(ctx, p.ID); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if _, err := svc.Get(ctx, p.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Get() after Remove error = %v, want ErrNotFound", err)
	}
	if items, _ := store.ListCart(ctx, 2); len(items) != 0 {
		t.Errorf("cart still holds %d lines of the removed product", len(items))
	}
	if _, ok := prov.products[p.StripeProductID]; !ok {
		t.Error("provider product should be left untouched")
	}

	if err := svc.Remove(ctx, p.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("second Remove() error = %v, want ErrNotFound", err)
	}
}

func TestCatalogProductPage(t *testing.T) {
	store, prov := newFakeStore(), newFakeProvider()
	svc := NewCatalogService(store, store, prov, quietLogger())
	ctx := context.Background()

	p, _ := svc.Create(ctx, sunsetInput())
	_ = store.CreateComment(ctx, &model.Comment{Text: "lovely", AuthorID: 1, ProductID: p.ID})
	_ = store.CreateComment(ctx, &model.Comment{Text: "want it", AuthorID: 2, ProductID: p.ID})

	page, err := svc.ProductPage(ctx, p.ID)
	if err != nil {
		t.Fatalf("ProductPage() error = %v", err)
	}
	if page.Product.Name != "Sunset" {
		t.Errorf("Product.Name = %q", page.Product.Name)
	}
	if len(page.Comments) != 2 || page.Comments[0].Text != "lovely" {
		t.Errorf("Comments = %+v", page.Comments)
	}
}
