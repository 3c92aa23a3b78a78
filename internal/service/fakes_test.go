package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/apperror"
	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/model"
	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/payment"
)

// =========================================================================
// FAKES AND HELPERS
// =========================================================================

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

// fakeStore is an in-memory repository.Store. It follows the same error
// contract as the SQL backends (NotFound / Conflict app errors) so services
// see realistic failures.
type fakeStore struct {
	mu       sync.Mutex
	users    map[int64]*model.User
	products map[int64]*model.Product
	comments map[int64]*model.Comment
	cart     map[[2]int64]int // (buyer, product) → quantity
	nextID   int64

	// set to a non-nil error to simulate a database failure
	createUserErr error
	fulfillErr    error
	fulfilled     []*model.Checkout
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:    make(map[int64]*model.User),
		products: make(map[int64]*model.Product),
		comments: make(map[int64]*model.Comment),
		cart:     make(map[[2]int64]int),
	}
}

func (f *fakeStore) id() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeStore) CreateUser(_ context.Context, u *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createUserErr != nil {
		return f.createUserErr
	}
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return apperror.Conflict("email", "email already registered")
		}
		if existing.Name == u.Name {
			return apperror.Conflict("name", "name already taken")
		}
	}
	u.ID = f.id()
	u.CreatedAt = time.Now()
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeStore) GetUserByID(_ context.Context, id int64) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	cp := *u
	return &cp, nil
}

func (f *fakeStore) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperror.NotFoundBy("user", "email", email)
}

func (f *fakeStore) GetUserByName(_ context.Context, name string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Name == name {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperror.NotFoundBy("user", "name", name)
}

func (f *fakeStore) CreateProduct(_ context.Context, p *model.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p.ID = f.id()
	cp := *p
	f.products[p.ID] = &cp
	return nil
}

func (f *fakeStore) GetProduct(_ context.Context, id int64) (*model.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return nil, apperror.NotFound("product", id)
	}
	cp := *p
	return &cp, nil
}

func (f *fakeStore) ListProducts(_ context.Context) ([]model.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Product, 0, len(f.products))
	for _, p := range f.products {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) UpdateProduct(_ context.Context, p *model.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.products[p.ID]; !ok {
		return apperror.NotFound("product", p.ID)
	}
	cp := *p
	f.products[p.ID] = &cp
	return nil
}

func (f *fakeStore) DeleteProduct(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.products[id]; !ok {
		return apperror.NotFound("product", id)
	}
	delete(f.products, id)
	for k := range f.cart {
		if k[1] == id {
			delete(f.cart, k)
		}
	}
	for cid, c := range f.comments {
		if c.ProductID == id {
			delete(f.comments, cid)
		}
	}
	return nil
}

func (f *fakeStore) CreateComment(_ context.Context, c *model.Comment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c.ID = f.id()
	cp := *c
	f.comments[c.ID] = &cp
	return nil
}

func (f *fakeStore) GetComment(_ context.Context, id int64) (*model.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.comments[id]
	if !ok {
		return nil, apperror.NotFound("comment", id)
	}
	cp := *c
	return &cp, nil
}

func (f *fakeStore) ListComments(_ context.Context, productID int64) ([]model.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Comment
	for _, c := range f.comments {
		if c.ProductID == productID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) DeleteComment(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.comments[id]; !ok {
		return apperror.NotFound("comment", id)
	}
	delete(f.comments, id)
	return nil
}

func (f *fakeStore) AddToCart(_ context.Context, buyerID, productID int64) (*model.CartLine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.products[productID]; !ok {
		return nil, apperror.NotFound("product", productID)
	}
	key := [2]int64{buyerID, productID}
	f.cart[key]++
	return &model.CartLine{BuyerID: buyerID, ProductID: productID, Quantity: f.cart[key]}, nil
}

func (f *fakeStore) RemoveFromCart(_ context.Context, buyerID, productID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := [2]int64{buyerID, productID}
	if _, ok := f.cart[key]; !ok {
		return apperror.NotFound("cart item", productID)
	}
	delete(f.cart, key)
	return nil
}

func (f *fakeStore) ListCart(_ context.Context, buyerID int64) ([]model.CartItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.CartItem
	for k, qty := range f.cart {
		if k[0] != buyerID {
			continue
		}
		p := f.products[k[1]]
		out = append(out, model.CartItem{
			ProductID:   p.ID,
			Name:        p.Name,
			Description: p.Description,
			ImageURL:    p.ImageURL,
			PriceCents:  p.PriceCents,
			Quantity:    qty,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out, nil
}

func (f *fakeStore) FulfillCheckout(_ context.Context, c *model.Checkout) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fulfillErr != nil {
		return f.fulfillErr
	}
	for _, l := range c.Lines {
		if p, ok := f.products[l.ProductID]; ok {
			p.Quantity -= l.Quantity
		}
		if c.Mode == model.CheckoutCart {
			delete(f.cart, [2]int64{c.UserID, l.ProductID})
		}
	}
	f.fulfilled = append(f.fulfilled, c)
	return nil
}

func (f *fakeStore) Close() error { return nil }

// fakeProvider records every call and hands out sequential ids.
type fakeProvider struct {
	mu          sync.Mutex
	products    map[string][2]string // id → name, description
	prices      map[string]int64     // price id → cents
	sessions    []payment.CheckoutRequest
	n           int
	checkoutErr error
	productErr  error
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		products: make(map[string][2]string),
		prices:   make(map[string]int64),
	}
}

func (p *fakeProvider) CreateProduct(_ context.Context, name, description string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.productErr != nil {
		return "", p.productErr
	}
	p.n++
	id := fmt.Sprintf("prod_%d", p.n)
	p.products[id] = [2]string{name, description}
	return id, nil
}

func (p *fakeProvider) UpdateProduct(_ context.Context, id, name, description string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.products[id]; !ok {
		return fmt.Errorf("no such product: %s", id)
	}
	p.products[id] = [2]string{name, description}
	return nil
}

func (p *fakeProvider) CreatePrice(_ context.Context, productID string, cents int64) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.n++
	id := fmt.Sprintf("price_%d", p.n)
	p.prices[id] = cents
	return id, nil
}

func (p *fakeProvider) CreateCheckoutSession(_ context.Context, req payment.CheckoutRequest) (*payment.Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.checkoutErr != nil {
		return nil, p.checkoutErr
	}
	p.sessions = append(p.sessions, req)
	p.n++
	id := fmt.Sprintf("cs_test_%d", p.n)
	return &payment.Session{ID: id, URL: "https://checkout.stripe.com/c/pay/" + id}, nil
}
