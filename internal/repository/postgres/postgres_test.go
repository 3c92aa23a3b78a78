//go:build integration

package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/apperror"
	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/model"
)

// newTestDB starts a throwaway PostgreSQL container and opens a store on it.
// Run with: go test -tags integration ./internal/repository/postgres/
func newTestDB(t *testing.T) *DB {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("shop"),
		tcpostgres.WithUsername("shop"),
		tcpostgres.WithPassword("shop"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "starting postgres container")
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("terminating container: %v", err)
		}
	})

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestPostgresStore(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	admin := &model.User{Name: "admin", Email: "admin@example.com", PasswordHash: "h"}
	require.NoError(t, db.CreateUser(ctx, admin))
	assert.Equal(t, int64(1), admin.ID)

	t.Run("duplicate email then name", func(t *testing.T) {
		err := db.CreateUser(ctx, &model.User{Name: "x", Email: "admin@example.com", PasswordHash: "h"})
		assert.True(t, errors.Is(err, apperror.ErrConflict))
		assert.Equal(t, "email", apperror.Field(err))

		err = db.CreateUser(ctx, &model.User{Name: "admin", Email: "y@example.com", PasswordHash: "h"})
		assert.True(t, errors.Is(err, apperror.ErrConflict))
		assert.Equal(t, "name", apperror.Field(err))
	})

	p := &model.Product{Name: "dunes", Description: "d", ImageURL: "u", PriceCents: 2500, Quantity: 3,
		StripeProductID: "prod_1", StripePriceID: "price_1"}
	require.NoError(t, db.CreateProduct(ctx, p))

	t.Run("cart upsert and fulfilment", func(t *testing.T) {
		_, err := db.AddToCart(ctx, admin.ID, p.ID)
		require.NoError(t, err)
		line, err := db.AddToCart(ctx, admin.ID, p.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, line.Quantity)

		items, err := db.ListCart(ctx, admin.ID)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, int64(5000), items[0].SubtotalCents())

		require.NoError(t, db.FulfillCheckout(ctx, &model.Checkout{
			Reference: "ref",
			Mode:      model.CheckoutCart,
			UserID:    admin.ID,
			Lines:     []model.CheckoutLine{{ProductID: p.ID, Quantity: 2}},
		}))

		got, err := db.GetProduct(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, got.Quantity)

		items, err = db.ListCart(ctx, admin.ID)
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("comments join author and die with product", func(t *testing.T) {
		c := &model.Comment{Text: "lovely", AuthorID: admin.ID, ProductID: p.ID}
		require.NoError(t, db.CreateComment(ctx, c))

		comments, err := db.ListComments(ctx, p.ID)
		require.NoError(t, err)
		require.Len(t, comments, 1)
		assert.Equal(t, "admin", comments[0].AuthorName)

		require.NoError(t, db.DeleteProduct(ctx, p.ID))
		_, err = db.GetComment(ctx, c.ID)
		assert.True(t, errors.Is(err, apperror.ErrNotFound))
	})

	t.Run("migrations recorded", func(t *testing.T) {
		v, err := db.SchemaVersion(ctx)
		require.NoError(t, err)
		assert.Equal(t, len(migrations), v)
	})
}
