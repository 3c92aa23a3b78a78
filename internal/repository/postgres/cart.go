package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/apperror"
	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/model"
)

func (db *DB) AddToCart(ctx context.Context, buyerID, productID int64) (*model.CartLine, error) {
	line := model.CartLine{BuyerID: buyerID, ProductID: productID}

	err := db.pool.QueryRow(ctx,
		`INSERT INTO product_purchase (buyer_id, product_id, quantity) VALUES ($1, $2, 1)
		 ON CONFLICT (buyer_id, product_id)
		 DO UPDATE SET quantity = product_purchase.quantity + 1
		 RETURNING id, quantity`,
		buyerID, productID,
	).Scan(&line.ID, &line.Quantity)
	if err != nil {
		if code, _ := pgCode(err); code == codeForeignKeyViolation {
			return nil, apperror.NotFound("product", productID)
		}
		return nil, fmt.Errorf("postgres: adding product %d to cart of user %d: %w", productID, buyerID, err)
	}
	return &line, nil
}

func (db *DB) RemoveFromCart(ctx context.Context, buyerID, productID int64) error {
	tag, err := db.pool.Exec(ctx,
		`DELETE FROM product_purchase WHERE buyer_id = $1 AND product_id = $2`,
		buyerID, productID)
	if err != nil {
		return fmt.Errorf("postgres: removing product %d from cart of user %d: %w", productID, buyerID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFound("cart item", productID)
	}
	return nil
}

func (db *DB) ListCart(ctx context.Context, buyerID int64) ([]model.CartItem, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT p.id, p.name, p.description, p.img_url, p.price_cents, pp.quantity
		 FROM product_purchase pp JOIN products p ON p.id = pp.product_id
		 WHERE pp.buyer_id = $1
		 ORDER BY p.id`, buyerID)
	if err != nil {
		return nil, fmt.Errorf("postgres: listing cart of user %d: %w", buyerID, err)
	}
	defer rows.Close()

	items := []model.CartItem{}
	for rows.Next() {
		var it model.CartItem
		if err := rows.Scan(&it.ProductID, &it.Name, &it.Description, &it.ImageURL, &it.PriceCents, &it.Quantity); err != nil {
			return nil, fmt.Errorf("postgres: scanning cart item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterating cart: %w", err)
	}
	return items, nil
}

// FulfillCheckout batches the per-line statements and sends them in one
// round trip inside the transaction.
func (db *DB) FulfillCheckout(ctx context.Context, c *model.Checkout) error {
	err := pgx.BeginFunc(ctx, db.pool, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, line := range c.Lines {
			batch.Queue(
				`UPDATE products SET quantity = quantity - $1, updated_at = NOW() WHERE id = $2`,
				line.Quantity, line.ProductID)
			if c.Mode == model.CheckoutCart {
				batch.Queue(
					`DELETE FROM product_purchase WHERE buyer_id = $1 AND product_id = $2`,
					c.UserID, line.ProductID)
			}
		}
		return tx.SendBatch(ctx, batch).Close()
	})
	if err != nil {
		return fmt.Errorf("postgres: fulfilling checkout %s: %w", c.Reference, err)
	}
	return nil
}
