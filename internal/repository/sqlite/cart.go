package sqlite

import (
	"context"
	"fmt"

	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/apperror"
	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/model"
)

// AddToCart is a single upsert on the (buyer_id, product_id) pair, so two
// concurrent adds of the same product end up as one line with quantity 2
// instead of two lines.
func (db *DB) AddToCart(ctx context.Context, buyerID, productID int64) (*model.CartLine, error) {
	line := model.CartLine{BuyerID: buyerID, ProductID: productID}

	err := db.conn.QueryRowContext(ctx,
		`INSERT INTO product_purchase (buyer_id, product_id, quantity) VALUES (?, ?, 1)
		 ON CONFLICT (buyer_id, product_id) DO UPDATE SET quantity = quantity + 1
		 RETURNING id, quantity`,
		buyerID, productID,
	).Scan(&line.ID, &line.Quantity)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, apperror.NotFound("product", productID)
		}
		return nil, fmt.Errorf("sqlite: adding product %d to cart of user %d: %w", productID, buyerID, err)
	}
	return &line, nil
}

func (db *DB) RemoveFromCart(ctx context.Context, buyerID, productID int64) error {
	res, err := db.conn.ExecContext(ctx,
		`DELETE FROM product_purchase WHERE buyer_id = ? AND product_id = ?`,
		buyerID, productID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: removing product %d from cart of user %d: %w", productID, buyerID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if n == 0 {
		return apperror.NotFound("cart item", productID)
	}
	return nil
}

func (db *DB) ListCart(ctx context.Context, buyerID int64) ([]model.CartItem, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT p.id, p.name, p.description, p.img_url, p.price_cents, pp.quantity
		 FROM product_purchase pp JOIN products p ON p.id = pp.product_id
		 WHERE pp.buyer_id = ?
		 ORDER BY p.id`, buyerID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing cart of user %d: %w", buyerID, err)
	}
	defer rows.Close()

	items := []model.CartItem{}
	for rows.Next() {
		var it model.CartItem
		if err := rows.Scan(&it.ProductID, &it.Name, &it.Description, &it.ImageURL, &it.PriceCents, &it.Quantity); err != nil {
			return nil, fmt.Errorf("sqlite: scanning cart item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating cart: %w", err)
	}
	return items, nil
}

// FulfillCheckout applies a paid checkout atomically.
//
// Stock is decremented with quantity = quantity - n, never read-modify-write,
// and is not clamped at zero: payment has already been taken, so an oversold
// product shows up as negative stock instead of a silently lost order. A line
// whose product has since been deleted updates nothing and is skipped.
func (db *DB) FulfillCheckout(ctx context.Context, c *model.Checkout) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning checkout %s: %w", c.Reference, err)
	}
	defer tx.Rollback()

	for _, line := range c.Lines {
		if _, err := tx.ExecContext(ctx,
			`UPDATE products SET quantity = quantity - ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
			line.Quantity, line.ProductID,
		); err != nil {
			return fmt.Errorf("sqlite: decrementing stock of product %d: %w", line.ProductID, err)
		}

		if c.Mode == model.CheckoutCart {
			if _, err := tx.ExecContext(ctx,
				`DELETE FROM product_purchase WHERE buyer_id = ? AND product_id = ?`,
				c.UserID, line.ProductID,
			); err != nil {
				return fmt.Errorf("sqlite: clearing cart line of product %d: %w", line.ProductID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing checkout %s: %w", c.Reference, err)
	}
	return nil
}
