package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/apperror"
	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/model"
)

const productColumns = `id, name, description, img_url, price_cents, quantity,
	stripe_product_id, stripe_price_id, created_at, updated_at`

// pgx.Rows satisfies pgx.Row, so this serves QueryRow and Query alike.
func scanProduct(row pgx.Row) (*model.Product, error) {
	var p model.Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.ImageURL, &p.PriceCents, &p.Quantity,
		&p.StripeProductID, &p.StripePriceID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (db *DB) CreateProduct(ctx context.Context, p *model.Product) error {
	err := db.pool.QueryRow(ctx,
		`INSERT INTO products (name, description, img_url, price_cents, quantity,
			stripe_product_id, stripe_price_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at, updated_at`,
		p.Name, p.Description, p.ImageURL, p.PriceCents, p.Quantity,
		p.StripeProductID, p.StripePriceID,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("postgres: inserting product %q: %w", p.Name, err)
	}
	return nil
}

func (db *DB) GetProduct(ctx context.Context, id int64) (*model.Product, error) {
	p, err := scanProduct(db.pool.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if noRows(err) {
		return nil, apperror.NotFound("product", id)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: getting product %d: %w", id, err)
	}
	return p, nil
}

func (db *DB) ListProducts(ctx context.Context) ([]model.Product, error) {
	rows, err := db.pool.Query(ctx, `SELECT `+productColumns+` FROM products ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("postgres: listing products: %w", err)
	}
	defer rows.Close()

	products := []model.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: scanning product: %w", err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterating products: %w", err)
	}
	return products, nil
}

func (db *DB) UpdateProduct(ctx context.Context, p *model.Product) error {
	err := db.pool.QueryRow(ctx,
		`UPDATE products
		 SET name = $1, description = $2, img_url = $3, price_cents = $4, quantity = $5,
		     stripe_product_id = $6, stripe_price_id = $7, updated_at = NOW()
		 WHERE id = $8
		 RETURNING updated_at`,
		p.Name, p.Description, p.ImageURL, p.PriceCents, p.Quantity,
		p.StripeProductID, p.StripePriceID, p.ID,
	).Scan(&p.UpdatedAt)
	if noRows(err) {
		return apperror.NotFound("product", p.ID)
	}
	if err != nil {
		return fmt.Errorf("postgres: updating product %d: %w", p.ID, err)
	}
	return nil
}

func (db *DB) DeleteProduct(ctx context.Context, id int64) error {
	return pgx.BeginFunc(ctx, db.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM product_purchase WHERE product_id = $1`, id); err != nil {
			return fmt.Errorf("postgres: deleting cart lines of product %d: %w", id, err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM comments WHERE product_id = $1`, id); err != nil {
			return fmt.Errorf("postgres: deleting comments of product %d: %w", id, err)
		}
		tag, err := tx.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("postgres: deleting product %d: %w", id, err)
		}
		if tag.RowsAffected() == 0 {
			return apperror.NotFound("product", id)
		}
		return nil
	})
}
