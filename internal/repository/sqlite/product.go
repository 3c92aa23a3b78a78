package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/apperror"
	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/model"
)

const productColumns = `id, name, description, img_url, price_cents, quantity,
	stripe_product_id, stripe_price_id, created_at, updated_at`

// scanner is satisfied by both *sql.Row and *sql.Rows, so one scan function
// serves single and multi-row queries.
type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(s scanner) (*model.Product, error) {
	var p model.Product
	err := s.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.ImageURL,
		&p.PriceCents,
		&p.Quantity,
		&p.StripeProductID,
		&p.StripePriceID,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (db *DB) CreateProduct(ctx context.Context, p *model.Product) error {
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	res, err := db.conn.ExecContext(ctx,
		`INSERT INTO products (name, description, img_url, price_cents, quantity,
			stripe_product_id, stripe_price_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Name, p.Description, p.ImageURL, p.PriceCents, p.Quantity,
		p.StripeProductID, p.StripePriceID, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting product %q: %w", p.Name, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading new product id: %w", err)
	}
	p.ID = id
	return nil
}

func (db *DB) GetProduct(ctx context.Context, id int64) (*model.Product, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = ?`, id)

	p, err := scanProduct(row)
	if noRows(err) {
		return nil, apperror.NotFound("product", id)
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: getting product %d: %w", id, err)
	}
	return p, nil
}

// ListProducts returns the whole catalog in insertion order. The shop is
// small enough that it is never paged.
func (db *DB) ListProducts(ctx context.Context) ([]model.Product, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+productColumns+` FROM products ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing products: %w", err)
	}
	defer rows.Close()

	products := []model.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning product: %w", err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating products: %w", err)
	}
	return products, nil
}

// UpdateProduct overwrites every editable column. Returns apperror.ErrNotFound
// when no row has the product's ID.
func (db *DB) UpdateProduct(ctx context.Context, p *model.Product) error {
	p.UpdatedAt = time.Now().UTC()

	res, err := db.conn.ExecContext(ctx,
		`UPDATE products
		 SET name = ?, description = ?, img_url = ?, price_cents = ?, quantity = ?,
		     stripe_product_id = ?, stripe_price_id = ?, updated_at = ?
		 WHERE id = ?`,
		p.Name, p.Description, p.ImageURL, p.PriceCents, p.Quantity,
		p.StripeProductID, p.StripePriceID, p.UpdatedAt,
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating product %d: %w", p.ID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if n == 0 {
		return apperror.NotFound("product", p.ID)
	}
	return nil
}

// DeleteProduct removes the product along with its cart lines and comments.
// The child rows are deleted explicitly in the same transaction rather than
// left to ON DELETE CASCADE, so databases created before the cascade clauses
// behave the same.
func (db *DB) DeleteProduct(ctx context.Context, id int64) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning delete of product %d: %w", id, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM product_purchase WHERE product_id = ?`, id); err != nil {
		return fmt.Errorf("sqlite: deleting cart lines of product %d: %w", id, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM comments WHERE product_id = ?`, id); err != nil {
		return fmt.Errorf("sqlite: deleting comments of product %d: %w", id, err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting product %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if n == 0 {
		return apperror.NotFound("product", id)
	}

	return tx.Commit()
}
