package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/apperror"
	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/model"
)

func (db *DB) CreateComment(ctx context.Context, c *model.Comment) error {
	c.CreatedAt = time.Now().UTC()

	res, err := db.conn.ExecContext(ctx,
		`INSERT INTO comments (text, author_id, product_id, created_at) VALUES (?, ?, ?, ?)`,
		c.Text, c.AuthorID, c.ProductID, c.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperror.NotFound("product", c.ProductID)
		}
		return fmt.Errorf("sqlite: inserting comment on product %d: %w", c.ProductID, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading new comment id: %w", err)
	}
	c.ID = id
	return nil
}

func (db *DB) GetComment(ctx context.Context, id int64) (*model.Comment, error) {
	var c model.Comment
	err := db.conn.QueryRowContext(ctx,
		`SELECT c.id, c.text, c.author_id, c.product_id, c.created_at, u.name, u.email
		 FROM comments c JOIN users u ON u.id = c.author_id
		 WHERE c.id = ?`, id,
	).Scan(&c.ID, &c.Text, &c.AuthorID, &c.ProductID, &c.CreatedAt, &c.AuthorName, &c.AuthorEmail)
	if noRows(err) {
		return nil, apperror.NotFound("comment", id)
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: getting comment %d: %w", id, err)
	}
	return &c, nil
}

func (db *DB) ListComments(ctx context.Context, productID int64) ([]model.Comment, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT c.id, c.text, c.author_id, c.product_id, c.created_at, u.name, u.email
		 FROM comments c JOIN users u ON u.id = c.author_id
		 WHERE c.product_id = ?
		 ORDER BY c.id`, productID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing comments of product %d: %w", productID, err)
	}
	defer rows.Close()

	comments := []model.Comment{}
	for rows.Next() {
		var c model.Comment
		if err := rows.Scan(&c.ID, &c.Text, &c.AuthorID, &c.ProductID, &c.CreatedAt, &c.AuthorName, &c.AuthorEmail); err != nil {
			return nil, fmt.Errorf("sqlite: scanning comment: %w", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating comments: %w", err)
	}
	return comments, nil
}

func (db *DB) DeleteComment(ctx context.Context, id int64) error {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM comments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting comment %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if n == 0 {
		return apperror.NotFound("comment", id)
	}
	return nil
}
