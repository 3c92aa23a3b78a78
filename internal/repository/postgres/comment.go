package postgres

import (
	"context"
	"fmt"

	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/apperror"
	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/model"
)

const commentSelect = `SELECT c.id, c.text, c.author_id, c.product_id, c.created_at, u.name, u.email
	FROM comments c JOIN users u ON u.id = c.author_id`

func (db *DB) CreateComment(ctx context.Context, c *model.Comment) error {
	err := db.pool.QueryRow(ctx,
		`INSERT INTO comments (text, author_id, product_id) VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		c.Text, c.AuthorID, c.ProductID,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		if code, _ := pgCode(err); code == codeForeignKeyViolation {
			return apperror.NotFound("product", c.ProductID)
		}
		return fmt.Errorf("postgres: inserting comment on product %d: %w", c.ProductID, err)
	}
	return nil
}

func (db *DB) GetComment(ctx context.Context, id int64) (*model.Comment, error) {
	var c model.Comment
	err := db.pool.QueryRow(ctx, commentSelect+` WHERE c.id = $1`, id).
		Scan(&c.ID, &c.Text, &c.AuthorID, &c.ProductID, &c.CreatedAt, &c.AuthorName, &c.AuthorEmail)
	if noRows(err) {
		return nil, apperror.NotFound("comment", id)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: getting comment %d: %w", id, err)
	}
	return &c, nil
}

func (db *DB) ListComments(ctx context.Context, productID int64) ([]model.Comment, error) {
	rows, err := db.pool.Query(ctx, commentSelect+` WHERE c.product_id = $1 ORDER BY c.id`, productID)
	if err != nil {
		return nil, fmt.Errorf("postgres: listing comments of product %d: %w", productID, err)
	}
	defer rows.Close()

	comments := []model.Comment{}
	for rows.Next() {
		var c model.Comment
		if err := rows.Scan(&c.ID, &c.Text, &c.AuthorID, &c.ProductID, &c.CreatedAt, &c.AuthorName, &c.AuthorEmail); err != nil {
			return nil, fmt.Errorf("postgres: scanning comment: %w", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterating comments: %w", err)
	}
	return comments, nil
}

func (db *DB) DeleteComment(ctx context.Context, id int64) error {
	tag, err := db.pool.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("postgres: deleting comment %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFound("comment", id)
	}
	return nil
}
