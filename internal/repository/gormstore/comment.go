package gormstore

import (
	"context"
	"fmt"
	"time"

	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/apperror"
	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/model"
)

// commentRow receives the comment/user join. model.Comment marks the author
// fields as ignored by the ORM, so they cannot be scanned into directly.
type commentRow struct {
	ID          int64
	Text        string
	AuthorID    int64
	ProductID   int64
	CreatedAt   time.Time
	AuthorName  string
	AuthorEmail string
}

func (r commentRow) toModel() model.Comment {
	return model.Comment{
		ID:          r.ID,
		Text:        r.Text,
		AuthorID:    r.AuthorID,
		ProductID:   r.ProductID,
		CreatedAt:   r.CreatedAt,
		AuthorName:  r.AuthorName,
		AuthorEmail: r.AuthorEmail,
	}
}

const commentJoinSelect = "comments.id, comments.text, comments.author_id, comments.product_id, " +
	"comments.created_at, users.name AS author_name, users.email AS author_email"

func (s *Store) CreateComment(ctx context.Context, c *model.Comment) error {
	if err := s.withContext(ctx).Create(c).Error; err != nil {
		return fmt.Errorf("gormstore: inserting comment on product %d: %w", c.ProductID, err)
	}
	return nil
}

func (s *Store) GetComment(ctx context.Context, id int64) (*model.Comment, error) {
	var rows []commentRow
	err := s.withContext(ctx).Table("comments").
		Select(commentJoinSelect).
		Joins("JOIN users ON users.id = comments.author_id").
		Where("comments.id = ?", id).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("gormstore: getting comment %d: %w", id, err)
	}
	if len(rows) == 0 {
		return nil, apperror.NotFound("comment", id)
	}
	c := rows[0].toModel()
	return &c, nil
}

func (s *Store) ListComments(ctx context.Context, productID int64) ([]model.Comment, error) {
	var rows []commentRow
	err := s.withContext(ctx).Table("comments").
		Select(commentJoinSelect).
		Joins("JOIN users ON users.id = comments.author_id").
		Where("comments.product_id = ?", productID).
		Order("comments.id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("gormstore: listing comments of product %d: %w", productID, err)
	}

	comments := make([]model.Comment, 0, len(rows))
	for _, r := range rows {
		comments = append(comments, r.toModel())
	}
	return comments, nil
}

func (s *Store) DeleteComment(ctx context.Context, id int64) error {
	res := s.withContext(ctx).Delete(&model.Comment{}, id)
	if res.Error != nil {
		return fmt.Errorf("gormstore: deleting comment %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("comment", id)
	}
	return nil
}
