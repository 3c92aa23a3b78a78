package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/apperror"
	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/model"
	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/repository"
)

type CommentService struct {
	comments repository.CommentRepository
	products repository.ProductRepository
	logger   *slog.Logger
}

func NewCommentService(comments repository.CommentRepository, products repository.ProductRepository, logger *slog.Logger) *CommentService {
	return &CommentService{comments: comments, products: products, logger: logger}
}

// Add posts a comment by author on a product.
func (s *CommentService) Add(ctx context.Context, author *model.User, productID int64, text string) (*model.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperror.ValidationFailed("comment_text", "This field is required.")
	}
	if _, err := s.products.GetProduct(ctx, productID); err != nil {
		return nil, fmt.Errorf("service/comment: fetching product %d: %w", productID, err)
	}

	c := &model.Comment{
		Text:        text,
		AuthorID:    author.ID,
		ProductID:   productID,
		AuthorName:  author.Name,
		AuthorEmail: author.Email,
	}
	if err := s.comments.CreateComment(ctx, c); err != nil {
		return nil, fmt.Errorf("service/comment: creating comment: %w", err)
	}
	return c, nil
}

// Delete removes a comment and returns the product it belonged to, so the
// caller can send the user back to that page. Any logged-in user may delete
// any comment.
func (s *CommentService) Delete(ctx context.Context, user *model.User, id int64) (int64, error) {
	c, err := s.comments.GetComment(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("service/comment: fetching comment %d: %w", id, err)
	}
	if err := s.comments.DeleteComment(ctx, id); err != nil {
		return 0, fmt.Errorf("service/comment: deleting comment %d: %w", id, err)
	}
	s.logger.Info("comment deleted",
		slog.Int64("commentID", id),
		slog.Int64("authorID", c.AuthorID),
		slog.Int64("deletedBy", user.ID),
	)
	return c.ProductID, nil
}
