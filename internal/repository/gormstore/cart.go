package gormstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/apperror"
	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/model"
)

func (s *Store) AddToCart(ctx context.Context, buyerID, productID int64) (*model.CartLine, error) {
	var line model.CartLine

	err := s.withContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&model.Product{}).Where("id = ?", productID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return apperror.NotFound("product", productID)
		}

		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "buyer_id"}, {Name: "product_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"quantity": gorm.Expr("product_purchase.quantity + 1"),
			}),
		}).Create(&model.CartLine{BuyerID: buyerID, ProductID: productID, Quantity: 1}).Error
		if err != nil {
			return err
		}

		return tx.Where("buyer_id = ? AND product_id = ?", buyerID, productID).First(&line).Error
	})
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("gormstore: adding product %d to cart of user %d: %w", productID, buyerID, err)
	}
	return &line, nil
}

func (s *Store) RemoveFromCart(ctx context.Context, buyerID, productID int64) error {
	res := s.withContext(ctx).
		Where("buyer_id = ? AND product_id = ?", buyerID, productID).
		Delete(&model.CartLine{})
	if res.Error != nil {
		return fmt.Errorf("gormstore: removing product %d from cart of user %d: %w", productID, buyerID, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("cart item", productID)
	}
	return nil
}

func (s *Store) ListCart(ctx context.Context, buyerID int64) ([]model.CartItem, error) {
	items := []model.CartItem{}
	err := s.withContext(ctx).Table("product_purchase").
		Select("products.id AS product_id, products.name, products.description, " +
			"products.img_url AS image_url, products.price_cents, product_purchase.quantity").
		Joins("JOIN products ON products.id = product_purchase.product_id").
		Where("product_purchase.buyer_id = ?", buyerID).
		Order("products.id").
		Scan(&items).Error
	if err != nil {
		return nil, fmt.Errorf("gormstore: listing cart of user %d: %w", buyerID, err)
	}
	return items, nil
}

func (s *Store) FulfillCheckout(ctx context.Context, c *model.Checkout) error {
	err := s.withContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, line := range c.Lines {
			err := tx.Model(&model.Product{}).Where("id = ?", line.ProductID).
				Updates(map[string]any{
					"quantity":   gorm.Expr("quantity - ?", line.Quantity),
					"updated_at": time.Now(),
				}).Error
			if err != nil {
				return err
			}
			if c.Mode == model.CheckoutCart {
				err := tx.Where("buyer_id = ? AND product_id = ?", c.UserID, line.ProductID).
					Delete(&model.CartLine{}).Error
				if err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("gormstore: fulfilling checkout %s: %w", c.Reference, err)
	}
	return nil
}
