package gormstore

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/apperror"
	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/model"
)

func (s *Store) CreateProduct(ctx context.Context, p *model.Product) error {
	if err := s.withContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("gormstore: inserting product %q: %w", p.Name, err)
	}
	return nil
}

func (s *Store) GetProduct(ctx context.Context, id int64) (*model.Product, error) {
	var p model.Product
	err := s.withContext(ctx).First(&p, id).Error
	if notFound(err) {
		return nil, apperror.NotFound("product", id)
	}
	if err != nil {
		return nil, fmt.Errorf("gormstore: getting product %d: %w", id, err)
	}
	return &p, nil
}

func (s *Store) ListProducts(ctx context.Context) ([]model.Product, error) {
	products := []model.Product{}
	if err := s.withContext(ctx).Order("id").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("gormstore: listing products: %w", err)
	}
	return products, nil
}

// UpdateProduct uses Select("*") so zero values (quantity 0) are written too.
func (s *Store) UpdateProduct(ctx context.Context, p *model.Product) error {
	res := s.withContext(ctx).Model(p).Select("*").Omit("id", "created_at").Updates(p)
	if res.Error != nil {
		return fmt.Errorf("gormstore: updating product %d: %w", p.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("product", p.ID)
	}
	return nil
}

func (s *Store) DeleteProduct(ctx context.Context, id int64) error {
	return s.withContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&model.CartLine{}).Error; err != nil {
			return fmt.Errorf("gormstore: deleting cart lines of product %d: %w", id, err)
		}
		if err := tx.Where("product_id = ?", id).Delete(&model.Comment{}).Error; err != nil {
			return fmt.Errorf("gormstore: deleting comments of product %d: %w", id, err)
		}
		res := tx.Delete(&model.Product{}, id)
		if res.Error != nil {
			return fmt.Errorf("gormstore: deleting product %d: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return apperror.NotFound("product", id)
		}
		return nil
	})
}
