package gormstore

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/apperror"
	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/model"
)

func (s *Store) CreateUser(ctx context.Context, user *model.User) error {
	err := s.withContext(ctx).Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// The translated error does not say which index fired; look it up.
		var n int64
		s.withContext(ctx).Model(&model.User{}).Where("email = ?", user.Email).Count(&n)
		if n > 0 {
			return apperror.Conflict("email", "email already registered")
		}
		return apperror.Conflict("name", "name already taken")
	}
	if err != nil {
		return fmt.Errorf("gormstore: inserting user %q: %w", user.Email, err)
	}
	return nil
}

func (s *Store) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	var u model.User
	err := s.withContext(ctx).First(&u, id).Error
	if notFound(err) {
		return nil, apperror.NotFound("user", id)
	}
	if err != nil {
		return nil, fmt.Errorf("gormstore: getting user %d: %w", id, err)
	}
	return &u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	err := s.withContext(ctx).Where("email = ?", email).First(&u).Error
	if notFound(err) {
		return nil, apperror.NotFoundBy("user", "email", email)
	}
	if err != nil {
		return nil, fmt.Errorf("gormstore: getting user by email: %w", err)
	}
	return &u, nil
}

func (s *Store) GetUserByName(ctx context.Context, name string) (*model.User, error) {
	var u model.User
	err := s.withContext(ctx).Where("name = ?", name).First(&u).Error
	if notFound(err) {
		return nil, apperror.NotFoundBy("user", "name", name)
	}
	if err != nil {
		return nil, fmt.Errorf("gormstore: getting user by name: %w", err)
	}
	return &u, nil
}
