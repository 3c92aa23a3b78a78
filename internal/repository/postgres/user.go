package postgres

import (
	"context"
	"fmt"

	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/apperror"
	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/model"
)

const userColumns = `id, name, email, password, created_at`

func (db *DB) CreateUser(ctx context.Context, user *model.User) error {
	err := db.pool.QueryRow(ctx,
		`INSERT INTO users (name, email, password) VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		user.Name, user.Email, user.PasswordHash,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		if code, constraint := pgCode(err); code == codeUniqueViolation {
			// Constraint names follow PostgreSQL's <table>_<column>_key default.
			if constraint == "users_name_key" {
				return apperror.Conflict("name", "name already taken")
			}
			return apperror.Conflict("email", "email already registered")
		}
		return fmt.Errorf("postgres: inserting user %q: %w", user.Email, err)
	}
	return nil
}

func (db *DB) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	u, err := db.getUser(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	if noRows(err) {
		return nil, apperror.NotFound("user", id)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: getting user %d: %w", id, err)
	}
	return u, nil
}

func (db *DB) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	u, err := db.getUser(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	if noRows(err) {
		return nil, apperror.NotFoundBy("user", "email", email)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: getting user by email: %w", err)
	}
	return u, nil
}

func (db *DB) GetUserByName(ctx context.Context, name string) (*model.User, error) {
	u, err := db.getUser(ctx, `SELECT `+userColumns+` FROM users WHERE name = $1`, name)
	if noRows(err) {
		return nil, apperror.NotFoundBy("user", "name", name)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: getting user by name: %w", err)
	}
	return u, nil
}

func (db *DB) getUser(ctx context.Context, query string, arg any) (*model.User, error) {
	var u model.User
	err := db.pool.QueryRow(ctx, query, arg).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
