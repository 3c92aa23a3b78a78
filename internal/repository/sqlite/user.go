package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/apperror"
	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/model"
)

const userColumns = `id, name, email, password, created_at`

// CreateUser inserts a new account and fills in its ID and CreatedAt.
//
// The UNIQUE constraints on email and name are the final word on duplicates:
// the service checks first to pick the right message, but two concurrent
// registrations can still race, and the loser gets apperror.ErrConflict here.
func (db *DB) CreateUser(ctx context.Context, user *model.User) error {
	user.CreatedAt = time.Now().UTC()

	res, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (name, email, password, created_at) VALUES (?, ?, ?, ?)`,
		user.Name, user.Email, user.PasswordHash, user.CreatedAt,
	)
	if err != nil {
		switch {
		case isUniqueViolation(err, "users.email"):
			return apperror.Conflict("email", "email already registered")
		case isUniqueViolation(err, "users.name"):
			return apperror.Conflict("name", "name already taken")
		}
		return fmt.Errorf("sqlite: inserting user %q: %w", user.Email, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading new user id: %w", err)
	}
	user.ID = id
	return nil
}

func (db *DB) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	u, err := db.getUser(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	if noRows(err) {
		return nil, apperror.NotFound("user", id)
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: getting user %d: %w", id, err)
	}
	return u, nil
}

func (db *DB) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	u, err := db.getUser(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	if noRows(err) {
		return nil, apperror.NotFoundBy("user", "email", email)
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: getting user by email: %w", err)
	}
	return u, nil
}

func (db *DB) GetUserByName(ctx context.Context, name string) (*model.User, error) {
	u, err := db.getUser(ctx, `SELECT `+userColumns+` FROM users WHERE name = ?`, name)
	if noRows(err) {
		return nil, apperror.NotFoundBy("user", "name", name)
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: getting user by name: %w", err)
	}
	return u, nil
}

func (db *DB) getUser(ctx context.Context, query string, arg any) (*model.User, error) {
	var u model.User
	err := db.conn.QueryRowContext(ctx, query, arg).Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
