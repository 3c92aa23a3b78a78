// Package service holds the shop's business rules. Handlers parse HTTP and
// call into here; services talk to the repository interfaces and the payment
// provider and never see a request or a response writer.
//
//	Handler (HTTP) → Service (rules) → Repository (SQL)
//	                               ↘ payment.Provider
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/apperror"
	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/auth"
	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/model"
	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/repository"
)

// User-facing messages for the account forms.
const (
	MsgEmailTaken      = "You've already signed up with that email, log in instead!"
	MsgNameTaken       = "This name has been taken, please use another name"
	MsgEmailUnknown    = "That email has not been registered yet, please try again"
	MsgPasswordInvalid = "The input password is incorrect, please try again"
)

// AuthService registers and logs in users.
//
// DEPENDENCIES (injected via NewAuthService):
//   - users      repository.UserRepository  → read/write user records
//   - tokens     *auth.TokenService         → issue the identity cookie value
//   - passwords  *auth.PasswordService      → bcrypt hashing
//   - logger     *slog.Logger
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// AuthResult bundles the user and the issued token so the handler can set
// the cookie and redirect in one step.
type AuthResult struct {
	User  *model.User
	Token string
}

// Register creates an account and logs it in.
//
// The email is checked before the name, so a request where both are taken
// reports the email. The repository's unique constraints still back the
// checks up when two registrations race.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	if err := s.ensureFree(ctx, email, name); err != nil {
		return nil, err
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, apperror.ValidationFailed("password", err.Error())
	}

	user := &model.User{Name: name, Email: email, PasswordHash: hash}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return nil, conflictMessage(err)
		}
		return nil, fmt.Errorf("service/auth: creating user: %w", err)
	}

	s.logger.Info("user registered", slog.Int64("userID", user.ID), slog.String("name", user.Name))
	return s.issue(user)
}

func (s *AuthService) ensureFree(ctx context.Context, email, name string) error {
	_, err := s.users.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		return apperror.Conflict("email", MsgEmailTaken)
	case !errors.Is(err, apperror.ErrNotFound):
		return fmt.Errorf("service/auth: looking up email: %w", err)
	}

	_, err = s.users.GetUserByName(ctx, name)
	switch {
	case err == nil:
		return apperror.Conflict("name", MsgNameTaken)
	case !errors.Is(err, apperror.ErrNotFound):
		return fmt.Errorf("service/auth: looking up name: %w", err)
	}
	return nil
}

// conflictMessage swaps a repository conflict for the form message of the
// offending field.
func conflictMessage(err error) error {
	if apperror.Field(err) == "name" {
		return apperror.Conflict("name", MsgNameTaken)
	}
	return apperror.Conflict("email", MsgEmailTaken)
}

// Login checks the credentials and issues a token. An unknown email and a
// wrong password are reported differently, matching the login form.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, &apperror.AppError{Err: apperror.ErrUnauthorized, Message: MsgEmailUnknown, Field: "email"}
		}
		return nil, fmt.Errorf("service/auth: looking up user: %w", err)
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		if !errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, fmt.Errorf("service/auth: verifying password for user %d: %w", user.ID, err)
		}
		s.logger.Warn("failed login", slog.Int64("userID", user.ID))
		return nil, &apperror.AppError{Err: apperror.ErrUnauthorized, Message: MsgPasswordInvalid, Field: "password"}
	}

	return s.issue(user)
}

func (s *AuthService) issue(user *model.User) (*AuthResult, error) {
	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for user %d: %w", user.ID, err)
	}
	return &AuthResult{User: user, Token: token}, nil
}

// TokenTTL is how long an issued token stays valid; the handler uses it as
// the cookie lifetime.
func (s *AuthService) TokenTTL() time.Duration {
	return s.tokens.TTL()
}
