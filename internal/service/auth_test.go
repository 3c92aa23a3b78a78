package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/apperror"
	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/auth"
)

// newTestAuthService returns an AuthService wired with fake dependencies.
func newTestAuthService(t *testing.T, repo *fakeStore) (*AuthService, *auth.TokenService) {
	t.Helper()

	ts, err := auth.NewTokenService("test-secret-at-least-16-chars!!")
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}

	// Cost 4 is the bcrypt minimum.
	ps := auth.NewPasswordServiceForTest(4)

	return NewAuthService(repo, ts, ps, quietLogger()), ts
}

// =========================================================================
// Register TESTS
// =========================================================================

func TestRegister_NewUser(t *testing.T) {
	repo := newFakeStore()
	svc, ts := newTestAuthService(t, repo)

	result, err := svc.Register(context.Background(), "alice", "alice@example.com", "s3cret")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if result.User.ID == 0 {
		t.Error("User.ID should be set after insert")
	}
	if result.User.PasswordHash == "s3cret" || result.User.PasswordHash == "" {
		t.Errorf("PasswordHash = %q, want a bcrypt hash", result.User.PasswordHash)
	}

	userID, err := ts.Validate(result.Token)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if userID != result.User.ID {
		t.Errorf("token subject = %d, want %d", userID, result.User.ID)
	}
}

func TestRegister_EmailCheckedBeforeName(t *testing.T) {
	repo := newFakeStore()
	svc, _ := newTestAuthService(t, repo)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice", "alice@example.com", "pw"); err != nil {
		t.Fatalf("first Register() error = %v", err)
	}

	tests := []struct {
		name      string
		userName  string
		email     string
		wantField string
		wantMsg   string
	}{
		{"both taken", "alice", "alice@example.com", "email", MsgEmailTaken},
		{"email taken", "bob", "alice@example.com", "email", MsgEmailTaken},
		{"name taken", "alice", "other@example.com", "name", MsgNameTaken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.userName, tt.email, "pw")
			if !errors.Is(err, apperror.ErrConflict) {
				t.Fatalf("Register() error = %v, want ErrConflict", err)
			}
			if got := apperror.Field(err); got != tt.wantField {
				t.Errorf("Field = %q, want %q", got, tt.wantField)
			}
			if err.Error() != tt.wantMsg {
				t.Errorf("message = %q, want %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestRegister_RaceLostMapsToFormMessage(t *testing.T) {
	repo := newFakeStore()
	repo.createUserErr = apperror.Conflict("name", "UNIQUE constraint failed: users.name")
	svc, _ := newTestAuthService(t, repo)

	_, err := svc.Register(context.Background(), "alice", "alice@example.com", "pw")
	if !errors.Is(err, apperror.ErrConflict) || err.Error() != MsgNameTaken {
		t.Fatalf("Register() error = %v, want %q", err, MsgNameTaken)
	}
}

func TestRegister_RepositoryError(t *testing.T) {
	repo := newFakeStore()
	repo.createUserErr = errors.New("database is on fire")
	svc, _ := newTestAuthService(t, repo)

	_, err := svc.Register(context.Background(), "alice", "alice@example.com", "pw")
	if err == nil {
		t.Fatal("Register() should propagate repository errors")
	}
	if errors.Is(err, apperror.ErrConflict) {
		t.Errorf("Register() error = %v, should not be a conflict", err)
	}
}

// =========================================================================
// Login TESTS
// =========================================================================

func TestLogin(t *testing.T) {
	repo := newFakeStore()
	svc, _ := newTestAuthService(t, repo)
	ctx := context.Background()

	reg, err := svc.Register(ctx, "alice", "alice@example.com", "correct horse")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	t.Run("success", func(t *testing.T) {
		res, err := svc.Login(ctx, "alice@example.com", "correct horse")
		if err != nil {
			t.Fatalf("Login() error = %v", err)
		}
		if res.User.ID != reg.User.ID {
			t.Errorf("User.ID = %d, want %d", res.User.ID, reg.User.ID)
		}
		if res.Token == "" {
			t.Error("Login() returned empty Token")
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(ctx, "nobody@example.com", "correct horse")
		if !errors.Is(err, apperror.ErrUnauthorized) {
			t.Fatalf("Login() error = %v, want ErrUnauthorized", err)
		}
		if err.Error() != MsgEmailUnknown {
			t.Errorf("message = %q, want %q", err.Error(), MsgEmailUnknown)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, "alice@example.com", "battery staple")
		if !errors.Is(err, apperror.ErrUnauthorized) {
			t.Fatalf("Login() error = %v, want ErrUnauthorized", err)
		}
		if err.Error() != MsgPasswordInvalid {
			t.Errorf("message = %q, want %q", err.Error(), MsgPasswordInvalid)
		}
		if apperror.Field(err) != "password" {
			t.Errorf("Field = %q, want password", apperror.Field(err))
		}
	})
}

func TestTokenTTL(t *testing.T) {
	svc, _ := newTestAuthService(t, newFakeStore())
	if svc.TokenTTL() != auth.DefaultTokenTTL {
		t.Errorf("TokenTTL() = %v, want %v", svc.TokenTTL(), auth.DefaultTokenTTL)
	}
}
