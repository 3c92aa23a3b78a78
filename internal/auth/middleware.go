package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/apperror"
	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/model"
)

// PrivilegedUserID is the account allowed to manage the catalog: the first
// user ever registered.
const PrivilegedUserID int64 = 1

// TokenCookie carries the identity token.
const TokenCookie = "token"

// contextKey is unexported so no other package can read or overwrite the
// values this package stores in a request context.
type contextKey string

const userKey contextKey = "user"

// UserFinder is the lookup LoadUser needs; repository.UserRepository has it.
type UserFinder interface {
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
}

// LoadUser resolves the identity cookie to a user once per request and puts
// it in the request context. It never rejects a request: a missing, expired
// or forged token, or a token for a deleted user, just leaves the request
// anonymous. Routes that need a user add RequireLogin or AdminOnly.
func LoadUser(tokens *TokenService, users UserFinder, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(TokenCookie)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			userID, err := tokens.Validate(cookie.Value)
			if err != nil {
				logger.Debug("ignoring invalid identity token", slog.String("error", err.Error()))
				next.ServeHTTP(w, r)
				return
			}

			user, err := users.GetUserByID(r.Context(), userID)
			if err != nil {
				if !errors.Is(err, apperror.ErrNotFound) {
					logger.Error("loading current user",
						slog.Int64("userID", userID),
						slog.String("error", err.Error()),
					)
				}
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// WithUser returns a copy of ctx carrying user.
func WithUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// CurrentUser returns the logged-in user, or (nil, false) for anonymous
// requests.
func CurrentUser(ctx context.Context) (*model.User, bool) {
	u, ok := ctx.Value(userKey).(*model.User)
	return u, ok && u != nil
}

// IsAdmin reports whether u may manage the catalog.
func IsAdmin(u *model.User) bool {
	return u != nil && u.ID == PrivilegedUserID
}

// RequireLogin sends anonymous visitors to the login page. Anything they
// posted is dropped.
func RequireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r.Context()); !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// AdminOnly answers 403 to everyone but the privileged user, anonymous
// visitors included, and does nothing else.
func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, _ := CurrentUser(r.Context())
		if !IsAdmin(u) {
			http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// SetTokenCookie stores a signed identity token. HttpOnly keeps it away from
// page scripts; SameSite=Lax keeps it off cross-site form posts.
func SetTokenCookie(w http.ResponseWriter, token string, ttl time.Duration, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearTokenCookie logs the browser out.
func ClearTokenCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
