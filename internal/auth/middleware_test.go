package auth

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/apperror"
	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/model"
)

type fakeUsers map[int64]*model.User

func (f fakeUsers) GetUserByID(_ context.Context, id int64) (*model.User, error) {
	if u, ok := f[id]; ok {
		return u, nil
	}
	return nil, apperror.NotFound("user", id)
}

// whoami reports the current user's name, or "anonymous".
var whoami = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	if u, ok := CurrentUser(r.Context()); ok {
		io.WriteString(w, u.Name)
		return
	}
	io.WriteString(w, "anonymous")
})

func TestLoadUser(t *testing.T) {
	ts := newTestTokenService(t)
	users := fakeUsers{1: {ID: 1, Name: "admin"}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := LoadUser(ts, users, logger)(whoami)

	valid, _ := ts.Generate(1)
	deleted, _ := ts.Generate(99)

	tests := []struct {
		name   string
		cookie string
		want   string
	}{
		{"no cookie", "", "anonymous"},
		{"valid token", valid, "admin"},
		{"unknown user", deleted, "anonymous"},
		{"garbage token", "not.a.jwt", "anonymous"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: TokenCookie, Value: tt.cookie})
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.want, rec.Body.String())
		})
	}
}

func TestRequireLogin_RedirectsAnonymous(t *testing.T) {
	rec := httptest.NewRecorder()
	RequireLogin(whoami).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/add_to_cart/1", nil))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestAdminOnly(t *testing.T) {
	tests := []struct {
		name       string
		user       *model.User
		wantStatus int
	}{
		{"anonymous", nil, http.StatusForbidden},
		{"regular user", &model.User{ID: 2, Name: "bob"}, http.StatusForbidden},
		{"privileged user", &model.User{ID: PrivilegedUserID, Name: "admin"}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/add_product", nil)
			if tt.user != nil {
				req = req.WithContext(WithUser(req.Context(), tt.user))
			}
			rec := httptest.NewRecorder()
			AdminOnly(whoami).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestTokenCookies(t *testing.T) {
	rec := httptest.NewRecorder()
	SetTokenCookie(rec, "abc", DefaultTokenTTL, true)
	ClearTokenCookie(rec, true)

	cookies := rec.Result().Cookies()
	if assert.Len(t, cookies, 2) {
		assert.Equal(t, "abc", cookies[0].Value)
		assert.True(t, cookies[0].HttpOnly)
		assert.True(t, cookies[0].Secure)
		assert.Equal(t, -1, cookies[1].MaxAge)
	}
}
