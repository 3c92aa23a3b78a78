package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/apperror"
	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/auth"
	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/form"
	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/service"
)

// AuthHandler serves registration, login and logout.
//
//   - HandleRegisterForm / HandleRegister → GET|POST /register
//   - HandleLoginForm / HandleLogin       → GET|POST /login
//   - HandleLogout                        → GET /logout
//
// A successful register or login sets the HttpOnly token cookie and sends the
// browser home.
type AuthHandler struct {
	render       *Renderer
	auth         *service.AuthService
	secureCookie bool
	logger       *slog.Logger
}

func NewAuthHandler(render *Renderer, auth *service.AuthService, secureCookie bool, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		render:       render,
		auth:         auth,
		secureCookie: secureCookie,
		logger:       logger,
	}
}

func (h *AuthHandler) HandleRegisterForm(w http.ResponseWriter, r *http.Request) {
	h.render.Page(w, r, http.StatusOK, "register.html", PageData{Form: form.Register{}})
}

func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var f form.Register
	if !decodeForm(h.render, w, r, &f, "register.html") {
		return
	}

	res, err := h.auth.Register(r.Context(), f.Name, f.Email, f.Password)
	if err != nil {
		f.Password = ""
		h.formError(w, r, "register.html", f, err)
		return
	}

	h.logIn(w, r, res)
}

func (h *AuthHandler) HandleLoginForm(w http.ResponseWriter, r *http.Request) {
	h.render.Page(w, r, http.StatusOK, "login.html", PageData{Form: form.Login{}})
}

func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var f form.Login
	if !decodeForm(h.render, w, r, &f, "login.html") {
		return
	}

	res, err := h.auth.Login(r.Context(), f.Email, f.Password)
	if err != nil {
		f.Password = ""
		h.formError(w, r, "login.html", f, err)
		return
	}

	h.logIn(w, r, res)
}

func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	auth.ClearTokenCookie(w, h.secureCookie)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *AuthHandler) logIn(w http.ResponseWriter, r *http.Request, res *service.AuthResult) {
	auth.SetTokenCookie(w, res.Token, h.auth.TokenTTL(), h.secureCookie)
	h.logger.Info("user logged in", slog.Int64("userID", res.User.ID))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// formError shows a field-level service error next to its field and
// anything else on the error page.
func (h *AuthHandler) formError(w http.ResponseWriter, r *http.Request, page string, f any, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) && appErr.Field != "" {
		h.render.Page(w, r, statusFor(err), page, PageData{
			Form:   f,
			Errors: form.Errors{appErr.Field: appErr.Message},
		})
		return
	}
	h.render.Error(w, r, err)
}

// decodeForm fills dst from the posted form and validates it. On failure it
// renders page again with the messages and returns false.
func decodeForm(rd *Renderer, w http.ResponseWriter, r *http.Request, dst any, page string) bool {
	return decodeFormWith(rd, w, r, dst, page, PageData{})
}

// decodeFormWith is decodeForm for pages that need more than the form to
// render, such as the product page.
func decodeFormWith(rd *Renderer, w http.ResponseWriter, r *http.Request, dst any, page string, data PageData) bool {
	if err := form.Decode(r, dst); err != nil {
		rd.Error(w, r, apperror.ValidationFailed("form", "The form could not be read."))
		return false
	}

	err := form.Validate(dst)
	if err == nil {
		return true
	}

	var errs form.Errors
	if !errors.As(err, &errs) {
		rd.Error(w, r, err)
		return false
	}

	data.Form = dst
	data.Errors = errs
	rd.Page(w, r, http.StatusUnprocessableEntity, page, data)
	return false
}
