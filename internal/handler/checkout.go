package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/apperror"
	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/auth"
	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/model"
	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/service"
	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/session"
)

// CheckoutHandler opens hosted checkouts and handles the provider's success
// and cancel redirects.
//
// Starting a checkout stores its snapshot in the session. A success page
// takes the snapshot out of the session (saving the removal) before applying
// it, so reloading the page finds nothing pending and changes nothing.
type CheckoutHandler struct {
	render   *Renderer
	checkout *service.CheckoutService
	catalog  *service.CatalogService
	sessions *session.Manager
	logger   *slog.Logger
}

func NewCheckoutHandler(
	render *Renderer,
	checkout *service.CheckoutService,
	catalog *service.CatalogService,
	sessions *session.Manager,
	logger *slog.Logger,
) *CheckoutHandler {
	return &CheckoutHandler{
		render:   render,
		checkout: checkout,
		catalog:  catalog,
		sessions: sessions,
		logger:   logger,
	}
}

// HandleSinglePage: GET /checkout/{id}
func (h *CheckoutHandler) HandleSinglePage(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id", "product")
	if err != nil {
		h.render.Error(w, r, err)
		return
	}
	p, err := h.catalog.Get(r.Context(), id)
	if err != nil {
		h.render.Error(w, r, err)
		return
	}
	h.render.Page(w, r, http.StatusOK, "checkout.html", PageData{Product: p})
}

// HandleStartSingle: POST /checkout/{id}
func (h *CheckoutHandler) HandleStartSingle(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id", "product")
	if err != nil {
		h.render.Error(w, r, err)
		return
	}
	user, _ := auth.CurrentUser(r.Context())

	started, err := h.checkout.StartSingle(r.Context(), user.ID, id)
	h.redirectToProvider(w, r, started, err)
}

// HandleStartCart: POST /cart/checkout
func (h *CheckoutHandler) HandleStartCart(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.CurrentUser(r.Context())

	started, err := h.checkout.StartCart(r.Context(), user.ID)
	if errors.Is(err, apperror.ErrValidation) && apperror.Field(err) == "cart" {
		h.render.Flash(w, r, "error", err.Error())
		http.Redirect(w, r, "/cart", http.StatusSeeOther)
		return
	}
	h.redirectToProvider(w, r, started, err)
}

func (h *CheckoutHandler) redirectToProvider(w http.ResponseWriter, r *http.Request, started *service.Started, err error) {
	if err != nil {
		var pe *service.ProviderError
		if errors.As(err, &pe) {
			// The provider's message goes back verbatim.
			h.logger.Error("failed to create checkout session", slog.String("error", pe.Error()))
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte(pe.Error()))
			return
		}
		h.render.Error(w, r, err)
		return
	}

	if err := h.sessions.SetCheckout(w, r, started.Checkout); err != nil {
		h.render.Error(w, r, err)
		return
	}
	http.Redirect(w, r, started.Session.URL, http.StatusSeeOther)
}

// HandleCartSuccess: GET /checkout/success
func (h *CheckoutHandler) HandleCartSuccess(w http.ResponseWriter, r *http.Request) {
	h.complete(w, r, model.CheckoutCart)
}

// HandleSingleSuccess: GET /checkout/single/success
func (h *CheckoutHandler) HandleSingleSuccess(w http.ResponseWriter, r *http.Request) {
	h.complete(w, r, model.CheckoutSingle)
}

func (h *CheckoutHandler) complete(w http.ResponseWriter, r *http.Request, mode model.CheckoutMode) {
	user, _ := auth.CurrentUser(r.Context())

	pending, err := h.sessions.TakeCheckout(w, r)
	switch {
	case errors.Is(err, session.ErrNoCheckout):
		h.logger.Info("success page without a pending checkout",
			slog.Int64("userID", user.ID),
			slog.String("mode", string(mode)),
		)
	case err != nil:
		h.render.Error(w, r, err)
		return
	default:
		if err := h.checkout.Complete(r.Context(), user.ID, pending, mode); err != nil {
			h.render.Error(w, r, err)
			return
		}
	}

	h.render.Page(w, r, http.StatusOK, "success.html", PageData{})
}

// HandleCancel: GET /checkout/cancel. The pending snapshot is left alone; a
// new checkout replaces it.
func (h *CheckoutHandler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	h.render.Page(w, r, http.StatusOK, "cancel.html", PageData{})
}
