package handler

import (
	"net/http"

	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/auth"
	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/service"
)

// CartHandler serves the cart. Every route is mounted behind
// auth.RequireLogin, so a user is always present.
type CartHandler struct {
	render *Renderer
	cart   *service.CartService
}

func NewCartHandler(render *Renderer, cart *service.CartService) *CartHandler {
	return &CartHandler{render: render, cart: cart}
}

// HandleShow: GET /cart
func (h *CartHandler) HandleShow(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.CurrentUser(r.Context())
	cart, err := h.cart.List(r.Context(), user.ID)
	if err != nil {
		h.render.Error(w, r, err)
		return
	}
	h.render.Page(w, r, http.StatusOK, "cart.html", PageData{Cart: cart})
}

// HandleAdd: POST /add_to_cart/{id}
func (h *CartHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id", "product")
	if err != nil {
		h.render.Error(w, r, err)
		return
	}
	user, _ := auth.CurrentUser(r.Context())
	if _, err := h.cart.Add(r.Context(), user.ID, id); err != nil {
		h.render.Error(w, r, err)
		return
	}
	http.Redirect(w, r, "/products", http.StatusSeeOther)
}

// HandleRemove: POST /remove_from_cart/{id}
func (h *CartHandler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id", "product")
	if err != nil {
		h.render.Error(w, r, err)
		return
	}
	user, _ := auth.CurrentUser(r.Context())
	if err := h.cart.Remove(r.Context(), user.ID, id); err != nil {
		h.render.Error(w, r, err)
		return
	}
	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}
