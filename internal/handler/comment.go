package handler

import (
	"fmt"
	"net/http"

	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/auth"
	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/form"
	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/service"
)

type CommentHandler struct {
	render   *Renderer
	catalog  *service.CatalogService
	comments *service.CommentService
}

func NewCommentHandler(render *Renderer, catalog *service.CatalogService, comments *service.CommentService) *CommentHandler {
	return &CommentHandler{render: render, catalog: catalog, comments: comments}
}

// HandleAdd: POST /product/{id}. Anonymous visitors are sent to the login
// page and their comment is dropped.
func (h *CommentHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id", "product")
	if err != nil {
		h.render.Error(w, r, err)
		return
	}
	page, err := h.catalog.ProductPage(r.Context(), id)
	if err != nil {
		h.render.Error(w, r, err)
		return
	}

	user, ok := auth.CurrentUser(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	var f form.Comment
	data := PageData{Product: page.Product, Comments: page.Comments}
	if !decodeFormWith(h.render, w, r, &f, "product.html", data) {
		return
	}

	if _, err := h.comments.Add(r.Context(), user, id, f.Text); err != nil {
		h.render.Error(w, r, err)
		return
	}
	http.Redirect(w, r, fmt.Sprintf("/product/%d", id), http.StatusSeeOther)
}

// HandleDelete: POST /delete_comment/{id}. Login required; any user may
// delete any comment.
func (h *CommentHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id", "comment")
	if err != nil {
		h.render.Error(w, r, err)
		return
	}
	user, ok := auth.CurrentUser(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	productID, err := h.comments.Delete(r.Context(), user, id)
	if err != nil {
		h.render.Error(w, r, err)
		return
	}
	http.Redirect(w, r, fmt.Sprintf("/product/%d", productID), http.StatusSeeOther)
}
