package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/apperror"
	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/form"
	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/model"
	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/service"
)

// ProductHandler serves the catalog. Create, edit and remove are mounted
// behind auth.AdminOnly by the router.
type ProductHandler struct {
	render  *Renderer
	catalog *service.CatalogService
	logger  *slog.Logger
}

func NewProductHandler(render *Renderer, catalog *service.CatalogService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{render: render, catalog: catalog, logger: logger}
}

// HandleList: GET /products
func (h *ProductHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.List(r.Context())
	if err != nil {
		h.render.Error(w, r, err)
		return
	}
	h.render.Page(w, r, http.StatusOK, "products.html", PageData{Products: products})
}

// HandleShow: GET /product/{id}, with comments and the comment form.
func (h *ProductHandler) HandleShow(w http.ResponseWriter, r *http.Request) {
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
	h.render.Page(w, r, http.StatusOK, "product.html", PageData{
		Product:  page.Product,
		Comments: page.Comments,
		Form:     form.Comment{},
	})
}

// HandleAddForm: GET /add_product
func (h *ProductHandler) HandleAddForm(w http.ResponseWriter, r *http.Request) {
	h.render.Page(w, r, http.StatusOK, "product_form.html", PageData{Form: form.Product{}})
}

// HandleAdd: POST /add_product
func (h *ProductHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	var f form.Product
	if !decodeForm(h.render, w, r, &f, "product_form.html") {
		return
	}

	if _, err := h.catalog.Create(r.Context(), productInput(f)); err != nil {
		h.productFormError(w, r, f, nil, err)
		return
	}
	http.Redirect(w, r, "/products", http.StatusSeeOther)
}

// HandleEditForm: GET /edit/{id}, prefilled with the stored product.
func (h *ProductHandler) HandleEditForm(w http.ResponseWriter, r *http.Request) {
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

	h.render.Page(w, r, http.StatusOK, "product_form.html", PageData{
		IsEdit:  true,
		Product: p,
		Form: form.Product{
			Name:        p.Name,
			Description: p.Description,
			Price:       p.Price().StringFixed(2),
			ImageURL:    p.ImageURL,
			Quantity:    strconv.Itoa(p.Quantity),
		},
	})
}

// HandleEdit: POST /edit/{id}
func (h *ProductHandler) HandleEdit(w http.ResponseWriter, r *http.Request) {
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

	var f form.Product
	if !decodeFormWith(h.render, w, r, &f, "product_form.html", PageData{IsEdit: true, Product: p}) {
		return
	}

	if _, err := h.catalog.Update(r.Context(), id, productInput(f)); err != nil {
		h.productFormError(w, r, f, p, err)
		return
	}
	http.Redirect(w, r, fmt.Sprintf("/product/%d", id), http.StatusSeeOther)
}

// HandleRemove: POST /remove/{id}
func (h *ProductHandler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id", "product")
	if err != nil {
		h.render.Error(w, r, err)
		return
	}
	if err := h.catalog.Remove(r.Context(), id); err != nil {
		h.render.Error(w, r, err)
		return
	}
	http.Redirect(w, r, "/products", http.StatusSeeOther)
}

func productInput(f form.Product) service.ProductInput {
	return service.ProductInput{
		Name:        f.Name,
		Description: f.Description,
		ImageURL:    f.ImageURL,
		Price:       f.PriceAmount(),
		Quantity:    f.QuantityInt(),
	}
}

func (h *ProductHandler) productFormError(w http.ResponseWriter, r *http.Request, f form.Product, p *model.Product, err error) {
	var appErr *apperror.AppError
	if errors.Is(err, apperror.ErrValidation) && errors.As(err, &appErr) && appErr.Field != "" {
		h.render.Page(w, r, http.StatusUnprocessableEntity, "product_form.html", PageData{
			IsEdit:  p != nil,
			Product: p,
			Form:    f,
			Errors:  form.Errors{appErr.Field: appErr.Message},
		})
		return
	}
	h.render.Error(w, r, err)
}
