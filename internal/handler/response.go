package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/apperror"
)

// writeJSON sends a JSON response with the given status code. Headers go out
// before the body, so set them first.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// statusFor maps a domain error to an HTTP status.
//
// errors.Is walks the whole chain, so a service error such as
//
//	fmt.Errorf("service/cart: adding product 3: %w", apperror.NotFound("product", 3))
//
// still maps to 404.
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperror.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, apperror.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperror.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, apperror.ErrUnauthorized):
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

// Error renders the error page for err. Only AppError messages reach the
// browser; anything else is logged and shown as a generic 500, since raw
// errors can carry SQL or file paths.
func (rd *Renderer) Error(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := http.StatusText(status)

	var appErr *apperror.AppError
	if status != http.StatusInternalServerError && errors.As(err, &appErr) {
		msg = appErr.Message
	} else {
		rd.logger.Error("request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
	}

	rd.Page(w, r, status, "error.html", PageData{Status: status, Message: msg})
}

// idParam reads a numeric path parameter. A malformed id cannot name
// anything, so it is reported as not found.
func idParam(r *http.Request, name, resource string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, apperror.NotFoundBy(resource, name, raw)
	}
	return id, nil
}
