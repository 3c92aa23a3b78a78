// Package handler turns HTTP requests into service calls and renders the
// results as HTML pages.
//
// Handlers parse the request, call one service method and either render a
// template or redirect. They hold no business rules; a handler test can
// drive a full request with httptest and a temporary SQLite store.
package handler

import (
	"net/http"
	"time"
)

// HandleStatic renders a page that needs nothing but the base data (home,
// about, contact, client).
func HandleStatic(render *Renderer, page string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.Page(w, r, http.StatusOK, page, PageData{})
	}
}

// HandleNotFound renders the error page for unknown routes.
func HandleNotFound(render *Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.Page(w, r, http.StatusNotFound, "error.html", PageData{
			Status:  http.StatusNotFound,
			Message: "That page does not exist.",
		})
	}
}

type healthResponse struct {
	Status string    `json:"status"`
	Time   time.Time `json:"time"`
}

// HandleHealth: GET /healthz
func HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Time: time.Now().UTC()})
}
