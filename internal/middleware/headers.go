package middleware

import "net/http"

// SecurityHeaders sets the standard hardening headers on every response.
// Images may come from anywhere: product pictures and Gravatar avatars are
// hot-linked by URL.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "same-origin")
		h.Set("Content-Security-Policy",
			"default-src 'self'; img-src 'self' https: data:; style-src 'self' 'unsafe-inline'; form-action 'self' https://checkout.stripe.com")
		next.ServeHTTP(w, r)
	})
}
