// Package server wires the shop together: it builds the services and
// handlers on top of a store and a payment provider, mounts them on a chi
// router and runs the HTTP server with graceful shutdown.
//
// This is the composition root. main.go opens the store and the external
// clients; everything above them is assembled in New.
package server

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/csrf"

	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/auth"
	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/config"
	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/handler"
	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/middleware"
	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/payment"
	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/repository"
	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/service"
	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/session"
	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/web"
)

// Server owns the router and the store. The store is closed when Start
// returns.
type Server struct {
	router *chi.Mux
	config *config.Config
	logger *slog.Logger
	store  repository.Store
}

// New builds the dependency graph:
//
//	store, provider → services → handlers → routes
//
// limiter may be nil, which turns login/register rate limiting off.
// A nil cfg.CSRFKey turns CSRF protection off; only tests do that.
func New(
	cfg *config.Config,
	store repository.Store,
	provider payment.Provider,
	limiter middleware.Counter,
	logger *slog.Logger,
) (*Server, error) {
	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		store:  store,
	}

	if err := s.setupRoutes(provider, limiter); err != nil {
		return nil, fmt.Errorf("setting up routes: %w", err)
	}
	return s, nil
}

// Handler exposes the router, e.g. for httptest.NewServer.
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupRoutes mounts every route.
//
// GET       /                          home
// GET|POST  /register, /login          account forms (rate limited POSTs)
// GET       /logout
// GET       /products                  catalog
// GET|POST  /product/{id}              product page, post a comment
// GET|POST  /add_product               admin only
// GET|POST  /edit/{id}                 admin only
// POST      /remove/{id}               admin only
// POST      /add_to_cart/{id}          login required
// POST      /remove_from_cart/{id}     login required
// POST      /delete_comment/{id}       login required
// GET       /cart                      login required
// POST      /cart/checkout             login required
// GET|POST  /checkout/{id}             buy now page; POST needs login
// GET       /checkout/success          login required
// GET       /checkout/single/success   login required
// GET       /checkout/cancel
// GET       /about, /contact, /client
// GET       /static/*, /healthz
//
// MIDDLEWARE ORDER: request id, real ip and panic recovery first so every
// later layer can log with them; sessions before CSRF (both use cookies, and
// the session cache must exist before anything reads it); LoadUser last so
// handlers see the current user.
func (s *Server) setupRoutes(provider payment.Provider, limiter middleware.Counter) error {
	cfg := s.config

	pages, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		return err
	}
	templates, err := handler.NewTemplateCache(pages)
	if err != nil {
		return err
	}
	static, err := fs.Sub(web.Static, "static")
	if err != nil {
		return err
	}

	tokens, err := auth.NewTokenService(cfg.JWTSecret)
	if err != nil {
		return err
	}
	sessions := session.NewManager(cfg.SessionHashKey, cfg.SessionBlockKey, cfg.CookieSecure)
	render := handler.NewRenderer(templates, sessions, s.logger)

	// === Services ===
	authService := service.NewAuthService(s.store, tokens, auth.NewPasswordService(), s.logger)
	catalog := service.NewCatalogService(s.store, s.store, provider, s.logger)
	comments := service.NewCommentService(s.store, s.store, s.logger)
	cart := service.NewCartService(s.store, s.store, s.logger)
	checkout := service.NewCheckoutService(s.store, s.store, provider, cfg.SiteDomain, s.logger)

	// === Handlers ===
	authHandler := handler.NewAuthHandler(render, authService, cfg.CookieSecure, s.logger)
	productHandler := handler.NewProductHandler(render, catalog, s.logger)
	commentHandler := handler.NewCommentHandler(render, catalog, comments)
	cartHandler := handler.NewCartHandler(render, cart)
	checkoutHandler := handler.NewCheckoutHandler(render, checkout, catalog, sessions, s.logger)

	// === Global middleware ===
	r := s.router
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Logger(s.logger))
	r.Use(middleware.SecurityHeaders)
	r.Use(sessions.Middleware)
	if cfg.CSRFKey != nil {
		if !cfg.CookieSecure {
			r.Use(plaintextRequests)
		}
		r.Use(csrf.Protect(cfg.CSRFKey,
			csrf.Secure(cfg.CookieSecure),
			csrf.Path("/"),
			csrf.SameSite(csrf.SameSiteLaxMode),
			csrf.TrustedOrigins(trustedOrigins(cfg.SiteDomain)),
			csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				s.logger.Warn("csrf check failed",
					slog.String("path", r.URL.Path),
					slog.Any("reason", csrf.FailureReason(r)),
				)
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
			})),
		))
	}
	r.Use(auth.LoadUser(tokens, s.store, s.logger))

	r.NotFound(handler.HandleNotFound(render))

	// === Static and health ===
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))
	r.Get("/healthz", handler.HandleHealth)

	// === Pages ===
	r.Get("/", handler.HandleStatic(render, "home.html"))
	r.Get("/about", handler.HandleStatic(render, "about.html"))
	r.Get("/contact", handler.HandleStatic(render, "contact.html"))
	r.Get("/client", handler.HandleStatic(render, "client.html"))

	// === Accounts ===
	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(limiter, cfg.RateLimit, cfg.RateLimitWindow, s.logger))
		r.Get("/register", authHandler.HandleRegisterForm)
		r.Post("/register", authHandler.HandleRegister)
		r.Get("/login", authHandler.HandleLoginForm)
		r.Post("/login", authHandler.HandleLogin)
	})
	r.Get("/logout", authHandler.HandleLogout)

	// === Catalog ===
	r.Get("/products", productHandler.HandleList)
	r.Get("/product/{id}", productHandler.HandleShow)
	r.Post("/product/{id}", commentHandler.HandleAdd)
	r.Get("/checkout/{id}", checkoutHandler.HandleSinglePage)
	r.Get("/checkout/cancel", checkoutHandler.HandleCancel)

	r.Group(func(r chi.Router) {
		r.Use(auth.AdminOnly)
		r.Get("/add_product", productHandler.HandleAddForm)
		r.Post("/add_product", productHandler.HandleAdd)
		r.Get("/edit/{id}", productHandler.HandleEditForm)
		r.Post("/edit/{id}", productHandler.HandleEdit)
		r.Post("/remove/{id}", productHandler.HandleRemove)
	})

	// === Cart, comments and checkout ===
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireLogin)
		r.Post("/delete_comment/{id}", commentHandler.HandleDelete)
		r.Post("/add_to_cart/{id}", cartHandler.HandleAdd)
		r.Post("/remove_from_cart/{id}", cartHandler.HandleRemove)
		r.Get("/cart", cartHandler.HandleShow)
		r.Post("/cart/checkout", checkoutHandler.HandleStartCart)
		r.Post("/checkout/{id}", checkoutHandler.HandleStartSingle)
		r.Get("/checkout/success", checkoutHandler.HandleCartSuccess)
		r.Get("/checkout/single/success", checkoutHandler.HandleSingleSuccess)
	})

	return nil
}

// plaintextRequests marks requests as plain HTTP so the CSRF layer checks
// them without demanding a TLS Referer.
func plaintextRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
	})
}

// trustedOrigins lets forms posted from the public site domain through the
// origin check even when the server sits behind a proxy with another host.
func trustedOrigins(siteDomain string) []string {
	u, err := url.Parse(siteDomain)
	if err != nil || u.Host == "" {
		return nil
	}
	return []string{u.Host}
}

// Start runs the HTTP server until SIGINT/SIGTERM, then drains in-flight
// requests for up to 30 seconds and closes the store.
func (s *Server) Start() error {
	defer func() {
		if err := s.store.Close(); err != nil {
			s.logger.Error("closing store", slog.String("error", err.Error()))
		}
	}()

	srv := &http.Server{
		Addr:              ":" + s.config.Port,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("server starting",
			slog.String("port", s.config.Port),
			slog.String("url", s.config.SiteDomain),
			slog.String("driver", s.config.DBDriver),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
