// Package server sets up the HTTP server, router, and all route definitions.
//
// SERVER ARCHITECTURE:
// This package is the "wiring" layer. It connects storage, services,
// handlers and middleware, and owns every connection it opens:
//
//	config.Config
//	  → sqlite.DB (bookings, and the kv store unless Redis is configured)
//	  → redis.Store (optional kv backend)
//	  → rabbitmq.BookingPublisher (optional booking notifications)
//	  → concierge Generator (Gemini or Ark, or none without an API key)
//	  → services → handlers → chi routes
//
// This is the "composition root" pattern: all dependencies are wired in one
// place (New/setupRoutes), rather than scattered across the codebase.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	amqp "github.com/rabbitmq/amqp091-go"
	redisv9 "github.com/redis/go-redis/v9"

	"github.com/lovinghomes/site/internal/auth"
	"github.com/lovinghomes/site/internal/concierge"
	"github.com/lovinghomes/site/internal/config"
	"github.com/lovinghomes/site/internal/handler"
	"github.com/lovinghomes/site/internal/kv"
	redisKV "github.com/lovinghomes/site/internal/kv/redis"
	"github.com/lovinghomes/site/internal/middleware"
	"github.com/lovinghomes/site/internal/platform/rabbitmq"
	sqliteRepo "github.com/lovinghomes/site/internal/repository/sqlite"
	"github.com/lovinghomes/site/internal/service"
)

const shutdownTimeout = 30 * time.Second

// Server represents the HTTP server and all its dependencies.
//
// RESOURCE MANAGEMENT:
// The Server owns the database, Redis and RabbitMQ connections and the
// concierge sweeper goroutine. Close releases all of them; Start calls it
// after a graceful shutdown.
type Server struct {
	router *chi.Mux
	config *config.Config
	logger *slog.Logger

	db     *sqliteRepo.DB
	redis  *redisv9.Client  // nil unless storage.driver = redis
	broker *amqp.Connection // nil unless bookings.rabbitmq_url is set
	store  kv.Store

	tokens    *auth.TokenService
	accounts  *service.AccountService
	bookings  *service.BookingService
	registry  *concierge.Registry
	stopSweep context.CancelFunc
}

// New opens every backend named in cfg and builds the router.
//
// Optional backends degrade instead of failing: an unreachable broker
// only disables notifications, and a missing API key leaves the concierge
// answering with its "not connected" text. Storage is never optional.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Server, error) {
	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
	}

	if err := s.openStorage(ctx); err != nil {
		s.Close()
		return nil, err
	}

	secret := cfg.Auth.JWTSecret
	if secret == "" {
		var err error
		if secret, err = auth.RandomSecret(); err != nil {
			s.Close()
			return nil, fmt.Errorf("generating client token secret: %w", err)
		}
		logger.Warn("JWT_SECRET not set, using a random secret; every browser gets a new client id after a restart")
	}
	tokens, err := auth.NewTokenService(secret, cfg.ClientTokenLifetime())
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("creating token service: %w", err)
	}
	s.tokens = tokens

	s.accounts = service.NewAccountService(s.store, auth.NewPasswordService(cfg.Auth.BcryptCost), logger)
	s.bookings = service.NewBookingService(s.db, s.notifier(ctx), logger)

	gen, err := newGenerator(ctx, cfg.Concierge, logger)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("creating concierge generator: %w", err)
	}
	s.registry = concierge.NewRegistry(
		concierge.NewExchange(gen, cfg.ConciergeTimeout(), logger),
		cfg.ConciergeIdleTTL(),
		logger,
	)
	sweepCtx, cancel := context.WithCancel(context.Background())
	s.stopSweep = cancel
	s.registry.StartSweeper(sweepCtx)

	s.setupRoutes()
	return s, nil
}

// openStorage opens SQLite (always, it holds the bookings table) and, when
// configured, Redis as the key-value backend.
func (s *Server) openStorage(ctx context.Context) error {
	if path := s.config.Storage.DBPath; path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating database directory %s: %w", dir, err)
		}
	}

	db, err := sqliteRepo.New(s.config.Storage.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	s.db = db
	s.store = db

	if s.config.Storage.Driver == config.DriverRedis {
		client, err := redisKV.Connect(ctx, s.config.Storage.RedisAddr, s.config.Storage.RedisPassword, s.config.Storage.RedisDB)
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		s.redis = client
		s.store = redisKV.New(client, s.config.Storage.RedisPrefix)
	}

	return nil
}

// notifier connects to RabbitMQ when a URL is configured. It returns nil
// (no notifications) when there is none or the broker cannot be reached.
func (s *Server) notifier(ctx context.Context) service.Notifier {
	url := s.config.Bookings.RabbitMQURL
	if url == "" {
		return nil
	}

	conn, err := rabbitmq.Connect(ctx, url)
	if err != nil {
		s.logger.Warn("booking notifications disabled", slog.String("error", err.Error()))
		return nil
	}
	s.broker = conn
	return rabbitmq.NewBookingPublisher(conn, s.config.Bookings.Queue)
}

func newGenerator(ctx context.Context, cfg config.ConciergeConfig, logger *slog.Logger) (concierge.Generator, error) {
	if cfg.APIKey == "" {
		logger.Warn("API_KEY not set, the concierge will answer with its offline message")
		return nil, nil
	}

	switch cfg.Provider {
	case config.ProviderArk:
		gen, err := concierge.NewArkGenerator(ctx, concierge.ArkConfig{
			APIKey:  cfg.APIKey,
			Model:   cfg.Model,
			BaseURL: cfg.BaseURL,
			Region:  cfg.Region,
		})
		if err != nil {
			return nil, err
		}
		return gen, nil
	default:
		return concierge.NewGeminiClient(cfg.APIKey, cfg.Model, cfg.BaseURL), nil
	}
}

// setupRoutes configures all middleware and route handlers.
//
// MIDDLEWARE ORDER MATTERS:
//  1. RequestID: assigns a unique ID to each request (for tracing)
//  2. RealIP: extracts the client IP from proxy headers
//  3. Recoverer: turns panics into 500s
//  4. Logger: one log line per request
//
// The API group adds Identify (client cookie) and LoadSession (restores the
// signed-in account once per request). Catalog and health routes need
// neither.
func (s *Server) setupRoutes() {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	healthHandler := handler.NewHealthHandler(s.store, s.logger)
	catalogHandler := handler.NewCatalogHandler()
	accountHandler := handler.NewAccountHandler(s.accounts, s.config.SimulatedDelay(), s.logger)
	bookingHandler := handler.NewBookingHandler(s.bookings, s.logger)
	conciergeHandler := handler.NewConciergeHandler(s.registry, s.logger)

	s.router.Get("/healthz", healthHandler.HandleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/services", catalogHandler.HandleServices)
		r.Get("/services/{id}", catalogHandler.HandleService)
		r.Get("/packages", catalogHandler.HandlePackages)
		r.Get("/gallery", catalogHandler.HandleGallery)

		r.Group(func(r chi.Router) {
			r.Use(auth.Identify(s.tokens, s.config.Production()))
			r.Use(handler.LoadSession(s.accounts))

			r.Post("/account/register", accountHandler.HandleRegister)
			r.Post("/account/login", accountHandler.HandleLogin)
			r.Get("/account/session", accountHandler.HandleSession)
			r.Post("/account/logout", accountHandler.HandleLogout)

			r.Get("/concierge", conciergeHandler.HandleGet)
			r.Post("/concierge/messages", conciergeHandler.HandleSend)
			r.Delete("/concierge", conciergeHandler.HandleReset)

			r.Post("/bookings", bookingHandler.HandleCreate)
			r.Get("/bookings", bookingHandler.HandleList)
			r.Get("/bookings/{id}", bookingHandler.HandleGet)
		})
	})

	if info, err := os.Stat(s.config.App.StaticDir); err == nil && info.IsDir() {
		s.router.Get("/*", spaHandler(s.config.App.StaticDir))
	} else {
		s.logger.Info("static directory not found, serving the API only", slog.String("dir", s.config.App.StaticDir))
	}
}

// spaHandler serves files from dir. Paths that are not files fall back to
// index.html so the front end's client-side routes survive a reload.
func spaHandler(dir string) http.HandlerFunc {
	fileServer := http.FileServer(http.Dir(dir))
	return func(w http.ResponseWriter, r *http.Request) {
		path := filepath.Join(dir, filepath.FromSlash(filepath.Clean("/"+r.URL.Path)))
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			http.ServeFile(w, r, filepath.Join(dir, "index.html"))
			return
		}
		fileServer.ServeHTTP(w, r)
	}
}

// Handler returns the router. Tests drive it with httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server and blocks until SIGINT/SIGTERM.
//
// GRACEFUL SHUTDOWN:
//  1. Stop accepting new HTTP connections
//  2. Wait for in-flight requests to finish (30s timeout)
//  3. Close storage and broker connections
func (s *Server) Start() error {
	defer s.Close()

	srv := &http.Server{
		Addr:        s.config.HTTPAddr(),
		Handler:     s.router,
		ReadTimeout: 15 * time.Second,
		// Concierge replies can take as long as the configured timeout.
		WriteTimeout: s.config.ConciergeTimeout() + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.String("addr", srv.Addr),
			slog.String("env", s.config.App.Env),
			slog.String("storage", s.config.Storage.Driver),
			slog.Bool("concierge_connected", s.registry.Connected()),
			slog.Bool("booking_notifications", s.broker != nil),
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

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}

// Close stops the sweeper and closes every open connection. It is safe to
// call on a partially built Server.
func (s *Server) Close() error {
	if s.stopSweep != nil {
		s.stopSweep()
	}

	var errs []error
	if s.broker != nil {
		if err := s.broker.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
			errs = append(errs, fmt.Errorf("closing rabbitmq: %w", err))
		}
		s.broker = nil
	}
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing redis: %w", err))
		}
		s.redis = nil
	}
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing database: %w", err))
		}
		s.db = nil
	}
	return errors.Join(errs...)
}
