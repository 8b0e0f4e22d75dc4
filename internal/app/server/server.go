package server

import (
	"context"
	"crypto/rand"
	"encoding/hex"
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

	"hrportal/internal/domain/auth"
	"hrportal/internal/domain/session"
	"hrportal/internal/platform/config"
	cryptoutil "hrportal/internal/platform/crypto"
	"hrportal/internal/platform/db"
	"hrportal/internal/platform/email"
	"hrportal/internal/platform/jobs"
	"hrportal/internal/platform/metrics"
	"hrportal/internal/requestctx"
	"hrportal/internal/transport/http/api"
	authhandler "hrportal/internal/transport/http/handlers/auth"
	dashboardhandler "hrportal/internal/transport/http/handlers/dashboard"
	"hrportal/internal/transport/http/middleware"
)

type App struct {
	Config   config.Config
	DB       *db.Pool
	Router   http.Handler
	Registry *session.Registry
	Jobs     *jobs.Service
	Metrics  *metrics.Collector
}

// New wires the application. Without DATABASE_URL sessions live in process memory.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.JWTSecret == "" {
		secret, err := randomSecret()
		if err != nil {
			return nil, err
		}
		slog.Warn("JWT_SECRET not set; tab tokens will not survive a restart")
		cfg.JWTSecret = secret
	}

	directory, err := auth.NewDirectory(seedAccounts(cfg), cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("accounts: %w", err)
	}

	app := &App{Config: cfg, Jobs: jobs.New()}
	if cfg.MetricsEnabled {
		app.Metrics = metrics.New()
	}

	var keys session.Persister = session.NewMemoryKeyStore()
	if cfg.DatabaseURL != "" {
		pool, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("db connect: %w", err)
		}
		app.DB = pool
		if cfg.RunMigrations {
			if err := db.Migrate(ctx, pool, cfg.MigrationsDir); err != nil {
				pool.Close()
				return nil, fmt.Errorf("migrations: %w", err)
			}
		}
		sealer, err := cryptoutil.New(cfg.DataEncryptionKey)
		if err != nil {
			pool.Close()
			return nil, err
		}
		if !sealer.Configured() {
			slog.Warn("DATA_ENCRYPTION_KEY not set; session keys are stored unsealed")
		}
		keys = session.NewKeyStore(pool, sealer)
	}

	deliverer := session.MailDeliverer{Mailer: email.New(cfg), From: cfg.EmailFrom, TTL: cfg.PasscodeTTL}
	authenticator := session.NewAuthenticator(auth.NewValidator(directory), deliverer, session.Options{
		PasscodeTTL: cfg.PasscodeTTL,
		MaxAttempts: cfg.PasscodeMaxAttempts,
	})
	app.Registry = session.NewRegistry(keys)

	if cfg.TabIdleTTL > 0 {
		app.Jobs.Every(jobs.JobTabSweep, cfg.TabSweepInterval, func(context.Context) (any, error) {
			dropped := app.Registry.Prune(cfg.TabIdleTTL)
			app.Metrics.TabsPruned(dropped)
			return dropped, nil
		})
	}

	app.Router = app.routes(authhandler.NewHandler(authenticator, app.Metrics, cfg.PasscodeDisclose))
	return app, nil
}

func (a *App) routes(authHandler *authhandler.Handler) http.Handler {
	cfg := a.Config
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(slog.Default(), a.Metrics))
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.IsProduction()))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if a.DB != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := a.DB.Ping(ctx); err != nil {
				http.Error(w, "db not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if a.Metrics != nil {
		router.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			snapshot := a.Metrics.Snapshot()
			snapshot["activeTabs"] = a.Registry.Len()
			api.Success(w, snapshot, requestctx.GetRequestID(r.Context()))
		})
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Tab(a.Registry, middleware.TabConfig{
			Secret: cfg.JWTSecret,
			TTL:    cfg.TabTokenTTL,
			Secure: cfg.IsProduction(),
		}))
		r.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))
		r.Use(middleware.AuthRateLimit(cfg.RateLimitPerMinute, time.Minute))

		r.Post("/auth/login", authHandler.HandleLogin)
		r.Post("/auth/verify", authHandler.HandleVerify)
		r.Post("/auth/logout", authHandler.HandleLogout)
		r.Get("/auth/session", authHandler.HandleSession)

		r.With(middleware.RequireSession(a.Metrics)).Get("/dashboard", dashboardhandler.Handle(""))
		r.With(middleware.RequireRole(auth.RoleAdmin, a.Metrics)).Get("/admin/dashboard", dashboardhandler.Handle("admin"))
		r.With(middleware.RequireRole(auth.RoleEmployee, a.Metrics)).Get("/employee/dashboard", dashboardhandler.Handle("employee"))
	})

	router.Mount("/", spaHandler{staticPath: cfg.FrontendDir, indexPath: "index.html"})
	return router
}

func (a *App) Close() {
	if a.DB != nil {
		a.DB.Close()
	}
}

// Run loads configuration, serves until SIGINT or SIGTERM, then drains.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	level := slog.LevelInfo
	if !cfg.IsProduction() {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := New(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()
	app.Jobs.Start(ctx)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		slog.Info("HR portal listening", "addr", cfg.Addr, "env", cfg.Environment, "persistence", persistenceName(app))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	slog.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}

func seedAccounts(cfg config.Config) []auth.SeedAccount {
	return []auth.SeedAccount{
		{Email: cfg.SeedAdminEmail, Password: cfg.SeedAdminPassword, Role: auth.RoleAdmin},
		{Email: cfg.SeedEmployeeEmail, Password: cfg.SeedEmployeePassword, Role: auth.RoleEmployee},
	}
}

func persistenceName(app *App) string {
	if app.DB != nil {
		return "postgres"
	}
	return "memory"
}

func randomSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

type spaHandler struct {
	staticPath string
	indexPath  string
}

func (h spaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	path := filepath.Join(h.staticPath, filepath.Clean("/"+r.URL.Path))
	_, err := os.Stat(path)
	if err == nil {
		http.FileServer(http.Dir(h.staticPath)).ServeHTTP(w, r)
		return
	}

	if os.IsNotExist(err) {
		http.ServeFile(w, r, filepath.Join(h.staticPath, h.indexPath))
		return
	}

	http.NotFound(w, r)
}
