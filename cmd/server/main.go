package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/billtracker/internal/auth"
	"github.com/mmynk/billtracker/internal/config"
	"github.com/mmynk/billtracker/internal/ledger"
	"github.com/mmynk/billtracker/internal/metrics"
	"github.com/mmynk/billtracker/internal/middleware"
	"github.com/mmynk/billtracker/internal/profile"
	"github.com/mmynk/billtracker/internal/reminder"
	"github.com/mmynk/billtracker/internal/service"
	"github.com/mmynk/billtracker/internal/storage"
	"github.com/mmynk/billtracker/internal/storage/postgres"
	"github.com/mmynk/billtracker/internal/storage/sqlite"
	"github.com/mmynk/billtracker/pkg/api/apiconnect"
	"github.com/mmynk/billtracker/pkg/logging"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, err := openStore(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer backend.Close()
	store := storage.NewDeduplicated(backend)

	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	authenticator := auth.NewPasswordAuthenticator(store)
	profiles := profile.New(store)
	reminders := &reminder.Reminders{
		Planner: reminder.Planner{
			Occurrences: cfg.Reminders.Occurrences,
			MorningHour: cfg.Reminders.MorningHour,
			EveningHour: cfg.Reminders.EveningHour,
			Location:    loc,
		},
		Scheduler: reminder.NewStoreScheduler(store),
	}

	// Interceptors run in order: metrics and logging see every call,
	// including the ones rejected by auth.
	opts := connect.WithInterceptors(
		middleware.MetricsInterceptor(),
		middleware.LoggingInterceptor(),
		middleware.RequireAuth(jwtManager,
			apiconnect.AuthServiceRegisterProcedure,
			apiconnect.AuthServiceLoginProcedure,
		),
	)

	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewAuthServiceHandler(
		service.NewAuthService(authenticator, jwtManager, store, profiles, slog.Default()), opts))
	mux.Handle(apiconnect.NewUserServiceHandler(service.NewUserService(profiles), opts))
	mux.Handle(apiconnect.NewCategoryServiceHandler(service.NewCategoryService(store), opts))
	mux.Handle(apiconnect.NewBillServiceHandler(
		service.NewBillService(store, ledger.New(store), reminders, profiles), opts))
	mux.Handle(apiconnect.NewReminderServiceHandler(service.NewReminderService(store, reminders), opts))

	hub := reminder.NewHub()
	defer hub.Close()
	mux.Handle("/ws", hub.Handler(middleware.WebsocketAuth(jwtManager)))

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	if cfg.Metrics.Enabled {
		reg, err := metrics.NewRegistry()
		if err != nil {
			return fmt.Errorf("failed to register metrics: %w", err)
		}
		mux.Handle("/metrics", metrics.Handler(reg))
	}

	if cfg.Server.StaticPath != "" {
		static, err := staticHandler(cfg.Server.StaticPath)
		if err != nil {
			return err
		}
		mux.Handle("/", static)
	}

	notifier := reminder.NewNotifier(store, hub, cfg.Notifier.Interval)
	go notifier.Run(ctx)

	// Wrap with h2c for HTTP/2 without TLS (required for Connect)
	handler := h2c.NewHandler(loggingMiddleware(corsMiddleware(mux)), &http2.Server{})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Connect server starting",
			"address", addr,
			"url", fmt.Sprintf("http://localhost%s", addr),
			"database", cfg.Database.Driver,
		)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func openStore(ctx context.Context, cfg config.DatabaseConfig) (storage.Store, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		store, err := postgres.New(ctx, cfg.URL)
		if err != nil {
			return nil, err
		}
		slog.Info("Storage initialized", "driver", cfg.Driver)
		return store, nil
	default:
		store, err := sqlite.New(cfg.Path)
		if err != nil {
			return nil, err
		}
		slog.Info("Storage initialized", "driver", cfg.Driver, "database", cfg.Path)
		return store, nil
	}
}

// staticHandler serves the web client. Unknown paths get index.html so the
// client can route them.
func staticHandler(staticPath string) (http.Handler, error) {
	staticDir, err := filepath.Abs(staticPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve static path: %w", err)
	}
	slog.Info("Serving static files", "path", staticDir)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/billtracker.v1.") {
			http.NotFound(w, r)
			return
		}

		urlPath := r.URL.Path
		if urlPath == "/" {
			urlPath = "/index.html"
		}

		filePath := filepath.Join(staticDir, filepath.Clean(urlPath))
		if _, err := os.Stat(filePath); os.IsNotExist(err) {
			http.ServeFile(w, r, filepath.Join(staticDir, "index.html"))
			return
		}

		http.ServeFile(w, r, filePath)
	}), nil
}

// loggingMiddleware logs all incoming HTTP requests. RPCs are additionally
// logged by the Connect interceptor.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		slog.Debug("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// corsMiddleware adds CORS headers for browser access
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, Connect-Protocol-Version, Connect-Timeout-Ms")
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
