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

	"github.com/spf13/cobra"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/auth"
	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/billing"
	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/middleware"
	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/service"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server and the background worker",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema and exit",
	RunE: func(_ *cobra.Command, _ []string) error {
		a, err := setup()
		if err != nil {
			return err
		}
		a.Close()
		slog.Info("Database is up to date", "database", a.cfg.DBPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	defer a.Close()

	if a.cfg.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := slog.Default()
	mux := http.NewServeMux()
	service.Register(mux, service.Deps{
		Store:         a.store,
		Authenticator: auth.NewPasswordAuthenticator(a.store, a.cfg.AdminEmails),
		JWT:           auth.NewJWTManager(a.cfg.JWTSecret, a.cfg.TokenTTL),
		Enforcer:      a.enforcer,
		Executor:      a.executor,
		Checkout: billing.CheckoutConfig{
			URL:        a.cfg.CheckoutURL,
			SuccessURL: a.cfg.CheckoutSuccessURL,
			CancelURL:  a.cfg.CheckoutCancelURL,
		},
		WebhookSecret: a.cfg.BillingWebhookSecret,
		PremiumPeriod: a.cfg.PremiumPeriod,
		AuthLimiter:   middleware.NewPeerLimiter(a.cfg.AuthRateLimit, a.cfg.AuthRateBurst),
		Metrics:       a.metrics,
		Location:      a.loc,
		Logger:        logger,
	})
	mux.Handle("/metrics", a.metrics.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	staticDir, err := filepath.Abs(a.cfg.StaticPath)
	if err != nil {
		return fmt.Errorf("resolve static path: %w", err)
	}
	slog.Info("Serving static files", "path", staticDir)
	mux.HandleFunc("/", staticHandler(staticDir))

	// Wrap with h2c for HTTP/2 without TLS.
	handler := h2c.NewHandler(middleware.HTTPLogging(logger, middleware.CORS(mux)), &http2.Server{})
	server := &http.Server{
		Addr:              a.cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	workerDone := a.worker.Start(ctx, a.cfg.WorkerInterval)
	// The store is closed by the deferred a.Close, so the worker must be
	// finished first.
	defer func() {
		stop()
		<-workerDone
	}()

	errc := make(chan error, 1)
	go func() {
		slog.Info("Connect server starting", "address", server.Addr, "url", fmt.Sprintf("http://localhost%s", server.Addr))
		errc <- server.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// staticHandler serves the web UI, falling back to index.html for unknown paths.
func staticHandler(staticDir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/financezz.v1.") {
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
	}
}
