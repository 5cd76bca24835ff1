// CAT fault-code and maintenance chatbot server.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chatbotcat-dotcom/chatbot-cat/internal/api"
	"github.com/chatbotcat-dotcom/chatbot-cat/internal/config"
	"github.com/chatbotcat-dotcom/chatbot-cat/internal/dialogue"
	"github.com/chatbotcat-dotcom/chatbot-cat/internal/identity"
	"github.com/chatbotcat-dotcom/chatbot-cat/internal/lookup"
	"github.com/chatbotcat-dotcom/chatbot-cat/internal/middleware"
	"github.com/chatbotcat-dotcom/chatbot-cat/internal/report"
	"github.com/chatbotcat-dotcom/chatbot-cat/internal/session"
	"github.com/chatbotcat-dotcom/chatbot-cat/web"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting server", "port", cfg.Port, "dev", cfg.IsDevelopment(), "event_policy", cfg.EventPolicy)

	// Initialize the technical database.
	gateway, err := lookup.NewSQLite(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := gateway.Close(); closeErr != nil {
			slog.Error("Failed to close database", "error", closeErr)
		}
	}()

	if err := gateway.Ping(context.Background()); err != nil {
		slog.Error("Database health check failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database connected", "path", cfg.DBPath)

	if err := importSeedData(context.Background(), gateway, cfg); err != nil {
		slog.Error("Seed data import failed", "error", err)
		os.Exit(1)
	}

	// Initialize services.
	sessions := session.NewStore()
	reports := report.NewTextAssembler()
	engine := dialogue.New(gateway, reports, cfg.EventPolicy)

	// Initialize handlers.
	baseHandler := api.NewHandler(sessions, engine, gateway, reports)
	healthHandler := api.NewHealthHandler(gateway)
	wsHandler := api.NewWebSocketHandler(baseHandler, cfg.FrontendURL, cfg.IsDevelopment())

	// Setup router.
	r := chi.NewRouter()

	// Global middleware.
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.CORS([]string{"*"}))
	r.Use(identity.Middleware(cfg.IsDevelopment()))

	healthHandler.RegisterHealth(r)
	baseHandler.RegisterRoutes(r)
	r.Get("/ws/chat", wsHandler.ServeHTTP)

	// Serve the embedded chat page.
	r.Handle("/*", web.Handler())

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // websocket chat connections stay open
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sessions.StartTTLWorker(ctx, cfg.SessionTTL)
	slog.Info("Session TTL worker started", "session_ttl", cfg.SessionTTL)

	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	stop()

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server stopped successfully")
}

// importSeedData loads spreadsheet exports into the lookup store when
// configured.
func importSeedData(ctx context.Context, gateway *lookup.SQLiteGateway, cfg *config.Config) error {
	if cfg.FaultCodesCSV != "" {
		n, err := importCSV(ctx, cfg.FaultCodesCSV, gateway.ImportFaultCodesCSV)
		if err != nil {
			return fmt.Errorf("import fault codes from %s: %w", cfg.FaultCodesCSV, err)
		}
		slog.Info("Imported fault codes", "path", cfg.FaultCodesCSV, "rows", n)
	}
	if cfg.EventsCSV != "" {
		n, err := importCSV(ctx, cfg.EventsCSV, gateway.ImportEventsCSV)
		if err != nil {
			return fmt.Errorf("import events from %s: %w", cfg.EventsCSV, err)
		}
		slog.Info("Imported events", "path", cfg.EventsCSV, "rows", n)
	}
	return nil
}

func importCSV(ctx context.Context, path string, load func(context.Context, io.Reader) (int, error)) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			slog.Warn("Failed to close seed file", "path", path, "error", closeErr)
		}
	}()
	return load(ctx, f)
}
