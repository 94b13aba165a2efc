package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"car-expert-api/internal/client"
	"car-expert-api/internal/config"
	"car-expert-api/internal/database"
	"car-expert-api/internal/generator"
	"car-expert-api/internal/handler"
	"car-expert-api/internal/repository"
	"car-expert-api/internal/service"
)

func main() {
	// Structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg := config.Load()

	slog.Info("starting car-expert-api", "store", cfg.StoreDriver, "llm_provider", cfg.LLM.Provider)

	ctx := context.Background()

	// Store
	var (
		repo  repository.CarRepository
		store handler.Pinger
	)
	switch cfg.StoreDriver {
	case "memory":
		mem := repository.NewMemoryRepo()
		repo = mem
		store = mem
		slog.Info("using in-memory store; records do not survive restarts")
	default:
		slog.Info("connecting to database", "host", cfg.Database.Host, "database", cfg.Database.Name)
		db, err := database.NewPostgresPool(ctx, cfg.Database)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		if err := database.RunMigrations(ctx, db); err != nil {
			slog.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}

		repo = repository.NewPostgresRepo(db)
		store = db
		slog.Info("database connection established")
	}

	// LLM provider
	llm := newCompleter(cfg.LLM, logger)

	// Services
	carSvc := service.NewCarService(generator.New(llm, logger), repo, llm, logger)

	// Handlers
	healthHandler := handler.NewHealthHandler(store)
	carHandler := handler.NewCarHandler(carSvc)
	chatHandler := handler.NewChatHandler(carSvc)

	// Router
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))

	// CORS middleware
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	})

	// Routes
	r.Get("/health", healthHandler.Check)
	r.Post("/generate_cars", carHandler.Generate)
	r.Get("/cars", carHandler.List)
	r.Get("/car/{id}", carHandler.Get)
	r.Post("/chat", chatHandler.Ask)

	srv := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second, // generation calls can be slow
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		slog.Info("server started", "port", cfg.APIPort)
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}

	slog.Info("server stopped")
}

// newCompleter builds the configured LLM client. Groq needs at least
// one API key; Ollama works against a local instance.
func newCompleter(cfg config.LLMConfig, logger *slog.Logger) client.TextCompleter {
	switch cfg.Provider {
	case "ollama":
		return client.NewOllamaClient(cfg.OllamaURL, cfg.OllamaModel, logger)
	default:
		if len(cfg.GroqAPIKeys) == 0 {
			slog.Error("GROQ_API_KEY (or GROQ_API_KEYS) is required when LLM_PROVIDER=groq")
			os.Exit(1)
		}
		return client.NewGroqClient(cfg.GroqAPIKeys, cfg.GroqRPM, logger)
	}
}
