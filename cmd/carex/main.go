package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"car-expert-api/internal/client"
	"car-expert-api/internal/config"
	"car-expert-api/internal/database"
	"car-expert-api/internal/generator"
	"car-expert-api/internal/repository"
	"car-expert-api/internal/service"
)

// Version info set via ldflags at build time.
var Version = "dev"

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "carex",
		Short: "Car Expert, an LLM-generated car catalog",
		Long:  "Carex generates synthetic car records with a language model, stores them, and answers questions about the catalog.",
	}

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newChatCmd())
	cmd.AddCommand(newGenerateCmd())
	cmd.AddCommand(newListCmd())
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "carex %s\n", Version)
		},
	}
}

// buildService wires the pipeline the way cmd/server does, with a
// quieter logger so command output stays readable.
func buildService(ctx context.Context) (*service.CarService, func(), error) {
	_ = godotenv.Load()
	cfg := config.Load()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	var (
		repo    repository.CarRepository
		cleanup = func() {}
	)
	switch cfg.StoreDriver {
	case "memory":
		repo = repository.NewMemoryRepo()
	default:
		db, err := database.NewPostgresPool(ctx, cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to database: %w", err)
		}
		if err := database.RunMigrations(ctx, db); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("run migrations: %w", err)
		}
		repo = repository.NewPostgresRepo(db)
		cleanup = db.Close
	}

	llm, err := newCompleter(cfg.LLM, logger)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	svc := service.NewCarService(generator.New(llm, logger), repo, llm, logger)
	return svc, cleanup, nil
}

func newCompleter(cfg config.LLMConfig, logger *slog.Logger) (client.TextCompleter, error) {
	switch cfg.Provider {
	case "ollama":
		return client.NewOllamaClient(cfg.OllamaURL, cfg.OllamaModel, logger), nil
	default:
		if len(cfg.GroqAPIKeys) == 0 {
			return nil, fmt.Errorf("GROQ_API_KEY (or GROQ_API_KEYS) is required when LLM_PROVIDER=groq")
		}
		return client.NewGroqClient(cfg.GroqAPIKeys, cfg.GroqRPM, logger), nil
	}
}

func execute(cmd *cobra.Command) int {
	if err := cmd.Execute(); err != nil {
		return 1
	}
	return 0
}

func main() {
	os.Exit(execute(newRootCmd()))
}
