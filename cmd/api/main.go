package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"github.com/lucaprotelli/bastian-project/backend/internal/config"
	"github.com/lucaprotelli/bastian-project/backend/internal/handler"
	"github.com/lucaprotelli/bastian-project/backend/internal/logging"
	"github.com/lucaprotelli/bastian-project/backend/internal/model/persona"
	"github.com/lucaprotelli/bastian-project/backend/internal/service/ai"
	"github.com/lucaprotelli/bastian-project/backend/internal/service/chat"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load configuration", "err", err)
	}

	logger, err := logging.New(os.Stderr, cfg.LogLevel)
	if err != nil {
		log.Fatal("failed to build logger", "err", err)
	}
	log.SetDefault(logger)

	if envErr != nil {
		logger.Warn("no .env file loaded, continuing with system environment variables only", "err", envErr)
	}

	personas, err := loadPersonas(cfg.Personas)
	if err != nil {
		logger.Fatal("failed to load personas", "err", err)
	}
	logger.Info("personas loaded", "count", len(personas.List()), "default", personas.DefaultID())

	sessions := chat.NewStore(cfg.Memory.MaxTurns)

	completer, err := newCompleter(ctx, cfg.AI)
	if err != nil {
		completer = nil
		logger.Warn("completion provider unavailable, chat requests will fail until configured",
			"provider", cfg.AI.Provider, "err", err)
	} else if completer == nil {
		logger.Warn("completion provider credential missing, chat requests will fail until configured",
			"provider", cfg.AI.Provider, "reason", cfg.AI.MissingReason())
	} else {
		logger.Info("completion provider ready", "provider", completer.Name())
	}

	aiService := ai.NewService(ai.Options{
		Personas:          personas,
		Memory:            sessions,
		Completer:         completer,
		Assembler:         ai.NewAssembler(cfg.AI.HistoryWindow, cfg.AI.MaxTokens),
		Logger:            logger.WithPrefix("ai"),
		UnavailableReason: cfg.AI.MissingReason(),
	})

	router := handler.NewRouter(personas, sessions, aiService, logger)

	startServer(ctx, logger, cfg.Server, router)
}

func loadPersonas(cfg config.PersonaConfig) (*persona.MemoryStore, error) {
	if cfg.File != "" {
		return persona.LoadFile(cfg.File, cfg.DefaultID)
	}
	return persona.NewMemoryStore(persona.Seed(), cfg.DefaultID)
}

// newCompleter returns a nil Completer, without error, when the credential is absent.
func newCompleter(ctx context.Context, cfg config.AIConfig) (ai.Completer, error) {
	if !cfg.Enabled() {
		return nil, nil
	}

	switch cfg.Provider {
	case config.ProviderArk:
		chatModel, err := cfg.Ark.NewChatModel(ctx)
		if err != nil {
			return nil, err
		}
		completer, err := ai.NewChatModelCompleter(ctx, config.ProviderArk, chatModel)
		if err != nil {
			return nil, err
		}
		return completer, nil
	default:
		return ai.NewMistralCompleter(cfg.Mistral.APIKey, cfg.Mistral.BaseURL, cfg.Mistral.Model), nil
	}
}

func startServer(ctx context.Context, logger *log.Logger, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	logger.Info("Bastian Contrario backend listening", "addr", addr)
	if err := runServer(ctx, srv); err != nil {
		logger.Fatal("server error", "err", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
