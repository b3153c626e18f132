// Package main runs the scheme eligibility assistant HTTP server.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/rs/cors"
	"go.uber.org/zap"

	"scheme-assistant/internal/config"
	"scheme-assistant/internal/handlers"
	"scheme-assistant/internal/models"
	"scheme-assistant/internal/services/assistant"
	"scheme-assistant/internal/services/catalog"
	"scheme-assistant/internal/services/conversation"
	"scheme-assistant/internal/services/eligibility"
	"scheme-assistant/internal/services/session"
	"scheme-assistant/internal/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := utils.InitLogger(cfg.LogLevel, cfg.Stage); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer utils.Sync()
	logger := utils.Logger

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load the scheme catalog once; serving dialogs without it is not an
	// option.
	schemes, err := loadCatalog(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to load scheme catalog", zap.Error(err))
	}
	stats := catalog.Summarize(schemes)
	logger.Info("Scheme catalog loaded",
		zap.Int("total", stats.TotalSchemes),
		zap.Int("with_translations", stats.WithTranslations),
		zap.Int("with_age_restrictions", stats.WithAgeRestriction),
		zap.Int("with_income_restrictions", stats.WithIncomeRestriction),
		zap.Int("with_state_restrictions", stats.WithStateRestriction),
	)

	gemini := assistant.NewGeminiClient(cfg)
	if gemini.Available() {
		logger.Info("AI capabilities enabled", zap.String("model", cfg.GeminiModel))
	} else {
		logger.Warn("AI capabilities disabled: no API key configured")
	}

	engine := eligibility.NewEngine()
	controller := conversation.NewController(schemes, engine, gemini, gemini)

	store := session.NewStore(config.SessionIdleWindow)
	sweeper := session.NewSweeper(store, cfg.SweepInterval)
	if err := sweeper.Start(ctx); err != nil {
		logger.Fatal("Failed to start session sweeper", zap.Error(err))
	}

	server := handlers.NewServer(store, controller, engine, schemes, gemini.Status)

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})
	handler := c.Handler(server.Routes())

	addr := fmt.Sprintf("0.0.0.0:%s", cfg.Port)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	go func() {
		<-ctx.Done()
		logger.Info("Shutting down HTTP server")
		_ = httpServer.Shutdown(context.Background())
	}()

	logger.Info("Starting HTTP server", zap.String("addr", addr))
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("Server failed", zap.Error(err))
	}
}

// loadCatalog picks the configured catalog source. The JSON file is the
// default; Postgres is used when CATALOG_FROM_DB is set.
func loadCatalog(ctx context.Context, cfg *config.Config) ([]*models.Scheme, error) {
	if cfg.CatalogFromDB {
		db, err := catalog.NewDB(cfg)
		if err != nil {
			return nil, err
		}
		defer db.Close()
		return db.LoadSchemes(ctx)
	}
	return catalog.LoadFromFile(cfg.SchemesPath)
}
