package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/spf13/cobra"

	"github.com/backdrop-studio/backend/cmd/backend/handlers"
	"github.com/backdrop-studio/backend/database"
	"github.com/backdrop-studio/backend/gemini"
	"github.com/backdrop-studio/backend/image"
	"github.com/backdrop-studio/backend/logger"
	"github.com/backdrop-studio/backend/project"
	"github.com/backdrop-studio/backend/session"
)

var configFile string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServer,
}

func init() {
	serveCmd.Flags().StringVarP(&configFile, "config", "c", "", "config file path")
	rootCmd.AddCommand(serveCmd)
}

func runServer(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := LoadConfig(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.NewLogrusLogger(cfg.Log.Level)
	log.Info(ctx, "starting server", map[string]interface{}{
		"version": Version,
		"commit":  Commit,
		"date":    BuildDate,
	})

	// Connect to database
	dbCfg := database.Config{
		Host:         cfg.Database.Host,
		Port:         cfg.Database.Port,
		User:         cfg.Database.User,
		Password:     cfg.Database.Password,
		Database:     cfg.Database.Database,
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
	}

	db, err := database.Connect(dbCfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	defer sqlDB.Close()

	log.Info(ctx, "database connected", map[string]interface{}{
		"host":     cfg.Database.Host,
		"port":     cfg.Database.Port,
		"database": cfg.Database.Database,
	})

	// Initialize stores
	projectStore := project.NewMySQLStore(db, log)
	imageStore := image.NewMySQLStore(db, projectStore, log)

	// Initialize the session token verifier. Tokens are minted by the
	// external identity provider with the same shared secret.
	verifier, err := session.NewVerifier([]byte(cfg.Session.Secret), cfg.Session.Duration)
	if err != nil {
		return fmt.Errorf("failed to initialize session verifier: %w", err)
	}

	// Initialize the model client. A missing API key fails startup rather
	// than every edit request.
	editor, err := gemini.NewClient(gemini.Config{
		APIKey:                  cfg.Gemini.APIKey,
		BaseURL:                 cfg.Gemini.BaseURL,
		ImageModel:              cfg.Gemini.ImageModel,
		TextModel:               cfg.Gemini.TextModel,
		Timeout:                 cfg.Gemini.Timeout,
		MaxConcurrentVariations: cfg.Gemini.MaxConcurrentVariations,
	}, log)
	if err != nil {
		return fmt.Errorf("failed to initialize gemini client: %w", err)
	}

	// Setup router
	router := mux.NewRouter()

	// Health check endpoint (public)
	router.HandleFunc("/health", handlers.HealthHandler).Methods("GET")

	projectHandler := handlers.NewProjectHandler(projectStore, log)
	imageHandler := handlers.NewImageHandler(imageStore, log)
	editHandler := handlers.NewEditHandler(editor, imageStore, log)
	authMiddleware := handlers.NewAuthMiddleware(verifier, cfg.Session.CookieName, log)

	apiRouter := router.PathPrefix("/api/v1").Subrouter()
	apiRouter.Use(authMiddleware.Handler)

	apiRouter.HandleFunc("/projects", projectHandler.Create).Methods("POST")
	apiRouter.HandleFunc("/projects", projectHandler.List).Methods("GET")
	apiRouter.HandleFunc("/projects/{id}", projectHandler.GetByID).Methods("GET")
	apiRouter.HandleFunc("/projects/{id}", projectHandler.Update).Methods("PUT")
	apiRouter.HandleFunc("/projects/{id}", projectHandler.Delete).Methods("DELETE")

	apiRouter.HandleFunc("/projects/{id}/images", imageHandler.Save).Methods("POST")
	apiRouter.HandleFunc("/projects/{id}/images", imageHandler.ListByProject).Methods("GET")
	apiRouter.HandleFunc("/projects/{id}/images/edit", editHandler.EditAndSave).Methods("POST")
	apiRouter.HandleFunc("/images", imageHandler.ListAll).Methods("GET")
	apiRouter.HandleFunc("/images/{id}", imageHandler.GetByID).Methods("GET")
	apiRouter.HandleFunc("/images/{id}", imageHandler.Delete).Methods("DELETE")

	apiRouter.HandleFunc("/edits", editHandler.Edit).Methods("POST")
	apiRouter.HandleFunc("/edits/analyze", editHandler.Analyze).Methods("POST")
	apiRouter.HandleFunc("/edits/variations", editHandler.Variations).Methods("POST")

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in a goroutine
	go func() {
		log.Info(ctx, "server listening", map[string]interface{}{
			"address": addr,
		})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error(ctx, "server error", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info(ctx, "shutting down server", nil)

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info(ctx, "server stopped", nil)
	return nil
}
