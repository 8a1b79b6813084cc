package main

import (
	"context"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/matthewyanek/pdf-classroom-manager/internal/config"
	"github.com/matthewyanek/pdf-classroom-manager/internal/handler"
	"github.com/matthewyanek/pdf-classroom-manager/internal/middleware"
	"github.com/matthewyanek/pdf-classroom-manager/internal/repository/postgres"
	"github.com/matthewyanek/pdf-classroom-manager/internal/service"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	var logOut io.Writer = os.Stdout
	if cfg.LogDir != "" {
		logFile, err := config.SetupLogFile(cfg.LogDir, 10)
		if err != nil {
			log.Fatalf("Failed to setup log file: %v", err)
		}
		defer logFile.Close()
		logOut = io.MultiWriter(os.Stdout, logFile)
	}

	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
		"upload_dir", cfg.UploadDir,
	)

	settings, err := config.LoadSettings(cfg.SettingsFile)
	if err != nil {
		log.Fatalf("Failed to load settings: %v", err)
	}

	// Create pgx connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected")

	tables := postgres.NewTableNames(cfg.TablePrefix)

	// Create repositories
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	pdfRepo := postgres.NewPDFRepository(repoConfig)
	folderRepo := postgres.NewFolderRepository(repoConfig)
	tagRepo := postgres.NewTagRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool)

	// Upload storage and PDF inspection
	files, err := service.NewFileStore(cfg.UploadDir)
	if err != nil {
		log.Fatalf("Failed to create file store: %v", err)
	}
	inspector := service.NewPDFInspector()

	// Create services
	pdfService := service.NewPDFService(pdfRepo, folderRepo, tagRepo, txManager, files, inspector, logger)
	folderService := service.NewFolderService(folderRepo, pdfRepo, txManager, settings, logger)
	tagService := service.NewTagService(tagRepo, pdfRepo, txManager, logger)

	// Auto-tagger is optional; without an API key the endpoint reports 503
	var tagger service.TaggerService
	if cfg.AnthropicAPIKey != "" {
		tagger, err = service.NewTaggerService(cfg, settings, pdfService, files, inspector, logger)
		if err != nil {
			log.Fatalf("Failed to setup tagger: %v", err)
		}
		logger.Info("auto-tagger enabled", "model", cfg.TaggerModel)
	} else {
		logger.Warn("ANTHROPIC_API_KEY not set; tag generation disabled")
	}

	// Create handlers
	pdfHandler := handler.NewPDFHandler(pdfService, cfg.MaxUploadSize, logger)
	folderHandler := handler.NewFolderHandler(folderService, logger)
	tagHandler := handler.NewTagHandler(tagService, tagger, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", pdfHandler.HealthCheck)

	// PDF routes
	mux.HandleFunc("GET /api/pdfs", pdfHandler.ListPDFs)
	mux.HandleFunc("POST /api/pdfs/upload", pdfHandler.UploadPDF)
	mux.HandleFunc("GET /api/pdfs/unfiled-count", pdfHandler.UnfiledCount) // Must come before {id} route
	mux.HandleFunc("POST /api/pdfs/delete", pdfHandler.DeletePDFs)
	mux.HandleFunc("POST /api/pdfs/move", pdfHandler.MovePDFs)
	mux.HandleFunc("POST /api/pdfs/batch", pdfHandler.BatchUpdate)
	mux.HandleFunc("GET /api/pdfs/{id}", pdfHandler.GetPDF)
	mux.HandleFunc("DELETE /api/pdfs/{id}", pdfHandler.DeletePDF)
	mux.HandleFunc("PUT /api/pdfs/{id}/tags", pdfHandler.UpdateTags)
	mux.HandleFunc("PUT /api/pdfs/{id}/rename", pdfHandler.RenamePDF)
	mux.HandleFunc("GET /api/pdfs/{id}/view", pdfHandler.ViewPDF)
	mux.HandleFunc("GET /api/pdfs/{id}/download", pdfHandler.DownloadPDF)

	// Folder routes
	mux.HandleFunc("GET /api/folders", folderHandler.ListFolders)
	mux.HandleFunc("POST /api/folders", folderHandler.CreateFolder)
	mux.HandleFunc("GET /api/folders/{id}", folderHandler.GetFolder)
	mux.HandleFunc("PUT /api/folders/{id}", folderHandler.UpdateFolder)
	mux.HandleFunc("DELETE /api/folders/{id}", folderHandler.DeleteFolder)

	// Tag routes
	mux.HandleFunc("GET /api/tags", tagHandler.ListTags)
	mux.HandleFunc("POST /api/tags/generate", tagHandler.GenerateTags) // Must come before {name} route
	mux.HandleFunc("GET /api/tags/{name}", tagHandler.GetTag)
	mux.HandleFunc("DELETE /api/tags/{name}", tagHandler.DeleteTag)

	// Build middleware chain; applied in reverse order (they wrap each other)
	var httpHandler http.Handler = mux
	httpHandler = middleware.RequestLogging(logger)(httpHandler)
	httpHandler = middleware.Recovery(logger)(httpHandler)

	// CORS - outermost so OPTIONS pre-flight requests short-circuit
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
	})
	httpHandler = corsHandler.Handler(httpHandler)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      httpHandler,
		ReadTimeout:  60 * time.Second, // Uploads can be slow on classroom networks
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
