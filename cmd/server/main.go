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

	"filedrive/internal/auth"
	"filedrive/internal/config"
	"filedrive/internal/contenttype"
	"filedrive/internal/handler"
	"filedrive/internal/middleware"
	"filedrive/internal/repository/postgres"
	"filedrive/internal/service"
	s3store "filedrive/internal/storage/s3"
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

	var logOutput io.Writer = os.Stdout
	if cfg.LogDir != "" {
		logFile, err := config.SetupLogFile(cfg.LogDir, 10)
		if err != nil {
			log.Fatalf("Failed to setup log file: %v", err)
		}
		defer logFile.Close()
		logOutput = io.MultiWriter(os.Stdout, logFile)
	}

	logger := slog.New(slog.NewJSONHandler(logOutput, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	ctx := context.Background()

	// Create pgx connection pool
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected")

	// Create blob store
	blobs, err := s3store.NewBlobStore(ctx, s3store.Config{
		Bucket:          cfg.S3Bucket,
		Region:          cfg.S3Region,
		Endpoint:        cfg.S3Endpoint,
		KeyPrefix:       cfg.S3KeyPrefix,
		AccessKeyID:     cfg.S3AccessKeyID,
		SecretAccessKey: cfg.S3SecretAccessKey,
	}, logger)
	if err != nil {
		log.Fatalf("Failed to create blob store: %v", err)
	}

	// Optional bearer-token auth
	var verifier auth.TokenVerifier
	if cfg.JWKSURL != "" {
		verifier, err = auth.NewVerifier(cfg.JWKSURL, logger)
		if err != nil {
			log.Fatalf("Failed to create token verifier: %v", err)
		}
		defer verifier.Close()
	} else {
		logger.Warn("auth disabled: no JWKS_URL configured")
	}

	// Content type registry (extension -> MIME, consulted at upload time)
	typeRegistry, err := contenttype.NewRegistry()
	if err != nil {
		log.Fatalf("Failed to load content type registry: %v", err)
	}

	// Create repositories
	tables := postgres.NewTableNames(cfg.TablePrefix)
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	folderRepo := postgres.NewFolderRepository(repoConfig)
	fileRepo := postgres.NewFileRepository(repoConfig)

	// Create services
	folderService := service.NewFolderService(folderRepo, fileRepo, logger)
	fileService := service.NewFileService(fileRepo, folderRepo, blobs, typeRegistry, cfg.BlobOpTimeout, logger)
	treeService := service.NewTreeService(folderRepo, fileRepo, logger)
	cascadeDeleter := service.NewCascadeDeleter(folderRepo, fileRepo, blobs, cfg.BlobOpTimeout, logger)
	archiveService := service.NewArchiveService(folderRepo, fileRepo, blobs, cfg.BlobOpTimeout, logger)

	// Create handlers
	healthHandler := handler.NewHealthHandler(pool, logger)
	folderHandler := handler.NewFolderHandler(folderService, cascadeDeleter, logger)
	fileHandler := handler.NewFileHandler(fileService, logger)
	treeHandler := handler.NewTreeHandler(treeService, logger)
	archiveHandler := handler.NewArchiveHandler(archiveService, folderService, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", healthHandler.Check)

	// Tree endpoint
	mux.HandleFunc("GET /api/tree", treeHandler.GetTree)

	// Folder routes
	mux.HandleFunc("GET /api/folders", folderHandler.ListRoot)
	mux.HandleFunc("POST /api/folders", folderHandler.CreateFolder)
	mux.HandleFunc("GET /api/folders/{id}", folderHandler.GetFolder)
	mux.HandleFunc("PATCH /api/folders/{id}", folderHandler.UpdateFolder)
	mux.HandleFunc("DELETE /api/folders/{id}", folderHandler.DeleteFolder)
	mux.HandleFunc("GET /api/folders/{id}/archive", archiveHandler.DownloadArchive)

	// File routes
	mux.HandleFunc("POST /api/files", fileHandler.UploadFile)
	mux.HandleFunc("GET /api/files/{id}", fileHandler.GetFile)
	mux.HandleFunc("GET /api/files/{id}/content", fileHandler.DownloadFile)
	mux.HandleFunc("PATCH /api/files/{id}", fileHandler.UpdateFile)
	mux.HandleFunc("DELETE /api/files/{id}", fileHandler.DeleteFile)

	// Build middleware chain (applied in reverse order, they wrap each other)
	var httpHandler http.Handler = mux
	httpHandler = middleware.Auth(verifier)(httpHandler)
	httpHandler = middleware.Recovery(logger)(httpHandler)

	// CORS - must be outermost to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Account-ID"},
		AllowCredentials: true,
	})
	httpHandler = corsHandler.Handler(httpHandler)

	server := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     httpHandler,
		ReadTimeout: 15 * time.Second,
		// WriteTimeout stays disabled so large archive downloads are not
		// cut off by the server itself
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
