package main

import (
	"context"
	"flag"
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"filedrive/internal/config"
	"filedrive/internal/domain/services"
	"filedrive/internal/repository/postgres"
	"filedrive/internal/service"
)

func main() {
	// Parse command-line flags
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't seed sample folders")
	flag.Parse()

	// Load .env file
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && *dropTables {
		log.Fatalf("🚫 BLOCKED: Cannot run --drop-tables in production environment")
	}

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	if cfg.Environment == "dev" {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	}

	if *schemaOnly {
		log.Printf("🏗️  Setting up schema only (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	} else {
		log.Printf("🌱 Seeding database (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	}

	// Create database connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// Create table names
	tables := postgres.NewTableNames(cfg.TablePrefix)

	// Drop tables if requested
	if *dropTables {
		log.Println("🗑️  Dropping all tables...")
		if err := dropAllTables(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		log.Println("✅ Tables dropped")
	}

	// Run schema to ensure tables exist
	log.Println("📋 Ensuring database schema is up to date...")
	if err := runSchema(ctx, pool, tables, cfg.TablePrefix); err != nil {
		log.Fatalf("Failed to run schema: %v", err)
	}
	log.Println("✅ Schema ready")

	if *schemaOnly {
		log.Println("✅ Schema setup complete (schema-only mode)")
		return
	}

	// Create repositories and the folder service so seeding goes through
	// the same validation the API uses
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	folderRepo := postgres.NewFolderRepository(repoConfig)
	fileRepo := postgres.NewFileRepository(repoConfig)
	folderService := service.NewFolderService(folderRepo, fileRepo, logger)

	log.Println("📁 Seeding sample folder structure...")

	for _, path := range seedFolderPaths() {
		if err := createFolderPath(ctx, folderService, path); err != nil {
			log.Printf("❌ Failed to create folder path %v: %v", path, err)
			continue
		}
		log.Printf("✅ Created folders: %v", path)
	}

	log.Println("🎉 Seeding complete!")
}

// runSchema creates tables if they don't exist
func runSchema(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames, tablePrefix string) error {
	createFolders := `
		CREATE TABLE IF NOT EXISTS ` + tables.Folders + ` (
			id UUID PRIMARY KEY,
			account_id TEXT NOT NULL,
			parent_id UUID REFERENCES ` + tables.Folders + `(id),
			name TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE(account_id, parent_id, name)
		)
	`
	if _, err := pool.Exec(ctx, createFolders); err != nil {
		return err
	}

	createFiles := `
		CREATE TABLE IF NOT EXISTS ` + tables.Files + ` (
			id UUID PRIMARY KEY,
			account_id TEXT NOT NULL,
			folder_id UUID NOT NULL REFERENCES ` + tables.Folders + `(id),
			name TEXT NOT NULL,
			content_type TEXT NOT NULL,
			size_bytes BIGINT NOT NULL DEFAULT 0,
			storage_key TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE(account_id, folder_id, name)
		)
	`
	if _, err := pool.Exec(ctx, createFiles); err != nil {
		return err
	}

	// Create indexes
	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `folders_account ON ` + tables.Folders + `(account_id)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `folders_account_parent ON ` + tables.Folders + `(account_id, parent_id)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_` + tablePrefix + `folders_root_unique ON ` + tables.Folders + `(account_id, name) WHERE parent_id IS NULL`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `files_account ON ` + tables.Files + `(account_id)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `files_account_folder ON ` + tables.Files + `(account_id, folder_id)`,
	}

	for _, indexSQL := range indexes {
		if _, err := pool.Exec(ctx, indexSQL); err != nil {
			return err
		}
	}

	return nil
}

// dropAllTables drops all tables in reverse order (to respect foreign keys)
func dropAllTables(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames) error {
	tableNames := []string{
		tables.Files,
		tables.Folders,
	}

	for _, table := range tableNames {
		dropSQL := "DROP TABLE IF EXISTS " + table + " CASCADE"
		if _, err := pool.Exec(ctx, dropSQL); err != nil {
			return err
		}
		log.Printf("  ✓ Dropped %s", table)
	}

	return nil
}

// seedAccountID is the account the sample folders belong to. It matches
// the fallback account the server uses when auth is disabled.
const seedAccountID = "default"

func seedFolderPaths() [][]string {
	return [][]string{
		{"Documents"},
		{"Documents", "Reports"},
		{"Documents", "Invoices"},
		{"Photos"},
		{"Photos", "2026"},
	}
}

// createFolderPath creates each segment of a path in order, reusing
// segments that already exist
func createFolderPath(ctx context.Context, folderService services.FolderService, path []string) error {
	var parentID *string

	for _, name := range path {
		contents, err := folderService.ListContents(ctx, parentID, seedAccountID)
		if err != nil {
			return err
		}

		var existingID string
		for _, f := range contents.Folders {
			if f.Name == name {
				existingID = f.ID
				break
			}
		}

		if existingID != "" {
			parentID = &existingID
			continue
		}

		folder, err := folderService.CreateFolder(ctx, &services.CreateFolderRequest{
			AccountID: seedAccountID,
			ParentID:  parentID,
			Name:      name,
		})
		if err != nil {
			return err
		}
		parentID = &folder.ID
	}

	return nil
}
