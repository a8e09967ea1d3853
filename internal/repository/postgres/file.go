package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"filedrive/internal/domain"
	"filedrive/internal/domain/models"
	"filedrive/internal/domain/repositories"
)

// PostgresFileRepository implements the FileRepository interface
type PostgresFileRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewFileRepository creates a new file repository
func NewFileRepository(config *RepositoryConfig) repositories.FileRepository {
	return &PostgresFileRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create creates a new file record
func (r *PostgresFileRepository) Create(ctx context.Context, file *models.File) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, account_id, folder_id, name, content_type, size_bytes, storage_key, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, r.tables.Files)

	_, err := r.pool.Exec(ctx, query,
		file.ID,
		file.AccountID,
		file.FolderID,
		file.Name,
		file.ContentType,
		file.SizeBytes,
		file.StorageKey,
		file.CreatedAt,
		file.UpdatedAt,
	)

	if err != nil {
		if isPgDuplicateError(err) {
			return fmt.Errorf("file '%s': %w", file.Name, domain.ErrConflict)
		}
		if isPgForeignKeyError(err) {
			return fmt.Errorf("folder %s: %w", file.FolderID, domain.ErrNotFound)
		}
		return fmt.Errorf("create file: %w", err)
	}

	return nil
}

// GetByID retrieves a file by ID
func (r *PostgresFileRepository) GetByID(ctx context.Context, id, accountID string) (*models.File, error) {
	query := fmt.Sprintf(`
		SELECT id, account_id, folder_id, name, content_type, size_bytes, storage_key, created_at, updated_at
		FROM %s
		WHERE id = $1 AND account_id = $2
	`, r.tables.Files)

	var file models.File
	err := r.pool.QueryRow(ctx, query, id, accountID).Scan(
		&file.ID,
		&file.AccountID,
		&file.FolderID,
		&file.Name,
		&file.ContentType,
		&file.SizeBytes,
		&file.StorageKey,
		&file.CreatedAt,
		&file.UpdatedAt,
	)

	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("file %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get file: %w", err)
	}

	return &file, nil
}

// Update updates a file record (rename or move)
func (r *PostgresFileRepository) Update(ctx context.Context, file *models.File) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET folder_id = $1, name = $2, updated_at = $3
		WHERE id = $4 AND account_id = $5
	`, r.tables.Files)

	result, err := r.pool.Exec(ctx, query,
		file.FolderID,
		file.Name,
		file.UpdatedAt,
		file.ID,
		file.AccountID,
	)

	if err != nil {
		if isPgForeignKeyError(err) {
			return fmt.Errorf("folder %s: %w", file.FolderID, domain.ErrNotFound)
		}
		return fmt.Errorf("update file: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("file %s: %w", file.ID, domain.ErrNotFound)
	}

	return nil
}

// Delete deletes a file row. A row that is already gone counts as success
// so cascade retries stay idempotent.
func (r *PostgresFileRepository) Delete(ctx context.Context, id, accountID string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = $1 AND account_id = $2
	`, r.tables.Files)

	if _, err := r.pool.Exec(ctx, query, id, accountID); err != nil {
		return fmt.Errorf("delete file: %w", err)
	}

	return nil
}

// ListByFolder lists files directly inside a folder
func (r *PostgresFileRepository) ListByFolder(ctx context.Context, folderID, accountID string) ([]models.File, error) {
	query := fmt.Sprintf(`
		SELECT id, account_id, folder_id, name, content_type, size_bytes, storage_key, created_at, updated_at
		FROM %s
		WHERE account_id = $1 AND folder_id = $2
		ORDER BY name ASC
	`, r.tables.Files)

	return r.queryFiles(ctx, query, accountID, folderID)
}

// ListAll retrieves all files in an account (flat list)
func (r *PostgresFileRepository) ListAll(ctx context.Context, accountID string) ([]models.File, error) {
	query := fmt.Sprintf(`
		SELECT id, account_id, folder_id, name, content_type, size_bytes, storage_key, created_at, updated_at
		FROM %s
		WHERE account_id = $1
		ORDER BY name ASC
	`, r.tables.Files)

	return r.queryFiles(ctx, query, accountID)
}

func (r *PostgresFileRepository) queryFiles(ctx context.Context, query string, args ...interface{}) ([]models.File, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	defer rows.Close()

	var files []models.File
	for rows.Next() {
		var file models.File
		err := rows.Scan(
			&file.ID,
			&file.AccountID,
			&file.FolderID,
			&file.Name,
			&file.ContentType,
			&file.SizeBytes,
			&file.StorageKey,
			&file.CreatedAt,
			&file.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		files = append(files, file)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate files: %w", err)
	}

	return files, nil
}
