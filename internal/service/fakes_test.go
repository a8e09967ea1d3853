package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"filedrive/internal/domain"
	"filedrive/internal/domain/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeFolderRepo is an in-memory FolderRepository
type fakeFolderRepo struct {
	folders map[string]*models.Folder

	deleteCalls []string
	deleteErr   map[string]error
	listAllErr  error
}

func newFakeFolderRepo(folders ...*models.Folder) *fakeFolderRepo {
	r := &fakeFolderRepo{
		folders:   make(map[string]*models.Folder),
		deleteErr: make(map[string]error),
	}
	for _, f := range folders {
		r.folders[f.ID] = f
	}
	return r
}

func (r *fakeFolderRepo) Create(ctx context.Context, folder *models.Folder) error {
	if _, exists := r.folders[folder.ID]; exists {
		return fmt.Errorf("folder '%s': %w", folder.Name, domain.ErrConflict)
	}
	r.folders[folder.ID] = folder
	return nil
}

func (r *fakeFolderRepo) GetByID(ctx context.Context, id, accountID string) (*models.Folder, error) {
	folder, ok := r.folders[id]
	if !ok || folder.AccountID != accountID {
		return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}
	copied := *folder
	return &copied, nil
}

func (r *fakeFolderRepo) Update(ctx context.Context, folder *models.Folder) error {
	if _, ok := r.folders[folder.ID]; !ok {
		return fmt.Errorf("folder %s: %w", folder.ID, domain.ErrNotFound)
	}
	r.folders[folder.ID] = folder
	return nil
}

func (r *fakeFolderRepo) Delete(ctx context.Context, id, accountID string) error {
	r.deleteCalls = append(r.deleteCalls, id)
	if err := r.deleteErr[id]; err != nil {
		return err
	}
	delete(r.folders, id)
	return nil
}

func (r *fakeFolderRepo) ListChildren(ctx context.Context, folderID *string, accountID string) ([]models.Folder, error) {
	var out []models.Folder
	for _, f := range r.folders {
		if f.AccountID != accountID {
			continue
		}
		if folderID == nil && f.ParentID == nil {
			out = append(out, *f)
		}
		if folderID != nil && f.ParentID != nil && *f.ParentID == *folderID {
			out = append(out, *f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeFolderRepo) ListAll(ctx context.Context, accountID string) ([]models.Folder, error) {
	if r.listAllErr != nil {
		return nil, r.listAllErr
	}
	var out []models.Folder
	for _, f := range r.folders {
		if f.AccountID == accountID {
			out = append(out, *f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// fakeFileRepo is an in-memory FileRepository
type fakeFileRepo struct {
	files map[string]*models.File

	deleteCalls []string
	deleteErr   map[string]error
	createErr   error
}

func newFakeFileRepo(files ...*models.File) *fakeFileRepo {
	r := &fakeFileRepo{
		files:     make(map[string]*models.File),
		deleteErr: make(map[string]error),
	}
	for _, f := range files {
		r.files[f.ID] = f
	}
	return r
}

func (r *fakeFileRepo) Create(ctx context.Context, file *models.File) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.files[file.ID] = file
	return nil
}

func (r *fakeFileRepo) GetByID(ctx context.Context, id, accountID string) (*models.File, error) {
	file, ok := r.files[id]
	if !ok || file.AccountID != accountID {
		return nil, fmt.Errorf("file %s: %w", id, domain.ErrNotFound)
	}
	copied := *file
	return &copied, nil
}

func (r *fakeFileRepo) Update(ctx context.Context, file *models.File) error {
	if _, ok := r.files[file.ID]; !ok {
		return fmt.Errorf("file %s: %w", file.ID, domain.ErrNotFound)
	}
	r.files[file.ID] = file
	return nil
}

func (r *fakeFileRepo) Delete(ctx context.Context, id, accountID string) error {
	r.deleteCalls = append(r.deleteCalls, id)
	if err := r.deleteErr[id]; err != nil {
		return err
	}
	delete(r.files, id)
	return nil
}

func (r *fakeFileRepo) ListByFolder(ctx context.Context, folderID, accountID string) ([]models.File, error) {
	var out []models.File
	for _, f := range r.files {
		if f.AccountID == accountID && f.FolderID == folderID {
			out = append(out, *f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeFileRepo) ListAll(ctx context.Context, accountID string) ([]models.File, error) {
	var out []models.File
	for _, f := range r.files {
		if f.AccountID == accountID {
			out = append(out, *f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// fakeBlobStore is an in-memory BlobStore with per-key error injection
type fakeBlobStore struct {
	blobs map[string][]byte

	deleteCalls []string
	deleteErr   map[string]error
	openErr     map[string]error
	writeErr    error
	readErr     map[string]error // fails mid-read after some bytes
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{
		blobs:     make(map[string][]byte),
		deleteErr: make(map[string]error),
		openErr:   make(map[string]error),
		readErr:   make(map[string]error),
	}
}

func (b *fakeBlobStore) OpenRead(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := b.openErr[key]; err != nil {
		return nil, err
	}
	data, ok := b.blobs[key]
	if !ok {
		return nil, fmt.Errorf("blob %s: %w", key, domain.ErrNotFound)
	}
	if err := b.readErr[key]; err != nil {
		// Yield half the bytes, then fail, to model a mid-stream error
		return io.NopCloser(&failingReader{data: data[:len(data)/2], err: err}), nil
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (b *fakeBlobStore) Write(ctx context.Context, key string, body io.Reader, size int64) error {
	if b.writeErr != nil {
		return b.writeErr
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	b.blobs[key] = data
	return nil
}

func (b *fakeBlobStore) Delete(ctx context.Context, key string) error {
	b.deleteCalls = append(b.deleteCalls, key)
	if err := b.deleteErr[key]; err != nil {
		return err
	}
	if _, ok := b.blobs[key]; !ok {
		return fmt.Errorf("blob %s: %w", key, domain.ErrNotFound)
	}
	delete(b.blobs, key)
	return nil
}

func (b *fakeBlobStore) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := b.blobs[key]
	return ok, nil
}

// failingReader yields its data, then an error instead of EOF
type failingReader struct {
	data []byte
	pos  int
	err  error
}

func (r *failingReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, r.err
	}
	n := copy(p, r.data[r.pos:])
	r.pos += n
	return n, nil
}
