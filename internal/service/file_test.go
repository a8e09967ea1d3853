package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"filedrive/internal/contenttype"
	"filedrive/internal/domain"
	"filedrive/internal/domain/services"
)

func testRegistry(t *testing.T) *contenttype.Registry {
	t.Helper()
	registry, err := contenttype.NewRegistry()
	if err != nil {
		t.Fatalf("failed to load content type registry: %v", err)
	}
	return registry
}

func TestUploadFile(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	setup := func() (*fakeFolderRepo, *fakeFileRepo, *fakeBlobStore) {
		folder := folderRow("docs", "docs", nil, base)
		return newFakeFolderRepo(&folder), newFakeFileRepo(), newFakeBlobStore()
	}

	t.Run("stores blob and metadata", func(t *testing.T) {
		folderRepo, fileRepo, blobs := setup()
		svc := NewFileService(fileRepo, folderRepo, blobs, testRegistry(t), 0, testLogger())

		content := "hello world"
		file, err := svc.UploadFile(context.Background(), &services.UploadFileRequest{
			AccountID: "acct-1",
			FolderID:  "docs",
			Name:      "greeting.txt",
			SizeBytes: int64(len(content)),
			Body:      strings.NewReader(content),
		})
		if err != nil {
			t.Fatalf("UploadFile failed: %v", err)
		}

		if file.ContentType != "text/plain" {
			t.Errorf("expected text/plain, got %q", file.ContentType)
		}
		if file.StorageKey != "acct-1/"+file.ID {
			t.Errorf("unexpected storage key %q", file.StorageKey)
		}
		if got := blobs.blobs[file.StorageKey]; string(got) != content {
			t.Errorf("blob content = %q, want %q", got, content)
		}
		if _, ok := fileRepo.files[file.ID]; !ok {
			t.Error("metadata row was not created")
		}
	})

	t.Run("unknown extension falls back to octet-stream", func(t *testing.T) {
		folderRepo, fileRepo, blobs := setup()
		svc := NewFileService(fileRepo, folderRepo, blobs, testRegistry(t), 0, testLogger())

		file, err := svc.UploadFile(context.Background(), &services.UploadFileRequest{
			AccountID: "acct-1",
			FolderID:  "docs",
			Name:      "blob.weird",
			SizeBytes: 1,
			Body:      strings.NewReader("x"),
		})
		if err != nil {
			t.Fatalf("UploadFile failed: %v", err)
		}
		if file.ContentType != contenttype.DefaultType {
			t.Errorf("expected %q, got %q", contenttype.DefaultType, file.ContentType)
		}
	})

	t.Run("unknown folder rejects before writing the blob", func(t *testing.T) {
		folderRepo, fileRepo, blobs := setup()
		svc := NewFileService(fileRepo, folderRepo, blobs, testRegistry(t), 0, testLogger())

		_, err := svc.UploadFile(context.Background(), &services.UploadFileRequest{
			AccountID: "acct-1",
			FolderID:  "missing",
			Name:      "a.txt",
			SizeBytes: 1,
			Body:      strings.NewReader("x"),
		})
		if !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
		if len(blobs.blobs) != 0 {
			t.Error("no blob may be written for a rejected upload")
		}
	})

	t.Run("failed metadata insert removes the blob again", func(t *testing.T) {
		folderRepo, fileRepo, blobs := setup()
		fileRepo.createErr = errors.New("unique violation")
		svc := NewFileService(fileRepo, folderRepo, blobs, testRegistry(t), 0, testLogger())

		_, err := svc.UploadFile(context.Background(), &services.UploadFileRequest{
			AccountID: "acct-1",
			FolderID:  "docs",
			Name:      "a.txt",
			SizeBytes: 1,
			Body:      strings.NewReader("x"),
		})
		if err == nil {
			t.Fatal("expected upload to fail")
		}
		if len(blobs.blobs) != 0 {
			t.Errorf("blob should be compensated away, %d left", len(blobs.blobs))
		}
	})

	t.Run("validation", func(t *testing.T) {
		tests := []struct {
			name string
			req  *services.UploadFileRequest
		}{
			{"missing name", &services.UploadFileRequest{AccountID: "acct-1", FolderID: "docs", Body: strings.NewReader("")}},
			{"missing folder", &services.UploadFileRequest{AccountID: "acct-1", Name: "a.txt", Body: strings.NewReader("")}},
			{"missing account", &services.UploadFileRequest{FolderID: "docs", Name: "a.txt", Body: strings.NewReader("")}},
			{"name with slash", &services.UploadFileRequest{AccountID: "acct-1", FolderID: "docs", Name: "a/b.txt", Body: strings.NewReader("")}},
			{"name too long", &services.UploadFileRequest{AccountID: "acct-1", FolderID: "docs", Name: strings.Repeat("x", 256) + ".txt", Body: strings.NewReader("")}},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				folderRepo, fileRepo, blobs := setup()
				svc := NewFileService(fileRepo, folderRepo, blobs, testRegistry(t), 0, testLogger())

				_, err := svc.UploadFile(context.Background(), tt.req)
				if !errors.Is(err, domain.ErrValidation) {
					t.Errorf("expected ErrValidation, got %v", err)
				}
			})
		}
	})
}

func TestUpdateFile(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	setup := func() (*fakeFolderRepo, *fakeFileRepo) {
		docs := folderRow("docs", "docs", nil, base)
		archive := folderRow("archive", "archive", nil, base.Add(time.Minute))
		file := fileRow("f1", "report.txt", "docs")
		return newFakeFolderRepo(&docs, &archive), newFakeFileRepo(&file)
	}

	t.Run("rename keeps the stored content type", func(t *testing.T) {
		folderRepo, fileRepo := setup()
		svc := NewFileService(fileRepo, folderRepo, newFakeBlobStore(), testRegistry(t), 0, testLogger())

		file, err := svc.UpdateFile(context.Background(), "f1", &services.UpdateFileRequest{
			AccountID: "acct-1",
			Name:      strPtr("report.pdf"),
		})
		if err != nil {
			t.Fatalf("UpdateFile failed: %v", err)
		}
		if file.Name != "report.pdf" {
			t.Errorf("expected renamed file, got %q", file.Name)
		}
		// The type was fixed at upload time; a rename must not re-derive it
		if file.ContentType != "text/plain" {
			t.Errorf("content type changed on rename: %q", file.ContentType)
		}
	})

	t.Run("move to another folder", func(t *testing.T) {
		folderRepo, fileRepo := setup()
		svc := NewFileService(fileRepo, folderRepo, newFakeBlobStore(), testRegistry(t), 0, testLogger())

		file, err := svc.UpdateFile(context.Background(), "f1", &services.UpdateFileRequest{
			AccountID: "acct-1",
			FolderID:  strPtr("archive"),
		})
		if err != nil {
			t.Fatalf("UpdateFile failed: %v", err)
		}
		if file.FolderID != "archive" {
			t.Errorf("expected folder 'archive', got %q", file.FolderID)
		}
	})

	t.Run("move to unknown folder", func(t *testing.T) {
		folderRepo, fileRepo := setup()
		svc := NewFileService(fileRepo, folderRepo, newFakeBlobStore(), testRegistry(t), 0, testLogger())

		_, err := svc.UpdateFile(context.Background(), "f1", &services.UpdateFileRequest{
			AccountID: "acct-1",
			FolderID:  strPtr("missing"),
		})
		if !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("no fields is a validation error", func(t *testing.T) {
		folderRepo, fileRepo := setup()
		svc := NewFileService(fileRepo, folderRepo, newFakeBlobStore(), testRegistry(t), 0, testLogger())

		_, err := svc.UpdateFile(context.Background(), "f1", &services.UpdateFileRequest{AccountID: "acct-1"})
		if !errors.Is(err, domain.ErrValidation) {
			t.Errorf("expected ErrValidation, got %v", err)
		}
	})
}

func TestDeleteFile(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	setup := func() (*fakeFolderRepo, *fakeFileRepo, *fakeBlobStore) {
		docs := folderRow("docs", "docs", nil, base)
		file := fileRow("f1", "report.txt", "docs")
		blobs := newFakeBlobStore()
		blobs.blobs["acct-1/f1"] = []byte("content")
		return newFakeFolderRepo(&docs), newFakeFileRepo(&file), blobs
	}

	t.Run("removes blob then row", func(t *testing.T) {
		folderRepo, fileRepo, blobs := setup()
		svc := NewFileService(fileRepo, folderRepo, blobs, testRegistry(t), 0, testLogger())

		if err := svc.DeleteFile(context.Background(), "f1", "acct-1"); err != nil {
			t.Fatalf("DeleteFile failed: %v", err)
		}
		if len(blobs.blobs) != 0 {
			t.Error("blob should be gone")
		}
		if len(fileRepo.files) != 0 {
			t.Error("row should be gone")
		}
	})

	t.Run("missing blob does not block row deletion", func(t *testing.T) {
		folderRepo, fileRepo, blobs := setup()
		delete(blobs.blobs, "acct-1/f1")
		svc := NewFileService(fileRepo, folderRepo, blobs, testRegistry(t), 0, testLogger())

		if err := svc.DeleteFile(context.Background(), "f1", "acct-1"); err != nil {
			t.Fatalf("DeleteFile failed: %v", err)
		}
		if len(fileRepo.files) != 0 {
			t.Error("row should be gone even without its blob")
		}
	})

	t.Run("blob failure leaves the row intact", func(t *testing.T) {
		folderRepo, fileRepo, blobs := setup()
		blobs.deleteErr["acct-1/f1"] = errors.New("storage unavailable")
		svc := NewFileService(fileRepo, folderRepo, blobs, testRegistry(t), 0, testLogger())

		if err := svc.DeleteFile(context.Background(), "f1", "acct-1"); err == nil {
			t.Fatal("expected delete to fail")
		}
		if _, ok := fileRepo.files["f1"]; !ok {
			t.Error("row must survive when the blob could not be removed")
		}
	})

	t.Run("unknown file", func(t *testing.T) {
		folderRepo, fileRepo, blobs := setup()
		svc := NewFileService(fileRepo, folderRepo, blobs, testRegistry(t), 0, testLogger())

		err := svc.DeleteFile(context.Background(), "missing", "acct-1")
		if !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestOpenContent(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	docs := folderRow("docs", "docs", nil, base)
	file := fileRow("f1", "report.txt", "docs")
	blobs := newFakeBlobStore()
	blobs.blobs["acct-1/f1"] = []byte("report body")

	svc := NewFileService(newFakeFileRepo(&file), newFakeFolderRepo(&docs), blobs, testRegistry(t), 0, testLogger())

	t.Run("streams the stored bytes", func(t *testing.T) {
		meta, reader, err := svc.OpenContent(context.Background(), "f1", "acct-1")
		if err != nil {
			t.Fatalf("OpenContent failed: %v", err)
		}
		defer reader.Close()

		if meta.Name != "report.txt" {
			t.Errorf("expected metadata for report.txt, got %q", meta.Name)
		}
		data, err := io.ReadAll(reader)
		if err != nil {
			t.Fatalf("read content: %v", err)
		}
		if !bytes.Equal(data, []byte("report body")) {
			t.Errorf("content = %q, want %q", data, "report body")
		}
	})

	t.Run("unknown file", func(t *testing.T) {
		_, _, err := svc.OpenContent(context.Background(), "missing", "acct-1")
		if !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}
