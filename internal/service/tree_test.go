package service

import (
	"context"
	"testing"
	"time"

	"filedrive/internal/domain/models"
)

func folderRow(id, name string, parentID *string, createdAt time.Time) models.Folder {
	return models.Folder{
		ID:        id,
		AccountID: "acct-1",
		ParentID:  parentID,
		Name:      name,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func fileRow(id, name, folderID string) models.File {
	return models.File{
		ID:          id,
		AccountID:   "acct-1",
		FolderID:    folderID,
		Name:        name,
		ContentType: "text/plain",
		SizeBytes:   10,
		StorageKey:  "acct-1/" + id,
	}
}

func strPtr(s string) *string { return &s }

func TestMaterialize(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("nests folders and attaches files", func(t *testing.T) {
		folders := []models.Folder{
			folderRow("root", "root", nil, base),
			folderRow("child", "child", strPtr("root"), base.Add(time.Minute)),
			folderRow("grandchild", "grandchild", strPtr("child"), base.Add(2*time.Minute)),
		}
		files := []models.File{
			fileRow("f1", "a.txt", "root"),
			fileRow("f2", "b.txt", "child"),
		}

		tree := Materialize(folders, files)

		if len(tree.Folders) != 1 {
			t.Fatalf("expected 1 root, got %d", len(tree.Folders))
		}
		root := tree.Folders[0]
		if root.ID != "root" {
			t.Errorf("expected root folder 'root', got %q", root.ID)
		}
		if len(root.Files) != 1 || root.Files[0].ID != "f1" {
			t.Errorf("expected file f1 under root, got %+v", root.Files)
		}
		if len(root.Folders) != 1 || root.Folders[0].ID != "child" {
			t.Fatalf("expected child under root, got %+v", root.Folders)
		}
		child := root.Folders[0]
		if len(child.Files) != 1 || child.Files[0].ID != "f2" {
			t.Errorf("expected file f2 under child, got %+v", child.Files)
		}
		if len(child.Folders) != 1 || child.Folders[0].ID != "grandchild" {
			t.Errorf("expected grandchild under child, got %+v", child.Folders)
		}
	})

	t.Run("promotes folder with unresolvable parent to root", func(t *testing.T) {
		folders := []models.Folder{
			folderRow("1", "alpha", nil, base),
			folderRow("2", "beta", strPtr("1"), base.Add(time.Minute)),
			folderRow("3", "gamma", strPtr("99"), base.Add(2*time.Minute)),
		}

		tree := Materialize(folders, nil)

		if len(tree.Folders) != 2 {
			t.Fatalf("expected 2 roots, got %d", len(tree.Folders))
		}
		if tree.Folders[0].ID != "1" || tree.Folders[1].ID != "3" {
			t.Errorf("expected roots [1 3], got [%s %s]", tree.Folders[0].ID, tree.Folders[1].ID)
		}
		if len(tree.Folders[0].Folders) != 1 || tree.Folders[0].Folders[0].ID != "2" {
			t.Errorf("expected folder 2 nested under 1, got %+v", tree.Folders[0].Folders)
		}
		// The promoted node keeps its stored parent reference
		if tree.Folders[1].ParentID == nil || *tree.Folders[1].ParentID != "99" {
			t.Errorf("promoted root should keep its parent_id, got %v", tree.Folders[1].ParentID)
		}
	})

	t.Run("drops file with unresolvable folder", func(t *testing.T) {
		folders := []models.Folder{
			folderRow("1", "alpha", nil, base),
		}
		files := []models.File{
			fileRow("11", "kept.txt", "1"),
			fileRow("12", "dropped.txt", "42"),
		}

		tree := Materialize(folders, files)

		if len(tree.Folders) != 1 {
			t.Fatalf("expected 1 root, got %d", len(tree.Folders))
		}
		if len(tree.Folders[0].Files) != 1 || tree.Folders[0].Files[0].ID != "11" {
			t.Errorf("expected only file 11 to survive, got %+v", tree.Folders[0].Files)
		}
	})

	t.Run("preserves input order within sibling lists", func(t *testing.T) {
		folders := []models.Folder{
			folderRow("p", "parent", nil, base),
			folderRow("c1", "zebra", strPtr("p"), base.Add(time.Minute)),
			folderRow("c2", "apple", strPtr("p"), base.Add(2*time.Minute)),
		}

		tree := Materialize(folders, nil)

		children := tree.Folders[0].Folders
		if len(children) != 2 {
			t.Fatalf("expected 2 children, got %d", len(children))
		}
		if children[0].ID != "c1" || children[1].ID != "c2" {
			t.Errorf("expected children in input order [c1 c2], got [%s %s]", children[0].ID, children[1].ID)
		}
	})

	t.Run("empty input yields empty tree", func(t *testing.T) {
		tree := Materialize(nil, nil)

		if tree == nil {
			t.Fatal("expected non-nil tree")
		}
		if len(tree.Folders) != 0 {
			t.Errorf("expected no roots, got %d", len(tree.Folders))
		}
	})

	t.Run("never returns nil child slices", func(t *testing.T) {
		folders := []models.Folder{
			folderRow("1", "alpha", nil, base),
		}

		tree := Materialize(folders, nil)

		if tree.Folders[0].Folders == nil {
			t.Error("Folders slice should be empty, not nil")
		}
		if tree.Folders[0].Files == nil {
			t.Error("Files slice should be empty, not nil")
		}
	})
}

func TestTreeServiceGetTree(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	root := folderRow("root", "docs", nil, base)
	child := folderRow("child", "notes", strPtr("root"), base.Add(time.Minute))
	folderRepo := newFakeFolderRepo(&root, &child)
	fileRepo := newFakeFileRepo(ptr(fileRow("f1", "readme.md", "child")))

	svc := NewTreeService(folderRepo, fileRepo, testLogger())

	tree, err := svc.GetTree(context.Background(), "acct-1")
	if err != nil {
		t.Fatalf("GetTree failed: %v", err)
	}

	if len(tree.Folders) != 1 {
		t.Fatalf("expected 1 root, got %d", len(tree.Folders))
	}
	if len(tree.Folders[0].Folders) != 1 {
		t.Fatalf("expected 1 nested folder, got %d", len(tree.Folders[0].Folders))
	}
	if got := tree.Folders[0].Folders[0].Files; len(got) != 1 || got[0].Name != "readme.md" {
		t.Errorf("expected readme.md under notes, got %+v", got)
	}
}

func ptr[T any](v T) *T { return &v }
