package store

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/dnswlt/egeria/internal/gitclient"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/google/go-cmp/cmp"
)

// createTestRepo initializes a git repo in a temp dir with the given files
// at tag v1.0.0 and returns the path to that directory.
func createTestRepo(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("Failed to init git repo: %v", err)
	}
	w, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Failed to get worktree: %v", err)
	}
	for name, content := range files {
		full := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
			t.Fatalf("Failed to create dir: %v", err)
		}
		if err := os.WriteFile(full, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}
	if _, err := w.Add("."); err != nil {
		t.Fatalf("Failed to add files: %v", err)
	}
	h, err := w.Commit("Initial commit", &git.CommitOptions{
		Author: &object.Signature{Name: "Test", Email: "test@example.com", When: time.Now()},
	})
	if err != nil {
		t.Fatalf("Failed to commit: %v", err)
	}
	if _, err := repo.CreateTag("v1.0.0", h, nil); err != nil {
		t.Fatalf("Failed to create tag: %v", err)
	}
	return dir
}

func TestGitSource(t *testing.T) {
	repoPath := createTestRepo(t, map[string]string{
		"config.yml":               "name: cocoMDS1\n",
		"metadata/archives/a.yml":  "name: a\n",
		"metadata/archives/b.yaml": "name: b\n",
		"metadata/README.md":       "docs",
	})
	client, err := gitclient.New(repoPath, nil)
	if err != nil {
		t.Fatalf("gitclient.New failed: %v", err)
	}
	gs := NewGitSource(client, "master", "")

	t.Run("DefaultRef", func(t *testing.T) {
		if got := gs.DefaultRef(); got != "master" {
			t.Errorf("DefaultRef() = %q, want %q", got, "master")
		}
	})

	t.Run("ListReferences", func(t *testing.T) {
		refs, err := gs.ListReferences()
		if err != nil {
			t.Fatalf("ListReferences() failed: %v", err)
		}
		if diff := cmp.Diff([]string{"master", "v1.0.0"}, refs); diff != "" {
			t.Errorf("ListReferences() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("Store_InvalidRef", func(t *testing.T) {
		if _, err := gs.Store("non-existent"); !errors.Is(err, ErrNoSuchRef) {
			t.Errorf("Store(\"non-existent\") error = %v, want ErrNoSuchRef", err)
		}
	})

	t.Run("ReadYAML", func(t *testing.T) {
		st, err := gs.Store("v1.0.0")
		if err != nil {
			t.Fatalf("Store(\"v1.0.0\") failed: %v", err)
		}
		var doc testDoc
		if err := ReadYAML(st, "config.yml", &doc); err != nil {
			t.Fatalf("ReadYAML failed: %v", err)
		}
		if doc.Name != "cocoMDS1" {
			t.Errorf("Name = %q, want %q", doc.Name, "cocoMDS1")
		}
	})

	t.Run("YAMLFiles", func(t *testing.T) {
		st, err := gs.Store("")
		if err != nil {
			t.Fatalf("Store(\"\") failed: %v", err)
		}
		files, err := YAMLFiles(st, "metadata")
		if err != nil {
			t.Fatalf("YAMLFiles failed: %v", err)
		}
		want := []string{"metadata/archives/a.yml", "metadata/archives/b.yaml"}
		if diff := cmp.Diff(want, files); diff != "" {
			t.Errorf("YAMLFiles mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("WriteFile", func(t *testing.T) {
		st, err := gs.Store("master")
		if err != nil {
			t.Fatalf("Store(\"master\") failed: %v", err)
		}
		if err := st.WriteFile("any.yml", []byte("foo")); !errors.Is(err, ErrReadOnly) {
			t.Errorf("WriteFile() error = %v, want ErrReadOnly", err)
		}
	})
}

func TestGitSource_WithRootDir(t *testing.T) {
	repoPath := createTestRepo(t, map[string]string{
		"config.yml":              "name: outside\n",
		"metadata/config.yml":     "name: inside\n",
		"metadata/archives/a.yml": "name: a\n",
	})
	client, err := gitclient.New(repoPath, nil)
	if err != nil {
		t.Fatalf("gitclient.New failed: %v", err)
	}
	st, err := NewGitSource(client, "master", "metadata").Store("")
	if err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	content, err := st.ReadFile("config.yml")
	if err != nil {
		t.Fatalf("ReadFile(config.yml) failed: %v", err)
	}
	if string(content) != "name: inside\n" {
		t.Errorf("ReadFile(config.yml) = %q, want the file under the root dir", content)
	}

	files, err := st.ListFiles(".")
	if err != nil {
		t.Fatalf("ListFiles(.) failed: %v", err)
	}
	slices.Sort(files)
	if diff := cmp.Diff([]string{"archives/a.yml", "config.yml"}, files); diff != "" {
		t.Errorf("ListFiles(.) mismatch (-want +got):\n%s", diff)
	}
}

func TestDiskAndGitStoresAgree(t *testing.T) {
	files := map[string]string{"archives/a.yml": "name: a\nversion: 1.2.0\n"}
	diskDir := t.TempDir()
	ds := NewDiskStore(diskDir)
	for name, content := range files {
		if err := ds.WriteFile(name, []byte(content)); err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}
	}
	client, err := gitclient.New(createTestRepo(t, files), nil)
	if err != nil {
		t.Fatalf("gitclient.New failed: %v", err)
	}
	gst, err := NewGitSource(client, "master", "").Store("")
	if err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	var fromDisk, fromGit testDoc
	if err := ReadYAML(ds, "archives/a.yml", &fromDisk); err != nil {
		t.Fatalf("disk ReadYAML failed: %v", err)
	}
	if err := ReadYAML(gst, "archives/a.yml", &fromGit); err != nil {
		t.Fatalf("git ReadYAML failed: %v", err)
	}
	if diff := cmp.Diff(fromDisk, fromGit); diff != "" {
		t.Errorf("documents mismatch (-disk +git):\n%s", diff)
	}
}
