package fs

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestWalk_FiltersByExtension(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.pdf"))
	writeFile(t, filepath.Join(root, "sub", "b.pdf"))
	writeFile(t, filepath.Join(root, "c.txt"))
	writeFile(t, filepath.Join(root, "ignore.png"))

	w := NewWalker([]string{"**/*.pdf"}, nil)
	files, err := w.Walk(root)
	if err != nil {
		t.Fatal(err)
	}

	if len(files) != 2 {
		t.Fatalf("expected 2 pdf files, got %d", len(files))
	}
	for _, f := range files {
		if filepath.Ext(f.Path) != ".pdf" {
			t.Errorf("unexpected file: %s", f.Path)
		}
	}
}

func TestWalk_Excludes(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "keep.pdf"))
	writeFile(t, filepath.Join(root, ".docsearch", "index.db"))
	writeFile(t, filepath.Join(root, "archive", "old.pdf"))

	w := NewWalker([]string{"**/*"}, []string{"**/.docsearch/**", "archive/**"})
	files, err := w.Walk(root)
	if err != nil {
		t.Fatal(err)
	}

	if len(files) != 1 {
		t.Fatalf("expected 1 file after excludes, got %d: %v", len(files), files)
	}
	if filepath.Base(files[0].Path) != "keep.pdf" {
		t.Errorf("expected keep.pdf, got %s", files[0].Path)
	}
}

func TestWalk_StableOrder(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "z.pdf"))
	writeFile(t, filepath.Join(root, "a.pdf"))
	writeFile(t, filepath.Join(root, "m.pdf"))

	w := NewWalker([]string{"**/*.pdf"}, nil)
	files, err := w.Walk(root)
	if err != nil {
		t.Fatal(err)
	}

	for i := 1; i < len(files); i++ {
		if files[i-1].Path >= files[i].Path {
			t.Errorf("files not in stable path order: %s before %s", files[i-1].Path, files[i].Path)
		}
	}
}
