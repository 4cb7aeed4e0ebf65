package archive

import (
	"context"
	"testing"
)

func TestLocalFS_ImplementsStorage(t *testing.T) {
	var _ Storage = (*LocalFS)(nil)
	var _ Storage = (*S3Storage)(nil)
}

func TestNew_SelectsBackend(t *testing.T) {
	st, err := New(Config{Type: "localfs", Path: t.TempDir()})
	if err != nil {
		t.Fatalf("New localfs: %v", err)
	}
	if _, ok := st.(*LocalFS); !ok {
		t.Errorf("expected *LocalFS, got %T", st)
	}

	if _, err := New(Config{Type: "ftp"}); err == nil {
		t.Error("unknown backend should fail")
	}
}

func TestLocalFS_WriteRead(t *testing.T) {
	fs, err := NewLocalFS(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalFS: %v", err)
	}

	ctx := context.Background()
	data := []byte(`{"name":"gold","observations":[]}`)

	if err := fs.Write(ctx, "series/gold.json", data); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, err := fs.Read(ctx, "series/gold.json")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != string(data) {
		t.Errorf("got %q, want %q", got, data)
	}
}

func TestLocalFS_Exists(t *testing.T) {
	fs, _ := NewLocalFS(t.TempDir())
	ctx := context.Background()

	exists, _ := fs.Exists(ctx, "series/missing.json")
	if exists {
		t.Error("expected false for nonexistent file")
	}

	fs.Write(ctx, "series/gold.json", []byte("data"))
	exists, _ = fs.Exists(ctx, "series/gold.json")
	if !exists {
		t.Error("expected true for existing file")
	}
}

func TestLocalFS_List(t *testing.T) {
	fs, _ := NewLocalFS(t.TempDir())
	ctx := context.Background()

	fs.Write(ctx, "series/gold.json", []byte("a"))
	fs.Write(ctx, "series/cape.json", []byte("b"))
	fs.Write(ctx, "keys/coingecko", []byte("k"))

	paths, err := fs.List(ctx, "series")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(paths) != 2 {
		t.Errorf("List returned %v, want 2 entries", paths)
	}

	paths, err = fs.List(ctx, "nonexistent")
	if err != nil || len(paths) != 0 {
		t.Errorf("missing prefix should list empty, got %v, %v", paths, err)
	}
}

func TestLocalFS_Delete(t *testing.T) {
	fs, _ := NewLocalFS(t.TempDir())
	ctx := context.Background()

	fs.Write(ctx, "series/gold.json", []byte("a"))
	if err := fs.Delete(ctx, "series/gold.json"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	exists, _ := fs.Exists(ctx, "series/gold.json")
	if exists {
		t.Error("file should be gone")
	}
}
