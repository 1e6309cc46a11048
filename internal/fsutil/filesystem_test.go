package fsutil

import (
	"errors"
	"io"
	"io/fs"
	"path/filepath"
	"reflect"
	"testing"
)

func TestOSFileSystem_Exists(t *testing.T) {
	fsys := OSFileSystem{}

	if !fsys.Exists("filesystem.go") {
		t.Error("expected filesystem.go to exist")
	}

	if fsys.Exists("nonexistent_file_xyz.go") {
		t.Error("expected nonexistent file to not exist")
	}
}

func TestOSFileSystem_RoundTrip(t *testing.T) {
	fsys := OSFileSystem{}
	dir := filepath.Join(t.TempDir(), "out", "nested")

	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}

	path := filepath.Join(dir, "poses.json")
	w, err := fsys.Create(path)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := w.Write([]byte(`{"robotPose":[]}`)); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := fsys.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != `{"robotPose":[]}` {
		t.Errorf("unexpected content %q", data)
	}
}

func TestMemoryFileSystem_WriteAndRead(t *testing.T) {
	mfs := NewMemoryFileSystem()

	testData := []byte("hello, world")
	if err := mfs.WriteFile("/test.txt", testData, 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	// Mutating the caller's slice must not change stored content.
	testData[0] = 'H'

	data, err := mfs.ReadFile("/test.txt")
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != "hello, world" {
		t.Errorf("expected %q, got %q", "hello, world", data)
	}
}

func TestMemoryFileSystem_CreateAndWrite(t *testing.T) {
	mfs := NewMemoryFileSystem()

	w, err := mfs.Create("/created.txt")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := w.Write([]byte("created ")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if _, err := w.Write([]byte("content")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := mfs.ReadFile("/created.txt")
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != "created content" {
		t.Errorf("expected 'created content', got %q", data)
	}
}

func TestMemoryFileSystem_ReadMissing(t *testing.T) {
	mfs := NewMemoryFileSystem()

	_, err := mfs.ReadFile("/missing.json")
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected ErrNotExist, got %v", err)
	}
}

func TestMemoryFileSystem_MkdirAllAndExists(t *testing.T) {
	mfs := NewMemoryFileSystem()

	if err := mfs.MkdirAll("/out/run/plots", 0755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}

	for _, p := range []string{"/out", "/out/run", "/out/run/plots", "/out/run/plots/"} {
		if !mfs.Exists(p) {
			t.Errorf("expected %s to exist", p)
		}
	}
	if mfs.Exists("/elsewhere") {
		t.Error("expected /elsewhere to not exist")
	}
}

func TestMemoryFileSystem_Files(t *testing.T) {
	mfs := NewMemoryFileSystem()
	for _, name := range []string{"/out/b.json", "/out/a.json", "/other/c.json", "/out/sub/d.png"} {
		if err := mfs.WriteFile(name, []byte("x"), 0644); err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}
	}

	got := mfs.Files("/out")
	want := []string{"/out/a.json", "/out/b.json", "/out/sub/d.png"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Files = %v, want %v", got, want)
	}
}

func TestMemoryFileSystem_Open(t *testing.T) {
	mfs := NewMemoryFileSystem()
	if err := mfs.WriteFile("/in/data.json", []byte("abc"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	r, err := mfs.Open("/in/data.json")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if string(data) != "abc" {
		t.Errorf("got %q, want %q", data, "abc")
	}

	if _, err := mfs.Open("/in/missing.json"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected fs.ErrNotExist, got %v", err)
	}
}

func TestMemoryFileSystem_Remove(t *testing.T) {
	mfs := NewMemoryFileSystem()
	if err := mfs.WriteFile("/out/a.json", []byte("{}"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	if err := mfs.Remove("/out/a.json"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if mfs.Exists("/out/a.json") {
		t.Error("expected removed file to be gone")
	}
	if err := mfs.Remove("/out/a.json"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected fs.ErrNotExist on second remove, got %v", err)
	}
}

func TestOSFileSystem_OpenAndRemove(t *testing.T) {
	fsys := OSFileSystem{}
	path := filepath.Join(t.TempDir(), "data.json")
	if err := fsys.WriteFile(path, []byte("xyz"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	r, err := fsys.Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	data, err := io.ReadAll(r)
	r.Close()
	if err != nil || string(data) != "xyz" {
		t.Fatalf("read %q, %v", data, err)
	}

	if err := fsys.Remove(path); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if fsys.Exists(path) {
		t.Error("expected removed file to be gone")
	}
}
