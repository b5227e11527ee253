package embedded

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
)

func TestIsInitialized(t *testing.T) {
	Reset()
	if IsInitialized() {
		t.Error("Expected IsInitialized() to return false before Init()")
	}

	Init(fstest.MapFS{})
	defer Reset()
	if !IsInitialized() {
		t.Error("Expected IsInitialized() to return true after Init()")
	}
}

func TestReadFileEmbedded(t *testing.T) {
	Init(fstest.MapFS{
		"data/trajectory_presets.yaml": &fstest.MapFile{Data: []byte("version: \"1\"\n")},
	})
	defer Reset()

	data, err := ReadFile("./data/trajectory_presets.yaml")
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != "version: \"1\"\n" {
		t.Errorf("unexpected content %q", data)
	}
	if !Exists("data/trajectory_presets.yaml") {
		t.Error("Exists should report embedded file")
	}
}

func TestReadFileFallsBackToDisk(t *testing.T) {
	Init(fstest.MapFS{})
	defer Reset()

	path := filepath.Join(t.TempDir(), "presets.yaml")
	if err := os.WriteFile(path, []byte("presets: {}\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	data, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile from disk failed: %v", err)
	}
	if string(data) != "presets: {}\n" {
		t.Errorf("unexpected content %q", data)
	}
}

func TestReadFileMissing(t *testing.T) {
	Reset()
	_, err := ReadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected fs.ErrNotExist, got %v", err)
	}
}

func TestGlob(t *testing.T) {
	Init(fstest.MapFS{
		"data/a.yaml": &fstest.MapFile{},
		"data/b.yaml": &fstest.MapFile{},
		"data/c.txt":  &fstest.MapFile{},
	})
	defer Reset()

	matches, err := Glob("data/*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 2 {
		t.Errorf("Glob matched %v, want 2 yaml files", matches)
	}
}
