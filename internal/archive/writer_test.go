package archive

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"
)

func TestWriterRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.dzp")

	w, err := NewWriter(path)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}

	entries := map[string][]byte{
		"f.dzi":            []byte("<Image/>"),
		"f_files/0/0_0.jpg": []byte{0xff, 0xd8, 0xff, 0xd9},
	}
	for name, data := range entries {
		if err := w.WriteBlob(name, data); err != nil {
			t.Fatalf("WriteBlob(%s): %v", name, err)
		}
	}
	if err := w.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	if w.Count() != len(entries) {
		t.Errorf("Count() = %d, want %d", w.Count(), len(entries))
	}

	zr, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("opening written archive: %v", err)
	}
	defer zr.Close()

	got := make(map[string][]byte, len(zr.File))
	for _, f := range zr.File {
		if f.Method != zip.Store {
			t.Errorf("entry %s uses method %d, want Store", f.Name, f.Method)
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("opening entry %s: %v", f.Name, err)
		}
		buf := make([]byte, f.UncompressedSize64)
		if _, err := rc.Read(buf); err != nil && len(buf) > 0 {
			t.Fatalf("reading entry %s: %v", f.Name, err)
		}
		rc.Close()
		got[f.Name] = buf
	}

	for name, want := range entries {
		data, ok := got[name]
		if !ok {
			t.Errorf("missing entry %s in archive", name)
			continue
		}
		if string(data) != string(want) {
			t.Errorf("entry %s = %v, want %v", name, data, want)
		}
	}
}

func TestWriterAbortRemovesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "aborted.dzp")

	w, err := NewWriter(path)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	if err := w.WriteBlob("x.dzi", []byte("data")); err != nil {
		t.Fatal(err)
	}
	w.Abort()

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("expected file to be removed after Abort, stat err = %v", err)
	}
}

func TestWriterFinalizeTwiceErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "double.dzp")

	w, err := NewWriter(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Finalize(); err != nil {
		t.Fatalf("first Finalize: %v", err)
	}
	if err := w.Finalize(); err == nil {
		t.Error("expected error on second Finalize call")
	}
}
