// Package archive writes the .dzp container: a ZIP archive, method STORED
// (uncompressed — the payload is already-compressed JPEG), holding every
// face's DZI descriptor and tiles at a path equal to its name. The writer's
// constructor/write/finalize shape is adapted from the teacher's
// pmtiles.Writer (internal/pmtiles/writer.go), with the two-pass
// dedup-and-cluster machinery dropped: that complexity exists in the teacher
// to produce PMTiles' custom binary offset-directory layout, which a flat,
// path-addressable ZIP container has no use for.
package archive

import (
	"archive/zip"
	"fmt"
	"os"
)

// Writer streams blobs directly into a ZIP file opened at construction
// time. Unlike pmtiles.Writer it has no temp-file staging pass: ZIP's
// format lets entries be written once, in any order, as they're produced.
type Writer struct {
	outFile   *os.File
	zw        *zip.Writer
	finalized bool
	count     int
	totalSize int64
}

// NewWriter creates the output file at outputPath and prepares it to
// receive blobs.
func NewWriter(outputPath string) (*Writer, error) {
	f, err := os.Create(outputPath)
	if err != nil {
		return nil, fmt.Errorf("archive: creating %s: %w", outputPath, err)
	}
	return &Writer{outFile: f, zw: zip.NewWriter(f)}, nil
}

// WriteBlob adds one named entry, stored without compression.
func (w *Writer) WriteBlob(path string, data []byte) error {
	hdr := &zip.FileHeader{Name: path, Method: zip.Store}
	fw, err := w.zw.CreateHeader(hdr)
	if err != nil {
		return fmt.Errorf("archive: creating entry %s: %w", path, err)
	}
	n, err := fw.Write(data)
	if err != nil {
		return fmt.Errorf("archive: writing entry %s: %w", path, err)
	}
	w.count++
	w.totalSize += int64(n)
	return nil
}

// Finalize writes the ZIP central directory and closes the output file.
func (w *Writer) Finalize() error {
	if w.finalized {
		return fmt.Errorf("archive: already finalized")
	}
	w.finalized = true

	if err := w.zw.Close(); err != nil {
		w.outFile.Close()
		return fmt.Errorf("archive: closing zip writer: %w", err)
	}
	if err := w.outFile.Close(); err != nil {
		return fmt.Errorf("archive: closing output file: %w", err)
	}
	return nil
}

// Abort discards the output file without writing a valid central directory.
func (w *Writer) Abort() {
	if w.finalized {
		return
	}
	name := w.outFile.Name()
	w.outFile.Close()
	os.Remove(name)
}

// Count reports how many entries have been written so far.
func (w *Writer) Count() int { return w.count }

// TotalSize reports the sum of uncompressed entry sizes written so far.
func (w *Writer) TotalSize() int64 { return w.totalSize }
