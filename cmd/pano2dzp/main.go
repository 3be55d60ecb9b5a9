package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/pspoerri/pano2dzp/internal/archive"
	"github.com/pspoerri/pano2dzp/internal/convert"
	"github.com/pspoerri/pano2dzp/internal/source"
)

func main() {
	var (
		inputPath   string
		outputPath  string
		tileSize    int
		overlap     int
		concurrency int
		verbose     bool
	)

	flag.StringVar(&inputPath, "input-path", "", "Input JPEG panorama file, or a directory of them")
	flag.StringVar(&outputPath, "output-path", "", "Output .dzp file, or a directory when --input-path is a directory")
	flag.IntVar(&tileSize, "tile-size", 512, "DZI tile edge length in pixels")
	flag.IntVar(&overlap, "overlap", 0, "DZI tile overlap in pixels")
	flag.IntVar(&concurrency, "concurrency", runtime.NumCPU(), "Number of parallel face workers (capped at 6)")
	flag.BoolVar(&verbose, "verbose", false, "Verbose progress output")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: pano2dzp --input-path <panorama.jpg|dir> --output-path <out.dzp|dir> [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Convert equirectangular panoramas into cube-face Deep Zoom archives.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if inputPath == "" || outputPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	jobs, err := planJobs(inputPath, outputPath)
	if err != nil {
		log.Fatalf("Resolving input/output paths: %v", err)
	}
	if len(jobs) == 0 {
		log.Fatal("No JPEG panoramas found in the specified input")
	}

	cfg := convert.Config{
		TileSize:    tileSize,
		Overlap:     overlap,
		Concurrency: concurrency,
		Verbose:     verbose,
	}
	conv := convert.NewConverter(cfg)

	start := time.Now()
	failures := 0
	for _, j := range jobs {
		if err := convertOne(conv, j, verbose); err != nil {
			log.Printf("%s: %v", j.inputPath, err)
			failures++
			continue
		}
	}

	elapsed := time.Since(start).Round(time.Millisecond)
	fmt.Printf("Done: %d/%d panorama(s) converted in %v\n", len(jobs)-failures, len(jobs), elapsed)

	if failures > 0 {
		os.Exit(1)
	}
}

// convertJob pairs one source panorama with its destination archive path.
type convertJob struct {
	inputPath  string
	outputPath string
	name       string
}

func convertOne(conv *convert.Converter, j convertJob, verbose bool) error {
	img, err := source.DecodeFile(j.inputPath)
	if err != nil {
		return err
	}

	blobs, stats, err := conv.Convert(j.name, img)
	if err != nil {
		return fmt.Errorf("converting: %w", err)
	}

	w, err := archive.NewWriter(j.outputPath)
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}
	for _, b := range blobs {
		if err := w.WriteBlob(b.Path, b.Bytes); err != nil {
			w.Abort()
			return &convert.IOFailureError{Err: err}
		}
	}
	if err := w.Finalize(); err != nil {
		return &convert.IOFailureError{Err: err}
	}

	if verbose {
		log.Printf("%s: %d faces, %d tiles, %s -> %s",
			j.name, stats.FacesRendered, stats.TilesEncoded, humanSize(stats.TotalBytes), j.outputPath)
	}
	return nil
}

// planJobs resolves inputPath/outputPath into a list of per-panorama jobs.
// A single input file maps directly to outputPath. A directory input is
// scanned for *.jpg/*.jpeg files, each mapped to <outputPath>/<name>.dzp;
// outputPath must then be a directory (created if missing).
func planJobs(inputPath, outputPath string) ([]convertJob, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", inputPath, err)
	}

	if !info.IsDir() {
		name := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
		return []convertJob{{inputPath: inputPath, outputPath: outputPath, name: name}}, nil
	}

	if err := os.MkdirAll(outputPath, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory %s: %w", outputPath, err)
	}

	entries, err := os.ReadDir(inputPath)
	if err != nil {
		return nil, fmt.Errorf("readdir %s: %w", inputPath, err)
	}

	var jobs []convertJob
	for _, e := range entries {
		if e.IsDir() || !isJPEG(e.Name()) {
			continue
		}
		name := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		jobs = append(jobs, convertJob{
			inputPath:  filepath.Join(inputPath, e.Name()),
			outputPath: filepath.Join(outputPath, name+".dzp"),
			name:       name,
		})
	}
	return jobs, nil
}

func isJPEG(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasSuffix(lower, ".jpg") || strings.HasSuffix(lower, ".jpeg")
}

func humanSize(bytes int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)
	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.1f GB", float64(bytes)/float64(GB))
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
