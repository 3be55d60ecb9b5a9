package convert

import (
	"image"
	"log"
	"math"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/pspoerri/pano2dzp/internal/cube"
	"github.com/pspoerri/pano2dzp/internal/dzi"
)

// maxFaceWorkers is the number of independent jobs one panorama ever
// produces: there are always exactly six faces, so concurrency beyond that
// buys nothing.
const maxFaceWorkers = 6

// Converter turns one equirectangular panorama into six DZI pyramids, one
// per cube face, sharing a sampling-table cache across calls. It is the
// direct generalization of the teacher's tile.Generate pipeline
// (internal/tile/generator.go) from a web-map zoom pyramid driven by a
// z/x/y job queue to a per-face DZI pyramid driven by a face job queue.
type Converter struct {
	cache *cube.Cache
	cfg   Config
}

// NewConverter creates a Converter. The sampling-table cache is shared
// across every Convert call made on the returned value, so repeated calls
// at the same panorama width only pay the table-generation cost once.
func NewConverter(cfg Config) *Converter {
	return &Converter{cache: cube.NewCache(), cfg: cfg}
}

// faceJob is one unit of work: render and tile a single face.
type faceJob struct {
	face cube.Face
}

// faceResult is the outcome of rendering and tiling one face.
type faceResult struct {
	blobs map[string][]byte
	err   error
}

// Convert validates panorama, renders and tiles its six cube faces, and
// returns the combined set of output blobs (DZI descriptors and JPEG
// tiles) keyed by path within the eventual archive, plus aggregate stats.
func (c *Converter) Convert(name string, panorama image.Image) ([]TileBlob, Stats, error) {
	bounds := panorama.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if height == 0 || width != 2*height {
		return nil, Stats{}, &InvalidPanoramaDimensionsError{Width: width, Height: height}
	}

	set := c.cache.Ensure(uint32(width))
	faceSize := width / 4
	levels := pipelineLevelCount(faceSize, c.tileSize())

	jobs := make(chan faceJob, maxFaceWorkers)
	results := make(chan faceResult, maxFaceWorkers)

	workers := c.concurrency()
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				table := set.Table(job.face)
				faceImg := cube.RenderFace(panorama, faceSize, table)

				opts := dzi.Options{TileSize: c.cfg.TileSize, Overlap: c.cfg.Overlap, Levels: levels}
				blobs, err := dzi.CreateTiles(faceImg, job.face.Suffix(), opts)
				if err != nil {
					results <- faceResult{err: &faceError{Face: job.face.String(), Err: err}}
					continue
				}
				results <- faceResult{blobs: blobs}
			}
		}()
	}

	var pb *progressBar
	if c.cfg.Verbose {
		pb = newProgressBar(name, int64(len(cube.Faces)))
	}

	for _, f := range cube.Faces {
		jobs <- faceJob{face: f}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	var (
		out   []TileBlob
		stats Stats
		first error
	)
	for res := range results {
		if pb != nil {
			pb.Increment()
		}
		if res.err != nil {
			if first == nil {
				first = res.err
			}
			continue
		}
		stats.FacesRendered++
		for path, data := range res.blobs {
			out = append(out, TileBlob{Path: path, Bytes: data})
			if !strings.HasSuffix(path, ".dzi") {
				stats.TilesEncoded++
			}
			stats.TotalBytes += int64(len(data))
		}
	}
	if pb != nil {
		pb.Finish()
	}

	if first != nil {
		return nil, Stats{}, first
	}

	if c.cfg.Verbose {
		log.Printf("%s: %d faces, %d tiles, %d bytes", name, stats.FacesRendered, stats.TilesEncoded, stats.TotalBytes)
	}

	// Face completion order is scheduler-dependent and each face's blobs
	// arrive from a randomized map iteration; sort by path so the archive
	// written from out is byte-identical across runs on the same input.
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })

	return out, stats, nil
}

// CacheLen reports how many distinct panorama widths have been seen so far,
// mostly useful for tests and diagnostics.
func (c *Converter) CacheLen() int { return c.cache.Len() }

func (c *Converter) tileSize() int {
	if c.cfg.TileSize > 0 {
		return c.cfg.TileSize
	}
	return dzi.DefaultTileSize
}

func (c *Converter) concurrency() int {
	n := c.cfg.Concurrency
	if n <= 0 {
		n = runtime.NumCPU()
	}
	if n > maxFaceWorkers {
		n = maxFaceWorkers
	}
	if n < 1 {
		n = 1
	}
	return n
}

// pipelineLevelCount computes the pyramid's truncated level count:
// ceil(sqrt(faceSize/tileSize)) + 1. Unlike dzi's own generic default
// (ceil(log2(max(w,h)))+1), this stops well short of a 1x1 top level, since
// a face pyramid that bottoms out at a single tile's worth of pixels has no
// further use zoomed further out.
func pipelineLevelCount(faceSize, tileSize int) int {
	if tileSize <= 0 {
		tileSize = dzi.DefaultTileSize
	}
	ratio := float64(faceSize) / float64(tileSize)
	if ratio < 1 {
		ratio = 1
	}
	return int(math.Ceil(math.Sqrt(ratio))) + 1
}
