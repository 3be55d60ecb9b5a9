package cube

import (
	"math"
	"sync"
)

// PixelMapping is one entry of a sampling table: a fractional source
// panorama coordinate and the integer destination pixel it feeds. Packed as
// two float32 plus two uint32 (16 bytes) so a table is a dense, contiguous,
// cache-friendly array rather than a map or pointer-chasing structure.
type PixelMapping struct {
	SourceX, SourceY float32
	DestX, DestY     uint32
}

// SamplingTable is the ordered list of pixel mappings for one face at one
// panorama width, in column-major order (outer x, inner y).
type SamplingTable []PixelMapping

// SamplingTableSet holds the six per-face tables generated for a single
// panorama width.
type SamplingTableSet struct {
	tables [6]SamplingTable
}

// Table returns the sampling table for the given face.
func (s *SamplingTableSet) Table(f Face) SamplingTable {
	return s.tables[f]
}

// Cache maps panorama width to the SamplingTableSet for that width. Entries
// are created once and never mutated; concurrent reads of existing entries
// are always safe. Insertion of a new entry happens under exclusive lock,
// with a second check after acquiring the write lock so two goroutines
// racing to populate the same unseen width don't do the work twice.
type Cache struct {
	mu   sync.RWMutex
	sets map[uint32]*SamplingTableSet
}

// NewCache creates an empty sampling-table cache.
func NewCache() *Cache {
	return &Cache{sets: make(map[uint32]*SamplingTableSet)}
}

// Ensure returns the SamplingTableSet for width, generating and inserting it
// on first sighting. Idempotent, thread-safe, and deterministic: concurrent
// callers racing on the same unseen width converge on one generated set.
func (c *Cache) Ensure(width uint32) *SamplingTableSet {
	c.mu.RLock()
	set, ok := c.sets[width]
	c.mu.RUnlock()
	if ok {
		return set
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if set, ok := c.sets[width]; ok {
		return set
	}

	set = generateTableSet(width)
	c.sets[width] = set
	return set
}

// Len reports the number of distinct widths currently cached.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.sets)
}

// generateTableSet builds the sampling table for every face at the given
// panorama width. Height is derived as width/2, trusting the dimension
// check the caller already performed.
func generateTableSet(width uint32) *SamplingTableSet {
	height := width / 2
	faceSize := width / 4

	set := &SamplingTableSet{}
	for _, face := range Faces {
		set.tables[face] = generateTable(width, height, faceSize, face)
	}
	return set
}

// generateTable implements the per-face sampling-table generation algorithm:
// for every destination pixel, project through the face orientation onto
// the unit sphere and back into panorama pixel space.
func generateTable(width, height, faceSize uint32, face Face) SamplingTable {
	orient := orientation(face)
	table := make(SamplingTable, 0, int(faceSize)*int(faceSize))

	fw := float64(width)
	fh := float64(height)
	fs := float64(faceSize)

	for x := uint32(0); x < faceSize; x++ {
		nx := 2.0*(float64(x)+0.5)/fs - 1.0
		for y := uint32(0); y < faceSize; y++ {
			ny := 2.0*(float64(y)+0.5)/fs - 1.0

			X, Y, Z := orient(nx, ny)

			r := math.Sqrt(X*X + Y*Y + Z*Z)
			lon := mod2Pi(math.Atan2(Y, X))
			lat := math.Acos(Z / r)

			srcX := fw*lon/(2*math.Pi) - 0.5
			srcY := fh*lat/math.Pi - 0.5

			table = append(table, PixelMapping{
				SourceX: float32(srcX),
				SourceY: float32(srcY),
				DestX:   x,
				DestY:   y,
			})
		}
	}
	return table
}

// mod2Pi reduces x to the half-open interval [0, 2π), handling the negative
// results atan2 can produce.
func mod2Pi(x float64) float64 {
	const twoPi = 2 * math.Pi
	return math.Mod(math.Mod(x, twoPi)+twoPi, twoPi)
}
