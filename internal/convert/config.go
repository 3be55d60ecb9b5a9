package convert

// Config holds per-Converter conversion settings, a generalization of the
// teacher's tile.Config (internal/tile/generator.go).
type Config struct {
	// TileSize is the DZI tile edge length in pixels. 0 means dzi.DefaultTileSize.
	TileSize int
	// Overlap is the number of pixels neighboring tiles share. 0 means no overlap.
	Overlap int
	// Concurrency bounds the number of face workers running at once. 0 means
	// runtime.NumCPU(), clamped to 6 (there are never more than six
	// independent jobs per panorama, per spec.md §5).
	Concurrency int
	// Verbose enables a per-panorama progress bar (internal/convert/progress.go).
	Verbose bool
}

// Stats summarizes one Convert call.
type Stats struct {
	FacesRendered int
	TilesEncoded  int
	TotalBytes    int64
}

// TileBlob is one named byte blob produced by a conversion: either a DZI
// descriptor or a JPEG tile.
type TileBlob struct {
	Path  string
	Bytes []byte
}
