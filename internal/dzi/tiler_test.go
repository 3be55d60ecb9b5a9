package dzi

import (
	"image"
	"image/color"
	"strings"
	"testing"
)

func solidImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestDimensionsTopLevelMatchesSource(t *testing.T) {
	w, h := dimensions(512, 512, 4, 5)
	if w != 512 || h != 512 {
		t.Errorf("dimensions at top level = %dx%d, want 512x512", w, h)
	}
}

func TestDimensionsHalveEachLevelDown(t *testing.T) {
	const levels = 5
	w, _ := dimensions(512, 512, levels-1, levels)
	if w != 512 {
		t.Fatalf("top level width = %d, want 512", w)
	}
	prev := w
	for l := levels - 2; l >= 0; l-- {
		cur, _ := dimensions(512, 512, l, levels)
		if want := (prev + 1) / 2; cur != want {
			t.Errorf("level %d width %d, want half of level %d width %d (= %d)", l, cur, l+1, prev, want)
		}
		prev = cur
	}
}

func TestTileBoundsNoOverlapCoversGrid(t *testing.T) {
	const levelW, levelH, tileSize = 600, 600, 256
	cols := ceilDiv(levelW, tileSize)
	rows := ceilDiv(levelH, tileSize)

	covered := image.Rectangle{}
	for col := 0; col < cols; col++ {
		for row := 0; row < rows; row++ {
			r := tileBounds(0, col, row, levelW, levelH, tileSize, 0)
			if r.Min.X < 0 || r.Min.Y < 0 || r.Max.X > levelW || r.Max.Y > levelH {
				t.Fatalf("tile (%d,%d) bounds %v out of level bounds", col, row, r)
			}
			if covered.Empty() {
				covered = r
			} else {
				covered = covered.Union(r)
			}
		}
	}
	if covered.Dx() != levelW || covered.Dy() != levelH {
		t.Errorf("tiles union = %v, want full %dx%d level", covered, levelW, levelH)
	}
}

func TestTileBoundsWithOverlapStaysInLevel(t *testing.T) {
	const levelW, levelH, tileSize, overlap = 600, 600, 256, 8
	cols := ceilDiv(levelW, tileSize)
	rows := ceilDiv(levelH, tileSize)
	for col := 0; col < cols; col++ {
		for row := 0; row < rows; row++ {
			r := tileBounds(0, col, row, levelW, levelH, tileSize, overlap)
			if r.Min.X < 0 || r.Min.Y < 0 || r.Max.X > levelW || r.Max.Y > levelH {
				t.Errorf("tile (%d,%d) bounds %v escapes level bounds", col, row, r)
			}
		}
	}
}

func TestCreateTilesProducesDescriptorAndTiles(t *testing.T) {
	img := solidImage(300, 300, color.RGBA{10, 20, 30, 255})
	blobs, err := CreateTiles(img, "f", Options{TileSize: 128, Overlap: 0, Levels: 3})
	if err != nil {
		t.Fatalf("CreateTiles: %v", err)
	}

	if _, ok := blobs["f.dzi"]; !ok {
		t.Error("missing f.dzi descriptor")
	}
	if !strings.Contains(string(blobs["f.dzi"]), `TileSize="128"`) {
		t.Error("descriptor does not mention tile size 128")
	}

	foundTile := false
	for path := range blobs {
		if strings.HasPrefix(path, "f_files/") {
			foundTile = true
			break
		}
	}
	if !foundTile {
		t.Error("no tiles were produced under f_files/")
	}
}

func TestCreateTilesDeterministic(t *testing.T) {
	img := solidImage(200, 200, color.RGBA{5, 5, 5, 255})
	opts := Options{TileSize: 64, Levels: 2}

	a, err := CreateTiles(img, "x", opts)
	if err != nil {
		t.Fatal(err)
	}
	b, err := CreateTiles(img, "x", opts)
	if err != nil {
		t.Fatal(err)
	}
	if len(a) != len(b) {
		t.Fatalf("blob count differs across runs: %d vs %d", len(a), len(b))
	}
	for path, data := range a {
		other, ok := b[path]
		if !ok {
			t.Fatalf("path %s missing from second run", path)
		}
		if string(data) != string(other) {
			t.Errorf("path %s: bytes differ across runs (%d vs %d bytes)", path, len(data), len(other))
		}
	}
}

func TestLevelImageOutOfRange(t *testing.T) {
	img := solidImage(64, 64, color.RGBA{1, 2, 3, 255})
	_, _, _, err := levelImage(img, 64, 64, 5, 3)
	if err == nil {
		t.Fatal("expected LevelError for out-of-range level")
	}
	if _, ok := err.(*LevelError); !ok {
		t.Errorf("error type = %T, want *LevelError", err)
	}
}
