// Package cube implements the equirectangular-to-cube-face resampler: the
// six face orientations, the per-resolution sampling-coordinate table cache,
// and the bilinear face renderer.
package cube

// Face identifies one of the six faces of the enclosing cube.
type Face int

const (
	Front Face = iota
	Back
	Left
	Right
	Down
	Up
)

// Faces lists all six faces in the order tables and tiles are generated.
var Faces = [6]Face{Front, Back, Left, Right, Down, Up}

// Suffix returns the one-character path suffix used for output paths.
func (f Face) Suffix() string {
	switch f {
	case Front:
		return "f"
	case Back:
		return "b"
	case Left:
		return "l"
	case Right:
		return "r"
	case Down:
		return "d"
	case Up:
		return "u"
	default:
		return "?"
	}
}

func (f Face) String() string {
	switch f {
	case Front:
		return "front"
	case Back:
		return "back"
	case Left:
		return "left"
	case Right:
		return "right"
	case Down:
		return "down"
	case Up:
		return "up"
	default:
		return "unknown"
	}
}

// orientationFunc maps face-plane coordinates (x, y ∈ [-1, 1]) to a 3-D
// direction on the unit cube.
type orientationFunc func(x, y float64) (X, Y, Z float64)

// orientation resolves a face's orientation function once per face; callers
// hold on to the returned value for the duration of a table-generation loop
// rather than re-dispatching on Face per pixel.
func orientation(f Face) orientationFunc {
	switch f {
	case Front:
		return func(x, y float64) (float64, float64, float64) { return -1, -x, -y }
	case Back:
		return func(x, y float64) (float64, float64, float64) { return 1, x, -y }
	case Left:
		return func(x, y float64) (float64, float64, float64) { return -x, 1, -y }
	case Right:
		return func(x, y float64) (float64, float64, float64) { return x, -1, -y }
	case Down:
		return func(x, y float64) (float64, float64, float64) { return y, -x, -1 }
	case Up:
		return func(x, y float64) (float64, float64, float64) { return -y, -x, 1 }
	default:
		panic("cube: unknown face")
	}
}
