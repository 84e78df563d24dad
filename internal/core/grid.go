package core

// Point addresses a single grid location.
type Point struct {
	X, Y int
}

// Torus describes a W×H coordinate space whose edges wrap around.
type Torus struct {
	W, H int
}

// NewTorus returns a torus with the given dimensions, clamped to at least 1×1.
func NewTorus(w, h int) Torus {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return Torus{W: w, H: h}
}

// Wrap applies toroidal wrapping to the provided coordinates.
func (t Torus) Wrap(x, y int) (int, int) {
	x = (x%t.W + t.W) % t.W
	y = (y%t.H + t.H) % t.H
	return x, y
}

// Index returns the row-major slice index for (x, y) after wrapping.
func (t Torus) Index(x, y int) int {
	x, y = t.Wrap(x, y)
	return y*t.W + x
}

// Len is the number of locations on the torus.
func (t Torus) Len() int { return t.W * t.H }

var vonNeumannOffsets = [4]Point{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}

// VonNeumann returns the four axis-aligned neighbors of (x, y).
func (t Torus) VonNeumann(x, y int) [4]Point {
	var out [4]Point
	for i, d := range vonNeumannOffsets {
		nx, ny := t.Wrap(x+d.X, y+d.Y)
		out[i] = Point{nx, ny}
	}
	return out
}

// Moore returns the eight surrounding neighbors of (x, y), excluding the center.
// On very small tori a neighbor may repeat.
func (t Torus) Moore(x, y int) [8]Point {
	var out [8]Point
	i := 0
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			nx, ny := t.Wrap(x+dx, y+dy)
			out[i] = Point{nx, ny}
			i++
		}
	}
	return out
}

// Ring returns the locations at Chebyshev distance r from (x, y). Ring(…, 0)
// is the center itself. Duplicates produced by wrapping on small tori are
// removed.
func (t Torus) Ring(x, y, r int) []Point {
	if r <= 0 {
		cx, cy := t.Wrap(x, y)
		return []Point{{cx, cy}}
	}
	seen := make(map[Point]struct{}, 8*r)
	out := make([]Point, 0, 8*r)
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if max(abs(dx), abs(dy)) != r {
				continue
			}
			nx, ny := t.Wrap(x+dx, y+dy)
			p := Point{nx, ny}
			if _, dup := seen[p]; dup {
				continue
			}
			seen[p] = struct{}{}
			out = append(out, p)
		}
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// ByteGrid stores a 2D grid of byte-sized cell values in row-major order.
type ByteGrid struct {
	Torus
	data []uint8
}

// NewByteGrid allocates a grid with the given dimensions.
func NewByteGrid(w, h int) *ByteGrid {
	t := NewTorus(w, h)
	return &ByteGrid{Torus: t, data: make([]uint8, t.Len())}
}

// Cells exposes the backing slice so callers can read/write values directly.
func (g *ByteGrid) Cells() []uint8 { return g.data }
