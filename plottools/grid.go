package plottools

import "math"

// Grid is a row-major 2D array of float64 values. NaN marks an invalid pixel.
type Grid struct {
	Width  int
	Height int
	Data   []float64
}

// NewGrid allocates a zeroed grid of the given size.
func NewGrid(width, height int) Grid {
	return Grid{Width: width, Height: height, Data: make([]float64, width*height)}
}

func (g Grid) sameShape(other Grid) bool {
	return g.Width == other.Width && g.Height == other.Height
}

// Valid returns the non-NaN values in row-major order.
func (g Grid) Valid() []float64 {
	out := make([]float64, 0, len(g.Data))
	for _, v := range g.Data {
		if math.IsNaN(v) {
			continue
		}
		out = append(out, v)
	}
	return out
}

// Tile is a decoded plot image. Bands 0, 1 and 2 are red, green and blue.
type Tile struct {
	Path  string
	Bands []Grid
}

// RGB returns the first three bands, dropping alpha or anything after it.
func (t Tile) RGB() (red, green, blue Grid, err error) {
	if len(t.Bands) < 3 {
		return Grid{}, Grid{}, Grid{}, &DecodeError{Path: t.Path, Err: errBandCount(len(t.Bands))}
	}
	return t.Bands[0], t.Bands[1], t.Bands[2], nil
}
