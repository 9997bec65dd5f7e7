package plottools

import "math"

// Channel weights of the Triangular Greenness Index.
const (
	RedWeight  = 0.39
	BlueWeight = 0.61
)

// TGI computes green - 0.39*red - 0.61*blue for every pixel. Bands must share
// a shape; they are never broadcast.
func TGI(red, green, blue Grid) (Grid, error) {
	for _, band := range []Grid{red, green, blue} {
		if !red.sameShape(band) || len(band.Data) != red.Width*red.Height {
			return Grid{}, &ShapeError{
				Want: [2]int{red.Width, red.Height},
				Got:  [2]int{band.Width, band.Height},
			}
		}
	}

	out := NewGrid(red.Width, red.Height)
	for pix := range out.Data {
		out.Data[pix] = green.Data[pix] - RedWeight*red.Data[pix] - BlueWeight*blue.Data[pix]
	}
	return out, nil
}

// MaskNegative returns a copy of g with every value below zero set to NaN.
// Negative greenness is treated as noise.
func MaskNegative(g Grid) Grid {
	out := Grid{Width: g.Width, Height: g.Height, Data: make([]float64, len(g.Data))}
	for pix, v := range g.Data {
		if v < 0 {
			out.Data[pix] = math.NaN()
			continue
		}
		out.Data[pix] = v
	}
	return out
}
