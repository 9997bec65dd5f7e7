package plottools

import (
	"errors"
	"fmt"
	"image"
	"os"

	"golang.org/x/image/tiff"
)

// TIFFDecoder decodes 8 and 16 bit RGB(A) TIFFs without GDAL.
type TIFFDecoder struct{}

func (TIFFDecoder) Decode(path string) (tile Tile, err error) {
	f, err := os.Open(path)
	if err != nil {
		return Tile{}, &DecodeError{Path: path, Err: err}
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()

	img, err := tiff.Decode(f)
	if err != nil {
		return Tile{}, &DecodeError{Path: path, Err: err}
	}
	bands, err := splitImage(img)
	if err != nil {
		return Tile{}, &DecodeError{Path: path, Err: err}
	}
	return Tile{Path: path, Bands: bands}, nil
}

// splitImage copies the red, green and blue samples of img into three grids.
// Only layouts that carry the raw samples are accepted; alpha is dropped.
func splitImage(img image.Image) ([]Grid, error) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	bands := []Grid{NewGrid(w, h), NewGrid(w, h), NewGrid(w, h)}

	var pix []uint8
	var stride, depth int
	switch m := img.(type) {
	case *image.RGBA:
		pix, stride, depth = m.Pix, m.Stride, 1
	case *image.NRGBA:
		pix, stride, depth = m.Pix, m.Stride, 1
	case *image.RGBA64:
		pix, stride, depth = m.Pix, m.Stride, 2
	case *image.NRGBA64:
		pix, stride, depth = m.Pix, m.Stride, 2
	case *image.Gray, *image.Gray16, *image.Paletted:
		return nil, errBandCount(1)
	default:
		return nil, fmt.Errorf("unsupported pixel layout %T", img)
	}

	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			off := row*stride + col*4*depth
			for c := 0; c < 3; c++ {
				at := off + c*depth
				var v uint32
				if depth == 1 {
					v = uint32(pix[at])
				} else {
					v = uint32(pix[at])<<8 | uint32(pix[at+1])
				}
				bands[c].Data[row*w+col] = float64(v)
			}
		}
	}
	return bands, nil
}
