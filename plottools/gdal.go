package plottools

import (
	"errors"
	"fmt"
	"sync"

	"github.com/airbusgeo/godal"
	"github.com/sirupsen/logrus"
)

// Decoder turns a file into a Tile.
type Decoder interface {
	Decode(path string) (Tile, error)
}

var registerOnce sync.Once

// GDALDecoder reads tiles through GDAL. Each call opens its own dataset, so a
// single decoder can be shared by every worker.
type GDALDecoder struct{}

func (GDALDecoder) Decode(path string) (tile Tile, err error) {
	registerOnce.Do(godal.RegisterAll)

	ds, err := godal.Open(path)
	if err != nil {
		logrus.Error(err)
		return Tile{}, &DecodeError{Path: path, Err: err}
	}
	defer func() {
		if cerr := ds.Close(); cerr != nil {
			err = errors.Join(err, &DecodeError{Path: path, Err: cerr})
		}
	}()

	bands := ds.Bands()
	if len(bands) < 3 {
		return Tile{}, &DecodeError{Path: path, Err: errBandCount(len(bands))}
	}

	tile = Tile{Path: path, Bands: make([]Grid, 0, 3)}
	for i, band := range bands[:3] {
		grid, err := readBand(band)
		if err != nil {
			return Tile{}, &DecodeError{Path: path, Err: fmt.Errorf("band %d: %w", i+1, err)}
		}
		tile.Bands = append(tile.Bands, grid)
	}
	logrus.Debugf("Decoded %s: %dx%d, %d bands", path, tile.Bands[0].Width, tile.Bands[0].Height, len(bands))
	return tile, nil
}

// readBand reads a whole band into float64 so that narrow integer types
// cannot overflow in the index arithmetic.
func readBand(band godal.Band) (Grid, error) {
	struc := band.Structure()
	switch struc.DataType {
	case godal.Byte, godal.UInt16, godal.UInt32:
	default:
		return Grid{}, fmt.Errorf("unsupported sample type %s, want an unsigned integer type", struc.DataType)
	}

	grid := NewGrid(struc.SizeX, struc.SizeY)
	if err := band.Read(0, 0, grid.Data, struc.SizeX, struc.SizeY); err != nil {
		return Grid{}, err
	}
	return grid, nil
}
