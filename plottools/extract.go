package plottools

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
)

// StatRecord is the result for one plot tile.
type StatRecord struct {
	Date   time.Time
	PlotID string
	Path   string
	Pixels int
	Stats
}

// Extractor runs the per-tile pipeline. Date is resolved once per run and
// copied into every record.
type Extractor struct {
	Decoder Decoder
	Date    time.Time
}

func (e Extractor) Extract(path string) (StatRecord, error) {
	tile, err := e.Decoder.Decode(path)
	if err != nil {
		return StatRecord{}, err
	}

	red, green, blue, err := tile.RGB()
	if err != nil {
		return StatRecord{}, err
	}

	tgi, err := TGI(red, green, blue)
	if err != nil {
		return StatRecord{}, &DecodeError{Path: path, Err: err}
	}

	stats, n, err := Reduce(MaskNegative(tgi))
	if err != nil {
		return StatRecord{}, fmt.Errorf("%s: %w", path, err)
	}
	logrus.Debugf("Reduced %s over %d of %d pixels", path, n, len(tgi.Data))

	return StatRecord{
		Date:   e.Date,
		PlotID: PlotID(path),
		Path:   path,
		Pixels: n,
		Stats:  stats,
	}, nil
}

// PlotID is the name of the directory holding the tile.
func PlotID(path string) string {
	return filepath.Base(filepath.Dir(path))
}
