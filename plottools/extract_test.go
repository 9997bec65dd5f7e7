package plottools

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func px(r, g, b uint8) [3]uint8 { return [3]uint8{r, g, b} }

// writeScan lays out plots A, B and C under <tmp>/2021-08-08 and returns the
// scan directory.
func writeScan(t *testing.T) string {
	t.Helper()
	scan := filepath.Join(t.TempDir(), "2021-08-08")
	// TGI reduces to g - r whenever r == b.
	writeTile(t, scan, "A", "A_ortho.tif", 2, 2, px(0, 10, 0), px(0, 20, 0), px(0, 30, 0), px(0, 40, 0))
	writeTile(t, scan, "B", "B_ortho.tif", 2, 2, px(100, 0, 100), px(0, 5, 0), px(0, 5, 0), px(0, 8, 0))
	writeTile(t, scan, "C", "C_ortho.tif", 2, 2, px(50, 100, 50), px(50, 100, 50), px(50, 100, 50), px(50, 100, 50))
	return scan
}

func TestExtract(t *testing.T) {
	scan := writeScan(t)
	date := time.Date(2021, 8, 8, 0, 0, 0, 0, time.UTC)
	extractor := Extractor{Decoder: TIFFDecoder{}, Date: date}

	rec, err := extractor.Extract(filepath.Join(scan, "B", "B_ortho.tif"))
	require.NoError(t, err)
	assert.Equal(t, "B", rec.PlotID)
	assert.Equal(t, date, rec.Date)
	assert.Equal(t, 3, rec.Pixels, "the negative pixel is masked")
	assert.InDelta(t, 6.0, rec.Mean, 1e-9)
	assert.InDelta(t, 5.0, rec.Median, 1e-9)
	assert.InDelta(t, 5.0, rec.Q1, 1e-9)
	assert.InDelta(t, 6.5, rec.Q3, 1e-9)
	assert.InDelta(t, 2.0, rec.Variance, 1e-9)
	assert.InDelta(t, math.Sqrt2, rec.StdDev, 1e-9)
}

func TestExtractAllNegative(t *testing.T) {
	dir := t.TempDir()
	path := writeTile(t, dir, "Z", "Z.tif", 1, 1, px(200, 0, 200))

	_, err := Extractor{Decoder: TIFFDecoder{}}.Extract(path)
	assert.True(t, errors.Is(err, ErrEmptyInput), "got %v", err)
	assert.Contains(t, err.Error(), path)
}

func TestEndToEnd(t *testing.T) {
	scan := writeScan(t)

	date, err := ResolveDate(scan)
	require.NoError(t, err)
	paths, err := Discover(scan)
	require.NoError(t, err)
	require.Len(t, paths, 3)

	results, err := Aggregate(context.Background(), paths, AggregateOpts{
		Extractor: Extractor{Decoder: TIFFDecoder{}, Date: date},
		Workers:   2,
	})
	require.NoError(t, err)

	table := results.Table()
	require.Len(t, table.Rows, 3)
	plotCol := table.ColumnIndex(ColPlotID)
	dateCol := table.ColumnIndex(ColDate)
	meanCol := table.ColumnIndex(ColMean)
	varCol := table.ColumnIndex(ColVar)

	wantMean := map[string]float64{"A": 25, "B": 6, "C": 50}
	wantVar := map[string]float64{"A": 125, "B": 2, "C": 0}
	for i, plot := range []string{"A", "B", "C"} {
		row := table.Rows[i]
		assert.Equal(t, plot, row[plotCol].Str)
		assert.Equal(t, "2021-08-08", row[dateCol].Str)
		assert.InDelta(t, wantMean[plot], row[meanCol].Num, 1e-9, "plot %s", plot)
		assert.InDelta(t, wantVar[plot], row[varCol].Num, 1e-9, "plot %s", plot)
	}
	a := results.Records[0]
	assert.InDelta(t, 17.5, a.Q1, 1e-9)
	assert.InDelta(t, 32.5, a.Q3, 1e-9)
	assert.InDelta(t, math.Sqrt(125), a.StdDev, 1e-9)
}
