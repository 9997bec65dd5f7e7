package plottools

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/airbusgeo/godal"
)

// setUpRaster writes a 2x2 GTiff with one band of dataType per buffer.
func setUpRaster(t testing.TB, dataType godal.DataType, bufs ...[]byte) string {
	godal.RegisterAll()
	t.Helper()

	dsFile := filepath.Join(t.TempDir(), "plot", "tile.tif")
	if err := os.MkdirAll(filepath.Dir(dsFile), 0o755); err != nil {
		t.Fatal(err)
	}

	ds, err := godal.Create(
		godal.GTiff,
		dsFile,
		len(bufs),
		dataType,
		2,
		2,
		godal.CreationOption("TILED=YES", "BLOCKXSIZE=16", "BLOCKYSIZE=16"),
	)
	if err != nil {
		t.Fatal(err)
	}
	bands := ds.Bands()
	for i, buf := range bufs {
		if err := bands[i].Write(0, 0, buf, 2, 2); err != nil {
			t.Fatal(err)
		}
	}
	if err := ds.Close(); err != nil {
		t.Fatal(err)
	}
	return dsFile
}

func TestGDALDecoder(t *testing.T) {
	path := setUpRaster(t, godal.Byte,
		[]byte{1, 2, 3, 4},
		[]byte{10, 20, 30, 40},
		[]byte{100, 110, 120, 130},
		[]byte{255, 255, 255, 255},
	)

	tile, err := GDALDecoder{}.Decode(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(tile.Bands) != 3 {
		t.Fatalf("got %d bands, want alpha dropped to 3", len(tile.Bands))
	}
	want := [][]float64{{1, 2, 3, 4}, {10, 20, 30, 40}, {100, 110, 120, 130}}
	for i, band := range tile.Bands {
		if band.Width != 2 || band.Height != 2 {
			t.Errorf("band %d: got %dx%d, want 2x2", i, band.Width, band.Height)
		}
		for pix := range want[i] {
			if band.Data[pix] != want[i][pix] {
				t.Errorf("band %d pixel %d: got %v, want %v", i, pix, band.Data[pix], want[i][pix])
			}
		}
	}
}

func TestGDALDecoderTooFewBands(t *testing.T) {
	path := setUpRaster(t, godal.Byte, []byte{1, 2, 3, 4}, []byte{1, 2, 3, 4})

	_, err := GDALDecoder{}.Decode(path)
	var decErr *DecodeError
	if !errors.As(err, &decErr) {
		t.Fatalf("got %v, want DecodeError", err)
	}
	if decErr.Path != path {
		t.Errorf("got path %s, want %s", decErr.Path, path)
	}
}

func TestGDALDecoderFloatBands(t *testing.T) {
	buf := []byte{0, 1, 2, 3}
	path := setUpRaster(t, godal.Float32, buf, buf, buf)

	_, err := GDALDecoder{}.Decode(path)
	var decErr *DecodeError
	if !errors.As(err, &decErr) {
		t.Fatalf("got %v, want DecodeError for float bands", err)
	}
}

func TestGDALDecoderUnreadable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.tif")
	if err := os.WriteFile(path, []byte("garbage"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := GDALDecoder{}.Decode(path)
	var decErr *DecodeError
	if !errors.As(err, &decErr) {
		t.Fatalf("got %v, want DecodeError", err)
	}
}
